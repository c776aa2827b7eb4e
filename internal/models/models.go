package models

import (
	"time"

	"gorm.io/datatypes"
)

// Every record carries a caller-assigned string ID (uuid). The same struct
// is migrated into BOTH the cloud MySQL and the local SQLite mirror, so the
// two backends always share one shape.

// Role controls which route groups a user can reach
const (
	RoleAdmin   = "ADMIN"
	RoleManager = "MANAGER"
	RoleStaff   = "STAFF"
)

// Privilege flags control feature visibility in the frontend
const (
	PrivBilling   = "BILLING"
	PrivInventory = "INVENTORY"
	PrivReports   = "REPORTS"
	PrivBackup    = "BACKUP"
	PrivUsers     = "USERS"
)

// User - The person operating the centre
type User struct {
	ID           string                      `gorm:"primaryKey;size:64" json:"id"`
	Username     string                      `gorm:"uniqueIndex;size:50" json:"username"`
	Email        string                      `gorm:"size:100" json:"email"`
	PasswordHash string                      `json:"-"` // Never return this in JSON
	Role         string                      `gorm:"size:20" json:"role"` // ADMIN / MANAGER / STAFF
	Privileges   datatypes.JSONSlice[string] `json:"privileges"`
	CreatedAt    time.Time                   `json:"created_at"`
	UpdatedAt    time.Time                   `json:"updated_at"`
}

func (User) TableName() string { return "users" }

// HasPrivilege checks the user's feature flags (admins see everything)
func (u *User) HasPrivilege(p string) bool {
	if u.Role == RoleAdmin {
		return true
	}
	for _, have := range u.Privileges {
		if have == p {
			return true
		}
	}
	return false
}

// Customer - A walk-in client of the centre
type Customer struct {
	ID            string    `gorm:"primaryKey;size:64" json:"id"`
	Name          string    `gorm:"size:100" json:"name"`
	Phone         string    `gorm:"size:15" json:"phone"`
	AadhaarNumber string    `gorm:"size:12" json:"aadhaar_number"` // exactly 12 digits when present
	Address       string    `gorm:"type:text" json:"address"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Customer) TableName() string { return "customers" }

// Service - A catalog entry (Aadhaar print, PAN application, xerox...)
type Service struct {
	ID          string    `gorm:"size:64;primaryKey" json:"id"`
	Name        string    `gorm:"size:100" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	BasePrice   float64   `json:"base_price"` // non-negative
	Category    string    `gorm:"size:50" json:"category"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Service) TableName() string { return "services" }

// Job / payment statuses
const (
	JobPending    = "PENDING"
	JobInProgress = "IN_PROGRESS"
	JobCompleted  = "COMPLETED"
	JobCancelled  = "CANCELLED"

	PaymentUnpaid  = "UNPAID"
	PaymentPartial = "PARTIAL"
	PaymentPaid    = "PAID"
)

// JobItem - one line of a job. Items live inside the Job row as a JSON
// column: they are positional, never addressed on their own.
type JobItem struct {
	ServiceID   string  `json:"service_id"`
	ServiceName string  `json:"service_name"`
	Quantity    int     `json:"quantity"` // positive
	UnitPrice   float64 `json:"unit_price"`
	Discount    float64 `json:"discount"`
	Subtotal    float64 `json:"subtotal"` // qty*unitPrice - discount, floored at 0
	Status      string  `json:"status"`   // mirrors job status values
}

// Job - The invoice / work order aggregate. The derived fields
// (Status, PaymentStatus, TotalAmount, Balance) are persisted redundantly
// and must only ever come out of DeriveAggregates.
type Job struct {
	ID            string    `gorm:"primaryKey;size:64" json:"id"`
	CustomerID    string    `gorm:"size:64;index" json:"customer_id"`
	Items         []JobItem `gorm:"serializer:json" json:"items"`
	Status        string    `gorm:"size:20" json:"status"`
	PaymentStatus string    `gorm:"size:20" json:"payment_status"`
	Discount      float64   `json:"discount"` // job-level, on top of line discounts
	TotalAmount   float64   `json:"total_amount"`
	PaidAmount    float64   `json:"paid_amount"`
	Balance       float64   `json:"balance"`
	Notes         string    `gorm:"type:text" json:"notes"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Job) TableName() string { return "jobs" }

// InventoryItem - Consumables of the centre (paper, ink, laminating pouches)
type InventoryItem struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	Name      string    `gorm:"size:100" json:"name"`
	Quantity  int       `json:"quantity"`
	Unit      string    `gorm:"size:20" json:"unit"`
	MinStock  int       `json:"min_stock"`
	Category  string    `gorm:"size:50" json:"category"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (InventoryItem) TableName() string { return "inventory_items" }

// IsLowStock: quantity at or below the minimum threshold
func (i *InventoryItem) IsLowStock() bool { return i.Quantity <= i.MinStock }

// SettingsID is the fixed key of the settings singleton.
const SettingsID = "current_config"

// CompanySettings - Singleton. Save always targets SettingsID.
type CompanySettings struct {
	ID           string    `gorm:"primaryKey;size:64" json:"id"`
	CompanyName  string    `gorm:"size:100" json:"company_name"`
	MobileNumber string    `gorm:"size:15" json:"mobile_number"`
	Address      string    `gorm:"type:text" json:"address"`
	OwnerName    string    `gorm:"size:100" json:"owner_name"`
	Email        string    `gorm:"size:100" json:"email"`
	Website      string    `gorm:"size:100" json:"website"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (CompanySettings) TableName() string { return "settings" }
