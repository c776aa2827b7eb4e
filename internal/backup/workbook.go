// Package backup moves the full set of entity collections in and out of a
// single .xlsx workbook: one sheet per entity table, one row per record.
// Both directions go through the synchronizing record stores, so a restore
// follows the exact same write path as any UI edit (best-effort cloud,
// guaranteed local).
package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"time"

	"github.com/regalenterprisesin/regal-jan-seva-erp-app/internal/models"
	"github.com/regalenterprisesin/regal-jan-seva-erp-app/internal/store"

	"github.com/xuri/excelize/v2"
	"gorm.io/datatypes"
)

// ErrUnknownWorkbook rejects uploads with no recognizable sheet before a
// single row is written.
var ErrUnknownWorkbook = errors.New("workbook contains no recognized sheets")

// Bridge bundles every store the export/import touches.
type Bridge struct {
	Users     *store.Store[models.User]
	Customers *store.Store[models.Customer]
	Services  *store.Store[models.Service]
	Jobs      *store.Store[models.Job]
	Inventory *store.Store[models.InventoryItem]
	Settings  *store.SettingsStore
}

const timeLayout = time.RFC3339

// Export serializes every collection into one workbook and returns the
// file bytes plus a UTC date-stamped filename.
func (b *Bridge) Export() ([]byte, string, error) {
	f := excelize.NewFile()
	defer f.Close()

	// The default sheet becomes the first entity sheet
	f.SetSheetName(f.GetSheetName(0), "users")

	writeSheet(f, "users", []string{"id", "username", "email", "password_hash", "role", "privileges", "created_at"},
		b.Users.All(), func(u models.User) []interface{} {
			return []interface{}{u.ID, u.Username, u.Email, u.PasswordHash, u.Role, asJSON(u.Privileges), u.CreatedAt.UTC().Format(timeLayout)}
		})

	writeSheet(f, "customers", []string{"id", "name", "phone", "aadhaar_number", "address", "created_at"},
		b.Customers.All(), func(c models.Customer) []interface{} {
			return []interface{}{c.ID, c.Name, c.Phone, c.AadhaarNumber, c.Address, c.CreatedAt.UTC().Format(timeLayout)}
		})

	writeSheet(f, "services", []string{"id", "name", "description", "base_price", "category"},
		b.Services.All(), func(s models.Service) []interface{} {
			return []interface{}{s.ID, s.Name, s.Description, s.BasePrice, s.Category}
		})

	writeSheet(f, "jobs", []string{"id", "customer_id", "items", "status", "payment_status", "discount", "total_amount", "paid_amount", "balance", "notes", "created_at"},
		b.Jobs.All(), func(j models.Job) []interface{} {
			return []interface{}{j.ID, j.CustomerID, asJSON(j.Items), j.Status, j.PaymentStatus, j.Discount, j.TotalAmount, j.PaidAmount, j.Balance, j.Notes, j.CreatedAt.UTC().Format(timeLayout)}
		})

	writeSheet(f, "inventory_items", []string{"id", "name", "quantity", "unit", "min_stock", "category"},
		b.Inventory.All(), func(i models.InventoryItem) []interface{} {
			return []interface{}{i.ID, i.Name, i.Quantity, i.Unit, i.MinStock, i.Category}
		})

	// Settings is a one-row sheet
	var settingsRows []models.CompanySettings
	if s, ok := b.Settings.Get(); ok {
		settingsRows = append(settingsRows, s)
	}
	writeSheet(f, "settings", []string{"id", "company_name", "mobile_number", "address", "owner_name", "email", "website"},
		settingsRows, func(s models.CompanySettings) []interface{} {
			return []interface{}{s.ID, s.CompanyName, s.MobileNumber, s.Address, s.OwnerName, s.Email, s.Website}
		})

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("jan-seva-backup-%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

// Import parses an uploaded workbook and feeds every recognized row back
// through the stores. Rows with missing columns are defaulted, never
// dropped; a row whose save fails is logged and the batch keeps going.
// Returns the number of rows written.
func (b *Bridge) Import(r io.Reader) (int, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return 0, fmt.Errorf("could not read workbook: %w", err)
	}
	defer f.Close()

	recognized := map[string]bool{
		"users": true, "customers": true, "services": true,
		"jobs": true, "inventory_items": true, "settings": true,
	}

	// Reject before any write if nothing in the file is ours
	known := 0
	for _, name := range f.GetSheetList() {
		if recognized[name] {
			known++
		}
	}
	if known == 0 {
		return 0, ErrUnknownWorkbook
	}

	imported := 0

	forEachRow(f, "users", func(row rowReader) {
		user := models.User{
			ID:           row.str("id"),
			Username:     row.str("username"),
			Email:        row.str("email"),
			PasswordHash: row.str("password_hash"),
			Role:         row.str("role"),
			CreatedAt:    row.time("created_at"),
		}
		var privs []string
		json.Unmarshal([]byte(row.str("privileges")), &privs)
		user.Privileges = datatypes.JSONSlice[string](privs)
		if saveRow(b.Users.Save(&user), "users") {
			imported++
		}
	})

	forEachRow(f, "customers", func(row rowReader) {
		customer := models.Customer{
			ID:            row.str("id"),
			Name:          row.str("name"),
			Phone:         row.str("phone"),
			AadhaarNumber: row.str("aadhaar_number"),
			Address:       row.str("address"),
			CreatedAt:     row.time("created_at"),
		}
		if saveRow(b.Customers.Save(&customer), "customers") {
			imported++
		}
	})

	forEachRow(f, "services", func(row rowReader) {
		service := models.Service{
			ID:          row.str("id"),
			Name:        row.str("name"),
			Description: row.str("description"),
			BasePrice:   row.float("base_price"),
			Category:    row.str("category"),
		}
		if saveRow(b.Services.Save(&service), "services") {
			imported++
		}
	})

	forEachRow(f, "jobs", func(row rowReader) {
		job := models.Job{
			ID:         row.str("id"),
			CustomerID: row.str("customer_id"),
			Discount:   row.float("discount"),
			PaidAmount: row.float("paid_amount"),
			Notes:      row.str("notes"),
			CreatedAt:  row.time("created_at"),
		}
		json.Unmarshal([]byte(row.str("items")), &job.Items)
		// Recompute instead of trusting the persisted aggregates
		models.DeriveAggregates(&job)
		if saveRow(b.Jobs.Save(&job), "jobs") {
			imported++
		}
	})

	forEachRow(f, "inventory_items", func(row rowReader) {
		item := models.InventoryItem{
			ID:       row.str("id"),
			Name:     row.str("name"),
			Quantity: row.int("quantity"),
			Unit:     row.str("unit"),
			MinStock: row.int("min_stock"),
			Category: row.str("category"),
		}
		if saveRow(b.Inventory.Save(&item), "inventory_items") {
			imported++
		}
	})

	// Settings: the singleton is replaced wholesale from the first data row
	first := true
	forEachRow(f, "settings", func(row rowReader) {
		if !first {
			return
		}
		first = false
		settings := models.CompanySettings{
			CompanyName:  row.str("company_name"),
			MobileNumber: row.str("mobile_number"),
			Address:      row.str("address"),
			OwnerName:    row.str("owner_name"),
			Email:        row.str("email"),
			Website:      row.str("website"),
		}
		if saveRow(b.Settings.Save(settings), "settings") {
			imported++
		}
	})

	return imported, nil
}

// --- sheet plumbing ---

func writeSheet[T any](f *excelize.File, name string, header []string, records []T, toRow func(T) []interface{}) {
	f.NewSheet(name) // no-op when the sheet already exists
	for col, h := range header {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(name, cell, h)
	}
	for i, record := range records {
		for col, v := range toRow(record) {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			f.SetCellValue(name, cell, v)
		}
	}
}

// rowReader resolves a named column for one row, defaulting when the
// column is missing from the uploaded file (accept-and-coerce policy).
type rowReader struct {
	cols map[string]int
	row  []string
}

func (r rowReader) str(col string) string {
	idx, ok := r.cols[col]
	if !ok || idx >= len(r.row) {
		return ""
	}
	return r.row[idx]
}

func (r rowReader) float(col string) float64 {
	v, _ := strconv.ParseFloat(r.str(col), 64)
	return v
}

func (r rowReader) int(col string) int {
	v, _ := strconv.Atoi(r.str(col))
	return v
}

func (r rowReader) time(col string) time.Time {
	t, _ := time.Parse(timeLayout, r.str(col))
	return t
}

func forEachRow(f *excelize.File, sheet string, handle func(rowReader)) {
	rows, err := f.GetRows(sheet)
	if err != nil || len(rows) < 2 {
		return // sheet absent or header-only
	}
	cols := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		cols[h] = i
	}
	for _, row := range rows[1:] {
		handle(rowReader{cols: cols, row: row})
	}
}

func saveRow(err error, sheet string) bool {
	if err != nil {
		log.Printf("Restore: row in %s failed to save: %v", sheet, err)
		return false
	}
	return true
}

func asJSON(v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}
