package database

import (
	"log"

	"github.com/regalenterprisesin/regal-jan-seva-erp-app/internal/config"
	"github.com/regalenterprisesin/regal-jan-seva-erp-app/internal/models"
	"github.com/regalenterprisesin/regal-jan-seva-erp-app/internal/store"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
)

// Seed provisions the first-run defaults: an admin user, a starter
// service catalog and the settings singleton. Each collection is only
// touched when it is empty, so reruns are harmless.
func Seed(
	users *store.Store[models.User],
	services *store.Store[models.Service],
	settings *store.SettingsStore,
	cfg *config.Config,
) {
	if len(users.All()) == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("Failed to hash admin password: %v", err)
		} else {
			admin := models.User{
				ID:           uuid.NewString(),
				Username:     cfg.AdminUsername,
				PasswordHash: string(hash),
				Role:         models.RoleAdmin,
				Privileges: datatypes.JSONSlice[string]{
					models.PrivBilling, models.PrivInventory,
					models.PrivReports, models.PrivBackup, models.PrivUsers,
				},
			}
			if err := users.Save(&admin); err != nil {
				log.Printf("Failed to seed admin user: %v", err)
			} else {
				log.Println("✅ Admin user seeded")
			}
		}
	}

	if len(services.All()) == 0 {
		defaults := []models.Service{
			{Name: "Aadhaar Card Print", Description: "Colour print of e-Aadhaar on PVC", BasePrice: 50, Category: "Government"},
			{Name: "PAN Card Application", Description: "New PAN application (NSDL)", BasePrice: 150, Category: "Government"},
			{Name: "Passport Photo", Description: "8 copies, instant", BasePrice: 60, Category: "Photo"},
			{Name: "Xerox (per page)", Description: "Black and white photocopy", BasePrice: 2, Category: "Print"},
			{Name: "Lamination (A4)", Description: "Hot lamination, A4 size", BasePrice: 20, Category: "Print"},
		}
		for i := range defaults {
			defaults[i].ID = uuid.NewString()
			if err := services.Save(&defaults[i]); err != nil {
				log.Printf("Failed to seed service %s: %v", defaults[i].Name, err)
			}
		}
		log.Println("✅ Default service catalog seeded")
	}

	if _, ok := settings.Get(); !ok {
		if err := settings.Save(models.CompanySettings{CompanyName: cfg.CompanyName}); err != nil {
			log.Printf("Failed to seed company settings: %v", err)
		}
	}
}
