package main

import (
	"log"
	"time"

	"github.com/regalenterprisesin/regal-jan-seva-erp-app/internal/auth"
	"github.com/regalenterprisesin/regal-jan-seva-erp-app/internal/backup"
	"github.com/regalenterprisesin/regal-jan-seva-erp-app/internal/config"
	"github.com/regalenterprisesin/regal-jan-seva-erp-app/internal/database"
	"github.com/regalenterprisesin/regal-jan-seva-erp-app/internal/handlers"
	"github.com/regalenterprisesin/regal-jan-seva-erp-app/internal/middleware"
	"github.com/regalenterprisesin/regal-jan-seva-erp-app/internal/models"
	"github.com/regalenterprisesin/regal-jan-seva-erp-app/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found")
	}
	cfg := config.Load()

	// --- Persistence: local mirror + optional cloud backend ---
	local := store.OpenLocal(cfg.LocalDBPath)
	remote := store.ConnectRemote(cfg)

	users := store.NewStore[models.User]("users", remote, local)
	customers := store.NewStore[models.Customer]("customers", remote, local)
	services := store.NewStore[models.Service]("services", remote, local)
	jobs := store.NewStore[models.Job]("jobs", remote, local)
	inventory := store.NewStore[models.InventoryItem]("inventory_items", remote, local)
	settings := store.NewSettingsStore(remote, local)

	database.Seed(users, services, settings, cfg)

	// Cloud change feed: log table-level invalidations. UI clients poll
	// the collections again when they see these.
	for _, table := range []string{"users", "customers", "services", "jobs", "inventory_items", "settings"} {
		t := table
		remote.Watch(t, func() {
			log.Printf("☁️ Cloud change detected on %s", t)
		})
	}

	tokens := auth.NewTokens(cfg.JWTSecret)
	gate := auth.NewSessionGate(users, local)

	bridge := &backup.Bridge{
		Users:     users,
		Customers: customers,
		Services:  services,
		Jobs:      jobs,
		Inventory: inventory,
		Settings:  settings,
	}

	authHandler := &handlers.AuthHandler{Gate: gate, Tokens: tokens, Users: users}
	customerHandler := &handlers.CustomerHandler{Customers: customers}
	serviceHandler := &handlers.ServiceHandler{Services: services}
	jobHandler := &handlers.JobHandler{Jobs: jobs}
	inventoryHandler := &handlers.InventoryHandler{Inventory: inventory}
	settingsHandler := &handlers.SettingsHandler{Settings: settings}
	userHandler := &handlers.UserHandler{Users: users}
	reportHandler := &handlers.ReportHandler{Jobs: jobs, Inventory: inventory}
	systemHandler := &handlers.SystemHandler{Remote: remote, Local: local, Bridge: bridge}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173"}, // Allow React dev server
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "online"}) })
	r.POST("/login", authHandler.Login)

	// --- FEATURE FLAG: Admin Registration ---
	// Only opens if we explicitly allow it in .env
	if cfg.AllowRegistration {
		r.POST("/register", authHandler.Register)
		log.Println("⚠️ WARNING: Registration route is OPEN. Disable this in production!")
	} else {
		log.Println("🔒 Registration route is safely DISABLED.")
	}

	// --- PROTECTED ROUTES ---
	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware(tokens))
	{
		api.GET("/session", authHandler.Session)
		api.POST("/logout", authHandler.Logout)

		api.GET("/customers", customerHandler.List)
		api.POST("/customers", customerHandler.Save)
		api.DELETE("/customers/:id", customerHandler.Delete)

		api.GET("/services", serviceHandler.List)
		api.POST("/services", serviceHandler.Save)
		api.DELETE("/services/:id", serviceHandler.Delete)

		api.GET("/jobs", jobHandler.List)
		api.POST("/jobs", jobHandler.Save)
		api.DELETE("/jobs/:id", jobHandler.Delete)

		api.GET("/inventory", inventoryHandler.List)
		api.GET("/inventory/low-stock", inventoryHandler.LowStock)
		api.POST("/inventory", middleware.RequirePrivilege(users, models.PrivInventory), inventoryHandler.Save)
		api.DELETE("/inventory/:id", middleware.RequirePrivilege(users, models.PrivInventory), inventoryHandler.Delete)

		api.GET("/settings", settingsHandler.Get)

		api.GET("/system/status", systemHandler.Status)

		// ADMIN ONLY
		admin := api.Group("/")
		admin.Use(middleware.RequireRole(models.RoleAdmin))
		{
			admin.GET("/users", userHandler.List)
			admin.POST("/users", userHandler.Save)
			admin.DELETE("/users/:id", userHandler.Delete)

			admin.PUT("/settings", settingsHandler.Save)

			admin.GET("/reports", reportHandler.Business)
			admin.GET("/reports/stock", reportHandler.Stock)

			admin.GET("/system/backup", systemHandler.Backup)
			admin.POST("/system/restore", systemHandler.Restore)
		}
	}

	log.Println("🚀 Server starting on port " + cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatal("Server failed to start:", err)
	}
}
