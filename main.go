package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/lebonmot/reviews-backend/database"
	"github.com/lebonmot/reviews-backend/internal/jobs"
	"github.com/lebonmot/reviews-backend/internal/models"
	"github.com/lebonmot/reviews-backend/internal/routes"
	"github.com/lebonmot/reviews-backend/internal/services"
	"github.com/lebonmot/reviews-backend/internal/storage"
)

func main() {
	// Load .env file for local development
	if os.Getenv("INSTANCE_CONNECTION_NAME") == "" {
		if err := godotenv.Load(".env"); err != nil {
			log.Println("⚠️ No .env file found - checking environment variables")
		}
	}

	validateEnvironment()

	// Initialize storage
	var store storage.Store

	if os.Getenv("USE_MEMORY_STORE") == "true" {
		log.Println("⚠️ Using in-memory storage (not for production!)")
		store = storage.NewMemoryStore()
	} else {
		log.Println("📦 Connecting to PostgreSQL database...")
		database.Connect()

		log.Println("🔄 Running database migrations...")
		err := database.DB.AutoMigrate(
			&models.Client{},
			&models.Order{},
			&models.Review{},
			&models.Worker{},
			&models.Task{},
			&models.SupportMessage{},
		)
		if err != nil {
			log.Fatal("Failed to migrate database:", err)
		}
		log.Println("✅ Database migrations completed!")

		store = storage.NewDatabaseStore(database.DB)
		log.Println("✅ Using PostgreSQL database storage")
	}
	storage.SetStore(store)

	// Outbound transport: Twilio in production, console sink without creds
	var sender services.Sender
	twilioService, err := services.NewTwilioService()
	if err != nil {
		log.Printf("⚠️ Twilio not configured, using console sender: %v", err)
		sender = services.ConsoleSender{}
	} else {
		sender = twilioService
		log.Println("✅ Twilio service initialized")
	}

	// Conversation pipeline
	sessions := services.NewSessionStore()
	engine := services.NewOrderFlowEngine(store, sessions)
	bridge := services.NewNotificationBridge()
	runtime := services.NewConversationRuntime(engine, bridge, sender)
	runtime.Start()

	// Scheduled backups
	backupDir := os.Getenv("BACKUP_DIR")
	if backupDir == "" {
		backupDir = "backups"
	}
	backupJob := jobs.NewBackupJob(store, backupDir)
	backupJob.Start()

	// Create fiber app
	app := fiber.New(fiber.Config{
		AppName: "Le Bon Mot Backend v1.0.0",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	routes.SetupRoutes(app, store, runtime, bridge, sessions)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Handle graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("\n🛑 Gracefully shutting down...")
		log.Println("⏹️ Stopping backup job...")
		backupJob.Stop()
		log.Println("⏹️ Stopping conversation runtime...")
		runtime.Stop()
		log.Println("⏹️ Shutting down server...")
		_ = app.Shutdown()
	}()

	log.Println("========================================")
	log.Printf("🚀 Le Bon Mot Backend starting on port %s", port)
	log.Printf("📊 Storage: %s", storageType())
	log.Printf("🌍 Environment: %s", environment())
	log.Printf("📱 WhatsApp: %s", whatsappStatus())
	log.Println("========================================")

	log.Fatal(app.Listen(":" + port))
}

// validateEnvironment stops the process when secrets required for the admin
// API are absent. Twilio credentials are optional in development.
func validateEnvironment() {
	for _, key := range []string{"ADMIN_PASSWORD", "ADMIN_SECRET_KEY"} {
		if os.Getenv(key) == "" {
			log.Fatalf("Missing required environment variable: %s", key)
		}
	}

	for _, key := range []string{"TWILIO_ACCOUNT_SID", "TWILIO_AUTH_TOKEN", "TWILIO_WHATSAPP_FROM"} {
		if os.Getenv(key) == "" {
			log.Printf("⚠️ %s not set - WhatsApp delivery will be limited", key)
		}
	}
}

func environment() string {
	if os.Getenv("INSTANCE_CONNECTION_NAME") != "" {
		return "Production (Cloud Run)"
	}
	return "Development (Local)"
}

func storageType() string {
	if os.Getenv("USE_MEMORY_STORE") == "true" {
		return "In-Memory (Testing)"
	}
	return "PostgreSQL Database"
}

func whatsappStatus() string {
	if os.Getenv("TWILIO_ACCOUNT_SID") == "" {
		return "Not configured (console sender)"
	}
	return "Configured"
}
