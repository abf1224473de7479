package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/Rainita-06/hotel-sub001/database"
	"github.com/Rainita-06/hotel-sub001/internal/jobs"
	"github.com/Rainita-06/hotel-sub001/internal/models"
	"github.com/Rainita-06/hotel-sub001/internal/routes"
	"github.com/Rainita-06/hotel-sub001/internal/services"
	"github.com/Rainita-06/hotel-sub001/internal/storage"
)

func main() {
	// Load .env file for local development
	if os.Getenv("INSTANCE_CONNECTION_NAME") == "" {
		err := godotenv.Load(".env")
		if err != nil {
			err = godotenv.Load("environments/.env.development")
			if err != nil {
				log.Println("⚠️  No .env file found - checking environment variables")
			}
		}
	}

	// Get Twilio credentials
	twilioAccountSID := os.Getenv("TWILIO_ACCOUNT_SID")
	if twilioAccountSID == "" || os.Getenv("TWILIO_AUTH_TOKEN") == "" {
		log.Println("⚠️  Twilio credentials not found - WhatsApp features will be limited")
	}

	// Initialize storage
	var store storage.Store

	if os.Getenv("USE_MEMORY_STORE") == "true" {
		log.Println("⚠️  Using in-memory storage (not for production!)")
		store = storage.NewMemoryStore()
	} else {
		log.Println("📦 Connecting to PostgreSQL database...")
		database.Connect()

		log.Println("🔄 Running database migrations...")
		err := database.DB.AutoMigrate(
			&models.Guest{},
			&models.Voucher{},
			&models.Department{},
			&models.RequestType{},
			&models.RequestKeyword{},
			&models.GuestRequest{},
			&models.Conversation{},
			&models.Message{},
			&models.UnmatchedRequest{},
			&models.FeedbackQuestion{},
			&models.FeedbackSession{},
			&models.FeedbackResponse{},
		)
		if err != nil {
			log.Fatal("Failed to migrate database:", err)
		}
		log.Println("✅ Database migrations completed!")

		store = storage.NewDatabaseStore(database.DB)
		log.Println("✅ Using PostgreSQL database storage")
	}

	// Seed classifier keywords and feedback questions if empty
	if err := storage.SeedReferenceData(store); err != nil {
		log.Printf("⚠️  Failed to seed reference data: %v", err)
	}

	// Initialize the Twilio gateway
	var gateway services.Gateway
	twilioGateway, err := services.NewTwilioGateway()
	if err != nil {
		log.Printf("⚠️  Twilio gateway not initialized: %v", err)
		gateway = services.NoopGateway{}
	} else {
		gateway = twilioGateway
		log.Println("✅ Twilio gateway initialized")
	}

	// Set global store instance
	storage.SetStore(store)

	// Hotel-local timezone for voucher check-in/check-out cutoffs
	loc := time.Local
	if tz := os.Getenv("HOTEL_TIMEZONE"); tz != "" {
		if parsed, err := time.LoadLocation(tz); err == nil {
			loc = parsed
		} else {
			log.Printf("⚠️  Invalid HOTEL_TIMEZONE %q, using local time: %v", tz, err)
		}
	}

	// Initialize all services
	resolver := services.NewGuestResolver(store, loc)
	classifier := services.NewIntentClassifier(store)
	feedback := services.NewFeedbackDriver(store)
	workflow := services.NewConversationWorkflow(store, resolver, classifier, feedback, os.Getenv("HOTEL_NAME"))
	dispatcher := services.NewOutboundDispatcher(store, gateway)

	// Start the stale conversation cleanup job
	cleanupJob := jobs.NewCleanupJob(store)
	cleanupJob.Start()

	log.Println("✅ All services initialized")

	// Create fiber app
	app := fiber.New(fiber.Config{
		AppName: "Hotel Guest Messaging Backend v1.0.0",
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

	// Root endpoint with service status
	app.Get("/", func(c *fiber.Ctx) error {
		response := fiber.Map{
			"service":     "Hotel Guest Messaging Backend",
			"version":     "1.0.0",
			"status":      "healthy",
			"environment": getEnvironment(),
			"storage":     getStorageType(),
			"whatsapp": fiber.Map{
				"configured": twilioAccountSID != "",
			},
		}

		if os.Getenv("USE_MEMORY_STORE") != "true" && database.DB != nil {
			sqlDB, err := database.DB.DB()
			dbStatus := "connected"
			if err != nil {
				dbStatus = "error: " + err.Error()
			} else if err := sqlDB.Ping(); err != nil {
				dbStatus = "error: " + err.Error()
			}

			var guestCount, voucherCount, conversationCount, messageCount, reviewCount int64
			database.DB.Model(&models.Guest{}).Count(&guestCount)
			database.DB.Model(&models.Voucher{}).Count(&voucherCount)
			database.DB.Model(&models.Conversation{}).Count(&conversationCount)
			database.DB.Model(&models.Message{}).Count(&messageCount)
			database.DB.Model(&models.UnmatchedRequest{}).Count(&reviewCount)

			response["database"] = fiber.Map{
				"status":        dbStatus,
				"guests":        guestCount,
				"vouchers":      voucherCount,
				"conversations": conversationCount,
				"messages":      messageCount,
				"reviews":       reviewCount,
			}
		}

		return c.JSON(response)
	})

	// Setup routes
	routes.SetupRoutes(app, store, workflow, dispatcher)

	// Get port from environment or use default
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
		cleanupJob.Stop()
		_ = app.Shutdown()
	}()

	log.Println("========================================")
	log.Printf("🏨 Hotel Guest Messaging Backend starting on port %s", port)
	log.Printf("📊 Storage: %s", getStorageType())
	log.Printf("🌍 Environment: %s", getEnvironment())
	log.Printf("📱 WhatsApp: %s", getWhatsAppStatus(twilioAccountSID))
	log.Println("========================================")

	log.Fatal(app.Listen(":" + port))
}

func getEnvironment() string {
	if os.Getenv("INSTANCE_CONNECTION_NAME") != "" {
		return "Production (Cloud Run)"
	}
	return "Development (Local)"
}

func getStorageType() string {
	if os.Getenv("USE_MEMORY_STORE") == "true" {
		return "In-Memory (Testing)"
	}
	return "PostgreSQL Database"
}

func getWhatsAppStatus(twilioSID string) string {
	if twilioSID == "" {
		return "Not configured"
	}
	return "Configured"
}
