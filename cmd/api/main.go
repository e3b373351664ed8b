package main

import (
	"log"
	"os"
	"strconv"
	"time"

	"research-registry-api/config"
	"research-registry-api/controllers"
	"research-registry-api/middleware"
	"research-registry-api/routes"
	"research-registry-api/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	logFile, _ := config.InitLogging()
	if logFile != nil {
		defer logFile.Close()
	}

	config.InitDB()

	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	gin.DefaultWriter = config.LogWriter

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.Use(func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Next()
	})
	router.Use(middleware.CORSMiddleware())

	// The column mapping is fixed once here and shared by every request.
	schema := services.ResolveResearchSchema(services.NewGormColumnProber(config.DB))
	researchStore := services.NewGormResearchStore(config.DB, schema)
	lookupStore := services.NewGormLookupStore(config.DB)

	var opts []services.ListingOption
	var notifier *services.MailFallbackNotifier
	if recipients := config.OpsAlertRecipients(); len(recipients) > 0 && config.MailConfigured() {
		minutes, err := strconv.Atoi(os.Getenv("FALLBACK_ALERT_INTERVAL_MINUTES"))
		if err != nil || minutes <= 0 {
			minutes = 60
		}
		notifier = services.NewMailFallbackNotifier(recipients, time.Duration(minutes)*time.Minute)
		opts = append(opts, services.WithFallbackNotifier(notifier))
		log.Printf("Fallback alerts enabled for %d recipient(s)", len(recipients))
	}

	listing := services.NewResearchListingService(
		researchStore,
		lookupStore,
		lookupStore,
		services.NewGormEnrichmentStore(config.DB),
		opts...,
	)

	routes.SetupRoutes(router, routes.Controllers{
		Research: controllers.NewResearchController(
			listing,
			services.NewViewCounter(config.DB, schema),
			services.NewAcademicYearCatalog(config.DB, researchStore),
			schema,
		),
		Lookups: controllers.NewLookupController(lookupStore),
	})

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s (research schema: %s)", port, schema.Version())
	if ginMode != "release" {
		log.Printf("Running in development mode")
	}

	if err := router.Run(":" + port); err != nil {
		if notifier != nil {
			notifier.Wait()
		}
		log.Fatal("Failed to start server:", err)
	}
}
