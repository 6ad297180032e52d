package main

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	config "github.com/maheshrc27/pulseboard/configs"
	"github.com/maheshrc27/pulseboard/internal/api/handlers"
	"github.com/maheshrc27/pulseboard/internal/api/middleware"
	job "github.com/maheshrc27/pulseboard/internal/jobs"
	"github.com/maheshrc27/pulseboard/internal/models"
	"github.com/maheshrc27/pulseboard/internal/platform"
	"github.com/maheshrc27/pulseboard/internal/queue"
	"github.com/maheshrc27/pulseboard/internal/repository"
	"github.com/maheshrc27/pulseboard/internal/service"
	"github.com/robfig/cron"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()

	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer closeDB(db)

	if err := db.Ping(); err != nil {
		log.Fatalf("Database is unreachable: %v", err)
	}

	redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
	client := asynq.NewClient(redisConn)
	defer client.Close()

	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Minute,
		WriteTimeout: 10 * time.Minute,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOriginsFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	socialAccountRepo := repository.NewSocialAccountRepository(db)
	accountAnalyticsRepo := repository.NewAccountAnalyticsRepository(db)
	postAnalyticsRepo := repository.NewPostAnalyticsRepository(db)
	hotspotRepo := repository.NewHotspotRepository(db)
	syncRunLogRepo := repository.NewSyncRunLogRepository(db)
	apiKeyRepository := repository.NewApiKeyRepository(db)

	httpClient := &http.Client{Timeout: 30 * time.Second}
	registry := platform.NewRegistry(map[string]platform.DataSource{
		models.PlatformInstagram: platform.NewInstagramSource(httpClient),
		models.PlatformFacebook:  platform.NewFacebookSource(httpClient),
	})

	coverageService := service.NewCoverageService(accountAnalyticsRepo)
	collector := service.NewInsightsCollector(*cfg, registry, accountAnalyticsRepo, postAnalyticsRepo)
	hotspotService := service.NewHotspotService(*cfg, socialAccountRepo, postAnalyticsRepo, hotspotRepo, syncRunLogRepo, registry)
	smartSyncService := service.NewSmartSyncService(*cfg, socialAccountRepo, accountAnalyticsRepo, syncRunLogRepo, coverageService, collector, hotspotService)
	exporter := service.NewR2Exporter(*cfg)
	masterService := service.NewAnalyticsMasterService(*cfg, socialAccountRepo, accountAnalyticsRepo, postAnalyticsRepo, syncRunLogRepo, collector, hotspotService, smartSyncService, exporter)
	platformService := service.NewPlatformService(*cfg, socialAccountRepo, hotspotService)
	apiKeyService := service.NewApiKeyService(apiKeyRepository)

	authMiddleware := middleware.NewAuthMiddleware(*cfg, apiKeyService)

	platformH := handlers.NewPlatformHandler(platformService, *cfg)
	app.Get("/auth/:platform", platformH.AddSocialAccount)
	app.Get("/auth/:platform/callback", platformH.CallbackHandler)

	api := app.Group("/api")
	api.Use(authMiddleware.AuthMiddleware())

	apiKeys := handlers.NewApiKeyHandler(apiKeyService)
	api.Post("/api_key/new", apiKeys.CreateApiKey)
	api.Get("/api_key/list", apiKeys.ListKeys)
	api.Post("/api_key/remove", apiKeys.RemoveAPIKey)

	analytics := handlers.NewAnalyticsHandler(masterService, smartSyncService, hotspotRepo, postAnalyticsRepo, client)
	api.Post("/analytics/run", analytics.RunAnalytics)
	api.Post("/analytics/sync", analytics.SmartSync)
	api.Get("/analytics/recommendations", analytics.GetRecommendations)
	api.Get("/analytics/status", analytics.GetSyncStatus)
	api.Get("/analytics/hotspots", analytics.GetHotspots)
	api.Get("/analytics/history", analytics.GetHistory)
	api.Get("/posts/analytics", analytics.GetPostAnalytics)

	// social accounts api routes
	api.Get("/accounts", platformH.ListSocialAccounts)
	api.Post("/accounts/remove", platformH.DeleteSocialAccount)

	// cron jobs
	analyticsJob := job.NewAnalyticsJob(masterService)

	//queue
	queueW := queue.NewQueue(masterService, smartSyncService)

	c := cron.New()
	c.AddFunc("@every 06h00m00s", analyticsJob.RunNightly)
	c.Start()

	go func() {
		server := asynq.NewServer(redisConn, asynq.Config{
			Concurrency: 10,
		})

		mux := asynq.NewServeMux()
		mux.HandleFunc(queue.TaskTypeAnalyticsRun, queueW.HandleAnalyticsRunTask)

		log.Println("Starting the Asynq server...")
		if err := server.Run(mux); err != nil {
			log.Fatalf("Could not start Asynq server: %v", err)
		}
	}()

	go func() {
		if err := app.Listen(":3000"); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Println("Server is running on http://localhost:3000")

	gracefulShutdown(app, db)
}

func closeDB(db *sql.DB) {
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, db *sql.DB) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Fatalf("Failed to shut down server: %v", err)
	}

	closeDB(db)
	log.Println("Server shutdown complete.")
}
