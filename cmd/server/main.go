package main

import (
	"database/sql"
	"fmt"
	"log"
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
	config "github.com/prasadk19/postdeck/configs"
	"github.com/prasadk19/postdeck/internal/api/handlers"
	"github.com/prasadk19/postdeck/internal/api/middleware"
	"github.com/prasadk19/postdeck/internal/composer"
	"github.com/prasadk19/postdeck/internal/draft"
	job "github.com/prasadk19/postdeck/internal/jobs"
	"github.com/prasadk19/postdeck/internal/queue"
	"github.com/prasadk19/postdeck/internal/repository"
	"github.com/prasadk19/postdeck/internal/service"
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
		BodyLimit:    100 * 1024 * 1024, // 100 MB
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

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	postMediaRepo := repository.NewPostMediaRepository(db)
	mediaAssetRepo := repository.NewMediaAssetRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	connectionRepo := repository.NewConnectionRepository(db)

	authService := service.NewAuthService(*cfg, userRepo)
	userService := service.NewUserService(userRepo)
	storageService := service.NewStorageService(*cfg)
	mediaService := service.NewMediaService(mediaAssetRepo, postMediaRepo, storageService)
	postService := service.NewPostService(db, postRepo, postMediaRepo, mediaAssetRepo)
	analyticsService := service.NewAnalyticsService(postRepo, analyticsRepo)
	settingsService := service.NewSettingsService(settingsRepo)
	linkedinService := service.NewLinkedInService(*cfg, connectionRepo)

	if err := os.MkdirAll(cfg.DraftDir, 0o755); err != nil {
		log.Fatalf("Failed to create draft directory: %v", err)
	}
	manager := composer.NewManager(cfg.DraftDir, postService, draft.DefaultInterval)

	authMiddleware := middleware.NewAuthMiddleware(*cfg)

	auth := handlers.NewAuthHandler(*cfg, authService)
	app.Post("/auth/signup", auth.SignUp)
	app.Post("/auth/signin", auth.SignIn)
	app.Post("/auth/signout", auth.SignOut)

	connection := handlers.NewConnectionHandler(*cfg, linkedinService)
	app.Get("/auth/linkedin", authMiddleware.AuthMiddleware(), connection.Connect)
	app.Get("/auth/linkedin/callback", authMiddleware.AuthMiddleware(), connection.Callback)

	api := app.Group("/api")
	api.Use(authMiddleware.AuthMiddleware())

	user := handlers.NewUserHandler(userService)
	api.Get("/user/info", user.GetUserInfo)
	api.Post("/linkedin/disconnect", connection.Disconnect)

	comp := handlers.NewComposerHandler(manager, mediaService, postService, linkedinService, client)
	api.Get("/composer/draft", comp.GetDraft)
	api.Put("/composer/draft", comp.UpdateDraft)
	api.Delete("/composer/draft", comp.DiscardDraft)
	api.Post("/composer/draft/save", comp.SaveDraft)
	api.Post("/composer/draft/schedule", comp.ScheduleDraft)
	api.Post("/composer/draft/publish", comp.PublishDraft)

	post := handlers.NewPostHandler(postService, client)
	api.Get("/posts", post.ListPosts)
	api.Get("/posts/calendar", post.Calendar)
	api.Post("/posts/reschedule", post.ReschedulePost)
	api.Post("/posts/remove", post.RemovePost)

	media := handlers.NewMediaHandler(mediaService)
	api.Post("/media/upload", media.Upload)
	api.Get("/media", media.ListAssets)
	api.Post("/media/rename", media.Rename)
	api.Post("/media/tags", media.UpdateTags)
	api.Post("/media/remove", media.Remove)
	api.Get("/media/signed-url", media.SignedURL)

	analytics := handlers.NewAnalyticsHandler(analyticsService)
	api.Get("/analytics/summary", analytics.Summary)
	api.Get("/analytics/trends", analytics.Trends)
	api.Get("/analytics/hashtags", analytics.Hashtags)
	api.Get("/analytics/optimal-times", analytics.OptimalTimes)
	api.Get("/analytics/top-posts", analytics.TopPosts)

	settings := handlers.NewSettingsHandler(settingsService)
	api.Get("/settings/info", settings.GetSettingsInfo)
	api.Post("/settings/update", settings.UpdateSettings)

	// cron jobs
	metricsSyncJob := job.NewMetricsSyncJob(connectionRepo, postRepo, analyticsService, linkedinService)

	// queue
	worker := queue.NewWorker(postRepo, linkedinService)

	c := cron.New()
	c.AddFunc("@every 01h00m00s", metricsSyncJob.SyncMetrics)
	c.Start()

	go func() {
		server := asynq.NewServer(redisConn, asynq.Config{
			Concurrency: 10,
		})

		mux := asynq.NewServeMux()
		mux.HandleFunc(queue.TaskTypeDeliverPost, worker.HandleDeliverPostTask)

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

	gracefulShutdown(app, db, manager)
}

func closeDB(db *sql.DB) {
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, db *sql.DB, manager *composer.Manager) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Fatalf("Failed to shut down server: %v", err)
	}

	manager.Shutdown()
	closeDB(db)
	log.Println("Server shutdown complete.")
}
