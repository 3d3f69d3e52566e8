package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	config "github.com/maheshrc27/autopost/configs"
	"github.com/maheshrc27/autopost/internal/api/handlers"
	"github.com/maheshrc27/autopost/internal/api/middleware"
	"github.com/maheshrc27/autopost/internal/browser"
	job "github.com/maheshrc27/autopost/internal/jobs"
	"github.com/maheshrc27/autopost/internal/platform"
	"github.com/maheshrc27/autopost/internal/queue"
	"github.com/maheshrc27/autopost/internal/repository"
	"github.com/maheshrc27/autopost/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for _, dir := range []string{cfg.UploadFolder, cfg.ScheduledFolder} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatalf("Failed to create %s: %v", dir, err)
		}
	}

	postRepo, err := repository.NewPostRepository(ctx, repository.Options{
		Driver:      cfg.StoreDriver,
		Path:        cfg.StorePath,
		PostgresURI: cfg.PostgresURI,
	})
	if err != nil {
		log.Fatalf("Failed to open post store: %v", err)
	}
	defer closeRepo(postRepo)

	adapters := platform.NewRegistry(browser.NewChromeLauncher(cfg.ChromePath), cfg.CookieDir, time.Second)
	publisher := service.NewPublisherService(postRepo, adapters, cfg.Headless)
	runPost := job.PostRunner(ctx, publisher)

	c := queue.NewCron(cron.VerbosePrintfLogger(log.New(os.Stdout, "cron: ", log.LstdFlags)))

	var scheduler queue.Scheduler
	switch cfg.TriggerBackend {
	case "redis":
		scheduler = queue.NewAsynqScheduler(asynq.RedisClientOpt{Addr: cfg.RedisURI}, 10, runPost)
	default:
		scheduler = queue.NewCronScheduler(c, runPost)
	}

	missedPosts := job.NewMissedPostsJob(ctx, postRepo, publisher)
	if err := missedPosts.Register(c, cfg.SweepInterval); err != nil {
		log.Fatalf("Failed to register cron job: %v", err)
	}

	if _, err := job.RestoreScheduledPosts(ctx, postRepo, scheduler, time.Now()); err != nil {
		log.Fatalf("Failed to restore scheduled posts: %v", err)
	}

	if err := scheduler.Start(); err != nil {
		log.Fatalf("Could not start scheduler: %v", err)
	}
	if cfg.TriggerBackend == "redis" {
		c.Start()
	}

	postService := service.NewPostService(postRepo, scheduler, publisher,
		service.NewMediaService(int64(cfg.MaxUploadMB)*1024*1024),
		service.PostServiceConfig{
			UploadFolder:    cfg.UploadFolder,
			ScheduledFolder: cfg.ScheduledFolder,
			Retention:       cfg.Retention,
		})
	captionService := service.NewCaptionService(cfg.Groq.APIKey, cfg.Groq.BaseURL, cfg.Groq.Model)

	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Minute,
		WriteTimeout: 10 * time.Minute,
		BodyLimit:    cfg.MaxUploadMB * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return handlers.ErrorHandler(c, err)
		},
	})

	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOriginsFunc: func(origin string) bool {
			return true
		},
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		MaxAge:       3600,
	}))

	authMiddleware := middleware.NewAuthMiddleware(cfg.SecretKey)
	app.Use(authMiddleware.AuthMiddleware())

	post := handlers.NewPostHandler(postService)
	app.Post("/post", post.Post)
	app.Post("/schedule-post", post.SchedulePost)
	app.Get("/get-scheduled-posts", post.ListPosts)
	app.Delete("/cancel-scheduled-post/:id", post.CancelPost)
	app.Delete("/delete-completed-post/:id", post.DeletePost)
	app.Get("/scheduler-status", post.SchedulerStatus)

	caption := handlers.NewCaptionHandler(captionService)
	app.Post("/generate-caption", caption.GenerateCaption)
	app.Post("/generate-all-captions", caption.GenerateAllCaptions)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Printf("Server is running on http://localhost:%s", cfg.Port)

	gracefulShutdown(app, func() {
		scheduler.Stop()
		if cfg.TriggerBackend == "redis" {
			<-c.Stop().Done()
		}
		missedPosts.Wait()
		cancel()
	})
}

func closeRepo(repo repository.PostRepository) {
	fmt.Fprint(os.Stdout, "Closing post store... ")
	if err := repo.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close post store: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, stopWorkers func()) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Fatalf("Failed to shut down server: %v", err)
	}

	stopWorkers()
	log.Println("Server shutdown complete.")
}
