package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"translatetube/config"
	"translatetube/handlers"
	"translatetube/internal/aiclient"
	"translatetube/internal/playback"
	"translatetube/internal/session"
	"translatetube/middleware"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	config.InitLogger(cfg.LogLevel)

	if cfg.Gemini.APIKey == "" {
		config.Log.Warn("GEMINI_API_KEY is not set; analysis requests will fail")
	}

	analyzer := aiclient.New(cfg.Gemini, config.Log)
	bootstrap := playback.NewBootstrap()
	controller := session.New(analyzer, bootstrap, cfg.Playback, config.Log)
	widgetBridge := playback.NewBridgeWidgetAPI()
	h := handlers.NewApplicationHandler(controller, widgetBridge, config.Log, cfg.UploadDir)

	app := fiber.New(fiber.Config{
		// Video uploads go straight into the request body.
		BodyLimit: 512 * 1024 * 1024,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))
	app.Use(middleware.RequestLogger())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":  "ok",
			"message": "Translate-Tube gateway is healthy",
		})
	})

	apiV1 := app.Group("/api/v1")

	// Video source routes
	apiV1.Post("/sources/upload", h.UploadVideo)
	apiV1.Post("/sources/url", h.SetVideoURL)
	apiV1.Delete("/sources", h.ClearVideoSource)

	// Analysis routes
	apiV1.Post("/analysis", h.AnalyzeVideo)
	apiV1.Get("/transcript", h.GetTranscript)
	apiV1.Delete("/notice", h.DismissNotice)

	// Playback routes
	apiV1.Post("/playback/time", h.ReportMediaTime)
	apiV1.Post("/playback/widget/ready", h.WidgetReady)
	apiV1.Post("/playback/widget/state", h.ReportWidgetState)
	apiV1.Post("/playback/widget/time", h.ReportWidgetTime)
	apiV1.Post("/playback/seek", h.SeekToSegment)
	apiV1.Get("/playback/state", h.GetPlaybackState)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		config.Log.Info("Shutting down gateway")
		controller.Close()
		if err := app.Shutdown(); err != nil {
			config.Log.WithError(err).Error("Error during shutdown")
		}
	}()

	config.Log.Infof("Starting Translate-Tube gateway on %s", cfg.ListenAddr)
	if err := app.Listen(cfg.ListenAddr); err != nil {
		config.Log.WithError(err).Fatal("Gateway stopped")
	}
}
