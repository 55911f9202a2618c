package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	httpapi "github.com/nimbus-weather/nimbus/internal/api/http"
	"github.com/nimbus-weather/nimbus/internal/config"
	"github.com/nimbus-weather/nimbus/internal/notify"
	"github.com/nimbus-weather/nimbus/internal/provider"
	"github.com/nimbus-weather/nimbus/internal/search"
	"github.com/nimbus-weather/nimbus/internal/slider"
	"github.com/nimbus-weather/nimbus/internal/sms"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Provider client with session-lived response caches.
	weatherClient := provider.NewClient(provider.ClientConfig{
		HTTPClient: httpClient,
		APIKey:     cfg.OpenWeatherAPIKey,
		CacheTTL:   cfg.CacheTTL,
	})

	// Search orchestrator: debounced, cancellable, latest-token-wins.
	orch := search.NewOrchestrator(weatherClient, notify.LogNotifier{}, cfg.DebounceDelay)
	defer orch.Close()

	// Background slider over the fixed city list, sharing the provider caches.
	sl := slider.New(cfg.SliderCities, cfg.SliderInterval, weatherClient)
	if err := sl.Start(); err != nil {
		log.Fatalf("failed to start slider: %v", err)
	}
	defer sl.Stop()

	// SMS relay.
	vendor := sms.NewVendor(sms.VendorConfig{
		ClientID:     cfg.HubtelClientID,
		ClientSecret: cfg.HubtelClientSecret,
		SenderID:     cfg.HubtelSenderID,
		BaseURL:      cfg.HubtelBaseURL,
		HTTPClient:   httpClient,
	})
	smsHandler := sms.NewHandler(cfg.SharedToken, vendor)

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "nimbus",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Content-Type",
		AllowMethods: "GET,POST,OPTIONS",
	}))

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "nimbus",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, weatherClient, orch, sl, smsHandler)

	// Start server with graceful shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
