package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pitwall/internal/app"
	"pitwall/internal/config"
	"pitwall/internal/database"
	"pitwall/internal/handlers"
	"pitwall/internal/logging"
	"pitwall/internal/models"
	"pitwall/internal/repositories"
	"pitwall/internal/services"
	"pitwall/internal/telemetry"
	"pitwall/pkg/rabbitmq"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load(".env")
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	// --- Databases ---
	usersDB, err := database.Open(cfg.DBDriver, cfg.UsersDatabaseDSN, &models.User{})
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to open users database")
	}
	defer closeDB("users", usersDB)

	circuitsDB, err := database.Open(cfg.DBDriver, cfg.CircuitsDatabaseDSN, &models.Circuit{})
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to open circuits database")
	}
	defer closeDB("circuits", circuitsDB)

	// --- Event bus (optional) ---
	var publisher services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			logging.Warn().Err(err).Msg("RabbitMQ unavailable, events disabled")
		} else {
			defer mqClient.Close()
			publisher = mqClient
			if err := mqClient.ConsumeEvents(rabbitmq.LogEvent); err != nil {
				logging.Warn().Err(err).Msg("failed to start event consumer")
			}
		}
	}

	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(usersDB)
	circuitRepo := repositories.NewGORMCircuitRepository(circuitsDB)
	lapRepo := repositories.NewFileLapRepository(cfg.LapsFilePath)

	// --- Services ---
	authService, err := services.NewAuthService(userRepo, services.TokenConfig{
		Secret:      cfg.JWTSecret,
		Algorithm:   cfg.JWTAlgorithm,
		Lifetime:    cfg.AccessTokenExpires,
		AdminEmails: cfg.AdminEmails,
	}, publisher)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to create auth service")
	}
	lapSource := telemetry.NewClient(telemetry.Config{
		BaseURL:       cfg.TelemetryBaseURL,
		Timeout:       cfg.TelemetryTimeout,
		RatePerSecond: cfg.TelemetryRatePerSecond,
	})

	// --- HTTP ---
	server := app.New(app.Deps{
		AuthService:    authService,
		UserService:    services.NewUserService(userRepo, publisher),
		CircuitService: services.NewCircuitService(circuitRepo, publisher),
		SessionService: services.NewSessionService(lapSource, lapRepo, publisher),
		LapItemService: services.NewLapItemService(lapRepo, publisher),
		HealthChecks: []handlers.HealthCheck{
			{Name: "users_db", Check: func(ctx context.Context) error { return database.Ping(ctx, usersDB) }},
			{Name: "circuits_db", Check: func(ctx context.Context) error { return database.Ping(ctx, circuitsDB) }},
			{Name: "telemetry", Check: func(context.Context) error {
				if lapSource.BreakerState() == "open" {
					return errors.New("circuit breaker open")
				}
				return nil
			}},
		},
		CORSAllowOrigins: cfg.CORSAllowOrigins,
		AccessLog:        true,
	})

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	logging.Info().Str("addr", cfg.AppPort).Str("laps_file", lapRepo.Path()).Msg("starting server")
	go listen(server, cfg.AppPort, quit)

	<-quit
	logging.Info().Msg("shutting down server")
	if err := server.ShutdownWithTimeout(10 * time.Second); err != nil {
		logging.Error().Err(err).Msg("error during Fiber shutdown")
	}
	logging.Info().Msg("server gracefully stopped")
}

// listen serves until the listener fails, then wakes the shutdown path so
// deferred cleanup still runs.
func listen(server *fiber.App, addr string, quit chan<- os.Signal) {
	if err := server.Listen(addr); err != nil {
		logging.Error().Err(err).Str("addr", addr).Msg("server failed to start")
		select {
		case quit <- syscall.SIGTERM:
		default:
		}
	}
}

func closeDB(name string, db *gorm.DB) {
	if err := database.Close(db); err != nil {
		logging.Error().Err(err).Str("database", name).Msg("failed to close database")
	}
}
