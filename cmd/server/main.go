package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/Rohit-NITW/harmony-backend/internal/config"
	"github.com/Rohit-NITW/harmony-backend/internal/database"
	"github.com/Rohit-NITW/harmony-backend/internal/logger"
	"github.com/Rohit-NITW/harmony-backend/internal/notify"
	"github.com/Rohit-NITW/harmony-backend/internal/routes"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zl := logger.New(cfg.AppEnv)
	defer func() {
		_ = zl.Sync()
	}()

	if cfg.DBUrl == "" {
		zl.Fatal("DB_URL is required")
	}
	if err := database.ConnectDB(cfg.DBUrl); err != nil {
		zl.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.CloseDB()

	var notifier notify.Notifier = notify.NopNotifier{}
	if cfg.AmqpURL != "" {
		amqpNotifier, err := notify.NewAMQPNotifier(cfg.AmqpURL, cfg.AmqpExchange)
		if err != nil {
			zl.Fatal("Failed to connect to message broker", zap.Error(err))
		}
		notifier = amqpNotifier
	}
	defer func() {
		_ = notifier.Close()
	}()

	app := fiber.New()

	app.Use(cors.New())
	app.Use(fiberlogger.New())
	app.Use(recover.New())

	routes.RegisterRoutes(app, cfg, database.DB, zl, notifier)

	zl.Info("Server starting", zap.String("port", cfg.Port))
	if err := app.Listen(":" + cfg.Port); err != nil {
		zl.Fatal("Server failed to start", zap.Error(err))
	}
}
