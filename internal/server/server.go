// Package server assembles the fiber application: middleware, error
// translation and routes.
package server

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"producthub/internal/config"
	"producthub/internal/handlers"
	"producthub/internal/metrics"
	"producthub/internal/services"
)

// NewApp wires the HTTP surface around productService. store backs /health.
func NewApp(cfg *config.Config, productService *services.ProductService, store handlers.Pinger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "ProductHub",
		ErrorHandler:          handlers.ErrorHandler,
		JSONEncoder:           jsoniter.ConfigCompatibleWithStandardLibrary.Marshal,
		JSONDecoder:           jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal,
		DisableStartupMessage: true,
	})

	// --- Middleware ---
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logger.New(logger.Config{
		Format: "${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
		Output: zap.NewStdLog(zap.L().Named("http")).Writer(),
	}))
	app.Use(cors.New(corsConfig(cfg.CORSOrigins)))
	app.Use(metrics.Middleware())

	// --- Routes ---
	handlers.NewHealthHandler(store).RegisterRoutes(app)
	app.Get("/metrics", metrics.Handler())
	handlers.NewProductHandler(productService).RegisterRoutes(app)

	return app
}

// corsConfig allows credentials unless a wildcard origin is configured,
// which fiber refuses to combine with credentials.
func corsConfig(origins []string) cors.Config {
	allowOrigins := strings.Join(origins, ",")
	if allowOrigins == "" {
		allowOrigins = "*"
	}
	return cors.Config{
		AllowOrigins:     allowOrigins,
		AllowCredentials: !strings.Contains(allowOrigins, "*"),
	}
}
