package router

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	handler "github.com/zdziszkee/swift-directory/internal/api/handlers"
	"github.com/zdziszkee/swift-directory/internal/api/middleware"
	"github.com/zdziszkee/swift-directory/internal/metrics"
)

// Options tunes the fiber app. Zero values keep fiber's defaults.
type Options struct {
	AppName      string
	BodyLimit    int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Logger       *zap.Logger
	Metrics      *metrics.Metrics
	// Gatherer backs /metrics; the route is not registered when nil.
	Gatherer prometheus.Gatherer
}

// SetupRoutes configures all API routes
func SetupRoutes(swiftHandler *handler.SwiftHandler, opts Options) *fiber.App {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	app := fiber.New(fiber.Config{
		AppName:      opts.AppName,
		BodyLimit:    opts.BodyLimit,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
		ErrorHandler: func(c fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := "Internal server error"

			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
				message = e.Message
			}

			return c.Status(code).JSON(fiber.Map{
				"message": message,
			})
		},
	})

	app.Use(recover.New())
	app.Use(middleware.RequestLogger(logger, opts.Metrics))

	app.Get("/health", swiftHandler.Health)
	if opts.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	// API versioning
	v1 := app.Group("/v1")

	// SWIFT codes endpoints
	codes := v1.Group("/swift-codes")
	codes.Get("/country/:countryISO2code", swiftHandler.GetByCountry)
	codes.Get("/:swiftCode", swiftHandler.GetByCode)
	codes.Post("/import", swiftHandler.Import)
	codes.Post("/", swiftHandler.Create)
	codes.Delete("/:swiftCode", swiftHandler.Delete)
	return app
}
