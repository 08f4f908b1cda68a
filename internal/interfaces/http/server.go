package http

import (
	"os"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/pos-admin/internal/infrastructure/metrics"
)

// ServerOptions configuración de la app Fiber.
type ServerOptions struct {
	AppName        string
	AllowedOrigins string
	Logger         zerolog.Logger
	// Metrics nil = sin middleware ni /metrics.
	Metrics *metrics.Registry
	// SwaggerFile ruta a docs/swagger.json; vacío o inexistente = sin /docs.
	SwaggerFile string
}

// NewServer arma la app: middlewares, /health (y /api/health), /metrics, /docs y las rutas de negocio.
func NewServer(opts ServerOptions, deps RouterDeps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      opts.AppName,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: ErrorHandler,
	})

	app.Use(requestid.New())
	if opts.Metrics != nil {
		app.Use(opts.Metrics.Middleware())
	}
	app.Use(RequestLogger(opts.Logger))
	app.Use(recover.New())
	origins := opts.AllowedOrigins
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:  origins,
		AllowHeaders:  "Origin, Content-Type, Accept, If-None-Match",
		ExposeHeaders: "Content-Disposition, ETag, X-Request-Id",
	}))

	if opts.SwaggerFile != "" {
		if _, err := os.Stat(opts.SwaggerFile); err == nil {
			app.Use(swagger.New(swagger.Config{
				BasePath: "/",
				FilePath: opts.SwaggerFile,
				Path:     "docs",
				Title:    opts.AppName + " API",
			}))
		} else {
			opts.Logger.Warn().Str("file", opts.SwaggerFile).Msg("swagger.json no encontrado, /docs deshabilitado")
		}
	}

	health := func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "timestamp": time.Now().UTC()})
	}
	app.Get("/health", health)
	app.Get("/api/health", health)
	if opts.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(opts.Metrics.Handler()))
	}

	Router(app, deps)
	return app
}
