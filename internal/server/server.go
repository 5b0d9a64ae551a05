// internal/server/server.go

// Package server exposes the filter stores over a small JSON API, one
// session per category/listing-type pair.
package server

import (
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"marketplace-facets/internal/common/logger"
	"marketplace-facets/internal/common/observability"
	"marketplace-facets/internal/facets/store"
)

// Handler holds the API dependencies.
type Handler struct {
	registry *store.Registry
	obs      *observability.Observability
	logger   logger.Logger
}

func NewHandler(registry *store.Registry, obs *observability.Observability, log logger.Logger) *Handler {
	return &Handler{
		registry: registry,
		obs:      obs,
		logger:   log.WithFields(map[string]interface{}{"component": "api"}),
	}
}

// NewApp builds the fiber application with middleware and routes attached.
func NewApp(h *Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())
	app.Use(requestID())
	app.Use(h.recordRequests())

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	v1 := app.Group("/api/v1")
	v1.Get("/categories/:slug/facets", h.GetFacets)
	v1.Put("/categories/:slug/filters", h.PutFilters)
	v1.Delete("/categories/:slug/filters/:key", h.DeleteFilter)
	v1.Delete("/categories/:slug/filters", h.ClearFilters)

	return app
}

func (h *Handler) recordRequests() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := "success"
		if err != nil || c.Response().StatusCode() >= fiber.StatusBadRequest {
			status = "error"
		}
		h.obs.RecordRequest(c.UserContext(), c.Route().Path, status)
		h.obs.RecordRequestDuration(c.UserContext(), time.Since(start), c.Route().Path)
		return err
	}
}

func requestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("X-Request-ID", id)
		c.Locals("requestID", id)
		return c.Next()
	}
}

// errorHandler is the custom fiber error handler.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(APIResponse{Error: message})
}

// APIResponse is the standard response envelope.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func respond(c *fiber.Ctx, data interface{}) error {
	return c.JSON(APIResponse{Success: true, Data: data})
}
