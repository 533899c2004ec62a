// Package http exposes the dispatch use cases as a JSON API.
package http

import (
	"errors"
	"net/http"

	"dispatch/internal/pkg/logger"
	"dispatch/internal/pkg/metrics"

	"github.com/getkin/kin-openapi/routers"
	"github.com/labstack/echo/v4"
)

// Server maps HTTP requests onto command and query handlers.
type Server struct {
	h       Handlers
	metrics *metrics.Collector
	router  routers.Router
	log     *logger.Logger
}

func NewServer(h Handlers, m *metrics.Collector, log *logger.Logger) *Server {
	if log == nil {
		log = logger.NewNop()
	}
	return &Server{h: h, metrics: m, log: log.With("component", "http")}
}

// Register mounts the API, /health, /metrics and the API docs on e. API
// requests are validated against the embedded OpenAPI document.
func (s *Server) Register(e *echo.Echo) error {
	router, err := loadAPI()
	if err != nil {
		return err
	}
	s.router = router

	e.Use(s.observe)

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))
	e.GET("/swagger/*", swaggerUI)

	api := e.Group("/api/v1", s.validate)

	api.POST("/couriers", s.RegisterCourier)
	api.GET("/couriers/free", s.GetFreeCouriers)
	api.GET("/couriers/locations", s.GetCourierLocations)
	api.GET("/couriers/:id", s.GetCourier)
	api.DELETE("/couriers/:id", s.ArchiveCourier)
	api.POST("/couriers/:id/activate", s.ActivateCourier)
	api.POST("/couriers/:id/deactivate", s.DeactivateCourier)
	api.PATCH("/couriers/:id/contact", s.UpdateContactInfo)
	api.PATCH("/couriers/:id/schedule", s.UpdateWorkSchedule)
	api.PUT("/couriers/:id/transport", s.ChangeTransportType)
	api.POST("/couriers/:id/location", s.SaveLocation)
	api.GET("/couriers/:id/location", s.GetCourierLocation)
	api.GET("/couriers/:id/location/history", s.GetLocationHistory)

	api.POST("/packages", s.AcceptOrder)
	api.GET("/packages/pool", s.GetPackagePool)
	api.GET("/packages/:id", s.GetPackage)
	api.POST("/packages/:id/assign", s.AssignOrder)
	api.POST("/packages/:id/pickup", s.PickUpOrder)
	api.POST("/packages/:id/deliver", s.DeliverOrder)
	api.POST("/packages/:id/return", s.ReturnToPool)
	return nil
}

// observe counts every request by method, route and status code.
func (s *Server) observe(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		err := next(c)
		code := c.Response().Status
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			code = httpErr.Code
		}
		s.metrics.ObserveHTTP(c.Request().Method, c.Path(), code)
		return err
	}
}
