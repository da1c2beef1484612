// Package api serves the public education directory HTTP API.
package api

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"time"

	"github.com/Sternrassler/edu-api-proxy/internal/directory"
	"github.com/Sternrassler/edu-api-proxy/internal/export"
	"github.com/Sternrassler/edu-api-proxy/pkg/metrics"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Attribution carried by every response body.
const (
	APIOwner = "@OxO_Nemo"
	APIDev   = "t.me/@OxO_Nemo"
)

// Cache is the view of the fetch client used for status and readiness.
type Cache interface {
	CacheLen() int
	Ping(ctx context.Context) error
}

// Options configure a Server.
type Options struct {
	Version   string
	Directory *directory.Service
	Cache     Cache
	Exporter  *export.Exporter
}

// Server is the HTTP API.
type Server struct {
	echo      *echo.Echo
	directory *directory.Service
	cache     Cache
	exporter  *export.Exporter
	version   string
	startedAt time.Time
	logger    zerolog.Logger
}

type requestValidator struct {
	validate *validator.Validate
}

// newRequestValidator reports fields by their query parameter names.
func newRequestValidator() *requestValidator {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		if name := field.Tag.Get("query"); name != "" {
			return name
		}
		return field.Name
	})
	return &requestValidator{validate: validate}
}

func (v *requestValidator) Validate(i any) error {
	return v.validate.Struct(i)
}

// New creates the server and mounts all routes.
func New(opts Options) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = newRequestValidator()

	s := &Server{
		echo:      e,
		directory: opts.Directory,
		cache:     opts.Cache,
		exporter:  opts.Exporter,
		version:   opts.Version,
		startedAt: time.Now(),
		logger:    log.With().Str("component", "api").Logger(),
	}

	e.HTTPErrorHandler = s.handleError

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: newRequestID,
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"*"},
		AllowHeaders:     []string{"*"},
		AllowCredentials: true,
		// credentialed requests need the caller's origin reflected, not "*"
		UnsafeWildcardOriginWithAllowCredentials: true,
	}))
	e.Use(s.requestLogger())
	e.Use(routeMetrics)

	s.MountRoutes()

	return s
}

// MountRoutes registers all handlers.
func (s *Server) MountRoutes() {
	s.echo.GET("/", s.status)
	s.echo.GET("/health", s.health)
	s.echo.GET("/ready", s.ready)
	s.echo.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	v1 := s.echo.Group("/api/v1")
	v1.GET("/divisions", s.divisions)
	v1.GET("/districts", s.districts)
	v1.GET("/institute-types", s.instituteTypes)
	v1.GET("/thanas", s.thanas)
	v1.GET("/institutes", s.institutes)
	v1.GET("/employees", s.employees)
	v1.GET("/teachers", s.teachers)
}

// Handler returns the server as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start listens on addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	s.logger.Info().Str("addr", addr).Str("version", s.version).Msg("Starting HTTP API")
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("Shutting down HTTP API")
	return s.echo.Shutdown(ctx)
}
