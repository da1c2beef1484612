package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/labstack/echo/v4"
)

const readyTimeout = 2 * time.Second

type statusResponse struct {
	Service      string `json:"service"`
	Status       string `json:"status"`
	Version      string `json:"version"`
	Started      string `json:"started"`
	Uptime       string `json:"uptime"`
	CacheEntries int    `json:"cache_entries"`
	APIOwner     string `json:"api_owner"`
	APIDev       string `json:"api_dev"`
}

func (s *Server) status(c echo.Context) error {
	cacheEntries := 0
	if s.cache != nil {
		cacheEntries = s.cache.CacheLen()
	}

	return c.JSON(http.StatusOK, statusResponse{
		Service:      "Education API",
		Status:       "running",
		Version:      s.version,
		Started:      humanize.Time(s.startedAt),
		Uptime:       strings.TrimSpace(humanize.RelTime(s.startedAt, time.Now(), "", "")),
		CacheEntries: cacheEntries,
		APIOwner:     APIOwner,
		APIDev:       APIDev,
	})
}

func (s *Server) health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// ready fails when the shared cache tier is configured but unreachable.
func (s *Server) ready(c echo.Context) error {
	if s.cache != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), readyTimeout)
		defer cancel()
		if err := s.cache.Ping(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("Readiness check failed")
			return c.String(http.StatusServiceUnavailable, "Cache unavailable")
		}
	}
	return c.String(http.StatusOK, "OK")
}
