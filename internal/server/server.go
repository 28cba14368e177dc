// Package server is the reference HTTP host around the extraction core:
// it parses requests, consults the record cache and maps core errors to
// status codes. The core itself stays transport-free.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/reviewminer/reviewminer/internal/cache"
	"github.com/reviewminer/reviewminer/internal/model"
	"github.com/reviewminer/reviewminer/internal/pipeline"
)

// Server hosts the extraction and AMSTAR endpoints.
type Server struct {
	echo  *echo.Echo
	pipe  *pipeline.Pipeline
	cache cache.Cache
	ttl   time.Duration
	log   *zap.Logger
}

// New creates the server. A nil cache disables record caching.
func New(p *pipeline.Pipeline, c cache.Cache, ttl time.Duration, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	s := &Server{echo: e, pipe: p, cache: c, ttl: ttl, log: log}
	e.GET("/healthz", s.health)
	e.POST("/extract", s.extract)
	e.POST("/amstar", s.amstar)
	return s
}

// Start serves until Shutdown.
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

type extractRequest struct {
	Text string `json:"text"`
}

func (s *Server) extract(c echo.Context) error {
	var req extractRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Text == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "text is required")
	}

	key := cache.Key(req.Text)
	if s.cache != nil {
		if data, found := s.cache.Get(key); found {
			return c.JSONBlob(http.StatusOK, data)
		}
	}

	rec, err := s.pipe.Extract(c.Request().Context(), req.Text)
	if err != nil {
		return s.mapError(err)
	}
	if s.cache != nil {
		if data, err := json.Marshal(rec); err == nil {
			_ = s.cache.Set(key, data, s.ttl)
		}
	}
	return c.JSON(http.StatusOK, rec)
}

type amstarRequest struct {
	Text       string `json:"text"`
	ReviewDate string `json:"review_date"` // YYYY-MM-DD
}

func (s *Server) amstar(c echo.Context) error {
	var req amstarRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Text == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "text is required")
	}

	if req.ReviewDate == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "review_date is required")
	}
	reviewDate, err := time.Parse("2006-01-02", req.ReviewDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "review_date must be YYYY-MM-DD")
	}

	verdict, err := s.pipe.EvaluateAmstar(c.Request().Context(), req.Text, reviewDate)
	if err != nil {
		return s.mapError(err)
	}
	return c.JSON(http.StatusOK, verdict)
}

func (s *Server) mapError(err error) error {
	if errors.Is(err, model.ErrEmptyDocument) || errors.Is(err, model.ErrInvalidUTF8) || errors.Is(err, model.ErrReviewDateRequired) {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	s.log.Error("extraction failed", zap.Error(err))
	return echo.NewHTTPError(http.StatusInternalServerError, "extraction failed")
}
