// Package httpapi exposes the answering pipeline over HTTP. It is a thin
// wrapper: validation, JSON shapes and request logging live here, all
// answering logic lives in the pipeline.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/fundwise/fundfaq/internal/answer"
)

// Answerer is the pipeline operation this server fronts.
type Answerer interface {
	AnswerQuery(ctx context.Context, query string) (answer.Answer, error)
}

// Config holds HTTP server settings.
type Config struct {
	Host string
	Port int
}

// Server serves the query API.
type Server struct {
	echo     *echo.Echo
	answerer Answerer
	logger   *zap.Logger
	config   Config
}

// NewServer creates the HTTP server and registers its routes.
func NewServer(answerer Answerer, cfg Config, logger *zap.Logger) (*Server, error) {
	if answerer == nil {
		return nil, errors.New("answerer is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)
			return err
		}
	})

	s := &Server{
		echo:     e,
		answerer: answerer,
		logger:   logger,
		config:   cfg,
	}
	s.registerRoutes()
	return s, nil
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)

	v1 := s.echo.Group("/api/v1")
	v1.POST("/query", s.handleQuery)
	v1.GET("/suggestions", s.handleSuggestions)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleQuery(c echo.Context) error {
	var req QueryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}

	query := strings.TrimSpace(req.Query)
	if query == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "query is required"})
	}

	if req.ConversationID != "" {
		s.logger.Debug("query received",
			zap.String("conversation_id", req.ConversationID),
		)
	}

	a, err := s.answerer.AnswerQuery(c.Request().Context(), query)
	if err != nil {
		s.logger.Error("answering query failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to answer query"})
	}

	return c.JSON(http.StatusOK, QueryResponse{
		Answer:      a.Text,
		SourceURL:   a.SourceURL,
		ProductName: a.ProductName,
		FactType:    string(a.FactType),
		Scope:       string(a.Scope),
		LastUpdated: a.LastUpdated,
	})
}

func (s *Server) handleSuggestions(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string][]string{"suggestions": suggestions})
}

// Start runs the server until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("http server listening", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
