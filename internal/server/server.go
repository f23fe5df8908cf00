// Package server exposes sequence lookups and the quiz over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/inodb/vibe-dna/internal/genes"
	"github.com/inodb/vibe-dna/internal/metrics"
	"github.com/inodb/vibe-dna/internal/quiz"
	"github.com/inodb/vibe-dna/internal/resolver"
)

// APIRoot prefixes every API route.
const APIRoot = "/api"

// SequenceResolver resolves gene symbols, singly or from a pool.
type SequenceResolver interface {
	Resolve(ctx context.Context, symbol, organism string) (*resolver.SequenceRecord, error)
	ResolveFromPool(ctx context.Context, pool resolver.Picker) (*resolver.SequenceRecord, error)
}

// GeneCatalog serves gene resources.
type GeneCatalog interface {
	Get(ctx context.Context, symbol, organism string) (*genes.Resource, error)
	Browse(ctx context.Context, symbols []string) ([]genes.Resource, error)
}

// Config holds HTTP server settings.
type Config struct {
	Addr            string
	CORSOrigins     []string
	ShutdownTimeout time.Duration

	// GeneSymbols are fetched into the catalog by GET /api/genes.
	GeneSymbols []string
}

// Server is the HTTP front end.
type Server struct {
	echo     *echo.Echo
	cfg      Config
	resolver SequenceResolver
	pool     resolver.Picker
	game     *quiz.Game
	catalog  GeneCatalog
	metrics  *metrics.Recorder
	logger   *zap.Logger
}

// New builds the server and registers all routes. catalog, rec and logger may be nil.
func New(cfg Config, res SequenceResolver, pool resolver.Picker, game *quiz.Game, catalog GeneCatalog, rec *metrics.Recorder, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:     e,
		cfg:      cfg,
		resolver: res,
		pool:     pool,
		game:     game,
		catalog:  catalog,
		metrics:  rec,
		logger:   logger,
	}

	e.Use(s.accessLog)
	e.Use(middleware.Recover())
	if len(cfg.CORSOrigins) > 0 {
		e.Use(middleware.CORSWithConfig(corsConfig(cfg.CORSOrigins)))
	}

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	if rec != nil {
		e.GET("/metrics", echo.WrapHandler(rec.Handler()))
	}

	api := e.Group(APIRoot)
	api.GET("/sequence", s.getSequence)
	api.POST("/sequence", s.getSequence)
	api.GET("/sequence/random", s.getRandomSequence)

	api.GET("/quiz/question", s.getQuizQuestion)
	api.POST("/quiz/answer", s.postQuizAnswer)
	api.GET("/quiz/score/:name", s.getScore)
	api.GET("/quiz/leaderboard", s.getLeaderboard)
	api.GET("/quiz/chromosome/question", s.getChromosomeQuestion)
	api.POST("/quiz/chromosome/answer", s.postChromosomeAnswer)

	api.GET("/trivia/question", s.getTriviaQuestion)
	api.POST("/trivia/question", s.postTriviaQuestion)
	api.POST("/trivia/answer", s.postTriviaAnswer)

	api.GET("/genes", s.getGenes)
	api.GET("/genes/:symbol", s.getGene)

	return s
}

// corsConfig allows credentials only when every origin is explicit.
// Browsers reject credentialed responses for the "*" origin.
func corsConfig(origins []string) middleware.CORSConfig {
	credentials := true
	for _, o := range origins {
		if o == "*" {
			credentials = false
		}
	}
	return middleware.CORSConfig{
		AllowOrigins:     origins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization},
		AllowCredentials: credentials,
	}
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", s.cfg.Addr))
		errCh <- s.echo.Start(s.cfg.Addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// accessLog logs each request with its latency and records HTTP metrics.
func (s *Server) accessLog(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		begin := time.Now()
		err := next(c)
		elapsed := time.Since(begin)

		status := c.Response().Status
		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
		}
		route := c.Path()
		if route == "" {
			route = "unmatched"
		}

		s.logger.Debug("request",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Request().URL.Path),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("elapsed", elapsed),
			zap.Error(err))
		if s.metrics != nil {
			s.metrics.ObserveHTTP(route, c.Request().Method, status, elapsed)
		}
		return err
	}
}

// errorBody is the JSON body of every error response.
type errorBody struct {
	Error string `json:"error"`
}

// fail maps domain errors to HTTP status codes.
func (s *Server) fail(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, resolver.ErrValidation), errors.Is(err, quiz.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, resolver.ErrResolution), errors.Is(err, quiz.ErrNotFound), errors.Is(err, genes.ErrNotFound):
		status = http.StatusNotFound
	}

	msg := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", zap.String("path", c.Request().URL.Path), zap.Error(err))
		msg = http.StatusText(status)
	}
	return c.JSON(status, errorBody{Error: msg})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, errorBody{Error: strings.TrimSpace(msg)})
}
