// Package api exposes the prediction service over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/yourusername/predictsports-engine/internal/health"
	"github.com/yourusername/predictsports-engine/internal/metrics"
	"github.com/yourusername/predictsports-engine/internal/models"
	"github.com/yourusername/predictsports-engine/internal/service"
)

// Predictor is the prediction service consumed by the handlers
type Predictor interface {
	Predict(ctx context.Context, input models.MatchInput) (*service.PredictionResponse, error)
	Analyze(ctx context.Context, input models.MatchInput) (*service.AnalysisResponse, error)
	Features(ctx context.Context, input models.MatchInput) (*service.FeaturesResponse, error)
	Recent(ctx context.Context, limit int) ([]*models.PredictionRecord, error)
	Get(ctx context.Context, id string) (*models.PredictionRecord, error)
	ByMatch(ctx context.Context, matchID string, limit int) ([]*models.PredictionRecord, error)
}

// Config holds server configuration
type Config struct {
	Addr              string
	ServiceName       string
	Version           string
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	RequestTimeout    time.Duration
	CORSOrigin        string
	RequestsPerSecond float64
	Burst             int
	MetricsEnabled    bool
	MetricsPath       string
}

// Server is the engine HTTP server
type Server struct {
	cfg     Config
	router  *mux.Router
	handler http.Handler
	server  *http.Server
	svc     Predictor
	health  *health.Checker
	logger  *logrus.Entry
	limiter *rate.Limiter
}

// NewServer creates a server and wires its routes and middleware
func NewServer(cfg Config, svc Predictor, checker *health.Checker, logger *logrus.Logger) *Server {
	if cfg.IdleTimeout == 0 {
		cfg.IdleTimeout = 60 * time.Second
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = 5 * time.Second
	}
	if cfg.MetricsPath == "" {
		cfg.MetricsPath = "/metrics"
	}

	s := &Server{
		cfg:    cfg,
		router: mux.NewRouter(),
		svc:    svc,
		health: checker,
		logger: logger.WithField("component", "api"),
	}
	if cfg.RequestsPerSecond > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst)
	}

	s.setupRoutes()
	s.handler = s.recoverMiddleware(s.requestIDMiddleware(s.loggingMiddleware(s.metricsMiddleware(s.corsMiddleware(s.rateLimitMiddleware(s.router))))))

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	s.router.Use(s.timeoutMiddleware)

	s.router.HandleFunc("/", s.handleRoot).Methods(http.MethodGet)
	if s.health != nil {
		s.health.Register(s.router)
	}

	// full paths on the root router so method mismatches reach MethodNotAllowedHandler
	s.router.HandleFunc("/predictions/predict", s.handlePredict).Methods(http.MethodPost)
	s.router.HandleFunc("/predictions/analyze", s.handleAnalyze).Methods(http.MethodPost)
	s.router.HandleFunc("/predictions/features", s.handleFeatures).Methods(http.MethodPost)
	s.router.HandleFunc("/predictions/recent", s.handleRecent).Methods(http.MethodGet)
	s.router.HandleFunc("/predictions/match/{match_id}", s.handleByMatch).Methods(http.MethodGet)
	s.router.HandleFunc("/predictions/{id:[0-9a-fA-F-]{36}}", s.handleGetPrediction).Methods(http.MethodGet)

	if s.cfg.MetricsEnabled {
		s.router.Handle(s.cfg.MetricsPath, metrics.Handler()).Methods(http.MethodGet)
	}

	s.router.NotFoundHandler = http.HandlerFunc(s.handleNotFound)
	s.router.MethodNotAllowedHandler = http.HandlerFunc(s.handleMethodNotAllowed)
}

// Handler returns the fully wrapped HTTP handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start starts the HTTP server and blocks until it stops
func (s *Server) Start() error {
	s.logger.WithField("addr", s.cfg.Addr).Info("Starting HTTP server")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}
