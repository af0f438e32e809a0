package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jrsteele09/go-game-portal/internal/config"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Server is the backend proxy. It exposes the /api routes the portal client uses and
// forwards them to BACKEND_URL.
type Server struct {
	env        string // Environment (e.g., "DEV", "PROD")
	router     chi.Router
	handler    http.Handler
	routes     []string
	config     config.Config
	backendURL string
	client     *http.Client
	timeout    time.Duration
	logger     zerolog.Logger
}

type Option func(*Server)

// WithHTTPClient sets the client used for backend calls.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Server) { s.client = c }
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

func New(cfg config.Config, opts ...Option) (*Server, error) {
	backendURL := strings.TrimRight(cfg.GetBackendURL(), "/")
	if backendURL == "" {
		return nil, fmt.Errorf("[Server New] BACKEND_URL is not set")
	}

	s := &Server{
		env:        cfg.GetEnv(),
		router:     chi.NewRouter(),
		config:     cfg,
		backendURL: backendURL,
		client:     http.DefaultClient,
		timeout:    cfg.GetRequestTimeout(),
		logger:     log.Logger,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.router.Use(s.RequestIDMiddleware, middleware.RequestID, middleware.Recoverer, s.LoggingMiddleware, s.FrameSecurityMiddleware)
	s.initRoutes()
	s.handler = s.corsHandler().Handler(s.router)
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Routes lists the registered "METHOD /path" patterns in registration order.
func (s *Server) Routes() []string {
	return append([]string(nil), s.routes...)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	method, path := splitPattern(pattern)
	if method == "" {
		s.router.Handle(path, handler)
		return
	}
	s.router.Method(method, path, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.RegisterRouteHandler(pattern, http.HandlerFunc(handler))
}

func (s *Server) corsHandler() *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins:   s.config.GetAllowedOrigins().List(),
		AllowedMethods:   splitList(s.config.GetAllowedMethods()),
		AllowedHeaders:   splitList(s.config.GetAllowedHeaders()),
		ExposedHeaders:   []string{requestIDHeader},
		AllowCredentials: true,
		MaxAge:           86400,
	})
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		method, path := splitPattern(route)
		s.logger.Info().Msg(fmt.Sprintf("[%s] %s", methodStyle(method).Render(fmt.Sprintf("%-7s", method)), pathStyle.Render(path)))
	}
}

func splitPattern(pattern string) (method, path string) {
	parts := strings.SplitN(pattern, " ", 2)
	if len(parts) > 1 {
		return parts[0], parts[1]
	}
	return "", parts[0]
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
