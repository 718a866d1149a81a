package server

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/jsw-dev/portfolio-server/auth"
	"github.com/jsw-dev/portfolio-server/internal/config"
	"github.com/jsw-dev/portfolio-server/token"
)

type Server struct {
	env    string // Environment (e.g., "DEV", "production")
	mux    *http.ServeMux
	routes []string
	config config.Config
	auth   *auth.Service
	codec  *token.Codec
	google *GoogleOAuth // nil when social login is not configured
}

func New(cfg config.Config, authService *auth.Service, codec *token.Codec, google *GoogleOAuth) (*Server, error) {
	if authService == nil {
		return nil, fmt.Errorf("[Server New] auth service is required")
	}
	if codec == nil {
		return nil, fmt.Errorf("[Server New] token codec is required")
	}

	s := &Server{
		mux:    http.NewServeMux(),
		config: cfg,
		auth:   authService,
		codec:  codec,
		google: google,
	}
	s.env = cfg.GetEnv()

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Route patterns are method-qualified, so preflight requests would
	// never reach the CORS middleware through the mux. Answer them here.
	if r.Method == http.MethodOptions && r.Header.Get("Origin") != "" {
		s.CorsMiddleware(func(http.ResponseWriter, *http.Request) {})(w, r)
		return
	}
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Printf("[%-19s] %s\n", displayMethod, path)
}
