package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/hobbang/studyhub/config"
	"github.com/hobbang/studyhub/internal/account"
	"github.com/hobbang/studyhub/internal/sessions"
	"github.com/hobbang/studyhub/logger"
)

// Server exposes the account operations over HTTP.
type Server struct {
	router   *mux.Router
	accounts *account.Service
	sessions *sessions.Manager
	port     string
	rps      int
}

func NewServer(cfg *config.Config, accounts *account.Service, sessionManager *sessions.Manager) *Server {
	rps := cfg.RateLimitRPS
	if rps <= 0 {
		rps = 10
	}
	s := &Server{
		router:   mux.NewRouter(),
		accounts: accounts,
		sessions: sessionManager,
		port:     cfg.Port,
		rps:      rps,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(requestLogger)
	s.router.Use(rateLimit(s.rps)) // requests per second, shared across clients

	s.router.HandleFunc("/health", s.healthHandler).Methods(http.MethodGet)
	s.router.HandleFunc("/sign-up", s.signUpHandler).Methods(http.MethodPost)
	s.router.HandleFunc("/check-email-token", s.checkEmailTokenHandler).Methods(http.MethodGet)
	s.router.HandleFunc("/login", s.loginHandler).Methods(http.MethodPost)
	s.router.HandleFunc("/members/count", s.verifiedCountHandler).Methods(http.MethodGet)

	settings := s.router.PathPrefix("/settings").Subrouter()
	settings.Use(s.sessions.Require)
	settings.HandleFunc("/profile", s.getProfileHandler).Methods(http.MethodGet)
	settings.HandleFunc("/profile", s.updateProfileHandler).Methods(http.MethodPost)
	settings.HandleFunc("/notifications", s.updateNotificationsHandler).Methods(http.MethodPost)
}

// Handler returns the configured router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Run() error {
	srv := &http.Server{
		Addr:         ":" + s.port,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	logger.Info("starting http server", logger.String("port", s.port))
	return srv.ListenAndServe()
}
