package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/and161185/ordertrack/internal/config"
	"github.com/and161185/ordertrack/internal/deps"
	"github.com/and161185/ordertrack/internal/errs"
	"github.com/and161185/ordertrack/internal/middleware"
	"github.com/and161185/ordertrack/internal/model"
	"github.com/and161185/ordertrack/internal/service"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	auth      *service.AuthService
	orders    *service.OrderService
	analytics *service.AnalyticsService
	db        Pinger
	config    *config.Config
	deps      *deps.Deps
}

func NewServer(auth *service.AuthService, orders *service.OrderService, analytics *service.AnalyticsService, db Pinger, config *config.Config, deps *deps.Deps) *Server {
	return &Server{
		auth:      auth,
		orders:    orders,
		analytics: analytics,
		db:        db,
		config:    config,
		deps:      deps,
	}
}

func (srv *Server) buildRouter() http.Handler {
	router := chi.NewRouter()
	router.Use(chiMiddleware.StripSlashes)
	router.Use(chiMiddleware.Recoverer)
	router.Use(middleware.LogMiddleware(srv.deps.Logger))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{"Authorization"},
		MaxAge:         300,
	}))
	router.Use(chiMiddleware.Compress(5))
	// токен пока не обязателен — middleware только кладёт claims в контекст
	router.Use(middleware.Authenticate(srv.deps.TokenManager))

	router.Post("/api/auth/register", srv.RegisterHandler)
	router.Post("/api/auth/login", srv.LoginHandler)
	router.Post("/api/auth/validate", srv.ValidateTokenHandler)

	router.Route("/api/orders", func(r chi.Router) {
		r.Post("/", srv.CreateOrderHandler)
		r.Get("/", srv.ListOrdersHandler)
		r.Get("/search", srv.SearchOrdersHandler)
		r.Get("/{id}", srv.GetOrderHandler)
		r.Put("/{id}", srv.UpdateOrderHandler)
		r.Put("/{id}/status", srv.UpdateOrderStatusHandler)
		r.Delete("/{id}", srv.DeleteOrderHandler)
	})

	router.Get("/api/analytics/dashboard", srv.DashboardHandler)
	router.Get("/api/analytics/sales-chart", srv.SalesChartHandler)
	router.Get("/api/health", srv.HealthHandler)

	router.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(srv.config.UploadDir))))

	return router
}

func (srv *Server) Run(ctx context.Context) error {
	router := srv.buildRouter()

	server := &http.Server{
		Addr:    srv.config.RunAddress,
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			srv.deps.Logger.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func (s *Server) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad request")
		return
	}

	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)
	displayName := strings.TrimSpace(req.DisplayName)

	switch {
	case username == "":
		writeError(w, http.StatusBadRequest, "username is required")
		return
	case email == "":
		writeError(w, http.StatusBadRequest, "email is required")
		return
	case len(req.Password) < 6:
		writeError(w, http.StatusBadRequest, "password must be at least 6 characters long")
		return
	case displayName == "":
		writeError(w, http.StatusBadRequest, "display name is required")
		return
	}

	result, err := s.auth.Register(r.Context(), username, email, req.Password, displayName)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrUsernameTaken):
			writeError(w, http.StatusConflict, "username already exists")
		case errors.Is(err, errs.ErrEmailTaken):
			writeError(w, http.StatusConflict, "email already exists")
		default:
			s.deps.Logger.Errorf("register: %v", err)
			writeError(w, http.StatusInternalServerError, "registration failed")
		}
		return
	}

	w.Header().Set("Authorization", "Bearer "+result.Token)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad request")
		return
	}

	if strings.TrimSpace(req.UsernameOrEmail) == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username or email and password required")
		return
	}

	result, err := s.auth.Login(r.Context(), strings.TrimSpace(req.UsernameOrEmail), req.Password)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrAccountNotFound):
			writeError(w, http.StatusNotFound, "user not found")
		case errors.Is(err, errs.ErrAccountDeactivated):
			writeError(w, http.StatusForbidden, "account is deactivated")
		case errors.Is(err, errs.ErrInvalidCredentials):
			writeError(w, http.StatusUnauthorized, "invalid credentials")
		default:
			s.deps.Logger.Errorf("login: %v", err)
			writeError(w, http.StatusInternalServerError, "login failed")
		}
		return
	}

	w.Header().Set("Authorization", "Bearer "+result.Token)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) ValidateTokenHandler(w http.ResponseWriter, r *http.Request) {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		writeError(w, http.StatusUnauthorized, "missing bearer token")
		return
	}

	claims, err := s.deps.TokenManager.ParseToken(strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	account, err := s.auth.FindByUsername(r.Context(), claims.Subject)
	if err != nil {
		if errors.Is(err, errs.ErrAccountNotFound) {
			writeError(w, http.StatusUnauthorized, "unknown subject")
			return
		}
		s.deps.Logger.Errorf("validate token: %v", err)
		writeError(w, http.StatusInternalServerError, "validation failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"valid":   true,
		"subject": claims.Subject,
		"role":    claims.Role,
		"account": account,
	})
}

func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Ping(r.Context()); err != nil {
		s.deps.Logger.Errorf("health: %v", err)
		writeError(w, http.StatusInternalServerError, "storage unavailable")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
