/*
Package handler provides the HTTP handlers and routing setup for the relay.

This file defines the main Router, applying logging, CORS, and rate
limiting middleware before delegating to the WebSocket and API handlers.
The static asset directory, including the admin page, is plain glue around
the chat core.
*/
package handler

import (
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"chatrelay/internal/pkg/limiter"
	"chatrelay/internal/pkg/logx"
	"chatrelay/internal/pkg/resp"
)

const (
	// ConnectRate and ConnectBurst bound WebSocket connection attempts per IP.
	ConnectRate  = 0.5
	ConnectBurst = 5

	// LoginRate and LoginBurst bound admin login attempts per IP.
	LoginRate  = 0.1
	LoginBurst = 3
)

// Router sets up the application's chi routing table, including CORS, the
// per-route rate limiters, the WebSocket endpoint, and static assets.
func Router(deps *AppDeps) http.Handler {
	connectLimiter := limiter.NewIPRateLimiter(rate.Limit(ConnectRate), ConnectBurst)
	loginLimiter := limiter.NewIPRateLimiter(rate.Limit(LoginRate), LoginBurst)

	r := chi.NewRouter()

	allowedOrigins := make(map[string]struct{})
	for _, origin := range deps.Config.AllowedOrigins {
		allowedOrigins[origin] = struct{}{}
	}

	wsUpgrader := websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if deps.Config.IsDevelopment() {
				return true
			}

			origin := r.Header.Get("Origin")
			if _, ok := allowedOrigins[origin]; ok {
				return true
			}

			logx.Warn("WebSocket connection rejected: Origin not allowed.", "origin", origin)
			return false
		},
	}

	corsAllowedOrigins := []string{}
	if deps.Config.IsDevelopment() {
		corsAllowedOrigins = []string{"*"}
	} else if len(deps.Config.AllowedOrigins) > 0 {
		corsAllowedOrigins = deps.Config.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   corsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		data := map[string]string{
			"status":  "ok",
			"service": "Chat Relay Server",
		}
		resp.RespondSuccess(w, r, data)
	})

	r.Route("/api", func(api chi.Router) {
		rateLimitedLogin := loginLimiter.Middleware(HandleAdminLogin(deps))
		api.Post("/admin/login", rateLimitedLogin.ServeHTTP)
	})

	r.Get("/ws", HandleWebSocket(wsUpgrader, connectLimiter, deps))

	if deps.Config.StaticDir != "" {
		fileServer := http.FileServer(http.Dir(deps.Config.StaticDir))

		r.Get("/admin", func(w http.ResponseWriter, r *http.Request) {
			http.ServeFile(w, r, filepath.Join(deps.Config.StaticDir, "admin.html"))
		})
		r.Handle("/*", fileServer)
	}

	return r
}
