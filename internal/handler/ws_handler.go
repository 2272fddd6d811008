/*
Package handler provides the HTTP handlers and routing setup for the relay.

This file contains the WebSocket upgrade handler. It assigns the
connection identifier, resolves the optional admin token into an
escalated-role grant, and starts the client's pump goroutines.
*/
package handler

import (
	"net/http"

	"github.com/gorilla/websocket"

	"chatrelay/internal/app/auth"
	"chatrelay/internal/app/chat"
	"chatrelay/internal/app/session"
	"chatrelay/internal/pkg/auth/token"
	"chatrelay/internal/pkg/errs"
	"chatrelay/internal/pkg/limiter"
	"chatrelay/internal/pkg/logx"
	"chatrelay/internal/pkg/randx"
	"chatrelay/internal/pkg/resp"
)

// HandleWebSocket returns the HandlerFunc that upgrades connections and
// hands them to the hub.
func HandleWebSocket(upgrader websocket.Upgrader, rateLimiter *limiter.IPRateLimiter, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := limiter.ClientIP(r)

		if !rateLimiter.GetLimiter(ip).Allow() {
			logx.Warn("WebSocket connection rejected: Rate limit exceeded.", "ip", ip)
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		grant := adminGrant(r, deps.Config.AdminTokenSecret)

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		// The transport assigns the connection identifier; it is stable
		// for the connection's lifetime and never reused while live.
		sessionID := randx.ConnectionID()

		client := chat.NewClient(deps.Hub, conn, sessionID, grant)

		go client.WritePump()

		logx.Info("WebSocket connection established", "session_id", sessionID, "escalated", grant != nil)

		deps.Hub.RegisterClient(client)

		client.ReadPump()
	}
}

// adminGrant resolves the admin token cookie (or query parameter) into the
// escalated role the new session starts with. Absent or invalid tokens
// yield an ordinary unescalated session.
func adminGrant(r *http.Request, secret string) *auth.Grant {
	tokenString := ""
	if cookie, err := r.Cookie(token.CookieName); err == nil {
		tokenString = cookie.Value
	}
	if tokenString == "" {
		tokenString = r.URL.Query().Get(token.CookieName)
	}
	if tokenString == "" {
		return nil
	}

	claims, err := token.Parse(tokenString, secret)
	if err != nil {
		logx.Warn("Invalid admin token presented at upgrade; continuing unescalated.", "error", err.Error())
		return nil
	}

	return &auth.Grant{
		Role:        session.Role(claims.Role),
		DisplayName: claims.DisplayName,
	}
}
