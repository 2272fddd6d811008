/*
Package handler provides the HTTP handlers and routing setup for the relay.

This file contains the admin login endpoint, which turns a credential pair
into a signed admin token. The token is the transport-level credential a
later WebSocket upgrade consumes to start its session escalated.
*/
package handler

import (
	"net/http"

	"chatrelay/internal/pkg/auth/token"
	"chatrelay/internal/pkg/errs"
	"chatrelay/internal/pkg/logx"
	"chatrelay/internal/pkg/req"
	"chatrelay/internal/pkg/resp"
)

// AdminLoginInput is the request body of POST /api/admin/login.
type AdminLoginInput struct {
	Name   string `json:"name"`
	Secret string `json:"secret"`
}

// HandleAdminLogin checks the credential pair against the same table used
// for in-band sign-in and issues a signed admin token on success.
func HandleAdminLogin(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input AdminLoginInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		grant, ok := deps.Authenticator.TryAuthenticate(input.Name, input.Secret)
		if !ok {
			logx.Warn("Admin login failed.", "name", input.Name)
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidCredentials))
			return
		}

		tokenString, err := token.Generate(input.Name, string(grant.Role), grant.DisplayName, deps.Config.AdminTokenSecret, token.DefaultExpiration)
		if err != nil {
			logx.Error(err, "Failed to generate admin token")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     token.CookieName,
			Value:    tokenString,
			Path:     "/",
			MaxAge:   int(token.DefaultExpiration.Seconds()),
			HttpOnly: true,
			Secure:   !deps.Config.IsDevelopment(),
			SameSite: http.SameSiteStrictMode,
		})

		resp.RespondSuccess(w, r, map[string]any{
			"token":       tokenString,
			"role":        grant.Role,
			"displayName": grant.DisplayName,
		})
	}
}
