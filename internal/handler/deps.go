package handler

import (
	"chatrelay/internal/app/auth"
	"chatrelay/internal/app/chat"
	"chatrelay/internal/configs"
)

// AppDeps bundles the dependencies shared by all HTTP handlers.
type AppDeps struct {
	Hub           *chat.Hub
	Authenticator *auth.Authenticator
	Config        *configs.AppConfig
}
