/*
Package main is the entry point for the Chat Relay server.

It loads configuration, initializes the global logging system, loads the
credential table, starts the chat hub dispatch loop, and serves HTTP while
handling operating system interrupt signals (SIGINT, SIGTERM) for a
graceful shutdown.
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chatrelay/internal/app/auth"
	"chatrelay/internal/app/chat"
	"chatrelay/internal/configs"
	"chatrelay/internal/handler"
	"chatrelay/internal/pkg/logx"
)

func main() {
	// Load configuration from environment variables
	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	logx.InitGlobalLogger(cfg.IsDevelopment())
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Int("history_limit", cfg.HistoryLimit).
		Dur("pairing_ttl", cfg.PairingTTL).
		Msg("Configuration loaded successfully")

	// Load the credential table for role escalation
	creds, err := auth.LoadCredentials(cfg.CredentialsFile)
	if err != nil {
		logx.Fatal(err, "Failed to load credential table")
	}
	if len(creds) == 0 {
		logx.Warn("Credential table is empty; sign-in and admin login are disabled.")
	}
	authenticator := auth.NewAuthenticator(creds)

	// Create a context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start the chat hub dispatch loop
	hub := chat.NewHub(authenticator, chat.Config{
		HistoryLimit: cfg.HistoryLimit,
		PairingTTL:   cfg.PairingTTL,
	})
	go hub.Run()

	// Setup HTTP server and routes
	deps := &handler.AppDeps{
		Hub:           hub,
		Authenticator: authenticator,
		Config:        cfg,
	}
	router := handler.Router(deps)

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logx.Info(fmt.Sprintf("Chat Relay Server starting on http://localhost%s", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.Fatal(err, "Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 5 seconds.
	<-ctx.Done()
	logx.Info("Received shutdown signal. Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logx.Fatal(err, "Server forced to shutdown")
	}

	hub.Shutdown()

	logx.Info("Server gracefully stopped.")
}
