// Command shopmock serves the in-memory storefront backend for local
// development of clients.
//
//	PORT=8080 CORS_ORIGINS=http://localhost:4200 shopmock
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/theAriful7/storefront/internal/fakeshop"
	"github.com/theAriful7/storefront/pkg/logger"
)

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	appLogger := logger.New(os.Stderr, logger.Options{
		Level:  logger.GetLogLevel(),
		Format: os.Getenv("LOG_FORMAT"),
	}).WithField("component", "shopmock")

	opts := []fakeshop.Option{fakeshop.WithLogger(appLogger)}
	if origins := splitOrigins(os.Getenv("CORS_ORIGINS")); len(origins) > 0 {
		opts = append(opts, fakeshop.WithCORS(origins...))
	}
	if os.Getenv("SEED") == "false" {
		opts = append(opts, fakeshop.WithoutSeed())
	}

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           fakeshop.New(opts...),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("shopmock listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	appLogger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
