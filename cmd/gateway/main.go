package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/go-commerce-api/internal/config"
	"github.com/go-commerce-api/internal/gateway"
	jwtinfra "github.com/go-commerce-api/internal/infrastructure/jwt"
	"github.com/go-commerce-api/internal/observability"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	if err := observability.InitSentry(cfg.SentryDSN, cfg.AppEnv); err != nil {
		log.Printf("WARN: sentry init failed: %v", err)
	}
	defer observability.FlushSentry()

	// The gateway only needs the access secret to pick a rate tier; it never
	// authorizes requests itself.
	jwtProvider, err := jwtinfra.NewProvider(cfg)
	if err != nil {
		log.Fatalf("jwt provider: %v", err)
	}

	gw, err := gateway.New(cfg, jwtProvider)
	if err != nil {
		log.Fatalf("gateway: %v", err)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.GatewayPort),
		Handler:      gw.Handler(cfg),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Gateway starting on :%s -> %s", cfg.GatewayPort, cfg.GatewayUpstreamURL)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("gateway error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down gateway...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Gateway stopped")
}
