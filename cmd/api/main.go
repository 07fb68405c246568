package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/go-commerce-api/internal/application/maintenance"
	"github.com/go-commerce-api/internal/config"
	"github.com/go-commerce-api/internal/domain"
	"github.com/go-commerce-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/go-commerce-api/internal/infrastructure/jwt"
	s3infra "github.com/go-commerce-api/internal/infrastructure/s3"
	"github.com/go-commerce-api/internal/infrastructure/smtp"
	"github.com/go-commerce-api/internal/infrastructure/sns"
	"github.com/go-commerce-api/internal/observability"
	transporthttp "github.com/go-commerce-api/internal/transport/http"
)

// defaultSiteConfig seeds the category catalogue on first boot; a deployed
// catalogue is never overwritten.
var defaultSiteConfig = domain.SiteConfig{
	Categories: []string{"electronics", "fashion", "home & kitchen", "sports & fitness"},
	SubCategories: map[string][]string{
		"electronics":      {"mobiles", "laptops", "accessories", "gaming"},
		"fashion":          {"men", "women", "kids", "footwear"},
		"home & kitchen":   {"furniture", "appliances", "decor"},
		"sports & fitness": {"gym equipment", "outdoor", "wearables"},
	},
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	if err := observability.InitSentry(cfg.SentryDSN, cfg.AppEnv); err != nil {
		log.Printf("WARN: sentry init failed: %v", err)
	}
	defer observability.FlushSentry()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient, err := dynamo.NewClient(cfg)
	if err != nil {
		log.Fatalf("dynamodb client: %v", err)
	}
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	siteConfigRepo := dynamo.NewSiteConfigRepo(dynamoClient, cfg.DynamoTables.SiteConfig)
	if err := siteConfigRepo.Ensure(context.Background(), &defaultSiteConfig); err != nil {
		log.Printf("WARN: could not seed site config: %v", err)
	}

	jwtProvider, err := jwtinfra.NewProvider(cfg)
	if err != nil {
		log.Fatalf("jwt provider: %v", err)
	}

	// S3 store for product images.
	s3Client, err := s3infra.NewClient(cfg)
	if err != nil {
		log.Fatalf("s3 client: %v", err)
	}
	s3Store := s3infra.NewStore(s3Client, cfg)

	// SMTP mailer.
	mailer := smtp.NewMailer(cfg)

	// SNS SMS sender. Optional: without it OTP delivery falls back to email.
	var smsSender sns.SMSSender
	if sender, err := sns.NewSender(cfg); err == nil {
		smsSender = sender
	} else {
		log.Printf("WARN: SNS sender not available: %v", err)
	}

	productRepo := dynamo.NewProductRepo(dynamoClient, cfg.DynamoTables.Products)

	deps := &transporthttp.Deps{
		UserRepo:       dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users),
		SellerRepo:     dynamo.NewSellerRepo(dynamoClient, cfg.DynamoTables.Sellers),
		ShopRepo:       dynamo.NewShopRepo(dynamoClient, cfg.DynamoTables.Shops),
		ProductRepo:    productRepo,
		DiscountRepo:   dynamo.NewDiscountRepo(dynamoClient, cfg.DynamoTables.DiscountCodes),
		SiteConfigRepo: siteConfigRepo,
		KV:             dynamo.NewKVStore(dynamoClient, cfg.DynamoTables.OtpState),
		S3Store:        s3Store,
		Mailer:         mailer,
		SMSSender:      smsSender,
		JWTProvider:    jwtProvider,
	}

	router := transporthttp.NewRouter(cfg, deps)

	// Hourly purge of soft-deleted products whose retention window lapsed.
	purgeCtx, stopPurge := context.WithCancel(context.Background())
	defer stopPurge()
	go runPurgeLoop(purgeCtx, maintenance.NewService(maintenance.ServiceDeps{Products: productRepo}))

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	stopPurge()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}

func runPurgeLoop(ctx context.Context, svc maintenance.Service) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			purged, err := svc.PurgeExpired(ctx, time.Now().UTC())
			if err != nil {
				slog.Error("purge sweep failed", "err", err)
				continue
			}
			if purged > 0 {
				slog.Info("purge sweep complete", "purged", purged)
			}
		}
	}
}
