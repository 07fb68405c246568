package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/go-commerce-api/internal/application/auth"
	"github.com/go-commerce-api/internal/application/maintenance"
	"github.com/go-commerce-api/internal/application/otp"
	productapp "github.com/go-commerce-api/internal/application/product"
	shopapp "github.com/go-commerce-api/internal/application/shop"
	"github.com/go-commerce-api/internal/config"
	"github.com/go-commerce-api/internal/domain"
	"github.com/go-commerce-api/internal/observability"
	"github.com/go-commerce-api/internal/transport/http/handler"
	appmiddleware "github.com/go-commerce-api/internal/transport/http/middleware"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(observability.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	authMw := appmiddleware.Auth(deps.JWTProvider)
	sellerOnly := appmiddleware.RequireRole(domain.RoleSeller)
	userOnly := appmiddleware.RequireRole(domain.RoleUser)

	// 5 requests/second, burst of 10, applied to sensitive public endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	otpSvc := otp.NewService(otp.ServiceDeps{
		Store:     deps.KV,
		Mailer:    deps.Mailer,
		SMSSender: deps.SMSSender,
	})
	authSvc := auth.NewService(auth.ServiceDeps{
		Users:         deps.UserRepo,
		Sellers:       deps.SellerRepo,
		Shops:         deps.ShopRepo,
		OTP:           otpSvc,
		Tokens:        deps.JWTProvider,
		ResetGrants:   deps.KV,
		ResetGrantTTL: time.Duration(cfg.ResetGrantTTLMin) * time.Minute,
	})
	shopSvc := shopapp.NewService(shopapp.ServiceDeps{
		Shops:   deps.ShopRepo,
		Sellers: deps.SellerRepo,
	})
	productSvc := productapp.NewService(productapp.ServiceDeps{
		Products:   deps.ProductRepo,
		Discounts:  deps.DiscountRepo,
		Sellers:    deps.SellerRepo,
		SiteConfig: deps.SiteConfigRepo,
		Images:     deps.S3Store,
		Retention:  time.Duration(cfg.ProductRetentionHours) * time.Hour,
	})
	maintSvc := maintenance.NewService(maintenance.ServiceDeps{
		Products: deps.ProductRepo,
	})

	accessTTL := time.Duration(cfg.AccessTokenTTLMin) * time.Minute
	refreshTTL := time.Duration(cfg.RefreshTokenTTLDays) * 24 * time.Hour

	healthH := handler.NewHealthHandler()
	authH := handler.NewAuthHandler(authSvc, accessTTL, refreshTTL)
	shopH := handler.NewShopHandler(shopSvc)
	productH := handler.NewProductHandler(productSvc)
	maintH := handler.NewMaintenanceHandler(maintSvc, cfg.CronSecret)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health-check/{action}", healthH.Ping)

		r.Route("/auth", func(r chi.Router) {
			// ── Public routes ────────────────────────────────────────────────
			r.With(sensitiveRL.Limit).Post("/user-registration", authH.RegisterUser)
			r.With(sensitiveRL.Limit).Post("/verify-user", authH.VerifyUser)
			r.With(sensitiveRL.Limit).Post("/login-user", authH.LoginUser)
			r.With(sensitiveRL.Limit).Post("/seller-registration", authH.RegisterSeller)
			r.With(sensitiveRL.Limit).Post("/verify-seller", authH.VerifySeller)
			r.With(sensitiveRL.Limit).Post("/login-seller", authH.LoginSeller)
			r.Post("/refresh-token", authH.Refresh)
			r.With(sensitiveRL.Limit).Post("/forgot-password-user", authH.ForgotPassword(domain.RoleUser))
			r.With(sensitiveRL.Limit).Post("/verify-forgot-password-user", authH.VerifyForgotPassword(domain.RoleUser))
			r.With(sensitiveRL.Limit).Post("/reset-password-user", authH.ResetPassword(domain.RoleUser))
			r.With(sensitiveRL.Limit).Post("/forgot-password-seller", authH.ForgotPassword(domain.RoleSeller))
			r.With(sensitiveRL.Limit).Post("/verify-forgot-password-seller", authH.VerifyForgotPassword(domain.RoleSeller))
			r.With(sensitiveRL.Limit).Post("/reset-password-seller", authH.ResetPassword(domain.RoleSeller))
			r.Post("/logout-user", authH.LogoutUser)
			r.Post("/logout-seller", authH.LogoutSeller)

			// ── Authenticated routes ─────────────────────────────────────────
			r.Group(func(r chi.Router) {
				r.Use(authMw)

				r.With(userOnly).Get("/logged-in-user", authH.LoggedInUser)
				r.With(sellerOnly).Get("/logged-in-seller", authH.LoggedInSeller)
				r.With(sellerOnly).Post("/create-shop", shopH.Create)
			})
		})

		r.Route("/product", func(r chi.Router) {
			// ── Public routes ────────────────────────────────────────────────
			r.Get("/get-categories", productH.Categories)
			r.Get("/get-product/{slug}", productH.GetBySlug)
			r.Get("/get-shop/{id}", shopH.Get)

			// ── Seller dashboard routes ──────────────────────────────────────
			r.Group(func(r chi.Router) {
				r.Use(authMw, sellerOnly)

				r.Post("/create-discount-code", productH.CreateDiscountCode)
				r.Get("/get-discount-codes", productH.ListDiscountCodes)
				r.Delete("/delete-discount-code/{id}", productH.DeleteDiscountCode)
				r.Post("/upload-product-image", productH.UploadImage)
				r.Delete("/delete-product-image", productH.DeleteImage)
				r.Post("/create-product", productH.Create)
				r.Get("/get-shop-products", productH.ListShopProducts)
				r.Delete("/delete-product/{id}", productH.Delete)
				r.Put("/restore-product/{id}", productH.Restore)
			})
		})

		r.Post("/maintenance/purge", maintH.Purge)
	})

	return r
}
