package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/vape-shop-api/internal/application/homepage"
	"github.com/vape-shop-api/internal/application/phoneauth"
	"github.com/vape-shop-api/internal/application/session"
	"github.com/vape-shop-api/internal/application/telegramauth"
	"github.com/vape-shop-api/internal/application/user"
	"github.com/vape-shop-api/internal/config"
	"github.com/vape-shop-api/internal/domain"
	"github.com/vape-shop-api/internal/transport/http/handler"
	appmiddleware "github.com/vape-shop-api/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router. ctx bounds the
// background work the router owns (rate limiter cleanup).
func NewRouter(ctx context.Context, cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Applied to every endpoint that can send a message or probe a code.
	authRL := appmiddleware.NewRateLimiter(ctx, rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)

	sessionSvc := session.NewService(session.ServiceDeps{
		SessionRepo:     deps.SessionRepo,
		UserRepo:        deps.UserRepo,
		JWTProvider:     deps.JWTProvider,
		RefreshTokenDur: cfg.RefreshTokenExpiry(),
	})
	phoneSvc := phoneauth.NewService(phoneauth.ServiceDeps{
		Codes:             deps.PhoneCodeRepo,
		Users:             deps.UserRepo,
		Notifier:          deps.Notifier,
		TTL:               cfg.PhoneCodeTTL,
		SingleOutstanding: cfg.PhoneCodeSingleOutstanding,
	})
	telegramSvc := telegramauth.NewService(telegramauth.ServiceDeps{
		Verifier: deps.LoginVerifier,
		UserRepo: deps.UserRepo,
		AdminIDs: cfg.AdminTelegramIDs,
	})
	userSvc := user.NewService(user.ServiceDeps{UserRepo: deps.UserRepo})
	homeDeps := homepage.ServiceDeps{BlockRepo: deps.HomeBlockRepo, CacheTTL: cfg.HomepageCacheTTL}
	if deps.BlockCache != nil {
		homeDeps.Cache = deps.BlockCache
	}
	homeSvc := homepage.NewService(homeDeps)

	healthH := handler.NewHealthHandler(deps.Ready)
	phoneH := handler.NewPhoneAuthHandler(phoneSvc, sessionSvc)
	telegramH := handler.NewTelegramAuthHandler(telegramSvc, sessionSvc)
	sessionH := handler.NewSessionHandler(sessionSvc)
	userH := handler.NewUserHandler(userSvc)
	homeH := handler.NewHomepageHandler(homeSvc)
	maintH := handler.NewMaintenanceHandler(deps.Sweeper)

	r.Route("/api", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)
		r.With(authRL.Limit).Post("/auth/phone/send-code", phoneH.SendCode)
		r.With(authRL.Limit).Post("/auth/phone/verify-code", phoneH.VerifyCode)
		r.With(authRL.Limit).Post("/auth/telegram", telegramH.Login)
		r.Post("/sessions/refresh", sessionH.Refresh)
		r.Get("/homepage/blocks", homeH.List)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(appmiddleware.Auth(deps.JWTProvider))

			r.Get("/sessions", sessionH.List)
			r.Get("/sessions/current", sessionH.GetCurrent)
			r.Post("/sessions/logout", sessionH.Logout)
			r.Get("/users/me", userH.Me)
			r.Put("/users/me", userH.UpdateMe)

			// Admin-only routes
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireRole(domain.RoleAdmin))

				r.Put("/admin/homepage/blocks", homeH.Update)
				r.Post("/admin/maintenance/phone-codes/sweep", maintH.SweepPhoneCodes)
			})
		})
	})

	return r
}
