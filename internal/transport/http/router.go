package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-notify-links/internal/config"
	jwtinfra "github.com/go-notify-links/internal/infrastructure/jwt"
	"github.com/go-notify-links/internal/transport/http/handler"
	appmiddleware "github.com/go-notify-links/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds the application router. The returned stop func releases
// the rate limiter's background cleanup and is safe to call more than once.
func NewRouter(cfg *config.Config, deps *Deps) (http.Handler, func()) {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	if cfg.TrustProxy {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(appmiddleware.RequestLogger(deps.Log.With().Str("component", "http").Logger()))
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	passthrough := func(next http.Handler) http.Handler { return next }
	authMw := passthrough
	scope := func(...string) func(http.Handler) http.Handler { return passthrough }
	if deps.JWTProvider != nil {
		authMw = appmiddleware.Auth(deps.JWTProvider)
		scope = appmiddleware.RequireScope
	}

	// 20 requests/second, burst of 40, per client on the write endpoints.
	writeRL := appmiddleware.NewRateLimiter(rate.Limit(20), 40)

	healthH := handler.NewHealthHandler()
	channelH := handler.NewChannelHandler(deps.Channels)
	notifH := handler.NewNotificationHandler(deps.Notifications)
	actionH := handler.NewActionHandler(deps.Actions)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health-check/{action}", healthH.Ping)

		r.Group(func(r chi.Router) {
			r.Use(authMw)
			r.Use(scope(jwtinfra.ScopeNotify, jwtinfra.ScopeAdmin))

			r.Get("/channels", channelH.List)
			r.Get("/channels/{id}", channelH.Get)

			r.With(writeRL.Limit).Post("/notifications", notifH.Create)
			r.Get("/notifications", notifH.List)
			r.Delete("/notifications/{id}", notifH.Cancel)
			r.Post("/notifications/{id}/dismiss", notifH.Dismiss)
			r.With(writeRL.Limit).Post("/actions", actionH.Trigger)

			if deps.Hub != nil {
				r.Handle("/ws", deps.Hub)
			}

			r.With(scope(jwtinfra.ScopeAdmin)).Delete("/notifications", notifH.CancelAll)
		})
	})

	return r, writeRL.Stop
}
