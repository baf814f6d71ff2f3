package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-push-api/internal/application/dispatcher"
	"github.com/go-push-api/internal/application/export"
	"github.com/go-push-api/internal/application/notification"
	"github.com/go-push-api/internal/application/registry"
	"github.com/go-push-api/internal/application/todo"
	"github.com/go-push-api/internal/config"
	"github.com/go-push-api/internal/transport/http/handler"
	appmiddleware "github.com/go-push-api/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Internal-Key"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	var authMw, optionalAuthMw func(http.Handler) http.Handler
	if deps.JWTProvider != nil {
		authMw = appmiddleware.Auth(deps.JWTProvider)
		optionalAuthMw = appmiddleware.OptionalAuth(deps.JWTProvider)
	} else {
		authMw = func(next http.Handler) http.Handler { return next }
		optionalAuthMw = authMw
	}

	// 5 requests/second, burst of 10 — the internal dispatch surface fans out
	// to every registered device, so it gets the tightest budget.
	internalRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)
	internalKey := appmiddleware.InternalKey(cfg.InternalAPIKey)

	registrySvc := registry.NewService(deps.PushTokenRepo)
	dispatchSvc := dispatcher.NewService(registrySvc, deps.NotificationRepo, deps.PushTransport, cfg.PushTimeout)
	notifSvc := notification.NewService(deps.NotificationRepo)
	todoSvc := todo.NewService(deps.TodoRepo)
	exportSvc := export.NewService(deps.NotificationRepo, deps.ExportStore)

	healthH := handler.NewHealthHandler()
	tokenH := handler.NewPushTokenHandler(registrySvc)
	notifH := handler.NewNotificationHandler(notifSvc)
	todoH := handler.NewTodoHandler(todoSvc)
	dispatchH := handler.NewDispatchHandler(dispatchSvc, registrySvc, exportSvc)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)
		r.Get("/todos", todoH.List)

		// Anonymous callers degrade to empty results on these two reads.
		r.With(optionalAuthMw).Get("/notifications", notifH.ListMine)
		r.With(optionalAuthMw).Get("/notifications/unread-count", notifH.UnreadCount)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Post("/push-tokens", tokenH.Register)
			r.Put("/notifications/{id}/read", notifH.MarkRead)
			r.Post("/todos", todoH.Add)
		})

		// ── Internal (trusted backend-to-backend) routes ─────────────────────
		r.Route("/internal", func(r chi.Router) {
			r.Use(internalKey)
			r.Use(internalRL.Limit)

			r.Get("/push-tokens", dispatchH.ListTokens)
			r.Get("/push-tokens/{userId}", dispatchH.LookupToken)
			r.Get("/push-tokens/by-token/{token}", dispatchH.ReverseLookup)
			r.Post("/notifications/send", dispatchH.Send)
			r.Post("/notifications/send-bulk", dispatchH.SendBulk)
			r.Post("/notifications/broadcast", dispatchH.Broadcast)
			r.Post("/notifications/export", dispatchH.Export)
		})
	})

	return r
}
