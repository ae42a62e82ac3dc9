package routes

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/templui/goalvoice/internal/app"
	"github.com/templui/goalvoice/internal/handler"
	"github.com/templui/goalvoice/internal/middleware"
)

const (
	authRateLimit  = 20
	authRateWindow = 15 * time.Minute
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	auth := handler.NewAuthHandler(app.AuthService, app.UserService)
	goal := handler.NewGoalHandler(app.GoalService)
	conversation := handler.NewConversationHandler(app.ConversationService)
	webhook := handler.NewWebhookHandler(app.Pipeline, app.WebhookVerifier)

	api := app.Cfg.APIPrefix()
	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /health", handler.Health)
	mux.Handle("GET /metrics", promhttp.HandlerFor(app.Registry, promhttp.HandlerOpts{}))

	// Auth (rate limited)
	rateLimiter := middleware.RateLimit(authRateLimit, authRateWindow)

	mux.HandleFunc("POST "+api+"/auth/register", rateLimiter(auth.Register))
	mux.HandleFunc("POST "+api+"/auth/login", rateLimiter(auth.Login))
	mux.HandleFunc("GET "+api+"/auth/me", middleware.RequireAuth(auth.Me))

	// ============================================================================
	// PROTECTED ROUTES
	// ============================================================================

	// Goals
	mux.HandleFunc("POST "+api+"/goals", middleware.RequireAuth(goal.Create))
	mux.HandleFunc("GET "+api+"/goals", middleware.RequireAuth(goal.List))
	mux.HandleFunc("GET "+api+"/goals/{id}", middleware.RequireAuth(goal.Get))
	mux.HandleFunc("PUT "+api+"/goals/{id}", middleware.RequireAuth(goal.Update))
	mux.HandleFunc("DELETE "+api+"/goals/{id}", middleware.RequireAuth(goal.Delete))

	// Conversations
	mux.HandleFunc("GET "+api+"/conversations", middleware.RequireAuth(conversation.List))

	// ============================================================================
	// WEBHOOKS
	// ============================================================================

	// Voice assistant end-of-call report (signature checked when a secret is set)
	mux.HandleFunc("POST "+api+"/webhooks/vapi/conversation-end", webhook.ConversationEnd)

	// ============================================================================
	// FALLBACK
	// ============================================================================

	mux.HandleFunc("/", handler.NotFound)

	// Global middleware - executed in order (top to bottom)
	return middleware.Chain(
		mux,
		middleware.Recover,
		middleware.RequestID,
		middleware.RequestLogging,
		middleware.CORS(app.Cfg.CORSOrigins),
		middleware.AuthMiddleware(app.AuthService),
		middleware.Metrics(app.Metrics), // reads r.Pattern, so it must wrap the mux directly
	)
}
