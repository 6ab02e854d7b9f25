package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/crm-service/internal/api/http/handlers"
	"github.com/spec-kit/crm-service/internal/auth"
	"github.com/spec-kit/crm-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Hiring         *handlers.HiringHandler
	Onboarding     *handlers.OnboardingHandler
	Auth           *handlers.AuthHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/password/change", cfg.AuthMiddleware.Handle, auth.RequireRole(), cfg.Auth.ChangePassword)

	// Onboarding is token-gated, not session-gated: the invite link is the
	// hire's only credential before activation.
	onboarding := app.Group("/onboarding")
	onboarding.Get("/invite/:token", cfg.Onboarding.ValidateToken)
	onboarding.Get("/:inviteId/status", cfg.Onboarding.Status)
	onboarding.Post("/signature", cfg.Onboarding.SubmitSignature)
	onboarding.Post("/payment", cfg.Onboarding.SubmitPayment)
	onboarding.Post("/training", cfg.Onboarding.SubmitTraining)
	onboarding.Post("/register", cfg.Onboarding.Register)

	hiring := app.Group("/hiring", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleHiringTeam, domain.RoleAdmin))
	hiring.Post("/invitations", cfg.Hiring.CreateInvitation)
	hiring.Get("/invitations", cfg.Hiring.ListInvitations)
	hiring.Post("/invitations/bulk", cfg.Hiring.BulkCreateInvitations)
	hiring.Post("/invitations/:id/resend", cfg.Hiring.ResendInvitation)
	hiring.Post("/invitations/:id/revoke", cfg.Hiring.RevokeInvitation)
}
