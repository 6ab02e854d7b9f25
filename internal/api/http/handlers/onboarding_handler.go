package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/crm-service/internal/api/dto"
	"github.com/spec-kit/crm-service/internal/domain"
	"github.com/spec-kit/crm-service/internal/service"
	apperrors "github.com/spec-kit/crm-service/pkg/util/errorutil"
)

// OnboardingHandler serves the invitee-facing onboarding endpoints. These
// routes are unauthenticated: the invite token or invite ID is the only
// credential a hire has before activation.
type OnboardingHandler struct {
	invites    *service.InviteService
	onboarding *service.OnboardingService
}

// NewOnboardingHandler constructs handler.
func NewOnboardingHandler(inviteService *service.InviteService, onboardingService *service.OnboardingService) *OnboardingHandler {
	return &OnboardingHandler{invites: inviteService, onboarding: onboardingService}
}

// ValidateToken GET /onboarding/invite/:token.
func (h *OnboardingHandler) ValidateToken(c *fiber.Ctx) error {
	invite, err := h.invites.ValidateToken(c.Context(), c.Params("token"))
	if err != nil {
		return err
	}
	status, err := h.onboarding.Status(c.Context(), invite.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"invitation": dto.NewInviteSummary(invite),
		"status":     status,
	})
}

// Status GET /onboarding/:inviteId/status.
func (h *OnboardingHandler) Status(c *fiber.Ctx) error {
	status, err := h.onboarding.Status(c.Context(), c.Params("inviteId"))
	if err != nil {
		return err
	}
	return c.JSON(status)
}

// SubmitSignature POST /onboarding/signature.
func (h *OnboardingHandler) SubmitSignature(c *fiber.Ctx) error {
	var req dto.SignatureRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := req.Validate(); err != nil {
		return err
	}

	signature, err := h.onboarding.SubmitSignature(c.Context(), req.InviteID, service.SignatureInput{
		DocType:    domain.SignatureDocType(req.DocType),
		EnvelopeID: req.EnvelopeID,
		FileURL:    req.FileURL,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewSignatureResponse(signature))
}

// SubmitPayment POST /onboarding/payment.
func (h *OnboardingHandler) SubmitPayment(c *fiber.Ctx) error {
	var req dto.PaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := req.Validate(); err != nil {
		return err
	}

	doc, err := h.onboarding.SubmitPaymentDocument(c.Context(), req.InviteID, service.PaymentInput{
		Type:      domain.PaymentDocType(req.Type),
		FileURL:   req.FileURL,
		AcctLast4: req.AcctLast4,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewPaymentDocumentResponse(doc))
}

// SubmitTraining POST /onboarding/training.
func (h *OnboardingHandler) SubmitTraining(c *fiber.Ctx) error {
	var req dto.TrainingRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := req.Validate(); err != nil {
		return err
	}

	training, err := h.onboarding.SubmitTraining(c.Context(), req.InviteID, service.TrainingInput{
		Score:       *req.Score,
		Attestation: req.Attestation,
		IPAddr:      req.IPAddr,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewTrainingResponse(training))
}

// Register POST /onboarding/register.
func (h *OnboardingHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := req.Validate(); err != nil {
		return err
	}

	user, err := h.onboarding.CreateCredentials(c.Context(), req.InviteID, service.CredentialsInput{
		Username:        req.Username,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewUserResponse(user))
}
