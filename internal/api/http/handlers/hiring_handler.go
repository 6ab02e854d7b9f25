package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/crm-service/internal/api/dto"
	"github.com/spec-kit/crm-service/internal/auth"
	"github.com/spec-kit/crm-service/internal/service"
	apperrors "github.com/spec-kit/crm-service/pkg/util/errorutil"
)

// HiringHandler manages the hiring team's invitation endpoints.
type HiringHandler struct {
	invites     *service.InviteService
	bulkMaxRows int
}

// NewHiringHandler constructs handler.
func NewHiringHandler(inviteService *service.InviteService, bulkMaxRows int) *HiringHandler {
	return &HiringHandler{invites: inviteService, bulkMaxRows: bulkMaxRows}
}

// CreateInvitation POST /hiring/invitations.
func (h *HiringHandler) CreateInvitation(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.CreateInvitationRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := req.Validate(); err != nil {
		return err
	}

	invite, err := h.invites.Create(c.Context(), service.InviteCreateInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		RoleForHire: req.RoleForHire,
	}, principal.User.ID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewInviteResponse(invite))
}

// ListInvitations GET /hiring/invitations.
func (h *HiringHandler) ListInvitations(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	invites, err := h.invites.List(c.Context(), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewInviteResponses(invites))
}

// ResendInvitation POST /hiring/invitations/:id/resend.
func (h *HiringHandler) ResendInvitation(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	invite, err := h.invites.Resend(c.Context(), c.Params("id"), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewInviteResponse(invite))
}

// RevokeInvitation POST /hiring/invitations/:id/revoke.
func (h *HiringHandler) RevokeInvitation(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	invite, err := h.invites.Revoke(c.Context(), c.Params("id"), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewInviteResponse(invite))
}

// BulkCreateInvitations POST /hiring/invitations/bulk.
func (h *HiringHandler) BulkCreateInvitations(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.BulkInvitationRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := req.Validate(h.bulkMaxRows); err != nil {
		return err
	}

	rows := make([]service.InviteCreateInput, 0, len(req.Invitations))
	for _, row := range req.Invitations {
		rows = append(rows, service.InviteCreateInput{
			FirstName:   row.FirstName,
			LastName:    row.LastName,
			Email:       row.Email,
			RoleForHire: row.RoleForHire,
		})
	}
	result, err := h.invites.BulkCreate(c.Context(), rows, principal.User.ID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}
