package dto

import (
	"regexp"
	"strings"
	"time"

	"github.com/spec-kit/crm-service/internal/domain"
	apperrors "github.com/spec-kit/crm-service/pkg/util/errorutil"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// CreateInvitationRequest payload.
type CreateInvitationRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	RoleForHire string `json:"roleForHire"`
}

// Validate checks required fields and email shape.
func (r *CreateInvitationRequest) Validate() error {
	details := map[string]any{}
	if strings.TrimSpace(r.FirstName) == "" {
		details["firstName"] = "required"
	}
	if strings.TrimSpace(r.LastName) == "" {
		details["lastName"] = "required"
	}
	email := strings.TrimSpace(r.Email)
	switch {
	case email == "":
		details["email"] = "required"
	case !emailPattern.MatchString(email):
		details["email"] = "invalid format"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid invitation payload", details)
	}
	return nil
}

// BulkInvitationRequest payload for batch submission.
type BulkInvitationRequest struct {
	Invitations []CreateInvitationRequest `json:"invitations"`
}

// Validate checks the batch size and every row.
func (r *BulkInvitationRequest) Validate(maxRows int) error {
	if len(r.Invitations) == 0 {
		return apperrors.NewValidationError("invitations must not be empty", nil)
	}
	if maxRows > 0 && len(r.Invitations) > maxRows {
		return apperrors.NewValidationError("too many invitations in one batch", map[string]any{"max": maxRows})
	}
	for i := range r.Invitations {
		if err := r.Invitations[i].Validate(); err != nil {
			if de := apperrors.ToDomainError(err); de.Details != nil {
				de.Details["row"] = i + 1
				return de
			}
			return err
		}
	}
	return nil
}

// InviteResponse is the persisted invite shape exposed to callers. The token
// digest is never serialized.
type InviteResponse struct {
	ID          string              `json:"id"`
	FirstName   string              `json:"firstName"`
	LastName    string              `json:"lastName"`
	Email       string              `json:"email"`
	RoleForHire string              `json:"roleForHire"`
	Status      domain.InviteStatus `json:"status"`
	ExpiresAt   time.Time           `json:"expiresAt"`
	OpenedAt    *time.Time          `json:"openedAt"`
	ConsumedAt  *time.Time          `json:"consumedAt"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

// NewInviteResponse maps a domain invite.
func NewInviteResponse(invite *domain.HiringInvite) InviteResponse {
	return InviteResponse{
		ID:          invite.ID,
		FirstName:   invite.FirstName,
		LastName:    invite.LastName,
		Email:       invite.Email,
		RoleForHire: invite.RoleForHire,
		Status:      invite.Status,
		ExpiresAt:   invite.ExpiresAt,
		OpenedAt:    invite.OpenedAt,
		ConsumedAt:  invite.ConsumedAt,
		CreatedAt:   invite.CreatedAt,
		UpdatedAt:   invite.UpdatedAt,
	}
}

// NewInviteResponses maps a slice of domain invites.
func NewInviteResponses(invites []domain.HiringInvite) []InviteResponse {
	result := make([]InviteResponse, 0, len(invites))
	for i := range invites {
		result = append(result, NewInviteResponse(&invites[i]))
	}
	return result
}

// InviteSummary is the public view returned alongside token validation.
type InviteSummary struct {
	ID          string    `json:"id"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Email       string    `json:"email"`
	RoleForHire string    `json:"roleForHire"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// NewInviteSummary maps a domain invite.
func NewInviteSummary(invite *domain.HiringInvite) InviteSummary {
	return InviteSummary{
		ID:          invite.ID,
		FirstName:   invite.FirstName,
		LastName:    invite.LastName,
		Email:       invite.Email,
		RoleForHire: invite.RoleForHire,
		ExpiresAt:   invite.ExpiresAt,
	}
}
