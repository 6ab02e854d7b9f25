package events

import (
	"time"

	"github.com/spec-kit/crm-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventInviteCreated       EventType = "invite_created"
	EventInviteResent        EventType = "invite_resent"
	EventInviteRevoked       EventType = "invite_revoked"
	EventInviteOpened        EventType = "invite_opened"
	EventBulkInvitesCreated  EventType = "bulk_invites_created"
	EventDocumentSigned      EventType = "document_signed"
	EventPaymentUploaded     EventType = "payment_uploaded"
	EventTrainingSubmitted   EventType = "training_submitted"
	EventOnboardingCompleted EventType = "onboarding_completed"
	EventUserCreated         EventType = "user_created"
	EventLoginSucceeded      EventType = "login_succeeded"
	EventLoginFailed         EventType = "login_failed"
	EventPasswordChanged     EventType = "password_changed"
)

// Actor encapsulates actor metadata for an event. Onboarding events carry no
// actor; the invitee is not authenticated.
type Actor struct {
	UserID   *string `json:"user_id,omitempty"`
	Username *string `json:"username,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	InviteID  string      `json:"invite_id,omitempty"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// InvitePayload payload for invite lifecycle events.
type InvitePayload struct {
	Email       string `json:"email"`
	RoleForHire string `json:"role_for_hire,omitempty"`
}

// BulkInvitesPayload payload for batch summaries.
type BulkInvitesPayload struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

// DocumentSignedPayload payload.
type DocumentSignedPayload struct {
	UserID     string                  `json:"user_id"`
	DocType    domain.SignatureDocType `json:"doc_type"`
	EnvelopeID string                  `json:"envelope_id"`
}

// PaymentUploadedPayload payload.
type PaymentUploadedPayload struct {
	UserID string                `json:"user_id"`
	Type   domain.PaymentDocType `json:"type"`
}

// TrainingSubmittedPayload payload.
type TrainingSubmittedPayload struct {
	UserID string `json:"user_id"`
	Score  int    `json:"score"`
	Passed bool   `json:"passed"`
}

// OnboardingCompletedPayload payload.
type OnboardingCompletedPayload struct {
	UserID   string          `json:"user_id"`
	Username string          `json:"username"`
	Email    string          `json:"email"`
	Role     domain.UserRole `json:"role"`
}

// UserCreatedPayload payload for placeholder identity creation.
type UserCreatedPayload struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// AuthPayload payload for login and password events.
type AuthPayload struct {
	Username string `json:"username"`
	Reason   string `json:"reason,omitempty"`
}
