package domain

import "time"

// AuditEventType enumerates audited actions.
type AuditEventType string

const (
	AuditLoginSuccess        AuditEventType = "LOGIN_SUCCESS"
	AuditLoginFailed         AuditEventType = "LOGIN_FAILED"
	AuditUserCreated         AuditEventType = "USER_CREATED"
	AuditPasswordChanged     AuditEventType = "PASSWORD_CHANGED"
	AuditInviteCreated       AuditEventType = "INVITE_CREATED"
	AuditInviteResent        AuditEventType = "INVITE_RESENT"
	AuditInviteRevoked       AuditEventType = "INVITE_REVOKED"
	AuditInviteOpened        AuditEventType = "INVITE_OPENED"
	AuditDocumentSigned      AuditEventType = "DOCUMENT_SIGNED"
	AuditPaymentUploaded     AuditEventType = "PAYMENT_UPLOADED"
	AuditTrainingCompleted   AuditEventType = "TRAINING_COMPLETED"
	AuditOnboardingCompleted AuditEventType = "ONBOARDING_COMPLETED"
)

// AuditLog is an append-only record of a security-relevant action. Writes
// are fire-and-forget: audit failures never fail the primary operation.
type AuditLog struct {
	ID         string
	Timestamp  time.Time
	EventType  AuditEventType
	UserID     *string
	Username   *string
	IPAddress  *string
	Details    map[string]any
	EntityType *string
	EntityID   *string
}
