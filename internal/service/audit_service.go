package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/spec-kit/crm-service/internal/domain"
	"github.com/spec-kit/crm-service/internal/events"
	"github.com/spec-kit/crm-service/internal/repository"
)

// AuditService subscribes to domain events and appends audit records.
// Failures are swallowed and logged: auditing never fails the primary
// operation.
type AuditService struct {
	entries    repository.AuditLogRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(entries repository.AuditLogRepository, dispatcher events.Dispatcher, logger *zap.Logger) *AuditService {
	return &AuditService{entries: entries, dispatcher: dispatcher, logger: logger}
}

var auditedEvents = map[events.EventType]domain.AuditEventType{
	events.EventInviteCreated:       domain.AuditInviteCreated,
	events.EventInviteResent:        domain.AuditInviteResent,
	events.EventInviteRevoked:       domain.AuditInviteRevoked,
	events.EventInviteOpened:        domain.AuditInviteOpened,
	events.EventBulkInvitesCreated:  domain.AuditInviteCreated,
	events.EventDocumentSigned:      domain.AuditDocumentSigned,
	events.EventPaymentUploaded:     domain.AuditPaymentUploaded,
	events.EventTrainingSubmitted:   domain.AuditTrainingCompleted,
	events.EventOnboardingCompleted: domain.AuditOnboardingCompleted,
	events.EventUserCreated:         domain.AuditUserCreated,
	events.EventLoginSucceeded:      domain.AuditLoginSuccess,
	events.EventLoginFailed:         domain.AuditLoginFailed,
	events.EventPasswordChanged:     domain.AuditPasswordChanged,
}

// RegisterHandlers subscribes to every audited event type.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	for eventType := range auditedEvents {
		a.dispatcher.Subscribe(eventType, a.handle)
	}
}

func (a *AuditService) handle(ctx context.Context, event events.Event) error {
	auditType, ok := auditedEvents[event.Type]
	if !ok {
		return nil
	}

	entry := &domain.AuditLog{
		EventType: auditType,
		UserID:    event.Actor.UserID,
		Username:  event.Actor.Username,
		Details:   payloadDetails(event.Payload),
	}
	if event.InviteID != "" {
		entityType := "HiringInvite"
		entityID := event.InviteID
		entry.EntityType = &entityType
		entry.EntityID = &entityID
	}

	if err := a.entries.Insert(ctx, entry); err != nil {
		a.logger.Warn("audit write failed",
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
	}
	return nil
}

// payloadDetails flattens a typed event payload into the details map stored
// in the audit row.
func payloadDetails(payload any) map[string]any {
	if payload == nil {
		return nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	var details map[string]any
	if err := json.Unmarshal(raw, &details); err != nil {
		return nil
	}
	return details
}
