package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/crm-service/internal/auth"
	"github.com/spec-kit/crm-service/internal/config"
	"github.com/spec-kit/crm-service/internal/domain"
	"github.com/spec-kit/crm-service/internal/events"
	"github.com/spec-kit/crm-service/internal/repository"
	apperrors "github.com/spec-kit/crm-service/pkg/util/errorutil"
)

// InvitationSender delivers an invitation email carrying the raw token. The
// raw token exists only between generation and this call.
type InvitationSender interface {
	SendInvitation(ctx context.Context, invite *domain.HiringInvite, rawToken string) error
}

// InviteService coordinates the hiring invitation lifecycle.
type InviteService struct {
	invites     repository.InviteRepository
	users       repository.UserRepository
	sender      InvitationSender
	dispatcher  events.Dispatcher
	logger      *zap.Logger
	inviteTTL   time.Duration
	bulkMaxRows int
}

// InviteDependencies bundles collaborators for the invite service.
type InviteDependencies struct {
	InviteRepo repository.InviteRepository
	UserRepo   repository.UserRepository
	Sender     InvitationSender
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// InviteCreateInput describes a single invitation request.
type InviteCreateInput struct {
	FirstName   string
	LastName    string
	Email       string
	RoleForHire string
}

// NewInviteService constructs the service.
func NewInviteService(cfg config.InviteConfig, deps InviteDependencies) *InviteService {
	bulkMax := cfg.BulkMaxRows
	if bulkMax <= 0 {
		bulkMax = 100
	}
	return &InviteService{
		invites:     deps.InviteRepo,
		users:       deps.UserRepo,
		sender:      deps.Sender,
		dispatcher:  deps.Dispatcher,
		logger:      deps.Logger,
		inviteTTL:   cfg.TTL(),
		bulkMaxRows: bulkMax,
	}
}

// Create issues a new invitation: generates a token, persists the invite with
// a 7-day expiry, and emails the raw token to the invitee. An email send
// failure fails the operation; the persisted invite is recovered via Resend.
func (s *InviteService) Create(ctx context.Context, input InviteCreateInput, managerID string) (*domain.HiringInvite, error) {
	email := normalizeEmail(input.Email)
	now := time.Now()

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("User with this email already exists", map[string]any{"email": email})
	} else if err != pgx.ErrNoRows {
		return nil, apperrors.MapError(err)
	}

	if _, err := s.invites.FindActiveByEmail(ctx, email, now); err == nil {
		return nil, apperrors.NewConflict("An active invitation already exists for this email", map[string]any{"email": email})
	} else if err != pgx.ErrNoRows {
		return nil, apperrors.MapError(err)
	}

	// A lapsed SENT/OPENED invite still occupies the per-email uniqueness
	// slot; move it to EXPIRED before issuing the replacement.
	if err := s.invites.ExpireStale(ctx, email, now); err != nil {
		return nil, apperrors.MapError(err)
	}

	rawToken, tokenHash, err := auth.GenerateInviteToken()
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	roleForHire := strings.TrimSpace(input.RoleForHire)
	if roleForHire == "" {
		roleForHire = domain.DefaultRoleForHire
	}

	invite := &domain.HiringInvite{
		FirstName:   strings.TrimSpace(input.FirstName),
		LastName:    strings.TrimSpace(input.LastName),
		Email:       email,
		RoleForHire: roleForHire,
		TokenHash:   tokenHash,
		ExpiresAt:   now.Add(s.inviteTTL),
		ManagerID:   managerID,
		Status:      domain.InviteStatusSent,
	}
	if err := s.invites.Create(ctx, invite); err != nil {
		return nil, apperrors.MapError(err)
	}

	if err := s.sender.SendInvitation(ctx, invite, rawToken); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.EventInviteCreated, invite.ID, managerActor(managerID), events.InvitePayload{
		Email:       invite.Email,
		RoleForHire: invite.RoleForHire,
	})
	s.logger.Info("invitation created",
		zap.String("invite_id", invite.ID),
		zap.String("email", invite.Email),
		zap.String("manager_id", managerID))
	return invite, nil
}

// Resend rotates the invite token, resets status to SENT, and re-sends the
// email. The previous token becomes invalid.
func (s *InviteService) Resend(ctx context.Context, inviteID, managerID string) (*domain.HiringInvite, error) {
	invite, err := s.invites.GetByID(ctx, inviteID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("invitation", map[string]any{"id": inviteID})
		}
		return nil, apperrors.MapError(err)
	}

	if invite.IsExpired(time.Now()) {
		return nil, apperrors.NewInvalidState("cannot resend expired invitation")
	}
	if invite.IsConsumed() {
		return nil, apperrors.NewInvalidState("cannot resend consumed invitation")
	}
	if invite.Status == domain.InviteStatusRevoked {
		return nil, apperrors.NewInvalidState("cannot resend revoked invitation")
	}

	rawToken, tokenHash, err := auth.GenerateInviteToken()
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	invite.TokenHash = tokenHash
	invite.Status = domain.InviteStatusSent
	if err := s.invites.Update(ctx, invite); err != nil {
		return nil, apperrors.MapError(err)
	}

	if err := s.sender.SendInvitation(ctx, invite, rawToken); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.EventInviteResent, invite.ID, managerActor(managerID), events.InvitePayload{Email: invite.Email})
	s.logger.Info("invitation resent",
		zap.String("invite_id", invite.ID),
		zap.String("email", invite.Email),
		zap.String("manager_id", managerID))
	return invite, nil
}

// Revoke marks the invite REVOKED, a terminal state.
func (s *InviteService) Revoke(ctx context.Context, inviteID, managerID string) (*domain.HiringInvite, error) {
	invite, err := s.invites.GetByID(ctx, inviteID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("invitation", map[string]any{"id": inviteID})
		}
		return nil, apperrors.MapError(err)
	}

	if invite.IsConsumed() {
		return nil, apperrors.NewInvalidState("cannot revoke consumed invitation")
	}

	invite.Status = domain.InviteStatusRevoked
	if err := s.invites.Update(ctx, invite); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.EventInviteRevoked, invite.ID, managerActor(managerID), events.InvitePayload{Email: invite.Email})
	return invite, nil
}

// List returns invitations owned by the manager, newest first.
func (s *InviteService) List(ctx context.Context, managerID string) ([]domain.HiringInvite, error) {
	invites, err := s.invites.ListByManager(ctx, managerID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return invites, nil
}

// ValidateToken digests the raw token, looks the invite up by digest, and
// checks expiry/consumption/revocation. The first successful validation marks
// the invite OPENED; later calls are no-ops for that transition.
func (s *InviteService) ValidateToken(ctx context.Context, rawToken string) (*domain.HiringInvite, error) {
	invite, err := s.invites.GetByTokenHash(ctx, auth.DigestInviteToken(rawToken))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("invitation", nil)
		}
		return nil, apperrors.MapError(err)
	}

	now := time.Now()
	if invite.IsExpired(now) {
		return nil, apperrors.NewInvalidState("invitation has expired")
	}
	if invite.IsConsumed() {
		return nil, apperrors.NewInvalidState("invitation has already been used")
	}
	if invite.Status == domain.InviteStatusRevoked {
		return nil, apperrors.NewInvalidState("invitation has been revoked")
	}

	if invite.OpenedAt == nil {
		invite.OpenedAt = &now
		invite.AdvanceStatus(domain.InviteStatusOpened)
		if err := s.invites.Update(ctx, invite); err != nil {
			return nil, apperrors.MapError(err)
		}
		s.publish(ctx, events.EventInviteOpened, invite.ID, events.Actor{}, events.InvitePayload{Email: invite.Email})
	}

	return invite, nil
}

// BulkRowError identifies a failed row by its original 1-based position.
type BulkRowError struct {
	Row   int    `json:"row"`
	Email string `json:"email"`
	Error string `json:"error"`
}

// BulkRowOutcome records the per-row result in submission order.
type BulkRowOutcome struct {
	Email  string `json:"email"`
	Status string `json:"status"`
	ID     string `json:"id,omitempty"`
	Error  string `json:"error,omitempty"`
}

// BulkResult aggregates a batch submission. Partial success is the expected
// outcome, not an error state.
type BulkResult struct {
	Total       int              `json:"total"`
	Successful  int              `json:"successful"`
	Failed      int              `json:"failed"`
	Errors      []BulkRowError   `json:"errors"`
	Invitations []BulkRowOutcome `json:"invitations"`
}

// BulkCreate drives Create over a batch of up to 100 rows, strictly
// sequentially to respect the email provider's rate limit (the sender's
// token bucket paces the sends). Each row fails independently.
func (s *InviteService) BulkCreate(ctx context.Context, rows []InviteCreateInput, managerID string) (*BulkResult, error) {
	if len(rows) == 0 {
		return nil, apperrors.NewValidationError("invitations must not be empty", nil)
	}
	if len(rows) > s.bulkMaxRows {
		return nil, apperrors.NewValidationError("too many invitations in one batch", map[string]any{
			"max": s.bulkMaxRows,
		})
	}

	result := &BulkResult{
		Total:       len(rows),
		Errors:      []BulkRowError{},
		Invitations: []BulkRowOutcome{},
	}

	for i, row := range rows {
		email := normalizeEmail(row.Email)
		now := time.Now()

		if _, err := s.users.GetByEmail(ctx, email); err == nil {
			result.recordFailure(i, email, "User with this email already exists")
			continue
		} else if err != pgx.ErrNoRows {
			result.recordFailure(i, email, apperrors.ToDomainError(err).Message)
			continue
		}

		if _, err := s.invites.FindActiveByEmail(ctx, email, now); err == nil {
			result.recordFailure(i, email, "Active invitation already exists")
			continue
		} else if err != pgx.ErrNoRows {
			result.recordFailure(i, email, apperrors.ToDomainError(err).Message)
			continue
		}

		invite, err := s.Create(ctx, row, managerID)
		if err != nil {
			result.recordFailure(i, email, apperrors.ToDomainError(err).Message)
			continue
		}

		result.Successful++
		result.Invitations = append(result.Invitations, BulkRowOutcome{
			Email:  invite.Email,
			Status: "success",
			ID:     invite.ID,
		})
	}

	s.publish(ctx, events.EventBulkInvitesCreated, "", managerActor(managerID), events.BulkInvitesPayload{
		Total:      result.Total,
		Successful: result.Successful,
		Failed:     result.Failed,
	})
	s.logger.Info("bulk invitations processed",
		zap.Int("total", result.Total),
		zap.Int("successful", result.Successful),
		zap.Int("failed", result.Failed),
		zap.String("manager_id", managerID))
	return result, nil
}

func (r *BulkResult) recordFailure(index int, email, message string) {
	r.Failed++
	r.Errors = append(r.Errors, BulkRowError{Row: index + 1, Email: email, Error: message})
	r.Invitations = append(r.Invitations, BulkRowOutcome{Email: email, Status: "failed", Error: message})
}

func (s *InviteService) publish(ctx context.Context, eventType events.EventType, inviteID string, actor events.Actor, payload any) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		InviteID:  inviteID,
		Actor:     actor,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}

func managerActor(managerID string) events.Actor {
	return events.Actor{UserID: &managerID}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
