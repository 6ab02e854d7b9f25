package service

import (
	"context"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/crm-service/internal/auth"
	"github.com/spec-kit/crm-service/internal/domain"
	"github.com/spec-kit/crm-service/internal/events"
	"github.com/spec-kit/crm-service/internal/repository"
	apperrors "github.com/spec-kit/crm-service/pkg/util/errorutil"
)

// placeholderPasswordHash is stored on placeholder identities. It is not a
// valid bcrypt hash, so the account cannot authenticate before promotion.
const placeholderPasswordHash = "!"

var acctLast4Pattern = regexp.MustCompile(`^\d{4}$`)

// OnboardingService records onboarding step evidence, derives progress, and
// promotes the placeholder identity once credentials are chosen.
type OnboardingService struct {
	invites    repository.InviteRepository
	users      repository.UserRepository
	signatures repository.SignatureRepository
	payments   repository.PaymentDocumentRepository
	training   repository.TrainingRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cache      *StatusCache
	bcryptCost int
}

// OnboardingDependencies bundles collaborators for the onboarding service.
type OnboardingDependencies struct {
	InviteRepo    repository.InviteRepository
	UserRepo      repository.UserRepository
	SignatureRepo repository.SignatureRepository
	PaymentRepo   repository.PaymentDocumentRepository
	TrainingRepo  repository.TrainingRepository
	Dispatcher    events.Dispatcher
	Logger        *zap.Logger
	Cache         *StatusCache
	BcryptCost    int
}

// SignatureInput describes a signed-document submission.
type SignatureInput struct {
	DocType    domain.SignatureDocType
	EnvelopeID string
	FileURL    *string
}

// PaymentInput describes a payment-document submission.
type PaymentInput struct {
	Type      domain.PaymentDocType
	FileURL   string
	AcctLast4 *string
}

// TrainingInput describes a training attestation submission.
type TrainingInput struct {
	Score       int
	Attestation string
	IPAddr      *string
}

// CredentialsInput describes the final credential choice.
type CredentialsInput struct {
	Username        string
	Password        string
	ConfirmPassword string
}

// NewOnboardingService constructs the service.
func NewOnboardingService(deps OnboardingDependencies) *OnboardingService {
	cost := deps.BcryptCost
	if cost <= 0 {
		cost = 12
	}
	return &OnboardingService{
		invites:    deps.InviteRepo,
		users:      deps.UserRepo,
		signatures: deps.SignatureRepo,
		payments:   deps.PaymentRepo,
		training:   deps.TrainingRepo,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		cache:      deps.Cache,
		bcryptCost: cost,
	}
}

// SubmitSignature records a signed compliance document and advances the
// invite toward DOCS.
func (s *OnboardingService) SubmitSignature(ctx context.Context, inviteID string, input SignatureInput) (*domain.Signature, error) {
	invite, err := s.loadAcceptingInvite(ctx, inviteID)
	if err != nil {
		return nil, err
	}
	user, err := s.resolveIdentity(ctx, invite)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	signature := &domain.Signature{
		UserID:     user.ID,
		DocType:    input.DocType,
		EnvelopeID: input.EnvelopeID,
		Status:     domain.SignatureStatusSigned,
		SignedAt:   &now,
		FileURL:    input.FileURL,
	}
	if err := s.signatures.Upsert(ctx, signature); err != nil {
		return nil, apperrors.MapError(err)
	}

	if err := s.advanceInvite(ctx, invite, domain.InviteStatusDocs); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventDocumentSigned, invite.ID, events.DocumentSignedPayload{
		UserID:     user.ID,
		DocType:    signature.DocType,
		EnvelopeID: signature.EnvelopeID,
	})
	s.logger.Info("signature submitted",
		zap.String("invite_id", invite.ID),
		zap.String("doc_type", string(signature.DocType)))
	return signature, nil
}

// SubmitPaymentDocument records payment-method evidence and advances the
// invite toward PAYMENT.
func (s *OnboardingService) SubmitPaymentDocument(ctx context.Context, inviteID string, input PaymentInput) (*domain.PaymentDocument, error) {
	if input.AcctLast4 != nil && !acctLast4Pattern.MatchString(*input.AcctLast4) {
		return nil, apperrors.NewValidationError("acctLast4 must be exactly 4 digits", nil)
	}

	invite, err := s.loadAcceptingInvite(ctx, inviteID)
	if err != nil {
		return nil, err
	}
	user, err := s.resolveIdentity(ctx, invite)
	if err != nil {
		return nil, err
	}

	doc := &domain.PaymentDocument{
		UserID:    user.ID,
		Type:      input.Type,
		FileURL:   input.FileURL,
		AcctLast4: input.AcctLast4,
	}
	if err := s.payments.Upsert(ctx, doc); err != nil {
		return nil, apperrors.MapError(err)
	}

	if err := s.advanceInvite(ctx, invite, domain.InviteStatusPayment); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventPaymentUploaded, invite.ID, events.PaymentUploadedPayload{
		UserID: user.ID,
		Type:   doc.Type,
	})
	return doc, nil
}

// SubmitTraining records the quiz score and attestation. A failing score is
// accepted; PassedAt stays unset below the passing bar.
func (s *OnboardingService) SubmitTraining(ctx context.Context, inviteID string, input TrainingInput) (*domain.Training, error) {
	invite, err := s.loadAcceptingInvite(ctx, inviteID)
	if err != nil {
		return nil, err
	}
	user, err := s.resolveIdentity(ctx, invite)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	training := &domain.Training{
		UserID:      user.ID,
		Score:       input.Score,
		Attestation: input.Attestation,
		AttestedAt:  &now,
		IPAddr:      input.IPAddr,
	}
	if input.Score >= domain.TrainingPassingScore {
		training.PassedAt = &now
	}
	if err := s.training.Upsert(ctx, training); err != nil {
		return nil, apperrors.MapError(err)
	}

	if err := s.advanceInvite(ctx, invite, domain.InviteStatusTrained); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventTrainingSubmitted, invite.ID, events.TrainingSubmittedPayload{
		UserID: user.ID,
		Score:  training.Score,
		Passed: training.PassedAt != nil,
	})
	s.logger.Info("training submitted",
		zap.String("invite_id", invite.ID),
		zap.Int("score", training.Score),
		zap.Bool("passed", training.PassedAt != nil))
	return training, nil
}

// CreateCredentials promotes the placeholder identity into an active user and
// consumes the invitation. A consumed invite always fails, regardless of
// input, so a stale link can never re-promote or overwrite credentials.
func (s *OnboardingService) CreateCredentials(ctx context.Context, inviteID string, input CredentialsInput) (*domain.User, error) {
	invite, err := s.invites.GetByID(ctx, inviteID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("invitation", map[string]any{"id": inviteID})
		}
		return nil, apperrors.MapError(err)
	}
	if invite.IsConsumed() {
		return nil, apperrors.NewInvalidState("invitation has already been used")
	}

	if input.Password != input.ConfirmPassword {
		return nil, apperrors.NewValidationError("passwords do not match", nil)
	}
	if err := auth.CheckPasswordStrength(input.Password); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByUsername(ctx, input.Username); err == nil {
		return nil, apperrors.NewConflict("Username is already taken", nil)
	} else if err != pgx.ErrNoRows {
		return nil, apperrors.MapError(err)
	}

	user, err := s.users.GetByEmail(ctx, invite.Email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("user", map[string]any{"email": invite.Email})
		}
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	now := time.Now()
	user.Username = input.Username
	user.PasswordHash = hash
	user.Active = true
	user.PasswordChangedAt = &now
	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}

	invite.ConsumedAt = &now
	invite.Status = domain.InviteStatusActivated
	if err := s.invites.Update(ctx, invite); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.cache.Invalidate(ctx, invite.ID)

	s.publish(ctx, events.EventOnboardingCompleted, invite.ID, events.OnboardingCompletedPayload{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	})
	s.logger.Info("onboarding completed",
		zap.String("invite_id", invite.ID),
		zap.String("user_id", user.ID))
	return user, nil
}

// loadAcceptingInvite loads an invite and rejects evidence against revoked or
// expired invitations.
func (s *OnboardingService) loadAcceptingInvite(ctx context.Context, inviteID string) (*domain.HiringInvite, error) {
	invite, err := s.invites.GetByID(ctx, inviteID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("invitation", map[string]any{"id": inviteID})
		}
		return nil, apperrors.MapError(err)
	}
	if invite.Status == domain.InviteStatusRevoked {
		return nil, apperrors.NewInvalidState("invitation has been revoked")
	}
	if invite.IsExpired(time.Now()) {
		return nil, apperrors.NewInvalidState("invitation has expired")
	}
	return invite, nil
}

// resolveIdentity finds the identity for the invite's email, creating the
// placeholder lazily on the first step submission that needs it.
func (s *OnboardingService) resolveIdentity(ctx context.Context, invite *domain.HiringInvite) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, invite.Email)
	if err == nil {
		return user, nil
	}
	if err != pgx.ErrNoRows {
		return nil, apperrors.MapError(err)
	}

	user = &domain.User{
		Username:     domain.PlaceholderUsernamePrefix + invite.ID,
		Email:        invite.Email,
		FullName:     invite.FullName(),
		Role:         domain.RoleAgent,
		Active:       false,
		PasswordHash: placeholderPasswordHash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.EventUserCreated, invite.ID, events.UserCreatedPayload{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
	})
	return user, nil
}

func (s *OnboardingService) advanceInvite(ctx context.Context, invite *domain.HiringInvite, next domain.InviteStatus) error {
	invite.AdvanceStatus(next)
	if err := s.invites.Update(ctx, invite); err != nil {
		return apperrors.MapError(err)
	}
	s.cache.Invalidate(ctx, invite.ID)
	return nil
}

func (s *OnboardingService) publish(ctx context.Context, eventType events.EventType, inviteID string, payload any) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		InviteID:  inviteID,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
