package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/crm-service/internal/auth"
	"github.com/spec-kit/crm-service/internal/config"
	"github.com/spec-kit/crm-service/internal/domain"
	"github.com/spec-kit/crm-service/internal/events"
	"github.com/spec-kit/crm-service/internal/repository/memory"
	apperrors "github.com/spec-kit/crm-service/pkg/util/errorutil"
)

type onboardingFixture struct {
	svc        *OnboardingService
	inviteSvc  *InviteService
	users      *memory.UserStore
	invites    *memory.InviteStore
	signatures *memory.SignatureStore
	payments   *memory.PaymentDocumentStore
	training   *memory.TrainingStore
	sender     *captureSender
}

func newOnboardingFixture(t *testing.T) *onboardingFixture {
	t.Helper()
	f := &onboardingFixture{
		users:      memory.NewUserStore(),
		invites:    memory.NewInviteStore(),
		signatures: memory.NewSignatureStore(),
		payments:   memory.NewPaymentDocumentStore(),
		training:   memory.NewTrainingStore(),
		sender:     newCaptureSender(),
	}
	dispatcher := events.NewInMemoryDispatcher()
	logger := zap.NewNop()

	f.inviteSvc = NewInviteService(
		config.InviteConfig{TTLDays: 7, BulkMaxRows: 100},
		InviteDependencies{
			InviteRepo: f.invites,
			UserRepo:   f.users,
			Sender:     f.sender,
			Dispatcher: dispatcher,
			Logger:     logger,
		},
	)
	f.svc = NewOnboardingService(OnboardingDependencies{
		InviteRepo:    f.invites,
		UserRepo:      f.users,
		SignatureRepo: f.signatures,
		PaymentRepo:   f.payments,
		TrainingRepo:  f.training,
		Dispatcher:    dispatcher,
		Logger:        logger,
		BcryptCost:    4,
	})
	return f
}

func (f *onboardingFixture) createInvite(t *testing.T, email string) *domain.HiringInvite {
	t.Helper()
	invite, err := f.inviteSvc.Create(context.Background(), sampleInput(email), "mgr-1")
	require.NoError(t, err)
	return invite
}

func signatureInput() SignatureInput {
	return SignatureInput{DocType: domain.DocTypeW9, EnvelopeID: "env-1"}
}

func paymentInput() PaymentInput {
	return PaymentInput{Type: domain.PaymentDocACHVoidedCheck, FileURL: "https://files.example.com/check.pdf"}
}

func TestSubmitSignatureCreatesPlaceholder(t *testing.T) {
	f := newOnboardingFixture(t)
	ctx := context.Background()
	invite := f.createInvite(t, "hire@example.com")

	signature, err := f.svc.SubmitSignature(ctx, invite.ID, signatureInput())
	require.NoError(t, err)
	assert.Equal(t, domain.SignatureStatusSigned, signature.Status)
	require.NotNil(t, signature.SignedAt)

	user, err := f.users.GetByEmail(ctx, "hire@example.com")
	require.NoError(t, err)
	assert.True(t, user.IsPlaceholder())
	assert.True(t, strings.HasPrefix(user.Username, domain.PlaceholderUsernamePrefix))
	assert.False(t, user.Active)
	assert.Equal(t, "Jane Doe", user.FullName)
	assert.Equal(t, domain.RoleAgent, user.Role)

	stored, err := f.invites.GetByID(ctx, invite.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InviteStatusDocs, stored.Status)
}

func TestSubmitSignatureUpsert(t *testing.T) {
	f := newOnboardingFixture(t)
	ctx := context.Background()
	invite := f.createInvite(t, "hire@example.com")

	_, err := f.svc.SubmitSignature(ctx, invite.ID, signatureInput())
	require.NoError(t, err)

	resubmit := signatureInput()
	resubmit.EnvelopeID = "env-2"
	updated, err := f.svc.SubmitSignature(ctx, invite.ID, resubmit)
	require.NoError(t, err)
	assert.Equal(t, "env-2", updated.EnvelopeID)

	user, err := f.users.GetByEmail(ctx, "hire@example.com")
	require.NoError(t, err)
	sigs, err := f.signatures.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, sigs, 1)
	assert.Equal(t, "env-2", sigs[0].EnvelopeID)
}

func TestSubmitSignatureRevokedInvite(t *testing.T) {
	f := newOnboardingFixture(t)
	ctx := context.Background()
	invite := f.createInvite(t, "hire@example.com")

	_, err := f.inviteSvc.Revoke(ctx, invite.ID, "mgr-1")
	require.NoError(t, err)

	_, err = f.svc.SubmitSignature(ctx, invite.ID, signatureInput())
	require.Error(t, err)
	assert.Equal(t, "INVALID_STATE", apperrors.ToDomainError(err).Code)
}

func TestSubmitPaymentDocument(t *testing.T) {
	f := newOnboardingFixture(t)
	ctx := context.Background()
	invite := f.createInvite(t, "hire@example.com")

	last4 := "4321"
	input := paymentInput()
	input.AcctLast4 = &last4
	doc, err := f.svc.SubmitPaymentDocument(ctx, invite.ID, input)
	require.NoError(t, err)
	require.NotNil(t, doc.AcctLast4)
	assert.Equal(t, "4321", *doc.AcctLast4)

	stored, err := f.invites.GetByID(ctx, invite.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InviteStatusPayment, stored.Status)
}

func TestSubmitPaymentDocumentBadLast4(t *testing.T) {
	f := newOnboardingFixture(t)
	invite := f.createInvite(t, "hire@example.com")

	for _, bad := range []string{"123", "12345", "abcd"} {
		last4 := bad
		input := paymentInput()
		input.AcctLast4 = &last4
		_, err := f.svc.SubmitPaymentDocument(context.Background(), invite.ID, input)
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
	}
}

func TestSubmitTrainingScoreBoundary(t *testing.T) {
	f := newOnboardingFixture(t)
	ctx := context.Background()

	failing := f.createInvite(t, "fail@example.com")
	training, err := f.svc.SubmitTraining(ctx, failing.ID, TrainingInput{Score: 79, Attestation: "I attest"})
	require.NoError(t, err)
	assert.Nil(t, training.PassedAt)
	require.NotNil(t, training.AttestedAt)

	passing := f.createInvite(t, "pass@example.com")
	training, err = f.svc.SubmitTraining(ctx, passing.ID, TrainingInput{Score: 80, Attestation: "I attest"})
	require.NoError(t, err)
	assert.NotNil(t, training.PassedAt)
}

func TestSubmitTrainingRetakeOverwrites(t *testing.T) {
	f := newOnboardingFixture(t)
	ctx := context.Background()
	invite := f.createInvite(t, "hire@example.com")

	_, err := f.svc.SubmitTraining(ctx, invite.ID, TrainingInput{Score: 55, Attestation: "I attest"})
	require.NoError(t, err)

	retake, err := f.svc.SubmitTraining(ctx, invite.ID, TrainingInput{Score: 92, Attestation: "I attest"})
	require.NoError(t, err)
	assert.Equal(t, 92, retake.Score)
	assert.NotNil(t, retake.PassedAt)

	user, err := f.users.GetByEmail(ctx, "hire@example.com")
	require.NoError(t, err)
	stored, err := f.training.GetByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 92, stored.Score)
}

func TestStepOrderingPermissive(t *testing.T) {
	f := newOnboardingFixture(t)
	ctx := context.Background()
	invite := f.createInvite(t, "hire@example.com")

	// Training can land before any signature; it creates the placeholder and
	// pushes status straight to TRAINED.
	_, err := f.svc.SubmitTraining(ctx, invite.ID, TrainingInput{Score: 90, Attestation: "I attest"})
	require.NoError(t, err)

	stored, err := f.invites.GetByID(ctx, invite.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InviteStatusTrained, stored.Status)

	// A later signature records its evidence without pulling status backward.
	_, err = f.svc.SubmitSignature(ctx, invite.ID, signatureInput())
	require.NoError(t, err)

	stored, err = f.invites.GetByID(ctx, invite.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InviteStatusTrained, stored.Status)
}

func TestStatusProgression(t *testing.T) {
	f := newOnboardingFixture(t)
	ctx := context.Background()
	invite := f.createInvite(t, "hire@example.com")

	status, err := f.svc.Status(ctx, invite.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, status.Step)
	assert.Equal(t, "pending", status.Status)
	assert.Empty(t, status.Completed)

	_, err = f.svc.SubmitSignature(ctx, invite.ID, signatureInput())
	require.NoError(t, err)
	status, err = f.svc.Status(ctx, invite.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, status.Step)
	assert.Contains(t, status.Completed, StepSignatures)

	_, err = f.svc.SubmitPaymentDocument(ctx, invite.ID, paymentInput())
	require.NoError(t, err)
	status, err = f.svc.Status(ctx, invite.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, status.Step)

	_, err = f.svc.SubmitTraining(ctx, invite.ID, TrainingInput{Score: 95, Attestation: "I attest"})
	require.NoError(t, err)
	status, err = f.svc.Status(ctx, invite.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, status.Step)
	require.NotNil(t, status.Training)
	assert.True(t, status.Training.Passed)

	_, err = f.svc.CreateCredentials(ctx, invite.ID, CredentialsInput{
		Username:        "jane.doe",
		Password:        "ValidPass1234!",
		ConfirmPassword: "ValidPass1234!",
	})
	require.NoError(t, err)
	status, err = f.svc.Status(ctx, invite.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, status.Step)
	assert.ElementsMatch(t, []string{StepSignatures, StepPayment, StepTraining, StepCredentials}, status.Completed)
}

func TestStatusFailedTrainingNotCompleted(t *testing.T) {
	f := newOnboardingFixture(t)
	ctx := context.Background()
	invite := f.createInvite(t, "hire@example.com")

	_, err := f.svc.SubmitTraining(ctx, invite.ID, TrainingInput{Score: 40, Attestation: "I attest"})
	require.NoError(t, err)

	status, err := f.svc.Status(ctx, invite.ID)
	require.NoError(t, err)
	assert.NotContains(t, status.Completed, StepTraining)
	require.NotNil(t, status.Training)
	assert.False(t, status.Training.Passed)
}

func TestStatusUnknownInvite(t *testing.T) {
	f := newOnboardingFixture(t)

	_, err := f.svc.Status(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}

func TestCreateCredentialsPromotesUser(t *testing.T) {
	f := newOnboardingFixture(t)
	ctx := context.Background()
	invite := f.createInvite(t, "hire@example.com")

	_, err := f.svc.SubmitSignature(ctx, invite.ID, signatureInput())
	require.NoError(t, err)

	user, err := f.svc.CreateCredentials(ctx, invite.ID, CredentialsInput{
		Username:        "jane.doe",
		Password:        "ValidPass1234!",
		ConfirmPassword: "ValidPass1234!",
	})
	require.NoError(t, err)

	assert.Equal(t, "jane.doe", user.Username)
	assert.True(t, user.Active)
	assert.False(t, user.IsPlaceholder())
	assert.NoError(t, auth.ComparePassword(user.PasswordHash, "ValidPass1234!"))
	require.NotNil(t, user.PasswordChangedAt)

	stored, err := f.invites.GetByID(ctx, invite.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InviteStatusActivated, stored.Status)
	assert.True(t, stored.IsConsumed())
}

func TestCreateCredentialsWithoutPriorSteps(t *testing.T) {
	f := newOnboardingFixture(t)
	ctx := context.Background()
	invite := f.createInvite(t, "hire@example.com")

	// No placeholder has been created yet, so there is no identity to promote.
	_, err := f.svc.CreateCredentials(ctx, invite.ID, CredentialsInput{
		Username:        "jane.doe",
		Password:        "ValidPass1234!",
		ConfirmPassword: "ValidPass1234!",
	})
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}

func TestCreateCredentialsConsumedInvite(t *testing.T) {
	f := newOnboardingFixture(t)
	ctx := context.Background()
	invite := f.createInvite(t, "hire@example.com")

	_, err := f.svc.SubmitSignature(ctx, invite.ID, signatureInput())
	require.NoError(t, err)

	_, err = f.svc.CreateCredentials(ctx, invite.ID, CredentialsInput{
		Username:        "jane.doe",
		Password:        "ValidPass1234!",
		ConfirmPassword: "ValidPass1234!",
	})
	require.NoError(t, err)

	// A replay fails on consumption before anything else is examined, even
	// with invalid input.
	_, err = f.svc.CreateCredentials(ctx, invite.ID, CredentialsInput{
		Username:        "someone.else",
		Password:        "short",
		ConfirmPassword: "different",
	})
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, "INVALID_STATE", domainErr.Code)
	assert.Equal(t, "invitation has already been used", domainErr.Message)
}

func TestCreateCredentialsValidation(t *testing.T) {
	f := newOnboardingFixture(t)
	ctx := context.Background()
	invite := f.createInvite(t, "hire@example.com")
	_, err := f.svc.SubmitSignature(ctx, invite.ID, signatureInput())
	require.NoError(t, err)

	_, err = f.svc.CreateCredentials(ctx, invite.ID, CredentialsInput{
		Username:        "jane.doe",
		Password:        "ValidPass1234!",
		ConfirmPassword: "OtherPass1234!",
	})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)

	_, err = f.svc.CreateCredentials(ctx, invite.ID, CredentialsInput{
		Username:        "jane.doe",
		Password:        "weakpass",
		ConfirmPassword: "weakpass",
	})
	require.Error(t, err)
	assert.Equal(t, "WEAK_PASSWORD", apperrors.ToDomainError(err).Code)
}

func TestCreateCredentialsUsernameTaken(t *testing.T) {
	f := newOnboardingFixture(t)
	ctx := context.Background()

	require.NoError(t, f.users.Create(ctx, &domain.User{
		Username:     "jane.doe",
		Email:        "other@example.com",
		Role:         domain.RoleAgent,
		Active:       true,
		PasswordHash: "x",
	}))

	invite := f.createInvite(t, "hire@example.com")
	_, err := f.svc.SubmitSignature(ctx, invite.ID, signatureInput())
	require.NoError(t, err)

	_, err = f.svc.CreateCredentials(ctx, invite.ID, CredentialsInput{
		Username:        "jane.doe",
		Password:        "ValidPass1234!",
		ConfirmPassword: "ValidPass1234!",
	})
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, "CONFLICT", domainErr.Code)
	assert.Equal(t, "Username is already taken", domainErr.Message)
}

func TestSubmitStepExpiredInvite(t *testing.T) {
	f := newOnboardingFixture(t)
	ctx := context.Background()
	invite := f.createInvite(t, "hire@example.com")

	stored, err := f.invites.GetByID(ctx, invite.ID)
	require.NoError(t, err)
	stored.ExpiresAt = time.Now().Add(-time.Hour)
	require.NoError(t, f.invites.Update(ctx, stored))

	_, err = f.svc.SubmitTraining(ctx, invite.ID, TrainingInput{Score: 90, Attestation: "I attest"})
	require.Error(t, err)
	assert.Equal(t, "INVALID_STATE", apperrors.ToDomainError(err).Code)
}
