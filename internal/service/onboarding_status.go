package service

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/crm-service/internal/domain"
	apperrors "github.com/spec-kit/crm-service/pkg/util/errorutil"
)

// Onboarding step names, in pipeline order. The fifth step means onboarding
// is complete.
const (
	StepSignatures  = "signatures"
	StepPayment     = "payment"
	StepTraining    = "training"
	StepCredentials = "credentials"
)

// OnboardingStatus is the composite progress snapshot for one invitation.
type OnboardingStatus struct {
	Step        int                 `json:"step"`
	Status      string              `json:"status"`
	Completed   []string            `json:"completed"`
	Signatures  []SignatureSummary  `json:"signatures,omitempty"`
	PaymentDocs []PaymentDocSummary `json:"paymentDocs,omitempty"`
	Training    *TrainingSummary    `json:"training"`
}

// SignatureSummary is the per-document detail exposed to the UI.
type SignatureSummary struct {
	DocType  domain.SignatureDocType `json:"docType"`
	Status   domain.SignatureStatus  `json:"status"`
	SignedAt *time.Time              `json:"signedAt"`
}

// PaymentDocSummary is the per-document detail exposed to the UI.
type PaymentDocSummary struct {
	Type       domain.PaymentDocType `json:"type"`
	UploadedAt time.Time             `json:"uploadedAt"`
}

// TrainingSummary is the training detail exposed to the UI.
type TrainingSummary struct {
	Score    int  `json:"score"`
	Passed   bool `json:"passed"`
	Attested bool `json:"attested"`
}

// Status derives the progress snapshot for an invitation by reading the step
// records and the identity. It never mutates and is safe to call
// concurrently; snapshots are briefly cached when a cache is configured.
func (s *OnboardingService) Status(ctx context.Context, inviteID string) (*OnboardingStatus, error) {
	if cached, ok := s.cache.Get(ctx, inviteID); ok {
		return cached, nil
	}

	invite, err := s.invites.GetByID(ctx, inviteID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("invitation", map[string]any{"id": inviteID})
		}
		return nil, apperrors.MapError(err)
	}

	user, err := s.users.GetByEmail(ctx, invite.Email)
	if err != nil {
		if err == pgx.ErrNoRows {
			// No identity yet: nothing has been submitted.
			return &OnboardingStatus{Step: 1, Status: "pending", Completed: []string{}}, nil
		}
		return nil, apperrors.MapError(err)
	}

	signatures, err := s.signatures.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	paymentDocs, err := s.payments.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	training, err := s.training.GetByUser(ctx, user.ID)
	if err != nil && err != pgx.ErrNoRows {
		return nil, apperrors.MapError(err)
	}

	status := &OnboardingStatus{
		Step:      1,
		Status:    string(invite.Status),
		Completed: []string{},
	}

	if len(signatures) > 0 {
		status.Completed = append(status.Completed, StepSignatures)
		status.Step = 2
	}
	if len(paymentDocs) > 0 {
		status.Completed = append(status.Completed, StepPayment)
		status.Step = 3
	}
	if training != nil && training.IsCompleted() {
		status.Completed = append(status.Completed, StepTraining)
		status.Step = 4
	}
	if user.Active && !user.IsPlaceholder() {
		status.Completed = append(status.Completed, StepCredentials)
		status.Step = 5
	}

	for _, sig := range signatures {
		status.Signatures = append(status.Signatures, SignatureSummary{
			DocType:  sig.DocType,
			Status:   sig.Status,
			SignedAt: sig.SignedAt,
		})
	}
	for _, doc := range paymentDocs {
		status.PaymentDocs = append(status.PaymentDocs, PaymentDocSummary{
			Type:       doc.Type,
			UploadedAt: doc.UploadedAt,
		})
	}
	if training != nil {
		status.Training = &TrainingSummary{
			Score:    training.Score,
			Passed:   training.IsPassingScore(),
			Attested: training.AttestedAt != nil,
		}
	}

	s.cache.Set(ctx, inviteID, status)
	return status, nil
}
