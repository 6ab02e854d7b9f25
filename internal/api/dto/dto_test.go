package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/crm-service/pkg/util/errorutil"
)

func validInvitation() CreateInvitationRequest {
	return CreateInvitationRequest{
		FirstName:   "Jane",
		LastName:    "Doe",
		Email:       "jane@example.com",
		RoleForHire: "AGENT",
	}
}

func TestCreateInvitationRequestValidate(t *testing.T) {
	req := validInvitation()
	assert.NoError(t, req.Validate())

	missing := validInvitation()
	missing.FirstName = "  "
	err := missing.Validate()
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
	assert.Contains(t, domainErr.Details, "firstName")

	badEmail := validInvitation()
	badEmail.Email = "not-an-email"
	err = badEmail.Validate()
	require.Error(t, err)
	assert.Contains(t, apperrors.ToDomainError(err).Details, "email")
}

func TestBulkInvitationRequestValidate(t *testing.T) {
	empty := BulkInvitationRequest{}
	assert.Error(t, empty.Validate(100))

	tooMany := BulkInvitationRequest{Invitations: make([]CreateInvitationRequest, 101)}
	assert.Error(t, tooMany.Validate(100))

	badRow := BulkInvitationRequest{Invitations: []CreateInvitationRequest{
		validInvitation(),
		{FirstName: "John", LastName: "Smith", Email: "broken"},
	}}
	err := badRow.Validate(100)
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, 2, domainErr.Details["row"])
}

func TestSignatureRequestValidate(t *testing.T) {
	req := SignatureRequest{InviteID: "inv-1", DocType: "W9", EnvelopeID: "env-1"}
	assert.NoError(t, req.Validate())

	req.DocType = "NDA"
	err := req.Validate()
	require.Error(t, err)
	assert.Contains(t, apperrors.ToDomainError(err).Details, "docType")
}

func TestPaymentRequestValidate(t *testing.T) {
	last4 := "1234"
	req := PaymentRequest{InviteID: "inv-1", Type: "ACH_VOIDED_CHECK", FileURL: "https://x/y.pdf", AcctLast4: &last4}
	assert.NoError(t, req.Validate())

	bad := "12a4"
	req.AcctLast4 = &bad
	err := req.Validate()
	require.Error(t, err)
	assert.Contains(t, apperrors.ToDomainError(err).Details, "acctLast4")

	req.AcctLast4 = nil
	req.Type = "CASH"
	err = req.Validate()
	require.Error(t, err)
	assert.Contains(t, apperrors.ToDomainError(err).Details, "type")
}

func TestTrainingRequestValidate(t *testing.T) {
	score := 85
	req := TrainingRequest{InviteID: "inv-1", Score: &score, Attestation: "I attest"}
	assert.NoError(t, req.Validate())

	req.Score = nil
	err := req.Validate()
	require.Error(t, err)
	assert.Contains(t, apperrors.ToDomainError(err).Details, "score")

	over := 101
	req.Score = &over
	err = req.Validate()
	require.Error(t, err)
	assert.Contains(t, apperrors.ToDomainError(err).Details, "score")

	zero := 0
	req.Score = &zero
	assert.NoError(t, req.Validate())
}

func TestRegisterRequestValidate(t *testing.T) {
	req := RegisterRequest{InviteID: "inv-1", Username: "jane", Password: "p", ConfirmPassword: "p"}
	assert.NoError(t, req.Validate())

	req.Username = ""
	err := req.Validate()
	require.Error(t, err)
	assert.Contains(t, apperrors.ToDomainError(err).Details, "username")
}
