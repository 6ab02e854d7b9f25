package dto

import (
	"regexp"
	"strings"
	"time"

	"github.com/spec-kit/crm-service/internal/domain"
	apperrors "github.com/spec-kit/crm-service/pkg/util/errorutil"
)

var last4Pattern = regexp.MustCompile(`^\d{4}$`)

// SignatureRequest payload.
type SignatureRequest struct {
	InviteID   string  `json:"inviteId"`
	DocType    string  `json:"docType"`
	EnvelopeID string  `json:"envelopeId"`
	FileURL    *string `json:"fileUrl"`
}

// Validate checks required fields and the document type enum.
func (r *SignatureRequest) Validate() error {
	details := map[string]any{}
	if strings.TrimSpace(r.InviteID) == "" {
		details["inviteId"] = "required"
	}
	switch domain.SignatureDocType(r.DocType) {
	case domain.DocTypeW9, domain.DocTypeBAA:
	default:
		details["docType"] = "must be W9 or BAA"
	}
	if strings.TrimSpace(r.EnvelopeID) == "" {
		details["envelopeId"] = "required"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid signature payload", details)
	}
	return nil
}

// PaymentRequest payload.
type PaymentRequest struct {
	InviteID  string  `json:"inviteId"`
	Type      string  `json:"type"`
	FileURL   string  `json:"fileUrl"`
	AcctLast4 *string `json:"acctLast4"`
}

// Validate checks required fields, the type enum, and the last-4 shape.
func (r *PaymentRequest) Validate() error {
	details := map[string]any{}
	if strings.TrimSpace(r.InviteID) == "" {
		details["inviteId"] = "required"
	}
	switch domain.PaymentDocType(r.Type) {
	case domain.PaymentDocACHVoidedCheck, domain.PaymentDocBankStatement, domain.PaymentDocDirectDepositForm:
	default:
		details["type"] = "unknown payment document type"
	}
	if strings.TrimSpace(r.FileURL) == "" {
		details["fileUrl"] = "required"
	}
	if r.AcctLast4 != nil && !last4Pattern.MatchString(*r.AcctLast4) {
		details["acctLast4"] = "must be exactly 4 digits"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid payment payload", details)
	}
	return nil
}

// TrainingRequest payload. Score is a pointer so that a missing score is
// distinguishable from a legitimate zero.
type TrainingRequest struct {
	InviteID    string  `json:"inviteId"`
	Score       *int    `json:"score"`
	Attestation string  `json:"attestation"`
	IPAddr      *string `json:"ipAddr"`
}

// Validate checks required fields and the score range.
func (r *TrainingRequest) Validate() error {
	details := map[string]any{}
	if strings.TrimSpace(r.InviteID) == "" {
		details["inviteId"] = "required"
	}
	switch {
	case r.Score == nil:
		details["score"] = "required"
	case *r.Score < 0 || *r.Score > 100:
		details["score"] = "must be between 0 and 100"
	}
	if strings.TrimSpace(r.Attestation) == "" {
		details["attestation"] = "required"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid training payload", details)
	}
	return nil
}

// RegisterRequest payload for credential creation.
type RegisterRequest struct {
	InviteID        string `json:"inviteId"`
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// Validate checks required fields only; password policy and matching are
// enforced by the service.
func (r *RegisterRequest) Validate() error {
	details := map[string]any{}
	if strings.TrimSpace(r.InviteID) == "" {
		details["inviteId"] = "required"
	}
	if strings.TrimSpace(r.Username) == "" {
		details["username"] = "required"
	}
	if r.Password == "" {
		details["password"] = "required"
	}
	if r.ConfirmPassword == "" {
		details["confirmPassword"] = "required"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid registration payload", details)
	}
	return nil
}

// SignatureResponse is the recorded signature exposed to the invitee.
type SignatureResponse struct {
	ID         string                  `json:"id"`
	DocType    domain.SignatureDocType `json:"docType"`
	EnvelopeID string                  `json:"envelopeId"`
	Status     domain.SignatureStatus  `json:"status"`
	SignedAt   *time.Time              `json:"signedAt"`
	FileURL    *string                 `json:"fileUrl"`
}

// NewSignatureResponse maps a domain signature.
func NewSignatureResponse(sig *domain.Signature) SignatureResponse {
	return SignatureResponse{
		ID:         sig.ID,
		DocType:    sig.DocType,
		EnvelopeID: sig.EnvelopeID,
		Status:     sig.Status,
		SignedAt:   sig.SignedAt,
		FileURL:    sig.FileURL,
	}
}

// PaymentDocumentResponse is the recorded payment document.
type PaymentDocumentResponse struct {
	ID         string                `json:"id"`
	Type       domain.PaymentDocType `json:"type"`
	FileURL    string                `json:"fileUrl"`
	AcctLast4  *string               `json:"acctLast4"`
	UploadedAt time.Time             `json:"uploadedAt"`
}

// NewPaymentDocumentResponse maps a domain payment document.
func NewPaymentDocumentResponse(doc *domain.PaymentDocument) PaymentDocumentResponse {
	return PaymentDocumentResponse{
		ID:         doc.ID,
		Type:       doc.Type,
		FileURL:    doc.FileURL,
		AcctLast4:  doc.AcctLast4,
		UploadedAt: doc.UploadedAt,
	}
}

// TrainingResponse is the recorded training attestation.
type TrainingResponse struct {
	ID          string     `json:"id"`
	Score       int        `json:"score"`
	Attestation string     `json:"attestation"`
	AttestedAt  *time.Time `json:"attestedAt"`
	PassedAt    *time.Time `json:"passedAt"`
}

// NewTrainingResponse maps a domain training record.
func NewTrainingResponse(training *domain.Training) TrainingResponse {
	return TrainingResponse{
		ID:          training.ID,
		Score:       training.Score,
		Attestation: training.Attestation,
		AttestedAt:  training.AttestedAt,
		PassedAt:    training.PassedAt,
	}
}

// UserResponse is the promoted user shape; the password hash never leaves
// the service.
type UserResponse struct {
	ID        string          `json:"id"`
	Username  string          `json:"username"`
	Email     string          `json:"email"`
	FullName  string          `json:"fullName"`
	Role      domain.UserRole `json:"role"`
	Active    bool            `json:"active"`
	CreatedAt time.Time       `json:"createdAt"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      user.Role,
		Active:    user.Active,
		CreatedAt: user.CreatedAt,
	}
}
