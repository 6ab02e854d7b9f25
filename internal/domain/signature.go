package domain

import "time"

// SignatureDocType enumerates signable compliance documents.
type SignatureDocType string

const (
	DocTypeW9  SignatureDocType = "W9"
	DocTypeBAA SignatureDocType = "BAA"
)

// SignatureStatus enumerates e-sign envelope states.
type SignatureStatus string

const (
	SignatureStatusPending SignatureStatus = "PENDING"
	SignatureStatusSigned  SignatureStatus = "SIGNED"
	SignatureStatusFailed  SignatureStatus = "FAILED"
	SignatureStatusExpired SignatureStatus = "EXPIRED"
)

// Signature records one signed compliance document per (user, doc type).
// Resubmissions overwrite; no history is retained.
type Signature struct {
	ID         string
	UserID     string
	DocType    SignatureDocType
	EnvelopeID string
	Status     SignatureStatus
	SignedAt   *time.Time
	FileURL    *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsCompleted reports whether the document was actually signed.
func (s *Signature) IsCompleted() bool {
	return s.Status == SignatureStatusSigned && s.SignedAt != nil
}
