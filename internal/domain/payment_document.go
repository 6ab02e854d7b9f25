package domain

import "time"

// PaymentDocType enumerates accepted payment-method evidence.
type PaymentDocType string

const (
	PaymentDocACHVoidedCheck    PaymentDocType = "ACH_VOIDED_CHECK"
	PaymentDocBankStatement     PaymentDocType = "BANK_STATEMENT"
	PaymentDocDirectDepositForm PaymentDocType = "DIRECT_DEPOSIT_FORM"
)

// PaymentDocument records payment-method capture evidence per (user, type).
// AcctLast4, when present, holds exactly the last four account digits.
type PaymentDocument struct {
	ID         string
	UserID     string
	Type       PaymentDocType
	FileURL    string
	AcctLast4  *string
	UploadedAt time.Time
	UpdatedAt  time.Time
}
