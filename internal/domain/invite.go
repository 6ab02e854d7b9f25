package domain

import "time"

// InviteStatus enumerates lifecycle states for hiring invitations.
type InviteStatus string

const (
	InviteStatusSent      InviteStatus = "SENT"
	InviteStatusOpened    InviteStatus = "OPENED"
	InviteStatusDocs      InviteStatus = "DOCS"
	InviteStatusPayment   InviteStatus = "PAYMENT"
	InviteStatusTrained   InviteStatus = "TRAINED"
	InviteStatusActivated InviteStatus = "ACTIVATED"
	InviteStatusRevoked   InviteStatus = "REVOKED"
	InviteStatusExpired   InviteStatus = "EXPIRED"
)

// DefaultRoleForHire applies when an invitation omits the target role.
const DefaultRoleForHire = "AGENT"

// HiringInvite is the aggregate for hiring invitations. Only a one-way
// digest of the invite token is stored; the raw token exists transiently
// between generation and email delivery.
type HiringInvite struct {
	ID          string
	FirstName   string
	LastName    string
	Email       string
	RoleForHire string
	TokenHash   string
	ExpiresAt   time.Time
	OpenedAt    *time.Time
	ConsumedAt  *time.Time
	ManagerID   string
	Status      InviteStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// FullName joins the invitee's names.
func (i *HiringInvite) FullName() string {
	return i.FirstName + " " + i.LastName
}

// IsExpired checks expiry against the supplied instant. Expiry is a derived
// condition; stored status alone is never authoritative for it.
func (i *HiringInvite) IsExpired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}

// IsConsumed reports whether the invite has been exchanged for credentials.
func (i *HiringInvite) IsConsumed() bool {
	return i.ConsumedAt != nil
}

var inviteStatusRank = map[InviteStatus]int{
	InviteStatusSent:    0,
	InviteStatusOpened:  1,
	InviteStatusDocs:    2,
	InviteStatusPayment: 3,
	InviteStatusTrained: 4,
}

// AdvanceStatus moves the invite forward along the happy path. Backward
// transitions and transitions out of terminal states are ignored, keeping
// status monotonic even when onboarding steps arrive out of order.
func (i *HiringInvite) AdvanceStatus(next InviteStatus) {
	current, ok := inviteStatusRank[i.Status]
	if !ok {
		return
	}
	target, ok := inviteStatusRank[next]
	if !ok {
		return
	}
	if target > current {
		i.Status = next
	}
}
