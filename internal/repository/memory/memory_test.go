package memory

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/suite"

	"github.com/spec-kit/crm-service/internal/domain"
)

type InviteStoreSuite struct {
	suite.Suite
	store *InviteStore
	ctx   context.Context
}

func (s *InviteStoreSuite) SetupTest() {
	s.store = NewInviteStore()
	s.ctx = context.Background()
}

func (s *InviteStoreSuite) newInvite(email, tokenHash string, status domain.InviteStatus) *domain.HiringInvite {
	return &domain.HiringInvite{
		FirstName:   "Jane",
		LastName:    "Doe",
		Email:       email,
		RoleForHire: "AGENT",
		TokenHash:   tokenHash,
		ExpiresAt:   time.Now().Add(24 * time.Hour),
		ManagerID:   "mgr-1",
		Status:      status,
	}
}

func (s *InviteStoreSuite) TestCreateAssignsIdentity() {
	invite := s.newInvite("a@example.com", "hash-a", domain.InviteStatusSent)
	s.Require().NoError(s.store.Create(s.ctx, invite))
	s.NotEmpty(invite.ID)
	s.False(invite.CreatedAt.IsZero())

	fetched, err := s.store.GetByID(s.ctx, invite.ID)
	s.Require().NoError(err)
	s.Equal("a@example.com", fetched.Email)
}

func (s *InviteStoreSuite) TestTokenHashUnique() {
	s.Require().NoError(s.store.Create(s.ctx, s.newInvite("a@example.com", "hash-a", domain.InviteStatusSent)))
	err := s.store.Create(s.ctx, s.newInvite("b@example.com", "hash-a", domain.InviteStatusSent))
	s.Error(err)
}

func (s *InviteStoreSuite) TestOneActiveInvitePerEmail() {
	s.Require().NoError(s.store.Create(s.ctx, s.newInvite("a@example.com", "hash-1", domain.InviteStatusSent)))
	err := s.store.Create(s.ctx, s.newInvite("a@example.com", "hash-2", domain.InviteStatusSent))
	s.Error(err)

	// A revoked invite does not block a new one.
	store2 := NewInviteStore()
	s.Require().NoError(store2.Create(s.ctx, s.newInvite("b@example.com", "hash-3", domain.InviteStatusRevoked)))
	s.NoError(store2.Create(s.ctx, s.newInvite("b@example.com", "hash-4", domain.InviteStatusSent)))
}

func (s *InviteStoreSuite) TestExpiredInviteDoesNotBlockCreate() {
	stale := s.newInvite("a@example.com", "hash-1", domain.InviteStatusSent)
	stale.ExpiresAt = time.Now().Add(-time.Hour)
	s.Require().NoError(s.store.Create(s.ctx, stale))

	s.NoError(s.store.Create(s.ctx, s.newInvite("a@example.com", "hash-2", domain.InviteStatusSent)))
}

func (s *InviteStoreSuite) TestExpireStale() {
	stale := s.newInvite("a@example.com", "hash-1", domain.InviteStatusSent)
	stale.ExpiresAt = time.Now().Add(-time.Hour)
	s.Require().NoError(s.store.Create(s.ctx, stale))

	live := s.newInvite("b@example.com", "hash-2", domain.InviteStatusOpened)
	s.Require().NoError(s.store.Create(s.ctx, live))

	s.Require().NoError(s.store.ExpireStale(s.ctx, "A@Example.com", time.Now()))

	swept, err := s.store.GetByID(s.ctx, stale.ID)
	s.Require().NoError(err)
	s.Equal(domain.InviteStatusExpired, swept.Status)

	// Other emails and unexpired invites are untouched.
	kept, err := s.store.GetByID(s.ctx, live.ID)
	s.Require().NoError(err)
	s.Equal(domain.InviteStatusOpened, kept.Status)
}

func (s *InviteStoreSuite) TestFindActiveByEmail() {
	invite := s.newInvite("a@example.com", "hash-a", domain.InviteStatusSent)
	s.Require().NoError(s.store.Create(s.ctx, invite))

	found, err := s.store.FindActiveByEmail(s.ctx, "A@Example.com", time.Now())
	s.Require().NoError(err)
	s.Equal(invite.ID, found.ID)

	// Past the expiry instant, the invite is no longer active.
	_, err = s.store.FindActiveByEmail(s.ctx, "a@example.com", time.Now().Add(48*time.Hour))
	s.ErrorIs(err, pgx.ErrNoRows)
}

func (s *InviteStoreSuite) TestGetByTokenHash() {
	invite := s.newInvite("a@example.com", "hash-a", domain.InviteStatusSent)
	s.Require().NoError(s.store.Create(s.ctx, invite))

	found, err := s.store.GetByTokenHash(s.ctx, "hash-a")
	s.Require().NoError(err)
	s.Equal(invite.ID, found.ID)

	_, err = s.store.GetByTokenHash(s.ctx, "hash-b")
	s.ErrorIs(err, pgx.ErrNoRows)
}

func (s *InviteStoreSuite) TestUpdateMissing() {
	invite := s.newInvite("a@example.com", "hash-a", domain.InviteStatusSent)
	invite.ID = "does-not-exist"
	s.ErrorIs(s.store.Update(s.ctx, invite), pgx.ErrNoRows)
}

func TestInviteStoreSuite(t *testing.T) {
	suite.Run(t, new(InviteStoreSuite))
}

type UserStoreSuite struct {
	suite.Suite
	store *UserStore
	ctx   context.Context
}

func (s *UserStoreSuite) SetupTest() {
	s.store = NewUserStore()
	s.ctx = context.Background()
}

func (s *UserStoreSuite) newUser(username, email string) *domain.User {
	return &domain.User{
		Username:     username,
		Email:        email,
		Role:         domain.RoleAgent,
		Active:       true,
		PasswordHash: "x",
	}
}

func (s *UserStoreSuite) TestEmailUniqueCaseInsensitive() {
	s.Require().NoError(s.store.Create(s.ctx, s.newUser("jane", "jane@example.com")))
	s.Error(s.store.Create(s.ctx, s.newUser("other", "Jane@Example.com")))
}

func (s *UserStoreSuite) TestUsernameUnique() {
	s.Require().NoError(s.store.Create(s.ctx, s.newUser("jane", "jane@example.com")))
	s.Error(s.store.Create(s.ctx, s.newUser("jane", "other@example.com")))
}

func (s *UserStoreSuite) TestUpdateRejectsUsernameCollision() {
	s.Require().NoError(s.store.Create(s.ctx, s.newUser("jane", "jane@example.com")))
	second := s.newUser("john", "john@example.com")
	s.Require().NoError(s.store.Create(s.ctx, second))

	second.Username = "jane"
	s.Error(s.store.Update(s.ctx, second))
}

func (s *UserStoreSuite) TestLookups() {
	user := s.newUser("jane", "jane@example.com")
	s.Require().NoError(s.store.Create(s.ctx, user))

	byID, err := s.store.GetByID(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Equal("jane", byID.Username)

	byEmail, err := s.store.GetByEmail(s.ctx, "JANE@example.com")
	s.Require().NoError(err)
	s.Equal(user.ID, byEmail.ID)

	byUsername, err := s.store.GetByUsername(s.ctx, "jane")
	s.Require().NoError(err)
	s.Equal(user.ID, byUsername.ID)

	_, err = s.store.GetByUsername(s.ctx, "nobody")
	s.ErrorIs(err, pgx.ErrNoRows)
}

func TestUserStoreSuite(t *testing.T) {
	suite.Run(t, new(UserStoreSuite))
}
