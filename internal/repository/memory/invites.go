package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/crm-service/internal/domain"
	"github.com/spec-kit/crm-service/internal/repository"
	apperrors "github.com/spec-kit/crm-service/pkg/util/errorutil"
)

// InviteStore is an in-memory repository.InviteRepository. It enforces the
// same uniqueness the Postgres schema enforces with indexes: token hashes are
// unique, and at most one unexpired SENT/OPENED invite exists per email.
type InviteStore struct {
	mu      sync.RWMutex
	invites map[string]domain.HiringInvite
}

// NewInviteStore creates an empty store.
func NewInviteStore() *InviteStore {
	return &InviteStore{invites: make(map[string]domain.HiringInvite)}
}

var _ repository.InviteRepository = (*InviteStore)(nil)

func isActiveStatus(status domain.InviteStatus) bool {
	return status == domain.InviteStatusSent || status == domain.InviteStatusOpened
}

func (s *InviteStore) Create(_ context.Context, invite *domain.HiringInvite) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for _, existing := range s.invites {
		if existing.TokenHash == invite.TokenHash {
			return apperrors.NewConflict("token hash already exists", nil)
		}
		if strings.EqualFold(existing.Email, invite.Email) &&
			isActiveStatus(existing.Status) && !existing.IsExpired(now) &&
			isActiveStatus(invite.Status) {
			return apperrors.NewConflict("active invitation already exists", nil)
		}
	}

	invite.ID = uuid.NewString()
	invite.CreatedAt = now
	invite.UpdatedAt = now
	s.invites[invite.ID] = *invite
	return nil
}

func (s *InviteStore) Update(_ context.Context, invite *domain.HiringInvite) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.invites[invite.ID]; !ok {
		return pgx.ErrNoRows
	}
	for id, existing := range s.invites {
		if id == invite.ID {
			continue
		}
		if existing.TokenHash == invite.TokenHash {
			return apperrors.NewConflict("token hash already exists", nil)
		}
	}

	invite.UpdatedAt = time.Now()
	s.invites[invite.ID] = *invite
	return nil
}

func (s *InviteStore) GetByID(_ context.Context, id string) (*domain.HiringInvite, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if invite, ok := s.invites[id]; ok {
		return &invite, nil
	}
	return nil, pgx.ErrNoRows
}

func (s *InviteStore) GetByTokenHash(_ context.Context, tokenHash string) (*domain.HiringInvite, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, invite := range s.invites {
		if invite.TokenHash == tokenHash {
			i := invite
			return &i, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (s *InviteStore) FindActiveByEmail(_ context.Context, email string, now time.Time) (*domain.HiringInvite, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, invite := range s.invites {
		if strings.EqualFold(invite.Email, email) && isActiveStatus(invite.Status) && invite.ExpiresAt.After(now) {
			i := invite
			return &i, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (s *InviteStore) ExpireStale(_ context.Context, email string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, invite := range s.invites {
		if strings.EqualFold(invite.Email, email) && isActiveStatus(invite.Status) && invite.IsExpired(now) {
			invite.Status = domain.InviteStatusExpired
			invite.UpdatedAt = now
			s.invites[id] = invite
		}
	}
	return nil
}

func (s *InviteStore) ListByManager(_ context.Context, managerID string) ([]domain.HiringInvite, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.HiringInvite
	for _, invite := range s.invites {
		if invite.ManagerID == managerID {
			result = append(result, invite)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}
