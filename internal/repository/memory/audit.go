package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/crm-service/internal/domain"
	"github.com/spec-kit/crm-service/internal/repository"
)

// AuditLogStore is an in-memory repository.AuditLogRepository.
type AuditLogStore struct {
	mu      sync.RWMutex
	entries []domain.AuditLog
}

// NewAuditLogStore creates an empty store.
func NewAuditLogStore() *AuditLogStore {
	return &AuditLogStore{}
}

var _ repository.AuditLogRepository = (*AuditLogStore)(nil)

func (s *AuditLogStore) Insert(_ context.Context, entry *domain.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry.ID = uuid.NewString()
	entry.Timestamp = time.Now()
	s.entries = append(s.entries, *entry)
	return nil
}

func (s *AuditLogStore) ListRecent(_ context.Context, limit int) ([]domain.AuditLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}
	n := len(s.entries)
	if limit > n {
		limit = n
	}
	result := make([]domain.AuditLog, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		result = append(result, s.entries[i])
	}
	return result, nil
}
