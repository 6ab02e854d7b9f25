package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/crm-service/internal/domain"
	"github.com/spec-kit/crm-service/internal/repository"
)

// SignatureStore is an in-memory repository.SignatureRepository keyed by
// (user id, doc type).
type SignatureStore struct {
	mu         sync.RWMutex
	signatures map[string]domain.Signature
}

// NewSignatureStore creates an empty store.
func NewSignatureStore() *SignatureStore {
	return &SignatureStore{signatures: make(map[string]domain.Signature)}
}

var _ repository.SignatureRepository = (*SignatureStore)(nil)

func signatureKey(userID string, docType domain.SignatureDocType) string {
	return userID + "|" + string(docType)
}

func (s *SignatureStore) Upsert(_ context.Context, signature *domain.Signature) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := signatureKey(signature.UserID, signature.DocType)
	now := time.Now()
	if existing, ok := s.signatures[key]; ok {
		signature.ID = existing.ID
		signature.CreatedAt = existing.CreatedAt
	} else {
		signature.ID = uuid.NewString()
		signature.CreatedAt = now
	}
	signature.UpdatedAt = now
	s.signatures[key] = *signature
	return nil
}

func (s *SignatureStore) GetByUserAndDocType(_ context.Context, userID string, docType domain.SignatureDocType) (*domain.Signature, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if sig, ok := s.signatures[signatureKey(userID, docType)]; ok {
		return &sig, nil
	}
	return nil, pgx.ErrNoRows
}

func (s *SignatureStore) ListByUser(_ context.Context, userID string) ([]domain.Signature, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.Signature
	for _, sig := range s.signatures {
		if sig.UserID == userID {
			result = append(result, sig)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].DocType < result[j].DocType
	})
	return result, nil
}

// PaymentDocumentStore is an in-memory repository.PaymentDocumentRepository
// keyed by (user id, document type).
type PaymentDocumentStore struct {
	mu   sync.RWMutex
	docs map[string]domain.PaymentDocument
}

// NewPaymentDocumentStore creates an empty store.
func NewPaymentDocumentStore() *PaymentDocumentStore {
	return &PaymentDocumentStore{docs: make(map[string]domain.PaymentDocument)}
}

var _ repository.PaymentDocumentRepository = (*PaymentDocumentStore)(nil)

func (s *PaymentDocumentStore) Upsert(_ context.Context, doc *domain.PaymentDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := doc.UserID + "|" + string(doc.Type)
	now := time.Now()
	if existing, ok := s.docs[key]; ok {
		doc.ID = existing.ID
		doc.UploadedAt = existing.UploadedAt
	} else {
		doc.ID = uuid.NewString()
		doc.UploadedAt = now
	}
	doc.UpdatedAt = now
	s.docs[key] = *doc
	return nil
}

func (s *PaymentDocumentStore) ListByUser(_ context.Context, userID string) ([]domain.PaymentDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.PaymentDocument
	for _, doc := range s.docs {
		if doc.UserID == userID {
			result = append(result, doc)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].UploadedAt.Before(result[j].UploadedAt)
	})
	return result, nil
}

// TrainingStore is an in-memory repository.TrainingRepository, unique per user.
type TrainingStore struct {
	mu      sync.RWMutex
	records map[string]domain.Training
}

// NewTrainingStore creates an empty store.
func NewTrainingStore() *TrainingStore {
	return &TrainingStore{records: make(map[string]domain.Training)}
}

var _ repository.TrainingRepository = (*TrainingStore)(nil)

func (s *TrainingStore) Upsert(_ context.Context, training *domain.Training) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if existing, ok := s.records[training.UserID]; ok {
		training.ID = existing.ID
		training.CreatedAt = existing.CreatedAt
	} else {
		training.ID = uuid.NewString()
		training.CreatedAt = now
	}
	training.UpdatedAt = now
	s.records[training.UserID] = *training
	return nil
}

func (s *TrainingStore) GetByUser(_ context.Context, userID string) (*domain.Training, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if training, ok := s.records[userID]; ok {
		return &training, nil
	}
	return nil, pgx.ErrNoRows
}
