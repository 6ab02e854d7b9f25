package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/crm-service/internal/domain"
)

// SignatureRepository persists signed-document evidence, one row per
// (user, doc type); resubmissions overwrite.
type SignatureRepository interface {
	Upsert(ctx context.Context, signature *domain.Signature) error
	GetByUserAndDocType(ctx context.Context, userID string, docType domain.SignatureDocType) (*domain.Signature, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Signature, error)
}

type signatureRepository struct {
	pool *pgxpool.Pool
}

// NewSignatureRepository instantiates repository.
func NewSignatureRepository(pool *pgxpool.Pool) SignatureRepository {
	return &signatureRepository{pool: pool}
}

const signatureColumns = `id, user_id, doc_type, envelope_id, status, signed_at, file_url, created_at, updated_at`

func (r *signatureRepository) Upsert(ctx context.Context, signature *domain.Signature) error {
	const query = `
        INSERT INTO signatures (user_id, doc_type, envelope_id, status, signed_at, file_url)
        VALUES ($1,$2,$3,$4,$5,$6)
        ON CONFLICT (user_id, doc_type) DO UPDATE SET
            envelope_id=EXCLUDED.envelope_id,
            status=EXCLUDED.status,
            signed_at=EXCLUDED.signed_at,
            file_url=EXCLUDED.file_url,
            updated_at=NOW()
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		signature.UserID,
		signature.DocType,
		signature.EnvelopeID,
		signature.Status,
		signature.SignedAt,
		signature.FileURL,
	).Scan(&signature.ID, &signature.CreatedAt, &signature.UpdatedAt)
}

func (r *signatureRepository) GetByUserAndDocType(ctx context.Context, userID string, docType domain.SignatureDocType) (*domain.Signature, error) {
	const query = `SELECT ` + signatureColumns + ` FROM signatures WHERE user_id=$1 AND doc_type=$2`
	var sig domain.Signature
	if err := r.pool.QueryRow(ctx, query, userID, docType).Scan(
		&sig.ID,
		&sig.UserID,
		&sig.DocType,
		&sig.EnvelopeID,
		&sig.Status,
		&sig.SignedAt,
		&sig.FileURL,
		&sig.CreatedAt,
		&sig.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &sig, nil
}

func (r *signatureRepository) ListByUser(ctx context.Context, userID string) ([]domain.Signature, error) {
	const query = `SELECT ` + signatureColumns + ` FROM signatures WHERE user_id=$1 ORDER BY doc_type`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Signature
	for rows.Next() {
		var sig domain.Signature
		if err := rows.Scan(
			&sig.ID,
			&sig.UserID,
			&sig.DocType,
			&sig.EnvelopeID,
			&sig.Status,
			&sig.SignedAt,
			&sig.FileURL,
			&sig.CreatedAt,
			&sig.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, sig)
	}
	return result, rows.Err()
}
