package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/crm-service/internal/domain"
)

// PaymentDocumentRepository persists payment-method evidence, one row per
// (user, document type); the latest submission wins.
type PaymentDocumentRepository interface {
	Upsert(ctx context.Context, doc *domain.PaymentDocument) error
	ListByUser(ctx context.Context, userID string) ([]domain.PaymentDocument, error)
}

type paymentDocumentRepository struct {
	pool *pgxpool.Pool
}

// NewPaymentDocumentRepository instantiates repository.
func NewPaymentDocumentRepository(pool *pgxpool.Pool) PaymentDocumentRepository {
	return &paymentDocumentRepository{pool: pool}
}

func (r *paymentDocumentRepository) Upsert(ctx context.Context, doc *domain.PaymentDocument) error {
	const query = `
        INSERT INTO payment_documents (user_id, type, file_url, acct_last4)
        VALUES ($1,$2,$3,$4)
        ON CONFLICT (user_id, type) DO UPDATE SET
            file_url=EXCLUDED.file_url,
            acct_last4=EXCLUDED.acct_last4,
            updated_at=NOW()
        RETURNING id, uploaded_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		doc.UserID,
		doc.Type,
		doc.FileURL,
		doc.AcctLast4,
	).Scan(&doc.ID, &doc.UploadedAt, &doc.UpdatedAt)
}

func (r *paymentDocumentRepository) ListByUser(ctx context.Context, userID string) ([]domain.PaymentDocument, error) {
	const query = `
        SELECT id, user_id, type, file_url, acct_last4, uploaded_at, updated_at
        FROM payment_documents WHERE user_id=$1 ORDER BY uploaded_at`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.PaymentDocument
	for rows.Next() {
		var doc domain.PaymentDocument
		if err := rows.Scan(
			&doc.ID,
			&doc.UserID,
			&doc.Type,
			&doc.FileURL,
			&doc.AcctLast4,
			&doc.UploadedAt,
			&doc.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, doc)
	}
	return result, rows.Err()
}
