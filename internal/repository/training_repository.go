package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/crm-service/internal/domain"
)

// TrainingRepository persists the training attestation, unique per user.
type TrainingRepository interface {
	Upsert(ctx context.Context, training *domain.Training) error
	GetByUser(ctx context.Context, userID string) (*domain.Training, error)
}

type trainingRepository struct {
	pool *pgxpool.Pool
}

// NewTrainingRepository instantiates repository.
func NewTrainingRepository(pool *pgxpool.Pool) TrainingRepository {
	return &trainingRepository{pool: pool}
}

func (r *trainingRepository) Upsert(ctx context.Context, training *domain.Training) error {
	const query = `
        INSERT INTO training (user_id, score, attestation, attested_at, passed_at, ip_addr)
        VALUES ($1,$2,$3,$4,$5,$6)
        ON CONFLICT (user_id) DO UPDATE SET
            score=EXCLUDED.score,
            attestation=EXCLUDED.attestation,
            attested_at=EXCLUDED.attested_at,
            passed_at=EXCLUDED.passed_at,
            ip_addr=EXCLUDED.ip_addr,
            updated_at=NOW()
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		training.UserID,
		training.Score,
		training.Attestation,
		training.AttestedAt,
		training.PassedAt,
		training.IPAddr,
	).Scan(&training.ID, &training.CreatedAt, &training.UpdatedAt)
}

func (r *trainingRepository) GetByUser(ctx context.Context, userID string) (*domain.Training, error) {
	const query = `
        SELECT id, user_id, score, attestation, attested_at, passed_at, ip_addr, created_at, updated_at
        FROM training WHERE user_id=$1`
	var training domain.Training
	if err := r.pool.QueryRow(ctx, query, userID).Scan(
		&training.ID,
		&training.UserID,
		&training.Score,
		&training.Attestation,
		&training.AttestedAt,
		&training.PassedAt,
		&training.IPAddr,
		&training.CreatedAt,
		&training.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &training, nil
}
