package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/crm-service/internal/domain"
)

// InviteRepository encapsulates hiring invitation persistence. Invites are
// never physically deleted.
type InviteRepository interface {
	Create(ctx context.Context, invite *domain.HiringInvite) error
	Update(ctx context.Context, invite *domain.HiringInvite) error
	GetByID(ctx context.Context, id string) (*domain.HiringInvite, error)
	GetByTokenHash(ctx context.Context, tokenHash string) (*domain.HiringInvite, error)
	// FindActiveByEmail returns the unexpired SENT/OPENED invite for the
	// email, or pgx.ErrNoRows.
	FindActiveByEmail(ctx context.Context, email string, now time.Time) (*domain.HiringInvite, error)
	// ExpireStale marks SENT/OPENED invites for the email whose expiry has
	// passed as EXPIRED, releasing the one-active-invite-per-email slot.
	ExpireStale(ctx context.Context, email string, now time.Time) error
	ListByManager(ctx context.Context, managerID string) ([]domain.HiringInvite, error)
}

type inviteRepository struct {
	pool *pgxpool.Pool
}

// NewInviteRepository instantiates repository.
func NewInviteRepository(pool *pgxpool.Pool) InviteRepository {
	return &inviteRepository{pool: pool}
}

const inviteColumns = `id, first_name, last_name, email, role_for_hire, token_hash, expires_at,
               opened_at, consumed_at, manager_id, status, created_at, updated_at`

func (r *inviteRepository) Create(ctx context.Context, invite *domain.HiringInvite) error {
	const query = `
        INSERT INTO hiring_invites (first_name, last_name, email, role_for_hire, token_hash, expires_at, manager_id, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		invite.FirstName,
		invite.LastName,
		invite.Email,
		invite.RoleForHire,
		invite.TokenHash,
		invite.ExpiresAt,
		invite.ManagerID,
		invite.Status,
	).Scan(&invite.ID, &invite.CreatedAt, &invite.UpdatedAt)
}

func (r *inviteRepository) Update(ctx context.Context, invite *domain.HiringInvite) error {
	const query = `
        UPDATE hiring_invites SET token_hash=$1, expires_at=$2, opened_at=$3, consumed_at=$4,
            status=$5, updated_at=NOW()
        WHERE id=$6`
	cmd, err := r.pool.Exec(ctx, query,
		invite.TokenHash,
		invite.ExpiresAt,
		invite.OpenedAt,
		invite.ConsumedAt,
		invite.Status,
		invite.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *inviteRepository) GetByID(ctx context.Context, id string) (*domain.HiringInvite, error) {
	return r.fetchSingle(ctx, `SELECT `+inviteColumns+` FROM hiring_invites WHERE id=$1`, id)
}

func (r *inviteRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*domain.HiringInvite, error) {
	return r.fetchSingle(ctx, `SELECT `+inviteColumns+` FROM hiring_invites WHERE token_hash=$1`, tokenHash)
}

func (r *inviteRepository) FindActiveByEmail(ctx context.Context, email string, now time.Time) (*domain.HiringInvite, error) {
	const query = `
        SELECT ` + inviteColumns + `
        FROM hiring_invites
        WHERE email=$1 AND status IN ('SENT','OPENED') AND expires_at > $2
        ORDER BY created_at DESC
        LIMIT 1`
	var invite domain.HiringInvite
	if err := r.pool.QueryRow(ctx, query, email, now).Scan(inviteFields(&invite)...); err != nil {
		return nil, err
	}
	return &invite, nil
}

func (r *inviteRepository) ExpireStale(ctx context.Context, email string, now time.Time) error {
	const query = `
        UPDATE hiring_invites SET status='EXPIRED', updated_at=NOW()
        WHERE email=$1 AND status IN ('SENT','OPENED') AND expires_at <= $2`
	_, err := r.pool.Exec(ctx, query, email, now)
	return err
}

func (r *inviteRepository) ListByManager(ctx context.Context, managerID string) ([]domain.HiringInvite, error) {
	const query = `
        SELECT ` + inviteColumns + `
        FROM hiring_invites WHERE manager_id=$1
        ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, managerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.HiringInvite
	for rows.Next() {
		var invite domain.HiringInvite
		if err := rows.Scan(inviteFields(&invite)...); err != nil {
			return nil, err
		}
		result = append(result, invite)
	}
	return result, rows.Err()
}

func (r *inviteRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.HiringInvite, error) {
	var invite domain.HiringInvite
	if err := r.pool.QueryRow(ctx, query, arg).Scan(inviteFields(&invite)...); err != nil {
		return nil, err
	}
	return &invite, nil
}

func inviteFields(invite *domain.HiringInvite) []any {
	return []any{
		&invite.ID,
		&invite.FirstName,
		&invite.LastName,
		&invite.Email,
		&invite.RoleForHire,
		&invite.TokenHash,
		&invite.ExpiresAt,
		&invite.OpenedAt,
		&invite.ConsumedAt,
		&invite.ManagerID,
		&invite.Status,
		&invite.CreatedAt,
		&invite.UpdatedAt,
	}
}
