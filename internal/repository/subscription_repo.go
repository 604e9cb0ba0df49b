package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"habitud/internal/model"
)

type SubscriptionRepository struct {
	db *pgxpool.Pool
}

func NewSubscriptionRepository(db *pgxpool.Pool) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

const subscriptionColumns = `id, user_id, endpoint, p256dh_key, auth_key, user_agent, active, created_at`

func (r *SubscriptionRepository) FindByEndpoint(ctx context.Context, endpoint string) (*model.PushSubscription, error) {
	var s model.PushSubscription
	err := r.db.QueryRow(ctx,
		`SELECT `+subscriptionColumns+` FROM push_subscriptions WHERE endpoint = $1`,
		endpoint,
	).Scan(&s.ID, &s.UserID, &s.Endpoint, &s.P256DHKey, &s.AuthKey, &s.UserAgent, &s.Active, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SubscriptionRepository) Create(ctx context.Context, s *model.PushSubscription) error {
	query := `
        INSERT INTO push_subscriptions (user_id, endpoint, p256dh_key, auth_key, user_agent, active)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at
    `
	err := r.db.QueryRow(ctx, query,
		s.UserID, s.Endpoint, s.P256DHKey, s.AuthKey, s.UserAgent, s.Active,
	).Scan(&s.ID, &s.CreatedAt)
	return translateUnique(err)
}

// Update rewrites ownership, keys and the active flag; re-subscribing an
// endpoint re-owns it.
func (r *SubscriptionRepository) Update(ctx context.Context, s *model.PushSubscription) error {
	tag, err := r.db.Exec(ctx, `
        UPDATE push_subscriptions
        SET user_id = $1, p256dh_key = $2, auth_key = $3, user_agent = $4, active = $5
        WHERE id = $6
    `, s.UserID, s.P256DHKey, s.AuthKey, s.UserAgent, s.Active, s.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *SubscriptionRepository) DeleteByEndpointAndUser(ctx context.Context, endpoint string, userID int) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM push_subscriptions WHERE endpoint = $1 AND user_id = $2`,
		endpoint, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *SubscriptionRepository) CountActiveByUser(ctx context.Context, userID int) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM push_subscriptions WHERE user_id = $1 AND active = TRUE`,
		userID,
	).Scan(&n)
	return n, err
}
