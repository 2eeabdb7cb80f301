package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/paltattoo/paltattoo-backend/internal/models"
)

var ErrSubscriptionNotFound = errors.New("subscription not found")

// SubscriptionRepository persiste los planes de suscripción de los tatuadores.
type SubscriptionRepository struct {
	db *sqlx.DB
}

func NewSubscriptionRepository(db *sqlx.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// GetByArtist devuelve la suscripción del tatuador.
func (r *SubscriptionRepository) GetByArtist(ctx context.Context, artistID uuid.UUID) (*models.Subscription, error) {
	var subscription models.Subscription
	query := `SELECT * FROM subscriptions WHERE artist_id = $1`
	if err := r.db.GetContext(ctx, &subscription, query, artistID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("subscription repository: get by artist %w", err)
	}
	return &subscription, nil
}

// Upsert crea o reemplaza el plan del tatuador.
func (r *SubscriptionRepository) Upsert(ctx context.Context, subscription *models.Subscription) error {
	query := `
		INSERT INTO subscriptions (artist_id, tier, is_active, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (artist_id) DO UPDATE
		SET tier = EXCLUDED.tier,
			is_active = EXCLUDED.is_active,
			expires_at = EXCLUDED.expires_at,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowxContext(
		ctx,
		query,
		subscription.ArtistID,
		subscription.Tier,
		subscription.IsActive,
		subscription.ExpiresAt,
	).Scan(&subscription.ID, &subscription.CreatedAt, &subscription.UpdatedAt)
	if err != nil {
		return fmt.Errorf("subscription repository: upsert %w", err)
	}

	return nil
}
