package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/paltattoo/paltattoo-backend/internal/models"
)

var (
	ErrRatingNotFound = errors.New("rating not found")
	// ErrDuplicateRating salta cuando la restricción única
	// (rater_id, proposal_id) rechaza una segunda calificación.
	ErrDuplicateRating = errors.New("duplicate rating")
)

// RatingRepository persiste las calificaciones entre cliente y artista.
type RatingRepository struct {
	db *sqlx.DB
}

func NewRatingRepository(db *sqlx.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

// Create inserta la calificación. La unicidad por (rater_id, proposal_id)
// la garantiza la base, no una lectura previa: dos envíos concurrentes
// terminan con exactamente una fila.
func (r *RatingRepository) Create(ctx context.Context, rating *models.Rating) error {
	query := `
		INSERT INTO ratings (rater_id, rated_id, rated_type, offer_id, proposal_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := r.db.QueryRowxContext(
		ctx,
		query,
		rating.RaterID,
		rating.RatedID,
		rating.RatedType,
		rating.OfferID,
		rating.ProposalID,
		rating.Rating,
		rating.Comment,
	).Scan(&rating.ID, &rating.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return ErrDuplicateRating
		}
		return fmt.Errorf("rating repository: insert %w", err)
	}

	return nil
}

// GetByRaterAndProposal devuelve la calificación del usuario sobre la
// propuesta, o nil si aún no existe.
func (r *RatingRepository) GetByRaterAndProposal(ctx context.Context, raterID, proposalID uuid.UUID) (*models.Rating, error) {
	var rating models.Rating
	query := `SELECT * FROM ratings WHERE rater_id = $1 AND proposal_id = $2`
	if err := r.db.GetContext(ctx, &rating, query, raterID, proposalID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("rating repository: get by rater and proposal %w", err)
	}
	return &rating, nil
}

// ListByRated devuelve las calificaciones recibidas por un usuario.
func (r *RatingRepository) ListByRated(ctx context.Context, ratedID uuid.UUID) ([]models.Rating, error) {
	var ratings []models.Rating
	query := `SELECT * FROM ratings WHERE rated_id = $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &ratings, query, ratedID); err != nil {
		return nil, fmt.Errorf("rating repository: list by rated %w", err)
	}
	return ratings, nil
}

// GetAverageForUser devuelve el promedio y el total de calificaciones
// recibidas. Si no hay ninguna, el promedio es 0.
func (r *RatingRepository) GetAverageForUser(ctx context.Context, ratedID uuid.UUID) (float64, int, error) {
	var result struct {
		Average float64 `db:"average"`
		Count   int     `db:"count"`
	}
	query := `
		SELECT COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count
		FROM ratings WHERE rated_id = $1
	`
	if err := r.db.GetContext(ctx, &result, query, ratedID); err != nil {
		return 0, 0, fmt.Errorf("rating repository: average %w", err)
	}
	return result.Average, result.Count, nil
}
