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

// Errores a nivel de repositorio.
var (
	ErrProposalNotFound = errors.New("proposal not found")
	// ErrProposalConflict indica que la transición no se aplicó porque el
	// estado actual ya no es el esperado (otra petición ganó la carrera).
	ErrProposalConflict = errors.New("proposal status conflict")
	// ErrDuplicateActiveProposal salta cuando el índice único parcial
	// rechaza una segunda propuesta activa del mismo artista.
	ErrDuplicateActiveProposal = errors.New("duplicate active proposal")
)

const pqUniqueViolation = "23505"

// ProposalRepository se encarga de la persistencia de propuestas.
type ProposalRepository struct {
	db *sqlx.DB
}

// NewProposalRepository crea una nueva instancia.
func NewProposalRepository(db *sqlx.DB) *ProposalRepository {
	return &ProposalRepository{db: db}
}

// Create inserta la propuesta. La unicidad (oferta, artista) activa la
// detecta la base mediante el índice parcial, cerrando la carrera entre
// dos envíos concurrentes.
func (r *ProposalRepository) Create(ctx context.Context, proposal *models.Proposal) error {
	query := `
		INSERT INTO proposals (offer_id, artist_id, message, proposed_price, estimated_duration, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowxContext(
		ctx,
		query,
		proposal.OfferID,
		proposal.ArtistID,
		proposal.Message,
		proposal.ProposedPrice,
		proposal.EstimatedDuration,
		proposal.Status,
	).Scan(&proposal.ID, &proposal.CreatedAt, &proposal.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return ErrDuplicateActiveProposal
		}
		return fmt.Errorf("proposal repository: insert %w", err)
	}

	return nil
}

// GetByID devuelve la propuesta por identificador.
func (r *ProposalRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Proposal, error) {
	var proposal models.Proposal
	if err := r.db.GetContext(ctx, &proposal, `SELECT * FROM proposals WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProposalNotFound
		}
		return nil, fmt.Errorf("proposal repository: get by id %w", err)
	}
	return &proposal, nil
}

// GetActiveByOfferAndArtist devuelve la propuesta activa (pending o accepted)
// del artista sobre la oferta, o nil si no existe.
func (r *ProposalRepository) GetActiveByOfferAndArtist(ctx context.Context, offerID, artistID uuid.UUID) (*models.Proposal, error) {
	var proposal models.Proposal
	query := `
		SELECT * FROM proposals
		WHERE offer_id = $1 AND artist_id = $2 AND status IN ('pending', 'accepted')
	`
	if err := r.db.GetContext(ctx, &proposal, query, offerID, artistID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("proposal repository: get active %w", err)
	}
	return &proposal, nil
}

// ListByOffer devuelve todas las propuestas de una oferta en orden de
// inserción. El filtrado por estado es un predicado aguas arriba; los
// contadores deben salir siempre de este conjunto completo.
func (r *ProposalRepository) ListByOffer(ctx context.Context, offerID uuid.UUID) ([]models.Proposal, error) {
	var proposals []models.Proposal
	query := `SELECT * FROM proposals WHERE offer_id = $1 ORDER BY created_at ASC`
	if err := r.db.SelectContext(ctx, &proposals, query, offerID); err != nil {
		return nil, fmt.Errorf("proposal repository: list by offer %w", err)
	}
	return proposals, nil
}

// ListByArtist devuelve las propuestas del artista, más recientes primero.
func (r *ProposalRepository) ListByArtist(ctx context.Context, artistID uuid.UUID) ([]models.Proposal, error) {
	var proposals []models.Proposal
	query := `SELECT * FROM proposals WHERE artist_id = $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &proposals, query, artistID); err != nil {
		return nil, fmt.Errorf("proposal repository: list by artist %w", err)
	}
	return proposals, nil
}

// UpdateFields modifica mensaje, precio y duración solo mientras la
// propuesta sigue pending; la condición va en la misma sentencia para que
// una aceptación concurrente no se pise con la edición.
func (r *ProposalRepository) UpdateFields(ctx context.Context, id uuid.UUID, message string, price float64, duration int) (*models.Proposal, error) {
	query := `
		UPDATE proposals
		SET message = $2, proposed_price = $3, estimated_duration = $4, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
		RETURNING id, offer_id, artist_id, message, proposed_price, estimated_duration, status, created_at, updated_at
	`

	var proposal models.Proposal
	if err := r.db.QueryRowxContext(ctx, query, id, message, price, duration).StructScan(&proposal); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProposalConflict
		}
		return nil, fmt.Errorf("proposal repository: update fields %w", err)
	}
	return &proposal, nil
}

// TransitionStatus aplica pending -> to en una sola sentencia. Si la fila ya
// no está pending devuelve ErrProposalConflict: dos transiciones concurrentes
// sobre la misma propuesta nunca pueden aplicarse ambas.
func (r *ProposalRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to string) (*models.Proposal, error) {
	query := `
		UPDATE proposals
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING id, offer_id, artist_id, message, proposed_price, estimated_duration, status, created_at, updated_at
	`

	var proposal models.Proposal
	if err := r.db.QueryRowxContext(ctx, query, id, from, to).StructScan(&proposal); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProposalConflict
		}
		return nil, fmt.Errorf("proposal repository: transition status %w", err)
	}
	return &proposal, nil
}

// HasAcceptedForOffer indica si la oferta ya tiene una propuesta aceptada.
func (r *ProposalRepository) HasAcceptedForOffer(ctx context.Context, offerID uuid.UUID) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM proposals WHERE offer_id = $1 AND status = 'accepted'`
	if err := r.db.GetContext(ctx, &count, query, offerID); err != nil {
		return false, fmt.Errorf("proposal repository: has accepted %w", err)
	}
	return count > 0, nil
}

// CountPendingByArtist cuenta las propuestas pending del artista, el dato
// que consulta la cuota de suscripción.
func (r *ProposalRepository) CountPendingByArtist(ctx context.Context, artistID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM proposals WHERE artist_id = $1 AND status = 'pending'`
	if err := r.db.GetContext(ctx, &count, query, artistID); err != nil {
		return 0, fmt.Errorf("proposal repository: count pending %w", err)
	}
	return count, nil
}

// CountByStatusForArtist devuelve los contadores por estado del artista.
func (r *ProposalRepository) CountByStatusForArtist(ctx context.Context, artistID uuid.UUID) (map[string]int, error) {
	rows, err := r.db.QueryxContext(ctx, `
		SELECT status, COUNT(*) AS count FROM proposals WHERE artist_id = $1 GROUP BY status
	`, artistID)
	if err != nil {
		return nil, fmt.Errorf("proposal repository: count by status %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("proposal repository: scan count %w", err)
		}
		counts[status] = count
	}
	return counts, rows.Err()
}
