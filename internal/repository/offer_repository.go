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

// Errores a nivel de repositorio.
var (
	ErrOfferNotFound = errors.New("offer not found")
	// ErrOfferConflict indica que la transición de estado no se aplicó
	// porque otra petición concurrente cambió la fila primero.
	ErrOfferConflict = errors.New("offer status conflict")
)

// OfferRepository se encarga de la persistencia de ofertas.
type OfferRepository struct {
	db *sqlx.DB
}

// NewOfferRepository crea una nueva instancia.
func NewOfferRepository(db *sqlx.DB) *OfferRepository {
	return &OfferRepository{db: db}
}

// Create guarda la oferta y completa id y timestamps.
func (r *OfferRepository) Create(ctx context.Context, offer *models.Offer) error {
	query := `
		INSERT INTO offers (client_id, title, description, budget_min, budget_max, body_part, style, status, deadline_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`

	if err := r.db.QueryRowxContext(
		ctx,
		query,
		offer.ClientID,
		offer.Title,
		offer.Description,
		offer.BudgetMin,
		offer.BudgetMax,
		offer.BodyPart,
		offer.Style,
		offer.Status,
		offer.DeadlineAt,
	).Scan(&offer.ID, &offer.CreatedAt, &offer.UpdatedAt); err != nil {
		return fmt.Errorf("offer repository: insert %w", err)
	}

	return nil
}

// GetByID devuelve la oferta por identificador.
func (r *OfferRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Offer, error) {
	var offer models.Offer
	query := `
		SELECT id, client_id, title, description, budget_min, budget_max, body_part, style, status, deadline_at, created_at, updated_at
		FROM offers
		WHERE id = $1
	`
	if err := r.db.GetContext(ctx, &offer, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOfferNotFound
		}
		return nil, fmt.Errorf("offer repository: get by id %w", err)
	}
	return &offer, nil
}

// Update modifica los campos editables de la oferta.
func (r *OfferRepository) Update(ctx context.Context, offer *models.Offer) error {
	query := `
		UPDATE offers
		SET title = $2, description = $3, budget_min = $4, budget_max = $5,
		    body_part = $6, style = $7, deadline_at = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	if err := r.db.QueryRowxContext(
		ctx, query,
		offer.ID, offer.Title, offer.Description, offer.BudgetMin, offer.BudgetMax,
		offer.BodyPart, offer.Style, offer.DeadlineAt,
	).Scan(&offer.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrOfferNotFound
		}
		return fmt.Errorf("offer repository: update %w", err)
	}
	return nil
}

// TransitionStatus cambia el estado con comparación previa en la misma
// sentencia: dos transiciones concurrentes sobre la misma oferta no pueden
// aplicarse ambas.
func (r *OfferRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to string) (*models.Offer, error) {
	query := `
		UPDATE offers
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING id, client_id, title, description, budget_min, budget_max, body_part, style, status, deadline_at, created_at, updated_at
	`

	var offer models.Offer
	if err := r.db.QueryRowxContext(ctx, query, id, from, to).StructScan(&offer); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOfferConflict
		}
		return nil, fmt.Errorf("offer repository: transition status %w", err)
	}
	return &offer, nil
}

// ListFilterParams filtros para el listado de ofertas abiertas.
type ListFilterParams struct {
	Status    string
	Style     string
	BodyPart  string
	Search    string
	BudgetMin *float64
	BudgetMax *float64
	Limit     int
	Offset    int
}

// ListResult resultado paginado del listado.
type ListResult struct {
	Offers  []models.Offer `json:"offers"`
	Total   int            `json:"total"`
	Limit   int            `json:"limit"`
	Offset  int            `json:"offset"`
	HasMore bool           `json:"has_more"`
}

// List devuelve ofertas con filtros y paginación. Sin ordenamiento especial:
// orden de inserción (created_at) como presenta el panel.
func (r *OfferRepository) List(ctx context.Context, params ListFilterParams) (*ListResult, error) {
	countQuery := `SELECT COUNT(*) FROM offers o WHERE 1=1`
	query := `
		SELECT o.*, COALESCE(pc.count, 0) AS proposals_count
		FROM offers o
		LEFT JOIN (
			SELECT offer_id, COUNT(*) AS count
			FROM proposals
			GROUP BY offer_id
		) pc ON o.id = pc.offer_id
		WHERE 1=1
	`
	args := []interface{}{}
	argIndex := 1

	if params.Status != "" {
		clause := fmt.Sprintf(" AND o.status = $%d", argIndex)
		query += clause
		countQuery += clause
		args = append(args, params.Status)
		argIndex++
	}

	if params.Style != "" {
		clause := fmt.Sprintf(" AND o.style = $%d", argIndex)
		query += clause
		countQuery += clause
		args = append(args, params.Style)
		argIndex++
	}

	if params.BodyPart != "" {
		clause := fmt.Sprintf(" AND o.body_part = $%d", argIndex)
		query += clause
		countQuery += clause
		args = append(args, params.BodyPart)
		argIndex++
	}

	if params.Search != "" {
		clause := fmt.Sprintf(" AND (o.title ILIKE $%d OR o.description ILIKE $%d)", argIndex, argIndex)
		query += clause
		countQuery += clause
		args = append(args, "%"+params.Search+"%")
		argIndex++
	}

	// El filtro de presupuesto busca solapamiento de rangos, no igualdad.
	if params.BudgetMin != nil {
		clause := fmt.Sprintf(" AND (o.budget_max IS NULL OR o.budget_max >= $%d)", argIndex)
		query += clause
		countQuery += clause
		args = append(args, *params.BudgetMin)
		argIndex++
	}
	if params.BudgetMax != nil {
		clause := fmt.Sprintf(" AND (o.budget_min IS NULL OR o.budget_min <= $%d)", argIndex)
		query += clause
		countQuery += clause
		args = append(args, *params.BudgetMax)
		argIndex++
	}

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, fmt.Errorf("offer repository: count %w", err)
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}

	query += fmt.Sprintf(" ORDER BY o.created_at DESC LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, limit, offset)

	var offers []models.Offer
	if err := r.db.SelectContext(ctx, &offers, query, args...); err != nil {
		return nil, fmt.Errorf("offer repository: list %w", err)
	}

	return &ListResult{
		Offers:  offers,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: offset+limit < total,
	}, nil
}

// ListByClient devuelve las ofertas de un cliente, más recientes primero.
func (r *OfferRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]models.Offer, error) {
	var offers []models.Offer
	query := `
		SELECT o.*, COALESCE(pc.count, 0) AS proposals_count
		FROM offers o
		LEFT JOIN (
			SELECT offer_id, COUNT(*) AS count FROM proposals GROUP BY offer_id
		) pc ON o.id = pc.offer_id
		WHERE o.client_id = $1
		ORDER BY o.created_at DESC
	`
	if err := r.db.SelectContext(ctx, &offers, query, clientID); err != nil {
		return nil, fmt.Errorf("offer repository: list by client %w", err)
	}
	return offers, nil
}

// CountByStatusForClient devuelve los contadores de ofertas por estado.
func (r *OfferRepository) CountByStatusForClient(ctx context.Context, clientID uuid.UUID) (map[string]int, error) {
	rows, err := r.db.QueryxContext(ctx, `
		SELECT status, COUNT(*) AS count FROM offers WHERE client_id = $1 GROUP BY status
	`, clientID)
	if err != nil {
		return nil, fmt.Errorf("offer repository: count by status %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("offer repository: scan count %w", err)
		}
		counts[status] = count
	}
	return counts, rows.Err()
}
