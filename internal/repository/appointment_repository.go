package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/paltattoo/paltattoo-backend/internal/models"
)

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	// ErrAppointmentConflict indica que la transición de estado perdió la
	// carrera contra otra petición concurrente.
	ErrAppointmentConflict = errors.New("appointment status conflict")
)

// AppointmentRepository persiste las citas agendadas entre cliente y tatuador.
type AppointmentRepository struct {
	db *sqlx.DB
}

func NewAppointmentRepository(db *sqlx.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

// Create inserta la cita.
func (r *AppointmentRepository) Create(ctx context.Context, appointment *models.Appointment) error {
	query := `
		INSERT INTO appointments (proposal_id, artist_id, client_id, title, notes, starts_at, ends_at, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowxContext(
		ctx,
		query,
		appointment.ProposalID,
		appointment.ArtistID,
		appointment.ClientID,
		appointment.Title,
		appointment.Notes,
		appointment.StartsAt,
		appointment.EndsAt,
		appointment.Status,
	).Scan(&appointment.ID, &appointment.CreatedAt, &appointment.UpdatedAt)
	if err != nil {
		return fmt.Errorf("appointment repository: insert %w", err)
	}

	return nil
}

// GetByID devuelve la cita por identificador.
func (r *AppointmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Appointment, error) {
	var appointment models.Appointment
	if err := r.db.GetContext(ctx, &appointment, `SELECT * FROM appointments WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("appointment repository: get by id %w", err)
	}
	return &appointment, nil
}

// ListByUser devuelve las citas donde el usuario participa como cliente o
// tatuador, ordenadas por inicio.
func (r *AppointmentRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Appointment, error) {
	var appointments []models.Appointment
	query := `
		SELECT * FROM appointments
		WHERE client_id = $1 OR artist_id = $1
		ORDER BY starts_at ASC
	`
	if err := r.db.SelectContext(ctx, &appointments, query, userID); err != nil {
		return nil, fmt.Errorf("appointment repository: list by user %w", err)
	}
	return appointments, nil
}

// TransitionStatus aplica from -> to en una sola sentencia, igual que con
// las propuestas.
func (r *AppointmentRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to string) (*models.Appointment, error) {
	query := `
		UPDATE appointments
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING id, proposal_id, artist_id, client_id, title, notes, starts_at, ends_at, status, created_at, updated_at
	`

	var appointment models.Appointment
	if err := r.db.QueryRowxContext(ctx, query, id, from, to).StructScan(&appointment); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAppointmentConflict
		}
		return nil, fmt.Errorf("appointment repository: transition status %w", err)
	}
	return &appointment, nil
}

// HasOverlapForArtist comprueba si el tatuador ya tiene una cita vigente
// que se cruce con el intervalo propuesto.
func (r *AppointmentRepository) HasOverlapForArtist(ctx context.Context, artistID uuid.UUID, startsAt, endsAt time.Time) (bool, error) {
	var count int
	query := `
		SELECT COUNT(*) FROM appointments
		WHERE artist_id = $1 AND status IN ('pending', 'confirmed')
		  AND starts_at < $3 AND ends_at > $2
	`
	if err := r.db.GetContext(ctx, &count, query, artistID, startsAt, endsAt); err != nil {
		return false, fmt.Errorf("appointment repository: overlap %w", err)
	}
	return count > 0, nil
}
