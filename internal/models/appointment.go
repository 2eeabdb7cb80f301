package models

import (
	"time"

	"github.com/google/uuid"
)

// Appointment describe una cita entre tatuador y cliente. Puede nacer de una
// propuesta aceptada o agendarse de forma independiente.
type Appointment struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	ProposalID *uuid.UUID `db:"proposal_id" json:"proposal_id,omitempty"`
	ArtistID   uuid.UUID  `db:"artist_id" json:"artist_id"`
	ClientID   uuid.UUID  `db:"client_id" json:"client_id"`
	Title      string     `db:"title" json:"title"`
	Notes      *string    `db:"notes" json:"notes,omitempty"`
	StartsAt   time.Time  `db:"starts_at" json:"starts_at"`
	EndsAt     time.Time  `db:"ends_at" json:"ends_at"`
	Status     string     `db:"status" json:"status"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
}
