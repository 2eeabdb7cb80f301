package models

import (
	"time"

	"github.com/google/uuid"
)

// Offer describe la solicitud pública de un cliente para un tatuaje.
type Offer struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	ClientID    uuid.UUID  `db:"client_id" json:"client_id"`
	Title       string     `db:"title" json:"title"`
	Description string     `db:"description" json:"description"`
	BudgetMin   *float64   `db:"budget_min" json:"budget_min,omitempty"`
	BudgetMax   *float64   `db:"budget_max" json:"budget_max,omitempty"`
	BodyPart    string     `db:"body_part" json:"body_part"`
	Style       string     `db:"style" json:"style"`
	Status      string     `db:"status" json:"status"`
	DeadlineAt  *time.Time `db:"deadline_at" json:"deadline_at,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`

	// Calculado en listados, no persistido en la fila.
	ProposalsCount *int `db:"proposals_count" json:"proposals_count,omitempty"`
}

// Proposal representa la postulación de un tatuador a una oferta.
type Proposal struct {
	ID       uuid.UUID `db:"id" json:"id"`
	OfferID  uuid.UUID `db:"offer_id" json:"offer_id"`
	ArtistID uuid.UUID `db:"artist_id" json:"artist_id"`
	Message  string    `db:"message" json:"message"`
	// Precio propuesto en CLP, siempre > 0.
	ProposedPrice float64 `db:"proposed_price" json:"proposed_price"`
	// Duración estimada del trabajo en días, siempre > 0.
	EstimatedDuration int       `db:"estimated_duration" json:"estimated_duration"`
	Status            string    `db:"status" json:"status"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// ProposalCounts contadores por estado para las pestañas del panel.
// Se calculan siempre sobre el conjunto completo de propuestas de la
// oferta, nunca sobre un subconjunto ya filtrado.
type ProposalCounts struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Accepted  int `json:"accepted"`
	Rejected  int `json:"rejected"`
	Withdrawn int `json:"withdrawn"`
}

// CountProposals calcula los contadores a partir del conjunto completo.
func CountProposals(proposals []Proposal) ProposalCounts {
	counts := ProposalCounts{Total: len(proposals)}
	for _, p := range proposals {
		switch p.Status {
		case ProposalStatusPending:
			counts.Pending++
		case ProposalStatusAccepted:
			counts.Accepted++
		case ProposalStatusRejected:
			counts.Rejected++
		case ProposalStatusWithdrawn:
			counts.Withdrawn++
		}
	}
	return counts
}
