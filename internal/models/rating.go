package models

import (
	"time"

	"github.com/google/uuid"
)

// Rating describe la calificación de un participante al otro tras un
// trabajo acordado. Inmutable una vez creada; la unicidad por
// (rater_id, proposal_id) la garantiza la base de datos.
type Rating struct {
	ID         uuid.UUID `db:"id" json:"id"`
	RaterID    uuid.UUID `db:"rater_id" json:"rater_id"`
	RatedID    uuid.UUID `db:"rated_id" json:"rated_id"`
	RatedType  string    `db:"rated_type" json:"rated_type"`
	OfferID    uuid.UUID `db:"offer_id" json:"offer_id"`
	ProposalID uuid.UUID `db:"proposal_id" json:"proposal_id"`
	Rating     int       `db:"rating" json:"rating"`
	Comment    *string   `db:"comment" json:"comment,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// RatingEligibility es el resultado de la consulta "¿puedo calificar?".
// Reason explica el motivo cuando CanRate es false; es una consulta sin
// efectos, por eso devuelve motivo y no error.
type RatingEligibility struct {
	CanRate bool   `json:"can_rate"`
	Reason  string `json:"reason,omitempty"`
}
