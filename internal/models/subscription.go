package models

import (
	"time"

	"github.com/google/uuid"
)

// Subscription guarda el plan vigente de un tatuador. El cobro lo maneja la
// pasarela de pagos externa; aquí solo vive la contabilidad del plan.
type Subscription struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	ArtistID  uuid.UUID  `db:"artist_id" json:"artist_id"`
	Tier      string     `db:"tier" json:"tier"`
	IsActive  bool       `db:"is_active" json:"is_active"`
	ExpiresAt *time.Time `db:"expires_at" json:"expires_at,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

// TierLimits define los límites de cada plan.
type TierLimits struct {
	Tier string `json:"tier"`
	// MaxActiveProposals es el máximo de propuestas pending simultáneas.
	MaxActiveProposals int `json:"max_active_proposals"`
}

// LimitsForTier devuelve los límites del plan indicado. Un tier desconocido
// o una suscripción vencida caen al plan free.
func LimitsForTier(tier string) TierLimits {
	switch tier {
	case TierPremium:
		return TierLimits{Tier: TierPremium, MaxActiveProposals: 20}
	case TierPro:
		return TierLimits{Tier: TierPro, MaxActiveProposals: 100}
	default:
		return TierLimits{Tier: TierFree, MaxActiveProposals: 3}
	}
}
