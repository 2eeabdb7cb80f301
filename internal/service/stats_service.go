package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/paltattoo/paltattoo-backend/internal/models"
)

// StatsService arma los agregados de los paneles. Solo lecturas.
type StatsService struct {
	offers    OfferStore
	proposals ProposalStore
	ratings   RatingStore
}

// NewStatsService crea el servicio de estadísticas.
func NewStatsService(offers OfferStore, proposals ProposalStore, ratings RatingStore) *StatsService {
	return &StatsService{
		offers:    offers,
		proposals: proposals,
		ratings:   ratings,
	}
}

// DashboardStats resumen para el panel del usuario.
type DashboardStats struct {
	OffersByStatus    map[string]int `json:"offers_by_status,omitempty"`
	ProposalsByStatus map[string]int `json:"proposals_by_status,omitempty"`
	AverageRating     float64        `json:"average_rating"`
	TotalRatings      int            `json:"total_ratings"`
}

// GetDashboard devuelve los contadores del usuario según su rol. Todos los
// contadores salen de consultas sobre el conjunto completo.
func (s *StatsService) GetDashboard(ctx context.Context, userID uuid.UUID, role string) (*DashboardStats, error) {
	stats := &DashboardStats{}

	switch role {
	case models.RoleClient:
		counts, err := s.offers.CountByStatusForClient(ctx, userID)
		if err != nil {
			return nil, err
		}
		stats.OffersByStatus = counts
	case models.RoleArtist:
		counts, err := s.proposals.CountByStatusForArtist(ctx, userID)
		if err != nil {
			return nil, err
		}
		stats.ProposalsByStatus = counts
	}

	average, total, err := s.ratings.GetAverageForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats.AverageRating = average
	stats.TotalRatings = total

	return stats, nil
}
