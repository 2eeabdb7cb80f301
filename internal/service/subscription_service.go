package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/paltattoo/paltattoo-backend/internal/models"
	"github.com/paltattoo/paltattoo-backend/internal/pkg/apperror"
	"github.com/paltattoo/paltattoo-backend/internal/repository"
)

// SubscriptionStore describe el acceso a los planes.
type SubscriptionStore interface {
	GetByArtist(ctx context.Context, artistID uuid.UUID) (*models.Subscription, error)
	Upsert(ctx context.Context, subscription *models.Subscription) error
}

// ProposalCounter entrega el conteo de propuestas pending del tatuador.
type ProposalCounter interface {
	CountPendingByArtist(ctx context.Context, artistID uuid.UUID) (int, error)
}

// SubscriptionService lleva la contabilidad de planes y aplica la cuota de
// propuestas. El cobro vive en la pasarela externa, no aquí.
type SubscriptionService struct {
	subscriptions SubscriptionStore
	proposals     ProposalCounter
}

// NewSubscriptionService crea el servicio de suscripciones.
func NewSubscriptionService(subscriptions SubscriptionStore, proposals ProposalCounter) *SubscriptionService {
	return &SubscriptionService{
		subscriptions: subscriptions,
		proposals:     proposals,
	}
}

// GetSubscription devuelve el plan del tatuador; sin registro, plan free.
func (s *SubscriptionService) GetSubscription(ctx context.Context, artistID uuid.UUID) (*models.Subscription, error) {
	subscription, err := s.subscriptions.GetByArtist(ctx, artistID)
	if err != nil {
		if errors.Is(err, repository.ErrSubscriptionNotFound) {
			return &models.Subscription{
				ArtistID: artistID,
				Tier:     models.TierFree,
				IsActive: true,
			}, nil
		}
		return nil, err
	}
	return subscription, nil
}

// EffectiveLimits devuelve los límites vigentes del tatuador. Una
// suscripción inactiva o vencida cae al plan free.
func (s *SubscriptionService) EffectiveLimits(ctx context.Context, artistID uuid.UUID) (models.TierLimits, error) {
	subscription, err := s.GetSubscription(ctx, artistID)
	if err != nil {
		return models.TierLimits{}, err
	}

	tier := subscription.Tier
	if !subscription.IsActive {
		tier = models.TierFree
	}
	if subscription.ExpiresAt != nil && subscription.ExpiresAt.Before(time.Now()) {
		tier = models.TierFree
	}

	return models.LimitsForTier(tier), nil
}

// CheckProposalQuota verifica que el tatuador aún tenga cupo de propuestas
// pending según su plan. Se consulta antes de crear una propuesta.
func (s *SubscriptionService) CheckProposalQuota(ctx context.Context, artistID uuid.UUID) error {
	limits, err := s.EffectiveLimits(ctx, artistID)
	if err != nil {
		return err
	}

	pending, err := s.proposals.CountPendingByArtist(ctx, artistID)
	if err != nil {
		return err
	}

	if pending >= limits.MaxActiveProposals {
		return apperror.ErrQuotaExceeded
	}

	return nil
}

// ChangeTier cambia el plan del tatuador. El pago ya fue resuelto aguas
// arriba; aquí solo queda el registro.
func (s *SubscriptionService) ChangeTier(ctx context.Context, artistID uuid.UUID, tier string, expiresAt *time.Time) (*models.Subscription, error) {
	switch tier {
	case models.TierFree, models.TierPremium, models.TierPro:
	default:
		return nil, apperror.New(apperror.ErrCodeValidation, "plan de suscripción inválido")
	}

	subscription := &models.Subscription{
		ArtistID:  artistID,
		Tier:      tier,
		IsActive:  true,
		ExpiresAt: expiresAt,
	}

	if err := s.subscriptions.Upsert(ctx, subscription); err != nil {
		return nil, err
	}

	return subscription, nil
}
