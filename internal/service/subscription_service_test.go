package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/paltattoo/paltattoo-backend/internal/models"
	"github.com/paltattoo/paltattoo-backend/internal/pkg/apperror"
	"github.com/paltattoo/paltattoo-backend/internal/repository"
)

type mockSubscriptionStore struct {
	mock.Mock
}

func (m *mockSubscriptionStore) GetByArtist(ctx context.Context, artistID uuid.UUID) (*models.Subscription, error) {
	args := m.Called(ctx, artistID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

func (m *mockSubscriptionStore) Upsert(ctx context.Context, subscription *models.Subscription) error {
	args := m.Called(ctx, subscription)
	return args.Error(0)
}

type mockProposalCounter struct {
	mock.Mock
}

func (m *mockProposalCounter) CountPendingByArtist(ctx context.Context, artistID uuid.UUID) (int, error) {
	args := m.Called(ctx, artistID)
	return args.Int(0), args.Error(1)
}

func TestSubscriptionService_GetSubscription_DefaultsToFree(t *testing.T) {
	ctx := context.Background()
	subscriptions := new(mockSubscriptionStore)
	counter := new(mockProposalCounter)
	svc := NewSubscriptionService(subscriptions, counter)

	artistID := uuid.New()
	subscriptions.On("GetByArtist", ctx, artistID).Return(nil, repository.ErrSubscriptionNotFound)

	subscription, err := svc.GetSubscription(ctx, artistID)
	assert.NoError(t, err)
	assert.Equal(t, models.TierFree, subscription.Tier)
	assert.True(t, subscription.IsActive)
}

func TestSubscriptionService_CheckProposalQuota_FreeTierFull(t *testing.T) {
	ctx := context.Background()
	subscriptions := new(mockSubscriptionStore)
	counter := new(mockProposalCounter)
	svc := NewSubscriptionService(subscriptions, counter)

	artistID := uuid.New()
	subscriptions.On("GetByArtist", ctx, artistID).Return(nil, repository.ErrSubscriptionNotFound)
	counter.On("CountPendingByArtist", ctx, artistID).Return(3, nil)

	err := svc.CheckProposalQuota(ctx, artistID)
	assert.ErrorIs(t, err, apperror.ErrQuotaExceeded)
}

func TestSubscriptionService_CheckProposalQuota_FreeTierWithRoom(t *testing.T) {
	ctx := context.Background()
	subscriptions := new(mockSubscriptionStore)
	counter := new(mockProposalCounter)
	svc := NewSubscriptionService(subscriptions, counter)

	artistID := uuid.New()
	subscriptions.On("GetByArtist", ctx, artistID).Return(nil, repository.ErrSubscriptionNotFound)
	counter.On("CountPendingByArtist", ctx, artistID).Return(2, nil)

	assert.NoError(t, svc.CheckProposalQuota(ctx, artistID))
}

func TestSubscriptionService_CheckProposalQuota_PremiumRaisesLimit(t *testing.T) {
	ctx := context.Background()
	subscriptions := new(mockSubscriptionStore)
	counter := new(mockProposalCounter)
	svc := NewSubscriptionService(subscriptions, counter)

	artistID := uuid.New()
	subscriptions.On("GetByArtist", ctx, artistID).Return(&models.Subscription{
		ArtistID: artistID,
		Tier:     models.TierPremium,
		IsActive: true,
	}, nil)
	counter.On("CountPendingByArtist", ctx, artistID).Return(10, nil)

	assert.NoError(t, svc.CheckProposalQuota(ctx, artistID))
}

func TestSubscriptionService_EffectiveLimits_ExpiredFallsBackToFree(t *testing.T) {
	ctx := context.Background()
	subscriptions := new(mockSubscriptionStore)
	counter := new(mockProposalCounter)
	svc := NewSubscriptionService(subscriptions, counter)

	artistID := uuid.New()
	expired := time.Now().Add(-24 * time.Hour)
	subscriptions.On("GetByArtist", ctx, artistID).Return(&models.Subscription{
		ArtistID:  artistID,
		Tier:      models.TierPro,
		IsActive:  true,
		ExpiresAt: &expired,
	}, nil)

	limits, err := svc.EffectiveLimits(ctx, artistID)
	assert.NoError(t, err)
	assert.Equal(t, models.TierFree, limits.Tier)
}

func TestSubscriptionService_EffectiveLimits_InactiveFallsBackToFree(t *testing.T) {
	ctx := context.Background()
	subscriptions := new(mockSubscriptionStore)
	counter := new(mockProposalCounter)
	svc := NewSubscriptionService(subscriptions, counter)

	artistID := uuid.New()
	subscriptions.On("GetByArtist", ctx, artistID).Return(&models.Subscription{
		ArtistID: artistID,
		Tier:     models.TierPremium,
		IsActive: false,
	}, nil)

	limits, err := svc.EffectiveLimits(ctx, artistID)
	assert.NoError(t, err)
	assert.Equal(t, models.TierFree, limits.Tier)
}

func TestSubscriptionService_ChangeTier(t *testing.T) {
	ctx := context.Background()
	subscriptions := new(mockSubscriptionStore)
	counter := new(mockProposalCounter)
	svc := NewSubscriptionService(subscriptions, counter)

	artistID := uuid.New()
	subscriptions.On("Upsert", ctx, mock.AnythingOfType("*models.Subscription")).Return(nil)

	subscription, err := svc.ChangeTier(ctx, artistID, models.TierPremium, nil)
	assert.NoError(t, err)
	assert.Equal(t, models.TierPremium, subscription.Tier)
	assert.True(t, subscription.IsActive)

	_, err = svc.ChangeTier(ctx, artistID, "platinum", nil)
	assert.True(t, apperror.IsValidation(err))
}
