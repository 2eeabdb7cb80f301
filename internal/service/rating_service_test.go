package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/paltattoo/paltattoo-backend/internal/cache"
	"github.com/paltattoo/paltattoo-backend/internal/models"
	"github.com/paltattoo/paltattoo-backend/internal/pkg/apperror"
	"github.com/paltattoo/paltattoo-backend/internal/repository"
)

type mockRatingStore struct {
	mock.Mock
}

func (m *mockRatingStore) Create(ctx context.Context, rating *models.Rating) error {
	args := m.Called(ctx, rating)
	if args.Error(0) == nil {
		rating.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockRatingStore) GetByRaterAndProposal(ctx context.Context, raterID, proposalID uuid.UUID) (*models.Rating, error) {
	args := m.Called(ctx, raterID, proposalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Rating), args.Error(1)
}

func (m *mockRatingStore) ListByRated(ctx context.Context, ratedID uuid.UUID) ([]models.Rating, error) {
	args := m.Called(ctx, ratedID)
	return args.Get(0).([]models.Rating), args.Error(1)
}

func (m *mockRatingStore) GetAverageForUser(ctx context.Context, ratedID uuid.UUID) (float64, int, error) {
	args := m.Called(ctx, ratedID)
	return args.Get(0).(float64), args.Int(1), args.Error(2)
}

type mockProposalReader struct {
	mock.Mock
}

func (m *mockProposalReader) GetByID(ctx context.Context, id uuid.UUID) (*models.Proposal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Proposal), args.Error(1)
}

type ratingFixture struct {
	ratings   *mockRatingStore
	proposals *mockProposalReader
	offers    *mockOfferStore
	svc       *RatingService

	clientID   uuid.UUID
	artistID   uuid.UUID
	offerID    uuid.UUID
	proposalID uuid.UUID
}

func newRatingFixture() *ratingFixture {
	f := &ratingFixture{
		ratings:    new(mockRatingStore),
		proposals:  new(mockProposalReader),
		offers:     new(mockOfferStore),
		clientID:   uuid.New(),
		artistID:   uuid.New(),
		offerID:    uuid.New(),
		proposalID: uuid.New(),
	}
	f.svc = NewRatingService(f.ratings, f.proposals, NewOfferService(f.offers, cache.New(nil, 0)))
	return f
}

func (f *ratingFixture) expectAcceptedProposal(ctx context.Context) {
	f.proposals.On("GetByID", ctx, f.proposalID).Return(&models.Proposal{
		ID:       f.proposalID,
		OfferID:  f.offerID,
		ArtistID: f.artistID,
		Status:   models.ProposalStatusAccepted,
	}, nil)
	f.offers.On("GetByID", ctx, f.offerID).Return(&models.Offer{
		ID:       f.offerID,
		ClientID: f.clientID,
		Status:   models.OfferStatusCompleted,
	}, nil)
}

func TestRatingService_CanRate_Eligible(t *testing.T) {
	ctx := context.Background()
	f := newRatingFixture()
	f.expectAcceptedProposal(ctx)
	f.ratings.On("GetByRaterAndProposal", ctx, f.clientID, f.proposalID).Return(nil, nil)

	eligibility, err := f.svc.CanRate(ctx, f.clientID, f.artistID, f.proposalID)
	assert.NoError(t, err)
	assert.True(t, eligibility.CanRate)
	assert.Empty(t, eligibility.Reason)
}

func TestRatingService_CanRate_ProposalMissing(t *testing.T) {
	ctx := context.Background()
	f := newRatingFixture()
	f.proposals.On("GetByID", ctx, f.proposalID).Return(nil, repository.ErrProposalNotFound)

	eligibility, err := f.svc.CanRate(ctx, f.clientID, f.artistID, f.proposalID)
	assert.NoError(t, err, "la inelegibilidad no es un error")
	assert.False(t, eligibility.CanRate)
	assert.Equal(t, "la propuesta no existe", eligibility.Reason)
}

func TestRatingService_CanRate_NotAccepted(t *testing.T) {
	ctx := context.Background()
	f := newRatingFixture()
	f.proposals.On("GetByID", ctx, f.proposalID).Return(&models.Proposal{
		ID:       f.proposalID,
		OfferID:  f.offerID,
		ArtistID: f.artistID,
		Status:   models.ProposalStatusPending,
	}, nil)

	eligibility, err := f.svc.CanRate(ctx, f.clientID, f.artistID, f.proposalID)
	assert.NoError(t, err)
	assert.False(t, eligibility.CanRate)
	assert.Equal(t, "solo se puede calificar un trabajo con propuesta aceptada", eligibility.Reason)
}

func TestRatingService_CanRate_WrongCounterpart(t *testing.T) {
	ctx := context.Background()
	f := newRatingFixture()
	f.expectAcceptedProposal(ctx)

	// El cliente intenta calificar a un tercero en vez del tatuador.
	eligibility, err := f.svc.CanRate(ctx, f.clientID, uuid.New(), f.proposalID)
	assert.NoError(t, err)
	assert.False(t, eligibility.CanRate)
	assert.Equal(t, "solo puedes calificar a la contraparte de esta propuesta", eligibility.Reason)
}

func TestRatingService_CanRate_NotParticipant(t *testing.T) {
	ctx := context.Background()
	f := newRatingFixture()
	f.expectAcceptedProposal(ctx)

	eligibility, err := f.svc.CanRate(ctx, uuid.New(), f.artistID, f.proposalID)
	assert.NoError(t, err)
	assert.False(t, eligibility.CanRate)
	assert.Equal(t, "no participas en esta propuesta", eligibility.Reason)
}

func TestRatingService_CanRate_AlreadyRated(t *testing.T) {
	ctx := context.Background()
	f := newRatingFixture()
	f.expectAcceptedProposal(ctx)
	f.ratings.On("GetByRaterAndProposal", ctx, f.clientID, f.proposalID).Return(&models.Rating{ID: uuid.New()}, nil)

	eligibility, err := f.svc.CanRate(ctx, f.clientID, f.artistID, f.proposalID)
	assert.NoError(t, err)
	assert.False(t, eligibility.CanRate)
	assert.Equal(t, "ya calificaste este trabajo", eligibility.Reason)
}

func TestRatingService_SubmitRating_Success(t *testing.T) {
	ctx := context.Background()
	f := newRatingFixture()
	f.expectAcceptedProposal(ctx)
	f.ratings.On("GetByRaterAndProposal", ctx, f.clientID, f.proposalID).Return(nil, nil)
	f.ratings.On("Create", ctx, mock.AnythingOfType("*models.Rating")).Return(nil)

	comment := "Excelente trabajo, muy profesional"
	rating, err := f.svc.SubmitRating(ctx, SubmitRatingInput{
		RaterID:    f.clientID,
		RatedID:    f.artistID,
		ProposalID: f.proposalID,
		Rating:     5,
		Comment:    &comment,
	})

	assert.NoError(t, err)
	assert.Equal(t, models.RatedTypeArtist, rating.RatedType)
	assert.Equal(t, f.offerID, rating.OfferID)
	f.ratings.AssertExpectations(t)
}

func TestRatingService_SubmitRating_ArtistRatesClient(t *testing.T) {
	ctx := context.Background()
	f := newRatingFixture()
	f.expectAcceptedProposal(ctx)
	f.ratings.On("GetByRaterAndProposal", ctx, f.artistID, f.proposalID).Return(nil, nil)
	f.ratings.On("Create", ctx, mock.AnythingOfType("*models.Rating")).Return(nil)

	rating, err := f.svc.SubmitRating(ctx, SubmitRatingInput{
		RaterID:    f.artistID,
		RatedID:    f.clientID,
		ProposalID: f.proposalID,
		Rating:     4,
	})

	assert.NoError(t, err)
	assert.Equal(t, models.RatedTypeClient, rating.RatedType)
}

func TestRatingService_SubmitRating_OutOfRange(t *testing.T) {
	ctx := context.Background()
	f := newRatingFixture()

	_, err := f.svc.SubmitRating(ctx, SubmitRatingInput{
		RaterID:    f.clientID,
		RatedID:    f.artistID,
		ProposalID: f.proposalID,
		Rating:     6,
	})

	assert.True(t, apperror.IsValidation(err))
	f.proposals.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestRatingService_SubmitRating_AlreadyRated(t *testing.T) {
	ctx := context.Background()
	f := newRatingFixture()
	f.expectAcceptedProposal(ctx)
	f.ratings.On("GetByRaterAndProposal", ctx, f.clientID, f.proposalID).Return(&models.Rating{ID: uuid.New()}, nil)

	_, err := f.svc.SubmitRating(ctx, SubmitRatingInput{
		RaterID:    f.clientID,
		RatedID:    f.artistID,
		ProposalID: f.proposalID,
		Rating:     5,
	})

	assert.ErrorIs(t, err, apperror.ErrDuplicateRating)
	f.ratings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRatingService_SubmitRating_DuplicateRace(t *testing.T) {
	// Dos envíos concurrentes: la restricción única decide el ganador.
	ctx := context.Background()
	f := newRatingFixture()
	f.expectAcceptedProposal(ctx)
	f.ratings.On("GetByRaterAndProposal", ctx, f.clientID, f.proposalID).Return(nil, nil)
	f.ratings.On("Create", ctx, mock.AnythingOfType("*models.Rating")).Return(repository.ErrDuplicateRating)

	_, err := f.svc.SubmitRating(ctx, SubmitRatingInput{
		RaterID:    f.clientID,
		RatedID:    f.artistID,
		ProposalID: f.proposalID,
		Rating:     5,
	})

	assert.ErrorIs(t, err, apperror.ErrDuplicateRating)
}

func TestRatingService_SubmitRating_NotParticipant(t *testing.T) {
	ctx := context.Background()
	f := newRatingFixture()
	f.expectAcceptedProposal(ctx)

	_, err := f.svc.SubmitRating(ctx, SubmitRatingInput{
		RaterID:    uuid.New(),
		RatedID:    f.artistID,
		ProposalID: f.proposalID,
		Rating:     3,
	})

	assert.True(t, apperror.IsForbidden(err))
}
