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

type mockProposalStore struct {
	mock.Mock
}

func (m *mockProposalStore) Create(ctx context.Context, proposal *models.Proposal) error {
	args := m.Called(ctx, proposal)
	if args.Error(0) == nil {
		proposal.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockProposalStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Proposal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Proposal), args.Error(1)
}

func (m *mockProposalStore) GetActiveByOfferAndArtist(ctx context.Context, offerID, artistID uuid.UUID) (*models.Proposal, error) {
	args := m.Called(ctx, offerID, artistID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Proposal), args.Error(1)
}

func (m *mockProposalStore) ListByOffer(ctx context.Context, offerID uuid.UUID) ([]models.Proposal, error) {
	args := m.Called(ctx, offerID)
	return args.Get(0).([]models.Proposal), args.Error(1)
}

func (m *mockProposalStore) ListByArtist(ctx context.Context, artistID uuid.UUID) ([]models.Proposal, error) {
	args := m.Called(ctx, artistID)
	return args.Get(0).([]models.Proposal), args.Error(1)
}

func (m *mockProposalStore) UpdateFields(ctx context.Context, id uuid.UUID, message string, price float64, duration int) (*models.Proposal, error) {
	args := m.Called(ctx, id, message, price, duration)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Proposal), args.Error(1)
}

func (m *mockProposalStore) TransitionStatus(ctx context.Context, id uuid.UUID, from, to string) (*models.Proposal, error) {
	args := m.Called(ctx, id, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Proposal), args.Error(1)
}

func (m *mockProposalStore) HasAcceptedForOffer(ctx context.Context, offerID uuid.UUID) (bool, error) {
	args := m.Called(ctx, offerID)
	return args.Bool(0), args.Error(1)
}

func (m *mockProposalStore) CountByStatusForArtist(ctx context.Context, artistID uuid.UUID) (map[string]int, error) {
	args := m.Called(ctx, artistID)
	return args.Get(0).(map[string]int), args.Error(1)
}

type mockOfferStore struct {
	mock.Mock
}

func (m *mockOfferStore) Create(ctx context.Context, offer *models.Offer) error {
	args := m.Called(ctx, offer)
	if args.Error(0) == nil {
		offer.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockOfferStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Offer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Offer), args.Error(1)
}

func (m *mockOfferStore) Update(ctx context.Context, offer *models.Offer) error {
	args := m.Called(ctx, offer)
	return args.Error(0)
}

func (m *mockOfferStore) TransitionStatus(ctx context.Context, id uuid.UUID, from, to string) (*models.Offer, error) {
	args := m.Called(ctx, id, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Offer), args.Error(1)
}

func (m *mockOfferStore) List(ctx context.Context, params repository.ListFilterParams) (*repository.ListResult, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.ListResult), args.Error(1)
}

func (m *mockOfferStore) ListByClient(ctx context.Context, clientID uuid.UUID) ([]models.Offer, error) {
	args := m.Called(ctx, clientID)
	return args.Get(0).([]models.Offer), args.Error(1)
}

func (m *mockOfferStore) CountByStatusForClient(ctx context.Context, clientID uuid.UUID) (map[string]int, error) {
	args := m.Called(ctx, clientID)
	return args.Get(0).(map[string]int), args.Error(1)
}

type mockContactSource struct {
	mock.Mock
}

func (m *mockContactSource) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockContactSource) GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

type mockQuotaChecker struct {
	mock.Mock
}

func (m *mockQuotaChecker) CheckProposalQuota(ctx context.Context, artistID uuid.UUID) error {
	args := m.Called(ctx, artistID)
	return args.Error(0)
}

func newProposalServiceForTest(proposals *mockProposalStore, offers *mockOfferStore, users *mockContactSource, quota *mockQuotaChecker, singleAcceptance bool) *ProposalService {
	offerService := NewOfferService(offers, cache.New(nil, 0))
	return NewProposalService(proposals, offerService, users, quota, singleAcceptance)
}

func TestProposalService_CreateProposal_Success(t *testing.T) {
	proposals := new(mockProposalStore)
	offers := new(mockOfferStore)
	users := new(mockContactSource)
	quota := new(mockQuotaChecker)
	svc := newProposalServiceForTest(proposals, offers, users, quota, true)
	ctx := context.Background()

	artistID := uuid.New()
	clientID := uuid.New()
	offerID := uuid.New()

	users.On("GetByID", ctx, artistID).Return(&models.User{ID: artistID, Role: models.RoleArtist}, nil)
	offers.On("GetByID", ctx, offerID).Return(&models.Offer{ID: offerID, ClientID: clientID, Status: models.OfferStatusOpen}, nil)
	proposals.On("GetActiveByOfferAndArtist", ctx, offerID, artistID).Return(nil, nil)
	quota.On("CheckProposalQuota", ctx, artistID).Return(nil)
	proposals.On("Create", ctx, mock.AnythingOfType("*models.Proposal")).Return(nil)

	proposal, err := svc.CreateProposal(ctx, CreateProposalInput{
		OfferID:           offerID,
		ArtistID:          artistID,
		Message:           "Tengo experiencia en este estilo y me encantaría tomarlo.",
		ProposedPrice:     150000,
		EstimatedDuration: 3,
	})

	assert.NoError(t, err)
	assert.Equal(t, models.ProposalStatusPending, proposal.Status)
	proposals.AssertExpectations(t)
	quota.AssertExpectations(t)
}

func TestProposalService_CreateProposal_OwnOffer(t *testing.T) {
	proposals := new(mockProposalStore)
	offers := new(mockOfferStore)
	users := new(mockContactSource)
	quota := new(mockQuotaChecker)
	svc := newProposalServiceForTest(proposals, offers, users, quota, true)
	ctx := context.Background()

	userID := uuid.New()
	offerID := uuid.New()

	users.On("GetByID", ctx, userID).Return(&models.User{ID: userID, Role: models.RoleArtist}, nil)
	offers.On("GetByID", ctx, offerID).Return(&models.Offer{ID: offerID, ClientID: userID, Status: models.OfferStatusOpen}, nil)

	_, err := svc.CreateProposal(ctx, CreateProposalInput{
		OfferID:           offerID,
		ArtistID:          userID,
		Message:           "Me interesa mucho esta oferta, puedo partir esta semana.",
		ProposedPrice:     100000,
		EstimatedDuration: 2,
	})

	assert.True(t, apperror.IsValidation(err))
}

func TestProposalService_CreateProposal_OfferNotOpen(t *testing.T) {
	proposals := new(mockProposalStore)
	offers := new(mockOfferStore)
	users := new(mockContactSource)
	quota := new(mockQuotaChecker)
	svc := newProposalServiceForTest(proposals, offers, users, quota, true)
	ctx := context.Background()

	artistID := uuid.New()
	offerID := uuid.New()

	users.On("GetByID", ctx, artistID).Return(&models.User{ID: artistID, Role: models.RoleArtist}, nil)
	offers.On("GetByID", ctx, offerID).Return(&models.Offer{ID: offerID, ClientID: uuid.New(), Status: models.OfferStatusCompleted}, nil)

	_, err := svc.CreateProposal(ctx, CreateProposalInput{
		OfferID:           offerID,
		ArtistID:          artistID,
		Message:           "Me interesa mucho esta oferta, puedo partir esta semana.",
		ProposedPrice:     100000,
		EstimatedDuration: 2,
	})

	assert.True(t, apperror.IsInvalidState(err))
}

func TestProposalService_CreateProposal_Duplicate(t *testing.T) {
	proposals := new(mockProposalStore)
	offers := new(mockOfferStore)
	users := new(mockContactSource)
	quota := new(mockQuotaChecker)
	svc := newProposalServiceForTest(proposals, offers, users, quota, true)
	ctx := context.Background()

	artistID := uuid.New()
	offerID := uuid.New()

	users.On("GetByID", ctx, artistID).Return(&models.User{ID: artistID, Role: models.RoleArtist}, nil)
	offers.On("GetByID", ctx, offerID).Return(&models.Offer{ID: offerID, ClientID: uuid.New(), Status: models.OfferStatusOpen}, nil)
	proposals.On("GetActiveByOfferAndArtist", ctx, offerID, artistID).Return(&models.Proposal{ID: uuid.New(), Status: models.ProposalStatusPending}, nil)

	_, err := svc.CreateProposal(ctx, CreateProposalInput{
		OfferID:           offerID,
		ArtistID:          artistID,
		Message:           "Segunda propuesta sobre la misma oferta, no debería pasar.",
		ProposedPrice:     90000,
		EstimatedDuration: 4,
	})

	assert.ErrorIs(t, err, apperror.ErrDuplicateProposal)
}

func TestProposalService_CreateProposal_DuplicateRace(t *testing.T) {
	// La lectura previa no vio nada pero el índice único gana la carrera.
	proposals := new(mockProposalStore)
	offers := new(mockOfferStore)
	users := new(mockContactSource)
	quota := new(mockQuotaChecker)
	svc := newProposalServiceForTest(proposals, offers, users, quota, true)
	ctx := context.Background()

	artistID := uuid.New()
	offerID := uuid.New()

	users.On("GetByID", ctx, artistID).Return(&models.User{ID: artistID, Role: models.RoleArtist}, nil)
	offers.On("GetByID", ctx, offerID).Return(&models.Offer{ID: offerID, ClientID: uuid.New(), Status: models.OfferStatusOpen}, nil)
	proposals.On("GetActiveByOfferAndArtist", ctx, offerID, artistID).Return(nil, nil)
	quota.On("CheckProposalQuota", ctx, artistID).Return(nil)
	proposals.On("Create", ctx, mock.AnythingOfType("*models.Proposal")).Return(repository.ErrDuplicateActiveProposal)

	_, err := svc.CreateProposal(ctx, CreateProposalInput{
		OfferID:           offerID,
		ArtistID:          artistID,
		Message:           "Propuesta concurrente que pierde contra el índice único.",
		ProposedPrice:     90000,
		EstimatedDuration: 4,
	})

	assert.ErrorIs(t, err, apperror.ErrDuplicateProposal)
}

func TestProposalService_CreateProposal_QuotaExceeded(t *testing.T) {
	proposals := new(mockProposalStore)
	offers := new(mockOfferStore)
	users := new(mockContactSource)
	quota := new(mockQuotaChecker)
	svc := newProposalServiceForTest(proposals, offers, users, quota, true)
	ctx := context.Background()

	artistID := uuid.New()
	offerID := uuid.New()

	users.On("GetByID", ctx, artistID).Return(&models.User{ID: artistID, Role: models.RoleArtist}, nil)
	offers.On("GetByID", ctx, offerID).Return(&models.Offer{ID: offerID, ClientID: uuid.New(), Status: models.OfferStatusOpen}, nil)
	proposals.On("GetActiveByOfferAndArtist", ctx, offerID, artistID).Return(nil, nil)
	quota.On("CheckProposalQuota", ctx, artistID).Return(apperror.ErrQuotaExceeded)

	_, err := svc.CreateProposal(ctx, CreateProposalInput{
		OfferID:           offerID,
		ArtistID:          artistID,
		Message:           "Propuesta que supera el límite del plan gratuito del tatuador.",
		ProposedPrice:     90000,
		EstimatedDuration: 4,
	})

	assert.ErrorIs(t, err, apperror.ErrQuotaExceeded)
	proposals.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProposalService_CreateProposal_ClientRole(t *testing.T) {
	proposals := new(mockProposalStore)
	offers := new(mockOfferStore)
	users := new(mockContactSource)
	quota := new(mockQuotaChecker)
	svc := newProposalServiceForTest(proposals, offers, users, quota, true)
	ctx := context.Background()

	clientID := uuid.New()
	users.On("GetByID", ctx, clientID).Return(&models.User{ID: clientID, Role: models.RoleClient}, nil)

	_, err := svc.CreateProposal(ctx, CreateProposalInput{
		OfferID:           uuid.New(),
		ArtistID:          clientID,
		Message:           "Un cliente intentando postular como si fuera tatuador.",
		ProposedPrice:     90000,
		EstimatedDuration: 4,
	})

	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestProposalService_ListForOffer_CountsFromFullSet(t *testing.T) {
	proposals := new(mockProposalStore)
	offers := new(mockOfferStore)
	users := new(mockContactSource)
	quota := new(mockQuotaChecker)
	svc := newProposalServiceForTest(proposals, offers, users, quota, true)
	ctx := context.Background()

	clientID := uuid.New()
	offerID := uuid.New()

	all := []models.Proposal{
		{ID: uuid.New(), OfferID: offerID, Status: models.ProposalStatusPending},
		{ID: uuid.New(), OfferID: offerID, Status: models.ProposalStatusPending},
		{ID: uuid.New(), OfferID: offerID, Status: models.ProposalStatusRejected},
		{ID: uuid.New(), OfferID: offerID, Status: models.ProposalStatusWithdrawn},
	}

	offers.On("GetByID", ctx, offerID).Return(&models.Offer{ID: offerID, ClientID: clientID, Status: models.OfferStatusOpen}, nil)
	proposals.On("ListByOffer", ctx, offerID).Return(all, nil)

	// Con filtro por pending el listado se reduce pero los contadores
	// siguen describiendo el conjunto completo.
	result, err := svc.ListProposalsForOffer(ctx, offerID, clientID, models.ProposalStatusPending)
	assert.NoError(t, err)
	assert.Len(t, result.Proposals, 2)
	assert.Equal(t, 4, result.Counts.Total)
	assert.Equal(t, 2, result.Counts.Pending)
	assert.Equal(t, 1, result.Counts.Rejected)
	assert.Equal(t, 1, result.Counts.Withdrawn)
}

func TestProposalService_ListForOffer_WithdrawnHiddenFromClient(t *testing.T) {
	proposals := new(mockProposalStore)
	offers := new(mockOfferStore)
	users := new(mockContactSource)
	quota := new(mockQuotaChecker)
	svc := newProposalServiceForTest(proposals, offers, users, quota, true)
	ctx := context.Background()

	clientID := uuid.New()
	offerID := uuid.New()

	all := []models.Proposal{
		{ID: uuid.New(), OfferID: offerID, Status: models.ProposalStatusPending},
		{ID: uuid.New(), OfferID: offerID, Status: models.ProposalStatusWithdrawn},
	}

	offers.On("GetByID", ctx, offerID).Return(&models.Offer{ID: offerID, ClientID: clientID, Status: models.OfferStatusOpen}, nil)
	proposals.On("ListByOffer", ctx, offerID).Return(all, nil)

	result, err := svc.ListProposalsForOffer(ctx, offerID, clientID, "")
	assert.NoError(t, err)
	assert.Len(t, result.Proposals, 1, "la retirada no aparece en la vista del cliente")
	assert.Equal(t, 1, result.Counts.Withdrawn, "pero sí cuenta en los contadores")
}

func TestProposalService_ListForOffer_Forbidden(t *testing.T) {
	proposals := new(mockProposalStore)
	offers := new(mockOfferStore)
	users := new(mockContactSource)
	quota := new(mockQuotaChecker)
	svc := newProposalServiceForTest(proposals, offers, users, quota, true)
	ctx := context.Background()

	offerID := uuid.New()
	offers.On("GetByID", ctx, offerID).Return(&models.Offer{ID: offerID, ClientID: uuid.New(), Status: models.OfferStatusOpen}, nil)

	_, err := svc.ListProposalsForOffer(ctx, offerID, uuid.New(), "")
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestProposalService_GetProposal_WithdrawnHiddenFromClient(t *testing.T) {
	proposals := new(mockProposalStore)
	offers := new(mockOfferStore)
	users := new(mockContactSource)
	quota := new(mockQuotaChecker)
	svc := newProposalServiceForTest(proposals, offers, users, quota, true)
	ctx := context.Background()

	clientID := uuid.New()
	artistID := uuid.New()
	offerID := uuid.New()
	proposalID := uuid.New()

	withdrawn := &models.Proposal{ID: proposalID, OfferID: offerID, ArtistID: artistID, Status: models.ProposalStatusWithdrawn}
	proposals.On("GetByID", ctx, proposalID).Return(withdrawn, nil)
	offers.On("GetByID", ctx, offerID).Return(&models.Offer{ID: offerID, ClientID: clientID, Status: models.OfferStatusOpen}, nil)

	_, err := svc.GetProposal(ctx, proposalID, clientID)
	assert.ErrorIs(t, err, apperror.ErrProposalNotFound)

	// El autor sí la ve como registro histórico.
	view, err := svc.GetProposal(ctx, proposalID, artistID)
	assert.NoError(t, err)
	assert.True(t, view.Disclosure.Visible)
	assert.False(t, view.Disclosure.ShowContact)
}

func TestProposalService_UpdateStatus_AcceptTriggersOfferProgress(t *testing.T) {
	proposals := new(mockProposalStore)
	offers := new(mockOfferStore)
	users := new(mockContactSource)
	quota := new(mockQuotaChecker)
	svc := newProposalServiceForTest(proposals, offers, users, quota, true)
	ctx := context.Background()

	clientID := uuid.New()
	offerID := uuid.New()
	proposalID := uuid.New()
	artistID := uuid.New()

	pending := &models.Proposal{ID: proposalID, OfferID: offerID, ArtistID: artistID, Status: models.ProposalStatusPending}
	accepted := &models.Proposal{ID: proposalID, OfferID: offerID, ArtistID: artistID, Status: models.ProposalStatusAccepted}

	proposals.On("GetByID", ctx, proposalID).Return(pending, nil)
	offers.On("GetByID", ctx, offerID).Return(&models.Offer{ID: offerID, ClientID: clientID, Status: models.OfferStatusOpen}, nil)
	proposals.On("HasAcceptedForOffer", ctx, offerID).Return(false, nil)
	proposals.On("TransitionStatus", ctx, proposalID, models.ProposalStatusPending, models.ProposalStatusAccepted).Return(accepted, nil)
	offers.On("TransitionStatus", ctx, offerID, models.OfferStatusOpen, models.OfferStatusInProgress).Return(&models.Offer{ID: offerID, Status: models.OfferStatusInProgress}, nil)

	updated, err := svc.UpdateStatus(ctx, proposalID, clientID, models.ProposalStatusAccepted)
	assert.NoError(t, err)
	assert.Equal(t, models.ProposalStatusAccepted, updated.Status)
	offers.AssertCalled(t, "TransitionStatus", ctx, offerID, models.OfferStatusOpen, models.OfferStatusInProgress)
}

func TestProposalService_UpdateStatus_SingleAcceptance(t *testing.T) {
	proposals := new(mockProposalStore)
	offers := new(mockOfferStore)
	users := new(mockContactSource)
	quota := new(mockQuotaChecker)
	svc := newProposalServiceForTest(proposals, offers, users, quota, true)
	ctx := context.Background()

	clientID := uuid.New()
	offerID := uuid.New()
	proposalID := uuid.New()

	pending := &models.Proposal{ID: proposalID, OfferID: offerID, ArtistID: uuid.New(), Status: models.ProposalStatusPending}
	proposals.On("GetByID", ctx, proposalID).Return(pending, nil)
	offers.On("GetByID", ctx, offerID).Return(&models.Offer{ID: offerID, ClientID: clientID, Status: models.OfferStatusInProgress}, nil)
	proposals.On("HasAcceptedForOffer", ctx, offerID).Return(true, nil)

	_, err := svc.UpdateStatus(ctx, proposalID, clientID, models.ProposalStatusAccepted)
	assert.True(t, apperror.IsInvalidState(err))
	proposals.AssertNotCalled(t, "TransitionStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestProposalService_UpdateStatus_MultiAcceptanceAllowed(t *testing.T) {
	proposals := new(mockProposalStore)
	offers := new(mockOfferStore)
	users := new(mockContactSource)
	quota := new(mockQuotaChecker)
	svc := newProposalServiceForTest(proposals, offers, users, quota, false)
	ctx := context.Background()

	clientID := uuid.New()
	offerID := uuid.New()
	proposalID := uuid.New()

	pending := &models.Proposal{ID: proposalID, OfferID: offerID, ArtistID: uuid.New(), Status: models.ProposalStatusPending}
	accepted := &models.Proposal{ID: proposalID, OfferID: offerID, Status: models.ProposalStatusAccepted}

	proposals.On("GetByID", ctx, proposalID).Return(pending, nil)
	offers.On("GetByID", ctx, offerID).Return(&models.Offer{ID: offerID, ClientID: clientID, Status: models.OfferStatusInProgress}, nil)
	proposals.On("TransitionStatus", ctx, proposalID, models.ProposalStatusPending, models.ProposalStatusAccepted).Return(accepted, nil)
	offers.On("TransitionStatus", ctx, offerID, models.OfferStatusOpen, models.OfferStatusInProgress).Return(nil, repository.ErrOfferConflict)

	_, err := svc.UpdateStatus(ctx, proposalID, clientID, models.ProposalStatusAccepted)
	assert.NoError(t, err)
	proposals.AssertNotCalled(t, "HasAcceptedForOffer", mock.Anything, mock.Anything)
}

func TestProposalService_UpdateStatus_LostRaceReportsCurrentState(t *testing.T) {
	proposals := new(mockProposalStore)
	offers := new(mockOfferStore)
	users := new(mockContactSource)
	quota := new(mockQuotaChecker)
	svc := newProposalServiceForTest(proposals, offers, users, quota, true)
	ctx := context.Background()

	clientID := uuid.New()
	offerID := uuid.New()
	proposalID := uuid.New()

	pending := &models.Proposal{ID: proposalID, OfferID: offerID, ArtistID: uuid.New(), Status: models.ProposalStatusPending}
	withdrawn := &models.Proposal{ID: proposalID, OfferID: offerID, Status: models.ProposalStatusWithdrawn}

	proposals.On("GetByID", ctx, proposalID).Return(pending, nil).Once()
	offers.On("GetByID", ctx, offerID).Return(&models.Offer{ID: offerID, ClientID: clientID, Status: models.OfferStatusOpen}, nil)
	proposals.On("TransitionStatus", ctx, proposalID, models.ProposalStatusPending, models.ProposalStatusRejected).Return(nil, repository.ErrProposalConflict)
	proposals.On("GetByID", ctx, proposalID).Return(withdrawn, nil).Once()

	_, err := svc.UpdateStatus(ctx, proposalID, clientID, models.ProposalStatusRejected)
	assert.True(t, apperror.IsInvalidState(err))
	assert.Contains(t, err.Error(), models.ProposalStatusWithdrawn)
}

func TestProposalService_Update_WithdrawnIsLocked(t *testing.T) {
	proposals := new(mockProposalStore)
	offers := new(mockOfferStore)
	users := new(mockContactSource)
	quota := new(mockQuotaChecker)
	svc := newProposalServiceForTest(proposals, offers, users, quota, true)
	ctx := context.Background()

	artistID := uuid.New()
	proposalID := uuid.New()

	withdrawn := &models.Proposal{ID: proposalID, ArtistID: artistID, Status: models.ProposalStatusWithdrawn}
	proposals.On("GetByID", ctx, proposalID).Return(withdrawn, nil)

	_, err := svc.UpdateProposal(ctx, UpdateProposalInput{
		ProposalID:        proposalID,
		ArtistID:          artistID,
		Message:           "Quiero corregir la propuesta que ya retiré.",
		ProposedPrice:     120000,
		EstimatedDuration: 2,
	})

	assert.True(t, apperror.IsInvalidState(err))
	proposals.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestProposalService_Withdraw_OnlyAuthorAndPending(t *testing.T) {
	proposals := new(mockProposalStore)
	offers := new(mockOfferStore)
	users := new(mockContactSource)
	quota := new(mockQuotaChecker)
	svc := newProposalServiceForTest(proposals, offers, users, quota, true)
	ctx := context.Background()

	artistID := uuid.New()
	proposalID := uuid.New()

	accepted := &models.Proposal{ID: proposalID, ArtistID: artistID, Status: models.ProposalStatusAccepted}
	proposals.On("GetByID", ctx, proposalID).Return(accepted, nil)

	_, err := svc.WithdrawProposal(ctx, proposalID, uuid.New())
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	_, err = svc.WithdrawProposal(ctx, proposalID, artistID)
	assert.True(t, apperror.IsInvalidState(err))
}
