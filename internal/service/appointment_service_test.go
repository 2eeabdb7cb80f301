package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/paltattoo/paltattoo-backend/internal/cache"
	"github.com/paltattoo/paltattoo-backend/internal/models"
	"github.com/paltattoo/paltattoo-backend/internal/pkg/apperror"
)

type mockAppointmentStore struct {
	mock.Mock
}

func (m *mockAppointmentStore) Create(ctx context.Context, appointment *models.Appointment) error {
	args := m.Called(ctx, appointment)
	if args.Error(0) == nil {
		appointment.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockAppointmentStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Appointment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Appointment), args.Error(1)
}

func (m *mockAppointmentStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Appointment, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.Appointment), args.Error(1)
}

func (m *mockAppointmentStore) TransitionStatus(ctx context.Context, id uuid.UUID, from, to string) (*models.Appointment, error) {
	args := m.Called(ctx, id, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Appointment), args.Error(1)
}

func (m *mockAppointmentStore) HasOverlapForArtist(ctx context.Context, artistID uuid.UUID, startsAt, endsAt time.Time) (bool, error) {
	args := m.Called(ctx, artistID, startsAt, endsAt)
	return args.Bool(0), args.Error(1)
}

type appointmentFixture struct {
	appointments *mockAppointmentStore
	proposals    *mockProposalReader
	offers       *mockOfferStore
	svc          *AppointmentService

	artistID uuid.UUID
	clientID uuid.UUID
}

func newAppointmentFixture(cancelWindow time.Duration) *appointmentFixture {
	f := &appointmentFixture{
		appointments: new(mockAppointmentStore),
		proposals:    new(mockProposalReader),
		offers:       new(mockOfferStore),
		artistID:     uuid.New(),
		clientID:     uuid.New(),
	}
	f.svc = NewAppointmentService(f.appointments, f.proposals, NewOfferService(f.offers, cache.New(nil, 0)), cancelWindow)
	return f
}

func TestAppointmentService_Schedule_Success(t *testing.T) {
	ctx := context.Background()
	f := newAppointmentFixture(24 * time.Hour)

	startsAt := time.Now().Add(48 * time.Hour)
	endsAt := startsAt.Add(2 * time.Hour)

	f.appointments.On("HasOverlapForArtist", ctx, f.artistID, startsAt, endsAt).Return(false, nil)
	f.appointments.On("Create", ctx, mock.AnythingOfType("*models.Appointment")).Return(nil)

	appointment, err := f.svc.Schedule(ctx, ScheduleInput{
		ArtistID: f.artistID,
		ClientID: f.clientID,
		Title:    "Sesión de línea fina",
		StartsAt: startsAt,
		EndsAt:   endsAt,
	})

	assert.NoError(t, err)
	assert.Equal(t, models.AppointmentStatusPending, appointment.Status)
	assert.Equal(t, f.clientID, appointment.ClientID)
}

func TestAppointmentService_Schedule_FromAcceptedProposal(t *testing.T) {
	ctx := context.Background()
	f := newAppointmentFixture(24 * time.Hour)

	proposalID := uuid.New()
	offerID := uuid.New()
	startsAt := time.Now().Add(48 * time.Hour)
	endsAt := startsAt.Add(3 * time.Hour)

	f.proposals.On("GetByID", ctx, proposalID).Return(&models.Proposal{
		ID:       proposalID,
		OfferID:  offerID,
		ArtistID: f.artistID,
		Status:   models.ProposalStatusAccepted,
	}, nil)
	f.offers.On("GetByID", ctx, offerID).Return(&models.Offer{
		ID:       offerID,
		ClientID: f.clientID,
		Status:   models.OfferStatusInProgress,
	}, nil)
	f.appointments.On("HasOverlapForArtist", ctx, f.artistID, startsAt, endsAt).Return(false, nil)
	f.appointments.On("Create", ctx, mock.AnythingOfType("*models.Appointment")).Return(nil)

	appointment, err := f.svc.Schedule(ctx, ScheduleInput{
		ArtistID:   f.artistID,
		ProposalID: &proposalID,
		Title:      "Primera sesión del brazo completo",
		StartsAt:   startsAt,
		EndsAt:     endsAt,
	})

	assert.NoError(t, err)
	// El cliente sale de la oferta, no del input.
	assert.Equal(t, f.clientID, appointment.ClientID)
}

func TestAppointmentService_Schedule_ProposalNotAccepted(t *testing.T) {
	ctx := context.Background()
	f := newAppointmentFixture(24 * time.Hour)

	proposalID := uuid.New()
	startsAt := time.Now().Add(48 * time.Hour)

	f.proposals.On("GetByID", ctx, proposalID).Return(&models.Proposal{
		ID:       proposalID,
		ArtistID: f.artistID,
		Status:   models.ProposalStatusPending,
	}, nil)

	_, err := f.svc.Schedule(ctx, ScheduleInput{
		ArtistID:   f.artistID,
		ProposalID: &proposalID,
		Title:      "Sesión adelantada",
		StartsAt:   startsAt,
		EndsAt:     startsAt.Add(time.Hour),
	})

	assert.True(t, apperror.IsInvalidState(err))
}

func TestAppointmentService_Schedule_ProposalOfAnotherArtist(t *testing.T) {
	ctx := context.Background()
	f := newAppointmentFixture(24 * time.Hour)

	proposalID := uuid.New()
	startsAt := time.Now().Add(48 * time.Hour)

	f.proposals.On("GetByID", ctx, proposalID).Return(&models.Proposal{
		ID:       proposalID,
		ArtistID: uuid.New(),
		Status:   models.ProposalStatusAccepted,
	}, nil)

	_, err := f.svc.Schedule(ctx, ScheduleInput{
		ArtistID:   f.artistID,
		ProposalID: &proposalID,
		Title:      "Sesión ajena",
		StartsAt:   startsAt,
		EndsAt:     startsAt.Add(time.Hour),
	})

	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestAppointmentService_Schedule_InvalidTimes(t *testing.T) {
	ctx := context.Background()
	f := newAppointmentFixture(24 * time.Hour)

	future := time.Now().Add(48 * time.Hour)

	_, err := f.svc.Schedule(ctx, ScheduleInput{
		ArtistID: f.artistID,
		ClientID: f.clientID,
		Title:    "Horario invertido",
		StartsAt: future,
		EndsAt:   future.Add(-time.Hour),
	})
	assert.True(t, apperror.IsValidation(err))

	past := time.Now().Add(-time.Hour)
	_, err = f.svc.Schedule(ctx, ScheduleInput{
		ArtistID: f.artistID,
		ClientID: f.clientID,
		Title:    "Cita en el pasado",
		StartsAt: past,
		EndsAt:   past.Add(time.Hour),
	})
	assert.True(t, apperror.IsValidation(err))
}

func TestAppointmentService_Schedule_Overlap(t *testing.T) {
	ctx := context.Background()
	f := newAppointmentFixture(24 * time.Hour)

	startsAt := time.Now().Add(48 * time.Hour)
	endsAt := startsAt.Add(time.Hour)
	f.appointments.On("HasOverlapForArtist", ctx, f.artistID, startsAt, endsAt).Return(true, nil)

	_, err := f.svc.Schedule(ctx, ScheduleInput{
		ArtistID: f.artistID,
		ClientID: f.clientID,
		Title:    "Sesión solapada",
		StartsAt: startsAt,
		EndsAt:   endsAt,
	})

	assert.True(t, apperror.IsInvalidState(err))
	f.appointments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAppointmentService_Confirm_OnlyClient(t *testing.T) {
	ctx := context.Background()
	f := newAppointmentFixture(24 * time.Hour)

	appointmentID := uuid.New()
	pending := &models.Appointment{
		ID:       appointmentID,
		ArtistID: f.artistID,
		ClientID: f.clientID,
		Status:   models.AppointmentStatusPending,
	}
	confirmed := &models.Appointment{ID: appointmentID, Status: models.AppointmentStatusConfirmed}

	f.appointments.On("GetByID", ctx, appointmentID).Return(pending, nil)
	f.appointments.On("TransitionStatus", ctx, appointmentID, models.AppointmentStatusPending, models.AppointmentStatusConfirmed).Return(confirmed, nil)

	_, err := f.svc.Confirm(ctx, appointmentID, f.artistID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	updated, err := f.svc.Confirm(ctx, appointmentID, f.clientID)
	assert.NoError(t, err)
	assert.Equal(t, models.AppointmentStatusConfirmed, updated.Status)
}

func TestAppointmentService_Complete_RequiresConfirmed(t *testing.T) {
	ctx := context.Background()
	f := newAppointmentFixture(24 * time.Hour)

	appointmentID := uuid.New()
	pending := &models.Appointment{
		ID:       appointmentID,
		ArtistID: f.artistID,
		ClientID: f.clientID,
		Status:   models.AppointmentStatusPending,
	}
	f.appointments.On("GetByID", ctx, appointmentID).Return(pending, nil)

	_, err := f.svc.Complete(ctx, appointmentID, f.artistID)
	assert.True(t, apperror.IsInvalidState(err))
}

func TestAppointmentService_Cancel_WindowEnforced(t *testing.T) {
	ctx := context.Background()
	f := newAppointmentFixture(24 * time.Hour)

	appointmentID := uuid.New()
	soon := &models.Appointment{
		ID:       appointmentID,
		ArtistID: f.artistID,
		ClientID: f.clientID,
		Status:   models.AppointmentStatusConfirmed,
		StartsAt: time.Now().Add(2 * time.Hour),
	}
	f.appointments.On("GetByID", ctx, appointmentID).Return(soon, nil)

	_, err := f.svc.Cancel(ctx, appointmentID, f.clientID)
	assert.True(t, apperror.IsInvalidState(err), "dentro de la ventana ya no se cancela")
}

func TestAppointmentService_Cancel_EitherParticipant(t *testing.T) {
	ctx := context.Background()
	f := newAppointmentFixture(24 * time.Hour)

	appointmentID := uuid.New()
	appointment := &models.Appointment{
		ID:       appointmentID,
		ArtistID: f.artistID,
		ClientID: f.clientID,
		Status:   models.AppointmentStatusPending,
		StartsAt: time.Now().Add(72 * time.Hour),
	}
	cancelled := &models.Appointment{ID: appointmentID, Status: models.AppointmentStatusCancelled}

	f.appointments.On("GetByID", ctx, appointmentID).Return(appointment, nil)
	f.appointments.On("TransitionStatus", ctx, appointmentID, models.AppointmentStatusPending, models.AppointmentStatusCancelled).Return(cancelled, nil)

	_, err := f.svc.Cancel(ctx, appointmentID, uuid.New())
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	updated, err := f.svc.Cancel(ctx, appointmentID, f.artistID)
	assert.NoError(t, err)
	assert.Equal(t, models.AppointmentStatusCancelled, updated.Status)
}
