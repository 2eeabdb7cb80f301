package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/paltattoo/paltattoo-backend/internal/models"
	"github.com/paltattoo/paltattoo-backend/internal/pkg/apperror"
	"github.com/paltattoo/paltattoo-backend/internal/repository"
	"github.com/paltattoo/paltattoo-backend/internal/validation"
)

// AppointmentStore describe el acceso al almacenamiento de citas.
type AppointmentStore interface {
	Create(ctx context.Context, appointment *models.Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Appointment, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Appointment, error)
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to string) (*models.Appointment, error)
	HasOverlapForArtist(ctx context.Context, artistID uuid.UUID, startsAt, endsAt time.Time) (bool, error)
}

// EventAppointmentScheduled evento emitido al agendar una cita.
const EventAppointmentScheduled = "appointment.scheduled"

// AppointmentService gestiona las citas entre tatuador y cliente.
type AppointmentService struct {
	appointments AppointmentStore
	proposals    ProposalReader
	offers       *OfferService
	events       EventPublisher
	// cancelWindow es la anticipación mínima para cancelar sin romper la
	// regla de cortesía.
	cancelWindow time.Duration
}

// NewAppointmentService crea el servicio de citas.
func NewAppointmentService(appointments AppointmentStore, proposals ProposalReader, offers *OfferService, cancelWindow time.Duration) *AppointmentService {
	if cancelWindow <= 0 {
		cancelWindow = 24 * time.Hour
	}
	return &AppointmentService{
		appointments: appointments,
		proposals:    proposals,
		offers:       offers,
		cancelWindow: cancelWindow,
	}
}

// SetEvents conecta el publicador de eventos.
func (s *AppointmentService) SetEvents(events EventPublisher) {
	s.events = events
}

// ScheduleInput datos de una cita nueva. ProposalID es opcional: una cita
// puede nacer de una propuesta aceptada o agendarse de forma independiente.
type ScheduleInput struct {
	ArtistID   uuid.UUID
	ClientID   uuid.UUID
	ProposalID *uuid.UUID
	Title      string
	Notes      *string
	StartsAt   time.Time
	EndsAt     time.Time
}

// Schedule agenda una cita. La crea el tatuador; si viene de una propuesta,
// esta debe estar aceptada y los participantes deben coincidir.
func (s *AppointmentService) Schedule(ctx context.Context, in ScheduleInput) (*models.Appointment, error) {
	if err := validation.ValidateNonEmpty("título", in.Title); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if !in.StartsAt.Before(in.EndsAt) {
		return nil, apperror.New(apperror.ErrCodeValidation, "el inicio debe ser anterior al término")
	}
	if in.StartsAt.Before(time.Now()) {
		return nil, apperror.New(apperror.ErrCodeValidation, "la cita no puede agendarse en el pasado")
	}

	clientID := in.ClientID

	if in.ProposalID != nil {
		proposal, err := s.proposals.GetByID(ctx, *in.ProposalID)
		if err != nil {
			if errors.Is(err, repository.ErrProposalNotFound) {
				return nil, apperror.ErrProposalNotFound
			}
			return nil, err
		}

		if proposal.Status != models.ProposalStatusAccepted {
			return nil, apperror.Newf(apperror.ErrCodeInvalidState, "la propuesta está %s, solo una aceptada genera cita", proposal.Status)
		}

		if proposal.ArtistID != in.ArtistID {
			return nil, apperror.ErrForbidden
		}

		offer, err := s.offers.GetOffer(ctx, proposal.OfferID)
		if err != nil {
			return nil, err
		}
		clientID = offer.ClientID
	}

	if clientID == uuid.Nil {
		return nil, apperror.New(apperror.ErrCodeValidation, "falta el cliente de la cita")
	}

	overlap, err := s.appointments.HasOverlapForArtist(ctx, in.ArtistID, in.StartsAt, in.EndsAt)
	if err != nil {
		return nil, err
	}
	if overlap {
		return nil, apperror.New(apperror.ErrCodeInvalidState, "ya tienes una cita agendada en ese horario")
	}

	appointment := &models.Appointment{
		ProposalID: in.ProposalID,
		ArtistID:   in.ArtistID,
		ClientID:   clientID,
		Title:      in.Title,
		Notes:      in.Notes,
		StartsAt:   in.StartsAt,
		EndsAt:     in.EndsAt,
		Status:     models.AppointmentStatusPending,
	}

	if err := s.appointments.Create(ctx, appointment); err != nil {
		return nil, err
	}

	if s.events != nil {
		s.events.Publish(clientID, EventAppointmentScheduled, map[string]interface{}{
			"appointment_id": appointment.ID,
			"starts_at":      appointment.StartsAt,
		})
	}

	return appointment, nil
}

// Confirm confirma la cita. Solo el cliente.
func (s *AppointmentService) Confirm(ctx context.Context, appointmentID, actorID uuid.UUID) (*models.Appointment, error) {
	appointment, err := s.get(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	if appointment.ClientID != actorID {
		return nil, apperror.ErrForbidden
	}

	return s.transition(ctx, appointment, models.AppointmentStatusPending, models.AppointmentStatusConfirmed)
}

// Complete marca la cita como realizada. Solo el tatuador.
func (s *AppointmentService) Complete(ctx context.Context, appointmentID, actorID uuid.UUID) (*models.Appointment, error) {
	appointment, err := s.get(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	if appointment.ArtistID != actorID {
		return nil, apperror.ErrForbidden
	}

	return s.transition(ctx, appointment, models.AppointmentStatusConfirmed, models.AppointmentStatusCompleted)
}

// Cancel cancela la cita. Cualquiera de los dos participantes, siempre que
// falte más que la ventana de cancelación para el inicio.
func (s *AppointmentService) Cancel(ctx context.Context, appointmentID, actorID uuid.UUID) (*models.Appointment, error) {
	appointment, err := s.get(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	if appointment.ClientID != actorID && appointment.ArtistID != actorID {
		return nil, apperror.ErrForbidden
	}

	if appointment.Status != models.AppointmentStatusPending && appointment.Status != models.AppointmentStatusConfirmed {
		return nil, apperror.Newf(apperror.ErrCodeInvalidState, "la cita está %s y no se puede cancelar", appointment.Status)
	}

	if time.Until(appointment.StartsAt) < s.cancelWindow {
		return nil, apperror.Newf(apperror.ErrCodeInvalidState, "la cita solo se puede cancelar con al menos %s de anticipación", s.cancelWindow)
	}

	return s.transition(ctx, appointment, appointment.Status, models.AppointmentStatusCancelled)
}

// ListMyAppointments devuelve las citas del usuario, como cliente o tatuador.
func (s *AppointmentService) ListMyAppointments(ctx context.Context, userID uuid.UUID) ([]models.Appointment, error) {
	return s.appointments.ListByUser(ctx, userID)
}

func (s *AppointmentService) get(ctx context.Context, id uuid.UUID) (*models.Appointment, error) {
	appointment, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrAppointmentNotFound) {
			return nil, apperror.ErrAppointmentNotFound
		}
		return nil, err
	}
	return appointment, nil
}

func (s *AppointmentService) transition(ctx context.Context, appointment *models.Appointment, from, to string) (*models.Appointment, error) {
	if appointment.Status != from {
		return nil, apperror.Newf(apperror.ErrCodeInvalidState, "la cita está %s y no puede pasar a %s", appointment.Status, to)
	}

	updated, err := s.appointments.TransitionStatus(ctx, appointment.ID, from, to)
	if err != nil {
		if errors.Is(err, repository.ErrAppointmentConflict) {
			current, readErr := s.appointments.GetByID(ctx, appointment.ID)
			if readErr != nil {
				return nil, readErr
			}
			return nil, apperror.Newf(apperror.ErrCodeInvalidState, "la cita ya está %s", current.Status)
		}
		return nil, err
	}

	return updated, nil
}
