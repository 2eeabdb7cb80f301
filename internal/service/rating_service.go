package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/paltattoo/paltattoo-backend/internal/models"
	"github.com/paltattoo/paltattoo-backend/internal/pkg/apperror"
	"github.com/paltattoo/paltattoo-backend/internal/repository"
	"github.com/paltattoo/paltattoo-backend/internal/validation"
)

// RatingStore describe el acceso al almacenamiento de calificaciones.
type RatingStore interface {
	Create(ctx context.Context, rating *models.Rating) error
	GetByRaterAndProposal(ctx context.Context, raterID, proposalID uuid.UUID) (*models.Rating, error)
	ListByRated(ctx context.Context, ratedID uuid.UUID) ([]models.Rating, error)
	GetAverageForUser(ctx context.Context, ratedID uuid.UUID) (float64, int, error)
}

// ProposalReader entrega propuestas para validar la elegibilidad.
type ProposalReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Proposal, error)
}

// EventRatingSubmitted evento emitido al calificar.
const EventRatingSubmitted = "rating.submitted"

// Razones de no-elegibilidad que devuelve CanRate.
const (
	reasonProposalMissing  = "la propuesta no existe"
	reasonNotAccepted      = "solo se puede calificar un trabajo con propuesta aceptada"
	reasonWrongCounterpart = "solo puedes calificar a la contraparte de esta propuesta"
	reasonNotParticipant   = "no participas en esta propuesta"
	reasonAlreadyRated     = "ya calificaste este trabajo"
)

// RatingService decide quién puede calificar a quién y registra las
// calificaciones.
type RatingService struct {
	ratings   RatingStore
	proposals ProposalReader
	offers    *OfferService
	events    EventPublisher
}

// NewRatingService crea el servicio de calificaciones.
func NewRatingService(ratings RatingStore, proposals ProposalReader, offers *OfferService) *RatingService {
	return &RatingService{
		ratings:   ratings,
		proposals: proposals,
		offers:    offers,
	}
}

// SetEvents conecta el publicador de eventos.
func (s *RatingService) SetEvents(events EventPublisher) {
	s.events = events
}

// CanRate responde si rater puede calificar a rated por la propuesta dada.
// Es una consulta: las razones vuelven como texto, nunca como error, y la
// llamada no tiene efectos secundarios.
func (s *RatingService) CanRate(ctx context.Context, raterID, ratedID, proposalID uuid.UUID) (*models.RatingEligibility, error) {
	proposal, err := s.proposals.GetByID(ctx, proposalID)
	if err != nil {
		if errors.Is(err, repository.ErrProposalNotFound) {
			return &models.RatingEligibility{Reason: reasonProposalMissing}, nil
		}
		return nil, err
	}

	if proposal.Status != models.ProposalStatusAccepted {
		return &models.RatingEligibility{Reason: reasonNotAccepted}, nil
	}

	offer, err := s.offers.GetOffer(ctx, proposal.OfferID)
	if err != nil {
		return nil, err
	}

	// El calificador debe ser participante y el calificado su contraparte.
	switch raterID {
	case offer.ClientID:
		if ratedID != proposal.ArtistID {
			return &models.RatingEligibility{Reason: reasonWrongCounterpart}, nil
		}
	case proposal.ArtistID:
		if ratedID != offer.ClientID {
			return &models.RatingEligibility{Reason: reasonWrongCounterpart}, nil
		}
	default:
		return &models.RatingEligibility{Reason: reasonNotParticipant}, nil
	}

	existing, err := s.ratings.GetByRaterAndProposal(ctx, raterID, proposalID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &models.RatingEligibility{Reason: reasonAlreadyRated}, nil
	}

	return &models.RatingEligibility{CanRate: true}, nil
}

// SubmitRatingInput datos de una calificación nueva.
type SubmitRatingInput struct {
	RaterID    uuid.UUID
	RatedID    uuid.UUID
	ProposalID uuid.UUID
	Rating     int
	Comment    *string
}

// SubmitRating registra la calificación. La elegibilidad se revalida aquí
// y la unicidad (rater, propuesta) la cierra la restricción de la base:
// de dos envíos concurrentes sobrevive exactamente uno.
func (s *RatingService) SubmitRating(ctx context.Context, in SubmitRatingInput) (*models.Rating, error) {
	if err := validation.ValidateRating(in.Rating); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateRatingComment(in.Comment); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	eligibility, err := s.CanRate(ctx, in.RaterID, in.RatedID, in.ProposalID)
	if err != nil {
		return nil, err
	}
	if !eligibility.CanRate {
		if eligibility.Reason == reasonAlreadyRated {
			return nil, apperror.ErrDuplicateRating
		}
		return nil, apperror.New(apperror.ErrCodeForbidden, eligibility.Reason)
	}

	proposal, err := s.proposals.GetByID(ctx, in.ProposalID)
	if err != nil {
		return nil, err
	}

	ratedType := models.RatedTypeArtist
	if in.RatedID != proposal.ArtistID {
		ratedType = models.RatedTypeClient
	}

	rating := &models.Rating{
		RaterID:    in.RaterID,
		RatedID:    in.RatedID,
		RatedType:  ratedType,
		OfferID:    proposal.OfferID,
		ProposalID: in.ProposalID,
		Rating:     in.Rating,
		Comment:    in.Comment,
	}

	if err := s.ratings.Create(ctx, rating); err != nil {
		if errors.Is(err, repository.ErrDuplicateRating) {
			return nil, apperror.ErrDuplicateRating
		}
		return nil, err
	}

	if s.events != nil {
		s.events.Publish(in.RatedID, EventRatingSubmitted, map[string]interface{}{
			"rating_id":   rating.ID,
			"proposal_id": rating.ProposalID,
			"rating":      rating.Rating,
		})
	}

	return rating, nil
}

// ListUserRatings devuelve las calificaciones recibidas por el usuario.
func (s *RatingService) ListUserRatings(ctx context.Context, ratedID uuid.UUID) ([]models.Rating, error) {
	return s.ratings.ListByRated(ctx, ratedID)
}

// GetUserRating devuelve el promedio y el total de calificaciones.
func (s *RatingService) GetUserRating(ctx context.Context, ratedID uuid.UUID) (float64, int, error) {
	return s.ratings.GetAverageForUser(ctx, ratedID)
}
