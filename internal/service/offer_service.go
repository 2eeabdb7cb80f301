package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/paltattoo/paltattoo-backend/internal/cache"
	"github.com/paltattoo/paltattoo-backend/internal/models"
	"github.com/paltattoo/paltattoo-backend/internal/pkg/apperror"
	"github.com/paltattoo/paltattoo-backend/internal/repository"
	"github.com/paltattoo/paltattoo-backend/internal/validation"
)

// OfferStore describe el acceso del servicio al almacenamiento de ofertas.
type OfferStore interface {
	Create(ctx context.Context, offer *models.Offer) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Offer, error)
	Update(ctx context.Context, offer *models.Offer) error
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to string) (*models.Offer, error)
	List(ctx context.Context, params repository.ListFilterParams) (*repository.ListResult, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]models.Offer, error)
	CountByStatusForClient(ctx context.Context, clientID uuid.UUID) (map[string]int, error)
}

// OfferService contiene la lógica de negocio de las ofertas de tatuaje.
type OfferService struct {
	repo  OfferStore
	cache *cache.Cache
}

// NewOfferService crea el servicio de ofertas.
func NewOfferService(repo OfferStore, c *cache.Cache) *OfferService {
	return &OfferService{repo: repo, cache: c}
}

// CreateOfferInput datos de entrada para publicar una oferta.
type CreateOfferInput struct {
	ClientID    uuid.UUID
	Title       string
	Description string
	BudgetMin   *float64
	BudgetMax   *float64
	BodyPart    string
	Style       string
	DeadlineAt  *time.Time
}

// UpdateOfferInput datos de entrada para editar una oferta.
type UpdateOfferInput struct {
	OfferID     uuid.UUID
	ClientID    uuid.UUID
	Title       string
	Description string
	BudgetMin   *float64
	BudgetMax   *float64
	BodyPart    string
	Style       string
	DeadlineAt  *time.Time
}

func offerCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("offer:%s", id)
}

// CreateOffer publica una oferta nueva en estado open.
func (s *OfferService) CreateOffer(ctx context.Context, in CreateOfferInput) (*models.Offer, error) {
	if err := s.validateOfferFields(in.Title, in.Description, in.BodyPart, in.Style, in.BudgetMin, in.BudgetMax, in.DeadlineAt); err != nil {
		return nil, err
	}

	offer := &models.Offer{
		ClientID:    in.ClientID,
		Title:       in.Title,
		Description: in.Description,
		BudgetMin:   in.BudgetMin,
		BudgetMax:   in.BudgetMax,
		BodyPart:    in.BodyPart,
		Style:       in.Style,
		Status:      models.OfferStatusOpen,
		DeadlineAt:  in.DeadlineAt,
	}

	if err := s.repo.Create(ctx, offer); err != nil {
		return nil, err
	}

	return offer, nil
}

// GetOffer devuelve la oferta, pasando por la caché de lectura.
func (s *OfferService) GetOffer(ctx context.Context, id uuid.UUID) (*models.Offer, error) {
	if s.cache.Enabled() {
		var cached models.Offer
		if s.cache.Get(ctx, offerCacheKey(id), &cached) {
			return &cached, nil
		}
	}

	offer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapOfferError(err)
	}

	if s.cache.Enabled() {
		s.cache.Set(ctx, offerCacheKey(id), offer)
	}

	return offer, nil
}

// ListOffers lista ofertas con filtros y paginación.
func (s *OfferService) ListOffers(ctx context.Context, params repository.ListFilterParams) (*repository.ListResult, error) {
	if params.Limit <= 0 || params.Limit > 100 {
		params.Limit = 20
	}
	if params.Offset < 0 {
		params.Offset = 0
	}

	return s.repo.List(ctx, params)
}

// ListMyOffers devuelve las ofertas del cliente junto a los contadores por
// estado. Los contadores salen del conjunto completo, no del listado filtrado.
func (s *OfferService) ListMyOffers(ctx context.Context, clientID uuid.UUID) ([]models.Offer, map[string]int, error) {
	offers, err := s.repo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, nil, err
	}

	counts, err := s.repo.CountByStatusForClient(ctx, clientID)
	if err != nil {
		return nil, nil, err
	}

	return offers, counts, nil
}

// UpdateOffer edita una oferta. Solo el dueño, y nunca en estado terminal.
func (s *OfferService) UpdateOffer(ctx context.Context, in UpdateOfferInput) (*models.Offer, error) {
	existing, err := s.repo.GetByID(ctx, in.OfferID)
	if err != nil {
		return nil, s.mapOfferError(err)
	}

	if existing.ClientID != in.ClientID {
		return nil, apperror.ErrForbidden
	}

	if models.IsTerminalOfferStatus(existing.Status) {
		return nil, apperror.Newf(apperror.ErrCodeInvalidState, "la oferta está %s y ya no admite cambios", existing.Status)
	}

	if err := s.validateOfferFields(in.Title, in.Description, in.BodyPart, in.Style, in.BudgetMin, in.BudgetMax, in.DeadlineAt); err != nil {
		return nil, err
	}

	existing.Title = in.Title
	existing.Description = in.Description
	existing.BudgetMin = in.BudgetMin
	existing.BudgetMax = in.BudgetMax
	existing.BodyPart = in.BodyPart
	existing.Style = in.Style
	existing.DeadlineAt = in.DeadlineAt

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}

	s.invalidate(ctx, in.OfferID)

	return existing, nil
}

// CloseOffer lleva la oferta a completed o cancelled. Solo el dueño.
func (s *OfferService) CloseOffer(ctx context.Context, offerID, clientID uuid.UUID, target string) (*models.Offer, error) {
	if target != models.OfferStatusCompleted && target != models.OfferStatusCancelled {
		return nil, apperror.New(apperror.ErrCodeValidation, "estado de cierre inválido")
	}

	existing, err := s.repo.GetByID(ctx, offerID)
	if err != nil {
		return nil, s.mapOfferError(err)
	}

	if existing.ClientID != clientID {
		return nil, apperror.ErrForbidden
	}

	if !models.CanTransition(models.OfferTransitions, existing.Status, target) {
		return nil, apperror.Newf(apperror.ErrCodeInvalidState, "no se puede pasar la oferta de %s a %s", existing.Status, target)
	}

	offer, err := s.repo.TransitionStatus(ctx, offerID, existing.Status, target)
	if err != nil {
		// Otra petición movió la oferta entre la lectura y el update.
		return nil, apperror.Newf(apperror.ErrCodeInvalidState, "la oferta cambió de estado, intenta de nuevo")
	}

	s.invalidate(ctx, offerID)

	return offer, nil
}

// markInProgress avanza open -> in_progress al aceptarse una propuesta.
// Si otra aceptación ya la movió, no es un error.
func (s *OfferService) markInProgress(ctx context.Context, offerID uuid.UUID) {
	if _, err := s.repo.TransitionStatus(ctx, offerID, models.OfferStatusOpen, models.OfferStatusInProgress); err == nil {
		s.invalidate(ctx, offerID)
	}
}

func (s *OfferService) invalidate(ctx context.Context, offerID uuid.UUID) {
	if s.cache.Enabled() {
		s.cache.Invalidate(ctx, offerCacheKey(offerID))
	}
}

func (s *OfferService) validateOfferFields(title, description, bodyPart, style string, budgetMin, budgetMax *float64, deadlineAt *time.Time) error {
	if err := validation.ValidateOfferTitle(title); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateOfferDescription(description); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateNonEmpty("zona del cuerpo", bodyPart); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateNonEmpty("estilo", style); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateBudgetRange(budgetMin, budgetMax); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if deadlineAt != nil && deadlineAt.Before(time.Now()) {
		return apperror.New(apperror.ErrCodeValidation, "la fecha límite no puede estar en el pasado")
	}
	return nil
}

func (s *OfferService) mapOfferError(err error) error {
	if errors.Is(err, repository.ErrOfferNotFound) {
		return apperror.ErrOfferNotFound
	}
	return err
}
