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

// ProposalStore describe el acceso del servicio al almacenamiento de
// propuestas.
type ProposalStore interface {
	Create(ctx context.Context, proposal *models.Proposal) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Proposal, error)
	GetActiveByOfferAndArtist(ctx context.Context, offerID, artistID uuid.UUID) (*models.Proposal, error)
	ListByOffer(ctx context.Context, offerID uuid.UUID) ([]models.Proposal, error)
	ListByArtist(ctx context.Context, artistID uuid.UUID) ([]models.Proposal, error)
	UpdateFields(ctx context.Context, id uuid.UUID, message string, price float64, duration int) (*models.Proposal, error)
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to string) (*models.Proposal, error)
	HasAcceptedForOffer(ctx context.Context, offerID uuid.UUID) (bool, error)
	CountByStatusForArtist(ctx context.Context, artistID uuid.UUID) (map[string]int, error)
}

// ContactSource entrega usuarios y perfiles para armar los datos de
// contacto que revela la pasarela de visibilidad.
type ContactSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
}

// QuotaChecker valida la cuota de propuestas del plan del tatuador.
type QuotaChecker interface {
	CheckProposalQuota(ctx context.Context, artistID uuid.UUID) error
}

// EventPublisher reparte eventos de dominio. Las fallas se registran y
// nunca afectan la escritura que los originó.
type EventPublisher interface {
	Publish(userID uuid.UUID, event string, data map[string]interface{})
}

// Eventos de dominio que emite el flujo de propuestas.
const (
	EventProposalCreated       = "proposal.created"
	EventProposalStatusChanged = "proposal.status_changed"
)

// ProposalService implementa el ciclo de vida de las propuestas: envío,
// edición, retiro y la decisión aceptar/rechazar del cliente.
type ProposalService struct {
	proposals ProposalStore
	offers    *OfferService
	users     ContactSource
	quota     QuotaChecker
	events    EventPublisher
	// singleAcceptance fuerza una sola propuesta aceptada por oferta.
	singleAcceptance bool
}

// NewProposalService crea el servicio de propuestas.
func NewProposalService(proposals ProposalStore, offers *OfferService, users ContactSource, quota QuotaChecker, singleAcceptance bool) *ProposalService {
	return &ProposalService{
		proposals:        proposals,
		offers:           offers,
		users:            users,
		quota:            quota,
		singleAcceptance: singleAcceptance,
	}
}

// SetEvents conecta el publicador de eventos.
func (s *ProposalService) SetEvents(events EventPublisher) {
	s.events = events
}

// CreateProposalInput datos de entrada de una propuesta nueva.
type CreateProposalInput struct {
	OfferID           uuid.UUID
	ArtistID          uuid.UUID
	Message           string
	ProposedPrice     float64
	EstimatedDuration int
}

// UpdateProposalInput datos editables mientras la propuesta sigue pending.
type UpdateProposalInput struct {
	ProposalID        uuid.UUID
	ArtistID          uuid.UUID
	Message           string
	ProposedPrice     float64
	EstimatedDuration int
}

// CreateProposal registra la propuesta de un tatuador sobre una oferta open.
func (s *ProposalService) CreateProposal(ctx context.Context, in CreateProposalInput) (*models.Proposal, error) {
	if err := validation.ValidateProposalMessage(in.Message); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateProposedPrice(in.ProposedPrice); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateEstimatedDuration(in.EstimatedDuration); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	artist, err := s.users.GetByID(ctx, in.ArtistID)
	if err != nil {
		return nil, err
	}
	if artist.Role != models.RoleArtist {
		return nil, apperror.ErrForbidden
	}

	offer, err := s.offers.GetOffer(ctx, in.OfferID)
	if err != nil {
		return nil, err
	}

	if offer.Status != models.OfferStatusOpen {
		return nil, apperror.Newf(apperror.ErrCodeInvalidState, "la oferta está %s y no recibe propuestas", offer.Status)
	}

	if offer.ClientID == in.ArtistID {
		return nil, apperror.New(apperror.ErrCodeValidation, "no puedes postular a tu propia oferta")
	}

	// Lectura previa para dar un mensaje claro; la carrera real la cierra
	// el índice único parcial al insertar.
	if existing, err := s.proposals.GetActiveByOfferAndArtist(ctx, in.OfferID, in.ArtistID); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, apperror.ErrDuplicateProposal
	}

	if err := s.quota.CheckProposalQuota(ctx, in.ArtistID); err != nil {
		return nil, err
	}

	proposal := &models.Proposal{
		OfferID:           in.OfferID,
		ArtistID:          in.ArtistID,
		Message:           in.Message,
		ProposedPrice:     in.ProposedPrice,
		EstimatedDuration: in.EstimatedDuration,
		Status:            models.ProposalStatusPending,
	}

	if err := s.proposals.Create(ctx, proposal); err != nil {
		if errors.Is(err, repository.ErrDuplicateActiveProposal) {
			return nil, apperror.ErrDuplicateProposal
		}
		return nil, err
	}

	s.publish(offer.ClientID, EventProposalCreated, map[string]interface{}{
		"proposal_id": proposal.ID,
		"offer_id":    offer.ID,
	})

	return proposal, nil
}

// ListProposalsResult listado de propuestas ya filtrado por visibilidad,
// con los contadores calculados sobre el conjunto completo.
type ListProposalsResult struct {
	Proposals []*ProposalView       `json:"proposals"`
	Counts    models.ProposalCounts `json:"counts"`
}

// ListProposalsForOffer devuelve las propuestas de una oferta para el
// observador dado. El filtro por estado es un predicado sobre el conjunto
// completo: los contadores nunca salen del subconjunto filtrado.
func (s *ProposalService) ListProposalsForOffer(ctx context.Context, offerID, viewerID uuid.UUID, statusFilter string) (*ListProposalsResult, error) {
	offer, err := s.offers.GetOffer(ctx, offerID)
	if err != nil {
		return nil, err
	}

	if offer.ClientID != viewerID {
		return nil, apperror.ErrForbidden
	}

	all, err := s.proposals.ListByOffer(ctx, offerID)
	if err != nil {
		return nil, err
	}

	result := &ListProposalsResult{
		Counts: models.CountProposals(all),
	}

	for _, proposal := range all {
		if statusFilter != "" && proposal.Status != statusFilter {
			continue
		}
		view := s.buildView(ctx, proposal, ViewerClient)
		if view == nil {
			// Las retiradas no aparecen en la vista del cliente.
			continue
		}
		result.Proposals = append(result.Proposals, view)
	}

	return result, nil
}

// ListMyProposals devuelve las propuestas del tatuador con sus contadores.
func (s *ProposalService) ListMyProposals(ctx context.Context, artistID uuid.UUID) ([]*ProposalView, map[string]int, error) {
	proposals, err := s.proposals.ListByArtist(ctx, artistID)
	if err != nil {
		return nil, nil, err
	}

	counts, err := s.proposals.CountByStatusForArtist(ctx, artistID)
	if err != nil {
		return nil, nil, err
	}

	views := make([]*ProposalView, 0, len(proposals))
	for _, proposal := range proposals {
		if view := s.buildView(ctx, proposal, ViewerArtist); view != nil {
			views = append(views, view)
		}
	}

	return views, counts, nil
}

// GetProposal devuelve la propuesta filtrada por visibilidad. Solo los
// participantes (dueño de la oferta o autor) tienen acceso.
func (s *ProposalService) GetProposal(ctx context.Context, proposalID, viewerID uuid.UUID) (*ProposalView, error) {
	proposal, err := s.proposals.GetByID(ctx, proposalID)
	if err != nil {
		return nil, s.mapProposalError(err)
	}

	offer, err := s.offers.GetOffer(ctx, proposal.OfferID)
	if err != nil {
		return nil, err
	}

	var viewer ViewerRole
	switch viewerID {
	case offer.ClientID:
		viewer = ViewerClient
	case proposal.ArtistID:
		viewer = ViewerArtist
	default:
		return nil, apperror.ErrForbidden
	}

	view := s.buildView(ctx, *proposal, viewer)
	if view == nil {
		// Retirada y mirada por el cliente: para él no existe.
		return nil, apperror.ErrProposalNotFound
	}

	return view, nil
}

// UpdateProposal edita mensaje, precio y duración mientras la propuesta
// sigue pending. Solo el autor.
func (s *ProposalService) UpdateProposal(ctx context.Context, in UpdateProposalInput) (*models.Proposal, error) {
	if err := validation.ValidateProposalMessage(in.Message); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateProposedPrice(in.ProposedPrice); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateEstimatedDuration(in.EstimatedDuration); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	proposal, err := s.proposals.GetByID(ctx, in.ProposalID)
	if err != nil {
		return nil, s.mapProposalError(err)
	}

	if proposal.ArtistID != in.ArtistID {
		return nil, apperror.ErrForbidden
	}

	if proposal.Status != models.ProposalStatusPending {
		return nil, apperror.Newf(apperror.ErrCodeInvalidState, "la propuesta está %s y ya no se puede editar", proposal.Status)
	}

	updated, err := s.proposals.UpdateFields(ctx, in.ProposalID, in.Message, in.ProposedPrice, in.EstimatedDuration)
	if err != nil {
		if errors.Is(err, repository.ErrProposalConflict) {
			// Una aceptación o retiro concurrente ganó la carrera.
			return nil, s.invalidStateFromCurrent(ctx, in.ProposalID)
		}
		return nil, err
	}

	return updated, nil
}

// WithdrawProposal retira la propuesta. Solo el autor, solo desde pending.
func (s *ProposalService) WithdrawProposal(ctx context.Context, proposalID, artistID uuid.UUID) (*models.Proposal, error) {
	proposal, err := s.proposals.GetByID(ctx, proposalID)
	if err != nil {
		return nil, s.mapProposalError(err)
	}

	if proposal.ArtistID != artistID {
		return nil, apperror.ErrForbidden
	}

	if proposal.Status != models.ProposalStatusPending {
		return nil, apperror.Newf(apperror.ErrCodeInvalidState, "la propuesta está %s y no se puede retirar", proposal.Status)
	}

	updated, err := s.proposals.TransitionStatus(ctx, proposalID, models.ProposalStatusPending, models.ProposalStatusWithdrawn)
	if err != nil {
		if errors.Is(err, repository.ErrProposalConflict) {
			return nil, s.invalidStateFromCurrent(ctx, proposalID)
		}
		return nil, err
	}

	return updated, nil
}

// UpdateStatus acepta o rechaza la propuesta. Solo el dueño de la oferta.
// La transición corre en una sola sentencia condicionada al estado pending,
// así dos decisiones concurrentes nunca se aplican ambas.
func (s *ProposalService) UpdateStatus(ctx context.Context, proposalID, actorID uuid.UUID, newStatus string) (*models.Proposal, error) {
	if newStatus != models.ProposalStatusAccepted && newStatus != models.ProposalStatusRejected {
		return nil, apperror.New(apperror.ErrCodeValidation, "estado de propuesta inválido")
	}

	proposal, err := s.proposals.GetByID(ctx, proposalID)
	if err != nil {
		return nil, s.mapProposalError(err)
	}

	offer, err := s.offers.GetOffer(ctx, proposal.OfferID)
	if err != nil {
		return nil, err
	}

	if offer.ClientID != actorID {
		return nil, apperror.ErrForbidden
	}

	if models.IsTerminalOfferStatus(offer.Status) {
		return nil, apperror.Newf(apperror.ErrCodeInvalidState, "la oferta está %s y ya no admite decisiones", offer.Status)
	}

	if proposal.Status != models.ProposalStatusPending {
		return nil, apperror.Newf(apperror.ErrCodeInvalidState, "la propuesta ya está %s", proposal.Status)
	}

	if newStatus == models.ProposalStatusAccepted && s.singleAcceptance {
		accepted, err := s.proposals.HasAcceptedForOffer(ctx, proposal.OfferID)
		if err != nil {
			return nil, err
		}
		if accepted {
			return nil, apperror.New(apperror.ErrCodeInvalidState, "la oferta ya tiene una propuesta aceptada")
		}
	}

	updated, err := s.proposals.TransitionStatus(ctx, proposalID, models.ProposalStatusPending, newStatus)
	if err != nil {
		if errors.Is(err, repository.ErrProposalConflict) {
			return nil, s.invalidStateFromCurrent(ctx, proposalID)
		}
		return nil, err
	}

	if newStatus == models.ProposalStatusAccepted {
		// La oferta avanza sola a in_progress con la primera aceptación.
		s.offers.markInProgress(ctx, proposal.OfferID)
	}

	s.publish(proposal.ArtistID, EventProposalStatusChanged, map[string]interface{}{
		"proposal_id": proposal.ID,
		"offer_id":    proposal.OfferID,
		"status":      newStatus,
	})

	return updated, nil
}

// buildView arma la vista de la propuesta con los contactos de ambas
// partes cuando la revelación lo permite.
func (s *ProposalService) buildView(ctx context.Context, proposal models.Proposal, viewer ViewerRole) *ProposalView {
	disclosure := ComputeVisibility(proposal.Status, viewer)
	if !disclosure.Visible {
		return nil
	}

	var clientContact, artistContact *models.ContactInfo
	if disclosure.ShowContact {
		offer, err := s.offers.GetOffer(ctx, proposal.OfferID)
		if err == nil {
			clientContact = s.contactFor(ctx, offer.ClientID)
		}
		artistContact = s.contactFor(ctx, proposal.ArtistID)
	}

	return BuildProposalView(proposal, viewer, clientContact, artistContact)
}

// contactFor arma el bloque de contacto de un usuario; nil si no se pudo.
func (s *ProposalService) contactFor(ctx context.Context, userID uuid.UUID) *models.ContactInfo {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil
	}

	contact := &models.ContactInfo{Email: user.Email}
	if profile, err := s.users.GetProfile(ctx, userID); err == nil {
		contact.FullName = profile.FirstName + " " + profile.LastName
		contact.Phone = profile.Phone
	}
	return contact
}

// invalidStateFromCurrent relee la propuesta tras perder una carrera para
// responder con su estado real.
func (s *ProposalService) invalidStateFromCurrent(ctx context.Context, proposalID uuid.UUID) error {
	current, err := s.proposals.GetByID(ctx, proposalID)
	if err != nil {
		return s.mapProposalError(err)
	}
	return apperror.Newf(apperror.ErrCodeInvalidState, "la propuesta ya está %s", current.Status)
}

func (s *ProposalService) publish(userID uuid.UUID, event string, data map[string]interface{}) {
	if s.events != nil {
		s.events.Publish(userID, event, data)
	}
}

func (s *ProposalService) mapProposalError(err error) error {
	if errors.Is(err, repository.ErrProposalNotFound) {
		return apperror.ErrProposalNotFound
	}
	return err
}
