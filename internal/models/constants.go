package models

// Roles de usuario
const (
	RoleClient = "client"
	RoleArtist = "artist"
	RoleAdmin  = "admin"
)

// OfferStatus estados de una oferta
const (
	OfferStatusOpen       = "open"
	OfferStatusInProgress = "in_progress"
	OfferStatusCompleted  = "completed"
	OfferStatusCancelled  = "cancelled"
)

// ProposalStatus estados de una propuesta
const (
	ProposalStatusPending   = "pending"
	ProposalStatusAccepted  = "accepted"
	ProposalStatusRejected  = "rejected"
	ProposalStatusWithdrawn = "withdrawn"
)

// AppointmentStatus estados de una cita
const (
	AppointmentStatusPending   = "pending"
	AppointmentStatusConfirmed = "confirmed"
	AppointmentStatusCompleted = "completed"
	AppointmentStatusCancelled = "cancelled"
)

// RatedType a quién va dirigida una calificación
const (
	RatedTypeArtist = "artist"
	RatedTypeClient = "client"
)

// SubscriptionTier planes de suscripción para tatuadores
const (
	TierFree    = "free"
	TierPremium = "premium"
	TierPro     = "pro"
)

// ValidRoles roles válidos de usuario
var ValidRoles = map[string]struct{}{
	RoleClient: {},
	RoleArtist: {},
	RoleAdmin:  {},
}

// ValidOfferStatuses estados válidos de oferta
var ValidOfferStatuses = map[string]struct{}{
	OfferStatusOpen:       {},
	OfferStatusInProgress: {},
	OfferStatusCompleted:  {},
	OfferStatusCancelled:  {},
}

// ValidProposalStatuses estados válidos de propuesta
var ValidProposalStatuses = map[string]struct{}{
	ProposalStatusPending:   {},
	ProposalStatusAccepted:  {},
	ProposalStatusRejected:  {},
	ProposalStatusWithdrawn: {},
}

// ValidAppointmentStatuses estados válidos de cita
var ValidAppointmentStatuses = map[string]struct{}{
	AppointmentStatusPending:   {},
	AppointmentStatusConfirmed: {},
	AppointmentStatusCompleted: {},
	AppointmentStatusCancelled: {},
}

// OfferTransitions transiciones permitidas del estado de una oferta.
// Solo avanza hacia adelante; cancelled es alcanzable desde cualquier
// estado no terminal.
var OfferTransitions = map[string][]string{
	OfferStatusOpen:       {OfferStatusInProgress, OfferStatusCompleted, OfferStatusCancelled},
	OfferStatusInProgress: {OfferStatusCompleted, OfferStatusCancelled},
	OfferStatusCompleted:  {},
	OfferStatusCancelled:  {},
}

// ProposalTransitions transiciones permitidas del estado de una propuesta.
// Todos los estados distintos de pending son terminales.
var ProposalTransitions = map[string][]string{
	ProposalStatusPending:   {ProposalStatusAccepted, ProposalStatusRejected, ProposalStatusWithdrawn},
	ProposalStatusAccepted:  {},
	ProposalStatusRejected:  {},
	ProposalStatusWithdrawn: {},
}

// CanTransition indica si el cambio de estado está permitido según la tabla.
func CanTransition(table map[string][]string, from, to string) bool {
	for _, allowed := range table[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsTerminalOfferStatus indica si la oferta ya no admite cambios.
func IsTerminalOfferStatus(status string) bool {
	return status == OfferStatusCompleted || status == OfferStatusCancelled
}

// IsActiveProposalStatus indica si la propuesta cuenta contra la unicidad
// (artista, oferta): solo pending y accepted bloquean una nueva propuesta.
func IsActiveProposalStatus(status string) bool {
	return status == ProposalStatusPending || status == ProposalStatusAccepted
}
