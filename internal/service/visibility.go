package service

import (
	"github.com/paltattoo/paltattoo-backend/internal/models"
)

// ViewerRole indica la relación del observador con la propuesta.
type ViewerRole int

const (
	// ViewerClient es el dueño de la oferta.
	ViewerClient ViewerRole = iota
	// ViewerArtist es el autor de la propuesta.
	ViewerArtist
)

// Disclosure describe qué campos de la propuesta puede ver el observador.
type Disclosure struct {
	// Visible indica si la propuesta aparece en el listado del observador.
	Visible bool `json:"visible"`
	// ShowDetails habilita precio, duración y mensaje.
	ShowDetails bool `json:"show_details"`
	// ShowContact habilita nombre completo, email y teléfono de la
	// contraparte. Solo se revela con la propuesta aceptada.
	ShowContact bool `json:"show_contact"`
}

// ComputeVisibility calcula la revelación de campos para un estado de
// propuesta y un observador. Es una función pura: la misma regla vale para
// la API, los serializadores y cualquier exportación.
//
//	estado     | cliente                        | tatuador
//	pending    | detalles sin contacto          | su propio envío
//	accepted   | contacto de ambas partes       | contacto de ambas partes
//	rejected   | nada más allá de la oferta     | solo el aviso de rechazo
//	withdrawn  | oculta                         | solo su registro histórico
func ComputeVisibility(status string, viewer ViewerRole) Disclosure {
	switch status {
	case models.ProposalStatusPending:
		return Disclosure{Visible: true, ShowDetails: true, ShowContact: false}
	case models.ProposalStatusAccepted:
		return Disclosure{Visible: true, ShowDetails: true, ShowContact: true}
	case models.ProposalStatusRejected:
		// El cliente no ve nada más allá de la oferta; el tatuador ve solo
		// el aviso de rechazo. En ambos casos sin detalles ni contacto.
		return Disclosure{Visible: true, ShowDetails: false, ShowContact: false}
	case models.ProposalStatusWithdrawn:
		if viewer == ViewerClient {
			return Disclosure{Visible: false}
		}
		return Disclosure{Visible: true, ShowDetails: true, ShowContact: false}
	default:
		return Disclosure{}
	}
}

// ProposalView es la propuesta ya filtrada por la pasarela de visibilidad.
// Los campos de contacto van en nil salvo que la revelación los habilite.
type ProposalView struct {
	Proposal      models.Proposal     `json:"proposal"`
	Disclosure    Disclosure          `json:"disclosure"`
	ClientContact *models.ContactInfo `json:"client_contact,omitempty"`
	ArtistContact *models.ContactInfo `json:"artist_contact,omitempty"`
}

// BuildProposalView aplica la revelación sobre la propuesta. Cuando los
// detalles no están habilitados se vacían mensaje, precio y duración; el
// contacto solo viaja si ShowContact está activo.
func BuildProposalView(proposal models.Proposal, viewer ViewerRole, clientContact, artistContact *models.ContactInfo) *ProposalView {
	disclosure := ComputeVisibility(proposal.Status, viewer)
	if !disclosure.Visible {
		return nil
	}

	view := &ProposalView{
		Proposal:   proposal,
		Disclosure: disclosure,
	}

	if !disclosure.ShowDetails {
		view.Proposal.Message = ""
		view.Proposal.ProposedPrice = 0
		view.Proposal.EstimatedDuration = 0
	}

	if disclosure.ShowContact {
		view.ClientContact = clientContact
		view.ArtistContact = artistContact
	}

	return view
}
