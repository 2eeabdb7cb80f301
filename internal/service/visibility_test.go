package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/paltattoo/paltattoo-backend/internal/models"
)

func TestComputeVisibility_Pending(t *testing.T) {
	for _, viewer := range []ViewerRole{ViewerClient, ViewerArtist} {
		d := ComputeVisibility(models.ProposalStatusPending, viewer)
		assert.True(t, d.Visible)
		assert.True(t, d.ShowDetails)
		assert.False(t, d.ShowContact, "el contacto nunca se revela antes de aceptar")
	}
}

func TestComputeVisibility_Accepted(t *testing.T) {
	for _, viewer := range []ViewerRole{ViewerClient, ViewerArtist} {
		d := ComputeVisibility(models.ProposalStatusAccepted, viewer)
		assert.True(t, d.Visible)
		assert.True(t, d.ShowDetails)
		assert.True(t, d.ShowContact)
	}
}

func TestComputeVisibility_Rejected(t *testing.T) {
	for _, viewer := range []ViewerRole{ViewerClient, ViewerArtist} {
		d := ComputeVisibility(models.ProposalStatusRejected, viewer)
		assert.True(t, d.Visible)
		assert.False(t, d.ShowDetails)
		assert.False(t, d.ShowContact)
	}
}

func TestComputeVisibility_Withdrawn(t *testing.T) {
	client := ComputeVisibility(models.ProposalStatusWithdrawn, ViewerClient)
	assert.False(t, client.Visible, "el cliente no ve propuestas retiradas")

	artist := ComputeVisibility(models.ProposalStatusWithdrawn, ViewerArtist)
	assert.True(t, artist.Visible)
	assert.True(t, artist.ShowDetails)
	assert.False(t, artist.ShowContact)
}

func TestBuildProposalView_BlanksDetailsWhenHidden(t *testing.T) {
	proposal := models.Proposal{
		Message:           "propuesta detallada",
		ProposedPrice:     120000,
		EstimatedDuration: 5,
		Status:            models.ProposalStatusRejected,
	}

	view := BuildProposalView(proposal, ViewerClient, nil, nil)
	assert.NotNil(t, view)
	assert.Empty(t, view.Proposal.Message)
	assert.Zero(t, view.Proposal.ProposedPrice)
	assert.Zero(t, view.Proposal.EstimatedDuration)
	assert.Equal(t, models.ProposalStatusRejected, view.Proposal.Status)
}

func TestBuildProposalView_NilWhenInvisible(t *testing.T) {
	proposal := models.Proposal{Status: models.ProposalStatusWithdrawn}
	assert.Nil(t, BuildProposalView(proposal, ViewerClient, nil, nil))
}

func TestBuildProposalView_ContactOnlyWhenAccepted(t *testing.T) {
	phone := "+56912345678"
	clientContact := &models.ContactInfo{FullName: "Camila Rojas", Email: "camila@correo.cl", Phone: &phone}
	artistContact := &models.ContactInfo{FullName: "Diego Soto", Email: "diego@correo.cl"}

	pending := models.Proposal{Status: models.ProposalStatusPending, Message: "hola"}
	view := BuildProposalView(pending, ViewerArtist, clientContact, artistContact)
	assert.Nil(t, view.ClientContact)
	assert.Nil(t, view.ArtistContact)
	assert.Equal(t, "hola", view.Proposal.Message)

	accepted := models.Proposal{Status: models.ProposalStatusAccepted, Message: "hola"}
	view = BuildProposalView(accepted, ViewerClient, clientContact, artistContact)
	assert.Equal(t, clientContact, view.ClientContact)
	assert.Equal(t, artistContact, view.ArtistContact)
}
