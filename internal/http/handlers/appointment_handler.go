package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/paltattoo/paltattoo-backend/internal/dto"
	"github.com/paltattoo/paltattoo-backend/internal/http/handlers/common"
	"github.com/paltattoo/paltattoo-backend/internal/models"
	"github.com/paltattoo/paltattoo-backend/internal/service"
)

// AppointmentHandler expone las rutas de citas.
type AppointmentHandler struct {
	appointments *service.AppointmentService
}

// NewAppointmentHandler crea el handler.
func NewAppointmentHandler(appointments *service.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{appointments: appointments}
}

// Schedule maneja POST /appointments. Solo tatuadores.
func (h *AppointmentHandler) Schedule(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}
	role, _ := common.CurrentUserRole(c)
	if role != models.RoleArtist {
		common.RespondError(c, http.StatusForbidden, "solo los tatuadores pueden agendar citas")
		return
	}

	var req dto.ScheduleAppointmentRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		common.RespondBadRequest(c, "starts_at debe tener formato RFC3339")
		return
	}
	endsAt, err := time.Parse(time.RFC3339, req.EndsAt)
	if err != nil {
		common.RespondBadRequest(c, "ends_at debe tener formato RFC3339")
		return
	}

	in := service.ScheduleInput{
		ArtistID: userID,
		Title:    req.Title,
		Notes:    req.Notes,
		StartsAt: startsAt,
		EndsAt:   endsAt,
	}
	if req.ProposalID != nil && *req.ProposalID != "" {
		proposalID, err := uuid.Parse(*req.ProposalID)
		if err != nil {
			common.RespondBadRequest(c, "proposal_id debe ser un UUID válido")
			return
		}
		in.ProposalID = &proposalID
	}
	if req.ClientID != nil && *req.ClientID != "" {
		clientID, err := uuid.Parse(*req.ClientID)
		if err != nil {
			common.RespondBadRequest(c, "client_id debe ser un UUID válido")
			return
		}
		in.ClientID = clientID
	}

	appointment, err := h.appointments.Schedule(c.Request.Context(), in)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, appointment)
}

// ListMine maneja GET /appointments.
func (h *AppointmentHandler) ListMine(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	appointments, err := h.appointments.ListMyAppointments(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"appointments": appointments})
}

// Confirm maneja POST /appointments/:id/confirm.
func (h *AppointmentHandler) Confirm(c *gin.Context) {
	h.transition(c, h.appointments.Confirm)
}

// Complete maneja POST /appointments/:id/complete.
func (h *AppointmentHandler) Complete(c *gin.Context) {
	h.transition(c, h.appointments.Complete)
}

// Cancel maneja POST /appointments/:id/cancel.
func (h *AppointmentHandler) Cancel(c *gin.Context) {
	h.transition(c, h.appointments.Cancel)
}

func (h *AppointmentHandler) transition(c *gin.Context, fn func(ctx context.Context, appointmentID, actorID uuid.UUID) (*models.Appointment, error)) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	appointmentID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	appointment, err := fn(c.Request.Context(), appointmentID, userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, appointment)
}
