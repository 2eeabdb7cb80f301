package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/paltattoo/paltattoo-backend/internal/dto"
	"github.com/paltattoo/paltattoo-backend/internal/http/handlers/common"
	"github.com/paltattoo/paltattoo-backend/internal/models"
	"github.com/paltattoo/paltattoo-backend/internal/repository"
	"github.com/paltattoo/paltattoo-backend/internal/service"
)

// OfferHandler expone las rutas de ofertas de tatuaje.
type OfferHandler struct {
	offers *service.OfferService
}

// NewOfferHandler crea el handler.
func NewOfferHandler(offers *service.OfferService) *OfferHandler {
	return &OfferHandler{offers: offers}
}

// Create maneja POST /offers. Solo clientes.
func (h *OfferHandler) Create(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}
	role, _ := common.CurrentUserRole(c)
	if role != models.RoleClient {
		common.RespondError(c, http.StatusForbidden, "solo los clientes pueden publicar ofertas")
		return
	}

	var req dto.CreateOfferRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	deadlineAt, ok := parseOptionalTime(c, req.DeadlineAt)
	if !ok {
		return
	}

	offer, err := h.offers.CreateOffer(c.Request.Context(), service.CreateOfferInput{
		ClientID:    userID,
		Title:       req.Title,
		Description: req.Description,
		BodyPart:    req.BodyPart,
		Style:       req.Style,
		BudgetMin:   req.BudgetMin,
		BudgetMax:   req.BudgetMax,
		DeadlineAt:  deadlineAt,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, offer)
}

// List maneja GET /offers. Listado público de ofertas.
func (h *OfferHandler) List(c *gin.Context) {
	limit, offset := common.GetPagination(c)

	params := repository.ListFilterParams{
		Status:   c.DefaultQuery("status", models.OfferStatusOpen),
		Style:    c.Query("style"),
		BodyPart: c.Query("body_part"),
		Search:   c.Query("q"),
		Limit:    limit,
		Offset:   offset,
	}
	if raw := c.Query("budget_min"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			params.BudgetMin = &v
		}
	}
	if raw := c.Query("budget_max"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			params.BudgetMax = &v
		}
	}

	result, err := h.offers.ListOffers(c.Request.Context(), params)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Get maneja GET /offers/:id.
func (h *OfferHandler) Get(c *gin.Context) {
	offerID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	offer, err := h.offers.GetOffer(c.Request.Context(), offerID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, offer)
}

// ListMine maneja GET /offers/mine. Ofertas del cliente con contadores.
func (h *OfferHandler) ListMine(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	offers, counts, err := h.offers.ListMyOffers(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.MyOffersResponse{Offers: offers, Counts: counts})
}

// Update maneja PUT /offers/:id.
func (h *OfferHandler) Update(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	offerID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req dto.UpdateOfferRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	deadlineAt, ok := parseOptionalTime(c, req.DeadlineAt)
	if !ok {
		return
	}

	offer, err := h.offers.UpdateOffer(c.Request.Context(), service.UpdateOfferInput{
		OfferID:     offerID,
		ClientID:    userID,
		Title:       req.Title,
		Description: req.Description,
		BodyPart:    req.BodyPart,
		Style:       req.Style,
		BudgetMin:   req.BudgetMin,
		BudgetMax:   req.BudgetMax,
		DeadlineAt:  deadlineAt,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, offer)
}

// Close maneja POST /offers/:id/close. El cliente cierra la oferta como
// completed o cancelled.
func (h *OfferHandler) Close(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	offerID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req dto.CloseOfferRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	offer, err := h.offers.CloseOffer(c.Request.Context(), offerID, userID, req.Status)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, offer)
}

// parseOptionalTime parsea una fecha RFC3339 opcional; responde 400 y
// devuelve ok=false si el formato es inválido.
func parseOptionalTime(c *gin.Context, raw *string) (*time.Time, bool) {
	if raw == nil || *raw == "" {
		return nil, true
	}
	parsed, err := time.Parse(time.RFC3339, *raw)
	if err != nil {
		common.RespondBadRequest(c, "la fecha debe tener formato RFC3339")
		return nil, false
	}
	return &parsed, true
}
