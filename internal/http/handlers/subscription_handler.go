package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/paltattoo/paltattoo-backend/internal/dto"
	"github.com/paltattoo/paltattoo-backend/internal/http/handlers/common"
	"github.com/paltattoo/paltattoo-backend/internal/models"
	"github.com/paltattoo/paltattoo-backend/internal/service"
)

// SubscriptionHandler expone las rutas del plan de suscripción.
type SubscriptionHandler struct {
	subscriptions *service.SubscriptionService
}

// NewSubscriptionHandler crea el handler.
func NewSubscriptionHandler(subscriptions *service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptions: subscriptions}
}

// GetMine maneja GET /subscription. Solo tatuadores.
func (h *SubscriptionHandler) GetMine(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	subscription, err := h.subscriptions.GetSubscription(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	limits, err := h.subscriptions.EffectiveLimits(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.SubscriptionResponse{
		Subscription: subscription,
		Limits:       limits,
	})
}

// ChangeTier maneja PUT /subscription. El cobro real queda a cargo de la
// pasarela de pagos; aquí solo se registra el plan.
func (h *SubscriptionHandler) ChangeTier(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}
	role, _ := common.CurrentUserRole(c)
	if role != models.RoleArtist {
		common.RespondError(c, http.StatusForbidden, "solo los tatuadores tienen plan de suscripción")
		return
	}

	var req dto.ChangeTierRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	subscription, err := h.subscriptions.ChangeTier(c.Request.Context(), userID, req.Tier, nil)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, subscription)
}
