package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/paltattoo/paltattoo-backend/internal/dto"
	"github.com/paltattoo/paltattoo-backend/internal/http/handlers/common"
	"github.com/paltattoo/paltattoo-backend/internal/service"
)

// RatingHandler expone las rutas de calificaciones.
type RatingHandler struct {
	ratings *service.RatingService
}

// NewRatingHandler crea el handler.
func NewRatingHandler(ratings *service.RatingService) *RatingHandler {
	return &RatingHandler{ratings: ratings}
}

// CanRate maneja GET /ratings/can-rate?rated_id=...&proposal_id=...
// Siempre responde 200: la inelegibilidad es un motivo, no un error.
func (h *RatingHandler) CanRate(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	ratedID, err := uuid.Parse(c.Query("rated_id"))
	if err != nil {
		common.RespondBadRequest(c, "rated_id debe ser un UUID válido")
		return
	}
	proposalID, err := uuid.Parse(c.Query("proposal_id"))
	if err != nil {
		common.RespondBadRequest(c, "proposal_id debe ser un UUID válido")
		return
	}

	eligibility, err := h.ratings.CanRate(c.Request.Context(), userID, ratedID, proposalID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, eligibility)
}

// Create maneja POST /ratings.
func (h *RatingHandler) Create(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req dto.CreateRatingRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	ratedID, err := uuid.Parse(req.RatedID)
	if err != nil {
		common.RespondBadRequest(c, "rated_id debe ser un UUID válido")
		return
	}
	proposalID, err := uuid.Parse(req.ProposalID)
	if err != nil {
		common.RespondBadRequest(c, "proposal_id debe ser un UUID válido")
		return
	}

	rating, err := h.ratings.SubmitRating(c.Request.Context(), service.SubmitRatingInput{
		RaterID:    userID,
		RatedID:    ratedID,
		ProposalID: proposalID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, rating)
}

// ListForUser maneja GET /users/:id/ratings.
func (h *RatingHandler) ListForUser(c *gin.Context) {
	userID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	ratings, err := h.ratings.ListUserRatings(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	average, total, err := h.ratings.GetUserRating(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.UserRatingResponse{
		Ratings:      ratings,
		Average:      average,
		TotalRatings: total,
	})
}
