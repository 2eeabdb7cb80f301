package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/paltattoo/paltattoo-backend/internal/service"
)

// SeedHandler genera datos de demostración. Solo para desarrollo.
type SeedHandler struct {
	seed *service.SeedService
}

// NewSeedHandler crea el handler.
func NewSeedHandler(seed *service.SeedService) *SeedHandler {
	return &SeedHandler{seed: seed}
}

// SeedRequest parámetros de la generación.
type SeedRequest struct {
	NumUsers  int `json:"num_users"`
	NumOffers int `json:"num_offers"`
}

// Seed maneja POST /seed.
func (h *SeedHandler) Seed(c *gin.Context) {
	req := SeedRequest{NumUsers: 30, NumOffers: 40}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cuerpo de la solicitud inválido"})
			return
		}
	}

	if req.NumUsers < 1 {
		req.NumUsers = 30
	}
	if req.NumOffers < 1 {
		req.NumOffers = 40
	}
	if req.NumUsers > 500 {
		req.NumUsers = 500
	}
	if req.NumOffers > 2000 {
		req.NumOffers = 2000
	}

	if err := h.seed.SeedData(c.Request.Context(), req.NumUsers, req.NumOffers); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "no se pudieron generar los datos de demostración",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "datos de demostración generados",
		"num_users":  req.NumUsers,
		"num_offers": req.NumOffers,
	})
}
