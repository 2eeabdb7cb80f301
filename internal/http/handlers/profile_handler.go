package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/paltattoo/paltattoo-backend/internal/dto"
	"github.com/paltattoo/paltattoo-backend/internal/http/handlers/common"
	"github.com/paltattoo/paltattoo-backend/internal/models"
	"github.com/paltattoo/paltattoo-backend/internal/pkg/apperror"
	"github.com/paltattoo/paltattoo-backend/internal/repository"
	"github.com/paltattoo/paltattoo-backend/internal/validation"
)

// ProfileHandler expone la lectura y edición de perfiles.
type ProfileHandler struct {
	users *repository.UserRepository
}

// NewProfileHandler crea el handler.
func NewProfileHandler(users *repository.UserRepository) *ProfileHandler {
	return &ProfileHandler{users: users}
}

// GetMe maneja GET /profile/me.
func (h *ProfileHandler) GetMe(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(apperror.Wrap(err, apperror.ErrCodeNotFound, "usuario no encontrado"))
		return
	}

	profile, err := h.users.GetProfile(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.ProfileResponse{
		Profile: profile,
		Email:   user.Email,
		Role:    user.Role,
	})
}

// UpdateMe maneja PUT /profile/me.
func (h *ProfileHandler) UpdateMe(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req dto.UpdateProfileRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := validation.ValidateLength("nombre", req.FirstName, 1, 100); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}
	if err := validation.ValidateLength("apellido", req.LastName, 1, 100); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	profile := &models.Profile{
		UserID:     userID,
		FirstName:  strings.TrimSpace(req.FirstName),
		LastName:   strings.TrimSpace(req.LastName),
		Phone:      req.Phone,
		Bio:        req.Bio,
		Comuna:     req.Comuna,
		Region:     req.Region,
		Instagram:  req.Instagram,
		StudioName: req.StudioName,
		Styles:     models.StringSlice(req.Styles),
	}
	if profile.Styles == nil {
		profile.Styles = models.StringSlice{}
	}

	if err := h.users.UpsertProfile(c.Request.Context(), profile); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// GetPublicProfile maneja GET /users/:id/profile. No expone email ni
// teléfono: el contacto solo viaja por la pasarela de visibilidad de
// propuestas.
func (h *ProfileHandler) GetPublicProfile(c *gin.Context) {
	userID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(apperror.ErrUserNotFound)
		return
	}

	profile, err := h.users.GetProfile(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	profile.Phone = nil

	stats, err := h.users.GetUserStats(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.ProfileResponse{
		Profile: profile,
		Role:    user.Role,
		Stats:   stats,
	})
}

// SearchArtists maneja GET /artists.
func (h *ProfileHandler) SearchArtists(c *gin.Context) {
	limit, offset := common.GetPagination(c)

	params := repository.ArtistSearchParams{
		Query:  c.Query("q"),
		Comuna: c.Query("comuna"),
		Region: c.Query("region"),
		Limit:  limit,
		Offset: offset,
	}
	if styles := c.Query("styles"); styles != "" {
		params.Styles = strings.Split(styles, ",")
	}
	if raw := c.Query("min_rating"); raw != "" {
		if minRating, err := strconv.ParseFloat(raw, 64); err == nil {
			params.MinRating = &minRating
		}
	}

	artists, err := h.users.SearchArtists(c.Request.Context(), params)
	if err != nil {
		_ = c.Error(err)
		return
	}

	total, err := h.users.CountArtists(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"artists": artists,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}
