package dto

import (
	"github.com/paltattoo/paltattoo-backend/internal/models"
)

// AuthResponse respuesta de registro e inicio de sesión.
type AuthResponse struct {
	User         *models.User    `json:"user"`
	Profile      *models.Profile `json:"profile,omitempty"`
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	ExpiresIn    int64           `json:"expires_in"`
}

// ProfileResponse perfil con estadísticas públicas.
type ProfileResponse struct {
	*models.Profile
	Email string                     `json:"email,omitempty"`
	Role  string                     `json:"role"`
	Stats *models.PublicProfileStats `json:"stats,omitempty"`
}

// MyOffersResponse ofertas del cliente con contadores por estado.
type MyOffersResponse struct {
	Offers []models.Offer `json:"offers"`
	Counts map[string]int `json:"counts"`
}

// UserRatingResponse promedio y total de calificaciones de un usuario.
type UserRatingResponse struct {
	Ratings      []models.Rating `json:"ratings"`
	Average      float64         `json:"average"`
	TotalRatings int             `json:"total_ratings"`
}

// SubscriptionResponse plan vigente con sus límites.
type SubscriptionResponse struct {
	*models.Subscription
	Limits models.TierLimits `json:"limits"`
}

// UnreadCountResponse contador de notificaciones sin leer.
type UnreadCountResponse struct {
	Unread int `json:"unread"`
}

// UploadResponse resultado de la subida de un archivo.
type UploadResponse struct {
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// ErrorResponse respuesta de error uniforme.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// SuccessResponse respuesta genérica con mensaje.
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
