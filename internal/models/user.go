package models

import (
	"time"

	"github.com/google/uuid"
)

// User describe la entidad usuario de la plataforma.
type User struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Role         string     `db:"role" json:"role"`
	// Los usuarios nunca se eliminan de forma definitiva: la suspensión
	// se maneja con este flag.
	IsActive    bool       `db:"is_active" json:"is_active"`
	LastLoginAt *time.Time `db:"last_login_at" json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// Profile describe el perfil público de un usuario.
type Profile struct {
	UserID     uuid.UUID  `db:"user_id" json:"user_id"`
	FirstName  string     `db:"first_name" json:"first_name"`
	LastName   string     `db:"last_name" json:"last_name"`
	Phone      *string    `db:"phone" json:"phone,omitempty"`
	Bio        *string    `db:"bio" json:"bio,omitempty"`
	Comuna     *string    `db:"comuna" json:"comuna,omitempty"`
	Region     *string    `db:"region" json:"region,omitempty"`
	Instagram  *string    `db:"instagram" json:"instagram,omitempty"`
	AvatarPath *string    `db:"avatar_path" json:"avatar_path,omitempty"`
	// Campos propios de tatuadores
	StudioName *string        `db:"studio_name" json:"studio_name,omitempty"`
	Styles     StringSlice    `db:"styles" json:"styles,omitempty"`
	UpdatedAt  time.Time      `db:"updated_at" json:"updated_at"`
}

// Session representa una sesión persistida del usuario.
type Session struct {
	ID           uuid.UUID `db:"id" json:"id"`
	UserID       uuid.UUID `db:"user_id" json:"user_id"`
	RefreshToken string    `db:"refresh_token" json:"refresh_token"`
	UserAgent    *string   `db:"user_agent" json:"user_agent,omitempty"`
	IPAddress    *string   `db:"ip_address" json:"ip_address,omitempty"`
	ExpiresAt    time.Time `db:"expires_at" json:"expires_at"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// ContactInfo reúne los datos de contacto que la pasarela de visibilidad
// puede revelar u ocultar según el estado de la propuesta.
type ContactInfo struct {
	FullName string  `json:"full_name"`
	Email    string  `json:"email"`
	Phone    *string `json:"phone,omitempty"`
}

// PublicProfileStats estadísticas para el perfil público.
type PublicProfileStats struct {
	CompletedOffers int     `json:"completed_offers"`
	AverageRating   float64 `json:"average_rating"`
	TotalRatings    int     `json:"total_ratings"`
}
