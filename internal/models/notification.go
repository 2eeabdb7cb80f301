package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Notification es el registro persistente de un evento de dominio dirigido
// a un usuario (el equivalente a los toasts del frontend).
type Notification struct {
	ID        uuid.UUID       `db:"id" json:"id"`
	UserID    uuid.UUID       `db:"user_id" json:"user_id"`
	Payload   json.RawMessage `db:"payload" json:"payload"`
	IsRead    bool            `db:"is_read" json:"is_read"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}
