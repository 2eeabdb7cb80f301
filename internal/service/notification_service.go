package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/paltattoo/paltattoo-backend/internal/goroutine"
	"github.com/paltattoo/paltattoo-backend/internal/logger"
	"github.com/paltattoo/paltattoo-backend/internal/models"
	"github.com/paltattoo/paltattoo-backend/internal/pkg/apperror"
)

// NotificationStore describe el acceso al almacenamiento de notificaciones.
type NotificationStore interface {
	Create(ctx context.Context, notification *models.Notification) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Notification, error)
	List(ctx context.Context, userID uuid.UUID, limit, offset int, unreadOnly bool) ([]models.Notification, error)
	MarkAsRead(ctx context.Context, id uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)
}

// Broadcaster empuja eventos por WebSocket a un usuario conectado.
type Broadcaster interface {
	BroadcastToUser(userID uuid.UUID, event string, data interface{}) error
}

// NotificationService persiste notificaciones y las reparte en caliente
// por el hub. Implementa EventPublisher para los servicios de dominio.
type NotificationService struct {
	repo NotificationStore
	hub  Broadcaster
}

// NewNotificationService crea el servicio de notificaciones.
func NewNotificationService(repo NotificationStore) *NotificationService {
	return &NotificationService{repo: repo}
}

// SetHub conecta el hub WebSocket.
func (s *NotificationService) SetHub(hub Broadcaster) {
	s.hub = hub
}

// Publish persiste la notificación y la difunde sin bloquear al que la
// origina. Las fallas solo se registran: nunca viajan de vuelta a la
// escritura que disparó el evento.
func (s *NotificationService) Publish(userID uuid.UUID, event string, data map[string]interface{}) {
	goroutine.SafeGo("notification.publish", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if _, err := s.CreateNotification(ctx, userID, event, data); err != nil {
			logger.Log.WithFields(map[string]interface{}{
				"user_id": userID,
				"event":   event,
				"error":   err.Error(),
			}).Warn("notification service: no se pudo persistir el evento")
		}

		if s.hub != nil {
			if err := s.hub.BroadcastToUser(userID, event, data); err != nil {
				logger.Log.WithFields(map[string]interface{}{
					"user_id": userID,
					"event":   event,
					"error":   err.Error(),
				}).Debug("notification service: usuario sin conexión ws")
			}
		}
	})
}

// CreateNotification crea una notificación nueva.
func (s *NotificationService) CreateNotification(ctx context.Context, userID uuid.UUID, event string, data interface{}) (*models.Notification, error) {
	payload := map[string]interface{}{
		"event": event,
		"data":  data,
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("notification service: marshal payload %w", err)
	}

	notification := &models.Notification{
		UserID:  userID,
		Payload: payloadBytes,
		IsRead:  false,
	}

	if err := s.repo.Create(ctx, notification); err != nil {
		return nil, err
	}

	return notification, nil
}

// ListNotifications devuelve las notificaciones del usuario.
func (s *NotificationService) ListNotifications(ctx context.Context, userID uuid.UUID, limit, offset int, unreadOnly bool) ([]models.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	return s.repo.List(ctx, userID, limit, offset, unreadOnly)
}

// MarkAsRead marca la notificación como leída. Solo su destinatario.
func (s *NotificationService) MarkAsRead(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	notification, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if notification.UserID != userID {
		return apperror.ErrForbidden
	}

	return s.repo.MarkAsRead(ctx, id)
}

// MarkAllAsRead marca todas las notificaciones del usuario como leídas.
func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

// DeleteNotification elimina la notificación. Solo su destinatario.
func (s *NotificationService) DeleteNotification(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	notification, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if notification.UserID != userID {
		return apperror.ErrForbidden
	}

	return s.repo.Delete(ctx, id)
}

// CountUnread devuelve la cantidad de notificaciones sin leer.
func (s *NotificationService) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.CountUnread(ctx, userID)
}
