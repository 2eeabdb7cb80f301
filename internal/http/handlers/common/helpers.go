package common

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/paltattoo/paltattoo-backend/internal/dto"
	"github.com/paltattoo/paltattoo-backend/internal/http/middleware"
)

var (
	// ErrUserNotInContext se devuelve cuando el contexto no trae usuario.
	ErrUserNotInContext = errors.New("usuario no encontrado en el contexto")

	// ErrInvalidUUID se devuelve cuando falla el parseo de un UUID.
	ErrInvalidUUID = errors.New("formato de UUID inválido")
)

// CurrentUserID extrae el ID del usuario autenticado del contexto de Gin.
func CurrentUserID(c *gin.Context) (uuid.UUID, error) {
	raw, exists := c.Get(middleware.ContextUserIDKey)
	if !exists {
		return uuid.Nil, ErrUserNotInContext
	}

	userID, ok := raw.(uuid.UUID)
	if !ok {
		return uuid.Nil, ErrUserNotInContext
	}

	return userID, nil
}

// CurrentUserRole extrae el rol del usuario autenticado del contexto.
func CurrentUserRole(c *gin.Context) (string, error) {
	raw, exists := c.Get(middleware.ContextRoleKey)
	if !exists {
		return "", ErrUserNotInContext
	}

	role, ok := raw.(string)
	if !ok {
		return "", ErrUserNotInContext
	}

	return role, nil
}

// ParseUUIDParam parsea un UUID desde un parámetro de ruta.
func ParseUUIDParam(c *gin.Context, paramName string) (uuid.UUID, error) {
	param := c.Param(paramName)
	if param == "" {
		return uuid.Nil, fmt.Errorf("falta el parámetro %s", paramName)
	}

	parsed, err := uuid.Parse(param)
	if err != nil {
		return uuid.Nil, ErrInvalidUUID
	}

	return parsed, nil
}

// BindAndValidate hace el bind del JSON con un error legible.
func BindAndValidate(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return fmt.Errorf("error de validación de la solicitud: %w", err)
	}
	return nil
}

// RespondError envía una respuesta de error estandarizada.
func RespondError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, dto.ErrorResponse{Error: message})
}

// RespondSuccess envía una respuesta de éxito estandarizada.
func RespondSuccess(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, dto.SuccessResponse{
		Message: message,
		Data:    data,
	})
}

// RespondJSON envía una respuesta JSON directa.
func RespondJSON(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

// RespondUnauthorized envía un 401.
func RespondUnauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "se requiere autenticación"
	}
	RespondError(c, http.StatusUnauthorized, message)
}

// RespondBadRequest envía un 400.
func RespondBadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "solicitud incorrecta"
	}
	RespondError(c, http.StatusBadRequest, message)
}

// ParseIntQuery lee un parámetro entero de la query con valor por defecto.
func ParseIntQuery(c *gin.Context, key string, fallback int) int {
	if v := c.Query(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

// GetPagination extrae limit y offset de la query con valores por defecto.
func GetPagination(c *gin.Context) (limit, offset int) {
	limit = ParseIntQuery(c, "limit", 20)
	offset = ParseIntQuery(c, "offset", 0)
	if limit > 100 {
		limit = 100
	}
	if limit < 1 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return
}
