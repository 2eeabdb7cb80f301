package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/paltattoo/paltattoo-backend/internal/logger"
	"github.com/paltattoo/paltattoo-backend/internal/pkg/apperror"
)

// ErrorHandler traduce los errores acumulados en el contexto a una
// respuesta JSON uniforme {"error": ..., "code": ...}. Los errores que
// no son AppError se enmascaran como error interno.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err

		status := apperror.HTTPStatusOf(err)
		code := apperror.CodeOf(err)
		message := "error interno del servidor"

		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.Code != apperror.ErrCodeInternal {
			message = appErr.Message
		}

		// Las denegaciones de permiso siempre llevan el mismo mensaje
		// genérico para no filtrar la existencia ni el estado del recurso.
		if code == apperror.ErrCodeForbidden {
			message = "no tienes permiso para esta acción"
		}

		if logger.Log != nil {
			entry := logger.Log.WithFields(logrus.Fields{
				"error":  err.Error(),
				"code":   code,
				"path":   c.Request.URL.Path,
				"method": c.Request.Method,
				"status": status,
			})
			if status >= http.StatusInternalServerError {
				entry.Error("error al procesar la solicitud")
			} else {
				entry.Debug("solicitud rechazada")
			}
		}

		c.JSON(status, gin.H{"error": message, "code": code})
	}
}
