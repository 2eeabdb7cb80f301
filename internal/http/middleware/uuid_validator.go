package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UUIDValidator verifica que el parámetro de ruta sea un UUID válido.
// Uso: router.GET("/offers/:id", UUIDValidator("id"), handler.GetOffer)
func UUIDValidator(paramName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		idStr := c.Param(paramName)
		if idStr == "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "el parámetro " + paramName + " es obligatorio",
			})
			c.Abort()
			return
		}

		if _, err := uuid.Parse(idStr); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "el parámetro " + paramName + " debe ser un UUID válido",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
