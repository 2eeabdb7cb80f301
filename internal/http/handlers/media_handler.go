package handlers

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/h2non/filetype"

	"github.com/paltattoo/paltattoo-backend/internal/dto"
	"github.com/paltattoo/paltattoo-backend/internal/http/handlers/common"
	"github.com/paltattoo/paltattoo-backend/internal/repository"
	"github.com/paltattoo/paltattoo-backend/internal/storage"
)

// Tipos de imagen permitidos para el avatar.
var allowedMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// MediaHandler maneja la subida del avatar del perfil.
type MediaHandler struct {
	users   *repository.UserRepository
	storage *storage.MediaStorage
}

// NewMediaHandler crea el handler.
func NewMediaHandler(users *repository.UserRepository, storage *storage.MediaStorage) *MediaHandler {
	return &MediaHandler{users: users, storage: storage}
}

// UploadAvatar maneja POST /media/avatar.
func (h *MediaHandler) UploadAvatar(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		common.RespondBadRequest(c, "el campo file es obligatorio")
		return
	}
	if file.Size == 0 {
		common.RespondBadRequest(c, "el archivo no puede estar vacío")
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		common.RespondBadRequest(c, "formato de archivo no soportado, se permiten imágenes jpg, png, gif y webp")
		return
	}

	src, err := file.Open()
	if err != nil {
		_ = c.Error(err)
		return
	}
	defer src.Close()

	// Los primeros bytes deciden el tipo real del archivo; la extensión
	// declarada no basta.
	buffer := make([]byte, 512)
	n, err := src.Read(buffer)
	if err != nil && err != io.EOF {
		common.RespondBadRequest(c, "no se pudo leer el archivo")
		return
	}

	kind, err := filetype.Match(buffer[:n])
	if err != nil || kind == filetype.Unknown || !allowedMimeTypes[kind.MIME.Value] {
		common.RespondBadRequest(c, fmt.Sprintf("el contenido del archivo no es una imagen válida (%s)", file.Filename))
		return
	}

	if _, err := src.Seek(0, io.SeekStart); err != nil {
		_ = c.Error(err)
		return
	}

	path, size, err := h.storage.Save(c.Request.Context(), userID, file.Filename, src)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.users.UpdateAvatarPath(c.Request.Context(), userID, path); err != nil {
		// El archivo quedó escrito pero el perfil no lo referencia: se
		// limpia para no dejar huérfanos.
		_ = h.storage.Delete(c.Request.Context(), path)
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, dto.UploadResponse{Path: path, Size: size})
}
