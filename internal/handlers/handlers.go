package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	apperrors "eventro/internal/errors"
	"eventro/internal/logger"
	"eventro/internal/middleware"
	"eventro/internal/service"

	"github.com/gin-gonic/gin"
)

// maxUploadSize ограничивает размер загружаемых файлов
const maxUploadSize = 10 << 20

type Handlers struct {
	services *service.Services
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{services: services}
}

// handleServiceError переводит ошибки сервисов в HTTP ответы
func (h *Handlers) handleServiceError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, apperrors.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrTicketNotFound),
		errors.Is(err, apperrors.ErrEventNotFound),
		errors.Is(err, apperrors.ErrProfileNotFound),
		errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrAlreadyCheckedIn),
		errors.Is(err, apperrors.ErrAlreadyDistributed),
		errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrTicketEventMismatch):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrStorageDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		logger.WithContext(c.Request.Context()).Error(message, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": message})
	}
}

// currentUser возвращает id пользователя из JWT; JWTAuth гарантирует его наличие
func currentUser(c *gin.Context) string {
	id, _ := middleware.GetUserID(c)
	return id
}

func parseInt64Param(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid %s", name)})
		return 0, false
	}
	return id, true
}

// withUpload открывает файл из поля "file" multipart формы и передает его fn
func withUpload(c *gin.Context, fn func(upload service.Upload)) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	if header.Size > maxUploadSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file is too large"})
		return
	}

	f, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read file"})
		return
	}
	defer f.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	fn(service.Upload{
		Filename:    header.Filename,
		ContentType: contentType,
		Size:        header.Size,
		Reader:      f,
	})
}
