package api

import (
	"net/http"
	"path"
	"strings"

	"innovation_hunt/internal/service"
	"innovation_hunt/pkg/logger"
	"innovation_hunt/pkg/qr"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
)

type mediaRoutes struct {
	users     *service.UserService
	botNumber string
}

func NewMediaRoutes(handler *gin.RouterGroup, users *service.UserService, botNumber string) {
	r := &mediaRoutes{
		users:     users,
		botNumber: botNumber,
	}
	h := handler.Group("/media")
	h.GET("/qr/:file", r.GetQR)
}

// GetQR serves /media/qr/<USER_ID>.png or .jpg. Twilio fetches the jpg
// variant when the registration media message goes out.
func (r *mediaRoutes) GetQR(c *gin.Context) {
	log := logger.Logger()

	file := c.Param("file")
	ext := path.Ext(file)
	userID := strings.ToUpper(strings.TrimSuffix(file, ext))

	if r.botNumber == "" || userID == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	user, err := r.users.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	var (
		data        []byte
		contentType string
	)
	switch ext {
	case ".png":
		data, err = qr.PNG(r.botNumber, user.UserID)
		contentType = "image/png"
	case ".jpg", ".jpeg":
		data, err = qr.JPEG(r.botNumber, user.UserID)
		contentType = "image/jpeg"
	default:
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if err != nil {
		log.Error("failed to render qr code", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.Data(http.StatusOK, contentType, data)
}
