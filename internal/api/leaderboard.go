package api

import (
	"net/http"
	"strconv"

	"innovation_hunt/internal/service"
	"innovation_hunt/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
)

const maxLeaderboardLimit = 100

type leaderboardRoutes struct {
	game *service.GameService
}

func NewLeaderboardRoutes(handler *gin.RouterGroup, game *service.GameService) {
	r := &leaderboardRoutes{game: game}
	handler.GET("/leaderboard", r.GetLeaderboard)
}

func (r *leaderboardRoutes) GetLeaderboard(c *gin.Context) {
	log := logger.Logger()

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}
	if limit > maxLeaderboardLimit {
		limit = maxLeaderboardLimit
	}

	entries, err := r.game.Leaderboard(c.Request.Context(), limit)
	if err != nil {
		log.Error("failed to read leaderboard", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"top": entries})
}
