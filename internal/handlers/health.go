package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"pipeline-board/internal/models"
	"pipeline-board/internal/services"
)

// HealthHandler reports liveness and how many board workspaces are open.
func HealthHandler(boards *services.BoardService) gin.HandlerFunc {
	return func(c *gin.Context) {
		response := models.HealthResponse{Status: "ok"}
		if boards != nil {
			response.Workspaces = boards.Len()
		}
		c.JSON(http.StatusOK, response)
	}
}
