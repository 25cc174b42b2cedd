package handlers

import (
	"github.com/gin-gonic/gin"
	"pipeline-board/internal/middleware"
	"pipeline-board/internal/services"
)

// RegisterRoutes mounts the health check and the authenticated /api/v1 API.
func RegisterRoutes(router *gin.Engine, jwtSecret string, boards *services.BoardService, attachments *services.AttachmentService) {
	router.GET("/health", HealthHandler(boards))

	boardHandler := NewBoardHandler(boards)
	leadsHandler := NewLeadsHandler(boards, attachments)
	preferencesHandler := NewPreferencesHandler(boards)
	selectionHandler := NewSelectionHandler(boards)
	trashHandler := NewTrashHandler(boards)

	api := router.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(jwtSecret))

	// Board
	api.GET("/board", boardHandler.GetBoard)
	api.GET("/stats", boardHandler.GetStats)

	// Leads
	api.POST("/leads", leadsHandler.CreateLead)
	api.PATCH("/leads/:lead_id", leadsHandler.UpdateLead)
	api.PATCH("/leads/:lead_id/tracking", leadsHandler.UpdateTracking)
	api.POST("/leads/:lead_id/move", boardHandler.MoveLead)
	api.GET("/leads/:lead_id/photos", leadsHandler.ListPhotos)
	api.POST("/leads/:lead_id/photos", leadsHandler.UploadPhoto)
	api.DELETE("/leads/:lead_id/photos/:filename", leadsHandler.DeletePhoto)

	// Column layout
	api.GET("/preferences", preferencesHandler.GetPreferences)
	api.POST("/preferences/flush", preferencesHandler.Flush)
	api.PUT("/preferences/columns/:status/width", preferencesHandler.ResizeColumn)
	api.POST("/preferences/columns/:status/:action", preferencesHandler.SetColumnState)

	// Selection and bulk actions
	api.POST("/selection/enter", selectionHandler.Enter)
	api.POST("/selection/exit", selectionHandler.Exit)
	api.POST("/selection/toggle", selectionHandler.Toggle)
	api.POST("/selection/delete", selectionHandler.BulkDelete)

	// Trash
	api.GET("/trash", trashHandler.ListTrash)
	api.POST("/trash/:deleted_id/restore", trashHandler.Restore)
}
