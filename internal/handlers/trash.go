package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"pipeline-board/internal/models"
	"pipeline-board/internal/services"
)

type TrashHandler struct {
	base
}

func NewTrashHandler(boards *services.BoardService) *TrashHandler {
	return &TrashHandler{base: base{boards: boards}}
}

func (h *TrashHandler) ListTrash(c *gin.Context) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}

	deleted, err := ws.Board.ListDeleted(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	items := make([]models.DeletedLeadSummary, len(deleted))
	for i, d := range deleted {
		items[i] = models.DeletedLeadSummary{
			ID:              d.ID.String(),
			LeadID:          d.LeadID.String(),
			OrderID:         d.OrderID,
			CustomerName:    d.CustomerName,
			DeletedAt:       d.DeletedAt,
			RestoreDeadline: d.RestoreDeadline,
		}
	}
	c.JSON(http.StatusOK, models.TrashResponse{Items: items})
}

func (h *TrashHandler) Restore(c *gin.Context) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}
	deletedID, ok := parseID(c, "deleted_id")
	if !ok {
		return
	}

	lead, err := ws.Board.Restore(c.Request.Context(), deletedID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toLeadResponse(*lead))
}
