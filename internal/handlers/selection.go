package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"pipeline-board/internal/models"
	"pipeline-board/internal/services"
)

type SelectionHandler struct {
	base
}

func NewSelectionHandler(boards *services.BoardService) *SelectionHandler {
	return &SelectionHandler{base: base{boards: boards}}
}

func selectionResponse(ws *services.Workspace) models.SelectionResponse {
	return models.SelectionResponse{
		Active:          ws.Selection.Active(),
		SelectedLeadIDs: idsToStrings(ws.Selection.Selected()),
	}
}

func (h *SelectionHandler) Enter(c *gin.Context) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}
	ws.Selection.Enter()
	c.JSON(http.StatusOK, selectionResponse(ws))
}

func (h *SelectionHandler) Exit(c *gin.Context) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}
	ws.Selection.Exit()
	c.JSON(http.StatusOK, selectionResponse(ws))
}

func (h *SelectionHandler) Toggle(c *gin.Context) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}

	var req models.ToggleSelectionRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := ws.Selection.Toggle(uuid.MustParse(req.LeadID), req.Selected); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, selectionResponse(ws))
}

// BulkDelete moves every selected lead to the trash.
func (h *SelectionHandler) BulkDelete(c *gin.Context) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}

	n, err := ws.Selection.BulkSoftDelete(c.Request.Context(), ws.Board)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.BulkDeleteResponse{Deleted: n})
}
