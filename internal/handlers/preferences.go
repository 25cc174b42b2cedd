package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"pipeline-board/internal/models"
	"pipeline-board/internal/services"
)

type PreferencesHandler struct {
	base
}

func NewPreferencesHandler(boards *services.BoardService) *PreferencesHandler {
	return &PreferencesHandler{base: base{boards: boards}}
}

func preferenceResponse(pref models.ViewPreference) models.PreferenceResponse {
	return models.PreferenceResponse{
		ColumnWidths:     pref.ColumnWidths,
		MinimizedColumns: pref.MinimizedColumns,
		MaximizedColumn:  pref.MaximizedColumn,
	}
}

func (h *PreferencesHandler) GetPreferences(c *gin.Context) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, preferenceResponse(ws.Layout.Preference()))
}

// ResizeColumn sets a column width. Widths outside [250,600] are clamped and
// the stored value is returned.
func (h *PreferencesHandler) ResizeColumn(c *gin.Context) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}

	var req models.ResizeRequest
	if !bindJSON(c, &req) {
		return
	}

	col := models.Status(c.Param("status"))
	width, err := ws.Layout.Resize(c.Request.Context(), col, req.Width)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ResizeResponse{Status: col, Width: width})
}

// SetColumnState applies minimize, maximize, restore or one of the toggles.
func (h *PreferencesHandler) SetColumnState(c *gin.Context) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	col := models.Status(c.Param("status"))

	var err error
	switch c.Param("action") {
	case "minimize":
		err = ws.Layout.Minimize(ctx, col)
	case "maximize":
		err = ws.Layout.Maximize(ctx, col)
	case "restore":
		err = ws.Layout.Restore(ctx, col)
	case "toggle-minimize":
		err = ws.Layout.ToggleMinimize(ctx, col)
	case "toggle-maximize":
		err = ws.Layout.ToggleMaximize(ctx, col)
	default:
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "unknown column action"})
		return
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, preferenceResponse(ws.Layout.Preference()))
}

// Flush forces pending layout changes to be written, e.g. at the end of a
// resize drag.
func (h *PreferencesHandler) Flush(c *gin.Context) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}
	if err := ws.Layout.Flush(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, preferenceResponse(ws.Layout.Preference()))
}

