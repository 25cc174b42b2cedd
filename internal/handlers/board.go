package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"pipeline-board/internal/board"
	"pipeline-board/internal/layout"
	"pipeline-board/internal/models"
	"pipeline-board/internal/services"
)

type BoardHandler struct {
	base
}

func NewBoardHandler(boards *services.BoardService) *BoardHandler {
	return &BoardHandler{base: base{boards: boards}}
}

// GetBoard returns the stage columns after filtering, with the caller's
// column layout applied. The missing payment counter covers the whole board.
func (h *BoardHandler) GetBoard(c *gin.Context) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}

	filter := layout.Filter{
		Search:             c.Query("search"),
		ProductType:        c.Query("product_type"),
		Status:             models.Status(c.Query("status")),
		MissingPaymentOnly: c.Query("missing_payment") == "true",
	}
	if filter.Status != "" && filter.Status != "all" && !filter.Status.Valid() {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid status filter"})
		return
	}

	leads := ws.Board.Leads()
	views := ws.Layout.View(leads, filter)

	columns := make([]models.ColumnResponse, len(views))
	for i, v := range views {
		col := models.ColumnResponse{
			Status:       v.Status,
			Label:        v.Label,
			State:        v.State.String(),
			Width:        v.Width,
			DisplayWidth: v.DisplayWidth,
			Count:        len(v.Leads),
			Leads:        make([]models.LeadResponse, len(v.Leads)),
		}
		for j, lead := range v.Leads {
			col.Leads[j] = toLeadResponse(lead)
		}
		columns[i] = col
	}

	c.JSON(http.StatusOK, models.BoardResponse{
		Columns:            columns,
		MissingPaymentInfo: layout.MissingPaymentCount(leads),
		SelectionActive:    ws.Selection.Active(),
		SelectedLeadIDs:    idsToStrings(ws.Selection.Selected()),
	})
}

// MoveLead handles a card drop onto a column or onto another card.
func (h *BoardHandler) MoveLead(c *gin.Context) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}
	leadID, ok := parseID(c, "lead_id")
	if !ok {
		return
	}

	var req models.MoveRequest
	if !bindJSON(c, &req) {
		return
	}

	target := board.DropTarget{Status: req.TargetStatus}
	if req.OverLeadID != "" {
		target.OverLeadID = uuid.MustParse(req.OverLeadID)
	}

	result, err := ws.Board.BeginTransition(c.Request.Context(), leadID, target)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.MoveResponse{
		Lead:    toLeadResponse(result.Lead),
		From:    result.From,
		To:      result.To,
		Changed: result.Changed,
		Warning: result.Warning,
	})
}

func (h *BoardHandler) GetStats(c *gin.Context) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}

	stats := ws.Board.Stats()
	resp := models.StatsResponse{
		Stages:             make([]models.StageStatsResponse, len(stats.Stages)),
		TotalLeads:         stats.TotalLeads,
		TotalValue:         stats.TotalValue,
		MissingPaymentInfo: stats.MissingPaymentInfo,
		ByPaymentType:      make(map[string]int, len(stats.ByPaymentType)),
		Unpaid:             stats.Unpaid,
	}
	for i, st := range stats.Stages {
		resp.Stages[i] = models.StageStatsResponse{
			Status: st.Status,
			Label:  st.Status.Label(),
			Count:  st.Count,
			Value:  st.Value,
		}
	}
	for pt, n := range stats.ByPaymentType {
		resp.ByPaymentType[string(pt)] = n
	}

	c.JSON(http.StatusOK, resp)
}
