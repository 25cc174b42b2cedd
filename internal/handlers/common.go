package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"pipeline-board/internal/board"
	"pipeline-board/internal/layout"
	"pipeline-board/internal/logging"
	"pipeline-board/internal/middleware"
	"pipeline-board/internal/models"
	"pipeline-board/internal/rules"
	"pipeline-board/internal/selection"
	"pipeline-board/internal/services"
)

// base resolves the caller's workspace for every board-backed handler.
type base struct {
	boards *services.BoardService
}

func (b base) workspace(c *gin.Context) (*services.Workspace, bool) {
	if b.boards == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "board service not available"})
		return nil, false
	}

	session, ok := middleware.SessionFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "user id not found"})
		return nil, false
	}

	ws, err := b.boards.Workspace(c.Request.Context(), session)
	if err != nil {
		writeError(c, err)
		return nil, false
	}
	return ws, true
}

func parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid " + param})
		return uuid.Nil, false
	}
	return id, true
}

// bindJSON decodes and validates a request body.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
		})
		return false
	}
	if err := models.ValidateStruct(req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "validation failed",
			Message: err.Error(),
		})
		return false
	}
	return true
}

func writeError(c *gin.Context, err error) {
	var rejection *rules.Rejection
	status := http.StatusInternalServerError
	resp := models.ErrorResponse{Error: "internal error", Message: err.Error()}

	switch {
	case errors.As(err, &rejection):
		status = http.StatusUnprocessableEntity
		resp = models.ErrorResponse{Error: "transition rejected", Message: rejection.Reason}
	case errors.Is(err, board.ErrLeadNotFound), errors.Is(err, board.ErrDeletedNotFound):
		status = http.StatusNotFound
		resp.Error = "not found"
	case errors.Is(err, board.ErrUnknownTarget), errors.Is(err, layout.ErrUnknownColumn):
		status = http.StatusBadRequest
		resp.Error = "invalid target"
	case errors.Is(err, board.ErrForbidden):
		status = http.StatusForbidden
		resp.Error = "forbidden"
	case errors.Is(err, board.ErrRestoreExpired):
		status = http.StatusGone
		resp.Error = "restore window expired"
	case errors.Is(err, selection.ErrNotActive):
		status = http.StatusConflict
		resp.Error = "selection mode is not active"
	case errors.Is(err, selection.ErrEmptySelection):
		status = http.StatusBadRequest
		resp.Error = "no leads selected"
	case errors.Is(err, selection.ErrBulkDelete):
		status = http.StatusBadGateway
		resp = models.ErrorResponse{Error: "bulk delete failed", Message: "Failed to delete selected orders, please retry"}
	case errors.Is(err, services.ErrUnsupportedFile):
		status = http.StatusUnsupportedMediaType
		resp.Error = "unsupported file"
	case errors.Is(err, services.ErrFileTooLarge):
		status = http.StatusRequestEntityTooLarge
		resp.Error = "file too large"
	case errors.Is(err, board.ErrRemote):
		status = http.StatusBadGateway
		resp.Error = "remote store unavailable"
	}

	if status >= http.StatusInternalServerError {
		logging.LogError("request_failed", err, map[string]interface{}{
			"path":   c.FullPath(),
			"method": c.Request.Method,
		})
	}
	c.JSON(status, resp)
}

func toLeadResponse(lead models.Lead) models.LeadResponse {
	if lead.OrderItems == nil {
		lead.OrderItems = []models.OrderItem{}
	}
	return models.LeadResponse{
		Lead:               lead,
		TotalValue:         lead.Total(),
		MissingPaymentInfo: rules.MissingPaymentInfo(lead),
	}
}

func idsToStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
