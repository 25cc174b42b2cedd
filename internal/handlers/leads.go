package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"pipeline-board/internal/models"
	"pipeline-board/internal/services"
)

type LeadsHandler struct {
	base
	attachments *services.AttachmentService
}

func NewLeadsHandler(boards *services.BoardService, attachments *services.AttachmentService) *LeadsHandler {
	return &LeadsHandler{base: base{boards: boards}, attachments: attachments}
}

func (h *LeadsHandler) CreateLead(c *gin.Context) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}

	var req models.CreateLeadRequest
	if !bindJSON(c, &req) {
		return
	}

	lead, err := ws.Board.CreateLead(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toLeadResponse(*lead))
}

func (h *LeadsHandler) UpdateLead(c *gin.Context) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}
	leadID, ok := parseID(c, "lead_id")
	if !ok {
		return
	}

	var req models.UpdateLeadRequest
	if !bindJSON(c, &req) {
		return
	}

	lead, err := ws.Board.UpdateFields(c.Request.Context(), leadID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toLeadResponse(*lead))
}

func (h *LeadsHandler) UpdateTracking(c *gin.Context) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}
	leadID, ok := parseID(c, "lead_id")
	if !ok {
		return
	}

	var req models.TrackingRequest
	if !bindJSON(c, &req) {
		return
	}

	lead, err := ws.Board.UpdateTracking(c.Request.Context(), leadID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toLeadResponse(*lead))
}

func (h *LeadsHandler) ListPhotos(c *gin.Context) {
	if h.attachments == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "storage not available"})
		return
	}
	ws, ok := h.workspace(c)
	if !ok {
		return
	}
	leadID, ok := parseID(c, "lead_id")
	if !ok {
		return
	}

	files, err := h.attachments.Photos(ws.Board, leadID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.AttachmentsResponse{Files: files})
}

// UploadPhoto stores the multipart "photo" file against the lead.
func (h *LeadsHandler) UploadPhoto(c *gin.Context) {
	if h.attachments == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "storage not available"})
		return
	}
	ws, ok := h.workspace(c)
	if !ok {
		return
	}
	leadID, ok := parseID(c, "lead_id")
	if !ok {
		return
	}

	// Allow for the multipart framing around the file itself.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, services.MaxPhotoSize+1<<20)
	header, err := c.FormFile("photo")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(c, services.ErrFileTooLarge)
			return
		}
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "missing photo file",
			Message: err.Error(),
		})
		return
	}
	if header.Size > services.MaxPhotoSize {
		writeError(c, services.ErrFileTooLarge)
		return
	}
	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "failed to open file", Message: err.Error()})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, services.MaxPhotoSize+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "failed to read file", Message: err.Error()})
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}

	attachment, err := h.attachments.AddPhoto(ws.Board, leadID, header.Filename, contentType, data)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, attachment)
}

func (h *LeadsHandler) DeletePhoto(c *gin.Context) {
	if h.attachments == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "storage not available"})
		return
	}
	ws, ok := h.workspace(c)
	if !ok {
		return
	}
	leadID, ok := parseID(c, "lead_id")
	if !ok {
		return
	}

	if err := h.attachments.RemovePhoto(ws.Board, leadID, c.Param("filename")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
