package services

import (
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"pipeline-board/internal/board"
	"pipeline-board/internal/logging"
	"pipeline-board/internal/models"
)

// MaxPhotoSize is the largest photo a lead can carry.
const MaxPhotoSize = 10 << 20

var (
	ErrUnsupportedFile = errors.New("only image files can be attached")
	ErrFileTooLarge    = errors.New("file exceeds 10MB")
)

// FileStore is the bucket lead photos are written to.
type FileStore interface {
	UploadFile(leadID uuid.UUID, filename, contentType string, data []byte) (string, string, error)
	ListLeadFiles(leadID uuid.UUID) ([]string, error)
	GetPublicURL(storagePath string) string
	DeleteFile(storagePath string) error
}

// AttachmentService stores customer photos and mockups for leads.
type AttachmentService struct {
	files FileStore
	now   func() time.Time
}

func NewAttachmentService(files FileStore) *AttachmentService {
	return &AttachmentService{files: files, now: time.Now}
}

func sanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		}
		return '_'
	}, name)
	if name == "" || name == "." || name == "_" {
		name = "photo"
	}
	return name
}

// AddPhoto uploads an image for a lead the user can see on their board.
func (s *AttachmentService) AddPhoto(ctrl *board.Controller, leadID uuid.UUID, filename, contentType string, data []byte) (*models.Attachment, error) {
	lead, ok := ctrl.Lead(leadID)
	if !ok {
		return nil, board.ErrLeadNotFound
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, ErrUnsupportedFile
	}
	if len(data) > MaxPhotoSize {
		return nil, ErrFileTooLarge
	}

	name := fmt.Sprintf("%s_%s", s.now().Format("20060102_150405"), sanitizeFilename(filename))
	storagePath, url, err := s.files.UploadFile(leadID, name, contentType, data)
	if err != nil {
		return nil, &board.RemoteError{Op: "upload photo", Err: err}
	}

	logging.LogEvent("lead_photo_uploaded", map[string]interface{}{
		"order_id": lead.OrderID,
		"path":     storagePath,
		"size":     len(data),
	})
	return &models.Attachment{
		Filename:    name,
		StoragePath: storagePath,
		URL:         url,
	}, nil
}

// Photos lists the files attached to a visible lead.
func (s *AttachmentService) Photos(ctrl *board.Controller, leadID uuid.UUID) ([]models.Attachment, error) {
	if _, ok := ctrl.Lead(leadID); !ok {
		return nil, board.ErrLeadNotFound
	}

	paths, err := s.files.ListLeadFiles(leadID)
	if err != nil {
		return nil, &board.RemoteError{Op: "list photos", Err: err}
	}
	out := make([]models.Attachment, len(paths))
	for i, p := range paths {
		out[i] = models.Attachment{
			Filename:    path.Base(p),
			StoragePath: p,
			URL:         s.files.GetPublicURL(p),
		}
	}
	return out, nil
}

// RemovePhoto deletes one of a visible lead's files by name.
func (s *AttachmentService) RemovePhoto(ctrl *board.Controller, leadID uuid.UUID, filename string) error {
	if !ctrl.Session().CanEditLeads() {
		return board.ErrForbidden
	}
	if _, ok := ctrl.Lead(leadID); !ok {
		return board.ErrLeadNotFound
	}
	name := sanitizeFilename(filename)
	if err := s.files.DeleteFile(path.Join("leads", leadID.String(), name)); err != nil {
		return &board.RemoteError{Op: "delete photo", Err: err}
	}
	logging.LogEvent("lead_photo_deleted", map[string]interface{}{
		"lead_id":  leadID.String(),
		"filename": name,
	})
	return nil
}
