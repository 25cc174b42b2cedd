package board

import (
	"github.com/sirupsen/logrus"
	"pipeline-board/internal/models"
)

type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// Notice is a user-facing message produced by a board operation.
type Notice struct {
	Level   NoticeLevel
	Message string
	LeadID  string
}

type Notifier interface {
	Notify(session models.Session, n Notice)
}

// LogNotifier writes notices to the structured log.
type LogNotifier struct{}

func (LogNotifier) Notify(session models.Session, n Notice) {
	entry := logrus.WithFields(logrus.Fields{
		"user_id": session.UserID.String(),
		"level":   string(n.Level),
	})
	if n.LeadID != "" {
		entry = entry.WithField("lead_id", n.LeadID)
	}
	switch n.Level {
	case NoticeError:
		entry.Warn(n.Message)
	default:
		entry.Info(n.Message)
	}
}
