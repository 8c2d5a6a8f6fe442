package audit

import (
	"encoding/json"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"securerisk/internal/models"
)

// Recorder appends audit-trail rows for auth events and risk
// mutations. Recording is best effort: a failed append is logged and
// never fails the request that triggered it.
type Recorder struct {
	db *gorm.DB
	lg *zap.SugaredLogger
}

func NewRecorder(db *gorm.DB, lg *zap.SugaredLogger) *Recorder {
	return &Recorder{db: db, lg: lg}
}

func (r *Recorder) Record(userID, action string, meta map[string]any) {
	entry := models.AuditLog{
		UserID:    userID,
		Action:    action,
		CreatedAt: time.Now().UTC(),
	}
	if meta != nil {
		if b, err := json.Marshal(meta); err == nil {
			entry.Metadata = b
		}
	}
	if err := r.db.Create(&entry).Error; err != nil {
		r.lg.Warnw("audit append failed", "action", action, "error", err)
	}
}

// Recent returns up to 200 newest entries, scoped to one user unless
// all is set.
func (r *Recorder) Recent(userID string, all bool) ([]models.AuditLog, error) {
	logs := make([]models.AuditLog, 0)
	q := r.db.Order("created_at desc").Limit(200)
	if !all {
		q = q.Where("user_id = ?", userID)
	}
	if err := q.Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
