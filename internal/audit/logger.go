package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/garage-manager/internal/models"
)

const writeTimeout = 5 * time.Second

// Logger persists events to audit_logs. Metadata is stored as JSON text.
type Logger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Logger {
	return &Logger{db: db}
}

func (l *Logger) Write(ctx context.Context, ev Event) error {
	row := models.AuditLog{
		UserID:   ev.UserID,
		Action:   ev.Action,
		Entity:   ev.Entity,
		EntityID: ev.EntityID,
	}

	if ev.Metadata != nil {
		b, err := json.Marshal(ev.Metadata)
		if err != nil {
			return fmt.Errorf("encode audit metadata: %w", err)
		}
		row.Metadata = string(b)
	}

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	return l.db.WithContext(ctx).Create(&row).Error
}
