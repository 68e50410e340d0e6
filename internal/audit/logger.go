package audit

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/synap5e/homehero-web/internal/models"
)

// Logger stores events as activity_logs rows.
type Logger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Logger {
	return &Logger{db: db}
}

func (l *Logger) Log(ctx context.Context, ev Event) error {
	var metaJSON string
	if ev.Metadata != nil {
		if b, err := json.Marshal(ev.Metadata); err == nil {
			metaJSON = string(b)
		}
	}

	row := models.ActivityLog{
		UserID:   ev.UserID,
		Role:     ev.Role,
		Action:   ev.Action,
		Entity:   ev.Entity,
		EntityID: ev.EntityID,
		Outcome:  ev.Outcome,
		Metadata: metaJSON,
	}

	return l.db.WithContext(ctx).Create(&row).Error
}

type Query struct {
	Action string
	Entity string
	UserID string
	From   *time.Time
	To     *time.Time
	Page   int
	Limit  int
}

type Page struct {
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
	Total int64                `json:"total"`
	Logs  []models.ActivityLog `json:"logs"`
}

// Normalize clamps paging to page >= 1 and 1..200 rows.
func (q *Query) Normalize() {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Limit <= 0 || q.Limit > 200 {
		q.Limit = 50
	}
}

func (l *Logger) List(ctx context.Context, q Query) (*Page, error) {
	q.Normalize()

	tx := l.db.WithContext(ctx).Model(&models.ActivityLog{})
	if q.Action != "" {
		tx = tx.Where("action = ?", q.Action)
	}
	if q.Entity != "" {
		tx = tx.Where("entity = ?", q.Entity)
	}
	if q.UserID != "" {
		tx = tx.Where("user_id = ?", q.UserID)
	}
	if q.From != nil {
		tx = tx.Where("created_at >= ?", *q.From)
	}
	if q.To != nil {
		tx = tx.Where("created_at < ?", *q.To)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, err
	}

	logs := []models.ActivityLog{}
	if err := tx.
		Order("created_at DESC").
		Order("id DESC").
		Limit(q.Limit).
		Offset((q.Page - 1) * q.Limit).
		Find(&logs).Error; err != nil {
		return nil, err
	}

	return &Page{Page: q.Page, Limit: q.Limit, Total: total, Logs: logs}, nil
}

// ZapSink writes events to the process log when no database is configured.
type ZapSink struct {
	log *zap.Logger
}

func NewZapSink(log *zap.Logger) *ZapSink {
	return &ZapSink{log: log}
}

func (z *ZapSink) Log(_ context.Context, ev Event) error {
	z.log.Info("activity",
		zap.String("user_id", ev.UserID),
		zap.String("role", ev.Role),
		zap.String("action", ev.Action),
		zap.String("entity", ev.Entity),
		zap.String("entity_id", ev.EntityID),
		zap.String("outcome", ev.Outcome),
		zap.Any("metadata", ev.Metadata),
	)
	return nil
}
