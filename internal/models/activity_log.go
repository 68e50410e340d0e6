package models

import "time"

type ActivityLog struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID string `gorm:"size:64;index" json:"user_id"`
	Role   string `gorm:"size:20" json:"role"`
	Action string `gorm:"size:50;not null;index" json:"action"`

	Entity   string `gorm:"size:50" json:"entity"`
	EntityID string `gorm:"size:64" json:"entity_id"`
	Outcome  string `gorm:"size:30" json:"outcome"`
	Metadata string `gorm:"type:text" json:"metadata"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
