package model

import "time"

type ProgressStatus string

const (
	ProgressLocked    ProgressStatus = "locked"
	ProgressUnlocked  ProgressStatus = "unlocked"
	ProgressCompleted ProgressStatus = "completed"
)

// swagger:model UserProgress
type UserProgress struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint           `gorm:"uniqueIndex:idx_user_level;not null" json:"userId"`
	LevelID   uint           `gorm:"uniqueIndex:idx_user_level;not null" json:"levelId"`
	Status    ProgressStatus `gorm:"type:enum('locked','unlocked','completed');default:'locked'" json:"status"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

func (UserProgress) TableName() string {
	return "user_progress"
}
