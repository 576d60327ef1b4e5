package quiz

import (
	"fmt"
	"time"
)

type LevelStatus string

const (
	LevelLocked    LevelStatus = "locked"
	LevelUnlocked  LevelStatus = "unlocked"
	LevelCompleted LevelStatus = "completed"
)

// LevelCard 地图上的一个关卡卡片
type LevelCard struct {
	ID     uint        `json:"id"`
	Status LevelStatus `json:"status"`
}

func (c LevelCard) Clickable() bool {
	return c.Status == LevelUnlocked || c.Status == LevelCompleted
}

type NavMode int

const (
	NavQuestionList NavMode = iota
	NavQuizEntry
)

// CardTarget returns the URL a clickable card leads to.
func CardTarget(card LevelCard, mode NavMode) (string, error) {
	if !card.Clickable() {
		return "", fmt.Errorf("%w: %d", ErrLevelLocked, card.ID)
	}
	if mode == NavQuizEntry {
		return fmt.Sprintf("/quiz/%d", card.ID), nil
	}
	return fmt.Sprintf("/level/%d/questions", card.ID), nil
}

// PressAnimation is the cosmetic press feedback of cards and buttons.
type PressAnimation struct {
	Scale    float64
	Duration time.Duration
}

var (
	CardPress   = PressAnimation{Scale: 0.98, Duration: 200 * time.Millisecond}
	ButtonPress = PressAnimation{Scale: 0.95, Duration: 200 * time.Millisecond}
)
