package model

import (
	"time"

	"gorm.io/datatypes"
)

type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionTrueFalse      QuestionType = "true_false"
	QuestionFillBlank      QuestionType = "fill_blank"
	QuestionMatching       QuestionType = "matching"
)

// MatchItem 连线题左右两侧的项目
type MatchItem struct {
	ID      int    `json:"id"`
	Content string `json:"content"`
}

// ChoiceOption 选择题选项
type ChoiceOption struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

// swagger:model Question
type Question struct {
	BaseModel
	LevelID    uint         `gorm:"index;not null" json:"levelId"`
	Type       QuestionType `gorm:"column:question_type;size:50;not null" json:"questionType"`
	Content    string       `gorm:"type:text;not null" json:"content"`
	Difficulty int          `gorm:"default:1" json:"difficulty"`
	Score      int          `gorm:"default:1" json:"score"`
	Order      int          `gorm:"column:sort_order;default:0" json:"order"`
	// multiple_choice: []ChoiceOption
	Options datatypes.JSON `gorm:"type:json" json:"options,omitempty"`
	// multiple_choice: ["B"]; true_false: true; fill_blank: "x" / ["x", ["y","z"]]
	CorrectAnswer  datatypes.JSON `gorm:"type:json" json:"-"`
	CorrectMatches datatypes.JSON `gorm:"type:json" json:"-"`
	LeftItems      datatypes.JSON `gorm:"type:json" json:"leftItems,omitempty"`
	RightItems     datatypes.JSON `gorm:"type:json" json:"rightItems,omitempty"`
	BlanksCount    int            `gorm:"default:0" json:"blanksCount"`
	Explanation    string         `gorm:"type:text" json:"explanation"`

	KnowledgePoints []KnowledgePoint `gorm:"many2many:question_knowledge_points;" json:"knowledgePoints,omitempty"`
}

func (Question) TableName() string {
	return "questions"
}

// swagger:model UserAnswer
type UserAnswer struct {
	ID            uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID        uint           `gorm:"uniqueIndex:idx_user_question;not null" json:"userId"`
	QuestionID    uint           `gorm:"uniqueIndex:idx_user_question;not null" json:"questionId"`
	AnswerContent datatypes.JSON `gorm:"type:json;not null" json:"answerContent"`
	IsCorrect     bool           `gorm:"not null" json:"isCorrect"`
	Score         int            `gorm:"not null" json:"score"`
	AttemptTime   time.Time      `gorm:"autoCreateTime" json:"attemptTime"`
	TimeSpent     int            `json:"timeSpent"` // 花费时间（秒）
}

func (UserAnswer) TableName() string {
	return "user_answers"
}
