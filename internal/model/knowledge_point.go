package model

// swagger:model KnowledgePoint
type KnowledgePoint struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Category    string `gorm:"size:50" json:"category"` // 类别（阅读、词汇、文学常识等）
	Description string `gorm:"type:text" json:"description"`
}

func (KnowledgePoint) TableName() string {
	return "knowledge_points"
}

// QuestionKnowledgePoint 题目-知识点关联表
type QuestionKnowledgePoint struct {
	QuestionID       uint `gorm:"primaryKey"`
	KnowledgePointID uint `gorm:"primaryKey"`
}

func (QuestionKnowledgePoint) TableName() string {
	return "question_knowledge_points"
}
