package repository

import (
	"card_quiz_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

// ListByLevel 按题目顺序返回关卡全部题目（含知识点）
func (r *QuestionRepository) ListByLevel(levelID uint) ([]model.Question, error) {
	var questions []model.Question
	err := r.DB.Preload("KnowledgePoints").
		Where("level_id = ?", levelID).
		Order("sort_order, id").
		Find(&questions).Error
	return questions, err
}

func (r *QuestionRepository) FindByID(id uint) (*model.Question, error) {
	var q model.Question
	err := r.DB.Preload("KnowledgePoints").First(&q, id).Error
	return &q, err
}

func (r *QuestionRepository) NextOrder(levelID uint) (int, error) {
	var max *int
	err := r.DB.Model(&model.Question{}).
		Where("level_id = ?", levelID).
		Select("MAX(sort_order)").
		Scan(&max).Error
	if err != nil || max == nil {
		return 0, err
	}
	return *max + 1, nil
}

func (r *QuestionRepository) Create(q *model.Question) error {
	return r.DB.Create(q).Error
}

type AnswerRepository struct {
	DB *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) *AnswerRepository {
	return &AnswerRepository{DB: db}
}

// Save 同一用户同一题只保留最近一次作答
func (r *AnswerRepository) Save(answer *model.UserAnswer) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "question_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"answer_content", "is_correct", "score", "time_spent", "attempt_time"}),
	}).Create(answer).Error
}

func (r *AnswerRepository) MapByQuestions(userID uint, questionIDs []uint) (map[uint]model.UserAnswer, error) {
	result := make(map[uint]model.UserAnswer, len(questionIDs))
	if len(questionIDs) == 0 {
		return result, nil
	}
	var answers []model.UserAnswer
	err := r.DB.Where("user_id = ? AND question_id IN ?", userID, questionIDs).Find(&answers).Error
	if err != nil {
		return nil, err
	}
	for _, a := range answers {
		result[a.QuestionID] = a
	}
	return result, nil
}

type KnowledgePointRepository struct {
	DB *gorm.DB
}

func NewKnowledgePointRepository(db *gorm.DB) *KnowledgePointRepository {
	return &KnowledgePointRepository{DB: db}
}

// FindOrCreate 按名称返回知识点，不存在的自动创建
func (r *KnowledgePointRepository) FindOrCreate(names []string) ([]model.KnowledgePoint, error) {
	points := make([]model.KnowledgePoint, 0, len(names))
	for _, name := range names {
		kp := model.KnowledgePoint{Name: name}
		if err := r.DB.Where(model.KnowledgePoint{Name: name}).FirstOrCreate(&kp).Error; err != nil {
			return nil, err
		}
		points = append(points, kp)
	}
	return points, nil
}
