package service

import (
	"card_quiz_backend/internal/model"
	"context"
)

// 以下接口由 internal/repository 中的具体仓储实现，服务层只依赖需要的方法

type UserStore interface {
	Create(user *model.User) error
	FindByID(id uint) (*model.User, error)
	FindByUsername(username string) (*model.User, error)
	TouchLogin(userID uint) error
	UpdateLastSelection(userID uint, grade, course string) error
}

type CourseStore interface {
	ListByGrade(grade string) ([]model.Course, error)
	FindByGradeAndName(grade, name string) (*model.Course, error)
	FindWithLevels(id uint) (*model.Course, error)
}

type LevelStore interface {
	FindByID(id uint) (*model.Level, error)
	FindNext(level *model.Level) (*model.Level, error)
	UpdateCover(id uint, url string) error
}

type ProgressStore interface {
	StatusMap(userID uint, levelIDs []uint) (map[uint]model.ProgressStatus, error)
	GetStatus(userID, levelID uint) (model.ProgressStatus, bool, error)
	CreateMissing(rows []model.UserProgress) error
	SetStatus(userID, levelID uint, status model.ProgressStatus) error
	Complete(userID, levelID uint, next *model.Level) error
}

type QuestionStore interface {
	ListByLevel(levelID uint) ([]model.Question, error)
	FindByID(id uint) (*model.Question, error)
	NextOrder(levelID uint) (int, error)
	Create(q *model.Question) error
}

type AnswerStore interface {
	Save(answer *model.UserAnswer) error
	MapByQuestions(userID uint, questionIDs []uint) (map[uint]model.UserAnswer, error)
}

type KnowledgePointStore interface {
	FindOrCreate(names []string) ([]model.KnowledgePoint, error)
}

type HeartsStore interface {
	Get(ctx context.Context, userID, levelID uint) (int, bool, error)
	Set(ctx context.Context, userID, levelID uint, hearts int) error
	Lower(ctx context.Context, userID, levelID uint, target, initial int) (before, after int, err error)
	SetPageHearts(ctx context.Context, userID, levelID uint, index, hearts int) error
	PageHearts(ctx context.Context, userID, levelID uint, index int) (int, bool, error)
	Reset(ctx context.Context, userID, levelID uint) error
	SetActiveLevel(ctx context.Context, userID, levelID uint) error
	ActiveLevel(ctx context.Context, userID uint) (uint, bool, error)
}
