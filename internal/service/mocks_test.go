package service

import (
	"card_quiz_backend/internal/model"

	"github.com/stretchr/testify/mock"
)

// MockUserStore is a mock implementation of UserStore
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) Create(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserStore) FindByID(id uint) (*model.User, error) {
	args := m.Called(id)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *MockUserStore) FindByUsername(username string) (*model.User, error) {
	args := m.Called(username)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *MockUserStore) TouchLogin(userID uint) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockUserStore) UpdateLastSelection(userID uint, grade, course string) error {
	args := m.Called(userID, grade, course)
	return args.Error(0)
}

// MockCourseStore is a mock implementation of CourseStore
type MockCourseStore struct {
	mock.Mock
}

func (m *MockCourseStore) ListByGrade(grade string) ([]model.Course, error) {
	args := m.Called(grade)
	c, _ := args.Get(0).([]model.Course)
	return c, args.Error(1)
}

func (m *MockCourseStore) FindByGradeAndName(grade, name string) (*model.Course, error) {
	args := m.Called(grade, name)
	c, _ := args.Get(0).(*model.Course)
	return c, args.Error(1)
}

func (m *MockCourseStore) FindWithLevels(id uint) (*model.Course, error) {
	args := m.Called(id)
	c, _ := args.Get(0).(*model.Course)
	return c, args.Error(1)
}

// MockLevelStore is a mock implementation of LevelStore
type MockLevelStore struct {
	mock.Mock
}

func (m *MockLevelStore) FindByID(id uint) (*model.Level, error) {
	args := m.Called(id)
	l, _ := args.Get(0).(*model.Level)
	return l, args.Error(1)
}

func (m *MockLevelStore) FindNext(level *model.Level) (*model.Level, error) {
	args := m.Called(level)
	l, _ := args.Get(0).(*model.Level)
	return l, args.Error(1)
}

func (m *MockLevelStore) UpdateCover(id uint, url string) error {
	args := m.Called(id, url)
	return args.Error(0)
}

// MockProgressStore is a mock implementation of ProgressStore
type MockProgressStore struct {
	mock.Mock
}

func (m *MockProgressStore) StatusMap(userID uint, levelIDs []uint) (map[uint]model.ProgressStatus, error) {
	args := m.Called(userID, levelIDs)
	s, _ := args.Get(0).(map[uint]model.ProgressStatus)
	return s, args.Error(1)
}

func (m *MockProgressStore) GetStatus(userID, levelID uint) (model.ProgressStatus, bool, error) {
	args := m.Called(userID, levelID)
	return args.Get(0).(model.ProgressStatus), args.Bool(1), args.Error(2)
}

func (m *MockProgressStore) CreateMissing(rows []model.UserProgress) error {
	args := m.Called(rows)
	return args.Error(0)
}

func (m *MockProgressStore) SetStatus(userID, levelID uint, status model.ProgressStatus) error {
	args := m.Called(userID, levelID, status)
	return args.Error(0)
}

func (m *MockProgressStore) Complete(userID, levelID uint, next *model.Level) error {
	args := m.Called(userID, levelID, next)
	return args.Error(0)
}

// MockQuestionStore is a mock implementation of QuestionStore
type MockQuestionStore struct {
	mock.Mock
}

func (m *MockQuestionStore) ListByLevel(levelID uint) ([]model.Question, error) {
	args := m.Called(levelID)
	q, _ := args.Get(0).([]model.Question)
	return q, args.Error(1)
}

func (m *MockQuestionStore) FindByID(id uint) (*model.Question, error) {
	args := m.Called(id)
	q, _ := args.Get(0).(*model.Question)
	return q, args.Error(1)
}

func (m *MockQuestionStore) NextOrder(levelID uint) (int, error) {
	args := m.Called(levelID)
	return args.Int(0), args.Error(1)
}

func (m *MockQuestionStore) Create(q *model.Question) error {
	args := m.Called(q)
	return args.Error(0)
}

// MockAnswerStore keeps saved answers in memory
type MockAnswerStore struct {
	saved map[uint]model.UserAnswer
}

func newAnswerStore() *MockAnswerStore {
	return &MockAnswerStore{saved: make(map[uint]model.UserAnswer)}
}

func (m *MockAnswerStore) Save(answer *model.UserAnswer) error {
	m.saved[answer.QuestionID] = *answer
	return nil
}

func (m *MockAnswerStore) MapByQuestions(userID uint, questionIDs []uint) (map[uint]model.UserAnswer, error) {
	out := make(map[uint]model.UserAnswer)
	for _, id := range questionIDs {
		if a, ok := m.saved[id]; ok && a.UserID == userID {
			out[id] = a
		}
	}
	return out, nil
}

// MockKnowledgePointStore is a mock implementation of KnowledgePointStore
type MockKnowledgePointStore struct {
	mock.Mock
}

func (m *MockKnowledgePointStore) FindOrCreate(names []string) ([]model.KnowledgePoint, error) {
	args := m.Called(names)
	p, _ := args.Get(0).([]model.KnowledgePoint)
	return p, args.Error(1)
}
