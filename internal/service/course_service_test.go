package service

import (
	"card_quiz_backend/internal/model"
	"card_quiz_backend/internal/quiz"
	"card_quiz_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func level(id, unitID uint, order int) model.Level {
	l := model.Level{UnitID: unitID, Order: order, Title: "关卡"}
	l.ID = id
	return l
}

func sampleCourse() *model.Course {
	c := &model.Course{Grade: "三年级", Subject: "语文", Term: "上册"}
	c.ID = 1
	u1 := model.Unit{CourseID: 1, Name: "第一单元", Order: 1, Levels: []model.Level{level(10, 1, 1), level(11, 1, 2)}}
	u1.ID = 1
	mid := level(20, 2, 1)
	mid.IsMidterm = true
	u2 := model.Unit{CourseID: 1, Name: "期中测试", Order: 2, Levels: []model.Level{mid}}
	u2.ID = 2
	u3 := model.Unit{CourseID: 1, Name: "第二单元", Order: 3, Levels: []model.Level{level(30, 3, 1), level(31, 3, 2)}}
	u3.ID = 3
	c.Units = []model.Unit{u1, u2, u3}
	return c
}

func TestCourseService_GameMapCreatesMissingProgress(t *testing.T) {
	courses := new(MockCourseStore)
	progress := new(MockProgressStore)
	svc := NewCourseService(courses, new(MockUserStore), progress)

	courses.On("FindWithLevels", uint(1)).Return(sampleCourse(), nil)
	progress.On("StatusMap", uint(5), []uint{10, 11, 20, 30, 31}).
		Return(map[uint]model.ProgressStatus{10: model.ProgressCompleted, 11: model.ProgressUnlocked}, nil)

	var created []model.UserProgress
	progress.On("CreateMissing", mock.Anything).Run(func(args mock.Arguments) {
		created = args.Get(0).([]model.UserProgress)
	}).Return(nil)

	gm, err := svc.GameMap(5, 1, quiz.NavQuizEntry)
	require.NoError(t, err)
	require.Len(t, gm.Units, 3)
	assert.Equal(t, "语文上册", gm.Course.Name)

	first := gm.Units[0].Levels
	assert.Equal(t, quiz.LevelCompleted, first[0].Status)
	assert.Equal(t, "/quiz/10", first[0].Target)
	assert.Equal(t, quiz.LevelUnlocked, first[1].Status)

	assert.Equal(t, quiz.LevelUnlocked, gm.Units[1].Levels[0].Status, "midterm levels start unlocked")
	assert.Equal(t, quiz.LevelUnlocked, gm.Units[2].Levels[0].Status, "first level of a unit starts unlocked")

	locked := gm.Units[2].Levels[1]
	assert.Equal(t, quiz.LevelLocked, locked.Status)
	assert.False(t, locked.Clickable)
	assert.Empty(t, locked.Target)

	require.Len(t, created, 3)
	statuses := map[uint]model.ProgressStatus{}
	for _, row := range created {
		assert.Equal(t, uint(5), row.UserID)
		statuses[row.LevelID] = row.Status
	}
	assert.Equal(t, map[uint]model.ProgressStatus{
		20: model.ProgressUnlocked,
		30: model.ProgressUnlocked,
		31: model.ProgressLocked,
	}, statuses)
}

func TestCourseService_GameMapQuestionListTargets(t *testing.T) {
	courses := new(MockCourseStore)
	progress := new(MockProgressStore)
	svc := NewCourseService(courses, new(MockUserStore), progress)

	courses.On("FindWithLevels", uint(1)).Return(sampleCourse(), nil)
	progress.On("StatusMap", uint(5), mock.Anything).Return(map[uint]model.ProgressStatus{}, nil)
	progress.On("CreateMissing", mock.Anything).Return(nil)

	gm, err := svc.GameMap(5, 1, quiz.NavQuestionList)
	require.NoError(t, err)
	assert.Equal(t, "/level/10/questions", gm.Units[0].Levels[0].Target)
}

func TestCourseService_GameMapUnknownCourse(t *testing.T) {
	courses := new(MockCourseStore)
	svc := NewCourseService(courses, new(MockUserStore), new(MockProgressStore))
	courses.On("FindWithLevels", uint(9)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.GameMap(5, 9, quiz.NavQuizEntry)
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}

func TestCourseService_SelectAndCurrent(t *testing.T) {
	courses := new(MockCourseStore)
	users := new(MockUserStore)
	svc := NewCourseService(courses, users, new(MockProgressStore))

	course := sampleCourse()
	courses.On("FindByGradeAndName", "三年级", "语文 上册").Return(course, nil)
	courses.On("FindByGradeAndName", "三年级", "语文上册").Return(course, nil)
	users.On("UpdateLastSelection", uint(3), "三年级", "语文上册").Return(nil).Once()

	summary, err := svc.SelectCourse(3, "三年级", "语文 上册")
	require.NoError(t, err)
	assert.Equal(t, uint(1), summary.ID)

	tests := []struct {
		name  string
		user  *model.User
		next  NextStep
		grade string
	}{
		{"no selection", &model.User{}, StepSelectGrade, ""},
		{"grade only", &model.User{LastGrade: "三年级"}, StepSelectCourse, "三年级"},
		{"full selection", &model.User{LastGrade: "三年级", LastCourse: "语文上册"}, StepCourse, "三年级"},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := uint(100 + i)
			users.On("FindByID", id).Return(tt.user, nil)
			cur, err := svc.CurrentCourse(id)
			require.NoError(t, err)
			assert.Equal(t, tt.next, cur.Next)
			assert.Equal(t, tt.grade, cur.Grade)
			if tt.next == StepCourse {
				require.NotNil(t, cur.Course)
				assert.Equal(t, "语文上册", cur.Course.Name)
			}
		})
	}
	users.AssertExpectations(t)
}

func TestCourseService_SelectUnknownCourse(t *testing.T) {
	courses := new(MockCourseStore)
	svc := NewCourseService(courses, new(MockUserStore), new(MockProgressStore))
	courses.On("FindByGradeAndName", "三年级", "物理上册").Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.SelectCourse(3, "三年级", "物理上册")
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}
