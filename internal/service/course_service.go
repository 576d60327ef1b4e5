package service

import (
	"card_quiz_backend/internal/model"
	"card_quiz_backend/internal/quiz"
	"card_quiz_backend/internal/util"
	"errors"

	"gorm.io/gorm"
)

// DefaultCourseCatalog 每个年级可选的科目与学期
var DefaultCourseCatalog = map[string][]string{
	"语文": {"上册", "下册"},
	"数学": {"上册", "下册"},
	"英语": {"上册", "下册"},
}

type CourseService struct {
	CourseRepo   CourseStore
	UserRepo     UserStore
	ProgressRepo ProgressStore
}

func NewCourseService(courseRepo CourseStore, userRepo UserStore, progressRepo ProgressStore) *CourseService {
	return &CourseService{CourseRepo: courseRepo, UserRepo: userRepo, ProgressRepo: progressRepo}
}

type CourseSummary struct {
	ID      uint   `json:"id"`
	Grade   string `json:"grade"`
	Subject string `json:"subject"`
	Term    string `json:"term"`
	Name    string `json:"name"`
}

// GradeCourses 年级下的课程：已建课程列表与可选目录
type GradeCourses struct {
	Grade   string              `json:"grade"`
	Courses []CourseSummary     `json:"courses"`
	Catalog map[string][]string `json:"catalog"`
}

func (s *CourseService) ListCourses(grade string) (*GradeCourses, error) {
	courses, err := s.CourseRepo.ListByGrade(grade)
	if err != nil {
		return nil, err
	}
	result := &GradeCourses{Grade: grade, Courses: make([]CourseSummary, 0, len(courses)), Catalog: DefaultCourseCatalog}
	for _, c := range courses {
		result.Courses = append(result.Courses, summarize(c))
	}
	return result, nil
}

func summarize(c model.Course) CourseSummary {
	return CourseSummary{ID: c.ID, Grade: c.Grade, Subject: c.Subject, Term: c.Term, Name: c.DisplayName()}
}

// SelectCourse 记录用户选择的年级和课程
func (s *CourseService) SelectCourse(userID uint, grade, name string) (*CourseSummary, error) {
	course, err := s.CourseRepo.FindByGradeAndName(grade, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	if err := s.UserRepo.UpdateLastSelection(userID, grade, course.DisplayName()); err != nil {
		return nil, err
	}
	summary := summarize(*course)
	return &summary, nil
}

// NextStep 告诉前端下一步应进入的页面
type NextStep string

const (
	StepSelectGrade  NextStep = "select_grade"
	StepSelectCourse NextStep = "select_course"
	StepCourse       NextStep = "course"
)

type CurrentCourse struct {
	Next   NextStep       `json:"next"`
	Grade  string         `json:"grade,omitempty"`
	Course *CourseSummary `json:"course,omitempty"`
}

// CurrentCourse 返回上次的选择；没有选择或课程已不存在时提示重新选择
func (s *CourseService) CurrentCourse(userID uint) (*CurrentCourse, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	if user.LastGrade == "" {
		return &CurrentCourse{Next: StepSelectGrade}, nil
	}
	if user.LastCourse == "" {
		return &CurrentCourse{Next: StepSelectCourse, Grade: user.LastGrade}, nil
	}
	course, err := s.CourseRepo.FindByGradeAndName(user.LastGrade, user.LastCourse)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &CurrentCourse{Next: StepSelectCourse, Grade: user.LastGrade}, nil
	}
	if err != nil {
		return nil, err
	}
	summary := summarize(*course)
	return &CurrentCourse{Next: StepCourse, Grade: user.LastGrade, Course: &summary}, nil
}

type LevelView struct {
	ID        uint             `json:"id"`
	Title     string           `json:"title"`
	Order     int              `json:"order"`
	IsBoss    bool             `json:"isBoss"`
	IsMidterm bool             `json:"isMidterm"`
	IsFinal   bool             `json:"isFinal"`
	CoverURL  string           `json:"coverUrl,omitempty"`
	Status    quiz.LevelStatus `json:"status"`
	Clickable bool             `json:"clickable"`
	Target    string           `json:"target,omitempty"`
}

type UnitView struct {
	ID     uint        `json:"id"`
	Name   string      `json:"name"`
	Order  int         `json:"order"`
	Levels []LevelView `json:"levels"`
}

type GameMap struct {
	Course CourseSummary `json:"course"`
	Units  []UnitView    `json:"units"`
}

// GameMap 返回课程地图；缺失的进度记录按默认规则补齐并落库
func (s *CourseService) GameMap(userID, courseID uint, mode quiz.NavMode) (*GameMap, error) {
	course, err := s.CourseRepo.FindWithLevels(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	var levelIDs []uint
	for _, u := range course.Units {
		for _, l := range u.Levels {
			levelIDs = append(levelIDs, l.ID)
		}
	}
	progress, err := s.ProgressRepo.StatusMap(userID, levelIDs)
	if err != nil {
		return nil, err
	}

	var missing []model.UserProgress
	gm := &GameMap{Course: summarize(*course), Units: make([]UnitView, 0, len(course.Units))}
	for _, u := range course.Units {
		uv := UnitView{ID: u.ID, Name: u.Name, Order: u.Order, Levels: make([]LevelView, 0, len(u.Levels))}
		for _, l := range u.Levels {
			status, ok := progress[l.ID]
			if !ok {
				status = InitialStatus(l)
				missing = append(missing, model.UserProgress{UserID: userID, LevelID: l.ID, Status: status})
			}
			card := quiz.LevelCard{ID: l.ID, Status: quiz.LevelStatus(status)}
			lv := LevelView{
				ID:        l.ID,
				Title:     l.Title,
				Order:     l.Order,
				IsBoss:    l.IsBoss,
				IsMidterm: l.IsMidterm,
				IsFinal:   l.IsFinal,
				CoverURL:  l.CoverURL,
				Status:    card.Status,
				Clickable: card.Clickable(),
			}
			if target, err := quiz.CardTarget(card, mode); err == nil {
				lv.Target = target
			}
			uv.Levels = append(uv.Levels, lv)
		}
		gm.Units = append(gm.Units, uv)
	}

	if err := s.ProgressRepo.CreateMissing(missing); err != nil {
		return nil, err
	}
	return gm, nil
}
