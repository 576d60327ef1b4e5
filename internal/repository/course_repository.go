package repository

import (
	"card_quiz_backend/internal/model"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) ListByGrade(grade string) ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.Where("grade = ?", grade).Order("subject, term").Find(&courses).Error
	return courses, err
}

// FindByGradeAndName 按年级与课程名（科目+学期，允许中间有空格）查找
func (r *CourseRepository) FindByGradeAndName(grade, name string) (*model.Course, error) {
	var course model.Course
	err := r.DB.Where("grade = ?", grade).
		Where("CONCAT(subject, term) = ? OR CONCAT(subject, ' ', term) = ?", name, name).
		First(&course).Error
	return &course, err
}

// FindWithLevels 加载课程及其有序的单元和关卡
func (r *CourseRepository) FindWithLevels(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.
		Preload("Units", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order") }).
		Preload("Units.Levels", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order") }).
		First(&course, id).Error
	return &course, err
}

func (r *CourseRepository) FindAll() ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.Order("id").Find(&courses).Error
	return courses, err
}
