package repository

import (
	"card_quiz_backend/internal/model"
	"errors"

	"gorm.io/gorm"
)

type LevelRepository struct {
	DB *gorm.DB
}

func NewLevelRepository(db *gorm.DB) *LevelRepository {
	return &LevelRepository{DB: db}
}

func (r *LevelRepository) FindByID(id uint) (*model.Level, error) {
	var level model.Level
	err := r.DB.First(&level, id).Error
	return &level, err
}

func (r *LevelRepository) FindUnit(id uint) (*model.Unit, error) {
	var unit model.Unit
	err := r.DB.First(&unit, id).Error
	return &unit, err
}

// FindNext 返回关卡完成后应解锁的关卡：同单元下一关，或下一单元第一关。
// 没有后续关卡时返回 nil, nil
func (r *LevelRepository) FindNext(level *model.Level) (*model.Level, error) {
	var next model.Level
	err := r.DB.Where("unit_id = ? AND sort_order = ?", level.UnitID, level.Order+1).First(&next).Error
	if err == nil {
		return &next, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	unit, err := r.FindUnit(level.UnitID)
	if err != nil {
		return nil, err
	}
	var nextUnit model.Unit
	err = r.DB.Where("course_id = ? AND sort_order = ?", unit.CourseID, unit.Order+1).First(&nextUnit).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	err = r.DB.Where("unit_id = ? AND sort_order = ?", nextUnit.ID, 1).First(&next).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &next, nil
}

func (r *LevelRepository) UpdateCover(id uint, url string) error {
	return r.DB.Model(&model.Level{}).Where("id = ?", id).Update("cover_url", url).Error
}
