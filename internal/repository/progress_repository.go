package repository

import (
	"card_quiz_backend/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

// StatusMap 返回用户在给定关卡上的进度
func (r *ProgressRepository) StatusMap(userID uint, levelIDs []uint) (map[uint]model.ProgressStatus, error) {
	result := make(map[uint]model.ProgressStatus, len(levelIDs))
	if len(levelIDs) == 0 {
		return result, nil
	}
	var rows []model.UserProgress
	err := r.DB.Where("user_id = ? AND level_id IN ?", userID, levelIDs).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, p := range rows {
		result[p.LevelID] = p.Status
	}
	return result, nil
}

func (r *ProgressRepository) GetStatus(userID, levelID uint) (model.ProgressStatus, bool, error) {
	var p model.UserProgress
	err := r.DB.Where("user_id = ? AND level_id = ?", userID, levelID).Limit(1).Find(&p).Error
	if err != nil {
		return "", false, err
	}
	return p.Status, p.ID != 0, nil
}

// CreateMissing 批量插入缺失的进度记录，已存在的不覆盖
func (r *ProgressRepository) CreateMissing(rows []model.UserProgress) error {
	if len(rows) == 0 {
		return nil
	}
	return r.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

// SetStatus 更新或创建进度记录
func (r *ProgressRepository) SetStatus(userID, levelID uint, status model.ProgressStatus) error {
	row := model.UserProgress{UserID: userID, LevelID: levelID, Status: status, UpdatedAt: time.Now()}
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "level_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "updated_at"}),
	}).Create(&row).Error
}

// Complete 在一个事务中完成关卡并解锁后续关卡（next 可为 nil）
func (r *ProgressRepository) Complete(userID, levelID uint, next *model.Level) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		txRepo := &ProgressRepository{DB: tx}
		if err := txRepo.SetStatus(userID, levelID, model.ProgressCompleted); err != nil {
			return err
		}
		if next == nil {
			return nil
		}
		status, ok, err := txRepo.GetStatus(userID, next.ID)
		if err != nil {
			return err
		}
		if ok && status == model.ProgressCompleted {
			return nil
		}
		return txRepo.SetStatus(userID, next.ID, model.ProgressUnlocked)
	})
}
