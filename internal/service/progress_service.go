package service

import (
	"card_quiz_backend/internal/model"
	"card_quiz_backend/internal/util"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

type ProgressService struct {
	LevelRepo    LevelStore
	ProgressRepo ProgressStore
}

func NewProgressService(levelRepo LevelStore, progressRepo ProgressStore) *ProgressService {
	return &ProgressService{LevelRepo: levelRepo, ProgressRepo: progressRepo}
}

// InitialStatus 新建进度记录时的默认状态：单元第一关、期中、期末关卡默认解锁
func InitialStatus(level model.Level) model.ProgressStatus {
	if level.Order == 1 || level.IsMidterm || level.IsFinal {
		return model.ProgressUnlocked
	}
	return model.ProgressLocked
}

// EffectiveStatus 返回用户在关卡上的状态，没有记录时按默认规则计算
func (s *ProgressService) EffectiveStatus(userID uint, level *model.Level) (model.ProgressStatus, error) {
	status, ok, err := s.ProgressRepo.GetStatus(userID, level.ID)
	if err != nil {
		return "", err
	}
	if !ok {
		return InitialStatus(*level), nil
	}
	return status, nil
}

// EnsureAccessible 未解锁的关卡返回 ErrLevelNotAccessible
func (s *ProgressService) EnsureAccessible(userID uint, level *model.Level) error {
	status, err := s.EffectiveStatus(userID, level)
	if err != nil {
		return err
	}
	if status == model.ProgressLocked {
		return fmt.Errorf("%w: %d", util.ErrLevelNotAccessible, level.ID)
	}
	return nil
}

// CompleteLevel 标记关卡完成并解锁下一关（同单元下一关，或下一单元第一关）
func (s *ProgressService) CompleteLevel(userID, levelID uint) (*model.Level, error) {
	level, err := s.LevelRepo.FindByID(levelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLevelNotFound
		}
		return nil, err
	}
	next, err := s.LevelRepo.FindNext(level)
	if err != nil {
		return nil, fmt.Errorf("find next level: %w", err)
	}
	if err := s.ProgressRepo.Complete(userID, level.ID, next); err != nil {
		return nil, fmt.Errorf("complete level %d: %w", level.ID, err)
	}
	return next, nil
}

// Rebuild 按课程顺序重新推导解锁状态：已完成关卡的下一关解锁，缺失的记录补齐。
// 只解锁不回锁，返回变更的记录数
func (s *ProgressService) Rebuild(userID uint, course *model.Course) (int, error) {
	var levels []model.Level
	for _, unit := range course.Units {
		levels = append(levels, unit.Levels...)
	}
	if len(levels) == 0 {
		return 0, nil
	}

	ids := make([]uint, len(levels))
	for i, lv := range levels {
		ids[i] = lv.ID
	}
	stored, err := s.ProgressRepo.StatusMap(userID, ids)
	if err != nil {
		return 0, err
	}

	changed := 0
	var missing []model.UserProgress
	prevCompleted := false
	for _, lv := range levels {
		want := InitialStatus(lv)
		if prevCompleted {
			want = model.ProgressUnlocked
		}

		status, ok := stored[lv.ID]
		switch {
		case !ok:
			missing = append(missing, model.UserProgress{UserID: userID, LevelID: lv.ID, Status: want})
		case status == model.ProgressLocked && want == model.ProgressUnlocked:
			if err := s.ProgressRepo.SetStatus(userID, lv.ID, want); err != nil {
				return changed, fmt.Errorf("unlock level %d: %w", lv.ID, err)
			}
			changed++
		}
		prevCompleted = ok && status == model.ProgressCompleted
	}

	if len(missing) > 0 {
		if err := s.ProgressRepo.CreateMissing(missing); err != nil {
			return changed, err
		}
		changed += len(missing)
	}
	return changed, nil
}
