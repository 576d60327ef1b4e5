package service

import (
	"bytes"
	"card_quiz_backend/internal/model"
	"card_quiz_backend/internal/quiz"
	"card_quiz_backend/internal/util"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// QuestionService 教师端题目与关卡封面管理
type QuestionService struct {
	LevelRepo    LevelStore
	QuestionRepo QuestionStore
	KPRepo       KnowledgePointStore
	Storage      *StorageService
}

func NewQuestionService(levelRepo LevelStore, questionRepo QuestionStore, kpRepo KnowledgePointStore, storage *StorageService) *QuestionService {
	return &QuestionService{LevelRepo: levelRepo, QuestionRepo: questionRepo, KPRepo: kpRepo, Storage: storage}
}

type CreateQuestionRequest struct {
	Type            string               `json:"questionType" binding:"required"`
	Content         string               `json:"content" binding:"required"`
	Score           int                  `json:"score"`
	Difficulty      int                  `json:"difficulty"`
	Options         []model.ChoiceOption `json:"options"`
	CorrectAnswer   json.RawMessage      `json:"correctAnswer"`
	CorrectMatches  []quiz.Match         `json:"correctMatches"`
	LeftItems       []model.MatchItem    `json:"leftItems"`
	RightItems      []model.MatchItem    `json:"rightItems"`
	Explanation     string               `json:"explanation"`
	KnowledgePoints []string             `json:"knowledgePoints"`
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", util.ErrInvalidQuestion, fmt.Sprintf(format, args...))
}

// ValidateQuestion 按题型校验题目内容，返回填空数量
func ValidateQuestion(req CreateQuestionRequest) (quiz.QuestionType, int, error) {
	qt, err := quiz.ParseQuestionType(req.Type)
	if err != nil {
		return "", 0, invalid("unknown question type %q", req.Type)
	}
	if strings.TrimSpace(req.Content) == "" {
		return "", 0, invalid("content is empty")
	}

	switch qt {
	case quiz.MultipleChoice:
		if len(req.Options) < 2 {
			return "", 0, invalid("need at least 2 options")
		}
		ids := make(map[string]bool, len(req.Options))
		for _, o := range req.Options {
			if o.ID == "" || ids[o.ID] {
				return "", 0, invalid("option id %q is empty or duplicated", o.ID)
			}
			ids[o.ID] = true
		}
		correct, err := choiceSet(datatypes.JSON(req.CorrectAnswer))
		if err != nil || len(correct) == 0 {
			return "", 0, invalid("correct answer must name an option")
		}
		for id := range correct {
			if !ids[id] {
				return "", 0, invalid("correct answer %q is not an option", id)
			}
		}
	case quiz.TrueFalse:
		if _, err := trueFalseValue(datatypes.JSON(req.CorrectAnswer)); err != nil {
			return "", 0, invalid("correct answer must be true or false")
		}
	case quiz.FillBlank:
		return blankCount(req.CorrectAnswer)
	case quiz.Matching:
		if len(req.LeftItems) == 0 || len(req.RightItems) == 0 {
			return "", 0, invalid("matching needs left and right items")
		}
		left, right := itemIDs(req.LeftItems), itemIDs(req.RightItems)
		usedLeft, usedRight := map[int]bool{}, map[int]bool{}
		for _, m := range req.CorrectMatches {
			if !left[m.Left] || !right[m.Right] {
				return "", 0, invalid("match %d-%d references an unknown item", m.Left, m.Right)
			}
			if usedLeft[m.Left] || usedRight[m.Right] {
				return "", 0, invalid("match %d-%d reuses an item", m.Left, m.Right)
			}
			usedLeft[m.Left], usedRight[m.Right] = true, true
		}
		if len(req.CorrectMatches) == 0 {
			return "", 0, invalid("correct matches are empty")
		}
	}
	return qt, 0, nil
}

// blankCount 填空题答案可以是单个值或按空位排列的数组，每个空位可列出多个可接受答案
func blankCount(raw json.RawMessage) (quiz.QuestionType, int, error) {
	var v interface{}
	if len(raw) == 0 || json.Unmarshal(raw, &v) != nil {
		return "", 0, invalid("correct answer is not valid JSON")
	}
	switch t := v.(type) {
	case string, float64, bool:
		return quiz.FillBlank, 1, nil
	case []interface{}:
		if len(t) == 0 {
			return "", 0, invalid("correct answer has no blanks")
		}
		for i, pos := range t {
			var accepted quiz.Accepted
			b, _ := json.Marshal(pos)
			if err := json.Unmarshal(b, &accepted); err != nil || len(accepted) == 0 {
				return "", 0, invalid("blank %d has no accepted answer", i+1)
			}
		}
		return quiz.FillBlank, len(t), nil
	default:
		return "", 0, invalid("unsupported correct answer")
	}
}

func itemIDs(items []model.MatchItem) map[int]bool {
	ids := make(map[int]bool, len(items))
	for _, it := range items {
		ids[it.ID] = true
	}
	return ids
}

func jsonColumn(v interface{}) datatypes.JSON {
	if v == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil || string(b) == "null" {
		return nil
	}
	return datatypes.JSON(b)
}

// CreateQuestion 校验并在关卡末尾追加题目
func (s *QuestionService) CreateQuestion(levelID uint, req CreateQuestionRequest) (*model.Question, error) {
	if _, err := s.LevelRepo.FindByID(levelID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLevelNotFound
		}
		return nil, err
	}
	qt, blanks, err := ValidateQuestion(req)
	if err != nil {
		return nil, err
	}
	order, err := s.QuestionRepo.NextOrder(levelID)
	if err != nil {
		return nil, err
	}

	q := &model.Question{
		LevelID:     levelID,
		Type:        model.QuestionType(qt),
		Content:     strings.TrimSpace(req.Content),
		Difficulty:  req.Difficulty,
		Score:       req.Score,
		Order:       order,
		BlanksCount: blanks,
		Explanation: req.Explanation,
	}
	if q.Score <= 0 {
		q.Score = 1
	}
	if q.Difficulty <= 0 {
		q.Difficulty = 1
	}
	switch qt {
	case quiz.MultipleChoice:
		q.Options = jsonColumn(req.Options)
		q.CorrectAnswer = datatypes.JSON(req.CorrectAnswer)
	case quiz.TrueFalse, quiz.FillBlank:
		q.CorrectAnswer = datatypes.JSON(req.CorrectAnswer)
	case quiz.Matching:
		q.LeftItems = jsonColumn(req.LeftItems)
		q.RightItems = jsonColumn(req.RightItems)
		q.CorrectMatches = jsonColumn(req.CorrectMatches)
	}

	if len(req.KnowledgePoints) > 0 {
		points, err := s.KPRepo.FindOrCreate(req.KnowledgePoints)
		if err != nil {
			return nil, err
		}
		q.KnowledgePoints = points
	}

	if err := s.QuestionRepo.Create(q); err != nil {
		return nil, err
	}
	return q, nil
}

// UploadLevelCover 校验图片类型后上传关卡封面并更新关卡
func (s *QuestionService) UploadLevelCover(ctx context.Context, levelID uint, filename string, reader io.Reader, size int64) (string, error) {
	if _, err := s.LevelRepo.FindByID(levelID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", util.ErrLevelNotFound
		}
		return "", err
	}
	if size > util.MaxCoverSize {
		return "", fmt.Errorf("%w: cover exceeds %d bytes", util.ErrInvalidFileType, util.MaxCoverSize)
	}
	if !util.HasAllowedExtension(filename, util.AllowedImageExtensions) {
		return "", fmt.Errorf("%w: %s", util.ErrInvalidFileType, filepath.Ext(filename))
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(reader, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", err
	}
	head = head[:n]
	mimeType, err := util.ValidateMimeType(bytes.NewReader(head), []string{util.MimeImage})
	if err != nil {
		return "", err
	}

	objectName := model.GenerateObjectName("covers", strings.ToLower(filepath.Ext(filename)))
	url, err := s.Storage.Upload(ctx, objectName, io.MultiReader(bytes.NewReader(head), reader), size, mimeType)
	if err != nil {
		return "", err
	}
	if err := s.LevelRepo.UpdateCover(levelID, url); err != nil {
		return "", err
	}
	return url, nil
}
