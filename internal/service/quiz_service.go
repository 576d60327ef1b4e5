package service

import (
	"card_quiz_backend/internal/config"
	"card_quiz_backend/internal/model"
	"card_quiz_backend/internal/quiz"
	"card_quiz_backend/internal/util"
	"card_quiz_backend/pkg/monitoring"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type QuizService struct {
	LevelRepo    LevelStore
	QuestionRepo QuestionStore
	AnswerRepo   AnswerStore
	HeartsRepo   HeartsStore
	Progress     *ProgressService
	Log          *zap.Logger

	mu       sync.RWMutex
	settings config.QuizConfig
}

func NewQuizService(
	levelRepo LevelStore,
	questionRepo QuestionStore,
	answerRepo AnswerStore,
	heartsRepo HeartsStore,
	progress *ProgressService,
	settings config.QuizConfig,
	log *zap.Logger,
) *QuizService {
	if log == nil {
		log = zap.NewNop()
	}
	s := &QuizService{
		LevelRepo:    levelRepo,
		QuestionRepo: questionRepo,
		AnswerRepo:   answerRepo,
		HeartsRepo:   heartsRepo,
		Progress:     progress,
		Log:          log,
	}
	s.UpdateSettings(settings)
	return s
}

// UpdateSettings 配置热更新时替换生命值与反馈文案
func (s *QuizService) UpdateSettings(settings config.QuizConfig) {
	if settings.InitialHearts <= 0 {
		settings.InitialHearts = 3
	}
	if settings.RedirectDelay <= 0 {
		settings.RedirectDelay = quiz.DefaultRedirectDelay
	}
	s.mu.Lock()
	s.settings = settings
	s.mu.Unlock()
}

func (s *QuizService) Settings() config.QuizConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// QuestionPage 单题答题页数据
type QuestionPage struct {
	LevelID         uint              `json:"levelId"`
	LevelTitle      string            `json:"levelTitle"`
	Index           int               `json:"index"`
	Total           int               `json:"total"`
	Question        QuestionView      `json:"question"`
	Data            quiz.QuestionData `json:"data"`
	Hearts          int               `json:"hearts"`
	TotalHearts     int               `json:"totalHearts"`
	CorrectMessages []string          `json:"correctMessages"`
	WrongMessages   []string          `json:"wrongMessages"`
	FormAction      string            `json:"formAction"`
	NextURL         string            `json:"nextUrl"`
	RedirectDelayMs int64             `json:"redirectDelayMs"`
}

// SubmitResult 提交后的跳转信息
type SubmitResult struct {
	Redirect  string `json:"redirect"`
	Correct   bool   `json:"correct"`
	Hearts    int    `json:"hearts"`
	Completed bool   `json:"completed"`
}

func FormAction(levelID uint, index int) string {
	return fmt.Sprintf("/api/quiz/%d/%d", levelID, index)
}

func QuestionURL(levelID uint, index int) string {
	return fmt.Sprintf("/quiz/%d/%d", levelID, index)
}

func ResultURL(levelID uint) string {
	return fmt.Sprintf("/level/%d/result", levelID)
}

func (s *QuizService) loadLevel(userID, levelID uint) (*model.Level, []model.Question, error) {
	level, err := s.LevelRepo.FindByID(levelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, util.ErrLevelNotFound
		}
		return nil, nil, err
	}
	if err := s.Progress.EnsureAccessible(userID, level); err != nil {
		return nil, nil, err
	}
	questions, err := s.QuestionRepo.ListByLevel(levelID)
	if err != nil {
		return nil, nil, err
	}
	return level, questions, nil
}

func (s *QuizService) currentHearts(ctx context.Context, userID, levelID uint) (int, error) {
	hearts, ok, err := s.HeartsRepo.Get(ctx, userID, levelID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return s.Settings().InitialHearts, nil
	}
	return hearts, nil
}

// GetQuestion 返回第 index 题（从 0 开始）。进入第一题视为开始新一轮答题，生命值重置
func (s *QuizService) GetQuestion(ctx context.Context, userID, levelID uint, index int) (*QuestionPage, error) {
	level, questions, err := s.loadLevel(userID, levelID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(questions) {
		return nil, fmt.Errorf("%w: level %d index %d", util.ErrQuestionNotFound, levelID, index)
	}
	q := questions[index]
	data, err := BuildQuestionData(q)
	if err != nil {
		return nil, err
	}

	settings := s.Settings()
	if index == 0 {
		if err := s.HeartsRepo.Set(ctx, userID, levelID, settings.InitialHearts); err != nil {
			return nil, err
		}
	}
	hearts, err := s.currentHearts(ctx, userID, levelID)
	if err != nil {
		return nil, err
	}
	if err := s.HeartsRepo.SetPageHearts(ctx, userID, levelID, index, hearts); err != nil {
		return nil, err
	}
	if err := s.HeartsRepo.SetActiveLevel(ctx, userID, levelID); err != nil {
		return nil, err
	}

	next := ResultURL(levelID)
	if index+1 < len(questions) {
		next = QuestionURL(levelID, index+1)
	}

	return &QuestionPage{
		LevelID:         levelID,
		LevelTitle:      level.Title,
		Index:           index,
		Total:           len(questions),
		Question:        NewQuestionView(q, data, true),
		Data:            data,
		Hearts:          hearts,
		TotalHearts:     settings.InitialHearts,
		CorrectMessages: settings.CorrectMessages,
		WrongMessages:   settings.WrongMessages,
		FormAction:      FormAction(levelID, index),
		NextURL:         next,
		RedirectDelayMs: settings.RedirectDelay.Milliseconds(),
	}, nil
}

// grade 服务端重新判题，并记录与客户端结论不一致的情况
func (s *QuizService) grade(q model.Question, sub quiz.Submission) (bool, error) {
	data, err := BuildQuestionData(q)
	if err != nil {
		return false, err
	}
	validator, err := quiz.NewValidator(data, s.Log)
	if err != nil {
		return false, err
	}
	correct := validator.Validate(sub)
	monitoring.ObserveAnswer(string(q.Type), correct)

	if reported, ok := clientVerdict(sub); ok && reported != correct {
		monitoring.GradeMismatchCounter.WithLabelValues(string(q.Type)).Inc()
		s.Log.Warn("client verdict differs from server grading",
			zap.Uint("questionID", q.ID),
			zap.Bool("client", reported),
			zap.Bool("server", correct))
	}
	return correct, nil
}

func clientVerdict(sub quiz.Submission) (bool, bool) {
	raw := sub.Values.Get(quiz.FieldIsCorrect)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}

func (s *QuizService) saveAnswer(userID uint, q model.Question, sub quiz.Submission, correct bool) error {
	score := 0
	if correct {
		score = q.Score
	}
	timeSpent, _ := strconv.Atoi(sub.Values.Get(quiz.FieldTimeSpent))
	return s.AnswerRepo.Save(&model.UserAnswer{
		UserID:        userID,
		QuestionID:    q.ID,
		AnswerContent: answerContent(quiz.QuestionType(q.Type), sub),
		IsCorrect:     correct,
		Score:         score,
		AttemptTime:   time.Now(),
		TimeSpent:     timeSpent,
	})
}

// Submit 处理答题页表单提交。
// 判错时生命值降到 min(当前, 题目页下发时的生命值-1)，与 update_hearts 的写入结果相同，
// 两个请求先到后到都只扣一次
func (s *QuizService) Submit(ctx context.Context, userID, levelID uint, index int, form url.Values) (*SubmitResult, error) {
	_, questions, err := s.loadLevel(userID, levelID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(questions) {
		return nil, fmt.Errorf("%w: level %d index %d", util.ErrQuestionNotFound, levelID, index)
	}
	q := questions[index]
	sub := quiz.NewSubmission(form)

	correct, err := s.grade(q, sub)
	if err != nil {
		return nil, err
	}
	if err := s.saveAnswer(userID, q, sub, correct); err != nil {
		return nil, err
	}

	hearts, err := s.currentHearts(ctx, userID, levelID)
	if err != nil {
		return nil, err
	}
	if !correct {
		base, ok, err := s.HeartsRepo.PageHearts(ctx, userID, levelID, index)
		if err != nil {
			return nil, err
		}
		if !ok {
			base = hearts
		}
		hearts, err = s.lowerHearts(ctx, userID, levelID, base-1)
		if err != nil {
			return nil, err
		}
	}

	result := &SubmitResult{Correct: correct, Hearts: hearts}
	switch {
	case hearts <= 0:
		result.Redirect = ResultURL(levelID)
	case index+1 >= len(questions):
		if _, err := s.Progress.CompleteLevel(userID, levelID); err != nil {
			return nil, err
		}
		monitoring.LevelsCompletedCounter.Inc()
		result.Completed = true
		result.Redirect = ResultURL(levelID)
	default:
		result.Redirect = QuestionURL(levelID, index+1)
	}
	return result, nil
}

// UpdateHearts 保存客户端上报的剩余生命值，作用于最近进入的关卡。
// 同一轮答题内生命值只减不增
func (s *QuizService) UpdateHearts(ctx context.Context, userID uint, hearts int) (int, error) {
	levelID, ok, err := s.HeartsRepo.ActiveLevel(ctx, userID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, util.ErrNoActiveLevel
	}
	return s.lowerHearts(ctx, userID, levelID, hearts)
}

func (s *QuizService) lowerHearts(ctx context.Context, userID, levelID uint, target int) (int, error) {
	before, after, err := s.HeartsRepo.Lower(ctx, userID, levelID, target, s.Settings().InitialHearts)
	if err != nil {
		return 0, err
	}
	if after < before {
		monitoring.HeartsLostCounter.Add(float64(before - after))
	}
	return after, nil
}

// QuestionListItem 题目列表中的一项及用户作答情况
type QuestionListItem struct {
	Question  QuestionView `json:"question"`
	Answered  bool         `json:"answered"`
	IsCorrect bool         `json:"isCorrect"`
	Score     int          `json:"score"`
}

type LevelQuestions struct {
	LevelID    uint               `json:"levelId"`
	LevelTitle string             `json:"levelTitle"`
	Questions  []QuestionListItem `json:"questions"`
}

func (s *QuizService) ListQuestions(userID, levelID uint) (*LevelQuestions, error) {
	level, questions, err := s.loadLevel(userID, levelID)
	if err != nil {
		return nil, err
	}
	answers, err := s.AnswerRepo.MapByQuestions(userID, questionIDs(questions))
	if err != nil {
		return nil, err
	}
	result := &LevelQuestions{LevelID: level.ID, LevelTitle: level.Title, Questions: make([]QuestionListItem, 0, len(questions))}
	for _, q := range questions {
		data, err := BuildQuestionData(q)
		if err != nil {
			s.Log.Warn("skip malformed question", zap.Uint("questionID", q.ID), zap.Error(err))
			continue
		}
		item := QuestionListItem{Question: NewQuestionView(q, data, false)}
		if a, ok := answers[q.ID]; ok {
			item.Answered = true
			item.IsCorrect = a.IsCorrect
			item.Score = a.Score
		}
		result.Questions = append(result.Questions, item)
	}
	return result, nil
}

func questionIDs(questions []model.Question) []uint {
	ids := make([]uint, len(questions))
	for i, q := range questions {
		ids[i] = q.ID
	}
	return ids
}

// AnswerResult 题目列表模式下单题提交结果
type AnswerResult struct {
	QuestionID   uint   `json:"questionId"`
	LevelID      uint   `json:"levelId"`
	Correct      bool   `json:"correct"`
	Score        int    `json:"score"`
	Explanation  string `json:"explanation"`
	AllCompleted bool   `json:"allCompleted"`
}

// AnswerQuestion 记录单题答案；关卡内所有题目都作答后完成关卡
func (s *QuizService) AnswerQuestion(userID, questionID uint, form url.Values) (*AnswerResult, error) {
	q, err := s.QuestionRepo.FindByID(questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestionNotFound
		}
		return nil, err
	}
	_, questions, err := s.loadLevel(userID, q.LevelID)
	if err != nil {
		return nil, err
	}

	sub := quiz.NewSubmission(form)
	correct, err := s.grade(*q, sub)
	if err != nil {
		return nil, err
	}
	if err := s.saveAnswer(userID, *q, sub, correct); err != nil {
		return nil, err
	}

	result := &AnswerResult{QuestionID: q.ID, LevelID: q.LevelID, Correct: correct, Explanation: q.Explanation}
	if correct {
		result.Score = q.Score
	}
	answers, err := s.AnswerRepo.MapByQuestions(userID, questionIDs(questions))
	if err != nil {
		return nil, err
	}
	if len(answers) >= len(questions) {
		if _, err := s.Progress.CompleteLevel(userID, q.LevelID); err != nil {
			return nil, err
		}
		monitoring.LevelsCompletedCounter.Inc()
		result.AllCompleted = true
	}
	return result, nil
}

// SheetResult 整卷提交结果
type SheetResult struct {
	Total    int    `json:"total"`
	Correct  int    `json:"correct"`
	Score    int    `json:"score"`
	Redirect string `json:"redirect"`
}

// SubmitSheet 整卷提交：按关卡题目顺序检查，有未作答题目时返回 *quiz.UnansweredError
func (s *QuizService) SubmitSheet(userID, levelID uint, cards []quiz.QuestionCard) (*SheetResult, error) {
	_, questions, err := s.loadLevel(userID, levelID)
	if err != nil {
		return nil, err
	}
	submitted := make(map[uint]string, len(cards))
	for _, c := range cards {
		submitted[c.QuestionID] = c.Answer
	}
	ordered := make([]quiz.QuestionCard, len(questions))
	for i, q := range questions {
		ordered[i] = quiz.QuestionCard{QuestionID: q.ID, Answer: submitted[q.ID]}
	}
	if err := quiz.ValidateSheet(ordered); err != nil {
		return nil, err
	}

	result := &SheetResult{Total: len(questions), Redirect: ResultURL(levelID)}
	for i, q := range questions {
		sub := sheetSubmission(quiz.QuestionType(q.Type), ordered[i].Answer)
		correct, err := s.grade(q, sub)
		if err != nil {
			return nil, err
		}
		if err := s.saveAnswer(userID, q, sub, correct); err != nil {
			return nil, err
		}
		if correct {
			result.Correct++
			result.Score += q.Score
		}
	}
	if len(questions) > 0 {
		if _, err := s.Progress.CompleteLevel(userID, levelID); err != nil {
			return nil, err
		}
		monitoring.LevelsCompletedCounter.Inc()
	}
	return result, nil
}
