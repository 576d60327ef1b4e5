package service

import (
	"card_quiz_backend/internal/config"
	"card_quiz_backend/internal/model"
	"card_quiz_backend/internal/quiz"
	"card_quiz_backend/internal/repository"
	"card_quiz_backend/internal/util"
	"context"
	"encoding/json"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/datatypes"
)

func rawJSON(t *testing.T, v interface{}) datatypes.JSON {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return datatypes.JSON(b)
}

func sampleQuestions(t *testing.T) []model.Question {
	kp := func(name string) []model.KnowledgePoint { return []model.KnowledgePoint{{Name: name}} }
	q1 := model.Question{
		LevelID: 1, Type: model.QuestionMultipleChoice, Content: "小鸟们的学校在哪里？", Score: 5, Order: 0,
		Options:         rawJSON(t, []model.ChoiceOption{{ID: "A", Content: "森林里"}, {ID: "B", Content: "大青树上"}}),
		CorrectAnswer:   rawJSON(t, []string{"B"}),
		KnowledgePoints: kp("课文内容理解"),
	}
	q1.ID = 101
	q2 := model.Question{
		LevelID: 1, Type: model.QuestionFillBlank, Content: "《花的学校》的作者是___国诗人___。", Score: 4, Order: 1,
		CorrectAnswer:   rawJSON(t, []interface{}{"印度", []string{"泰戈尔", "罗宾德拉纳特·泰戈尔"}}),
		BlanksCount:     2,
		KnowledgePoints: kp("文学常识"),
	}
	q2.ID = 102
	q3 := model.Question{
		LevelID: 1, Type: model.QuestionMatching, Content: "连一连", Score: 6, Order: 2,
		LeftItems:       rawJSON(t, []model.MatchItem{{ID: 1, Content: "花"}, {ID: 2, Content: "鸟"}}),
		RightItems:      rawJSON(t, []model.MatchItem{{ID: 1, Content: "飞"}, {ID: 2, Content: "开"}}),
		CorrectMatches:  rawJSON(t, []quiz.Match{{Left: 1, Right: 2}, {Left: 2, Right: 1}}),
		KnowledgePoints: kp("课文内容理解"),
	}
	q3.ID = 103
	return []model.Question{q1, q2, q3}
}

type quizFixture struct {
	svc       *QuizService
	levels    *MockLevelStore
	progress  *MockProgressStore
	questions *MockQuestionStore
	answers   *MockAnswerStore
	hearts    *repository.HeartsRepository
	logs      *observer.ObservedLogs
}

func newQuizFixture(t *testing.T) *quizFixture {
	f := &quizFixture{
		levels:    new(MockLevelStore),
		progress:  new(MockProgressStore),
		questions: new(MockQuestionStore),
		answers:   newAnswerStore(),
		hearts:    repository.NewHeartsRepository(nil, time.Hour),
	}
	first := level(1, 1, 1)
	f.levels.On("FindByID", uint(1)).Return(&first, nil)
	f.levels.On("FindNext", mock.Anything).Return(nil, nil)
	f.progress.On("GetStatus", mock.Anything, mock.Anything).Return(model.ProgressStatus(""), false, nil)
	f.questions.On("ListByLevel", uint(1)).Return(sampleQuestions(t), nil)

	core, logs := observer.New(zap.WarnLevel)
	f.logs = logs
	f.svc = NewQuizService(f.levels, f.questions, f.answers, f.hearts,
		NewProgressService(f.levels, f.progress),
		config.QuizConfig{InitialHearts: 3, CorrectMessages: []string{"对啦"}, WrongMessages: []string{"再想想"}},
		zap.New(core))
	return f
}

func form(kv ...string) url.Values {
	v := url.Values{}
	for i := 0; i+1 < len(kv); i += 2 {
		v.Add(kv[i], kv[i+1])
	}
	return v
}

func TestQuizService_GetQuestion(t *testing.T) {
	f := newQuizFixture(t)
	ctx := context.Background()
	require.NoError(t, f.hearts.Set(ctx, 9, 1, 1))

	page, err := f.svc.GetQuestion(ctx, 9, 1, 0)
	require.NoError(t, err)

	assert.Equal(t, 3, page.Hearts, "entering the first question starts a new attempt")
	assert.Equal(t, 3, page.TotalHearts)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, "/api/quiz/1/0", page.FormAction)
	assert.Equal(t, "/quiz/1/1", page.NextURL)
	assert.Equal(t, int64(1500), page.RedirectDelayMs)
	assert.Equal(t, []string{"对啦"}, page.CorrectMessages)
	assert.Equal(t, quiz.MultipleChoice, page.Data.Type)
	require.Len(t, page.Data.Options, 2)
	assert.False(t, page.Data.Options[0].Correct)
	assert.True(t, page.Data.Options[1].Correct)

	active, ok, err := f.hearts.ActiveLevel(ctx, 9)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint(1), active)

	last, err := f.svc.GetQuestion(ctx, 9, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, "/level/1/result", last.NextURL)
	assert.Equal(t, []model.MatchItem{{ID: 1, Content: "花"}, {ID: 2, Content: "鸟"}}, last.Question.LeftItems)

	_, err = f.svc.GetQuestion(ctx, 9, 1, 3)
	assert.ErrorIs(t, err, util.ErrQuestionNotFound)
}

func TestQuizService_LockedLevel(t *testing.T) {
	f := newQuizFixture(t)
	locked := level(2, 1, 2)
	f.levels.On("FindByID", uint(2)).Return(&locked, nil)

	_, err := f.svc.GetQuestion(context.Background(), 9, 2, 0)
	assert.ErrorIs(t, err, util.ErrLevelNotAccessible)
}

func TestQuizService_SubmitHearts(t *testing.T) {
	tests := []struct {
		name       string
		form       url.Values
		wantHearts int
		wantLogged int
	}{
		{"api client without verdict loses a heart", form("answer", "A"), 2, 0},
		{"page client reported the loss", form("answer", "A", "is_correct", "false"), 2, 0},
		{"client verdict disagrees", form("answer", "A", "is_correct", "true"), 2, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newQuizFixture(t)
			ctx := context.Background()
			_, err := f.svc.GetQuestion(ctx, 9, 1, 0)
			require.NoError(t, err)

			res, err := f.svc.Submit(ctx, 9, 1, 0, tt.form)
			require.NoError(t, err)
			assert.False(t, res.Correct)
			assert.Equal(t, tt.wantHearts, res.Hearts)
			assert.Equal(t, "/quiz/1/1", res.Redirect)
			assert.Equal(t, tt.wantLogged, f.logs.FilterMessage("client verdict differs from server grading").Len())

			saved := f.answers.saved[101]
			assert.False(t, saved.IsCorrect)
			assert.Equal(t, 0, saved.Score)
			assert.JSONEq(t, `"A"`, string(saved.AnswerContent))
		})
	}
}

func TestQuizService_SubmitOutOfHeartsEndsRun(t *testing.T) {
	f := newQuizFixture(t)
	ctx := context.Background()
	_, err := f.svc.GetQuestion(ctx, 9, 1, 0)
	require.NoError(t, err)
	require.NoError(t, f.hearts.Set(ctx, 9, 1, 1))
	_, err = f.svc.GetQuestion(ctx, 9, 1, 1)
	require.NoError(t, err)

	res, err := f.svc.Submit(ctx, 9, 1, 1, form("answer-0", "中国", "answer-1", "泰戈尔"))
	require.NoError(t, err)
	assert.Equal(t, 0, res.Hearts)
	assert.Equal(t, "/level/1/result", res.Redirect)
	assert.False(t, res.Completed)
	f.progress.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything)
}

// 页面客户端判错后同时发出 update_hearts 与表单提交，两者到达顺序不定
func TestQuizService_LastHeartEitherArrivalOrder(t *testing.T) {
	wrong := form("answer-0", "中国", "answer-1", "泰戈尔", "is_correct", "false")

	tests := []struct {
		name        string
		heartsFirst bool
	}{
		{"submit arrives first", false},
		{"update_hearts arrives first", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newQuizFixture(t)
			ctx := context.Background()
			_, err := f.svc.GetQuestion(ctx, 9, 1, 0)
			require.NoError(t, err)
			require.NoError(t, f.hearts.Set(ctx, 9, 1, 1))
			page, err := f.svc.GetQuestion(ctx, 9, 1, 1)
			require.NoError(t, err)
			require.Equal(t, 1, page.Hearts)

			if tt.heartsFirst {
				got, err := f.svc.UpdateHearts(ctx, 9, 0)
				require.NoError(t, err)
				assert.Equal(t, 0, got)
			}

			res, err := f.svc.Submit(ctx, 9, 1, 1, wrong)
			require.NoError(t, err)
			assert.Equal(t, 0, res.Hearts)
			assert.Equal(t, "/level/1/result", res.Redirect)

			if !tt.heartsFirst {
				got, err := f.svc.UpdateHearts(ctx, 9, 0)
				require.NoError(t, err)
				assert.Equal(t, 0, got)
			}

			n, _, err := f.hearts.Get(ctx, 9, 1)
			require.NoError(t, err)
			assert.Equal(t, 0, n)
		})
	}
}

func TestQuizService_WrongAnswerChargedOnceEitherOrder(t *testing.T) {
	for _, heartsFirst := range []bool{false, true} {
		f := newQuizFixture(t)
		ctx := context.Background()
		_, err := f.svc.GetQuestion(ctx, 9, 1, 0)
		require.NoError(t, err)

		if heartsFirst {
			_, err = f.svc.UpdateHearts(ctx, 9, 2)
			require.NoError(t, err)
		}
		res, err := f.svc.Submit(ctx, 9, 1, 0, form("answer", "A", "is_correct", "false"))
		require.NoError(t, err)
		if !heartsFirst {
			_, err = f.svc.UpdateHearts(ctx, 9, 2)
			require.NoError(t, err)
		}

		assert.Equal(t, "/quiz/1/1", res.Redirect)
		n, _, err := f.hearts.Get(ctx, 9, 1)
		require.NoError(t, err)
		assert.Equal(t, 2, n, "heartsFirst=%v", heartsFirst)

		// 重复提交同一题不会再扣
		res, err = f.svc.Submit(ctx, 9, 1, 0, form("answer", "A", "is_correct", "false"))
		require.NoError(t, err)
		assert.Equal(t, 2, res.Hearts)
	}
}

func TestQuizService_SubmitLastQuestionCompletesLevel(t *testing.T) {
	f := newQuizFixture(t)
	ctx := context.Background()
	f.progress.On("Complete", uint(9), uint(1), (*model.Level)(nil)).Return(nil).Once()

	res, err := f.svc.Submit(ctx, 9, 1, 1, form("answer-0", " 印度 ", "answer-1", "罗宾德拉纳特·泰戈尔"))
	require.NoError(t, err)
	assert.True(t, res.Correct)
	assert.Equal(t, 4, f.answers.saved[102].Score)
	assert.JSONEq(t, `["印度","罗宾德拉纳特·泰戈尔"]`, string(f.answers.saved[102].AnswerContent))

	res, err = f.svc.Submit(ctx, 9, 1, 2, form("matching_result", `[{"left":2,"right":1},{"left":1,"right":2}]`))
	require.NoError(t, err)
	assert.True(t, res.Correct)
	assert.True(t, res.Completed)
	assert.Equal(t, 3, res.Hearts)
	assert.Equal(t, "/level/1/result", res.Redirect)
	f.progress.AssertExpectations(t)
}

func TestQuizService_UpdateHearts(t *testing.T) {
	f := newQuizFixture(t)
	ctx := context.Background()

	_, err := f.svc.UpdateHearts(ctx, 9, 2)
	assert.ErrorIs(t, err, util.ErrNoActiveLevel)

	_, err = f.svc.GetQuestion(ctx, 9, 1, 0)
	require.NoError(t, err)

	for _, tt := range []struct{ in, want int }{{5, 3}, {2, 2}, {3, 2}, {-1, 0}} {
		got, err := f.svc.UpdateHearts(ctx, 9, tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "update_hearts(%d)", tt.in)
	}
	n, _, err := f.hearts.Get(ctx, 9, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestQuizService_SubmitSheet(t *testing.T) {
	f := newQuizFixture(t)

	_, err := f.svc.SubmitSheet(9, 1, []quiz.QuestionCard{
		{QuestionID: 101, Answer: "B"},
		{QuestionID: 103, Answer: `[{"left":1,"right":2}]`},
	})
	var unanswered *quiz.UnansweredError
	require.ErrorAs(t, err, &unanswered)
	assert.Equal(t, []int{2}, unanswered.Numbers)
	assert.Empty(t, f.answers.saved)

	f.progress.On("Complete", uint(9), uint(1), (*model.Level)(nil)).Return(nil).Once()
	res, err := f.svc.SubmitSheet(9, 1, []quiz.QuestionCard{
		{QuestionID: 103, Answer: `[{"left":1,"right":2}]`},
		{QuestionID: 101, Answer: "B"},
		{QuestionID: 102, Answer: `["印度","泰戈尔"]`},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 2, res.Correct)
	assert.Equal(t, 9, res.Score)
	assert.Equal(t, "/level/1/result", res.Redirect)
	f.progress.AssertExpectations(t)
}

func TestQuizService_AnswerQuestionCompletesWhenAllAnswered(t *testing.T) {
	f := newQuizFixture(t)
	qs := sampleQuestions(t)
	for i := range qs {
		f.questions.On("FindByID", qs[i].ID).Return(&qs[i], nil)
	}

	res, err := f.svc.AnswerQuestion(9, 101, form("answer", "B"))
	require.NoError(t, err)
	assert.True(t, res.Correct)
	assert.Equal(t, 5, res.Score)
	assert.False(t, res.AllCompleted)

	_, err = f.svc.AnswerQuestion(9, 102, form("answer-0", "印度", "answer-1", "x"))
	require.NoError(t, err)

	f.progress.On("Complete", uint(9), uint(1), (*model.Level)(nil)).Return(nil).Once()
	res, err = f.svc.AnswerQuestion(9, 103, form("matching_result", "[]"))
	require.NoError(t, err)
	assert.False(t, res.Correct)
	assert.True(t, res.AllCompleted)
	f.progress.AssertExpectations(t)
}

func TestQuizService_Result(t *testing.T) {
	f := newQuizFixture(t)
	ctx := context.Background()
	f.answers.saved[101] = model.UserAnswer{UserID: 9, QuestionID: 101, IsCorrect: true, Score: 5}
	f.answers.saved[103] = model.UserAnswer{UserID: 9, QuestionID: 103, IsCorrect: false}
	require.NoError(t, f.hearts.Set(ctx, 9, 1, 1))

	res, err := f.svc.Result(ctx, 9, 1)
	require.NoError(t, err)
	assert.Equal(t, 15, res.TotalScore)
	assert.Equal(t, 5, res.UserScore)
	assert.Equal(t, 1, res.Correct)
	assert.Equal(t, 33.3, res.Accuracy)

	assert.Equal(t, []string{"文学常识", "课文内容理解"}, res.Chart.Labels)
	assert.Equal(t, []float64{0, 50}, res.Chart.Values)
	require.Len(t, res.Knowledge, 2)
	assert.Equal(t, KnowledgeResult{Name: "课文内容理解", Total: 2, Correct: 1, Accuracy: 50}, res.Knowledge[1])
	require.NotNil(t, res.Radar)
	assert.Equal(t, float64(100), res.Radar.Max)
	require.Len(t, res.Answers, 3)
	assert.False(t, res.Answers[1].Answered)

	_, ok, err := f.hearts.Get(ctx, 9, 1)
	require.NoError(t, err)
	assert.False(t, ok, "viewing the result ends the attempt")
}

func TestQuizService_ListQuestionsHidesAnswers(t *testing.T) {
	f := newQuizFixture(t)
	f.answers.saved[102] = model.UserAnswer{UserID: 9, QuestionID: 102, IsCorrect: true, Score: 4}

	list, err := f.svc.ListQuestions(9, 1)
	require.NoError(t, err)
	require.Len(t, list.Questions, 3)
	for _, o := range list.Questions[0].Question.Options {
		assert.False(t, o.Correct)
	}
	assert.Empty(t, list.Questions[0].Question.Explanation)
	assert.True(t, list.Questions[1].Answered)
	assert.Equal(t, 4, list.Questions[1].Score)
	assert.False(t, list.Questions[2].Answered)
}

func TestQuizService_UpdateSettings(t *testing.T) {
	f := newQuizFixture(t)
	f.svc.UpdateSettings(config.QuizConfig{InitialHearts: 5, RedirectDelay: 2 * time.Second, WrongMessages: []string{"加油"}})

	page, err := f.svc.GetQuestion(context.Background(), 9, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 5, page.Hearts)
	assert.Equal(t, int64(2000), page.RedirectDelayMs)
	assert.Equal(t, []string{"加油"}, page.WrongMessages)
}
