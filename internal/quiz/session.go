package quiz

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultRedirectDelay keeps the feedback overlay visible before leaving the page.
const DefaultRedirectDelay = 1500 * time.Millisecond

// SubmitResponse is the body returned by the form action.
type SubmitResponse struct {
	Redirect string `json:"redirect,omitempty"`
}

// Transport performs the two background calls of a question page.
type Transport interface {
	UpdateHearts(ctx context.Context, index int) error
	SubmitResult(ctx context.Context, action string, sub Submission, isCorrect bool) (SubmitResponse, error)
}

// Navigator leaves the current question page.
type Navigator interface {
	Navigate(url string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(url string)

func (f NavigatorFunc) Navigate(url string) { f(url) }

type SessionConfig struct {
	Validator     Validator
	Hearts        *Hearts
	Feedback      *Feedback
	Board         *MatchBoard
	Transport     Transport
	Navigator     Navigator
	FormAction    string
	NextURL       string
	RedirectDelay time.Duration
	Clock         func() time.Time
	// AfterFunc schedules delayed navigation, time.AfterFunc by default.
	AfterFunc func(d time.Duration, f func()) *time.Timer
	Logger    *zap.Logger
}

// SubmitOutcome is what HandleSubmit decided synchronously.
type SubmitOutcome struct {
	Correct         bool
	Feedback        FeedbackView
	HeartLost       bool
	HeartIndex      int
	HeartsRemaining int
	TimeSpent       int
	HeartsTask      *Task
	ResultTask      *Task
}

// Session mediates one question page: submit, feedback, hearts, advance.
type Session struct {
	mu        sync.Mutex
	validator Validator
	hearts    *Hearts
	feedback  *Feedback
	board     *MatchBoard
	transport Transport
	navigator Navigator

	formAction string
	nextURL    string
	delay      time.Duration
	now        func() time.Time
	afterFunc  func(d time.Duration, f func()) *time.Timer
	log        *zap.Logger

	startedAt time.Time
	submitted bool
	timer     *time.Timer
	tasks     []*Task
}

var errNoValidator = errors.New("session requires a validator")

func NewSession(cfg SessionConfig) (*Session, error) {
	if cfg.Validator == nil {
		return nil, errNoValidator
	}
	s := &Session{
		validator:  cfg.Validator,
		hearts:     cfg.Hearts,
		feedback:   cfg.Feedback,
		board:      cfg.Board,
		transport:  cfg.Transport,
		navigator:  cfg.Navigator,
		formAction: cfg.FormAction,
		nextURL:    cfg.NextURL,
		delay:      cfg.RedirectDelay,
		now:        cfg.Clock,
		afterFunc:  cfg.AfterFunc,
		log:        cfg.Logger,
	}
	if s.hearts == nil {
		s.hearts = NewHearts(0, 0)
	}
	if s.feedback == nil {
		s.feedback = NewFeedback(nil, nil, 1)
	}
	if s.delay <= 0 {
		s.delay = DefaultRedirectDelay
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.afterFunc == nil {
		s.afterFunc = time.AfterFunc
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	s.startedAt = s.now()
	return s, nil
}

// CanSubmit 未提交且（连线题）连线数量满足要求时可提交
func (s *Session) CanSubmit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitted {
		return false
	}
	return s.board == nil || s.board.CanSubmit()
}

func (s *Session) Submitted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitted
}

func (s *Session) Hearts() *Hearts { return s.hearts }

func (s *Session) Feedback() FeedbackView { return s.feedback.View() }

// HandleSubmit grades the submission locally and starts the background calls.
// It never waits for them.
func (s *Session) HandleSubmit(ctx context.Context, sub Submission) (SubmitOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitted {
		return SubmitOutcome{}, ErrAlreadySubmitted
	}
	s.submitted = true

	sub = NewSubmission(cloneValues(sub.Values))
	if s.board != nil && sub.MatchingResult() == "" {
		sub.Values.Set(FieldMatchingResult, s.board.ResultJSON())
	}

	correct := s.validator.Validate(sub)
	out := SubmitOutcome{
		Correct:  correct,
		Feedback: s.feedback.Show(correct),
	}

	if !correct {
		if idx, ok := s.hearts.Lose(); ok {
			out.HeartLost = true
			out.HeartIndex = idx
			if s.transport != nil {
				out.HeartsTask = s.start(ctx, "update_hearts", func(ctx context.Context) error {
					return s.transport.UpdateHearts(ctx, idx)
				})
			}
		}
	}
	out.HeartsRemaining = s.hearts.Remaining()

	out.TimeSpent = int(s.now().Sub(s.startedAt) / time.Second)
	sub.Values.Set(FieldTimeSpent, strconv.Itoa(out.TimeSpent))

	if s.transport != nil {
		task, taskCtx := newTask(ctx, "submit_result")
		s.run(task, taskCtx, func(ctx context.Context) error {
			resp, err := s.transport.SubmitResult(ctx, s.formAction, sub, correct)
			if err != nil {
				return err
			}
			if resp.Redirect != "" {
				s.scheduleRedirect(task, resp.Redirect)
			}
			return nil
		})
		out.ResultTask = task
	}

	s.log.Debug("question submitted",
		zap.String("type", string(s.validator.Type())),
		zap.Bool("correct", correct),
		zap.Int("hearts", out.HeartsRemaining),
		zap.Int("time_spent", out.TimeSpent))
	return out, nil
}

// HandleNext hides the overlay and follows the next-question URL if there is one.
func (s *Session) HandleNext() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feedback.Hide()
	if s.nextURL == "" || s.navigator == nil {
		return false
	}
	s.navigator.Navigate(s.nextURL)
	return true
}

// Close abandons in-flight calls and cancels a pending redirect.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tasks {
		t.Abandon()
	}
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Session) start(ctx context.Context, name string, fn func(ctx context.Context) error) *Task {
	t, taskCtx := newTask(ctx, name)
	s.run(t, taskCtx, fn)
	return t
}

// run 启动后台调用，失败只记录日志
func (s *Session) run(t *Task, ctx context.Context, fn func(ctx context.Context) error) {
	s.tasks = append(s.tasks, t)
	t.run(ctx, func(ctx context.Context) error {
		err := fn(ctx)
		if err != nil {
			s.log.Warn("background call failed", zap.String("call", t.Name()), zap.Error(err))
		}
		return err
	})
}

func (s *Session) scheduleRedirect(t *Task, url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.navigator == nil || t.Abandoned() {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = s.afterFunc(s.delay, func() {
		if t.Abandoned() {
			return
		}
		s.navigator.Navigate(url)
	})
}
