package quiz

import (
	"math/rand"
	"sync"
)

type FeedbackState int

const (
	FeedbackHidden FeedbackState = iota
	FeedbackCorrect
	FeedbackIncorrect
)

func (s FeedbackState) String() string {
	switch s {
	case FeedbackCorrect:
		return "shown-correct"
	case FeedbackIncorrect:
		return "shown-incorrect"
	default:
		return "hidden"
	}
}

const (
	correctTitle   = "回答正确！"
	correctMessage = "太棒了，继续保持！"
	correctStyle   = "feedback-card feedback-correct"
	wrongTitle     = "回答错误"
	wrongMessage   = "再接再厉，下次一定能行！"
	wrongStyle     = "feedback-card feedback-wrong"
)

// FeedbackView is what the overlay currently displays.
type FeedbackView struct {
	State   FeedbackState `json:"-"`
	Visible bool          `json:"visible"`
	Correct bool          `json:"correct"`
	Title   string        `json:"title"`
	Message string        `json:"message"`
	Style   string        `json:"style"`
}

// Feedback 反馈浮层状态机：hidden -> shown-correct | shown-incorrect -> hidden
type Feedback struct {
	mu              sync.Mutex
	view            FeedbackView
	correctMessages []string
	wrongMessages   []string
	rnd             *rand.Rand
}

// NewFeedback builds an overlay. Empty pools fall back to the fixed messages.
func NewFeedback(correctMessages, wrongMessages []string, seed int64) *Feedback {
	return &Feedback{
		correctMessages: correctMessages,
		wrongMessages:   wrongMessages,
		rnd:             rand.New(rand.NewSource(seed)),
	}
}

func (f *Feedback) Show(correct bool) FeedbackView {
	f.mu.Lock()
	defer f.mu.Unlock()
	if correct {
		f.view = FeedbackView{
			State:   FeedbackCorrect,
			Visible: true,
			Correct: true,
			Title:   correctTitle,
			Message: f.pick(f.correctMessages, correctMessage),
			Style:   correctStyle,
		}
	} else {
		f.view = FeedbackView{
			State:   FeedbackIncorrect,
			Visible: true,
			Title:   wrongTitle,
			Message: f.pick(f.wrongMessages, wrongMessage),
			Style:   wrongStyle,
		}
	}
	return f.view
}

// Hide keeps the last content but marks the overlay hidden.
func (f *Feedback) Hide() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.view.State = FeedbackHidden
	f.view.Visible = false
}

func (f *Feedback) View() FeedbackView {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.view
}

func (f *Feedback) pick(pool []string, fallback string) string {
	if len(pool) == 0 {
		return fallback
	}
	return pool[f.rnd.Intn(len(pool))]
}
