package quiz

import "sync"

// Hearts is the row of life indicators shown during a quiz.
type Hearts struct {
	mu   sync.Mutex
	lost []bool
}

// NewHearts creates total indicators of which the right-most total-remaining are already lost.
func NewHearts(total, remaining int) *Hearts {
	if total < 0 {
		total = 0
	}
	if remaining > total {
		remaining = total
	}
	if remaining < 0 {
		remaining = 0
	}
	h := &Hearts{lost: make([]bool, total)}
	for i := remaining; i < total; i++ {
		h.lost[i] = true
	}
	return h
}

// Lose 将最右侧尚未失去的生命标记为失去，返回其下标；已无生命时返回 false
func (h *Hearts) Lose() (int, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := len(h.lost) - 1; i >= 0; i-- {
		if !h.lost[i] {
			h.lost[i] = true
			return i, true
		}
	}
	return 0, false
}

func (h *Hearts) Remaining() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, lost := range h.lost {
		if !lost {
			n++
		}
	}
	return n
}

func (h *Hearts) Total() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.lost)
}

// Lost reports whether the indicator at index i is lost.
func (h *Hearts) Lost(i int) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return i >= 0 && i < len(h.lost) && h.lost[i]
}
