package quiz

import (
	"encoding/json"
	"math"
	"sync"
)

// Match 一条已确认的连线
type Match struct {
	Left  int `json:"left"`
	Right int `json:"right"`
}

type ItemState int

const (
	ItemUnselected ItemState = iota
	ItemSelected
	ItemMatched
)

func (s ItemState) String() string {
	switch s {
	case ItemSelected:
		return "selected"
	case ItemMatched:
		return "matched"
	default:
		return "unselected"
	}
}

type Side int

const (
	LeftSide Side = iota
	RightSide
)

// Rect is an element bounding box in viewport coordinates.
type Rect struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

func (r Rect) Right() float64   { return r.Left + r.Width }
func (r Rect) MiddleY() float64 { return r.Top + r.Height/2 }

// Layout supplies the current bounding boxes of the matching widget.
type Layout interface {
	Container() Rect
	Item(side Side, id int) (Rect, bool)
}

// StaticLayout is a Layout backed by fixed boxes.
type StaticLayout struct {
	Box   Rect
	Left  map[int]Rect
	Right map[int]Rect
}

func (l StaticLayout) Container() Rect { return l.Box }

func (l StaticLayout) Item(side Side, id int) (Rect, bool) {
	boxes := l.Left
	if side == RightSide {
		boxes = l.Right
	}
	r, ok := boxes[id]
	return r, ok
}

// Line is one connecting segment, relative to the container.
type Line struct {
	StartX float64 `json:"startX"`
	StartY float64 `json:"startY"`
	EndX   float64 `json:"endX"`
	EndY   float64 `json:"endY"`
	Length float64 `json:"length"`
	Angle  float64 `json:"angle"` // radians
}

// LineRenderer receives the recomputed lines after every change.
type LineRenderer interface {
	DrawLines(lines []Line)
}

// MatchBoard tracks the click-to-connect state of one matching question.
type MatchBoard struct {
	mu       sync.Mutex
	left     []int
	right    []int
	leftSet  map[int]struct{}
	rightSet map[int]struct{}

	selected    int
	hasSelected bool
	matches     []Match

	layout   Layout
	renderer LineRenderer
	onChange func(canSubmit bool, resultJSON string)
}

type BoardOption func(*MatchBoard)

func WithLayout(layout Layout) BoardOption {
	return func(b *MatchBoard) { b.layout = layout }
}

func WithLineRenderer(r LineRenderer) BoardOption {
	return func(b *MatchBoard) { b.renderer = r }
}

// WithChangeHandler is called after every mutation with the submit eligibility
// and the value of the matching_result field.
func WithChangeHandler(fn func(canSubmit bool, resultJSON string)) BoardOption {
	return func(b *MatchBoard) { b.onChange = fn }
}

func NewMatchBoard(leftIDs, rightIDs []int, opts ...BoardOption) *MatchBoard {
	b := &MatchBoard{
		left:     append([]int(nil), leftIDs...),
		right:    append([]int(nil), rightIDs...),
		leftSet:  make(map[int]struct{}, len(leftIDs)),
		rightSet: make(map[int]struct{}, len(rightIDs)),
	}
	for _, id := range leftIDs {
		b.leftSet[id] = struct{}{}
	}
	for _, id := range rightIDs {
		b.rightSet[id] = struct{}{}
	}
	for _, opt := range opts {
		opt(b)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.changedLocked()
	return b
}

// ClickLeft 点击左侧项目：已连线则取消连线，否则选中该项目
func (b *MatchBoard) ClickLeft(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.leftSet[id]; !ok {
		return
	}
	if idx := b.indexOf(func(m Match) bool { return m.Left == id }); idx >= 0 {
		b.removeAt(idx)
		b.changedLocked()
		return
	}
	b.selected = id
	b.hasSelected = true
}

// ClickRight 点击右侧项目：已连线则取消连线，有选中的左侧项目则建立连线
func (b *MatchBoard) ClickRight(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.rightSet[id]; !ok {
		return
	}
	if idx := b.indexOf(func(m Match) bool { return m.Right == id }); idx >= 0 {
		b.removeAt(idx)
		b.changedLocked()
		return
	}
	if !b.hasSelected {
		return
	}

	left := b.selected
	kept := b.matches[:0]
	for _, m := range b.matches {
		if m.Left != left && m.Right != id {
			kept = append(kept, m)
		}
	}
	b.matches = append(kept, Match{Left: left, Right: id})
	b.hasSelected = false
	b.changedLocked()
}

// Resize recomputes the lines against a new layout without touching state.
func (b *MatchBoard) Resize(layout Layout) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.layout = layout
	b.drawLocked()
}

func (b *MatchBoard) Selected() (int, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.selected, b.hasSelected
}

func (b *MatchBoard) State(side Side, id int) ItemState {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, m := range b.matches {
		if (side == LeftSide && m.Left == id) || (side == RightSide && m.Right == id) {
			return ItemMatched
		}
	}
	if side == LeftSide && b.hasSelected && b.selected == id {
		return ItemSelected
	}
	return ItemUnselected
}

func (b *MatchBoard) Matches() []Match {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Match(nil), b.matches...)
}

// CanSubmit 连线数量达到左右两侧较少一侧的数量后允许提交
func (b *MatchBoard) CanSubmit() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.canSubmitLocked()
}

// ResultJSON is the value posted in the matching_result field.
func (b *MatchBoard) ResultJSON() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.resultJSONLocked()
}

// Lines computes one segment per match from the right edge of the left item
// to the left edge of the right item.
func (b *MatchBoard) Lines(layout Layout) []Line {
	b.mu.Lock()
	defer b.mu.Unlock()
	return computeLines(b.matches, layout)
}

func (b *MatchBoard) indexOf(pred func(Match) bool) int {
	for i, m := range b.matches {
		if pred(m) {
			return i
		}
	}
	return -1
}

func (b *MatchBoard) removeAt(idx int) {
	b.matches = append(b.matches[:idx], b.matches[idx+1:]...)
}

func (b *MatchBoard) canSubmitLocked() bool {
	need := len(b.left)
	if len(b.right) < need {
		need = len(b.right)
	}
	return len(b.matches) >= need
}

func (b *MatchBoard) resultJSONLocked() string {
	out := b.matches
	if out == nil {
		out = []Match{}
	}
	data, _ := json.Marshal(out)
	return string(data)
}

func (b *MatchBoard) changedLocked() {
	b.drawLocked()
	if b.onChange != nil {
		b.onChange(b.canSubmitLocked(), b.resultJSONLocked())
	}
}

func (b *MatchBoard) drawLocked() {
	if b.renderer == nil {
		return
	}
	b.renderer.DrawLines(computeLines(b.matches, b.layout))
}

func computeLines(matches []Match, layout Layout) []Line {
	if layout == nil {
		return nil
	}
	container := layout.Container()
	lines := make([]Line, 0, len(matches))
	for _, m := range matches {
		l, okL := layout.Item(LeftSide, m.Left)
		r, okR := layout.Item(RightSide, m.Right)
		if !okL || !okR {
			continue
		}
		startX := l.Right() - container.Left
		startY := l.MiddleY() - container.Top
		endX := r.Left - container.Left
		endY := r.MiddleY() - container.Top
		dx, dy := endX-startX, endY-startY
		lines = append(lines, Line{
			StartX: startX,
			StartY: startY,
			EndX:   endX,
			EndY:   endY,
			Length: math.Hypot(dx, dy),
			Angle:  math.Atan2(dy, dx),
		})
	}
	return lines
}
