package quiz

import (
	"strconv"
	"strings"
)

// QuestionCard is one question of a quiz-wide answer sheet.
type QuestionCard struct {
	QuestionID uint   `json:"question_id"`
	Answer     string `json:"answer"`
}

func (c QuestionCard) Answered() bool {
	return strings.TrimSpace(c.Answer) != ""
}

// CheckUnanswered 返回未作答题目的序号（从 1 开始，按顺序）
func CheckUnanswered(cards []QuestionCard) []int {
	var missing []int
	for i, c := range cards {
		if !c.Answered() {
			missing = append(missing, i+1)
		}
	}
	return missing
}

// UnansweredError blocks an answer sheet with unanswered questions.
type UnansweredError struct {
	Numbers []int
}

func (e *UnansweredError) Error() string {
	parts := make([]string, len(e.Numbers))
	for i, n := range e.Numbers {
		parts[i] = strconv.Itoa(n)
	}
	return "请回答第 " + strings.Join(parts, ", ") + " 题"
}

// ValidateSheet returns *UnansweredError when any card is unanswered.
func ValidateSheet(cards []QuestionCard) error {
	if missing := CheckUnanswered(cards); len(missing) > 0 {
		return &UnansweredError{Numbers: missing}
	}
	return nil
}
