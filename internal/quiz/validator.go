package quiz

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

type QuestionType string

const (
	MultipleChoice QuestionType = "multiple_choice"
	TrueFalse      QuestionType = "true_false"
	FillBlank      QuestionType = "fill_blank"
	Matching       QuestionType = "matching"
)

// ParseQuestionType 将题型名称转换为 QuestionType
func ParseQuestionType(name string) (QuestionType, error) {
	switch t := QuestionType(strings.TrimSpace(name)); t {
	case MultipleChoice, TrueFalse, FillBlank, Matching:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownQuestionType, name)
	}
}

// Form field names shared by the question pages and the submit endpoint.
const (
	FieldAnswer         = "answer"
	FieldBlankPrefix    = "answer-"
	FieldMatchingResult = "matching_result"
	FieldIsCorrect      = "is_correct"
	FieldTimeSpent      = "time_spent"
)

// Submission is the form payload of one question.
type Submission struct {
	Values url.Values
}

func NewSubmission(values url.Values) Submission {
	if values == nil {
		values = url.Values{}
	}
	return Submission{Values: values}
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vs := range v {
		out[k] = append([]string(nil), vs...)
	}
	return out
}

// Checked 返回被选中的单选项的值
func (s Submission) Checked() (string, bool) {
	v := s.Values.Get(FieldAnswer)
	return v, v != ""
}

// Blanks returns every blank value, lower-cased and trimmed, in blank order.
// Numbered fields (answer-0, answer-1, ...) win over a lone "answer" field.
func (s Submission) Blanks() []string {
	var answers []string
	for i := 0; ; i++ {
		key := FieldBlankPrefix + strconv.Itoa(i)
		if _, ok := s.Values[key]; !ok {
			break
		}
		answers = append(answers, normalizeBlank(s.Values.Get(key)))
	}
	if len(answers) == 0 {
		if _, ok := s.Values[FieldAnswer]; ok {
			answers = append(answers, normalizeBlank(s.Values.Get(FieldAnswer)))
		}
	}
	return answers
}

func normalizeBlank(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

// MatchingResult 返回连线结果的原始 JSON
func (s Submission) MatchingResult() string {
	return s.Values.Get(FieldMatchingResult)
}

// Option is one radio input of a choice or true/false question.
type Option struct {
	Value   string `json:"value"`
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}

// QuestionData is the data a question page embeds for validation.
type QuestionData struct {
	Type           QuestionType    `json:"type"`
	Options        []Option        `json:"options,omitempty"`
	CorrectValue   string          `json:"correctValue,omitempty"`
	CorrectAnswers json.RawMessage `json:"correctAnswers,omitempty"`
	CorrectMatches json.RawMessage `json:"correctMatches,omitempty"`
}

type Validator interface {
	Type() QuestionType
	Validate(sub Submission) bool
}

// NewValidator selects the validator variant for the question type.
func NewValidator(data QuestionData, log *zap.Logger) (Validator, error) {
	if log == nil {
		log = zap.NewNop()
	}
	switch data.Type {
	case MultipleChoice:
		return &multipleChoiceValidator{options: data.Options}, nil
	case TrueFalse:
		correct := data.CorrectValue
		if correct == "" {
			for _, o := range data.Options {
				if o.Correct {
					correct = o.Value
					break
				}
			}
		}
		return &trueFalseValidator{correct: correct}, nil
	case FillBlank:
		return &fillBlankValidator{raw: data.CorrectAnswers, log: log}, nil
	case Matching:
		return &matchingValidator{raw: data.CorrectMatches, log: log}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownQuestionType, data.Type)
	}
}

type multipleChoiceValidator struct {
	options []Option
}

func (v *multipleChoiceValidator) Type() QuestionType { return MultipleChoice }

func (v *multipleChoiceValidator) Validate(sub Submission) bool {
	checked, ok := sub.Checked()
	if !ok {
		return false
	}
	for _, o := range v.options {
		if o.Value == checked {
			return o.Correct
		}
	}
	return false
}

type trueFalseValidator struct {
	correct string
}

func (v *trueFalseValidator) Type() QuestionType { return TrueFalse }

func (v *trueFalseValidator) Validate(sub Submission) bool {
	checked, ok := sub.Checked()
	return ok && v.correct != "" && checked == v.correct
}

type fillBlankValidator struct {
	raw json.RawMessage
	log *zap.Logger
}

func (v *fillBlankValidator) Type() QuestionType { return FillBlank }

func (v *fillBlankValidator) Validate(sub Submission) bool {
	answers := sub.Blanks()
	if len(answers) == 0 || len(v.raw) == 0 {
		return false
	}

	var correct interface{}
	if err := json.Unmarshal(v.raw, &correct); err != nil {
		v.log.Warn("parse correct answers failed", zap.Error(err))
		return false
	}

	if single, ok := scalarString(correct); ok {
		return len(answers) == 1 && CompareAnswers(answers[0], single)
	}

	positions, ok := correct.([]interface{})
	if !ok {
		v.log.Warn("parse correct answers failed", zap.Error(ErrMalformedData))
		return false
	}
	if len(positions) != len(answers) {
		return false
	}
	for i, pos := range positions {
		accepted, ok := flattenScalars(pos)
		if !ok {
			v.log.Warn("malformed correct answer", zap.Int("blank", i))
			return false
		}
		if !CheckAnswer(answers[i], accepted) {
			return false
		}
	}
	return true
}

type matchingValidator struct {
	raw json.RawMessage
	log *zap.Logger
}

func (v *matchingValidator) Type() QuestionType { return Matching }

func (v *matchingValidator) Validate(sub Submission) bool {
	confirmed, err := ParseMatches(sub.MatchingResult())
	if err != nil {
		v.log.Warn("parse user matches failed", zap.Error(err))
		return false
	}
	var correct []Match
	if len(v.raw) > 0 {
		if err := json.Unmarshal(v.raw, &correct); err != nil {
			v.log.Warn("parse correct matches failed", zap.Error(err))
			return false
		}
	}
	if !isInjective(confirmed) {
		v.log.Warn("confirmed matches reuse an endpoint", zap.Int("matches", len(confirmed)))
	}
	return MatchSetsEqual(confirmed, correct)
}

// MatchSetsEqual reports equal cardinality and every correct match present in confirmed.
// This is set equality only while confirmed holds at most one match per endpoint.
func MatchSetsEqual(confirmed, correct []Match) bool {
	if len(confirmed) != len(correct) {
		return false
	}
	present := make(map[Match]struct{}, len(confirmed))
	for _, m := range confirmed {
		present[m] = struct{}{}
	}
	for _, m := range correct {
		if _, ok := present[m]; !ok {
			return false
		}
	}
	return true
}

// ParseMatches 解析 matching_result 字段，空字符串视为没有连线
func ParseMatches(raw string) ([]Match, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var matches []Match
	if err := json.Unmarshal([]byte(raw), &matches); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedData, err)
	}
	return matches, nil
}

func isInjective(matches []Match) bool {
	lefts := make(map[int]struct{}, len(matches))
	rights := make(map[int]struct{}, len(matches))
	for _, m := range matches {
		if _, dup := lefts[m.Left]; dup {
			return false
		}
		if _, dup := rights[m.Right]; dup {
			return false
		}
		lefts[m.Left] = struct{}{}
		rights[m.Right] = struct{}{}
	}
	return true
}
