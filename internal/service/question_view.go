package service

import (
	"card_quiz_backend/internal/model"
	"card_quiz_backend/internal/quiz"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"gorm.io/datatypes"
)

// QuestionView 返回给前端的题目内容
type QuestionView struct {
	ID          uint               `json:"id"`
	Type        model.QuestionType `json:"questionType"`
	Content     string             `json:"content"`
	Score       int                `json:"score"`
	Order       int                `json:"order"`
	Explanation string             `json:"explanation,omitempty"`
	Options     []quiz.Option      `json:"options,omitempty"`
	LeftItems   []model.MatchItem  `json:"leftItems,omitempty"`
	RightItems  []model.MatchItem  `json:"rightItems,omitempty"`
	BlanksCount int                `json:"blanksCount,omitempty"`
	Knowledge   []string           `json:"knowledgePoints,omitempty"`
}

var trueFalseLabels = [2]string{"正确", "错误"}

// BuildQuestionData 从题目记录生成页面内嵌的判题数据
func BuildQuestionData(q model.Question) (quiz.QuestionData, error) {
	qt, err := quiz.ParseQuestionType(string(q.Type))
	if err != nil {
		return quiz.QuestionData{}, err
	}
	data := quiz.QuestionData{Type: qt}

	switch qt {
	case quiz.MultipleChoice:
		var options []model.ChoiceOption
		if err := unmarshalColumn(q.Options, &options); err != nil {
			return data, fmt.Errorf("question %d options: %w", q.ID, err)
		}
		correct, err := choiceSet(q.CorrectAnswer)
		if err != nil {
			return data, fmt.Errorf("question %d correct answer: %w", q.ID, err)
		}
		for _, o := range options {
			data.Options = append(data.Options, quiz.Option{Value: o.ID, Text: o.Content, Correct: correct[o.ID]})
		}
	case quiz.TrueFalse:
		value, err := trueFalseValue(q.CorrectAnswer)
		if err != nil {
			return data, fmt.Errorf("question %d correct answer: %w", q.ID, err)
		}
		data.CorrectValue = value
		data.Options = []quiz.Option{
			{Value: "true", Text: trueFalseLabels[0], Correct: value == "true"},
			{Value: "false", Text: trueFalseLabels[1], Correct: value == "false"},
		}
	case quiz.FillBlank:
		data.CorrectAnswers = json.RawMessage(q.CorrectAnswer)
	case quiz.Matching:
		data.CorrectMatches = json.RawMessage(q.CorrectMatches)
	}
	return data, nil
}

func unmarshalColumn(col datatypes.JSON, v interface{}) error {
	if len(col) == 0 {
		return nil
	}
	return json.Unmarshal(col, v)
}

// choiceSet 接受 ["B"] 或 "B"
func choiceSet(col datatypes.JSON) (map[string]bool, error) {
	set := make(map[string]bool)
	if len(col) == 0 {
		return set, nil
	}
	var many []string
	if err := json.Unmarshal(col, &many); err == nil {
		for _, id := range many {
			set[id] = true
		}
		return set, nil
	}
	var one string
	if err := json.Unmarshal(col, &one); err != nil {
		return nil, quiz.ErrMalformedData
	}
	set[one] = true
	return set, nil
}

// trueFalseValue 接受 true / "true"，统一为表单值
func trueFalseValue(col datatypes.JSON) (string, error) {
	var b bool
	if err := json.Unmarshal(col, &b); err == nil {
		return strconv.FormatBool(b), nil
	}
	var s string
	if err := json.Unmarshal(col, &s); err == nil {
		if parsed, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			return strconv.FormatBool(parsed), nil
		}
	}
	return "", quiz.ErrMalformedData
}

// NewQuestionView 组装题目展示数据；withAnswers 为 true 时选项带正确标记
func NewQuestionView(q model.Question, data quiz.QuestionData, withAnswers bool) QuestionView {
	v := QuestionView{
		ID:          q.ID,
		Type:        q.Type,
		Content:     q.Content,
		Score:       q.Score,
		Order:       q.Order,
		BlanksCount: q.BlanksCount,
	}
	for _, o := range data.Options {
		if !withAnswers {
			o.Correct = false
		}
		v.Options = append(v.Options, o)
	}
	if withAnswers {
		v.Explanation = q.Explanation
	}
	_ = unmarshalColumn(q.LeftItems, &v.LeftItems)
	_ = unmarshalColumn(q.RightItems, &v.RightItems)
	for _, kp := range q.KnowledgePoints {
		v.Knowledge = append(v.Knowledge, kp.Name)
	}
	return v
}

// answerContent 将提交内容按题型编码为 UserAnswer.AnswerContent
func answerContent(qt quiz.QuestionType, sub quiz.Submission) datatypes.JSON {
	var v interface{}
	switch qt {
	case quiz.MultipleChoice, quiz.TrueFalse:
		checked, _ := sub.Checked()
		v = checked
	case quiz.FillBlank:
		blanks := sub.Blanks()
		if blanks == nil {
			blanks = []string{}
		}
		v = blanks
	case quiz.Matching:
		matches, err := quiz.ParseMatches(sub.MatchingResult())
		if err != nil || matches == nil {
			matches = []quiz.Match{}
		}
		v = matches
	}
	data, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON("null")
	}
	return datatypes.JSON(data)
}

// sheetSubmission 把答题卡上的单个答案转换为表单提交
func sheetSubmission(qt quiz.QuestionType, answer string) quiz.Submission {
	values := url.Values{}
	switch qt {
	case quiz.Matching:
		values.Set(quiz.FieldMatchingResult, answer)
	case quiz.FillBlank:
		var blanks []string
		if err := json.Unmarshal([]byte(answer), &blanks); err == nil {
			for i, b := range blanks {
				values.Set(quiz.FieldBlankPrefix+strconv.Itoa(i), b)
			}
			break
		}
		values.Set(quiz.FieldAnswer, answer)
	default:
		values.Set(quiz.FieldAnswer, strings.TrimSpace(answer))
	}
	return quiz.NewSubmission(values)
}
