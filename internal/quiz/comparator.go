package quiz

import (
	"encoding/json"
	"strconv"
	"strings"
	"unicode"
)

// ignoredPunctuation 比较时忽略的标点（含中文全角形式）
const ignoredPunctuation = `.,，。、；：！？""''（）【】《》` + "“”‘’"

// CompareAnswers 比较学生答案与标准答案：先忽略大小写与首尾空白做精确比较，
// 失败后再去掉标点与所有空白比较一次。
func CompareAnswers(userAnswer, correctAnswer string) bool {
	user := strings.TrimSpace(strings.ToLower(userAnswer))
	correct := strings.TrimSpace(strings.ToLower(correctAnswer))
	if user == correct {
		return true
	}
	return stripPunctuation(user) == stripPunctuation(correct)
}

func stripPunctuation(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || strings.ContainsRune(ignoredPunctuation, r) {
			return -1
		}
		return r
	}, s)
}

// Accepted is one accepted answer or an ordered list of acceptable alternatives.
type Accepted []string

// Single wraps a single accepted answer.
func Single(answer string) Accepted {
	return Accepted{answer}
}

// UnmarshalJSON accepts a string, a number, a bool or an array of those.
func (a *Accepted) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	values, ok := flattenScalars(raw)
	if !ok {
		return ErrMalformedData
	}
	*a = values
	return nil
}

// CheckAnswer 对任一可接受答案匹配成功即判为正确
func CheckAnswer(userAnswer string, accepted Accepted) bool {
	for _, candidate := range accepted {
		if CompareAnswers(userAnswer, candidate) {
			return true
		}
	}
	return false
}

func scalarString(v interface{}) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return "", false
	}
}

func flattenScalars(v interface{}) ([]string, bool) {
	if s, ok := scalarString(v); ok {
		return []string{s}, true
	}
	list, ok := v.([]interface{})
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		s, ok := scalarString(item)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}
