package quiz

import (
	"encoding/json"
	"net/url"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func form(kv ...string) Submission {
	v := url.Values{}
	for i := 0; i+1 < len(kv); i += 2 {
		v.Set(kv[i], kv[i+1])
	}
	return NewSubmission(v)
}

func blanks(answers ...string) Submission {
	v := url.Values{}
	for i, a := range answers {
		v.Set(FieldBlankPrefix+strconv.Itoa(i), a)
	}
	return NewSubmission(v)
}

func mustValidator(t *testing.T, data QuestionData) Validator {
	t.Helper()
	v, err := NewValidator(data, nil)
	require.NoError(t, err)
	return v
}

func TestParseQuestionType(t *testing.T) {
	qt, err := ParseQuestionType(" matching ")
	require.NoError(t, err)
	assert.Equal(t, Matching, qt)

	_, err = ParseQuestionType("essay")
	assert.ErrorIs(t, err, ErrUnknownQuestionType)
}

func TestNewValidator_UnknownType(t *testing.T) {
	_, err := NewValidator(QuestionData{Type: "essay"}, nil)
	assert.ErrorIs(t, err, ErrUnknownQuestionType)
}

func TestMultipleChoiceValidator(t *testing.T) {
	v := mustValidator(t, QuestionData{
		Type: MultipleChoice,
		Options: []Option{
			{Value: "A", Text: "1"},
			{Value: "B", Text: "2", Correct: true},
			{Value: "C", Text: "3"},
		},
	})
	assert.Equal(t, MultipleChoice, v.Type())
	assert.True(t, v.Validate(form(FieldAnswer, "B")))
	assert.False(t, v.Validate(form(FieldAnswer, "A")))
	assert.False(t, v.Validate(form(FieldAnswer, "Z")))
	assert.False(t, v.Validate(form()))
}

func TestTrueFalseValidator(t *testing.T) {
	v := mustValidator(t, QuestionData{Type: TrueFalse, CorrectValue: "false"})
	assert.True(t, v.Validate(form(FieldAnswer, "false")))
	assert.False(t, v.Validate(form(FieldAnswer, "true")))
	assert.False(t, v.Validate(form(FieldAnswer, "False")))
	assert.False(t, v.Validate(form()))

	fromOptions := mustValidator(t, QuestionData{
		Type:    TrueFalse,
		Options: []Option{{Value: "true", Correct: true}, {Value: "false"}},
	})
	assert.True(t, fromOptions.Validate(form(FieldAnswer, "true")))
}

func TestFillBlankValidator(t *testing.T) {
	tests := []struct {
		name    string
		correct string
		sub     Submission
		want    bool
	}{
		{"single value", `"Paris"`, form(FieldAnswer, " paris "), true},
		{"single value wrong", `"Paris"`, form(FieldAnswer, "London"), false},
		{"single numeric", `42`, form(FieldAnswer, "42"), true},
		{"multi all match", `["red","blue"]`, blanks("red", "blue"), true},
		{"multi one wrong", `["red","blue"]`, blanks("red", "green"), false},
		{"length mismatch", `["red","blue"]`, blanks("red"), false},
		{"single value many blanks", `"red"`, blanks("red", "blue"), false},
		{"alternatives per blank", `[["北京","beijing"],"上海"]`, blanks("Beijing", "上海。"), true},
		{"malformed json", `["red"`, blanks("red"), false},
		{"object is malformed", `{"a":1}`, blanks("red"), false},
		{"no blanks", `"red"`, form(), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := mustValidator(t, QuestionData{Type: FillBlank, CorrectAnswers: json.RawMessage(tt.correct)})
			assert.Equal(t, tt.want, v.Validate(tt.sub))
		})
	}
}

func TestFillBlankValidator_LogsMalformedData(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	v, err := NewValidator(QuestionData{Type: FillBlank, CorrectAnswers: json.RawMessage(`[`)}, zap.New(core))
	require.NoError(t, err)

	assert.False(t, v.Validate(blanks("x")))
	assert.Equal(t, 1, logs.Len())
}

func TestMatchingValidator(t *testing.T) {
	correct := `[{"left":1,"right":1},{"left":2,"right":2}]`
	tests := []struct {
		name      string
		confirmed string
		want      bool
	}{
		{"cardinality mismatch", `[{"left":1,"right":1}]`, false},
		{"equal sets", `[{"left":1,"right":1},{"left":2,"right":2}]`, true},
		{"order does not matter", `[{"left":2,"right":2},{"left":1,"right":1}]`, true},
		{"wrong pair", `[{"left":1,"right":1},{"left":3,"right":3}]`, false},
		{"empty", ``, false},
		{"malformed", `[{"left":1`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := mustValidator(t, QuestionData{Type: Matching, CorrectMatches: json.RawMessage(correct)})
			assert.Equal(t, tt.want, v.Validate(form(FieldMatchingResult, tt.confirmed)))
		})
	}
}

func TestMatchingValidator_MalformedCorrectData(t *testing.T) {
	v := mustValidator(t, QuestionData{Type: Matching, CorrectMatches: json.RawMessage(`nope`)})
	assert.False(t, v.Validate(form(FieldMatchingResult, `[]`)))
}

func TestMatchingValidator_NonInjectiveIsLogged(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	v, err := NewValidator(QuestionData{
		Type:           Matching,
		CorrectMatches: json.RawMessage(`[{"left":1,"right":1},{"left":2,"right":2}]`),
	}, zap.New(core))
	require.NoError(t, err)

	v.Validate(form(FieldMatchingResult, `[{"left":1,"right":1},{"left":1,"right":2}]`))
	assert.Equal(t, 1, logs.FilterMessage("confirmed matches reuse an endpoint").Len())
}

func TestSubmission_Blanks(t *testing.T) {
	sub := NewSubmission(url.Values{
		FieldAnswer:            {"ignored"},
		FieldBlankPrefix + "0": {" A "},
		FieldBlankPrefix + "1": {"B"},
		FieldBlankPrefix + "3": {"gap"},
	})
	assert.Equal(t, []string{"a", "b"}, sub.Blanks())
	assert.Nil(t, NewSubmission(nil).Blanks())
}
