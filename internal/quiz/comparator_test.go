package quiz

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareAnswers(t *testing.T) {
	tests := []struct {
		name    string
		user    string
		correct string
		want    bool
	}{
		{"case insensitive", "Paris", "paris", true},
		{"punctuation and spaces", "a, b", "a b", true},
		{"different words", "cat", "dog", false},
		{"trim", "  hello ", "hello", true},
		{"cjk punctuation", "你好，世界。", "你好世界", true},
		{"cjk brackets", "《静夜思》", "静夜思", true},
		{"empty both", "", "", true},
		{"empty user", "", "x", false},
		{"no fuzzy", "colour", "color", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CompareAnswers(tt.user, tt.correct))
		})
	}
}

func TestCheckAnswer(t *testing.T) {
	assert.True(t, CheckAnswer("Beijing", Accepted{"北京", "beijing"}))
	assert.True(t, CheckAnswer("3", Single("3")))
	assert.False(t, CheckAnswer("4", Accepted{"3", "three"}))
	assert.False(t, CheckAnswer("anything", nil))
}

func TestAccepted_UnmarshalJSON(t *testing.T) {
	var a Accepted
	require.NoError(t, json.Unmarshal([]byte(`"red"`), &a))
	assert.Equal(t, Accepted{"red"}, a)

	require.NoError(t, json.Unmarshal([]byte(`["red", 12, true]`), &a))
	assert.Equal(t, Accepted{"red", "12", "true"}, a)

	require.NoError(t, json.Unmarshal([]byte(`2.5`), &a))
	assert.Equal(t, Accepted{"2.5"}, a)

	err := json.Unmarshal([]byte(`{"x":1}`), &a)
	assert.ErrorIs(t, err, ErrMalformedData)
}
