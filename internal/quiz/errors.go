package quiz

import "errors"

var (
	ErrUnknownQuestionType = errors.New("unknown question type")
	ErrMalformedData       = errors.New("malformed embedded data")
	ErrLevelLocked         = errors.New("level is locked")
	ErrAlreadySubmitted    = errors.New("answer already submitted")
	ErrTaskAbandoned       = errors.New("task abandoned")
)
