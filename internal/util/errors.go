package util

import "errors"

var (
	ErrUserNotFound       = errors.New("用户不存在")
	ErrUsernameTaken      = errors.New("该用户名已被注册")
	ErrInvalidCredentials = errors.New("用户名或密码错误")
	ErrInvalidToken       = errors.New("invalid token")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrCourseNotFound     = errors.New("course not found")
	ErrLevelNotFound      = errors.New("level not found")
	ErrLevelNotAccessible = errors.New("level not accessible")
	ErrQuestionNotFound   = errors.New("question not found")
	ErrNoActiveLevel      = errors.New("no active level")
	ErrInvalidQuestion    = errors.New("invalid question content")
	ErrInvalidFileType    = errors.New("invalid file type")
)
