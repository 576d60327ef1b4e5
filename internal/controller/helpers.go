package controller

import (
	"card_quiz_backend/internal/quiz"
	"card_quiz_backend/internal/util"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// paramID 解析路径中的 ID 参数，失败时直接返回 400
func paramID(ctx *gin.Context, name string) (uint, bool) {
	id := util.MustParseUint(ctx.Param(name))
	if id == 0 {
		util.BadRequest(ctx, "invalid "+name)
		return 0, false
	}
	return id, true
}

// respondError 将业务错误映射为统一响应
func respondError(ctx *gin.Context, err error) {
	var unanswered *quiz.UnansweredError
	switch {
	case errors.As(err, &unanswered):
		util.BadRequest(ctx, unanswered.Error())
	case errors.Is(err, util.ErrLevelNotAccessible), errors.Is(err, quiz.ErrLevelLocked):
		util.Error(ctx, http.StatusForbidden, "关卡尚未解锁")
	case errors.Is(err, util.ErrLevelNotFound),
		errors.Is(err, util.ErrQuestionNotFound),
		errors.Is(err, util.ErrCourseNotFound),
		errors.Is(err, util.ErrUserNotFound):
		util.NotFound(ctx, err.Error())
	case errors.Is(err, util.ErrNoActiveLevel):
		util.Conflict(ctx, "当前没有进行中的关卡")
	case errors.Is(err, util.ErrInvalidQuestion), errors.Is(err, util.ErrInvalidFileType):
		util.BadRequest(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}
