package util

import (
	"card_quiz_backend/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response 统一响应结构，code 与 HTTP 状态码一致
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func write(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Response{Code: status, Message: message, Data: data})
}

func Success(c *gin.Context, data interface{}) {
	write(c, http.StatusOK, "success", data)
}

func Created(c *gin.Context, data interface{}) {
	write(c, http.StatusCreated, "created", data)
}

func Error(c *gin.Context, code int, message string) {
	write(c, code, message, nil)
}

func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, "请先登录")
}

func Forbidden(c *gin.Context) {
	Error(c, http.StatusForbidden, "没有权限")
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

func Conflict(c *gin.Context, message string) {
	Error(c, http.StatusConflict, message)
}

func InternalServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "服务器内部错误")
}

// LogInternalError 记录请求上下文后返回 500，错误细节不下发给客户端
func LogInternalError(c *gin.Context, err error) {
	fields := []zap.Field{zap.Error(err), zap.String("route", c.FullPath())}
	if c.Request != nil {
		fields = append(fields, zap.String("method", c.Request.Method))
	}
	if user := GetUserFromContext(c); user != nil {
		fields = append(fields, zap.Uint("userID", user.UserID))
	}
	logger.Log.Error("Internal server error", fields...)
	InternalServerError(c)
}
