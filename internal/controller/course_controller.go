package controller

import (
	"card_quiz_backend/internal/quiz"
	"card_quiz_backend/internal/service"
	"card_quiz_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	CourseService *service.CourseService
}

func NewCourseController(courseService *service.CourseService) *CourseController {
	return &CourseController{CourseService: courseService}
}

// @Summary 获取年级课程
// @Tags 课程
// @Security BearerAuth
// @Produce json
// @Param grade path string true "年级，如 三年级"
// @Success 200 {object} util.Response{data=service.GradeCourses}
// @Router /api/grades/{grade}/courses [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	courses, err := c.CourseService.ListCourses(ctx.Param("grade"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, courses)
}

type SelectCourseRequest struct {
	Grade  string `json:"grade" binding:"required"`
	Course string `json:"course" binding:"required"`
}

// @Summary 选择课程
// @Description 记录用户选择的年级和课程，课程名为科目加学期，如 语文上册
// @Tags 课程
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body SelectCourseRequest true "年级与课程"
// @Success 200 {object} util.Response{data=service.CourseSummary}
// @Failure 404 {object} util.Response
// @Router /api/courses/select [post]
func (c *CourseController) SelectCourse(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	var req SelectCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	course, err := c.CourseService.SelectCourse(user.UserID, req.Grade, req.Course)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, course)
}

// @Summary 当前课程
// @Description 返回上次选择的课程，未选择时提示下一步
// @Tags 课程
// @Security BearerAuth
// @Produce json
// @Success 200 {object} util.Response{data=service.CurrentCourse}
// @Router /api/courses/current [get]
func (c *CourseController) CurrentCourse(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	current, err := c.CourseService.CurrentCourse(user.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, current)
}

// @Summary 课程地图
// @Description 单元、关卡与进度；mode=list 时关卡跳转到题目列表，默认进入答题
// @Tags 课程
// @Security BearerAuth
// @Produce json
// @Param id path int true "课程ID"
// @Param mode query string false "quiz 或 list"
// @Success 200 {object} util.Response{data=service.GameMap}
// @Router /api/courses/{id}/game [get]
func (c *CourseController) GameMap(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	mode := quiz.NavQuizEntry
	if ctx.Query("mode") == "list" {
		mode = quiz.NavQuestionList
	}
	gm, err := c.CourseService.GameMap(user.UserID, id, mode)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gm)
}
