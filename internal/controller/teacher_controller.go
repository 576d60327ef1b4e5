package controller

import (
	"card_quiz_backend/internal/service"
	"card_quiz_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type TeacherController struct {
	QuestionService *service.QuestionService
}

func NewTeacherController(questionService *service.QuestionService) *TeacherController {
	return &TeacherController{QuestionService: questionService}
}

// @Summary 创建题目
// @Description 按题型校验题目内容后追加到关卡末尾
// @Tags 教师
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "关卡ID"
// @Param body body service.CreateQuestionRequest true "题目"
// @Success 201 {object} util.Response{data=model.Question}
// @Failure 400 {object} util.Response
// @Router /api/teacher/levels/{id}/questions [post]
func (c *TeacherController) CreateQuestion(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	var req service.CreateQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	q, err := c.QuestionService.CreateQuestion(id, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, q)
}

// @Summary 上传关卡封面
// @Tags 教师
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "关卡ID"
// @Param file formData file true "封面图片"
// @Success 200 {object} util.Response{data=object}
// @Failure 400 {object} util.Response
// @Router /api/teacher/levels/{id}/cover [post]
func (c *TeacherController) UploadCover(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	header, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "missing file")
		return
	}
	file, err := header.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	url, err := c.QuestionService.UploadLevelCover(ctx.Request.Context(), id, header.Filename, file, header.Size)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"url": url})
}
