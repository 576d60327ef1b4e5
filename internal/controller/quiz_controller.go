package controller

import (
	"card_quiz_backend/internal/quiz"
	"card_quiz_backend/internal/service"
	"card_quiz_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService *service.QuizService
}

func NewQuizController(quizService *service.QuizService) *QuizController {
	return &QuizController{QuizService: quizService}
}

// @Summary 获取答题页
// @Description 返回题目、内嵌判题数据、生命值与反馈文案；不带 index 时为第一题
// @Tags 答题
// @Security BearerAuth
// @Produce json
// @Param levelId path int true "关卡ID"
// @Param index path int false "题目序号，从 0 开始"
// @Success 200 {object} util.Response{data=service.QuestionPage}
// @Failure 403 {object} util.Response "关卡未解锁"
// @Failure 404 {object} util.Response
// @Router /api/quiz/{levelId}/{index} [get]
func (c *QuizController) GetQuestion(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	levelID, ok := paramID(ctx, "levelId")
	if !ok {
		return
	}
	index, ok := util.ParseIndex(ctx.Param("index"))
	if !ok {
		util.BadRequest(ctx, "invalid index")
		return
	}
	page, err := c.QuizService.GetQuestion(ctx.Request.Context(), user.UserID, levelID, index)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, page)
}

// @Summary 提交答案
// @Description 表单提交（answer / answer-N / matching_result / is_correct / time_spent），服务端重新判题
// @Tags 答题
// @Security BearerAuth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param levelId path int true "关卡ID"
// @Param index path int true "题目序号"
// @Success 200 {object} util.Response{data=service.SubmitResult}
// @Router /api/quiz/{levelId}/{index} [post]
func (c *QuizController) Submit(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	levelID, ok := paramID(ctx, "levelId")
	if !ok {
		return
	}
	index, ok := util.ParseIndex(ctx.Param("index"))
	if !ok {
		util.BadRequest(ctx, "invalid index")
		return
	}
	if err := ctx.Request.ParseForm(); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	res, err := c.QuizService.Submit(ctx.Request.Context(), user.UserID, levelID, index, ctx.Request.PostForm)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

type UpdateHeartsRequest struct {
	Hearts *int `json:"hearts" binding:"required"`
}

// @Summary 更新生命值
// @Tags 答题
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body UpdateHeartsRequest true "剩余生命值"
// @Success 200 {object} util.Response{data=object}
// @Failure 409 {object} util.Response "没有进行中的关卡"
// @Router /api/update_hearts [post]
func (c *QuizController) UpdateHearts(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	var req UpdateHeartsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	hearts, err := c.QuizService.UpdateHearts(ctx.Request.Context(), user.UserID, *req.Hearts)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"hearts": hearts})
}

// @Summary 关卡题目列表
// @Tags 答题
// @Security BearerAuth
// @Produce json
// @Param id path int true "关卡ID"
// @Success 200 {object} util.Response{data=service.LevelQuestions}
// @Router /api/level/{id}/questions [get]
func (c *QuizController) ListQuestions(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	list, err := c.QuizService.ListQuestions(user.UserID, id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// @Summary 单题作答
// @Description 题目列表模式下提交单题，全部作答后关卡完成
// @Tags 答题
// @Security BearerAuth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param id path int true "题目ID"
// @Success 200 {object} util.Response{data=service.AnswerResult}
// @Router /api/question/{id}/answer [post]
func (c *QuizController) AnswerQuestion(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	if err := ctx.Request.ParseForm(); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	res, err := c.QuizService.AnswerQuestion(user.UserID, id, ctx.Request.PostForm)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

type SubmitSheetRequest struct {
	Answers []quiz.QuestionCard `json:"answers"`
}

// @Summary 整卷提交
// @Description 有未作答题目时返回 400 并列出题号
// @Tags 答题
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param levelId path int true "关卡ID"
// @Param body body SubmitSheetRequest true "答题卡"
// @Success 200 {object} util.Response{data=service.SheetResult}
// @Failure 400 {object} util.Response "请回答第 N 题"
// @Router /api/quiz/{levelId}/sheet [post]
func (c *QuizController) SubmitSheet(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	levelID, ok := paramID(ctx, "levelId")
	if !ok {
		return
	}
	var req SubmitSheetRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	res, err := c.QuizService.SubmitSheet(user.UserID, levelID, req.Answers)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

// @Summary 关卡结果
// @Description 得分、正确率、知识点掌握度及雷达图数据
// @Tags 答题
// @Security BearerAuth
// @Produce json
// @Param id path int true "关卡ID"
// @Success 200 {object} util.Response{data=service.LevelResult}
// @Router /api/level/{id}/result [get]
func (c *QuizController) Result(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	res, err := c.QuizService.Result(ctx.Request.Context(), user.UserID, id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, res)
}
