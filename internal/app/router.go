package app

import (
	"card_quiz_backend/docs"
	"card_quiz_backend/internal/config"
	"card_quiz_backend/internal/middleware"
	"card_quiz_backend/internal/model"
	"card_quiz_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		a.registerStudentRoutes(authGroup, c)

		// 教师相关接口
		a.registerTeacherRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}
}

func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.auth.GetProfile)

	// 年级与课程
	rg.GET("/grades/:grade/courses", c.course.ListCourses)
	rg.POST("/courses/select", c.course.SelectCourse)
	rg.GET("/courses/current", c.course.CurrentCourse)
	rg.GET("/courses/:id/game", c.course.GameMap)

	// 逐题答题
	rg.GET("/quiz/:levelId", c.quiz.GetQuestion)
	rg.POST("/quiz/:levelId/sheet", c.quiz.SubmitSheet)
	rg.GET("/quiz/:levelId/:index", c.quiz.GetQuestion)
	rg.POST("/quiz/:levelId/:index", c.quiz.Submit)
	rg.POST("/update_hearts", c.quiz.UpdateHearts)

	// 题目列表模式
	rg.GET("/level/:id/questions", c.quiz.ListQuestions)
	rg.POST("/question/:id/answer", c.quiz.AnswerQuestion)
	rg.GET("/level/:id/result", c.quiz.Result)
}

func (a *App) registerTeacherRoutes(rg *gin.RouterGroup, c *controllers) {
	teacher := rg.Group("/teacher")
	teacher.Use(middleware.RoleMiddleware(model.Teacher))
	{
		teacher.POST("/levels/:id/questions", c.teacher.CreateQuestion)
		teacher.POST("/levels/:id/cover", c.teacher.UploadCover)
	}
}
