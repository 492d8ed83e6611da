package app

import (
	"cybertrain_backend/docs"
	"cybertrain_backend/internal/config"
	"cybertrain_backend/internal/middleware"
	"cybertrain_backend/internal/model"
	"cybertrain_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		authGroup.GET("/profile", c.auth.GetProfile)
		authGroup.PUT("/user/profile", c.user.UpdateProfile)

		// 技能
		authGroup.GET("/skills", c.skill.ListSkills)
		authGroup.GET("/skills/:id", c.skill.GetSkill)

		// 练习
		practice := authGroup.Group("/practice")
		{
			practice.POST("/sessions", c.practice.StartSession)
			practice.GET("/sessions/:token", c.practice.GetSession)
			practice.POST("/sessions/:token/submit", c.practice.SubmitSession)
			practice.GET("/sessions/:token/results", c.practice.GetResults)
		}

		// 间隔重复
		repetition := authGroup.Group("/repetition")
		{
			repetition.GET("/overview", c.repetition.GetOverview)
			repetition.POST("/items", c.repetition.EnrollSkill)
			repetition.POST("/items/:id/review", c.repetition.CompleteReview)
		}

		// 分析
		analytics := authGroup.Group("/analytics")
		{
			analytics.GET("/performance", c.analytics.GetPerformance)
			analytics.GET("/peer-comparison", c.analytics.GetPeerComparison)
			analytics.GET("/strengths", c.analytics.GetStrengthsWeaknesses)
		}

		// 测验
		authGroup.GET("/quizzes", c.quiz.ListQuizzes)
		authGroup.GET("/quizzes/results", c.quiz.GetMyResults)
		authGroup.GET("/quizzes/:id", c.quiz.GetQuiz)
		authGroup.POST("/quizzes/:id/submit", c.quiz.SubmitQuiz)
		authGroup.POST("/questions/:id/retry", c.quiz.RetryQuestion)

		// 推荐与学习计划
		authGroup.GET("/recommendations", c.recommendation.GetRecommendations)
		authGroup.POST("/recommendations/:id/dismiss", c.recommendation.DismissRecommendation)
		authGroup.GET("/learning-plan", c.recommendation.GetLearningPlan)
		authGroup.POST("/learning-plan/:id/complete", c.recommendation.CompletePlanItem)
	}

	// 3. 管理员路由
	adminGroup := router.Group("/api/admin")
	adminGroup.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Admin))
	{
		adminGroup.POST("/skills", c.skill.CreateSkill)
		adminGroup.PUT("/skills/:id", c.skill.UpdateSkill)
		adminGroup.POST("/quizzes", c.quiz.CreateQuiz)
		adminGroup.PATCH("/quizzes/:id/publish", c.quiz.PublishQuiz)
	}
}
