package routes

import (
	"FeeloraGo/controllers"
	"FeeloraGo/middleware"
	"FeeloraGo/services"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, app *services.App, internalToken string) {
	authController := controllers.AuthController{}
	userController := controllers.UserController{}
	vibeController := controllers.NewVibeController(app.Vibes)
	voiceController := controllers.NewVoiceController(app.Voices, app.Vibes)
	moodController := controllers.NewMoodController(app.Moods, app.Analyzer, app.Store)
	soulController := controllers.NewSoulController(app.Companion)

	// 公开路由（无需认证）
	public := r.Group("/api/v1")
	{
		public.POST("/auth/guest", authController.GuestLogin)
	}

	// 需要认证的路由
	private := r.Group("/api/v1")
	private.Use(middleware.AuthMiddleware())
	{
		private.GET("/user", userController.GetUser)

		// 情绪打卡
		private.GET("/vibe", vibeController.GetVibe)
		private.POST("/vibe/text", vibeController.SubmitText)
		private.POST("/vibe/camera", vibeController.SubmitCamera)
		private.POST("/vibe/reset", vibeController.Reset)

		// 语音输入
		private.POST("/voice/start", voiceController.Start)
		private.POST("/voice/results", voiceController.Results)
		private.POST("/voice/stop", voiceController.Stop)

		// 情绪记录
		private.GET("/moods", moodController.ListMoods)
		private.POST("/moods/analyze", moodController.Analyze)
		private.GET("/moods/trend", moodController.Trend)

		// 心灵空间
		private.GET("/soul", soulController.Bundle)
		private.GET("/soul/affirmation", soulController.Affirmation)
		private.GET("/soul/music", soulController.Music)
		private.GET("/soul/tips", soulController.Tips)

		if app.Journals != nil {
			journalController := controllers.NewJournalController(app.Journals, app.Companion)
			private.GET("/journal", journalController.List)
			private.POST("/journal", journalController.Create)
			private.POST("/journal/prompts", journalController.Prompts)
		}
	}

	// 内部路由组（仅限服务器内部调用）
	internal := r.Group("/internal")
	internal.Use(middleware.InternalAuthMiddleware(internalToken))
	{
		internal.POST("/cache/moods/:uid/purge", moodController.PurgeCache)
	}

	// 测试路由
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
}
