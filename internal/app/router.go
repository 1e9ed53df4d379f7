package app

import (
	"time"

	"failure_bank_backend/docs"
	"failure_bank_backend/internal/config"
	"failure_bank_backend/internal/middleware"
	"failure_bank_backend/pkg/monitoring"
	"failure_bank_backend/pkg/security"
	"failure_bank_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 600
	}
	windowMinutes := cfg.RateLimit.WindowMinutes
	if windowMinutes <= 0 {
		windowMinutes = 1
	}
	router.Use(security.RateLimiter(maxRequests, time.Duration(windowMinutes)*time.Minute))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	// 外部调度器入口，X-API-Key 保护
	scheduler := router.Group("/api/notifications")
	scheduler.Use(middleware.APIKeyMiddleware(cfg.Notification.APIKey))
	{
		scheduler.POST("/send", c.notification.SendBatch)
	}

	// 登录用户路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		authGroup.POST("/logout", c.auth.Logout)
		authGroup.GET("/profile", c.auth.GetProfile)
		authGroup.PUT("/user/notification-settings", c.user.UpdateNotificationSettings)

		// 历史客户端以 /failures 访问同一资源，两个资源名共用一套处理器
		for _, base := range []string{"/challenges", "/failures"} {
			authGroup.POST(base, c.challenge.Create)
			authGroup.GET(base, c.challenge.List)
			authGroup.GET(base+"/:id", c.challenge.Get)
			authGroup.PUT(base+"/:id", c.challenge.Update)
			authGroup.DELETE(base+"/:id", c.challenge.Delete)
		}

		authGroup.GET("/stats/summary", c.stats.Summary)
		authGroup.GET("/stats/calendar", c.stats.Calendar)

		authGroup.POST("/notifications/test", c.notification.SendTest)
	}
}
