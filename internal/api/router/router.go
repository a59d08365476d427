package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"smartschool/backend/config"
	"smartschool/backend/internal/api/handler"
	"smartschool/backend/internal/api/middleware"
	"smartschool/backend/pkg/jwt"
	"smartschool/backend/pkg/redis"
	"smartschool/backend/pkg/response"
)

// New 组装路由
func New(cfg *config.Config, h *handler.Handlers, jwtManager *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Recovery(logger),
		middleware.Logger(logger),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.Server.CORS.AllowOrigins),
		middleware.BodySizeLimit(1<<20),
		middleware.Metrics(),
	)

	r.GET("/health", func(c *gin.Context) {
		response.OKMessage(c, "ok")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := middleware.JWTAuth(jwtManager, rdb)

	v1 := r.Group("/api/v1")
	{
		authGroup := v1.Group("/auth")
		{
			// 登录口带限流，防口令爆破
			authGroup.POST("/login", middleware.RateLimit(rdb, logger, 10, time.Minute), h.Auth.Login)
			authGroup.POST("/refresh", h.Auth.Refresh)
			authGroup.POST("/logout", auth, h.Auth.Logout)
			authGroup.GET("/me", auth, h.Auth.Me)
		}

		attendance := v1.Group("/attendance", auth)
		{
			attendance.GET("/statuses", h.Status.List)
			attendance.GET("/user-resources", h.Report.UserResources)

			sessions := attendance.Group("/sessions")
			{
				sessions.POST("", h.Session.Create)
				sessions.GET("", h.Session.List)
				sessions.GET("/print/all", h.Report.PrintAll)
				sessions.GET("/:id", h.Session.Get)
				sessions.PUT("/:id", h.Session.Update)
				sessions.PUT("/:id/status", h.Session.SetStatus)
				sessions.DELETE("/:id", h.Session.Delete)
				sessions.GET("/:id/print", h.Report.SessionPrint)
			}

			session := attendance.Group("/session")
			{
				session.GET("/:sessionId", h.Record.ListBySession)
				session.POST("/:sessionId/batch", h.Record.Batch)
			}

			attendance.GET("/student/:id/summary", h.Report.StudentSummary)
			attendance.GET("/class/:id/report", h.Report.ClassReport)
			attendance.GET("/class/:id/report/export", h.Export.ClassReportXLSX)
			attendance.GET("/class/:id/calendar", h.Export.ClassCalendarICS)

			stats := attendance.Group("/stats")
			{
				stats.GET("/daily", h.Report.DailyStats)
				stats.GET("/monthly", h.Report.MonthlyStats)
			}
		}
	}

	return r
}
