package mockbackend

import (
	"github.com/dmitrijs2005/sesdash/internal/server"
	"github.com/gin-gonic/gin"
)

// Router registers the public, authenticated and admin routes.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery(), server.RequestID(), server.AccessLog(s.logger.With("module", "http")))

	r.GET("/health", s.health("healthy"))
	r.GET("/ready", s.health("ready"))
	r.POST("/sns/ses", s.receiveSNS)
	r.POST("/api/login", s.login)

	api := r.Group("/api")
	api.Use(s.jwtAuth())
	{
		api.GET("/events", s.getEvents)
		api.GET("/metrics", s.getMetrics)
		api.GET("/metrics/daily", s.getDailyMetrics)
		api.GET("/metrics/monthly", s.getMonthlyMetrics)
		api.GET("/metrics/hourly", s.getHourlyMetrics)
		api.PUT("/change-password", s.changePassword)

		admin := api.Group("")
		admin.Use(adminOnly())
		{
			admin.GET("/users", s.listUsers)
			admin.POST("/users", s.createUser)
			admin.PUT("/users/:id/reset-password", s.resetPassword)
			admin.PUT("/users/:id/disable", s.setUserActive(false))
			admin.PUT("/users/:id/enable", s.setUserActive(true))
			admin.DELETE("/users/:id", s.deleteUser)

			admin.GET("/settings/aws", s.getAWSSettings)
			admin.PUT("/settings/aws", s.putAWSSettings)
			admin.POST("/settings/aws/test", s.testAWSSettings)
			admin.GET("/settings/retention", s.getRetention)
			admin.PUT("/settings/retention", s.putRetention)
			admin.GET("/settings/timezone", s.getTimezone)
			admin.PUT("/settings/timezone", s.putTimezone)

			admin.GET("/suppression", s.listSuppressions)
			admin.POST("/suppression", s.addSuppression)
			admin.POST("/suppression/bulk", s.bulkAddSuppression)
			admin.DELETE("/suppression/bulk", s.bulkRemoveSuppression)
			admin.POST("/suppression/sync", s.triggerSync)
			admin.GET("/suppression/sync/status", s.syncStatus)
			admin.DELETE("/suppression/:email", s.removeSuppression)
			admin.GET("/suppression/:email/status", s.suppressionStatus)
		}
	}
	return r
}
