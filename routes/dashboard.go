package routes

import (
	"worknest-backend/handlers/dashboard"
	"worknest-backend/middleware"

	"github.com/gin-gonic/gin"
)

func DashboardRoutes(r *gin.Engine) {
	grp := r.Group("/dashboard")
	grp.Use(middleware.AdminAuth())
	{
		grp.GET("/stats", dashboard.HomeStats)
		grp.GET("/candidates", dashboard.GetCandidates)
		grp.GET("/employers", dashboard.GetEmployers)
		grp.POST("/employers/:employer_id/approve", dashboard.ApproveEmployer)
		grp.POST("/users/:user_id/active", dashboard.SetUserActive)
	}
}
