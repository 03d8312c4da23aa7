package routes

import (
	"worknest-backend/handlers/interviews"
	"worknest-backend/middleware"

	"github.com/gin-gonic/gin"
)

func InterviewsRoutes(r *gin.Engine) {
	grp := r.Group("/interviews")
	grp.Use(middleware.JWTAuth())
	{
		grp.POST("", middleware.EmployerAuth(), interviews.ScheduleInterview)
		grp.GET("", interviews.GetSchedules)
		grp.POST("/cancel", middleware.EmployerAuth(), interviews.CancelInterview)
		grp.POST("/:interview_id/status", interviews.InterviewStatus)
		grp.POST("/:interview_id/join", middleware.CandidateAuth(), interviews.JoinStatus)
		grp.POST("/:interview_id/link", middleware.EmployerAuth(), interviews.SendLink)
	}
}
