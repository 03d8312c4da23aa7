package routes

import (
	"worknest-backend/handlers/applications"
	"worknest-backend/middleware"

	"github.com/gin-gonic/gin"
)

func ApplicationsRoutes(r *gin.Engine) {
	grp := r.Group("/applications")
	grp.Use(middleware.JWTAuth())
	{
		grp.POST("", middleware.CandidateAuth(), applications.Apply)
		grp.GET("/mine", middleware.CandidateAuth(), applications.GetAppliedJobs)
		grp.GET("/check/:job_id", middleware.CandidateAuth(), applications.CheckApplication)
		grp.POST("/:application_id/status", middleware.EmployerAuth(), applications.UpdateStatus)
		grp.GET("/job/:job_id", middleware.EmployerAuth(), applications.GetApplications)
		grp.GET("/job/:job_id/answers/:candidate_id", middleware.EmployerAuth(), applications.GetAnswers)
	}

	approvals := r.Group("/approvals")
	approvals.Use(middleware.JWTAuth())
	{
		approvals.GET("", applications.GetApproval)
		approvals.POST("/:approval_id", applications.ChatApproval)
	}
}
