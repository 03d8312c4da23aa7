package routes

import (
	"worknest-backend/handlers/applications"
	"worknest-backend/handlers/jobs"
	"worknest-backend/middleware"

	"github.com/gin-gonic/gin"
)

func JobsRoutes(r *gin.Engine) {
	public := r.Group("/jobs")
	{
		public.GET("", jobs.GetAllJobs)
		public.GET("/search", jobs.SearchJobs)
		public.GET("/autocomplete", jobs.Autocomplete)
	}

	authed := r.Group("/jobs")
	authed.Use(middleware.JWTAuth())
	{
		authed.GET("/saved", middleware.CandidateAuth(), applications.GetSavedJobs)
		authed.GET("/:job_id", jobs.GetJobDetail)
		authed.GET("/:job_id/questions", jobs.GetQuestions)
		authed.POST("/:job_id/save", middleware.CandidateAuth(), applications.SaveJob)
		authed.DELETE("/:job_id/save", middleware.CandidateAuth(), applications.UnsaveJob)
		authed.GET("/:job_id/saved", middleware.CandidateAuth(), applications.CheckSavedJob)
	}

	employer := r.Group("/employer/jobs")
	employer.Use(middleware.EmployerAuth())
	{
		employer.POST("", jobs.PostJob)
		employer.GET("", jobs.GetMyJobs)
		employer.GET("/usage", jobs.JobUsage)
		employer.PUT("/:job_id", jobs.EditJob)
		employer.POST("/:job_id/status", jobs.JobStatus)
	}

	admin := r.Group("/admin/jobs")
	admin.Use(middleware.AdminAuth())
	{
		admin.POST("/:job_id/status", jobs.JobStatus)
	}
}
