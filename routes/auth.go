package routes

import (
	"time"
	"worknest-backend/handlers/auth"
	"worknest-backend/middleware"

	"github.com/gin-gonic/gin"
)

func AuthRoutes(r *gin.Engine, limiter *middleware.RedisLimiter) {
	// login and OTP endpoints are brute-force targets
	throttled := r.Group("/")
	throttled.Use(middleware.RateLimit(limiter, 10, time.Minute))
	{
		throttled.POST("/register/candidate", auth.RegisterCandidate)
		throttled.POST("/register/employer", auth.RegisterEmployer)
		throttled.POST("/verify-otp", auth.VerifyOtp)
		throttled.POST("/resend-otp", auth.ResendOtp)
		throttled.POST("/login/candidate", auth.CandidateLogin)
		throttled.POST("/login/employer", auth.EmployerLogin)
		throttled.POST("/login/admin", auth.AdminLogin)
		throttled.POST("/forgot-password", auth.ForgotPassword)
		throttled.POST("/reset-password", auth.ResetPassword)
	}

	me := r.Group("/me")
	me.Use(middleware.JWTAuth())
	{
		me.GET("", auth.CurrentUser)
		me.PUT("/candidate", middleware.CandidateAuth(), auth.UpdateCandidateProfile)
		me.PUT("/employer", middleware.EmployerAuth(), auth.UpdateEmployerProfile)
	}
}
