package routes

import (
	"worknest-backend/handlers/subscriptions"
	"worknest-backend/middleware"

	"github.com/gin-gonic/gin"
)

func SubscriptionsRoutes(r *gin.Engine) {
	r.GET("/plans", subscriptions.GetPlans)
	r.POST("/plans", middleware.AdminAuth(), subscriptions.CreatePlan)

	grp := r.Group("/subscriptions")
	grp.Use(middleware.EmployerAuth())
	{
		grp.POST("", subscriptions.CreateSubscription)
		grp.GET("", subscriptions.GetMySubscriptions)
		grp.POST("/verify", subscriptions.VerifyPayment)
		grp.POST("/verify-job-payment", subscriptions.VerifyJobPayment)
		grp.POST("/renew", subscriptions.RenewSubscription)
	}
}
