package main

import (
	"log"
	"os"
	"time"

	"worknest-backend/db"
	"worknest-backend/middleware"
	"worknest-backend/realtime"
	"worknest-backend/routes"
	"worknest-backend/utils"
	"worknest-backend/workers"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// @title WorkNest API
// @version 1.0
// @description Job marketplace backend: postings, applications, interviews and subscriptions
// @host localhost:8080
// @BasePath /
// @SecurityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter the JWT with the Bearer prefix: Bearer <JWT>
func main() {

	gin.SetMode(gin.ReleaseMode)

	db.InitDB()

	if err := utils.InitRazorpay(); err != nil {
		log.Printf("Warning: Razorpay initialization failed: %v", err)
		log.Println("Subscription and job payments will not work correctly.")
	}

	redisURL := os.Getenv("REDIS_URL")
	realtime.Init(redisURL)
	defer realtime.Close()

	var limiter *middleware.RedisLimiter
	if redisURL != "" {
		if opts, err := redis.ParseURL(redisURL); err == nil {
			limiter = middleware.NewRedisLimiter(redis.NewClient(opts))
		}
	}

	stop := workers.StartSweepers(db.DB, time.Hour)
	defer close(stop)

	r := routes.SetupRouter(limiter)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatal("Error starting the server:", err)
	}
}
