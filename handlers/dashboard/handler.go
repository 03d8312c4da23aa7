package dashboard

import (
	"net/http"
	"worknest-backend/db"
	"worknest-backend/models"
	"worknest-backend/realtime"
	"worknest-backend/utils"

	"github.com/gin-gonic/gin"
)

// @Summary Platform counters for the admin home screen
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]int64
// @Router /dashboard/stats [get]
func HomeStats(c *gin.Context) {
	var candidates, employers, jobs, applications, activeSubscriptions int64

	db.DB.Model(&models.Candidate{}).Count(&candidates)
	db.DB.Model(&models.Employer{}).Count(&employers)
	db.DB.Model(&models.Job{}).Where("active = ?", true).Count(&jobs)
	db.DB.Model(&models.AppliedJob{}).Count(&applications)
	db.DB.Model(&models.EmployerSubscription{}).
		Where("status = ?", models.SubscriptionActive).
		Count(&activeSubscriptions)

	c.JSON(http.StatusOK, gin.H{
		"candidates":           candidates,
		"employers":            employers,
		"active_jobs":          jobs,
		"applications":         applications,
		"active_subscriptions": activeSubscriptions,
	})
}

// @Summary List candidate profiles
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Candidate
// @Router /dashboard/candidates [get]
func GetCandidates(c *gin.Context) {
	var candidates []models.Candidate
	if err := db.DB.Preload("User").Order("created_at DESC").Find(&candidates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch candidates"})
		return
	}
	c.JSON(http.StatusOK, candidates)
}

// @Summary List employer profiles
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Employer
// @Router /dashboard/employers [get]
func GetEmployers(c *gin.Context) {
	var employers []models.Employer
	if err := db.DB.Preload("User").Order("created_at DESC").Find(&employers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch employers"})
		return
	}
	c.JSON(http.StatusOK, employers)
}

type approveInput struct {
	Approved bool `json:"approved"`
}

// @Summary Approve or revoke an employer
// @Description Only approved employers may post jobs.
// @Tags dashboard
// @Accept json
// @Produce json
// @Param employer_id path string true "Employer id"
// @Param body body approveInput true "Approval flag"
// @Security BearerAuth
// @Success 200 {object} map[string]string "message"
// @Router /dashboard/employers/{employer_id}/approve [post]
func ApproveEmployer(c *gin.Context) {
	employerID := c.Param("employer_id")

	var input approveInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data: " + err.Error()})
		return
	}

	var employer models.Employer
	if err := db.DB.Where("id = ?", employerID).First(&employer).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Employer not found"})
		return
	}

	if err := db.DB.Model(&employer).Update("is_approved", input.Approved).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating the employer"})
		return
	}

	message := "Your employer account has been approved. You can now post jobs."
	if !input.Approved {
		message = "Your employer account approval has been revoked."
	}
	_ = realtime.Notify(employer.UserID, message, "admin", realtime.Meta{})

	utils.LogSuccess("Employer approval updated: " + employer.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Employer approval updated"})
}

type activeInput struct {
	Active bool `json:"active"`
}

// @Summary Enable or disable a user account
// @Tags dashboard
// @Accept json
// @Produce json
// @Param user_id path string true "User id"
// @Param body body activeInput true "Active flag"
// @Security BearerAuth
// @Success 200 {object} map[string]string "message"
// @Router /dashboard/users/{user_id}/active [post]
func SetUserActive(c *gin.Context) {
	userID := c.Param("user_id")

	var input activeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data: " + err.Error()})
		return
	}

	var user models.User
	if err := db.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if user.UserType == models.AdminType {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin accounts cannot be disabled"})
		return
	}

	if err := db.DB.Model(&user).Update("is_active", input.Active).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating the user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User updated"})
}
