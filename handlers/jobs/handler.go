package jobs

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"
	"worknest-backend/db"
	"worknest-backend/models"
	"worknest-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SupplementalJobFee is the one-off fee (INR) for a single post beyond the
// plan quota.
const SupplementalJobFee = 200

// createOrder indirects the gateway call so tests can stub it.
var createOrder = utils.CreateRazorpayOrder

func employerForUser(c *gin.Context) (*models.Employer, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return nil, false
	}

	var employer models.Employer
	if err := db.DB.Preload("User").Where("user_id = ?", userID).First(&employer).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Employer profile not found"})
		return nil, false
	}
	return &employer, true
}

// @Summary Post a job
// @Description Admission is gated by the active subscription: under quota the post is admitted and the counter incremented, over quota a supplemental payment is required
// @Tags jobs
// @Accept json
// @Produce json
// @Param job body models.JobCreate true "Job information"
// @Security BearerAuth
// @Success 201 {object} map[string]string "message: Job posted successfully"
// @Failure 400 {object} map[string]string "error: Invalid or unverified payment"
// @Failure 402 {object} map[string]interface{} "subscription or payment required"
// @Failure 403 {object} map[string]string "error: Employer not approved"
// @Router /employer/jobs [post]
func PostJob(c *gin.Context) {
	employer, ok := employerForUser(c)
	if !ok {
		return
	}

	if !employer.IsApproved {
		c.JSON(http.StatusForbidden, gin.H{"error": "Your employer account is awaiting admin approval"})
		return
	}

	var input models.JobCreate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data: " + err.Error()})
		return
	}

	// The subscription read, the quota check and the counter increment run as
	// one serializable unit per employer: the row is locked for the whole
	// transaction so concurrent posts cannot over-admit.
	tx := db.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error starting transaction"})
		return
	}

	var subscription models.EmployerSubscription
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("employer_id = ? AND status = ? AND end_date > ?",
			employer.ID, models.SubscriptionActive, time.Now()).
		First(&subscription).Error
	if err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusPaymentRequired, gin.H{
				"error":                 "No active subscription found",
				"subscription_required": true,
				"message":               "Please subscribe to post jobs",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error checking the subscription"})
		return
	}

	withinQuota := subscription.JobLimit == models.UnlimitedJobLimit ||
		subscription.SubscribedJob < subscription.JobLimit

	if !withinQuota {
		if input.RazorpayPaymentID == "" {
			tx.Rollback()
			orderID, orderErr := createOrder(SupplementalJobFee,
				"job_fee_"+employer.ID,
				map[string]interface{}{"employer_id": employer.ID})
			if orderErr != nil {
				utils.LogErrorWithUser(employer.UserID, orderErr, "Error creating supplemental order in PostJob")
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating the payment order"})
				return
			}

			payment := models.Payment{
				UserID:        employer.UserID,
				EmployerID:    employer.ID,
				Amount:        SupplementalJobFee,
				Method:        "Razorpay",
				TransactionID: orderID,
				Status:        models.PaymentPending,
			}
			if err := db.DB.Create(&payment).Error; err != nil {
				utils.LogErrorWithUser(employer.UserID, err, "Error recording supplemental payment in PostJob")
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error recording the payment"})
				return
			}

			c.JSON(http.StatusPaymentRequired, gin.H{
				"payment_required": true,
				"message":          "You've reached your plan limit of " + strconv.Itoa(subscription.JobLimit) + " jobs. Payment required for additional job posting.",
				"order_id":         orderID,
				"amount":           SupplementalJobFee * 100,
				"key":              utils.RazorpayKeyID(),
			})
			return
		}
	}

	job := models.Job{
		EmployerID:     employer.ID,
		Title:          input.Title,
		Location:       input.Location,
		Lpa:            input.Lpa,
		JobType:        input.JobType,
		JobMode:        input.JobMode,
		Experience:     input.Experience,
		Industry:       input.Industry,
		About:          input.About,
		Responsibility: input.Responsibility,
		ApplyBefore:    input.ApplyBefore,
		Active:         true,
	}
	if err := tx.Create(&job).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating the job"})
		return
	}

	for _, text := range input.Questions {
		if strings.TrimSpace(text) == "" {
			continue
		}
		if err := tx.Create(&models.Question{JobID: job.ID, Text: text}).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating the screening questions"})
			return
		}
	}

	// A supplemental slot is a one-off extra: it never counts against the
	// base quota, so the counter only moves on quota-admitted posts. Over
	// quota, the paid slot is consumed by stamping the job onto the payment
	// row; the job_id IS NULL guard means each payment admits exactly one job
	// even under concurrent posts.
	if withinQuota {
		if err := tx.Model(&models.EmployerSubscription{}).
			Where("id = ?", subscription.ID).
			Update("subscribed_job", gorm.Expr("subscribed_job + 1")).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating the job counter"})
			return
		}
	} else {
		consume := tx.Model(&models.Payment{}).
			Where("transaction_id = ? AND employer_id = ? AND status = ? AND job_id IS NULL",
				input.RazorpayPaymentID, employer.ID, models.PaymentSuccess).
			Update("job_id", job.ID)
		if consume.Error != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error checking the payment"})
			return
		}
		if consume.RowsAffected == 0 {
			tx.Rollback()
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or unverified payment"})
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error committing the job"})
		return
	}

	utils.LogSuccessWithUser(employer.UserID, "Job posted in PostJob")
	c.JSON(http.StatusCreated, gin.H{"message": "Job posted successfully", "job_id": job.ID})
}

// @Summary Job usage statistics
// @Description Quota usage for the employer's current subscription
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /employer/jobs/usage [get]
func JobUsage(c *gin.Context) {
	employer, ok := employerForUser(c)
	if !ok {
		return
	}

	var jobCount int64
	db.DB.Model(&models.Job{}).Where("employer_id = ? AND active = ?", employer.ID, true).Count(&jobCount)

	var subscription models.EmployerSubscription
	err := db.DB.Preload("Plan").
		Where("employer_id = ? AND status IN ? AND end_date > ?",
			employer.ID,
			[]models.SubscriptionStatus{models.SubscriptionActive, models.SubscriptionRestricted},
			time.Now()).
		Order("start_date DESC").
		First(&subscription).Error
	if err != nil {
		c.JSON(http.StatusOK, gin.H{
			"job_count":               jobCount,
			"has_active_subscription": false,
			"subscription_plan":       nil,
			"job_limit":               0,
			"remaining_jobs":          0,
		})
		return
	}

	var remaining interface{}
	if subscription.JobLimit == models.UnlimitedJobLimit {
		remaining = "Unlimited"
	} else {
		left := subscription.JobLimit - subscription.SubscribedJob
		if left < 0 {
			left = 0
		}
		remaining = left
	}

	c.JSON(http.StatusOK, gin.H{
		"job_count":               jobCount,
		"has_active_subscription": true,
		"subscription_plan":       subscription.Plan.Name,
		"job_limit":               subscription.JobLimit,
		"remaining_jobs":          remaining,
		"subscription_status":     subscription.Status,
		"subscription_end_date":   subscription.EndDate,
		"subscription_id":         subscription.ReferenceID,
	})
}

// @Summary Edit a job
// @Tags jobs
// @Accept json
// @Produce json
// @Param job_id path string true "Job id"
// @Security BearerAuth
// @Success 200 {object} models.Job
// @Failure 403 {object} map[string]string "error: Not the owner"
// @Router /employer/jobs/{job_id} [put]
func EditJob(c *gin.Context) {
	employer, ok := employerForUser(c)
	if !ok {
		return
	}

	jobID := c.Param("job_id")
	var job models.Job
	if err := db.DB.Where("id = ?", jobID).First(&job).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}

	if job.EmployerID != employer.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to modify this job"})
		return
	}

	var input models.JobCreate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data: " + err.Error()})
		return
	}

	updates := models.Job{
		Title:          input.Title,
		Location:       input.Location,
		Lpa:            input.Lpa,
		JobType:        input.JobType,
		JobMode:        input.JobMode,
		Experience:     input.Experience,
		Industry:       input.Industry,
		About:          input.About,
		Responsibility: input.Responsibility,
		ApplyBefore:    input.ApplyBefore,
	}
	if err := db.DB.Model(&job).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating the job"})
		return
	}

	c.JSON(http.StatusOK, job)
}

// @Summary Jobs posted by the authenticated employer
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "data: list of jobs"
// @Router /employer/jobs [get]
func GetMyJobs(c *gin.Context) {
	employer, ok := employerForUser(c)
	if !ok {
		return
	}

	var jobs []models.Job
	if err := db.DB.Where("employer_id = ?", employer.ID).
		Order("posted_on DESC").
		Find(&jobs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving jobs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": jobs})
}

// @Summary List open jobs
// @Description Active jobs whose application window has not closed, most recent first
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Job
// @Router /jobs [get]
func GetAllJobs(c *gin.Context) {
	today := time.Now().Truncate(24 * time.Hour)

	var jobs []models.Job
	query := db.DB.Preload("Employer").Preload("Employer.User").
		Where("active = ?", true).
		Where("apply_before IS NULL OR apply_before >= ?", today).
		Order("posted_on DESC")

	if err := query.Find(&jobs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving jobs"})
		return
	}

	c.JSON(http.StatusOK, jobs)
}

// @Summary Job detail
// @Tags jobs
// @Produce json
// @Param job_id path string true "Job id"
// @Security BearerAuth
// @Success 200 {object} models.Job
// @Failure 404 {object} map[string]string "error: Job not found"
// @Router /jobs/{job_id} [get]
func GetJobDetail(c *gin.Context) {
	jobID := c.Param("job_id")

	var job models.Job
	if err := db.DB.Preload("Employer").Preload("Employer.User").
		Where("id = ?", jobID).First(&job).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"job":       job,
		"is_closed": job.IsClosed(),
	})
}

type jobStatusInput struct {
	Action string `json:"action" binding:"required"`
}

// @Summary Activate or deactivate a job
// @Tags jobs
// @Accept json
// @Produce json
// @Param job_id path string true "Job id"
// @Param body body jobStatusInput true "action: activate | deactivate"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "message, job"
// @Failure 400 {object} map[string]string "error: Invalid action"
// @Router /employer/jobs/{job_id}/status [post]
func JobStatus(c *gin.Context) {
	jobID := c.Param("job_id")
	userID, _ := c.Get("user_id")
	userType, _ := c.Get("user_type")

	var input jobStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data: " + err.Error()})
		return
	}

	var job models.Job
	if err := db.DB.Preload("Employer").Where("id = ?", jobID).First(&job).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}

	if job.Employer.UserID != userID && userType != "admin" {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to modify this job"})
		return
	}

	var message string
	switch input.Action {
	case "activate":
		job.Active = true
		message = "Job activated successfully"
	case "deactivate":
		job.Active = false
		message = "Job deactivated successfully"
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid action. Use 'activate' or 'deactivate'"})
		return
	}

	if err := db.DB.Model(&job).Update("active", job.Active).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating the job"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": message, "job": job})
}

// @Summary Search jobs by title and location
// @Tags jobs
// @Produce json
// @Param title query string false "Title filter"
// @Param location query string false "Location filter"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size (max 100)"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "data, page, page_size, total"
// @Router /jobs/search [get]
func SearchJobs(c *gin.Context) {
	title := strings.TrimSpace(c.Query("title"))
	location := strings.TrimSpace(c.Query("location"))

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if pageSize < 1 {
		pageSize = 10
	}
	if pageSize > 100 {
		pageSize = 100
	}

	query := db.DB.Model(&models.Job{}).Preload("Employer").Where("active = ?", true)
	if title != "" {
		query = query.Where("title ILIKE ?", "%"+title+"%")
	}
	if location != "" {
		query = query.Where("location ILIKE ?", "%"+location+"%")
	}

	var total int64
	query.Count(&total)

	var jobs []models.Job
	if err := query.Order("posted_on DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&jobs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error searching jobs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":      jobs,
		"page":      page,
		"page_size": pageSize,
		"total":     total,
	})
}

// @Summary Autocomplete job titles
// @Tags jobs
// @Produce json
// @Param q query string true "Prefix"
// @Success 200 {array} map[string]string
// @Router /jobs/autocomplete [get]
func Autocomplete(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusOK, []gin.H{})
		return
	}

	var titles []string
	db.DB.Model(&models.Job{}).
		Distinct("title").
		Where("active = ? AND title ILIKE ?", true, query+"%").
		Limit(5).
		Pluck("title", &titles)

	if len(titles) < 5 {
		var more []string
		db.DB.Model(&models.Job{}).
			Distinct("title").
			Where("active = ? AND title ILIKE ? AND title NOT ILIKE ?", true, "%"+query+"%", query+"%").
			Limit(5-len(titles)).
			Pluck("title", &more)
		titles = append(titles, more...)
	}

	suggestions := make([]gin.H, 0, len(titles))
	for _, t := range titles {
		suggestions = append(suggestions, gin.H{"type": "title", "value": t})
	}
	c.JSON(http.StatusOK, suggestions)
}

// @Summary Screening questions of a job
// @Tags jobs
// @Produce json
// @Param job_id path string true "Job id"
// @Security BearerAuth
// @Success 200 {array} models.Question
// @Router /jobs/{job_id}/questions [get]
func GetQuestions(c *gin.Context) {
	jobID := c.Param("job_id")

	var questions []models.Question
	if err := db.DB.Where("job_id = ?", jobID).Find(&questions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving questions"})
		return
	}

	c.JSON(http.StatusOK, questions)
}
