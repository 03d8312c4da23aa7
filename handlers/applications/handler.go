package applications

import (
	"errors"
	"net/http"
	"time"
	"worknest-backend/db"
	"worknest-backend/models"
	"worknest-backend/realtime"
	"worknest-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func candidateForUser(c *gin.Context) (*models.Candidate, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return nil, false
	}

	var candidate models.Candidate
	if err := db.DB.Preload("User").Where("user_id = ?", userID).First(&candidate).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Candidate profile not found"})
		return nil, false
	}
	return &candidate, true
}

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

type applyInput struct {
	JobID   string `json:"job_id" binding:"required"`
	Answers []struct {
		QuestionID string `json:"question_id"`
		Answer     string `json:"answer"`
	} `json:"answers"`
}

// @Summary Apply to a job
// @Description One application per candidate per job. Screening answers and the chat approval row are created in the same transaction as the application.
// @Tags applications
// @Accept json
// @Produce json
// @Param body body applyInput true "Job and screening answers"
// @Security BearerAuth
// @Success 201 {object} models.AppliedJob
// @Failure 409 {object} map[string]string "error: You have already applied to this job"
// @Router /applications [post]
func Apply(c *gin.Context) {
	candidate, ok := candidateForUser(c)
	if !ok {
		return
	}

	var input applyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data: " + err.Error()})
		return
	}

	var job models.Job
	if err := db.DB.Where("id = ?", input.JobID).First(&job).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}
	if !job.Active || job.IsClosed() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "This job is no longer accepting applications"})
		return
	}

	var existing models.AppliedJob
	err := db.DB.Where("candidate_id = ? AND job_id = ?", candidate.ID, job.ID).First(&existing).Error
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "You have already applied to this job"})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error checking existing application"})
		return
	}

	application := models.AppliedJob{
		CandidateID: candidate.ID,
		JobID:       job.ID,
		Status:      models.ApplicationSend,
	}

	txErr := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&application).Error; err != nil {
			return err
		}

		for _, a := range input.Answers {
			var question models.Question
			if err := tx.Where("id = ? AND job_id = ?", a.QuestionID, job.ID).First(&question).Error; err != nil {
				continue
			}
			answer := models.Answer{
				CandidateID:  candidate.ID,
				QuestionID:   question.ID,
				AnswerText:   a.Answer,
				QuestionText: question.Text,
			}
			if err := tx.Create(&answer).Error; err != nil {
				return err
			}
		}

		// the approval row anchors the chat gate for this pair; creating it
		// here keeps application and gate consistent
		var approval models.Approval
		err := tx.Where("candidate_id = ? AND employer_id = ?", candidate.ID, job.EmployerID).First(&approval).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			approval = models.Approval{
				CandidateID: candidate.ID,
				EmployerID:  job.EmployerID,
			}
			return tx.Create(&approval).Error
		}
		return err
	})
	if txErr != nil {
		utils.LogErrorWithUser(candidate.UserID, txErr, "Error creating application in Apply")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error submitting the application"})
		return
	}

	var employer models.Employer
	if err := db.DB.Where("id = ?", job.EmployerID).First(&employer).Error; err == nil {
		message := candidate.User.FullName + " applied for " + job.Title
		_ = realtime.Notify(employer.UserID, message, "candidate", realtime.Meta{})
	}

	utils.LogSuccessWithUser(candidate.UserID, "Application submitted")
	c.JSON(http.StatusCreated, application)
}

type statusUpdateInput struct {
	Status string `json:"status" binding:"required"`
}

// @Summary Update an application status
// @Description Employer only. The status must belong to the closed vocabulary, anything else is a 400.
// @Tags applications
// @Accept json
// @Produce json
// @Param application_id path string true "Application id"
// @Param body body statusUpdateInput true "New status"
// @Security BearerAuth
// @Success 200 {object} map[string]string "message: Status updated"
// @Failure 400 {object} map[string]string "error: Invalid status"
// @Router /applications/{application_id}/status [post]
func UpdateStatus(c *gin.Context) {
	employer, ok := employerForUser(c)
	if !ok {
		return
	}

	var input statusUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data: " + err.Error()})
		return
	}
	if !models.IsValidApplicationStatus(input.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	applicationID := c.Param("application_id")
	var application models.AppliedJob
	if err := db.DB.Preload("Job").Preload("Candidate").
		Where("id = ?", applicationID).First(&application).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
		return
	}
	if application.Job.EmployerID != employer.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not own this job"})
		return
	}

	if err := db.DB.Model(&application).Update("status", input.Status).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating the application"})
		return
	}

	message := "Your application for " + application.Job.Title + " is now: " + input.Status
	_ = realtime.Notify(application.Candidate.UserID, message, "employer", realtime.Meta{})

	c.JSON(http.StatusOK, gin.H{"message": "Status updated"})
}

// @Summary Check whether the caller applied to a job
// @Tags applications
// @Produce json
// @Param job_id path string true "Job id"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "applied plus status when applied"
// @Router /applications/check/{job_id} [get]
func CheckApplication(c *gin.Context) {
	candidate, ok := candidateForUser(c)
	if !ok {
		return
	}

	jobID := c.Param("job_id")
	var application models.AppliedJob
	err := db.DB.Where("candidate_id = ? AND job_id = ?", candidate.ID, jobID).First(&application).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusOK, gin.H{"applied": false})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error checking the application"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"applied": true, "status": application.Status, "application_id": application.ID})
}

// @Summary List the caller's applications
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.AppliedJob
// @Router /applications/mine [get]
func GetAppliedJobs(c *gin.Context) {
	candidate, ok := candidateForUser(c)
	if !ok {
		return
	}

	var applications []models.AppliedJob
	if err := db.DB.Preload("Job").Preload("Job.Employer").
		Where("candidate_id = ?", candidate.ID).
		Order("applied_on DESC").
		Find(&applications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch applications"})
		return
	}

	c.JSON(http.StatusOK, applications)
}

// @Summary List applications for one of the employer's jobs
// @Tags applications
// @Produce json
// @Param job_id path string true "Job id"
// @Security BearerAuth
// @Success 200 {array} models.AppliedJob
// @Router /applications/job/{job_id} [get]
func GetApplications(c *gin.Context) {
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
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not own this job"})
		return
	}

	var applications []models.AppliedJob
	if err := db.DB.Preload("Candidate").Preload("Candidate.User").
		Where("job_id = ?", jobID).
		Order("applied_on DESC").
		Find(&applications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch applications"})
		return
	}

	c.JSON(http.StatusOK, applications)
}

// @Summary Answers a candidate gave for a job
// @Tags applications
// @Produce json
// @Param job_id path string true "Job id"
// @Param candidate_id path string true "Candidate id"
// @Security BearerAuth
// @Success 200 {array} models.Answer
// @Router /applications/job/{job_id}/answers/{candidate_id} [get]
func GetAnswers(c *gin.Context) {
	employer, ok := employerForUser(c)
	if !ok {
		return
	}

	jobID := c.Param("job_id")
	candidateID := c.Param("candidate_id")

	var job models.Job
	if err := db.DB.Where("id = ? AND employer_id = ?", jobID, employer.ID).First(&job).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}

	var answers []models.Answer
	if err := db.DB.
		Joins("JOIN questions ON questions.id = answers.question_id").
		Where("questions.job_id = ? AND answers.candidate_id = ?", jobID, candidateID).
		Find(&answers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch answers"})
		return
	}

	c.JSON(http.StatusOK, answers)
}

// @Summary Save a job for later
// @Tags saved-jobs
// @Produce json
// @Param job_id path string true "Job id"
// @Security BearerAuth
// @Success 201 {object} models.SavedJob
// @Failure 409 {object} map[string]string "error: Job already saved"
// @Router /jobs/{job_id}/save [post]
func SaveJob(c *gin.Context) {
	candidate, ok := candidateForUser(c)
	if !ok {
		return
	}

	jobID := c.Param("job_id")
	var job models.Job
	if err := db.DB.Where("id = ?", jobID).First(&job).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}

	var existing models.SavedJob
	if err := db.DB.Where("candidate_id = ? AND job_id = ?", candidate.ID, jobID).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Job already saved"})
		return
	}

	saved := models.SavedJob{CandidateID: candidate.ID, JobID: jobID}
	if err := db.DB.Create(&saved).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error saving the job"})
		return
	}

	c.JSON(http.StatusCreated, saved)
}

// @Summary Remove a saved job
// @Tags saved-jobs
// @Produce json
// @Param job_id path string true "Job id"
// @Security BearerAuth
// @Success 200 {object} map[string]string "message: Job removed from saved jobs"
// @Router /jobs/{job_id}/save [delete]
func UnsaveJob(c *gin.Context) {
	candidate, ok := candidateForUser(c)
	if !ok {
		return
	}

	jobID := c.Param("job_id")
	result := db.DB.Where("candidate_id = ? AND job_id = ?", candidate.ID, jobID).Delete(&models.SavedJob{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error removing the saved job"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Saved job not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Job removed from saved jobs"})
}

// @Summary Check whether the caller saved a job
// @Tags saved-jobs
// @Produce json
// @Param job_id path string true "Job id"
// @Security BearerAuth
// @Success 200 {object} map[string]bool "saved"
// @Router /jobs/{job_id}/saved [get]
func CheckSavedJob(c *gin.Context) {
	candidate, ok := candidateForUser(c)
	if !ok {
		return
	}

	jobID := c.Param("job_id")
	var count int64
	db.DB.Model(&models.SavedJob{}).Where("candidate_id = ? AND job_id = ?", candidate.ID, jobID).Count(&count)

	c.JSON(http.StatusOK, gin.H{"saved": count > 0})
}

// @Summary List the caller's saved jobs
// @Tags saved-jobs
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.SavedJob
// @Router /jobs/saved [get]
func GetSavedJobs(c *gin.Context) {
	candidate, ok := candidateForUser(c)
	if !ok {
		return
	}

	var saved []models.SavedJob
	if err := db.DB.Preload("Job").Preload("Job.Employer").
		Where("candidate_id = ?", candidate.ID).
		Order("created_at DESC").
		Find(&saved).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch saved jobs"})
		return
	}

	c.JSON(http.StatusOK, saved)
}

type approvalActionInput struct {
	Action  string `json:"action" binding:"required"`
	Message string `json:"message"`
}

// @Summary Fetch the chat approval state for a candidate/employer pair
// @Tags approvals
// @Produce json
// @Param candidate_id query string false "Candidate id (employer callers)"
// @Param employer_id query string false "Employer id (candidate callers)"
// @Security BearerAuth
// @Success 200 {object} models.Approval
// @Router /approvals [get]
func GetApproval(c *gin.Context) {
	userID, _ := c.Get("user_id")
	userType, _ := c.Get("user_type")

	var candidateID, employerID string
	switch userType {
	case "candidate":
		var candidate models.Candidate
		if err := db.DB.Where("user_id = ?", userID).First(&candidate).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Candidate profile not found"})
			return
		}
		candidateID = candidate.ID
		employerID = c.Query("employer_id")
	case "employer":
		var employer models.Employer
		if err := db.DB.Where("user_id = ?", userID).First(&employer).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Employer profile not found"})
			return
		}
		employerID = employer.ID
		candidateID = c.Query("candidate_id")
	default:
		c.JSON(http.StatusForbidden, gin.H{"error": "User is neither a candidate nor an employer"})
		return
	}
	if candidateID == "" || employerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Both candidate and employer must be identified"})
		return
	}

	var approval models.Approval
	if err := db.DB.Where("candidate_id = ? AND employer_id = ?", candidateID, employerID).First(&approval).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No approval found for this pair"})
		return
	}

	c.JSON(http.StatusOK, approval)
}

// @Summary Act on a chat approval
// @Description Candidates request access; employers approve or reject. Each action rewrites the tri-state flags so exactly one is set.
// @Tags approvals
// @Accept json
// @Produce json
// @Param approval_id path string true "Approval id"
// @Param body body approvalActionInput true "requested, approved or rejected"
// @Security BearerAuth
// @Success 200 {object} models.Approval
// @Failure 400 {object} map[string]string "error: Invalid action"
// @Router /approvals/{approval_id} [post]
func ChatApproval(c *gin.Context) {
	userType, _ := c.Get("user_type")
	approvalID := c.Param("approval_id")

	var input approvalActionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data: " + err.Error()})
		return
	}

	var approval models.Approval
	if err := db.DB.Preload("Candidate").Preload("Candidate.User").
		Preload("Employer").Preload("Employer.User").
		Where("id = ?", approvalID).First(&approval).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Approval not found"})
		return
	}

	var notifyUserID, message, sender string
	switch input.Action {
	case "requested":
		if userType != "candidate" {
			c.JSON(http.StatusForbidden, gin.H{"error": "Only candidates can request chat access"})
			return
		}
		now := time.Now()
		approval.IsRequested = true
		approval.IsApproved = false
		approval.IsRejected = false
		approval.Message = input.Message
		approval.RequestedAt = &now
		notifyUserID = approval.Employer.UserID
		message = approval.Candidate.User.FullName + " requested to chat with you"
		sender = "candidate"
	case "approved":
		if userType != "employer" {
			c.JSON(http.StatusForbidden, gin.H{"error": "Only employers can approve chat access"})
			return
		}
		approval.IsRequested = false
		approval.IsApproved = true
		approval.IsRejected = false
		notifyUserID = approval.Candidate.UserID
		message = approval.Employer.User.FullName + " approved your chat request"
		sender = "employer"
	case "rejected":
		if userType != "employer" {
			c.JSON(http.StatusForbidden, gin.H{"error": "Only employers can reject chat access"})
			return
		}
		approval.IsRequested = false
		approval.IsApproved = false
		approval.IsRejected = true
		notifyUserID = approval.Candidate.UserID
		message = approval.Employer.User.FullName + " declined your chat request"
		sender = "employer"
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid action"})
		return
	}

	if err := db.DB.Save(&approval).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating the approval"})
		return
	}

	_ = realtime.Notify(notifyUserID, message, sender, realtime.Meta{})

	c.JSON(http.StatusOK, approval)
}
