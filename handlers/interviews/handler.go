package interviews

import (
	"net/http"
	"net/url"
	"time"
	"worknest-backend/db"
	"worknest-backend/models"
	"worknest-backend/realtime"
	"worknest-backend/utils"
	mailsmodels "worknest-backend/utils/mails-models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

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

// @Summary Schedule an interview
// @Description Requires an existing application. Creating a new active interview deactivates any prior active one for the same (job, candidate) pair.
// @Tags interviews
// @Accept json
// @Produce json
// @Param body body models.InterviewScheduleCreate true "Candidate, job, application and date"
// @Security BearerAuth
// @Success 201 {object} models.InterviewSchedule
// @Failure 404 {object} map[string]string "error: Application not found"
// @Router /interviews [post]
func ScheduleInterview(c *gin.Context) {
	employer, ok := employerForUser(c)
	if !ok {
		return
	}

	var input models.InterviewScheduleCreate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data: " + err.Error()})
		return
	}

	var candidate models.Candidate
	if err := db.DB.Preload("User").Where("id = ?", input.CandidateID).First(&candidate).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Candidate not found"})
		return
	}

	var job models.Job
	if err := db.DB.Where("id = ?", input.JobID).First(&job).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}

	var application models.AppliedJob
	if err := db.DB.Where("id = ? AND candidate_id = ? AND job_id = ?",
		input.ApplicationID, candidate.ID, job.ID).First(&application).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
		return
	}

	interview := models.InterviewSchedule{
		CandidateID: candidate.ID,
		EmployerID:  employer.ID,
		JobID:       job.ID,
		Date:        input.Date,
		Active:      true,
		Status:      models.InterviewUpcoming,
	}
	if err := db.DB.Create(&interview).Error; err != nil {
		utils.LogErrorWithUser(employer.UserID, err, "Error creating interview in ScheduleInterview")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error scheduling the interview"})
		return
	}

	if err := db.DB.Model(&application).Update("status", models.InterviewScheduled).Error; err != nil {
		utils.LogErrorWithUser(employer.UserID, err, "Error updating application status in ScheduleInterview")
	}

	dateText := input.Date.Format(time.RFC1123)
	go mailsmodels.InterviewScheduled(candidate.User.Email, dateText, employer.User.FullName, job.Title)

	message := "Interview scheduled for " + job.Title + " on " + dateText
	_ = realtime.Notify(candidate.UserID, message, "employer", realtime.Meta{})

	utils.LogSuccessWithUser(employer.UserID, "Interview scheduled")
	c.JSON(http.StatusCreated, interview)
}

// @Summary List active interview schedules for the caller
// @Tags interviews
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.InterviewSchedule
// @Router /interviews [get]
func GetSchedules(c *gin.Context) {
	userID, _ := c.Get("user_id")
	userType, _ := c.Get("user_type")

	var schedules []models.InterviewSchedule
	query := db.DB.Preload("Job").Preload("Candidate").Preload("Candidate.User").
		Where("active = ?", true)

	switch userType {
	case "candidate":
		var candidate models.Candidate
		if err := db.DB.Where("user_id = ?", userID).First(&candidate).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Candidate profile not found"})
			return
		}
		query = query.Where("candidate_id = ?", candidate.ID)
	case "employer":
		var employer models.Employer
		if err := db.DB.Where("user_id = ?", userID).First(&employer).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Employer profile not found"})
			return
		}
		query = query.Where("employer_id = ?", employer.ID)
	default:
		c.JSON(http.StatusForbidden, gin.H{"error": "User is neither a candidate nor an employer"})
		return
	}

	if err := query.Order("date ASC").Find(&schedules).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch schedules"})
		return
	}

	c.JSON(http.StatusOK, schedules)
}

type statusInput struct {
	Action string `json:"action" binding:"required"`
}

// @Summary Change an interview status
// @Description Action is one of Accepted, Rejected, Completed, Missed. Accepted and Rejected are mirrored onto the application; Completed is candidate-only.
// @Tags interviews
// @Accept json
// @Produce json
// @Param interview_id path string true "Interview id"
// @Param body body statusInput true "Action"
// @Security BearerAuth
// @Success 200 {object} map[string]string "message: Status changed"
// @Failure 400 {object} map[string]string "error: Invalid action"
// @Router /interviews/{interview_id}/status [post]
func InterviewStatus(c *gin.Context) {
	interviewID := c.Param("interview_id")
	userType, _ := c.Get("user_type")
	isCandidate := userType == "candidate"

	var interview models.InterviewSchedule
	if err := db.DB.Where("id = ?", interviewID).First(&interview).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Interview not found"})
		return
	}

	var job models.Job
	var candidate models.Candidate
	var application models.AppliedJob
	if err := db.DB.Where("id = ?", interview.JobID).First(&job).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}
	if err := db.DB.Where("id = ?", interview.CandidateID).First(&candidate).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Candidate not found"})
		return
	}
	if err := db.DB.Where("candidate_id = ? AND job_id = ?", candidate.ID, job.ID).First(&application).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
		return
	}

	var input statusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data: " + err.Error()})
		return
	}

	var message string
	applicationChanged := false

	switch input.Action {
	case "Accepted":
		interview.Status = models.InterviewAccepted
		application.Status = models.ApplicationAccepted
		applicationChanged = true
		message = "Congratulations! You have been selected for the job " + job.Title + "."
	case "Rejected":
		interview.Status = models.InterviewRejected
		application.Status = models.ApplicationRejected
		applicationChanged = true
		message = "Sorry, you have been rejected for the job " + job.Title + "."
	case "Completed":
		if !isCandidate {
			c.JSON(http.StatusForbidden, gin.H{"error": "Only the candidate can mark the interview completed"})
			return
		}
		interview.Status = models.InterviewCompleted
		message = "Great job completing your interview for the '" + job.Title + "' position! We encourage you to follow up with the employer regarding the next steps."
	case "Missed":
		// selected is flipped here too, matching the historical behaviour
		// consumers rely on
		interview.Selected = true
		interview.Status = models.InterviewMissed
		message = "You missed your interview for the job '" + job.Title + "'. Please contact the employer for further steps."
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid action"})
		return
	}

	if err := db.DB.Save(&interview).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating the interview"})
		return
	}
	if applicationChanged {
		if err := db.DB.Model(&application).Update("status", application.Status).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating the application"})
			return
		}
	}

	_ = realtime.Notify(candidate.UserID, message, "employer", realtime.Meta{})

	c.JSON(http.StatusOK, gin.H{"message": "Status changed"})
}

type cancelInput struct {
	CandidateID string `json:"candidate_id" binding:"required"`
	JobID       string `json:"job_id" binding:"required"`
}

// @Summary Cancel the active interview for a (job, candidate) pair
// @Description Blocked if the interview was attended or already terminal. A notification failure downgrades to a partial success, the cancellation itself is committed.
// @Tags interviews
// @Accept json
// @Produce json
// @Param body body cancelInput true "Candidate and job"
// @Security BearerAuth
// @Success 200 {object} map[string]string "message: Interview cancelled successfully"
// @Success 206 {object} map[string]string "message: Interview cancelled but failed to send notification"
// @Failure 400 {object} map[string]string "error: Cannot cancel"
// @Router /interviews/cancel [post]
func CancelInterview(c *gin.Context) {
	employer, ok := employerForUser(c)
	if !ok {
		return
	}

	var input cancelInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data: " + err.Error()})
		return
	}

	var job models.Job
	var candidate models.Candidate
	if err := db.DB.Where("id = ?", input.JobID).First(&job).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Candidate or Job not found"})
		return
	}
	if err := db.DB.Preload("User").Where("id = ?", input.CandidateID).First(&candidate).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Candidate or Job not found"})
		return
	}

	var interview models.InterviewSchedule
	if err := db.DB.Where("job_id = ? AND candidate_id = ? AND active = ?",
		job.ID, candidate.ID, true).
		Order("date DESC").
		First(&interview).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No active interview found"})
		return
	}

	if interview.Attended {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot cancel interview. The interview has already been attended."})
		return
	}
	for _, s := range models.TerminalInterviewStatuses {
		if interview.Status == s {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot cancel interview. Interview status is " + interview.Status + "."})
			return
		}
	}

	var application models.AppliedJob
	if err := db.DB.Where("candidate_id = ? AND job_id = ?", candidate.ID, job.ID).First(&application).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No application found for this candidate and job"})
		return
	}
	// the application rollback and the schedule deactivation land together or
	// not at all
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&application).Update("status", models.InterviewCancelled).Error; err != nil {
			return err
		}
		return tx.Model(&interview).Updates(map[string]interface{}{
			"active": false,
			"status": models.InterviewCanceled,
		}).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error cancelling the interview"})
		return
	}

	dateText := interview.Date.Format(time.RFC1123)
	go mailsmodels.InterviewCancelled(candidate.User.Email, dateText, employer.User.FullName, job.Title)

	message := "Interview for " + job.Title + " scheduled on " + dateText + " has been cancelled."
	if err := realtime.Notify(candidate.UserID, message, "employer", realtime.Meta{}); err != nil {
		c.JSON(http.StatusPartialContent, gin.H{"message": "Interview cancelled but failed to send notification"})
		return
	}

	utils.LogSuccessWithUser(employer.UserID, "Interview cancelled")
	c.JSON(http.StatusOK, gin.H{"message": "Interview cancelled successfully"})
}

// @Summary Mark the interview as attended
// @Description Candidate only: records that the candidate joined the interview.
// @Tags interviews
// @Produce json
// @Param interview_id path string true "Interview id"
// @Security BearerAuth
// @Success 200 {object} map[string]string "message: Interview attended"
// @Router /interviews/{interview_id}/join [post]
func JoinStatus(c *gin.Context) {
	interviewID := c.Param("interview_id")

	var interview models.InterviewSchedule
	if err := db.DB.Where("id = ?", interviewID).First(&interview).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Interview not found"})
		return
	}

	if err := db.DB.Model(&interview).Update("attended", true).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating the interview"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Interview attended"})
}

type linkInput struct {
	Link string `json:"link" binding:"required"`
}

// @Summary Send the interview link to the candidate
// @Tags interviews
// @Accept json
// @Produce json
// @Param interview_id path string true "Interview id"
// @Param body body linkInput true "Meeting link"
// @Security BearerAuth
// @Success 200 {object} map[string]string "message: Interview link sent successfully"
// @Failure 400 {object} map[string]string "error: Invalid URL provided"
// @Router /interviews/{interview_id}/link [post]
func SendLink(c *gin.Context) {
	interviewID := c.Param("interview_id")

	var input linkInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A link is required"})
		return
	}

	parsed, err := url.Parse(input.Link)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid URL provided"})
		return
	}

	var interview models.InterviewSchedule
	if err := db.DB.Where("id = ?", interviewID).First(&interview).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Interview not found"})
		return
	}

	var candidate models.Candidate
	if err := db.DB.Where("id = ?", interview.CandidateID).First(&candidate).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Candidate not found"})
		return
	}

	message := "Join your interview: " + input.Link
	if err := realtime.Notify(candidate.UserID, message, "employer", realtime.Meta{Link: input.Link}); err != nil {
		c.JSON(http.StatusPartialContent, gin.H{"message": "Link recorded but failed to send notification"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Interview link sent successfully"})
}
