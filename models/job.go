package models

import (
	"time"
)

type Job struct {
	ID             string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	EmployerID     string     `json:"employerId" gorm:"type:uuid;not null;index:idx_jobs_employer_title"`
	Employer       Employer   `json:"employer" gorm:"foreignKey:EmployerID"`
	Title          string     `json:"title" gorm:"index:idx_jobs_employer_title"`
	Location       string     `json:"location"`
	Lpa            string     `json:"lpa"`
	JobType        string     `json:"jobtype"`
	JobMode        string     `json:"jobmode"`
	Experience     string     `json:"experience"`
	Industry       string     `json:"industry"`
	About          string     `json:"about"`
	Responsibility string     `json:"responsibility"`
	ApplyBefore    *time.Time `json:"applyBefore"`
	PostedOn       time.Time  `json:"postedOn" gorm:"autoCreateTime"`
	Active         bool       `json:"active" gorm:"default:true"`
}

// IsClosed reports whether the application window has elapsed.
func (j Job) IsClosed() bool {
	if j.ApplyBefore == nil {
		return false
	}
	today := time.Now().Truncate(24 * time.Hour)
	return j.ApplyBefore.Before(today)
}

// JobCreate is the payload for posting a job. The optional payment id carries
// proof of a supplemental one-off payment when the plan quota is exhausted.
type JobCreate struct {
	Title             string     `json:"title" binding:"required"`
	Location          string     `json:"location"`
	Lpa               string     `json:"lpa"`
	JobType           string     `json:"jobtype"`
	JobMode           string     `json:"jobmode"`
	Experience        string     `json:"experience"`
	Industry          string     `json:"industry"`
	About             string     `json:"about"`
	Responsibility    string     `json:"responsibility"`
	ApplyBefore       *time.Time `json:"applyBefore"`
	Questions         []string   `json:"questions"`
	RazorpayPaymentID string     `json:"razorpay_payment_id"`
}

type SavedJob struct {
	ID          string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CandidateID string    `json:"candidateId" gorm:"type:uuid;not null;uniqueIndex:idx_saved_candidate_job"`
	JobID       string    `json:"jobId" gorm:"type:uuid;not null;uniqueIndex:idx_saved_candidate_job"`
	Job         Job       `json:"job" gorm:"foreignKey:JobID"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Application status values. These strings are part of the wire contract
// and must not be renamed.
const (
	ApplicationSend     = "Application Send"
	ApplicationViewed   = "Application Viewed"
	ResumeViewed        = "Resume Viewed"
	ApplicationPending  = "Pending"
	ShortListed         = "ShortListed"
	InterviewScheduled  = "Interview Scheduled"
	ApplicationAccepted = "Accepted"
	ApplicationRejected = "Rejected"
	InterviewCancelled  = "Interview Cancelled"
)

// ApplicationStatuses is the closed action vocabulary an employer may set.
var ApplicationStatuses = []string{
	ApplicationSend,
	ApplicationViewed,
	ResumeViewed,
	ApplicationPending,
	ShortListed,
	InterviewScheduled,
	ApplicationAccepted,
	ApplicationRejected,
	InterviewCancelled,
}

func IsValidApplicationStatus(status string) bool {
	for _, s := range ApplicationStatuses {
		if s == status {
			return true
		}
	}
	return false
}

type AppliedJob struct {
	ID          string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CandidateID string    `json:"candidateId" gorm:"type:uuid;not null;uniqueIndex:idx_applied_candidate_job"`
	Candidate   Candidate `json:"candidate" gorm:"foreignKey:CandidateID"`
	JobID       string    `json:"jobId" gorm:"type:uuid;not null;uniqueIndex:idx_applied_candidate_job"`
	Job         Job       `json:"job" gorm:"foreignKey:JobID"`
	Status      string    `json:"status" gorm:"type:varchar(30);default:'Application Send'"`
	AppliedOn   time.Time `json:"appliedOn" gorm:"autoCreateTime"`
}

type Question struct {
	ID    string `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	JobID string `json:"jobId" gorm:"type:uuid;not null;index"`
	Text  string `json:"text" gorm:"not null"`
}

type Answer struct {
	ID           string `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CandidateID  string `json:"candidateId" gorm:"type:uuid;not null"`
	QuestionID   string `json:"questionId" gorm:"type:uuid;not null"`
	AnswerText   string `json:"answerText"`
	QuestionText string `json:"questionText"`
}
