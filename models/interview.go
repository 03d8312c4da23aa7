package models

import (
	"time"

	"gorm.io/gorm"
)

// Interview status values, part of the wire contract.
const (
	InterviewUpcoming  = "Upcoming"
	InterviewCompleted = "Completed"
	InterviewSelected  = "Selected"
	InterviewCanceled  = "Canceled"
	InterviewRejected  = "Rejected"
	InterviewAccepted  = "Accepted"
	InterviewMissed    = "You missed"
)

// TerminalInterviewStatuses are the states an interview cannot be cancelled from.
var TerminalInterviewStatuses = []string{
	InterviewCompleted,
	InterviewSelected,
	InterviewRejected,
	InterviewAccepted,
}

type InterviewSchedule struct {
	ID               string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CandidateID      string    `json:"candidateId" gorm:"type:uuid;not null;uniqueIndex:idx_interview_job_candidate_date"`
	Candidate        Candidate `json:"candidate" gorm:"foreignKey:CandidateID"`
	EmployerID       string    `json:"employerId" gorm:"type:uuid;not null"`
	Employer         Employer  `json:"-" gorm:"foreignKey:EmployerID"`
	JobID            string    `json:"jobId" gorm:"type:uuid;not null;uniqueIndex:idx_interview_job_candidate_date"`
	Job              Job       `json:"job" gorm:"foreignKey:JobID"`
	Date             time.Time `json:"date" gorm:"not null;uniqueIndex:idx_interview_job_candidate_date"`
	Selected         bool      `json:"selected" gorm:"default:false"`
	Active           bool      `json:"active" gorm:"default:true"`
	Attended         bool      `json:"attended" gorm:"default:false"`
	NotificationRead bool      `json:"notificationRead" gorm:"default:false"`
	Status           string    `json:"status" gorm:"type:varchar(20);default:'Upcoming'"`
	CreatedAt        time.Time `json:"createdAt"`
}

// BeforeCreate keeps the single-active-interview rule: inserting a new active
// row for a (job, candidate) pair deactivates any prior active rows. Last
// write wins.
func (i *InterviewSchedule) BeforeCreate(tx *gorm.DB) error {
	if !i.Active {
		return nil
	}
	return tx.Model(&InterviewSchedule{}).
		Where("job_id = ? AND candidate_id = ? AND active = ?", i.JobID, i.CandidateID, true).
		Update("active", false).Error
}

// InterviewScheduleCreate is the payload for scheduling an interview.
type InterviewScheduleCreate struct {
	CandidateID   string    `json:"candidate" binding:"required"`
	JobID         string    `json:"job" binding:"required"`
	ApplicationID string    `json:"application_id" binding:"required"`
	Date          time.Time `json:"date" binding:"required"`
}
