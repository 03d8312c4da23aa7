package models

import (
	"time"
)

// Approval gates chat between a candidate and an employer. Exactly one of the
// three flags is set at a time; the row is created alongside the first
// application linking the pair.
type Approval struct {
	ID          string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CandidateID string     `json:"candidateId" gorm:"type:uuid;not null;uniqueIndex:idx_approval_candidate_employer"`
	Candidate   Candidate  `json:"candidate" gorm:"foreignKey:CandidateID"`
	EmployerID  string     `json:"employerId" gorm:"type:uuid;not null;uniqueIndex:idx_approval_candidate_employer"`
	Employer    Employer   `json:"employer" gorm:"foreignKey:EmployerID"`
	Message     string     `json:"message"`
	IsRequested bool       `json:"isRequested" gorm:"default:false"`
	IsApproved  bool       `json:"isApproved" gorm:"default:false"`
	IsRejected  bool       `json:"isRejected" gorm:"default:false"`
	RequestedAt *time.Time `json:"requestedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}
