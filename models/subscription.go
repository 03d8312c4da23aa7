package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type PlanName string

const (
	PlanBasic    PlanName = "basic"
	PlanStandard PlanName = "standard"
	PlanPremium  PlanName = "premium"
)

// UnlimitedJobLimit is the sentinel meaning "no quota" on a plan.
const UnlimitedJobLimit = 9999

type SubscriptionPlan struct {
	ID           string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Name         PlanName  `json:"name" gorm:"type:varchar(20);uniqueIndex;not null" binding:"required"`
	Description  string    `json:"description"`
	Price        float64   `json:"price" binding:"required"`
	JobLimit     int       `json:"jobLimit" binding:"required"`
	DurationDays int       `json:"durationDays" gorm:"default:30"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Plan names are matched case-insensitively at the unique index, so store
// them lowercased.
func (p *SubscriptionPlan) BeforeSave(tx *gorm.DB) error {
	p.Name = PlanName(strings.ToLower(string(p.Name)))
	return nil
}

type SubscriptionStatus string

const (
	SubscriptionPending    SubscriptionStatus = "pending"
	SubscriptionActive     SubscriptionStatus = "active"
	SubscriptionInactive   SubscriptionStatus = "inactive"
	SubscriptionExpired    SubscriptionStatus = "expired"
	SubscriptionCancelled  SubscriptionStatus = "cancelled"
	SubscriptionRestricted SubscriptionStatus = "restricted"
)

// EmployerSubscription is the ledger row for one billing cycle. JobLimit is a
// snapshot of the plan limit at creation; SubscribedJob counts posts admitted
// against it. At most one row per employer may be active with an end date in
// the future (enforced in the handlers, backed by the expiry sweep).
type EmployerSubscription struct {
	ID            string             `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	EmployerID    string             `json:"employerId" gorm:"type:uuid;not null;index"`
	Employer      Employer           `json:"-" gorm:"foreignKey:EmployerID"`
	PlanID        string             `json:"planId" gorm:"type:uuid;not null"`
	Plan          SubscriptionPlan   `json:"plan" gorm:"foreignKey:PlanID"`
	ReferenceID   string             `json:"referenceId" gorm:"uniqueIndex;not null"`
	PaymentID     *string            `json:"paymentId" gorm:"type:uuid"`
	Status        SubscriptionStatus `json:"status" gorm:"type:varchar(20);default:'pending'"`
	StartDate     *time.Time         `json:"startDate"`
	EndDate       *time.Time         `json:"endDate"`
	JobLimit      int                `json:"jobLimit" gorm:"default:0"`
	SubscribedJob int                `json:"subscribedJob" gorm:"default:0"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

// CanPostJob reports whether a post fits inside the base quota.
func (s EmployerSubscription) CanPostJob() bool {
	if s.Status != SubscriptionActive {
		return false
	}
	return s.JobLimit == UnlimitedJobLimit || s.SubscribedJob < s.JobLimit
}
