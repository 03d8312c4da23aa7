package models

import (
	"database/sql"
	"time"
)

type UserType string

const (
	CandidateType UserType = "candidate"
	EmployerType  UserType = "employer"
	AdminType     UserType = "admin"
)

type User struct {
	ID         string       `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Email      string       `json:"email" gorm:"uniqueIndex;not null" binding:"required,email"`
	Password   string       `json:"-" gorm:"not null"`
	FullName   string       `json:"fullName"`
	UserType   UserType     `json:"userType" gorm:"type:varchar(20);not null"`
	IsActive   bool         `json:"isActive" gorm:"default:true"`
	IsVerified bool         `json:"isVerified" gorm:"default:false"`
	Otp        string       `json:"-"`
	OtpExpiry  sql.NullTime `json:"-"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
}

// Candidate is the job-seeker profile attached to a user account.
type Candidate struct {
	ID             string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	UserID         string     `json:"userId" gorm:"type:uuid;uniqueIndex;not null"`
	User           User       `json:"user" gorm:"foreignKey:UserID"`
	Phone          string     `json:"phone"`
	Place          string     `json:"place"`
	DateOfBirth    *time.Time `json:"dateOfBirth"`
	Skills         string     `json:"skills"`
	Education      string     `json:"education"`
	Resume         string     `json:"resume"`
	ProfilePicture string     `json:"profilePicture"`
	LinkedinURL    string     `json:"linkedinUrl"`
	GithubURL      string     `json:"githubUrl"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// Employer is the recruiting-company profile attached to a user account.
// IsApproved gates posting until an admin validates the company.
type Employer struct {
	ID             string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	UserID         string    `json:"userId" gorm:"type:uuid;uniqueIndex;not null"`
	User           User      `json:"user" gorm:"foreignKey:UserID"`
	Phone          string    `json:"phone"`
	Headquarters   string    `json:"headquarters"`
	About          string    `json:"about"`
	WebsiteLink    string    `json:"websiteLink"`
	Industry       string    `json:"industry"`
	ProfilePicture string    `json:"profilePicture"`
	IsApproved     bool      `json:"isApproved" gorm:"default:false"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// RegisterInput is the payload shared by candidate and employer registration.
type RegisterInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"fullName" binding:"required"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
