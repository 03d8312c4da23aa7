package models

import (
	"database/sql"
	"time"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentSuccess PaymentStatus = "success"
	PaymentFailed  PaymentStatus = "failed"
)

// Payment records one gateway transaction. TransactionID holds the gateway
// order id and is the handle the verify callback looks the row up by.
type Payment struct {
	ID               string        `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	UserID           string        `json:"userId" gorm:"type:uuid;not null"`
	EmployerID       string        `json:"employerId" gorm:"type:uuid;not null;index"`
	JobID            *string       `json:"jobId" gorm:"type:uuid"`
	Amount           float64       `json:"amount"`
	Method           string        `json:"method"`
	TransactionID    string        `json:"transactionId" gorm:"uniqueIndex;not null"`
	GatewayPaymentID string        `json:"gatewayPaymentId"`
	Status           PaymentStatus `json:"status" gorm:"type:varchar(20);default:'pending'"`
	CompletedAt      sql.NullTime  `json:"completedAt"`
	CreatedAt        time.Time     `json:"createdAt"`
	UpdatedAt        time.Time     `json:"updatedAt"`
}
