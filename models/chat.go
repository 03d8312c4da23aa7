package models

import (
	"time"
)

type ChatRoom struct {
	ID          string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CandidateID string    `json:"candidateId" gorm:"type:uuid;not null;uniqueIndex:idx_chatroom_candidate_employer"`
	Candidate   Candidate `json:"-" gorm:"foreignKey:CandidateID"`
	EmployerID  string    `json:"employerId" gorm:"type:uuid;not null;uniqueIndex:idx_chatroom_candidate_employer"`
	Employer    Employer  `json:"-" gorm:"foreignKey:EmployerID"`
	CreatedAt   time.Time `json:"createdAt"`
}

type ChatMessage struct {
	ID         string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	ChatRoomID string    `json:"chatRoomId" gorm:"type:uuid;not null;index"`
	ChatRoom   ChatRoom  `json:"-" gorm:"foreignKey:ChatRoomID"`
	Message    string    `json:"message"`
	SenderName string    `json:"sendername"`
	IsRead     bool      `json:"is_read" gorm:"default:false"`
	IsSent     bool      `json:"is_send" gorm:"default:false"`
	FileURL    string    `json:"file_url"`
	Timestamp  time.Time `json:"timestamp" gorm:"autoCreateTime"`
}

// ChatMessageCreate is the payload for sending a chat message.
type ChatMessageCreate struct {
	Message string `json:"message"`
	FileURL string `json:"file_url"`
}
