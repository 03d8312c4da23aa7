package chat

import (
	"errors"
	"net/http"
	"time"
	"worknest-backend/db"
	"worknest-backend/models"
	"worknest-backend/realtime"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// pairForCaller resolves the (candidate, employer) chat pair for the caller
// plus the side and display name of the sender. Candidates pass the employer
// id in the route, employers the candidate id.
func pairForCaller(c *gin.Context) (candidate models.Candidate, employer models.Employer, senderName string, senderIsCandidate bool, ok bool) {
	userID, _ := c.Get("user_id")
	userType, _ := c.Get("user_type")
	otherID := c.Param("other_id")

	switch userType {
	case "candidate":
		if err := db.DB.Preload("User").Where("user_id = ?", userID).First(&candidate).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Candidate profile not found"})
			return
		}
		if err := db.DB.Preload("User").Where("id = ?", otherID).First(&employer).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Employer not found"})
			return
		}
		return candidate, employer, candidate.User.FullName, true, true
	case "employer":
		if err := db.DB.Preload("User").Where("user_id = ?", userID).First(&employer).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Employer profile not found"})
			return
		}
		if err := db.DB.Preload("User").Where("id = ?", otherID).First(&candidate).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Candidate not found"})
			return
		}
		return candidate, employer, employer.User.FullName, false, true
	default:
		c.JSON(http.StatusForbidden, gin.H{"error": "User is neither a candidate nor an employer"})
		return
	}
}

func roomFor(candidateID, employerID string, create bool) (*models.ChatRoom, error) {
	var room models.ChatRoom
	err := db.DB.Where("candidate_id = ? AND employer_id = ?", candidateID, employerID).First(&room).Error
	if errors.Is(err, gorm.ErrRecordNotFound) && create {
		room = models.ChatRoom{CandidateID: candidateID, EmployerID: employerID}
		if err := db.DB.Create(&room).Error; err != nil {
			return nil, err
		}
		return &room, nil
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// @Summary Message history with the other party
// @Description Creates the room on first access. Requires an approved chat gate for the pair.
// @Tags chat
// @Produce json
// @Param other_id path string true "Employer id for candidates, candidate id for employers"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "chat_id and messages"
// @Failure 403 {object} map[string]string "error: Chat has not been approved"
// @Router /chat/{other_id}/messages [get]
func GetMessages(c *gin.Context) {
	candidate, employer, _, _, ok := pairForCaller(c)
	if !ok {
		return
	}

	var approval models.Approval
	if err := db.DB.Where("candidate_id = ? AND employer_id = ? AND is_approved = ?",
		candidate.ID, employer.ID, true).First(&approval).Error; err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Chat has not been approved"})
		return
	}

	room, err := roomFor(candidate.ID, employer.ID, true)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error opening the chat room"})
		return
	}

	var messages []models.ChatMessage
	if err := db.DB.Where("chat_room_id = ?", room.ID).
		Order("timestamp ASC").
		Find(&messages).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"chat_id": room.ID, "messages": messages})
}

// @Summary Send a chat message
// @Tags chat
// @Accept json
// @Produce json
// @Param other_id path string true "Employer id for candidates, candidate id for employers"
// @Param body body models.ChatMessageCreate true "Message text and optional file url"
// @Security BearerAuth
// @Success 201 {object} models.ChatMessage
// @Failure 403 {object} map[string]string "error: Chat has not been approved"
// @Router /chat/{other_id}/messages [post]
func SendMessage(c *gin.Context) {
	candidate, employer, senderName, senderIsCandidate, ok := pairForCaller(c)
	if !ok {
		return
	}

	var input models.ChatMessageCreate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data: " + err.Error()})
		return
	}
	if input.Message == "" && input.FileURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message cannot be empty"})
		return
	}

	var approval models.Approval
	if err := db.DB.Where("candidate_id = ? AND employer_id = ? AND is_approved = ?",
		candidate.ID, employer.ID, true).First(&approval).Error; err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Chat has not been approved"})
		return
	}

	room, err := roomFor(candidate.ID, employer.ID, true)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error opening the chat room"})
		return
	}

	message := models.ChatMessage{
		ChatRoomID: room.ID,
		Message:    input.Message,
		FileURL:    input.FileURL,
		SenderName: senderName,
		IsSent:     true,
	}
	if err := db.DB.Create(&message).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error sending the message"})
		return
	}

	var unread int64
	db.DB.Model(&models.ChatMessage{}).
		Where("chat_room_id = ? AND is_read = ? AND sender_name = ?", room.ID, false, senderName).
		Count(&unread)

	chatID := room.ID
	payload := realtime.MessagePayload{
		ID:        message.ID,
		Text:      message.Message,
		Sender:    senderName,
		IsRead:    false,
		Timestamp: message.Timestamp.Format(time.RFC3339),
		ChatID:    &chatID,
	}
	_ = realtime.PublishChat(candidate.ID, employer.ID, payload, unread)

	recipientUserID := candidate.UserID
	senderLabel := "employer"
	if senderIsCandidate {
		recipientUserID = employer.UserID
		senderLabel = "candidate"
	}
	_ = realtime.Notify(recipientUserID, senderName+" sent you a message", senderLabel, realtime.Meta{ChatID: &chatID})

	c.JSON(http.StatusCreated, message)
}

// @Summary Mark the other party's messages as read
// @Tags chat
// @Produce json
// @Param other_id path string true "Employer id for candidates, candidate id for employers"
// @Security BearerAuth
// @Success 200 {object} map[string]string "message: Messages marked as read"
// @Router /chat/{other_id}/read [post]
func MarkRead(c *gin.Context) {
	candidate, employer, senderName, _, ok := pairForCaller(c)
	if !ok {
		return
	}

	room, err := roomFor(candidate.ID, employer.ID, false)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Chat room not found"})
		return
	}

	// everything not sent by the caller is the other party's
	if err := db.DB.Model(&models.ChatMessage{}).
		Where("chat_room_id = ? AND sender_name <> ? AND is_read = ?", room.ID, senderName, false).
		Update("is_read", true).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error marking messages as read"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Messages marked as read"})
}

type chatSummary struct {
	ChatID      string              `json:"chat_id"`
	CandidateID string              `json:"candidate_id"`
	EmployerID  string              `json:"employer_id"`
	Name        string              `json:"name"`
	LastMessage *models.ChatMessage `json:"last_message"`
	UnreadCount int64               `json:"unread_count"`
}

// @Summary List the caller's chats with last message and unread counts
// @Tags chat
// @Produce json
// @Security BearerAuth
// @Success 200 {array} chatSummary
// @Router /chat [get]
func GetChats(c *gin.Context) {
	userID, _ := c.Get("user_id")
	userType, _ := c.Get("user_type")

	var rooms []models.ChatRoom
	var callerName string

	switch userType {
	case "candidate":
		var candidate models.Candidate
		if err := db.DB.Preload("User").Where("user_id = ?", userID).First(&candidate).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Candidate profile not found"})
			return
		}
		callerName = candidate.User.FullName
		if err := db.DB.Preload("Employer").Preload("Employer.User").
			Where("candidate_id = ?", candidate.ID).Find(&rooms).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch chats"})
			return
		}
	case "employer":
		var employer models.Employer
		if err := db.DB.Preload("User").Where("user_id = ?", userID).First(&employer).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Employer profile not found"})
			return
		}
		callerName = employer.User.FullName
		if err := db.DB.Preload("Candidate").Preload("Candidate.User").
			Where("employer_id = ?", employer.ID).Find(&rooms).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch chats"})
			return
		}
	default:
		c.JSON(http.StatusForbidden, gin.H{"error": "User is neither a candidate nor an employer"})
		return
	}

	summaries := make([]chatSummary, 0, len(rooms))
	for _, room := range rooms {
		summary := chatSummary{
			ChatID:      room.ID,
			CandidateID: room.CandidateID,
			EmployerID:  room.EmployerID,
		}
		if userType == "candidate" {
			summary.Name = room.Employer.User.FullName
		} else {
			summary.Name = room.Candidate.User.FullName
		}

		var last models.ChatMessage
		if err := db.DB.Where("chat_room_id = ?", room.ID).
			Order("timestamp DESC").First(&last).Error; err == nil {
			summary.LastMessage = &last
		}

		db.DB.Model(&models.ChatMessage{}).
			Where("chat_room_id = ? AND sender_name <> ? AND is_read = ?", room.ID, callerName, false).
			Count(&summary.UnreadCount)

		summaries = append(summaries, summary)
	}

	c.JSON(http.StatusOK, summaries)
}
