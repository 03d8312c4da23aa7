package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
	"worknest-backend/db"
	"worknest-backend/models"
	"worknest-backend/utils"

	"github.com/redis/go-redis/v9"
)

// MessagePayload is the inner message of a realtime envelope. ChatID is null
// for plain notifications; Link is set when the notification carries an
// interview link.
type MessagePayload struct {
	ID        string  `json:"id,omitempty"`
	Text      string  `json:"text"`
	Sender    string  `json:"sender"`
	IsRead    bool    `json:"is_read"`
	Timestamp string  `json:"timestamp"`
	ChatID    *string `json:"chat_id"`
	Link      string  `json:"link,omitempty"`
}

// Envelope is the wire format published on the per-user topics.
type Envelope struct {
	Type        string         `json:"type"`
	Message     MessagePayload `json:"message"`
	UnreadCount int64          `json:"unread_count"`
}

// Meta carries optional notification metadata.
type Meta struct {
	ChatID *string
	Link   string
}

// Hub owns the redis connection used for notification fan-out. One hub is
// created at process start and closed on shutdown; handlers go through the
// package-level helpers, the same way db.DB is shared.
type Hub struct {
	rdb *redis.Client
}

var hub *Hub

// Init connects the hub. An empty addr leaves the hub nil: state changes keep
// working, delivery is skipped and logged.
func Init(addr string) {
	if addr == "" {
		utils.LogInfo("REDIS_URL not set, realtime notifications disabled")
		return
	}
	opts, err := redis.ParseURL(addr)
	if err != nil {
		utils.LogError(err, "Invalid REDIS_URL, realtime notifications disabled")
		return
	}
	hub = &Hub{rdb: redis.NewClient(opts)}
	utils.LogSuccess("Realtime hub connected")
}

func Close() {
	if hub != nil && hub.rdb != nil {
		_ = hub.rdb.Close()
		hub = nil
	}
}

func NotificationTopic(userID string) string {
	return fmt.Sprintf("notification_%s", userID)
}

func ChatTopic(candidateID, employerID string) string {
	return fmt.Sprintf("chat_%s_%s", candidateID, employerID)
}

// Notify persists a notification row for the recipient and publishes the
// envelope to their topic. At-least-once, fire-and-forget: the caller's state
// change is already committed and is never rolled back on delivery failure.
func Notify(recipientUserID, text, senderLabel string, meta Meta) error {
	notification := models.Notification{
		UserID:  recipientUserID,
		Message: text,
	}
	if err := db.DB.Create(&notification).Error; err != nil {
		utils.LogErrorWithUser(recipientUserID, err, "Error persisting notification")
		return err
	}

	var unread int64
	if err := db.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", recipientUserID, false).
		Count(&unread).Error; err != nil {
		unread = 1
	}

	envelope := Envelope{
		Type: "notify_message",
		Message: MessagePayload{
			ID:        notification.ID,
			Text:      text,
			Sender:    senderLabel,
			IsRead:    false,
			Timestamp: time.Now().Format(time.RFC3339),
			ChatID:    meta.ChatID,
			Link:      meta.Link,
		},
		UnreadCount: unread,
	}

	return publish(NotificationTopic(recipientUserID), envelope)
}

// PublishChat pushes a chat message envelope to the room topic.
func PublishChat(candidateID, employerID string, payload MessagePayload, unread int64) error {
	envelope := Envelope{
		Type:        "chat_message",
		Message:     payload,
		UnreadCount: unread,
	}
	return publish(ChatTopic(candidateID, employerID), envelope)
}

func publish(topic string, envelope Envelope) error {
	if hub == nil || hub.rdb == nil {
		utils.LogInfo("Realtime hub not connected, dropping message for " + topic)
		return nil
	}

	body, err := json.Marshal(envelope)
	if err != nil {
		utils.LogError(err, "Error encoding realtime envelope")
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := hub.rdb.Publish(ctx, topic, body).Err(); err != nil {
		utils.LogError(err, "Error publishing to "+topic)
		return err
	}
	return nil
}
