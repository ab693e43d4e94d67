// services/message_service.go
package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"rental-backend/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const conversationPageSize = 100

type MessageService struct {
	DB *gorm.DB
}

func NewMessageService(db *gorm.DB) *MessageService {
	return &MessageService{DB: db}
}

type SendMessageInput struct {
	SenderID   uint
	ReceiverID uint
	Text       string
	Image      *models.ListingImage
}

func (s *MessageService) Send(in SendMessageInput) (*models.Message, error) {
	if in.ReceiverID == 0 {
		return nil, fmt.Errorf("%w: receiver id is required", ErrInvalidInput)
	}
	in.Text = strings.TrimSpace(in.Text)
	if in.Text == "" && in.Image == nil {
		return nil, fmt.Errorf("%w: at least text or image is required", ErrInvalidInput)
	}

	var receiver models.User
	if err := s.DB.First(&receiver, in.ReceiverID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	msg := models.Message{
		SenderID:   in.SenderID,
		ReceiverID: in.ReceiverID,
		Text:       in.Text,
	}
	if in.Image != nil {
		raw, _ := json.Marshal(in.Image)
		msg.Image = datatypes.JSON(raw)
	}
	if err := s.DB.Create(&msg).Error; err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}
	s.DB.Preload("Sender").First(&msg, msg.ID)
	return &msg, nil
}

// Conversation returns the most recent messages exchanged between the
// caller and one other user, in chronological order.
func (s *MessageService) Conversation(userID, otherID uint) ([]models.Message, error) {
	var msgs []models.Message
	err := s.DB.Preload("Sender").
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userID, otherID, otherID, userID).
		Order("id DESC").
		Limit(conversationPageSize).
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}
