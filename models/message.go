package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Message is one direct chat message between two users. Image is an
// opaque {public_id, url} object from the external blob store, same as
// listing images.
type Message struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	SenderID   uint `gorm:"index;column:sender_id" json:"sender_id"`
	ReceiverID uint `gorm:"index;column:receiver_id" json:"receiver_id"`

	Text  string         `gorm:"column:text;type:text" json:"text,omitempty"`
	Image datatypes.JSON `gorm:"column:image" json:"image,omitempty"`

	Sender   User `gorm:"foreignKey:SenderID;references:ID" json:"sender,omitempty"`
	Receiver User `gorm:"foreignKey:ReceiverID;references:ID" json:"receiver,omitempty"`
}
