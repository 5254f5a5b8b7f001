package models

import "gorm.io/gorm"

// Message is one direct message inside a conversation.
type Message struct {
	gorm.Model
	ConversationID uint   `json:"conversation_id" gorm:"index"`
	SenderID       uint   `json:"sender_id"`
	ReceiverID     uint   `json:"receiver_id"`
	Text           string `json:"text"`
	Read           bool   `json:"read" gorm:"default:false"`
}
