package models

import (
	"time"

	"gorm.io/gorm"
)

// Conversation is a two-party message thread. The last message is
// denormalised onto the thread so conversation lists render without joins.
type Conversation struct {
	gorm.Model
	ParticipantAID uint `json:"participant_a_id" gorm:"index:idx_participants"`
	ParticipantBID uint `json:"participant_b_id" gorm:"index:idx_participants"`

	LastMessageText string    `json:"last_message_text"`
	LastMessageAt   time.Time `json:"last_message_at"`

	Messages []Message `gorm:"foreignKey:ConversationID" json:"messages,omitempty"`
}

// Involves reports whether the given user is one of the two participants.
func (c *Conversation) Involves(userID uint) bool {
	return c.ParticipantAID == userID || c.ParticipantBID == userID
}
