package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	logrus "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"estate_hub/internal/config"
	"estate_hub/internal/models"
)

// SendMessage delivers a direct message, creating the conversation between
// the two parties if it does not exist yet.
func SendMessage(c *gin.Context) {
	sender, ok := currentUser(c)
	if !ok {
		return
	}

	var input struct {
		ReceiverID uint   `json:"receiver_id" binding:"required"`
		Text       string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.ReceiverID == sender.ID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot message yourself"})
		return
	}

	var receiver models.User
	if err := config.DB.First(&receiver, input.ReceiverID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "receiver not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error: " + err.Error()})
		}
		return
	}

	// Normalize the pair so one thread exists per pair regardless of who
	// wrote first.
	a, b := sender.ID, input.ReceiverID
	if b < a {
		a, b = b, a
	}

	var message models.Message
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		var conversation models.Conversation
		err := tx.Where("participant_a_id = ? AND participant_b_id = ?", a, b).First(&conversation).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			conversation = models.Conversation{ParticipantAID: a, ParticipantBID: b}
			if err := tx.Create(&conversation).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		message = models.Message{
			ConversationID: conversation.ID,
			SenderID:       sender.ID,
			ReceiverID:     input.ReceiverID,
			Text:           input.Text,
		}
		if err := tx.Create(&message).Error; err != nil {
			return err
		}

		conversation.LastMessageText = input.Text
		conversation.LastMessageAt = time.Now()
		return tx.Save(&conversation).Error
	})
	if err != nil {
		logrus.WithError(err).Error("Failed to send message.")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": message})
}

// ListConversations returns the caller's threads, most recent activity first.
func ListConversations(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		return
	}

	var conversations []models.Conversation
	if err := config.DB.
		Where("participant_a_id = ? OR participant_b_id = ?", caller.ID, caller.ID).
		Order("last_message_at desc").
		Find(&conversations).Error; err != nil {
		logrus.WithError(err).Error("Error listing conversations.")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing conversations: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": conversations})
}

// ListMessages returns a conversation's messages in order and marks the
// caller's received messages as read. Participants only.
func ListMessages(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		return
	}

	conversationID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid conversation ID format."})
		return
	}

	var conversation models.Conversation
	if err := config.DB.First(&conversation, uint(conversationID)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found."})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error: " + err.Error()})
		}
		return
	}
	if !conversation.Involves(caller.ID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not a participant in this conversation."})
		return
	}

	var messages []models.Message
	if err := config.DB.
		Where("conversation_id = ?", conversation.ID).
		Order("created_at asc").
		Find(&messages).Error; err != nil {
		logrus.WithError(err).Error("Error listing messages.")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing messages: " + err.Error()})
		return
	}

	// Viewing the thread reads everything addressed to the caller.
	if err := config.DB.Model(&models.Message{}).
		Where("conversation_id = ? AND receiver_id = ? AND read = false", conversation.ID, caller.ID).
		Update("read", true).Error; err != nil {
		logrus.WithError(err).Warn("Could not mark messages as read.")
	}

	c.JSON(http.StatusOK, gin.H{"data": messages})
}
