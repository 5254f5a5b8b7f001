package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	logrus "github.com/sirupsen/logrus"

	"estate_hub/internal/config"
	"estate_hub/internal/models"
)

// CreateAnnouncement publishes an estate-wide notice.
func CreateAnnouncement(c *gin.Context) {
	var announcement models.Announcement
	if err := c.ShouldBindJSON(&announcement); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := config.DB.Create(&announcement).Error; err != nil {
		logrus.WithError(err).Error("Failed to create announcement.")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create announcement: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"announcement": announcement})
}

// ListAnnouncements returns all notices, newest first.
func ListAnnouncements(c *gin.Context) {
	var announcements []models.Announcement
	if err := config.DB.Order("created_at desc").Find(&announcements).Error; err != nil {
		logrus.WithError(err).Error("Error listing announcements.")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing announcements: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": announcements})
}
