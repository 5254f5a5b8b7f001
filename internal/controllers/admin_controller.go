package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	logrus "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"estate_hub/internal/config"
	"estate_hub/internal/models"
)

// ListUsers returns all accounts, optionally filtered by ?role= or
// ?approval_status=.
func ListUsers(c *gin.Context) {
	query := config.DB.
		Preload("Resident").
		Preload("Rider").
		Preload("Store").
		Preload("ServiceProvider")

	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	if status := c.Query("approval_status"); status != "" {
		query = query.Where("approval_status = ?", status)
	}

	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		logrus.WithError(err).Error("Error listing users.")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing users: " + err.Error()})
		return
	}

	data := make([]gin.H, 0, len(users))
	for _, user := range users {
		data = append(data, prepareUserResponse(user))
	}
	c.JSON(http.StatusOK, gin.H{"data": data})
}

// SetUserApproval approves or suspends an account.
func SetUserApproval(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format."})
		return
	}

	var input struct {
		ApprovalStatus models.ApprovalStatus `json:"approval_status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	switch input.ApprovalStatus {
	case models.ApprovalApproved, models.ApprovalSuspended, models.ApprovalPending:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid approval_status"})
		return
	}

	var user models.User
	if err := config.DB.First(&user, uint(userID)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found."})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error: " + err.Error()})
		}
		return
	}

	user.ApprovalStatus = input.ApprovalStatus
	if err := config.DB.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update approval status: " + err.Error()})
		return
	}

	logrus.WithFields(logrus.Fields{
		"user_id":         user.ID,
		"approval_status": user.ApprovalStatus,
	}).Info("User approval status changed.")

	c.JSON(http.StatusOK, gin.H{"message": "Approval status updated.", "user": prepareUserResponse(user)})
}

// ListAllDeliveries returns every delivery request for the admin console.
func ListAllDeliveries(c *gin.Context) {
	query := config.DB.Order("created_at desc")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var deliveries []models.DeliveryRequest
	if err := query.Find(&deliveries).Error; err != nil {
		logrus.WithError(err).Error("Error listing deliveries.")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing deliveries: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": deliveries})
}

// AdminOverview returns the dashboard counters.
func AdminOverview(c *gin.Context) {
	var pendingUsers, pendingPasses, openDeliveries, totalUsers int64

	if err := config.DB.Model(&models.User{}).Where("approval_status = ?", models.ApprovalPending).Count(&pendingUsers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error: " + err.Error()})
		return
	}
	if err := config.DB.Model(&models.GatePass{}).Where("status = ?", models.GatePassPending).Count(&pendingPasses).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error: " + err.Error()})
		return
	}
	if err := config.DB.Model(&models.DeliveryRequest{}).
		Where("status IN ?", []models.DeliveryStatus{
			models.DeliveryPending, models.DeliveryAccepted,
			models.DeliveryInTransit, models.DeliveryAwaitingGatePass,
		}).Count(&openDeliveries).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error: " + err.Error()})
		return
	}
	if err := config.DB.Model(&models.User{}).Count(&totalUsers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_users":         totalUsers,
		"pending_users":       pendingUsers,
		"pending_gate_passes": pendingPasses,
		"open_deliveries":     openDeliveries,
	})
}
