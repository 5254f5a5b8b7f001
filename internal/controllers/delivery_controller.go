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
	"estate_hub/internal/workflow"
)

type createDeliveryInput struct {
	// Optional: the rider/store/provider this job targets. When the target
	// operates outside the estate the job is held behind a gate pass.
	VisitorID uint `json:"visitor_id"`

	PickupAddress  string  `json:"pickup_address" binding:"required"`
	DropoffAddress string  `json:"dropoff_address" binding:"required"`
	Description    string  `json:"description" binding:"required"`
	EstimatedCost  float64 `json:"estimated_cost"`
	PickupLat      float64 `json:"pickup_lat"`
	PickupLng      float64 `json:"pickup_lng"`
}

// CreateDeliveryRequest submits a new delivery/errand job for the caller.
func CreateDeliveryRequest(c *gin.Context) {
	requester, ok := currentUser(c)
	if !ok {
		return
	}

	var input createDeliveryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var visitor *models.User
	if input.VisitorID != 0 {
		var target models.User
		if err := config.DB.Preload("Rider").Preload("Store").First(&target, input.VisitorID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "visitor not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "database error: " + err.Error()})
			}
			return
		}
		visitor = &target
	}

	details := workflow.DeliveryDetails{
		PickupAddress:  input.PickupAddress,
		DropoffAddress: input.DropoffAddress,
		Description:    input.Description,
		EstimatedCost:  input.EstimatedCost,
		PickupLat:      input.PickupLat,
		PickupLng:      input.PickupLng,
	}
	// Default the pickup point to the requester's own coordinates.
	if details.PickupLat == 0 && details.PickupLng == 0 {
		details.PickupLat = requester.Lat
		details.PickupLng = requester.Lng
	}

	delivery, err := coordinator.CreateDeliveryRequest(requester, details, visitor)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	response := gin.H{"delivery": delivery}
	if delivery.Status == models.DeliveryAwaitingGatePass {
		response["message"] = "Gate pass requested for external visitor. Delivery will be dispatched upon admin approval."
	}
	c.JSON(http.StatusCreated, response)
}

// ListMyDeliveries returns the caller's delivery requests, newest first.
func ListMyDeliveries(c *gin.Context) {
	requester, ok := currentUser(c)
	if !ok {
		return
	}

	var deliveries []models.DeliveryRequest
	if err := config.DB.
		Where("requester_id = ?", requester.ID).
		Order("created_at desc").
		Find(&deliveries).Error; err != nil {
		logrus.WithError(err).Error("Error listing deliveries for requester.")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing deliveries: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": deliveries})
}

// CancelDelivery cancels one of the caller's Pending jobs.
func CancelDelivery(c *gin.Context) {
	requester, ok := currentUser(c)
	if !ok {
		return
	}

	deliveryID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid delivery ID format."})
		return
	}

	delivery, err := coordinator.CancelJob(uint(deliveryID), requester)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"delivery": delivery})
}
