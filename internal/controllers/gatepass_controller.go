package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	logrus "github.com/sirupsen/logrus"

	"estate_hub/internal/config"
	"estate_hub/internal/models"
	"estate_hub/internal/workflow"
)

type createGatePassInput struct {
	VisitorName     string    `json:"visitor_name" binding:"required"`
	VisitorType     string    `json:"visitor_type"`
	Purpose         string    `json:"purpose" binding:"required"`
	VisitDateTime   time.Time `json:"visit_date_time" binding:"required"`
	TargetVisitorID uint      `json:"target_visitor_id"`
}

// CreateGatePass requests a new visitor pass for the calling resident.
func CreateGatePass(c *gin.Context) {
	resident, ok := currentUser(c)
	if !ok {
		return
	}

	var input createGatePassInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	visitorType := models.RoleResident
	if input.VisitorType != "" {
		parsed, ok := models.ValidRole(input.VisitorType)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid visitor_type"})
			return
		}
		visitorType = parsed
	}

	pass, err := coordinator.CreateGatePass(resident, workflow.GatePassDetails{
		VisitorName:     input.VisitorName,
		VisitorType:     visitorType,
		Purpose:         input.Purpose,
		VisitDateTime:   input.VisitDateTime,
		TargetVisitorID: input.TargetVisitorID,
	})
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"gate_pass": pass})
}

// ListMyGatePasses returns the caller's passes, newest first. Linked
// deliveries are included so the client can show the job a pass unblocks.
func ListMyGatePasses(c *gin.Context) {
	resident, ok := currentUser(c)
	if !ok {
		return
	}

	var passes []models.GatePass
	if err := config.DB.
		Where("resident_id = ?", resident.ID).
		Order("created_at desc").
		Find(&passes).Error; err != nil {
		logrus.WithError(err).Error("Error listing gate passes.")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing gate passes: " + err.Error()})
		return
	}

	data := make([]gin.H, 0, len(passes))
	for _, pass := range passes {
		entry := gin.H{"gate_pass": pass}
		if pass.LinkedDeliveryID != 0 {
			var delivery models.DeliveryRequest
			if err := config.DB.First(&delivery, pass.LinkedDeliveryID).Error; err == nil {
				entry["linked_delivery"] = delivery
			}
		}
		data = append(data, entry)
	}

	c.JSON(http.StatusOK, gin.H{"data": data})
}

// ListPendingGatePasses returns every pass awaiting an admin decision.
func ListPendingGatePasses(c *gin.Context) {
	var passes []models.GatePass
	if err := config.DB.
		Where("status = ?", models.GatePassPending).
		Order("visit_date_time asc").
		Find(&passes).Error; err != nil {
		logrus.WithError(err).Error("Error listing pending gate passes.")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing gate passes: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": passes})
}

// ResolveGatePass approves or declines a pending pass. Approving a pass
// linked to a waiting delivery releases that delivery for dispatch;
// declining cancels it.
func ResolveGatePass(c *gin.Context) {
	passID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid gate pass ID format."})
		return
	}

	var input struct {
		Decision models.GatePassStatus `json:"decision" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	pass, err := coordinator.ResolveGatePass(uint(passID), input.Decision)
	if err != nil {
		// The pass itself may have resolved even when settling the linked
		// delivery failed; report the partial state honestly.
		if pass != nil {
			logrus.WithError(err).WithField("gate_pass_id", pass.ID).Error("Gate pass resolved but linked delivery was not settled.")
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":     "gate pass resolved but its linked delivery could not be updated",
				"gate_pass": pass,
			})
			return
		}
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"gate_pass": pass})
}
