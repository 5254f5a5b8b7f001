package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	logrus "github.com/sirupsen/logrus"

	"estate_hub/internal/config"
	"estate_hub/internal/geo"
	"estate_hub/internal/models"
	"estate_hub/internal/workflow"
)

// ListAvailableJobs returns unassigned Pending jobs sorted nearest-first
// from the rider's position.
func ListAvailableJobs(c *gin.Context) {
	rider, ok := currentUser(c)
	if !ok {
		return
	}

	var jobs []models.DeliveryRequest
	if err := config.DB.
		Where("status = ? AND rider_id = 0", models.DeliveryPending).
		Find(&jobs).Error; err != nil {
		logrus.WithError(err).Error("Error listing open jobs.")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing jobs: " + err.Error()})
		return
	}

	byID := make(map[uint]models.DeliveryRequest, len(jobs))
	candidates := make([]geo.Candidate, 0, len(jobs))
	for _, job := range jobs {
		byID[job.ID] = job
		candidates = append(candidates, geo.Candidate{ID: job.ID, At: geo.Point{Lat: job.PickupLat, Lng: job.PickupLng}})
	}

	origin := geo.Point{Lat: rider.Lat, Lng: rider.Lng}
	ranked := make([]gin.H, 0, len(jobs))
	for _, cand := range geo.Rank(origin, candidates) {
		job := byID[cand.ID]
		ranked = append(ranked, gin.H{
			"job":         job,
			"distance_km": geo.Distance(origin, cand.At),
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": ranked})
}

// ListMyJobs returns the jobs currently assigned to the rider.
func ListMyJobs(c *gin.Context) {
	rider, ok := currentUser(c)
	if !ok {
		return
	}

	var jobs []models.DeliveryRequest
	if err := config.DB.
		Where("rider_id = ?", rider.ID).
		Order("created_at desc").
		Find(&jobs).Error; err != nil {
		logrus.WithError(err).Error("Error listing rider jobs.")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing jobs: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": jobs})
}

// AcceptJob assigns a Pending job to the calling rider. If another rider got
// there first the caller is told so.
func AcceptJob(c *gin.Context) {
	rider, ok := currentUser(c)
	if !ok {
		return
	}

	deliveryID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid delivery ID format."})
		return
	}

	delivery, err := coordinator.AcceptJob(uint(deliveryID), rider)
	if err != nil {
		var precondition *workflow.PreconditionError
		var conflict *workflow.ConflictError
		if (errors.As(err, &precondition) && precondition.Entity == workflow.EntityDelivery) || errors.As(err, &conflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "this job was already accepted by another rider"})
			return
		}
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"delivery": delivery})
}

// UpdateJobStatus starts or completes one of the rider's accepted jobs.
func UpdateJobStatus(c *gin.Context) {
	rider, ok := currentUser(c)
	if !ok {
		return
	}

	deliveryID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid delivery ID format."})
		return
	}

	var input struct {
		Status models.DeliveryStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	delivery, err := coordinator.AdvanceJob(uint(deliveryID), rider, input.Status)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"delivery": delivery})
}

// SetRiderAvailability toggles the rider's is_online flag.
func SetRiderAvailability(c *gin.Context) {
	rider, ok := currentUser(c)
	if !ok {
		return
	}
	if rider.Rider == nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Rider profile not found for the authenticated user."})
		return
	}

	var input struct {
		IsOnline *bool `json:"is_online" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	rider.Rider.IsOnline = *input.IsOnline
	if err := config.DB.Save(rider.Rider).Error; err != nil {
		logrus.WithError(err).Error("Failed to update rider availability.")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update availability."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Availability updated.", "rider": rider.Rider})
}
