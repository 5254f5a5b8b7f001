package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	logrus "github.com/sirupsen/logrus"

	"estate_hub/internal/config"
	"estate_hub/internal/geo"
	"estate_hub/internal/models"
)

// ListRiders returns approved riders sorted nearest-first from the caller,
// with their distance in kilometres.
func ListRiders(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		return
	}

	var riders []models.User
	if err := config.DB.
		Where("role = ? AND approval_status = ?", models.RoleDispatchRider, models.ApprovalApproved).
		Preload("Rider").
		Find(&riders).Error; err != nil {
		logrus.WithError(err).Error("Error listing riders.")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing riders: " + err.Error()})
		return
	}

	byID := make(map[uint]models.User, len(riders))
	candidates := make([]geo.Candidate, 0, len(riders))
	for _, rider := range riders {
		byID[rider.ID] = rider
		candidates = append(candidates, geo.Candidate{ID: rider.ID, At: geo.Point{Lat: rider.Lat, Lng: rider.Lng}})
	}

	origin := geo.Point{Lat: caller.Lat, Lng: caller.Lng}
	data := make([]gin.H, 0, len(riders))
	for _, cand := range geo.Rank(origin, candidates) {
		rider := byID[cand.ID]
		entry := prepareUserResponse(rider)
		entry["distance_km"] = geo.Distance(origin, cand.At)
		data = append(data, entry)
	}

	c.JSON(http.StatusOK, gin.H{"data": data})
}

// ListStores returns approved stores.
func ListStores(c *gin.Context) {
	listByRole(c, models.RoleStore, "Store")
}

// ListServiceProviders returns approved service providers.
func ListServiceProviders(c *gin.Context) {
	listByRole(c, models.RoleServiceProvider, "ServiceProvider")
}

func listByRole(c *gin.Context, role models.Role, preload string) {
	var users []models.User
	if err := config.DB.
		Where("role = ? AND approval_status = ?", role, models.ApprovalApproved).
		Preload(preload).
		Find(&users).Error; err != nil {
		logrus.WithError(err).WithField("role", role).Error("Error listing directory.")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing directory: " + err.Error()})
		return
	}

	data := make([]gin.H, 0, len(users))
	for _, user := range users {
		data = append(data, prepareUserResponse(user))
	}
	c.JSON(http.StatusOK, gin.H{"data": data})
}
