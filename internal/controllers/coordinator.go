package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	logrus "github.com/sirupsen/logrus"

	"estate_hub/internal/config"
	"estate_hub/internal/models"
	"estate_hub/internal/store"
	"estate_hub/internal/workflow"
)

var coordinator *workflow.Coordinator

// InitCoordinator wires the coordination workflow to the database store, the
// UUID token source, and the websocket change hub. Call after config.InitDB.
func InitCoordinator() {
	coordinator = workflow.New(store.NewGormStore(config.DB), workflow.UUIDTokens(), changeHub)
}

// currentUser loads the authenticated caller with its role payload preloaded.
func currentUser(c *gin.Context) (*models.User, bool) {
	userID := c.MustGet("user_id").(uint)
	var user models.User
	err := config.DB.
		Preload("Resident").
		Preload("Rider").
		Preload("Store").
		Preload("ServiceProvider").
		First(&user, userID).Error
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("Could not load authenticated user.")
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authenticated user not found."})
		return nil, false
	}
	return &user, true
}

// respondWorkflowError maps the workflow error taxonomy onto HTTP statuses.
func respondWorkflowError(c *gin.Context, err error) {
	var validation *workflow.ValidationError
	var precondition *workflow.PreconditionError
	var conflict *workflow.ConflictError
	var dependency *workflow.DependencyError

	switch {
	case errors.Is(err, workflow.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found."})
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Error()})
	case errors.As(err, &precondition):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": precondition.Error()})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{"error": conflict.Error()})
	case errors.As(err, &dependency):
		logrus.WithError(dependency).Error("Workflow dependency failure.")
		c.JSON(http.StatusInternalServerError, gin.H{"error": dependency.Error()})
	default:
		logrus.WithError(err).Error("Unexpected workflow failure.")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
