package workflow

import (
	"estate_hub/internal/models"
)

// EntityStore is the persistence boundary of the coordination workflow. The
// guarded update methods must reject a write whose expected current status no
// longer holds, surfacing that as a *ConflictError; the workflow itself takes
// no locks.
type EntityStore interface {
	GetDelivery(id uint) (*models.DeliveryRequest, error)
	GetGatePass(id uint) (*models.GatePass, error)

	CreateDelivery(d *models.DeliveryRequest) error
	CreateGatePass(gp *models.GatePass) error

	// CreateGatedDelivery persists the delivery and the gate pass built from
	// its generated id in a single transaction. Either both records exist
	// afterwards or neither does.
	CreateGatedDelivery(d *models.DeliveryRequest, pass func(deliveryID uint) *models.GatePass) (*models.GatePass, error)

	// UpdateDelivery applies changes only if the delivery's current status
	// equals expect. Column names key the changes map.
	UpdateDelivery(id uint, expect models.DeliveryStatus, changes map[string]interface{}) (*models.DeliveryRequest, error)

	// UpdateGatePass applies changes only if the pass's current status
	// equals expect.
	UpdateGatePass(id uint, expect models.GatePassStatus, changes map[string]interface{}) (*models.GatePass, error)
}
