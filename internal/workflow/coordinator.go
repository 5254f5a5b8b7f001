package workflow

import (
	"errors"
	"fmt"
	"time"

	logrus "github.com/sirupsen/logrus"

	"estate_hub/internal/geo"
	"estate_hub/internal/models"
)

// Coordinator keeps a delivery request and its linked gate pass consistent,
// and owns the job lifecycle transitions. All public operations read current
// state, validate preconditions, then write through guarded store updates.
type Coordinator struct {
	store    EntityStore
	tokens   TokenSource
	notifier Notifier
}

func New(store EntityStore, tokens TokenSource, notifier Notifier) *Coordinator {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Coordinator{store: store, tokens: tokens, notifier: notifier}
}

// DeliveryDetails carries the caller-supplied fields of a new job.
type DeliveryDetails struct {
	PickupAddress  string
	DropoffAddress string
	Description    string
	EstimatedCost  float64
	PickupLat      float64
	PickupLng      float64
}

// GatePassDetails carries the caller-supplied fields of an ordinary visitor
// pass (one with no linked delivery).
type GatePassDetails struct {
	VisitorName     string
	VisitorType     models.Role
	Purpose         string
	VisitDateTime   time.Time
	TargetVisitorID uint
}

// RequiresGate reports whether a delivery against this visitor must pass
// gate-pass approval before dispatch.
func RequiresGate(visitor *models.User) bool {
	return visitor != nil && visitor.OperatesOutsideEstate
}

// CreateDeliveryRequest creates a new job for requester. When the visitor
// (the intended rider, or the external store/provider whose premises is the
// pickup point) operates outside the estate, the job starts at Awaiting Gate
// Pass and a Pending gate pass linked to it is created in the same
// transaction. Otherwise the job starts at Pending, pre-assigned to the
// visitor if the visitor is a rider.
func (c *Coordinator) CreateDeliveryRequest(requester *models.User, details DeliveryDetails, visitor *models.User) (*models.DeliveryRequest, error) {
	if requester == nil {
		return nil, &ValidationError{Field: "requester", Reason: "required"}
	}
	if err := validateDetails(details); err != nil {
		return nil, err
	}

	delivery := &models.DeliveryRequest{
		RequesterID:   requester.ID,
		RequesterName: requester.Name,
		PickupAddress: details.PickupAddress,
		DropoffAddr:   details.DropoffAddress,
		Description:   details.Description,
		EstimatedCost: details.EstimatedCost,
		PickupLat:     details.PickupLat,
		PickupLng:     details.PickupLng,
	}

	if RequiresGate(visitor) {
		delivery.Status = models.DeliveryAwaitingGatePass
		pass, err := c.store.CreateGatedDelivery(delivery, func(deliveryID uint) *models.GatePass {
			return &models.GatePass{
				ResidentID:       requester.ID,
				ResidentName:     requester.Name,
				VisitorName:      visitorDisplayName(visitor),
				VisitorType:      visitor.Role,
				Purpose:          fmt.Sprintf("Delivery pickup for job #%d", deliveryID),
				VisitDateTime:    time.Now(),
				Status:           models.GatePassPending,
				QRCode:           models.QRPlaceholder,
				TargetVisitorID:  visitor.ID,
				LinkedDeliveryID: deliveryID,
			}
		})
		if err != nil {
			return nil, err
		}
		c.publish(EntityDelivery, delivery.ID, string(delivery.Status))
		c.publish(EntityGatePass, pass.ID, string(pass.Status))
		return delivery, nil
	}

	delivery.Status = models.DeliveryPending
	if visitor != nil && visitor.Role == models.RoleDispatchRider {
		delivery.RiderID = visitor.ID
		delivery.RiderName = visitor.Name
	}
	if err := c.store.CreateDelivery(delivery); err != nil {
		return nil, err
	}
	c.publish(EntityDelivery, delivery.ID, string(delivery.Status))
	return delivery, nil
}

// CreateGatePass creates an ordinary visitor pass for resident. The pass
// starts Pending with the placeholder QR code.
func (c *Coordinator) CreateGatePass(resident *models.User, details GatePassDetails) (*models.GatePass, error) {
	if resident == nil {
		return nil, &ValidationError{Field: "resident", Reason: "required"}
	}
	if details.VisitorName == "" {
		return nil, &ValidationError{Field: "visitor_name", Reason: "required"}
	}
	if details.Purpose == "" {
		return nil, &ValidationError{Field: "purpose", Reason: "required"}
	}
	if details.VisitDateTime.IsZero() {
		return nil, &ValidationError{Field: "visit_date_time", Reason: "required"}
	}

	pass := &models.GatePass{
		ResidentID:      resident.ID,
		ResidentName:    resident.Name,
		VisitorName:     details.VisitorName,
		VisitorType:     details.VisitorType,
		Purpose:         details.Purpose,
		VisitDateTime:   details.VisitDateTime,
		Status:          models.GatePassPending,
		QRCode:          models.QRPlaceholder,
		TargetVisitorID: details.TargetVisitorID,
	}
	if err := c.store.CreateGatePass(pass); err != nil {
		return nil, err
	}
	c.publish(EntityGatePass, pass.ID, string(pass.Status))
	return pass, nil
}

// ResolveGatePass moves a Pending pass to Approved or Declined and, when the
// pass is linked to a delivery still waiting on it, releases or cancels that
// delivery. An approved pass gets a freshly generated QR token.
//
// If the linked delivery already left Awaiting Gate Pass by the time the
// pass resolves, the pass status change stands and the delivery is left
// untouched.
func (c *Coordinator) ResolveGatePass(passID uint, decision models.GatePassStatus) (*models.GatePass, error) {
	if decision != models.GatePassApproved && decision != models.GatePassDeclined {
		return nil, &ValidationError{Field: "decision", Reason: "must be Approved or Declined"}
	}

	pass, err := c.store.GetGatePass(passID)
	if err != nil {
		return nil, err
	}
	if pass.Status != models.GatePassPending {
		return nil, &PreconditionError{
			Entity: EntityGatePass, ID: passID,
			Want: string(models.GatePassPending), Got: string(pass.Status),
		}
	}

	changes := map[string]interface{}{"status": decision}
	if decision == models.GatePassApproved {
		changes["qr_code"] = c.tokens()
	}
	updated, err := c.store.UpdateGatePass(passID, models.GatePassPending, changes)
	if err != nil {
		return nil, err
	}
	c.publish(EntityGatePass, updated.ID, string(updated.Status))

	if updated.LinkedDeliveryID != 0 {
		if err := c.settleLinkedDelivery(updated.LinkedDeliveryID, decision); err != nil {
			// The pass update already committed; there is no rollback.
			return updated, &DependencyError{Op: "settle linked delivery", Err: err}
		}
	}
	return updated, nil
}

// settleLinkedDelivery applies the gate-pass decision to the delivery the
// pass was created to unblock, if it is still waiting.
func (c *Coordinator) settleLinkedDelivery(deliveryID uint, decision models.GatePassStatus) error {
	delivery, err := c.store.GetDelivery(deliveryID)
	if err != nil {
		return err
	}
	if delivery.Status != models.DeliveryAwaitingGatePass {
		logrus.WithFields(logrus.Fields{
			"delivery_id": deliveryID,
			"status":      delivery.Status,
		}).Warn("Linked delivery left Awaiting Gate Pass before resolution; leaving it untouched.")
		return nil
	}

	next := models.DeliveryPending
	if decision == models.GatePassDeclined {
		next = models.DeliveryCancelled
	}
	updated, err := c.store.UpdateDelivery(deliveryID, models.DeliveryAwaitingGatePass, map[string]interface{}{"status": next})
	if err != nil {
		var conflict *ConflictError
		if errors.As(err, &conflict) {
			// Raced out of Awaiting Gate Pass between read and write.
			logrus.WithField("delivery_id", deliveryID).Warn("Linked delivery changed concurrently; leaving it untouched.")
			return nil
		}
		return err
	}
	c.publish(EntityDelivery, updated.ID, string(updated.Status))
	return nil
}

// AcceptJob assigns a Pending job to an online rider. Concurrent accepts on
// the same job produce exactly one winner; losers get a *ConflictError.
func (c *Coordinator) AcceptJob(deliveryID uint, rider *models.User) (*models.DeliveryRequest, error) {
	if rider == nil || rider.Role != models.RoleDispatchRider {
		return nil, &ValidationError{Field: "rider", Reason: "caller is not a dispatch rider"}
	}
	if rider.Rider == nil || !rider.Rider.IsOnline {
		return nil, &PreconditionError{
			Entity: "rider", ID: rider.ID,
			Want: "online", Got: "offline",
		}
	}

	delivery, err := c.store.GetDelivery(deliveryID)
	if err != nil {
		return nil, err
	}
	if delivery.Status != models.DeliveryPending {
		return nil, &PreconditionError{
			Entity: EntityDelivery, ID: deliveryID,
			Want: string(models.DeliveryPending), Got: string(delivery.Status),
		}
	}

	updated, err := c.store.UpdateDelivery(deliveryID, models.DeliveryPending, map[string]interface{}{
		"status":     models.DeliveryAccepted,
		"rider_id":   rider.ID,
		"rider_name": rider.Name,
	})
	if err != nil {
		return nil, err
	}
	c.publish(EntityDelivery, updated.ID, string(updated.Status))
	return updated, nil
}

// AdvanceJob moves an accepted job forward. Only the assigned rider may
// advance it, and only Accepted -> In Transit and In Transit -> Completed
// are allowed.
func (c *Coordinator) AdvanceJob(deliveryID uint, rider *models.User, next models.DeliveryStatus) (*models.DeliveryRequest, error) {
	if rider == nil {
		return nil, &ValidationError{Field: "rider", Reason: "required"}
	}

	var expect models.DeliveryStatus
	switch next {
	case models.DeliveryInTransit:
		expect = models.DeliveryAccepted
	case models.DeliveryCompleted:
		expect = models.DeliveryInTransit
	default:
		return nil, &ValidationError{Field: "status", Reason: fmt.Sprintf("cannot advance to %q", next)}
	}

	delivery, err := c.store.GetDelivery(deliveryID)
	if err != nil {
		return nil, err
	}
	if delivery.RiderID != rider.ID {
		return nil, &PreconditionError{
			Entity: EntityDelivery, ID: deliveryID,
			Want: fmt.Sprintf("assigned rider %d", delivery.RiderID),
			Got:  fmt.Sprintf("rider %d", rider.ID),
		}
	}
	if delivery.Status != expect {
		return nil, &PreconditionError{
			Entity: EntityDelivery, ID: deliveryID,
			Want: string(expect), Got: string(delivery.Status),
		}
	}

	updated, err := c.store.UpdateDelivery(deliveryID, expect, map[string]interface{}{"status": next})
	if err != nil {
		return nil, err
	}
	c.publish(EntityDelivery, updated.ID, string(updated.Status))
	return updated, nil
}

// CancelJob cancels a Pending job. Only the requester may cancel.
func (c *Coordinator) CancelJob(deliveryID uint, requester *models.User) (*models.DeliveryRequest, error) {
	if requester == nil {
		return nil, &ValidationError{Field: "requester", Reason: "required"}
	}

	delivery, err := c.store.GetDelivery(deliveryID)
	if err != nil {
		return nil, err
	}
	if delivery.RequesterID != requester.ID {
		return nil, &PreconditionError{
			Entity: EntityDelivery, ID: deliveryID,
			Want: fmt.Sprintf("requester %d", delivery.RequesterID),
			Got:  fmt.Sprintf("caller %d", requester.ID),
		}
	}
	if delivery.Status != models.DeliveryPending {
		return nil, &PreconditionError{
			Entity: EntityDelivery, ID: deliveryID,
			Want: string(models.DeliveryPending), Got: string(delivery.Status),
		}
	}

	updated, err := c.store.UpdateDelivery(deliveryID, models.DeliveryPending, map[string]interface{}{"status": models.DeliveryCancelled})
	if err != nil {
		return nil, err
	}
	c.publish(EntityDelivery, updated.ID, string(updated.Status))
	return updated, nil
}

func (c *Coordinator) publish(entity string, id uint, status string) {
	c.notifier.Publish(Event{Entity: entity, ID: id, NewStatus: status})
}

func validateDetails(details DeliveryDetails) error {
	if details.PickupAddress == "" {
		return &ValidationError{Field: "pickup_address", Reason: "required"}
	}
	if details.DropoffAddress == "" {
		return &ValidationError{Field: "dropoff_address", Reason: "required"}
	}
	if details.Description == "" {
		return &ValidationError{Field: "description", Reason: "required"}
	}
	if p := (geo.Point{Lat: details.PickupLat, Lng: details.PickupLng}); !p.Valid() {
		return &ValidationError{Field: "pickup coordinates", Reason: "out of range"}
	}
	return nil
}

// visitorDisplayName prefers a store's trading name for the pass record.
func visitorDisplayName(visitor *models.User) string {
	if visitor.Store != nil && visitor.Store.BusinessName != "" {
		return visitor.Store.BusinessName
	}
	return visitor.Name
}
