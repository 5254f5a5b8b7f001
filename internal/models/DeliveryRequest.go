package models

import "gorm.io/gorm"

type DeliveryStatus string

const (
	DeliveryPending          DeliveryStatus = "Pending"
	DeliveryAccepted         DeliveryStatus = "Accepted"
	DeliveryInTransit        DeliveryStatus = "In Transit"
	DeliveryCompleted        DeliveryStatus = "Completed"
	DeliveryCancelled        DeliveryStatus = "Cancelled"
	DeliveryAwaitingGatePass DeliveryStatus = "Awaiting Gate Pass"
)

// DeliveryRequest is one delivery or errand job.
//
// Lifecycle: Pending -> Accepted -> In Transit -> Completed, with Pending ->
// Cancelled by the requester. Jobs targeting a party based outside the estate
// start at Awaiting Gate Pass and only reach Pending once the linked gate
// pass is approved. Terminal records are kept as history, never deleted.
type DeliveryRequest struct {
	gorm.Model
	RequesterID   uint           `json:"requester_id" gorm:"index"`
	RequesterName string         `json:"requester_name"`
	PickupAddress string         `json:"pickup_address"`
	DropoffAddr   string         `json:"dropoff_address" gorm:"column:dropoff_address"`
	Description   string         `json:"description"`
	EstimatedCost float64        `json:"estimated_cost"`
	Status        DeliveryStatus `json:"status" gorm:"index"`
	RiderID       uint           `json:"rider_id" gorm:"index"`
	RiderName     string         `json:"rider_name"`
	PickupLat     float64        `json:"pickup_lat"`
	PickupLng     float64        `json:"pickup_lng"`
}
