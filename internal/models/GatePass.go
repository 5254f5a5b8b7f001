package models

import (
	"time"

	"gorm.io/gorm"
)

type GatePassStatus string

const (
	GatePassPending  GatePassStatus = "Pending"
	GatePassApproved GatePassStatus = "Approved"
	GatePassDeclined GatePassStatus = "Declined"
	GatePassUsed     GatePassStatus = "Used"
	GatePassExpired  GatePassStatus = "Expired"
)

// QRPlaceholder is the qr_code value a pass carries until an admin approves it.
const QRPlaceholder = "pending"

// GatePass authorizes a named visitor to enter the estate at a scheduled time.
//
// LinkedDeliveryID, when non-zero, points at the delivery request this pass
// was created to unblock. The link is set at creation and never changes.
type GatePass struct {
	gorm.Model
	ResidentID   uint   `json:"resident_id" gorm:"index"`
	ResidentName string `json:"resident_name"`
	VisitorName  string `json:"visitor_name"`
	VisitorType  Role   `json:"visitor_type"`
	Purpose      string `json:"purpose"`

	VisitDateTime time.Time      `json:"visit_date_time"`
	Status        GatePassStatus `json:"status" gorm:"index"`
	QRCode        string         `json:"qr_code"`

	TargetVisitorID  uint `json:"target_visitor_id"`
	LinkedDeliveryID uint `json:"linked_delivery_id" gorm:"index"`
}
