package models

import "gorm.io/gorm"

type Role string

const (
	RoleAdmin           Role = "Admin"
	RoleResident        Role = "Resident"
	RoleDispatchRider   Role = "Dispatch Rider"
	RoleStore           Role = "Store"
	RoleServiceProvider Role = "Service Provider"
)

type ApprovalStatus string

const (
	ApprovalPending   ApprovalStatus = "Pending"
	ApprovalApproved  ApprovalStatus = "Approved"
	ApprovalSuspended ApprovalStatus = "Suspended"
)

// User holds the fields shared by every account. Role-specific fields live in
// the payload tables (Resident, Rider, Store, ServiceProvider) keyed by UserID.
type User struct {
	gorm.Model
	Name     string `json:"name"`
	Email    string `json:"email" gorm:"unique"`
	Password string `json:"-"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	PhotoURL string `json:"photo_url"`
	Role     Role   `json:"role"`

	// Only Approved accounts may log in.
	ApprovalStatus ApprovalStatus `json:"approval_status" gorm:"default:Pending"`

	// True when the account's base of operation is outside the estate
	// perimeter. Deliveries sourced from such accounts go through gate-pass
	// approval before dispatch.
	OperatesOutsideEstate bool `json:"operates_outside_estate"`

	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`

	// Actor-specific relations
	Resident        *Resident        `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"resident,omitempty"`
	Rider           *Rider           `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"rider,omitempty"`
	Store           *Store           `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"store,omitempty"`
	ServiceProvider *ServiceProvider `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"service_provider,omitempty"`
}

// ValidRole reports whether s names one of the five account roles.
func ValidRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleResident, RoleDispatchRider, RoleStore, RoleServiceProvider:
		return Role(s), true
	}
	return "", false
}
