package models

import "gorm.io/gorm"

type VehicleType string

const (
	VehicleMotorcycle VehicleType = "Motorcycle"
	VehicleTricycle   VehicleType = "Tricycle"
	VehicleBicycle    VehicleType = "Bicycle"
	VehicleCar        VehicleType = "Car"
	VehicleBus        VehicleType = "Bus"
)

// Rider is the payload record for dispatch-rider accounts.
type Rider struct {
	gorm.Model
	UserID              uint        `json:"user_id" gorm:"uniqueIndex"`
	VehicleType         VehicleType `json:"vehicle_type"`
	VehicleLicencePlate string      `json:"vehicle_licence_plate"`
	VehicleOwnershipURL string      `json:"vehicle_ownership_url"`
	DriverLicenceURL    string      `json:"driver_licence_url"`

	// Only online riders can accept jobs.
	IsOnline    bool    `json:"is_online" gorm:"default:false"`
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"review_count"`
}
