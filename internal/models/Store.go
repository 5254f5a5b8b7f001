package models

import "gorm.io/gorm"

// Store is the payload record for store accounts.
type Store struct {
	gorm.Model
	UserID               uint   `json:"user_id" gorm:"uniqueIndex"`
	BusinessName         string `json:"business_name"`
	HoursOfOperation     string `json:"hours_of_operation"`
	StoreOwnershipURL    string `json:"store_ownership_url"`
	IncorporationCertURL string `json:"incorporation_cert_url"`
	MeansOfIDURL         string `json:"means_of_id_url"` // owner's ID
}
