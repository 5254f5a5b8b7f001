package models

import "gorm.io/gorm"

// Resident carries the onboarding documents specific to resident accounts.
type Resident struct {
	gorm.Model
	UserID            uint   `json:"user_id" gorm:"uniqueIndex"`
	ProofOfAddressURL string `json:"proof_of_address_url"`
	MeansOfIDURL      string `json:"means_of_id_url"`
}
