package models

import "gorm.io/gorm"

// ServiceProvider is the payload record for service-provider accounts
// (plumbers, cleaners, electricians and the like).
type ServiceProvider struct {
	gorm.Model
	UserID            uint   `json:"user_id" gorm:"uniqueIndex"`
	TradeLicenceURL   string `json:"trade_licence_url"`
	ResidenceProofURL string `json:"residence_proof_url"`
	MeansOfIDURL      string `json:"means_of_id_url"`
	HoursOfOperation  string `json:"hours_of_operation"`
}
