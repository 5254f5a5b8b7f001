package config

import (
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"

	"estate_hub/internal/models"
)

// SeedDemoData loads the demo fixture set when SEED_DEMO_DATA=true and the
// users table is empty. Fixtures mirror the demo estate near 6.52 N, 3.37 E.
func SeedDemoData() {
	if os.Getenv("SEED_DEMO_DATA") != "true" {
		return
	}

	var count int64
	if err := DB.Model(&models.User{}).Count(&count).Error; err != nil {
		log.Printf("seed: could not check users table: %v", err)
		return
	}
	if count > 0 {
		return
	}

	password, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("seed: could not hash demo password: %v", err)
		return
	}
	hash := string(password)

	users := []models.User{
		{
			Name: "Dr. Amina Yusuf", Email: "admin@estate.com", Password: hash,
			Phone: "08012345678", Address: "Estate Management Office",
			Role: models.RoleAdmin, ApprovalStatus: models.ApprovalApproved,
			Lat: 6.5244, Lng: 3.3792,
		},
		{
			Name: "Chinedu Okoro", Email: "chinedu@email.com", Password: hash,
			Phone: "08023456789", Address: "Block 1, Apt 2A",
			Role: models.RoleResident, ApprovalStatus: models.ApprovalApproved,
			Lat: 6.5250, Lng: 3.3790,
			Resident: &models.Resident{ProofOfAddressURL: "/path/to/rent.pdf", MeansOfIDURL: "/path/to/id.pdf"},
		},
		{
			Name: "Funke Adebayo", Email: "funke@email.com", Password: hash,
			Phone: "08034567890", Address: "Block 5, Apt 4B",
			Role: models.RoleResident, ApprovalStatus: models.ApprovalApproved,
			Lat: 6.5235, Lng: 3.3805,
			Resident: &models.Resident{ProofOfAddressURL: "/path/to/sales.pdf", MeansOfIDURL: "/path/to/id2.pdf"},
		},
		{
			Name: "Musa Aliyu", Email: "musa@rider.com", Password: hash,
			Phone: "08045678901", Address: "Rider Stand, Gate 1",
			Role: models.RoleDispatchRider, ApprovalStatus: models.ApprovalApproved,
			Lat: 6.5240, Lng: 3.3785,
			Rider: &models.Rider{
				VehicleType: models.VehicleMotorcycle, VehicleLicencePlate: "ABC-123DE",
				IsOnline: true, Rating: 4.8, ReviewCount: 125,
			},
		},
		{
			Name: "David Jones", Email: "david@rider.com", Password: hash,
			Phone: "08056789012", Address: "123, Main Street",
			Role: models.RoleDispatchRider, ApprovalStatus: models.ApprovalApproved,
			OperatesOutsideEstate: true, Lat: 6.5280, Lng: 3.3850,
			Rider: &models.Rider{
				VehicleType: models.VehicleTricycle, VehicleLicencePlate: "XYZ-789FG",
				IsOnline: false, Rating: 4.5, ReviewCount: 88,
			},
		},
		{
			Name: "Chioma Nwosu", Email: "mama.chi@store.com", Password: hash,
			Phone: "08067890123", Address: "Shop 3, Estate Plaza",
			Role: models.RoleStore, ApprovalStatus: models.ApprovalApproved,
			Lat: 6.5260, Lng: 3.3800,
			Store: &models.Store{
				BusinessName: "Mama Chi's Groceries", HoursOfOperation: "Mon - Sat: 8 AM - 9 PM",
			},
		},
		{
			Name: "Emeka Oji", Email: "emeka.electro@store.com", Password: hash,
			Phone: "08123456789", Address: "10, Commercial Avenue",
			Role: models.RoleStore, ApprovalStatus: models.ApprovalPending,
			OperatesOutsideEstate: true, Lat: 6.5300, Lng: 3.3880,
			Store: &models.Store{
				BusinessName: "Emeka's Electronics", HoursOfOperation: "Mon - Fri: 9 AM - 6 PM",
			},
		},
		{
			Name: "Femi Adekunle (Plumber)", Email: "fixit@services.com", Password: hash,
			Phone: "08078901234", Address: "456, Market Road",
			Role: models.RoleServiceProvider, ApprovalStatus: models.ApprovalApproved,
			OperatesOutsideEstate: true, Lat: 6.5220, Lng: 3.3770,
			ServiceProvider: &models.ServiceProvider{
				HoursOfOperation: "24/7 Emergency Service", TradeLicenceURL: "/path/to/trade-licence.pdf",
			},
		},
	}
	for i := range users {
		if err := DB.Create(&users[i]).Error; err != nil {
			log.Printf("seed: could not create user %s: %v", users[i].Email, err)
		}
	}

	announcements := []models.Announcement{
		{Title: "Security Update", Content: "Please be informed that the main gate will be closed for maintenance from 10 PM to 5 AM on Friday."},
		{Title: "Community Meeting", Content: "There will be a general residents meeting on Sunday at the community hall at 4 PM. Your attendance is crucial."},
	}
	for i := range announcements {
		if err := DB.Create(&announcements[i]).Error; err != nil {
			log.Printf("seed: could not create announcement: %v", err)
		}
	}

	log.Printf("seed: loaded %d demo users", len(users))
}
