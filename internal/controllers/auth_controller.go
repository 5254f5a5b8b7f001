package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"estate_hub/internal/config"
	"estate_hub/internal/geo"
	"estate_hub/internal/middleware"
	"estate_hub/internal/models"
)

type signupInput struct {
	Name     string  `json:"name" binding:"required"`
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required"`
	Phone    string  `json:"phone"`
	Address  string  `json:"address"`
	Role     string  `json:"role"`
	PhotoURL string  `json:"photo_url"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`

	// When omitted for riders/stores/providers, the estate fence decides.
	OperatesOutsideEstate *bool `json:"operates_outside_estate"`

	// Resident documents
	ProofOfAddressURL string `json:"proof_of_address_url"`
	MeansOfIDURL      string `json:"means_of_id_url"`

	// Rider details
	VehicleType         string `json:"vehicle_type"`
	VehicleLicencePlate string `json:"vehicle_licence_plate"`
	VehicleOwnershipURL string `json:"vehicle_ownership_url"`
	DriverLicenceURL    string `json:"driver_licence_url"`

	// Store details
	BusinessName         string `json:"business_name"`
	HoursOfOperation     string `json:"hours_of_operation"`
	StoreOwnershipURL    string `json:"store_ownership_url"`
	IncorporationCertURL string `json:"incorporation_cert_url"`

	// Service-provider documents
	TradeLicenceURL   string `json:"trade_licence_url"`
	ResidenceProofURL string `json:"residence_proof_url"`
}

// SignupUser registers a new account together with its role payload. The
// account starts Pending and cannot log in until an admin approves it.
func SignupUser(c *gin.Context) {
	var input signupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role := models.RoleResident
	if input.Role != "" {
		parsed, ok := models.ValidRole(input.Role)
		if !ok || parsed == models.RoleAdmin {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
			return
		}
		role = parsed
	}

	if (input.Lat != 0 || input.Lng != 0) && !(geo.Point{Lat: input.Lat, Lng: input.Lng}).Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "coordinates out of range"})
		return
	}

	hashedPassword, err := hashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not hash password"})
		return
	}

	user := models.User{
		Name:                  input.Name,
		Email:                 input.Email,
		Password:              hashedPassword,
		Phone:                 input.Phone,
		Address:               input.Address,
		PhotoURL:              input.PhotoURL,
		Role:                  role,
		ApprovalStatus:        models.ApprovalPending,
		OperatesOutsideEstate: classifyOperatingBase(role, input),
		Lat:                   input.Lat,
		Lng:                   input.Lng,
	}
	attachActorPayload(&user, input)

	if err := config.DB.Create(&user).Error; err != nil {
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
			c.JSON(http.StatusConflict, gin.H{"error": "email already in use"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create user: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Account created. You will be able to log in once an administrator approves it.",
		"user":    prepareUserResponse(user),
	})
}

// LoginUser authenticates by email/password. Only Approved accounts get a token.
func LoginUser(c *gin.Context) {
	var body struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	query := config.DB.Where("email = ?", body.Email).
		Preload("Resident").
		Preload("Rider").
		Preload("Store").
		Preload("ServiceProvider")

	if err := query.First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found or invalid credentials"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error: " + err.Error()})
		}
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(body.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "incorrect password"})
		return
	}

	if user.ApprovalStatus != models.ApprovalApproved {
		c.JSON(http.StatusForbidden, gin.H{"error": "account is pending approval or has been suspended"})
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  prepareUserResponse(user),
	})
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// classifyOperatingBase decides the operates_outside_estate flag. An explicit
// flag wins; otherwise accounts with coordinates are classified against the
// estate fence. Residents and admins are always inside.
func classifyOperatingBase(role models.Role, input signupInput) bool {
	if role == models.RoleResident || role == models.RoleAdmin {
		return false
	}
	if input.OperatesOutsideEstate != nil {
		return *input.OperatesOutsideEstate
	}
	if config.EstateFence != nil && (input.Lat != 0 || input.Lng != 0) {
		return !config.EstateFence.Contains(geo.Point{Lat: input.Lat, Lng: input.Lng})
	}
	return false
}

func attachActorPayload(user *models.User, input signupInput) {
	switch user.Role {
	case models.RoleResident:
		user.Resident = &models.Resident{
			ProofOfAddressURL: input.ProofOfAddressURL,
			MeansOfIDURL:      input.MeansOfIDURL,
		}
	case models.RoleDispatchRider:
		user.Rider = &models.Rider{
			VehicleType:         models.VehicleType(input.VehicleType),
			VehicleLicencePlate: input.VehicleLicencePlate,
			VehicleOwnershipURL: input.VehicleOwnershipURL,
			DriverLicenceURL:    input.DriverLicenceURL,
		}
	case models.RoleStore:
		user.Store = &models.Store{
			BusinessName:         input.BusinessName,
			HoursOfOperation:     input.HoursOfOperation,
			StoreOwnershipURL:    input.StoreOwnershipURL,
			IncorporationCertURL: input.IncorporationCertURL,
			MeansOfIDURL:         input.MeansOfIDURL,
		}
	case models.RoleServiceProvider:
		user.ServiceProvider = &models.ServiceProvider{
			TradeLicenceURL:   input.TradeLicenceURL,
			ResidenceProofURL: input.ResidenceProofURL,
			MeansOfIDURL:      input.MeansOfIDURL,
			HoursOfOperation:  input.HoursOfOperation,
		}
	}
}

// prepareUserResponse shapes the user for API output, nesting the payload
// that matches the account's role.
func prepareUserResponse(user models.User) gin.H {
	response := gin.H{
		"ID":                      user.ID,
		"CreatedAt":               user.CreatedAt,
		"name":                    user.Name,
		"email":                   user.Email,
		"phone":                   user.Phone,
		"address":                 user.Address,
		"photo_url":               user.PhotoURL,
		"role":                    user.Role,
		"approval_status":         user.ApprovalStatus,
		"operates_outside_estate": user.OperatesOutsideEstate,
		"lat":                     user.Lat,
		"lng":                     user.Lng,
	}

	switch {
	case user.Resident != nil:
		response["resident"] = user.Resident
	case user.Rider != nil:
		response["rider"] = user.Rider
	case user.Store != nil:
		response["store"] = user.Store
	case user.ServiceProvider != nil:
		response["service_provider"] = user.ServiceProvider
	}
	return response
}
