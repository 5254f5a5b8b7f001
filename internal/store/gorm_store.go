package store

import (
	"errors"

	"gorm.io/gorm"

	"estate_hub/internal/models"
	"estate_hub/internal/workflow"
)

// GormStore implements workflow.EntityStore on a Postgres database. Guarded
// updates use a single conditional UPDATE (WHERE id AND status) so concurrent
// writers lose the race at the database rather than overwriting each other.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) GetDelivery(id uint) (*models.DeliveryRequest, error) {
	var delivery models.DeliveryRequest
	if err := s.db.First(&delivery, id).Error; err != nil {
		return nil, wrapGet("get delivery request", err)
	}
	return &delivery, nil
}

func (s *GormStore) GetGatePass(id uint) (*models.GatePass, error) {
	var pass models.GatePass
	if err := s.db.First(&pass, id).Error; err != nil {
		return nil, wrapGet("get gate pass", err)
	}
	return &pass, nil
}

func (s *GormStore) CreateDelivery(d *models.DeliveryRequest) error {
	if err := s.db.Create(d).Error; err != nil {
		return &workflow.DependencyError{Op: "create delivery request", Err: err}
	}
	return nil
}

func (s *GormStore) CreateGatePass(gp *models.GatePass) error {
	if err := s.db.Create(gp).Error; err != nil {
		return &workflow.DependencyError{Op: "create gate pass", Err: err}
	}
	return nil
}

func (s *GormStore) CreateGatedDelivery(d *models.DeliveryRequest, pass func(deliveryID uint) *models.GatePass) (*models.GatePass, error) {
	var created *models.GatePass
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(d).Error; err != nil {
			return err
		}
		created = pass(d.ID)
		return tx.Create(created).Error
	})
	if err != nil {
		return nil, &workflow.DependencyError{Op: "create gated delivery", Err: err}
	}
	return created, nil
}

func (s *GormStore) UpdateDelivery(id uint, expect models.DeliveryStatus, changes map[string]interface{}) (*models.DeliveryRequest, error) {
	res := s.db.Model(&models.DeliveryRequest{}).
		Where("id = ? AND status = ?", id, expect).
		Updates(changes)
	if res.Error != nil {
		return nil, &workflow.DependencyError{Op: "update delivery request", Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return nil, s.missOrConflict(&models.DeliveryRequest{}, workflow.EntityDelivery, id)
	}
	return s.GetDelivery(id)
}

func (s *GormStore) UpdateGatePass(id uint, expect models.GatePassStatus, changes map[string]interface{}) (*models.GatePass, error) {
	res := s.db.Model(&models.GatePass{}).
		Where("id = ? AND status = ?", id, expect).
		Updates(changes)
	if res.Error != nil {
		return nil, &workflow.DependencyError{Op: "update gate pass", Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return nil, s.missOrConflict(&models.GatePass{}, workflow.EntityGatePass, id)
	}
	return s.GetGatePass(id)
}

// missOrConflict tells a vanished record apart from a lost status race.
func (s *GormStore) missOrConflict(model interface{}, entity string, id uint) error {
	err := s.db.First(model, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return workflow.ErrNotFound
	}
	if err != nil {
		return &workflow.DependencyError{Op: "refetch " + entity, Err: err}
	}
	return &workflow.ConflictError{Entity: entity, ID: id}
}

func wrapGet(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return workflow.ErrNotFound
	}
	return &workflow.DependencyError{Op: op, Err: err}
}
