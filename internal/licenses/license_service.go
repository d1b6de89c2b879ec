package licenses

import (
	"stockroom/internal/repository"
	custom_error "stockroom/pkg/errors"
	"stockroom/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type LicenseRepository interface {
	LicenseReader
	GetLicense(id int) (*models.License, error)
	InsertLicense(tx *goqu.TxDatabase, req models.LicenseRequest, actingUserID *int) (*models.License, error)
	UpdateLicense(tx *goqu.TxDatabase, id int, req models.LicenseRequest, reassignable bool, actingUserID *int) error
	SoftDeleteLicense(tx *goqu.TxDatabase, id int, actingUserID *int) error
}

type SeatReconciler interface {
	ReconcileSeats(tx *goqu.TxDatabase, licenseID int, previousSeats, newSeats int, actingUserID *int) error
}

type LicenseService struct {
	licensesRepo LicenseRepository
	seats        SeatReconciler
	tx           repository.Transactor
	auditLog     AuditLogger
}

func NewLicenseService(licensesRepo LicenseRepository, seats SeatReconciler, tx repository.Transactor, auditLog AuditLogger) *LicenseService {
	return &LicenseService{
		licensesRepo: licensesRepo,
		seats:        seats,
		tx:           tx,
		auditLog:     auditLog,
	}
}

// CreateLicense inserts the license and seeds its seat pool in one
// transaction, so the pool always matches the declared seat count.
func (s *LicenseService) CreateLicense(req models.LicenseRequest, actingUserID *int) (*models.License, error) {
	if req.Seats < 0 {
		return nil, custom_error.NewValidationError("seat count must not be negative, got %d", req.Seats)
	}

	var created *models.License
	err := s.tx.InTransaction(func(tx *goqu.TxDatabase) error {
		license, err := s.licensesRepo.InsertLicense(tx, req, actingUserID)
		if err != nil {
			return err
		}

		if err := s.seats.ReconcileSeats(tx, license.ID, 0, req.Seats, actingUserID); err != nil {
			return err
		}

		created = license
		return nil
	})
	if err != nil {
		return nil, err
	}

	go s.auditLog.Log(
		"create",
		actingUserID,
		map[string]interface{}{
			"name":  created.Name,
			"seats": created.Seats,
			"msg":   "License created",
		},
		created,
	)

	return created, nil
}

// UpdateLicense saves the license fields and reconciles the seat pool against
// the new seat count within the same transaction. A reduction that would
// touch assigned seats fails and rolls the whole save back.
func (s *LicenseService) UpdateLicense(id int, req models.LicenseRequest, actingUserID *int) (*models.License, error) {
	if req.Seats < 0 {
		return nil, custom_error.NewValidationError("seat count must not be negative, got %d", req.Seats)
	}

	var updated *models.License
	err := s.tx.InTransaction(func(tx *goqu.TxDatabase) error {
		license, err := s.licensesRepo.GetLicenseForUpdate(tx, id)
		if err != nil {
			return err
		}
		if license == nil {
			return &custom_error.NotFoundError{ResourceType: "license", ResourceID: id}
		}

		reassignable := license.Reassignable
		if req.Reassignable != nil {
			reassignable = *req.Reassignable
		}

		if err := s.licensesRepo.UpdateLicense(tx, id, req, reassignable, actingUserID); err != nil {
			return err
		}

		if err := s.seats.ReconcileSeats(tx, id, license.Seats, req.Seats, actingUserID); err != nil {
			return err
		}

		license.Name = req.Name
		license.Serial = req.Serial
		license.Seats = req.Seats
		license.Reassignable = reassignable
		license.CategoryID = req.CategoryID
		license.ManufacturerID = req.ManufacturerID
		license.SupplierID = req.SupplierID
		updated = license
		return nil
	})
	if err != nil {
		return nil, err
	}

	go s.auditLog.Log(
		"update",
		actingUserID,
		map[string]interface{}{
			"seats": updated.Seats,
			"msg":   "License updated",
		},
		updated,
	)

	return updated, nil
}

func (s *LicenseService) DeleteLicense(id int, actingUserID *int) error {
	var deleted *models.License
	err := s.tx.InTransaction(func(tx *goqu.TxDatabase) error {
		license, err := s.licensesRepo.GetLicenseForUpdate(tx, id)
		if err != nil {
			return err
		}
		if license == nil {
			return &custom_error.NotFoundError{ResourceType: "license", ResourceID: id}
		}

		if err := s.licensesRepo.SoftDeleteLicense(tx, id, actingUserID); err != nil {
			return err
		}

		deleted = license
		return nil
	})
	if err != nil {
		return err
	}

	go s.auditLog.Log(
		"delete",
		actingUserID,
		map[string]interface{}{"msg": "License removed"},
		deleted,
	)

	return nil
}
