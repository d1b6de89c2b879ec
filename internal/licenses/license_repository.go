package licenses

import (
	"fmt"
	"time"

	"stockroom/internal/repository"
	"stockroom/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
)

var licenseColumns = []interface{}{
	"id", "name", "serial", "seats", "reassignable", "category_id",
	"manufacturer_id", "supplier_id", "deleted_at", "created_at",
	"updated_at", "user_id",
}

type LicensesRepository struct {
	repository *repository.Repository
}

func NewLicensesRepository(r *repository.Repository) *LicensesRepository {
	return &LicensesRepository{repository: r}
}

func (r *LicensesRepository) GetLicense(id int) (*models.License, error) {
	var license models.License
	found, err := r.repository.GoquDBWrapper.
		Select(licenseColumns...).
		From("licenses").
		Where(goqu.Ex{"id": id, "deleted_at": nil}).
		Executor().ScanStruct(&license)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch license: %w", err)
	}
	if !found {
		return nil, nil
	}

	return &license, nil
}

func (r *LicensesRepository) GetLicenseForUpdate(tx *goqu.TxDatabase, id int) (*models.License, error) {
	var license models.License
	found, err := tx.
		Select(licenseColumns...).
		From("licenses").
		Where(goqu.Ex{"id": id, "deleted_at": nil}).
		ForUpdate(exp.Wait).
		Executor().ScanStruct(&license)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch license: %w", err)
	}
	if !found {
		return nil, nil
	}

	return &license, nil
}

func (r *LicensesRepository) GetLicenseList() ([]models.License, error) {
	var licenses []models.License
	err := r.repository.GoquDBWrapper.
		Select(licenseColumns...).
		From("licenses").
		Where(goqu.Ex{"deleted_at": nil}).
		Order(goqu.I("name").Asc()).
		Executor().ScanStructs(&licenses)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch licenses: %w", err)
	}

	return licenses, nil
}

func (r *LicensesRepository) InsertLicense(tx *goqu.TxDatabase, req models.LicenseRequest, actingUserID *int) (*models.License, error) {
	now := time.Now()
	reassignable := true
	if req.Reassignable != nil {
		reassignable = *req.Reassignable
	}

	query := tx.Insert("licenses").
		Rows(goqu.Record{
			"name":            req.Name,
			"serial":          req.Serial,
			"seats":           req.Seats,
			"reassignable":    reassignable,
			"category_id":     req.CategoryID,
			"manufacturer_id": req.ManufacturerID,
			"supplier_id":     req.SupplierID,
			"created_at":      now,
			"updated_at":      now,
			"user_id":         actingUserID,
		}).
		Returning("id")

	license := models.License{
		Name:           req.Name,
		Serial:         req.Serial,
		Seats:          req.Seats,
		Reassignable:   reassignable,
		CategoryID:     req.CategoryID,
		ManufacturerID: req.ManufacturerID,
		SupplierID:     req.SupplierID,
		CreatedAt:      now,
		UpdatedAt:      now,
		UserID:         actingUserID,
	}

	if _, err := query.Executor().ScanVal(&license.ID); err != nil {
		return nil, fmt.Errorf("failed to insert license record: %w", err)
	}

	return &license, nil
}

func (r *LicensesRepository) UpdateLicense(tx *goqu.TxDatabase, id int, req models.LicenseRequest, reassignable bool, actingUserID *int) error {
	query := tx.
		Update("licenses").
		Set(goqu.Record{
			"name":            req.Name,
			"serial":          req.Serial,
			"seats":           req.Seats,
			"reassignable":    reassignable,
			"category_id":     req.CategoryID,
			"manufacturer_id": req.ManufacturerID,
			"supplier_id":     req.SupplierID,
			"updated_at":      time.Now(),
			"user_id":         actingUserID,
		}).
		Where(goqu.Ex{"id": id, "deleted_at": nil})

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to update license %d: %w", id, err)
	}

	return nil
}

func (r *LicensesRepository) SoftDeleteLicense(tx *goqu.TxDatabase, id int, actingUserID *int) error {
	now := time.Now()
	query := tx.
		Update("licenses").
		Set(goqu.Record{
			"deleted_at": now,
			"updated_at": now,
			"user_id":    actingUserID,
		}).
		Where(goqu.Ex{"id": id, "deleted_at": nil})

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to delete license %d: %w", id, err)
	}

	return nil
}
