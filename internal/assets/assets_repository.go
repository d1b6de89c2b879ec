package assets

import (
	"fmt"
	"strings"
	"time"

	"stockroom/internal/repository"
	custom_error "stockroom/pkg/errors"
	"stockroom/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/lib/pq"
)

var assetColumns = []interface{}{
	"id", "tag", "serial", "name", "model_id", "status_id", "company_id",
	"location_id", "assigned_type", "assigned_to", "assigned_at",
	"expected_checkin", "purchase_date", "purchase_cost", "checkout_counter",
	"checkin_counter", "deleted_at", "created_at", "updated_at", "user_id",
}

type AssetsRepository struct {
	repository *repository.Repository
}

func NewAssetsRepository(r *repository.Repository) *AssetsRepository {
	return &AssetsRepository{repository: r}
}

func (r *AssetsRepository) GetAsset(id int) (*models.Asset, error) {
	return r.scanAsset(r.repository.GoquDBWrapper.
		Select(assetColumns...).
		From("assets").
		Where(goqu.Ex{"id": id, "deleted_at": nil}))
}

// GetAssetForUpdate reads an asset inside the caller's transaction with a row
// lock, so concurrent checkouts on the same asset serialize and the later one
// sees the fresh assignment state.
func (r *AssetsRepository) GetAssetForUpdate(tx *goqu.TxDatabase, id int) (*models.Asset, error) {
	return r.scanAsset(tx.
		Select(assetColumns...).
		From("assets").
		Where(goqu.Ex{"id": id, "deleted_at": nil}).
		ForUpdate(exp.Wait))
}

func (r *AssetsRepository) scanAsset(query *goqu.SelectDataset) (*models.Asset, error) {
	var record models.FlatAssetRecord
	found, err := query.Executor().ScanStruct(&record)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch asset: %w", err)
	}
	if !found {
		return nil, nil
	}

	asset := record.TransformToAsset()
	return &asset, nil
}

func (r *AssetsRepository) GetAssetList() ([]models.Asset, error) {
	var records []models.FlatAssetRecord
	err := r.repository.GoquDBWrapper.
		Select(assetColumns...).
		From("assets").
		Where(goqu.Ex{"deleted_at": nil}).
		Order(goqu.I("tag").Asc()).
		Executor().ScanStructs(&records)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch assets: %w", err)
	}

	assets := make([]models.Asset, 0, len(records))
	for i := range records {
		assets = append(assets, records[i].TransformToAsset())
	}

	return assets, nil
}

func (r *AssetsRepository) PersistAsset(req models.AssetRequest, actingUserID *int) (*models.Asset, error) {
	now := time.Now()
	tag := strings.ToUpper(strings.TrimSpace(req.Tag))

	query := r.repository.GoquDBWrapper.Insert("assets").
		Rows(goqu.Record{
			"tag":           tag,
			"serial":        req.Serial,
			"name":          req.Name,
			"model_id":      req.ModelID,
			"status_id":     req.StatusID,
			"company_id":    req.CompanyID,
			"location_id":   req.LocationID,
			"purchase_date": req.PurchaseDate,
			"purchase_cost": req.PurchaseCost,
			"created_at":    now,
			"updated_at":    now,
			"user_id":       actingUserID,
		}).
		Returning("id")

	asset := models.Asset{
		Tag:          tag,
		Serial:       req.Serial,
		Name:         req.Name,
		ModelID:      req.ModelID,
		StatusID:     req.StatusID,
		CompanyID:    req.CompanyID,
		LocationID:   req.LocationID,
		PurchaseDate: req.PurchaseDate,
		PurchaseCost: req.PurchaseCost,
		CreatedAt:    now,
		UpdatedAt:    now,
		UserID:       actingUserID,
	}

	if _, err := query.Executor().ScanVal(&asset.ID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" {
				return nil, custom_error.WrapDBError("Duplicate tag for asset", string(pqErr.Code))
			}
		}
		return nil, fmt.Errorf("failed to insert asset record: %w", err)
	}

	return &asset, nil
}

func (r *AssetsRepository) UpdateAsset(id int, req models.AssetRequest, actingUserID *int) error {
	query := r.repository.GoquDBWrapper.
		Update("assets").
		Set(goqu.Record{
			"tag":           strings.ToUpper(strings.TrimSpace(req.Tag)),
			"serial":        req.Serial,
			"name":          req.Name,
			"model_id":      req.ModelID,
			"status_id":     req.StatusID,
			"company_id":    req.CompanyID,
			"location_id":   req.LocationID,
			"purchase_date": req.PurchaseDate,
			"purchase_cost": req.PurchaseCost,
			"updated_at":    time.Now(),
			"user_id":       actingUserID,
		}).
		Where(goqu.Ex{"id": id, "deleted_at": nil})

	if _, err := query.Executor().Exec(); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" {
				return custom_error.WrapDBError("Duplicate tag for asset", string(pqErr.Code))
			}
		}
		return fmt.Errorf("failed to update asset %d: %w", id, err)
	}

	return nil
}

// SoftDeleteAsset marks the asset deleted; the row stays for the audit trail.
func (r *AssetsRepository) SoftDeleteAsset(id int, actingUserID *int) error {
	now := time.Now()
	query := r.repository.GoquDBWrapper.
		Update("assets").
		Set(goqu.Record{
			"deleted_at": now,
			"updated_at": now,
			"user_id":    actingUserID,
		}).
		Where(goqu.Ex{"id": id, "deleted_at": nil})

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to delete asset %d: %w", id, err)
	}

	return nil
}

// ApplyCheckout writes the assignment and bumps the checkout counter as one
// statement, so the counter can never drift from the assignment itself.
func (r *AssetsRepository) ApplyCheckout(tx *goqu.TxDatabase, id int, assignment models.Assignment, actingUserID int) error {
	query := tx.
		Update("assets").
		Set(goqu.Record{
			"assigned_type":    assignment.Kind.String(),
			"assigned_to":      assignment.AssignedTo,
			"assigned_at":      assignment.AssignedAt,
			"expected_checkin": assignment.ExpectedCheckin,
			"checkout_counter": goqu.L("checkout_counter + 1"),
			"updated_at":       time.Now(),
			"user_id":          actingUserID,
		}).
		Where(goqu.Ex{"id": id, "deleted_at": nil})

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to check out asset %d: %w", id, err)
	}

	return nil
}

// ApplyCheckin clears the assignment, bumps the checkin counter and applies
// the optional return status and location.
func (r *AssetsRepository) ApplyCheckin(tx *goqu.TxDatabase, id int, statusID, locationID *int, actingUserID int) error {
	record := goqu.Record{
		"assigned_type":    nil,
		"assigned_to":      nil,
		"assigned_at":      nil,
		"expected_checkin": nil,
		"checkin_counter":  goqu.L("checkin_counter + 1"),
		"updated_at":       time.Now(),
		"user_id":          actingUserID,
	}
	if statusID != nil {
		record["status_id"] = *statusID
	}
	if locationID != nil {
		record["location_id"] = *locationID
	}

	query := tx.
		Update("assets").
		Set(record).
		Where(goqu.Ex{"id": id, "deleted_at": nil})

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to check in asset %d: %w", id, err)
	}

	return nil
}
