package assets

import (
	"time"

	"stockroom/internal/repository"
	"stockroom/pkg/auditlog"
	custom_error "stockroom/pkg/errors"
	"stockroom/pkg/metadata"
	"stockroom/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type AssetRepository interface {
	GetAsset(id int) (*models.Asset, error)
	GetAssetForUpdate(tx *goqu.TxDatabase, id int) (*models.Asset, error)
	ApplyCheckout(tx *goqu.TxDatabase, id int, assignment models.Assignment, actingUserID int) error
	ApplyCheckin(tx *goqu.TxDatabase, id int, statusID, locationID *int, actingUserID int) error
}

type AuditLogger interface {
	Log(action string, actingUserID *int, data interface{}, item auditlog.Auditable)
}

type AssetService struct {
	assetsRepo AssetRepository
	tx         repository.Transactor
	auditLog   AuditLogger
}

func NewAssetService(assetsRepo AssetRepository, tx repository.Transactor, auditLog AuditLogger) *AssetService {
	return &AssetService{
		assetsRepo: assetsRepo,
		tx:         tx,
		auditLog:   auditLog,
	}
}

// Checkout assigns an unassigned asset to a user, a location or another
// asset. Assigning to another asset stores that asset's own current user,
// resolved once here; the stored assignee is not re-derived later.
func (s *AssetService) Checkout(assetID int, target metadata.AssignmentTarget, assignedAt, expectedCheckin *time.Time, actingUserID int) (*models.Asset, error) {
	if err := target.Validate(); err != nil {
		return nil, custom_error.NewValidationError("invalid checkout target: %v", err)
	}
	if !target.IsAssigned() {
		return nil, custom_error.NewValidationError("checkout requires a target")
	}

	var checkedOut *models.Asset
	err := s.tx.InTransaction(func(tx *goqu.TxDatabase) error {
		asset, err := s.assetsRepo.GetAssetForUpdate(tx, assetID)
		if err != nil {
			return err
		}
		if asset == nil {
			return &custom_error.NotFoundError{ResourceType: "asset", ResourceID: assetID}
		}
		if asset.Assignment.IsAssigned() {
			return &custom_error.AlreadyAssignedError{ResourceType: "asset", ResourceID: assetID}
		}

		assignedToID, err := s.resolveAssignee(tx, assetID, target)
		if err != nil {
			return err
		}

		at := time.Now()
		if assignedAt != nil {
			at = *assignedAt
		}

		assignment := models.Assignment{
			Kind:            target.Kind,
			AssignedTo:      &assignedToID,
			AssignedAt:      &at,
			ExpectedCheckin: expectedCheckin,
		}
		if err := s.assetsRepo.ApplyCheckout(tx, assetID, assignment, actingUserID); err != nil {
			return err
		}

		asset.Assignment = assignment
		asset.CheckoutCounter++
		checkedOut = asset
		return nil
	})
	if err != nil {
		return nil, err
	}

	go s.auditLog.Log(
		"checkout",
		&actingUserID,
		map[string]interface{}{
			"target_kind": target.Kind.String(),
			"target_id":   target.ID,
			"assigned_to": checkedOut.Assignment.AssignedTo,
			"msg":         "Asset checked out",
		},
		checkedOut,
	)

	return checkedOut, nil
}

// Checkin releases an assigned asset, optionally recording the return status
// and location handed in by the caller.
func (s *AssetService) Checkin(assetID int, actingUserID int, newStatusID, newLocationID *int) (*models.Asset, error) {
	var checkedIn *models.Asset
	err := s.tx.InTransaction(func(tx *goqu.TxDatabase) error {
		asset, err := s.assetsRepo.GetAssetForUpdate(tx, assetID)
		if err != nil {
			return err
		}
		if asset == nil {
			return &custom_error.NotFoundError{ResourceType: "asset", ResourceID: assetID}
		}
		if !asset.Assignment.IsAssigned() {
			return &custom_error.AlreadyUnassignedError{ResourceType: "asset", ResourceID: assetID}
		}

		if err := s.assetsRepo.ApplyCheckin(tx, assetID, newStatusID, newLocationID, actingUserID); err != nil {
			return err
		}

		asset.Assignment = models.Assignment{Kind: metadata.TargetUnassigned}
		asset.CheckinCounter++
		if newStatusID != nil {
			asset.StatusID = newStatusID
		}
		if newLocationID != nil {
			asset.LocationID = newLocationID
		}
		checkedIn = asset
		return nil
	})
	if err != nil {
		return nil, err
	}

	go s.auditLog.Log(
		"checkin",
		&actingUserID,
		map[string]interface{}{"msg": "Asset checked in"},
		checkedIn,
	)

	return checkedIn, nil
}

// resolveAssignee maps the target onto the concrete assignee id. User and
// location targets point at themselves; an asset target points at the
// custodian asset's current user.
func (s *AssetService) resolveAssignee(tx *goqu.TxDatabase, assetID int, target metadata.AssignmentTarget) (int, error) {
	if target.Kind != metadata.TargetAsset {
		return target.ID, nil
	}

	if target.ID == assetID {
		return 0, custom_error.NewValidationError("asset %d cannot be assigned to itself", assetID)
	}

	custodian, err := s.assetsRepo.GetAssetForUpdate(tx, target.ID)
	if err != nil {
		return 0, err
	}
	if custodian == nil {
		return 0, custom_error.NewValidationError("custodian asset %d not found", target.ID)
	}
	if custodian.Assignment.Kind != metadata.TargetUser || custodian.Assignment.AssignedTo == nil {
		return 0, custom_error.NewValidationError("custodian asset %d has no current user", target.ID)
	}

	return *custodian.Assignment.AssignedTo, nil
}
