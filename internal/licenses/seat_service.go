package licenses

import (
	"stockroom/internal/repository"
	"stockroom/pkg/auditlog"
	custom_error "stockroom/pkg/errors"
	"stockroom/pkg/metadata"
	"stockroom/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type SeatRepository interface {
	GetSeatForUpdate(tx *goqu.TxDatabase, id int) (*models.LicenseSeat, error)
	CountAvailableSeats(tx *goqu.TxDatabase, licenseID int) (int, error)
	InsertSeats(tx *goqu.TxDatabase, licenseID int, count int, actingUserID *int) error
	RetireAvailableSeats(tx *goqu.TxDatabase, licenseID int, count int, actingUserID *int) (int, error)
	ApplySeatCheckout(tx *goqu.TxDatabase, seatID int, userID, assetID *int, actingUserID int) error
	ApplySeatCheckin(tx *goqu.TxDatabase, seatID int, actingUserID int) error
}

type LicenseReader interface {
	GetLicenseForUpdate(tx *goqu.TxDatabase, id int) (*models.License, error)
}

type AuditLogger interface {
	Log(action string, actingUserID *int, data interface{}, item auditlog.Auditable)
}

type SeatService struct {
	seatsRepo    SeatRepository
	licensesRepo LicenseReader
	tx           repository.Transactor
	auditLog     AuditLogger
}

func NewSeatService(seatsRepo SeatRepository, licensesRepo LicenseReader, tx repository.Transactor, auditLog AuditLogger) *SeatService {
	return &SeatService{
		seatsRepo:    seatsRepo,
		licensesRepo: licensesRepo,
		tx:           tx,
		auditLog:     auditLog,
	}
}

// ReconcileSeats brings the seat pool in line with a changed seat count. It
// runs inside the license-save transaction handed in by the caller, so a
// rejected reduction rolls the seat-count change back with it. Growing always
// succeeds; shrinking requires enough unassigned seats and has no effect
// otherwise.
func (s *SeatService) ReconcileSeats(tx *goqu.TxDatabase, licenseID int, previousSeats, newSeats int, actingUserID *int) error {
	delta := newSeats - previousSeats
	if delta == 0 {
		return nil
	}

	if delta > 0 {
		return s.seatsRepo.InsertSeats(tx, licenseID, delta, actingUserID)
	}

	required := -delta
	available, err := s.seatsRepo.CountAvailableSeats(tx, licenseID)
	if err != nil {
		return err
	}
	if available < required {
		return &custom_error.InsufficientSeatsError{
			LicenseID: licenseID,
			Required:  required,
			Available: available,
			Assigned:  previousSeats - available,
		}
	}

	retired, err := s.seatsRepo.RetireAvailableSeats(tx, licenseID, required, actingUserID)
	if err != nil {
		return err
	}
	if retired != required {
		// The available rows are locked by the count above, so a mismatch
		// means the store and the count disagree. Abort the transaction.
		return &custom_error.InsufficientSeatsError{
			LicenseID: licenseID,
			Required:  required,
			Available: retired,
			Assigned:  previousSeats - retired,
		}
	}

	return nil
}

// Checkout assigns a free seat to a user or to an asset. Locations are not a
// valid seat target.
func (s *SeatService) Checkout(seatID int, target metadata.AssignmentTarget, actingUserID int) (*models.LicenseSeat, error) {
	if err := target.Validate(); err != nil {
		return nil, custom_error.NewValidationError("invalid seat target: %v", err)
	}
	if !target.IsAssigned() {
		return nil, custom_error.NewValidationError("seat checkout requires a target")
	}
	if target.Kind == metadata.TargetLocation {
		return nil, custom_error.NewValidationError("license seats cannot be assigned to a location")
	}

	var checkedOut *models.LicenseSeat
	err := s.tx.InTransaction(func(tx *goqu.TxDatabase) error {
		seat, err := s.seatsRepo.GetSeatForUpdate(tx, seatID)
		if err != nil {
			return err
		}
		if seat == nil {
			return &custom_error.NotFoundError{ResourceType: "license seat", ResourceID: seatID}
		}
		if !seat.IsAvailable() {
			return &custom_error.AlreadyAssignedError{ResourceType: "license seat", ResourceID: seatID}
		}

		var userID, assetID *int
		switch target.Kind {
		case metadata.TargetUser:
			userID = &target.ID
		case metadata.TargetAsset:
			assetID = &target.ID
		}

		if err := s.seatsRepo.ApplySeatCheckout(tx, seatID, userID, assetID, actingUserID); err != nil {
			return err
		}

		seat.AssignedToUser = userID
		seat.AssetID = assetID
		checkedOut = seat
		return nil
	})
	if err != nil {
		return nil, err
	}

	go s.auditLog.Log(
		"checkout",
		&actingUserID,
		map[string]interface{}{
			"license_id":  checkedOut.LicenseID,
			"target_kind": target.Kind.String(),
			"target_id":   target.ID,
			"msg":         "License seat checked out",
		},
		checkedOut,
	)

	return checkedOut, nil
}

// Checkin releases an assigned seat. The owning license must allow
// reassignment; the flag is license-level policy, never per seat.
func (s *SeatService) Checkin(seatID int, actingUserID int) (*models.LicenseSeat, error) {
	var checkedIn *models.LicenseSeat
	err := s.tx.InTransaction(func(tx *goqu.TxDatabase) error {
		seat, err := s.seatsRepo.GetSeatForUpdate(tx, seatID)
		if err != nil {
			return err
		}
		if seat == nil {
			return &custom_error.NotFoundError{ResourceType: "license seat", ResourceID: seatID}
		}
		if !seat.IsAssigned() {
			return &custom_error.AlreadyUnassignedError{ResourceType: "license seat", ResourceID: seatID}
		}

		license, err := s.licensesRepo.GetLicenseForUpdate(tx, seat.LicenseID)
		if err != nil {
			return err
		}
		if license == nil {
			return &custom_error.NotFoundError{ResourceType: "license", ResourceID: seat.LicenseID}
		}
		if !license.Reassignable {
			return &custom_error.NotReassignableError{LicenseID: license.ID, SeatID: seatID}
		}

		if err := s.seatsRepo.ApplySeatCheckin(tx, seatID, actingUserID); err != nil {
			return err
		}

		seat.AssignedToUser = nil
		seat.AssetID = nil
		checkedIn = seat
		return nil
	})
	if err != nil {
		return nil, err
	}

	go s.auditLog.Log(
		"checkin",
		&actingUserID,
		map[string]interface{}{
			"license_id": checkedIn.LicenseID,
			"msg":        "License seat checked in",
		},
		checkedIn,
	)

	return checkedIn, nil
}
