package licenses

import (
	"fmt"
	"time"

	"stockroom/internal/repository"
	"stockroom/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
)

var seatColumns = []interface{}{
	"id", "license_id", "assigned_to_user", "asset_id", "deleted_at",
	"created_at", "updated_at", "user_id",
}

type SeatsRepository struct {
	repository *repository.Repository
}

func NewSeatsRepository(r *repository.Repository) *SeatsRepository {
	return &SeatsRepository{repository: r}
}

func (r *SeatsRepository) GetSeatForUpdate(tx *goqu.TxDatabase, id int) (*models.LicenseSeat, error) {
	var seat models.LicenseSeat
	found, err := tx.
		Select(seatColumns...).
		From("license_seats").
		Where(goqu.Ex{"id": id, "deleted_at": nil}).
		ForUpdate(exp.Wait).
		Executor().ScanStruct(&seat)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch license seat: %w", err)
	}
	if !found {
		return nil, nil
	}

	return &seat, nil
}

func (r *SeatsRepository) GetSeatsByLicense(licenseID int) ([]models.LicenseSeat, error) {
	var seats []models.LicenseSeat
	err := r.repository.GoquDBWrapper.
		Select(seatColumns...).
		From("license_seats").
		Where(goqu.Ex{"license_id": licenseID, "deleted_at": nil}).
		Order(goqu.I("id").Asc()).
		Executor().ScanStructs(&seats)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch seats for license %d: %w", licenseID, err)
	}

	return seats, nil
}

// CountAvailableSeats counts seats with both assignee channels empty, locking
// the counted rows so a concurrent checkout cannot invalidate the count
// before the reconciliation commits.
func (r *SeatsRepository) CountAvailableSeats(tx *goqu.TxDatabase, licenseID int) (int, error) {
	var ids []int
	err := tx.
		Select("id").
		From("license_seats").
		Where(goqu.Ex{
			"license_id":       licenseID,
			"assigned_to_user": nil,
			"asset_id":         nil,
			"deleted_at":       nil,
		}).
		ForUpdate(exp.Wait).
		Executor().ScanVals(&ids)
	if err != nil {
		return 0, fmt.Errorf("failed to count available seats for license %d: %w", licenseID, err)
	}

	return len(ids), nil
}

func (r *SeatsRepository) InsertSeats(tx *goqu.TxDatabase, licenseID int, count int, actingUserID *int) error {
	if count <= 0 {
		return nil
	}

	now := time.Now()
	rows := make([]interface{}, 0, count)
	for i := 0; i < count; i++ {
		rows = append(rows, goqu.Record{
			"license_id": licenseID,
			"created_at": now,
			"updated_at": now,
			"user_id":    actingUserID,
		})
	}

	query := tx.Insert("license_seats").Rows(rows...)
	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to insert %d seats for license %d: %w", count, licenseID, err)
	}

	return nil
}

// RetireAvailableSeats soft-deletes up to count unassigned seats and returns
// how many it actually retired. Assigned seats are never touched.
func (r *SeatsRepository) RetireAvailableSeats(tx *goqu.TxDatabase, licenseID int, count int, actingUserID *int) (int, error) {
	if count <= 0 {
		return 0, nil
	}

	now := time.Now()
	candidates := tx.
		Select("id").
		From("license_seats").
		Where(goqu.Ex{
			"license_id":       licenseID,
			"assigned_to_user": nil,
			"asset_id":         nil,
			"deleted_at":       nil,
		}).
		Order(goqu.I("id").Desc()).
		Limit(uint(count))

	query := tx.
		Update("license_seats").
		Set(goqu.Record{
			"deleted_at": now,
			"updated_at": now,
			"user_id":    actingUserID,
		}).
		Where(goqu.C("id").In(candidates))

	result, err := query.Executor().Exec()
	if err != nil {
		return 0, fmt.Errorf("failed to retire seats for license %d: %w", licenseID, err)
	}

	retired, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read retired seat count for license %d: %w", licenseID, err)
	}

	return int(retired), nil
}

// ApplySeatCheckout writes exactly one assignee channel; the other is set to
// NULL in the same statement so the single-channel invariant cannot slip.
func (r *SeatsRepository) ApplySeatCheckout(tx *goqu.TxDatabase, seatID int, userID, assetID *int, actingUserID int) error {
	query := tx.
		Update("license_seats").
		Set(goqu.Record{
			"assigned_to_user": userID,
			"asset_id":         assetID,
			"updated_at":       time.Now(),
			"user_id":          actingUserID,
		}).
		Where(goqu.Ex{"id": seatID, "deleted_at": nil})

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to check out seat %d: %w", seatID, err)
	}

	return nil
}

func (r *SeatsRepository) ApplySeatCheckin(tx *goqu.TxDatabase, seatID int, actingUserID int) error {
	query := tx.
		Update("license_seats").
		Set(goqu.Record{
			"assigned_to_user": nil,
			"asset_id":         nil,
			"updated_at":       time.Now(),
			"user_id":          actingUserID,
		}).
		Where(goqu.Ex{"id": seatID, "deleted_at": nil})

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to check in seat %d: %w", seatID, err)
	}

	return nil
}
