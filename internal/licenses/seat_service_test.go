package licenses

import (
	"testing"

	"stockroom/pkg/auditlog"
	custom_error "stockroom/pkg/errors"
	"stockroom/pkg/metadata"
	"stockroom/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockSeatRepository struct {
	mock.Mock
}

func (m *MockSeatRepository) GetSeatForUpdate(tx *goqu.TxDatabase, id int) (*models.LicenseSeat, error) {
	args := m.Called(tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LicenseSeat), args.Error(1)
}

func (m *MockSeatRepository) CountAvailableSeats(tx *goqu.TxDatabase, licenseID int) (int, error) {
	args := m.Called(tx, licenseID)
	return args.Int(0), args.Error(1)
}

func (m *MockSeatRepository) InsertSeats(tx *goqu.TxDatabase, licenseID int, count int, actingUserID *int) error {
	args := m.Called(tx, licenseID, count, actingUserID)
	return args.Error(0)
}

func (m *MockSeatRepository) RetireAvailableSeats(tx *goqu.TxDatabase, licenseID int, count int, actingUserID *int) (int, error) {
	args := m.Called(tx, licenseID, count, actingUserID)
	return args.Int(0), args.Error(1)
}

func (m *MockSeatRepository) ApplySeatCheckout(tx *goqu.TxDatabase, seatID int, userID, assetID *int, actingUserID int) error {
	args := m.Called(tx, seatID, userID, assetID, actingUserID)
	return args.Error(0)
}

func (m *MockSeatRepository) ApplySeatCheckin(tx *goqu.TxDatabase, seatID int, actingUserID int) error {
	args := m.Called(tx, seatID, actingUserID)
	return args.Error(0)
}

type MockLicenseReader struct {
	mock.Mock
}

func (m *MockLicenseReader) GetLicenseForUpdate(tx *goqu.TxDatabase, id int) (*models.License, error) {
	args := m.Called(tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.License), args.Error(1)
}

// fakeTransactor runs the unit of work directly; transactional rollback is
// the store's concern and is not under test here.
type fakeTransactor struct{}

func (fakeTransactor) InTransaction(fn func(tx *goqu.TxDatabase) error) error {
	return fn(nil)
}

type noopAuditLog struct{}

func (noopAuditLog) Log(action string, actingUserID *int, data interface{}, item auditlog.Auditable) {
}

func intPtr(i int) *int { return &i }

func newSeatService(seatsRepo *MockSeatRepository, licensesRepo *MockLicenseReader) *SeatService {
	return NewSeatService(seatsRepo, licensesRepo, fakeTransactor{}, noopAuditLog{})
}

// Growing the pool creates exactly the delta of new seats.
func TestReconcileSeatsGrow(t *testing.T) {
	seatsRepo := new(MockSeatRepository)
	service := newSeatService(seatsRepo, new(MockLicenseReader))

	actingUser := intPtr(1)
	seatsRepo.On("InsertSeats", mock.Anything, 42, 2, actingUser).Return(nil).Once()

	err := service.ReconcileSeats(nil, 42, 5, 7, actingUser)

	assert.NoError(t, err)
	seatsRepo.AssertExpectations(t)
	seatsRepo.AssertNotCalled(t, "RetireAvailableSeats", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// Shrinking succeeds when exactly enough unassigned seats exist; assigned
// seats are never touched.
func TestReconcileSeatsShrinkSucceeds(t *testing.T) {
	seatsRepo := new(MockSeatRepository)
	service := newSeatService(seatsRepo, new(MockLicenseReader))

	actingUser := intPtr(1)
	seatsRepo.On("CountAvailableSeats", mock.Anything, 42).Return(3, nil).Once()
	seatsRepo.On("RetireAvailableSeats", mock.Anything, 42, 3, actingUser).Return(3, nil).Once()

	err := service.ReconcileSeats(nil, 42, 5, 2, actingUser)

	assert.NoError(t, err)
	seatsRepo.AssertExpectations(t)
}

// Shrinking below the number of free seats is rejected outright.
func TestReconcileSeatsShrinkInsufficient(t *testing.T) {
	seatsRepo := new(MockSeatRepository)
	service := newSeatService(seatsRepo, new(MockLicenseReader))

	seatsRepo.On("CountAvailableSeats", mock.Anything, 42).Return(1, nil).Once()

	err := service.ReconcileSeats(nil, 42, 5, 2, intPtr(1))

	var insufficientErr *custom_error.InsufficientSeatsError
	assert.ErrorAs(t, err, &insufficientErr)
	assert.Equal(t, 3, insufficientErr.Required)
	assert.Equal(t, 1, insufficientErr.Available)
	assert.Equal(t, 4, insufficientErr.Assigned)
	seatsRepo.AssertNotCalled(t, "RetireAvailableSeats", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReconcileSeatsNoChange(t *testing.T) {
	seatsRepo := new(MockSeatRepository)
	service := newSeatService(seatsRepo, new(MockLicenseReader))

	err := service.ReconcileSeats(nil, 42, 5, 5, intPtr(1))

	assert.NoError(t, err)
	seatsRepo.AssertNotCalled(t, "InsertSeats", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	seatsRepo.AssertNotCalled(t, "CountAvailableSeats", mock.Anything, mock.Anything)
}

func TestSeatCheckoutToUser(t *testing.T) {
	seatsRepo := new(MockSeatRepository)
	service := newSeatService(seatsRepo, new(MockLicenseReader))

	seat := &models.LicenseSeat{ID: 10, LicenseID: 42}
	seatsRepo.On("GetSeatForUpdate", mock.Anything, 10).Return(seat, nil).Once()
	seatsRepo.On("ApplySeatCheckout", mock.Anything, 10, intPtr(7), (*int)(nil), 1).Return(nil).Once()

	checkedOut, err := service.Checkout(10, metadata.UserTarget(7), 1)

	assert.NoError(t, err)
	assert.Equal(t, 7, *checkedOut.AssignedToUser)
	assert.Nil(t, checkedOut.AssetID)
	seatsRepo.AssertExpectations(t)
}

// Exactly one assignee channel is ever populated.
func TestSeatCheckoutToAsset(t *testing.T) {
	seatsRepo := new(MockSeatRepository)
	service := newSeatService(seatsRepo, new(MockLicenseReader))

	seat := &models.LicenseSeat{ID: 10, LicenseID: 42}
	seatsRepo.On("GetSeatForUpdate", mock.Anything, 10).Return(seat, nil).Once()
	seatsRepo.On("ApplySeatCheckout", mock.Anything, 10, (*int)(nil), intPtr(12), 1).Return(nil).Once()

	checkedOut, err := service.Checkout(10, metadata.AssetTarget(12), 1)

	assert.NoError(t, err)
	assert.Nil(t, checkedOut.AssignedToUser)
	assert.Equal(t, 12, *checkedOut.AssetID)
}

func TestSeatCheckoutToLocationRejected(t *testing.T) {
	seatsRepo := new(MockSeatRepository)
	service := newSeatService(seatsRepo, new(MockLicenseReader))

	_, err := service.Checkout(10, metadata.LocationTarget(3), 1)

	var validationErr *custom_error.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	seatsRepo.AssertNotCalled(t, "GetSeatForUpdate", mock.Anything, mock.Anything)
}

func TestSeatCheckoutAlreadyAssigned(t *testing.T) {
	seatsRepo := new(MockSeatRepository)
	service := newSeatService(seatsRepo, new(MockLicenseReader))

	seat := &models.LicenseSeat{ID: 10, LicenseID: 42, AssignedToUser: intPtr(9)}
	seatsRepo.On("GetSeatForUpdate", mock.Anything, 10).Return(seat, nil).Once()

	_, err := service.Checkout(10, metadata.UserTarget(7), 1)

	var assignedErr *custom_error.AlreadyAssignedError
	assert.ErrorAs(t, err, &assignedErr)
	seatsRepo.AssertNotCalled(t, "ApplySeatCheckout", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSeatCheckinSucceeds(t *testing.T) {
	seatsRepo := new(MockSeatRepository)
	licensesRepo := new(MockLicenseReader)
	service := newSeatService(seatsRepo, licensesRepo)

	seat := &models.LicenseSeat{ID: 10, LicenseID: 42, AssignedToUser: intPtr(9)}
	license := &models.License{ID: 42, Seats: 5, Reassignable: true}
	seatsRepo.On("GetSeatForUpdate", mock.Anything, 10).Return(seat, nil).Once()
	licensesRepo.On("GetLicenseForUpdate", mock.Anything, 42).Return(license, nil).Once()
	seatsRepo.On("ApplySeatCheckin", mock.Anything, 10, 1).Return(nil).Once()

	checkedIn, err := service.Checkin(10, 1)

	assert.NoError(t, err)
	assert.Nil(t, checkedIn.AssignedToUser)
	assert.Nil(t, checkedIn.AssetID)
	seatsRepo.AssertExpectations(t)
}

// A license that forbids reassignment keeps its seat assigned.
func TestSeatCheckinNotReassignable(t *testing.T) {
	seatsRepo := new(MockSeatRepository)
	licensesRepo := new(MockLicenseReader)
	service := newSeatService(seatsRepo, licensesRepo)

	seat := &models.LicenseSeat{ID: 10, LicenseID: 42, AssignedToUser: intPtr(9)}
	license := &models.License{ID: 42, Seats: 5, Reassignable: false}
	seatsRepo.On("GetSeatForUpdate", mock.Anything, 10).Return(seat, nil).Once()
	licensesRepo.On("GetLicenseForUpdate", mock.Anything, 42).Return(license, nil).Once()

	_, err := service.Checkin(10, 1)

	var notReassignableErr *custom_error.NotReassignableError
	assert.ErrorAs(t, err, &notReassignableErr)
	assert.Equal(t, 42, notReassignableErr.LicenseID)
	seatsRepo.AssertNotCalled(t, "ApplySeatCheckin", mock.Anything, mock.Anything, mock.Anything)
}

func TestSeatCheckinAlreadyUnassigned(t *testing.T) {
	seatsRepo := new(MockSeatRepository)
	service := newSeatService(seatsRepo, new(MockLicenseReader))

	seat := &models.LicenseSeat{ID: 10, LicenseID: 42}
	seatsRepo.On("GetSeatForUpdate", mock.Anything, 10).Return(seat, nil).Once()

	_, err := service.Checkin(10, 1)

	var unassignedErr *custom_error.AlreadyUnassignedError
	assert.ErrorAs(t, err, &unassignedErr)
}
