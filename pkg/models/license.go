package models

import "time"

type License struct {
	ID             int        `json:"id" db:"id"`
	Name           string     `json:"name" db:"name"`
	Serial         *string    `json:"serial" db:"serial"`
	Seats          int        `json:"seats" db:"seats"`
	Reassignable   bool       `json:"reassignable" db:"reassignable"`
	CategoryID     *int       `json:"category_id" db:"category_id"`
	ManufacturerID *int       `json:"manufacturer_id" db:"manufacturer_id"`
	SupplierID     *int       `json:"supplier_id" db:"supplier_id"`
	DeletedAt      *time.Time `json:"deleted_at" db:"deleted_at"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
	UserID         *int       `json:"user_id" db:"user_id"`
}

func (l *License) IsActive() bool {
	return l.DeletedAt == nil
}

func (l *License) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   l.ID,
		ResourceType: "license",
	}
}

// LicenseSeat is one slot of a license's seat pool. At most one of
// AssignedToUser and AssetID may be set; seats are created and soft-deleted
// only by the license's own seat reconciliation, never by callers directly.
type LicenseSeat struct {
	ID             int        `json:"id" db:"id"`
	LicenseID      int        `json:"license_id" db:"license_id"`
	AssignedToUser *int       `json:"assigned_to_user" db:"assigned_to_user"`
	AssetID        *int       `json:"asset_id" db:"asset_id"`
	DeletedAt      *time.Time `json:"deleted_at" db:"deleted_at"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
	UserID         *int       `json:"user_id" db:"user_id"`
}

func (s *LicenseSeat) IsActive() bool {
	return s.DeletedAt == nil
}

// IsAvailable reports whether the seat can take a new assignment: both
// assignee channels empty and the seat not soft-deleted.
func (s *LicenseSeat) IsAvailable() bool {
	return s.AssignedToUser == nil && s.AssetID == nil && s.IsActive()
}

func (s *LicenseSeat) IsAssigned() bool {
	return s.AssignedToUser != nil || s.AssetID != nil
}

func (s *LicenseSeat) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   s.ID,
		ResourceType: "license_seat",
	}
}
