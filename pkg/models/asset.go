package models

import (
	"fmt"
	"time"

	"stockroom/pkg/metadata"
)

type Asset struct {
	ID              int                 `json:"id" db:"id"`
	Tag             string              `json:"tag" db:"tag"`
	Serial          *string             `json:"serial" db:"serial"`
	Name            *string             `json:"name" db:"name"`
	ModelID         *int                `json:"model_id" db:"model_id"`
	StatusID        *int                `json:"status_id" db:"status_id"`
	CompanyID       *int                `json:"company_id" db:"company_id"`
	LocationID      *int                `json:"location_id" db:"location_id"`
	Assignment      Assignment          `json:"assignment"`
	PurchaseDate    *time.Time          `json:"purchase_date" db:"purchase_date"`
	PurchaseCost    *float64            `json:"purchase_cost" db:"purchase_cost"`
	CheckoutCounter int                 `json:"checkout_counter" db:"checkout_counter"`
	CheckinCounter  int                 `json:"checkin_counter" db:"checkin_counter"`
	DeletedAt       *time.Time          `json:"deleted_at" db:"deleted_at"`
	CreatedAt       time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at" db:"updated_at"`
	UserID          *int                `json:"user_id" db:"user_id"`
}

// Assignment is the asset's current checkout state. An unassigned asset
// carries no target id and no timestamps.
type Assignment struct {
	Kind            metadata.TargetKind `json:"kind"`
	AssignedTo      *int                `json:"assigned_to"`
	AssignedAt      *time.Time          `json:"assigned_at"`
	ExpectedCheckin *time.Time          `json:"expected_checkin"`
}

func (a Assignment) IsAssigned() bool {
	return a.Kind.IsAssigned()
}

// Validate enforces the pairing between the target kind and the assignee:
// unassigned means no assignee and no assigned-at, assigned means both.
func (a Assignment) Validate() error {
	if !a.Kind.IsAssigned() {
		if a.AssignedTo != nil {
			return fmt.Errorf("unassigned asset must not carry an assignee, got %d", *a.AssignedTo)
		}
		if a.AssignedAt != nil {
			return fmt.Errorf("unassigned asset must not carry an assigned-at timestamp")
		}
		return nil
	}
	if a.AssignedTo == nil {
		return fmt.Errorf("assignment of kind %s requires an assignee id", a.Kind)
	}
	return nil
}

func (a *Asset) IsActive() bool {
	return a.DeletedAt == nil
}

func (a *Asset) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   a.ID,
		ResourceType: "asset",
	}
}

// FlatAssetRecord mirrors the assets row as read from the store; it is
// translated into the nested Asset shape before leaving the repository.
type FlatAssetRecord struct {
	ID              int        `db:"id"`
	Tag             string     `db:"tag"`
	Serial          *string    `db:"serial"`
	Name            *string    `db:"name"`
	ModelID         *int       `db:"model_id"`
	StatusID        *int       `db:"status_id"`
	CompanyID       *int       `db:"company_id"`
	LocationID      *int       `db:"location_id"`
	AssignedType    *string    `db:"assigned_type"`
	AssignedTo      *int       `db:"assigned_to"`
	AssignedAt      *time.Time `db:"assigned_at"`
	ExpectedCheckin *time.Time `db:"expected_checkin"`
	PurchaseDate    *time.Time `db:"purchase_date"`
	PurchaseCost    *float64   `db:"purchase_cost"`
	CheckoutCounter int        `db:"checkout_counter"`
	CheckinCounter  int        `db:"checkin_counter"`
	DeletedAt       *time.Time `db:"deleted_at"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
	UserID          *int       `db:"user_id"`
}

func (fa *FlatAssetRecord) TransformToAsset() Asset {
	kind := metadata.TargetUnassigned
	if fa.AssignedType != nil {
		kind = metadata.TargetKind(*fa.AssignedType)
	}

	return Asset{
		ID:         fa.ID,
		Tag:        fa.Tag,
		Serial:     fa.Serial,
		Name:       fa.Name,
		ModelID:    fa.ModelID,
		StatusID:   fa.StatusID,
		CompanyID:  fa.CompanyID,
		LocationID: fa.LocationID,
		Assignment: Assignment{
			Kind:            kind,
			AssignedTo:      fa.AssignedTo,
			AssignedAt:      fa.AssignedAt,
			ExpectedCheckin: fa.ExpectedCheckin,
		},
		PurchaseDate:    fa.PurchaseDate,
		PurchaseCost:    fa.PurchaseCost,
		CheckoutCounter: fa.CheckoutCounter,
		CheckinCounter:  fa.CheckinCounter,
		DeletedAt:       fa.DeletedAt,
		CreatedAt:       fa.CreatedAt,
		UpdatedAt:       fa.UpdatedAt,
		UserID:          fa.UserID,
	}
}
