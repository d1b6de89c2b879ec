package models

import "time"

type AssetRequest struct {
	Tag          string     `json:"tag" binding:"required"`
	Serial       *string    `json:"serial"`
	Name         *string    `json:"name"`
	ModelID      *int       `json:"model_id"`
	StatusID     *int       `json:"status_id"`
	CompanyID    *int       `json:"company_id"`
	LocationID   *int       `json:"location_id"`
	PurchaseDate *time.Time `json:"purchase_date"`
	PurchaseCost *float64   `json:"purchase_cost"`
}

type CheckoutRequest struct {
	TargetKind      string     `json:"target_kind" binding:"required"`
	TargetID        int        `json:"target_id" binding:"required"`
	AssignedAt      *time.Time `json:"assigned_at"`
	ExpectedCheckin *time.Time `json:"expected_checkin"`
}

type CheckinRequest struct {
	StatusID   *int `json:"status_id"`
	LocationID *int `json:"location_id"`
}

type LicenseRequest struct {
	Name           string  `json:"name" binding:"required"`
	Serial         *string `json:"serial"`
	Seats          int     `json:"seats"`
	Reassignable   *bool   `json:"reassignable"`
	CategoryID     *int    `json:"category_id"`
	ManufacturerID *int    `json:"manufacturer_id"`
	SupplierID     *int    `json:"supplier_id"`
}

type SeatCheckoutRequest struct {
	TargetKind string `json:"target_kind" binding:"required"`
	TargetID   int    `json:"target_id" binding:"required"`
}
