package dto

import (
	"time"

	"github.com/google/uuid"
)

// ── Request DTOs ──────────────────────────────────────────────────────────────

// DimensionsInput carries the three box measures typed by production staff.
type DimensionsInput struct {
	L string `json:"l" validate:"required,max=20"`
	P string `json:"p" validate:"required,max=20"`
	H string `json:"h" validate:"required,max=20"`
}

// CreatePalletRequest registers a new pallet. TripDate applies only to TRUCK
// pallets; Dimensions only to COURIER pallets.
type CreatePalletRequest struct {
	Client       string           `json:"client"        validate:"required,max=200"`
	PalletNo     string           `json:"pallet_no"     validate:"required,max=50"`
	BobbinsCount int              `json:"bobbins_count" validate:"min=0"`
	Status       string           `json:"status"        validate:"omitempty,oneof=IN_PROGRESS READY"`
	ShippingType string           `json:"shipping_type" validate:"required,oneof=TRUCK COURIER"`
	TripDate     *string          `json:"trip_date"     validate:"omitempty,datetime=2006-01-02"`
	Dimensions   *DimensionsInput `json:"dimensions"`
}

// UpdatePalletRequest edits the mutable production fields. The shipping
// type is fixed at creation and cannot be changed here.
type UpdatePalletRequest struct {
	BobbinsCount *int             `json:"bobbins_count" validate:"omitempty,min=0"`
	Status       *string          `json:"status"        validate:"omitempty,oneof=IN_PROGRESS READY"`
	Dimensions   *DimensionsInput `json:"dimensions"`
	// TripDate moves a TRUCK pallet to another date; empty string clears it.
	TripDate *string `json:"trip_date" validate:"omitempty,max=10"`
}

type SetStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=IN_PROGRESS READY"`
}

// AssignRequest schedules pallets on a trip, addressed by id or by date.
type AssignRequest struct {
	PalletIDs []uuid.UUID `json:"pallet_ids" validate:"required,min=1"`
	TripID    *uuid.UUID  `json:"trip_id"`
	TripDate  *string     `json:"trip_date"  validate:"omitempty,datetime=2006-01-02"`
}

// PalletIDsRequest is the body of bulk operations (send, delete).
type PalletIDsRequest struct {
	PalletIDs []uuid.UUID `json:"pallet_ids" validate:"required,min=1"`
}

// ── Response DTOs ─────────────────────────────────────────────────────────────

type PalletResponse struct {
	ID           uuid.UUID  `json:"id"`
	Client       string     `json:"client"`
	PalletNo     string     `json:"pallet_no"`
	BobbinsCount int        `json:"bobbins_count"`
	Status       string     `json:"status"`
	ShippingType string     `json:"shipping_type"`
	Dimensions   *string    `json:"dimensions,omitempty"`
	DimsLabel    string     `json:"dimensions_label"`
	TripID       *uuid.UUID `json:"trip_id,omitempty"`
	TripDate     *string    `json:"trip_date,omitempty"`
	SentAt       *time.Time `json:"sent_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

type AssignResponse struct {
	TripID   uuid.UUID `json:"trip_id"`
	Assigned int64     `json:"assigned"`
}

// MarkSentResponse reports both halves of a send: the pallets stamped with
// sent_at and the trips moved to SHIPPED by this call.
type MarkSentResponse struct {
	PalletsSent  []uuid.UUID `json:"pallets_sent"`
	TripsShipped []uuid.UUID `json:"trips_shipped"`
	SentAt       time.Time   `json:"sent_at"`
}

type DeleteResponse struct {
	Deleted int64 `json:"deleted"`
}
