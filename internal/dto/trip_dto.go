package dto

import (
	"time"

	"github.com/google/uuid"
)

type ResolveTripRequest struct {
	TripDate string `json:"trip_date" validate:"required,datetime=2006-01-02"`
}

type TripResponse struct {
	ID        uuid.UUID  `json:"id"`
	TripDate  string     `json:"trip_date"`
	Label     string     `json:"label"`
	Status    string     `json:"status"`
	ShippedAt *time.Time `json:"shipped_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

type DeleteTripResponse struct {
	TripID         uuid.UUID `json:"trip_id"`
	PalletsDeleted int64     `json:"pallets_deleted"`
}
