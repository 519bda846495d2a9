package model

import (
	"time"

	"github.com/google/uuid"
)

// PalletStatus is the production-side completion state. Transitions are free
// in both directions.
type PalletStatus string

const (
	PalletInProgress PalletStatus = "IN_PROGRESS"
	PalletReady      PalletStatus = "READY"
)

// ShippingType is fixed at creation; no update path changes it.
type ShippingType string

const (
	ShippingTruck   ShippingType = "TRUCK"
	ShippingCourier ShippingType = "COURIER"
)

// Pallet is a physical unit of production awaiting shipment.
// Dimensions is set only for courier pallets (canonical "LxPxH").
type Pallet struct {
	ID           uuid.UUID    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Client       string       `gorm:"index;not null"`
	PalletNo     string       `gorm:"not null"`
	BobbinsCount int          `gorm:"not null;default:0"`
	Status       PalletStatus `gorm:"type:text;not null;default:'IN_PROGRESS'"`
	ShippingType ShippingType `gorm:"type:text;not null"`
	Dimensions   *string
	TripID       *uuid.UUID `gorm:"type:uuid;index"`
	SentAt       *time.Time
	CreatedAt    time.Time

	// Trip is populated only when the repository preloads it.
	Trip *Trip `gorm:"foreignKey:TripID"`
}

func (Pallet) TableName() string { return "pallets" }

// IsSent reports whether the pallet already left on a trip.
func (p Pallet) IsSent() bool { return p.SentAt != nil }
