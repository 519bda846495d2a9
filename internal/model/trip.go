package model

import (
	"time"

	"github.com/google/uuid"
)

type TripStatus string

const (
	TripOpen    TripStatus = "OPEN"
	TripShipped TripStatus = "SHIPPED"
)

// Trip is a shipment batch identified by a calendar date. At most one OPEN
// trip exists per date (partial unique index, see infra.applySchemaPatches).
type Trip struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TripDate  time.Time  `gorm:"type:date;not null;index"`
	Status    TripStatus `gorm:"type:text;not null;default:'OPEN'"`
	ShippedAt *time.Time
	CreatedAt time.Time
}

func (Trip) TableName() string { return "trips" }

// DateKey returns the trip date in ISO form (YYYY-MM-DD).
func (t Trip) DateKey() string { return t.TripDate.Format("2006-01-02") }
