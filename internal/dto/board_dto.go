package dto

import (
	"fmt"

	"github.com/google/uuid"
)

// RefreshReason says what triggered a board reload.
type RefreshReason string

const (
	RefreshUser    RefreshReason = "user"
	RefreshFocus   RefreshReason = "focus"
	RefreshVisible RefreshReason = "visible"
)

// ParseRefreshReason maps the ?reason= query value. Empty means RefreshUser.
func ParseRefreshReason(s string) (RefreshReason, error) {
	switch RefreshReason(s) {
	case "", RefreshUser:
		return RefreshUser, nil
	case RefreshFocus, RefreshVisible:
		return RefreshReason(s), nil
	}
	return "", fmt.Errorf("unknown refresh reason %q", s)
}

// Cacheable reports whether a board request may be served from cache.
func (r RefreshReason) Cacheable() bool { return r != RefreshUser }

type TotalsResponse struct {
	Pallets int `json:"pallets"`
	Bobbins int `json:"bobbins"`
}

type ClientSummaryResponse struct {
	Client  string `json:"client"`
	Pallets int    `json:"pallets"`
	Bobbins int    `json:"bobbins"`
}

// BoardGroupResponse is one trip-date bucket. TripDate is nil for "NONE".
// TripIDs lists the trips in the bucket in order of first appearance; a date
// can hold more than one once an earlier trip for it has shipped.
type BoardGroupResponse struct {
	Key      string                  `json:"key"`
	TripDate *string                 `json:"trip_date"`
	TripIDs  []uuid.UUID             `json:"trip_ids"`
	Label    string                  `json:"label"`
	Totals   TotalsResponse          `json:"totals"`
	Clients  []ClientSummaryResponse `json:"clients"`
	Pallets  []PalletResponse        `json:"pallets"`
}

type BoardResponse struct {
	Groups    []BoardGroupResponse `json:"groups"`
	Totals    TotalsResponse       `json:"totals"`
	Reason    RefreshReason        `json:"reason"`
	FromCache bool                 `json:"from_cache"`
}
