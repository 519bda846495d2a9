// Package grouping turns a flat pallet list into the trip-date board: one
// bucket per trip date, pallets ordered by client, with per-bucket and
// per-client totals. Everything here is pure; the same input set always
// yields the same output regardless of input order.
package grouping

import (
	"slices"
	"strings"

	"github.com/Lysium16/bancalplast-lysium/internal/model"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// NoTripKey is the bucket key for pallets not yet scheduled on a trip.
const NoTripKey = "NONE"

// Totals counts pallets and bobbins.
type Totals struct {
	Pallets int `json:"pallets"`
	Bobbins int `json:"bobbins"`
}

func (t *Totals) add(p model.Pallet) {
	t.Pallets++
	t.Bobbins += p.BobbinsCount
}

// ClientSummary is one row per distinct client in a group.
type ClientSummary struct {
	Client string `json:"client"`
	Totals
}

// Group is one trip-date bucket. TripDate is empty for the NoTripKey bucket.
type Group struct {
	Key      string
	TripDate string
	Pallets  []model.Pallet
	Totals   Totals
	Clients  []ClientSummary
}

// TripDateOf resolves a pallet's trip date from its preloaded Trip relation.
func TripDateOf(p model.Pallet) (string, bool) {
	if p.Trip == nil {
		return "", false
	}
	return p.Trip.DateKey(), true
}

// ByTripThenClient partitions pallets by trip date. The NoTripKey bucket
// always comes first, dated buckets follow in ascending date order.
// Within a bucket pallets are ordered by client, then pallet number.
func ByTripThenClient(pallets []model.Pallet, tripDateOf func(model.Pallet) (string, bool)) []Group {
	if tripDateOf == nil {
		tripDateOf = TripDateOf
	}
	buckets := make(map[string][]model.Pallet)
	for _, p := range pallets {
		key := NoTripKey
		if d, ok := tripDateOf(p); ok && d != "" {
			key = d
		}
		buckets[key] = append(buckets[key], p)
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeys)

	col := newCollator()
	groups := make([]Group, 0, len(keys))
	for _, k := range keys {
		members := buckets[k]
		slices.SortStableFunc(members, func(a, b model.Pallet) int { return comparePallets(col, a, b) })

		g := Group{Key: k, Pallets: members}
		if k != NoTripKey {
			g.TripDate = k
		}
		byClient := make(map[string]*ClientSummary)
		for _, p := range members {
			g.Totals.add(p)
			cs, ok := byClient[p.Client]
			if !ok {
				cs = &ClientSummary{Client: p.Client}
				byClient[p.Client] = cs
			}
			cs.add(p)
		}
		g.Clients = make([]ClientSummary, 0, len(byClient))
		for _, cs := range byClient {
			g.Clients = append(g.Clients, *cs)
		}
		slices.SortFunc(g.Clients, func(a, b ClientSummary) int { return compareText(col, a.Client, b.Client) })
		groups = append(groups, g)
	}
	return groups
}

// Filter keeps pallets whose client, pallet number or dimensions contain
// query, case-insensitively. A blank query keeps everything.
func Filter(pallets []model.Pallet, query string) []model.Pallet {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return pallets
	}
	out := make([]model.Pallet, 0, len(pallets))
	for _, p := range pallets {
		dims := ""
		if p.Dimensions != nil {
			dims = *p.Dimensions
		}
		if strings.Contains(strings.ToLower(p.Client), q) ||
			strings.Contains(strings.ToLower(p.PalletNo), q) ||
			strings.Contains(strings.ToLower(dims), q) {
			out = append(out, p)
		}
	}
	return out
}

// SortByClient orders pallets the same way group members are ordered.
func SortByClient(pallets []model.Pallet) {
	col := newCollator()
	slices.SortStableFunc(pallets, func(a, b model.Pallet) int { return comparePallets(col, a, b) })
}

func newCollator() *collate.Collator { return collate.New(language.Italian) }

func compareKeys(a, b string) int {
	switch {
	case a == b:
		return 0
	case a == NoTripKey:
		return -1
	case b == NoTripKey:
		return 1
	}
	return strings.Compare(a, b)
}

// compareText orders by collation first and falls back to byte order, so
// two distinct strings never compare equal.
func compareText(col *collate.Collator, a, b string) int {
	if c := col.CompareString(a, b); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

func comparePallets(col *collate.Collator, a, b model.Pallet) int {
	if c := compareText(col, a.Client, b.Client); c != 0 {
		return c
	}
	if c := compareText(col, a.PalletNo, b.PalletNo); c != 0 {
		return c
	}
	return strings.Compare(a.ID.String(), b.ID.String())
}
