package service

import (
	"github.com/Lysium16/bancalplast-lysium/internal/dimensions"
	"github.com/Lysium16/bancalplast-lysium/internal/dto"
	"github.com/Lysium16/bancalplast-lysium/internal/grouping"
	"github.com/Lysium16/bancalplast-lysium/internal/model"
	"github.com/Lysium16/bancalplast-lysium/internal/tripdate"

	"github.com/google/uuid"
)

func mapPallet(p model.Pallet) dto.PalletResponse {
	resp := dto.PalletResponse{
		ID:           p.ID,
		Client:       p.Client,
		PalletNo:     p.PalletNo,
		BobbinsCount: p.BobbinsCount,
		Status:       string(p.Status),
		ShippingType: string(p.ShippingType),
		Dimensions:   p.Dimensions,
		DimsLabel:    dimensions.Pretty(p.Dimensions),
		TripID:       p.TripID,
		SentAt:       p.SentAt,
		CreatedAt:    p.CreatedAt,
	}
	if d, ok := grouping.TripDateOf(p); ok {
		resp.TripDate = &d
	}
	return resp
}

func mapPallets(list []model.Pallet) []dto.PalletResponse {
	out := make([]dto.PalletResponse, 0, len(list))
	for _, p := range list {
		out = append(out, mapPallet(p))
	}
	return out
}

func mapTrip(t model.Trip) dto.TripResponse {
	return dto.TripResponse{
		ID:        t.ID,
		TripDate:  t.DateKey(),
		Label:     tripdate.Label(t.DateKey()),
		Status:    string(t.Status),
		ShippedAt: t.ShippedAt,
		CreatedAt: t.CreatedAt,
	}
}

// noTripLabel is shown for the bucket of pallets without a trip.
const noTripLabel = "Senza viaggio"

func mapGroups(groups []grouping.Group) ([]dto.BoardGroupResponse, dto.TotalsResponse) {
	out := make([]dto.BoardGroupResponse, 0, len(groups))
	var total dto.TotalsResponse
	for _, g := range groups {
		gr := dto.BoardGroupResponse{
			Key:     g.Key,
			Label:   noTripLabel,
			Totals:  dto.TotalsResponse{Pallets: g.Totals.Pallets, Bobbins: g.Totals.Bobbins},
			Clients: make([]dto.ClientSummaryResponse, 0, len(g.Clients)),
			Pallets: mapPallets(g.Pallets),
			TripIDs: tripIDsOf(g.Pallets),
		}
		if g.Key != grouping.NoTripKey {
			d := g.TripDate
			gr.TripDate = &d
			gr.Label = tripdate.Label(d)
		}
		for _, cs := range g.Clients {
			gr.Clients = append(gr.Clients, dto.ClientSummaryResponse{
				Client:  cs.Client,
				Pallets: cs.Pallets,
				Bobbins: cs.Bobbins,
			})
		}
		total.Pallets += g.Totals.Pallets
		total.Bobbins += g.Totals.Bobbins
		out = append(out, gr)
	}
	return out, total
}

func tripIDsOf(list []model.Pallet) []uuid.UUID {
	ids := []uuid.UUID{}
	seen := make(map[uuid.UUID]bool)
	for _, p := range list {
		if p.TripID == nil || seen[*p.TripID] {
			continue
		}
		seen[*p.TripID] = true
		ids = append(ids, *p.TripID)
	}
	return ids
}
