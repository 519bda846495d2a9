// Package diag holds the store sanity checks run by cmd/palletdiag.
package diag

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/Lysium16/bancalplast-lysium/internal/model"
	"github.com/Lysium16/bancalplast-lysium/internal/repository"
	"github.com/Lysium16/bancalplast-lysium/internal/tripdate"
)

// RecentPallets is how many pallets the pallets report covers.
const RecentPallets = 20

// ProbeTripDate is far enough ahead never to collide with a real trip.
const ProbeTripDate = "2099-12-31"

// PalletReport prints the newest pallets with their resolved trip date and
// how many of them carry a trip.
func PalletReport(ctx context.Context, pallets repository.PalletRepository, w io.Writer) error {
	rows, err := pallets.List(ctx, repository.PalletFilter{NewestFirst: true, Limit: RecentPallets})
	if err != nil {
		return fmt.Errorf("list pallets: %w", err)
	}

	withTrip := 0
	for _, p := range rows {
		if p.TripID != nil {
			withTrip++
		}
	}
	fmt.Fprintf(w, "--- pallets, latest %d ---\n", RecentPallets)
	fmt.Fprintf(w, "with trip: %d  without trip: %d\n", withTrip, len(rows)-withTrip)

	for _, p := range rows {
		fmt.Fprintf(w, "%s | %s | %s | trip_date: %s\n", p.PalletNo, p.Client, p.ShippingType, tripColumn(p))
	}
	return nil
}

func tripColumn(p model.Pallet) string {
	switch {
	case p.TripID == nil:
		return "- (no trip)"
	case p.Trip == nil:
		return "?? (trip " + p.TripID.String() + " not found)"
	}
	return p.Trip.DateKey()
}

// TripProbe exercises the trips table end to end: read, insert a probe trip,
// read it back, delete it. A failed delete is reported but not returned.
func TripProbe(ctx context.Context, trips repository.TripRepository, w io.Writer) error {
	fmt.Fprintln(w, "1) select latest trips")
	recent, err := trips.ListRecent(ctx, 3)
	if err != nil {
		return fmt.Errorf("select trips: %w", err)
	}
	fmt.Fprintf(w, "   ok, %d rows\n", len(recent))
	for _, t := range recent {
		fmt.Fprintf(w, "   %s  %s  %s\n", t.ID, t.DateKey(), t.Status)
	}

	date, _ := tripdate.Parse(ProbeTripDate)
	fmt.Fprintf(w, "2) insert probe trip (%s)\n", ProbeTripDate)
	probe := &model.Trip{TripDate: date, Status: model.TripOpen}
	if err := trips.Create(ctx, probe); err != nil {
		return fmt.Errorf("insert trip: %w", err)
	}
	fmt.Fprintf(w, "   ok, id %s\n", probe.ID)

	fmt.Fprintln(w, "3) select probe trip")
	got, err := trips.FindByID(ctx, probe.ID)
	if err != nil {
		return fmt.Errorf("select probe trip: %w", err)
	}
	fmt.Fprintf(w, "   ok, %s %s\n", got.DateKey(), got.Status)

	fmt.Fprintln(w, "4) delete probe trip")
	if err := trips.Delete(ctx, probe.ID); err != nil {
		fmt.Fprintf(w, "   WARNING: delete failed: %v\n", err)
	} else {
		fmt.Fprintln(w, "   ok")
	}
	fmt.Fprintf(w, "done at %s\n", time.Now().Format(time.RFC3339))
	return nil
}
