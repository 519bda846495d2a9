package infra

// pdf.go: trip manifest (packing list) using go-pdf/fpdf.
// One A4 page set per trip:
//   - header with trip date and status
//   - per-client summary (pallets, bobbins)
//   - pallet rows ordered by client and pallet number
//   - totals

import (
	"fmt"
	"io"

	"github.com/Lysium16/bancalplast-lysium/internal/dimensions"
	"github.com/Lysium16/bancalplast-lysium/internal/grouping"
	"github.com/Lysium16/bancalplast-lysium/internal/model"
	"github.com/Lysium16/bancalplast-lysium/internal/tripdate"

	"github.com/go-pdf/fpdf"
)

// WriteTripManifestPDF renders the manifest for trip and its pallets to w.
func WriteTripManifestPDF(w io.Writer, trip model.Trip, pallets []model.Pallet) error {
	groups := grouping.ByTripThenClient(pallets, func(model.Pallet) (string, bool) { return trip.DateKey(), true })

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, tr("Distinta viaggio "+tripdate.Label(trip.DateKey())), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	status := "Aperto"
	if trip.Status == model.TripShipped {
		status = "Spedito"
		if trip.ShippedAt != nil {
			status += " il " + trip.ShippedAt.Format("02/01/2006 15:04")
		}
	}
	pdf.CellFormat(contentW, 5, tr("Stato: "+status), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	if len(groups) == 0 {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.CellFormat(contentW, 6, tr("Nessun bancale associato."), "", 1, "L", false, 0, "")
		return pdf.Output(w)
	}
	g := groups[0]

	// ── Client summary ───────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW*0.6, 6, tr("Cliente"), "B", 0, "L", false, 0, "")
	pdf.CellFormat(contentW*0.2, 6, tr("Bancali"), "B", 0, "R", false, 0, "")
	pdf.CellFormat(contentW*0.2, 6, tr("Bobine"), "B", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for _, cs := range g.Clients {
		pdf.CellFormat(contentW*0.6, 6, tr(cs.Client), "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.2, 6, fmt.Sprint(cs.Pallets), "", 0, "R", false, 0, "")
		pdf.CellFormat(contentW*0.2, 6, fmt.Sprint(cs.Bobbins), "", 1, "R", false, 0, "")
	}
	pdf.Ln(6)

	// ── Pallet rows ──────────────────────────────────────────────────────────
	cols := []float64{contentW * 0.34, contentW * 0.16, contentW * 0.14, contentW * 0.12, contentW * 0.24}
	pdf.SetFont("Helvetica", "B", 9)
	for i, h := range []string{"Cliente", "Bancale", "Tipo", "Bobine", "Misure (L × P × H)"} {
		align := "L"
		if i == 3 {
			align = "R"
		}
		ln := 0
		if i == len(cols)-1 {
			ln = 1
		}
		pdf.CellFormat(cols[i], 6, tr(h), "B", ln, align, false, 0, "")
	}
	pdf.SetFont("Helvetica", "", 9)
	for _, p := range g.Pallets {
		kind := "Camion"
		if p.ShippingType == model.ShippingCourier {
			kind = "Corriere"
		}
		pdf.CellFormat(cols[0], 5, tr(p.Client), "", 0, "L", false, 0, "")
		pdf.CellFormat(cols[1], 5, tr(p.PalletNo), "", 0, "L", false, 0, "")
		pdf.CellFormat(cols[2], 5, kind, "", 0, "L", false, 0, "")
		pdf.CellFormat(cols[3], 5, fmt.Sprint(p.BobbinsCount), "", 0, "R", false, 0, "")
		pdf.CellFormat(cols[4], 5, tr(dimensions.Pretty(p.Dimensions)), "", 1, "L", false, 0, "")
	}

	// ── Totals ───────────────────────────────────────────────────────────────
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW, 6, fmt.Sprintf("Totale: %d bancali, %d bobine", g.Totals.Pallets, g.Totals.Bobbins), "T", 1, "R", false, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("pdf: write manifest: %w", err)
	}
	return nil
}
