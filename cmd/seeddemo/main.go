// cmd/seeddemo/main.go: loads a small demo floor: truck pallets on two
// upcoming trips, a few unscheduled ones and two courier pallets.
// Uso: go run ./cmd/seeddemo
package main

import (
	"context"
	"os"
	"time"

	"github.com/Lysium16/bancalplast-lysium/internal/config"
	"github.com/Lysium16/bancalplast-lysium/internal/dto"
	"github.com/Lysium16/bancalplast-lysium/internal/infra"
	"github.com/Lysium16/bancalplast-lysium/internal/repository"
	"github.com/Lysium16/bancalplast-lysium/internal/service"
	"github.com/Lysium16/bancalplast-lysium/internal/tripdate"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	tripRepo := repository.NewTripRepository(db)
	palletRepo := repository.NewPalletRepository(db)
	trips := service.NewTripService(tripRepo, palletRepo, nil)
	pallets := service.NewPalletService(palletRepo, tripRepo, trips, nil)

	ctx := context.Background()
	today := time.Now().UTC()
	soon := tripdate.Format(today.AddDate(0, 0, 1))
	later := tripdate.Format(today.AddDate(0, 0, 3))

	demo := []dto.CreatePalletRequest{
		{Client: "Plastica Rossi", PalletNo: "101", BobbinsCount: 12, Status: "READY", ShippingType: "TRUCK", TripDate: &soon},
		{Client: "Plastica Rossi", PalletNo: "102", BobbinsCount: 10, Status: "READY", ShippingType: "TRUCK", TripDate: &soon},
		{Client: "Bianchi Imballaggi", PalletNo: "7", BobbinsCount: 8, Status: "READY", ShippingType: "TRUCK", TripDate: &later},
		{Client: "Èlite Film", PalletNo: "3", BobbinsCount: 6, Status: "READY", ShippingType: "TRUCK"},
		{Client: "Verdi & C.", PalletNo: "44", BobbinsCount: 4, ShippingType: "TRUCK"},
		{Client: "Neri Packaging", PalletNo: "C-1", BobbinsCount: 2, Status: "READY", ShippingType: "COURIER",
			Dimensions: &dto.DimensionsInput{L: "80", P: "120", H: "110"}},
		{Client: "Neri Packaging", PalletNo: "C-2", BobbinsCount: 3, ShippingType: "COURIER",
			Dimensions: &dto.DimensionsInput{L: "80", P: "120", H: "95"}},
	}

	for _, req := range demo {
		p, err := pallets.Create(ctx, req)
		if err != nil {
			log.Fatal().Err(err).Str("client", req.Client).Str("pallet_no", req.PalletNo).Msg("seed failed")
		}
		log.Info().Str("id", p.ID.String()).Str("client", p.Client).Str("pallet_no", p.PalletNo).Msg("pallet created")
	}
	log.Info().Int("pallets", len(demo)).Msg("demo data loaded")
}
