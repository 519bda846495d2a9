// Command palletdiag runs read/write sanity checks against the pallet store.
//
//	palletdiag pallets   latest pallets with their trip dates
//	palletdiag trips     select / insert / re-select / delete a probe trip
//
// Configuration comes from the environment, .env.local and .env, in that order.
package main

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/Lysium16/bancalplast-lysium/internal/config"
	"github.com/Lysium16/bancalplast-lysium/internal/diag"
	"github.com/Lysium16/bancalplast-lysium/internal/infra"
	"github.com/Lysium16/bancalplast-lysium/internal/repository"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var rootCmd = &cobra.Command{
	Use:           "palletdiag",
	Short:         "Store diagnostics for the pallet tracking backend",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var palletsCmd = &cobra.Command{
	Use:   "pallets",
	Short: "List the latest pallets with their resolved trip dates",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		db, err := openStore()
		if err != nil {
			return err
		}
		return diag.PalletReport(cmd.Context(), repository.NewPalletRepository(db), cmd.OutOrStdout())
	},
}

var tripsCmd = &cobra.Command{
	Use:   "trips",
	Short: "Insert, read back and delete a probe trip",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		db, err := openStore()
		if err != nil {
			return err
		}
		return diag.TripProbe(cmd.Context(), repository.NewTripRepository(db), cmd.OutOrStdout())
	},
}

func openStore() (*gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return infra.Connect(cfg.DatabaseURL)
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Existing environment variables win over the file.
	if err := godotenv.Load(".env.local"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatal().Err(err).Msg("failed to read .env.local")
	}

	rootCmd.AddCommand(palletsCmd, tripsCmd)
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("diagnostics failed")
		os.Exit(1)
	}
}
