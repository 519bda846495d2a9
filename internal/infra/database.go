package infra

import (
	"fmt"

	"github.com/Lysium16/bancalplast-lysium/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens a GORM connection backed by pgx and brings the schema up
// to date (AutoMigrate plus the idempotent patches below).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := Connect(dsn)
	if err != nil {
		return nil, err
	}
	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Connect opens the pool only. Tools that inspect a live database use it so
// they never alter the schema.
func Connect(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(2)
	return db, nil
}

// RunMigrations creates or updates the trips and pallets tables, then applies
// the constraints GORM tags cannot express.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.Trip{}, &model.Pallet{}); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	if err := applySchemaPatches(db); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}
	return nil
}

// applySchemaPatches runs idempotent DDL. CHECK constraints are added NOT
// VALID so rows written before the constraint existed do not block startup.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		{"pallets status check", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_pallets_status') THEN
    ALTER TABLE pallets ADD CONSTRAINT chk_pallets_status
      CHECK (status IN ('IN_PROGRESS', 'READY')) NOT VALID;
  END IF;
END $$`},
		{"pallets shipping type check", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_pallets_shipping_type') THEN
    ALTER TABLE pallets ADD CONSTRAINT chk_pallets_shipping_type
      CHECK (shipping_type IN ('TRUCK', 'COURIER')) NOT VALID;
  END IF;
END $$`},
		{"pallets bobbins non-negative", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_pallets_bobbins_count') THEN
    ALTER TABLE pallets ADD CONSTRAINT chk_pallets_bobbins_count
      CHECK (bobbins_count >= 0) NOT VALID;
  END IF;
END $$`},
		// courier pallets carry dimensions, truck pallets never do
		{"pallets dimensions by shipping type", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_pallets_dimensions') THEN
    ALTER TABLE pallets ADD CONSTRAINT chk_pallets_dimensions CHECK (
      (shipping_type = 'COURIER' AND dimensions IS NOT NULL AND btrim(dimensions) <> '')
      OR (shipping_type = 'TRUCK' AND dimensions IS NULL)
    ) NOT VALID;
  END IF;
END $$`},
		{"trips status check", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_trips_status') THEN
    ALTER TABLE trips ADD CONSTRAINT chk_trips_status
      CHECK (status IN ('OPEN', 'SHIPPED')) NOT VALID;
  END IF;
END $$`},
		// One OPEN trip per date. If legacy duplicates exist the index is
		// skipped with a notice and the resolver falls back to first-match.
		{"trips unique open date", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'uq_trips_open_date') THEN
    BEGIN
      CREATE UNIQUE INDEX uq_trips_open_date ON trips (trip_date) WHERE status = 'OPEN';
    EXCEPTION WHEN unique_violation THEN
      RAISE NOTICE 'uq_trips_open_date skipped: duplicate OPEN trips exist';
    END;
  END IF;
END $$`},
		{"pallets sent_at index", `CREATE INDEX IF NOT EXISTS idx_pallets_sent_at ON pallets (sent_at)`},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
