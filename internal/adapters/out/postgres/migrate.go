package postgres

import (
	"context"
	"fmt"

	"dispatch/internal/adapters/out/postgres/courierrepo"
	"dispatch/internal/adapters/out/postgres/locationrepo"
	"dispatch/internal/adapters/out/postgres/packagerepo"

	"gorm.io/gorm"
)

// Schema is the Postgres schema holding every dispatch table.
const Schema = "delivery"

const historyCourierFK = `
DO $$
BEGIN
	IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'fk_location_history_courier') THEN
		ALTER TABLE delivery.courier_location_history
			ADD CONSTRAINT fk_location_history_courier
			FOREIGN KEY (courier_id) REFERENCES delivery.couriers (id) ON DELETE CASCADE;
	END IF;
END
$$;`

// Migrate creates the schema and brings all tables and indexes up to date.
// It is safe to run on every start.
func Migrate(ctx context.Context, db *gorm.DB) error {
	conn := db.WithContext(ctx)

	if err := conn.Exec(fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", Schema)).Error; err != nil {
		return fmt.Errorf("create schema %s: %w", Schema, err)
	}

	if err := conn.AutoMigrate(
		&courierrepo.CourierDTO{},
		&packagerepo.PackageDTO{},
		&locationrepo.CurrentLocationDTO{},
		&locationrepo.HistoryDTO{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	if err := conn.Exec(historyCourierFK).Error; err != nil {
		return fmt.Errorf("add history foreign key: %w", err)
	}

	return nil
}
