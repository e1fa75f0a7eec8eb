package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`CREATE TABLE IF NOT EXISTS cities (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(128) NOT NULL,
		name_pt VARCHAR(128) NOT NULL,
		name_en VARCHAR(128) NOT NULL,
		name_es VARCHAR(128) NOT NULL,
		country_code VARCHAR(2) NOT NULL DEFAULT 'PT',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS zones (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		city_id UUID NOT NULL REFERENCES cities(id) ON DELETE CASCADE,
		name VARCHAR(128) NOT NULL,
		name_pt VARCHAR(128) NOT NULL,
		name_en VARCHAR(128) NOT NULL,
		name_es VARCHAR(128) NOT NULL,
		circuit_code VARCHAR(64),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_zones_city_id ON zones (city_id);`,
	`CREATE TABLE IF NOT EXISTS garbage_types (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		code VARCHAR(64) NOT NULL,
		name_pt VARCHAR(128) NOT NULL,
		name_en VARCHAR(128) NOT NULL,
		name_es VARCHAR(128) NOT NULL,
		color_hex VARCHAR(9) NOT NULL,
		icon VARCHAR(64) NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_garbage_types_code ON garbage_types (code);`,
	`CREATE TABLE IF NOT EXISTS collection_schedules (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		zone_id UUID NOT NULL REFERENCES zones(id) ON DELETE CASCADE,
		garbage_type_id UUID NOT NULL REFERENCES garbage_types(id),
		day_of_week SMALLINT NOT NULL CHECK (day_of_week BETWEEN 0 AND 6),
		week_interval SMALLINT NOT NULL DEFAULT 1 CHECK (week_interval >= 1),
		start_date DATE NOT NULL,
		end_date DATE,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_collection_schedules_window') THEN
			ALTER TABLE collection_schedules
				ADD CONSTRAINT chk_collection_schedules_window CHECK (end_date IS NULL OR end_date >= start_date);
		END IF;
	END
	$$;`,
	`CREATE INDEX IF NOT EXISTS idx_collection_schedules_zone ON collection_schedules (zone_id) WHERE is_active;`,
	`CREATE TABLE IF NOT EXISTS device_tokens (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		token TEXT NOT NULL,
		device_id VARCHAR(128),
		user_id UUID,
		zone_id UUID REFERENCES zones(id) ON DELETE SET NULL,
		notifications_enabled BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_device_tokens_token ON device_tokens (token);`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'notification_status') THEN
			CREATE TYPE notification_status AS ENUM ('scheduled', 'sent', 'cancelled', 'failed');
		END IF;
	END
	$$;`,
	`CREATE TABLE IF NOT EXISTS notification_schedules (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		device_token_id UUID NOT NULL REFERENCES device_tokens(id) ON DELETE CASCADE,
		garbage_type_id UUID NOT NULL REFERENCES garbage_types(id),
		scheduled_date DATE NOT NULL,
		notification_date TIMESTAMPTZ NOT NULL,
		external_id TEXT,
		status notification_status NOT NULL DEFAULT 'scheduled',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_notification_schedules_due ON notification_schedules (notification_date) WHERE status = 'scheduled';`,
	`CREATE INDEX IF NOT EXISTS idx_notification_schedules_device ON notification_schedules (device_token_id, status);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
