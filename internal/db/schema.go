package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

type migration struct {
	version string
	sql     string
}

var migrations = []migration{
	{
		version: "000_create_community",
		sql: `
			CREATE TABLE IF NOT EXISTS community
			(
				id         SERIAL PRIMARY KEY,
				name       VARCHAR(100) NOT NULL UNIQUE,
				created_at TIMESTAMP WITHOUT TIME ZONE NOT NULL
			)`,
	},
	{
		version: "001_create_app_user",
		sql: `
			CREATE TABLE IF NOT EXISTS app_user
			(
				id              SERIAL PRIMARY KEY,
				username        VARCHAR(80)  NOT NULL UNIQUE,
				password_hash   VARCHAR(120) NOT NULL,
				height          DOUBLE PRECISION NOT NULL DEFAULT 0,
				weight          DOUBLE PRECISION,
				age             INTEGER NOT NULL DEFAULT 0,
				gender          VARCHAR(10) NOT NULL DEFAULT '',
				goal_kind       VARCHAR(10) NOT NULL DEFAULT 'text',
				goal_name       VARCHAR(100) NOT NULL DEFAULT '',
				goal_text       VARCHAR(100) NOT NULL DEFAULT '',
				goal_value      DOUBLE PRECISION NOT NULL DEFAULT 0,
				created_at      TIMESTAMP WITHOUT TIME ZONE NOT NULL,
				steps           INTEGER NOT NULL DEFAULT 0,
				calorie_intake  INTEGER NOT NULL DEFAULT 0,
				dashboard_image BYTEA,
				bmi             DOUBLE PRECISION,
				community_id    INTEGER REFERENCES community (id)
			)`,
	},
	{
		version: "002_create_user_activity",
		sql: `
			CREATE TABLE IF NOT EXISTS user_activity
			(
				id             SERIAL PRIMARY KEY,
				user_id        INTEGER NOT NULL REFERENCES app_user (id),
				date           TIMESTAMP WITHOUT TIME ZONE NOT NULL,
				steps          INTEGER NOT NULL DEFAULT 0,
				calorie_intake INTEGER NOT NULL DEFAULT 0
			);
			CREATE INDEX IF NOT EXISTS ix_user_activity_user_date ON user_activity (user_id, date)`,
	},
	{
		version: "003_create_user_weight",
		sql: `
			CREATE TABLE IF NOT EXISTS user_weight
			(
				id      SERIAL PRIMARY KEY,
				user_id INTEGER NOT NULL REFERENCES app_user (id),
				date    TIMESTAMP WITHOUT TIME ZONE NOT NULL,
				weight  DOUBLE PRECISION NOT NULL
			);
			CREATE INDEX IF NOT EXISTS ix_user_weight_user_date ON user_weight (user_id, date)`,
	},
}

// EnsureSchema creates the tables if they are missing. Safe to run on every start.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migration
		(
			version    VARCHAR PRIMARY KEY,
			applied_at TIMESTAMP WITHOUT TIME ZONE NOT NULL DEFAULT now()
		)`,
	); err != nil {
		return fmt.Errorf("create schema_migration table: %w", err)
	}

	for _, m := range migrations {
		var applied bool
		if err := pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM schema_migration WHERE version = $1)`,
			m.version,
		).Scan(&applied); err != nil {
			return fmt.Errorf("check migration %s: %w", m.version, err)
		}
		if applied {
			continue
		}

		if _, err := pool.Exec(ctx, m.sql); err != nil {
			return fmt.Errorf("apply migration %s: %w", m.version, err)
		}
		if _, err := pool.Exec(ctx,
			`INSERT INTO schema_migration (version) VALUES ($1)`,
			m.version,
		); err != nil {
			return fmt.Errorf("record migration %s: %w", m.version, err)
		}
		log.Debugf("migration applied: %s", m.version)
	}

	return nil
}
