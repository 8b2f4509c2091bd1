package main

import (
	"database/sql"
	"errors"

	"github.com/golang-migrate/migrate/v4"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/dvoronov/fintalk/internal/config"
	"github.com/dvoronov/fintalk/internal/logger"
)

func main() {
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open")
	}
	defer db.Close()

	driver, err := pgxmigrate.WithInstance(db, &pgxmigrate.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("pgxmigrate.WithInstance")
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "pgx", driver)
	if err != nil {
		log.Fatal().Err(err).Msg("migrate.NewWithDatabaseInstance")
	}

	preVersion, _, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		log.Fatal().Err(err).Msg("reading current migration version")
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Fatal().Err(err).Msg("applying migrations")
	}

	postVersion, _, err := m.Version()
	if err != nil {
		log.Fatal().Err(err).Msg("reading new migration version")
	}

	log.Info().
		Uint("pre_version", preVersion).
		Uint("post_version", postVersion).
		Msg("Migration status")
}
