package main

import (
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"dataqc/adapters/postgres"
	"dataqc/internal/config"
	"dataqc/internal/errors"
	"dataqc/ui"
)

// initDatabase initializes the PostgreSQL database connection
func initDatabase(appConfig *config.Config) (*sqlx.DB, error) {
	if appConfig.Database.URL == "" {
		return nil, errors.ConfigInvalid("DATABASE_URL is required for the report server")
	}

	db, err := sqlx.Connect("postgres", appConfig.Database.URL)
	if err != nil {
		return nil, errors.Wrap(errors.DatabaseError(err.Error()), "failed to connect to database")
	}

	if err := postgres.Migrate(db); err != nil {
		return nil, errors.Wrap(errors.DatabaseError(err.Error()), "failed to run migrations")
	}

	return db, nil
}

func main() {
	// .env is optional; environment variables win either way.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	db, err := initDatabase(appConfig)
	if err != nil {
		log.Fatalf("failed to initialize database [%s]: %v", errors.GetCode(err), err)
	}
	defer db.Close()

	reports := postgres.NewReportRepository(db)

	server := ui.NewServer(reports, appConfig.Server.GinMode)
	if err := server.Run(appConfig.Server.Port); err != nil {
		log.Fatalf("report server exited: %v", err)
	}
}
