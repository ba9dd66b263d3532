package db

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	migrate "github.com/golang-migrate/migrate/v4"
	// Blank imports register the postgres driver and file source for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/gfq-app/gfq/internal/models"
	"github.com/gfq-app/gfq/internal/store"
)

// ConnectAndMigrate opens the durable backend selected by the DSN and brings
// the schema up to date. A DSN that cannot be opened is surfaced as
// store.ErrStoreUnavailable, which is fatal to the session.
//
// Schema: if MIGRATIONS=1 (postgres deployments) the SQL migrations in
// ./migrations run via golang-migrate; otherwise AutoMigrate keeps the dev
// and sqlite paths simple.
func ConnectAndMigrate(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("%w: DATABASE_DSN est vide", store.ErrStoreUnavailable)
	}
	logLevel := logger.Silent
	if os.Getenv("DB_DEBUG") == "1" {
		logLevel = logger.Info
	}
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel)}

	var conn *gorm.DB
	var err error
	if IsPostgresDSN(dsn) {
		// A postgres server may still be starting; retry a few times.
		for i := 0; i < 10; i++ {
			conn, err = gorm.Open(postgres.Open(dsn), cfg)
			if err == nil {
				break
			}
			log.Println("retrying DB connection...", err)
			time.Sleep(2 * time.Second)
		}
	} else {
		conn, err = gorm.Open(sqlite.Open(dsn), cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrStoreUnavailable, err)
	}
	if pingErr := conn.Exec("SELECT 1").Error; pingErr != nil {
		return nil, fmt.Errorf("%w: ping: %v", store.ErrStoreUnavailable, pingErr)
	}
	log.Println("[DB] using DSN:", MaskDSN(dsn))

	if v := strings.ToLower(os.Getenv("MIGRATIONS")); v == "1" || v == "true" || v == "yes" {
		if !IsPostgresDSN(dsn) {
			return nil, fmt.Errorf("MIGRATIONS=1 requires a postgres DSN")
		}
		if err := runSQLMigrations(dsn); err != nil {
			return nil, fmt.Errorf("sql migrations failed: %w", err)
		}
	} else {
		for _, m := range []interface{}{&models.Zone{}, &models.Organization{}, &models.Invoice{}} {
			if migErr := conn.AutoMigrate(m); migErr != nil {
				return nil, fmt.Errorf("automigrate %T: %w", m, migErr)
			}
		}
	}
	return conn, nil
}

// runSQLMigrations executes the migrations in ./migrations using the
// golang-migrate file source.
func runSQLMigrations(dsn string) error {
	m, err := migrate.New("file://migrations", dsn)
	if err != nil {
		return err
	}
	if err = m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}
