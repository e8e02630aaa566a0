package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	companydomain "github.com/smallbiznis/biztime/internal/company/domain"
	invoicedomain "github.com/smallbiznis/biztime/internal/invoice/domain"
	"github.com/smallbiznis/biztime/pkg/db"
	"gorm.io/gorm"
)

// Apply creates the companies and invoices tables for the configured dialect.
// Postgres runs the embedded SQL through golang-migrate; other dialects use AutoMigrate.
func Apply(conn *gorm.DB, dialect string) error {
	if conn == nil {
		return errors.New("migration database handle is required")
	}

	if dialect != db.DialectPostgres {
		return AutoMigrate(conn)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	return RunMigrations(sqlDB)
}

func RunMigrations(sqlDB *sql.DB) error {
	if sqlDB == nil {
		return errors.New("migration database handle is required")
	}

	sub, err := fs.Sub(embeddedMigrations, migrationsDir)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}

	source, err := iofs.New(sub, ".")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	driver, err := postgres.WithInstance(sqlDB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	upErr := migrator.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", upErr)
	}
	// migrator.Close would close the shared *sql.DB.

	return nil
}

func AutoMigrate(conn *gorm.DB) error {
	if err := conn.AutoMigrate(&companydomain.Company{}, &invoicedomain.Invoice{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
