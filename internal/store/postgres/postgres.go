// Package postgres implements the store.Store interface backed by PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"

	"github.com/groblegark/commtrack/internal/model"
	"github.com/groblegark/commtrack/internal/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PostgresStore implements store.Store backed by a PostgreSQL database.
type PostgresStore struct {
	db *sql.DB
}

// Compile-time check that PostgresStore implements store.Store.
var _ store.Store = (*PostgresStore)(nil)

// New opens a connection to the PostgreSQL database at the given URL,
// configures the connection pool, and runs any pending migrations.
func New(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func runMigrations(db *sql.DB) error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	dbDriver, err := migratepg.WithInstance(db, &migratepg.Config{})
	if err != nil {
		return fmt.Errorf("create migration db driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", dbDriver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

// Close closes the underlying database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) CreateCompany(ctx context.Context, c *model.Company) error {
	return queryCreateCompany(ctx, s.db, c)
}

func (s *PostgresStore) GetCompany(ctx context.Context, id string) (*model.Company, error) {
	return queryGetCompany(ctx, s.db, id)
}

func (s *PostgresStore) ListCompanies(ctx context.Context) ([]*model.Company, error) {
	return queryListCompanies(ctx, s.db)
}

func (s *PostgresStore) UpdateCompany(ctx context.Context, c *model.Company) error {
	return queryUpdateCompany(ctx, s.db, c)
}

func (s *PostgresStore) SetCompanyHighlight(ctx context.Context, id string, disabled bool) (*model.Company, error) {
	return querySetCompanyHighlight(ctx, s.db, id, disabled)
}

func (s *PostgresStore) DeleteCompany(ctx context.Context, id string) error {
	return queryDeleteCompany(ctx, s.db, id)
}

func (s *PostgresStore) CreateMethod(ctx context.Context, m *model.Method) error {
	return queryCreateMethod(ctx, s.db, m)
}

func (s *PostgresStore) ListMethods(ctx context.Context) ([]*model.Method, error) {
	return queryListMethods(ctx, s.db)
}

func (s *PostgresStore) DeleteMethod(ctx context.Context, id string) error {
	return queryDeleteMethod(ctx, s.db, id)
}

func (s *PostgresStore) CreateEvent(ctx context.Context, e *model.CommEvent) (bool, error) {
	return queryCreateEvent(ctx, s.db, e)
}

func (s *PostgresStore) GetEvent(ctx context.Context, id string) (*model.CommEvent, error) {
	return queryGetEvent(ctx, s.db, id)
}

func (s *PostgresStore) ListEvents(ctx context.Context, filter model.EventFilter) ([]*model.CommEvent, int, error) {
	return queryListEvents(ctx, s.db, filter)
}

func (s *PostgresStore) UpdateEvent(ctx context.Context, e *model.CommEvent) error {
	return queryUpdateEvent(ctx, s.db, e)
}

func (s *PostgresStore) DeleteEvent(ctx context.Context, id string) error {
	return queryDeleteEvent(ctx, s.db, id)
}

func (s *PostgresStore) LastEvents(ctx context.Context, companyID string, limit int, now time.Time) ([]*model.CommEvent, error) {
	return queryLastEvents(ctx, s.db, companyID, limit, now)
}

func (s *PostgresStore) NextEvent(ctx context.Context, companyID string, now time.Time) (*model.CommEvent, error) {
	return queryNextEvent(ctx, s.db, companyID, now)
}

func (s *PostgresStore) CountByMethod(ctx context.Context, from, to *time.Time) (map[string]int, error) {
	return queryCountByMethod(ctx, s.db, from, to, false)
}

func (s *PostgresStore) CountConfirmedByMethod(ctx context.Context, from, to *time.Time) (map[string]int, error) {
	return queryCountByMethod(ctx, s.db, from, to, true)
}

func (s *PostgresStore) CountOverdueCompanies(ctx context.Context, now time.Time) (int, error) {
	return queryCountOverdueCompanies(ctx, s.db, now)
}

func (s *PostgresStore) RecordOverdueSnapshot(ctx context.Context, snap *model.OverdueSnapshot) error {
	return queryRecordOverdueSnapshot(ctx, s.db, snap)
}

func (s *PostgresStore) ListOverdueSnapshots(ctx context.Context, from, to *time.Time) ([]*model.OverdueSnapshot, error) {
	return queryListOverdueSnapshots(ctx, s.db, from, to)
}

// RunInTransaction begins a database transaction, creates a txStore that
// delegates to it, calls fn, and commits on success or rolls back on error.
func (s *PostgresStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	txS := &txStore{tx: tx}
	if err := fn(txS); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// txStore implements store.Store using a *sql.Tx.
type txStore struct {
	tx *sql.Tx
}

// Compile-time check that txStore implements store.Store.
var _ store.Store = (*txStore)(nil)

func (s *txStore) CreateCompany(ctx context.Context, c *model.Company) error {
	return queryCreateCompany(ctx, s.tx, c)
}

func (s *txStore) GetCompany(ctx context.Context, id string) (*model.Company, error) {
	return queryGetCompany(ctx, s.tx, id)
}

func (s *txStore) ListCompanies(ctx context.Context) ([]*model.Company, error) {
	return queryListCompanies(ctx, s.tx)
}

func (s *txStore) UpdateCompany(ctx context.Context, c *model.Company) error {
	return queryUpdateCompany(ctx, s.tx, c)
}

func (s *txStore) SetCompanyHighlight(ctx context.Context, id string, disabled bool) (*model.Company, error) {
	return querySetCompanyHighlight(ctx, s.tx, id, disabled)
}

func (s *txStore) DeleteCompany(ctx context.Context, id string) error {
	return queryDeleteCompany(ctx, s.tx, id)
}

func (s *txStore) CreateMethod(ctx context.Context, m *model.Method) error {
	return queryCreateMethod(ctx, s.tx, m)
}

func (s *txStore) ListMethods(ctx context.Context) ([]*model.Method, error) {
	return queryListMethods(ctx, s.tx)
}

func (s *txStore) DeleteMethod(ctx context.Context, id string) error {
	return queryDeleteMethod(ctx, s.tx, id)
}

func (s *txStore) CreateEvent(ctx context.Context, e *model.CommEvent) (bool, error) {
	return queryCreateEvent(ctx, s.tx, e)
}

func (s *txStore) GetEvent(ctx context.Context, id string) (*model.CommEvent, error) {
	return queryGetEvent(ctx, s.tx, id)
}

func (s *txStore) ListEvents(ctx context.Context, filter model.EventFilter) ([]*model.CommEvent, int, error) {
	return queryListEvents(ctx, s.tx, filter)
}

func (s *txStore) UpdateEvent(ctx context.Context, e *model.CommEvent) error {
	return queryUpdateEvent(ctx, s.tx, e)
}

func (s *txStore) DeleteEvent(ctx context.Context, id string) error {
	return queryDeleteEvent(ctx, s.tx, id)
}

func (s *txStore) LastEvents(ctx context.Context, companyID string, limit int, now time.Time) ([]*model.CommEvent, error) {
	return queryLastEvents(ctx, s.tx, companyID, limit, now)
}

func (s *txStore) NextEvent(ctx context.Context, companyID string, now time.Time) (*model.CommEvent, error) {
	return queryNextEvent(ctx, s.tx, companyID, now)
}

func (s *txStore) CountByMethod(ctx context.Context, from, to *time.Time) (map[string]int, error) {
	return queryCountByMethod(ctx, s.tx, from, to, false)
}

func (s *txStore) CountConfirmedByMethod(ctx context.Context, from, to *time.Time) (map[string]int, error) {
	return queryCountByMethod(ctx, s.tx, from, to, true)
}

func (s *txStore) CountOverdueCompanies(ctx context.Context, now time.Time) (int, error) {
	return queryCountOverdueCompanies(ctx, s.tx, now)
}

func (s *txStore) RecordOverdueSnapshot(ctx context.Context, snap *model.OverdueSnapshot) error {
	return queryRecordOverdueSnapshot(ctx, s.tx, snap)
}

func (s *txStore) ListOverdueSnapshots(ctx context.Context, from, to *time.Time) ([]*model.OverdueSnapshot, error) {
	return queryListOverdueSnapshots(ctx, s.tx, from, to)
}

// RunInTransaction on a txStore reuses the existing transaction (no nesting).
func (s *txStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	return fn(s)
}

// Close is a no-op for a transaction store; the parent store owns the connection.
func (s *txStore) Close() error {
	return nil
}
