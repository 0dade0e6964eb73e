// Package sqlitecache is the durable key-value store for rate snapshots and
// the display-currency preference, backed by an embedded SQLite database.
package sqlitecache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hammametrides/transfer_booking_app/internal/apperrors"
	"github.com/hammametrides/transfer_booking_app/internal/models"
	"github.com/shopspring/decimal"
)

const displayCurrencyKey = "display_currency"

type Store struct {
	sql *sql.DB
}

func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
		return nil, err
	}
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)", dbPath)
	sqldb, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// SQLite best practice for embedded use
	sqldb.SetMaxOpenConns(1)
	sqldb.SetConnMaxLifetime(0)

	s := &Store{sql: sqldb}
	if err := s.migrate(context.Background()); err != nil {
		_ = sqldb.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.sql.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS rate_snapshots (
			cache_key TEXT PRIMARY KEY,
			base_currency TEXT NOT NULL,
			rates TEXT NOT NULL,
			fetched_at INTEGER NOT NULL,
			source TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS preferences (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.sql.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func snapshotKey(base models.Currency) string {
	return fmt.Sprintf("exchange_rates_%s", base)
}

// SaveSnapshot writes the snapshot under its base-currency key, replacing
// any previous one.
func (s *Store) SaveSnapshot(ctx context.Context, snapshot *models.RateSnapshot) error {
	rates, err := json.Marshal(snapshot.Rates)
	if err != nil {
		return fmt.Errorf("failed to encode rates: %w", err)
	}
	_, err = s.sql.ExecContext(ctx,
		`INSERT OR REPLACE INTO rate_snapshots (cache_key, base_currency, rates, fetched_at, source) VALUES (?, ?, ?, ?, ?)`,
		snapshotKey(snapshot.BaseCurrency),
		string(snapshot.BaseCurrency),
		string(rates),
		snapshot.FetchedAt.UTC().Unix(),
		string(snapshot.Source),
	)
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot reads the stored snapshot for a base currency, or
// apperrors.ErrNotFound when none was ever written.
func (s *Store) LoadSnapshot(ctx context.Context, base models.Currency) (*models.RateSnapshot, error) {
	var (
		baseStr   string
		ratesJSON string
		fetchedAt int64
		source    string
	)
	row := s.sql.QueryRowContext(ctx,
		`SELECT base_currency, rates, fetched_at, source FROM rate_snapshots WHERE cache_key = ?`,
		snapshotKey(base),
	)
	if err := row.Scan(&baseStr, &ratesJSON, &fetchedAt, &source); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	var rates map[models.Currency]decimal.Decimal
	if err := json.Unmarshal([]byte(ratesJSON), &rates); err != nil {
		return nil, fmt.Errorf("failed to decode stored rates: %w", err)
	}

	return &models.RateSnapshot{
		BaseCurrency: models.Currency(baseStr),
		Rates:        rates,
		FetchedAt:    time.Unix(fetchedAt, 0).UTC(),
		Source:       models.SnapshotSource(source),
	}, nil
}

func (s *Store) SaveDisplayCurrency(ctx context.Context, currency models.Currency) error {
	_, err := s.sql.ExecContext(ctx,
		`INSERT OR REPLACE INTO preferences (key, value) VALUES (?, ?)`,
		displayCurrencyKey, string(currency),
	)
	if err != nil {
		return fmt.Errorf("failed to save display currency: %w", err)
	}
	return nil
}

func (s *Store) LoadDisplayCurrency(ctx context.Context) (models.Currency, error) {
	var value string
	row := s.sql.QueryRowContext(ctx, `SELECT value FROM preferences WHERE key = ?`, displayCurrencyKey)
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", apperrors.ErrNotFound
		}
		return "", fmt.Errorf("failed to load display currency: %w", err)
	}
	return models.Currency(value), nil
}
