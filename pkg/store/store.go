// Package store persists normalized rows in Postgres. All writes are
// idempotent upserts keyed on the source file, so repeated or resumed passes
// over the same documents update rather than duplicate.
package store

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/xhad/leaksift/internal/models"
	"github.com/xhad/leaksift/internal/types"
)

var _ types.RecordStore = (*Store)(nil)

type StoreConfig struct {
	ConnString   string
	DataTable    string
	CleanedTable string
	VictimsTable string
}

type Store struct {
	config StoreConfig
	pool   *pgxpool.Pool
}

func NewWithConfig(config StoreConfig) (*Store, error) {
	if config.DataTable == "" {
		config.DataTable = "data"
	}
	if config.CleanedTable == "" {
		config.CleanedTable = "new_data"
	}
	if config.VictimsTable == "" {
		config.VictimsTable = "victims"
	}

	pool, err := pgxpool.New(context.Background(), config.ConnString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %v", err)
	}

	s := &Store{
		config: config,
		pool:   pool,
	}

	if err := s.initialize(); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) initialize() error {
	ctx := context.Background()

	createData := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id BIGSERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			location TEXT,
			price TEXT,
			found_date TEXT,
			compromised_domain TEXT,
			timestamp TEXT,
			file TEXT UNIQUE
		)`, s.config.DataTable)

	createCleaned := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id BIGSERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			location TEXT,
			price TEXT,
			compromised_domain TEXT,
			file TEXT UNIQUE
		)`, s.config.CleanedTable)

	createVictims := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id BIGSERIAL PRIMARY KEY,
			domains TEXT,
			total_domains INTEGER,
			country TEXT,
			cookies INTEGER,
			installed TEXT,
			updated TEXT,
			os TEXT,
			price DOUBLE PRECISION,
			filename TEXT UNIQUE
		)`, s.config.VictimsTable)

	for _, stmt := range []string{createData, createCleaned, createVictims} {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create table: %v", err)
		}
	}

	return nil
}

// UpsertRecord writes one normalized record into the data table. An existing
// row for the same source file is overwritten field by field, never merged.
func (s *Store) UpsertRecord(ctx context.Context, rec models.NormalizedRecord) error {
	stmt := fmt.Sprintf(`
		INSERT INTO %s (title, location, price, found_date, compromised_domain, timestamp, file)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (file) DO UPDATE SET
			title = EXCLUDED.title,
			location = EXCLUDED.location,
			price = EXCLUDED.price,
			found_date = EXCLUDED.found_date,
			compromised_domain = EXCLUDED.compromised_domain,
			timestamp = EXCLUDED.timestamp`,
		s.config.DataTable)

	_, err := s.pool.Exec(ctx, stmt,
		sanitizeUTF8(rec.Title),
		rec.Location,
		rec.Price,
		rec.FoundDate,
		rec.Domains,
		rec.Timestamp,
		rec.SourceFile,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert record for %s: %v", rec.SourceFile, err)
	}
	return nil
}

// UpsertCleaned writes one fallback-resolved record into the cleaned table,
// keyed on the source file like the data table.
func (s *Store) UpsertCleaned(ctx context.Context, rec models.NormalizedRecord) error {
	stmt := fmt.Sprintf(`
		INSERT INTO %s (title, location, price, compromised_domain, file)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (file) DO UPDATE SET
			title = EXCLUDED.title,
			location = EXCLUDED.location,
			price = EXCLUDED.price,
			compromised_domain = EXCLUDED.compromised_domain`,
		s.config.CleanedTable)

	_, err := s.pool.Exec(ctx, stmt,
		sanitizeUTF8(rec.Title),
		rec.Location,
		rec.Price,
		rec.Domains,
		rec.SourceFile,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert cleaned record for %s: %v", rec.SourceFile, err)
	}
	return nil
}

// UpsertVictim writes one machine-compromise row, keyed on filename.
func (s *Store) UpsertVictim(ctx context.Context, rec models.VictimRecord) error {
	stmt := fmt.Sprintf(`
		INSERT INTO %s (domains, total_domains, country, cookies, installed, updated, os, price, filename)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (filename) DO UPDATE SET
			domains = EXCLUDED.domains,
			total_domains = EXCLUDED.total_domains,
			country = EXCLUDED.country,
			cookies = EXCLUDED.cookies,
			installed = EXCLUDED.installed,
			updated = EXCLUDED.updated,
			os = EXCLUDED.os,
			price = EXCLUDED.price`,
		s.config.VictimsTable)

	_, err := s.pool.Exec(ctx, stmt,
		rec.Domains,
		rec.TotalDomains,
		rec.Country,
		rec.Cookies,
		rec.Installed,
		rec.Updated,
		rec.OS,
		rec.Price,
		rec.Filename,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert victim for %s: %v", rec.Filename, err)
	}
	return nil
}

// HasFile reports whether a row for the source file already exists, so a
// resumed pass can skip work and bound re-spend on the fallback capability.
func (s *Store) HasFile(ctx context.Context, table, file string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE file = $1)`, table)
	if table == s.config.VictimsTable {
		query = fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE filename = $1)`, table)
	}

	var exists bool
	if err := s.pool.QueryRow(ctx, query, file).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check file %s: %v", file, err)
	}
	return exists, nil
}

func (s *Store) DataTable() string    { return s.config.DataTable }
func (s *Store) CleanedTable() string { return s.config.CleanedTable }
func (s *Store) VictimsTable() string { return s.config.VictimsTable }

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func sanitizeUTF8(s string) string {
	if !utf8.ValidString(s) {
		v := make([]rune, 0, len(s))
		for i, r := range s {
			if r == utf8.RuneError {
				_, size := utf8.DecodeRuneInString(s[i:])
				if size == 1 {
					continue
				}
			}
			v = append(v, r)
		}
		return string(v)
	}
	return s
}
