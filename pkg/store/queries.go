package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/xhad/leaksift/internal/models"
)

// Category keyword lists for title membership queries. Categories are not
// mutually exclusive: one record can match more than one, so summing the
// per-category counts does not partition the table.
var (
	IdentityKeywords   = []string{"SSN", "DL", "drivers", "DOB", "Full Info", "passport"}
	FinancialKeywords  = []string{"bank", "cheque", "credit", "debit", "card", "cash", "tax", "payment"}
	CredentialKeywords = []string{"email", "password", "username", "@", ".com", "phone", "online", "social"}
)

// Stats is the per-category breakdown over the cleaned table. Unparsed is
// derived from a caller-supplied expected dataset total, an external
// snapshot assumption the store cannot verify; it is zero when no expected
// total was given.
type Stats struct {
	Identity   int
	Financial  int
	Credential int
	Total      int
	Unparsed   int
}

// FetchCategory returns the cleaned rows whose title matches any of the
// keywords, case-insensitively.
func (s *Store) FetchCategory(ctx context.Context, keywords []string) ([]models.NormalizedRecord, error) {
	where, args := keywordFilter(keywords)
	query := fmt.Sprintf(`
		SELECT id, title, location, price, compromised_domain, file
		FROM %s
		WHERE %s`, s.config.CleanedTable, where)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query category: %v", err)
	}
	defer rows.Close()

	var records []models.NormalizedRecord
	for rows.Next() {
		var rec models.NormalizedRecord
		var location, price, domains, file *string
		if err := rows.Scan(&rec.ID, &rec.Title, &location, &price, &domains, &file); err != nil {
			return nil, fmt.Errorf("failed to scan row: %v", err)
		}
		rec.Location = deref(location)
		rec.Price = deref(price)
		rec.Domains = deref(domains)
		rec.SourceFile = deref(file)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// CategoryCount counts cleaned rows whose title matches any keyword.
func (s *Store) CategoryCount(ctx context.Context, keywords []string) (int, error) {
	where, args := keywordFilter(keywords)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s`, s.config.CleanedTable, where)

	var count int
	if err := s.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count category: %v", err)
	}
	return count, nil
}

// FetchStats returns per-category counts plus the grand total. When
// expectedTotal is positive the unparsed complement is expectedTotal minus
// the grand total, floored at zero.
func (s *Store) FetchStats(ctx context.Context, expectedTotal int) (Stats, error) {
	var stats Stats
	var err error

	if stats.Identity, err = s.CategoryCount(ctx, IdentityKeywords); err != nil {
		return stats, err
	}
	if stats.Financial, err = s.CategoryCount(ctx, FinancialKeywords); err != nil {
		return stats, err
	}
	if stats.Credential, err = s.CategoryCount(ctx, CredentialKeywords); err != nil {
		return stats, err
	}

	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, s.config.CleanedTable)
	if err := s.pool.QueryRow(ctx, query).Scan(&stats.Total); err != nil {
		return stats, fmt.Errorf("failed to count records: %v", err)
	}

	if expectedTotal > 0 && expectedTotal > stats.Total {
		stats.Unparsed = expectedTotal - stats.Total
	}

	return stats, nil
}

// FetchRecord returns the data-table row keyed on one source file.
func (s *Store) FetchRecord(ctx context.Context, file string) (models.NormalizedRecord, error) {
	query := fmt.Sprintf(`
		SELECT id, title, location, price, found_date, compromised_domain, timestamp, file
		FROM %s
		WHERE file = $1`, s.config.DataTable)

	var rec models.NormalizedRecord
	var location, price, foundDate, domains, timestamp, source *string
	err := s.pool.QueryRow(ctx, query, file).Scan(&rec.ID, &rec.Title, &location, &price,
		&foundDate, &domains, &timestamp, &source)
	if err != nil {
		return rec, fmt.Errorf("failed to fetch record for %s: %v", file, err)
	}
	rec.Location = deref(location)
	rec.Price = deref(price)
	rec.FoundDate = deref(foundDate)
	rec.Domains = deref(domains)
	rec.Timestamp = deref(timestamp)
	rec.SourceFile = deref(source)
	return rec, nil
}

// FilesNeedingFallback returns source files from the raw data table whose
// heuristic parse left them ambiguous: a multi-valued location or a generic
// "Product Information" title. Files already present in the cleaned table
// are excluded so a resumed cleanup pass does not re-spend fallback calls.
func (s *Store) FilesNeedingFallback(ctx context.Context) ([]string, error) {
	query := fmt.Sprintf(`
		SELECT d.file
		FROM %s d
		WHERE (d.location LIKE '%%,%%' OR d.title = 'Product Information')
		  AND NOT EXISTS (SELECT 1 FROM %s n WHERE n.file = d.file)
		ORDER BY d.id`, s.config.DataTable, s.config.CleanedTable)

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query fallback candidates: %v", err)
	}
	defer rows.Close()

	var files []string
	for rows.Next() {
		var file string
		if err := rows.Scan(&file); err != nil {
			return nil, fmt.Errorf("failed to scan row: %v", err)
		}
		files = append(files, file)
	}
	return files, rows.Err()
}

// CleanedFields returns id, location and price for every cleaned row, the
// working set of the location and price cleanup passes.
func (s *Store) CleanedFields(ctx context.Context) ([]models.NormalizedRecord, error) {
	query := fmt.Sprintf(`SELECT id, location, price FROM %s ORDER BY id`, s.config.CleanedTable)

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query cleaned rows: %v", err)
	}
	defer rows.Close()

	var records []models.NormalizedRecord
	for rows.Next() {
		var rec models.NormalizedRecord
		var location, price *string
		if err := rows.Scan(&rec.ID, &location, &price); err != nil {
			return nil, fmt.Errorf("failed to scan row: %v", err)
		}
		rec.Location = deref(location)
		rec.Price = deref(price)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// UpdateCleanedLocation rewrites the location of one cleaned row.
func (s *Store) UpdateCleanedLocation(ctx context.Context, id int64, location string) error {
	stmt := fmt.Sprintf(`UPDATE %s SET location = $1 WHERE id = $2`, s.config.CleanedTable)
	if _, err := s.pool.Exec(ctx, stmt, location, id); err != nil {
		return fmt.Errorf("failed to update location for id %d: %v", id, err)
	}
	return nil
}

// UpdateCleanedPrice rewrites the price of one cleaned row.
func (s *Store) UpdateCleanedPrice(ctx context.Context, id int64, price string) error {
	stmt := fmt.Sprintf(`UPDATE %s SET price = $1 WHERE id = $2`, s.config.CleanedTable)
	if _, err := s.pool.Exec(ctx, stmt, price, id); err != nil {
		return fmt.Errorf("failed to update price for id %d: %v", id, err)
	}
	return nil
}

// VictimDomains returns the comma-joined domain set of every victim row.
func (s *Store) VictimDomains(ctx context.Context) ([]string, error) {
	query := fmt.Sprintf(`SELECT domains FROM %s`, s.config.VictimsTable)

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query victim domains: %v", err)
	}
	defer rows.Close()

	var domains []string
	for rows.Next() {
		var d *string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("failed to scan row: %v", err)
		}
		domains = append(domains, deref(d))
	}
	return domains, rows.Err()
}

// VictimsByDomain returns victim rows whose domain set contains the domain.
func (s *Store) VictimsByDomain(ctx context.Context, domain string) ([]models.VictimRecord, error) {
	query := fmt.Sprintf(`
		SELECT id, domains, total_domains, country, cookies, installed, updated, os, price, filename
		FROM %s
		WHERE domains LIKE $1`, s.config.VictimsTable)

	rows, err := s.pool.Query(ctx, query, "%"+domain+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to query victims by domain: %v", err)
	}
	defer rows.Close()

	var records []models.VictimRecord
	for rows.Next() {
		var rec models.VictimRecord
		var domains, country, installed, updated, osName, filename *string
		if err := rows.Scan(&rec.ID, &domains, &rec.TotalDomains, &country, &rec.Cookies,
			&installed, &updated, &osName, &rec.Price, &filename); err != nil {
			return nil, fmt.Errorf("failed to scan row: %v", err)
		}
		rec.Domains = deref(domains)
		rec.Country = deref(country)
		rec.Installed = deref(installed)
		rec.Updated = deref(updated)
		rec.OS = deref(osName)
		rec.Filename = deref(filename)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// AllOS returns the raw OS string of every victim row.
func (s *Store) AllOS(ctx context.Context) ([]string, error) {
	query := fmt.Sprintf(`SELECT os FROM %s`, s.config.VictimsTable)

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query os column: %v", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name *string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan row: %v", err)
		}
		names = append(names, deref(name))
	}
	return names, rows.Err()
}

func keywordFilter(keywords []string) (string, []interface{}) {
	clauses := make([]string, len(keywords))
	args := make([]interface{}, len(keywords))
	for i, kw := range keywords {
		clauses[i] = fmt.Sprintf("title ILIKE '%%' || $%d || '%%'", i+1)
		args[i] = kw
	}
	return strings.Join(clauses, " OR "), args
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
