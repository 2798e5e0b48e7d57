// Package pipeline drives the sequential batch passes: raw parse, victim
// parse, and the cleanup passes that escalate ambiguous rows through the
// fallback resolver. One record is fully processed and persisted before the
// next begins; nothing here is fatal to a batch except losing the store.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"
	"github.com/xhad/leaksift/internal/models"
	"github.com/xhad/leaksift/pkg/extract"
	"github.com/xhad/leaksift/pkg/normalize"
	"github.com/xhad/leaksift/pkg/reader"
)

// Store is the slice of the record store the pipeline writes and reads.
type Store interface {
	UpsertRecord(ctx context.Context, rec models.NormalizedRecord) error
	UpsertCleaned(ctx context.Context, rec models.NormalizedRecord) error
	UpsertVictim(ctx context.Context, rec models.VictimRecord) error
	HasFile(ctx context.Context, table, file string) (bool, error)
	FilesNeedingFallback(ctx context.Context) ([]string, error)
	CleanedFields(ctx context.Context) ([]models.NormalizedRecord, error)
	UpdateCleanedLocation(ctx context.Context, id int64, location string) error
	UpdateCleanedPrice(ctx context.Context, id int64, price string) error
	DataTable() string
	CleanedTable() string
	VictimsTable() string
}

type PipelineConfig struct {
	InputDir  string
	StartFile int
	EndFile   int
	// ShowProgress draws a progress bar; off in tests and cron runs.
	ShowProgress bool
}

type Pipeline struct {
	config   PipelineConfig
	store    Store
	reader   *reader.Reader
	resolver *normalize.Resolver
	log      zerolog.Logger
}

// RunStats counts what happened to every document a pass looked at.
type RunStats struct {
	Processed     int
	Skipped       int
	ParseFailures int
	Rejected      int
}

func NewWithConfig(config PipelineConfig, store Store, resolver *normalize.Resolver, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		config:   config,
		store:    store,
		reader:   reader.New(),
		resolver: resolver,
		log:      log,
	}
}

// ParseAccounts walks the account dump and heuristically extracts one
// normalized row per document into the data table. Files already present
// are skipped so a restarted pass resumes where it left off.
func (p *Pipeline) ParseAccounts(ctx context.Context) (RunStats, error) {
	var stats RunStats

	paths, err := p.inputPaths()
	if err != nil {
		return stats, err
	}
	bar := p.progressBar(len(paths), "Parsing account dump")

	for _, path := range paths {
		bar.Add(1)

		exists, err := p.store.HasFile(ctx, p.store.DataTable(), path)
		if err != nil {
			return stats, fmt.Errorf("store check failed: %w", err)
		}
		if exists {
			stats.Skipped++
			continue
		}

		doc, err := p.reader.Load(path)
		if err != nil {
			stats.ParseFailures++
			p.log.Warn().Err(err).Str("file", path).Msg("skipping malformed document")
			continue
		}

		rec := extractRecord(doc, path)
		if rec.Title == "" && rec.Location == "" && rec.Price == "" {
			stats.Rejected++
			p.log.Debug().Str("file", path).Msg("no extractable fields")
			continue
		}

		if err := p.store.UpsertRecord(ctx, rec); err != nil {
			return stats, err
		}
		stats.Processed++
	}

	p.log.Info().Int("processed", stats.Processed).Int("skipped", stats.Skipped).
		Int("parse_failures", stats.ParseFailures).Int("rejected", stats.Rejected).
		Msg("account parse pass finished")
	return stats, nil
}

// ParseVictims walks the machine-compromise dump and upserts one victim row
// per document, with the domain set reduced to deduplicated parent domains.
func (p *Pipeline) ParseVictims(ctx context.Context) (RunStats, error) {
	var stats RunStats

	var paths []string
	if err := p.reader.Walk(p.config.InputDir, func(path string) {
		paths = append(paths, path)
	}); err != nil {
		return stats, err
	}
	bar := p.progressBar(len(paths), "Parsing victim dump")

	for _, path := range paths {
		bar.Add(1)

		exists, err := p.store.HasFile(ctx, p.store.VictimsTable(), path)
		if err != nil {
			return stats, fmt.Errorf("store check failed: %w", err)
		}
		if exists {
			stats.Skipped++
			continue
		}

		doc, err := p.reader.Load(path)
		if err != nil {
			stats.ParseFailures++
			p.log.Warn().Err(err).Str("file", path).Msg("skipping malformed document")
			continue
		}

		parents, total := extract.UniqueParentDomains(doc.Domains)
		rec := models.VictimRecord{
			Domains:      strings.Join(parents, ","),
			TotalDomains: total,
			Country:      doc.Country,
			Installed:    doc.Installed,
			Updated:      doc.Updated,
			OS:           doc.OS,
			Price:        doc.Price,
			Filename:     path,
		}

		if err := p.store.UpsertVictim(ctx, rec); err != nil {
			return stats, err
		}
		stats.Processed++
	}

	p.log.Info().Int("processed", stats.Processed).Int("skipped", stats.Skipped).
		Int("parse_failures", stats.ParseFailures).Msg("victim parse pass finished")
	return stats, nil
}

// extractRecord runs every heuristic over one document. Missing signals stay
// empty strings at this stage; the Unknown sentinel belongs to the cleanup
// passes.
func extractRecord(doc models.RawDocument, path string) models.NormalizedRecord {
	return models.NormalizedRecord{
		Title:      extract.Title(doc.Text),
		Location:   strings.Join(extract.Locations(doc.Text), ", "),
		Price:      joinPrices(extract.Prices(doc.Text)),
		FoundDate:  extract.Date(doc.Text),
		Domains:    strings.Join(extract.Domains(doc.Text), ", "),
		Timestamp:  doc.Timestamp,
		SourceFile: path,
	}
}

func joinPrices(prices []float64) string {
	if len(prices) == 0 {
		return ""
	}
	parts := make([]string, len(prices))
	for i, price := range prices {
		parts[i] = strconv.FormatFloat(price, 'f', -1, 64)
	}
	return strings.Join(parts, ", ")
}

// inputPaths resolves the documents of one pass: either the configured
// numbered range, or every .json file under the input directory.
func (p *Pipeline) inputPaths() ([]string, error) {
	if p.config.EndFile > 0 {
		var paths []string
		for n := p.config.StartFile; n <= p.config.EndFile; n++ {
			path := reader.NumberedPath(p.config.InputDir, n)
			if _, err := os.Stat(path); err == nil {
				paths = append(paths, path)
			}
		}
		return paths, nil
	}

	var paths []string
	err := p.reader.Walk(p.config.InputDir, func(path string) {
		paths = append(paths, path)
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

func (p *Pipeline) progressBar(total int, description string) *progressbar.ProgressBar {
	if !p.config.ShowProgress {
		return progressbar.DefaultSilent(int64(total))
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(true),
	)
}
