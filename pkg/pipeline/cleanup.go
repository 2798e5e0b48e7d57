package pipeline

import (
	"context"
	"errors"
	"strings"

	"github.com/xhad/leaksift/internal/models"
	"github.com/xhad/leaksift/pkg/extract"
	"github.com/xhad/leaksift/pkg/normalize"
)

// CleanupRecords re-reads the source files the heuristics left ambiguous
// (multi-valued locations, generic listing titles) and writes the resolved
// rows into the cleaned table. The structured "Product Information" parse
// runs first; only files it recovers nothing from spend a full-record
// fallback call. A record whose title and location both stay unknown is
// rejected; any other failure degrades a single field and the batch
// continues.
func (p *Pipeline) CleanupRecords(ctx context.Context) (RunStats, error) {
	var stats RunStats

	files, err := p.store.FilesNeedingFallback(ctx)
	if err != nil {
		return stats, err
	}
	bar := p.progressBar(len(files), "Resolving ambiguous records")

	for _, file := range files {
		bar.Add(1)

		doc, err := p.reader.Load(file)
		if err != nil {
			stats.ParseFailures++
			p.log.Warn().Err(err).Str("file", file).Msg("skipping unreadable source")
			continue
		}

		if listing := extract.ProductInfo(doc.Text); listing.Info != "" || listing.Price != "" || listing.Location != "" {
			rec := models.NormalizedRecord{
				Title:      listing.Info,
				Location:   listing.Location,
				Price:      listing.Price,
				SourceFile: file,
			}
			if err := p.store.UpsertCleaned(ctx, rec); err != nil {
				return stats, err
			}
			p.log.Debug().Str("file", file).Msg("structured listing recovered")
			stats.Processed++
			continue
		}

		result := p.resolver.ResolveRecord(ctx, doc.Text)
		if err := p.resolver.CheckRecord(result.Product, result.Location); err != nil {
			if errors.Is(err, normalize.ErrRejected) {
				stats.Rejected++
				p.log.Debug().Str("file", file).Msg("record rejected")
				continue
			}
			return stats, err
		}

		rec := models.NormalizedRecord{
			Title:      result.Product.String(),
			Location:   result.Location.String(),
			Price:      result.Price.String(),
			Domains:    result.Domain.String(),
			SourceFile: file,
		}
		if err := p.store.UpsertCleaned(ctx, rec); err != nil {
			return stats, err
		}
		stats.Processed++
	}

	p.log.Info().Int("processed", stats.Processed).Int("rejected", stats.Rejected).
		Int("parse_failures", stats.ParseFailures).Msg("record cleanup pass finished")
	return stats, nil
}

// CleanupLocations rewrites every cleaned row's location as a set of alpha-2
// codes. Items reduce deterministically where possible; the rest escalate
// once each through the cache. Rows that resolve to nothing keep their old
// value for a later pass to retry.
func (p *Pipeline) CleanupLocations(ctx context.Context) (RunStats, error) {
	var stats RunStats

	rows, err := p.store.CleanedFields(ctx)
	if err != nil {
		return stats, err
	}
	bar := p.progressBar(len(rows), "Normalizing locations")

	for _, row := range rows {
		bar.Add(1)

		candidate := splitField(row.Location)
		resolved := p.resolver.ResolveLocation(ctx, candidate)
		if resolved.IsUnknown() {
			stats.Skipped++
			continue
		}

		updated := resolved.String()
		if updated == row.Location {
			stats.Skipped++
			continue
		}
		if err := p.store.UpdateCleanedLocation(ctx, row.ID, updated); err != nil {
			return stats, err
		}
		p.log.Info().Int64("id", row.ID).Str("from", row.Location).Str("to", updated).
			Msg("location updated")
		stats.Processed++
	}

	p.log.Info().Int("processed", stats.Processed).Int("skipped", stats.Skipped).
		Msg("location cleanup pass finished")
	return stats, nil
}

// CleanupPrices rewrites every cleaned row's price as a "lowest, highest"
// pair via the fallback, cache first. Unlike locations, an unresolvable
// price is written back as Unknown: the raw free text is of no further use.
func (p *Pipeline) CleanupPrices(ctx context.Context) (RunStats, error) {
	var stats RunStats

	rows, err := p.store.CleanedFields(ctx)
	if err != nil {
		return stats, err
	}
	bar := p.progressBar(len(rows), "Normalizing prices")

	for _, row := range rows {
		bar.Add(1)

		updated := p.resolver.ResolvePrice(ctx, row.Price)
		if updated == row.Price {
			stats.Skipped++
			continue
		}
		if err := p.store.UpdateCleanedPrice(ctx, row.ID, updated); err != nil {
			return stats, err
		}
		p.log.Info().Int64("id", row.ID).Str("from", row.Price).Str("to", updated).
			Msg("price updated")
		stats.Processed++
	}

	p.log.Info().Int("processed", stats.Processed).Int("skipped", stats.Skipped).
		Msg("price cleanup pass finished")
	return stats, nil
}

// splitField turns a stored comma-joined value back into a field variant.
func splitField(value string) models.Field {
	value = strings.TrimSpace(value)
	if value == "" {
		return models.UnknownField()
	}
	return models.MultiField(strings.Split(value, ",")...)
}
