package analysis

import (
	"context"

	"github.com/xhad/leaksift/internal/models"
)

// VictimSource is the slice of the store the aggregator reads.
type VictimSource interface {
	VictimDomains(ctx context.Context) ([]string, error)
	VictimsByDomain(ctx context.Context, domain string) ([]models.VictimRecord, error)
	AllOS(ctx context.Context) ([]string, error)
}

// Aggregator binds the pure projections to a store.
type Aggregator struct {
	source VictimSource
}

func New(source VictimSource) *Aggregator {
	return &Aggregator{source: source}
}

// TopDomains returns the n most frequently compromised parent domains.
func (a *Aggregator) TopDomains(ctx context.Context, n int) ([]DomainCount, error) {
	rows, err := a.source.VictimDomains(ctx)
	if err != nil {
		return nil, err
	}
	return TopDomains(rows, n), nil
}

// CompromisesByDomain returns the per-country and per-OS breakdown for one
// domain.
func (a *Aggregator) CompromisesByDomain(ctx context.Context, domain string) (DomainBreakdown, error) {
	records, err := a.source.VictimsByDomain(ctx, domain)
	if err != nil {
		return DomainBreakdown{}, err
	}
	return Breakdown(domain, len(records), records), nil
}

// OSDistribution returns the broad OS family buckets over all victim rows.
func (a *Aggregator) OSDistribution(ctx context.Context) (map[string]int, error) {
	names, err := a.source.AllOS(ctx)
	if err != nil {
		return nil, err
	}
	return CategorizeOS(names), nil
}

// WindowsDistribution returns the filtered Windows version bands.
func (a *Aggregator) WindowsDistribution(ctx context.Context) (map[string]int, error) {
	names, err := a.source.AllOS(ctx)
	if err != nil {
		return nil, err
	}
	return WindowsVersions(names), nil
}

// TopOS returns the n most common raw OS strings.
func (a *Aggregator) TopOS(ctx context.Context, n int) ([]OSCount, error) {
	names, err := a.source.AllOS(ctx)
	if err != nil {
		return nil, err
	}
	return TopOS(names, n), nil
}
