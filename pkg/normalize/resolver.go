// Package normalize decides, per field, whether heuristic output stands or
// must be escalated to the completion fallback. It owns the run-scoped cache
// and the pacing policy around the external capability.
package normalize

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/xhad/leaksift/internal/models"
	"github.com/xhad/leaksift/internal/types"
	"github.com/xhad/leaksift/pkg/extract"
	"github.com/xhad/leaksift/pkg/llm"
	"golang.org/x/time/rate"
)

// ErrRejected marks a record whose title and location both resolved to
// Unknown. Such records are counted and dropped, never stored.
var ErrRejected = errors.New("record rejected: no usable title or location")

// Stats counts resolver outcomes for one run, so pipeline health is
// observable without digging through logs.
type Stats struct {
	FallbackCalls int
	CacheHits     int
	RateLimited   int
	Unparseable   int
	Transport     int
	Rejected      int
}

// ResolverConfig represents the configuration for a Resolver.
type ResolverConfig struct {
	// CallDelay is the fixed minimum spacing between fallback calls.
	CallDelay time.Duration
	// Cooldown is the pause applied after a rate-limited call before any
	// further fallback traffic.
	Cooldown time.Duration
}

// Resolver escalates ambiguous candidates through the cache to the fallback
// completer. The cache is private to one run and never persisted; identical
// raw input within a run calls the completer at most once.
type Resolver struct {
	config    ResolverConfig
	completer types.Completer
	cache     map[string]string
	limiter   *rate.Limiter
	pauseTill time.Time
	log       zerolog.Logger
	stats     Stats
}

// NewWithConfig creates a Resolver around the given completer.
func NewWithConfig(completer types.Completer, config ResolverConfig, log zerolog.Logger) *Resolver {
	if config.CallDelay == 0 {
		config.CallDelay = 3 * time.Second
	}
	if config.Cooldown == 0 {
		config.Cooldown = time.Minute
	}

	return &Resolver{
		config:    config,
		completer: completer,
		// The Unknown sentinel maps to itself so repeated unknowns never
		// reach the completer.
		cache:   map[string]string{strings.ToLower(models.Unknown): models.Unknown},
		limiter: rate.NewLimiter(rate.Every(config.CallDelay), 1),
		log:     log,
	}
}

func (r *Resolver) Stats() Stats { return r.stats }

// ResolveLocation reduces a location candidate to a set of alpha-2 codes.
// Each item goes through the deterministic country lookup first; only items
// that miss escalate to the completer, deduplicated through the cache.
func (r *Resolver) ResolveLocation(ctx context.Context, candidate models.Field) models.Field {
	if candidate.IsUnknown() {
		return candidate
	}

	var codes []string
	for _, item := range candidate.Values() {
		if code, ok := extract.FindCountry(item); ok {
			codes = append(codes, code)
			continue
		}
		resolved := r.lookup(ctx, llm.LocationPrompt, item)
		for _, code := range llm.ParseList(resolved) {
			if extract.IsAlpha2(code) {
				codes = append(codes, strings.ToUpper(code))
			}
		}
	}

	return models.MultiField(codes...)
}

// ResolvePrice normalizes a raw price string to a "lowest, highest" pair via
// the completer, going through the cache first. The heuristic-only path does
// not come here; it stores the sorted list untouched.
func (r *Resolver) ResolvePrice(ctx context.Context, raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = models.Unknown
	}
	return r.lookup(ctx, llm.PricePrompt, raw)
}

// ResolveRecord runs the full-record fallback over a raw text the heuristics
// could not segment. One attempt per record per pass; any failure degrades
// every category to Unknown.
func (r *Resolver) ResolveRecord(ctx context.Context, text string) llm.RecordResult {
	raw, err := r.call(ctx, llm.RecordPrompt, text)
	if err != nil {
		return llm.RecordResult{
			Product:  models.UnknownField(),
			Location: models.UnknownField(),
			Price:    models.UnknownField(),
			Domain:   models.UnknownField(),
		}
	}

	result, err := llm.ParseRecord(raw)
	if err != nil {
		r.stats.Unparseable++
		r.log.Warn().Err(err).Msg("record fallback response unparseable")
		return llm.RecordResult{
			Product:  models.UnknownField(),
			Location: models.UnknownField(),
			Price:    models.UnknownField(),
			Domain:   models.UnknownField(),
		}
	}
	return result
}

// CheckRecord enforces the rejection rule: price and domain may be unknown,
// but a record with neither title nor location is dropped.
func (r *Resolver) CheckRecord(title, location models.Field) error {
	if title.IsUnknown() && location.IsUnknown() {
		r.stats.Rejected++
		return fmt.Errorf("%w", ErrRejected)
	}
	return nil
}

// lookup resolves a raw value through the run-scoped cache, calling the
// completer only on a miss. Failed calls resolve to Unknown without caching,
// so a later pass may retry them.
func (r *Resolver) lookup(ctx context.Context, prompt, raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" {
		key = strings.ToLower(models.Unknown)
	}
	if cached, ok := r.cache[key]; ok {
		r.stats.CacheHits++
		return cached
	}

	resolved, err := r.call(ctx, prompt, raw)
	if err != nil {
		return models.Unknown
	}

	resolved = strings.TrimSpace(resolved)
	if resolved == "" {
		resolved = models.Unknown
	}
	r.cache[key] = resolved
	return resolved
}

// call applies the pacing policy around one completer invocation: the fixed
// inter-call delay always, plus any cooldown a rate limit imposed.
func (r *Resolver) call(ctx context.Context, prompt, input string) (string, error) {
	if wait := time.Until(r.pauseTill); wait > 0 {
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return "", fmt.Errorf("%w: %v", llm.ErrTransport, ctx.Err())
		}
	}
	if err := r.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%w: %v", llm.ErrTransport, err)
	}

	r.stats.FallbackCalls++
	response, err := r.completer.Complete(ctx, prompt, input)
	if err != nil {
		switch {
		case errors.Is(err, llm.ErrRateLimited):
			r.stats.RateLimited++
			r.pauseTill = time.Now().Add(r.config.Cooldown)
			r.log.Warn().Err(err).Dur("cooldown", r.config.Cooldown).Msg("fallback rate limited")
		case errors.Is(err, llm.ErrUnparseable):
			r.stats.Unparseable++
			r.log.Warn().Err(err).Msg("fallback response unparseable")
		default:
			r.stats.Transport++
			r.log.Warn().Err(err).Msg("fallback transport error")
		}
		return "", err
	}

	return response, nil
}
