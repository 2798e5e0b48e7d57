package normalize_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/xhad/leaksift/internal/models"
	"github.com/xhad/leaksift/pkg/llm"
	"github.com/xhad/leaksift/pkg/normalize"
)

type fakeCompleter struct {
	calls     int
	responses map[string]string
	err       error
}

func (f *fakeCompleter) Complete(_ context.Context, _, input string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	if resp, ok := f.responses[input]; ok {
		return resp, nil
	}
	return "Unknown", nil
}

func newResolver(c *fakeCompleter) *normalize.Resolver {
	return normalize.NewWithConfig(c, normalize.ResolverConfig{
		CallDelay: time.Millisecond,
		Cooldown:  time.Millisecond,
	}, zerolog.Nop())
}

func TestResolveLocationDeterministic(t *testing.T) {
	fake := &fakeCompleter{}
	r := newResolver(fake)

	loc := r.ResolveLocation(context.Background(), models.MultiField("Germany", "california"))
	assert.Equal(t, []string{"DE", "US"}, loc.Values())
	assert.Zero(t, fake.calls, "deterministic lookups must not reach the completer")
}

func TestResolveLocationEscalatesOnlyFailures(t *testing.T) {
	fake := &fakeCompleter{responses: map[string]string{"Springfield": "['US']"}}
	r := newResolver(fake)

	loc := r.ResolveLocation(context.Background(), models.MultiField("Germany", "Springfield"))
	assert.Equal(t, []string{"DE", "US"}, loc.Values())
	assert.Equal(t, 1, fake.calls)
}

func TestCacheCallsCompleterAtMostOnce(t *testing.T) {
	fake := &fakeCompleter{responses: map[string]string{"Springfield": "['US']"}}
	r := newResolver(fake)

	for i := 0; i < 3; i++ {
		r.ResolveLocation(context.Background(), models.MultiField("Springfield", "springfield"))
	}
	assert.Equal(t, 1, fake.calls)
	assert.GreaterOrEqual(t, r.Stats().CacheHits, 1)
}

func TestResolvePriceCached(t *testing.T) {
	fake := &fakeCompleter{responses: map[string]string{"40, 90, 250": "40 USD, 250 USD"}}
	r := newResolver(fake)

	first := r.ResolvePrice(context.Background(), "40, 90, 250")
	second := r.ResolvePrice(context.Background(), "40, 90, 250")
	assert.Equal(t, "40 USD, 250 USD", first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, fake.calls)
}

func TestResolvePriceUnknownNeverCalls(t *testing.T) {
	fake := &fakeCompleter{}
	r := newResolver(fake)

	assert.Equal(t, models.Unknown, r.ResolvePrice(context.Background(), ""))
	assert.Equal(t, models.Unknown, r.ResolvePrice(context.Background(), "Unknown"))
	assert.Zero(t, fake.calls)
}

func TestFailureDegradesToUnknown(t *testing.T) {
	fake := &fakeCompleter{err: llm.ErrTransport}
	r := newResolver(fake)

	assert.Equal(t, models.Unknown, r.ResolvePrice(context.Background(), "strange price"))
	assert.Equal(t, 1, r.Stats().Transport)
}

func TestFailedCallNotCached(t *testing.T) {
	fake := &fakeCompleter{err: llm.ErrTransport}
	r := newResolver(fake)

	r.ResolvePrice(context.Background(), "strange price")
	r.ResolvePrice(context.Background(), "strange price")
	assert.Equal(t, 2, fake.calls)
}

func TestRateLimitCounted(t *testing.T) {
	fake := &fakeCompleter{err: llm.ErrRateLimited}
	r := newResolver(fake)

	r.ResolvePrice(context.Background(), "some price")
	assert.Equal(t, 1, r.Stats().RateLimited)
}

func TestResolveRecordFailure(t *testing.T) {
	fake := &fakeCompleter{err: llm.ErrTransport}
	r := newResolver(fake)

	result := r.ResolveRecord(context.Background(), "some listing text")
	assert.True(t, result.Product.IsUnknown())
	assert.True(t, result.Location.IsUnknown())
	assert.True(t, result.Price.IsUnknown())
	assert.True(t, result.Domain.IsUnknown())
}

func TestCheckRecord(t *testing.T) {
	r := newResolver(&fakeCompleter{})

	err := r.CheckRecord(models.UnknownField(), models.UnknownField())
	assert.True(t, errors.Is(err, normalize.ErrRejected))

	err = r.CheckRecord(models.UnknownField(), models.SingleField("US"))
	assert.NoError(t, err)

	err = r.CheckRecord(models.SingleField("Leaked Card"), models.UnknownField())
	assert.NoError(t, err)
}
