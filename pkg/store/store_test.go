package store_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xhad/leaksift/internal/models"
	"github.com/xhad/leaksift/pkg/store"
)

func getTestStore(t *testing.T) *store.Store {
	t.Helper()
	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	s, err := store.NewWithConfig(store.StoreConfig{
		ConnString:   connString,
		DataTable:    "test_data",
		CleanedTable: "test_new_data",
		VictimsTable: "test_victims",
	})
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func TestUpsertRecordIdempotent(t *testing.T) {
	s := getTestStore(t)
	ctx := context.Background()

	first := models.NormalizedRecord{
		Title:      "Leaked Card",
		Location:   "Germany",
		Price:      "250",
		FoundDate:  "2023-11-02",
		Timestamp:  "2023-11-02 14:30",
		SourceFile: "database/upsert-test.json",
	}
	require.NoError(t, s.UpsertRecord(ctx, first))

	second := first
	second.Title = "Leaked Card Pack"
	second.Price = "90, 250"
	require.NoError(t, s.UpsertRecord(ctx, second))

	exists, err := s.HasFile(ctx, s.DataTable(), first.SourceFile)
	require.NoError(t, err)
	assert.True(t, exists)

	stored, err := s.FetchRecord(ctx, first.SourceFile)
	require.NoError(t, err)
	assert.Equal(t, "Leaked Card Pack", stored.Title, "second upsert must overwrite")
	assert.Equal(t, "90, 250", stored.Price)
	assert.Equal(t, "Germany", stored.Location)
}

func TestUpsertCleanedAndCategories(t *testing.T) {
	s := getTestStore(t)
	ctx := context.Background()

	rec := models.NormalizedRecord{
		Title:      "SSN and DOB Full Info",
		Location:   "US",
		Price:      "40 USD",
		SourceFile: "database/category-test.json",
	}
	require.NoError(t, s.UpsertCleaned(ctx, rec))

	records, err := s.FetchCategory(ctx, store.IdentityKeywords)
	require.NoError(t, err)

	var found bool
	for _, r := range records {
		if r.SourceFile == rec.SourceFile {
			found = true
		}
	}
	assert.True(t, found)

	stats, err := s.FetchStats(ctx, 0)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, stats.Identity, 1)
	assert.GreaterOrEqual(t, stats.Total, 1)
	assert.Zero(t, stats.Unparsed)
}

func TestUpsertVictim(t *testing.T) {
	s := getTestStore(t)
	ctx := context.Background()

	rec := models.VictimRecord{
		Domains:      "example.com,x.co",
		TotalDomains: 2,
		Country:      "IT",
		Installed:    "2020-07-06",
		Updated:      "2020-07-08",
		OS:           "Windows 10 Home",
		Price:        10,
		Filename:     "genesisvictims/victim-test.json",
	}
	require.NoError(t, s.UpsertVictim(ctx, rec))
	require.NoError(t, s.UpsertVictim(ctx, rec))

	victims, err := s.VictimsByDomain(ctx, "example.com")
	require.NoError(t, err)

	var matches int
	for _, v := range victims {
		if v.Filename == rec.Filename {
			matches++
			assert.Equal(t, 2, v.TotalDomains)
		}
	}
	assert.Equal(t, 1, matches, "upsert by filename must not duplicate")
}
