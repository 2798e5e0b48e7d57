package llm_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xhad/leaksift/internal/models"
	"github.com/xhad/leaksift/pkg/llm"
)

func TestCleanPayloadFenced(t *testing.T) {
	raw := "```json\n{\"product\": \"cards\"}\n```"
	assert.Equal(t, `{"product": "cards"}`, llm.CleanPayload(raw))
}

func TestCleanPayloadLeadingFiller(t *testing.T) {
	assert.Equal(t, `{"a":1}`, llm.CleanPayload("n{\"a\":1}"))
}

func TestCleanPayloadBare(t *testing.T) {
	assert.Equal(t, `{"a":1}`, llm.CleanPayload("  {\"a\":1}  "))
}

func TestParseRecord(t *testing.T) {
	raw := `{"product": "Fullz pack", "location": ["US", "DE"], "price": "40 USD", "domain": null}`
	result, err := llm.ParseRecord(raw)
	require.NoError(t, err)

	assert.Equal(t, "Fullz pack", result.Product.Value())
	assert.Equal(t, models.FieldMultiple, result.Location.Kind())
	assert.Equal(t, []string{"DE", "US"}, result.Location.Values())
	assert.Equal(t, "40 USD", result.Price.Value())
	assert.True(t, result.Domain.IsUnknown())
}

func TestParseRecordProductNameAlias(t *testing.T) {
	raw := `{"product_name": "SSN lookup", "location": "US", "price": 10, "domain": "example.com"}`
	result, err := llm.ParseRecord(raw)
	require.NoError(t, err)

	assert.Equal(t, "SSN lookup", result.Product.Value())
	assert.Equal(t, "10", result.Price.Value())
}

func TestParseRecordUnparseable(t *testing.T) {
	_, err := llm.ParseRecord("sorry, I cannot help with that")
	assert.True(t, errors.Is(err, llm.ErrUnparseable))
}

func TestParseList(t *testing.T) {
	assert.Equal(t, []string{"US", "DE"}, llm.ParseList("['US', 'DE']"))
	assert.Equal(t, []string{"US"}, llm.ParseList("US"))
	assert.Equal(t, []string{"Unknown"}, llm.ParseList("Unknown"))
}

func TestNewWithConfigRequiresKey(t *testing.T) {
	_, err := llm.NewWithConfig(llm.CompleterConfig{})
	assert.Error(t, err)
}

func TestNewWithConfig(t *testing.T) {
	completer, err := llm.NewWithConfig(llm.CompleterConfig{
		APIKeys: []string{"sk-test-1", "sk-test-2"},
	})
	require.NoError(t, err)
	assert.NotNil(t, completer)
}
