package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xhad/leaksift/internal/models"
)

func TestUnknownField(t *testing.T) {
	f := models.UnknownField()
	assert.True(t, f.IsUnknown())
	assert.Equal(t, models.Unknown, f.String())
	assert.Equal(t, models.Unknown, f.Value())
	assert.Empty(t, f.Values())
}

func TestSingleField(t *testing.T) {
	f := models.SingleField("Leaked Card")
	assert.Equal(t, models.FieldSingle, f.Kind())
	assert.Equal(t, "Leaked Card", f.Value())
	assert.Equal(t, "Leaked Card", f.String())
}

func TestSingleFieldUnknownSentinel(t *testing.T) {
	assert.True(t, models.SingleField("").IsUnknown())
	assert.True(t, models.SingleField("unknown").IsUnknown())
	assert.True(t, models.SingleField("  ").IsUnknown())
}

func TestMultiFieldCollapses(t *testing.T) {
	f := models.MultiField("US", "DE", "US", "", "Unknown")
	assert.Equal(t, models.FieldMultiple, f.Kind())
	assert.Equal(t, []string{"DE", "US"}, f.Values())
	assert.Equal(t, "DE, US", f.String())
}

func TestMultiFieldDegradesToSingle(t *testing.T) {
	f := models.MultiField("US", "US")
	assert.Equal(t, models.FieldSingle, f.Kind())
	assert.Equal(t, "US", f.Value())
}

func TestMultiFieldEmpty(t *testing.T) {
	assert.True(t, models.MultiField().IsUnknown())
	assert.True(t, models.MultiField("", "Unknown").IsUnknown())
}
