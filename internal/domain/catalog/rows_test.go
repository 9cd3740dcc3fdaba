package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowID(t *testing.T) {
	assert.Equal(t, "42", Row{"id": "42"}.ID())
	assert.Equal(t, "42", Row{"id": float64(42)}.ID())
	assert.Equal(t, "42", Row{"id": 42}.ID())
	assert.Equal(t, "", Row{}.ID())
}

func TestRowFieldWalksNestedPaths(t *testing.T) {
	row := Row{
		"title": "Da Funk",
		"artist": map[string]any{
			"name": "Daft Punk",
			"label": map[string]any{
				"name": "Soma",
			},
		},
	}

	value, ok := row.Field("artist.name")
	require.True(t, ok)
	assert.Equal(t, "Daft Punk", value)

	value, ok = row.Field("artist.label.name")
	require.True(t, ok)
	assert.Equal(t, "Soma", value)

	_, ok = row.Field("artist.missing")
	assert.False(t, ok)

	_, ok = row.Field("title.deeper")
	assert.False(t, ok)
}

func TestRowFieldStringStringifiesScalarsOnly(t *testing.T) {
	row := Row{
		"title": "Homework",
		"year":  float64(1997),
		"live":  true,
		"artist": map[string]any{
			"name": "Daft Punk",
		},
	}

	value, ok := row.FieldString("title")
	require.True(t, ok)
	assert.Equal(t, "Homework", value)

	value, ok = row.FieldString("year")
	require.True(t, ok)
	assert.Equal(t, "1997", value)

	value, ok = row.FieldString("live")
	require.True(t, ok)
	assert.Equal(t, "true", value)

	// A nested object is not a stringable filter field.
	_, ok = row.FieldString("artist")
	assert.False(t, ok)
}
