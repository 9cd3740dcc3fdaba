package services

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/presetbase/presetbase-go/internal/domain/catalog"
)

func synthRows() []catalog.Row {
	return []catalog.Row{
		{"id": "1", "name": "Minimoog", "manufacturer": "Moog", "synthType": "analog"},
		{"id": "2", "name": "Jupiter-8", "manufacturer": "Roland", "synthType": "analog"},
		{"id": "3", "name": "Moog One", "manufacturer": "Moog", "synthType": "analog"},
		{"id": "4", "name": "Serum", "manufacturer": "Xfer", "synthType": "software"},
	}
}

func TestAnnotateRowsAssignsOneBasedOrdinals(t *testing.T) {
	indexed := AnnotateRows(synthRows())
	require.Len(t, indexed, 4)
	for i, row := range indexed {
		assert.Equal(t, i+1, row.Index)
	}
}

func TestFilterRowsIsCaseInsensitiveAcrossFields(t *testing.T) {
	cfg, ok := catalog.TableConfigFor(catalog.EntitySynths)
	require.True(t, ok)

	indexed := AnnotateRows(synthRows())

	// "moog" matches Minimoog by name and Moog One by both name and
	// manufacturer; the manufacturer match must not duplicate the row.
	filtered := FilterRows(indexed, cfg, "moog")
	require.Len(t, filtered, 2)
	assert.Equal(t, "1", filtered[0].Row.ID())
	assert.Equal(t, "3", filtered[1].Row.ID())

	// Ordinals survive filtering: Moog One keeps its fetched position.
	assert.Equal(t, 1, filtered[0].Index)
	assert.Equal(t, 3, filtered[1].Index)
}

func TestFilterRowsEmptyFilterPassesThrough(t *testing.T) {
	cfg, ok := catalog.TableConfigFor(catalog.EntitySynths)
	require.True(t, ok)

	indexed := AnnotateRows(synthRows())

	for _, blank := range []string{"", "   ", "\t"} {
		passed := FilterRows(indexed, cfg, blank)
		assert.Empty(t, cmp.Diff(indexed, passed))
	}
}

func TestFilterRowsIsIdempotent(t *testing.T) {
	cfg, ok := catalog.TableConfigFor(catalog.EntitySynths)
	require.True(t, ok)

	indexed := AnnotateRows(synthRows())
	once := FilterRows(indexed, cfg, "analog")
	twice := FilterRows(once, cfg, "analog")
	assert.Empty(t, cmp.Diff(once, twice))
}

func TestShapeRowsRejectsUnknownType(t *testing.T) {
	_, err := ShapeRows(catalog.EntityType("widgets"), nil)
	assert.Error(t, err)
}

func TestShapeMediaRowLiftsImageURL(t *testing.T) {
	rows := []catalog.Row{
		{"id": "7", "title": "Around the World", "imageUrl": "/img/atw.webp",
			"artist": map[string]any{"name": "Daft Punk"}},
	}

	shaped, err := ShapeRows(catalog.EntitySongs, AnnotateRows(rows))
	require.NoError(t, err)
	require.Len(t, shaped, 1)

	assert.Equal(t, "/img/atw.webp", shaped[0].ImageURL)
	assert.NotContains(t, shaped[0].Cells, "imageUrl")
	assert.Equal(t, "Around the World", shaped[0].Cells["title"])
	assert.Equal(t, "Daft Punk", shaped[0].Cells["artist.name"])
}

func TestShapeGenreRowDefaultsColors(t *testing.T) {
	rows := []catalog.Row{
		{"id": "9", "name": "French House", "textColor": "#112233"},
	}

	shaped, err := ShapeRows(catalog.EntityGenres, AnnotateRows(rows))
	require.NoError(t, err)
	require.Len(t, shaped, 1)

	assert.Equal(t, "#112233", shaped[0].Cells["textColor"])
	assert.Equal(t, catalog.DefaultColor, shaped[0].Cells["backgroundColor"])
	assert.Equal(t, catalog.DefaultColor, shaped[0].Cells["borderColor"])
}
