package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEntityType(t *testing.T) {
	et, err := ParseEntityType("songs")
	require.NoError(t, err)
	assert.Equal(t, EntitySongs, et)
	assert.True(t, et.Browsable())

	_, err = ParseEntityType("nonsense")
	assert.Error(t, err)
}

func TestUsersAreNotBrowsable(t *testing.T) {
	assert.True(t, EntityUsers.Valid())
	assert.False(t, EntityUsers.Browsable())

	for _, et := range BrowsableEntityTypes() {
		assert.NotEqual(t, EntityUsers, et)
	}
}

func TestEveryEntityTypeHasASlideoutConfig(t *testing.T) {
	for _, et := range AllEntityTypes() {
		cfg, ok := SlideoutConfigFor(et)
		require.True(t, ok, "missing slideout config for %s", et)
		assert.Equal(t, et, cfg.Key)
		assert.NotEmpty(t, cfg.Inputs, "editor for %s has no inputs", et)
	}
}

func TestEveryBrowsableTypeHasATableConfig(t *testing.T) {
	for _, et := range BrowsableEntityTypes() {
		cfg, ok := TableConfigFor(et)
		require.True(t, ok, "missing table config for %s", et)
		assert.Equal(t, et, cfg.Key)
		assert.NotEmpty(t, cfg.Columns)
		assert.NotEmpty(t, cfg.FilterOptions)
	}
}

func TestValidateConfigs(t *testing.T) {
	require.NoError(t, ValidateConfigs())
}

func TestSongEditorInputKeys(t *testing.T) {
	cfg, ok := SlideoutConfigFor(EntitySongs)
	require.True(t, ok)
	assert.Equal(t, []string{"songTitle", "songGenre", "releaseYear", "songUrl"}, cfg.InputKeys())
}

func TestGenreEditorHasColorPickers(t *testing.T) {
	cfg, ok := SlideoutConfigFor(EntityGenres)
	require.True(t, ok)

	keys := make([]string, len(cfg.ColorPickers))
	for i, picker := range cfg.ColorPickers {
		keys[i] = picker.Key
	}
	assert.Equal(t, []string{"textColor", "backgroundColor", "borderColor"}, keys)
	assert.Equal(t, "#ffffff", DefaultColor)
}

func TestSynthFilterCoversManufacturer(t *testing.T) {
	cfg, ok := TableConfigFor(EntitySynths)
	require.True(t, ok)
	assert.Contains(t, cfg.FilterOptions, "manufacturer")
}
