// Package catalog defines the entity types managed by the PresetBase admin
// engine and the build-time configuration driving table and editor rendering.
package catalog

import "fmt"

// EntityType identifies one of the record kinds managed by the engine.
type EntityType string

const (
	EntitySongs   EntityType = "songs"
	EntityArtists EntityType = "artists"
	EntityAlbums  EntityType = "albums"
	EntitySynths  EntityType = "synths"
	EntityPresets EntityType = "presets"
	EntityGenres  EntityType = "genres"
	EntityUsers   EntityType = "users"
)

// AllEntityTypes returns every entity type the editor knows about.
func AllEntityTypes() []EntityType {
	return []EntityType{
		EntitySongs, EntityArtists, EntityAlbums,
		EntitySynths, EntityPresets, EntityGenres, EntityUsers,
	}
}

// BrowsableEntityTypes returns the entity types with a public browse surface.
// Users are admin-only and excluded.
func BrowsableEntityTypes() []EntityType {
	return []EntityType{
		EntitySongs, EntityArtists, EntityAlbums,
		EntitySynths, EntityPresets, EntityGenres,
	}
}

// ParseEntityType converts a route/table parameter into an EntityType.
func ParseEntityType(s string) (EntityType, error) {
	switch EntityType(s) {
	case EntitySongs, EntityArtists, EntityAlbums, EntitySynths, EntityPresets, EntityGenres, EntityUsers:
		return EntityType(s), nil
	}
	return "", fmt.Errorf("unknown entity type: %q", s)
}

// Valid reports whether the entity type is one of the fixed set.
func (et EntityType) Valid() bool {
	_, err := ParseEntityType(string(et))
	return err == nil
}

// Browsable reports whether the entity type has a browse surface.
func (et EntityType) Browsable() bool {
	return et.Valid() && et != EntityUsers
}

func (et EntityType) String() string { return string(et) }
