package catalog

// Column describes one rendered table column.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// SortOption describes one selectable sort key.
type SortOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// TableConfig drives the browse/table renderer for one entity type. Every
// Column.Key and FilterOption must exist on the rows the gateway returns for
// this entity type. Configs are immutable and defined at build time.
type TableConfig struct {
	Key           EntityType   `json:"key"`
	Columns       []Column     `json:"columns"`
	SortOptions   []SortOption `json:"sortOptions"`
	FilterOptions []string     `json:"filterOptions"`
	GridClassName string       `json:"gridClassName"`
}

var tableConfigs = map[EntityType]TableConfig{
	EntitySongs: {
		Key: EntitySongs,
		Columns: []Column{
			{Key: "imageUrl", Label: ""},
			{Key: "title", Label: "Title"},
			{Key: "artist.name", Label: "Artist"},
			{Key: "album.title", Label: "Album"},
			{Key: "genre.name", Label: "Genre"},
			{Key: "releaseYear", Label: "Year"},
		},
		SortOptions: []SortOption{
			{Value: "title", Label: "Title"},
			{Value: "artist", Label: "Artist"},
			{Value: "album", Label: "Album"},
			{Value: "releaseYear", Label: "Release Year"},
			{Value: "timestamp", Label: "Date Added"},
		},
		FilterOptions: []string{"title", "artist.name", "album.title", "genre.name"},
		GridClassName: "song-grid",
	},
	EntityArtists: {
		Key: EntityArtists,
		Columns: []Column{
			{Key: "imageUrl", Label: ""},
			{Key: "name", Label: "Name"},
			{Key: "country", Label: "Country"},
			{Key: "songCount", Label: "Songs"},
		},
		SortOptions: []SortOption{
			{Value: "name", Label: "Name"},
			{Value: "songCount", Label: "Song Count"},
			{Value: "timestamp", Label: "Date Added"},
		},
		FilterOptions: []string{"name", "country"},
		GridClassName: "artist-grid",
	},
	EntityAlbums: {
		Key: EntityAlbums,
		Columns: []Column{
			{Key: "imageUrl", Label: ""},
			{Key: "title", Label: "Title"},
			{Key: "artist.name", Label: "Artist"},
			{Key: "releaseYear", Label: "Year"},
		},
		SortOptions: []SortOption{
			{Value: "title", Label: "Title"},
			{Value: "artist", Label: "Artist"},
			{Value: "releaseYear", Label: "Release Year"},
			{Value: "timestamp", Label: "Date Added"},
		},
		FilterOptions: []string{"title", "artist.name"},
		GridClassName: "album-grid",
	},
	EntitySynths: {
		Key: EntitySynths,
		Columns: []Column{
			{Key: "imageUrl", Label: ""},
			{Key: "name", Label: "Name"},
			{Key: "manufacturer", Label: "Manufacturer"},
			{Key: "synthType", Label: "Type"},
			{Key: "releaseYear", Label: "Year"},
		},
		SortOptions: []SortOption{
			{Value: "name", Label: "Name"},
			{Value: "manufacturer", Label: "Manufacturer"},
			{Value: "releaseYear", Label: "Release Year"},
			{Value: "timestamp", Label: "Date Added"},
		},
		FilterOptions: []string{"name", "manufacturer", "synthType"},
		GridClassName: "synth-grid",
	},
	EntityPresets: {
		Key: EntityPresets,
		Columns: []Column{
			{Key: "name", Label: "Name"},
			{Key: "synth.name", Label: "Synth"},
			{Key: "packName", Label: "Pack"},
			{Key: "author", Label: "Author"},
			{Key: "usageCount", Label: "Usages"},
		},
		SortOptions: []SortOption{
			{Value: "name", Label: "Name"},
			{Value: "synth", Label: "Synth"},
			{Value: "usageCount", Label: "Usage Count"},
			{Value: "timestamp", Label: "Date Added"},
		},
		FilterOptions: []string{"name", "synth.name", "packName", "author"},
		GridClassName: "preset-grid",
	},
	EntityGenres: {
		Key: EntityGenres,
		Columns: []Column{
			{Key: "name", Label: "Name"},
			{Key: "slug", Label: "Slug"},
			{Key: "songCount", Label: "Songs"},
		},
		SortOptions: []SortOption{
			{Value: "name", Label: "Name"},
			{Value: "songCount", Label: "Song Count"},
		},
		FilterOptions: []string{"name", "slug"},
		GridClassName: "genre-grid",
	},
}

// TableConfigFor returns the browse config for an entity type. Users have no
// browse surface, so lookups for them report false; callers must guard.
func TableConfigFor(et EntityType) (TableConfig, bool) {
	cfg, ok := tableConfigs[et]
	return cfg, ok
}
