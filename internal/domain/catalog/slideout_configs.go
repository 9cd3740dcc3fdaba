package catalog

import "fmt"

// DisplayField is a read-only field shown in the editor header (ids,
// timestamps, cross-links to other entity types).
type DisplayField struct {
	Key       string     `json:"key"`
	Label     string     `json:"label"`
	LinkTable EntityType `json:"linkTable,omitempty"`
}

// InputField is an editable scalar field. Keys are the form field names sent
// upstream on apply; an input only appears in the PUT payload when the user
// actually changed it.
type InputField struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Required bool   `json:"required"`
}

// ImageInputField is the single image attachment slot of an editor.
type ImageInputField struct {
	Key       string `json:"key"`
	Label     string `json:"label"`
	MinWidth  int    `json:"minWidth"`
	MinHeight int    `json:"minHeight"`
}

// SelectorField is a single-relation picker backed by the field-data search
// endpoint of SearchTable.
type SelectorField struct {
	Key         string     `json:"key"`
	Label       string     `json:"label"`
	SearchTable EntityType `json:"searchTable"`
	IDField     string     `json:"idField"`
	LabelField  string     `json:"labelField"`
}

// ListField is a multi-relation editor: an ordered list of attached related
// entities. HasInput adds a secondary free-text field per attached item;
// HasAudio marks items carrying playable audio clips.
type ListField struct {
	Key         string     `json:"key"`
	Label       string     `json:"label"`
	SearchTable EntityType `json:"searchTable"`
	LabelField  string     `json:"labelField"`
	HasInput    bool       `json:"hasInput"`
	InputKey    string     `json:"inputKey,omitempty"`
	InputLabel  string     `json:"inputLabel,omitempty"`
	HasAudio    bool       `json:"hasAudio"`
	AudioKey    string     `json:"audioKey,omitempty"`
}

// ColorPickerField is a hex color input defaulting to #ffffff when unset.
type ColorPickerField struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// SlideoutConfig drives the record editor for one entity type.
type SlideoutConfig struct {
	Key          EntityType         `json:"key"`
	Title        string             `json:"title"`
	Fields       []DisplayField     `json:"fields"`
	Inputs       []InputField       `json:"inputs"`
	ImageInput   *ImageInputField   `json:"imageInput,omitempty"`
	Selectors    []SelectorField    `json:"selectors,omitempty"`
	Lists        []ListField        `json:"lists,omitempty"`
	ColorPickers []ColorPickerField `json:"colorPickers,omitempty"`
}

var slideoutConfigs = map[EntityType]SlideoutConfig{
	EntitySongs: {
		Key:   EntitySongs,
		Title: "Edit Song",
		Fields: []DisplayField{
			{Key: "id", Label: "ID"},
			{Key: "timestamp", Label: "Added"},
			{Key: "album.title", Label: "Album", LinkTable: EntityAlbums},
		},
		Inputs: []InputField{
			{Key: "songTitle", Label: "Title", Required: true},
			{Key: "songGenre", Label: "Genre"},
			{Key: "releaseYear", Label: "Release Year"},
			{Key: "songUrl", Label: "Song URL"},
		},
		ImageInput: &ImageInputField{Key: "songImage", Label: "Cover Art", MinWidth: 1000, MinHeight: 1000},
		Selectors: []SelectorField{
			{Key: "albumId", Label: "Album", SearchTable: EntityAlbums, IDField: "id", LabelField: "title"},
		},
		Lists: []ListField{
			{Key: "artists", Label: "Artists", SearchTable: EntityArtists, LabelField: "name", HasInput: true, InputKey: "role", InputLabel: "Role"},
			{Key: "presets", Label: "Presets", SearchTable: EntityPresets, LabelField: "name", HasInput: true, InputKey: "usageType", InputLabel: "Usage Type", HasAudio: true, AudioKey: "audioUrl"},
		},
	},
	EntityArtists: {
		Key:   EntityArtists,
		Title: "Edit Artist",
		Fields: []DisplayField{
			{Key: "id", Label: "ID"},
			{Key: "timestamp", Label: "Added"},
		},
		Inputs: []InputField{
			{Key: "artistName", Label: "Name", Required: true},
			{Key: "artistCountry", Label: "Country"},
		},
		ImageInput: &ImageInputField{Key: "artistImage", Label: "Artist Image", MinWidth: 1000, MinHeight: 1000},
	},
	EntityAlbums: {
		Key:   EntityAlbums,
		Title: "Edit Album",
		Fields: []DisplayField{
			{Key: "id", Label: "ID"},
			{Key: "timestamp", Label: "Added"},
			{Key: "artist.name", Label: "Artist", LinkTable: EntityArtists},
		},
		Inputs: []InputField{
			{Key: "albumTitle", Label: "Title", Required: true},
			{Key: "releaseYear", Label: "Release Year"},
		},
		ImageInput: &ImageInputField{Key: "albumImage", Label: "Album Art", MinWidth: 1000, MinHeight: 1000},
		Selectors: []SelectorField{
			{Key: "artistId", Label: "Artist", SearchTable: EntityArtists, IDField: "id", LabelField: "name"},
		},
	},
	EntitySynths: {
		Key:   EntitySynths,
		Title: "Edit Synth",
		Fields: []DisplayField{
			{Key: "id", Label: "ID"},
			{Key: "timestamp", Label: "Added"},
		},
		Inputs: []InputField{
			{Key: "synthName", Label: "Name", Required: true},
			{Key: "manufacturer", Label: "Manufacturer", Required: true},
			{Key: "releaseYear", Label: "Release Year"},
			{Key: "synthType", Label: "Type"},
		},
		ImageInput: &ImageInputField{Key: "synthImage", Label: "Synth Image", MinWidth: 1000, MinHeight: 1000},
	},
	EntityPresets: {
		Key:   EntityPresets,
		Title: "Edit Preset",
		Fields: []DisplayField{
			{Key: "id", Label: "ID"},
			{Key: "timestamp", Label: "Added"},
			{Key: "synth.name", Label: "Synth", LinkTable: EntitySynths},
		},
		Inputs: []InputField{
			{Key: "presetName", Label: "Name", Required: true},
			{Key: "packName", Label: "Pack"},
			{Key: "author", Label: "Author"},
		},
		Selectors: []SelectorField{
			{Key: "synthId", Label: "Synth", SearchTable: EntitySynths, IDField: "id", LabelField: "name"},
		},
		Lists: []ListField{
			{Key: "songs", Label: "Songs", SearchTable: EntitySongs, LabelField: "title", HasInput: true, InputKey: "usageType", InputLabel: "Usage Type", HasAudio: true, AudioKey: "audioUrl"},
		},
	},
	EntityGenres: {
		Key:   EntityGenres,
		Title: "Edit Genre",
		Fields: []DisplayField{
			{Key: "id", Label: "ID"},
		},
		Inputs: []InputField{
			{Key: "genreName", Label: "Name", Required: true},
			{Key: "genreSlug", Label: "Slug"},
		},
		ColorPickers: []ColorPickerField{
			{Key: "textColor", Label: "Text"},
			{Key: "backgroundColor", Label: "Background"},
			{Key: "borderColor", Label: "Border"},
		},
	},
	EntityUsers: {
		Key:   EntityUsers,
		Title: "Edit User",
		Fields: []DisplayField{
			{Key: "id", Label: "ID"},
			{Key: "timestamp", Label: "Joined"},
		},
		Inputs: []InputField{
			{Key: "username", Label: "Username", Required: true},
			{Key: "email", Label: "Email", Required: true},
		},
	},
}

// DefaultColor is the fallback for unset color picker channels.
const DefaultColor = "#ffffff"

// SlideoutConfigFor returns the editor config for an entity type. The editor
// set is exhaustive over all seven entity types.
func SlideoutConfigFor(et EntityType) (SlideoutConfig, bool) {
	cfg, ok := slideoutConfigs[et]
	return cfg, ok
}

// InputKeys returns the form field names of the editable scalar inputs.
func (sc SlideoutConfig) InputKeys() []string {
	keys := make([]string, len(sc.Inputs))
	for i, input := range sc.Inputs {
		keys[i] = input.Key
	}
	return keys
}

// ListFor returns the list field configuration with the given key.
func (sc SlideoutConfig) ListFor(key string) (ListField, bool) {
	for _, list := range sc.Lists {
		if list.Key == key {
			return list, true
		}
	}
	return ListField{}, false
}

// ValidateConfigs checks the cross-config invariants at startup: every
// selector and list searchTable must name a real entity type, and every
// editor config key must match its map key.
func ValidateConfigs() error {
	for _, et := range AllEntityTypes() {
		cfg, ok := SlideoutConfigFor(et)
		if !ok {
			return fmt.Errorf("missing slideout config for entity type %s", et)
		}
		if cfg.Key != et {
			return fmt.Errorf("slideout config key mismatch: %s registered under %s", cfg.Key, et)
		}
		for _, selector := range cfg.Selectors {
			if !selector.SearchTable.Valid() {
				return fmt.Errorf("%s selector %s references unknown search table %q", et, selector.Key, selector.SearchTable)
			}
		}
		for _, list := range cfg.Lists {
			if !list.SearchTable.Valid() {
				return fmt.Errorf("%s list %s references unknown search table %q", et, list.Key, list.SearchTable)
			}
		}
	}

	for _, et := range BrowsableEntityTypes() {
		cfg, ok := TableConfigFor(et)
		if !ok {
			return fmt.Errorf("missing table config for entity type %s", et)
		}
		if cfg.Key != et {
			return fmt.Errorf("table config key mismatch: %s registered under %s", cfg.Key, et)
		}
		if len(cfg.FilterOptions) == 0 {
			return fmt.Errorf("table config for %s has no filter options", et)
		}
	}

	return nil
}
