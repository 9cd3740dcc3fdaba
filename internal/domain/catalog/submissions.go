package catalog

import "time"

// PendingSubmission is a user-submitted, not-yet-approved entry bundle. An
// admin either promotes it into approved rows (song/artists/album/synths/
// presets) or discards it.
type PendingSubmission struct {
	ID          string              `json:"id"`
	SubmittedAt time.Time           `json:"submittedAt"`
	SubmittedBy string              `json:"submittedBy,omitempty"`
	Email       string              `json:"email,omitempty"`
	Song        SubmittedSong       `json:"song"`
	Artists     []SubmittedArtist   `json:"artists"`
	Synths      []SubmittedSynth    `json:"synths"`
	Album       *SubmittedAlbum     `json:"album,omitempty"`
	Extra       map[string]any      `json:"extra,omitempty"`
}

// SubmittedSong is the song portion of a submission bundle.
type SubmittedSong struct {
	Title       string `json:"title"`
	Genre       string `json:"genre,omitempty"`
	ReleaseYear int    `json:"releaseYear,omitempty"`
	SongURL     string `json:"songUrl,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// SubmittedArtist is one artist credited on a submission.
type SubmittedArtist struct {
	Name    string `json:"name"`
	Country string `json:"country,omitempty"`
	Role    string `json:"role,omitempty"`
}

// SubmittedAlbum is the optional album of a submission.
type SubmittedAlbum struct {
	Title       string `json:"title"`
	ReleaseYear int    `json:"releaseYear,omitempty"`
}

// SubmittedSynth is one synth used on a submission, with its presets.
type SubmittedSynth struct {
	Name         string            `json:"name"`
	Manufacturer string            `json:"manufacturer,omitempty"`
	Presets      []SubmittedPreset `json:"presets"`
}

// SubmittedPreset is one preset usage within a submitted synth.
type SubmittedPreset struct {
	Name      string `json:"name"`
	PackName  string `json:"packName,omitempty"`
	Author    string `json:"author,omitempty"`
	UsageType string `json:"usageType,omitempty"`
	AudioURL  string `json:"audioUrl,omitempty"`
}

// FieldOption is a relation-search suggestion: one {id, label} pair for a
// given entity type and free-text query.
type FieldOption struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}
