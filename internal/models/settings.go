package models

// MusicSettingsKey is the settings row holding the background music
const MusicSettingsKey = "background_music"

// MusicSettings configures the site's background music
type MusicSettings struct {
	Enabled bool   `json:"enabled"`
	URL     string `json:"url"`
	Title   string `json:"title"`
}

// DefaultMusicSettings is returned whenever no settings are stored
func DefaultMusicSettings() MusicSettings {
	return MusicSettings{}
}
