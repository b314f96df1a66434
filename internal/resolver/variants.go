// Package resolver locates a project's organizational main folder and
// the destination category folder for a classified asset, tolerating
// fuzzy, localized, and partially-existing directory trees.
package resolver

// Acceptable folder-name variants per category folder. The first entry
// is used verbatim when a folder has to be created. Lists include the
// localized spellings the matcher is expected to recognize.
var (
	audioVariants = []string{
		"03_Audio", "Audio", "Audios", "Music", "Musik", "Musique", "Musica", "Sound", "Sounds",
	}
	sfxVariants = []string{
		"04_SFX", "SFX", "Sound Effects", "SoundFX", "Soundeffekte", "Effects",
	}
	visualsVariants = []string{
		"02_Footage", "Footage", "Visuals", "Video", "Videos", "Material",
	}
)

const (
	voiceOverFolder    = "VO"
	graphicsFolder     = "Graphics"
	stockFootageFolder = "Stock Footage"
	// downloaderFolder is reserved for the known high-resolution
	// footage source whose companion downloader fills it.
	downloaderFolder = "Artgrid"
	downloaderOrigin = "artgrid"
)

// audioNames are unnumbered audio/music spellings that count as
// structure markers during the main-folder walk.
var audioNames = map[string]struct{}{
	"audio": {}, "audios": {}, "music": {}, "musik": {}, "musique": {},
	"musica": {}, "sound": {}, "sounds": {},
}

// appInternalMarkers identify an editing application's internal project
// folders (caches, previews, autosaves) which must never be treated as
// a project's organizational root.
var appInternalMarkers = []string{
	"adobe", "premiere", "after effects", "preview", "previews",
	"cache", "autosave", "auto-save", "proxies", "proxy",
}

// reservedInternalPrefix marks folders a host application creates next
// to the project file inside brand-new projects.
const reservedInternalPrefix = "01_"
