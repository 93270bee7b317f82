package config

// Emoji glyphs used on rendered cards and notices.
const (
	EmojiUnavailable = "❌"
	EmojiValidate    = "✅"
	EmojiForfeit     = "🚪"
	EmojiVictory     = "🏆"
	EmojiThumbs      = "👍"
)

// MatchChannelTemplate names per-match channels; a and b are team ids.
const MatchChannelTemplate = "equipe-%d-vs-equipe-%d"

// Classes is the closed set of playable classes. A team may never field
// two players of the same class.
var Classes = []string{
	"eniripsa",
	"cra",
	"iop",
	"osamodas",
	"sram",
	"roublard",
	"pandawa",
	"xelor",
	"ecaflip",
	"enutrof",
	"steamer",
	"sadida",
	"sacrieur",
	"feca",
	"zobal",
}

// IsValidClass reports whether name belongs to the closed class set.
// Callers are expected to lowercase/trim input first.
func IsValidClass(name string) bool {
	for _, c := range Classes {
		if c == name {
			return true
		}
	}
	return false
}

// GameMap is a playable map with its illustrative image.
type GameMap struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}

// Maps is the validated map pool a match map is drawn from.
var Maps = []GameMap{
	{Name: "iop", Image: "https://papycha.fr/wp-content/uploads/2023/08/iop.png"},
	{Name: "ecaflip", Image: "https://papycha.fr/wp-content/uploads/2023/08/eca-768x541.png"},
	{Name: "sacrieur", Image: "https://papycha.fr/wp-content/uploads/2023/08/Sacrieur.png"},
	{Name: "sadida", Image: "https://papycha.fr/wp-content/uploads/2023/08/sadida-1.png"},
	{Name: "eniripsa", Image: "https://papycha.fr/wp-content/uploads/2023/08/eni.png"},
	{Name: "sram", Image: "https://papycha.fr/wp-content/uploads/2023/08/sram.png"},
	{Name: "steamer", Image: "https://papycha.fr/wp-content/uploads/2023/08/steamer.png"},
	{Name: "xelor", Image: "https://papycha.fr/wp-content/uploads/2023/08/map_xelor-1.png"},
	{Name: "roublard", Image: "https://papycha.fr/wp-content/uploads/2023/08/Roublard.png"},
}
