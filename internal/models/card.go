// internal/models/card.go
package models

// CardID is a canonical tarot card identifier, e.g. "the_fool" or
// "three_of_cups".
type CardID string

const (
	MajorPrefix = "the_"

	// DefaultCardID is used for any name outside the catalog.
	DefaultCardID CardID = "the_sun"
)

// ImagePath maps the card to its static asset.
func (c CardID) ImagePath() string {
	return "/tarot/" + string(c) + ".jpg"
}

func (c CardID) String() string { return string(c) }

// MajorArcana lists the bare major names in deck order. Canonical ids carry
// MajorPrefix.
var MajorArcana = []string{
	"fool", "magician", "high_priestess", "empress", "emperor",
	"hierophant", "lovers", "chariot", "strength", "hermit",
	"wheel_of_fortune", "justice", "hanged_man", "death", "temperance",
	"devil", "tower", "star", "moon", "sun", "judgement", "world",
}

var (
	MinorRanks = []string{
		"ace", "two", "three", "four", "five", "six", "seven",
		"eight", "nine", "ten", "page", "knight", "queen", "king",
	}
	MinorSuits = []string{"wands", "cups", "swords", "pentacles"}
)

var (
	majorSet = make(map[string]struct{}, len(MajorArcana))
	catalog  = make(map[CardID]struct{}, 78)
	ordered  = make([]CardID, 0, 78)
)

func init() {
	for _, name := range MajorArcana {
		majorSet[name] = struct{}{}
		id := CardID(MajorPrefix + name)
		catalog[id] = struct{}{}
		ordered = append(ordered, id)
	}
	for _, suit := range MinorSuits {
		for _, rank := range MinorRanks {
			id := CardID(rank + "_of_" + suit)
			catalog[id] = struct{}{}
			ordered = append(ordered, id)
		}
	}
}

// IsMajor reports whether a bare (unprefixed) name is a major arcana card.
func IsMajor(bare string) bool {
	_, ok := majorSet[bare]
	return ok
}

// InCatalog reports whether id is one of the 78 canonical identifiers.
func InCatalog(id CardID) bool {
	_, ok := catalog[id]
	return ok
}

// Catalog returns all 78 identifiers, majors first.
func Catalog() []CardID {
	out := make([]CardID, len(ordered))
	copy(out, ordered)
	return out
}
