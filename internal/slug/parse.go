package slug

import (
	"strconv"
	"strings"
)

const htmlSuffix = ".html"

// Outcome tells whether a decoded value is trustworthy or a best-effort guess
type Outcome int

const (
	Parsed Outcome = iota
	Fallback
)

func (o Outcome) String() string {
	if o == Parsed {
		return "parsed"
	}
	return "fallback"
}

// OneLevel is a decoded "{type}-{game}-{id}" or "{game}-{id}" segment.
// GameID is meaningful only when Outcome is Parsed.
type OneLevel struct {
	GameID   int64
	GameName string
	Type     string
	Outcome  Outcome
}

// ParseID returns the last hyphen separated token of the slug, numeric or not
func ParseID(s string) string {
	if s == "" {
		return ""
	}

	s = strings.TrimSuffix(s, htmlSuffix)
	if i := strings.LastIndexByte(s, '-'); i >= 0 {
		return s[i+1:]
	}
	return s
}

// ParseWithID splits "{title}-{id}[.html]" into a title-cased name and the id token.
// The name is display text and can't be turned back into the original title.
func ParseWithID(s string) (name string, id string) {
	s = strings.TrimSuffix(s, htmlSuffix)

	i := strings.LastIndexByte(s, '-')
	if i < 0 {
		return "", s
	}
	return TitleCase(s[:i]), s[i+1:]
}

// ParseOneLevel decodes a list page segment such as "random-3k-lien-quan-7" or "genshin-impact-4".
func ParseOneLevel(s string) OneLevel {
	ol, _ := parseOneLevel(s)
	return ol
}

func parseOneLevel(s string) (OneLevel, bool) {
	if s == "" {
		return OneLevel{Type: DefaultType, Outcome: Fallback}, false
	}

	i := strings.LastIndexByte(s, '-')
	if i < 0 {
		// Bare id, game name omitted
		if gameID, ok := parseNumber(s); ok {
			return OneLevel{GameID: gameID, Type: DefaultType, Outcome: Parsed}, false
		}
		return OneLevel{GameName: s, Type: DefaultType, Outcome: Fallback}, false
	}

	gameID, ok := parseNumber(s[i+1:])
	if !ok {
		return OneLevel{GameName: s, Type: DefaultType, Outcome: Fallback}, false
	}

	key, rest, typed := matchType(s[:i])
	if !typed {
		key = DefaultType
	}

	return OneLevel{
		GameID:   gameID,
		GameName: TitleCase(rest),
		Type:     key,
		Outcome:  Parsed,
	}, typed
}

// parseNumber accepts unsigned base-10 integers only
func parseNumber(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
