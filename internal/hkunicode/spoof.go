package hkunicode

import (
	"unicode"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// Spoof check failure reasons, matching spec.md §4.A's named set exactly.
// This is a best-effort subset of Unicode TR39 confusable detection, not a
// full ICU USpoofChecker port — see DESIGN.md for why no ecosystem library
// fills this gap. Per spec.md §4.A, the configuration deliberately excludes
// the all-checks bits CHAR_LIMIT, SINGLE_SCRIPT and ANY_CASE, so this
// implementation has no case-mixing check. It does reject identifiers
// over 255 code points (ErrTooLong) and identifiers using more than one
// script besides Common/Inherited (ErrRestrictionLevel).
var (
	ErrInvalidUTF8       = errors.New("spoof: invalid utf-8")
	ErrTooLong           = errors.New("spoof: identifier too long")
	ErrRestrictionLevel  = errors.New("spoof: restriction-level violation (mixed scripts)")
	ErrInvisible         = errors.New("spoof: invisible or format character")
	ErrMixedNumbers      = errors.New("spoof: digits from mixed numbering systems")
	ErrHiddenOverlay     = errors.New("spoof: combining mark overlays visible character")
	maxIdentifierRunes   = 255
)

// SpoofCheck runs the identifier security checks spec.md §4.A requires
// after NFC normalization. s is assumed already NFC-normalized; SpoofCheck
// re-validates UTF-8 validity defensively since it may be called on raw
// lexer input too.
func SpoofCheck(s string) error {
	if !utf8Valid(s) {
		return ErrInvalidUTF8
	}

	runes := []rune(s)
	if len(runes) > maxIdentifierRunes {
		return ErrTooLong
	}

	scripts := make(map[string]bool)
	numberSystems := make(map[string]bool)
	prevWasBase := false

	for _, r := range runes {
		if unicode.Is(unicode.Cf, r) {
			return ErrInvisible
		}

		if unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Mc, r) {
			// A combining mark stacked directly on another combining mark
			// (no base character between them) can visually overlay and
			// hide the preceding glyph.
			if !prevWasBase {
				return ErrHiddenOverlay
			}
			prevWasBase = false
			continue
		}
		prevWasBase = true

		if unicode.IsDigit(r) {
			numberSystems[digitSystem(r)] = true
		}

		if sc := scriptOf(r); sc != "" {
			scripts[sc] = true
		}
	}

	if len(numberSystems) > 1 {
		return ErrMixedNumbers
	}

	// Restriction level: allow a single script, or a single script mixed
	// with the "Common"/"Inherited" scripts that punctuation and digits
	// fall under. Anything wider trips restriction-level.
	distinct := 0
	for sc := range scripts {
		if sc != "Common" && sc != "Inherited" {
			distinct++
		}
	}
	if distinct > 1 {
		return ErrRestrictionLevel
	}

	return nil
}

func utf8Valid(s string) bool {
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size <= 1 {
			return false
		}
		i += size
	}
	return true
}

// digitSystem identifies which decimal numbering system r's digit belongs
// to, by the start of the Unicode block its Nd range sits in.
func digitSystem(r rune) string {
	switch {
	case r >= '0' && r <= '9':
		return "latin"
	case r >= 0x0660 && r <= 0x0669:
		return "arabic-indic"
	case r >= 0x06F0 && r <= 0x06F9:
		return "extended-arabic-indic"
	case r >= 0x0966 && r <= 0x096F:
		return "devanagari"
	case r >= 0xFF10 && r <= 0xFF19:
		return "fullwidth"
	default:
		return "other"
	}
}

var scriptTables = []struct {
	name  string
	table *unicode.RangeTable
}{
	{"Latin", unicode.Latin},
	{"Greek", unicode.Greek},
	{"Cyrillic", unicode.Cyrillic},
	{"Han", unicode.Han},
	{"Hiragana", unicode.Hiragana},
	{"Katakana", unicode.Katakana},
	{"Hangul", unicode.Hangul},
	{"Arabic", unicode.Arabic},
	{"Hebrew", unicode.Hebrew},
	{"Common", unicode.Common},
	{"Inherited", unicode.Inherited},
}

func scriptOf(r rune) string {
	for _, s := range scriptTables {
		if unicode.Is(s.table, r) {
			return s.name
		}
	}
	return ""
}
