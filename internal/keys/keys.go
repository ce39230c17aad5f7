// Package keys derives stable item identities from raw vocabulary and
// grammar labels.
//
// A label such as "Tan (Ten)" or "es: casa" carries display noise that must
// not split one item into several review histories. Normalize removes that
// noise; Fold additionally lowercases for set membership. Diacritics are
// kept, so "cafe" and "café" stay distinct items.
package keys

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
)

// ErrMalformedLabel is returned by callers that reject a label whose
// normalized form is empty.
var ErrMalformedLabel = errors.New("malformed item label")

// GeneralSubCategory is used in grammar keys when no subcategory is given.
const GeneralSubCategory = "general"

// grammarPrefix starts every grammar ItemKey.
const grammarPrefix = "grammar"

var (
	// trailingGloss matches one parenthetical segment at the end of a label.
	trailingGloss = regexp.MustCompile(`\s*\([^()]*\)\s*$`)

	// languagePrefix matches a leading qualifier like "es:" or "pt-BR:".
	// The code itself is checked against languageCodes.
	languagePrefix = regexp.MustCompile(`^\s*([A-Za-z]{2})(?:-[A-Za-z]{2,4})?\s*:\s*`)
)

// languageCodes lists the ISO 639-1 codes accepted as a label qualifier.
// Words that merely look like a code ("der", "Tan") are label content.
var languageCodes = map[string]bool{
	"ar": true, "bg": true, "bs": true, "ca": true, "cs": true, "cy": true,
	"da": true, "de": true, "el": true, "en": true, "eo": true, "es": true,
	"et": true, "eu": true, "fa": true, "fi": true, "fr": true, "ga": true,
	"gl": true, "he": true, "hi": true, "hr": true, "hu": true, "hy": true,
	"id": true, "it": true, "ja": true, "ka": true, "ko": true, "la": true,
	"lt": true, "lv": true, "mk": true, "nb": true, "nl": true, "nn": true,
	"no": true, "pl": true, "pt": true, "ro": true, "ru": true, "sk": true,
	"sl": true, "sq": true, "sr": true, "sv": true, "sw": true, "th": true,
	"tr": true, "uk": true, "ur": true, "vi": true, "zh": true,
}

// stripLanguagePrefix removes one leading qualifier naming a known code.
func stripLanguagePrefix(s string) string {
	m := languagePrefix.FindStringSubmatchIndex(s)
	if m == nil || !languageCodes[strings.ToLower(s[m[2]:m[3]])] {
		return s
	}
	return s[m[1]:]
}

// Normalize canonicalizes a raw label. It strips trailing parenthetical
// glosses and leading language qualifiers until none remain, then trims
// whitespace. The result is empty when the label holds no letter or digit.
func Normalize(label string) string {
	s := strings.TrimSpace(label)
	for {
		next := trailingGloss.ReplaceAllString(s, "")
		next = stripLanguagePrefix(next)
		next = strings.TrimSpace(next)
		if next == s {
			break
		}
		s = next
	}
	if !hasWordRune(s) {
		return ""
	}
	return s
}

// Fold returns the case-insensitive comparison form of a label or key.
func Fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Equal reports whether two labels name the same item.
func Equal(a, b string) bool {
	return Fold(Normalize(a)) == Fold(Normalize(b))
}

// Valid reports whether label normalizes to a usable key component.
func Valid(label string) bool {
	return Normalize(label) != ""
}

// VocabKey returns "<language>:<category>:<normalized-label>", or "" when
// the label is malformed.
func VocabKey(language, category, label string) string {
	n := Normalize(label)
	if n == "" {
		return ""
	}
	return strings.Join([]string{
		strings.TrimSpace(language),
		strings.TrimSpace(category),
		n,
	}, ":")
}

// GrammarKey returns "grammar:<category>:<subcategory|general>:<normalized-label>",
// or "" when the label is malformed.
func GrammarKey(category, subCategory, label string) string {
	n := Normalize(label)
	if n == "" {
		return ""
	}
	sub := strings.TrimSpace(subCategory)
	if sub == "" {
		sub = GeneralSubCategory
	}
	return strings.Join([]string{
		grammarPrefix,
		strings.TrimSpace(category),
		sub,
		n,
	}, ":")
}

// IsGrammarKey reports whether key was produced by GrammarKey.
func IsGrammarKey(key string) bool {
	return strings.HasPrefix(Fold(key), grammarPrefix+":")
}

func hasWordRune(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
