// Package lang maps free-form language identifiers into the canonical
// code space understood by the translation provider.
//
// Normalize is pure and total: it accepts both human-readable names
// ("French") and codes ("fr"), never fails, and resolves anything it
// does not recognize to the documented default.
package lang

import (
	"strings"

	"github.com/abadojack/whatlanggo"
)

// Code is a canonical language identifier, e.g. "fr" or "pt-BR".
type Code string

// Default is the canonical code unknown identifiers resolve to.
const Default = Code("en-US")

// canonical maps lowercased names and codes to their canonical form.
// Bare "English" and "en" default to US English, bare "Portuguese" and
// "pt" to Brazilian Portuguese.
var canonical = map[string]Code{
	"english":               "en-US",
	"english (us)":          "en-US",
	"english (uk)":          "en-GB",
	"spanish":               "es",
	"french":                "fr",
	"german":                "de",
	"italian":               "it",
	"portuguese":            "pt-BR",
	"portuguese (brazil)":   "pt-BR",
	"portuguese (portugal)": "pt-PT",
	"russian":               "ru",
	"chinese":               "zh",
	"japanese":              "ja",
	"korean":                "ko",
	"arabic":                "ar",
	"hindi":                 "hi",
	"bengali":               "bn",
	"dutch":                 "nl",
	"polish":                "pl",
	"turkish":               "tr",
	"vietnamese":            "vi",
	"thai":                  "th",
	"greek":                 "el",
	"hebrew":                "he",
	"indonesian":            "id",
	"malay":                 "ms",
	"filipino":              "fil",
	"swedish":               "sv",
	"danish":                "da",
	"finnish":               "fi",
	"czech":                 "cs",
	"romanian":              "ro",
	"hungarian":             "hu",
	"ukrainian":             "uk",
	"catalan":               "ca",

	"en":    "en-US",
	"en-us": "en-US",
	"en-gb": "en-GB",
	"es":    "es",
	"fr":    "fr",
	"de":    "de",
	"it":    "it",
	"pt":    "pt-BR",
	"pt-br": "pt-BR",
	"pt-pt": "pt-PT",
	"ru":    "ru",
	"zh":    "zh",
	"ja":    "ja",
	"ko":    "ko",
	"ar":    "ar",
	"hi":    "hi",
	"bn":    "bn",
	"nl":    "nl",
	"pl":    "pl",
	"tr":    "tr",
	"vi":    "vi",
	"th":    "th",
	"el":    "el",
	"he":    "he",
	"id":    "id",
	"ms":    "ms",
	"fil":   "fil",
	"sv":    "sv",
	"da":    "da",
	"fi":    "fi",
	"cs":    "cs",
	"ro":    "ro",
	"hu":    "hu",
	"uk":    "uk",
	"ca":    "ca",
}

// Normalize resolves any language name or code to its canonical form.
// Unknown regional variants fall back to their base language before
// resolving to Default.
func Normalize(identifier string) Code {
	key := strings.ToLower(strings.TrimSpace(identifier))
	if code, ok := canonical[key]; ok {
		return code
	}
	// "fr-CA" is not in the table but "fr" is.
	if idx := strings.IndexAny(key, "-_"); idx > 0 {
		if code, ok := canonical[key[:idx]]; ok {
			return code
		}
	}
	return Default
}

// Same reports whether two identifiers name the same language once
// canonicalized. This is the fan-out engine's skip-translation test.
func Same(a, b string) bool {
	return Normalize(a) == Normalize(b)
}

// Detect guesses the language of a text sample without any network
// call and maps the guess into the canonical space. Texts too short or
// too ambiguous to classify resolve to Default.
func Detect(text string) Code {
	info := whatlanggo.Detect(text)
	if !info.IsReliable() {
		return Default
	}
	return Normalize(info.Lang.Iso6391())
}
