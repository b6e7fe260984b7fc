package sanitizer

import (
	"regexp"
	"strings"
	"unicode"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var (
	reKeepLettersDigits = regexp.MustCompile(`[^0-9\p{L}]+`)
	reKeepLettersOnly   = regexp.MustCompile(`[^\p{L} ]+`)
	reTrimUnderscores   = regexp.MustCompile(`_+`)
)

func trimAndLower(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return s
}

func collapseUnderscores(s string) string {
	s = reTrimUnderscores.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

// SanitizeIdentifierLabel normalizes a label used as a lookup key
// (amenity names, hotel type labels): lowercase, underscore-joined.
func SanitizeIdentifierLabel(input string) string {
	p := Pipeline{
		trimAndLower,
		func(s string) string { return reKeepLettersDigits.ReplaceAllString(s, "_") },
		collapseUnderscores,
	}
	return p.Apply(input)
}

// SanitizeCity keeps letters and single spaces; city names compare
// case-insensitively throughout the preference path.
func SanitizeCity(input string) string {
	p := Pipeline{
		func(s string) string { return reKeepLettersOnly.ReplaceAllString(s, "") },
		TrimAndNormalize,
	}
	return p.Apply(input)
}

// SanitizeSlice applies a strategy and drops empties and duplicates,
// preserving first-seen order.
func SanitizeSlice(values []string, strategy Strategy) []string {
	seen := make(map[string]struct{})
	out := []string{}

	for _, v := range values {
		s := strategy(v)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	return out
}

// TrimAndNormalize trims and collapses internal whitespace runs to a
// single space.
func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)

	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

// SanitizeFreeText is for human-facing text fields (descriptions,
// reviews, special requests): whitespace normalization only.
func SanitizeFreeText(s string) string {
	return TrimAndNormalize(s)
}
