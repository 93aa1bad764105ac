package textutil

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// fileNameReplacer drops punctuation that breaks shell quoting or paths.
var fileNameReplacer = strings.NewReplacer(
	" ", "_",
	"&", "and",
	"(", "", ")", "",
	"[", "", "]", "",
	"{", "", "}", "",
	"'", "", "\"", "",
	"#", "", "%", "", "@", "", "!", "", "?", "",
	"*", "", "+", "", "=", "", "|", "",
	"\\", "", "/", "", ":", "", ";", "",
	"<", "", ">", "", ",", "",
)

// CleanName returns the stem of filename made safe for use as a directory or
// file name: accents are folded, spaces become underscores, "&" becomes
// "and", unsafe punctuation is removed, and runs of underscores collapse.
// An empty result becomes "unnamed".
func CleanName(filename string) string {
	base := filepath.Base(strings.TrimSpace(filename))
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if base == "." || base == string(filepath.Separator) {
		name = ""
	}
	name = FoldAccents(name)
	name = fileNameReplacer.Replace(name)
	for strings.Contains(name, "__") {
		name = strings.ReplaceAll(name, "__", "_")
	}
	name = strings.Trim(name, "_")
	if name == "" {
		return "unnamed"
	}
	return name
}

// FoldAccents strips combining marks so "Doblaje Español" becomes
// "Doblaje Espanol". Input that fails to transform is returned unchanged.
func FoldAccents(value string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, value)
	if err != nil {
		return value
	}
	return out
}

// UniqueNames cleans every name and suffixes later collisions with "_2",
// "_3", and so on, so distinct inputs never share an artifact directory.
// The result is parallel to names.
func UniqueNames(names []string) []string {
	out := make([]string, len(names))
	seen := make(map[string]int, len(names))
	for i, name := range names {
		clean := CleanName(name)
		key := strings.ToLower(clean)
		seen[key]++
		if n := seen[key]; n > 1 {
			candidate := fmt.Sprintf("%s_%d", clean, n)
			for seen[strings.ToLower(candidate)] > 0 {
				n++
				candidate = fmt.Sprintf("%s_%d", clean, n)
			}
			seen[key] = n
			seen[strings.ToLower(candidate)]++
			clean = candidate
		}
		out[i] = clean
	}
	return out
}
