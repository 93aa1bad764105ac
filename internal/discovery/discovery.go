// Package discovery finds the candidate audio files of a comparison run.
package discovery

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrNoFiles is returned when discovery yields no supported files.
var ErrNoFiles = errors.New("no supported audio files found")

// Pattern returns the glob matching any of exts, e.g. "*.{mp3,wav}".
// Extensions are compared lower-cased, with or without a leading dot.
func Pattern(exts []string) string {
	cleaned := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			cleaned = append(cleaned, ext)
		}
	}
	switch len(cleaned) {
	case 0:
		return ""
	case 1:
		return "*." + cleaned[0]
	}
	return "*.{" + strings.Join(cleaned, ",") + "}"
}

// Supported reports whether path carries one of exts, ignoring case.
func Supported(path string, exts []string) bool {
	pattern := Pattern(exts)
	if pattern == "" {
		return false
	}
	matched, err := doublestar.Match(pattern, strings.ToLower(filepath.Base(path)))
	return err == nil && matched
}

// Find lists the regular files directly inside dir whose extension is one of
// exts. Subdirectories are not searched. Results are absolute paths sorted
// by lower-cased base name.
func Find(dir string, exts []string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("discover %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("discover %s: not a directory", dir)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("discover %s: %w", dir, err)
	}

	entries, err := doublestar.Glob(os.DirFS(abs), "*", doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("discover %s: %w", dir, err)
	}
	var files []string
	for _, name := range entries {
		if Supported(name, exts) {
			files = append(files, filepath.Join(abs, name))
		}
	}
	SortByName(files)
	return files, nil
}

// Expand resolves command line inputs into candidate files. Directories are
// searched with Find; files are kept when their extension is supported.
// Duplicates are dropped and the result is sorted like Find's.
func Expand(inputs []string, exts []string) ([]string, error) {
	seen := make(map[string]struct{})
	var files []string
	add := func(path string) {
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		files = append(files, path)
	}
	for _, input := range inputs {
		info, err := os.Stat(input)
		if err != nil {
			return nil, fmt.Errorf("input %s: %w", input, err)
		}
		if info.IsDir() {
			found, err := Find(input, exts)
			if err != nil {
				return nil, err
			}
			for _, path := range found {
				add(path)
			}
			continue
		}
		if !Supported(input, exts) {
			return nil, fmt.Errorf("input %s: unsupported extension %q", input, filepath.Ext(input))
		}
		abs, err := filepath.Abs(input)
		if err != nil {
			return nil, fmt.Errorf("input %s: %w", input, err)
		}
		add(abs)
	}
	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	SortByName(files)
	return files, nil
}

// SortByName orders paths by lower-cased base name, keeping input order for
// names that compare equal.
func SortByName(paths []string) {
	sort.SliceStable(paths, func(i, j int) bool {
		return strings.ToLower(filepath.Base(paths[i])) < strings.ToLower(filepath.Base(paths[j]))
	})
}
