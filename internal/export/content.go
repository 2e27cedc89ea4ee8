package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"
)

// fileBody reads one file and returns the text to place in the artifact.
// Lock files and binary files are replaced by short placeholders so the
// export stays readable; an empty file is marked as such.
func fileBody(path string) (string, error) {
	if isLockFile(path) {
		return "[lock file omitted]\n", nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file %s: %w", path, err)
	}

	if isBinary(content) {
		return "[binary file omitted]\n", nil
	}

	if strings.TrimSpace(string(content)) == "" {
		return "(empty file)\n", nil
	}

	return string(content), nil
}

// lockFileNames are dependency lock files whose generated contents add bulk
// without adding information.
var lockFileNames = map[string]bool{
	"package-lock.json":   true,
	"npm-shrinkwrap.json": true,
	"yarn.lock":           true,
	"pnpm-lock.yaml":      true,
	"bun.lockb":           true,
	"go.sum":              true,
	"pipfile.lock":        true,
	"poetry.lock":         true,
	"pdm.lock":            true,
	"requirements.lock":   true,
	"gemfile.lock":        true,
	"cargo.lock":          true,
	"composer.lock":       true,
	"packages.lock.json":  true,
	"package.resolved":    true,
	"pubspec.lock":        true,
}

func isLockFile(path string) bool {
	return lockFileNames[strings.ToLower(filepath.Base(path))]
}

// isBinary samples the first 100 runes and treats the content as binary when
// more than 10% of them are unprintable.
func isBinary(content []byte) bool {
	const sampleSize = 100
	var nonPrintable, totalRunes int

	for i := 0; i < len(content) && totalRunes < sampleSize; {
		r, size := utf8.DecodeRune(content[i:])
		if r == utf8.RuneError {
			nonPrintable++
		} else if !unicode.IsPrint(r) && !unicode.IsSpace(r) {
			nonPrintable++
		}
		i += size
		totalRunes++
	}

	if totalRunes == 0 {
		return false
	}
	return float64(nonPrintable)/float64(totalRunes) > 0.1
}
