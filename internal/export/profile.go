package export

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Profile is a TOML export profile, for batch exports without the
// interactive selector:
//
//	files = ["cmd/main.go", "README.md"]
//
//	[output]
//	include_tree = true
//	include_contents = true
//	line_numbers = false
type Profile struct {
	Files  []string      `toml:"files"`
	Output ProfileOutput `toml:"output"`
}

// ProfileOutput mirrors Options in TOML form.
type ProfileOutput struct {
	IncludeTree     bool   `toml:"include_tree"`
	IncludeContents bool   `toml:"include_contents"`
	LineNumbers     bool   `toml:"line_numbers"`
	Separator       string `toml:"separator"`
}

// LoadProfile parses a TOML profile and resolves its file list against root.
// Entries that are missing or not regular files are skipped with a warning;
// an entirely empty result is an error.
func LoadProfile(path, root string, logger *slog.Logger) ([]string, Options, error) {
	profile := Profile{
		Output: ProfileOutput{
			IncludeTree:     true,
			IncludeContents: true,
			Separator:       strings.Repeat("═", 80),
		},
	}

	if _, err := toml.DecodeFile(path, &profile); err != nil {
		return nil, Options{}, fmt.Errorf("failed to parse profile %s: %w", path, err)
	}

	var files []string
	for _, entry := range profile.Files {
		abs := entry
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(root, entry)
		}

		fi, err := os.Stat(abs)
		if err != nil {
			logger.Warn("skipping missing profile entry", "path", entry, "error", err)
			continue
		}
		if fi.IsDir() {
			logger.Warn("skipping profile entry, not a file", "path", entry)
			continue
		}
		files = append(files, abs)
	}

	if len(files) == 0 {
		return nil, Options{}, fmt.Errorf("no valid files found in profile %s", path)
	}

	opts := Options{
		IncludeTree:     profile.Output.IncludeTree,
		IncludeContents: profile.Output.IncludeContents,
		LineNumbers:     profile.Output.LineNumbers,
		Separator:       profile.Output.Separator,
	}
	if opts.Separator == "" {
		opts.Separator = strings.Repeat("═", 80)
	}

	return files, opts, nil
}
