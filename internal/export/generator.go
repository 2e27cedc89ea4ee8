package export

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/hayeah/treetxt/internal/metrics"
)

// Options controls what the generated artifact contains.
type Options struct {
	IncludeTree     bool
	IncludeContents bool
	LineNumbers     bool
	Separator       string
}

// DefaultOptions returns the default artifact layout: directory diagram plus
// full file contents, no line numbers.
func DefaultOptions() Options {
	return Options{
		IncludeTree:     true,
		IncludeContents: true,
		Separator:       strings.Repeat("═", 80),
	}
}

// Generator concatenates a selected file list into a single text artifact:
// a header, a directory diagram of the selection, and the file bodies.
type Generator struct {
	BaseDir string
	Report  *metrics.Report // optional size accounting
	Logger  *slog.Logger
}

// NewGenerator creates a Generator rooted at baseDir.
func NewGenerator(baseDir string, report *metrics.Report, logger *slog.Logger) *Generator {
	return &Generator{
		BaseDir: baseDir,
		Report:  report,
		Logger:  logger,
	}
}

// Generate writes the artifact for files to w. The file list is treated as
// absolute paths; paths outside BaseDir keep their absolute form in headers.
func (g *Generator) Generate(w io.Writer, files []string, opts Options) error {
	sorted := make([]string, len(files))
	copy(sorted, files)
	sort.Strings(sorted)

	if err := g.writeHeader(w, sorted, opts); err != nil {
		return err
	}

	if opts.IncludeTree {
		var sb strings.Builder
		if err := writeTreeDiagram(&sb, g.BaseDir, sorted); err != nil {
			return err
		}
		sb.WriteString("\n")
		g.account("tree", "diagram", sb.String())
		if _, err := io.WriteString(w, sb.String()); err != nil {
			return fmt.Errorf("failed to write directory diagram: %w", err)
		}
	}

	if opts.IncludeContents {
		if err := g.writeContents(w, sorted, opts); err != nil {
			return err
		}
	}

	return nil
}

func (g *Generator) writeHeader(w io.Writer, files []string, opts Options) error {
	var sb strings.Builder

	sb.WriteString("# Codebase Export\n")
	fmt.Fprintf(&sb, "Generated on: %s\n", time.Now().UTC().Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(&sb, "Base directory: %s\n", g.BaseDir)
	fmt.Fprintf(&sb, "Total files: %d\n\n", len(files))

	if opts.IncludeTree {
		sb.WriteString(opts.Separator + "\n")
		sb.WriteString("## DIRECTORY STRUCTURE\n")
		sb.WriteString(opts.Separator + "\n\n")
	}

	g.account("header", "header", sb.String())
	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	return nil
}

func (g *Generator) writeContents(w io.Writer, files []string, opts Options) error {
	var sb strings.Builder
	sb.WriteString(opts.Separator + "\n")
	sb.WriteString("## FILE CONTENTS\n")
	sb.WriteString(opts.Separator + "\n\n")
	g.account("header", "contents-heading", sb.String())
	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("failed to write contents heading: %w", err)
	}

	fileSep := strings.Repeat("─", 60)

	for i, path := range files {
		relPath := g.relPath(path)

		var fb strings.Builder
		if i > 0 {
			fb.WriteString("\n")
		}
		fb.WriteString(fileSep + "\n")
		fmt.Fprintf(&fb, "File: %s\n", relPath)
		fb.WriteString(fileSep + "\n\n")

		body, err := fileBody(path)
		if err != nil {
			g.Logger.Warn("cannot read selected file", "path", path, "error", err)
			fmt.Fprintf(&fb, "Error reading file: %v\n", err)
		} else {
			fb.WriteString(renderBody(body, opts.LineNumbers))
		}

		g.account("file", relPath, fb.String())
		if _, err := io.WriteString(w, fb.String()); err != nil {
			return fmt.Errorf("failed to write content of %s: %w", relPath, err)
		}
	}

	return nil
}

// renderBody formats one file body, optionally prefixing line numbers.
func renderBody(body string, lineNumbers bool) string {
	if !lineNumbers {
		if !strings.HasSuffix(body, "\n") {
			body += "\n"
		}
		return body
	}

	var sb strings.Builder
	for i, line := range strings.Split(strings.TrimSuffix(body, "\n"), "\n") {
		fmt.Fprintf(&sb, "%4d | %s\n", i+1, line)
	}
	return sb.String()
}

func (g *Generator) relPath(path string) string {
	rel, err := filepath.Rel(g.BaseDir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

func (g *Generator) account(kind, name, content string) {
	if g.Report != nil {
		g.Report.Add(kind, name, []byte(content))
	}
}
