package export

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hayeah/treetxt/internal/metrics"
)

func createTestDirectory(t *testing.T, files map[string]string) string {
	t.Helper()
	tempDir := t.TempDir()

	for relPath, content := range files {
		path := filepath.Join(tempDir, relPath)
		err := os.MkdirAll(filepath.Dir(path), 0o755)
		require.NoError(t, err)
		err = os.WriteFile(path, []byte(content), 0o644)
		require.NoError(t, err)
	}
	return tempDir
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func generate(t *testing.T, root string, rels []string, opts Options) string {
	t.Helper()

	files := make([]string, len(rels))
	for i, rel := range rels {
		files[i] = filepath.Join(root, rel)
	}

	var sb strings.Builder
	g := NewGenerator(root, nil, discardLogger())
	err := g.Generate(&sb, files, opts)
	require.NoError(t, err)
	return sb.String()
}

func TestGenerateSections(t *testing.T) {
	assert := assert.New(t)

	root := createTestDirectory(t, map[string]string{
		"src/main.go": "package main\n",
		"README.md":   "# hello\n",
	})

	out := generate(t, root, []string{"src/main.go", "README.md"}, DefaultOptions())

	assert.Contains(out, "# Codebase Export")
	assert.Contains(out, "Base directory: "+root)
	assert.Contains(out, "Total files: 2")
	assert.Contains(out, "## DIRECTORY STRUCTURE")
	assert.Contains(out, "## FILE CONTENTS")
	assert.Contains(out, "File: README.md")
	assert.Contains(out, "File: "+filepath.Join("src", "main.go"))
	assert.Contains(out, "package main")

	// Sections come in header, tree, contents order.
	assert.Less(strings.Index(out, "## DIRECTORY STRUCTURE"), strings.Index(out, "## FILE CONTENTS"))
}

func TestGenerateTreeDiagram(t *testing.T) {
	assert := assert.New(t)

	root := createTestDirectory(t, map[string]string{
		"src/main.go":  "m",
		"src/util.go":  "u",
		"docs/spec.md": "s",
	})

	out := generate(t, root, []string{"src/main.go", "src/util.go", "docs/spec.md"}, DefaultOptions())

	assert.Contains(out, "├── docs/")
	assert.Contains(out, "└── src/")
	assert.Contains(out, "├── main.go")
	assert.Contains(out, "└── util.go")
	assert.Contains(out, "└── spec.md")
}

func TestGenerateLineNumbers(t *testing.T) {
	assert := assert.New(t)

	root := createTestDirectory(t, map[string]string{
		"a.txt": "one\ntwo\nthree\n",
	})

	opts := DefaultOptions()
	opts.LineNumbers = true
	out := generate(t, root, []string{"a.txt"}, opts)

	assert.Contains(out, "   1 | one")
	assert.Contains(out, "   2 | two")
	assert.Contains(out, "   3 | three")
}

func TestGenerateEmptyFileMarker(t *testing.T) {
	assert := assert.New(t)

	root := createTestDirectory(t, map[string]string{
		"empty.txt": "",
		"blank.txt": "  \n\t\n",
	})

	out := generate(t, root, []string{"empty.txt", "blank.txt"}, DefaultOptions())
	assert.Equal(2, strings.Count(out, "(empty file)"))
}

func TestGenerateBinaryPlaceholder(t *testing.T) {
	assert := assert.New(t)

	root := t.TempDir()
	binPath := filepath.Join(root, "blob.bin")
	require.NoError(t, os.WriteFile(binPath, []byte{0x00, 0x01, 0x02, 0xff, 0xfe, 0x00, 0x01, 0x02}, 0o644))

	out := generate(t, root, []string{"blob.bin"}, DefaultOptions())
	assert.Contains(out, "[binary file omitted]")
}

func TestGenerateLockFilePlaceholder(t *testing.T) {
	assert := assert.New(t)

	root := createTestDirectory(t, map[string]string{
		"yarn.lock": "huge generated content",
	})

	out := generate(t, root, []string{"yarn.lock"}, DefaultOptions())
	assert.Contains(out, "[lock file omitted]")
	assert.NotContains(out, "huge generated content")
}

func TestGenerateUnreadableFileNote(t *testing.T) {
	assert := assert.New(t)

	root := createTestDirectory(t, map[string]string{
		"a.txt": "a",
	})

	// The missing file is reported inline; the rest still exports.
	files := []string{filepath.Join(root, "a.txt"), filepath.Join(root, "gone.txt")}
	var sb strings.Builder
	g := NewGenerator(root, nil, discardLogger())
	err := g.Generate(&sb, files, DefaultOptions())
	require.NoError(t, err)

	assert.Contains(sb.String(), "Error reading file:")
	assert.Contains(sb.String(), "File: a.txt")
}

func TestGenerateNoTreeOption(t *testing.T) {
	assert := assert.New(t)

	root := createTestDirectory(t, map[string]string{
		"a.txt": "a",
	})

	opts := DefaultOptions()
	opts.IncludeTree = false
	out := generate(t, root, []string{"a.txt"}, opts)

	assert.NotContains(out, "## DIRECTORY STRUCTURE")
	assert.Contains(out, "## FILE CONTENTS")
}

func TestGenerateNoContentsOption(t *testing.T) {
	assert := assert.New(t)

	root := createTestDirectory(t, map[string]string{
		"a.txt": "secret body",
	})

	opts := DefaultOptions()
	opts.IncludeContents = false
	out := generate(t, root, []string{"a.txt"}, opts)

	assert.Contains(out, "## DIRECTORY STRUCTURE")
	assert.NotContains(out, "## FILE CONTENTS")
	assert.NotContains(out, "secret body")
}

func TestGeneratePathOutsideBaseDir(t *testing.T) {
	assert := assert.New(t)

	root := t.TempDir()
	outside := filepath.Join(t.TempDir(), "other.txt")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0o644))

	var sb strings.Builder
	g := NewGenerator(root, nil, discardLogger())
	err := g.Generate(&sb, []string{outside}, DefaultOptions())
	require.NoError(t, err)

	// Outside paths keep their absolute form.
	assert.Contains(sb.String(), "File: "+outside)
}

func TestGenerateAccountsIntoReport(t *testing.T) {
	assert := assert.New(t)

	root := createTestDirectory(t, map[string]string{
		"a.txt": "hello world\n",
		"b.txt": "more text\n",
	})

	report := metrics.NewReport(&metrics.SimpleCounter{}, 2)
	files := []string{filepath.Join(root, "a.txt"), filepath.Join(root, "b.txt")}

	g := NewGenerator(root, report, discardLogger())
	err := g.Generate(io.Discard, files, DefaultOptions())
	require.NoError(t, err)
	report.Wait()

	byFile := report.SumBy("file")
	assert.Equal(2, countSections(report, "file"))
	assert.Greater(byFile.Bytes, 0)
	assert.Greater(report.Total().Bytes, byFile.Bytes)
}

func countSections(r *metrics.Report, kind string) int {
	n := 0
	for k := range r.Items() {
		if k.Kind == kind {
			n++
		}
	}
	return n
}
