package state

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := Open(filepath.Join(t.TempDir(), "state.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveLoadRoundTrip(t *testing.T) {
	assert := assert.New(t)
	s := openTestStore(t)

	paths := []string{"/project/b.txt", "/project/a/x.txt"}
	require.NoError(t, s.Save("/project", paths))

	loaded, err := s.Load("/project")
	require.NoError(t, err)
	assert.Equal([]string{"/project/a/x.txt", "/project/b.txt"}, loaded)
}

func TestSaveReplacesSelection(t *testing.T) {
	assert := assert.New(t)
	s := openTestStore(t)

	require.NoError(t, s.Save("/project", []string{"/project/old.txt"}))
	require.NoError(t, s.Save("/project", []string{"/project/new.txt"}))

	loaded, err := s.Load("/project")
	require.NoError(t, err)
	assert.Equal([]string{"/project/new.txt"}, loaded)
}

func TestSaveEmptyClearsSelection(t *testing.T) {
	assert := assert.New(t)
	s := openTestStore(t)

	require.NoError(t, s.Save("/project", []string{"/project/a.txt"}))
	require.NoError(t, s.Save("/project", nil))

	loaded, err := s.Load("/project")
	require.NoError(t, err)
	assert.Empty(loaded)
}

func TestLoadUnknownProject(t *testing.T) {
	assert := assert.New(t)
	s := openTestStore(t)

	loaded, err := s.Load("/never/saved")
	require.NoError(t, err)
	assert.Empty(loaded)
}

func TestProjectsAreIndependent(t *testing.T) {
	assert := assert.New(t)
	s := openTestStore(t)

	require.NoError(t, s.Save("/alpha", []string{"/alpha/a.txt"}))
	require.NoError(t, s.Save("/beta", []string{"/beta/b.txt"}))

	alpha, err := s.Load("/alpha")
	require.NoError(t, err)
	beta, err := s.Load("/beta")
	require.NoError(t, err)

	assert.Equal([]string{"/alpha/a.txt"}, alpha)
	assert.Equal([]string{"/beta/b.txt"}, beta)
}

func TestProjectKeyStable(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()

	// The same directory reached through a relative segment maps to one key.
	assert.Equal(ProjectKey(dir), ProjectKey(filepath.Join(dir, "sub", "..")))
}

func TestOpenCreatesParentDir(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	path := filepath.Join(t.TempDir(), "nested", "dir", "state.db")

	s, err := Open(path, logger)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Save("/p", []string{"/p/a.txt"}))
}
