package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) error {
	t.Helper()
	root := newRootCmd()
	root.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "none.yaml")}, args...))
	return root.Execute()
}

func TestCommands(t *testing.T) {
	t.Run("lessons", func(t *testing.T) {
		require.NoError(t, execute(t, "lessons"))
	})

	t.Run("check", func(t *testing.T) {
		require.NoError(t, execute(t, "check", "--strict"))
	})

	t.Run("simulate writes reports", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, execute(t, "simulate", "Lesson2", "--seed", "4", "--accuracy", "0.5", "--write", "--report-dir", dir))
		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 3)
	})

	t.Run("simulate unknown lesson", func(t *testing.T) {
		require.Error(t, execute(t, "simulate", "Lesson404"))
	})

	t.Run("simulate unknown fail kind", func(t *testing.T) {
		require.Error(t, execute(t, "simulate", "Lesson1", "--fail-kind", "Crossword"))
	})

	t.Run("missing catalog path", func(t *testing.T) {
		require.Error(t, execute(t, "lessons", "--catalog", filepath.Join(t.TempDir(), "missing")))
	})

	t.Run("strict check of a broken catalog", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "lessons.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"L":{"id":"l","games":{}}}`), 0o644))
		require.Error(t, execute(t, "check", "--strict", "--catalog", path))
		require.NoError(t, execute(t, "check", "--catalog", path))
	})
}
