package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jonathan/swiftblocks/internal/xcodeproj"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspectArchive_Exported(t *testing.T) {
	archive, err := xcodeproj.Materialize("Demo", "let x = 1", xcodeproj.WithIDSource(xcodeproj.SeededIDs(3)))
	require.NoError(t, err)

	entries, problems, err := inspectArchive(archive)
	require.NoError(t, err)
	assert.Len(t, entries, 13)
	assert.Empty(t, problems)
}

func TestInspectArchive_BadAsset(t *testing.T) {
	tree := xcodeproj.FileTree{}
	tree["Demo/Assets.xcassets/Contents.json"] = `{}`
	tree["Demo/ContentView.swift"] = "import SwiftUI\n\n"
	archive, err := tree.Archive(xcodeproj.DefaultModTime)
	require.NoError(t, err)

	entries, problems, err := inspectArchive(archive)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	require.Len(t, problems, 1)
	assert.Contains(t, problems[0], "Demo/Assets.xcassets/Contents.json")
}

func TestInspectArchive_NotAZip(t *testing.T) {
	_, _, err := inspectArchive([]byte("not a zip"))
	assert.Error(t, err)
}

func TestInspectCommand(t *testing.T) {
	archive, err := xcodeproj.Materialize("Demo", "let x = 1")
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "Demo.zip")
	require.NoError(t, os.WriteFile(path, archive, 0644))

	assert.NoError(t, runInspect(inspectCmd, []string{path}))
	assert.Error(t, runInspect(inspectCmd, []string{filepath.Join(t.TempDir(), "missing.zip")}))
}
