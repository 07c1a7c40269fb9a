package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const orderDoc = `
entityName: Order
identity:
  fields: [id]
fields:
  - name: id
    type: string
    required: true
  - name: total
    type: number.decimal
`

func TestRunGenerate(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "order.yaml"), []byte(orderDoc), 0o644))
	out := filepath.Join(t.TempDir(), "gen")

	err := runGenerate(dir, "", out, "github.com/acme/app/ordersdb")
	require.NoError(t, err)

	for _, rel := range []string{"order.go", "keys/order.go", "validation/order.go", "converter/converter.go"} {
		_, statErr := os.Stat(filepath.Join(out, rel))
		assert.NoError(t, statErr, rel)
	}
	// No table metadata, no repository layer.
	_, statErr := os.Stat(filepath.Join(out, "repository"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestGenerateCmd(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "order.yaml"), []byte(orderDoc), 0o644))
	out := filepath.Join(t.TempDir(), "gen")

	cmd := generateCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs([]string{"--schema", dir, "--out", out, "--package", "github.com/acme/app/ordersdb"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "generated "+out)
}

func TestGenerateCmdRequiresPackage(t *testing.T) {
	cmd := generateCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--schema", t.TempDir()})
	assert.Error(t, cmd.Execute())
}

func TestWatchDirs(t *testing.T) {
	dir := t.TempDir()
	table := filepath.Join(dir, "table.yaml")
	require.NoError(t, os.WriteFile(table, []byte("tableName: orders\n"), 0o644))

	t.Run("file resolves to its parent", func(t *testing.T) {
		assert.Equal(t, []string{dir}, watchDirs(dir, table))
	})

	t.Run("empty table path skipped", func(t *testing.T) {
		assert.Equal(t, []string{dir}, watchDirs(dir, ""))
	})
}

func TestSchemaEvent(t *testing.T) {
	assert.True(t, schemaEvent(fsnotify.Event{Name: "order.yaml", Op: fsnotify.Write}))
	assert.True(t, schemaEvent(fsnotify.Event{Name: "order.yml", Op: fsnotify.Create}))
	assert.True(t, schemaEvent(fsnotify.Event{Name: "order.json", Op: fsnotify.Remove}))
	assert.False(t, schemaEvent(fsnotify.Event{Name: "order.yaml", Op: fsnotify.Chmod}))
	assert.False(t, schemaEvent(fsnotify.Event{Name: "notes.txt", Op: fsnotify.Write}))
}
