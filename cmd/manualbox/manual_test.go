package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/manualbox/internal/models"
	"git.home.luguber.info/inful/manualbox/internal/store"
)

func seedManualFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "manualbox.db")

	s, err := store.Open(dbPath)
	require.NoError(t, err)

	now := time.Now().UTC()
	require.NoError(t, s.Manuals().Create(context.Background(), models.Manual{
		ID:        "man-1",
		ProductID: "prod-1",
		Title:     "Blender Guide",
		Format:    models.ManualMarkdown,
		Content:   "# Care\n\nSee the [support page](https://example.com/support).\n",
		CreatedAt: now,
		UpdatedAt: now,
	}))
	require.NoError(t, s.Close())

	configPath := filepath.Join(dir, "manualbox.yaml")
	require.NoError(t, os.WriteFile(configPath,
		[]byte("data:\n  database_path: "+dbPath+"\n"), 0o644))
	return configPath
}

func TestRunManualRender(t *testing.T) {
	configPath := seedManualFixture(t)

	var out bytes.Buffer
	require.NoError(t, runManualRender(configPath, "man-1", &out))

	assert.Contains(t, out.String(), "<h1")
	assert.Contains(t, out.String(), "https://example.com/support")
}

func TestRunManualRender_MissingManual(t *testing.T) {
	configPath := seedManualFixture(t)

	var out bytes.Buffer
	require.Error(t, runManualRender(configPath, "man-404", &out))
}

func TestRunManualLinks(t *testing.T) {
	configPath := seedManualFixture(t)

	var out bytes.Buffer
	require.NoError(t, runManualLinks(configPath, "man-1", &out))

	assert.Contains(t, out.String(), "Blender Guide (man-1): 1 link(s)")
	assert.Contains(t, out.String(), "[inline] https://example.com/support")
}

func TestRunManualLinks_AllManuals(t *testing.T) {
	configPath := seedManualFixture(t)

	var out bytes.Buffer
	require.NoError(t, runManualLinks(configPath, "", &out))

	assert.Contains(t, out.String(), "man-1")
}
