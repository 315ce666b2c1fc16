package cmd

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leafstage/classifier"
)

func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "leafstage.yaml")
	cfg := "database:\n  path: " + filepath.Join(dir, "test.db") + "\nhistory:\n  capacity: 5\n"
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0644))
	return path
}

func writeLeaf(t *testing.T, name string) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.SetRGBA(x, y, color.RGBA{30, 160, 40, 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
	return path
}

func resetFlags(t *testing.T) {
	t.Helper()
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("LEAFSTAGE_STRATEGY", "")
	t.Setenv("LEAFSTAGE_DB", "")
	configPath, verbose, strategy, outputFormat, clearHistory = "", false, "", "human", false
}

func TestDiagnoseCmd_RecordsToHistory(t *testing.T) {
	resetFlags(t)
	cfg := writeConfig(t)
	leaf := writeLeaf(t, "leaf.png")

	cmd := NewDiagnoseCmd()
	cmd.SetArgs([]string{leaf, "-c", cfg, "-o", "json"})
	require.NoError(t, cmd.Execute())

	configPath = cfg
	a, err := newApp()
	require.NoError(t, err)
	items := a.ledger.List()
	require.Len(t, items, 1)
	assert.Equal(t, "Healthy Leaf", items[0].DiseaseName)
	assert.Equal(t, 5, a.ledger.Capacity())

	rec, err := a.repo.Get(items[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "leaf.png", rec.OriginalName)
}

func TestDiagnoseCmd_Errors(t *testing.T) {
	resetFlags(t)
	cfg := writeConfig(t)

	cmd := NewDiagnoseCmd()
	cmd.SetArgs([]string{writeLeaf(t, "leaf.bmp"), "-c", cfg})
	assert.ErrorContains(t, cmd.Execute(), "unsupported file type")

	resetFlags(t)
	cmd = NewDiagnoseCmd()
	cmd.SetArgs([]string{writeLeaf(t, "leaf.png"), "-c", cfg, "-s", "remote"})
	assert.ErrorContains(t, cmd.Execute(), "ANTHROPIC_API_KEY")
}

func TestNewApp_RemoteOnlyWithKey(t *testing.T) {
	resetFlags(t)
	configPath = writeConfig(t)

	a, err := newApp()
	require.NoError(t, err)
	assert.Len(t, a.engineList(), 1)

	t.Setenv("ANTHROPIC_API_KEY", "test-key")
	a, err = newApp()
	require.NoError(t, err)
	_, err = a.engine(classifier.StrategyRemote)
	assert.NoError(t, err)
	assert.Len(t, a.engineList(), 2)
}

func TestHistoryCmd_Clear(t *testing.T) {
	resetFlags(t)
	cfg := writeConfig(t)

	cmd := NewDiagnoseCmd()
	cmd.SetArgs([]string{writeLeaf(t, "leaf.png"), "-c", cfg, "-o", "yaml"})
	require.NoError(t, cmd.Execute())

	cmd = NewHistoryCmd()
	cmd.SetArgs([]string{"-c", cfg, "--clear"})
	require.NoError(t, cmd.Execute())

	configPath = cfg
	a, err := newApp()
	require.NoError(t, err)
	assert.Zero(t, a.ledger.Len())
	_, total, err := a.repo.List(10, 0)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestStageCmd(t *testing.T) {
	resetFlags(t)
	cmd := NewStageCmd()
	cmd.SetArgs([]string{"e1", "-o", "json"})
	assert.NoError(t, cmd.Execute())

	cmd = NewStageCmd()
	cmd.SetArgs([]string{"Z9"})
	assert.ErrorContains(t, cmd.Execute(), "unknown stage")
}
