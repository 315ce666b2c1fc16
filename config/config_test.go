package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leafstage/classifier"
	"leafstage/oracle"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "leafstage.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8081", cfg.Server.Addr)
	assert.Equal(t, classifier.StrategyLocal, cfg.Classifier.Strategy)
	assert.Equal(t, 20, cfg.History.Capacity)
	assert.False(t, cfg.History.RecordInvalidDiagnoses)
	assert.Equal(t, classifier.DefaultHeuristic(), cfg.Classifier.Heuristic)
	assert.Equal(t, 60*time.Second, cfg.Oracle.Timeout)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeFile(t, `
server:
  addr: ":9000"
classifier:
  strategy: remote
  heuristic:
    leaf_green_min: 45
    early_ratio: 0.03
    mid_ratio: 0.12
    severe_ratio: 0.25
oracle:
  provider: openai
  model: gpt-4o-mini
  api_key: sk-test
  timeout: 15s
history:
  capacity: 10
  record_invalid_diagnoses: true
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, "./uploads", cfg.Server.UploadDir, "unset keys keep defaults")
	assert.Equal(t, classifier.StrategyRemote, cfg.Classifier.Strategy)
	assert.EqualValues(t, 45, cfg.Classifier.Heuristic.LeafGreenMin)
	assert.Equal(t, 0.25, cfg.Classifier.Heuristic.SevereRatio)
	assert.Equal(t, 500, cfg.Classifier.Heuristic.MinLeafPixels)
	assert.Equal(t, oracle.ProviderOpenAI, cfg.Oracle.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.Oracle.Model)
	assert.Equal(t, "sk-test", cfg.Oracle.APIKey)
	assert.Equal(t, 15*time.Second, cfg.Oracle.Timeout)
	assert.Equal(t, 10, cfg.History.Capacity)
	assert.True(t, cfg.History.RecordInvalidDiagnoses)
	assert.True(t, cfg.RemoteEnabled())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ORACLE_PROVIDER", "gemini")
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("LEAFSTAGE_STRATEGY", "REMOTE")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, oracle.ProviderGemini, cfg.Oracle.Provider)
	assert.Equal(t, "g-key", cfg.Oracle.APIKey)
	assert.Equal(t, classifier.StrategyRemote, cfg.Classifier.Strategy)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"strategy": "classifier:\n  strategy: magic\n",
		"capacity": "history:\n  capacity: 0\n",
		"bands":    "classifier:\n  heuristic:\n    mid_ratio: 0.5\n",
		"severity": "severity:\n  early: 50\n  mid: 20\n",
		"bad-yaml": "server: [",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeFile(t, content))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
