package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/BogdanTibuleac/SmartLibrarian-RAG/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile(t *testing.T) {
	t.Run("env substitution with defaults", func(t *testing.T) {
		t.Setenv("TEST_LIBRARIAN_PORT", "9100")
		path := writeConfig(t, `
server:
  port: "${TEST_LIBRARIAN_PORT:-8000}"
  log_level: "${TEST_LIBRARIAN_LOG_LEVEL:-debug}"
database:
  type: sqlite
  file_path: librarian.db
library:
  data_path: data/book_summaries.json
`)

		cfg, err := LoadFromFile(path)
		require.NoError(t, err)
		assert.Equal(t, "9100", cfg.Server.Port)
		// Unset variable falls back to the inline default.
		assert.Equal(t, "debug", cfg.Server.LogLevel)
	})

	t.Run("defaults fill unset sections", func(t *testing.T) {
		path := writeConfig(t, `
database:
  type: sqlite
  file_path: librarian.db
library:
  data_path: data/book_summaries.json
`)

		cfg, err := LoadFromFile(path)
		require.NoError(t, err)
		assert.Equal(t, "8000", cfg.Server.Port)
		assert.Equal(t, "gpt-3.5-turbo", cfg.OpenAI.ChatModel)
		assert.Equal(t, "text-embedding-3-small", cfg.OpenAI.EmbeddingModel)
		assert.Equal(t, "dall-e-3", cfg.OpenAI.ImageModel)
		assert.Equal(t, 0.0005, cfg.Pricing.InputPricePer1K)
		assert.Equal(t, 0.0015, cfg.Pricing.OutputPricePer1K)
		assert.Equal(t, 0.70, cfg.Cache.FuzzyThreshold)
		assert.Equal(t, 3, cfg.Cache.TTLDays)
		assert.Equal(t, 5, cfg.Retrieval.TopK)
		assert.Equal(t, 1.19, cfg.Retrieval.MaxRawDistance)
		assert.Equal(t, 4, cfg.Library.EmbedConcurrency)
	})

	t.Run("explicit values win over defaults", func(t *testing.T) {
		path := writeConfig(t, `
database:
  type: sqlite
  file_path: librarian.db
cache:
  fuzzy_threshold: 0.85
  ttl_days: 7
retrieval:
  top_k: 10
  max_raw_distance: 0.9
library:
  data_path: data/book_summaries.json
`)

		cfg, err := LoadFromFile(path)
		require.NoError(t, err)
		assert.Equal(t, 0.85, cfg.Cache.FuzzyThreshold)
		assert.Equal(t, 7, cfg.Cache.TTLDays)
		assert.Equal(t, 10, cfg.Retrieval.TopK)
		assert.Equal(t, 0.9, cfg.Retrieval.MaxRawDistance)
	})

	t.Run("out of range threshold reverts to default", func(t *testing.T) {
		path := writeConfig(t, `
database:
  type: sqlite
cache:
  fuzzy_threshold: 1.5
`)

		cfg, err := LoadFromFile(path)
		require.NoError(t, err)
		assert.Equal(t, 0.70, cfg.Cache.FuzzyThreshold)
	})

	t.Run("rejects non-yaml extensions", func(t *testing.T) {
		_, err := LoadFromFile("config.json")
		assert.Error(t, err)
	})

	t.Run("rejects path traversal", func(t *testing.T) {
		_, err := LoadFromFile("../../etc/config.yaml")
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := writeConfig(t, "server: [broken")
		_, err := LoadFromFile(path)
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			OpenAI:   models.OpenAIConfig{APIKey: "sk-test"},
			Database: models.DatabaseConfig{Type: models.SQLite, FilePath: "librarian.db"},
			Library:  models.LibraryConfig{DataPath: "data/book_summaries.json"},
		}
	}

	t.Run("valid config passes", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("missing api key", func(t *testing.T) {
		cfg := valid()
		cfg.OpenAI.APIKey = ""
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "openai.api_key")
	})

	t.Run("missing database type", func(t *testing.T) {
		cfg := valid()
		cfg.Database.Type = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("unsupported database type", func(t *testing.T) {
		cfg := valid()
		cfg.Database.Type = "oracle"
		assert.Error(t, cfg.Validate())
	})

	t.Run("missing corpus path", func(t *testing.T) {
		cfg := valid()
		cfg.Library.DataPath = ""
		assert.Error(t, cfg.Validate())
	})
}

func TestGetNormalizedLogLevel(t *testing.T) {
	cfg := &Config{Server: models.ServerConfig{LogLevel: "  DEBUG "}}
	assert.Equal(t, "debug", cfg.GetNormalizedLogLevel())
}

func TestIsProduction(t *testing.T) {
	assert.True(t, (&Config{Server: models.ServerConfig{Environment: "Production"}}).IsProduction())
	assert.False(t, (&Config{Server: models.ServerConfig{Environment: "development"}}).IsProduction())
}
