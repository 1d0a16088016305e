package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BogdanTibuleac/SmartLibrarian-RAG/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultFuzzyThreshold = 0.70
	defaultMaxRawDistance = 1.19
	defaultTopK           = 5
	defaultTTLDays        = 3
)

// Config represents the complete application configuration
type Config struct {
	Server    models.ServerConfig    `yaml:"server"`
	Database  models.DatabaseConfig  `yaml:"database"`
	OpenAI    models.OpenAIConfig    `yaml:"openai"`
	Pricing   models.PricingConfig   `yaml:"pricing"`
	Cache     models.CacheConfig     `yaml:"cache"`
	Retrieval models.RetrievalConfig `yaml:"retrieval"`
	Library   models.LibraryConfig   `yaml:"library"`
}

// LoadFromFile loads configuration from a YAML file with environment variable substitution
func LoadFromFile(configPath string) (*Config, error) {
	// Validate and clean the file path to prevent directory traversal
	cleanPath := filepath.Clean(configPath)

	if strings.Contains(cleanPath, "..") {
		return nil, fmt.Errorf("invalid config path: path traversal not allowed")
	}

	ext := filepath.Ext(cleanPath)
	if ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("invalid config file: only .yaml and .yml files are allowed")
	}

	data, err := os.ReadFile(cleanPath) // #nosec G304 - path is validated above
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", cleanPath, err)
	}

	content := substituteEnvVars(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(content), &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	config.applyDefaults()

	return &config, nil
}

// LoadEnvFiles loads environment variables from .env files in order of precedence
// Loads files in the order provided (first has highest priority)
func LoadEnvFiles(envFiles []string) {
	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err == nil {
				fmt.Printf("Loaded environment variables from %s\n", envFile)
			}
		}
	}
}

// New creates a new Config instance by loading from the specified config file path
func New(configPath string) (*Config, error) {
	return LoadFromFile(configPath)
}

// substituteEnvVars replaces ${VAR_NAME} and ${VAR_NAME:-default} patterns with environment variables
func substituteEnvVars(content string) string {
	re := regexp.MustCompile(`\$\{([^}:]+)(?::(-[^}]*))?\}`)

	return re.ReplaceAllStringFunc(content, func(match string) string {
		submatches := re.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}

		varName := submatches[1]
		defaultValue := ""

		if len(submatches) > 2 && submatches[2] != "" {
			defaultValue = strings.TrimPrefix(submatches[2], "-")
		}

		if value := os.Getenv(varName); value != "" {
			return value
		}

		return defaultValue
	})
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8000"
	}
	if c.OpenAI.ChatModel == "" {
		c.OpenAI.ChatModel = "gpt-3.5-turbo"
	}
	if c.OpenAI.EmbeddingModel == "" {
		c.OpenAI.EmbeddingModel = "text-embedding-3-small"
	}
	if c.OpenAI.ImageModel == "" {
		c.OpenAI.ImageModel = "dall-e-3"
	}
	if c.Pricing.InputPricePer1K <= 0 {
		c.Pricing.InputPricePer1K = 0.0005
	}
	if c.Pricing.OutputPricePer1K <= 0 {
		c.Pricing.OutputPricePer1K = 0.0015
	}
	if c.Cache.FuzzyThreshold <= 0 || c.Cache.FuzzyThreshold > 1 {
		c.Cache.FuzzyThreshold = defaultFuzzyThreshold
	}
	if c.Cache.TTLDays <= 0 {
		c.Cache.TTLDays = defaultTTLDays
	}
	if c.Retrieval.TopK <= 0 {
		c.Retrieval.TopK = defaultTopK
	}
	if c.Retrieval.MaxRawDistance <= 0 {
		c.Retrieval.MaxRawDistance = defaultMaxRawDistance
	}
	if c.Library.EmbedConcurrency <= 0 {
		c.Library.EmbedConcurrency = 4
	}
}

// GetNormalizedLogLevel returns the log level normalized to lowercase
func (c *Config) GetNormalizedLogLevel() string {
	return strings.ToLower(strings.TrimSpace(c.Server.LogLevel))
}

// IsProduction returns true when the configured environment is production
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Environment, "production")
}

// Validate performs basic validation on the configuration
func (c *Config) Validate() error {
	if c.OpenAI.APIKey == "" {
		return &ValidationError{Field: "openai.api_key", Message: "OpenAI API key is required"}
	}
	switch c.Database.Type {
	case models.PostgreSQL, models.SQLite:
	case "":
		return &ValidationError{Field: "database.type", Message: "database type is required"}
	default:
		return &ValidationError{Field: "database.type", Message: fmt.Sprintf("unsupported database type: %s", c.Database.Type)}
	}
	if c.Library.DataPath == "" {
		return &ValidationError{Field: "library.data_path", Message: "corpus data path is required"}
	}
	return nil
}

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed for %s: %s", e.Field, e.Message)
}
