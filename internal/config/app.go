package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"

	"clipo/clipoterm/internal/logging"
	"clipo/clipoterm/internal/validationerrors"
)

type AppConfig struct {
	Validation ValidationConfig `toml:"validation"`
	Storage    StorageConfig    `toml:"storage"`
	Log        logging.Config   `toml:"log"`
}

type ValidationConfig struct {
	DefaultContext string   `toml:"default_context"`
	Priority       []string `toml:"priority"`
	MessagesFile   string   `toml:"messages_file"`

	// Translations maps template keys to display text
	Translations map[string]string `toml:"translations"`
}

type StorageConfig struct {
	DataDir string `toml:"data_dir"`
}

// LoadAppConfig starts from the defaults, applies the TOML file at path when
// one is given, then the CLIPO_* environment.
func LoadAppConfig(path string) (*AppConfig, error) {
	config := GetDefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read config file", goerr.V("path", path))
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, goerr.Wrap(err, "failed to decode config file", goerr.V("path", path))
		}
	}

	config.applyEnv()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *AppConfig) applyEnv() {
	c.Validation.DefaultContext = getEnvOrDefault("CLIPO_DEFAULT_CONTEXT", c.Validation.DefaultContext)
	c.Validation.MessagesFile = getEnvOrDefault("CLIPO_MESSAGES", c.Validation.MessagesFile)
	c.Validation.Priority = parseListOrDefault("CLIPO_PRIORITY", c.Validation.Priority)
	c.Storage.DataDir = getEnvOrDefault("CLIPO_DATA_DIR", c.Storage.DataDir)
	c.Log.Level = getEnvOrDefault("CLIPO_LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnvOrDefault("CLIPO_LOG_FORMAT", c.Log.Format)
	c.Log.File = getEnvOrDefault("CLIPO_LOG_FILE", c.Log.File)

	if IsDebugEnabled() {
		c.Log.Level = "debug"
	}
}

func (c *AppConfig) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s (must be one of debug, info, warn, error)", c.Log.Level)
	}

	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("invalid log format: %s (must be 'json' or 'console')", c.Log.Format)
	}

	if c.Storage.DataDir == "" {
		return fmt.Errorf("data directory must not be empty")
	}

	if strings.TrimSpace(c.Validation.DefaultContext) != c.Validation.DefaultContext {
		return fmt.Errorf("default context must not contain surrounding spaces, got: %q", c.Validation.DefaultContext)
	}

	seen := make(map[string]bool, len(c.Validation.Priority))
	for _, code := range c.Validation.Priority {
		if code == "" {
			return fmt.Errorf("priority must not contain empty codes")
		}
		if seen[code] {
			return fmt.Errorf("priority lists %s more than once", code)
		}
		seen[code] = true
	}

	return nil
}

// LoadMessages returns the built-in table with the configured messages file
// layered on top.
func (c *AppConfig) LoadMessages() (validationerrors.MessageTable, error) {
	table := validationerrors.DefaultMessages()
	if c.Validation.MessagesFile == "" {
		return table, nil
	}

	overlay, err := validationerrors.LoadMessageTable(c.Validation.MessagesFile)
	if err != nil {
		return nil, err
	}
	return table.Merge(overlay), nil
}

// ToModuleConfig builds the partial configuration handed to
// validationerrors.NewModule. Unset fields keep the module defaults.
func (c *AppConfig) ToModuleConfig(messages validationerrors.MessageTable) (*validationerrors.Config, error) {
	cfg := &validationerrors.Config{
		DefaultContext: c.Validation.DefaultContext,
		Messages:       messages,
		Priority:       slices.Clone(c.Validation.Priority),
	}

	if len(c.Validation.Translations) > 0 {
		provider, err := validationerrors.NewTranslatorProvider(c.Validation.Translations)
		if err != nil {
			return nil, err
		}
		cfg.Provider = provider
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var list []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}
	return list
}

// DefaultDataDir is ~/.clipoterm, or a relative .clipoterm when the home
// directory is unknown.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".clipoterm"
	}
	return filepath.Join(home, ".clipoterm")
}

func GetDefaultConfig() *AppConfig {
	return &AppConfig{
		Validation: ValidationConfig{
			DefaultContext: validationerrors.GeneralContext,
		},
		Storage: StorageConfig{
			DataDir: DefaultDataDir(),
		},
		Log: logging.Config{
			Level:  "info",
			Format: "json",
		},
	}
}

func IsDebugEnabled() bool {
	return os.Getenv("CLIPO_DEBUG") == "true" || os.Getenv("CLIPO_DEBUG") == "1"
}
