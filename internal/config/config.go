package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// LLMConfig holds model provider configuration
type LLMConfig struct {
	Provider string `yaml:"provider"` // "gemini" (default) or "openai"
	APIKey   string `yaml:"api_key"`
	BaseURL  string `yaml:"base_url"` // custom endpoint; defaults per provider
	Model    string `yaml:"model"`    // defaults per provider
}

// Config holds application configuration
type Config struct {
	LLM            LLMConfig `yaml:"llm"`
	RequestTimeout Duration  `yaml:"request_timeout"` // zero means wait for the model indefinitely
	Theme          string    `yaml:"theme"`
	LogFile        string    `yaml:"log_file"`
}

// Duration is a time.Duration that reads "90s" style strings from YAML.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value.Value == "" {
		*d = 0
		return nil
	}
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	if d == 0 {
		return "", nil
	}
	return time.Duration(d).String(), nil
}

// GetLLMConfig returns the effective provider configuration. It is meant to be
// called right before each request so the environment is read at call time.
func (c *Config) GetLLMConfig() LLMConfig {
	llm := c.LLM

	// Env vars override config file
	if provider := os.Getenv("POSTCHECK_PROVIDER"); provider != "" {
		llm.Provider = provider
	}
	if baseURL := os.Getenv("POSTCHECK_BASE_URL"); baseURL != "" {
		llm.BaseURL = baseURL
	}
	if model := os.Getenv("POSTCHECK_MODEL"); model != "" {
		llm.Model = model
	}
	if llm.Provider == "" {
		llm.Provider = "gemini"
	}

	if key := os.Getenv("POSTCHECK_API_KEY"); key != "" {
		llm.APIKey = key
	}

	// Provider-specific env var as the last resort
	if llm.APIKey == "" {
		switch llm.Provider {
		case "gemini":
			llm.APIKey = os.Getenv("GEMINI_API_KEY")
		case "openai":
			llm.APIKey = os.Getenv("OPENAI_API_KEY")
		}
	}

	return llm
}

// Timeout returns the per-request timeout, zero when unbounded.
func (c *Config) Timeout() time.Duration {
	if d := os.Getenv("POSTCHECK_TIMEOUT"); d != "" {
		if parsed, err := time.ParseDuration(d); err == nil {
			return parsed
		}
	}
	return time.Duration(c.RequestTimeout)
}

// Load loads configuration from the config file. Provider settings are
// resolved from the environment later by GetLLMConfig.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := cfg.loadFromFile(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	return cfg, nil
}

func (c *Config) loadFromFile() error {
	configPath := getConfigPath()
	if configPath == "" {
		return os.ErrNotExist
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, c)
}

// LogPath returns the file the TUI writes its log to.
func (c *Config) LogPath() string {
	if c.LogFile != "" {
		return expandHome(c.LogFile)
	}
	dir, err := GetConfigDir()
	if err != nil {
		return "postcheck.log"
	}
	return filepath.Join(dir, "postcheck.log")
}

// getConfigPath returns the path to the config file
// Priority: $POSTCHECK_CONFIG > ~/.config/postcheck/config.yaml
func getConfigPath() string {
	if configPath := os.Getenv("POSTCHECK_CONFIG"); configPath != "" {
		return configPath
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".config", "postcheck", "config.yaml")
}

// Path returns the config file location, whether or not it exists.
func Path() string {
	return getConfigPath()
}

func GetConfigDir() (string, error) {
	configPath := getConfigPath()
	if configPath == "" {
		return "", fmt.Errorf("cannot determine config path")
	}
	return filepath.Dir(configPath), nil
}

// EnsureConfigDir ensures the config directory exists
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", err
	}

	return configDir, nil
}

func expandHome(path string) string {
	if len(path) < 2 || path[:2] != "~/" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

// SaveExampleConfig creates an example config file
func SaveExampleConfig() error {
	if _, err := EnsureConfigDir(); err != nil {
		return err
	}

	configPath := getConfigPath()

	// Check if file already exists
	if _, err := os.Stat(configPath); err == nil {
		return nil // Already exists, don't overwrite
	}

	example := `# postcheck configuration

llm:
  provider: "gemini"       # "gemini" or "openai" (any OpenAI-compatible endpoint)
  api_key: ""              # or set GEMINI_API_KEY / OPENAI_API_KEY / POSTCHECK_API_KEY
  # base_url: ""           # override endpoint (defaults per provider)
  # model: ""              # override model (defaults per provider)

# Optional: give up on a request after this long (default: wait indefinitely)
# request_timeout: "120s"

# Optional: Color theme (default, dracula, gruvbox, light, nord)
theme: "default"

# Optional: where the TUI writes its log
# log_file: "~/.config/postcheck/postcheck.log"
`

	return os.WriteFile(configPath, []byte(example), 0600)
}

// Save writes the UI-managed fields back to the config file, keeping
// everything else that is already there.
func (c *Config) Save() error {
	if _, err := EnsureConfigDir(); err != nil {
		return err
	}

	configPath := getConfigPath()

	existing := &Config{}
	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, existing); err != nil {
			return fmt.Errorf("refusing to overwrite unreadable config file: %w", err)
		}
	case !os.IsNotExist(err):
		return err
	}

	existing.Theme = c.Theme

	return existing.write(configPath)
}

// SaveAll writes every field, used by the configure command.
func (c *Config) SaveAll() error {
	if _, err := EnsureConfigDir(); err != nil {
		return err
	}
	return c.write(getConfigPath())
}

func (c *Config) write(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte("# postcheck configuration\n# Note: API keys can also be set via environment variables\n\n")
	return os.WriteFile(path, append(header, data...), 0600)
}
