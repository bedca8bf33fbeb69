package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// SafetySetting is one content-safety category/threshold pair forwarded to the
// vision backend. Values use the Gemini names, e.g. "harassment" and
// "medium_and_above".
type SafetySetting struct {
	Category  string `yaml:"category"`
	Threshold string `yaml:"threshold"`
}

type Config struct {
	ListenAddr    string
	VisionBackend string
	GoogleAPIKey  string
	GeminiModel   string
	ClaudeAPIKey  string
	ClaudeModel   string
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string
	OllamaHost    string
	OllamaModel   string
	StaticDir     string
	StatePath     string
	ServerURL     string
	ShopBaseURL   string
	AffiliateTag  string
	LogLevel      string
	LogFile       string
	LogFormat     string
	Safety        []SafetySetting
}

// overlay is the optional YAML file layered over the environment.
type overlay struct {
	Safety []SafetySetting `yaml:"safety"`
	Shop   struct {
		BaseURL      string `yaml:"baseURL"`
		AffiliateTag string `yaml:"affiliateTag"`
	} `yaml:"shop"`
}

// DefaultSafety mirrors the threshold the hosted API is asked to apply when no
// overlay file configures one.
var DefaultSafety = []SafetySetting{
	{Category: "harassment", Threshold: "medium_and_above"},
	{Category: "hate_speech", Threshold: "medium_and_above"},
	{Category: "sexually_explicit", Threshold: "medium_and_above"},
	{Category: "dangerous_content", Threshold: "medium_and_above"},
}

// Load reads .env (if present), the environment, and the YAML overlay named by
// GLOWREADER_CONFIG.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env file", "error", err)
	}

	cfg := &Config{
		ListenAddr:    ":" + getEnv("PORT", "3000"),
		VisionBackend: getEnv("VISION_BACKEND", "gemini"),
		GoogleAPIKey:  getEnv("GOOGLE_API_KEY", ""),
		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		ClaudeAPIKey:  getEnv("CLAUDE_API_KEY", ""),
		ClaudeModel:   getEnv("CLAUDE_MODEL", "claude-3-5-sonnet-latest"),
		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
		OllamaHost:    getEnv("OLLAMA_HOST", "http://localhost:11434"),
		OllamaModel:   getEnv("OLLAMA_MODEL", "llava"),
		StaticDir:     getEnv("STATIC_DIR", ""),
		StatePath:     getEnv("STATE_PATH", defaultStatePath()),
		ServerURL:     getEnv("SERVER_URL", "http://localhost:3000"),
		ShopBaseURL:   getEnv("SHOP_BASE_URL", "https://www.amazon.com/s"),
		AffiliateTag:  getEnv("SHOP_AFFILIATE_TAG", "YOUR_AMAZON_TAG-20"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFile:       getEnv("LOG_FILE", ""),
		LogFormat:     getEnv("LOG_FORMAT", "json"),
		Safety:        DefaultSafety,
	}

	if path := os.Getenv("GLOWREADER_CONFIG"); path != "" {
		if err := cfg.applyOverlay(path); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func (c *Config) applyOverlay(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	var o overlay
	if err := yaml.Unmarshal(data, &o); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if len(o.Safety) > 0 {
		c.Safety = o.Safety
	}
	if o.Shop.BaseURL != "" {
		c.ShopBaseURL = o.Shop.BaseURL
	}
	if o.Shop.AffiliateTag != "" {
		c.AffiliateTag = o.Shop.AffiliateTag
	}
	return nil
}

// Validate checks the settings the relay cannot start without: the selected
// backend must be known and carry its credential.
func (c *Config) Validate() error {
	switch c.VisionBackend {
	case "gemini":
		if c.GoogleAPIKey == "" {
			return errors.New("GOOGLE_API_KEY is required when VISION_BACKEND=gemini")
		}
	case "claude":
		if c.ClaudeAPIKey == "" {
			return errors.New("CLAUDE_API_KEY is required when VISION_BACKEND=claude")
		}
	case "openai":
		if c.OpenAIAPIKey == "" {
			return errors.New("OPENAI_API_KEY is required when VISION_BACKEND=openai")
		}
	case "ollama":
	default:
		return fmt.Errorf("unknown VISION_BACKEND %q", c.VisionBackend)
	}
	return nil
}

func defaultStatePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "glowreader.db"
	}
	return filepath.Join(home, ".glowreader", "state.db")
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}
