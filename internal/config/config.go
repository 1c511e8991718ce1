// Load envs from .env
// Load YAML config
// Validate config
// Provide default values

package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// defaultUserAgents is the rotation pool used when config.yaml does not
// override it. Rotating the agent per browser context lowers the chance
// of the job boards blocking repeated detail fetches.
var defaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/109.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/109.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/108.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.1 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/108.0.0.0 Safari/537.36",
	"Mozilla/5.0 (iPhone; CPU iPhone OS 16_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.0 Mobile/15E148 Safari/604.1",
}

// ScraperConfig is the immutable per-scraper tuning block. It is passed
// by value into every scraper constructor so workers never read shared
// mutable state.
type ScraperConfig struct {
	UserAgents    []string `yaml:"user_agents"`
	Headless      bool     `yaml:"headless"`
	DelayMinMs    int      `yaml:"delay_min_ms"`
	DelayMaxMs    int      `yaml:"delay_max_ms"`
	JobTimeoutSec int      `yaml:"job_timeout_sec"`
}

// DelayMin is the lower bound of the randomized pre-request delay.
func (s ScraperConfig) DelayMin() time.Duration {
	return time.Duration(s.DelayMinMs) * time.Millisecond
}

// DelayMax is the upper bound of the randomized pre-request delay.
func (s ScraperConfig) DelayMax() time.Duration {
	return time.Duration(s.DelayMaxMs) * time.Millisecond
}

// JobTimeout is the per-job fetch deadline.
func (s ScraperConfig) JobTimeout() time.Duration {
	return time.Duration(s.JobTimeoutSec) * time.Second
}

type Config struct {
	DatabaseURL    string `yaml:"database_url" env:"DATABASE_URL"`
	TelegramToken  string `yaml:"telegram_token" env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID int64  `yaml:"telegram_chat_id" env:"TELEGRAM_CHAT_ID"`
	//Paths
	CookiesPath string `yaml:"cookies_path"`
	CachePath   string `yaml:"cache_path"`
	//Scraper tuning
	Scraper ScraperConfig `yaml:"scraper"`
}

func Load() *Config {
	_ = godotenv.Load()

	//Load yaml config
	cfg := &Config{}

	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Printf("Warning: Could not read config.yaml: %v", err)
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			log.Fatalf("Error parsing config.yaml: %v", err)
		}
	}

	//Override with env vars
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		cfg.DatabaseURL = dbURL
	}

	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		cfg.TelegramToken = token
	}

	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			log.Fatalf("Invalid TELEGRAM_CHAT_ID: %v", err)
		}
		cfg.TelegramChatID = id
	}

	//Set default values if not set
	if cfg.CookiesPath == "" {
		cfg.CookiesPath = ".cookies"
	}

	if cfg.CachePath == "" {
		cfg.CachePath = ".cache"
	}

	if len(cfg.Scraper.UserAgents) == 0 {
		cfg.Scraper.UserAgents = append([]string(nil), defaultUserAgents...)
	}

	if cfg.Scraper.DelayMinMs == 0 {
		cfg.Scraper.DelayMinMs = 1000
	}

	if cfg.Scraper.DelayMaxMs == 0 {
		cfg.Scraper.DelayMaxMs = 3000
	}

	if cfg.Scraper.JobTimeoutSec == 0 {
		cfg.Scraper.JobTimeoutSec = 30
	}

	return cfg
}

// RequireDatabase aborts when no database URL is configured. Commands
// that persist results call this before connecting.
func (c *Config) RequireDatabase() {
	if c.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}
}
