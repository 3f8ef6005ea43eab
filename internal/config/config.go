// Load envs from .env
// Load YAML config
// Validate config
// Provide default values

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Search struct {
	Keyword  string `yaml:"keyword"`
	City     string `yaml:"city"`
	Distance int    `yaml:"distance"`
	Period   string `yaml:"period"`
}

type Options struct {
	Headless  bool   `yaml:"headless"`
	Tracing   bool   `yaml:"tracing"`
	TracePath string `yaml:"trace_path"`
}

type Config struct {
	UserName    string   `yaml:"user_name"`
	Resume      string   `yaml:"resume"`
	JobType     string   `yaml:"job_type"`
	Search      Search   `yaml:"search"`
	MaxPage     int      `yaml:"max_page"`
	CompanyList []string `yaml:"company_list"`
	Repost      bool     `yaml:"repost"`
	Salary      bool     `yaml:"salary"`
	Schedule    string   `yaml:"schedule"`
	Options     Options  `yaml:"options"`

	//Paths
	UserDataDir string `yaml:"user_data_dir"`
	CachePath   string `yaml:"cache_path"`
	OutputDir   string `yaml:"output_dir"`

	//Secrets, env only. Never put these in the yaml file.
	DeepSeekAPIKey string `yaml:"-"`
	SiteEmail      string `yaml:"-"`
	SitePassword   string `yaml:"-"`
	DatabaseURL    string `yaml:"-"`
	TelegramToken  string `yaml:"-"`
	TelegramChatID int64  `yaml:"-"`
	RedisURL       string `yaml:"-"`
}

// Load reads the yaml config, overlays secrets from the environment and
// validates required fields. Invalid configuration fails fast, before any
// scraping begins.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file %s: %w", path, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", path, err)
	}

	cfg.loadSecrets()
	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) loadSecrets() {
	c.DeepSeekAPIKey = os.Getenv("DEEPSEEK_API_KEY")
	c.SiteEmail = os.Getenv("LINKEDIN_EMAIL")
	c.SitePassword = os.Getenv("LINKEDIN_PASSWORD")
	c.DatabaseURL = os.Getenv("DATABASE_URL")
	c.TelegramToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	c.RedisURL = os.Getenv("REDIS_URL")

	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		if id, err := strconv.ParseInt(chatID, 10, 64); err == nil {
			c.TelegramChatID = id
		}
	}
}

func (c *Config) applyDefaults() {
	if c.UserName == "" {
		c.UserName = "User"
	}
	if c.Search.Distance == 0 {
		c.Search.Distance = 10
	}
	if c.Search.Period == "" {
		c.Search.Period = "Past 24 hours"
	}
	if c.MaxPage == 0 {
		c.MaxPage = 8
	}
	if c.Options.TracePath == "" {
		c.Options.TracePath = "trace.zip"
	}
	if c.UserDataDir == "" {
		c.UserDataDir = ".userdata"
	}
	if c.CachePath == "" {
		c.CachePath = ".cache"
	}
	if c.OutputDir == "" {
		c.OutputDir = "output"
	}
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Resume) == "" {
		return fmt.Errorf("missing required field 'resume'")
	}
	if strings.TrimSpace(c.Search.Keyword) == "" {
		return fmt.Errorf("missing required field 'search.keyword'")
	}
	if strings.TrimSpace(c.Search.City) == "" {
		return fmt.Errorf("missing required field 'search.city'")
	}
	return nil
}
