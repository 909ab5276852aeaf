package config

import (
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Project struct {
		Root      string `yaml:"root"`
		OutputDir string `yaml:"output_dir"` // integration artifacts land here, never inside root
		StorePath string `yaml:"store_path"` // SQLite db for scan results
	} `yaml:"project"`
	AI struct {
		Provider string `yaml:"provider"` // gemini | openai
		Model    string `yaml:"model"`
		APIKey   string `yaml:"api_key"`
		BaseURL  string `yaml:"base_url"` // OpenAI-compatible endpoint override
	} `yaml:"ai"`
	Integration struct {
		AppName     string `yaml:"app_name"`
		Description string `yaml:"description"`
		Category    string `yaml:"category"`
		AddAuth     bool   `yaml:"add_auth"`
		AddDatabase bool   `yaml:"add_database"`
		AddBranding bool   `yaml:"add_branding"`
	} `yaml:"integration"`
	Log struct {
		Filename   string `yaml:"filename"`
		MaxSizeMB  int    `yaml:"max_size"`
		MaxBackups int    `yaml:"max_backups"`
		Verbose    bool   `yaml:"verbose"`
	} `yaml:"log"`
}

// LoadConfig reads the YAML config at path, after loading .env if present.
// A missing config file is not an error; defaults plus environment overrides
// still produce a usable config.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	cfg := &Config{}
	cfg.Project.StorePath = "appweld.db"
	cfg.Log.Filename = ".appweld.log"
	cfg.Log.MaxSizeMB = 10
	cfg.Log.MaxBackups = 3

	// 2. Load YAML config when present
	if file, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, err
		}
	}

	// 3. Override with Environment Variables if present
	if apiKey := os.Getenv("APPWELD_API_KEY"); apiKey != "" {
		cfg.AI.APIKey = apiKey
	}
	if provider := os.Getenv("APPWELD_AI_PROVIDER"); provider != "" {
		cfg.AI.Provider = provider
	}
	if model := os.Getenv("APPWELD_AI_MODEL"); model != "" {
		cfg.AI.Model = model
	}

	return cfg, nil
}
