package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	LLM struct {
		BaseURL     string  `yaml:"base_url"`
		Model       string  `yaml:"model"`
		MaxTokens   int     `yaml:"max_tokens"`
		Temperature float64 `yaml:"temperature"`
	} `yaml:"llm"`

	Database struct {
		URL          string `yaml:"url"`
		DataTable    string `yaml:"data_table"`
		CleanedTable string `yaml:"cleaned_table"`
		VictimsTable string `yaml:"victims_table"`
	} `yaml:"database"`

	Reader struct {
		InputDir  string `yaml:"input_dir"`
		StartFile int    `yaml:"start_file"`
		EndFile   int    `yaml:"end_file"`
	} `yaml:"reader"`

	Cleanup struct {
		CallDelaySeconds int `yaml:"call_delay_seconds"`
		CooldownSeconds  int `yaml:"cooldown_seconds"`
	} `yaml:"cleanup"`

	Report struct {
		ExpectedTotal int `yaml:"expected_total"`
		TopDomains    int `yaml:"top_domains"`
	} `yaml:"report"`
}

func LoadConfig(path string) (*Config, error) {
	// If no path provided, try default locations
	if path == "" {
		locations := []string{
			"config.yaml",
			"config.yml",
			filepath.Join(os.Getenv("HOME"), ".config/leaksift/config.yaml"),
			"/etc/leaksift/config.yaml",
		}

		for _, loc := range locations {
			if _, err := os.Stat(loc); err == nil {
				path = loc
				break
			}
		}
	}

	if path == "" {
		return getDefaultConfig()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %v", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %v", err)
	}

	mergeWithEnv(&config)
	applyDefaults(&config)

	return &config, nil
}

func getDefaultConfig() (*Config, error) {
	config := &Config{}
	applyDefaults(config)
	mergeWithEnv(config)
	return config, nil
}

func applyDefaults(config *Config) {
	if config.LLM.Model == "" {
		config.LLM.Model = "gpt-4-1106-preview"
	}
	if config.LLM.MaxTokens == 0 {
		config.LLM.MaxTokens = 1000
	}
	if config.LLM.Temperature == 0 {
		config.LLM.Temperature = 0.2
	}

	if config.Database.DataTable == "" {
		config.Database.DataTable = "data"
	}
	if config.Database.CleanedTable == "" {
		config.Database.CleanedTable = "new_data"
	}
	if config.Database.VictimsTable == "" {
		config.Database.VictimsTable = "victims"
	}

	if config.Reader.InputDir == "" {
		config.Reader.InputDir = "database"
	}

	if config.Cleanup.CallDelaySeconds == 0 {
		config.Cleanup.CallDelaySeconds = 3
	}
	if config.Cleanup.CooldownSeconds == 0 {
		config.Cleanup.CooldownSeconds = 60
	}

	if config.Report.TopDomains == 0 {
		config.Report.TopDomains = 20
	}
}

func mergeWithEnv(config *Config) {
	if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
		config.LLM.BaseURL = baseURL
	}
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		config.Database.URL = dbURL
	}
}

// APIKeys collects the interchangeable access tokens openai_1..openai_9 from
// the environment, matching how the key pool is provisioned.
func APIKeys() []string {
	var keys []string
	for i := 1; i <= 9; i++ {
		if key := os.Getenv(fmt.Sprintf("OPENAI_API_KEY_%d", i)); key != "" {
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 {
		if key := os.Getenv("OPENAI_API_KEY"); key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}

func (c *Config) CallDelay() time.Duration {
	return time.Duration(c.Cleanup.CallDelaySeconds) * time.Second
}

func (c *Config) Cooldown() time.Duration {
	return time.Duration(c.Cleanup.CooldownSeconds) * time.Second
}
