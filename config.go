package main

import (
	"log"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	LLMProvider string   `yaml:"llm_provider"`
	LLMEndpoint string   `yaml:"llm_endpoint"`
	LLMModel    string   `yaml:"llm_model"`
	LLMAPIKeys  []string `yaml:"llm_api_keys"`

	ExtractRounds  int `yaml:"extract_rounds"`
	MinFrequency   int `yaml:"min_frequency"`
	TimeWindowDays int `yaml:"time_window_days"`
	BatchSize      int `yaml:"batch_size"`
	MaxWorkers     int `yaml:"max_workers"`

	LLMTimeoutSeconds     int   `yaml:"llm_timeout_seconds"`
	RequestTimeoutSeconds int   `yaml:"request_timeout_seconds"`
	ShuffleSeed           int64 `yaml:"shuffle_seed"`

	HotwordsFile string `yaml:"hotwords_file"`
	OutputDir    string `yaml:"output_dir"`
	DBPath       string `yaml:"db_path"`
	PublishRepo  string `yaml:"publish_repo"`
	PublishRef   string `yaml:"publish_ref"`

	GitHubToken string `yaml:"github_token"`

	HarvestSchedule string `yaml:"harvest_schedule"`

	SlackBotToken  string `yaml:"slack_bot_token"`
	SlackChannelID string `yaml:"slack_channel_id"`
}

// LoadConfig reads config.yaml (or CONFIG_PATH), layers env vars on
// top, then resolves the API key list from the CLI arguments, key file,
// env vars or YAML, in that priority order.
func LoadConfig(apiKeyArg, keysFile string) Config {
	var cfg Config

	configPath := "config.yaml"
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		configPath = envPath
	}
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			log.Fatalf("Error parsing %s: %v", configPath, err)
		}
		log.Printf("Loaded config from %s", configPath)
	}

	envOverride(&cfg.LLMProvider, "LLM_PROVIDER")
	envOverride(&cfg.LLMEndpoint, "LLM_ENDPOINT")
	envOverride(&cfg.LLMModel, "LLM_MODEL")
	envOverrideInt(&cfg.ExtractRounds, "EXTRACT_ROUNDS")
	envOverrideInt(&cfg.MinFrequency, "MIN_FREQUENCY")
	envOverrideInt(&cfg.TimeWindowDays, "TIME_WINDOW_DAYS")
	envOverrideInt(&cfg.BatchSize, "BATCH_SIZE")
	envOverrideInt(&cfg.MaxWorkers, "MAX_WORKERS")
	envOverrideInt(&cfg.LLMTimeoutSeconds, "LLM_TIMEOUT_SECONDS")
	envOverrideInt(&cfg.RequestTimeoutSeconds, "REQUEST_TIMEOUT_SECONDS")
	envOverride(&cfg.HotwordsFile, "HOTWORDS_FILE")
	envOverride(&cfg.OutputDir, "OUTPUT_DIR")
	envOverride(&cfg.DBPath, "DB_PATH")
	envOverride(&cfg.PublishRepo, "HOTWORDS_PUBLISH_REPO")
	envOverride(&cfg.PublishRef, "HOTWORDS_PUBLISH_REF")
	envOverride(&cfg.GitHubToken, "GITHUB_TOKEN")
	envOverride(&cfg.HarvestSchedule, "HARVEST_SCHEDULE")
	envOverride(&cfg.SlackBotToken, "SLACK_BOT_TOKEN")
	envOverride(&cfg.SlackChannelID, "SLACK_CHANNEL_ID")

	if keys := loadAPIKeys(apiKeyArg, keysFile); len(keys) > 0 {
		cfg.LLMAPIKeys = keys
	}

	// Defaults
	if cfg.LLMProvider == "" {
		cfg.LLMProvider = "openai"
	}
	if cfg.LLMEndpoint == "" {
		cfg.LLMEndpoint = "https://api.longcat.chat/openai/v1/"
	}
	if cfg.LLMModel == "" && cfg.LLMProvider == "openai" {
		cfg.LLMModel = "LongCat-Flash-Lite"
	}
	if cfg.ExtractRounds == 0 {
		cfg.ExtractRounds = 5
	}
	if cfg.MinFrequency == 0 {
		cfg.MinFrequency = 50
	}
	if cfg.TimeWindowDays == 0 {
		cfg.TimeWindowDays = 3
	}
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 50
	}
	if cfg.MaxWorkers == 0 {
		cfg.MaxWorkers = 30
	}
	if cfg.LLMTimeoutSeconds == 0 {
		cfg.LLMTimeoutSeconds = 90
	}
	if cfg.RequestTimeoutSeconds == 0 {
		cfg.RequestTimeoutSeconds = 20
	}
	if cfg.HotwordsFile == "" {
		cfg.HotwordsFile = "hotwords.txt"
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "output"
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "./hotwordsbot.db"
	}
	if cfg.PublishRef == "" {
		cfg.PublishRef = "main"
	}

	switch cfg.LLMProvider {
	case "openai", "anthropic":
	default:
		log.Fatalf("llm_provider must be 'openai' or 'anthropic', got '%s'", cfg.LLMProvider)
	}
	if cfg.ExtractRounds < 1 {
		log.Fatalf("invalid extract_rounds '%d': must be >= 1", cfg.ExtractRounds)
	}
	if cfg.MinFrequency < 1 {
		log.Fatalf("invalid min_frequency '%d': must be >= 1", cfg.MinFrequency)
	}
	if cfg.BatchSize < 1 {
		log.Fatalf("invalid batch_size '%d': must be >= 1", cfg.BatchSize)
	}
	if cfg.MaxWorkers < 1 {
		log.Fatalf("invalid max_workers '%d': must be >= 1", cfg.MaxWorkers)
	}

	return cfg
}

// loadAPIKeys resolves the key list: key file first, then the comma
// separated CLI value, then LLM_API_KEYS, then a single LLM_API_KEY.
func loadAPIKeys(apiKeyArg, keysFile string) []string {
	if keysFile != "" {
		if data, err := os.ReadFile(keysFile); err == nil {
			var keys []string
			for _, line := range strings.Split(string(data), "\n") {
				line = strings.TrimSpace(line)
				if line != "" && !strings.HasPrefix(line, "#") {
					keys = append(keys, line)
				}
			}
			if len(keys) > 0 {
				log.Printf("Loaded %d API keys from %s", len(keys), keysFile)
				return keys
			}
		} else {
			log.Printf("Could not read keys file %s: %v", keysFile, err)
		}
	}

	if keys := splitKeyList(apiKeyArg); len(keys) > 0 {
		log.Printf("Loaded %d API keys from -api-key", len(keys))
		return keys
	}

	if keys := splitKeyList(os.Getenv("LLM_API_KEYS")); len(keys) > 0 {
		log.Printf("Loaded %d API keys from LLM_API_KEYS", len(keys))
		return keys
	}

	if key := strings.TrimSpace(os.Getenv("LLM_API_KEY")); key != "" {
		log.Printf("Loaded 1 API key from LLM_API_KEY")
		return []string{key}
	}

	return nil
}

func splitKeyList(s string) []string {
	var keys []string
	for _, k := range strings.Split(s, ",") {
		k = strings.TrimSpace(k)
		if k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

func envOverride(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

func envOverrideInt(field *int, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			log.Fatalf("invalid %s '%s': %v", envKey, val, err)
		}
		*field = parsed
	}
}
