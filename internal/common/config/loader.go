// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	loadEnvFile()

	// Base config
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	// Enable ENV override like BUREAU_API_KEY
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	// Environment overlay, ignored when absent
	envConfigFile := fmt.Sprintf("config.%s", env)
	viper.SetConfigName(envConfigFile)
	_ = viper.MergeInConfig()

	expandEnvVars(viper.GetViper())

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile tries .env from multiple locations so tests under test/e2e and
// tools under cmd/tools find it too.
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// expandEnvVars resolves ${VAR} placeholders in string values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		val := v.Get(key)

		if strVal, ok := val.(string); ok {
			if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
				expanded := os.ExpandEnv(strVal)
				if expanded != strVal && expanded != "" {
					v.Set(key, expanded)
				}
			}
		}
	}
}

// overrideEmptyConfig applies direct environment overrides for values that
// are still empty after expansion.
func overrideEmptyConfig(cfg *Config) {
	if cfg.Bureau.APIKey == "" {
		if val := os.Getenv("BUREAU_API_KEY"); val != "" {
			cfg.Bureau.APIKey = val
		}
	}
	if cfg.Bureau.BaseURL == "" {
		if val := os.Getenv("BUREAU_BASE_URL"); val != "" {
			cfg.Bureau.BaseURL = val
		}
	}
	if cfg.Database.Postgres.Password == "" {
		if val := os.Getenv("POSTGRES_PASSWORD"); val != "" {
			cfg.Database.Postgres.Password = val
		}
	}
	if cfg.Database.Redis.Password == "" {
		if val := os.Getenv("REDIS_PASSWORD"); val != "" {
			cfg.Database.Redis.Password = val
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "algolend-workers"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}
	if cfg.Camunda.BrokerAddress == "" {
		cfg.Camunda.BrokerAddress = "localhost:26500"
	}
	if cfg.Camunda.MaxJobsActive <= 0 {
		cfg.Camunda.MaxJobsActive = 10
	}
	if cfg.Database.Postgres.Host == "" {
		cfg.Database.Postgres.Host = "localhost"
	}
	if cfg.Database.Postgres.Port == 0 {
		cfg.Database.Postgres.Port = 5432
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}
	if cfg.Database.Postgres.MaxConnections <= 0 {
		cfg.Database.Postgres.MaxConnections = 10
	}
	if cfg.Database.Postgres.MaxIdle <= 0 {
		cfg.Database.Postgres.MaxIdle = 5
	}
	if cfg.Database.Redis.Address == "" {
		cfg.Database.Redis.Address = "localhost:6379"
	}
	if len(cfg.Database.Elasticsearch.Addresses) == 0 {
		cfg.Database.Elasticsearch.Addresses = []string{"http://localhost:9200"}
	}
	if cfg.Database.Elasticsearch.DecisionIndex == "" {
		cfg.Database.Elasticsearch.DecisionIndex = "credit-decisions"
	}
	if cfg.Bureau.Provider == "" {
		cfg.Bureau.Provider = "stub"
	}
	if cfg.Bureau.TimeoutSeconds <= 0 {
		cfg.Bureau.TimeoutSeconds = 10
	}
	if cfg.Bureau.CacheTTLHours <= 0 {
		cfg.Bureau.CacheTTLHours = 24
	}
	if cfg.Directory.Path == "" {
		cfg.Directory.Path = "configs/employers/jse-listed-companies.csv"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Notifications.AWSRegion == "" {
		cfg.Notifications.AWSRegion = "af-south-1"
	}

	applyEngineDefaults(&cfg.Engine)
}

// DefaultEngineConfig returns the built-in scoring policy, the same values
// applyDefaults uses when no engine section is configured.
func DefaultEngineConfig() EngineConfig {
	var e EngineConfig
	applyEngineDefaults(&e)
	return e
}

// applyEngineDefaults fills the scoring policy. The defaults mirror the
// production policy: eleven factors whose weights sum to 70.
func applyEngineDefaults(e *EngineConfig) {
	if e.TotalWeight <= 0 {
		e.TotalWeight = 70
	}
	if len(e.Weights) == 0 {
		e.Weights = map[string]float64{
			"creditScore":         15,
			"creditUtilization":   7,
			"adverseListings":     8,
			"dti":                 10,
			"employmentTenure":    6,
			"contractType":        6,
			"employerCategory":    6,
			"incomeStability":     4,
			"repaymentHistory":    4,
			"retrievalConfidence": 2,
			"deviceSignals":       2,
		}
	}
	if e.ScoreMin == 0 && e.ScoreMax == 0 {
		e.ScoreMin = 300
		e.ScoreMax = 850
	}
	if e.TenureFullMonths <= 0 {
		e.TenureFullMonths = 24
	}
	if e.NeutralUtilization <= 0 {
		e.NeutralUtilization = 50
	}
	if e.ApproveAt <= 0 {
		e.ApproveAt = 65
	}
	if e.ReferAt <= 0 {
		e.ReferAt = 45
	}
}

func validateConfig(cfg *Config) error {
	if cfg.Camunda.BrokerAddress == "" {
		return fmt.Errorf("camunda.broker_address is required")
	}
	if cfg.Engine.ScoreMax <= cfg.Engine.ScoreMin {
		return fmt.Errorf("engine.score_max must exceed engine.score_min")
	}
	if cfg.Engine.ReferAt > cfg.Engine.ApproveAt {
		return fmt.Errorf("engine.refer_at must not exceed engine.approve_at")
	}
	if cfg.Directory.Path == "" {
		return fmt.Errorf("directory.path is required")
	}
	return nil
}
