// Package config manages environment-specific settings for test runs. An
// environment is selected by name (dev, staging, prod); its built-in
// defaults can be overlaid from a YAML file and then from environment
// variables, in that order.
package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvVarEnvironment selects the environment when no name is given explicitly.
const EnvVarEnvironment = "WEBTEST_ENV"

const defaultEnvironment = "dev"

// EnvironmentConfig holds the settings for one target environment.
type EnvironmentConfig struct {
	Name       string `yaml:"name"`
	BaseURL    string `yaml:"baseUrl"`
	APIBaseURL string `yaml:"apiBaseUrl"`
	Username   string `yaml:"username"`
	Password   string `yaml:"password"`

	TimeoutSeconds    int  `yaml:"timeoutSeconds"`
	APITimeoutSeconds int  `yaml:"apiTimeoutSeconds"`
	APIRetryCount     int  `yaml:"apiRetryCount"`
	Debug             bool `yaml:"debug"`
	TestDataCleanup   bool `yaml:"testDataCleanup"`
}

// Timeout returns the general operation timeout as a duration.
func (c EnvironmentConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// APITimeout returns the API request timeout as a duration.
func (c EnvironmentConfig) APITimeout() time.Duration {
	return time.Duration(c.APITimeoutSeconds) * time.Second
}

// Defaults returns the built-in environment definitions.
func Defaults() map[string]EnvironmentConfig {
	return map[string]EnvironmentConfig{
		"dev": {
			Name:              "development",
			BaseURL:           "http://localhost:8222/app",
			APIBaseURL:        "http://localhost:8222/app",
			Username:          "test_user@example.com",
			Password:          "test_password123",
			TimeoutSeconds:    10,
			APITimeoutSeconds: 30,
			APIRetryCount:     3,
			Debug:             true,
			TestDataCleanup:   false,
		},
		"staging": {
			Name:              "staging",
			BaseURL:           "https://staging-app.example.com",
			APIBaseURL:        "https://staging-api.example.com/v1",
			Username:          "staging_user@example.com",
			Password:          "staging_password123",
			TimeoutSeconds:    15,
			APITimeoutSeconds: 30,
			APIRetryCount:     3,
			Debug:             false,
			TestDataCleanup:   true,
		},
		"prod": {
			Name:              "production",
			BaseURL:           "https://app.example.com",
			APIBaseURL:        "https://api.example.com/v1",
			Username:          "prod_user@example.com",
			Password:          "prod_password123",
			TimeoutSeconds:    20,
			APITimeoutSeconds: 30,
			APIRetryCount:     3,
			Debug:             false,
			TestDataCleanup:   true,
		},
	}
}

// EnvironmentNames returns the known environment names in sorted order.
func EnvironmentNames() []string {
	var names []string
	for name := range Defaults() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Load resolves the configuration for the named environment. An empty name
// falls back to the WEBTEST_ENV variable, then to "dev". If filePath is
// non-empty, it must be a YAML file mapping environment names to settings,
// which are overlaid on the built-in defaults. Environment variables are
// applied last (see applyEnvVars).
func Load(envName, filePath string) (EnvironmentConfig, error) {
	if envName == "" {
		envName = os.Getenv(EnvVarEnvironment)
	}
	if envName == "" {
		envName = defaultEnvironment
	}

	defaults := Defaults()
	cfg, ok := defaults[envName]
	if !ok {
		return EnvironmentConfig{}, fmt.Errorf("unknown environment %q (known: %v)", envName, EnvironmentNames())
	}

	if filePath != "" {
		data, err := os.ReadFile(filePath)
		if err != nil {
			return EnvironmentConfig{}, fmt.Errorf("could not read config file: %w", err)
		}
		var fileEnvs map[string]EnvironmentConfig
		if err := yaml.Unmarshal(data, &fileEnvs); err != nil {
			return EnvironmentConfig{}, fmt.Errorf("could not parse config file %s: %w", filePath, err)
		}
		if fileCfg, found := fileEnvs[envName]; found {
			cfg = merge(cfg, fileCfg)
		}
	}

	applyEnvVars(&cfg)
	return cfg, nil
}

// merge overlays non-zero fields of over onto base.
func merge(base, over EnvironmentConfig) EnvironmentConfig {
	if over.Name != "" {
		base.Name = over.Name
	}
	if over.BaseURL != "" {
		base.BaseURL = over.BaseURL
	}
	if over.APIBaseURL != "" {
		base.APIBaseURL = over.APIBaseURL
	}
	if over.Username != "" {
		base.Username = over.Username
	}
	if over.Password != "" {
		base.Password = over.Password
	}
	if over.TimeoutSeconds != 0 {
		base.TimeoutSeconds = over.TimeoutSeconds
	}
	if over.APITimeoutSeconds != 0 {
		base.APITimeoutSeconds = over.APITimeoutSeconds
	}
	if over.APIRetryCount != 0 {
		base.APIRetryCount = over.APIRetryCount
	}
	return base
}

// applyEnvVars overrides individual fields from the process environment:
// WEBTEST_BASE_URL, WEBTEST_API_URL, WEBTEST_USERNAME, WEBTEST_PASSWORD,
// WEBTEST_TIMEOUT_SECONDS, WEBTEST_DEBUG.
func applyEnvVars(cfg *EnvironmentConfig) {
	if v := os.Getenv("WEBTEST_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("WEBTEST_API_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv("WEBTEST_USERNAME"); v != "" {
		cfg.Username = v
	}
	if v := os.Getenv("WEBTEST_PASSWORD"); v != "" {
		cfg.Password = v
	}
	if v := os.Getenv("WEBTEST_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutSeconds = n
		}
	}
	if v := os.Getenv("WEBTEST_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Debug = b
		}
	}
}
