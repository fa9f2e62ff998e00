// Package config provides configuration management for aero-stat.
//
// Configuration sources (in precedence order, highest to lowest):
//  1. Command-line flags
//  2. Environment variables
//  3. Configuration file
//  4. Built-in defaults
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/naka-gawa/aero-stat/internal/gateway"
	"github.com/naka-gawa/aero-stat/internal/githubapi"
	"gopkg.in/yaml.v3"
)

// Config represents the complete configuration for aero-stat.
type Config struct {
	GitHub GitHubConfig `yaml:"github"`
	HTTP   HTTPConfig   `yaml:"http"`
	Report ReportConfig `yaml:"report"`
}

// GitHubConfig contains the API endpoint and where credentials are read from.
type GitHubConfig struct {
	APIRoot  string `yaml:"api_root"`
	LoginEnv string `yaml:"login_env"`
	TokenEnv string `yaml:"token_env"`
}

// HTTPConfig controls the transport.
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout"`
	MaxPages      int           `yaml:"max_pages"`
	WaitRateLimit bool          `yaml:"wait_rate_limit"`
}

// ReportConfig holds the defaults of the report command.
type ReportConfig struct {
	Branch          string        `yaml:"branch"`
	TopContributors int           `yaml:"top_contributors"`
	StalePullAge    time.Duration `yaml:"stale_pull_age"`
	StaleIssueAge   time.Duration `yaml:"stale_issue_age"`
}

// DefaultConfig returns a Config suitable for public github.com.
func DefaultConfig() *Config {
	return &Config{
		GitHub: GitHubConfig{
			APIRoot:  githubapi.DefaultAPIRoot,
			LoginEnv: "GITHUB_LOGIN",
			TokenEnv: "GITHUB_TOKEN",
		},
		HTTP: HTTPConfig{
			Timeout:  30 * time.Second,
			MaxPages: 1000,
		},
		Report: ReportConfig{
			Branch:          "master",
			TopContributors: 30,
			StalePullAge:    30 * 24 * time.Hour,
			StaleIssueAge:   14 * 24 * time.Hour,
		},
	}
}

// Load reads configuration from configPath, or from the first file found in
// the default locations when configPath is empty, then applies environment
// overrides. Finding no file in the default locations is not an error.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if err := loadFile(configPath, cfg); err != nil {
			return nil, err
		}
	} else {
		for _, path := range defaultPaths() {
			if _, err := os.Stat(path); err == nil {
				if err := loadFile(path, cfg); err != nil {
					return nil, err
				}
				break
			}
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaultPaths() []string {
	paths := []string{".aero-stat.yaml", ".aero-stat.yml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".aero-stat", "config.yaml"),
			filepath.Join(home, ".aero-stat", "config.yml"),
		)
	}
	return paths
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) error {
	if root := os.Getenv("AERO_STAT_API_ROOT"); root != "" {
		cfg.GitHub.APIRoot = root
	}
	if branch, ok := os.LookupEnv("AERO_STAT_BRANCH"); ok {
		cfg.Report.Branch = branch
	}
	if timeout := os.Getenv("AERO_STAT_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return fmt.Errorf("invalid AERO_STAT_TIMEOUT: %w", err)
		}
		cfg.HTTP.Timeout = d
	}
	if maxPages := os.Getenv("AERO_STAT_MAX_PAGES"); maxPages != "" {
		n, err := strconv.Atoi(maxPages)
		if err != nil {
			return fmt.Errorf("invalid AERO_STAT_MAX_PAGES: %w", err)
		}
		cfg.HTTP.MaxPages = n
	}
	if wait := os.Getenv("AERO_STAT_WAIT_RATE_LIMIT"); wait != "" {
		cfg.HTTP.WaitRateLimit = parseBool(wait)
	}
	return nil
}

func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "yes" || s == "1" || s == "on"
}

// Validate checks the configuration for values the tool cannot work with.
func (c *Config) Validate() error {
	if c.GitHub.APIRoot == "" {
		return errors.New("GitHub API root cannot be empty")
	}
	if c.HTTP.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got: %s", c.HTTP.Timeout)
	}
	if c.HTTP.MaxPages < 0 {
		return fmt.Errorf("max pages must not be negative, got: %d", c.HTTP.MaxPages)
	}
	if c.Report.TopContributors <= 0 {
		return fmt.Errorf("top contributors must be positive, got: %d", c.Report.TopContributors)
	}
	if c.Report.StalePullAge <= 0 || c.Report.StaleIssueAge <= 0 {
		return errors.New("stale ages must be positive")
	}
	return nil
}

// Credentials reads the login and token from the configured environment
// variables. It returns nil when neither is set.
func (c *Config) Credentials() (*gateway.Credentials, error) {
	login := os.Getenv(c.GitHub.LoginEnv)
	token := os.Getenv(c.GitHub.TokenEnv)
	switch {
	case login == "" && token == "":
		return nil, nil
	case login == "" || token == "":
		return nil, fmt.Errorf("both %s and %s must be set to authenticate", c.GitHub.LoginEnv, c.GitHub.TokenEnv)
	}
	return &gateway.Credentials{Login: login, Secret: token}, nil
}
