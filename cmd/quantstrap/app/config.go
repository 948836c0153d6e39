package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/spongeengine/quantstrap/pkg/errors"
)

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Output  string

	// Config file
	ConfigFile string

	// Installation root for the bootstrap
	WorkDir string

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
//  1. Command-line flags (handled by cobra)
//  2. Environment variables (QUANTSTRAP_* and plain keys)
//  3. .env files
//  4. Config file (~/.quantstrap.yaml)
//  5. Defaults
func LoadConfig() (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	// Set up Viper for environment variables
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	// Prefixed variables win over the plain names
	bindEnvAliases()

	// Surface the tokens the launched application reads
	bindTokens()

	// Try to read config file if it exists
	configFile := viper.GetString("config")
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		// Search for config in standard locations
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.AddConfigPath(".")
			viper.SetConfigType("yaml")
			viper.SetConfigName(".quantstrap")
		}
	}

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()

	// Build config from viper
	config := &Config{
		// Global flags (may be overridden by cobra flags later)
		Verbose: viper.GetBool("verbose"),
		Quiet:   viper.GetBool("quiet"),
		NoColor: viper.GetBool("no-color"),
		Output:  viper.GetString("format"),

		// Config file
		ConfigFile: viper.ConfigFileUsed(),

		// Bootstrap configuration
		WorkDir: viper.GetString("workdir"),

		// Logging configuration. LogLevel stays empty here; the logger
		// resolves the level from flags and LOG_LEVEL with its own
		// precedence rules.
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}

	// Set defaults
	if config.WorkDir == "" {
		config.WorkDir = "."
	}

	return config, nil
}

// reloadConfigFile reads an explicit config file and re-applies the
// viper-backed settings. Flag overrides are applied after this runs, so
// flags still win over the file.
func (c *Config) reloadConfigFile(path string) error {
	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		return errors.NewConfigError("app", "read config file "+path, err)
	}

	c.ConfigFile = viper.ConfigFileUsed()
	c.Verbose = viper.GetBool("verbose")
	c.Quiet = viper.GetBool("quiet")
	c.NoColor = viper.GetBool("no-color")
	if format := viper.GetString("format"); format != "" {
		c.Output = format
	}
	if workdir := viper.GetString("workdir"); workdir != "" {
		c.WorkDir = workdir
	}
	return nil
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel, workdir string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if format != "" {
		c.Output = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
	if workdir != "" {
		c.WorkDir = workdir
	}
}

// loadEnvFiles loads environment variables from .env files.
// godotenv never overrides variables that are already set, so the earlier
// file wins: .env.local overrides .env, and the real environment overrides
// both.
func loadEnvFiles() {
	envFiles := []string{
		".env.local",
		".env",
	}

	for _, envFile := range envFiles {
		_ = godotenv.Load(envFile)
	}
}

// bindEnvAliases binds the QUANTSTRAP_-prefixed environment variables next to
// the plain names viper already reads through AutomaticEnv.
func bindEnvAliases() {
	aliases := map[string][]string{
		"workdir":  {"QUANTSTRAP_WORKDIR", "WORKDIR"},
		"format":   {"QUANTSTRAP_FORMAT", "FORMAT"},
		"verbose":  {"QUANTSTRAP_VERBOSE", "VERBOSE"},
		"quiet":    {"QUANTSTRAP_QUIET", "QUIET"},
		"no-color": {"QUANTSTRAP_NO_COLOR", "NO_COLOR"},
	}

	for key, envs := range aliases {
		if err := viper.BindEnv(append([]string{key}, envs...)...); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to bind environment variable %s: %v\n", key, err)
		}
	}
}

// bindTokens explicitly binds the model-hub tokens to Viper so values from
// .env files reach the launched application's environment.
func bindTokens() {
	tokens := []string{
		"HF_TOKEN",
		"HUGGINGFACE_API_KEY",
	}

	for _, key := range tokens {
		if err := viper.BindEnv(key); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to bind environment variable %s: %v\n", key, err)
		}
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
