package app

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/pmfscale/pkg/constants"
	"github.com/agentstation/pmfscale/pkg/errors"
)

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Run configuration
	OutputDir     string
	WriteReport   bool
	SummaryFormat string
	Marker        string

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables
// 3. .env files
// 4. Config file (~/.pmfscale.yaml or ./.pmfscale.yaml)
// 5. Defaults
func LoadConfig() (*Config, error) {
	return loadConfig(viper.New())
}

// loadConfigFile loads configuration with an explicit config file, which
// must exist and parse.
func loadConfigFile(path string) (*Config, error) {
	v := viper.New()
	v.Set("config", path)
	return loadConfig(v)
}

func loadConfig(v *viper.Viper) (*Config, error) {
	// .env files must be loaded before viper binds the environment
	loadEnvFiles()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	v.SetDefault("output_dir", ".")
	v.SetDefault("write_report", false)
	v.SetDefault("summary_format", "")
	v.SetDefault("marker", constants.PMFMarker)

	if configFile := v.GetString("config"); configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.NewConfigError("config", "failed to read "+configFile, err)
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".pmfscale")

		// A missing default config file is fine.
		_ = v.ReadInConfig()
	}

	config := &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no-color"),
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		OutputDir:     v.GetString("output_dir"),
		WriteReport:   v.GetBool("write_report"),
		SummaryFormat: strings.ToLower(v.GetString("summary_format")),
		Marker:        v.GetString("marker"),

		LogLevel:  v.GetString("log_level"),
		LogFormat: valueOrDefault(v.GetString("log_format"), "auto"),
		LogOutput: valueOrDefault(v.GetString("log_output"), "stderr"),
	}

	return config, nil
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = c.Verbose || verbose
	c.Quiet = c.Quiet || quiet
	c.NoColor = c.NoColor || noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles loads environment variables from .env files.
// godotenv never overrides variables that are already set, so .env.local
// only fills in what .env left unset.
func loadEnvFiles() {
	for _, envFile := range []string{".env", ".env.local"} {
		_ = godotenv.Load(envFile)
	}
}

func valueOrDefault(value, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}
