package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	ReportsDir  string `mapstructure:"reports_dir" yaml:"reports_dir"`
	MaxRows     int    `mapstructure:"max_rows" yaml:"max_rows"`
	SampleRows  int    `mapstructure:"sample_rows" yaml:"sample_rows"`
	SummaryRows int    `mapstructure:"summary_rows" yaml:"summary_rows"`
	PageSize    string `mapstructure:"page_size" yaml:"page_size"`
}

// Save writes the given configuration to the cfgFile path. If cfgFile is
// empty, it writes to ~/.carelytics/config.yaml, creating the directory if
// necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".carelytics")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("CARELYTICS")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("max_rows", 0)
	v.SetDefault("sample_rows", 5000)
	v.SetDefault("summary_rows", 200)
	v.SetDefault("page_size", "Letter")

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".carelytics")
		_ = os.MkdirAll(dir, 0o755)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	// Resolve reports_dir default: ./reports
	if c.ReportsDir == "" {
		c.ReportsDir = "reports"
	}
	return &c, nil
}
