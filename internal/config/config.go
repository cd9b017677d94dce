package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/journal-metrics/internal/analysis"
	"github.com/KaramelBytes/journal-metrics/internal/utils"
)

// Global configuration structure.
type Global struct {
	DataFile     string `mapstructure:"data_file" yaml:"data_file" validate:"required"`
	SheetName    string `mapstructure:"sheet_name" yaml:"sheet_name"`
	SheetIndex   int    `mapstructure:"sheet_index" yaml:"sheet_index" validate:"gte=0"`
	CSVDelimiter string `mapstructure:"csv_delimiter" yaml:"csv_delimiter"`

	// EntityColumns are tried in order to find the journal key column.
	EntityColumns []string              `mapstructure:"entity_columns" yaml:"entity_columns" validate:"required,min=1,dive,required"`
	Metrics       []analysis.MetricSpec `mapstructure:"metrics" yaml:"metrics" validate:"dive"`
	// PlaceholderColumns overrides the "days avg" column detection when set.
	PlaceholderColumns []string `mapstructure:"placeholder_columns" yaml:"placeholder_columns,omitempty"`

	Locale       string `mapstructure:"locale" yaml:"locale" validate:"oneof=de en"`
	MissingLabel string `mapstructure:"missing_label" yaml:"missing_label"`

	ListenAddr string `mapstructure:"listen_addr" yaml:"listen_addr" validate:"required,hostname_port"`
	CacheDir   string `mapstructure:"cache_dir" yaml:"cache_dir"`

	LogLevel string `mapstructure:"log_level" yaml:"log_level" validate:"oneof=debug info warn error"`
	LogFile  string `mapstructure:"log_file" yaml:"log_file"`
}

// Delimiter maps CSVDelimiter to a rune; 0 means auto-detect.
func (c *Global) Delimiter() (rune, error) {
	switch strings.ToLower(strings.TrimSpace(c.CSVDelimiter)) {
	case "":
		return 0, nil
	case ",", "comma":
		return ',', nil
	case ";", "semicolon":
		return ';', nil
	case "\t", "tab":
		return '\t', nil
	default:
		return 0, fmt.Errorf("unsupported csv_delimiter: %s (use ','|';'|'tab')", c.CSVDelimiter)
	}
}

// Validate checks field constraints and returns all violations joined.
func (c *Global) Validate() error {
	v := validator.New()
	var errs []error
	if err := v.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			errs = append(errs, fmt.Errorf("%s: failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
		}
	}
	if _, err := c.Delimiter(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".jmetrics"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.jmetrics/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := configDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := utils.SafeWriteFile(path, b); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("JMETRICS")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("data_file", "tandfonline_journals_final.xlsx")
	v.SetDefault("sheet_name", "")
	v.SetDefault("sheet_index", 1)
	v.SetDefault("csv_delimiter", "")
	v.SetDefault("entity_columns", []string{"Zeitschrift", "URL"})
	v.SetDefault("metrics", defaultMetrics())
	v.SetDefault("locale", "de")
	v.SetDefault("missing_label", "")
	v.SetDefault("listen_addr", "127.0.0.1:8501")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")

	dir, err := configDir()
	if err != nil {
		return nil, err
	}
	v.SetDefault("cache_dir", filepath.Join(dir, "cache"))

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if len(c.Metrics) == 0 {
		c.Metrics = analysis.DefaultMetrics()
	}
	return &c, nil
}

// defaultMetrics renders analysis.DefaultMetrics in the map form viper defaults use.
func defaultMetrics() []map[string]any {
	var out []map[string]any
	for _, m := range analysis.DefaultMetrics() {
		out = append(out, map[string]any{"name": m.Name, "aliases": m.Aliases, "color": m.Color})
	}
	return out
}
