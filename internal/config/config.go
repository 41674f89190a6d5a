package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Input     InputConfig     `yaml:"input" mapstructure:"input"`
	Dashboard DashboardConfig `yaml:"dashboard" mapstructure:"dashboard"`
	Search    SearchConfig    `yaml:"search" mapstructure:"search"`
	Export    ExportConfig    `yaml:"export" mapstructure:"export"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// InputConfig configures how source spreadsheets are read.
type InputConfig struct {
	SheetIndex   int    `yaml:"sheet_index" mapstructure:"sheet_index"`
	SheetName    string `yaml:"sheet_name" mapstructure:"sheet_name"`
	CSVCharset   string `yaml:"csv_charset" mapstructure:"csv_charset"`
	CSVDelimiter string `yaml:"csv_delimiter" mapstructure:"csv_delimiter"`
}

// DashboardConfig configures the dashboard views.
type DashboardConfig struct {
	DefaultStart string `yaml:"default_start" mapstructure:"default_start"`
	TopN         int    `yaml:"top_n" mapstructure:"top_n"`
}

// SearchConfig configures the fuzzy tariff-code search.
type SearchConfig struct {
	Limit  int     `yaml:"limit" mapstructure:"limit"`
	Cutoff float64 `yaml:"cutoff" mapstructure:"cutoff"`
}

// ExportConfig configures XLSX downloads.
type ExportConfig struct {
	SheetName string `yaml:"sheet_name" mapstructure:"sheet_name"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port        int      `yaml:"port" mapstructure:"port"`
	MaxUploadMB int      `yaml:"max_upload_mb" mapstructure:"max_upload_mb"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// DefaultStartDate parses dashboard.default_start.
func (c DashboardConfig) DefaultStartDate() (time.Time, error) {
	d, err := time.Parse("2006-01-02", c.DefaultStart)
	if err != nil {
		return time.Time{}, eris.Wrapf(err, "config: dashboard.default_start %q", c.DefaultStart)
	}
	return d, nil
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("TRADEFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.max_upload_mb", 50)
	v.SetDefault("server.cors_origins", []string{})
	v.SetDefault("input.sheet_index", 0)
	v.SetDefault("input.sheet_name", "")
	v.SetDefault("input.csv_charset", "")
	v.SetDefault("input.csv_delimiter", ",")
	v.SetDefault("dashboard.default_start", "2025-01-01")
	v.SetDefault("dashboard.top_n", 10)
	v.SetDefault("search.limit", 10)
	v.SetDefault("search.cutoff", 0.5)
	v.SetDefault("export.sheet_name", "Datos")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a command depends on. mode is the command
// name: "serve", "report", "search", "export" or "clean".
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "serve":
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, "server.port must be > 0 and <= 65535")
		}
		if c.Server.MaxUploadMB <= 0 {
			errs = append(errs, "server.max_upload_mb must be > 0")
		}
	case "report", "search", "export", "clean":
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if mode != "clean" {
		if _, err := c.Dashboard.DefaultStartDate(); err != nil {
			errs = append(errs, "dashboard.default_start must be a YYYY-MM-DD date")
		}
		if c.Dashboard.TopN < 1 || c.Dashboard.TopN > 100 {
			errs = append(errs, "dashboard.top_n must be between 1 and 100")
		}
		if c.Search.Limit < 1 {
			errs = append(errs, "search.limit must be >= 1")
		}
		if c.Search.Cutoff < 0 || c.Search.Cutoff > 1 {
			errs = append(errs, "search.cutoff must be between 0 and 1")
		}
	}
	if c.Input.SheetIndex < 0 {
		errs = append(errs, "input.sheet_index must be >= 0")
	}
	if len([]rune(c.Input.CSVDelimiter)) > 1 {
		errs = append(errs, "input.csv_delimiter must be a single character")
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
