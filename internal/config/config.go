package config

import (
	"errors"
	"io/fs"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
	Batch      BatchConfig      `yaml:"batch" mapstructure:"batch"`
	Workbook   WorkbookConfig   `yaml:"workbook" mapstructure:"workbook"`
	Fetch      FetchConfig      `yaml:"fetch" mapstructure:"fetch"`
	Registry   RegistryConfig   `yaml:"registry" mapstructure:"registry"`
	Summary    SummaryConfig    `yaml:"summary" mapstructure:"summary"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Watch      WatchConfig      `yaml:"watch" mapstructure:"watch"`
	Monitoring MonitoringConfig `yaml:"monitoring" mapstructure:"monitoring"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" mapstructure:"format" validate:"oneof=json console"`
}

// BatchConfig bounds concurrent file processing.
type BatchConfig struct {
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency" validate:"min=1,max=64"`
}

// WorkbookConfig selects the xlsx decoder.
type WorkbookConfig struct {
	Codec string `yaml:"codec" mapstructure:"codec" validate:"oneof=xlsx excelize"`
}

// FetchConfig configures reading local and remote files.
type FetchConfig struct {
	TimeoutSecs       int     `yaml:"timeout_secs" mapstructure:"timeout_secs" validate:"min=1"`
	MaxRetries        int     `yaml:"max_retries" mapstructure:"max_retries" validate:"min=1,max=10"`
	UserAgent         string  `yaml:"user_agent" mapstructure:"user_agent" validate:"required"`
	MaxBytes          int64   `yaml:"max_bytes" mapstructure:"max_bytes" validate:"min=1"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second" validate:"gt=0"`
}

// RegistryConfig points at an optional synonym/company extension file.
type RegistryConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// SummaryConfig configures comparison summaries.
type SummaryConfig struct {
	Intervals []int `yaml:"intervals" mapstructure:"intervals" validate:"dive,min=1"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	MaxUploadMB    int      `yaml:"max_upload_mb" mapstructure:"max_upload_mb" validate:"min=1"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// WatchConfig configures the directory watcher.
type WatchConfig struct {
	Dir            string `yaml:"dir" mapstructure:"dir"`
	OutputDir      string `yaml:"output_dir" mapstructure:"output_dir"`
	Format         string `yaml:"format" mapstructure:"format" validate:"oneof=json yaml csv xlsx"`
	DebounceMillis int    `yaml:"debounce_millis" mapstructure:"debounce_millis" validate:"min=0"`
}

// MonitoringConfig configures upload health alerts.
type MonitoringConfig struct {
	WebhookURL           string  `yaml:"webhook_url" mapstructure:"webhook_url" validate:"omitempty,url"`
	FailureRateThreshold float64 `yaml:"failure_rate_threshold" mapstructure:"failure_rate_threshold" validate:"min=0,max=1"`
	MinFiles             int     `yaml:"min_files" mapstructure:"min_files" validate:"min=0"`
	CheckIntervalSecs    int     `yaml:"check_interval_secs" mapstructure:"check_interval_secs" validate:"min=0"`
}

// Load reads configuration from .env, config.yaml and the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, eris.Wrap(err, "config: load .env")
	}

	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("POLICY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("batch.concurrency", 4)
	v.SetDefault("workbook.codec", "xlsx")
	v.SetDefault("fetch.timeout_secs", 30)
	v.SetDefault("fetch.max_retries", 3)
	v.SetDefault("fetch.user_agent", "policy-compare/1.0")
	v.SetDefault("fetch.max_bytes", 50<<20)
	v.SetDefault("fetch.requests_per_second", 5)
	v.SetDefault("registry.path", "")
	v.SetDefault("summary.intervals", []int{10, 20, 30, 40, 50})
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.max_upload_mb", 50)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("watch.dir", ".")
	v.SetDefault("watch.output_dir", "")
	v.SetDefault("watch.format", "json")
	v.SetDefault("watch.debounce_millis", 500)
	v.SetDefault("monitoring.webhook_url", "")
	v.SetDefault("monitoring.failure_rate_threshold", 0.5)
	v.SetDefault("monitoring.min_files", 5)
	v.SetDefault("monitoring.check_interval_secs", 300)

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

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their config key rather than the Go name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks field constraints plus the requirements of the given
// command mode ("process", "summary", "serve" or "watch").
func (c *Config) Validate(mode string) error {
	var problems []string

	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return eris.Wrap(err, "config: validate")
		}
		for _, fe := range verrs {
			key := strings.TrimPrefix(fe.Namespace(), "Config.")
			problems = append(problems, key+" fails "+fe.Tag()+ruleParam(fe.Param()))
		}
	}

	switch mode {
	case "process", "summary":
	case "serve":
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			problems = append(problems, "server.port must be between 1 and 65535")
		}
	case "watch":
		if strings.TrimSpace(c.Watch.Dir) == "" {
			problems = append(problems, "watch.dir is required")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(problems) > 0 {
		return eris.Errorf("config: invalid: %s", strings.Join(problems, "; "))
	}
	return nil
}

func ruleParam(p string) string {
	if p == "" {
		return ""
	}
	return "=" + p
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
