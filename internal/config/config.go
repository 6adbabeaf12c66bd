package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Antagata/Month-recap-AVU/internal/catalog"
	"github.com/Antagata/Month-recap-AVU/internal/pricing"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig       `yaml:"store" mapstructure:"store"`
	Catalog   CatalogConfig     `yaml:"catalog" mapstructure:"catalog"`
	Cascade   CascadeConfig     `yaml:"cascade" mapstructure:"cascade"`
	Pricing   pricing.Converter `yaml:"pricing" mapstructure:"pricing"`
	Output    OutputConfig      `yaml:"output" mapstructure:"output"`
	Translate TranslateConfig   `yaml:"translate" mapstructure:"translate"`
	Log       LogConfig         `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the learning store backend.
type StoreConfig struct {
	// Driver is one of "file", "sqlite", "postgres", "memory".
	Driver      string `yaml:"driver" mapstructure:"driver"`
	Path        string `yaml:"path" mapstructure:"path"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// CatalogConfig locates the catalog spreadsheet and its column mapping.
type CatalogConfig struct {
	Path    string          `yaml:"path" mapstructure:"path"`
	Columns catalog.Columns `yaml:"columns" mapstructure:"columns"`
}

// CascadeConfig tunes the resolution cascade.
type CascadeConfig struct {
	Threshold    float64 `yaml:"threshold" mapstructure:"threshold"`
	VintageBonus float64 `yaml:"vintage_bonus" mapstructure:"vintage_bonus"`
	BulkQuantity int     `yaml:"bulk_quantity" mapstructure:"bulk_quantity"`
	DefaultSize  float64 `yaml:"default_size" mapstructure:"default_size"`
	Workers      int     `yaml:"workers" mapstructure:"workers"`
	RulesPath    string  `yaml:"rules_path" mapstructure:"rules_path"`
}

// OutputConfig configures where generated files land.
type OutputConfig struct {
	Dir           string `yaml:"dir" mapstructure:"dir"`
	ReportsDir    string `yaml:"reports_dir" mapstructure:"reports_dir"`
	LinesDir      string `yaml:"lines_dir" mapstructure:"lines_dir"`
	TimestampName bool   `yaml:"timestamp_name" mapstructure:"timestamp_name"`
}

// TranslateConfig configures optional translation of the converted text.
// The API key comes from the environment (RECAP_TRANSLATE_API_KEY).
type TranslateConfig struct {
	Enabled   bool     `yaml:"enabled" mapstructure:"enabled"`
	APIKey    string   `yaml:"api_key" mapstructure:"api_key"`
	BaseURL   string   `yaml:"base_url" mapstructure:"base_url"`
	Languages []string `yaml:"languages" mapstructure:"languages"`
	Dir       string   `yaml:"dir" mapstructure:"dir"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("RECAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "file")
	v.SetDefault("store.path", "learning_db.txt")
	v.SetDefault("store.database_url", "")
	v.SetDefault("catalog.path", "")
	v.SetDefault("cascade.rules_path", "")
	v.SetDefault("cascade.threshold", 0.6)
	v.SetDefault("cascade.vintage_bonus", 0.1)
	v.SetDefault("cascade.bulk_quantity", 36)
	v.SetDefault("cascade.default_size", 75.0)
	v.SetDefault("cascade.workers", 4)
	v.SetDefault("pricing.factor", 1.08)
	v.SetDefault("pricing.round_above", 300.0)
	v.SetDefault("output.dir", "outputs")
	v.SetDefault("output.reports_dir", "outputs/reports")
	v.SetDefault("output.lines_dir", "outputs/lines")
	v.SetDefault("output.timestamp_name", true)
	v.SetDefault("translate.enabled", false)
	v.SetDefault("translate.api_key", "")
	v.SetDefault("translate.base_url", "https://api-free.deepl.com/v2")
	v.SetDefault("translate.languages", []string{"DE", "FR"})
	v.SetDefault("translate.dir", "outputs/translations")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

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
	if cfg.Catalog.Columns.ItemID == "" {
		cfg.Catalog.Columns = catalog.DefaultColumns()
	}

	return &cfg, nil
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
