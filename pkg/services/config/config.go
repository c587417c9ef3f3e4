package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/de-tools/medcov/pkg/store/warehouse"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DefaultModel       = "gpt-4.1-mini"
	DefaultTemperature = 0.2
)

type Config struct {
	OpenAIAPIKey  string  `mapstructure:"OPENAI_API_KEY"`
	OpenAIModel   string  `mapstructure:"OPENAI_MODEL"`
	OpenAIBaseURL string  `mapstructure:"OPENAI_BASE_URL"`
	AITemperature float64 `mapstructure:"AI_TEMPERATURE"`

	WarehouseDriver    string `mapstructure:"WAREHOUSE_DRIVER"`
	SnowflakeAccount   string `mapstructure:"SNOWFLAKE_ACCOUNT"`
	SnowflakeUser      string `mapstructure:"SNOWFLAKE_USER"`
	SnowflakePassword  string `mapstructure:"SNOWFLAKE_PASSWORD"`
	SnowflakeRole      string `mapstructure:"SNOWFLAKE_ROLE"`
	SnowflakeWarehouse string `mapstructure:"SNOWFLAKE_WAREHOUSE"`
	SnowflakeDatabase  string `mapstructure:"SNOWFLAKE_DATABASE"`
	SnowflakeSchema    string `mapstructure:"SNOWFLAKE_SCHEMA"`
	PrivateKeyPath     string `mapstructure:"PRIVATE_KEY_PATH"`

	DatabricksHost       string `mapstructure:"DATABRICKS_HOST"`
	DatabricksToken      string `mapstructure:"DATABRICKS_TOKEN"`
	DatabricksHTTPPath   string `mapstructure:"DATABRICKS_HTTP_PATH"`
	DatabricksCatalog    string `mapstructure:"DATABRICKS_CATALOG"`
	DatabricksSchema     string `mapstructure:"DATABRICKS_SCHEMA"`
	DatabricksProfile    string `mapstructure:"DATABRICKS_PROFILE"`
	DatabricksConfigFile string `mapstructure:"DATABRICKS_CONFIG_FILE"`

	DuckDBPath  string `mapstructure:"DUCKDB_PATH"`
	PostgresDSN string `mapstructure:"POSTGRES_DSN"`

	ReportOutputDir string `mapstructure:"REPORT_OUTPUT_DIR"`
	ReportS3Bucket  string `mapstructure:"REPORT_S3_BUCKET"`
	ReportS3Prefix  string `mapstructure:"REPORT_S3_PREFIX"`
	HistoryDBPath   string `mapstructure:"HISTORY_DB_PATH"`
	ChartFontPath   string `mapstructure:"CHART_FONT_PATH"`
	// MaxReviewRows below zero sends every review row to the generator
	MaxReviewRows int `mapstructure:"MAX_REVIEW_ROWS"`

	ServerHost string `mapstructure:"SERVER_HOST"`
	ServerPort string `mapstructure:"SERVER_PORT"`
}

var keys = []string{
	"OPENAI_API_KEY", "OPENAI_MODEL", "OPENAI_BASE_URL", "AI_TEMPERATURE",
	"WAREHOUSE_DRIVER",
	"SNOWFLAKE_ACCOUNT", "SNOWFLAKE_USER", "SNOWFLAKE_PASSWORD", "SNOWFLAKE_ROLE",
	"SNOWFLAKE_WAREHOUSE", "SNOWFLAKE_DATABASE", "SNOWFLAKE_SCHEMA", "PRIVATE_KEY_PATH",
	"DATABRICKS_HOST", "DATABRICKS_TOKEN", "DATABRICKS_HTTP_PATH", "DATABRICKS_CATALOG",
	"DATABRICKS_SCHEMA", "DATABRICKS_PROFILE", "DATABRICKS_CONFIG_FILE",
	"DUCKDB_PATH", "POSTGRES_DSN",
	"REPORT_OUTPUT_DIR", "REPORT_S3_BUCKET", "REPORT_S3_PREFIX", "HISTORY_DB_PATH",
	"CHART_FONT_PATH", "MAX_REVIEW_ROWS",
	"SERVER_HOST", "SERVER_PORT",
}

// Load reads envFile (when it exists) into the environment and assembles the config from it
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("OPENAI_MODEL", DefaultModel)
	v.SetDefault("AI_TEMPERATURE", DefaultTemperature)
	v.SetDefault("WAREHOUSE_DRIVER", warehouse.DriverSnowflake)
	v.SetDefault("DATABRICKS_CONFIG_FILE", defaultDatabricksConfig())
	v.SetDefault("REPORT_OUTPUT_DIR", "reports")
	v.SetDefault("HISTORY_DB_PATH", "medcov.db")
	v.SetDefault("MAX_REVIEW_ROWS", -1)
	v.SetDefault("SERVER_HOST", "localhost")
	v.SetDefault("SERVER_PORT", "8080")

	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.WarehouseDriver = strings.ToLower(strings.TrimSpace(cfg.WarehouseDriver))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaultDatabricksConfig() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".databrickscfg"
	}
	return filepath.Join(home, ".databrickscfg")
}

// Validate checks settings that do not need a network round trip. The OpenAI key
// is checked by the report pipeline so the dashboard keeps working without it.
func (c *Config) Validate() error {
	if c.AITemperature < 0 || c.AITemperature > 2 {
		return fmt.Errorf("AI_TEMPERATURE must be between 0 and 2, got %v", c.AITemperature)
	}

	switch c.WarehouseDriver {
	case warehouse.DriverSnowflake:
		if c.SnowflakeAccount == "" || c.SnowflakeUser == "" {
			return fmt.Errorf("SNOWFLAKE_ACCOUNT and SNOWFLAKE_USER are required")
		}
		if c.PrivateKeyPath == "" && c.SnowflakePassword == "" {
			return fmt.Errorf("PRIVATE_KEY_PATH or SNOWFLAKE_PASSWORD is required")
		}
	case warehouse.DriverDatabricks:
		if c.DatabricksProfile == "" && (c.DatabricksHost == "" || c.DatabricksToken == "") {
			return fmt.Errorf("DATABRICKS_PROFILE or DATABRICKS_HOST and DATABRICKS_TOKEN are required")
		}
	case warehouse.DriverDuckDB:
		if c.DuckDBPath == "" {
			return fmt.Errorf("DUCKDB_PATH is required")
		}
	case warehouse.DriverPostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("POSTGRES_DSN is required")
		}
	default:
		return fmt.Errorf("WAREHOUSE_DRIVER must be one of snowflake, databricks, duckdb, postgres, got %q", c.WarehouseDriver)
	}
	return nil
}

// WarehouseSettings resolves the warehouse connection, reading the databricks profile when one is named
func (c *Config) WarehouseSettings() (warehouse.Settings, error) {
	s := warehouse.Settings{
		Driver: c.WarehouseDriver,
		Snowflake: warehouse.SnowflakeSettings{
			Account:        c.SnowflakeAccount,
			User:           c.SnowflakeUser,
			Password:       c.SnowflakePassword,
			Role:           c.SnowflakeRole,
			Warehouse:      c.SnowflakeWarehouse,
			Database:       c.SnowflakeDatabase,
			Schema:         c.SnowflakeSchema,
			PrivateKeyPath: c.PrivateKeyPath,
		},
		Databricks: warehouse.DatabricksSettings{
			Host:     c.DatabricksHost,
			Token:    c.DatabricksToken,
			HTTPPath: c.DatabricksHTTPPath,
			Catalog:  c.DatabricksCatalog,
			Schema:   c.DatabricksSchema,
		},
		DuckDBPath:  c.DuckDBPath,
		PostgresDSN: c.PostgresDSN,
	}

	if c.WarehouseDriver == warehouse.DriverDatabricks && c.DatabricksProfile != "" {
		registry, err := NewRegistry(c.DatabricksConfigFile)
		if err != nil {
			return warehouse.Settings{}, err
		}
		profile, err := registry.GetWarehouse(c.DatabricksProfile)
		if err != nil {
			return warehouse.Settings{}, err
		}
		s.Databricks = mergeDatabricks(s.Databricks, profile)
	}
	return s, nil
}

// explicit environment values win over the profile
func mergeDatabricks(env, profile warehouse.DatabricksSettings) warehouse.DatabricksSettings {
	pick := func(a, b string) string {
		if a != "" {
			return a
		}
		return b
	}
	return warehouse.DatabricksSettings{
		Host:     pick(env.Host, profile.Host),
		Token:    pick(env.Token, profile.Token),
		HTTPPath: pick(env.HTTPPath, profile.HTTPPath),
		Catalog:  pick(env.Catalog, profile.Catalog),
		Schema:   pick(env.Schema, profile.Schema),
	}
}

// ReviewRowCap is nil when every review row should reach the generator
func (c *Config) ReviewRowCap() *int {
	if c.MaxReviewRows < 0 {
		return nil
	}
	n := c.MaxReviewRows
	return &n
}

func (c *Config) Addr() string {
	return net.JoinHostPort(c.ServerHost, c.ServerPort)
}
