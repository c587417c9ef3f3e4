package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	_ "github.com/databricks/databricks-sql-go"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/marcboeker/go-duckdb/v2"
	sf "github.com/snowflakedb/gosnowflake"
)

const (
	DriverSnowflake  = "snowflake"
	DriverDatabricks = "databricks"
	DriverDuckDB     = "duckdb"
	DriverPostgres   = "postgres"
)

type SnowflakeSettings struct {
	Account        string
	User           string
	Password       string
	Role           string
	Warehouse      string
	Database       string
	Schema         string
	PrivateKeyPath string
}

type DatabricksSettings struct {
	Host     string
	Token    string
	HTTPPath string
	Catalog  string
	Schema   string
}

// Settings select and configure one warehouse driver
type Settings struct {
	Driver      string
	Snowflake   SnowflakeSettings
	Databricks  DatabricksSettings
	DuckDBPath  string
	PostgresDSN string
}

// Open connects to the configured warehouse and checks the connection once
func Open(ctx context.Context, settings Settings) (*sql.DB, error) {
	driverName, dsn, err := DataSource(settings)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s connection: %w", settings.Driver, err)
	}
	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to %s: %w", settings.Driver, err)
	}
	return db, nil
}

// DataSource returns the database/sql driver name and DSN for settings
func DataSource(settings Settings) (string, string, error) {
	switch strings.ToLower(settings.Driver) {
	case DriverSnowflake:
		dsn, err := snowflakeDSN(settings.Snowflake)
		return "snowflake", dsn, err
	case DriverDatabricks:
		dsn, err := databricksDSN(settings.Databricks)
		return "databricks", dsn, err
	case DriverDuckDB:
		if settings.DuckDBPath == "" {
			return "", "", fmt.Errorf("DUCKDB_PATH is required for the duckdb warehouse")
		}
		return "duckdb", settings.DuckDBPath, nil
	case DriverPostgres:
		if settings.PostgresDSN == "" {
			return "", "", fmt.Errorf("POSTGRES_DSN is required for the postgres warehouse")
		}
		return "pgx", settings.PostgresDSN, nil
	default:
		return "", "", fmt.Errorf("unsupported warehouse driver %q", settings.Driver)
	}
}

func snowflakeDSN(s SnowflakeSettings) (string, error) {
	cfg := &sf.Config{
		Account:   s.Account,
		User:      s.User,
		Role:      s.Role,
		Warehouse: s.Warehouse,
		Database:  s.Database,
		Schema:    s.Schema,
	}

	if s.PrivateKeyPath != "" {
		key, err := LoadPrivateKey(s.PrivateKeyPath)
		if err != nil {
			return "", err
		}
		cfg.Authenticator = sf.AuthTypeJwt
		cfg.PrivateKey = key
	} else {
		cfg.Password = s.Password
	}

	dsn, err := sf.DSN(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to create snowflake DSN: %w", err)
	}
	return dsn, nil
}

func databricksDSN(s DatabricksSettings) (string, error) {
	if s.Host == "" || s.Token == "" || s.HTTPPath == "" {
		return "", fmt.Errorf("databricks host, token and http path are required")
	}

	host := strings.TrimSuffix(strings.TrimPrefix(s.Host, "https://"), "/")
	dsn := fmt.Sprintf("token:%s@%s%s", s.Token, host, s.HTTPPath)

	params := url.Values{}
	if s.Catalog != "" {
		params.Set("catalog", s.Catalog)
	}
	if s.Schema != "" {
		params.Set("schema", s.Schema)
	}
	if qp := params.Encode(); qp != "" {
		dsn = dsn + "?" + qp
	}
	return dsn, nil
}
