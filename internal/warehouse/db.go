package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/marcboeker/go-duckdb/v2"
	_ "github.com/mattn/go-sqlite3"

	"github.com/askdata/askdata/internal/config"
)

type DBConfig struct {
	Driver          string
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	Params          string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxIdleTime time.Duration
	ConnMaxLifetime time.Duration
}

func DBConfigFrom(cfg config.DatabaseConfig) DBConfig {
	return DBConfig{
		Driver:          cfg.Driver,
		Host:            cfg.Host,
		Port:            cfg.Port,
		User:            cfg.User,
		Password:        cfg.Password,
		Name:            cfg.Name,
		Params:          cfg.Params,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxIdleTime: cfg.ConnMaxIdleTime,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	}
}

// Open returns a pinged connection pool. The caller owns it and must Close it.
func Open(ctx context.Context, cfg DBConfig) (*sql.DB, error) {
	dialect, err := DialectFor(cfg.Driver)
	if err != nil {
		return nil, err
	}
	dsn, err := BuildDSN(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(dialect.DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s db: %w", cfg.Driver, err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s db: %w", cfg.Driver, err)
	}

	return db, nil
}

func BuildDSN(cfg DBConfig) (string, error) {
	switch cfg.Driver {
	case config.DriverMySQL:
		if cfg.Host == "" {
			return "", fmt.Errorf("mysql host is required")
		}
		mc := mysql.NewConfig()
		mc.User = cfg.User
		mc.Passwd = cfg.Password
		mc.Net = "tcp"
		mc.Addr = hostPort(cfg.Host, cfg.Port, 3306)
		mc.DBName = cfg.Name
		mc.ParseTime = true
		dsn := mc.FormatDSN()
		if cfg.Params == "" {
			return dsn, nil
		}
		// DB_PARAMS may hold driver options such as tls, so let the driver
		// parse them instead of treating them as session variables.
		dsn += "&" + strings.TrimPrefix(cfg.Params, "?")
		if _, err := mysql.ParseDSN(dsn); err != nil {
			return "", fmt.Errorf("parse db params: %w", err)
		}
		return dsn, nil
	case config.DriverPostgres:
		if cfg.Host == "" {
			return "", fmt.Errorf("postgres host is required")
		}
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(cfg.User, cfg.Password),
			Host:     hostPort(cfg.Host, cfg.Port, 5432),
			Path:     "/" + cfg.Name,
			RawQuery: cfg.Params,
		}
		return u.String(), nil
	case config.DriverDuckDB:
		return joinParams(cfg.Name, cfg.Params), nil
	case config.DriverSQLite:
		if cfg.Name == "" {
			return "", fmt.Errorf("sqlite database path is required")
		}
		if !strings.HasPrefix(cfg.Name, "file:") && cfg.Params == "" {
			return cfg.Name, nil
		}
		name := cfg.Name
		if !strings.HasPrefix(name, "file:") {
			name = "file:" + name
		}
		return joinParams(name, cfg.Params), nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func hostPort(host string, port, fallback int) string {
	if port <= 0 {
		port = fallback
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}

func joinParams(name, params string) string {
	if params == "" {
		return name
	}
	return name + "?" + params
}
