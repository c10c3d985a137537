package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	DefaultDBPath   = "school_management.db"
	DefaultPlotPath = "predictions.png"
)

// Config 程序运行配置
type Config struct {
	Driver     string
	DBPath     string
	DSN        string
	PlotPath   string
	LogLevel   string
	StrictRefs bool
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		Driver:   DriverSQLite,
		DBPath:   DefaultDBPath,
		PlotPath: DefaultPlotPath,
		LogLevel: "warn",
	}
}

// Load 读取 .env 文件(可选)和环境变量
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return FromEnv(os.Getenv), nil
}

// FromEnv builds a Config from a lookup function, falling back to defaults.
func FromEnv(getenv func(string) string) *Config {
	cfg := Default()
	if v := getenv("SCHOOL_DB_DRIVER"); v != "" {
		cfg.Driver = strings.ToLower(v)
	}
	if v := getenv("SCHOOL_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	cfg.DSN = getenv("SCHOOL_DB_DSN")
	if v, ok := lookup(getenv, "SCHOOL_PLOT_PATH"); ok {
		cfg.PlotPath = v
	}
	if v := getenv("SCHOOL_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := getenv("SCHOOL_STRICT_REFS"); v != "" {
		strict, err := strconv.ParseBool(v)
		if err != nil {
			logrus.Warnf("忽略无效的 SCHOOL_STRICT_REFS=%q: %v", v, err)
		} else {
			cfg.StrictRefs = strict
		}
	}
	return cfg
}

// "none" disables the plot since an empty env value is indistinguishable from unset.
func lookup(getenv func(string) string, key string) (string, bool) {
	v := getenv(key)
	if v == "" {
		return "", false
	}
	if v == "none" {
		return "", true
	}
	return v, true
}

// Validate checks driver specific requirements.
func (c *Config) Validate() error {
	switch c.Driver {
	case DriverSQLite:
		if c.DBPath == "" {
			return errors.New("sqlite driver requires a database path")
		}
	case DriverPostgres:
		if c.DSN == "" {
			return errors.New("postgres driver requires SCHOOL_DB_DSN or --dsn")
		}
	default:
		return errors.New("unsupported driver: " + c.Driver + " (must be 'sqlite' or 'postgres')")
	}
	return nil
}

// SetupLogger 按配置设置 logrus 日志级别
func (c *Config) SetupLogger() error {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return err
	}
	logrus.SetLevel(level)
	return nil
}
