package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"github.com/toddlerya/schoolrecords/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// scores.student_id 的外键只声明不强制, 所以 foreign_keys 保持关闭
var sqlitePragmas = []string{
	"_pragma=busy_timeout(5000)",
	"_pragma=foreign_keys(0)",
	"_pragma=synchronous(NORMAL)",
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS students (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		age INTEGER,
		gender TEXT,
		grade TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS scores (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		student_id INTEGER NOT NULL,
		subject TEXT NOT NULL,
		score INTEGER,
		FOREIGN KEY (student_id) REFERENCES students (id)
	)`,
}

// postgres always enforces a declared foreign key, so scores.student_id stays a plain column there.
var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS students (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		age INTEGER,
		gender TEXT,
		grade TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS scores (
		id SERIAL PRIMARY KEY,
		student_id INTEGER NOT NULL,
		subject TEXT NOT NULL,
		score INTEGER
	)`,
}

func sqliteDSN(path string) string {
	return path + "?" + strings.Join(sqlitePragmas, "&")
}

func dialectorFor(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		return sqlite.Open(sqliteDSN(cfg.DBPath)), nil
	case config.DriverPostgres:
		return postgres.Open(cfg.DSN), nil
	}
	return nil, fmt.Errorf("unsupported driver: %s", cfg.Driver)
}

// gorm 的日志统一输出到 logrus
func newGormLogger() logger.Interface {
	level := logger.Silent
	switch {
	case logrus.IsLevelEnabled(logrus.DebugLevel):
		level = logger.Info
	case logrus.IsLevelEnabled(logrus.WarnLevel):
		level = logger.Warn
	}
	return logger.New(logrus.StandardLogger(), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
	})
}

// Open 建立数据库连接. 失败时记录日志并返回 nil, 调用方需要检查后再继续
func Open(cfg *config.Config) (*gorm.DB, error) {
	if err := cfg.Validate(); err != nil {
		logrus.Errorf("数据库配置无效: %s", err.Error())
		return nil, err
	}
	dialector, err := dialectorFor(cfg)
	if err != nil {
		logrus.Errorf("建立数据库连接失败: %s", err.Error())
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: newGormLogger()})
	if err != nil {
		logrus.Errorf("建立数据库连接失败: %s", err.Error())
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	pool, err := db.DB()
	if err != nil {
		logrus.Errorf("获取数据库连接池失败: %s", err.Error())
		return nil, fmt.Errorf("failed to get connection pool: %w", err)
	}
	// 单线程程序, 只保留一个连接
	pool.SetMaxOpenConns(1)
	if err := pool.Ping(); err != nil {
		logrus.Errorf("数据库不可用: %s", err.Error())
		_ = pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logrus.WithFields(logrus.Fields{"driver": cfg.Driver, "path": cfg.DBPath}).Info("数据库连接已建立")
	return db, nil
}

// EnsureSchema 创建 students 和 scores 表(已存在则跳过).
// 出错时只记录日志, 是否继续由调用方决定
func EnsureSchema(db *gorm.DB) error {
	statements := sqliteSchema
	if db.Dialector.Name() == config.DriverPostgres {
		statements = postgresSchema
	}
	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			logrus.Errorf("创建表失败: %s", err.Error())
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// Close 释放连接池
func Close(db *gorm.DB) {
	pool, err := db.DB()
	if err != nil {
		logrus.Warnf("获取数据库连接池失败: %s", err.Error())
		return
	}
	if err := pool.Close(); err != nil {
		logrus.Warnf("关闭数据库连接失败: %s", err.Error())
	}
}
