package config

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenDB connects to MySQL using the supplied configuration. The caller owns
// the returned handle; this package keeps no reference to it.
func OpenDB(cfg *Config, log *zap.Logger) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.DBUsername,
		cfg.DBPassword,
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBDatabase,
	)

	// Suppress SQL statement logs unless explicitly re-enabled via DEBUG_SQL.
	logLevel := logger.Warn
	if cfg.DebugSQL {
		logLevel = logger.Info
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.New(
			gormLogWriter{log: log.Named("gorm")},
			logger.Config{LogLevel: logLevel},
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

// gormLogWriter adapts zap to GORM's logger.Writer interface.
type gormLogWriter struct {
	log *zap.Logger
}

func (w gormLogWriter) Printf(format string, args ...interface{}) {
	w.log.Sugar().Infof(format, args...)
}
