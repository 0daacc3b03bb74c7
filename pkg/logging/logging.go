package logging

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	gormlogger "gorm.io/gorm/logger"

	"github.com/zappay/zappay-backend/pkg/config"
)

// EnvLevel overrides the level derived from the execution mode.
const EnvLevel = "LOG_LEVEL"

const slowQueryThreshold = 200 * time.Millisecond

// New builds the process logger. Development mode gets zap's development
// config at debug level; every other mode gets the production JSON config
// at info level. A non-empty level overrides either.
func New(mode config.Mode, level string) (*zap.Logger, error) {
	cfg := buildConfig(mode)

	if strings.TrimSpace(level) != "" {
		var parsed zapcore.Level
		if err := parsed.Set(level); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		cfg.Level = zap.NewAtomicLevelAt(parsed)
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger.With(zap.String("mode", modeName(mode))), nil
}

func buildConfig(mode config.Mode) zap.Config {
	if mode == config.ModeDevelopment {
		cfg := zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return cfg
	}

	cfg := zap.NewProductionConfig()
	cfg.Encoding = "json"
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableStacktrace = true
	return cfg
}

func modeName(mode config.Mode) string {
	if mode == "" {
		return "unset"
	}
	return string(mode)
}

// GormLogger returns the logger GORM reports SQL through. With SQL logging
// enabled, statements go to l at info level; otherwise only errors are
// reported.
func GormLogger(l *zap.Logger, sqlLogging bool) gormlogger.Interface {
	if l == nil {
		l = zap.NewNop()
	}

	level := gormlogger.Error
	if sqlLogging {
		level = gormlogger.Info
	}

	return gormlogger.New(
		zap.NewStdLog(l.Named("gorm").WithOptions(zap.AddCallerSkip(3))),
		gormlogger.Config{
			SlowThreshold:             slowQueryThreshold,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}
