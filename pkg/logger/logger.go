package logger

import (
	"fmt"

	"github.com/example/retailshop/pkg/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New builds a production zap logger from cfg. When cfg.File.Filename is set the
// entries are also written as JSON to a rotated file.
func New(cfg config.LogConfig) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()

	if cfg.Level != "" {
		level, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		zcfg.Level = zap.NewAtomicLevelAt(level)
	}
	if cfg.Encoding != "" {
		zcfg.Encoding = cfg.Encoding
	}
	if len(cfg.OutputPaths) > 0 {
		zcfg.OutputPaths = cfg.OutputPaths
	}

	var opts []zap.Option
	if cfg.File.Filename != "" {
		rot := &lumberjack.Logger{
			Filename:   cfg.File.Filename,
			MaxSize:    cfg.File.MaxSizeMB,
			MaxBackups: cfg.File.MaxBackups,
			MaxAge:     cfg.File.MaxAgeDays,
		}
		fileCore := zapcore.NewCore(
			zapcore.NewJSONEncoder(zcfg.EncoderConfig),
			zapcore.AddSync(rot),
			zcfg.Level,
		)
		opts = append(opts, zap.WrapCore(func(core zapcore.Core) zapcore.Core {
			return zapcore.NewTee(core, fileCore)
		}))
	}

	logger, err := zcfg.Build(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger, nil
}
