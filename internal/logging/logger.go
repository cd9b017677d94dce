package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ParseLevel maps a config level name to a zap level; unknown names mean info.
func ParseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// New builds a console logger. Logs go to logFile when set, otherwise to stderr so
// they never mix with command output on stdout. The returned func syncs the logger and
// releases the log file.
func New(level, logFile string) (*zap.Logger, func(), error) {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderConfig.ConsoleSeparator = " | "

	sink := zapcore.AddSync(os.Stderr)
	closeSink := func() {}
	if logFile != "" {
		if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
			return nil, nil, fmt.Errorf("mkdir log dir: %w", err)
		}
		ws, closeFile, err := zap.Open(logFile)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		sink, closeSink = ws, closeFile
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), sink, ParseLevel(level))
	log := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	return log, func() {
		_ = log.Sync()
		closeSink()
	}, nil
}
