package logging

import (
	"os"
	"path/filepath"

	"github.com/segmentio/ksuid"
	"go.uber.org/zap"
)

// The TUI owns the terminal, so log output goes to a file. Before Init
// runs (and in tests) the logger is a no-op.
var l = zap.NewNop().Sugar()

// DefaultPath returns the log file location under the user cache dir.
func DefaultPath() string {
	base, err := os.UserCacheDir()
	if err != nil {
		return "scpane.log"
	}
	return filepath.Join(base, "scpane", "scpane.log")
}

// Init builds the session logger writing to path. Every record carries a
// ksuid run id so one session's lines can be pulled out of a shared file.
func Init(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	logger, err := cfg.Build()
	if err != nil {
		return err
	}
	l = logger.Sugar().With("run", ksuid.New().String())
	return nil
}

// Sync flushes buffered records. Call on shutdown.
func Sync() {
	_ = l.Sync()
}

func Infof(format string, args ...any) {
	l.Infof(format, args...)
}

func Warnf(format string, args ...any) {
	l.Warnf(format, args...)
}

func Errorf(format string, args ...any) {
	l.Errorf(format, args...)
}

func Debugf(format string, args ...any) {
	l.Debugf(format, args...)
}
