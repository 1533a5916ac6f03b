// Package runlog writes a per-run log file for pipeline commands.
//
// Every convert or ingest run gets its own file under the configured
// log directory, named after the subject (usually the player) plus a
// short run id. The policy mirrors the pipeline's failure handling:
// individual failures are recorded and the batch continues, and a run
// that recorded no failures deletes its log on close so operators only
// ever see logs worth reading.
package runlog

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is a zap logger bound to a single run's file.
type Log struct {
	*zap.Logger

	path     string
	file     *os.File
	failures atomic.Int64
}

// Open creates the log directory if needed and starts a new run log
// named "<subject>_<runid>.log".
func Open(dir, subject string) (*Log, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	runID := uuid.NewString()[:8]
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.log", subject, runID))

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open run log: %w", err)
	}

	l := &Log{path: path, file: file}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(file), zapcore.InfoLevel)

	l.Logger = zap.New(core, zap.Hooks(func(e zapcore.Entry) error {
		if e.Level >= zapcore.ErrorLevel {
			l.failures.Add(1)
		}
		return nil
	}))

	return l, nil
}

// Path returns the log file location.
func (l *Log) Path() string { return l.path }

// Failures reports how many error-level entries this run recorded.
func (l *Log) Failures() int { return int(l.failures.Load()) }

// Close syncs and closes the log. A run with no recorded failures
// removes its file and reports kept=false.
func (l *Log) Close() (kept bool, err error) {
	_ = l.Logger.Sync()
	if cerr := l.file.Close(); cerr != nil {
		return true, fmt.Errorf("close run log: %w", cerr)
	}
	if l.Failures() == 0 {
		if rerr := os.Remove(l.path); rerr != nil {
			return true, fmt.Errorf("remove clean run log: %w", rerr)
		}
		return false, nil
	}
	return true, nil
}
