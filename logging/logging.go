// Package logging routes the process log and the HTTP access log to stderr
// and, optionally, to a daily rotated file.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"

	"github.com/high-horse/fingerprint-server/config"
)

const baseName = "fingerprint-server"

// Sink is the shared log destination.
type Sink struct {
	io.Writer
	rotator *rotatelogs.RotateLogs
}

// Setup points the standard logger at the sink described by cfg and
// returns it so other writers (the access log) can share it.
func Setup(cfg config.LogSettings) (*Sink, error) {
	sink := &Sink{Writer: os.Stderr}
	if cfg.Dir != "" {
		if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("logging: create %s: %w", cfg.Dir, err)
		}
		rl, err := rotatelogs.New(
			filepath.Join(cfg.Dir, baseName+".%Y%m%d.log"),
			rotatelogs.WithLinkName(filepath.Join(cfg.Dir, baseName+".log")),
			rotatelogs.WithMaxAge(cfg.MaxAge),
			rotatelogs.WithRotationTime(cfg.RotationTime),
		)
		if err != nil {
			return nil, fmt.Errorf("logging: rotate: %w", err)
		}
		sink.rotator = rl
		sink.Writer = io.MultiWriter(os.Stderr, rl)
	}
	log.SetOutput(sink)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	return sink, nil
}

// Close releases the rotated file, if any.
func (s *Sink) Close() error {
	if s.rotator == nil {
		return nil
	}
	return s.rotator.Close()
}

// CurrentFile is the file being written, or "" when logging to stderr only.
func (s *Sink) CurrentFile() string {
	if s.rotator == nil {
		return ""
	}
	return s.rotator.CurrentFileName()
}
