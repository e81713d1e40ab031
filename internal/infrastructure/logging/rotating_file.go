package logging

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const defaultMaxSizeMB = 100

// FileConfig describes the plain-text sink behind LOG_FILE.
type FileConfig struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	// RotateOnStart shifts a non-empty file left by a previous run to
	// Path.1 before the first write.
	RotateOnStart bool
}

// RotatingFile appends to Path. When a write would take it past MaxSizeMB
// the file is shifted to Path.1, Path.1 to Path.2 and so on, keeping at most
// MaxBackups old files. With no backups the file is simply started over.
type RotatingFile struct {
	cfg   FileConfig
	limit int64

	mu   sync.Mutex
	file *os.File
	size int64
}

func NewRotatingFile(cfg FileConfig) (*RotatingFile, error) {
	if strings.TrimSpace(cfg.Path) == "" {
		return nil, errors.New("log file path is required")
	}
	if cfg.MaxSizeMB <= 0 {
		cfg.MaxSizeMB = defaultMaxSizeMB
	}
	cfg.MaxBackups = max(cfg.MaxBackups, 0)
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	f := &RotatingFile{cfg: cfg, limit: int64(cfg.MaxSizeMB) << 20}
	if cfg.RotateOnStart {
		if info, err := os.Stat(cfg.Path); err == nil && info.Size() > 0 {
			if err := f.shift(); err != nil {
				return nil, err
			}
		}
	}
	if err := f.reopen(os.O_APPEND); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *RotatingFile) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.file == nil {
		return 0, os.ErrClosed
	}
	if f.size > 0 && f.size+int64(len(p)) > f.limit {
		if err := f.file.Close(); err != nil {
			return 0, err
		}
		f.file = nil
		if err := f.shift(); err != nil {
			return 0, err
		}
		if err := f.reopen(os.O_TRUNC); err != nil {
			return 0, err
		}
	}
	n, err := f.file.Write(p)
	f.size += int64(n)
	return n, err
}

func (f *RotatingFile) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.file == nil {
		return nil
	}
	err := f.file.Close()
	f.file = nil
	return err
}

// shift moves the current file into the backup chain, dropping the oldest.
func (f *RotatingFile) shift() error {
	if f.cfg.MaxBackups == 0 {
		return ignoreMissing(os.Remove(f.cfg.Path))
	}
	for i := f.cfg.MaxBackups; i > 1; i-- {
		if err := ignoreMissing(os.Rename(f.backup(i-1), f.backup(i))); err != nil {
			return err
		}
	}
	return ignoreMissing(os.Rename(f.cfg.Path, f.backup(1)))
}

func (f *RotatingFile) reopen(mode int) error {
	file, err := os.OpenFile(f.cfg.Path, os.O_CREATE|os.O_WRONLY|mode, 0o644)
	if err != nil {
		return err
	}
	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return err
	}
	f.file = file
	f.size = info.Size()
	return nil
}

func (f *RotatingFile) backup(n int) string {
	return fmt.Sprintf("%s.%d", f.cfg.Path, n)
}

func ignoreMissing(err error) error {
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
