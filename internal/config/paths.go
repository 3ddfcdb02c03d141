package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains the directories the service writes to.
type Paths struct {
	ExecutableDir string
	LogsDir       string
	ScratchDir    string
}

// GetPaths returns paths relative to the executable location, never the
// current working directory.
func GetPaths() (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %w", err)
	}

	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable symlinks: %w", err)
	}

	return PathsFor(filepath.Dir(exe)), nil
}

// PathsFor lays the service directories out under base.
func PathsFor(base string) *Paths {
	return &Paths{
		ExecutableDir: base,
		LogsDir:       filepath.Join(base, "logs"),
		ScratchDir:    filepath.Join(os.TempDir(), DefaultScratchSubdir),
	}
}

// Resolve returns path unchanged when absolute, otherwise joined to the
// executable directory.
func (p *Paths) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(p.ExecutableDir, path)
}

// WithConfig applies the configured scratch directory.
func (p *Paths) WithConfig(cfg *Config) *Paths {
	out := *p
	if cfg != nil && cfg.Analysis.ScratchDir != "" {
		out.ScratchDir = p.Resolve(cfg.Analysis.ScratchDir)
	}
	return &out
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.LogsDir, p.ScratchDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// LogPathResolution logs the resolved directories.
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("Path resolution summary",
		slog.Group("directories",
			slog.String("executable", p.ExecutableDir),
			slog.String("logs", p.LogsDir),
			slog.String("scratch", p.ScratchDir),
		))
}
