package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

// Paths resolves every directory the pipeline writes to against a single
// base directory, so the stages (scan, normalize, mra, forecast) agree on
// layout without passing strings around.
type Paths struct {
	BaseDir       string
	DataDir       string
	NormalizedDir string
	DiagramsDir   string
	ForecastsDir  string
	LogsDir       string
}

// NewPaths builds a Paths rooted at baseDir. Relative configured directories
// are resolved against baseDir; absolute ones are kept as-is.
func NewPaths(baseDir string, cfg PathsConfig) *Paths {
	resolve := func(dir string) string {
		if filepath.IsAbs(dir) {
			return dir
		}
		return filepath.Join(baseDir, dir)
	}
	return &Paths{
		BaseDir:       baseDir,
		DataDir:       resolve(cfg.DataDir),
		NormalizedDir: resolve(cfg.NormalizedDir),
		DiagramsDir:   resolve(cfg.DiagramsDir),
		ForecastsDir:  resolve(cfg.ForecastsDir),
		LogsDir:       resolve(cfg.LogsDir),
	}
}

// EnsureDirectories creates every pipeline directory that does not exist yet.
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.DataDir, p.NormalizedDir, p.DiagramsDir, p.ForecastsDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// GetDataPath returns the path of a file in the scan output directory.
func (p *Paths) GetDataPath(name string) string {
	return filepath.Join(p.DataDir, name)
}

// GetNormalizedPath returns the path of a normalized CSV.
func (p *Paths) GetNormalizedPath(name string) string {
	return filepath.Join(p.NormalizedDir, name)
}

// GetDiagramPath returns the path of a rendered MRA diagram.
func (p *Paths) GetDiagramPath(name string) string {
	return filepath.Join(p.DiagramsDir, name)
}

// GetForecastPath returns the path of a rendered forecast plot.
func (p *Paths) GetForecastPath(name string) string {
	return filepath.Join(p.ForecastsDir, name)
}

// GetLogPath returns the path of a log file.
func (p *Paths) GetLogPath(name string) string {
	return filepath.Join(p.LogsDir, name)
}

var forbiddenFilenameChars = regexp.MustCompile(`[\\/:*?"<>|]+`)

// SanitizeFilename replaces characters that are invalid in Windows filenames
// with underscores. Product names end up in output filenames, and some carry
// slashes or colons.
func SanitizeFilename(name string) string {
	return forbiddenFilenameChars.ReplaceAllString(name, "_")
}
