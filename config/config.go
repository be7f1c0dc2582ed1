// Package config loads photopipe settings from a TOML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

const (
	defaultConfigPath    = "~/.config/photopipe/config.toml"
	defaultResizeTool    = "resize"
	defaultExifTool      = "exiftool"
	defaultOutputDirName = "photopipe"
	defaultLogLevel      = "info"
	defaultLogFormat     = "text"
)

// Placeholders accepted in Tools.ResizeArgs.
const (
	InputPlaceholder  = "{input}"
	OutputPlaceholder = "{output}"
)

var defaultResizeArgs = []string{"-i", InputPlaceholder, "-o", OutputPlaceholder}

var defaultAlbumExtensions = []string{"jpg", "jpeg", "png", "gif", "bmp", "nef", "cr2", "arw"}

// Tools configures how the bundled executables are found and invoked.
type Tools struct {
	// ResourceDir overrides the packaged/development resource lookup.
	ResourceDir string   `toml:"resource_dir"`
	Resize      string   `toml:"resize"`
	ExifTool    string   `toml:"exiftool"`
	ResizeArgs  []string `toml:"resize_args"`
}

// Processing configures the RAW preview pipeline.
type Processing struct {
	OutputDirName string `toml:"output_dir_name"`
	Workers       int    `toml:"workers"` // 0 = auto
}

// Organize configures the album router.
type Organize struct {
	Extensions []string `toml:"extensions"`
}

// Logging contains configuration for log output.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config encapsulates all configuration values for photopipe.
type Config struct {
	Tools      Tools      `toml:"tools"`
	Processing Processing `toml:"processing"`
	Organize   Organize   `toml:"organize"`
	Logging    Logging    `toml:"logging"`
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Tools: Tools{
			Resize:     defaultResizeTool,
			ExifTool:   defaultExifTool,
			ResizeArgs: append([]string(nil), defaultResizeArgs...),
		},
		Processing: Processing{
			OutputDirName: defaultOutputDirName,
		},
		Organize: Organize{
			Extensions: append([]string(nil), defaultAlbumExtensions...),
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. A missing file yields
// the defaults; the returned bool reports whether a file was read.
func Load(path string) (*Config, bool, error) {
	cfg := Default()

	resolved, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, false, err
	}

	if exists {
		file, err := os.Open(resolved)
		if err != nil {
			return nil, false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		if err := toml.NewDecoder(file).Decode(&cfg); err != nil {
			return nil, false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, false, err
	}
	return &cfg, exists, nil
}

// ResizeArgsFor expands the resize argument template for one run.
func (c *Config) ResizeArgsFor(inputDir, outputDir string) []string {
	args := make([]string, len(c.Tools.ResizeArgs))
	for i, arg := range c.Tools.ResizeArgs {
		arg = strings.ReplaceAll(arg, InputPlaceholder, inputDir)
		args[i] = strings.ReplaceAll(arg, OutputPlaceholder, outputDir)
	}
	return args
}

// OutputDir is the pipeline's working directory under the system temp location.
func (c *Config) OutputDir() string {
	return filepath.Join(os.TempDir(), c.Processing.OutputDirName)
}

func (c *Config) normalize() error {
	var err error
	if c.Tools.ResourceDir, err = expandPath(strings.TrimSpace(c.Tools.ResourceDir)); err != nil {
		return fmt.Errorf("tools.resource_dir: %w", err)
	}
	c.Tools.Resize = strings.TrimSpace(c.Tools.Resize)
	if c.Tools.Resize == "" {
		c.Tools.Resize = defaultResizeTool
	}
	c.Tools.ExifTool = strings.TrimSpace(c.Tools.ExifTool)
	if c.Tools.ExifTool == "" {
		c.Tools.ExifTool = defaultExifTool
	}
	if len(c.Tools.ResizeArgs) == 0 {
		c.Tools.ResizeArgs = append([]string(nil), defaultResizeArgs...)
	}

	c.Processing.OutputDirName = strings.TrimSpace(c.Processing.OutputDirName)
	if c.Processing.OutputDirName == "" {
		c.Processing.OutputDirName = defaultOutputDirName
	}

	exts := make([]string, 0, len(c.Organize.Extensions))
	for _, ext := range c.Organize.Extensions {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			exts = append(exts, ext)
		}
	}
	if len(exts) == 0 {
		exts = append(exts, defaultAlbumExtensions...)
	}
	c.Organize.Extensions = exts

	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	return nil
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if c.Processing.Workers < 0 {
		return errors.New("processing.workers must be >= 0")
	}
	if strings.ContainsAny(c.Processing.OutputDirName, `/\`) {
		return fmt.Errorf("processing.output_dir_name must be a single directory name, got %q", c.Processing.OutputDirName)
	}
	var hasInput, hasOutput bool
	for _, arg := range c.Tools.ResizeArgs {
		hasInput = hasInput || strings.Contains(arg, InputPlaceholder)
		hasOutput = hasOutput || strings.Contains(arg, OutputPlaceholder)
	}
	if !hasInput || !hasOutput {
		return fmt.Errorf("tools.resize_args must reference both %s and %s", InputPlaceholder, OutputPlaceholder)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if strings.TrimSpace(path) == "" {
		path = defaultConfigPath
	}
	expanded, err := expandPath(path)
	if err != nil {
		return "", false, err
	}
	info, err := os.Stat(expanded)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return expanded, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	if info.IsDir() {
		return "", false, fmt.Errorf("config path %s is a directory", expanded)
	}
	return expanded, true, nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}
