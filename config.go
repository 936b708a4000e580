package glyphhost

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables read by ConfigFromEnv.
const (
	EnvWidth       = "GLYPHHOST_WIDTH"
	EnvHeight      = "GLYPHHOST_HEIGHT"
	EnvFontDir     = "GLYPHHOST_FONT_DIR"
	EnvAssetDir    = "GLYPHHOST_ASSET_DIR"
	EnvConcurrency = "GLYPHHOST_CONCURRENCY"
	EnvLogLevel    = "GLYPHHOST_LOG_LEVEL"
	EnvAtlasWidth  = "GLYPHHOST_ATLAS_WIDTH"
	EnvAtlasHeight = "GLYPHHOST_ATLAS_HEIGHT"
)

// DefaultEnvFiles are the dotenv files ConfigFromEnv loads when none are
// given. Earlier files win.
var DefaultEnvFiles = []string{".env.local", ".env"}

// Config holds host settings that usually come from the environment.
// Zero fields keep the defaults of the component they configure.
type Config struct {
	Width       int
	Height      int
	FontDir     string // extra fonts, registered at startup
	AssetDir    string // root served to file requests
	Concurrency int
	LogLevel    slog.Level
	AtlasWidth  int
	AtlasHeight int
}

// ConfigFromEnv loads the given dotenv files, or DefaultEnvFiles, into the
// process environment and reads Config from it. Missing files are skipped.
// Variables already set in the environment are not overridden.
func ConfigFromEnv(files ...string) (Config, error) {
	if len(files) == 0 {
		files = DefaultEnvFiles
	}
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return Config{}, fmt.Errorf("glyphhost: load %s: %w", f, err)
		}
	}
	return configFrom(os.LookupEnv)
}

func configFrom(lookup func(string) (string, bool)) (Config, error) {
	var c Config
	var errs []error
	intVar := func(name string, dst *int) {
		v, ok := lookup(name)
		if !ok || v == "" {
			return
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			errs = append(errs, fmt.Errorf("glyphhost: %s=%q is not a non-negative integer", name, v))
			return
		}
		*dst = n
	}
	intVar(EnvWidth, &c.Width)
	intVar(EnvHeight, &c.Height)
	intVar(EnvConcurrency, &c.Concurrency)
	intVar(EnvAtlasWidth, &c.AtlasWidth)
	intVar(EnvAtlasHeight, &c.AtlasHeight)
	c.FontDir, _ = lookup(EnvFontDir)
	c.AssetDir, _ = lookup(EnvAssetDir)
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		if err := c.LogLevel.UnmarshalText([]byte(v)); err != nil {
			errs = append(errs, fmt.Errorf("glyphhost: %s: %w", EnvLogLevel, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}
	return c, nil
}
