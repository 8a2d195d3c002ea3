// Package config holds the emulator's run-time configuration as a flat
// struct, built either from CLI flags or from Default(), in the
// teacher's no-framework style (flags read through urfave/cli, no
// viper/env config libraries).
package config

import (
	"log/slog"
	"strings"

	"github.com/urfave/cli"
)

// Config is every knob cmd/zigpod exposes.
type Config struct {
	DiskPath    string
	Headless    bool
	Frames      int
	CPUFreqMHz  uint32
	SDRAMMB     int
	RemapOnBoot bool
	LogLevel    slog.Level
}

// Default returns the configuration used when no flags are given: a
// headless-capable single-frame run against an 80MHz core and 32MiB of
// SDRAM, matching the PP5021C's real clock/memory envelope.
func Default() Config {
	return Config{
		Frames:     1,
		CPUFreqMHz: 80,
		SDRAMMB:    32,
		LogLevel:   slog.LevelInfo,
	}
}

// FromFlags builds a Config from a urfave/cli context, falling back to
// Default()'s values for any flag left unset.
func FromFlags(c *cli.Context) Config {
	cfg := Default()
	cfg.DiskPath = c.String("disk")
	cfg.Headless = c.Bool("headless")
	cfg.Frames = c.Int("frames")
	if mhz := c.Int("mhz"); mhz > 0 {
		cfg.CPUFreqMHz = uint32(mhz)
	}
	if mb := c.Int("sdram-mb"); mb > 0 {
		cfg.SDRAMMB = mb
	}
	cfg.RemapOnBoot = c.Bool("remap")
	cfg.LogLevel = ParseLogLevel(c.String("log-level"))
	return cfg
}

// ParseLogLevel maps a case-insensitive level name to a slog.Level,
// defaulting to Info on an unrecognized value.
func ParseLogLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
