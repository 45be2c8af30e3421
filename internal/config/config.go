// Package config loads the command line tool settings from the environment.
package config

//go:generate go tool errtrace -w .

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"braces.dev/errtrace"
	"github.com/joho/godotenv"

	"github.com/ghettovoice/httphdr/codec"
	"github.com/ghettovoice/httphdr/header"
	"github.com/ghettovoice/httphdr/internal/errorutil"
	"github.com/ghettovoice/httphdr/internal/log"
)

// EnvPrefix prefixes every environment variable read by [Parse].
const EnvPrefix = "HTTPHDR_"

// Config holds the tool settings.
type Config struct {
	// LogFormat is one of console, dev, json or none.
	LogFormat string
	LogLevel  slog.Level
	// Version is the protocol version used to parse and render fields.
	Version header.Version
	// Strict makes field section parsing fail on invalid fields.
	Strict bool

	ChunkSize        int
	GZipLevel        int
	DeflateLevel     int
	CompressMaxCodes int
}

// Default returns the settings used when nothing is configured.
func Default() *Config {
	return &Config{
		LogFormat: log.FormatConsole,
		LogLevel:  slog.LevelWarn,
		Version:   header.HTTP11,
		ChunkSize: codec.DefaultSliceSize,
	}
}

// Load reads envFile into the process environment when it exists, then parses the environment.
// Variables already set in the environment take precedence over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, errtrace.Wrap(err)
		}
	}
	return errtrace.Wrap2(Parse(os.Getenv))
}

// Parse builds the settings from variables returned by getenv.
// Unset variables keep the defaults of [Default].
func Parse(getenv func(string) string) (*Config, error) {
	cfg := Default()
	env := func(key string) string { return strings.TrimSpace(getenv(EnvPrefix + key)) }

	var errs []error
	if v := env("LOG_FORMAT"); v != "" {
		cfg.LogFormat = strings.ToLower(v)
	}
	if v := env("LOG_LEVEL"); v != "" {
		lvl, err := log.ParseLevel(v)
		errs = append(errs, envErr("LOG_LEVEL", err))
		cfg.LogLevel = lvl
	}
	if v := env("HTTP_VERSION"); v != "" {
		ver, err := header.ParseVersion(v)
		errs = append(errs, envErr("HTTP_VERSION", err))
		cfg.Version = ver
	}
	if v := env("STRICT"); v != "" {
		b, err := strconv.ParseBool(v)
		errs = append(errs, envErr("STRICT", err))
		cfg.Strict = b
	}

	for _, p := range []struct {
		key string
		dst *int
	}{
		{"CHUNK_SIZE", &cfg.ChunkSize},
		{"GZIP_LEVEL", &cfg.GZipLevel},
		{"DEFLATE_LEVEL", &cfg.DeflateLevel},
		{"COMPRESS_MAX_CODES", &cfg.CompressMaxCodes},
	} {
		v := env(p.key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, envErr(p.key, err))
			continue
		}
		*p.dst = n
	}

	if err := errorutil.JoinPrefix("parse config:", errs...); err != nil {
		return nil, errtrace.Wrap(err)
	}
	return cfg, nil
}

func envErr(key string, err error) error {
	if err == nil {
		return nil
	}
	return errorutil.NewInvalidArgumentError("%s%s: %s", EnvPrefix, key, err) //errtrace:skip
}

// Logger builds the logger writing to w.
func (c *Config) Logger(w io.Writer) (*slog.Logger, error) {
	return errtrace.Wrap2(log.New(w, c.LogFormat, c.LogLevel))
}

// Codecs returns built-in codecs with the configured settings.
func (c *Config) Codecs() []codec.Codec {
	return []codec.Codec{
		codec.Chunked{SliceSize: c.ChunkSize},
		codec.GZip{Level: c.GZipLevel},
		codec.Deflate{Level: c.DeflateLevel},
		codec.Compress{MaxCodes: c.CompressMaxCodes},
	}
}

// ParserOptions returns field section parser options.
func (c *Config) ParserOptions(dir header.Direction, logger *slog.Logger) *header.ParserOptions {
	return &header.ParserOptions{
		Direction: dir,
		Version:   c.Version,
		Strict:    c.Strict,
		Logger:    logger,
	}
}
