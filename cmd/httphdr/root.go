package main

import (
	"io"
	"log/slog"
	"os"

	"braces.dev/errtrace"
	"github.com/spf13/cobra"

	"github.com/ghettovoice/httphdr/codec"
	"github.com/ghettovoice/httphdr/header"
	"github.com/ghettovoice/httphdr/internal/config"
	"github.com/ghettovoice/httphdr/internal/errorutil"
	"github.com/ghettovoice/httphdr/internal/log"
)

//go:generate go tool errtrace -w .

// app is the state shared by subcommands, it is filled before any subcommand runs.
type app struct {
	cfg *config.Config
	log *slog.Logger
	reg *codec.Registry
}

func newRootCmd() *cobra.Command {
	var (
		a        = new(app)
		envFile  string
		logFmt   string
		logLevel string
		version  string
		strict   bool
	)

	root := &cobra.Command{
		Use:           "httphdr",
		Short:         "Typed HTTP header fields and body codings",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(envFile)
			if err != nil {
				return errtrace.Wrap(err)
			}

			flags := cmd.Flags()
			if flags.Changed("log-format") {
				cfg.LogFormat = logFmt
			}
			if flags.Changed("log-level") {
				if cfg.LogLevel, err = log.ParseLevel(logLevel); err != nil {
					return errtrace.Wrap(err)
				}
			}
			if flags.Changed("http-version") {
				if cfg.Version, err = header.ParseVersion(version); err != nil {
					return errtrace.Wrap(err)
				}
			}
			if flags.Changed("strict") {
				cfg.Strict = strict
			}

			if a.log, err = cfg.Logger(cmd.ErrOrStderr()); err != nil {
				return errtrace.Wrap(err)
			}
			a.cfg = cfg
			a.reg = codec.NewRegistry(&codec.RegistryOptions{
				Codecs: append(cfg.Codecs(), codec.Chunked{
					SliceSize: cfg.ChunkSize,
					Parser:    cfg.ParserOptions(0, a.log),
				}),
				Logger: a.log,
			})
			a.log.Debug("config loaded", slog.Any("config", log.FmtValue(cfg, false)))
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&envFile, "env-file", ".env", "file with HTTPHDR_* variables, ignored when missing")
	pf.StringVar(&logFmt, "log-format", log.FormatConsole, "log format: console, dev, json or none")
	pf.StringVar(&logLevel, "log-level", "warn", "minimal log level")
	pf.StringVar(&version, "http-version", "HTTP/1.1", "protocol version: HTTP/1.0, HTTP/1.1, HTTP/2 or HTTP/3")
	pf.BoolVar(&strict, "strict", false, "fail on any invalid field")

	root.AddCommand(
		newParseCmd(a),
		newClassifyCmd(),
		newEncodeCmd(a),
		newDecodeCmd(a),
		newCodecsCmd(a),
	)
	return root
}

// openInput opens the file named by the first argument, or stdin when there is none or it is "-".
func openInput(cmd *cobra.Command, args []string) (io.ReadCloser, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return f, nil
}

func parseDirection(s string) (header.Direction, error) {
	switch s {
	case "":
		return 0, nil
	case "request", "req":
		return header.Request, nil
	case "response", "res", "resp":
		return header.Response, nil
	default:
		return 0, errtrace.Wrap(errorutil.NewInvalidArgumentError("direction %q", s))
	}
}
