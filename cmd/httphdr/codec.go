package main

import (
	"fmt"
	"io"
	"os"

	"braces.dev/errtrace"
	"github.com/spf13/cobra"

	"github.com/ghettovoice/httphdr/codec"
	"github.com/ghettovoice/httphdr/header"
	"github.com/ghettovoice/httphdr/internal/errorutil"
)

type codingFlags struct {
	codings []string
	headers string
}

func (f *codingFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&f.codings, "coding", "c", nil, "codings in the order they are applied, e.g. gzip,chunked")
	cmd.Flags().StringVarP(&f.headers, "headers", "H", "", "file with a field section to take Content-Encoding and Transfer-Encoding from")
	cmd.MarkFlagsMutuallyExclusive("coding", "headers")
}

// names returns codings from the flags or from the message fields.
func (f *codingFlags) names(a *app) ([]string, error) {
	if f.headers == "" {
		if len(f.codings) == 0 {
			return nil, errtrace.Wrap(errorutil.NewInvalidArgumentError("no codings, use --coding or --headers"))
		}
		return f.codings, nil
	}

	fd, err := os.Open(f.headers)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	defer fd.Close() //nolint:errcheck

	hs, err := header.NewParser(a.cfg.ParserOptions(0, a.log)).Parse(fd)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return errtrace.Wrap2(codec.MessageCodings(hs))
}

type codingFunc func(reg *codec.Registry, data []byte, names ...string) ([]byte, error)

func newCodingCmd(a *app, use, short string, fn codingFunc) *cobra.Command {
	var flags codingFlags
	cmd := &cobra.Command{
		Use:   use + " [file]",
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := flags.names(a)
			if err != nil {
				return errtrace.Wrap(err)
			}
			in, err := openInput(cmd, args)
			if err != nil {
				return errtrace.Wrap(err)
			}
			defer in.Close() //nolint:errcheck

			data, err := io.ReadAll(in)
			if err != nil {
				return errtrace.Wrap(err)
			}
			if data, err = fn(a.reg, data, names...); err != nil {
				return errtrace.Wrap(err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return errtrace.Wrap(err)
		},
	}
	flags.bind(cmd)
	return cmd
}

func newEncodeCmd(a *app) *cobra.Command {
	return newCodingCmd(a, "encode", "Apply codings to a body", codec.Encode)
}

func newDecodeCmd(a *app) *cobra.Command {
	return newCodingCmd(a, "decode", "Revert codings applied to a body", codec.Decode)
}

func newCodecsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "codecs",
		Short: "List known codings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, name := range a.reg.Names() {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), name); err != nil {
					return errtrace.Wrap(err)
				}
			}
			return nil
		},
	}
}
