package main

import (
	"fmt"

	"braces.dev/errtrace"
	"github.com/spf13/cobra"

	"github.com/ghettovoice/httphdr/header"
)

func newParseCmd(a *app) *cobra.Command {
	var (
		dir    string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse a field section and print typed fields",
		Long: `Parse reads "Name: value" lines until an empty line or EOF
and prints every field with its direction and categories.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := parseDirection(dir)
			if err != nil {
				return errtrace.Wrap(err)
			}
			in, err := openInput(cmd, args)
			if err != nil {
				return errtrace.Wrap(err)
			}
			defer in.Close() //nolint:errcheck

			hs, err := header.NewParser(a.cfg.ParserOptions(d, a.log)).Parse(in)
			if err != nil {
				return errtrace.Wrap(err)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				data, err := hs.MarshalJSON()
				if err != nil {
					return errtrace.Wrap(err)
				}
				_, err = fmt.Fprintf(out, "%s\n", data)
				return errtrace.Wrap(err)
			}

			opts := &header.RenderOptions{Version: a.cfg.Version}
			for _, hdr := range hs.All() {
				k := hdr.Key()
				if _, err := fmt.Fprintf(out, "%s: %s\t[%s %s]\n",
					hdr.Name(), hdr.RenderValue(opts), k.Direction(), k.Categories(),
				); err != nil {
					return errtrace.Wrap(err)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&dir, "direction", "d", "", "message direction: request or response")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print fields as JSON")
	return cmd
}
