package main

import (
	"fmt"
	"strings"

	"braces.dev/errtrace"
	"github.com/spf13/cobra"

	"github.com/ghettovoice/httphdr/category"
	"github.com/ghettovoice/httphdr/header"
	"github.com/ghettovoice/httphdr/internal/errorutil"
)

func newClassifyCmd() *cobra.Command {
	var cat string
	cmd := &cobra.Command{
		Use:   "classify name...",
		Short: "Print categories of field names or members of a category",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if cat != "" {
				c, ok := category.Parse(cat)
				if !ok {
					return errtrace.Wrap(errorutil.NewInvalidArgumentError("unknown category %q", cat))
				}
				_, err := fmt.Fprintln(out, strings.Join(c.Members(), "\n"))
				return errtrace.Wrap(err)
			}
			if len(args) == 0 {
				return errtrace.Wrap(errorutil.NewInvalidArgumentError("no field names"))
			}

			for _, name := range args {
				k, err := header.Lookup(name)
				if err != nil {
					return errtrace.Wrap(err)
				}
				kind := "extension"
				if header.IsBuiltin(k.Name()) {
					kind = "builtin"
				}
				if _, err := fmt.Fprintf(out, "%s\t%s\t%s\t%s\n", k.Name(), kind, k.Direction(), k.Categories()); err != nil {
					return errtrace.Wrap(err)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&cat, "category", "c", "", "list members of the category instead, e.g. HOP_BY_HOP")
	return cmd
}
