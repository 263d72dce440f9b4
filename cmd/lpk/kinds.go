package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dshills/lpk/internal/event/kind"
)

func newKindsCommand() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "kinds",
		Short: "List the event kinds by category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cats := kind.Categories()
			if category != "" {
				c, ok := kind.ParseCategory(category)
				if !ok {
					return fmt.Errorf("unknown category %q", category)
				}
				cats = []kind.Category{c}
			}

			head := color.New(color.FgCyan, color.Bold)
			muted := color.New(color.FgHiBlack)

			out := cmd.OutOrStdout()
			for _, c := range cats {
				head.Fprintln(out, c.String())
				for _, k := range c.Kinds() {
					if k.Reserved() {
						fmt.Fprintf(out, "  %-24s %s\n", k, muted.Sprint("reserved"))
						continue
					}
					fmt.Fprintf(out, "  %s\n", k)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "only list this category")
	return cmd
}
