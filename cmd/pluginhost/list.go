package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newListCmd(h *host) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the functions published by the configured plugins",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := h.openManager()
			if err != nil {
				return err
			}
			defer m.Close()

			functions := m.Functions()
			if len(functions) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no functions loaded")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "FUNCTION\tPLUGIN\tHELP")
			for _, f := range functions {
				help := f.Help
				if help == "" {
					help = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", f.Name, f.Plugin, help)
			}
			return w.Flush()
		},
	}
}
