package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newLibrariesCmd(h *host) *cobra.Command {
	return &cobra.Command{
		Use:   "libraries",
		Short: "Show loaded libraries and the functions each one backs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := h.openManager()
			if err != nil {
				return err
			}
			defer m.Close()

			out := cmd.OutOrStdout()
			libs := m.Libraries()
			if len(libs) == 0 {
				fmt.Fprintln(out, "no libraries loaded")
				return nil
			}

			for _, lib := range libs {
				fmt.Fprintf(out, "%s %s\n", lib.ID, lib.Path)
				if lib.Name != "" {
					fmt.Fprintf(out, "  plugin:    %s %s\n", lib.Name, lib.Version)
				}
				fmt.Fprintf(out, "  refs:      %d\n", lib.Refs)
				fmt.Fprintf(out, "  functions: %s\n", strings.Join(lib.Functions, ", "))
			}
			return nil
		},
	}
}
