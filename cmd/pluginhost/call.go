package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/snowmerak/nativeplug/lib/plugin"
	"github.com/spf13/cobra"
)

const (
	outputText = "text"
	outputJSON = "json"
)

func newCallCmd(h *host) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "call <function> [number...]",
		Short: "Call a plugin function",
		Long: `Load the configured plugins and call one function with numeric
arguments. The result is printed as space separated numbers, or as a JSON
list with --output json. JSON cannot carry NaN or infinities; use text
output for results that may hold them.

Example:
  pluginhost call sum 1 2 --plugin ./sum.so`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != outputText && output != outputJSON {
				return fmt.Errorf("invalid output %q (text or json)", output)
			}

			values, err := parseValues(args[1:])
			if err != nil {
				return err
			}

			m, err := h.openManager()
			if err != nil {
				return err
			}
			defer m.Close()

			out, err := m.Call(h.context(), args[0], values)
			if err != nil {
				return err
			}
			return writeValues(cmd.OutOrStdout(), out, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputText, "output format: text or json")
	return cmd
}

func parseValues(args []string) ([]plugin.Value, error) {
	values := make([]plugin.Value, len(args))
	for i, arg := range args {
		n, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %q is not a number", i+1, arg)
		}
		values[i] = plugin.Value{Number: n}
	}
	return values, nil
}

func writeValues(w io.Writer, values []plugin.Value, output string) error {
	if output == outputJSON {
		data, err := plugin.MarshalValuesJSON(values)
		if err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = v.String()
	}
	_, err := fmt.Fprintln(w, strings.Join(parts, " "))
	return err
}
