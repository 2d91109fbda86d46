package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

func (a *app) newFillCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fill PATTERN [VALUE...]",
		Short: "Substitute values into a pattern",
		Long: `Substitute values into a pattern, the inverse of extract.

Values are given positionally, one per placeholder, or by identifier with
--set name=value.`,
		Args: cobra.MinimumNArgs(1),
		RunE: a.runFill,
	}
	cmd.Flags().StringArray("set", nil, "Value for a named placeholder (name=value, repeatable)")
	return cmd
}

func (a *app) runFill(cmd *cobra.Command, args []string) error {
	p, err := a.compile(args[0])
	if err != nil {
		return err
	}
	sets, err := cmd.Flags().GetStringArray("set")
	if err != nil {
		return err
	}
	if len(sets) > 0 && len(args) > 1 {
		return fmt.Errorf("fill: use either positional values or --set, not both")
	}

	var s string
	if len(sets) > 0 {
		values := make(map[string]string, len(sets))
		for _, kv := range sets {
			name, value, ok := strings.Cut(kv, "=")
			if !ok {
				return fmt.Errorf("fill: --set %q: expected name=value", kv)
			}
			values[name] = value
		}
		s, err = p.FillMap(values)
	} else {
		s, err = p.Fill(args[1:]...)
	}
	if err != nil {
		return err
	}

	return a.printer(cmd).emit(map[string]string{"result": s}, func(w io.Writer) error {
		_, err := fmt.Fprintln(w, s)
		return err
	})
}
