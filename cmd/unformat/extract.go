package main

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/unformat/pkg/unformat"
	"github.com/randalmurphal/unformat/pkg/unformat/convert"
	"github.com/randalmurphal/unformat/pkg/unformat/observability"
	"github.com/randalmurphal/unformat/pkg/unformat/store"
)

// matchResult is one line of `match` output.
type matchResult struct {
	Input string `json:"input" yaml:"input"`
	Match bool   `json:"match" yaml:"match"`
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

func (a *app) newMatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "match PATTERN [CANDIDATE...]",
		Short: "Report which candidates match a pattern",
		Long: `Report which candidates match a pattern.

Exits with status 1 when any candidate does not match.`,
		Args: cobra.MinimumNArgs(1),
		RunE: a.runMatch,
	}
}

func (a *app) runMatch(cmd *cobra.Command, args []string) error {
	p, err := a.compile(args[0])
	if err != nil {
		return err
	}
	inputs, err := candidates(cmd, args[1:])
	if err != nil {
		return err
	}

	outcomes := a.instrument(p).UnformatEach(cmd.Context(), inputs)
	results := make([]matchResult, len(outcomes))
	failed := 0
	for i, o := range outcomes {
		results[i] = matchResult{Input: inputs[i], Match: o.Err == nil}
		if o.Err != nil {
			results[i].Error = o.Err.Error()
			failed++
		}
	}

	out := a.printer(cmd)
	err = out.emit(results, func(w io.Writer) error {
		for _, r := range results {
			if r.Match {
				fmt.Fprintf(w, "%s %s\n", out.paint(okStyle, "match"), r.Input)
			} else {
				fmt.Fprintf(w, "%s %s %s\n", out.paint(failStyle, "no match"), r.Input, out.paint(dimStyle, r.Error))
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	if failed > 0 {
		return &exitError{code: exitFailure}
	}
	return nil
}

// extraction is one candidate's result in `extract` output. Values is a
// list for positional patterns and a map for named ones.
type extraction struct {
	Input  string `json:"input" yaml:"input"`
	Values any    `json:"values,omitempty" yaml:"values,omitempty"`
	Error  string `json:"error,omitempty" yaml:"error,omitempty"`
}

func (a *app) newExtractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract PATTERN [CANDIDATE...]",
		Short: "Extract placeholder values from candidates",
		Long: `Extract placeholder values from candidates, one result per candidate.

By default the first candidate that does not match stops the run. With
--keep-going every candidate is reported. With --typed each value is
converted according to its placeholder's format hint (int, float, bool,
complex, str, bytes, bytearray). With --store the run is recorded and can
be reviewed with 'unformat history'.`,
		Args: cobra.MinimumNArgs(1),
		RunE: a.runExtract,
	}
	cmd.Flags().Bool("typed", false, "Convert values using format hints")
	cmd.Flags().Bool("keep-going", false, "Report every candidate instead of stopping at the first mismatch")
	return cmd
}

func (a *app) runExtract(cmd *cobra.Command, args []string) error {
	p, err := a.compile(args[0])
	if err != nil {
		return err
	}
	inputs, err := candidates(cmd, args[1:])
	if err != nil {
		return err
	}
	keepGoing, err := cmd.Flags().GetBool("keep-going")
	if err != nil {
		return err
	}

	registry := convert.Default()
	if a.settings.Typed {
		if err := registry.Validate(p.Formats()); err != nil {
			return err
		}
	}

	// rows[i] holds the captures of inputs[i]; errs[i] is set instead when
	// it did not match.
	inst := a.instrument(p)
	rows := make([][]string, len(inputs))
	errs := make([]error, len(inputs))
	if a.settings.FailFast && !keepGoing {
		if _, rows, err = inst.UnformatAll(cmd.Context(), inputs); err != nil {
			return err
		}
	} else {
		for i, o := range inst.UnformatEach(cmd.Context(), inputs) {
			if o.Err != nil {
				errs[i] = o.Err
				continue
			}
			rows[i] = o.Values.Slice()
		}
	}

	results := make([]extraction, len(inputs))
	for i := range inputs {
		results[i].Input = inputs[i]
		if errs[i] != nil {
			results[i].Error = errs[i].Error()
			continue
		}
		values, err := a.values(registry, p, rows[i])
		if err != nil {
			return fmt.Errorf("candidate %d: %w", i, err)
		}
		results[i].Values = values
	}

	if err := a.record(cmd, p, inputs, rows, errs); err != nil {
		return err
	}

	out := a.printer(cmd)
	return out.emit(results, func(w io.Writer) error {
		for _, r := range results {
			if r.Error != "" {
				fmt.Fprintf(w, "%s %s %s\n", out.paint(failStyle, "no match"), r.Input, out.paint(dimStyle, r.Error))
				continue
			}
			fmt.Fprintln(w, formatValues(out, p, r.Values))
		}
		return nil
	})
}

// values shapes one row for output: typed when --typed is set, keyed by
// identifier for named patterns.
func (a *app) values(registry *convert.Registry, p unformat.Unformatter, row []string) (any, error) {
	named := p.Discipline() == unformat.DisciplineNamed
	ids := p.Identifiers()
	if !a.settings.Typed {
		if !named {
			return row, nil
		}
		m := make(map[string]string, len(row))
		for i, id := range ids {
			m[id] = row[i]
		}
		return m, nil
	}

	typed, err := registry.ConvertStrings(p.Formats(), row)
	if err != nil || !named {
		return typed, err
	}
	m := make(map[string]any, len(typed))
	for i, id := range ids {
		m[id] = typed[i]
	}
	return m, nil
}

// formatValues renders one result as tab-separated values, prefixed by
// identifiers for named patterns.
func formatValues(out *printer, p unformat.Unformatter, values any) string {
	var parts []string
	switch vals := values.(type) {
	case map[string]string:
		for _, id := range p.Identifiers() {
			parts = append(parts, out.paint(labelStyle, id+"=")+vals[id])
		}
	case map[string]any:
		for _, id := range p.Identifiers() {
			parts = append(parts, out.paint(labelStyle, id+"=")+fmt.Sprint(vals[id]))
		}
	case []string:
		parts = vals
	case []any:
		for _, v := range vals {
			parts = append(parts, fmt.Sprint(v))
		}
	}
	return strings.Join(parts, "\t")
}

// record stores the run when a store is configured. rows and errs are
// parallel to inputs.
func (a *app) record(cmd *cobra.Command, p unformat.Unformatter, inputs []string, rows [][]string, errs []error) error {
	st, err := a.openStore()
	if err != nil || st == nil {
		return err
	}
	defer st.Close()

	records := make([]store.Record, len(inputs))
	for i, in := range inputs {
		records[i] = store.Record{Input: in, Values: rows[i]}
		if errs[i] != nil {
			records[i] = store.Record{Input: in, Error: errs[i].Error()}
		}
	}

	run := store.NewRun(p)
	if err := st.CreateRun(run); err != nil {
		observability.LogStoreError(a.logger, run.ID, "create_run", err)
		return fmt.Errorf("record run: %w", err)
	}
	if err := st.Append(run.ID, records...); err != nil {
		observability.LogStoreError(a.logger, run.ID, "append", err)
		return fmt.Errorf("record run: %w", err)
	}
	a.logger.Info("run recorded", slog.String("run_id", run.ID), slog.Int("records", len(records)))
	cmd.PrintErrf("recorded run %s\n", run.ID)
	return nil
}

// columnsResult is the output of `columns`.
type columnsResult struct {
	Index   unformat.NameIndex  `json:"index,omitempty" yaml:"index,omitempty"`
	Columns map[string][]string `json:"columns" yaml:"columns"`
}

func (a *app) newColumnsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "columns PATTERN [CANDIDATE...]",
		Short: "Extract values column by column, keyed by identifier",
		Long: `Extract values from every candidate and group them by placeholder
identifier. The first candidate that does not match stops the run. When a
positional pattern repeats an identifier, the last placeholder with that
identifier supplies the column.`,
		Args: cobra.MinimumNArgs(1),
		RunE: a.runColumns,
	}
}

func (a *app) runColumns(cmd *cobra.Command, args []string) error {
	p, err := a.compile(args[0])
	if err != nil {
		return err
	}
	inputs, err := candidates(cmd, args[1:])
	if err != nil {
		return err
	}

	index, cols, err := a.instrument(p).UnformatToDict(cmd.Context(), inputs)
	if err != nil {
		return err
	}

	out := a.printer(cmd)
	return out.emit(columnsResult{Index: index, Columns: cols}, func(w io.Writer) error {
		var labels []string
		for _, id := range p.Identifiers() {
			if !slices.Contains(labels, id) {
				labels = append(labels, id)
			}
		}
		for _, id := range labels {
			label := id
			if label == "" {
				label = "(anonymous)"
			}
			fmt.Fprintf(w, "%s %s\n", out.paint(labelStyle, label+":"), strings.Join(cols[id], ", "))
		}
		return nil
	})
}
