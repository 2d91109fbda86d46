package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/unformat/pkg/unformat/store"
)

type runView struct {
	ID         string    `json:"id" yaml:"id"`
	Pattern    string    `json:"pattern" yaml:"pattern"`
	Discipline string    `json:"discipline" yaml:"discipline"`
	Names      []string  `json:"names" yaml:"names"`
	Formats    []string  `json:"formats" yaml:"formats"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at"`
	Records    int       `json:"records" yaml:"records"`
	Failures   int       `json:"failures" yaml:"failures"`
}

type recordView struct {
	Sequence int      `json:"sequence" yaml:"sequence"`
	Input    string   `json:"input" yaml:"input"`
	Values   []string `json:"values,omitempty" yaml:"values,omitempty"`
	Error    string   `json:"error,omitempty" yaml:"error,omitempty"`
}

type runDetail struct {
	Run     runView      `json:"run" yaml:"run"`
	Records []recordView `json:"records" yaml:"records"`
}

func newRunView(r store.Run) runView {
	return runView{
		ID:         r.ID,
		Pattern:    r.Pattern,
		Discipline: r.Discipline,
		Names:      r.Names,
		Formats:    r.Formats,
		CreatedAt:  r.CreatedAt,
		Records:    r.Records,
		Failures:   r.Failures,
	}
}

func (a *app) newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [RUN_ID]",
		Short: "List recorded extraction runs, or show one run",
		Long: `List the runs recorded by 'unformat extract --store', or show the
records of a single run. Requires --store.`,
		Args: cobra.MaximumNArgs(1),
		RunE: a.runHistory,
	}
	cmd.Flags().Bool("delete", false, "Delete the given run")
	return cmd
}

func (a *app) runHistory(cmd *cobra.Command, args []string) error {
	st, err := a.openStore()
	if err != nil {
		return err
	}
	if st == nil {
		return errors.New("history: no store configured (use --store)")
	}
	defer st.Close()

	del, err := cmd.Flags().GetBool("delete")
	if err != nil {
		return err
	}
	switch {
	case del && len(args) == 0:
		return errors.New("history: --delete requires a run ID")
	case del:
		if err := st.DeleteRun(args[0]); err != nil {
			return fmt.Errorf("delete run %s: %w", args[0], err)
		}
		cmd.PrintErrf("deleted run %s\n", args[0])
		return nil
	case len(args) == 1:
		return a.showRun(cmd, st, args[0])
	default:
		return a.listRuns(cmd, st)
	}
}

func (a *app) listRuns(cmd *cobra.Command, st store.Store) error {
	runs, err := st.Runs()
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}
	views := make([]runView, len(runs))
	for i, r := range runs {
		views[i] = newRunView(r)
	}

	out := a.printer(cmd)
	return out.emit(views, func(w io.Writer) error {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tCREATED\tRECORDS\tFAILURES\tPATTERN")
		for _, r := range views {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n",
				r.ID, r.CreatedAt.Format(time.RFC3339), r.Records, r.Failures, r.Pattern)
		}
		return tw.Flush()
	})
}

func (a *app) showRun(cmd *cobra.Command, st store.Store, runID string) error {
	run, err := st.Run(runID)
	if err != nil {
		return fmt.Errorf("run %s: %w", runID, err)
	}
	records, err := st.Records(runID)
	if err != nil {
		return fmt.Errorf("run %s: %w", runID, err)
	}

	detail := runDetail{Run: newRunView(run), Records: make([]recordView, len(records))}
	for i, r := range records {
		detail.Records[i] = recordView{Sequence: r.Sequence, Input: r.Input, Values: r.Values, Error: r.Error}
	}

	out := a.printer(cmd)
	return out.emit(detail, func(w io.Writer) error {
		fmt.Fprintf(w, "%s %s\n", out.paint(headerStyle, "run:    "), run.ID)
		fmt.Fprintf(w, "%s %s (%s)\n", out.paint(headerStyle, "pattern:"), run.Pattern, run.Discipline)
		fmt.Fprintf(w, "%s %d records, %d failures\n", out.paint(headerStyle, "totals: "), run.Records, run.Failures)
		for _, r := range detail.Records {
			if r.Error != "" {
				fmt.Fprintf(w, "%4d %s %s %s\n", r.Sequence, out.paint(failStyle, "✗"), r.Input, out.paint(dimStyle, r.Error))
				continue
			}
			fmt.Fprintf(w, "%4d %s %s -> %s\n", r.Sequence, out.paint(okStyle, "✓"), r.Input, strings.Join(r.Values, "\t"))
		}
		return nil
	})
}
