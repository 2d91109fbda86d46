package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/unformat/pkg/unformat"
)

type placeholderView struct {
	Identifier string `json:"identifier" yaml:"identifier"`
	Format     string `json:"format,omitempty" yaml:"format,omitempty"`
	HasFormat  bool   `json:"has_format" yaml:"has_format"`
}

type inspection struct {
	Template     string             `json:"template" yaml:"template"`
	Rendered     string             `json:"rendered" yaml:"rendered"`
	Discipline   string             `json:"discipline" yaml:"discipline"`
	Placeholders []placeholderView  `json:"placeholders" yaml:"placeholders"`
	Literals     []string           `json:"literals" yaml:"literals"`
	Index        unformat.NameIndex `json:"index,omitempty" yaml:"index,omitempty"`
}

func (a *app) newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect PATTERN",
		Short: "Show how a pattern compiles",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runInspect,
	}
	cmd.Flags().String("formats", "", "Comma-separated format hints replacing the pattern's own")
	return cmd
}

func (a *app) runInspect(cmd *cobra.Command, args []string) error {
	p, err := a.compile(args[0])
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("formats") {
		raw, _ := cmd.Flags().GetString("formats")
		if p, err = unformat.Reformat(p, strings.Split(raw, ",")); err != nil {
			return err
		}
	}

	info := inspection{
		Template:   p.Template(),
		Rendered:   p.Render(),
		Discipline: p.Discipline().String(),
		Literals:   p.Literals(),
		Index:      p.Index(),
	}
	for _, ph := range p.Placeholders() {
		info.Placeholders = append(info.Placeholders, placeholderView{
			Identifier: ph.Identifier,
			Format:     ph.Format,
			HasFormat:  ph.HasFormat,
		})
	}

	out := a.printer(cmd)
	return out.emit(info, func(w io.Writer) error {
		fmt.Fprintf(w, "%s %s\n", out.paint(headerStyle, "template:  "), info.Template)
		fmt.Fprintf(w, "%s %s\n", out.paint(headerStyle, "rendered:  "), info.Rendered)
		fmt.Fprintf(w, "%s %s\n", out.paint(headerStyle, "discipline:"), info.Discipline)
		fmt.Fprintf(w, "%s\n", out.paint(headerStyle, "literals:"))
		for i, lit := range info.Literals {
			fmt.Fprintf(w, "  %d %q\n", i, lit)
		}
		fmt.Fprintf(w, "%s\n", out.paint(headerStyle, "placeholders:"))
		for i, ph := range info.Placeholders {
			id := ph.Identifier
			if id == "" {
				id = "(anonymous)"
			}
			line := fmt.Sprintf("  %d %s", i, out.paint(labelStyle, id))
			if ph.HasFormat {
				line += " " + out.paint(dimStyle, "format="+ph.Format)
			}
			fmt.Fprintln(w, line)
		}
		return nil
	})
}
