package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by --output.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

var (
	okStyle     = color.New(color.FgGreen, color.Bold)
	failStyle   = color.New(color.FgRed, color.Bold)
	labelStyle  = color.New(color.FgCyan)
	headerStyle = color.New(color.FgYellow, color.Bold)
	dimStyle    = color.New(color.FgHiBlack)
)

// printer renders command results in the configured format.
type printer struct {
	w      io.Writer
	format string
	color  bool
}

// emit writes data as JSON or YAML, or calls text for the text format.
func (p *printer) emit(data any, text func(w io.Writer) error) error {
	switch p.format {
	case formatJSON:
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case formatYAML:
		enc := yaml.NewEncoder(p.w)
		enc.SetIndent(2)
		if err := enc.Encode(data); err != nil {
			return err
		}
		return enc.Close()
	default:
		return text(p.w)
	}
}

// paint applies style when color is enabled.
func (p *printer) paint(style *color.Color, a ...any) string {
	if !p.color {
		return fmt.Sprint(a...)
	}
	return style.Sprint(a...)
}
