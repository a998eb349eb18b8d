package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/entrhq/jserrorcollector/pkg/config"
	"github.com/entrhq/jserrorcollector/pkg/jserror"
)

// printer writes collected errors to the console.
type printer struct {
	w      io.Writer
	format config.OutputFormat

	messageStyle lipgloss.Style
	sourceStyle  lipgloss.Style
	warnStyle    lipgloss.Style
}

func newPrinter(w io.Writer, format config.OutputFormat) *printer {
	return &printer{
		w:            w,
		format:       format,
		messageStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
		sourceStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		warnStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	}
}

// Print writes one line per record.
func (p *printer) Print(records []jserror.Record) error {
	for _, rec := range records {
		var err error
		if p.format == config.FormatJSON {
			err = p.printJSON(rec)
		} else {
			_, err = fmt.Fprintf(p.w, "%s %s\n",
				p.messageStyle.Render(rec.Message()),
				p.sourceStyle.Render(fmt.Sprintf("[%s:%d]", rec.Source(), rec.Line())))
		}
		if err != nil {
			return fmt.Errorf("failed to print error record: %w", err)
		}
	}
	return nil
}

func (p *printer) printJSON(rec jserror.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(p.w, "%s\n", data)
	return err
}

// Warn prints a notice; JSON output stays machine-readable.
func (p *printer) Warn(msg string) {
	if p.format == config.FormatJSON {
		return
	}
	fmt.Fprintln(p.w, p.warnStyle.Render("warning: "+msg))
}
