package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ArtifactWriter writes run reports to a directory.
type ArtifactWriter struct {
	outputDir string
}

// NewArtifactWriter creates a new artifact writer
func NewArtifactWriter(outputDir string) *ArtifactWriter {
	return &ArtifactWriter{
		outputDir: outputDir,
	}
}

// WriteAll writes errors.json and summary.md.
func (w *ArtifactWriter) WriteAll(summary *Summary) error {
	if err := os.MkdirAll(w.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := w.WriteJSON(summary); err != nil {
		return err
	}
	return w.WriteMarkdown(summary)
}

// WriteJSON writes the full summary as JSON
func (w *ArtifactWriter) WriteJSON(summary *Summary) error {
	path := filepath.Join(w.outputDir, "errors.json")

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write errors JSON: %w", err)
	}
	return nil
}

// WriteMarkdown writes a human-readable summary
func (w *ArtifactWriter) WriteMarkdown(summary *Summary) error {
	path := filepath.Join(w.outputDir, "summary.md")

	var md strings.Builder

	md.WriteString("# JavaScript Error Report\n\n")
	md.WriteString(fmt.Sprintf("**URL:** %s\n\n", summary.URL))
	md.WriteString(fmt.Sprintf("**Started:** %s\n\n", summary.StartTime.Format(time.RFC3339)))
	md.WriteString(fmt.Sprintf("**Completed:** %s\n\n", summary.EndTime.Format(time.RFC3339)))
	md.WriteString(fmt.Sprintf("**Duration:** %s\n\n", summary.Duration))
	md.WriteString(fmt.Sprintf("**Polls:** %d\n\n", summary.Polls))

	md.WriteString("## Result\n\n")
	switch {
	case summary.Failure != "":
		md.WriteString(fmt.Sprintf("❌ **Failed:** %s\n\n", summary.Failure))
	case len(summary.Errors) > 0:
		md.WriteString(fmt.Sprintf("❌ **%d JavaScript error(s)**\n\n", len(summary.Errors)))
	case !summary.Installed:
		md.WriteString("⚠️ **Collector not found on the page**\n\n")
	default:
		md.WriteString("✅ **No JavaScript errors**\n\n")
	}

	unique, counts := summary.Unique()
	if len(unique) > 0 {
		md.WriteString("## Errors\n\n")
		md.WriteString("| Count | Message | Source | Line |\n")
		md.WriteString("|---|---|---|---|\n")
		for _, rec := range unique {
			md.WriteString(fmt.Sprintf("| %d | %s | %s | %d |\n",
				counts[rec.Key()], escapeCell(rec.Message()), escapeCell(rec.Source()), rec.Line()))
		}
		md.WriteString("\n")
	}

	if err := os.WriteFile(path, []byte(md.String()), 0600); err != nil {
		return fmt.Errorf("failed to write summary markdown: %w", err)
	}
	return nil
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
