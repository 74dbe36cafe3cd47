// Package export renders a task list in portable formats.
package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"gopkg.in/yaml.v3"

	"github.com/dohr-michael/listo/internal/tasks"
)

// Format is an export format.
type Format string

const (
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatPDF      Format = "pdf"
)

// Formats lists the supported formats.
var Formats = []Format{FormatJSON, FormatYAML, FormatCSV, FormatMarkdown, FormatPDF}

// ErrUnknownFormat is returned for unsupported formats.
var ErrUnknownFormat = errors.New("unknown export format")

// ParseFormat parses a format name; "md" and "yml" are accepted as aliases.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "md":
		return FormatMarkdown, nil
	case "yml":
		return FormatYAML, nil
	case FormatJSON, FormatYAML, FormatCSV, FormatMarkdown, FormatPDF:
		return f, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownFormat, s)
	}
}

// yamlTask mirrors tasks.Task with YAML field names matching the JSON layout.
type yamlTask struct {
	ID        string `yaml:"id"`
	Text      string `yaml:"text"`
	Completed bool   `yaml:"completed"`
	CreatedAt string `yaml:"createdAt"`
}

// Write renders list in the given format. Stats are included where the format
// has room for a summary (markdown and pdf).
func Write(w io.Writer, format Format, list []tasks.Task, stats tasks.Stats) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if list == nil {
			list = []tasks.Task{}
		}
		return enc.Encode(list)
	case FormatYAML:
		return writeYAML(w, list)
	case FormatCSV:
		return writeCSV(w, list)
	case FormatMarkdown:
		_, err := io.WriteString(w, Markdown(list, stats))
		return err
	case FormatPDF:
		return writePDF(w, list, stats)
	default:
		return fmt.Errorf("%w %q", ErrUnknownFormat, format)
	}
}

func writeYAML(w io.Writer, list []tasks.Task) error {
	out := make([]yamlTask, len(list))
	for i, t := range list {
		out[i] = yamlTask{
			ID:        t.ID,
			Text:      t.Text,
			Completed: t.Completed,
			CreatedAt: t.CreatedAt.UTC().Format(time.RFC3339Nano),
		}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

func writeCSV(w io.Writer, list []tasks.Task) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "text", "completed", "created_at"}); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	for _, t := range list {
		row := []string{t.ID, csvCell(t.Text), strconv.FormatBool(t.Completed), t.CreatedAt.UTC().Format(time.RFC3339Nano)}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// csvCell keeps spreadsheets from evaluating user text as a formula.
func csvCell(s string) string {
	if s != "" && strings.ContainsRune("=+-@\t\r", rune(s[0])) {
		return "'" + s
	}
	return s
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, "`", "\\`", "*", `\*`, "_", `\_`,
	"[", `\[`, "]", `\]`, "<", `\<`, ">", `\>`, "#", `\#`, "|", `\|`,
)

// Markdown renders list as a GitHub checklist followed by the stats line.
// Task text is escaped so it cannot inject markup.
func Markdown(list []tasks.Task, stats tasks.Stats) string {
	var b strings.Builder
	b.WriteString("# Tasks\n\n")
	for _, t := range list {
		box := " "
		if t.Completed {
			box = "x"
		}
		fmt.Fprintf(&b, "- [%s] %s\n", box, markdownEscaper.Replace(singleLine(t.Text)))
	}
	if len(list) > 0 {
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "_%s_\n", stats.String())
	return b.String()
}

func writePDF(w io.Writer, list []tasks.Task, stats tasks.Stats) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(40, 10, "Tasks")
	pdf.Ln(12)
	pdf.SetFont("Arial", "", 10)
	for _, t := range list {
		box := "[ ]"
		if t.Completed {
			box = "[x]"
		}
		line := fmt.Sprintf("%s %s  (%s)", box, singleLine(t.Text), t.CreatedAt.UTC().Format("2006-01-02 15:04"))
		pdf.MultiCell(0, 6, tr(line), "0", "L", false)
	}
	pdf.Ln(4)
	pdf.SetFont("Arial", "I", 9)
	pdf.Cell(40, 6, tr(stats.String()))
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
