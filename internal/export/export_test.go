package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dohr-michael/listo/internal/tasks"
)

var sample = []tasks.Task{
	{ID: "task_0000000b", Text: "Walk *dog*", Completed: false, CreatedAt: time.Date(2026, 10, 16, 9, 31, 0, 0, time.UTC)},
	{ID: "task_0000000a", Text: "Buy milk", Completed: true, CreatedAt: time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)},
}

var sampleStats = tasks.Stats{Active: 1, Completed: 1, Total: 2}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{
		"json": FormatJSON, "YAML": FormatYAML, "yml": FormatYAML,
		"md": FormatMarkdown, "markdown": FormatMarkdown, "pdf": FormatPDF, "csv": FormatCSV,
	}
	for in, want := range tests {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %s, %v; want %s", in, got, err, want)
		}
	}
	if _, err := ParseFormat("docx"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("ParseFormat(docx) error = %v", err)
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatJSON, sample, sampleStats); err != nil {
		t.Fatalf("Write: %v", err)
	}

	var got []tasks.Task
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not a task array: %v", err)
	}
	if len(got) != 2 || got[0].ID != "task_0000000b" || !got[1].Completed {
		t.Errorf("decoded = %+v", got)
	}
	if !strings.Contains(buf.String(), `"createdAt"`) {
		t.Error("expected createdAt key in json output")
	}
}

func TestWriteJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatJSON, nil, tasks.Stats{}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("empty export = %q, want []", buf.String())
	}
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatYAML, sample, sampleStats); err != nil {
		t.Fatalf("Write: %v", err)
	}

	var got []map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not yaml: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("decoded %d entries", len(got))
	}
	if got[1]["text"] != "Buy milk" || got[1]["completed"] != true {
		t.Errorf("entry = %v", got[1])
	}
	if got[1]["createdAt"] != "2026-10-16T09:30:00Z" {
		t.Errorf("createdAt = %v", got[1]["createdAt"])
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatCSV, sample, sampleStats); err != nil {
		t.Fatalf("Write: %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want header + 2", len(records))
	}
	if records[2][1] != "Buy milk" || records[2][2] != "true" {
		t.Errorf("row = %v", records[2])
	}
}

func TestWriteCSVNeutralizesFormulas(t *testing.T) {
	list := []tasks.Task{
		{ID: "a", Text: "=SUM(A1:A9)"},
		{ID: "b", Text: "+1"},
		{ID: "c", Text: "-cmd"},
		{ID: "d", Text: "@import"},
		{ID: "e", Text: "Buy milk = joy"},
	}
	var buf bytes.Buffer
	if err := Write(&buf, FormatCSV, list, tasks.Stats{Active: 5, Total: 5}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	want := []string{"'=SUM(A1:A9)", "'+1", "'-cmd", "'@import", "Buy milk = joy"}
	for i, w := range want {
		if got := records[i+1][1]; got != w {
			t.Errorf("row %d text = %q, want %q", i, got, w)
		}
	}
}

type failingWriter struct{ err error }

func (f failingWriter) Write([]byte) (int, error) { return 0, f.err }

func TestWriteCSVReturnsWriteError(t *testing.T) {
	errDisk := errors.New("disk full")
	list := make([]tasks.Task, 200)
	for i := range list {
		list[i] = tasks.Task{ID: "task", Text: strings.Repeat("x", 64)}
	}
	if err := Write(failingWriter{err: errDisk}, FormatCSV, list, tasks.Stats{}); !errors.Is(err, errDisk) {
		t.Fatalf("expected disk error, got %v", err)
	}
}

func TestMarkdown(t *testing.T) {
	got := Markdown(sample, sampleStats)

	for _, want := range []string{
		"- [ ] Walk \\*dog\\*\n",
		"- [x] Buy milk\n",
		"_1 active, 1 completed_",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("markdown missing %q:\n%s", want, got)
		}
	}
}

func TestMarkdownEscapesMarkup(t *testing.T) {
	list := []tasks.Task{{ID: "t", Text: "<script>alert(1)</script>\n# heading"}}
	got := Markdown(list, tasks.Stats{Active: 1, Total: 1})

	if strings.Contains(got, "<script>") {
		t.Errorf("raw html survived:\n%s", got)
	}
	if strings.Contains(got, "\n# heading") {
		t.Errorf("newline let text start a heading:\n%s", got)
	}
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatPDF, sample, sampleStats); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Errorf("output does not look like a PDF: %q", buf.Bytes()[:min(16, buf.Len())])
	}
}

func TestWriteUnknown(t *testing.T) {
	if err := Write(&bytes.Buffer{}, Format("docx"), sample, sampleStats); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Write error = %v, want ErrUnknownFormat", err)
	}
}
