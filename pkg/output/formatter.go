package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Formatter renders a result for output
type Formatter interface {
	Format(data any, pretty bool) ([]byte, error)
}

// Table is one titled grid of values
type Table struct {
	Title   string
	Columns []string
	Rows    [][]any
}

// Tabular is implemented by results that know their own tabular layout.
// Other values are flattened into key/value rows for CSV and table output.
type Tabular interface {
	Tables() []Table
}

// DefaultPrecision is the number of decimals used when none is configured
const DefaultPrecision = 4

var titleCaser = cases.Title(language.English)

// NewFormatter returns the formatter for a format name. Unknown names get JSON.
func NewFormatter(format string, precision int) Formatter {
	switch strings.ToLower(format) {
	case "yaml", "yml":
		return &YAMLFormatter{}
	case "csv":
		return &CSVFormatter{Precision: precision}
	case "table":
		return &TableFormatter{Precision: precision}
	default:
		return &JSONFormatter{}
	}
}

// JSONFormatter renders JSON with NaN and Inf replaced by 0
type JSONFormatter struct{}

func (f *JSONFormatter) Format(data any, pretty bool) ([]byte, error) {
	clean := Sanitize(data)

	var (
		out []byte
		err error
	)
	if pretty {
		out, err = json.MarshalIndent(clean, "", "  ")
	} else {
		out, err = json.Marshal(clean)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode JSON: %w", err)
	}
	return append(out, '\n'), nil
}

// YAMLFormatter renders YAML with NaN and Inf replaced by 0
type YAMLFormatter struct{}

func (f *YAMLFormatter) Format(data any, pretty bool) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	if pretty {
		enc.SetIndent(2)
	}
	if err := enc.Encode(Sanitize(data)); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	return buf.Bytes(), nil
}

// CSVFormatter renders each table as a CSV block. Blocks are separated by a
// blank line and preceded by a single-cell title record.
type CSVFormatter struct {
	Precision int
}

func (f *CSVFormatter) Format(data any, pretty bool) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	for i, table := range tablesOf(data) {
		if i > 0 {
			buf.WriteString("\n")
		}
		if table.Title != "" {
			if err := w.Write([]string{"# " + table.Title}); err != nil {
				return nil, fmt.Errorf("failed to write CSV: %w", err)
			}
		}
		if err := w.Write(table.Columns); err != nil {
			return nil, fmt.Errorf("failed to write CSV: %w", err)
		}
		for _, row := range table.Rows {
			if err := w.Write(formatRow(row, precisionOr(f.Precision))); err != nil {
				return nil, fmt.Errorf("failed to write CSV: %w", err)
			}
		}
		w.Flush()
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to write CSV: %w", err)
	}
	return buf.Bytes(), nil
}

// TableFormatter renders aligned plain-text tables
type TableFormatter struct {
	Precision int
}

func (f *TableFormatter) Format(data any, pretty bool) ([]byte, error) {
	var buf bytes.Buffer

	for i, table := range tablesOf(data) {
		if i > 0 {
			buf.WriteString("\n")
		}
		if table.Title != "" {
			fmt.Fprintf(&buf, "%s\n%s\n", table.Title, strings.Repeat("=", len(table.Title)))
		}

		tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
		headers := make([]string, len(table.Columns))
		for j, col := range table.Columns {
			headers[j] = headerLabel(col)
		}
		fmt.Fprintln(tw, strings.Join(headers, "\t"))
		for _, row := range table.Rows {
			fmt.Fprintln(tw, strings.Join(formatRow(row, precisionOr(f.Precision)), "\t"))
		}
		if err := tw.Flush(); err != nil {
			return nil, fmt.Errorf("failed to write table: %w", err)
		}
	}

	return buf.Bytes(), nil
}

func tablesOf(data any) []Table {
	if t, ok := data.(Tabular); ok {
		return t.Tables()
	}

	flat := make(map[string]any)
	flatten("", Sanitize(data), flat)

	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	table := Table{Columns: []string{"key", "value"}}
	for _, k := range keys {
		table.Rows = append(table.Rows, []any{k, flat[k]})
	}
	return []Table{table}
}

func flatten(prefix string, value any, out map[string]any) {
	switch v := value.(type) {
	case map[string]any:
		if len(v) == 0 && prefix != "" {
			out[prefix] = ""
		}
		for k, child := range v {
			key := k
			if prefix != "" {
				key = prefix + "." + k
			}
			flatten(key, child, out)
		}
	case []any:
		if len(v) == 0 && prefix != "" {
			out[prefix] = ""
		}
		for i, child := range v {
			flatten(fmt.Sprintf("%s[%d]", prefix, i), child, out)
		}
	default:
		out[prefix] = v
	}
}

func formatRow(row []any, precision int) []string {
	cells := make([]string, len(row))
	for i, v := range row {
		cells[i] = FormatValue(v, precision)
	}
	return cells
}

// FormatValue renders a single cell. Floats use fixed precision with
// trailing zeros trimmed.
func FormatValue(v any, precision int) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return formatFloat(x, precision)
	case float32:
		return formatFloat(float64(x), precision)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprintf("%v", x)
	}
}

func formatFloat(v float64, precision int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	s := strconv.FormatFloat(v, 'f', precision, 64)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	}
	if s == "-0" {
		s = "0"
	}
	return s
}

func headerLabel(column string) string {
	return titleCaser.String(strings.ReplaceAll(column, "_", " "))
}

func precisionOr(p int) int {
	if p <= 0 {
		return DefaultPrecision
	}
	return p
}
