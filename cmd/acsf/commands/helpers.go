package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/acsf-client/internal/constants"
)

// Common string constants used throughout the commands package.
const (
	NotAvailable = "-"

	// Output formats.
	OutputFormatTable = "table"
	OutputFormatJSON  = "json"
	OutputFormatYAML  = "yaml"

	// JSON formatting.
	defaultJSONIndent = 2
)

// Common static errors used throughout the commands package.
var (
	ErrSitesRefRequired   = errors.New("--sites-ref or --factory-ref is required")
	ErrNotInteractive     = errors.New("stdin is not a terminal")
	ErrWaitTimeoutInvalid = errors.New("--timeout must not be negative")
)

// outputFormat returns the requested output format, validated.
func outputFormat() (string, error) {
	format := strings.ToLower(viper.GetString("output"))
	if format == "" {
		format = OutputFormatTable
	}

	if !slices.Contains([]string{OutputFormatTable, OutputFormatJSON, OutputFormatYAML}, format) {
		return "", fmt.Errorf("%w: %s", constants.ErrUnsupportedOutput, format)
	}

	return format, nil
}

// encode writes data as JSON or YAML. It reports false for table output so
// the caller can render its own table.
func encode(w io.Writer, data any) (bool, error) {
	format, err := outputFormat()
	if err != nil {
		return false, err
	}

	switch format {
	case OutputFormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", strings.Repeat(" ", defaultJSONIndent))

		return true, encoder.Encode(data)
	case OutputFormatYAML:
		encoder := yaml.NewEncoder(w)
		defer func() { _ = encoder.Close() }()

		return true, encoder.Encode(normalizeForYAML(data))
	default:
		return false, nil
	}
}

// renderResponse prints a decoded API response. Tables list one property per
// row with nested values inlined as JSON.
func renderResponse(w io.Writer, data map[string]any) error {
	done, err := encode(w, data)
	if done || err != nil {
		return err
	}

	keys := make([]string, 0, len(data))
	for key := range data {
		keys = append(keys, key)
	}

	slices.Sort(keys)

	rows := make([][]string, 0, len(keys))
	for _, key := range keys {
		rows = append(rows, []string{key, formatValue(data[key])})
	}

	return renderTable(w, []string{"Property", "Value"}, rows)
}

// renderList prints the objects found under listKey as a table with the
// given columns. JSON and YAML output print the whole response.
func renderList(w io.Writer, data map[string]any, listKey string, columns []string) error {
	done, err := encode(w, data)
	if done || err != nil {
		return err
	}

	var rows [][]string

	for _, item := range listItems(data[listKey]) {
		row := make([]string, len(columns))
		for i, column := range columns {
			row[i] = formatValue(item[column])
		}

		rows = append(rows, row)
	}

	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No results found.")

		return err
	}

	headers := make([]string, len(columns))
	for i, column := range columns {
		headers[i] = strings.ToUpper(strings.ReplaceAll(column, "_", " "))
	}

	return renderTable(w, headers, rows)
}

func renderTable(w io.Writer, headers []string, rows [][]string) error {
	cells := make([]any, len(headers))
	for i, header := range headers {
		cells[i] = header
	}

	table := tablewriter.NewWriter(w)
	table.Header(cells...)

	for _, row := range rows {
		_ = table.Append(row)
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

// listItems accepts both list and keyed-object collections, which the API
// uses interchangeably.
func listItems(raw any) []map[string]any {
	var items []map[string]any

	switch v := raw.(type) {
	case []any:
		for _, item := range v {
			if obj, ok := item.(map[string]any); ok {
				items = append(items, obj)
			}
		}
	case map[string]any:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}

		slices.Sort(keys)

		for _, key := range keys {
			if obj, ok := v[key].(map[string]any); ok {
				items = append(items, obj)
			}
		}
	}

	return items
}

func formatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return NotAvailable
	case string:
		if v == "" {
			return NotAvailable
		}

		return v
	case map[string]any, []any:
		b, err := json.Marshal(v)
		if err != nil {
			return NotAvailable
		}

		return string(b)
	default:
		return cast.ToString(v)
	}
}

// normalizeForYAML turns json.Number values into plain numbers so YAML
// output does not quote them.
func normalizeForYAML(value any) any {
	switch v := value.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i
		}

		if f, err := v.Float64(); err == nil {
			return f
		}

		return v.String()
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = normalizeForYAML(item)
		}

		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = normalizeForYAML(item)
		}

		return out
	default:
		return v
	}
}

// parseID parses a positive integer argument, wrapping invalid with the input.
func parseID(arg string, invalid error) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w: %q", invalid, arg)
	}

	return id, nil
}
