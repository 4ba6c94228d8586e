// Package render writes command results and errors to the terminal.
//
// Results go through a Formatter chosen by the --output flag. Errors go
// through Error, which picks a splash from the error's classification.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// NoResources is printed by the table formatter for an empty list.
const NoResources = "No resources found.\n"

// Tabular is implemented by values with a dedicated table layout.
type Tabular interface {
	Header() []string
	Rows() [][]string
}

// Formatter turns a command result into text.
type Formatter interface {
	Format(data any) (string, error)
}

// NewFormatter returns a Formatter for the given format string.
// Unknown formats fall back to table.
func NewFormatter(format string) Formatter {
	switch strings.ToLower(format) {
	case FormatJSON:
		return JSONFormatter{}
	case FormatYAML:
		return YAMLFormatter{}
	default:
		return TableFormatter{}
	}
}

// TableFormatter formats data as aligned text tables using tabwriter.
// Tabular values use their own columns; other structs print as
// "Field: value" lines and slices print one element per line.
type TableFormatter struct{}

func (TableFormatter) Format(data any) (string, error) {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)

	if t, ok := data.(Tabular); ok {
		rows := t.Rows()
		if len(rows) == 0 {
			return NoResources, nil
		}
		fmt.Fprintln(w, strings.Join(t.Header(), "\t"))
		for _, r := range rows {
			fmt.Fprintln(w, strings.Join(r, "\t"))
		}
		if err := w.Flush(); err != nil {
			return "", err
		}
		return styleHeader(buf.String()), nil
	}

	v := reflect.ValueOf(data)
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return NoResources, nil
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Slice:
		if v.Len() == 0 {
			return NoResources, nil
		}
		for i := range v.Len() {
			fmt.Fprintln(w, v.Index(i).Interface())
		}
	case reflect.Struct:
		t := v.Type()
		for i := range t.NumField() {
			if !t.Field(i).IsExported() {
				continue
			}
			fmt.Fprintf(w, "%s:\t%v\n", t.Field(i).Name, v.Field(i).Interface())
		}
	default:
		fmt.Fprintln(w, data)
	}

	if err := w.Flush(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// styleHeader applies the header style to the first line of a table.
func styleHeader(table string) string {
	header, rest, _ := strings.Cut(table, "\n")
	return headerStyle.Render(header) + "\n" + rest
}

// JSONFormatter formats data as indented JSON.
type JSONFormatter struct{}

func (JSONFormatter) Format(data any) (string, error) {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("format JSON: %w", err)
	}
	return string(b) + "\n", nil
}

// YAMLFormatter formats data as YAML.
type YAMLFormatter struct{}

func (YAMLFormatter) Format(data any) (string, error) {
	b, err := yaml.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("format YAML: %w", err)
	}
	return string(b), nil
}
