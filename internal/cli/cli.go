// Package cli holds the shared rendering helpers for the example dashboard
// commands: ANSI styling, USD formatting and a lenient accessor for the
// schemaless JSON documents the API returns.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// ANSI styles used by the dashboards. Empty when stdout is not a terminal so
// piped output stays clean.
var (
	Reset   = "\033[0m"
	Bold    = "\033[1m"
	Dim     = "\033[2m"
	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Magenta = "\033[35m"
	Cyan    = "\033[36m"
)

func init() {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		Reset, Bold, Dim, Red, Green, Yellow, Magenta, Cyan = "", "", "", "", "", "", "", ""
	}
}

// Header prints a section banner.
func Header(title string) {
	line := strings.Repeat("─", len(title)+4)
	fmt.Printf("%s%s┌%s┐%s\n", Bold, Cyan, line, Reset)
	fmt.Printf("%s%s│  %s  │%s\n", Bold, Cyan, title, Reset)
	fmt.Printf("%s%s└%s┘%s\n", Bold, Cyan, line, Reset)
}

// Fatal prints a readable error to stderr and exits non-zero.
func Fatal(err error) {
	fmt.Fprintf(os.Stderr, "%serror:%s %v\n", Red, Reset, err)
	os.Exit(1)
}

// FormatUSD renders a dollar amount compactly: $1.25B, $3.40M, $12.5K, $900.
func FormatUSD(v float64) string {
	abs := v
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs >= 1_000_000_000:
		return fmt.Sprintf("$%.2fB", v/1_000_000_000)
	case abs >= 1_000_000:
		return fmt.Sprintf("$%.2fM", v/1_000_000)
	case abs >= 1_000:
		return fmt.Sprintf("$%.1fK", v/1_000)
	default:
		return fmt.Sprintf("$%.0f", v)
	}
}

// FormatPnL renders a signed dollar amount in green or red.
func FormatPnL(v float64) string {
	if v >= 0 {
		return Green + "+" + FormatUSD(v) + Reset
	}
	return Red + "-" + FormatUSD(-v) + Reset
}

// Bar renders a 20-char long/short distribution bar for a 0..1 long share.
func Bar(longShare float64) string {
	if longShare < 0 {
		longShare = 0
	}
	if longShare > 1 {
		longShare = 1
	}
	filled := int(longShare * 20)
	return Green + strings.Repeat("█", filled) + Reset +
		Red + strings.Repeat("█", 20-filled) + Reset
}

// Doc is a lenient view over a schemaless JSON object. Payload schemas belong
// to the service and drift over time, so every accessor takes a list of
// candidate keys and returns the first that is present.
type Doc map[string]interface{}

// Parse decodes a raw JSON body into a Doc. Non-object bodies yield an empty
// Doc rather than an error since the dashboards degrade gracefully.
func Parse(raw []byte) Doc {
	var d Doc
	if err := json.Unmarshal(raw, &d); err != nil {
		return Doc{}
	}
	return d
}

// ParseList decodes a raw JSON body that is an array of objects.
func ParseList(raw []byte) []Doc {
	var items []Doc
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	return items
}

func (d Doc) get(keys ...string) (interface{}, bool) {
	for _, k := range keys {
		if v, ok := d[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// Float returns the first numeric value found under the candidate keys.
func (d Doc) Float(keys ...string) float64 {
	v, ok := d.get(keys...)
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case string:
		var f float64
		fmt.Sscanf(n, "%f", &f)
		return f
	default:
		return 0
	}
}

// Int returns the first numeric value found under the candidate keys,
// truncated to an integer.
func (d Doc) Int(keys ...string) int {
	return int(d.Float(keys...))
}

// Str returns the first string value found under the candidate keys.
func (d Doc) Str(keys ...string) string {
	v, ok := d.get(keys...)
	if !ok {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return fmt.Sprintf("%v", s)
	default:
		return ""
	}
}

// Sub returns the first nested object found under the candidate keys.
func (d Doc) Sub(keys ...string) Doc {
	v, ok := d.get(keys...)
	if !ok {
		return Doc{}
	}
	if m, ok := v.(map[string]interface{}); ok {
		return Doc(m)
	}
	return Doc{}
}

// List returns the first array of objects found under the candidate keys.
func (d Doc) List(keys ...string) []Doc {
	v, ok := d.get(keys...)
	if !ok {
		return nil
	}
	items, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]Doc, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]interface{}); ok {
			out = append(out, Doc(m))
		}
	}
	return out
}

// Keys returns the object's keys, unordered.
func (d Doc) Keys() []string {
	out := make([]string, 0, len(d))
	for k := range d {
		out = append(out, k)
	}
	return out
}
