package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// dateLayout is the yyyyMMdd format used by --date flags
const dateLayout = "20060102"

// PrintDoubleSeparator prints a double-line separator
func PrintDoubleSeparator(w io.Writer) {
	fmt.Fprintln(w, "═══════════════════════════════════════════════════════════")
}

// PrintHeader prints a command title block
func PrintHeader(w io.Writer, title string, fields ...[2]string) {
	PrintDoubleSeparator(w)
	fmt.Fprintf(w, "  %s\n", title)
	if len(fields) > 0 {
		fmt.Fprintln(w, "───────────────────────────────────────────────────────────")
		for _, f := range fields {
			fmt.Fprintf(w, "  %-10s: %s\n", f[0], f[1])
		}
	}
	PrintDoubleSeparator(w)
}

// printJSON writes v as indented JSON
func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// parseDateFlag parses a --date value; empty means today in loc
func parseDateFlag(raw string, loc *time.Location, now time.Time) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return now.In(loc), nil
	}

	t, err := time.ParseInLocation(dateLayout, raw, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q (expected yyyyMMdd): %w", raw, err)
	}
	return t, nil
}

// maskToken keeps the first and last 4 characters of a token
func maskToken(token string) string {
	if len(token) <= 8 {
		return strings.Repeat("*", len(token))
	}
	return token[:4] + strings.Repeat("*", len(token)-8) + token[len(token)-4:]
}
