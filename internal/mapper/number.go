package mapper

import (
	"strconv"
	"strings"
)

// ParseAmount parses a broker numeric cell such as "1,234", "+56" or "-500".
// Blank or malformed cells yield 0; this never fails, since bad cells are a
// routine quirk of the feed and must not fail the whole response.
func ParseAmount(s string) int64 {
	if strings.TrimSpace(s) == "" {
		return 0
	}

	cleaned := strings.TrimSpace(strings.NewReplacer(",", "", "+", "").Replace(s))

	v, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		return 0
	}
	return v
}
