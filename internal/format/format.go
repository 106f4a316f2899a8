// Package format renders nullable catalog fields for display. The rules
// mirror what the results view expects: costs group digits and keep any
// trailing unit text, dates switch to dotted form, bare institution links
// get a scheme.
package format

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var grouped = message.NewPrinter(language.Korean)

// Cost formats a raw cost string: the leading digit run is grouped
// ("500000원" becomes "500,000원") and any suffix such as a currency mark is
// kept. Blank input renders as "-".
func Cost(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "-"
	}
	i := 0
	for i < len(raw) && raw[i] >= '0' && raw[i] <= '9' {
		i++
	}
	if i == 0 {
		return raw
	}
	n, err := strconv.ParseInt(raw[:i], 10, 64)
	if err != nil {
		return raw
	}
	return grouped.Sprintf("%d", n) + raw[i:]
}

// Date reformats an ISO date ("2026-03-15") as dotted ("2026.03.15").
// Blank input renders as an empty string, not "-", so date cells can
// collapse.
func Date(iso string) string {
	iso = strings.TrimSpace(iso)
	if iso == "" {
		return ""
	}
	return strings.ReplaceAll(iso, "-", ".")
}

// URL normalizes an institution link: a bare host gets an https scheme, an
// already-schemed URL passes through, and blank input stays blank so no
// link is rendered.
func URL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}
	return "https://" + raw
}
