package dialogue

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// numberRe matches the first decimal number in a message, with either "."
// or "," as the separator.
var numberRe = regexp.MustCompile(`\d+(?:[.,]\d+)?`)

// ExtractNumber pulls the first decimal number out of free text. Surrounding
// words and non-breaking spaces are ignored; "21,5" parses as 21.5.
func ExtractNumber(text string) (float64, error) {
	t := strings.ReplaceAll(text, "\u00a0", " ")
	t = strings.TrimSpace(t)
	m := numberRe.FindString(t)
	if m == "" {
		return 0, fmt.Errorf("dialogue: no number in %q", text)
	}
	return strconv.ParseFloat(strings.ReplaceAll(m, ",", "."), 64)
}

// ParseDay parses a strict YYYY-MM-DD calendar date and returns it
// normalized. Impossible dates like 2024-02-30 are rejected.
func ParseDay(text string) (string, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(text))
	if err != nil {
		return "", fmt.Errorf("dialogue: invalid date %q: %w", text, err)
	}
	return t.Format("2006-01-02"), nil
}
