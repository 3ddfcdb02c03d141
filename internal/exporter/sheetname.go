package exporter

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxSheetNameLength is the longest worksheet name spreadsheet apps accept.
const MaxSheetNameLength = 31

var sheetNameReplacer = strings.NewReplacer(
	":", "_", "\\", "_", "/", "_", "?", "_", "*", "_", "[", "_", "]", "_",
)

// SanitizeSheetName turns a chemistry name into a valid worksheet name:
// forbidden characters become underscores, leading and trailing apostrophes
// and spaces are dropped, and the result is capped at 31 characters. An
// empty result becomes "Sheet".
func SanitizeSheetName(name string) string {
	name = sheetNameReplacer.Replace(name)
	name = strings.Trim(name, "' ")
	name = truncateRunes(name, MaxSheetNameLength)
	name = strings.TrimRight(name, "' ")
	if name == "" {
		return "Sheet"
	}
	return name
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// sheetNamer hands out sanitized names that are unique within a workbook.
// Worksheet names compare case-insensitively.
type sheetNamer struct {
	used map[string]struct{}
}

func newSheetNamer() *sheetNamer {
	return &sheetNamer{used: make(map[string]struct{})}
}

// Name returns a unique sanitized name for chemistry, adding " (2)", " (3)"
// and so on when the sanitized form is already taken.
func (n *sheetNamer) Name(chemistry string) string {
	base := SanitizeSheetName(chemistry)
	name := base
	for i := 2; n.taken(name); i++ {
		suffix := fmt.Sprintf(" (%d)", i)
		name = truncateRunes(base, MaxSheetNameLength-utf8.RuneCountInString(suffix)) + suffix
	}
	n.used[strings.ToLower(name)] = struct{}{}
	return name
}

func (n *sheetNamer) taken(name string) bool {
	_, ok := n.used[strings.ToLower(name)]
	return ok
}
