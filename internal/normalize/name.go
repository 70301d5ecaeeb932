package normalize

import (
	"strings"

	"golang.org/x/text/cases"
)

// Name folds case and trims spaces so names can be compared case-insensitively.
func Name(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

// Blank reports whether the name is empty or whitespace only.
func Blank(name string) bool {
	return strings.TrimSpace(name) == ""
}
