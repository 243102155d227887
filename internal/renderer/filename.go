package renderer

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// Filename derives the suggested attachment name for an order export.
func Filename(orderID int64) string {
	return SanitizeFilename(fmt.Sprintf("order-%d.pdf", orderID))
}

// SanitizeFilename strips path components and unsafe characters and
// forces a .pdf extension.
func SanitizeFilename(name string) string {
	name = path.Base(filepath.ToSlash(name))

	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-', r == '_', r == '.':
			return r
		default:
			return -1
		}
	}, name)

	name = strings.Trim(name, ".")
	if name == "" {
		name = "order"
	}
	if !strings.HasSuffix(strings.ToLower(name), ".pdf") {
		name += ".pdf"
	}

	return name
}
