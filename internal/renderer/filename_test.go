package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilename(t *testing.T) {
	assert.Equal(t, "order-42.pdf", Filename(42))
	assert.Equal(t, "order-1000001.pdf", Filename(1000001))
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "order-7.pdf", "order-7.pdf"},
		{"strips directories", "../../etc/passwd", "passwd.pdf"},
		{"neutralizes backslash path", `C:\exports\order-9.pdf`, "Cexportsorder-9.pdf"},
		{"drops unsafe runes", "ord er<7>!.pdf", "order7.pdf"},
		{"trims dots", "...order...", "order.pdf"},
		{"empty falls back", "", "order.pdf"},
		{"only unsafe falls back", "<<>>", "order.pdf"},
		{"forces pdf extension", "order-3.txt", "order-3.txt.pdf"},
		{"uppercase extension kept", "ORDER-3.PDF", "ORDER-3.PDF"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFilename(tt.in))
		})
	}
}
