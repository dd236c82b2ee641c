// Package render holds plain-text formatting helpers shared by the TUI.
package render

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
)

// AbbrevAddress shortens an address-like value to its first six and last
// four characters. Anything shorter than ten characters passes through.
func AbbrevAddress(addr string) string {
	if len(addr) < 10 {
		return addr
	}
	return addr[:6] + "..." + addr[len(addr)-4:]
}

// FormatTimestamp renders a Unix-milliseconds digit string as a local
// date/time. A value that does not parse is returned verbatim.
func FormatTimestamp(createdAt string) string {
	ms, err := strconv.ParseInt(createdAt, 10, 64)
	if err != nil {
		return createdAt
	}
	return time.UnixMilli(ms).Local().Format("Jan 2, 2006 15:04")
}

// TimeAgo renders a coarse relative duration for status displays.
func TimeAgo(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

// Truncate shortens s to the given display width, appending an ellipsis
// when anything was cut.
func Truncate(s string, width int) string {
	return runewidth.Truncate(s, width, "…")
}

// WrapText performs simple word wrapping to the given width. Content is
// treated strictly as text; nothing in it is ever interpreted as markup.
func WrapText(text string, width int) string {
	if width <= 0 {
		return text
	}
	var result strings.Builder
	for _, paragraph := range strings.Split(text, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			result.WriteString("\n")
			continue
		}
		lineLen := 0
		for i, word := range words {
			wlen := runewidth.StringWidth(word)
			if i > 0 && lineLen+1+wlen > width {
				result.WriteString("\n")
				lineLen = 0
			} else if i > 0 {
				result.WriteString(" ")
				lineLen++
			}
			result.WriteString(word)
			lineLen += wlen
		}
		result.WriteString("\n")
	}
	return strings.TrimRight(result.String(), "\n")
}
