package helpers

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"math"
	"strings"
	"time"
)

func EscapeMarkdownV2(text string) string {
	charactersToEscape := []string{"\\", ".", "-", "_", "*", "[", "]", "(", ")", "~", "`", ">", "#", "+", "=", "|", "{", "}", "!"}

	for _, char := range charactersToEscape {
		text = strings.ReplaceAll(text, char, "\\"+char)
	}
	return text
}

// EscapeMarkdownV2URL escapes the characters Telegram requires inside the
// (...) part of an inline link.
func EscapeMarkdownV2URL(url string) string {
	url = strings.ReplaceAll(url, "\\", "\\\\")
	return strings.ReplaceAll(url, ")", "\\)")
}

// FormatPoints prints championship points with thousand separators and
// without a trailing .0 for whole numbers.
func FormatPoints(points float64) string {
	p := message.NewPrinter(language.English)
	if points == math.Trunc(points) {
		return p.Sprintf("%d", int64(points))
	}
	return p.Sprintf("%.1f", points)
}

// FormatTimestamp is the footer timestamp format.
func FormatTimestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}

// FormatUTC formats a session start.
func FormatUTC(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04") + " UTC"
}
