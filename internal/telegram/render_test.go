package telegram

import (
	"strings"
	"testing"
	"time"

	"f1-telegram-bot/internal/colors"
	"f1-telegram-bot/internal/commands"
)

func TestRenderReply(t *testing.T) {
	r := commands.Reply{
		Title:       "🏎️ Lewis Hamilton",
		URL:         "http://en.wikipedia.org/wiki/Lewis_(driver)",
		Description: "Seven-time champion.",
		Color:       colors.RGB(0x3498DB),
		Fields: []commands.Field{
			{Name: "🌍 Nationality", Value: "British", Inline: true},
			{Name: "🎂 Birth Date", Value: "1985-01-07", Inline: true},
			{Name: "📖 More Info", Value: "Wikipedia", URL: "http://en.wikipedia.org/wiki/Lewis_Hamilton"},
		},
		Footer:    "Data provided by Ergast API",
		Timestamp: time.Date(2024, 3, 7, 14, 0, 0, 0, time.UTC),
	}

	want := "🟦 [*🏎️ Lewis Hamilton*](http://en.wikipedia.org/wiki/Lewis_(driver\\))" +
		"\n\nSeven\\-time champion\\." +
		"\n\n*🌍 Nationality*\nBritish" +
		"\n*🎂 Birth Date*\n1985\\-01\\-07" +
		"\n\n*📖 More Info*\n[Wikipedia](http://en.wikipedia.org/wiki/Lewis_Hamilton)" +
		"\n\n_Data provided by Ergast API • 2024\\-03\\-07 14:00:00 UTC_"
	if got := RenderReply(r); got != want {
		t.Fatalf("RenderReply =\n%s\nwant\n%s", got, want)
	}
}

func TestRenderReply_Minimal(t *testing.T) {
	got := RenderReply(commands.Reply{Title: "Positions 1-7", Color: colors.Default})
	if got != colors.Swatch(colors.Default)+" *Positions 1\\-7*" {
		t.Fatalf("RenderReply = %q", got)
	}
	if strings.Contains(got, "_") {
		t.Fatalf("reply without footer rendered one: %q", got)
	}
}

func TestFitsCaption(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"ascii at limit", strings.Repeat("x", captionLimit), true},
		{"ascii over limit", strings.Repeat("x", captionLimit+1), false},
		{"bmp runes count once", strings.Repeat("░", captionLimit), true},
		{"emoji count twice", strings.Repeat("🏁", captionLimit/2), true},
		{"emoji over limit", strings.Repeat("🏁", captionLimit/2+1), false},
		{"emoji at the rune limit", strings.Repeat("🥇", captionLimit), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fitsCaption(tt.text); got != tt.want {
				t.Fatalf("fitsCaption = %v, want %v (utf16 length %d)", got, tt.want, utf16Len(tt.text))
			}
		})
	}
}
