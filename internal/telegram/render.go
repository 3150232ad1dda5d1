package telegram

import (
	"fmt"
	"strings"
	"unicode/utf16"

	"f1-telegram-bot/internal/colors"
	"f1-telegram-bot/internal/commands"
	"f1-telegram-bot/lib/helpers"
)

// captionLimit is the longest photo caption Telegram accepts, in UTF-16 code
// units after entity parsing. Counting the raw markup errs on the short side.
const captionLimit = 1024

// RenderReply formats a reply as a MarkdownV2 message body. The accent color
// becomes a colored square in front of the title.
func RenderReply(r commands.Reply) string {
	var b strings.Builder

	b.WriteString(colors.Swatch(r.Color))
	b.WriteString(" ")
	if r.URL != "" {
		fmt.Fprintf(&b, "[*%s*](%s)", helpers.EscapeMarkdownV2(r.Title), helpers.EscapeMarkdownV2URL(r.URL))
	} else {
		fmt.Fprintf(&b, "*%s*", helpers.EscapeMarkdownV2(r.Title))
	}

	if r.Description != "" {
		b.WriteString("\n\n")
		b.WriteString(helpers.EscapeMarkdownV2(r.Description))
	}

	for i, f := range r.Fields {
		// consecutive inline fields share a paragraph
		if i > 0 && f.Inline && r.Fields[i-1].Inline {
			b.WriteString("\n")
		} else {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "*%s*\n", helpers.EscapeMarkdownV2(f.Name))
		if f.URL != "" {
			fmt.Fprintf(&b, "[%s](%s)", helpers.EscapeMarkdownV2(f.Value), helpers.EscapeMarkdownV2URL(f.URL))
		} else {
			b.WriteString(helpers.EscapeMarkdownV2(f.Value))
		}
	}

	if footer := footerLine(r); footer != "" {
		b.WriteString("\n\n_")
		b.WriteString(helpers.EscapeMarkdownV2(footer))
		b.WriteString("_")
	}
	return b.String()
}

func footerLine(r commands.Reply) string {
	switch {
	case r.Footer != "" && !r.Timestamp.IsZero():
		return r.Footer + " • " + helpers.FormatTimestamp(r.Timestamp.UTC()) + " UTC"
	case r.Footer != "":
		return r.Footer
	case !r.Timestamp.IsZero():
		return helpers.FormatTimestamp(r.Timestamp.UTC()) + " UTC"
	}
	return ""
}

func fitsCaption(text string) bool {
	return utf16Len(text) <= captionLimit
}

// utf16Len counts text the way Telegram does: characters outside the Basic
// Multilingual Plane, like most emoji, take two units.
func utf16Len(text string) int {
	n := 0
	for _, r := range text {
		if l := utf16.RuneLen(r); l > 0 {
			n += l
		} else {
			n++
		}
	}
	return n
}
