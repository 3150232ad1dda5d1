package commands

import (
	"time"

	"f1-telegram-bot/internal/colors"
)

// Field is a named block of a Reply.
type Field struct {
	Name   string
	Value  string
	URL    string
	Inline bool
}

// Reply is a rich chat message independent of the chat platform. Image,
// when set, is a PNG to attach under ImageName.
type Reply struct {
	Title       string
	URL         string
	Description string
	Color       colors.RGB
	Fields      []Field
	Footer      string
	Timestamp   time.Time
	Image       []byte
	ImageName   string
}

// AddField appends a field and returns the reply for chaining.
func (r *Reply) AddField(name, value string, inline bool) *Reply {
	r.Fields = append(r.Fields, Field{Name: name, Value: value, Inline: inline})
	return r
}
