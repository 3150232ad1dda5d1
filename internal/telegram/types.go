package telegram

import (
	"context"
	"time"

	"f1-telegram-bot/internal/commands"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// BotConfig configuration of the bot
type BotConfig struct {
	Token          string
	Debug          bool
	UpdatesTimeout int
	CommandTimeout time.Duration
	SourceURL      string
}

// Sender is the part of *tgbotapi.BotAPI used to talk to Telegram.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Commands answers the bot commands. *commands.Handler implements it.
type Commands interface {
	RaceResults(ctx context.Context, year, round int) ([]commands.Reply, error)
	DriverStandings(ctx context.Context, year int) ([]commands.Reply, error)
	ConstructorStandings(ctx context.Context, year int) ([]commands.Reply, error)
	NextEvent(ctx context.Context) ([]commands.Reply, error)
	DriverLookup(ctx context.Context, name string) ([]commands.Reply, error)
}

// Bot telegram interaction client
type Bot struct {
	Bot      *tgbotapi.BotAPI
	Config   BotConfig
	sender   Sender
	commands Commands
	observe  func(command, outcome string)
}

// Message a telegram message struct
type Message struct {
	ChatID    int64
	MessageID int
	Text      string
}

// Command outcomes reported to the observer.
const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
	OutcomeUsage    = "usage"
)
