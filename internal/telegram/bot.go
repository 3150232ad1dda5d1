package telegram

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"

	"f1-telegram-bot/internal/commands"
	"f1-telegram-bot/lib/helpers"
	"f1-telegram-bot/lib/translation"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const parseMode = "MarkdownV2"

// NewBot creates new telegram bot
func NewBot(c BotConfig, h Commands) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(c.Token)
	if err != nil {
		return nil, errors.Wrap(err, "could not create telegram bot")
	}

	bot.Debug = c.Debug

	b := newBot(bot, c, h)
	b.Bot = bot
	return b, nil
}

func newBot(s Sender, c BotConfig, h Commands) *Bot {
	return &Bot{
		Config:   c,
		sender:   s,
		commands: h,
	}
}

// OnCommand registers fn to be called once per dispatched command with its
// outcome.
func (b *Bot) OnCommand(fn func(command, outcome string)) {
	b.observe = fn
}

// GetUpdatesChannel gets new updates updates
func (b *Bot) GetUpdatesChannel() (tgbotapi.UpdatesChannel, error) {
	updatesConfig := tgbotapi.NewUpdate(0)
	if b.Config.UpdatesTimeout > 0 {
		updatesConfig.Timeout = b.Config.UpdatesTimeout
	}
	return b.Bot.GetUpdatesChan(updatesConfig), nil
}

// RegisterCommands publishes the command menu shown by Telegram clients.
func (b *Bot) RegisterCommands() error {
	_, err := b.sender.Request(tgbotapi.NewSetMyCommands(BotCommands()...))
	return errors.Wrap(err, "could not register bot commands")
}

// SendMessage sends a telegram message
func (b *Bot) SendMessage(m Message) error {
	msg := tgbotapi.NewMessage(m.ChatID, m.Text)
	msg.ReplyToMessageID = m.MessageID
	msg.DisableWebPagePreview = true
	msg.ParseMode = parseMode
	_, err := b.sender.Send(msg)
	return errors.Wrapf(err, "could not send message: %v", m)
}

// SendReplies sends replies in order. Only the first one quotes the command
// message. A reply with an image becomes a photo; when its text does not fit
// in a caption the text follows as a separate message.
func (b *Bot) SendReplies(chatID int64, replyTo int, replies []commands.Reply) error {
	for i, r := range replies {
		if i > 0 {
			replyTo = 0
		}
		text := RenderReply(r)

		if len(r.Image) == 0 {
			if err := b.SendMessage(Message{ChatID: chatID, MessageID: replyTo, Text: text}); err != nil {
				return err
			}
			continue
		}

		name := r.ImageName
		if name == "" {
			name = "chart.png"
		}
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: name, Bytes: r.Image})
		photo.ReplyToMessageID = replyTo

		if fitsCaption(text) {
			photo.Caption = text
			photo.ParseMode = parseMode
			if _, err := b.sender.Send(photo); err != nil {
				return errors.Wrap(err, "could not send photo")
			}
			continue
		}

		if _, err := b.sender.Send(photo); err != nil {
			return errors.Wrap(err, "could not send photo")
		}
		if err := b.SendMessage(Message{ChatID: chatID, Text: text}); err != nil {
			return err
		}
	}
	return nil
}

// HandleUpdate answers a command message. Updates without a command are
// ignored.
func (b *Bot) HandleUpdate(ctx context.Context, u tgbotapi.Update) error {
	if u.Message == nil || !u.Message.IsCommand() {
		return nil
	}
	m := u.Message
	name := m.Command()
	log.Debugf("received command: %s", name)

	reply := func(text string) error {
		return b.SendMessage(Message{ChatID: m.Chat.ID, MessageID: m.MessageID, Text: text})
	}

	switch name {
	case "help", "start":
		return reply(helpers.EscapeMarkdownV2(HelpText()))
	case "source":
		return reply(helpers.EscapeMarkdownV2(translation.Translate("📊 Statistics from the Ergast API: %s", b.Config.SourceURL)))
	}

	cmd, ok := findCommand(name)
	if !ok {
		return reply(helpers.EscapeMarkdownV2(HelpText()))
	}

	b.ack(m.Chat.ID)

	if b.Config.CommandTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.Config.CommandTimeout)
		defer cancel()
	}

	replies, err := b.run(ctx, cmd, strings.Fields(m.CommandArguments()))
	switch {
	case errors.Is(err, errUsage):
		b.report(name, OutcomeUsage)
		log.Debugf("command %s: %v", name, err)
		return reply(helpers.EscapeMarkdownV2(fmt.Sprintf("%s %s", translation.Translate("Usage:"), cmd.usage())))
	case err != nil:
		if errors.Is(err, commands.ErrNotFound) {
			b.report(name, OutcomeNotFound)
		} else {
			b.report(name, OutcomeError)
		}
		log.Errorf("command %s failed: %v", name, err)
		return reply(helpers.EscapeMarkdownV2(translation.Translate(cmd.Failure)))
	}

	b.report(name, OutcomeOK)
	return b.SendReplies(m.Chat.ID, m.MessageID, replies)
}

// run executes cmd and turns a panic into an error, so the user still gets
// the command's failure message.
func (b *Bot) run(ctx context.Context, cmd command, args []string) (replies []commands.Reply, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("Recovered from panic in %s: %v\nStack trace: %s", cmd.Name, r, debug.Stack())
			replies, err = nil, errors.Errorf("command %s panicked: %v", cmd.Name, r)
		}
	}()
	return cmd.Run(ctx, b.commands, args)
}

// ack shows the typing indicator while the command runs.
func (b *Bot) ack(chatID int64) {
	if _, err := b.sender.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
		log.Warnf("could not send chat action: %v", err)
	}
}

func (b *Bot) report(command, outcome string) {
	if b.observe != nil {
		b.observe(command, outcome)
	}
}
