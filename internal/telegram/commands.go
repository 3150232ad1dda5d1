package telegram

import (
	"context"
	"strconv"
	"strings"

	"f1-telegram-bot/internal/commands"
	"f1-telegram-bot/lib/translation"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
)

var errUsage = errors.New("invalid command arguments")

type command struct {
	Name        string
	Args        string
	Description string
	Failure     string
	Run         func(ctx context.Context, c Commands, args []string) ([]commands.Reply, error)
}

var commandList = []command{
	{
		Name:        "race_results",
		Args:        "<year> <round>",
		Description: "Race results for a season round",
		Failure:     "❌ Could not fetch race results. Please check the year and round number.",
		Run: func(ctx context.Context, c Commands, args []string) ([]commands.Reply, error) {
			if len(args) != 2 {
				return nil, errUsage
			}
			year, err := parsePositive(args[0])
			if err != nil {
				return nil, err
			}
			round, err := parsePositive(args[1])
			if err != nil {
				return nil, err
			}
			return c.RaceResults(ctx, year, round)
		},
	},
	{
		Name:        "standings_drivers",
		Args:        "<year>",
		Description: "Driver championship standings with chart",
		Failure:     "❌ Could not fetch driver standings. Please check the year.",
		Run: func(ctx context.Context, c Commands, args []string) ([]commands.Reply, error) {
			if len(args) != 1 {
				return nil, errUsage
			}
			year, err := parsePositive(args[0])
			if err != nil {
				return nil, err
			}
			return c.DriverStandings(ctx, year)
		},
	},
	{
		Name:        "standings_teams",
		Args:        "<year>",
		Description: "Constructor championship standings with chart",
		Failure:     "❌ Could not fetch constructor standings. Please check the year.",
		Run: func(ctx context.Context, c Commands, args []string) ([]commands.Reply, error) {
			if len(args) != 1 {
				return nil, errUsage
			}
			year, err := parsePositive(args[0])
			if err != nil {
				return nil, err
			}
			return c.ConstructorStandings(ctx, year)
		},
	},
	{
		Name:        "next_event",
		Description: "Countdown and schedule of the next race weekend",
		Failure:     "❌ Could not fetch the next race details.",
		Run: func(ctx context.Context, c Commands, _ []string) ([]commands.Reply, error) {
			return c.NextEvent(ctx)
		},
	},
	{
		Name:        "driver_lookup",
		Args:        "<name>",
		Description: "Driver profile by name or id",
		Failure:     "❌ Could not find the driver. Check the name and try again.",
		Run: func(ctx context.Context, c Commands, args []string) ([]commands.Reply, error) {
			if len(args) == 0 {
				return nil, errUsage
			}
			return c.DriverLookup(ctx, strings.Join(args, " "))
		},
	},
}

func findCommand(name string) (command, bool) {
	for _, c := range commandList {
		if c.Name == name {
			return c, true
		}
	}
	return command{}, false
}

func parsePositive(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, errors.Wrapf(errUsage, "%q is not a positive number", s)
	}
	return n, nil
}

func (c command) usage() string {
	usage := "/" + c.Name
	if c.Args != "" {
		usage += " " + c.Args
	}
	return usage
}

// HelpText lists every command with its arguments.
func HelpText() string {
	var b strings.Builder
	b.WriteString(translation.Translate("🏎️ Formula 1 statistics bot. Commands:"))
	for _, c := range commandList {
		b.WriteString("\n")
		b.WriteString(c.usage())
		b.WriteString(" - ")
		b.WriteString(translation.Translate(c.Description))
	}
	return b.String()
}

// BotCommands is the command menu registered with Telegram.
func BotCommands() []tgbotapi.BotCommand {
	out := make([]tgbotapi.BotCommand, 0, len(commandList))
	for _, c := range commandList {
		out = append(out, tgbotapi.BotCommand{Command: c.Name, Description: translation.Translate(c.Description)})
	}
	return out
}
