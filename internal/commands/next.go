package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"f1-telegram-bot/internal/colors"
	"f1-telegram-bot/internal/ergast"
	"f1-telegram-bot/lib/helpers"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	nextEventColor = colors.RGB(0x00FF00)
	raceStarted    = "🏁 Race has started or completed"
	sessionDone    = "✅"
	sessionPending = "⏳"
)

// SessionTime is one session of a race weekend.
type SessionTime struct {
	Label string
	Start time.Time
}

// NextEvent answers /next_event with a countdown to the race start and the
// weekend schedule. It always bypasses the cache.
func (h *Handler) NextEvent(ctx context.Context) ([]Reply, error) {
	log.Debug("processing command next_event")

	resp, err := h.fetch(ctx, h.api.NextRaceURL(), true)
	if err != nil {
		return nil, errors.Wrap(err, "next event")
	}
	race, err := firstRace(resp)
	if err != nil {
		return nil, errors.Wrap(err, "next event")
	}
	start, err := race.Start()
	if err != nil {
		return nil, errors.Wrapf(ErrNotFound, "next event: %v", err)
	}

	now := h.now().UTC()
	loc := race.Circuit.Location
	place := strings.Join(nonEmpty(race.Circuit.CircuitName, loc.Locality, loc.Country), ", ")

	reply := Reply{
		Title:       "📅 Next F1 Event: " + race.RaceName,
		URL:         race.URL,
		Color:       nextEventColor,
		Description: fmt.Sprintf("%s\n\n📍 Circuit: %s 🏎️", Countdown(start, now), place),
	}
	for _, s := range Sessions(race, start) {
		marker := sessionPending
		if s.Start.Before(now) {
			marker = sessionDone
		}
		reply.AddField(
			fmt.Sprintf("%s %s", marker, s.Label),
			fmt.Sprintf("%s (%s)", helpers.FormatUTC(s.Start), humanize.RelTime(s.Start, now, "ago", "from now")),
			true,
		)
	}
	h.footer(&reply)
	return []Reply{reply}, nil
}

// Countdown formats the time left until start, or the started message once
// start is not in the future.
func Countdown(start, now time.Time) string {
	left := start.Sub(now)
	if left <= 0 {
		return raceStarted
	}

	days := left / (24 * time.Hour)
	left -= days * 24 * time.Hour
	hours := left / time.Hour
	left -= hours * time.Hour
	minutes := left / time.Minute
	left -= minutes * time.Minute
	seconds := left / time.Second

	return fmt.Sprintf("🕒 Countdown: %dd %dh %dm %ds", days, hours, minutes, seconds)
}

// Sessions lists the weekend sessions present in race in running order,
// ending with the race itself. Sessions with unreadable times are left out.
func Sessions(race *ergast.Race, raceStart time.Time) []SessionTime {
	candidates := []struct {
		label   string
		session *ergast.Session
	}{
		{"Practice 1", race.FirstPractice},
		{"Practice 2", race.SecondPractice},
		{"Practice 3", race.ThirdPractice},
		{"Qualifying", race.Qualifying},
		{"Sprint", race.Sprint},
	}

	var sessions []SessionTime
	for _, c := range candidates {
		if c.session == nil {
			continue
		}
		start, err := c.session.Start()
		if err != nil {
			log.Debugf("skipping %s: %v", c.label, err)
			continue
		}
		sessions = append(sessions, SessionTime{Label: c.label, Start: start})
	}
	return append(sessions, SessionTime{Label: "Race", Start: raceStart})
}

func nonEmpty(values ...string) []string {
	out := values[:0]
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}
