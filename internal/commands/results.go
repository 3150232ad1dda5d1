package commands

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"f1-telegram-bot/internal/colors"
	"f1-telegram-bot/internal/ergast"
	"f1-telegram-bot/internal/progress"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// ResultsPageSize is the number of classified drivers per result message.
const ResultsPageSize = 7

// RaceResultRow is one classified driver of a race.
type RaceResultRow struct {
	Position       int
	PositionText   string
	Driver         string
	Team           string
	TimeOrStatus   string
	FastestLap     bool
	FastestLapTime string
	Color          colors.RGB
}

// RaceResults answers /race_results: a summary with the podium and the
// fastest lap followed by the full classification in pages.
func (h *Handler) RaceResults(ctx context.Context, year, round int) ([]Reply, error) {
	log.Debugf("processing command race_results with arguments: %d %d", year, round)

	resp, err := h.fetch(ctx, h.api.RaceResultsURL(year, round), false)
	if err != nil {
		return nil, errors.Wrap(err, "race results")
	}
	race, err := firstRace(resp)
	if err != nil {
		return nil, errors.Wrap(err, "race results")
	}
	if len(race.Results) == 0 {
		return nil, errors.Wrap(ErrNotFound, "race results: race has no results")
	}

	rows := raceRows(race.Results)

	summary := Reply{
		Title: fmt.Sprintf("🏁 %s %d", race.RaceName, year),
		Description: fmt.Sprintf("📍 Circuit: %s, %s\n📅 Date: %s",
			race.Circuit.CircuitName, race.Circuit.Location.Country, race.Date),
		Color: colors.Default,
		URL:   race.URL,
	}
	if podium := Podium(rows); len(podium) > 0 {
		summary.AddField("🏆 Podium", strings.Join(podium, "\n"), false)
	}
	if fl, ok := FastestLap(rows); ok {
		summary.AddField("⚡ Fastest Lap", fmt.Sprintf("%s - %s", fl.Driver, fl.FastestLapTime), false)
	}
	h.footer(&summary)

	replies := []Reply{summary}
	for _, page := range Paginate(rows, ResultsPageSize) {
		replies = append(replies, resultsPage(page, len(rows)))
	}
	return replies, nil
}

func raceRows(results []ergast.Result) []RaceResultRow {
	rows := make([]RaceResultRow, 0, len(results))
	for i, r := range results {
		position, err := strconv.Atoi(strings.TrimSpace(r.Position))
		if err != nil || position < 1 {
			// keep the API order for entries without a numeric position
			position = i + 1
		}

		row := RaceResultRow{
			Position:     position,
			PositionText: r.PositionText,
			Driver:       r.Driver.FullName(),
			Team:         r.Constructor.Name,
			Color:        colors.Resolve(r.Constructor.Name),
		}

		switch {
		case r.Time != nil && r.Time.Time != "":
			row.TimeOrStatus = r.Time.Time
		case r.Status != "":
			row.TimeOrStatus = "⚠️ " + r.Status
		default:
			row.TimeOrStatus = "N/A"
		}

		if r.FastestLap != nil && strings.TrimSpace(r.FastestLap.Rank) == "1" {
			row.FastestLap = true
			if r.FastestLap.Time != nil {
				row.FastestLapTime = r.FastestLap.Time.Time
			}
		}

		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Position < rows[j].Position
	})
	return rows
}

// Podium lists the drivers classified 1st to 3rd in order, each prefixed
// with its medal.
func Podium(rows []RaceResultRow) []string {
	var lines []string
	for _, r := range rows {
		if r.Position < 1 || r.Position > len(medals) {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s %s (%s)", medal(r.Position-1), r.Driver, r.Team))
	}
	return lines
}

// FastestLap returns the driver ranked first on fastest lap, if the API
// reported one with a lap time.
func FastestLap(rows []RaceResultRow) (RaceResultRow, bool) {
	for _, r := range rows {
		if r.FastestLap && r.FastestLapTime != "" {
			return r, true
		}
	}
	return RaceResultRow{}, false
}

// Label is the row title: the classified position and driver, followed by
// the non-finish marker ("R" retired, "D" disqualified, "W" withdrawn, ...)
// when the API reports one instead of a position.
func (r RaceResultRow) Label() string {
	label := fmt.Sprintf("%d. %s", r.Position, r.Driver)
	marker := strings.TrimSpace(r.PositionText)
	if _, err := strconv.Atoi(marker); err != nil && marker != "" {
		label += " (" + marker + ")"
	}
	return label
}

// resultsPage takes its color from the best placed driver of the page.
func resultsPage(page []RaceResultRow, total int) Reply {
	reply := Reply{
		Title: fmt.Sprintf("Positions %d-%d", page[0].Position, page[len(page)-1].Position),
		Color: page[0].Color,
	}
	for _, r := range page {
		reply.AddField(
			r.Label(),
			fmt.Sprintf("%s\n⏱️ %s\n%s", r.Team, r.TimeOrStatus, progress.RankBar(r.Position, total, progress.DefaultWidth)),
			true,
		)
	}
	return reply
}
