package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"f1-telegram-bot/internal/chart"
	"f1-telegram-bot/internal/colors"
	"f1-telegram-bot/internal/ergast"
	"f1-telegram-bot/internal/progress"
	"f1-telegram-bot/lib/helpers"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	driverChartSize       = 15
	constructorChartSize  = 10
	fallbackListSize      = 10
	fallbackMaxPoints     = 100
	unknownTeam           = "Unknown Team"
	standingsColor        = colors.RGB(0x1E90FF)
	constructorColor      = colors.RGB(0xFFD700)
	driverStandingsImage  = "driver_standings.png"
	constructorChartImage = "team_standings.png"
)

// DriverStandings answers /standings_drivers with a points chart, the top
// three and, when available, the championship count of the best placed
// champion among them. Without a chart it answers with a top ten list.
func (h *Handler) DriverStandings(ctx context.Context, year int) ([]Reply, error) {
	log.Debugf("processing command standings_drivers with argument: %d", year)

	resp, err := h.fetch(ctx, h.api.DriverStandingsURL(year), false)
	if err != nil {
		return nil, errors.Wrap(err, "driver standings")
	}
	list, err := firstStandings(resp)
	if err != nil {
		return nil, errors.Wrap(err, "driver standings")
	}
	standings := list.DriverStandings
	if len(standings) == 0 {
		return nil, errors.Wrap(ErrNotFound, "driver standings: empty table")
	}

	img, err := h.driverChart(year, standings)
	if err != nil {
		log.Warnf("driver standings chart for %d failed, sending text: %v", year, err)
		return []Reply{h.driverFallback(year, standings)}, nil
	}

	reply := Reply{
		Title:       fmt.Sprintf("🏎️ %d Formula 1 Driver Championship", year),
		Description: fmt.Sprintf("Points standings for the %d F1 season", year),
		Color:       standingsColor,
		Image:       img,
		ImageName:   driverStandingsImage,
	}
	for i, s := range standings[:min(len(medals), len(standings))] {
		reply.AddField(
			fmt.Sprintf("%s #%s %s", medal(i), s.Position, s.Driver.FullName()),
			fmt.Sprintf("%s points (%s)", formatPoints(s.Points), s.Team(unknownTeam)),
			true,
		)
	}

	if name, count, ok := h.firstChampion(ctx, standings[:min(len(medals), len(standings))]); ok {
		reply.AddField("🏆 Championships", fmt.Sprintf("%s: %d", name, count), false)
	}

	h.footer(&reply)
	return []Reply{reply}, nil
}

func (h *Handler) driverChart(year int, standings []ergast.DriverStanding) ([]byte, error) {
	rows := make([]StandingRow, 0, driverChartSize)
	for i, s := range standings[:min(driverChartSize, len(standings))] {
		points, err := ergast.Number(s.Points)
		if err != nil {
			return nil, errors.Wrapf(err, "points of %s", s.Driver.DriverID)
		}
		team := s.Team(unknownTeam)
		rows = append(rows, StandingRow{
			Rank:        rank(s.Position, i),
			DisplayName: s.Driver.ShortName(),
			GroupName:   team,
			Value:       points,
			Color:       colors.Resolve(team),
		})
	}

	return h.render(chart.Options{
		Title:  fmt.Sprintf("%d Formula 1 Driver Standings", year),
		XLabel: "Points",
	}, chartBars(rows))
}

func (h *Handler) driverFallback(year int, standings []ergast.DriverStanding) Reply {
	var lines []string
	for _, s := range standings[:min(fallbackListSize, len(standings))] {
		lines = append(lines, fmt.Sprintf("#%s %s (%s) - %s pts 🏅",
			s.Position, s.Driver.FullName(), s.Team(unknownTeam), formatPoints(s.Points)))
	}
	reply := Reply{
		Title:       fmt.Sprintf("🏎️ %d Driver Standings", year),
		Description: strings.Join(lines, "\n"),
		Color:       standingsColor,
	}
	h.footer(&reply)
	return reply
}

// championshipLookup is the outcome of the best-effort title count query.
type championshipLookup struct {
	count int
	err   error
}

func (h *Handler) championships(ctx context.Context, driverID string) championshipLookup {
	if driverID == "" {
		return championshipLookup{err: errors.Wrap(ErrNotFound, "driver without id")}
	}
	resp, err := h.fetch(ctx, h.api.ChampionshipsURL(driverID), false)
	if err != nil {
		return championshipLookup{err: err}
	}
	count, err := strconv.Atoi(strings.TrimSpace(resp.MRData.Total))
	if err != nil {
		return championshipLookup{err: errors.Wrapf(ErrNotFound, "championship total %q", resp.MRData.Total)}
	}
	return championshipLookup{count: count}
}

// firstChampion returns the first driver in order with at least one title.
// Failed lookups are skipped; they only cost the bonus field.
func (h *Handler) firstChampion(ctx context.Context, standings []ergast.DriverStanding) (string, int, bool) {
	for _, s := range standings {
		res := h.championships(ctx, s.Driver.DriverID)
		if res.err != nil {
			if ctx.Err() != nil {
				return "", 0, false
			}
			log.Debugf("championship lookup for %s skipped: %v", s.Driver.DriverID, res.err)
			continue
		}
		if res.count > 0 {
			return s.Driver.FullName(), res.count, true
		}
	}
	return "", 0, false
}

// ConstructorStandings answers /standings_teams with a points chart and the
// top three teams, or a top ten list with bars relative to the leader.
func (h *Handler) ConstructorStandings(ctx context.Context, year int) ([]Reply, error) {
	log.Debugf("processing command standings_teams with argument: %d", year)

	resp, err := h.fetch(ctx, h.api.ConstructorStandingsURL(year), false)
	if err != nil {
		return nil, errors.Wrap(err, "constructor standings")
	}
	list, err := firstStandings(resp)
	if err != nil {
		return nil, errors.Wrap(err, "constructor standings")
	}
	standings := list.ConstructorStandings
	if len(standings) == 0 {
		return nil, errors.Wrap(ErrNotFound, "constructor standings: empty table")
	}

	img, err := h.constructorChart(year, standings)
	if err != nil {
		log.Warnf("constructor standings chart for %d failed, sending text: %v", year, err)
		return []Reply{h.constructorFallback(year, standings)}, nil
	}

	reply := Reply{
		Title:       fmt.Sprintf("🏁 %d Constructor Standings", year),
		Description: fmt.Sprintf("Team standings for the %d Formula 1 season", year),
		Color:       constructorColor,
		Image:       img,
		ImageName:   constructorChartImage,
	}
	for i, s := range standings[:min(len(medals), len(standings))] {
		reply.AddField(
			fmt.Sprintf("%s #%s %s", medal(i), s.Position, s.Constructor.Name),
			fmt.Sprintf("%s points", formatPoints(s.Points)),
			true,
		)
	}
	h.footer(&reply)
	return []Reply{reply}, nil
}

func (h *Handler) constructorChart(year int, standings []ergast.ConstructorStanding) ([]byte, error) {
	rows := make([]StandingRow, 0, constructorChartSize)
	for i, s := range standings[:min(constructorChartSize, len(standings))] {
		points, err := ergast.Number(s.Points)
		if err != nil {
			return nil, errors.Wrapf(err, "points of %s", s.Constructor.ConstructorID)
		}
		rows = append(rows, StandingRow{
			Rank:        rank(s.Position, i),
			DisplayName: s.Constructor.Name,
			Value:       points,
			Color:       colors.Resolve(s.Constructor.Name),
		})
	}

	return h.render(chart.Options{
		Title:  fmt.Sprintf("%d Formula 1 Constructor Standings", year),
		XLabel: "Points",
	}, chartBars(rows))
}

func (h *Handler) constructorFallback(year int, standings []ergast.ConstructorStanding) Reply {
	leader, err := ergast.Number(standings[0].Points)
	if err != nil || leader <= 0 {
		leader = fallbackMaxPoints
	}

	var lines []string
	for _, s := range standings[:min(fallbackListSize, len(standings))] {
		points, err := ergast.Number(s.Points)
		if err != nil {
			points = 0
		}
		lines = append(lines, fmt.Sprintf("#%s %s - %s pts\n%s",
			s.Position, s.Constructor.Name, formatPoints(s.Points),
			progress.PercentageBar(points, leader, progress.DefaultWidth)))
	}

	reply := Reply{
		Title:       fmt.Sprintf("🏁 %d Constructor Standings", year),
		Description: strings.Join(lines, "\n\n"),
		Color:       constructorColor,
	}
	h.footer(&reply)
	return reply
}

func rank(position string, index int) int {
	if n, err := strconv.Atoi(strings.TrimSpace(position)); err == nil && n >= 1 {
		return n
	}
	return index + 1
}

// formatPoints groups thousands and keeps non-numeric values as sent.
func formatPoints(points string) string {
	v, err := ergast.Number(points)
	if err != nil {
		return points
	}
	return helpers.FormatPoints(v)
}
