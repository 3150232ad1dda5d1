// Package commands builds the replies for every bot command from cached
// statistics API responses.
package commands

import (
	"context"
	"sort"
	"time"

	"f1-telegram-bot/internal/chart"
	"f1-telegram-bot/internal/colors"
	"f1-telegram-bot/internal/ergast"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// ErrNotFound reports that the expected data is absent from the response or
// that the response does not have the expected shape.
var ErrNotFound = errors.New("data not found")

const footerText = "Data provided by Ergast API"

var medals = []string{"🥇", "🥈", "🥉"}

// Source returns raw payloads by request URL. *cache.Cache implements it.
type Source interface {
	Get(ctx context.Context, key string, forceRefresh bool) ([]byte, error)
}

// ChartRenderer draws standings charts.
type ChartRenderer func(opt chart.Options, bars []chart.Bar) ([]byte, error)

// Handler answers bot commands.
type Handler struct {
	source Source
	api    *ergast.Client
	now    func() time.Time
	render ChartRenderer
}

// Option configures a Handler.
type Option func(*Handler)

// WithClock replaces time.Now for countdowns and footers.
func WithClock(now func() time.Time) Option {
	return func(h *Handler) {
		h.now = now
	}
}

// WithChartRenderer replaces chart.RenderHorizontalBars.
func WithChartRenderer(r ChartRenderer) Option {
	return func(h *Handler) {
		h.render = r
	}
}

// New creates a Handler reading through source. api is only used to build
// request URLs.
func New(source Source, api *ergast.Client, opts ...Option) *Handler {
	h := &Handler{
		source: source,
		api:    api,
		now:    time.Now,
		render: chart.RenderHorizontalBars,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) fetch(ctx context.Context, url string, forceRefresh bool) (*ergast.Response, error) {
	payload, err := h.source.Get(ctx, url, forceRefresh)
	if err != nil {
		return nil, err
	}

	resp, err := ergast.Decode(payload)
	if err != nil {
		if log.IsLevelEnabled(log.DebugLevel) {
			log.Debugf("unexpected payload from %s:\n%s", url, spew.Sdump(payload))
		}
		return nil, errors.Wrapf(ErrNotFound, "%s: %v", url, err)
	}
	return resp, nil
}

func (h *Handler) footer(r *Reply) {
	r.Footer = footerText
	r.Timestamp = h.now()
}

func firstRace(resp *ergast.Response) (*ergast.Race, error) {
	if resp.MRData.RaceTable == nil || len(resp.MRData.RaceTable.Races) == 0 {
		return nil, errors.Wrap(ErrNotFound, "no race in response")
	}
	return &resp.MRData.RaceTable.Races[0], nil
}

func firstStandings(resp *ergast.Response) (*ergast.StandingsList, error) {
	if resp.MRData.StandingsTable == nil || len(resp.MRData.StandingsTable.StandingsLists) == 0 {
		return nil, errors.Wrap(ErrNotFound, "no standings in response")
	}
	return &resp.MRData.StandingsTable.StandingsLists[0], nil
}

// StandingRow is one line of a driver or constructor table.
type StandingRow struct {
	Rank        int
	DisplayName string
	GroupName   string
	Value       float64
	Color       colors.RGB
}

// chartBars orders rows by rank, best first, so the leader is drawn on top.
func chartBars(rows []StandingRow) []chart.Bar {
	sorted := make([]StandingRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Rank < sorted[j].Rank })

	bars := make([]chart.Bar, 0, len(sorted))
	for _, r := range sorted {
		bars = append(bars, chart.Bar{Label: r.DisplayName, Value: r.Value, Color: r.Color, Group: r.GroupName})
	}
	return bars
}

func medal(i int) string {
	if i < 0 || i >= len(medals) {
		return ""
	}
	return medals[i]
}

// Paginate splits rows into consecutive pages of at most size rows.
func Paginate[T any](rows []T, size int) [][]T {
	if size <= 0 {
		size = len(rows)
	}
	var pages [][]T
	for start := 0; start < len(rows); start += size {
		end := min(start+size, len(rows))
		pages = append(pages, rows[start:end])
	}
	return pages
}
