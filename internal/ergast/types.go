package ergast

import (
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Response is the envelope every endpoint returns. Numbers are sent as
// strings by the API and are kept that way here.
type Response struct {
	MRData MRData `json:"MRData"`
}

type MRData struct {
	Series         string          `json:"series"`
	Limit          string          `json:"limit"`
	Offset         string          `json:"offset"`
	Total          string          `json:"total"`
	RaceTable      *RaceTable      `json:"RaceTable,omitempty"`
	StandingsTable *StandingsTable `json:"StandingsTable,omitempty"`
	DriverTable    *DriverTable    `json:"DriverTable,omitempty"`
}

type RaceTable struct {
	Season string `json:"season"`
	Round  string `json:"round"`
	Races  []Race `json:"Races"`
}

type Race struct {
	Season         string   `json:"season"`
	Round          string   `json:"round"`
	URL            string   `json:"url"`
	RaceName       string   `json:"raceName"`
	Circuit        Circuit  `json:"Circuit"`
	Date           string   `json:"date"`
	Time           string   `json:"time"`
	FirstPractice  *Session `json:"FirstPractice,omitempty"`
	SecondPractice *Session `json:"SecondPractice,omitempty"`
	ThirdPractice  *Session `json:"ThirdPractice,omitempty"`
	Qualifying     *Session `json:"Qualifying,omitempty"`
	Sprint         *Session `json:"Sprint,omitempty"`
	Results        []Result `json:"Results"`
}

// Start is the race start in UTC.
func (r Race) Start() (time.Time, error) {
	return ParseInstant(r.Date, r.Time)
}

type Circuit struct {
	CircuitID   string   `json:"circuitId"`
	URL         string   `json:"url"`
	CircuitName string   `json:"circuitName"`
	Location    Location `json:"Location"`
}

type Location struct {
	Lat      string `json:"lat"`
	Long     string `json:"long"`
	Locality string `json:"locality"`
	Country  string `json:"country"`
}

type Session struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

// Start is the session start in UTC.
func (s Session) Start() (time.Time, error) {
	return ParseInstant(s.Date, s.Time)
}

type Result struct {
	Number       string      `json:"number"`
	Position     string      `json:"position"`
	PositionText string      `json:"positionText"`
	Points       string      `json:"points"`
	Driver       Driver      `json:"Driver"`
	Constructor  Constructor `json:"Constructor"`
	Grid         string      `json:"grid"`
	Laps         string      `json:"laps"`
	Status       string      `json:"status"`
	Time         *Timing     `json:"Time,omitempty"`
	FastestLap   *FastestLap `json:"FastestLap,omitempty"`
}

type Timing struct {
	Millis string `json:"millis"`
	Time   string `json:"time"`
}

type FastestLap struct {
	Rank string  `json:"rank"`
	Lap  string  `json:"lap"`
	Time *Timing `json:"Time,omitempty"`
}

type Driver struct {
	DriverID        string `json:"driverId"`
	PermanentNumber string `json:"permanentNumber"`
	Code            string `json:"code"`
	URL             string `json:"url"`
	GivenName       string `json:"givenName"`
	FamilyName      string `json:"familyName"`
	DateOfBirth     string `json:"dateOfBirth"`
	Nationality     string `json:"nationality"`
}

// FullName is "Given Family".
func (d Driver) FullName() string {
	return strings.TrimSpace(d.GivenName + " " + d.FamilyName)
}

// ShortName is "G. Family", used for chart labels.
func (d Driver) ShortName() string {
	given := []rune(d.GivenName)
	if len(given) == 0 {
		return d.FamilyName
	}
	return string(given[0]) + ". " + d.FamilyName
}

type Constructor struct {
	ConstructorID string `json:"constructorId"`
	URL           string `json:"url"`
	Name          string `json:"name"`
	Nationality   string `json:"nationality"`
}

type StandingsTable struct {
	Season         string          `json:"season"`
	StandingsLists []StandingsList `json:"StandingsLists"`
}

type StandingsList struct {
	Season               string                `json:"season"`
	Round                string                `json:"round"`
	DriverStandings      []DriverStanding      `json:"DriverStandings"`
	ConstructorStandings []ConstructorStanding `json:"ConstructorStandings"`
}

type DriverStanding struct {
	Position     string        `json:"position"`
	PositionText string        `json:"positionText"`
	Points       string        `json:"points"`
	Wins         string        `json:"wins"`
	Driver       Driver        `json:"Driver"`
	Constructors []Constructor `json:"Constructors"`
}

// Team is the first constructor listed for the driver, or fallback.
func (s DriverStanding) Team(fallback string) string {
	if len(s.Constructors) == 0 || s.Constructors[0].Name == "" {
		return fallback
	}
	return s.Constructors[0].Name
}

type ConstructorStanding struct {
	Position     string      `json:"position"`
	PositionText string      `json:"positionText"`
	Points       string      `json:"points"`
	Wins         string      `json:"wins"`
	Constructor  Constructor `json:"Constructor"`
}

type DriverTable struct {
	DriverID string   `json:"driverId"`
	Drivers  []Driver `json:"Drivers"`
}

// ParseInstant combines the API's separate date and time fields. A missing
// time means midnight UTC.
func ParseInstant(date, clock string) (time.Time, error) {
	clock = strings.TrimSuffix(strings.TrimSpace(clock), "Z")
	if clock == "" {
		clock = "00:00:00"
	}
	t, err := time.Parse("2006-01-02T15:04:05", strings.TrimSpace(date)+"T"+clock)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "invalid date %q time %q", date, clock)
	}
	return t.UTC(), nil
}

// Number parses one of the API's numeric strings.
func Number(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}
