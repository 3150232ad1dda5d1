// Package ergast talks to the Ergast-compatible Formula 1 statistics API.
package ergast

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultBaseURL   = "https://api.jolpi.ca/ergast/f1"
	defaultUserAgent = "f1-telegram-bot/1.0"
	defaultTimeout   = 10 * time.Second
	maxBodySize      = 8 << 20
)

// Client builds request URLs and performs raw GETs. Responses are cached by
// URL elsewhere, so Client itself keeps no state between calls.
type Client struct {
	baseURL   string
	http      *http.Client
	userAgent string
}

// NewClient creates a client for baseURL. An empty baseURL selects
// DefaultBaseURL and a non-positive timeout selects the default.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrap(err, "invalid api base url")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.Errorf("invalid api base url scheme %q", u.Scheme)
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL:   strings.TrimRight(u.String(), "/"),
		http:      &http.Client{Timeout: timeout},
		userAgent: defaultUserAgent,
	}, nil
}

// RaceResultsURL is the results of one round of a season.
func (c *Client) RaceResultsURL(year, round int) string {
	return fmt.Sprintf("%s/%d/%d/results.json", c.baseURL, year, round)
}

// DriverStandingsURL is the final or current driver standings of a season.
func (c *Client) DriverStandingsURL(year int) string {
	return fmt.Sprintf("%s/%d/driverStandings.json", c.baseURL, year)
}

// ConstructorStandingsURL is the constructor standings of a season.
func (c *Client) ConstructorStandingsURL(year int) string {
	return fmt.Sprintf("%s/%d/constructorStandings.json", c.baseURL, year)
}

// NextRaceURL is the next scheduled race of the current season.
func (c *Client) NextRaceURL() string {
	return c.baseURL + "/current/next.json"
}

// DriverURL looks a driver up by id.
func (c *Client) DriverURL(driverID string) string {
	return fmt.Sprintf("%s/drivers/%s.json", c.baseURL, url.PathEscape(driverID))
}

// ChampionshipsURL lists the seasons a driver finished first; MRData.total
// is the championship count.
func (c *Client) ChampionshipsURL(driverID string) string {
	return fmt.Sprintf("%s/drivers/%s/driverStandings/1.json", c.baseURL, url.PathEscape(driverID))
}

// Fetch GETs rawURL and returns the body once it is known to be JSON.
func (c *Client) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "could not build request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	log.Debugf("GET %s", rawURL)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "GET %s", rawURL)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", rawURL)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
	}
	if !json.Valid(body) {
		return nil, errors.Errorf("malformed json from %s", rawURL)
	}
	return body, nil
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return "unexpected status " + strconv.Itoa(e.StatusCode) + " from " + e.URL
}

// Decode unmarshals a payload into a Response.
func Decode(payload []byte) (*Response, error) {
	var r Response
	if err := json.Unmarshal(payload, &r); err != nil {
		return nil, errors.Wrap(err, "could not decode response")
	}
	return &r, nil
}
