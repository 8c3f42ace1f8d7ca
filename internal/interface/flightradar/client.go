package flightradar

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"flight-history-collector/internal/domain/entity"
	"flight-history-collector/internal/infrastructure/fetch"
	"flight-history-collector/pkg/logger"
)

const (
	DefaultSiteURL = "https://www.flightradar24.com"
	DefaultAPIURL  = "https://api.flightradar24.com"

	flightListPath = "/common/v1/flight/list.json"
	airportPath    = "/common/v1/airport.json"
	aircraftPath   = "/data/aircraft/"
	airlinesPath   = "/data/airlines"
	loginPath      = "/user/login"
)

// FlightListQuery selects one page of an aircraft's history
type FlightListQuery struct {
	Registration string
	Page         int
	Limit        int
	OlderThan    string
	Timestamp    int64
	Token        string
}

// ScheduleQuery selects one page of an airport board
type ScheduleQuery struct {
	Code      string
	Direction entity.Direction
	Page      int
	Limit     int
	Timestamp int64
	Token     string
}

// Client talks to the provider's JSON API and HTML directory pages
type Client struct {
	fetch   fetch.Doer
	siteURL string
	apiURL  string
	logger  logger.Logger
}

// NewClient creates a provider client. Empty URLs use the public endpoints.
func NewClient(doer fetch.Doer, siteURL, apiURL string, logger logger.Logger) *Client {
	if siteURL == "" {
		siteURL = DefaultSiteURL
	}
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	return &Client{
		fetch:   doer,
		siteURL: strings.TrimRight(siteURL, "/"),
		apiURL:  strings.TrimRight(apiURL, "/"),
		logger:  logger,
	}
}

// LoginURL is the session login endpoint
func (c *Client) LoginURL() string {
	return c.siteURL + loginPath
}

// FlightList fetches one page of an aircraft's movement history
func (c *Client) FlightList(ctx context.Context, q FlightListQuery) (*FlightList, error) {
	params := url.Values{
		"query":   {q.Registration},
		"fetchBy": {"reg"},
		"page":    {strconv.Itoa(q.Page)},
		"limit":   {strconv.Itoa(q.Limit)},
	}
	if q.Token != "" {
		params.Set("token", q.Token)
	}
	if q.Timestamp != 0 {
		params.Set("timestamp", strconv.FormatInt(q.Timestamp, 10))
	}
	if q.OlderThan != "" {
		// provider spelling
		params.Set("olderThenFlightId", q.OlderThan)
	}

	resp, err := c.fetch.Fetch(ctx, fetch.Get(c.apiURL+flightListPath, params))
	if err != nil {
		return nil, err
	}

	var envelope FlightListResponse
	if err := json.Unmarshal(resp.Body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode flight list for %s: %w", q.Registration, err)
	}
	if envelope.Result.Response == nil {
		return nil, &entity.UnexpectedPayloadError{Target: q.Registration, Field: "result.response"}
	}
	return envelope.Result.Response, nil
}

// AirportSchedule fetches one page of an airport board along with the airport's details
func (c *Client) AirportSchedule(ctx context.Context, q ScheduleQuery) (*ScheduleBoard, *AirportDetails, error) {
	mode := q.Direction.String()
	params := url.Values{
		"code":                                {q.Code},
		"plugin[]":                            {"schedule", "details"},
		"plugin-setting[schedule][mode]":      {mode},
		"plugin-setting[schedule][timestamp]": {strconv.FormatInt(q.Timestamp, 10)},
		"page":                                {strconv.Itoa(q.Page)},
		"limit":                               {strconv.Itoa(q.Limit)},
	}
	if q.Token != "" {
		params.Set("token", q.Token)
	}

	resp, err := c.fetch.Fetch(ctx, fetch.Get(c.apiURL+airportPath, params))
	if err != nil {
		return nil, nil, err
	}

	var envelope AirportResponse
	if err := json.Unmarshal(resp.Body, &envelope); err != nil {
		return nil, nil, fmt.Errorf("failed to decode %s board for %s: %w", mode, q.Code, err)
	}

	response := envelope.Result.Response
	if response == nil || response.Airport == nil {
		return nil, nil, &entity.UnexpectedPayloadError{Target: q.Code, Field: "result.response.airport"}
	}
	plugins := response.Airport.PluginData
	if plugins.Schedule == nil {
		return nil, nil, &entity.UnexpectedPayloadError{Target: q.Code, Field: "pluginData.schedule"}
	}

	board := plugins.Schedule.Arrivals
	if q.Direction == entity.Departures {
		board = plugins.Schedule.Departures
	}
	if board == nil {
		return nil, nil, &entity.UnexpectedPayloadError{Target: q.Code, Field: "pluginData.schedule." + mode}
	}
	return board, plugins.Details, nil
}

// AircraftExists checks the aircraft page without following redirects.
// The provider redirects unknown registrations to its search page.
func (c *Client) AircraftExists(ctx context.Context, registration string) error {
	req := fetch.Get(c.siteURL+aircraftPath+url.PathEscape(registration), nil)
	req.FollowRedirects = false

	resp, err := c.fetch.Fetch(ctx, req)
	if err != nil {
		return err
	}
	if resp.StatusCode == http.StatusFound || resp.StatusCode == http.StatusMovedPermanently {
		return &entity.NotFoundError{Identifier: registration}
	}
	return nil
}
