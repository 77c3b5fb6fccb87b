package weatherflowrest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultBaseURL is the public WeatherFlow REST endpoint.
const DefaultBaseURL = "https://swd.weatherflow.com/swd/rest"

// APIError carries the HTTP status of a failed REST call.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("weatherflowrest: unexpected status %d: %s", e.StatusCode, e.Body)
}

// IsAuth reports whether the failure means the access token is no longer
// valid and the user must re-authenticate.
func (e *APIError) IsAuth() bool { return e.StatusCode == http.StatusUnauthorized }

// Client is a token-authenticated WeatherFlow REST API client.
type Client struct {
	token      string
	baseURL    string
	httpClient *http.Client
}

type ClientOption func(*Client)

func WithBaseURL(url string) ClientOption {
	return func(c *Client) { c.baseURL = url }
}

func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

func NewClient(token string, opts ...ClientOption) *Client {
	c := &Client{
		token:   token,
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetStations lists the stations the token grants access to.
func (c *Client) GetStations(ctx context.Context) ([]Station, error) {
	var resp stationsResponse
	if err := c.get(ctx, "/stations", &resp); err != nil {
		return nil, err
	}
	return resp.Stations, nil
}

// GetObservations fetches the most-recent-first observation list for one
// station.
func (c *Client) GetObservations(ctx context.Context, stationID int) ([]Observation, error) {
	var resp observationsResponse
	if err := c.get(ctx, fmt.Sprintf("/observations/station/%d", stationID), &resp); err != nil {
		return nil, err
	}
	return resp.Obs, nil
}

// GetAllData fetches every accessible station together with its latest
// observations, keyed by station id.
func (c *Client) GetAllData(ctx context.Context) (map[int]*StationData, error) {
	stations, err := c.GetStations(ctx)
	if err != nil {
		return nil, err
	}
	data := make(map[int]*StationData, len(stations))
	for _, station := range stations {
		obs, err := c.GetObservations(ctx, station.StationID)
		if err != nil {
			return nil, err
		}
		data[station.StationID] = &StationData{
			Station:      station,
			Observations: obs,
		}
	}
	return data, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
