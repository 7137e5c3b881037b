package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"vidyutmitra/internal/observability/metrics"
)

const defaultBaseURL = "https://api.openweathermap.org"

// Snapshot is the current weather at a location. It feeds report
// prompts as context only.
type Snapshot struct {
	City        string  `json:"city"`
	TempC       float64 `json:"tempC"`
	Humidity    float64 `json:"humidity"`
	Condition   string  `json:"condition"`
	Description string  `json:"description"`
}

// Client is a minimal OpenWeather-compatible REST client.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewClient constructs a weather client.
func NewClient(baseURL, apiKey string) (*Client, error) {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if apiKey == "" {
		return nil, errors.New("weather: empty api key")
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
	}, nil
}

type currentResponse struct {
	Name string `json:"name"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
}

// Current returns the current conditions at the given coordinates.
func (c *Client) Current(ctx context.Context, lat, lon float64) (Snapshot, error) {
	if c == nil {
		return Snapshot{}, errors.New("weather: nil client")
	}

	endpoint := fmt.Sprintf("%s/data/2.5/weather?lat=%s&lon=%s&appid=%s&units=metric",
		c.baseURL,
		url.QueryEscape(fmt.Sprintf("%g", lat)),
		url.QueryEscape(fmt.Sprintf("%g", lon)),
		url.QueryEscape(c.apiKey),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Snapshot{}, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		metrics.IncWeatherCall("error")
		return Snapshot{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		metrics.IncWeatherCall("error")
		return Snapshot{}, fmt.Errorf("weather: status %d", resp.StatusCode)
	}

	var decoded currentResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		metrics.IncWeatherCall("error")
		return Snapshot{}, err
	}
	metrics.IncWeatherCall("success")

	snapshot := Snapshot{
		City:     decoded.Name,
		TempC:    decoded.Main.Temp,
		Humidity: decoded.Main.Humidity,
	}
	if len(decoded.Weather) > 0 {
		snapshot.Condition = decoded.Weather[0].Main
		snapshot.Description = decoded.Weather[0].Description
	}
	return snapshot, nil
}
