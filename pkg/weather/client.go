package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultBaseURL = "https://api.open-meteo.com/v1/forecast"

	// Fallback day window when the provider omits sunrise/sunset.
	sunriseHour = 6
	sunsetHour  = 18

	// Number of hourly forecast entries surfaced per refresh.
	timeSlots = 23

	hourlyLayout = "2006-01-02T15:04"
	dailyLayout  = "2006-01-02"
)

// Current is the present conditions summary.
type Current struct {
	Temp  int
	Label string
	Night bool
}

// HourSlot is one entry of the hourly strip, already converted to a
// 12-hour clock.
type HourSlot struct {
	At     time.Time
	Hour   int
	Period string
	Temp   int
	Label  string
	Night  bool
}

// Forecast is the parsed result of one refresh.
type Forecast struct {
	Current Current
	Hourly  []HourSlot
}

// Client fetches the forecast from Open-Meteo. One GET per refresh, no
// retries; a failed refresh surfaces to the caller and yields an empty
// forecast, never a crash.
type Client struct {
	HTTPClient *http.Client
	BaseURL    string
}

func NewClient() *Client {
	return &Client{
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
		BaseURL:    defaultBaseURL,
	}
}

type apiResponse struct {
	Current struct {
		Temperature *float64 `json:"temperature_2m"`
		WeatherCode *int     `json:"weather_code"`
	} `json:"current"`
	Hourly struct {
		Time        []string  `json:"time"`
		Temperature []float64 `json:"temperature_2m"`
		WeatherCode []int     `json:"weather_code"`
	} `json:"hourly"`
	Daily struct {
		Time    []string `json:"time"`
		Sunrise []string `json:"sunrise"`
		Sunset  []string `json:"sunset"`
	} `json:"daily"`
}

// Fetch performs a single refresh for the given position.
func (c *Client) Fetch(ctx context.Context, at Coordinates) (Forecast, error) {
	return c.fetchAt(ctx, at, time.Now())
}

func (c *Client) fetchAt(ctx context.Context, at Coordinates, now time.Time) (Forecast, error) {
	base := c.BaseURL
	if base == "" {
		base = defaultBaseURL
	}

	q := url.Values{}
	q.Set("latitude", fmt.Sprintf("%g", at.Latitude))
	q.Set("longitude", fmt.Sprintf("%g", at.Longitude))
	q.Set("current", "temperature_2m,weather_code")
	q.Set("hourly", "temperature_2m,weather_code")
	q.Set("daily", "sunrise,sunset")
	q.Set("timezone", "auto")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+q.Encode(), nil)
	if err != nil {
		return Forecast{}, err
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return Forecast{}, fmt.Errorf("weather: fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Forecast{}, fmt.Errorf("weather: provider returned %d", resp.StatusCode)
	}

	var data apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return Forecast{}, fmt.Errorf("weather: decode: %w", err)
	}
	if data.Current.Temperature == nil || len(data.Hourly.Time) == 0 {
		return Forecast{}, fmt.Errorf("weather: incomplete data from provider")
	}

	night := nightChecker(data)

	code := 0
	if data.Current.WeatherCode != nil {
		code = *data.Current.WeatherCode
	}
	f := Forecast{
		Current: Current{
			Temp:  int(math.Round(*data.Current.Temperature)),
			Label: LabelForCode(code, night(now)),
			Night: night(now),
		},
	}

	start := 0
	for i, raw := range data.Hourly.Time {
		t, err := time.ParseInLocation(hourlyLayout, raw, time.Local)
		if err != nil {
			continue
		}
		if !t.Before(now) {
			start = i
			break
		}
	}

	for i := start; i < start+timeSlots && i < len(data.Hourly.Time); i++ {
		t, err := time.ParseInLocation(hourlyLayout, data.Hourly.Time[i], time.Local)
		if err != nil {
			continue
		}
		hour := t.Hour()
		period := "AM"
		if hour >= 12 {
			period = "PM"
		}
		hour = hour % 12
		if hour == 0 {
			hour = 12
		}

		var temp int
		if i < len(data.Hourly.Temperature) {
			temp = int(math.Round(data.Hourly.Temperature[i]))
		}
		var code int
		if i < len(data.Hourly.WeatherCode) {
			code = data.Hourly.WeatherCode[i]
		}
		f.Hourly = append(f.Hourly, HourSlot{
			At:     t,
			Hour:   hour,
			Period: period,
			Temp:   temp,
			Label:  LabelForCode(code, night(t)),
			Night:  night(t),
		})
	}

	return f, nil
}

type sunWindow struct {
	rise time.Time
	set  time.Time
}

// nightChecker builds an is-it-night predicate from the daily
// sunrise/sunset series, falling back to a fixed 6am-6pm window for days
// the provider did not cover.
func nightChecker(data apiResponse) func(time.Time) bool {
	byDay := make(map[string]sunWindow, len(data.Daily.Time))
	for i, day := range data.Daily.Time {
		if i >= len(data.Daily.Sunrise) || i >= len(data.Daily.Sunset) {
			break
		}
		rise, err1 := time.ParseInLocation(hourlyLayout, data.Daily.Sunrise[i], time.Local)
		set, err2 := time.ParseInLocation(hourlyLayout, data.Daily.Sunset[i], time.Local)
		if err1 != nil || err2 != nil {
			continue
		}
		byDay[day] = sunWindow{rise: rise, set: set}
	}

	return func(t time.Time) bool {
		sun, ok := byDay[t.Local().Format(dailyLayout)]
		if !ok {
			h := t.Local().Hour()
			return h < sunriseHour || h >= sunsetHour
		}
		return t.Before(sun.rise) || !t.Before(sun.set)
	}
}

