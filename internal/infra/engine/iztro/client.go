package iztro

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yanqian/ziwei-api/internal/domain/chart"
)

const defaultBaseURL = "http://127.0.0.1:3311"

// Client calls the iztro chart-computation sidecar. The sidecar's chart
// payload is returned untouched; its shape varies across engine versions and
// the domain layer reshapes it defensively.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds an engine client.
func NewClient(baseURL string) *Client {
	base := strings.TrimSpace(baseURL)
	if base == "" {
		base = defaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(base, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type computeRequest struct {
	Date         string `json:"date"`
	Hour         int    `json:"hour"`
	DayOffset    int    `json:"dayOffset"`
	Gender       string `json:"gender"`
	CalendarType string `json:"calendarType"`
	IsLeapMonth  bool   `json:"isLeapMonth"`
	FixLeap      bool   `json:"fixLeap"`
	Language     string `json:"language"`
}

type computeResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// Compute implements chart.Engine.
func (c *Client) Compute(ctx context.Context, in chart.NormalizedInput, locale string) (json.RawMessage, error) {
	payload, err := json.Marshal(computeRequest{
		Date:         in.Date,
		Hour:         in.HourOfDay,
		DayOffset:    in.DayOffset,
		Gender:       string(in.Gender),
		CalendarType: string(in.Calendar),
		IsLeapMonth:  in.IsLeapMonth,
		FixLeap:      in.FixLeap,
		Language:     locale,
	})
	if err != nil {
		return nil, fmt.Errorf("encode engine request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/astrolabe", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build engine request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("engine request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read engine response: %w", err)
	}

	var wire computeResponse
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("decode engine response: status=%d: %w", resp.StatusCode, err)
	}

	if !wire.Success || resp.StatusCode >= 300 {
		// The engine's own error text is surfaced verbatim; the domain layer
		// reclassifies it into the response taxonomy.
		if wire.Error != "" {
			return nil, errors.New(wire.Error)
		}
		return nil, fmt.Errorf("engine rejected request: status=%d", resp.StatusCode)
	}

	return wire.Data, nil
}

var _ chart.Engine = (*Client)(nil)
