package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}
	return &Client{BaseURL: strings.TrimRight(baseURL, "/"), HTTP: http.DefaultClient}
}

type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type AssistanceRequest struct {
	UserText              string    `json:"user_text"`
	UserLocation          *Location `json:"user_location,omitempty"`
	RequestCountLast10Min int       `json:"request_count_last_10_min,omitempty"`
	CancelCountToday      int       `json:"cancel_count_today,omitempty"`
	UserID                string    `json:"user_id,omitempty"`
}

// AssistanceResponse mirrors the dispatch result. Optional fields are nil
// unless a mechanic was assigned.
type AssistanceResponse struct {
	RequestID  string  `json:"request_id"`
	Message    string  `json:"message"`
	Status     string  `json:"status"`
	Priority   *string `json:"priority,omitempty"`
	MechanicID *string `json:"mechanic_id,omitempty"`
	ETAMinutes *int    `json:"eta_minutes,omitempty"`
	IssueType  *string `json:"issue_type,omitempty"`
}

type BehaviorResponse struct {
	RequestCountLast10Min int `json:"request_count_last_10_min"`
	CancelCountToday      int `json:"cancel_count_today"`
}

type StatusResponse struct {
	Status         string  `json:"status"`
	DistanceMeters float64 `json:"distance_meters"`
}

// APIError is returned for any non-2xx response
type APIError struct {
	StatusCode int
	Code       string `json:"error"`
	Message    string `json:"message"`
	RequestID  string `json:"request_id"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("roadside api: %d %s", e.StatusCode, e.Code)
	}
	return fmt.Sprintf("roadside api: %d %s: %s", e.StatusCode, e.Code, e.Message)
}

func (c *Client) RequestAssistance(ctx context.Context, in AssistanceRequest) (*AssistanceResponse, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}
	var out AssistanceResponse
	if err := c.do(ctx, http.MethodPost, "/api/request-assistance", bytes.NewReader(body), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) LiveStatus(ctx context.Context, distanceMeters float64) (*StatusResponse, error) {
	path := "/api/status/" + url.PathEscape(strconv.FormatFloat(distanceMeters, 'f', -1, 64))
	var out StatusResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RecordCancellation(ctx context.Context, userID string) error {
	return c.do(ctx, http.MethodPost, "/api/users/"+url.PathEscape(userID)+"/cancellations", nil, nil)
}

func (c *Client) Behavior(ctx context.Context, userID string) (*BehaviorResponse, error) {
	var out BehaviorResponse
	if err := c.do(ctx, http.MethodGet, "/api/users/"+url.PathEscape(userID)+"/behavior", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Health(ctx context.Context) (map[string]interface{}, error) {
	var out map[string]interface{}
	if err := c.do(ctx, http.MethodGet, "/api/health", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		_ = json.NewDecoder(resp.Body).Decode(apiErr)
		return apiErr
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
