package viewer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/okian/estimathon/internal/domain/model"
)

// Default client configuration constants.
const (
	defaultRequestTimeout = 10 * time.Second
)

// GatewayError is a mutation rejected by the gateway, carrying the
// human-readable message from the response.
type GatewayError struct {
	Message string
}

func (e *GatewayError) Error() string {
	return "gateway rejected request: " + e.Message
}

// Client is the HTTP client for gateway mutations and the directory
// query. Transport failures surface as errors; they never interrupt
// other viewers.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a gateway client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultRequestTimeout},
	}
}

type mutationResponse struct {
	Success bool   `json:"success"`
	TeamID  string `json:"team_id"`
	Message string `json:"message"`
}

// AddTeam creates a team and returns its id.
func (c *Client) AddTeam(ctx context.Context, name string) (string, error) {
	form := url.Values{"team_name": {name}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/add_team", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var out mutationResponse
	if err := c.do(req, &out); err != nil {
		return "", err
	}
	if !out.Success {
		return "", &GatewayError{Message: out.Message}
	}
	return out.TeamID, nil
}

// SubmitInterval submits one guess for a problem.
func (c *Client) SubmitInterval(ctx context.Context, teamID string, problemID int, min, max float64) error {
	body, err := json.Marshal(map[string]any{
		"team_id":    teamID,
		"problem_id": problemID,
		"min_value":  min,
		"max_value":  max,
	})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/submit_interval", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	var out mutationResponse
	if err := c.do(req, &out); err != nil {
		return err
	}
	if !out.Success {
		return &GatewayError{Message: out.Message}
	}
	return nil
}

// ListTeams fetches the team directory for selector population.
func (c *Client) ListTeams(ctx context.Context) ([]model.TeamRef, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/get_teams", nil)
	if err != nil {
		return nil, err
	}

	var out struct {
		Teams []model.TeamRef `json:"teams"`
	}
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return out.Teams, nil
}

// do executes the request and decodes the JSON response body. Rejections
// arrive with a non-2xx status and a decodable body, so decoding happens
// regardless of status.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("gateway unreachable: %w", err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("undecodable gateway response: %w", err)
	}
	return nil
}
