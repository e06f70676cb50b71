// Package classes reads the class schedule from the school's REST API
package classes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"linguaquiz/internal/models"
)

// ErrNotConfigured is returned when no API base URL was given
var ErrNotConfigured = errors.New("class API is not configured")

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// List returns every class from GET {baseURL}/classes
func (c *Client) List(ctx context.Context) ([]models.Class, error) {
	if c == nil || c.baseURL == "" {
		return nil, ErrNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/classes", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build class request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch classes: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("class API returned status %d", resp.StatusCode)
	}

	classes := []models.Class{}
	if err := json.NewDecoder(resp.Body).Decode(&classes); err != nil {
		return nil, fmt.Errorf("failed to decode classes: %w", err)
	}
	return classes, nil
}
