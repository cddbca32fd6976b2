package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/taskdeck/taskdeck/internal/models"
)

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) doRequest(method, path string, body interface{}) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}

	return resp, nil
}

// CreateSchedule creates a new task schedule
func (c *Client) CreateSchedule(req *models.CreateScheduleRequest) (*models.TaskSchedule, error) {
	resp, err := c.doRequest("POST", "/api/v1/schedules", req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("failed to create schedule: %s (status: %d)", string(body), resp.StatusCode)
	}

	var schedule models.TaskSchedule
	if err := json.NewDecoder(resp.Body).Decode(&schedule); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &schedule, nil
}

// ListSchedules retrieves a page of task schedules
func (c *Client) ListSchedules(limit, offset int) (*models.ScheduleListResponse, error) {
	path := fmt.Sprintf("/api/v1/schedules?limit=%d&offset=%d", limit, offset)

	resp, err := c.doRequest("GET", path, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("failed to list schedules: %s (status: %d)", string(body), resp.StatusCode)
	}

	var result models.ScheduleListResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &result, nil
}

// GetSchedule retrieves a schedule by ID
func (c *Client) GetSchedule(id string) (*models.TaskSchedule, error) {
	resp, err := c.doRequest("GET", "/api/v1/schedules/"+id, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("failed to get schedule: %s (status: %d)", string(body), resp.StatusCode)
	}

	var schedule models.TaskSchedule
	if err := json.NewDecoder(resp.Body).Decode(&schedule); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &schedule, nil
}

// GetNextRuns retrieves the upcoming trigger times for a schedule
func (c *Client) GetNextRuns(id string, count int) (*models.NextRunsResponse, error) {
	path := fmt.Sprintf("/api/v1/schedules/%s/next-runs?count=%d", id, count)

	resp, err := c.doRequest("GET", path, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("failed to get next runs: %s (status: %d)", string(body), resp.StatusCode)
	}

	var result models.NextRunsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &result, nil
}

// DeleteSchedule deletes a schedule
func (c *Client) DeleteSchedule(id string) error {
	resp, err := c.doRequest("DELETE", "/api/v1/schedules/"+id, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("failed to delete schedule: %s (status: %d)", string(body), resp.StatusCode)
	}

	return nil
}

// HealthCheck checks if the API is healthy
func (c *Client) HealthCheck() error {
	resp, err := c.doRequest("GET", "/health", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API is not healthy (status: %d)", resp.StatusCode)
	}

	return nil
}
