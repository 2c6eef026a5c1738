package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/me/studyplan/pkg/model"
)

// Client wraps the studyplan REST API. Every method decodes the response
// envelope and returns the domain payload, so commands never touch raw
// JSON.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// NewClient creates a studyplan API client.
func NewClient(baseURL string, logger *slog.Logger) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{},
		Logger:     logger,
	}
}

// TaskDraft carries the fields of a task to create.
type TaskDraft struct {
	Title            string `json:"title"`
	Subject          string `json:"subject,omitempty"`
	Priority         int    `json:"priority"`
	Deadline         string `json:"deadline,omitempty"`
	EstimatedMinutes int    `json:"estimated_minutes"`
}

// ListTasks fetches tasks, optionally filtered by status.
func (c *Client) ListTasks(status string) ([]model.Task, *model.Pagination, error) {
	path := "/api/v1/tasks/"
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}
	var tasks []model.Task
	page, err := c.do("GET", path, nil, &tasks)
	return tasks, page, err
}

// CreateTask creates a task and returns the stored record.
func (c *Client) CreateTask(draft TaskDraft) (*model.Task, error) {
	var task model.Task
	if _, err := c.do("POST", "/api/v1/tasks/", draft, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// AutoSchedule asks the server to plan the given tasks.
func (c *Client) AutoSchedule(taskIDs []string, prefs model.SchedulingPreferences) (*model.AutoScheduleResult, error) {
	body := map[string]any{"task_ids": taskIDs, "preferences": prefs}
	var result model.AutoScheduleResult
	if _, err := c.do("POST", "/api/v1/schedule/auto", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CommitSchedule persists a proposed plan and returns the created blocks.
func (c *Client) CommitSchedule(entries []model.ScheduleEntry) ([]model.TimeBlock, error) {
	var data struct {
		Blocks []model.TimeBlock `json:"blocks"`
	}
	body := map[string]any{"schedule": entries}
	if _, err := c.do("POST", "/api/v1/schedule/commit", body, &data); err != nil {
		return nil, err
	}
	return data.Blocks, nil
}

// CheckPlacement checks a proposed placement for conflicts.
func (c *Client) CheckPlacement(taskID, date string, startMinutes, durationMinutes int) (*model.CheckConflictsResult, error) {
	body := map[string]any{
		"task_id":          taskID,
		"date":             date,
		"start_minutes":    startMinutes,
		"duration_minutes": durationMinutes,
	}
	var result model.CheckConflictsResult
	if _, err := c.do("POST", "/api/v1/conflicts/check", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ResolutionOptions fetches the resolution menu for a detected conflict.
func (c *Client) ResolutionOptions(conflictID string) ([]model.ResolutionOption, error) {
	var data struct {
		Options []model.ResolutionOption `json:"options"`
	}
	if _, err := c.do("GET", "/api/v1/conflicts/"+conflictID+"/options", nil, &data); err != nil {
		return nil, err
	}
	return data.Options, nil
}

// ResolveConflict applies one resolution option.
func (c *Client) ResolveConflict(conflictID, optionID string) (*model.ResolveConflictResult, error) {
	body := map[string]any{"option_id": optionID}
	var result model.ResolveConflictResult
	if _, err := c.do("POST", "/api/v1/conflicts/"+conflictID+"/resolve", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// BlocksByDate fetches the time blocks planned on a date.
func (c *Client) BlocksByDate(date string) ([]model.TimeBlock, error) {
	var blocks []model.TimeBlock
	if _, err := c.do("GET", "/api/v1/blocks/?date="+url.QueryEscape(date), nil, &blocks); err != nil {
		return nil, err
	}
	return blocks, nil
}

// envelope mirrors the server's response wrapper.
type envelope struct {
	Status     string            `json:"status"`
	RequestID  string            `json:"request_id"`
	Data       json.RawMessage   `json:"data"`
	Pagination *model.Pagination `json:"pagination"`
	Error      *model.APIError   `json:"error"`
}

// do performs the request and unmarshals the envelope's data into out.
// A server-reported error comes back as *model.APIError.
func (c *Client) do(method, path string, body, out any) (*model.Pagination, error) {
	reqURL := c.BaseURL + path

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
		c.Logger.Debug("HTTP request body", "body", string(data))
	}

	req, err := http.NewRequest(method, reqURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.Logger.Debug("HTTP request", "method", method, "url", reqURL)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	c.Logger.Debug("HTTP response", "status", resp.StatusCode, "body", string(respBody))

	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return nil, fmt.Errorf("parse response (status %d): %w\nbody: %s", resp.StatusCode, err, string(respBody))
	}
	if env.Status == "error" && env.Error != nil {
		return env.Pagination, env.Error
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return env.Pagination, fmt.Errorf("parse response data: %w", err)
		}
	}
	return env.Pagination, nil
}
