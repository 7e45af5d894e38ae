package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"taskflow-cli/api"
	"taskflow-cli/config"
	"taskflow-cli/types"
)

// Client is the typed task API: one authenticated request per operation, with
// the response mapped to a Task or a typed failure.
type Client struct {
	api     *api.Client
	baseURL string
}

func NewClient(apiClient *api.Client, baseURL string) *Client {
	return &Client{
		api:     apiClient,
		baseURL: strings.TrimRight(baseURL, "/") + "/tasks",
	}
}

// ListOptions are the backend's supported query filters. Zero values are omitted.
type ListOptions struct {
	Completed *bool
	Priority  string
	Limit     int
	Offset    int
}

func (o ListOptions) query() string {
	q := url.Values{}
	if o.Completed != nil {
		q.Set("completed", strconv.FormatBool(*o.Completed))
	}
	if o.Priority != "" {
		q.Set("priority", o.Priority)
	}
	if o.Limit > 0 {
		q.Set("limit", strconv.Itoa(o.Limit))
	}
	if o.Offset > 0 {
		q.Set("offset", strconv.Itoa(o.Offset))
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// List fetches the caller's tasks. A 401 resolves to an empty slice rather
// than an error; the request client has already torn the session down.
func (c *Client) List(ctx context.Context, opts ListOptions) ([]types.Task, error) {
	resp, err := c.api.JSON(ctx, http.MethodGet, c.baseURL+opts.query(), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return []types.Task{}, nil
	}
	if !success(resp) {
		return nil, operationError("fetch tasks", resp)
	}

	var tasks []types.Task
	if err := json.NewDecoder(resp.Body).Decode(&tasks); err != nil {
		return nil, fmt.Errorf("failed to decode task list: %v", err)
	}
	return tasks, nil
}

func (c *Client) Get(ctx context.Context, id string) (types.Task, error) {
	return c.taskRequest(ctx, http.MethodGet, c.baseURL+"/"+id, nil, "fetch task")
}

// Create rejects empty titles before any network I/O.
func (c *Client) Create(ctx context.Context, data types.CreateTaskData) (types.Task, error) {
	if strings.TrimSpace(data.Title) == "" {
		return types.Task{}, &ValidationError{Field: "title", Message: "title must not be empty"}
	}
	if data.Priority != "" && !types.ValidPriority(data.Priority) {
		return types.Task{}, &ValidationError{Field: "priority", Message: "priority must be low, medium or high"}
	}
	return c.taskRequest(ctx, http.MethodPost, c.baseURL, data, "create task")
}

func (c *Client) Update(ctx context.Context, id string, data types.UpdateTaskData) (types.Task, error) {
	return c.taskRequest(ctx, http.MethodPut, c.baseURL+"/"+id, data, "update task")
}

func (c *Client) Delete(ctx context.Context, id string) error {
	resp, err := c.api.JSON(ctx, http.MethodDelete, c.baseURL+"/"+id, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if !success(resp) {
		return operationError("delete task", resp)
	}
	return nil
}

func (c *Client) ToggleCompletion(ctx context.Context, id string) (types.Task, error) {
	return c.taskRequest(ctx, http.MethodPatch, c.baseURL+"/"+id+"/complete", nil, "toggle task completion")
}

func (c *Client) taskRequest(ctx context.Context, method, url string, payload any, op string) (types.Task, error) {
	resp, err := c.api.JSON(ctx, method, url, payload)
	if err != nil {
		return types.Task{}, err
	}
	defer resp.Body.Close()

	if !success(resp) {
		return types.Task{}, operationError(op, resp)
	}

	var task types.Task
	if err := json.NewDecoder(resp.Body).Decode(&task); err != nil {
		config.Logger.Error("Failed to decode task response:", err)
		return types.Task{}, fmt.Errorf("failed to decode task: %v", err)
	}
	return task, nil
}

func success(resp *http.Response) bool {
	return resp.StatusCode >= 200 && resp.StatusCode <= 299
}

func operationError(op string, resp *http.Response) error {
	if resp.StatusCode == http.StatusUnauthorized {
		return &AuthenticationRequiredError{Operation: op}
	}
	return &TaskOperationError{
		Operation:  op,
		Status:     resp.StatusCode,
		StatusText: http.StatusText(resp.StatusCode),
	}
}
