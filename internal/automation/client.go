// Package automation talks to the remote n8n engine that runs the
// long-lived search and list-import workflows.
package automation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// Client is an automation engine API client. The webhook base receives
// workflow triggers; the API base serves execution data.
type Client struct {
	webhookURL string
	apiURL     string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new automation engine client
func NewClient(webhookURL, apiURL, apiKey string) *Client {
	return &Client{
		webhookURL: webhookURL,
		apiURL:     apiURL,
		apiKey:     apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SearchDispatch triggers a prospect search workflow. JobID is the
// workflow record id; the engine echoes it back on its completion
// webhook.
type SearchDispatch struct {
	JobID    string `json:"jobId"`
	TenantID string `json:"tenantId"`
	JobTitle string `json:"jobTitle"`
	Location string `json:"location"`
	Channel  string `json:"channel,omitempty"`
}

// ListDispatch triggers a list import workflow. The file travels as a
// multipart part alongside the metadata fields.
type ListDispatch struct {
	JobID           string
	TenantID        string
	Name            string
	Tags            string
	DefaultJobTitle string
	DefaultLocation string
	FileName        string
	File            io.Reader
}

// DispatchResponse is the engine's acknowledgement of a trigger.
type DispatchResponse struct {
	WorkflowID string `json:"workflowId"`
	Message    string `json:"message,omitempty"`
}

// DispatchSearch hands a search workflow off to the engine.
func (c *Client) DispatchSearch(ctx context.Context, dispatch *SearchDispatch) (*DispatchResponse, error) {
	data, err := json.Marshal(dispatch)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL+"/outreach/search", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return c.do(req)
}

// DispatchList hands a list import workflow off to the engine.
func (c *Client) DispatchList(ctx context.Context, dispatch *ListDispatch) (*DispatchResponse, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	fields := map[string]string{
		"jobId":           dispatch.JobID,
		"tenantId":        dispatch.TenantID,
		"name":            dispatch.Name,
		"tags":            dispatch.Tags,
		"defaultJobTitle": dispatch.DefaultJobTitle,
		"defaultLocation": dispatch.DefaultLocation,
	}
	for field, value := range fields {
		if err := writer.WriteField(field, value); err != nil {
			return nil, fmt.Errorf("write field %s: %w", field, err)
		}
	}

	part, err := writer.CreateFormFile("file", dispatch.FileName)
	if err != nil {
		return nil, fmt.Errorf("create file part: %w", err)
	}
	if _, err := io.Copy(part, dispatch.File); err != nil {
		return nil, fmt.Errorf("copy file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL+"/outreach/lists/add", &body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	return c.do(req)
}

// GetExecution fetches execution data for an engine-side run.
func (c *Client) GetExecution(ctx context.Context, id string) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"/executions/"+id+"?includeData=true", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-N8N-API-KEY", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("engine returned HTTP %d", resp.StatusCode)
	}

	var execution map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&execution); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return execution, nil
}

func (c *Client) do(req *http.Request) (*DispatchResponse, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("engine returned HTTP %d", resp.StatusCode)
	}

	result := &DispatchResponse{}
	// Some webhook workflows acknowledge with an empty body.
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return result, nil
}
