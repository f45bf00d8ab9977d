package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// ChatTurn is one prior exchange sent along for context.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the payload the hosted coach endpoint expects.
type ChatRequest struct {
	Message string     `json:"message"`
	Mood    string     `json:"mood,omitempty"`
	History []ChatTurn `json:"history,omitempty"`
	UserID  string     `json:"userId"`
}

// ChatResponse is what the endpoint answers with. Type distinguishes plain
// replies from structured suggestions the client renders differently.
type ChatResponse struct {
	Result string `json:"result"`
	Type   string `json:"type"`
}

// CoachClient talks to the hosted completion endpoint. One request, one
// response; no retries and no streaming.
type CoachClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewCoachClient(baseURL, apiKey string) *CoachClient {
	return &CoachClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

// Configured reports whether an endpoint URL was provided.
func (c *CoachClient) Configured() bool {
	return c.baseURL != ""
}

func (c *CoachClient) Send(ctx context.Context, chatReq ChatRequest) (*ChatResponse, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("coach endpoint not configured")
	}
	if chatReq.Message == "" {
		return nil, fmt.Errorf("message is required")
	}

	payload, err := json.Marshal(chatReq)
	if err != nil {
		return nil, fmt.Errorf("encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("coach endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("coach endpoint: unexpected status %d", resp.StatusCode)
	}

	var chatResp ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, fmt.Errorf("decode chat response: %w", err)
	}
	return &chatResp, nil
}
