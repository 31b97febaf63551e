package submit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"portfolio-quiz-service/internal/domain"
)

// Client posts finished attempt summaries to the QuizAttemptAPI collaborator.
// Failures are non-fatal by design: the caller logs, notifies the user, and
// may re-invoke with the same summary since attempt state is never lost.
type Client struct {
	endpoint string
	client   *http.Client
}

// Response is what the Apex endpoint returns.
type Response struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	RecordID string `json:"recordId"`
}

func NewClient(endpoint string, client *http.Client) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{endpoint: endpoint, client: client}
}

// Post sends the summary as JSON. Required fields are checked before
// touching the wire; a non-2xx status or success=false is an error.
func (c *Client) Post(ctx context.Context, summary domain.ResultSummary) (Response, error) {
	if summary.Name == "" || summary.TestType == "" {
		return Response{}, fmt.Errorf("submit: missing required fields in summary")
	}

	body, err := json.Marshal(summary)
	if err != nil {
		return Response{}, fmt.Errorf("submit: marshal summary: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return Response{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("submit: post attempt: %w", err)
	}
	defer res.Body.Close()

	var parsed Response
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return Response{}, fmt.Errorf("submit: decode response: %w", err)
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 || !parsed.Success {
		return parsed, fmt.Errorf("submit: endpoint rejected attempt: status %d, message %q", res.StatusCode, parsed.Message)
	}
	return parsed, nil
}
