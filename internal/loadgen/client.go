package loadgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/okian/competency/internal/adapters/http/api"
)

// client is a thin JSON client for the service API.
type client struct {
	http    *http.Client
	baseURL string
}

type question struct {
	ID      int64 `json:"id"`
	Options []struct {
		ID int64 `json:"id"`
	} `json:"options"`
}

type answer struct {
	QuestionID int64 `json:"question_id"`
	OptionID   int64 `json:"option_id"`
}

type submission struct {
	SubmissionID string   `json:"submission_id"`
	Answers      []answer `json:"answers"`
}

func (c *client) do(ctx context.Context, method, path, userID, role string, body any) (*http.Response, error) {
	var reader io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set(api.HeaderUserID, userID)
	}
	if role != "" {
		req.Header.Set(api.HeaderUserRole, role)
	}
	return c.http.Do(req)
}

// getJSON performs a GET and decodes a 200 response into out.
func (c *client) getJSON(ctx context.Context, path, userID, role string, out any) error {
	resp, err := c.do(ctx, http.MethodGet, path, userID, role, nil)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: GET %s: status %d", ErrUnexpectedReply, path, resp.StatusCode)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: GET %s: %w", ErrUnexpectedReply, path, err)
	}
	return nil
}

func (c *client) health(ctx context.Context) error {
	if err := c.getJSON(ctx, "/healthz", "", "", nil); err != nil {
		return fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	return nil
}

func (c *client) questions(ctx context.Context, userID string) ([]question, error) {
	resp, err := c.do(ctx, http.MethodGet, "/questions", userID, "", nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnprocessableEntity:
		return nil, ErrNoQuestions
	default:
		return nil, fmt.Errorf("%w: GET /questions: status %d", ErrUnexpectedReply, resp.StatusCode)
	}

	var body struct {
		Questions []question `json:"questions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: GET /questions: %w", ErrUnexpectedReply, err)
	}
	return body.Questions, nil
}

// submit posts one submission and returns the HTTP status.
func (c *client) submit(ctx context.Context, userID string, sub submission) (int, error) {
	resp, err := c.do(ctx, http.MethodPost, "/submissions", userID, "", sub)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}

func (c *client) stats(ctx context.Context, teacher string) (map[string]Summary, error) {
	var body struct {
		Competencies map[string]Summary `json:"competencies"`
	}
	if err := c.getJSON(ctx, "/stats", teacher, "teacher", &body); err != nil {
		return nil, err
	}
	return body.Competencies, nil
}
