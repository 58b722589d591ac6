// Package github wraps go-github with the few calls gitcollab makes.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v66/github"
)

// ErrNotFound is returned when GitHub answers 404.
var ErrNotFound = errors.New("github: not found")

// Client handles GitHub API interactions
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
}

// NewClient creates a client. An empty apiBaseURL targets api.github.com.
func NewClient(apiBaseURL string) (*Client, error) {
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	if apiBaseURL != "" {
		u, err := url.Parse(strings.TrimRight(apiBaseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub API URL: %w", err)
		}
		c.baseURL = u
	}
	return c, nil
}

func (c *Client) api(token string) *gh.Client {
	client := gh.NewClient(c.httpClient)
	if token != "" {
		client = client.WithAuthToken(token)
	}
	if c.baseURL != nil {
		client.BaseURL = c.baseURL
	}
	return client
}

// APIError is a non-2xx answer from GitHub.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.StatusCode, e.Message)
}

// AddCollaborator invites username to owner/repo acting with token.
// It returns the HTTP status: 201 when an invitation was created, 204 when the
// user already is a collaborator or already has a pending invitation.
func (c *Client) AddCollaborator(ctx context.Context, token, owner, repo, username string) (int, error) {
	_, resp, err := c.api(token).Repositories.AddCollaborator(ctx, owner, repo, username, nil)
	if err != nil {
		return statusOf(resp), apiError(resp, err)
	}
	return resp.StatusCode, nil
}

// GetReadme returns the decoded README of owner/repo. ErrNotFound if there is none.
func (c *Client) GetReadme(ctx context.Context, token, owner, repo string) (string, error) {
	content, resp, err := c.api(token).Repositories.GetReadme(ctx, owner, repo, nil)
	if err != nil {
		if statusOf(resp) == http.StatusNotFound {
			return "", ErrNotFound
		}
		return "", apiError(resp, err)
	}

	text, err := content.GetContent()
	if err != nil {
		return "", fmt.Errorf("failed to decode README: %w", err)
	}
	return text, nil
}

func statusOf(resp *gh.Response) int {
	if resp == nil || resp.Response == nil {
		return 0
	}
	return resp.StatusCode
}

func apiError(resp *gh.Response, err error) error {
	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		return &APIError{StatusCode: ghErr.Response.StatusCode, Message: ghErr.Message}
	}
	if code := statusOf(resp); code != 0 {
		return &APIError{StatusCode: code, Message: err.Error()}
	}
	return err
}
