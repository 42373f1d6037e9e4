package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/postdeck/scheduler-server-go/internal/model"
)

// Client talks to a running scheduler server over its /v1 API.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

type apiError struct {
	Error   string   `json:"error"`
	Code    string   `json:"code"`
	Details []string `json:"details"`
}

type postsPayload struct {
	Posts []model.Post `json:"posts"`
	Count int          `json:"count"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("call %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr apiError
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			if len(apiErr.Details) > 0 {
				return fmt.Errorf("%s (%s: %s)", apiErr.Error, apiErr.Code, strings.Join(apiErr.Details, ", "))
			}
			return fmt.Errorf("%s (%s)", apiErr.Error, apiErr.Code)
		}
		return fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*model.Session, error) {
	var session model.Session
	err := c.do(ctx, http.MethodPost, "/v1/session/login", map[string]string{
		"email":    email,
		"password": password,
	}, &session)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *Client) Logout(ctx context.Context) (*model.Session, error) {
	var session model.Session
	if err := c.do(ctx, http.MethodPost, "/v1/session/logout", nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *Client) Session(ctx context.Context) (*model.Session, error) {
	var session model.Session
	if err := c.do(ctx, http.MethodGet, "/v1/session", nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *Client) ConnectAccount(ctx context.Context, platform string) (*model.Session, error) {
	var session model.Session
	path := fmt.Sprintf("/v1/accounts/%s/connect", platform)
	if err := c.do(ctx, http.MethodPost, path, nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *Client) DisconnectAccount(ctx context.Context, platform string) (*model.Session, error) {
	var session model.Session
	path := fmt.Sprintf("/v1/accounts/%s", platform)
	if err := c.do(ctx, http.MethodDelete, path, nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *Client) ListPosts(ctx context.Context, displayOrder bool) ([]model.Post, error) {
	path := "/v1/posts"
	if displayOrder {
		path += "?order=display"
	}
	var payload postsPayload
	if err := c.do(ctx, http.MethodGet, path, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Posts, nil
}

func (c *Client) CreatePost(ctx context.Context, draft model.Draft) (*model.Post, error) {
	var post model.Post
	if err := c.do(ctx, http.MethodPost, "/v1/posts", draft, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (c *Client) UpdatePost(ctx context.Context, id int64, draft model.Draft) (*model.Post, error) {
	var post model.Post
	path := fmt.Sprintf("/v1/posts/%d", id)
	if err := c.do(ctx, http.MethodPut, path, draft, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (c *Client) DeletePost(ctx context.Context, id int64) ([]model.Post, error) {
	var payload postsPayload
	path := fmt.Sprintf("/v1/posts/%d", id)
	if err := c.do(ctx, http.MethodDelete, path, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Posts, nil
}

func (c *Client) PublishPost(ctx context.Context, id int64) ([]model.Post, error) {
	var payload postsPayload
	path := fmt.Sprintf("/v1/posts/%d/publish", id)
	if err := c.do(ctx, http.MethodPost, path, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Posts, nil
}
