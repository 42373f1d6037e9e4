package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/postdeck/scheduler-server-go/internal/kvstore"
	"github.com/postdeck/scheduler-server-go/internal/middleware"
	"github.com/postdeck/scheduler-server-go/internal/model"
	"github.com/postdeck/scheduler-server-go/internal/repository"
	"github.com/postdeck/scheduler-server-go/internal/service"
)

// newTestServer wires the full /v1 surface over an in-memory store, the
// same shape cmd/server builds.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	kv := kvstore.NewMemoryStore()
	sessions := service.NewSessionService(repository.NewSessionRepository(kv), nil)
	scheduler := service.NewSchedulerService(repository.NewPostRepository(kv), sessions, nil)

	sessionHandler := NewSessionHandler(sessions)
	postsHandler := NewPostsHandler(scheduler)
	auth := middleware.NewAuthMiddleware(sessions)

	r := chi.NewRouter()
	r.Route("/v1", func(r chi.Router) {
		r.Mount("/session", sessionHandler.Routes())
		r.Group(func(r chi.Router) {
			r.Use(auth.Handler)
			r.Mount("/accounts", sessionHandler.AccountRoutes())
			r.Mount("/posts", postsHandler.Routes())
		})
	})

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return server
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func login(t *testing.T, server *httptest.Server) {
	t.Helper()
	resp := doJSON(t, http.MethodPost, server.URL+"/v1/session/login", map[string]string{
		"email":    "a@b.com",
		"password": "x",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func connect(t *testing.T, server *httptest.Server, platform model.Platform) {
	t.Helper()
	resp := doJSON(t, http.MethodPost, fmt.Sprintf("%s/v1/accounts/%s/connect", server.URL, platform), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

type postsResponse struct {
	Posts []model.Post `json:"posts"`
	Count int          `json:"count"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func TestSessionEndpoints(t *testing.T) {
	server := newTestServer(t)

	t.Run("fresh session is unauthenticated", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/v1/session")
		require.NoError(t, err)
		session := decode[model.Session](t, resp)
		assert.False(t, session.Authenticated)
	})

	t.Run("login without credentials is rejected", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, server.URL+"/v1/session/login", map[string]string{})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		body := decode[errorResponse](t, resp)
		assert.Equal(t, "MISSING_REQUIRED", body.Code)
	})

	t.Run("login then logout round-trips the flag", func(t *testing.T) {
		login(t, server)
		connect(t, server, model.PlatformFacebook)

		resp := doJSON(t, http.MethodPost, server.URL+"/v1/session/logout", nil)
		session := decode[model.Session](t, resp)
		assert.False(t, session.Authenticated)
		assert.Nil(t, session.ConnectedAccounts[model.PlatformFacebook])
	})
}

func TestAccountEndpoints(t *testing.T) {
	server := newTestServer(t)

	t.Run("connect requires login", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, server.URL+"/v1/accounts/twitter/connect", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		resp.Body.Close()
	})

	login(t, server)

	t.Run("connect fabricates an account", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, server.URL+"/v1/accounts/twitter/connect", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		session := decode[model.Session](t, resp)

		account := session.ConnectedAccounts[model.PlatformTwitter]
		require.NotNil(t, account)
		assert.Equal(t, "demo_twitter_user", account.Username)
		assert.Contains(t, account.AccessToken, "mock_token_")
	})

	t.Run("unknown platform is rejected", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, server.URL+"/v1/accounts/myspace/connect", nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		body := decode[errorResponse](t, resp)
		assert.Equal(t, "INVALID_PLATFORM", body.Code)
	})

	t.Run("disconnect clears the platform", func(t *testing.T) {
		resp := doJSON(t, http.MethodDelete, server.URL+"/v1/accounts/twitter", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		session := decode[model.Session](t, resp)
		assert.Nil(t, session.ConnectedAccounts[model.PlatformTwitter])
	})
}

func TestPostEndpoints(t *testing.T) {
	server := newTestServer(t)
	login(t, server)
	connect(t, server, model.PlatformTwitter)

	draft := model.Draft{
		Content:       "hi",
		Platforms:     []model.Platform{model.PlatformTwitter},
		ScheduledDate: "2025-01-01",
		ScheduledTime: "10:00",
	}

	var created model.Post

	t.Run("create returns the new post", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, server.URL+"/v1/posts", draft)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		created = decode[model.Post](t, resp)
		assert.Equal(t, model.PostStatusScheduled, created.Status)
		assert.NotZero(t, created.ID)
	})

	t.Run("invalid draft rejected with all failing fields", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, server.URL+"/v1/posts", model.Draft{})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		body := decode[errorResponse](t, resp)
		assert.Equal(t, "MISSING_CONTENT", body.Code)
	})

	t.Run("edit preserves identity", func(t *testing.T) {
		edit := draft
		edit.Content = "rewritten"
		resp := doJSON(t, http.MethodPut, fmt.Sprintf("%s/v1/posts/%d", server.URL, created.ID), edit)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		edited := decode[model.Post](t, resp)
		assert.Equal(t, created.ID, edited.ID)
		assert.Equal(t, "rewritten", edited.Content)
		assert.Equal(t, created.Status, edited.Status)
	})

	t.Run("edit of unknown id is 404", func(t *testing.T) {
		resp := doJSON(t, http.MethodPut, server.URL+"/v1/posts/987654", draft)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("non-integer id is 400", func(t *testing.T) {
		resp := doJSON(t, http.MethodDelete, server.URL+"/v1/posts/abc", nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("publish flips status and is idempotent", func(t *testing.T) {
		url := fmt.Sprintf("%s/v1/posts/%d/publish", server.URL, created.ID)

		resp := doJSON(t, http.MethodPost, url, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		first := decode[postsResponse](t, resp)
		require.Len(t, first.Posts, 1)
		assert.Equal(t, model.PostStatusPublished, first.Posts[0].Status)

		resp = doJSON(t, http.MethodPost, url, nil)
		second := decode[postsResponse](t, resp)
		assert.Equal(t, first.Posts, second.Posts)
	})

	t.Run("list supports display order", func(t *testing.T) {
		later := draft
		later.ScheduledDate = "2024-06-01"
		resp := doJSON(t, http.MethodPost, server.URL+"/v1/posts", later)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()

		resp, err := http.Get(server.URL + "/v1/posts?order=display")
		require.NoError(t, err)
		listed := decode[postsResponse](t, resp)
		require.Equal(t, 2, listed.Count)
		assert.Equal(t, "2024-06-01", listed.Posts[0].ScheduledDate)
	})

	t.Run("delete removes and tolerates unknown ids", func(t *testing.T) {
		resp := doJSON(t, http.MethodDelete, fmt.Sprintf("%s/v1/posts/%d", server.URL, created.ID), nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		afterDelete := decode[postsResponse](t, resp)
		assert.Equal(t, 1, afterDelete.Count)

		resp = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/v1/posts/%d", server.URL, created.ID), nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		again := decode[postsResponse](t, resp)
		assert.Equal(t, 1, again.Count)
	})
}
