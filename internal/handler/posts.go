package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/postdeck/scheduler-server-go/internal/errors"
	"github.com/postdeck/scheduler-server-go/internal/model"
	"github.com/postdeck/scheduler-server-go/internal/service"
)

type PostsHandler struct {
	scheduler *service.SchedulerService
}

func NewPostsHandler(scheduler *service.SchedulerService) *PostsHandler {
	return &PostsHandler{
		scheduler: scheduler,
	}
}

func (h *PostsHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListPosts)
	r.Post("/", h.CreatePost)
	r.Put("/{id}", h.UpdatePost)
	r.Delete("/{id}", h.DeletePost)
	r.Post("/{id}/publish", h.PublishPost)

	return r
}

// GET /v1/posts?order=display
func (h *PostsHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	var posts []model.Post
	if r.URL.Query().Get("order") == "display" {
		posts = h.scheduler.Ordered()
	} else {
		posts = h.scheduler.Posts()
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"posts": posts,
		"count": len(posts),
	})
}

// POST /v1/posts
func (h *PostsHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var draft model.Draft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeError(w, apperrors.ValidationError("Invalid request body").WithCause(err))
		return
	}

	post, err := h.scheduler.Submit(r.Context(), draft, nil)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, post)
}

// PUT /v1/posts/{id}
func (h *PostsHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(w, r)
	if !ok {
		return
	}

	var draft model.Draft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeError(w, apperrors.ValidationError("Invalid request body").WithCause(err))
		return
	}

	post, err := h.scheduler.Submit(r.Context(), draft, &id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, post)
}

// DELETE /v1/posts/{id}
func (h *PostsHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(w, r)
	if !ok {
		return
	}

	posts := h.scheduler.DeletePost(r.Context(), id)
	writeJSON(w, http.StatusOK, map[string]any{
		"posts": posts,
		"count": len(posts),
	})
}

// POST /v1/posts/{id}/publish
func (h *PostsHandler) PublishPost(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(w, r)
	if !ok {
		return
	}

	posts := h.scheduler.PublishPost(r.Context(), id)
	writeJSON(w, http.StatusOK, map[string]any{
		"posts": posts,
		"count": len(posts),
	})
}

func postID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, apperrors.ValidationError("Post id must be an integer"))
		return 0, false
	}
	return id, true
}
