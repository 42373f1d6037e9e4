package repository

import (
	"context"
	"encoding/json"

	apperrors "github.com/postdeck/scheduler-server-go/internal/errors"
	"github.com/postdeck/scheduler-server-go/internal/kvstore"
	"github.com/postdeck/scheduler-server-go/internal/model"
)

type PostRepository interface {
	// Load returns the stored collection in insertion order. An absent
	// key yields an empty collection; a malformed value yields an empty
	// collection alongside a LOAD_PARSE_FAILURE error.
	Load(ctx context.Context) ([]model.Post, error)
	// Save writes the entire collection. There is no delta persistence.
	Save(ctx context.Context, posts []model.Post) error
}

type postRepo struct {
	kv kvstore.Store
}

func NewPostRepository(kv kvstore.Store) PostRepository {
	return &postRepo{kv: kv}
}

func (r *postRepo) Load(ctx context.Context) ([]model.Post, error) {
	value, ok, err := r.kv.Get(ctx, KeyScheduledPosts)
	if err != nil {
		return []model.Post{}, apperrors.StoreFailure(err)
	}
	if !ok {
		return []model.Post{}, nil
	}

	var posts []model.Post
	if err := json.Unmarshal([]byte(value), &posts); err != nil {
		return []model.Post{}, apperrors.LoadParseFailure(KeyScheduledPosts, err)
	}
	if posts == nil {
		posts = []model.Post{}
	}
	return posts, nil
}

func (r *postRepo) Save(ctx context.Context, posts []model.Post) error {
	if posts == nil {
		posts = []model.Post{}
	}
	data, err := json.Marshal(posts)
	if err != nil {
		return apperrors.Internal("encode posts").WithCause(err)
	}
	if err := r.kv.Set(ctx, KeyScheduledPosts, string(data)); err != nil {
		return apperrors.StoreFailure(err)
	}
	return nil
}
