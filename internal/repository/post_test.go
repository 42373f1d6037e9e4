package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/postdeck/scheduler-server-go/internal/errors"
	"github.com/postdeck/scheduler-server-go/internal/kvstore"
	"github.com/postdeck/scheduler-server-go/internal/model"
)

func TestPostRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewPostRepository(kvstore.NewMemoryStore())

	posts := []model.Post{
		{
			ID:            1735689600000,
			Content:       "hello world",
			Platforms:     []model.Platform{model.PlatformTwitter, model.PlatformFacebook},
			ScheduledDate: "2025-01-01",
			ScheduledTime: "10:00",
			Status:        model.PostStatusScheduled,
			CreatedAt:     time.Date(2024, 12, 31, 8, 0, 0, 0, time.UTC),
		},
		{
			ID:            1735689600001,
			Content:       "second",
			Platforms:     []model.Platform{model.PlatformInstagram},
			ScheduledDate: "2025-02-01",
			ScheduledTime: "09:30",
			Image:         "data:image/png;base64,iVBORw0KGgo=",
			Status:        model.PostStatusPublished,
			CreatedAt:     time.Date(2024, 12, 31, 9, 0, 0, 0, time.UTC),
		},
	}

	require.NoError(t, repo.Save(ctx, posts))

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, posts[0].ID, loaded[0].ID)
	assert.Equal(t, posts[0].Platforms, loaded[0].Platforms)
	assert.Equal(t, posts[1].Image, loaded[1].Image)
	assert.Equal(t, posts[1].Status, loaded[1].Status)
	assert.True(t, posts[0].CreatedAt.Equal(loaded[0].CreatedAt))
}

func TestPostRepository_AbsentKeyLoadsEmpty(t *testing.T) {
	repo := NewPostRepository(kvstore.NewMemoryStore())

	posts, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, posts)
	assert.Empty(t, posts)
}

func TestPostRepository_MalformedValueYieldsDefaults(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemoryStore()
	require.NoError(t, kv.Set(ctx, KeyScheduledPosts, "{not json"))

	repo := NewPostRepository(kv)
	posts, err := repo.Load(ctx)

	assert.Equal(t, apperrors.ErrCodeLoadParseFailure, apperrors.GetCode(err))
	assert.Empty(t, posts)
}

func TestPostRepository_SaveWritesWholeCollection(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemoryStore()
	repo := NewPostRepository(kv)

	require.NoError(t, repo.Save(ctx, []model.Post{{ID: 1, Content: "a", Status: model.PostStatusScheduled}}))
	require.NoError(t, repo.Save(ctx, []model.Post{{ID: 2, Content: "b", Status: model.PostStatusScheduled}}))

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, int64(2), loaded[0].ID)
}
