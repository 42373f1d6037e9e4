package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/postdeck/scheduler-server-go/internal/audit"
	apperrors "github.com/postdeck/scheduler-server-go/internal/errors"
	"github.com/postdeck/scheduler-server-go/internal/model"
	"github.com/postdeck/scheduler-server-go/internal/repository"
	"github.com/postdeck/scheduler-server-go/internal/sse"
)

// SchedulerService owns the Post collection: draft validation, identity
// assignment, status transitions, and full-collection persistence on
// every mutation.
type SchedulerService struct {
	mu       sync.Mutex
	repo     repository.PostRepository
	sessions *SessionService
	broker   *sse.Broker
	ids      *idClock
	posts    []model.Post
	now      func() time.Time
}

func NewSchedulerService(repo repository.PostRepository, sessions *SessionService, broker *sse.Broker) *SchedulerService {
	return &SchedulerService{
		repo:     repo,
		sessions: sessions,
		broker:   broker,
		ids:      newIDClock(time.Now),
		posts:    []model.Post{},
		now:      time.Now,
	}
}

// Load hydrates the collection from the store at startup. A malformed
// record is logged and the collection starts empty.
func (s *SchedulerService) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	posts, err := s.repo.Load(ctx)
	if err != nil {
		if apperrors.GetCode(err) != apperrors.ErrCodeLoadParseFailure {
			return fmt.Errorf("load posts: %w", err)
		}
		log.Warn().Err(err).Msg("scheduled-posts record malformed, starting empty")
	}
	s.posts = posts

	// Seed the id clock past anything already stored so restarts cannot
	// re-issue ids for posts created in the same millisecond window.
	for i := range posts {
		s.ids.Seed(posts[i].ID)
	}

	log.Info().Int("count", len(posts)).Msg("post collection loaded")
	return nil
}

// Posts returns the collection in stored (insertion) order.
func (s *SchedulerService) Posts() []model.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clonePosts(s.posts)
}

// Ordered returns the collection in display order: ascending by scheduled
// instant, stable for ties.
func (s *SchedulerService) Ordered() []model.Post {
	return OrderForDisplay(s.Posts())
}

// Find returns the post with the given id, or nil.
func (s *SchedulerService) Find(id int64) *model.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.posts {
		if s.posts[i].ID == id {
			p := s.posts[i]
			return &p
		}
	}
	return nil
}

// Submit validates the draft and either appends a new post or, when
// editingID is set, replaces that post in place. Edits preserve id,
// status, and createdAt; every other field comes from the draft. The
// collection is left untouched when validation fails.
func (s *SchedulerService) Submit(ctx context.Context, draft model.Draft, editingID *int64) (*model.Post, error) {
	if err := ValidateDraft(draft); err != nil {
		return nil, err
	}

	for _, p := range draft.Platforms {
		if !s.sessions.Current().Connected(p) {
			return nil, apperrors.PlatformNotConnected(string(p))
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var post model.Post
	var eventType string
	var auditType audit.EventType

	if editingID != nil {
		idx := s.indexOf(*editingID)
		if idx < 0 {
			return nil, apperrors.NotFound("Post")
		}

		existing := s.posts[idx]
		post = model.Post{
			ID:            existing.ID,
			Content:       draft.Content,
			Platforms:     clonePlatforms(draft.Platforms),
			ScheduledDate: draft.ScheduledDate,
			ScheduledTime: draft.ScheduledTime,
			Image:         draft.Image,
			Status:        existing.Status,
			CreatedAt:     existing.CreatedAt,
		}
		s.posts[idx] = post
		eventType = sse.EventPostUpdated
		auditType = audit.EventPostUpdate
	} else {
		post = model.Post{
			ID:            s.ids.Next(),
			Content:       draft.Content,
			Platforms:     clonePlatforms(draft.Platforms),
			ScheduledDate: draft.ScheduledDate,
			ScheduledTime: draft.ScheduledTime,
			Image:         draft.Image,
			Status:        model.PostStatusScheduled,
			CreatedAt:     s.now(),
		}
		s.posts = append(s.posts, post)
		eventType = sse.EventPostCreated
		auditType = audit.EventPostCreate
	}

	reportPersistResult("submit", repository.KeyScheduledPosts, s.repo.Save(ctx, s.posts))

	audit.Log(ctx, audit.Event{Type: auditType, PostID: post.ID})
	s.publish(ctx, sse.NewEvent(eventType, post))

	return &post, nil
}

// DeletePost removes the post with the given id. A missing id is a no-op;
// either way the collection is persisted.
func (s *SchedulerService) DeletePost(ctx context.Context, id int64) []model.Post {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := s.posts[:0:0]
	for _, p := range s.posts {
		if p.ID != id {
			updated = append(updated, p)
		}
	}
	removed := len(updated) != len(s.posts)
	s.posts = updated

	reportPersistResult("delete_post", repository.KeyScheduledPosts, s.repo.Save(ctx, s.posts))

	if removed {
		audit.Log(ctx, audit.Event{Type: audit.EventPostDelete, PostID: id})
		s.publish(ctx, sse.NewEvent(sse.EventPostDeleted, map[string]int64{"id": id}))
	}

	return clonePosts(s.posts)
}

// PublishPost moves the matching post to published. The transition is one
// way and idempotent: publishing twice, or publishing a missing id, leaves
// the collection as a single publish would.
func (s *SchedulerService) PublishPost(ctx context.Context, id int64) []model.Post {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.posts {
		if s.posts[i].ID != id {
			continue
		}
		if s.posts[i].Status != model.PostStatusPublished {
			s.deliver(&s.posts[i])
			s.posts[i].Status = model.PostStatusPublished

			audit.Log(ctx, audit.Event{Type: audit.EventPostPublish, PostID: id})
			s.publish(ctx, sse.NewEvent(sse.EventPostPublished, s.posts[i]))
		}
		break
	}

	reportPersistResult("publish_post", repository.KeyScheduledPosts, s.repo.Save(ctx, s.posts))

	return clonePosts(s.posts)
}

// deliver simulates the platform API calls a real integration would make,
// one per targeted platform, using the stored mock token.
func (s *SchedulerService) deliver(post *model.Post) {
	accounts := s.sessions.ConnectedAccounts()
	for _, platform := range post.Platforms {
		account := accounts[platform]
		event := log.Info().
			Int64("postId", post.ID).
			Str("platform", string(platform))
		if account != nil {
			event = event.Str("username", account.Username).Str("token", account.AccessToken)
		}
		event.Msg("simulated publish delivery")
	}
}

func (s *SchedulerService) indexOf(id int64) int {
	for i := range s.posts {
		if s.posts[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *SchedulerService) publish(ctx context.Context, event sse.Event) {
	if s.broker == nil {
		return
	}
	if err := s.broker.Publish(ctx, event); err != nil {
		log.Warn().Err(err).Str("type", event.Type).Msg("failed to publish event")
	}
}

func clonePosts(posts []model.Post) []model.Post {
	out := make([]model.Post, len(posts))
	copy(out, posts)
	return out
}

func clonePlatforms(platforms []model.Platform) []model.Platform {
	out := make([]model.Platform, len(platforms))
	copy(out, platforms)
	return out
}
