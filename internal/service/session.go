package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/postdeck/scheduler-server-go/internal/audit"
	apperrors "github.com/postdeck/scheduler-server-go/internal/errors"
	"github.com/postdeck/scheduler-server-go/internal/model"
	"github.com/postdeck/scheduler-server-go/internal/repository"
	"github.com/postdeck/scheduler-server-go/internal/sse"
)

// SessionService owns the in-memory Session aggregate. Every mutating
// intent runs to completion under the lock: mutate memory, then await the
// store write, then return.
type SessionService struct {
	mu      sync.Mutex
	repo    repository.SessionRepository
	broker  *sse.Broker
	session *model.Session
	now     func() time.Time
}

func NewSessionService(repo repository.SessionRepository, broker *sse.Broker) *SessionService {
	return &SessionService{
		repo:    repo,
		broker:  broker,
		session: model.NewSession(),
		now:     time.Now,
	}
}

// Load hydrates the aggregate from the store at startup. Absent records
// mean the default logged-out state; malformed records are logged and
// treated the same way.
func (s *SessionService) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	authenticated, err := s.repo.LoadAuthenticated(ctx)
	if err != nil {
		return fmt.Errorf("load auth record: %w", err)
	}

	accounts, err := s.repo.LoadAccounts(ctx)
	if err != nil {
		if apperrors.GetCode(err) != apperrors.ErrCodeLoadParseFailure {
			return fmt.Errorf("load connected accounts: %w", err)
		}
		log.Warn().Err(err).Msg("connected-accounts record malformed, using defaults")
	}

	s.session.Authenticated = authenticated
	s.session.ConnectedAccounts = accounts

	log.Info().
		Bool("authenticated", authenticated).
		Msg("session state loaded")
	return nil
}

// Current returns a snapshot of the session aggregate.
func (s *SessionService) Current() *model.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Clone()
}

// ConnectedAccounts returns a snapshot of the accounts map for the
// scheduling engine's connectivity checks.
func (s *SessionService) ConnectedAccounts() map[model.Platform]*model.Account {
	return s.Current().ConnectedAccounts
}

// Login marks the session authenticated. Credentials are only checked for
// presence; no verification happens by contract.
func (s *SessionService) Login(ctx context.Context, email, password string) (*model.Session, error) {
	if email == "" {
		return nil, apperrors.MissingRequired("email")
	}
	if password == "" {
		return nil, apperrors.MissingRequired("password")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.session.Authenticated = true

	record := model.LoginRecord{
		ID:       uuid.NewString(),
		Email:    email,
		LoggedIn: true,
	}
	reportPersistResult("login", repository.KeyUserAuth, s.repo.SaveLogin(ctx, record))

	audit.Log(ctx, audit.Event{
		Type:    audit.EventLoginSuccess,
		Details: map[string]interface{}{"email": email},
	})
	s.publish(ctx, sse.NewEvent(sse.EventLoggedIn, nil))

	return s.session.Clone(), nil
}

// Logout removes both persisted session records and resets the aggregate:
// unauthenticated, every platform disconnected.
func (s *SessionService) Logout(ctx context.Context) *model.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session.Reset()

	reportPersistResult("logout", repository.KeyUserAuth, s.repo.DeleteLogin(ctx))
	reportPersistResult("logout", repository.KeyConnectedAccounts, s.repo.DeleteAccounts(ctx))

	audit.Log(ctx, audit.Event{Type: audit.EventLogout})
	s.publish(ctx, sse.NewEvent(sse.EventLoggedOut, nil))

	return s.session.Clone()
}

// ConnectAccount fabricates an account record for the platform and stores
// it. There is no OAuth exchange; the token is synthetic.
func (s *SessionService) ConnectAccount(ctx context.Context, platform model.Platform) (*model.Session, error) {
	if !platform.Valid() {
		return nil, apperrors.InvalidPlatform(string(platform))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	account := &model.Account{
		Platform:    platform,
		Username:    fmt.Sprintf("demo_%s_user", platform),
		AccessToken: fmt.Sprintf("mock_token_%d", now.UnixMilli()),
		ConnectedAt: now,
	}
	s.session.ConnectedAccounts[platform] = account

	reportPersistResult("connect_account", repository.KeyConnectedAccounts,
		s.repo.SaveAccounts(ctx, s.session.ConnectedAccounts))

	audit.Log(ctx, audit.Event{
		Type:     audit.EventAccountConnect,
		Platform: string(platform),
		Details:  map[string]interface{}{"username": account.Username},
	})
	s.publish(ctx, sse.NewEvent(sse.EventAccountConnected, map[string]string{
		"platform": string(platform),
		"username": account.Username,
	}))

	return s.session.Clone(), nil
}

// DisconnectAccount clears the platform's account. Disconnecting an
// already-disconnected platform is a no-op that still persists the map.
func (s *SessionService) DisconnectAccount(ctx context.Context, platform model.Platform) (*model.Session, error) {
	if !platform.Valid() {
		return nil, apperrors.InvalidPlatform(string(platform))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.session.ConnectedAccounts[platform] = nil

	reportPersistResult("disconnect_account", repository.KeyConnectedAccounts,
		s.repo.SaveAccounts(ctx, s.session.ConnectedAccounts))

	audit.Log(ctx, audit.Event{
		Type:     audit.EventAccountDisconnect,
		Platform: string(platform),
	})
	s.publish(ctx, sse.NewEvent(sse.EventAccountDisconnect, map[string]string{
		"platform": string(platform),
	}))

	return s.session.Clone(), nil
}

func (s *SessionService) publish(ctx context.Context, event sse.Event) {
	if s.broker == nil {
		return
	}
	if err := s.broker.Publish(ctx, event); err != nil {
		log.Warn().Err(err).Str("type", event.Type).Msg("failed to publish event")
	}
}
