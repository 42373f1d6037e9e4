package repository

import (
	"context"
	"encoding/json"

	apperrors "github.com/postdeck/scheduler-server-go/internal/errors"
	"github.com/postdeck/scheduler-server-go/internal/kvstore"
	"github.com/postdeck/scheduler-server-go/internal/model"
)

type SessionRepository interface {
	// LoadAuthenticated reports whether a login record exists. Only
	// presence matters; the record content is never re-validated.
	LoadAuthenticated(ctx context.Context) (bool, error)
	SaveLogin(ctx context.Context, record model.LoginRecord) error
	DeleteLogin(ctx context.Context) error

	// LoadAccounts returns the connected-accounts map. An absent key
	// yields the all-disconnected default. A malformed value yields the
	// default alongside a LOAD_PARSE_FAILURE error for the caller to log.
	LoadAccounts(ctx context.Context) (map[model.Platform]*model.Account, error)
	SaveAccounts(ctx context.Context, accounts map[model.Platform]*model.Account) error
	DeleteAccounts(ctx context.Context) error
}

type sessionRepo struct {
	kv kvstore.Store
}

func NewSessionRepository(kv kvstore.Store) SessionRepository {
	return &sessionRepo{kv: kv}
}

func (r *sessionRepo) LoadAuthenticated(ctx context.Context) (bool, error) {
	_, ok, err := r.kv.Get(ctx, KeyUserAuth)
	if err != nil {
		return false, apperrors.StoreFailure(err)
	}
	return ok, nil
}

func (r *sessionRepo) SaveLogin(ctx context.Context, record model.LoginRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return apperrors.Internal("encode login record").WithCause(err)
	}
	if err := r.kv.Set(ctx, KeyUserAuth, string(data)); err != nil {
		return apperrors.StoreFailure(err)
	}
	return nil
}

func (r *sessionRepo) DeleteLogin(ctx context.Context) error {
	if err := r.kv.Delete(ctx, KeyUserAuth); err != nil {
		return apperrors.StoreFailure(err)
	}
	return nil
}

func (r *sessionRepo) LoadAccounts(ctx context.Context) (map[model.Platform]*model.Account, error) {
	defaults := model.NewSession().ConnectedAccounts

	value, ok, err := r.kv.Get(ctx, KeyConnectedAccounts)
	if err != nil {
		return defaults, apperrors.StoreFailure(err)
	}
	if !ok {
		return defaults, nil
	}

	var accounts map[model.Platform]*model.Account
	if err := json.Unmarshal([]byte(value), &accounts); err != nil {
		return defaults, apperrors.LoadParseFailure(KeyConnectedAccounts, err)
	}

	// Stored maps written before a platform existed may miss keys.
	for _, p := range model.AllPlatforms() {
		if _, present := accounts[p]; !present {
			accounts[p] = nil
		}
	}
	return accounts, nil
}

func (r *sessionRepo) SaveAccounts(ctx context.Context, accounts map[model.Platform]*model.Account) error {
	data, err := json.Marshal(accounts)
	if err != nil {
		return apperrors.Internal("encode connected accounts").WithCause(err)
	}
	if err := r.kv.Set(ctx, KeyConnectedAccounts, string(data)); err != nil {
		return apperrors.StoreFailure(err)
	}
	return nil
}

func (r *sessionRepo) DeleteAccounts(ctx context.Context) error {
	if err := r.kv.Delete(ctx, KeyConnectedAccounts); err != nil {
		return apperrors.StoreFailure(err)
	}
	return nil
}
