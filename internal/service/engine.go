package service

import (
	"sort"
	"time"

	apperrors "github.com/postdeck/scheduler-server-go/internal/errors"
	"github.com/postdeck/scheduler-server-go/internal/model"
)

// ValidateDraft runs every required-field check and rejects when any one
// fails. The returned error carries the first failing check's code and a
// details list naming all failing fields.
func ValidateDraft(draft model.Draft) error {
	var first *apperrors.AppError
	var missing []string

	record := func(err *apperrors.AppError, field string) {
		if first == nil {
			first = err
		}
		missing = append(missing, field)
	}

	if draft.Content == "" {
		record(apperrors.MissingContent(), "content")
	}
	if len(draft.Platforms) == 0 {
		record(apperrors.NoPlatformSelected(), "platforms")
	}
	if draft.ScheduledDate == "" {
		record(apperrors.MissingDate(), "scheduledDate")
	}
	if draft.ScheduledTime == "" {
		record(apperrors.MissingTime(), "scheduledTime")
	}

	if first == nil {
		return nil
	}
	return first.WithDetails(missing)
}

// ToggleDraftPlatform flips platform membership in the draft's target set.
// A platform with no connected account is rejected and the draft is left
// unchanged.
func ToggleDraftPlatform(draft *model.Draft, platform model.Platform, accounts map[model.Platform]*model.Account) error {
	if accounts[platform] == nil {
		return apperrors.PlatformNotConnected(string(platform))
	}

	for i, p := range draft.Platforms {
		if p == platform {
			draft.Platforms = append(draft.Platforms[:i], draft.Platforms[i+1:]...)
			return nil
		}
	}
	draft.Platforms = append(draft.Platforms, platform)
	return nil
}

// OrderForDisplay returns the posts sorted ascending by scheduled instant.
// The sort is stable, so posts sharing an instant keep their stored
// relative order. The input is never mutated; display order is computed
// fresh on every request and never persisted.
func OrderForDisplay(posts []model.Post) []model.Post {
	out := make([]model.Post, len(posts))
	copy(out, posts)

	sort.SliceStable(out, func(i, j int) bool {
		return scheduledAtOrZero(&out[i]).Before(scheduledAtOrZero(&out[j]))
	})
	return out
}

func scheduledAtOrZero(p *model.Post) time.Time {
	at, err := p.ScheduledAt()
	if err != nil {
		return time.Time{}
	}
	return at
}
