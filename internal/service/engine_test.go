package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/postdeck/scheduler-server-go/internal/errors"
	"github.com/postdeck/scheduler-server-go/internal/model"
)

func validDraft() model.Draft {
	return model.Draft{
		Content:       "hello",
		Platforms:     []model.Platform{model.PlatformTwitter},
		ScheduledDate: "2025-01-01",
		ScheduledTime: "10:00",
	}
}

func TestValidateDraft(t *testing.T) {
	t.Run("valid draft passes", func(t *testing.T) {
		assert.NoError(t, ValidateDraft(validDraft()))
	})

	tests := []struct {
		name         string
		mutate       func(*model.Draft)
		expectedCode apperrors.ErrorCode
	}{
		{"missing content", func(d *model.Draft) { d.Content = "" }, apperrors.ErrCodeMissingContent},
		{"no platforms", func(d *model.Draft) { d.Platforms = nil }, apperrors.ErrCodeNoPlatformSelected},
		{"missing date", func(d *model.Draft) { d.ScheduledDate = "" }, apperrors.ErrCodeMissingDate},
		{"missing time", func(d *model.Draft) { d.ScheduledTime = "" }, apperrors.ErrCodeMissingTime},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := validDraft()
			tt.mutate(&draft)

			err := ValidateDraft(draft)
			require.Error(t, err)
			assert.Equal(t, tt.expectedCode, apperrors.GetCode(err))
			assert.True(t, apperrors.IsValidation(err))
		})
	}

	t.Run("all failing checks reported in details", func(t *testing.T) {
		err := ValidateDraft(model.Draft{})
		require.Error(t, err)

		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeMissingContent, appErr.Code)
		assert.Equal(t, []string{"content", "platforms", "scheduledDate", "scheduledTime"}, appErr.Details)
	})
}

func TestToggleDraftPlatform(t *testing.T) {
	connected := map[model.Platform]*model.Account{
		model.PlatformFacebook:  nil,
		model.PlatformInstagram: nil,
		model.PlatformTwitter:   {Platform: model.PlatformTwitter, Username: "demo_twitter_user"},
	}

	t.Run("disconnected platform rejected, draft unchanged", func(t *testing.T) {
		draft := model.Draft{Platforms: []model.Platform{model.PlatformTwitter}}

		err := ToggleDraftPlatform(&draft, model.PlatformFacebook, connected)
		assert.Equal(t, apperrors.ErrCodePlatformNotConnected, apperrors.GetCode(err))
		assert.Equal(t, []model.Platform{model.PlatformTwitter}, draft.Platforms)
	})

	t.Run("connected platform added when absent", func(t *testing.T) {
		draft := model.Draft{}

		require.NoError(t, ToggleDraftPlatform(&draft, model.PlatformTwitter, connected))
		assert.Equal(t, []model.Platform{model.PlatformTwitter}, draft.Platforms)
	})

	t.Run("connected platform removed when present", func(t *testing.T) {
		draft := model.Draft{Platforms: []model.Platform{model.PlatformTwitter}}

		require.NoError(t, ToggleDraftPlatform(&draft, model.PlatformTwitter, connected))
		assert.Empty(t, draft.Platforms)
	})
}

func TestOrderForDisplay(t *testing.T) {
	t.Run("sorts ascending by scheduled instant", func(t *testing.T) {
		posts := []model.Post{
			{ID: 1, ScheduledDate: "2025-03-01", ScheduledTime: "09:00"},
			{ID: 2, ScheduledDate: "2025-02-15", ScheduledTime: "18:00"},
			{ID: 3, ScheduledDate: "2025-03-01", ScheduledTime: "08:00"},
		}

		ordered := OrderForDisplay(posts)

		require.Len(t, ordered, 3)
		assert.Equal(t, int64(2), ordered[0].ID)
		assert.Equal(t, int64(3), ordered[1].ID)
		assert.Equal(t, int64(1), ordered[2].ID)
	})

	t.Run("ties keep stored relative order", func(t *testing.T) {
		posts := []model.Post{
			{ID: 10, ScheduledDate: "2025-01-01", ScheduledTime: "10:00"},
			{ID: 11, ScheduledDate: "2025-01-01", ScheduledTime: "10:00"},
			{ID: 12, ScheduledDate: "2025-01-01", ScheduledTime: "10:00"},
		}

		ordered := OrderForDisplay(posts)

		assert.Equal(t, []int64{10, 11, 12}, []int64{ordered[0].ID, ordered[1].ID, ordered[2].ID})
	})

	t.Run("input is not mutated", func(t *testing.T) {
		posts := []model.Post{
			{ID: 1, ScheduledDate: "2025-03-01", ScheduledTime: "09:00"},
			{ID: 2, ScheduledDate: "2025-02-15", ScheduledTime: "18:00"},
		}

		_ = OrderForDisplay(posts)

		assert.Equal(t, int64(1), posts[0].ID)
		assert.Equal(t, int64(2), posts[1].ID)
	})
}

func TestIDClock(t *testing.T) {
	t.Run("same-millisecond calls stay unique and ordered", func(t *testing.T) {
		frozen := newIDClock(nil)
		a := frozen.Next()
		b := frozen.Next()
		c := frozen.Next()

		assert.Less(t, a, b)
		assert.Less(t, b, c)
	})

	t.Run("seed moves the clock forward only", func(t *testing.T) {
		clock := newIDClock(nil)
		clock.Seed(9999999999999)
		assert.Equal(t, int64(10000000000000), clock.Next())

		clock.Seed(5)
		assert.Equal(t, int64(10000000000001), clock.Next())
	})
}
