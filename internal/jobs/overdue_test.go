package jobs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/postdeck/scheduler-server-go/internal/model"
)

func TestOverdue(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.Local)

	posts := []model.Post{
		{ID: 1, Status: model.PostStatusScheduled, ScheduledDate: "2025-03-01", ScheduledTime: "09:00"},
		{ID: 2, Status: model.PostStatusScheduled, ScheduledDate: "2025-03-01", ScheduledTime: "18:00"},
		{ID: 3, Status: model.PostStatusPublished, ScheduledDate: "2025-02-01", ScheduledTime: "09:00"},
		{ID: 4, Status: model.PostStatusScheduled, ScheduledDate: "garbage", ScheduledTime: "09:00"},
	}

	overdue := Overdue(posts, now)

	require.Len(t, overdue, 1)
	assert.Equal(t, int64(1), overdue[0].ID)
}

func TestOverdue_EmptyCollection(t *testing.T) {
	assert.Empty(t, Overdue(nil, time.Now()))
}
