package model

import (
	"slices"
	"time"
)

// Post is a scheduled (or published) social-media post. ID and CreatedAt
// are assigned once at creation and survive edits; Status only ever moves
// scheduled -> published.
type Post struct {
	ID            int64      `json:"id"`
	Content       string     `json:"content"`
	Platforms     []Platform `json:"platforms"`
	ScheduledDate string     `json:"scheduledDate"`
	ScheduledTime string     `json:"scheduledTime"`
	Image         string     `json:"image,omitempty"`
	Status        PostStatus `json:"status"`
	CreatedAt     time.Time  `json:"createdAt"`
}

const scheduledAtLayout = "2006-01-02 15:04"

// ScheduledAt combines the date and time fields into the scheduled
// instant, interpreted in local time.
func (p *Post) ScheduledAt() (time.Time, error) {
	return time.ParseInLocation(scheduledAtLayout, p.ScheduledDate+" "+p.ScheduledTime, time.Local)
}

func (p *Post) Targets(platform Platform) bool {
	return slices.Contains(p.Platforms, platform)
}

// Draft is the ephemeral form state for creating or editing a post. It is
// never persisted.
type Draft struct {
	Content       string     `json:"content"`
	Platforms     []Platform `json:"platforms"`
	ScheduledDate string     `json:"scheduledDate"`
	ScheduledTime string     `json:"scheduledTime"`
	Image         string     `json:"image,omitempty"`
}

func (d *Draft) HasPlatform(p Platform) bool {
	return slices.Contains(d.Platforms, p)
}
