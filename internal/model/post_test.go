package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduledAt(t *testing.T) {
	post := Post{ScheduledDate: "2025-03-01", ScheduledTime: "09:30"}

	at, err := post.ScheduledAt()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 1, 9, 30, 0, 0, time.Local), at)
}

func TestScheduledAtRejectsMalformedFields(t *testing.T) {
	post := Post{ScheduledDate: "tomorrow", ScheduledTime: "morning"}

	_, err := post.ScheduledAt()
	assert.Error(t, err)
}

func TestSessionCloneIsIndependent(t *testing.T) {
	session := NewSession()
	session.Authenticated = true
	session.ConnectedAccounts[PlatformTwitter] = &Account{Username: "demo_twitter_user"}

	clone := session.Clone()
	clone.ConnectedAccounts[PlatformTwitter].Username = "changed"
	clone.ConnectedAccounts[PlatformFacebook] = &Account{Username: "sneaky"}

	assert.Equal(t, "demo_twitter_user", session.ConnectedAccounts[PlatformTwitter].Username)
	assert.Nil(t, session.ConnectedAccounts[PlatformFacebook])
}

func TestResetClearsEverything(t *testing.T) {
	session := NewSession()
	session.Authenticated = true
	session.ConnectedAccounts[PlatformInstagram] = &Account{Username: "x"}

	session.Reset()

	assert.False(t, session.Authenticated)
	for _, platform := range AllPlatforms() {
		assert.Nil(t, session.ConnectedAccounts[platform])
	}
}
