package model

import (
	"time"
)

// Account is the mocked credential record for a connected platform.
// Tokens are fabricated; there is no real OAuth exchange behind them.
type Account struct {
	Platform    Platform  `json:"platform"`
	Username    string    `json:"username"`
	AccessToken string    `json:"accessToken"`
	ConnectedAt time.Time `json:"connectedAt"`
}
