package audit

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type EventType string

const (
	EventLoginSuccess      EventType = "login_success"
	EventLogout            EventType = "logout"
	EventAccountConnect    EventType = "account_connect"
	EventAccountDisconnect EventType = "account_disconnect"
	EventPostCreate        EventType = "post_create"
	EventPostUpdate        EventType = "post_update"
	EventPostDelete        EventType = "post_delete"
	EventPostPublish       EventType = "post_publish"
)

type Event struct {
	Type     EventType
	Platform string
	PostID   int64
	Details  map[string]interface{}
}

// Log emits a structured audit record for a mutation.
func Log(ctx context.Context, event Event) {
	logger := log.With().
		Str("audit", "scheduler").
		Str("event_type", string(event.Type)).
		Time("timestamp", time.Now()).
		Logger()

	if event.Platform != "" {
		logger = logger.With().Str("platform", event.Platform).Logger()
	}
	if event.PostID != 0 {
		logger = logger.With().Int64("post_id", event.PostID).Logger()
	}

	logEvent := logger.Info()
	for k, v := range event.Details {
		logEvent = addField(logEvent, k, v)
	}
	logEvent.Msg("scheduler audit event")
}

func addField(e *zerolog.Event, key string, value interface{}) *zerolog.Event {
	switch v := value.(type) {
	case string:
		return e.Str(key, v)
	case int:
		return e.Int(key, v)
	case int64:
		return e.Int64(key, v)
	case bool:
		return e.Bool(key, v)
	default:
		return e.Interface(key, v)
	}
}
