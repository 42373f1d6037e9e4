package sse

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	HeartbeatInterval = 30 * time.Second

	// eventsChannel is the redis pub/sub channel bridging event fan-out
	// across processes when the redis backend is active.
	eventsChannel = "scheduler:events"
)

// Mutation event types published to the presentation layer.
const (
	EventPostCreated       = "post_created"
	EventPostUpdated       = "post_updated"
	EventPostDeleted       = "post_deleted"
	EventPostPublished     = "post_published"
	EventAccountConnected  = "account_connected"
	EventAccountDisconnect = "account_disconnected"
	EventLoggedIn          = "logged_in"
	EventLoggedOut         = "logged_out"
)

type Event struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// NewEvent marshals payload into an Event. Marshal failures produce an
// event with empty data rather than an error; events are advisory.
func NewEvent(eventType string, payload any) Event {
	if payload == nil {
		return Event{Type: eventType}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		log.Warn().Err(err).Str("type", eventType).Msg("failed to marshal event payload")
		return Event{Type: eventType}
	}
	return Event{Type: eventType, Data: data}
}

type Client struct {
	Events chan Event
	Done   chan struct{}
}

// Broker fans mutation events out to subscribed SSE clients. With a redis
// connection it publishes through pub/sub so every process sees every
// event; without one it broadcasts locally.
type Broker struct {
	rdb     *redis.Client
	clients map[*Client]bool
	mu      sync.RWMutex
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewBroker(rdb *redis.Client) *Broker {
	ctx, cancel := context.WithCancel(context.Background())
	b := &Broker{
		rdb:     rdb,
		clients: make(map[*Client]bool),
		ctx:     ctx,
		cancel:  cancel,
	}
	if rdb != nil {
		go b.subscribeToRedis()
	}
	return b
}

func (b *Broker) Subscribe() *Client {
	client := &Client{
		Events: make(chan Event, 100),
		Done:   make(chan struct{}),
	}

	b.mu.Lock()
	b.clients[client] = true
	count := len(b.clients)
	b.mu.Unlock()

	log.Info().Int("clientCount", count).Msg("sse client subscribed")
	return client
}

func (b *Broker) Unsubscribe(client *Client) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.clients[client]; ok {
		delete(b.clients, client)
		close(client.Done)
		log.Info().Int("clientCount", len(b.clients)).Msg("sse client unsubscribed")
	}
}

func (b *Broker) Publish(ctx context.Context, event Event) error {
	if b.rdb == nil {
		b.broadcast(event)
		return nil
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, eventsChannel, data).Err()
}

func (b *Broker) subscribeToRedis() {
	pubsub := b.rdb.Subscribe(b.ctx, eventsChannel)
	defer pubsub.Close()

	log.Debug().Str("channel", eventsChannel).Msg("redis pubsub subscribed")

	ch := pubsub.Channel()

	for {
		select {
		case <-b.ctx.Done():
			return

		case msg, ok := <-ch:
			if !ok {
				return
			}

			var event Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				log.Error().Err(err).Msg("failed to unmarshal event")
				continue
			}

			b.broadcast(event)
		}
	}
}

func (b *Broker) broadcast(event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for client := range b.clients {
		select {
		case client.Events <- event:
		default:
			log.Warn().Str("type", event.Type).Msg("client event buffer full, dropping event")
		}
	}
}

func (b *Broker) Close() {
	b.cancel()

	b.mu.Lock()
	defer b.mu.Unlock()

	for client := range b.clients {
		close(client.Done)
	}
	b.clients = make(map[*Client]bool)
}

func (b *Broker) ClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}
