package notify

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"codeberg.org/squidlabs/server/internal/logger"
)

// how long a single mirror write may take
const applyTimeout = 10 * time.Second

// MirrorWriter applies page-visit events to the durable session mirror
type MirrorWriter interface {
	AppendPage(ctx context.Context, sessionID, userID, page string) error
}

// Subscriber consumes page-visit events and applies them to the durable
// mirror. It runs in the background for the lifetime of the process;
// events lost between publish and processing leave an eventual
// consistency gap in the mirror, which is documented behavior.
type Subscriber struct {
	client  *redis.Client
	mirrors MirrorWriter
	channel string
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// creates a subscriber for the page-visit channel
func NewSubscriber(client *redis.Client, mirrors MirrorWriter) *Subscriber {
	return &Subscriber{
		client:  client,
		mirrors: mirrors,
		channel: Channel,
	}
}

// begins the background consume loop
func (s *Subscriber) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	sub := s.client.Subscribe(ctx, s.channel)

	s.wg.Add(1)
	go s.run(ctx, sub)

	logger.Info("page-visit subscriber started", "channel", s.channel)
}

// gracefully stops the subscriber
func (s *Subscriber) Stop() {
	if s.cancel != nil {
		s.cancel()
	}

	s.wg.Wait()
	logger.Info("page-visit subscriber stopped")
}

func (s *Subscriber) run(ctx context.Context, sub *redis.PubSub) {
	defer s.wg.Done()
	defer sub.Close() //nolint:errcheck // best-effort cleanup on shutdown

	ch := sub.Channel()

	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}

			s.apply(msg.Payload)
		case <-ctx.Done():
			return
		}
	}
}

// decodes one event and writes it to the mirror; failures are logged and
// the event is dropped (at-most-once delivery)
func (s *Subscriber) apply(payload string) {
	var visit PageVisit

	if err := json.Unmarshal([]byte(payload), &visit); err != nil {
		logger.ErrorErr(err, "failed to decode page visit event")
		return
	}

	if visit.SessionID == "" || visit.Page == "" {
		logger.Warn("dropping malformed page visit event", "payload", payload)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), applyTimeout)
	defer cancel()

	if err := s.mirrors.AppendPage(ctx, visit.SessionID, visit.UserID, visit.Page); err != nil {
		logger.ErrorErr(err, "failed to apply page visit to mirror",
			"session_id", visit.SessionID,
			"page", visit.Page,
		)
	}
}
