package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Publisher sends page-visit events to the notification channel,
// moving the durable write off the request path. Delivery is at most
// once: there is no acknowledgement and no redelivery.
type Publisher struct {
	client  *redis.Client
	channel string
}

// creates a publisher for the page-visit channel
func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{
		client:  client,
		channel: Channel,
	}
}

// PublishPageVisit emits a page-visit event
func (p *Publisher) PublishPageVisit(ctx context.Context, sessionID, userID, page string) error {
	payload, err := json.Marshal(PageVisit{
		SessionID: sessionID,
		UserID:    userID,
		Page:      page,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal page visit: %w", err)
	}

	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish page visit: %w", err)
	}

	return nil
}
