package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/iho/mintledger/internal/domain"
)

const changeChannelPrefix = "mintledger:changes:"

// subscriberBuffer is the per-subscriber queue; events beyond it are dropped.
const subscriberBuffer = 64

// ChangeFeed implements usecase.ChangeFeed over Redis pub/sub. Each account
// has its own channel, so a subscriber for one account never sees another's
// traffic on the wire.
type ChangeFeed struct {
	client redis.UniversalClient
	logger zerolog.Logger
}

// NewChangeFeed creates a new ChangeFeed.
func NewChangeFeed(client redis.UniversalClient, logger zerolog.Logger) *ChangeFeed {
	return &ChangeFeed{
		client: client,
		logger: logger.With().Str("component", "change_feed").Logger(),
	}
}

// Publish sends event on the channel of its account.
func (f *ChangeFeed) Publish(ctx context.Context, event domain.ChangeEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return f.client.Publish(ctx, changeChannelPrefix+event.AccountID, payload).Err()
}

// Subscribe streams events passing filter until ctx ends. The returned
// channel is closed when the subscription ends.
func (f *ChangeFeed) Subscribe(ctx context.Context, filter domain.ChangeFilter) (<-chan domain.ChangeEvent, error) {
	var pubsub *redis.PubSub
	if filter.AccountID != "" {
		pubsub = f.client.Subscribe(ctx, changeChannelPrefix+filter.AccountID)
	} else {
		pubsub = f.client.PSubscribe(ctx, changeChannelPrefix+"*")
	}

	// Wait for the confirmation so no event published after Subscribe returns is missed.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("subscribe to changes: %w", err)
	}

	out := make(chan domain.ChangeEvent, subscriberBuffer)
	go f.pump(ctx, pubsub, filter, out)

	return out, nil
}

func (f *ChangeFeed) pump(ctx context.Context, pubsub *redis.PubSub, filter domain.ChangeFilter, out chan<- domain.ChangeEvent) {
	defer close(out)
	defer pubsub.Close()

	msgs := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}

			var event domain.ChangeEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				f.logger.Warn().Err(err).Str("channel", msg.Channel).Msg("malformed change event")
				continue
			}
			if !filter.Matches(event) {
				continue
			}

			select {
			case out <- event:
			default:
				f.logger.Warn().
					Str("account_id", event.AccountID).
					Str("table", event.Table).
					Msg("subscriber too slow, change event dropped")
			}
		}
	}
}
