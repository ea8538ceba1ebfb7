package redis

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/mintledger/internal/domain"
)

func receive(t *testing.T, ch <-chan domain.ChangeEvent) domain.ChangeEvent {
	t.Helper()
	select {
	case ev, ok := <-ch:
		require.True(t, ok, "channel closed")
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("no change event received")
		return domain.ChangeEvent{}
	}
}

func TestChangeFeed_DeliversAccountEvents(t *testing.T) {
	client, _ := newTestRedisClient(t)
	feed := NewChangeFeed(client, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := feed.Subscribe(ctx, domain.ChangeFilter{AccountID: "acc-1", Tables: []string{"withdrawals"}})
	require.NoError(t, err)

	at := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	require.NoError(t, feed.Publish(ctx, domain.ChangeEvent{Table: "accounts", Type: "update", AccountID: "acc-1", RecordID: "acc-1", At: at}))
	require.NoError(t, feed.Publish(ctx, domain.ChangeEvent{Table: "withdrawals", Type: "insert", AccountID: "acc-2", RecordID: "w-0", At: at}))
	require.NoError(t, feed.Publish(ctx, domain.ChangeEvent{Table: "withdrawals", Type: "insert", AccountID: "acc-1", RecordID: "w-1", At: at}))

	ev := receive(t, events)
	assert.Equal(t, "w-1", ev.RecordID)
	assert.Equal(t, "insert", ev.Type)
	assert.True(t, ev.At.Equal(at))
}

func TestChangeFeed_AllAccounts(t *testing.T) {
	client, _ := newTestRedisClient(t)
	feed := NewChangeFeed(client, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := feed.Subscribe(ctx, domain.ChangeFilter{})
	require.NoError(t, err)

	require.NoError(t, feed.Publish(ctx, domain.ChangeEvent{Table: "accounts", AccountID: "acc-7", RecordID: "acc-7"}))

	assert.Equal(t, "acc-7", receive(t, events).AccountID)
}

func TestChangeFeed_ClosesOnCancel(t *testing.T) {
	client, _ := newTestRedisClient(t)
	feed := NewChangeFeed(client, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	events, err := feed.Subscribe(ctx, domain.ChangeFilter{AccountID: "acc-1"})
	require.NoError(t, err)

	cancel()

	select {
	case _, ok := <-events:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("subscription not closed")
	}
}

func TestChangeFeed_SubscribeFailsWhenRedisDown(t *testing.T) {
	client, mr := newTestRedisClient(t)
	feed := NewChangeFeed(client, zerolog.Nop())
	mr.Close()

	_, err := feed.Subscribe(context.Background(), domain.ChangeFilter{AccountID: "acc-1"})
	assert.Error(t, err)
}
