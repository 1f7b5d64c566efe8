package notifications

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testEventuallyTimeout = time.Second
	testPollInterval      = 10 * time.Millisecond
)

func TestHub_RegisterUnregister(t *testing.T) {
	hub := NewHub()

	clientA, err := hub.Register(10, nil)
	require.NoError(t, err)
	assert.True(t, hub.IsOnline(10))

	clientB, err := hub.Register(10, nil)
	require.NoError(t, err)

	hub.UnregisterClient(clientA)
	assert.True(t, hub.IsOnline(10), "user stays online while one connection remains")

	hub.UnregisterClient(clientB)
	assert.False(t, hub.IsOnline(10))

	// Unregistering twice must not corrupt the count.
	hub.UnregisterClient(clientB)
	_, err = hub.Register(10, nil)
	assert.NoError(t, err)

	_ = hub.Shutdown(context.Background())
}

func TestHub_RejectsRegisterAfterShutdown(t *testing.T) {
	hub := NewHub()

	_, err := hub.Register(5, nil)
	require.NoError(t, err)

	require.NoError(t, hub.Shutdown(context.Background()))
	assert.False(t, hub.IsOnline(5))

	_, err = hub.Register(5, nil)
	assert.Error(t, err)
}

func TestHub_PerUserConnectionLimit(t *testing.T) {
	hub := NewHub()

	for i := 0; i < maxConnsPerUser; i++ {
		_, err := hub.Register(7, nil)
		require.NoError(t, err)
	}

	_, err := hub.Register(7, nil)
	assert.Error(t, err)

	_ = hub.Shutdown(context.Background())
}

func TestHub_BroadcastReachesOnlyTargetUser(t *testing.T) {
	hub := NewHub()

	clientA, err := hub.Register(1, nil)
	require.NoError(t, err)
	clientB, err := hub.Register(2, nil)
	require.NoError(t, err)

	hub.Broadcast(1, `{"type":"entry_created"}`)

	select {
	case msg := <-clientA.Send:
		assert.JSONEq(t, `{"type":"entry_created"}`, string(msg))
	default:
		t.Fatal("expected message for user 1")
	}

	select {
	case <-clientB.Send:
		t.Fatal("user 2 must not receive user 1's message")
	default:
	}

	_ = hub.Shutdown(context.Background())
}

func TestHub_WiringForwardsRedisEvents(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	hub := NewHub()
	notifier := NewNotifier(rdb)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, hub.StartWiring(ctx, notifier))

	client, err := hub.Register(3, nil)
	require.NoError(t, err)

	// The subscriber goroutine needs a moment to attach.
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, notifier.PublishBroadcast(ctx, `{"type":"entry_reaction_updated"}`))

	assert.Eventually(t, func() bool {
		select {
		case msg := <-client.Send:
			return string(msg) == `{"type":"entry_reaction_updated"}`
		default:
			return false
		}
	}, testEventuallyTimeout, testPollInterval)

	_ = hub.Shutdown(context.Background())
}
