package session_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mossvale/delve-bot-discord/internal/session"
)

type counter struct {
	value int
}

func TestManager_SetGetPop(t *testing.T) {
	manager := session.NewManager[*counter]()
	key := session.Key{GuildID: "g1", ChannelID: "c1"}

	_, ok := manager.Get(key)
	assert.False(t, ok)

	manager.Set(key, &counter{value: 7})
	got, ok := manager.Get(key)
	require.True(t, ok)
	assert.Equal(t, 7, got.value)

	popped, ok := manager.Pop(key)
	require.True(t, ok)
	assert.Equal(t, 7, popped.value)

	_, ok = manager.Get(key)
	assert.False(t, ok)
	_, ok = manager.Pop(key)
	assert.False(t, ok)
}

func TestManager_UpdateOnAbsentKeyIsNoOp(t *testing.T) {
	manager := session.NewManager[*counter]()
	called := false

	ok := manager.Update(session.Key{ChannelID: "missing"}, func(*counter) {
		called = true
	})

	assert.False(t, ok)
	assert.False(t, called)
}

func TestManager_ConcurrentUpdatesNeverLost(t *testing.T) {
	manager := session.NewManager[*counter]()
	key := session.Key{GuildID: "g", ChannelID: "c"}
	manager.Set(key, &counter{})

	const workers = 16
	const iterations = 200

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				manager.Update(key, func(c *counter) {
					c.value++
				})
			}
		}()
	}
	wg.Wait()

	got, ok := manager.Get(key)
	require.True(t, ok)
	assert.Equal(t, workers*iterations, got.value)
}

func TestManager_KeysAndValuesSnapshot(t *testing.T) {
	manager := session.NewManager[*counter]()
	manager.Set(session.Key{GuildID: "g", ChannelID: "a"}, &counter{value: 1})
	manager.Set(session.Key{GuildID: "g", ChannelID: "b"}, &counter{value: 2})

	assert.Len(t, manager.Keys(), 2)
	assert.Len(t, manager.Values(), 2)
	assert.Equal(t, 2, manager.Len())
}

func TestManager_ClearGuild(t *testing.T) {
	manager := session.NewManager[*counter]()
	manager.Set(session.Key{GuildID: "g1", ChannelID: "a"}, &counter{})
	manager.Set(session.Key{GuildID: "g1", ChannelID: "b"}, &counter{})
	manager.Set(session.Key{GuildID: "g2", ChannelID: "c"}, &counter{})

	removed := manager.ClearGuild("g1")
	assert.Equal(t, 2, removed)
	assert.Equal(t, 1, manager.Len())

	_, ok := manager.Get(session.Key{GuildID: "g2", ChannelID: "c"})
	assert.True(t, ok)
}

func TestManager_SweepRemovesIdleSessions(t *testing.T) {
	manager := session.NewManager[*counter]()
	idle := session.Key{GuildID: "g", ChannelID: "idle"}
	manager.Set(idle, &counter{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	expired := make(chan session.Key, 1)
	manager.StartSweep(ctx, 10*time.Millisecond, 30*time.Millisecond, func(key session.Key) {
		expired <- key
	})

	select {
	case key := <-expired:
		assert.Equal(t, idle, key)
	case <-time.After(2 * time.Second):
		t.Fatal("idle session was never swept")
	}

	_, ok := manager.Get(idle)
	assert.False(t, ok)
}

func TestManager_SweepKeepsActiveSessions(t *testing.T) {
	manager := session.NewManager[*counter]()
	active := session.Key{GuildID: "g", ChannelID: "active"}
	manager.Set(active, &counter{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	manager.StartSweep(ctx, 10*time.Millisecond, time.Minute, nil)

	time.Sleep(60 * time.Millisecond)
	_, ok := manager.Get(active)
	assert.True(t, ok)
}
