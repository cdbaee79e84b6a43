package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCache_AddExpire(t *testing.T) {
	c := New(time.Minute)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	require.True(t, c.Add("flag"))
	require.False(t, c.Add("flag"))

	now = now.Add(2 * time.Minute)
	c.cleanupExpired()
	require.Empty(t, c.items)
	require.True(t, c.Add("flag"))
}

func TestCache_AddCustomTTL(t *testing.T) {
	c := New(time.Minute)
	now := time.Now()
	c.now = func() time.Time { return now }

	require.True(t, c.Add("flag", time.Hour))
	now = now.Add(30 * time.Minute)
	require.False(t, c.Add("flag"))

	now = now.Add(time.Hour)
	require.True(t, c.Add("flag"))
}

func TestCache_DeleteByPrefix(t *testing.T) {
	c := New(time.Minute)
	c.Add("alerts:notified:admin-1")
	c.Add("alerts:notified:editor-1")
	c.Add("other")
	c.DeleteByPrefix("alerts:")
	require.Len(t, c.items, 1)
	require.True(t, c.Add("alerts:notified:admin-1"))
	require.False(t, c.Add("other"))
}

func TestCache_RunStopsWithContext(t *testing.T) {
	c := New(time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx, time.Millisecond)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}
}
