package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifier_BroadcastsToRegisteredClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(nil)
	go hub.Run(ctx)

	c := &Client{hub: hub, send: make(chan []byte, 4)}
	hub.Register(c)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	n := NewNotifier(hub)
	n.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	id := uuid.New()
	n.AssessmentAnalyzed(id, 74.12, "close_gaps")

	select {
	case msg := <-c.send:
		var evt Event
		require.NoError(t, json.Unmarshal(msg, &evt))
		assert.Equal(t, EventAssessmentAnalyzed, evt.Type)
		assert.Equal(t, id.String(), evt.ID)
		require.NotNil(t, evt.ReadinessPct)
		assert.InDelta(t, 74.12, *evt.ReadinessPct, 1e-9)
		assert.Equal(t, "close_gaps", evt.StatusTag)
		assert.Nil(t, evt.SkillsCount)
		assert.Equal(t, "2026-01-02T03:04:05Z", evt.Timestamp)
	case <-time.After(time.Second):
		t.Fatal("no broadcast received")
	}

	hub.Unregister(c)
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
}

func TestNotifier_NilIsSafe(t *testing.T) {
	var n *Notifier
	n.ProgramSkillsRebuilt(uuid.New(), 3)
	NewNotifier(nil).ProgramSkillsRebuilt(uuid.New(), 3)
}
