package pubsub

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signullgame/signull/internal/model"
	"github.com/signullgame/signull/internal/testutil"
)

func snapshot(code model.RoomCode, version int64) *model.Room {
	return &model.Room{
		SchemaVersion: model.CurrentSchemaVersion,
		Code:          code,
		Version:       version,
		Phase:         model.PhaseLobby,
	}
}

func TestSubscribeReceivesPublishedSnapshots(t *testing.T) {
	b := NewBroker(testutil.NopLogger())
	ch, cancel := b.Subscribe("ROOM01")
	defer cancel()

	b.Publish("ROOM01", snapshot("ROOM01", 1))
	b.Publish("ROOM01", snapshot("ROOM01", 2))

	first := <-ch
	second := <-ch
	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, int64(1), first.Version)
	assert.Equal(t, int64(2), second.Version, "snapshots arrive in commit order")
}

func TestSnapshotsAreRoomScoped(t *testing.T) {
	b := NewBroker(testutil.NopLogger())
	ch, cancel := b.Subscribe("ROOM01")
	defer cancel()

	b.Publish("OTHER1", snapshot("OTHER1", 1))

	select {
	case room := <-ch:
		t.Fatalf("unexpected snapshot for %s", room.Code)
	default:
	}
}

func TestCancelClosesChannel(t *testing.T) {
	b := NewBroker(testutil.NopLogger())
	ch, cancel := b.Subscribe("ROOM01")

	assert.Equal(t, 1, b.SubscriberCount("ROOM01"))
	cancel()
	cancel() // idempotent

	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, b.SubscriberCount("ROOM01"))

	// Publishing after cancel must not panic
	b.Publish("ROOM01", snapshot("ROOM01", 1))
}

func TestPublishSuppressesStaleSnapshots(t *testing.T) {
	b := NewBroker(testutil.NopLogger())
	ch, cancel := b.Subscribe("ROOM01")
	defer cancel()

	b.Publish("ROOM01", snapshot("ROOM01", 2))
	// A publisher that committed first but was preempted delivers late
	b.Publish("ROOM01", snapshot("ROOM01", 1))
	b.Publish("ROOM01", snapshot("ROOM01", 3))

	first := <-ch
	second := <-ch
	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, int64(2), first.Version)
	assert.Equal(t, int64(3), second.Version, "a late older snapshot never rewinds the stream")

	select {
	case room := <-ch:
		t.Fatalf("unexpected extra snapshot v%d", room.Version)
	default:
	}
}

func TestCloseRoomResetsPublishedVersion(t *testing.T) {
	b := NewBroker(testutil.NopLogger())
	_, cancel := b.Subscribe("ROOM01")
	b.Publish("ROOM01", snapshot("ROOM01", 5))
	cancel()
	b.CloseRoom("ROOM01")

	// A fresh room under a reused code starts its version count over
	ch, cancel2 := b.Subscribe("ROOM01")
	defer cancel2()
	b.Publish("ROOM01", snapshot("ROOM01", 1))

	room := <-ch
	require.NotNil(t, room)
	assert.Equal(t, int64(1), room.Version)
}

func TestCloseRoomSendsTombstone(t *testing.T) {
	b := NewBroker(testutil.NopLogger())
	ch, cancel := b.Subscribe("ROOM01")
	defer cancel()

	b.CloseRoom("ROOM01")

	room, open := <-ch
	assert.True(t, open)
	assert.Nil(t, room, "tombstone signals room teardown")

	_, open = <-ch
	assert.False(t, open)
}

func TestSlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	b := NewBroker(testutil.NopLogger())
	ch, cancel := b.Subscribe("ROOM01")
	defer cancel()

	// Overflow the buffer; Publish must never block
	for i := 1; i <= subscriberBuffer+5; i++ {
		b.Publish("ROOM01", snapshot("ROOM01", int64(i)))
	}

	received := 0
	for {
		select {
		case <-ch:
			received++
			continue
		default:
		}
		break
	}
	assert.Equal(t, subscriberBuffer, received)
}
