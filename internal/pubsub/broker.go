// Package pubsub delivers committed room snapshots to subscribers as a
// cancellable stream. Subscribers observe a room's updates in commit order;
// no cross-room ordering is guaranteed.
package pubsub

import (
	"log/slog"
	"sync"

	"github.com/signullgame/signull/internal/model"
)

// subscriberBuffer is the per-subscriber channel capacity. A slow consumer
// drops snapshots rather than blocking the publisher; the next snapshot
// supersedes anything missed.
const subscriberBuffer = 16

type subscriber struct {
	ch chan *model.Room
}

// Broker fans committed snapshots out to per-room subscriber sets
type Broker struct {
	mu    sync.RWMutex
	rooms map[model.RoomCode]map[*subscriber]struct{}

	// published tracks the highest version delivered per room. Publishers
	// race between transaction commit and delivery, so a snapshot can show
	// up after a later commit's snapshot already went out; those are
	// suppressed to keep each stream in commit order.
	published map[model.RoomCode]int64

	logger *slog.Logger
}

// NewBroker creates a new snapshot broker
func NewBroker(logger *slog.Logger) *Broker {
	return &Broker{
		rooms:     make(map[model.RoomCode]map[*subscriber]struct{}),
		published: make(map[model.RoomCode]int64),
		logger:    logger.With(slog.String("component", "pubsub")),
	}
}

// Subscribe registers for a room's snapshot stream. The returned cancel
// func must be called exactly once; after cancellation the channel is
// closed. A nil snapshot on the channel means the room was torn down.
func (b *Broker) Subscribe(code model.RoomCode) (<-chan *model.Room, func()) {
	sub := &subscriber{ch: make(chan *model.Room, subscriberBuffer)}

	b.mu.Lock()
	subs, ok := b.rooms[code]
	if !ok {
		subs = make(map[*subscriber]struct{})
		b.rooms[code] = subs
	}
	subs[sub] = struct{}{}
	total := len(subs)
	b.mu.Unlock()

	b.logger.Info("subscriber registered",
		slog.String("room", string(code)),
		slog.Int("total_subscribers", total),
	)

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			if subs, ok := b.rooms[code]; ok {
				if _, present := subs[sub]; present {
					delete(subs, sub)
					close(sub.ch)
				}
				if len(subs) == 0 {
					delete(b.rooms, code)
				}
			}
			b.mu.Unlock()
		})
	}

	return sub.ch, cancel
}

// Publish delivers a committed snapshot to every subscriber of the room.
// Snapshots at or below the last delivered version are dropped: the newer
// state already went out, and delivering the late one would rewind every
// subscriber. Delivery is non-blocking: full buffers drop the snapshot
// with a warning.
func (b *Broker) Publish(code model.RoomCode, room *model.Room) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if room.Version <= b.published[code] {
		b.logger.Info("stale snapshot suppressed",
			slog.String("room", string(code)),
			slog.Int64("version", room.Version),
			slog.Int64("delivered", b.published[code]),
		)
		return
	}
	b.published[code] = room.Version

	dropped := 0
	for sub := range b.rooms[code] {
		select {
		case sub.ch <- room:
		default:
			dropped++
		}
	}
	if dropped > 0 {
		b.logger.Warn("snapshot dropped - subscriber buffer full",
			slog.String("room", string(code)),
			slog.Int("dropped", dropped),
		)
	}
}

// CloseRoom sends a nil tombstone to every subscriber of a torn-down room
// and closes their channels
func (b *Broker) CloseRoom(code model.RoomCode) {
	b.mu.Lock()
	subs := b.rooms[code]
	delete(b.rooms, code)
	delete(b.published, code)
	b.mu.Unlock()

	for sub := range subs {
		select {
		case sub.ch <- nil:
		default:
		}
		close(sub.ch)
	}

	if len(subs) > 0 {
		b.logger.Info("room stream closed",
			slog.String("room", string(code)),
			slog.Int("disconnected_subscribers", len(subs)),
		)
	}
}

// SubscriberCount returns the number of subscribers for a room
func (b *Broker) SubscriberCount(code model.RoomCode) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.rooms[code])
}
