package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cinebook/internal/holds"
	"cinebook/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const channelPattern = "realtime:showing:*"

func channelFor(showingID uuid.UUID) string {
	return fmt.Sprintf("realtime:showing:%s", showingID)
}

// RedisBridge relays showing events through Redis pub/sub so that every API
// instance sees events published by any of them. Outbound events go to Redis
// only; the Run loop feeds them back into the local hub, which keeps a single
// delivery path whether an event originated locally or on another instance.
//
// With a nil client the bridge degrades to direct in-process delivery.
type RedisBridge struct {
	hub    *Hub
	client *redis.Client
}

func NewRedisBridge(hub *Hub, client *redis.Client) *RedisBridge {
	return &RedisBridge{hub: hub, client: client}
}

// Publish sends an event to all instances, including this one.
func (b *RedisBridge) Publish(ev Event) {
	if b.client == nil {
		b.hub.Publish(ev)
		return
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		logger.GetDefault().WithError(err).Error("Failed to encode realtime event")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := b.client.Publish(ctx, channelFor(ev.ShowingID), payload).Err(); err != nil {
		logger.GetDefault().WithError(err).Warn("Failed to publish realtime event, delivering locally")
		b.hub.Publish(ev)
	}
}

// Run subscribes to the showing channels and pumps remote events into the
// local hub until ctx is cancelled. It returns immediately when the bridge
// has no Redis client.
func (b *RedisBridge) Run(ctx context.Context) {
	if b.client == nil {
		return
	}

	log := logger.GetDefault()
	sub := b.client.PSubscribe(ctx, channelPattern)
	defer sub.Close()

	log.Info("Realtime bridge subscribed", "pattern", channelPattern)

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				log.WithError(err).Warn("Dropping malformed realtime event")
				continue
			}
			b.hub.Publish(ev)
		}
	}
}

// HoldsUpdated implements holds.Broadcaster.
func (b *RedisBridge) HoldsUpdated(showingID uuid.UUID, live []holds.Hold) {
	b.Publish(Event{
		Type:      EventHoldsUpdated,
		ShowingID: showingID,
		Holds:     live,
		At:        time.Now(),
	})
}

// SeatsConfirmed implements holds.Broadcaster.
func (b *RedisBridge) SeatsConfirmed(showingID uuid.UUID, seats []string) {
	b.Publish(Event{
		Type:      EventSeatsConfirmed,
		ShowingID: showingID,
		Seats:     seats,
		At:        time.Now(),
	})
}
