package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// HoldKeyPrefix is shared with the expiry subscriber in main.
const HoldKeyPrefix = "ticket_hold:"

// defaultHoldTTL is the payment window used when no TTL is configured.
const defaultHoldTTL = 10 * time.Minute

// Holds gives pending ticket purchases a TTL. A hold that expires
// before payment confirmation triggers cancellation of the ticket
// via keyspace notifications.
type Holds struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewHolds(client *redis.Client, ttl time.Duration) *Holds {
	if ttl <= 0 {
		ttl = defaultHoldTTL
	}
	return &Holds{Client: client, TTL: ttl}
}

// PlaceHold starts the payment window for a pending ticket.
func (h *Holds) PlaceHold(ticketID string) (bool, error) {
	key := HoldKeyPrefix + ticketID
	ok, err := h.Client.SetNX(context.Background(), key, ticketID, h.TTL).Result()
	return ok, err
}

// ClearHold removes the hold once the purchase is confirmed or
// cancelled.
func (h *Holds) ClearHold(ticketID string) error {
	ctx := context.Background()
	key := fmt.Sprintf("%s%s", HoldKeyPrefix, ticketID)
	_, err := h.Client.Del(ctx, key).Result()
	if err == redis.Nil {
		return nil // already gone
	}
	return err
}
