// Package live fans out collection change notifications to listeners.
package live

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/Skotchmaster/grocery_shop/internal/logging"
	"github.com/Skotchmaster/grocery_shop/internal/mykafka"
)

const (
	Products   = "products"
	Villages   = "villages"
	Orders     = "orders"
	Banners    = "banners"
	Categories = "categories"
	ShopStatus = "shop_status"

	Created = "created"
	Updated = "updated"
	Deleted = "deleted"
)

var Collections = []string{Products, Villages, Orders, Banners, Categories, ShopStatus}

func Known(collection string) bool {
	for _, c := range Collections {
		if c == collection {
			return true
		}
	}
	return false
}

type Change struct {
	Collection string    `json:"collection"`
	Type       string    `json:"type"`
	ID         string    `json:"id,omitempty"`
	At         time.Time `json:"at"`
	Origin     string    `json:"origin,omitempty"`
}

type Publisher interface {
	Publish(ctx context.Context, ch Change)
}

const subscriberBuffer = 8

type Hub struct {
	mu   sync.Mutex
	subs map[string]map[chan Change]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[chan Change]struct{})}
}

// Subscribe registers a listener for one or more collections. A change to
// any of them arrives once on the returned channel. The cancel func
// unregisters it and closes the channel.
func (h *Hub) Subscribe(collections ...string) (<-chan Change, func()) {
	ch := make(chan Change, subscriberBuffer)

	h.mu.Lock()
	for _, col := range collections {
		if h.subs[col] == nil {
			h.subs[col] = make(map[chan Change]struct{})
		}
		h.subs[col][ch] = struct{}{}
	}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			for _, col := range collections {
				delete(h.subs[col], ch)
			}
			h.mu.Unlock()
			close(ch)
		})
	}
}

func (h *Hub) Subscribers(collection string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[collection])
}

// Publish never blocks: a full listener drops its oldest pending change,
// listeners reload wholesale so only the latest one matters.
func (h *Hub) Publish(_ context.Context, c Change) {
	if c.At.IsZero() {
		c.At = time.Now().UTC()
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs[c.Collection] {
		select {
		case ch <- c:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- c:
		default:
		}
	}
}

// KafkaPublisher forwards changes to other instances. Origin tags the
// events so the sending instance can skip its own echo.
type KafkaPublisher struct {
	Producer *mykafka.Producer
	Topic    string
	Origin   string
}

func (k *KafkaPublisher) Publish(ctx context.Context, c Change) {
	if c.At.IsZero() {
		c.At = time.Now().UTC()
	}
	c.Origin = k.Origin
	if err := k.Producer.PublishEvent(ctx, k.Topic, c.Collection, c); err != nil {
		logging.FromContext(ctx).Error("kafka_publish_error", "collection", c.Collection, "type", c.Type, "error", err)
	}
}

// Relay feeds changes published by other instances into the local hub.
type Relay struct {
	Hub    *Hub
	Origin string
}

func (r *Relay) Handle(ctx context.Context, _, value []byte) error {
	var c Change
	if err := json.Unmarshal(value, &c); err != nil {
		return fmt.Errorf("decode change: %w", err)
	}
	if c.Origin == r.Origin || !Known(c.Collection) {
		return nil
	}
	r.Hub.Publish(ctx, c)
	return nil
}

type Multi []Publisher

func (m Multi) Publish(ctx context.Context, c Change) {
	for _, p := range m {
		p.Publish(ctx, c)
	}
}

// Nop discards changes.
type Nop struct{}

func (Nop) Publish(context.Context, Change) {}
