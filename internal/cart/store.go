package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyCart = "cart:%s"
	TTLCart = 7 * 24 * time.Hour

	updateRetries = 50
)

// ErrBusy means a cart kept changing under an update.
var ErrBusy = errors.New("cart is being modified, try again")

// Store persists carts between requests. Load returns an empty cart for
// unknown users.
type Store interface {
	Load(ctx context.Context, userID string) (*Cart, error)
	Save(ctx context.Context, userID string, c *Cart) error
	Delete(ctx context.Context, userID string) error
	// Update applies fn to the stored cart and saves the result without
	// losing a concurrent update. Nothing is saved when fn fails.
	Update(ctx context.Context, userID string, fn func(*Cart) error) (*Cart, error)
}

func key(userID string) string { return fmt.Sprintf(keyCart, userID) }

type MemoryStore struct {
	mu    sync.Mutex
	carts map[string]Cart
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[string]Cart)}
}

func (s *MemoryStore) Load(_ context.Context, userID string) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(userID), nil
}

func (s *MemoryStore) Save(_ context.Context, userID string, c *Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.save(userID, c)
	return nil
}

func (s *MemoryStore) Update(_ context.Context, userID string, fn func(*Cart) error) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.load(userID)
	if err := fn(c); err != nil {
		return nil, err
	}
	s.save(userID, c)
	return c, nil
}

func (s *MemoryStore) load(userID string) *Cart {
	stored := s.carts[userID]
	return &Cart{Items: append([]Item(nil), stored.Items...)}
}

func (s *MemoryStore) save(userID string, c *Cart) {
	if c.Empty() {
		delete(s.carts, userID)
		return
	}
	s.carts[userID] = Cart{Items: append([]Item(nil), c.Items...)}
}

func (s *MemoryStore) Delete(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, userID)
	return nil
}

type RedisStore struct {
	RDB *redis.Client
	TTL time.Duration
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{RDB: rdb, TTL: TTLCart}
}

func (s *RedisStore) Load(ctx context.Context, userID string) (*Cart, error) {
	return load(ctx, s.RDB, key(userID))
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

type writer interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

func load(ctx context.Context, r getter, k string) (*Cart, error) {
	raw, err := r.Get(ctx, k).Bytes()
	if errors.Is(err, redis.Nil) {
		return &Cart{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get cart: %w", err)
	}

	var c Cart
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return &c, nil
}

func (s *RedisStore) Save(ctx context.Context, userID string, c *Cart) error {
	return s.save(ctx, s.RDB, key(userID), c)
}

func (s *RedisStore) save(ctx context.Context, r writer, k string, c *Cart) error {
	if c.Empty() {
		if err := r.Del(ctx, k).Err(); err != nil {
			return fmt.Errorf("redis del cart: %w", err)
		}
		return nil
	}
	raw, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := r.Set(ctx, k, raw, s.TTL).Err(); err != nil {
		return fmt.Errorf("redis set cart: %w", err)
	}
	return nil
}

// Update runs fn under WATCH on the cart key and retries when another
// writer got in between.
func (s *RedisStore) Update(ctx context.Context, userID string, fn func(*Cart) error) (*Cart, error) {
	k := key(userID)
	var out *Cart
	txf := func(tx *redis.Tx) error {
		c, err := load(ctx, tx, k)
		if err != nil {
			return err
		}
		if err := fn(c); err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			return s.save(ctx, p, k, c)
		})
		if err == nil {
			out = c
		}
		return err
	}

	for i := 0; i < updateRetries; i++ {
		err := s.RDB.Watch(ctx, txf, k)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return out, nil
	}
	return nil, ErrBusy
}

func (s *RedisStore) Delete(ctx context.Context, userID string) error {
	if err := s.RDB.Del(ctx, key(userID)).Err(); err != nil {
		return fmt.Errorf("redis del cart: %w", err)
	}
	return nil
}
