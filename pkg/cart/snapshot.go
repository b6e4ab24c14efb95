package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/theAriful7/storefront/pkg/memory"
	"github.com/theAriful7/storefront/pkg/model"
)

// SnapshotStore persists the last applied cart per user so a restarted
// process can show something before the first reload lands.
type SnapshotStore struct {
	mem    memory.Memory
	prefix string
	ttl    time.Duration
}

// NewSnapshotStore stores snapshots in mem under prefix with the given TTL.
func NewSnapshotStore(mem memory.Memory, prefix string, ttl time.Duration) *SnapshotStore {
	return &SnapshotStore{mem: mem, prefix: prefix, ttl: ttl}
}

func (s *SnapshotStore) key(userID int64) string {
	k := "user:" + strconv.FormatInt(userID, 10)
	if s.prefix == "" {
		return k
	}
	return s.prefix + ":" + k
}

// Save stores a copy of cart for userID.
func (s *SnapshotStore) Save(ctx context.Context, userID int64, cart *model.Cart) error {
	if cart == nil {
		return s.Delete(ctx, userID)
	}
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("encode cart snapshot: %w", err)
	}
	return s.mem.Set(ctx, s.key(userID), data, s.ttl)
}

// Load returns the snapshot for userID, or (nil, nil) when there is none.
func (s *SnapshotStore) Load(ctx context.Context, userID int64) (*model.Cart, error) {
	data, err := s.mem.Get(ctx, s.key(userID))
	if errors.Is(err, memory.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var cart model.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("decode cart snapshot: %w", err)
	}
	return &cart, nil
}

// Delete drops the snapshot for userID.
func (s *SnapshotStore) Delete(ctx context.Context, userID int64) error {
	return s.mem.Delete(ctx, s.key(userID))
}
