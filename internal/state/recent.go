package state

import (
	"context"
	"sync"
	"time"

	"inkwell-cli/internal/model"
)

// MaxRecentItems caps the most-recently-used list.
const MaxRecentItems = 5

// RecentList tracks the last few projects and chapters the user opened.
// Ids are unique: re-adding one moves it to the front.
type RecentList struct {
	kv KV

	mu    sync.Mutex
	items []model.RecentItem

	now func() time.Time
}

func NewRecentList(ctx context.Context, kv KV) *RecentList {
	r := &RecentList{kv: kv, now: time.Now}
	var persisted []model.RecentItem
	if ok, err := kv.Get(ctx, KeyRecents, &persisted); err == nil && ok {
		r.items = persisted
	}
	return r
}

// Add stamps the item with the current time and moves it to the front,
// dropping any older entry with the same id and anything past the cap.
func (r *RecentList) Add(ctx context.Context, item model.RecentItem) {
	item.Timestamp = r.now()

	r.mu.Lock()
	items := make([]model.RecentItem, 0, len(r.items)+1)
	items = append(items, item)
	for _, it := range r.items {
		if it.ID != item.ID {
			items = append(items, it)
		}
	}
	if len(items) > MaxRecentItems {
		items = items[:MaxRecentItems]
	}
	r.items = items
	r.mu.Unlock()

	_ = r.kv.Put(ctx, KeyRecents, items)
}

// Items returns a copy of the list, most recent first.
func (r *RecentList) Items() []model.RecentItem {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.RecentItem, len(r.items))
	copy(out, r.items)
	return out
}

// Clear empties the list and removes the persisted entry.
func (r *RecentList) Clear(ctx context.Context) {
	r.mu.Lock()
	r.items = nil
	r.mu.Unlock()

	_ = r.kv.Delete(ctx, KeyRecents)
}
