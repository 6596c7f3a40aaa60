// Package state holds the client-side stores behind the inkwell UI: the
// project cache, draft auto-save, activity history, recent access and UI
// mode flags. The studio backend stays authoritative; everything persisted
// here is a UI affordance, so storage failures degrade to memory-only
// operation instead of surfacing.
package state

import "context"

// KV is the slice of the local store the state layer writes through.
// store.Store satisfies it.
type KV interface {
	Get(ctx context.Context, key string, out any) (bool, error)
	Put(ctx context.Context, key string, v any) error
	Delete(ctx context.Context, key string) error
}

// Reserved storage keys. Draft keys carry a caller-chosen suffix and are
// otherwise opaque.
const (
	KeyActivity    = "activity-records"
	KeyRecents     = "recent-access"
	KeyUIState     = "ui-state"
	DraftKeyPrefix = "draft:"
)

func DraftKey(key string) string { return DraftKeyPrefix + key }
