package state

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"inkwell-cli/internal/model"
)

// MaxActivityRecords caps the operation history.
const MaxActivityRecords = 50

// ActivityLog keeps a bounded newest-first history of user-visible
// operations. The persisted copy never includes Retry closures, so records
// loaded from storage carry no retry.
type ActivityLog struct {
	kv KV

	mu      sync.Mutex
	records []model.ActivityRecord
	visible bool

	now func() time.Time
}

func NewActivityLog(ctx context.Context, kv KV) *ActivityLog {
	l := &ActivityLog{kv: kv, now: time.Now}
	var persisted []model.ActivityRecord
	if ok, err := kv.Get(ctx, KeyActivity, &persisted); err == nil && ok {
		l.records = persisted
	}
	return l
}

// Add assigns an id and the current time, prepends the record and trims the
// history to the newest MaxActivityRecords before persisting it. The
// returned record carries the assigned fields.
func (l *ActivityLog) Add(ctx context.Context, rec model.ActivityRecord) model.ActivityRecord {
	rec.ID = uuid.NewString()
	rec.Timestamp = l.now()

	l.mu.Lock()
	records := make([]model.ActivityRecord, 0, len(l.records)+1)
	records = append(records, rec)
	records = append(records, l.records...)
	if len(records) > MaxActivityRecords {
		records = records[:MaxActivityRecords]
	}
	l.records = records
	l.mu.Unlock()

	_ = l.kv.Put(ctx, KeyActivity, records)
	return rec
}

// Records returns a copy of the history, newest first.
func (l *ActivityLog) Records() []model.ActivityRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]model.ActivityRecord, len(l.records))
	copy(out, l.records)
	return out
}

func (l *ActivityLog) ToggleVisible() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.visible = !l.visible
}

func (l *ActivityLog) Visible() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.visible
}

// Clear empties the history and removes the persisted entry.
func (l *ActivityLog) Clear(ctx context.Context) {
	l.mu.Lock()
	l.records = nil
	l.mu.Unlock()

	_ = l.kv.Delete(ctx, KeyActivity)
}
