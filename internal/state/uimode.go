package state

import (
	"context"
	"sync"
)

// uiState is the persisted mirror of UIMode, restored on the next launch.
type uiState struct {
	SidebarCollapsed bool  `json:"sidebar_collapsed"`
	ReadingMode      bool  `json:"reading_mode"`
	SavedSidebar     *bool `json:"saved_sidebar,omitempty"`
}

// UIMode holds the transient layout flags: sidebar collapse, reading mode
// and the shortcut help overlay. Reading mode remembers the sidebar value
// it collapsed so exiting restores it; the saved slot is only occupied
// while reading mode is active.
type UIMode struct {
	kv KV

	mu               sync.Mutex
	sidebarCollapsed bool
	readingMode      bool
	shortcutHelp     bool
	savedSidebar     *bool
}

func NewUIMode(ctx context.Context, kv KV) *UIMode {
	m := &UIMode{kv: kv}
	var persisted uiState
	if ok, err := kv.Get(ctx, KeyUIState, &persisted); err == nil && ok {
		m.sidebarCollapsed = persisted.SidebarCollapsed
		m.readingMode = persisted.ReadingMode
		if persisted.ReadingMode {
			m.savedSidebar = persisted.SavedSidebar
		}
	}
	return m
}

func (m *UIMode) SidebarCollapsed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sidebarCollapsed
}

func (m *UIMode) ReadingMode() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.readingMode
}

func (m *UIMode) ShortcutHelp() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.shortcutHelp
}

// EnterReadingMode collapses the sidebar for distraction-free reading,
// remembering its value for ExitReadingMode. No-op while already reading.
func (m *UIMode) EnterReadingMode(ctx context.Context) {
	m.mu.Lock()
	if m.readingMode {
		m.mu.Unlock()
		return
	}
	saved := m.sidebarCollapsed
	m.savedSidebar = &saved
	m.readingMode = true
	m.sidebarCollapsed = true
	snap := m.snapshot()
	m.mu.Unlock()

	m.persist(ctx, snap)
}

// ExitReadingMode restores the sidebar to its remembered value (or leaves
// it as is when nothing was remembered) and clears the slot. No-op while
// not reading.
func (m *UIMode) ExitReadingMode(ctx context.Context) {
	m.mu.Lock()
	if !m.readingMode {
		m.mu.Unlock()
		return
	}
	if m.savedSidebar != nil {
		m.sidebarCollapsed = *m.savedSidebar
	}
	m.savedSidebar = nil
	m.readingMode = false
	snap := m.snapshot()
	m.mu.Unlock()

	m.persist(ctx, snap)
}

func (m *UIMode) ToggleReadingMode(ctx context.Context) {
	if m.ReadingMode() {
		m.ExitReadingMode(ctx)
		return
	}
	m.EnterReadingMode(ctx)
}

func (m *UIMode) ToggleSidebar(ctx context.Context) {
	m.mu.Lock()
	m.sidebarCollapsed = !m.sidebarCollapsed
	snap := m.snapshot()
	m.mu.Unlock()

	m.persist(ctx, snap)
}

// ToggleShortcutHelp flips the help overlay. Not persisted.
func (m *UIMode) ToggleShortcutHelp() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shortcutHelp = !m.shortcutHelp
}

// snapshot builds the persisted shape. Callers hold mu.
func (m *UIMode) snapshot() uiState {
	return uiState{
		SidebarCollapsed: m.sidebarCollapsed,
		ReadingMode:      m.readingMode,
		SavedSidebar:     m.savedSidebar,
	}
}

func (m *UIMode) persist(ctx context.Context, snap uiState) {
	_ = m.kv.Put(ctx, KeyUIState, snap)
}
