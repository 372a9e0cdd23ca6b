package internal

import (
	"sync"
	"time"
)

// Kind is the category of a notification
type Kind int

const (
	KindSuccess Kind = iota
	KindError
)

func (k Kind) String() string {
	if k == KindError {
		return "error"
	}
	return "success"
}

// DefaultToastTTL is how long a toast stays visible
const DefaultToastTTL = 3 * time.Second

// Notifier receives fire-and-forget events. Implementations must not block
// and their results are never consulted.
type Notifier interface {
	Notify(kind Kind, text string)
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(kind Kind, text string)

// Notify implements Notifier
func (f NotifierFunc) Notify(kind Kind, text string) {
	f(kind, text)
}

// MultiNotifier fans a notification out to several notifiers
type MultiNotifier []Notifier

// Notify implements Notifier
func (m MultiNotifier) Notify(kind Kind, text string) {
	for _, n := range m {
		if n != nil {
			n.Notify(kind, text)
		}
	}
}

// LogNotifier writes notifications to the log
type LogNotifier struct{}

// Notify implements Notifier
func (LogNotifier) Notify(kind Kind, text string) {
	if kind == KindError {
		Logger().Warn("notification", "text", text)
		return
	}
	Logger().Info("notification", "text", text)
}

// Toast is a notification on display
type Toast struct {
	ID        int
	Kind      Kind
	Text      string
	CreatedAt time.Time
	TTL       time.Duration
}

// ExpiresAt returns when the toast disappears
func (t Toast) ExpiresAt() time.Time {
	return t.CreatedAt.Add(t.TTL)
}

// ToastBoard keeps the toasts currently on display and drops them once
// their TTL has elapsed. It only observes; nothing reads it back into
// workspace state.
type ToastBoard struct {
	mu     sync.Mutex
	toasts []Toast
	nextID int
	ttl    time.Duration
	max    int
	now    func() time.Time
}

// NewToastBoard creates a board. A zero ttl uses DefaultToastTTL.
func NewToastBoard(ttl time.Duration, now func() time.Time) *ToastBoard {
	if ttl <= 0 {
		ttl = DefaultToastTTL
	}
	if now == nil {
		now = time.Now
	}
	return &ToastBoard{ttl: ttl, max: 5, nextID: 1, now: now}
}

// Notify implements Notifier. The newest toast comes first.
func (b *ToastBoard) Notify(kind Kind, text string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	toast := Toast{ID: b.nextID, Kind: kind, Text: text, CreatedAt: b.now(), TTL: b.ttl}
	b.nextID++
	b.toasts = append([]Toast{toast}, b.toasts...)
	if len(b.toasts) > b.max {
		b.toasts = b.toasts[:b.max]
	}
}

// Active drops expired toasts and returns the remaining ones
func (b *ToastBoard) Active() []Toast {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	live := b.toasts[:0]
	for _, toast := range b.toasts {
		if now.Before(toast.ExpiresAt()) {
			live = append(live, toast)
		}
	}
	b.toasts = live

	out := make([]Toast, len(live))
	copy(out, live)
	return out
}

// Latest returns the newest live toast
func (b *ToastBoard) Latest() (Toast, bool) {
	active := b.Active()
	if len(active) == 0 {
		return Toast{}, false
	}
	return active[0], true
}

// Dismiss removes a toast before it expires
func (b *ToastBoard) Dismiss(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, toast := range b.toasts {
		if toast.ID == id {
			b.toasts = append(b.toasts[:i], b.toasts[i+1:]...)
			return
		}
	}
}
