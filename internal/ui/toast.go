package ui

import (
	"sync"
	"time"

	"github.com/example/stickerpad/internal/editor"
	"github.com/example/stickerpad/internal/notify"
)

const toastDuration = 3 * time.Second

// Toasts shows editor messages in the status area and forwards them to
// another toaster, usually the desktop notifier.
type Toasts struct {
	mu      sync.Mutex
	msg     string
	until   time.Time
	forward editor.Toaster
	wake    func()
	now     func() time.Time
}

var _ editor.Toaster = (*Toasts)(nil)

// NewToasts creates a toast area. forward may be nil.
func NewToasts(forward editor.Toaster) *Toasts {
	return &Toasts{forward: forward, now: time.Now}
}

// Toast shows detail for ev and forwards it.
func (t *Toasts) Toast(ev notify.Event, detail string) {
	switch ev {
	case notify.EventSave:
		t.Show("saved " + detail)
	case notify.EventCopy:
		t.Show("copied " + detail + " to clipboard")
	default:
		t.Show(detail)
	}
	if t.forward != nil {
		t.forward.Toast(ev, detail)
	}
}

// Show displays msg locally without forwarding it.
func (t *Toasts) Show(msg string) {
	t.mu.Lock()
	t.msg = msg
	t.until = t.now().Add(toastDuration)
	wake := t.wake
	t.mu.Unlock()
	if wake != nil {
		time.AfterFunc(toastDuration, wake)
	}
}

// Current returns the message still on screen, if any.
func (t *Toasts) Current() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.msg == "" || !t.now().Before(t.until) {
		return ""
	}
	return t.msg
}

// Dismiss hides the current message.
func (t *Toasts) Dismiss() {
	t.mu.Lock()
	t.msg = ""
	t.mu.Unlock()
}

func (t *Toasts) setWake(fn func()) {
	t.mu.Lock()
	t.wake = fn
	t.mu.Unlock()
}
