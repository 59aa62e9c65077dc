// Package notify turns editor events into desktop notifications.
package notify

import (
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/stickerpad/internal/platform"
)

// Event identifies a notification trigger.
type Event string

const (
	// EventSave fires when the exported image is written to disk.
	EventSave Event = "save"
	// EventCopy fires when the exported image is placed on the clipboard.
	EventCopy Event = "copy"
	// EventError fires for editor failures such as a sticker that would not
	// load or a full sticker list.
	EventError Event = "error"
)

// Events lists every event in a stable order.
func Events() []Event { return []Event{EventSave, EventCopy, EventError} }

// EventPreference describes formatting for a notification event.
type EventPreference struct {
	Template string
}

// Preferences describes notification behaviour loaded from configuration.
type Preferences struct {
	Title  string
	Events map[Event]EventPreference
}

// DefaultPreferences returns the default notification settings.
func DefaultPreferences() Preferences {
	return Preferences{
		Title: "stickerpad",
		Events: map[Event]EventPreference{
			EventSave:  {Template: "Saved %s"},
			EventCopy:  {Template: "Copied %s to clipboard"},
			EventError: {Template: "%s"},
		},
	}
}

// LoadPreferences applies STICKERPAD_NOTIFY_* environment overrides to the
// defaults.
func LoadPreferences() Preferences {
	prefs := DefaultPreferences()
	if v := strings.TrimSpace(os.Getenv("STICKERPAD_NOTIFY_TITLE")); v != "" {
		prefs.Title = v
	}
	for _, ev := range Events() {
		key := "STICKERPAD_NOTIFY_" + strings.ToUpper(string(ev)) + "_TEXT"
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			prefs.Events[ev] = EventPreference{Template: v}
		}
	}
	return prefs
}

// Sender delivers a rendered notification.
type Sender func(title, body string, opts platform.Options) error

// Notifier sends OS-level notifications for the events it has enabled.
type Notifier struct {
	prefs   Preferences
	enabled map[Event]bool
	send    Sender
}

// New creates a Notifier with every event disabled.
func New(prefs Preferences) *Notifier {
	cloned := Preferences{Title: prefs.Title, Events: make(map[Event]EventPreference, len(prefs.Events))}
	for k, v := range prefs.Events {
		cloned.Events[k] = v
	}
	return &Notifier{prefs: cloned, enabled: make(map[Event]bool), send: platform.Notify}
}

// WithSender replaces the delivery function, mainly for tests and for
// front ends that show toasts themselves.
func (n *Notifier) WithSender(s Sender) *Notifier {
	n.send = s
	return n
}

// Enable toggles the notifier for the provided event.
func (n *Notifier) Enable(event Event, enabled bool) {
	if n == nil {
		return
	}
	if n.enabled == nil {
		n.enabled = make(map[Event]bool)
	}
	n.enabled[event] = enabled
}

// Save announces a written file, using it as the notification icon.
func (n *Notifier) Save(path string) {
	if !n.enabledFor(EventSave) {
		return
	}
	detail := strings.TrimSpace(path)
	opts := platform.Options{}
	if abs, err := filepath.Abs(path); err == nil {
		detail = abs
		if _, statErr := os.Stat(abs); statErr == nil {
			opts.IconPath = abs
		}
	}
	n.dispatch(EventSave, detail, opts)
}

// Copy announces a clipboard copy with an optional preview image.
func (n *Notifier) Copy(detail string, img image.Image) {
	if !n.enabledFor(EventCopy) {
		return
	}
	if strings.TrimSpace(detail) == "" {
		detail = "image"
	}
	opts := platform.Options{}
	if img != nil {
		if path, cleanup, err := createPreview(img); err != nil {
			log.Printf("notification preview: %v", err)
		} else {
			defer cleanup()
			opts.IconPath = path
		}
	}
	n.dispatch(EventCopy, detail, opts)
}

// Toast shows a short message for ev. Error toasts are sent as critical.
func (n *Notifier) Toast(ev Event, detail string) {
	if !n.enabledFor(ev) {
		return
	}
	opts := platform.Options{Urgency: platform.UrgencyNormal}
	if ev == EventError {
		opts.Urgency = platform.UrgencyCritical
	}
	n.dispatch(ev, detail, opts)
}

func (n *Notifier) enabledFor(event Event) bool {
	if n == nil || n.enabled == nil {
		return false
	}
	return n.enabled[event]
}

func (n *Notifier) dispatch(event Event, detail string, opts platform.Options) {
	template := strings.TrimSpace(n.template(event))
	if template == "" {
		return
	}
	body := strings.TrimSpace(fmt.Sprintf(template, strings.TrimSpace(detail)))
	if body == "" {
		return
	}
	if n.send == nil {
		return
	}
	if err := n.send(n.prefs.Title, body, opts); err != nil {
		log.Printf("notification %s: %v", event, err)
	}
}

func (n *Notifier) template(event Event) string {
	if pref, ok := n.prefs.Events[event]; ok {
		return pref.Template
	}
	return ""
}

func createPreview(img image.Image) (string, func(), error) {
	f, err := os.CreateTemp("", "stickerpad-preview-*.png")
	if err != nil {
		return "", nil, err
	}
	path := f.Name()
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", nil, err
	}
	cleanup := func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("remove preview: %v", err)
		}
	}
	return path, cleanup, nil
}
