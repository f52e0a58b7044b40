// Package hook implements the outbound hook/IPC emitter boundary of spec
// §6 ("Hook contract": emits name + string arguments, the core never
// inspects the result). The default Emitter logs via logrus, the
// library cortile uses throughout its store and desktop packages, and
// additionally fans events out over a generic pub/sub Hub modeled on
// ItsNotGoodName-x-ipcviewer's internal/bus/bus.go, so a future IPC
// frontend can subscribe without the core importing it.
package hook

import (
	"sync"

	log "github.com/sirupsen/logrus"
)

// Event is one hook firing: a name (e.g. "focus_changed", "fullscreen",
// "urgent") plus its positional string arguments.
type Event struct {
	Name string
	Args []string
}

// Emitter is the interface the core depends on (spec §6). Event
// handlers never inspect a call's outcome; Emit has no return value.
type Emitter interface {
	Emit(name string, args ...string)
}

// Hub is a generic broadcast point, the same shape as bus.Hub[T] in
// ItsNotGoodName-x-ipcviewer/internal/bus/bus.go: subscribers each get
// their own channel, registered and torn down independently.
type Hub[T any] struct {
	mu   sync.Mutex
	subs map[*chan T]struct{}
}

func NewHub[T any]() *Hub[T] {
	return &Hub[T]{subs: make(map[*chan T]struct{})}
}

// Broadcast fans event out to every current subscriber. A subscriber
// that isn't ready to receive is skipped for this event rather than
// blocking the emitter, since the core's single-threaded event loop
// (spec §5) must never suspend on a hook.
func (h *Hub[T]) Broadcast(event T) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs {
		select {
		case *sub <- event:
		default:
		}
	}
}

func (h *Hub[T]) Subscribe() (<-chan T, func()) {
	h.mu.Lock()
	c := make(chan T, 16)
	key := &c
	h.subs[key] = struct{}{}
	h.mu.Unlock()

	return c, func() {
		h.mu.Lock()
		delete(h.subs, key)
		close(c)
		h.mu.Unlock()
	}
}

// LogEmitter is the default Emitter: it logs every hook at debug level
// and broadcasts it on Hub for IPC subscribers.
type LogEmitter struct {
	Hub *Hub[Event]
}

func NewLogEmitter() *LogEmitter {
	return &LogEmitter{Hub: NewHub[Event]()}
}

func (e *LogEmitter) Emit(name string, args ...string) {
	log.WithField("hook", name).WithField("args", args).Debug("hook fired")
	if e.Hub != nil {
		e.Hub.Broadcast(Event{Name: name, Args: args})
	}
}
