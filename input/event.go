package input

import (
	"sync"

	"soundscape/keycode"
)

// Surface identifies what a pointer event landed on.
type Surface int

const (
	// Background is the scene itself; only it starts look drags.
	Background Surface = iota
	// Overlay is any UI control drawn above the scene.
	Overlay
)

type EventKind int

const (
	KeyDown EventKind = iota
	KeyUp
	MouseDown
	MouseUp
	MouseMove
)

type Event struct {
	Kind    EventKind
	Key     keycode.KeyCode
	Surface Surface
	// relative pointer motion for MouseMove
	DX, DY float32
	// Target names the draggable item under the pointer of a MouseDown.
	Target string
}

type Handler func(Event)

type subscription struct {
	id int
	h  Handler
}

// Bus fans raw input events out to subscribers in subscription order.
type Bus struct {
	mu     sync.Mutex
	subs   []subscription
	nextID int
}

// Subscribe registers h and returns the function removing it again.
func (b *Bus) Subscribe(h Handler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	b.subs = append(b.subs, subscription{id: id, h: h})
	var once sync.Once
	return func() {
		once.Do(func() { b.remove(id) })
	}
}

func (b *Bus) remove(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

func (b *Bus) Publish(e Event) {
	b.mu.Lock()
	subs := make([]subscription, len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()
	for _, s := range subs {
		s.h(e)
	}
}

// Len returns the number of subscribers.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
