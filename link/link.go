package link

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// State is the resolution state of a Link.
type State uint32

const (
	Unresolved State = iota
	Resolved
	Absent
)

func (s State) String() string {
	switch s {
	case Unresolved:
		return "unresolved"
	case Resolved:
		return "resolved"
	case Absent:
		return "absent"
	default:
		return fmt.Sprintf("State(%d)", uint32(s))
	}
}

// Resolver looks up a link target by id.
type Resolver[T any] func(id uint32) (T, bool)

// Link is a reference to a resource identified by id, resolved at most once.
type Link[T any] struct {
	value T
	once  sync.Once
	state atomic.Uint32
	id    uint32
}

// New creates an unresolved link to id.
func New[T any](id uint32) *Link[T] {
	return &Link[T]{id: id}
}

// ID returns the target id captured at decode time.
func (l *Link[T]) ID() uint32 {
	return l.id
}

// State returns the current resolution state.
func (l *Link[T]) State() State {
	return State(l.state.Load())
}

// GetOrPut returns the cached outcome, invoking resolve only on the first
// call. A panic in resolve leaves the link Absent.
func (l *Link[T]) GetOrPut(resolve Resolver[T]) (T, bool) {
	l.once.Do(func() {
		l.state.Store(uint32(Absent))
		if v, ok := resolve(l.id); ok {
			l.value = v
			l.state.Store(uint32(Resolved))
		}
	})
	if l.State() != Resolved {
		var zero T
		return zero, false
	}
	return l.value, true
}

// Get returns the resolved value without resolving. It reports false
// when the link is unresolved or absent.
func (l *Link[T]) Get() (T, bool) {
	if l.State() != Resolved {
		var zero T
		return zero, false
	}
	return l.value, true
}

func (l *Link[T]) String() string {
	return fmt.Sprintf("link(%d, %s)", l.id, l.State())
}
