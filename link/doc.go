// Package link provides deferred, memoized references between decoded resources.
//
// A Link captures the numeric id of its target at decode time. The target
// is looked up the first time GetOrPut is called, using a resolver supplied
// by the consumer, and the outcome is cached for the lifetime of the link:
//
//	l := link.New[*Emitter](targetID)
//	next, ok := l.GetOrPut(func(id uint32) (*Emitter, bool) {
//	    return lookup(id)
//	})
//
// A miss is an outcome like any other. It is cached, never retried, and never
// returned as an error; callers decide how to degrade.
//
// # Thread Safety
//
// GetOrPut is safe for concurrent use. Concurrent first callers block until
// the single resolution finishes and then all observe its outcome.
package link
