package resource

import (
	"fmt"

	"github.com/vovakirdan/scanline/internal/core"
)

// Handle identifies an object owned by an Arena.
// The zero Handle never refers to anything.
type Handle struct {
	index uint32
	gen   uint32
}

// IsZero reports whether h is the zero handle.
func (h Handle) IsZero() bool {
	return h.gen == 0
}

// String formats the handle for logs.
func (h Handle) String() string {
	return fmt.Sprintf("%d#%d", h.index, h.gen)
}

type slot[T Object] struct {
	obj  T
	gen  uint32
	used bool
}

// Arena owns resources and hands out generation-checked handles.
// Removing an object deletes it and bumps the slot generation, so any
// handle still pointing at the slot fails instead of seeing a new object.
type Arena[T Object] struct {
	slots []slot[T]
	free  []uint32
	live  int
}

// NewArena creates an empty arena.
func NewArena[T Object]() *Arena[T] {
	return &Arena[T]{}
}

// Insert takes ownership of obj and returns its handle.
func (a *Arena[T]) Insert(obj T) Handle {
	var idx uint32
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		idx = uint32(len(a.slots))
		a.slots = append(a.slots, slot[T]{})
	}
	s := &a.slots[idx]
	s.gen++
	s.obj = obj
	s.used = true
	a.live++
	return Handle{index: idx, gen: s.gen}
}

// Get returns the object for h, or the kind's reference error when the
// handle is stale or was never issued.
func (a *Arena[T]) Get(h Handle) (T, error) {
	var zero T
	if h.IsZero() || int(h.index) >= len(a.slots) {
		return zero, core.NewError("Get"+zero.Kind().String(), zero.Kind().RefCode())
	}
	s := &a.slots[h.index]
	if !s.used || s.gen != h.gen || !s.obj.Alive() {
		return zero, core.NewError("Get"+zero.Kind().String(), zero.Kind().RefCode())
	}
	return s.obj, nil
}

// Remove deletes the object behind h and invalidates the handle.
func (a *Arena[T]) Remove(h Handle) error {
	obj, err := a.Get(h)
	if err != nil {
		// A stale handle whose object was deleted elsewhere still frees the slot
		if h.IsZero() || int(h.index) >= len(a.slots) {
			return err
		}
		s := &a.slots[h.index]
		if !s.used || s.gen != h.gen {
			return err
		}
	} else {
		obj.Delete()
	}
	s := &a.slots[h.index]
	var zero T
	s.obj = zero
	s.used = false
	s.gen++
	a.free = append(a.free, h.index)
	a.live--
	return nil
}

// Len returns the number of live slots.
func (a *Arena[T]) Len() int {
	return a.live
}

// Each calls fn for every occupied slot in index order.
func (a *Arena[T]) Each(fn func(Handle, T)) {
	for i := range a.slots {
		s := &a.slots[i]
		if s.used {
			fn(Handle{index: uint32(i), gen: s.gen}, s.obj)
		}
	}
}

// Clear deletes every object and invalidates every handle.
func (a *Arena[T]) Clear() {
	for i := range a.slots {
		s := &a.slots[i]
		if s.used {
			s.obj.Delete()
			var zero T
			s.obj = zero
			s.used = false
			s.gen++
			a.free = append(a.free, uint32(i))
		}
	}
	a.live = 0
}
