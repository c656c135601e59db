package box3d

import (
	"fmt"

	"github.com/pkg/errors"
)

const B3_nullSlot = -1

/// A handle identifies a value stored in a B3Arena. The generation is bumped
/// every time a slot is freed so that using an old handle is detected.
type B3Handle struct {
	Index      int32
	Generation uint32
}

var B3Handle_null = B3Handle{Index: B3_nullSlot, Generation: 0}

func (h B3Handle) IsNull() bool {
	return h.Index == B3_nullSlot
}

func (h B3Handle) String() string {
	if h.IsNull() {
		return "null"
	}
	return fmt.Sprintf("%d:%d", h.Index, h.Generation)
}

type b3ArenaSlot[T any] struct {
	value      T
	generation uint32
	next       int
	used       bool
}

/// A pool of values addressed by generation-checked handles. Slots are
/// recycled through a free list, the pool doubles when it runs out.
type B3Arena[T any] struct {
	m_slots    []b3ArenaSlot[T]
	m_freeList int
	m_count    int
}

func MakeB3Arena[T any](capacity int) B3Arena[T] {
	if capacity < 1 {
		capacity = 1
	}

	arena := B3Arena[T]{
		m_slots:    make([]b3ArenaSlot[T], capacity),
		m_freeList: 0,
		m_count:    0,
	}

	// Build a linked list for the free list.
	for i := 0; i < capacity-1; i++ {
		arena.m_slots[i].next = i + 1
	}
	arena.m_slots[capacity-1].next = B3_nullSlot

	return arena
}

func (arena B3Arena[T]) GetCount() int {
	return arena.m_count
}

func (arena B3Arena[T]) GetCapacity() int {
	return len(arena.m_slots)
}

// Store a value in a free slot. Grow the pool if necessary.
func (arena *B3Arena[T]) Allocate(value T) B3Handle {
	if arena.m_freeList == B3_nullSlot {
		B3Assert(arena.m_count == len(arena.m_slots))

		// The free list is empty. Rebuild a bigger pool.
		oldCapacity := len(arena.m_slots)
		arena.m_slots = append(arena.m_slots, make([]b3ArenaSlot[T], oldCapacity)...)
		newCapacity := len(arena.m_slots)

		for i := oldCapacity; i < newCapacity-1; i++ {
			arena.m_slots[i].next = i + 1
		}
		arena.m_slots[newCapacity-1].next = B3_nullSlot
		arena.m_freeList = oldCapacity
	}

	// Peel a slot off the free list.
	index := arena.m_freeList
	slot := &arena.m_slots[index]
	arena.m_freeList = slot.next
	slot.next = B3_nullSlot
	slot.value = value
	slot.used = true
	arena.m_count++

	return B3Handle{
		Index:      int32(index),
		Generation: slot.generation,
	}
}

func (arena B3Arena[T]) IsValid(h B3Handle) bool {
	if h.Index < 0 || int(h.Index) >= len(arena.m_slots) {
		return false
	}
	slot := &arena.m_slots[h.Index]
	return slot.used && slot.generation == h.Generation
}

func (arena B3Arena[T]) Get(h B3Handle) (T, error) {
	if !arena.IsValid(h) {
		var zero T
		return zero, errors.Wrapf(ErrStaleHandle, "handle %s", h)
	}
	return arena.m_slots[h.Index].value, nil
}

func (arena *B3Arena[T]) Set(h B3Handle, value T) error {
	if !arena.IsValid(h) {
		return errors.Wrapf(ErrStaleHandle, "handle %s", h)
	}
	arena.m_slots[h.Index].value = value
	return nil
}

// Return a slot to the pool. The slot generation changes so that h and any
// copy of it become stale.
func (arena *B3Arena[T]) Free(h B3Handle) error {
	if !arena.IsValid(h) {
		return errors.Wrapf(ErrStaleHandle, "handle %s", h)
	}
	B3Assert(0 < arena.m_count)

	var zero T
	slot := &arena.m_slots[h.Index]
	slot.value = zero
	slot.used = false
	slot.generation++
	slot.next = arena.m_freeList
	arena.m_freeList = int(h.Index)
	arena.m_count--

	return nil
}

/// Visit every live value in slot order. Stop when callback returns false.
func (arena B3Arena[T]) ForEach(callback func(h B3Handle, value T) bool) {
	for i := range arena.m_slots {
		slot := &arena.m_slots[i]
		if !slot.used {
			continue
		}
		if !callback(B3Handle{Index: int32(i), Generation: slot.generation}, slot.value) {
			return
		}
	}
}
