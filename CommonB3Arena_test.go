package box3d_test

import (
	"testing"

	"github.com/ByteArena/box3d"
	"github.com/pkg/errors"
)

func TestArenaHandles(t *testing.T) {
	arena := box3d.MakeB3Arena[string](2)

	a := arena.Allocate("a")
	b := arena.Allocate("b")

	// Grows past the initial capacity.
	c := arena.Allocate("c")
	if arena.GetCount() != 3 || arena.GetCapacity() < 3 {
		t.Fatalf("unexpected count %d capacity %d", arena.GetCount(), arena.GetCapacity())
	}

	for h, want := range map[box3d.B3Handle]string{a: "a", b: "b", c: "c"} {
		got, err := arena.Get(h)
		if err != nil || got != want {
			t.Fatalf("handle %s: expected %q, got %q (%v)", h, want, got, err)
		}
	}

	if err := arena.Free(b); err != nil {
		t.Fatalf("unexpected error %v", err)
	}

	if _, err := arena.Get(b); errors.Cause(err) != box3d.ErrStaleHandle {
		t.Fatalf("expected a stale handle, got %v", err)
	}
	if err := arena.Free(b); errors.Cause(err) != box3d.ErrStaleHandle {
		t.Fatalf("double free: expected a stale handle, got %v", err)
	}

	// The slot is recycled with a new generation.
	d := arena.Allocate("d")
	if d.Index != b.Index || d.Generation == b.Generation {
		t.Fatalf("expected slot %d to be recycled, got %s", b.Index, d)
	}
	if arena.IsValid(b) || !arena.IsValid(d) {
		t.Fatalf("the old handle must be stale and the new one valid")
	}

	if err := arena.Set(d, "dd"); err != nil {
		t.Fatalf("unexpected error %v", err)
	}

	visited := []string{}
	arena.ForEach(func(h box3d.B3Handle, value string) bool {
		visited = append(visited, value)
		return true
	})
	if len(visited) != 3 || visited[0] != "a" || visited[1] != "dd" || visited[2] != "c" {
		t.Fatalf("unexpected visit order %v", visited)
	}

	if arena.IsValid(box3d.B3Handle_null) || !box3d.B3Handle_null.IsNull() {
		t.Fatalf("the null handle is never valid")
	}
}

func TestEntityManager(t *testing.T) {
	manager := box3d.MakeB3EntityManager()

	e1 := manager.CreateEntity()
	e2 := manager.CreateEntity()
	if e1 == e2 {
		t.Fatalf("entities must be distinct")
	}
	if manager.GetNbEntities() != 2 {
		t.Fatalf("expected 2 entities, got %d", manager.GetNbEntities())
	}

	manager.DestroyEntity(e1)
	if manager.IsValid(e1) {
		t.Fatalf("%s must be dead", e1)
	}

	e3 := manager.CreateEntity()
	if e3.GetIndex() != e1.GetIndex() || e3.GetGeneration() != e1.GetGeneration()+1 {
		t.Fatalf("expected the index of %s to be recycled, got %s", e1, e3)
	}
	if !manager.IsValid(e3) || !manager.IsValid(e2) {
		t.Fatalf("live entities must be valid")
	}

	if s := box3d.MakeB3Entity(7, 2).String(); s != "E7.2" {
		t.Fatalf("unexpected entity string %s", s)
	}
}

func TestGrowableStack(t *testing.T) {
	stack := box3d.MakeB3GrowableStack[int](1)

	for i := 0; i < 10; i++ {
		stack.Push(i)
	}
	if stack.GetCount() != 10 {
		t.Fatalf("expected 10 values, got %d", stack.GetCount())
	}

	for i := 9; i >= 0; i-- {
		v, ok := stack.Pop()
		if !ok || v != i {
			t.Fatalf("expected %d, got %d %v", i, v, ok)
		}
	}

	if _, ok := stack.Pop(); ok {
		t.Fatalf("the stack should be empty")
	}
}
