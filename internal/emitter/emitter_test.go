package emitter

import "testing"

func TestEmitInvokesInRegistrationOrder(t *testing.T) {
	e := New[int]()
	var order []int
	e.On(func(v int) { order = append(order, 1) })
	e.On(func(v int) { order = append(order, 2) })
	e.On(func(v int) { order = append(order, 3) })

	e.Emit(0)

	want := []int{1, 2, 3}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order = %v, want %v", order, want)
		}
	}
}

func TestListenerAddedDuringEmitWaitsForNextEmit(t *testing.T) {
	e := New[int]()
	var fired []string
	added := false
	e.On(func(v int) {
		fired = append(fired, "first")
		if !added {
			added = true
			e.On(func(v int) { fired = append(fired, "added-mid-fire") })
		}
	})

	e.Emit(0)
	if len(fired) != 1 || fired[0] != "first" {
		t.Fatalf("first Emit fired = %v, want only [first]", fired)
	}

	e.Emit(0)
	want := []string{"first", "first", "added-mid-fire"}
	if len(fired) != len(want) {
		t.Fatalf("second Emit fired = %v, want %v", fired, want)
	}
	for i := range want {
		if fired[i] != want[i] {
			t.Errorf("fired = %v, want %v", fired, want)
		}
	}
}

func TestOffDuringEmitSkipsUnvisitedListener(t *testing.T) {
	e := New[int]()
	var subB Subscription
	var fired []string
	e.On(func(v int) {
		fired = append(fired, "a")
		e.Off(subB)
	})
	subB = e.On(func(v int) { fired = append(fired, "b") })
	e.On(func(v int) { fired = append(fired, "c") })

	e.Emit(0)

	want := []string{"a", "c"}
	if len(fired) != len(want) {
		t.Fatalf("fired = %v, want %v", fired, want)
	}
	for i := range want {
		if fired[i] != want[i] {
			t.Errorf("fired = %v, want %v", fired, want)
		}
	}
}

func TestPanickingListenerDoesNotStopLaterListeners(t *testing.T) {
	e := New[int]()
	var fired []string
	e.On(func(v int) { fired = append(fired, "a") })
	e.On(func(v int) {
		fired = append(fired, "boom")
		panic("listener blew up")
	})
	e.On(func(v int) { fired = append(fired, "c") })

	e.Emit(0)

	want := []string{"a", "boom", "c"}
	if len(fired) != len(want) {
		t.Fatalf("fired = %v, want %v", fired, want)
	}
	for i := range want {
		if fired[i] != want[i] {
			t.Errorf("fired = %v, want %v", fired, want)
		}
	}
}

func TestOffRemovesListenerForFutureEmits(t *testing.T) {
	e := New[int]()
	sub := e.On(func(v int) {})
	if e.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", e.Len())
	}
	e.Off(sub)
	if e.Len() != 0 {
		t.Fatalf("Len() after Off = %d, want 0", e.Len())
	}
}
