package reactive

import "testing"

func TestComputedLazy(t *testing.T) {
	rt := NewRuntime()
	count := NewRef(rt, 2)
	computes := 0

	double := NewComputed(rt, func() int {
		computes++
		return count.Get() * 2
	})

	if computes != 0 {
		t.Fatalf("computed must not run before first read, ran %d times", computes)
	}

	if double.Get() != 4 {
		t.Errorf("value = %d, want 4", double.Get())
	}
	if computes != 1 {
		t.Errorf("expected 1 computation, got %d", computes)
	}

	// Cached while dependencies are unchanged.
	_ = double.Get()
	if computes != 1 {
		t.Errorf("expected cached read, got %d computations", computes)
	}
}

func TestComputedRecomputesOncePerBatchOfWrites(t *testing.T) {
	rt := NewRuntime()
	count := NewRef(rt, 0)
	computes := 0

	double := NewComputed(rt, func() int {
		computes++
		return count.Get() * 2
	})
	_ = double.Get()

	// N writes without an interleaved read cost one recomputation.
	for i := 1; i <= 5; i++ {
		count.Set(i)
	}
	if computes != 1 {
		t.Fatalf("writes alone must not recompute, got %d", computes)
	}

	if double.Get() != 10 {
		t.Errorf("value = %d, want 10", double.Get())
	}
	if computes != 2 {
		t.Errorf("expected exactly one recomputation on read, got %d", computes)
	}
}

func TestComputedPropagatesToDependents(t *testing.T) {
	rt := NewRuntime()
	count := NewRef(rt, 1)
	double := NewComputed(rt, func() int { return count.Get() * 2 })

	var seen []int
	rt.NewEffect(func() {
		seen = append(seen, double.Get())
	})

	count.Set(3)
	if len(seen) != 2 || seen[1] != 6 {
		t.Errorf("dependent saw %v, want [2 6]", seen)
	}

	// Multiple writes trigger the dependent once per write but the chain
	// stays consistent.
	count.Set(4)
	if seen[len(seen)-1] != 8 {
		t.Errorf("dependent saw %v, want trailing 8", seen)
	}
}

func TestComputedChain(t *testing.T) {
	rt := NewRuntime()
	count := NewRef(rt, 1)
	double := NewComputed(rt, func() int { return count.Get() * 2 })
	quad := NewComputed(rt, func() int { return double.Get() * 2 })

	if quad.Get() != 4 {
		t.Errorf("quad = %d, want 4", quad.Get())
	}

	count.Set(2)
	if quad.Get() != 8 {
		t.Errorf("quad = %d, want 8", quad.Get())
	}
}

func TestComputedStop(t *testing.T) {
	rt := NewRuntime()
	count := NewRef(rt, 1)
	computes := 0
	double := NewComputed(rt, func() int {
		computes++
		return count.Get() * 2
	})
	_ = double.Get()

	double.Stop()
	count.Set(10)
	if double.Peek() != 2 {
		t.Errorf("stopped computed should keep last cached value, got %d", double.Peek())
	}
	if computes != 1 {
		t.Errorf("stopped computed recomputed, got %d", computes)
	}
}
