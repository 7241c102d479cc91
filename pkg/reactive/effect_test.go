package reactive

import "testing"

func TestEffectRunsImmediately(t *testing.T) {
	rt := NewRuntime()
	runs := 0
	rt.NewEffect(func() { runs++ })
	if runs != 1 {
		t.Errorf("expected 1 initial run, got %d", runs)
	}
}

func TestEffectTracksReads(t *testing.T) {
	rt := NewRuntime()
	count := NewRef(rt, 0)
	runs := 0

	rt.NewEffect(func() {
		_ = count.Get()
		runs++
	})

	count.Set(1)
	if runs != 2 {
		t.Errorf("expected re-run after write, got %d runs", runs)
	}

	count.Set(2)
	if runs != 3 {
		t.Errorf("expected one re-run per write, got %d runs", runs)
	}
}

func TestEffectDoesNotTrackUnreadKeys(t *testing.T) {
	rt := NewRuntime()
	obj := rt.WrapObject(map[string]any{"a": 1, "b": 2})
	runs := 0

	rt.NewEffect(func() {
		_ = obj.Get("a")
		runs++
	})

	obj.Set("b", 3)
	if runs != 1 {
		t.Errorf("write to unread key must not trigger, got %d runs", runs)
	}
}

func TestEffectRetracksEachRun(t *testing.T) {
	rt := NewRuntime()
	flag := NewRef(rt, true)
	a := NewRef(rt, "a")
	b := NewRef(rt, "b")
	runs := 0

	rt.NewEffect(func() {
		if flag.Get() {
			_ = a.Get()
		} else {
			_ = b.Get()
		}
		runs++
	})

	flag.Set(false)
	if runs != 2 {
		t.Fatalf("expected 2 runs, got %d", runs)
	}

	// a is no longer read; its writes must not trigger stale re-runs.
	a.Set("a2")
	if runs != 2 {
		t.Errorf("stale dependency triggered effect, got %d runs", runs)
	}

	b.Set("b2")
	if runs != 3 {
		t.Errorf("expected run on current dependency, got %d runs", runs)
	}
}

func TestEffectScheduler(t *testing.T) {
	rt := NewRuntime()
	count := NewRef(rt, 0)
	runs := 0
	scheduled := 0

	rt.NewEffect(func() {
		_ = count.Get()
		runs++
	}, WithScheduler(func() { scheduled++ }))

	count.Set(1)
	count.Set(2)

	if runs != 1 {
		t.Errorf("scheduler configured, fn must not re-run directly; got %d runs", runs)
	}
	if scheduled != 2 {
		t.Errorf("expected scheduler call per trigger, got %d", scheduled)
	}
}

func TestEffectReentrancyGuard(t *testing.T) {
	rt := NewRuntime()
	count := NewRef(rt, 0)
	runs := 0

	rt.NewEffect(func() {
		runs++
		if runs > 10 {
			t.Fatal("self-referential write recursed")
		}
		count.Set(count.Get() + 1)
	})

	if runs != 1 {
		t.Errorf("expected 1 run, got %d", runs)
	}
}

func TestEffectStopRemovesAllDeps(t *testing.T) {
	rt := NewRuntime()
	a := NewRef(rt, 0)
	b := NewRef(rt, 0)
	runs := 0

	e := rt.NewEffect(func() {
		_ = a.Get()
		_ = b.Get()
		runs++
	})

	e.Stop()
	a.Set(1)
	b.Set(1)
	if runs != 1 {
		t.Errorf("stopped effect was triggered, got %d runs", runs)
	}

	for target, keys := range rt.deps {
		for key, set := range keys {
			for _, dep := range set.effects {
				if dep == e {
					t.Errorf("stopped effect still referenced by (%v, %v)", target, key)
				}
			}
		}
	}
}

func TestStoppedEffectRunsUntracked(t *testing.T) {
	rt := NewRuntime()
	a := NewRef(rt, 0)
	runs := 0

	e := rt.NewEffect(func() {
		_ = a.Get()
		runs++
	})
	e.Stop()

	e.Run()
	if runs != 2 {
		t.Fatalf("Run on stopped effect must still invoke fn, got %d", runs)
	}

	a.Set(5)
	if runs != 2 {
		t.Errorf("stopped effect re-registered during untracked run")
	}
}

func TestTriggerIteratesSnapshot(t *testing.T) {
	rt := NewRuntime()
	a := NewRef(rt, 0)

	// An effect that, when triggered, creates another effect reading the
	// same ref. Without snapshot iteration this can grow the set forever.
	spawned := 0
	rt.NewEffect(func() {
		if a.Get() > 0 && spawned < 1 {
			spawned++
			rt.NewEffect(func() { _ = a.Get() })
		}
	})

	a.Set(1)
	if spawned != 1 {
		t.Errorf("expected exactly one spawned effect, got %d", spawned)
	}
}

func TestTriggerOrderIsFirstTrackingOrder(t *testing.T) {
	rt := NewRuntime()
	a := NewRef(rt, 0)
	var order []int

	for i := 1; i <= 3; i++ {
		i := i
		rt.NewEffect(func() {
			_ = a.Get()
			order = append(order, i)
		})
	}

	order = nil
	a.Set(1)
	want := []int{1, 2, 3}
	for i := range want {
		if i >= len(order) || order[i] != want[i] {
			t.Fatalf("trigger order = %v, want %v", order, want)
		}
	}
}
