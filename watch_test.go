package semreg

import (
	"errors"
	"testing"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Store backends notify before WriteValue/DeleteValue return, so events are
// already buffered by the time these helpers run.
func nextEvent(t testing.TB, w *ValueWatcher) ValueChange {
	t.Helper()
	select {
	case ev, open := <-w.Events():
		if !open {
			t.Fatalf("event stream closed")
		}
		return ev
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for event")
	}
	panic("unreachable")
}

func noEvent(t testing.TB, w *ValueWatcher) {
	t.Helper()
	select {
	case ev := <-w.Events():
		t.Fatalf("unexpected event for %v", ev.ValuePath())
	default:
	}
}

func TestWatchValueChanges(t *testing.T) {
	o := func(name string, st WatchableStore) {
		t.Run(name, func(t *testing.T) {
			key := KeyPath{RootLocalMachine, `SOFTWARE\Vendor\App`}
			path := ValuePath{key, "Data"}
			w := must(st.WatchKeys(key))
			t.Cleanup(w.Close)

			if err := st.WriteValue(path, BinaryValue(x("01 02"))); err != nil {
				t.Fatal(err)
			}
			ev := nextEvent(t, w)
			deepEqual(t, ev, ValueChange{RootLocalMachine, `SOFTWARE\Vendor\App`, "Data", xxhash.Sum64(x("0102"))})
			deepEqual(t, ev.ValuePath(), path)

			// writing identical bytes is not a change
			if err := st.WriteValue(path, BinaryValue(x("01 02"))); err != nil {
				t.Fatal(err)
			}
			noEvent(t, w)

			if err := st.WriteValue(path, BinaryValue(x("01 03"))); err != nil {
				t.Fatal(err)
			}
			deepEqual(t, nextEvent(t, w).Hash, xxhash.Sum64(x("0103")))

			// deletions hash to zero
			if err := st.DeleteValue(path); err != nil {
				t.Fatal(err)
			}
			deepEqual(t, nextEvent(t, w).Hash, uint64(0))

			if err := st.DeleteValue(path); err != nil {
				t.Fatal(err)
			}
			noEvent(t, w)
		})
	}

	o("bolt", setup(t))
	o("mem", setupMem(t))
}

func TestWatchCoverage(t *testing.T) {
	st := setupMem(t)
	w := must(st.WatchKeys(KeyPath{RootLocalMachine, `A\B`}))
	t.Cleanup(w.Close)

	write := func(root Root, path, name string) {
		t.Helper()
		if err := st.WriteValue(ValuePath{KeyPath{root, path}, name}, BinaryValue(x("01"))); err != nil {
			t.Fatal(err)
		}
	}

	write(RootLocalMachine, `A\B`, "Direct")
	deepEqual(t, nextEvent(t, w).Name, "Direct")

	write(RootLocalMachine, `A\B\C\D`, "Descendant")
	deepEqual(t, nextEvent(t, w).Name, "Descendant")

	// ancestors, sibling keys sharing a name prefix and other roots are
	// outside the watched subtree
	write(RootLocalMachine, `A`, "Ancestor")
	write(RootLocalMachine, `A\BC`, "Prefix")
	write(RootCurrentConfig, `A\B`, "OtherRoot")
	noEvent(t, w)
}

func TestWatchCurrentUserKeys(t *testing.T) {
	st := setupMem(t)

	// current-user keys may be watched unresolved; events carry the
	// canonical root
	w := must(st.WatchKeys(KeyPath{RootCurrentUser, `SOFTWARE\Vendor`}))
	t.Cleanup(w.Close)

	alias := ValuePath{KeyPath{RootCurrentUser, `SOFTWARE\Vendor`}, "Data"}
	if err := st.WriteValue(alias, BinaryValue(x("01"))); err != nil {
		t.Fatal(err)
	}
	ev := nextEvent(t, w)
	deepEqual(t, ev.ValuePath(), ResolveCurrentUser(alias, st.Identity()))
}

func TestWatchMultipleWatchers(t *testing.T) {
	st := setupMem(t)
	keyA := KeyPath{RootLocalMachine, `A`}
	keyB := KeyPath{RootLocalMachine, `B`}

	both := must(st.WatchKeys(keyA, keyB))
	onlyA := must(st.WatchKeys(keyA))
	t.Cleanup(both.Close)
	t.Cleanup(onlyA.Close)

	if err := st.WriteValue(ValuePath{keyB, "V"}, BinaryValue(x("01"))); err != nil {
		t.Fatal(err)
	}
	deepEqual(t, nextEvent(t, both).Name, "V")
	noEvent(t, onlyA)

	if err := st.WriteValue(ValuePath{keyA, "W"}, BinaryValue(x("02"))); err != nil {
		t.Fatal(err)
	}
	deepEqual(t, nextEvent(t, both).Name, "W")
	deepEqual(t, nextEvent(t, onlyA).Name, "W")
}

func TestWatcherClose(t *testing.T) {
	st := setupMem(t)
	key := KeyPath{RootLocalMachine, `A`}

	w := must(st.WatchKeys(key))
	w.Close()
	if _, open := <-w.Events(); open {
		t.Fatalf("events channel still open after Close")
	}
	w.Close() // idempotent

	// closed watchers no longer receive anything
	if err := st.WriteValue(ValuePath{key, "V"}, BinaryValue(x("01"))); err != nil {
		t.Fatal(err)
	}
	if _, open := <-w.Events(); open {
		t.Fatalf("closed watcher received an event")
	}
}

func TestWatchAfterStoreClose(t *testing.T) {
	st := NewMemStore(StoreOptions{})
	w := must(st.WatchKeys(KeyPath{RootLocalMachine, `A`}))
	st.Close()

	// the store shutdown ends existing streams and refuses new ones
	if _, open := <-w.Events(); open {
		t.Fatalf("events channel still open after store close")
	}
	if _, err := st.WatchKeys(KeyPath{RootLocalMachine, `A`}); !errors.Is(err, ErrWatchClosed) {
		t.Fatalf("err = %v, wanted ErrWatchClosed", err)
	}
}

func TestWatchDropsOnFullBuffer(t *testing.T) {
	st := setupMem(t)
	key := KeyPath{RootLocalMachine, `A`}
	w := must(st.WatchKeys(key))
	t.Cleanup(w.Close)

	for i := 0; i < watchBufferSize+10; i++ {
		if err := st.WriteValue(ValuePath{key, "V"}, BinaryValue([]byte{byte(i), byte(i >> 8)})); err != nil {
			t.Fatal(err)
		}
	}

	var n int
	for {
		select {
		case <-w.Events():
			n++
			continue
		default:
		}
		break
	}
	deepEqual(t, n, watchBufferSize)

	select {
	case err := <-w.Errors():
		if !errors.Is(err, ErrWatchOverflow) {
			t.Fatalf("err = %v, wanted ErrWatchOverflow", err)
		}
	default:
		t.Fatalf("overflow not reported on Errors")
	}
}
