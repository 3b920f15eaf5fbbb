package semreg

import (
	"context"
	"errors"
	"testing"
)

type testValueID int

const (
	stateID testValueID = iota
	settingsID
)

func TestMonitorNextChange(t *testing.T) {
	st := setupMem(t)
	statePath := ValuePath{KeyPath{RootCurrentUser, `SOFTWARE\Vendor\windows.data.x`}, "Data"}
	settingsPath := ValuePath{KeyPath{RootCurrentUser, `SOFTWARE\Vendor\windows.data.y`}, "Data"}

	mon := must(NewMonitor(st, []MonitorEntry[testValueID]{
		{stateID, statePath},
		{settingsID, settingsPath},
	}, MonitorOptions{}))
	t.Cleanup(mon.Close)

	if err := st.WriteValue(statePath, BinaryValue(x("01"))); err != nil {
		t.Fatal(err)
	}
	deepEqual(t, must(mon.NextChange(context.Background())), stateID)

	// a sibling value under a watched key is skipped
	if err := st.WriteValue(ValuePath{settingsPath.KeyPath, "Other"}, BinaryValue(x("02"))); err != nil {
		t.Fatal(err)
	}
	if err := st.WriteValue(settingsPath, BinaryValue(x("03"))); err != nil {
		t.Fatal(err)
	}
	deepEqual(t, must(mon.NextChange(context.Background())), settingsID)

	// deletions are changes too
	if err := st.DeleteValue(statePath); err != nil {
		t.Fatal(err)
	}
	deepEqual(t, must(mon.NextChange(context.Background())), stateID)
}

func TestMonitorSharedKey(t *testing.T) {
	st := setupMem(t)
	key := KeyPath{RootCurrentUser, `SOFTWARE\Vendor`}
	a := ValuePath{key, "A"}
	b := ValuePath{key, "B"}

	mon := must(NewMonitor(st, []MonitorEntry[testValueID]{
		{stateID, a},
		{settingsID, b},
	}, MonitorOptions{}))
	t.Cleanup(mon.Close)

	if err := st.WriteValue(b, BinaryValue(x("01"))); err != nil {
		t.Fatal(err)
	}
	deepEqual(t, must(mon.NextChange(context.Background())), settingsID)

	if err := st.WriteValue(a, BinaryValue(x("02"))); err != nil {
		t.Fatal(err)
	}
	deepEqual(t, must(mon.NextChange(context.Background())), stateID)
}

func TestMonitorContextCancel(t *testing.T) {
	st := setupMem(t)
	path := ValuePath{KeyPath{RootCurrentUser, `A`}, "V"}
	mon := must(NewMonitor(st, []MonitorEntry[testValueID]{{stateID, path}}, MonitorOptions{}))
	t.Cleanup(mon.Close)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := mon.NextChange(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, wanted context.Canceled", err)
	}

	// Run treats cancellation as a clean stop
	err := mon.Run(ctx, func(testValueID) (bool, error) {
		t.Fatalf("callback should not run")
		return false, nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestMonitorRun(t *testing.T) {
	st := setupMem(t)
	path := ValuePath{KeyPath{RootCurrentUser, `A`}, "V"}
	mon := must(NewMonitor(st, []MonitorEntry[testValueID]{{stateID, path}}, MonitorOptions{}))
	t.Cleanup(mon.Close)

	for i := 0; i < 3; i++ {
		if err := st.WriteValue(path, BinaryValue([]byte{byte(i)})); err != nil {
			t.Fatal(err)
		}
	}

	var calls int
	err := mon.Run(context.Background(), func(id testValueID) (bool, error) {
		deepEqual(t, id, stateID)
		calls++
		return calls == 2, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	deepEqual(t, calls, 2)

	// the third event is still pending; a failing callback surfaces its
	// error
	boom := errors.New("boom")
	err = mon.Run(context.Background(), func(testValueID) (bool, error) {
		return false, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, wanted boom", err)
	}
}
