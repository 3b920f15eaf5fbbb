package semreg

import "testing"

func TestTracked(t *testing.T) {
	v := NewTracked(uint16(4000))
	deepEqual(t, v.Current(), uint16(4000))
	deepEqual(t, v.Original(), uint16(4000))
	deepEqual(t, v.Changed(), false)

	v.Set(2790)
	deepEqual(t, v.Current(), uint16(2790))
	deepEqual(t, v.Original(), uint16(4000))
	deepEqual(t, v.Changed(), true)

	// setting the original value back is not a change
	v.Set(4000)
	deepEqual(t, v.Changed(), false)
	deepEqual(t, v.Current(), uint16(4000))

	v.Set(2790)
	v.Reset()
	deepEqual(t, v.Changed(), false)
	deepEqual(t, v.Current(), uint16(4000))
}

func TestTrackedZeroValue(t *testing.T) {
	var v Tracked[bool]
	deepEqual(t, v.Current(), false)
	deepEqual(t, v.Changed(), false)

	v.Set(true)
	deepEqual(t, v.Current(), true)
	deepEqual(t, v.Original(), false)
	deepEqual(t, v.Changed(), true)
}

func TestTrackedEq(t *testing.T) {
	a := NewTracked(uint16(1200))
	b := NewTracked(uint16(6500))
	deepEqual(t, a.Eq(b), false)

	b.Set(1200)
	deepEqual(t, a.Eq(b), true)
	deepEqual(t, b.Changed(), true)
}
