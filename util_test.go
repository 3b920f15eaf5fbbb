package semreg

import (
	"errors"
	"log/slog"
	"testing"
)

func TestHexHelpers(t *testing.T) {
	if got := hexstr(nil); got != "<nil>" {
		t.Fatalf("hexstr(nil) = %q, wanted <nil>", got)
	}
	if got := hexstr([]byte{}); got != "<empty>" {
		t.Fatalf("hexstr(empty) = %q, wanted <empty>", got)
	}
	if got := hexstr([]byte{0xAA, 0xBB}); got != "aabb" {
		t.Fatalf("hexstr = %q, wanted aabb", got)
	}
	a := hexAttr("k", []byte{0xAA})
	if a.Key != "k" || a.Value.Kind() != slog.KindString {
		t.Fatalf("hexAttr returned unexpected attr: %+v", a)
	}
}

func TestMust(t *testing.T) {
	deepEqual(t, must(42, nil), 42)

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	must(0, errors.New("boom"))
}

func TestStrictness(t *testing.T) {
	deepEqual(t, LenientIf(false), Strict)
	deepEqual(t, LenientIf(true), Lenient)
	deepEqual(t, Strict.IsStrict(), true)
	deepEqual(t, Strict.IsLenient(), false)
	deepEqual(t, Lenient.IsLenient(), true)
	deepEqual(t, Strict.String(), "strict")
	deepEqual(t, Lenient.String(), "lenient")
}
