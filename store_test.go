package semreg

import (
	"encoding/hex"
	"errors"
	"log/slog"
	"os"
	"reflect"
	"strings"
	"testing"
)

func init() {
	slog.SetLogLoggerLevel(slog.LevelDebug)
}

func TestStoreValues(t *testing.T) {
	o := func(name string, st Store) {
		t.Run(name, func(t *testing.T) {
			path := ValuePath{KeyPath{RootCurrentUser, `SOFTWARE\Vendor\App\Sub`}, "Data"}

			_, err := st.ReadValue(path)
			if !IsNotFound(err) {
				t.Fatalf("err = %v, wanted ErrValueNotFound", err)
			}

			if err := st.WriteValue(path, BinaryValue(x("43 42 01 00"))); err != nil {
				t.Fatal(err)
			}
			deepEqual(t, must(ReadBinaryValue(st, path)), x("43420100"))

			other := ValuePath{path.KeyPath, "Consent"}
			if err := st.WriteValue(other, StringValue("Allow")); err != nil {
				t.Fatal(err)
			}
			deepEqual(t, must(ReadStringValue(st, other)), "Allow")

			_, err = ReadBinaryValue(st, other)
			if !errors.Is(err, ErrWrongValueType) {
				t.Fatalf("err = %v, wanted ErrWrongValueType", err)
			}
			_, err = ReadStringValue(st, path)
			if !errors.Is(err, ErrWrongValueType) {
				t.Fatalf("err = %v, wanted ErrWrongValueType", err)
			}

			if err := st.DeleteValue(path); err != nil {
				t.Fatal(err)
			}
			_, err = st.ReadValue(path)
			if !IsNotFound(err) {
				t.Fatalf("err = %v, wanted ErrValueNotFound", err)
			}
			if err := st.DeleteValue(path); err != nil {
				t.Fatal(err)
			}
			deepEqual(t, must(ReadStringValue(st, other)), "Allow")
		})
	}

	o("bolt", setup(t))
	o("mem", setupMem(t))
}

func TestStoreClonesData(t *testing.T) {
	o := func(name string, st Store) {
		t.Run(name, func(t *testing.T) {
			path := ValuePath{KeyPath{RootLocalMachine, `SOFTWARE\Vendor`}, "Data"}
			orig := x("01 02 03")
			if err := st.WriteValue(path, BinaryValue(orig)); err != nil {
				t.Fatal(err)
			}
			orig[0] = 0xff

			got := must(ReadBinaryValue(st, path))
			deepEqual(t, got, x("01 02 03"))
			got[1] = 0xff
			deepEqual(t, must(ReadBinaryValue(st, path)), x("01 02 03"))
		})
	}

	o("bolt", setup(t))
	o("mem", setupMem(t))
}

func TestStoreCurrentUserAliasing(t *testing.T) {
	o := func(name string, st Store) {
		t.Run(name, func(t *testing.T) {
			alias := ValuePath{KeyPath{RootCurrentUser, `SOFTWARE\Vendor`}, "Data"}
			canonical := ResolveCurrentUser(alias, st.Identity())
			deepEqual(t, canonical.Root, RootUsers)

			// the alias and its canonical form address the same value
			if err := st.WriteValue(alias, BinaryValue(x("01"))); err != nil {
				t.Fatal(err)
			}
			deepEqual(t, must(ReadBinaryValue(st, canonical)), x("01"))

			if err := st.WriteValue(canonical, BinaryValue(x("02"))); err != nil {
				t.Fatal(err)
			}
			deepEqual(t, must(ReadBinaryValue(st, alias)), x("02"))

			if err := st.DeleteValue(alias); err != nil {
				t.Fatal(err)
			}
			if _, err := st.ReadValue(canonical); !IsNotFound(err) {
				t.Fatalf("err = %v, wanted ErrValueNotFound", err)
			}
		})
	}

	o("bolt", setup(t))
	o("mem", setupMem(t))
}

func TestStoreRootLevelKey(t *testing.T) {
	st := setup(t)
	path := ValuePath{KeyPath{RootCurrentConfig, ""}, "Data"}
	if err := st.WriteValue(path, BinaryValue(x("aa"))); err != nil {
		t.Fatal(err)
	}
	deepEqual(t, must(ReadBinaryValue(st, path)), x("aa"))
}

func TestBoltStorePersistence(t *testing.T) {
	file := must(os.CreateTemp("", "store_test_*.db"))
	file.Close()

	path := ValuePath{KeyPath{RootCurrentUser, `SOFTWARE\Vendor`}, "Data"}

	st := must(OpenBoltStore(file.Name(), StoreOptions{
		Identity:  "S-1-5-21-1-2-3-1005",
		IsTesting: true,
	}))
	deepEqual(t, st.Identity(), "S-1-5-21-1-2-3-1005")
	if err := st.WriteValue(path, BinaryValue(x("de ad be ef"))); err != nil {
		t.Fatal(err)
	}
	if err := st.Close(); err != nil {
		t.Fatal(err)
	}

	st = must(OpenBoltStore(file.Name(), StoreOptions{IsTesting: true}))
	t.Cleanup(func() { st.Close() })

	// both the value and the identity stick to the file
	deepEqual(t, st.Identity(), "S-1-5-21-1-2-3-1005")
	deepEqual(t, must(ReadBinaryValue(st, path)), x("deadbeef"))
}

func TestBoltStoreDefaultIdentity(t *testing.T) {
	st := setup(t)
	deepEqual(t, st.Identity(), "S-1-5-21-907056967-261936662-909522115-1001")
}

func TestMemStoreClosed(t *testing.T) {
	st := NewMemStore(StoreOptions{})
	path := ValuePath{KeyPath{RootCurrentUser, `SOFTWARE\Vendor`}, "Data"}
	if err := st.WriteValue(path, BinaryValue(x("01"))); err != nil {
		t.Fatal(err)
	}
	st.Close()

	if _, err := st.ReadValue(path); err == nil {
		t.Fatalf("read after close succeeded, wanted error")
	}
	if err := st.WriteValue(path, BinaryValue(x("02"))); err == nil {
		t.Fatalf("write after close succeeded, wanted error")
	}
}

func TestResolveCurrentUser(t *testing.T) {
	const identity = "S-1-5-21-1-2-3-1005"

	cu := ValuePath{KeyPath{RootCurrentUser, `SOFTWARE\Vendor\App`}, "Data"}
	deepEqual(t, ResolveCurrentUser(cu, identity),
		ValuePath{KeyPath{RootUsers, `S-1-5-21-1-2-3-1005\SOFTWARE\Vendor\App`}, "Data"})

	lm := ValuePath{KeyPath{RootLocalMachine, `SOFTWARE\Vendor\App`}, "Data"}
	deepEqual(t, ResolveCurrentUser(lm, identity), lm)
}

func TestRootNames(t *testing.T) {
	deepEqual(t, RootCurrentUser.String(), "HKEY_CURRENT_USER")
	deepEqual(t, RootLocalMachine.String(), "HKEY_LOCAL_MACHINE")
	deepEqual(t, RootCurrentUserLocalSettings.String(), "HKEY_CURRENT_USER_LOCAL_SETTINGS")

	p := ValuePath{KeyPath{RootCurrentUser, `A\B`}, "C"}
	deepEqual(t, p.String(), `HKEY_CURRENT_USER\A\B\C`)
}

func setup(t testing.TB) *BoltStore {
	t.Helper()

	file := must(os.CreateTemp("", "store_test_*.db"))
	t.Logf("store: %s", file.Name())
	file.Close()

	st := must(OpenBoltStore(file.Name(), StoreOptions{
		IsTesting: true,
	}))
	t.Cleanup(func() { st.Close() })
	return st
}

func setupMem(t testing.TB) *MemStore {
	t.Helper()
	st := NewMemStore(StoreOptions{})
	t.Cleanup(func() { st.Close() })
	return st
}

func deepEqual[T any](t testing.TB, a, e T) {
	if !reflect.DeepEqual(a, e) {
		t.Helper()
		t.Errorf("** got %v, wanted %v", a, e)
	}
}

func x(data string) []byte {
	data = strings.ReplaceAll(data, " ", "")
	return must(hex.DecodeString(data))
}
