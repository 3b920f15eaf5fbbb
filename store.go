package semreg

import (
	"errors"
	"fmt"
)

// Root is one of the well-known registry hierarchy roots.
type Root int

const (
	RootClassesRoot Root = iota
	RootCurrentUser
	RootLocalMachine
	RootUsers
	RootPerformanceData
	RootPerformanceText
	RootPerformanceNlsText
	RootCurrentConfig
	RootDynData
	RootCurrentUserLocalSettings
)

var rootNames = [...]string{
	RootClassesRoot:              "HKEY_CLASSES_ROOT",
	RootCurrentUser:              "HKEY_CURRENT_USER",
	RootLocalMachine:             "HKEY_LOCAL_MACHINE",
	RootUsers:                    "HKEY_USERS",
	RootPerformanceData:          "HKEY_PERFORMANCE_DATA",
	RootPerformanceText:          "HKEY_PERFORMANCE_TEXT",
	RootPerformanceNlsText:       "HKEY_PERFORMANCE_NLSTEXT",
	RootCurrentConfig:            "HKEY_CURRENT_CONFIG",
	RootDynData:                  "HKEY_DYN_DATA",
	RootCurrentUserLocalSettings: "HKEY_CURRENT_USER_LOCAL_SETTINGS",
}

func (r Root) String() string {
	if r < 0 || int(r) >= len(rootNames) {
		panic(fmt.Sprintf("invalid registry root %d", int(r)))
	}
	return rootNames[r]
}

// KeyPath identifies a key: a root plus a backslash-separated path below it.
type KeyPath struct {
	Root Root
	Path string
}

func (k KeyPath) String() string {
	return k.Root.String() + `\` + k.Path
}

// ValuePath identifies a named value under a key.
type ValuePath struct {
	KeyPath
	Name string
}

func (v ValuePath) String() string {
	return v.KeyPath.String() + `\` + v.Name
}

// ValueType is the payload type of a stored value. Only the types the codecs
// need are modeled.
type ValueType int

const (
	TypeBinary ValueType = iota
	TypeString
)

func (t ValueType) String() string {
	switch t {
	case TypeBinary:
		return "binary"
	case TypeString:
		return "string"
	default:
		return fmt.Sprintf("invalid value type %d", int(t))
	}
}

// Value is a typed payload stored at a value path. String payloads are kept
// as UTF-8 here regardless of how a backend stores them.
type Value struct {
	Type ValueType
	Data []byte
}

// BinaryValue wraps raw bytes as a binary value.
func BinaryValue(data []byte) Value {
	return Value{Type: TypeBinary, Data: data}
}

// StringValue wraps a string as a string value.
func StringValue(s string) Value {
	return Value{Type: TypeString, Data: []byte(s)}
}

// Store is a hierarchical value store. Implementations must be safe for
// concurrent use, and resolve current-user paths against their identity on
// every operation, so the current-user alias and its canonical users-root
// form address the same value.
type Store interface {
	// ReadValue returns the value at path, or an error wrapping
	// ErrValueNotFound.
	ReadValue(path ValuePath) (Value, error)

	// WriteValue stores v at path, creating intermediate keys as needed.
	// Writing bytes identical to the stored ones is a no-op that also
	// suppresses change notification.
	WriteValue(path ValuePath, v Value) error

	// DeleteValue removes the value at path. Deleting a missing value is
	// not an error.
	DeleteValue(path ValuePath) error

	// Identity returns the stable identifier that current-user paths
	// resolve against, the way the external system keys per-user subtrees
	// under the users root.
	Identity() string

	Close() error
}

// WatchableStore is a store that can report value changes under watched
// keys.
type WatchableStore interface {
	Store

	// WatchKeys subscribes to changes of every value under the given keys.
	// Current-user aliased keys are resolved like everywhere else; events
	// always carry canonical roots.
	WatchKeys(keys ...KeyPath) (*ValueWatcher, error)
}

// ReadBinaryValue reads path and requires a binary value there.
func ReadBinaryValue(st Store, path ValuePath) ([]byte, error) {
	v, err := st.ReadValue(path)
	if err != nil {
		return nil, err
	}
	if v.Type != TypeBinary {
		return nil, fmt.Errorf("%s: %w: %v", path, ErrWrongValueType, v.Type)
	}
	return v.Data, nil
}

// ReadStringValue reads path and requires a string value there.
func ReadStringValue(st Store, path ValuePath) (string, error) {
	v, err := st.ReadValue(path)
	if err != nil {
		return "", err
	}
	if v.Type != TypeString {
		return "", fmt.Errorf("%s: %w: %v", path, ErrWrongValueType, v.Type)
	}
	return string(v.Data), nil
}

// ResolveCurrentUser maps a current-user path onto the users root using the
// store identity, mirroring how the external system links the per-user
// subtree. The classes root is a merge of machine and user branches and has
// no canonical form; it and every other root pass through unchanged.
func ResolveCurrentUser(path ValuePath, identity string) ValuePath {
	path.KeyPath = resolveCurrentUserKey(path.KeyPath, identity)
	return path
}

func resolveCurrentUserKey(key KeyPath, identity string) KeyPath {
	if key.Root == RootCurrentUser {
		key.Root = RootUsers
		key.Path = identity + `\` + key.Path
	}
	return key
}

func resolveCurrentUserKeys(keys []KeyPath, identity string) []KeyPath {
	out := make([]KeyPath, len(keys))
	for i, k := range keys {
		out[i] = resolveCurrentUserKey(k, identity)
	}
	return out
}

// IsNotFound reports whether err means a value was absent rather than
// unreadable.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrValueNotFound)
}
