package semreg

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unsafe"

	"github.com/vmihailenco/msgpack/v5"
	"go.etcd.io/bbolt"
)

// StoreOptions configures a store backend.
type StoreOptions struct {
	// Identity keys the per-user subtree that current-user paths resolve
	// to. When empty, a persisted or built-in default is used.
	Identity string

	Logger *slog.Logger

	// IsTesting trades durability for speed.
	IsTesting bool
}

const defaultIdentity = "S-1-5-21-907056967-261936662-909522115-1001"

func (o StoreOptions) identityOrDefault() string {
	if o.Identity == "" {
		return defaultIdentity
	}
	return o.Identity
}

// Bucket layout: one top-level bucket per root, one nested bucket per path
// segment, and the values of a key in a child bucket whose name starts with
// a NUL byte. Key and value names cannot contain NUL, so the reserved child
// can never collide with a subkey.
const (
	valuesBucketName = "\x00values"
	metaBucketName   = "\x00meta"
	identityMetaKey  = "identity"
)

// BoltStore is the persistent store backend, one hive per file.
type BoltStore struct {
	bdb      *bbolt.DB
	hub      *watchHub
	identity string
	logger   *slog.Logger
}

var _ WatchableStore = (*BoltStore)(nil)

// OpenBoltStore opens or creates the hive file at path.
func OpenBoltStore(path string, opt StoreOptions) (*BoltStore, error) {
	bopt := *bbolt.DefaultOptions
	bopt.Timeout = 10 * time.Second
	if opt.IsTesting {
		bopt.NoSync = true
		bopt.NoFreelistSync = true
		bopt.InitialMmapSize = 1024 * 1024
	} else {
		bopt.FreelistType = bbolt.FreelistMapType
	}

	bdb, err := bbolt.Open(path, 0666, &bopt)
	if err != nil {
		return nil, fmt.Errorf("semreg: %w", err)
	}

	logger := opt.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &BoltStore{
		bdb:    bdb,
		hub:    newWatchHub(logger),
		logger: logger,
	}

	// The identity sticks to the hive file so that resolved per-user paths
	// stay stable across runs.
	err = bdb.Update(func(btx *bbolt.Tx) error {
		meta, err := btx.CreateBucketIfNotExists(unsafeBytesFromString(metaBucketName))
		if err != nil {
			return err
		}
		s.identity = opt.Identity
		if s.identity == "" {
			s.identity = string(meta.Get(unsafeBytesFromString(identityMetaKey)))
		}
		if s.identity == "" {
			s.identity = defaultIdentity
		}
		return meta.Put(unsafeBytesFromString(identityMetaKey), []byte(s.identity))
	})
	if err != nil {
		bdb.Close()
		return nil, fmt.Errorf("semreg: %w", err)
	}
	return s, nil
}

// Bolt exposes the underlying database for tooling.
func (s *BoltStore) Bolt() *bbolt.DB { return s.bdb }

func (s *BoltStore) Identity() string { return s.identity }

func (s *BoltStore) ReadValue(path ValuePath) (Value, error) {
	path = ResolveCurrentUser(path, s.identity)
	var rec []byte
	err := s.bdb.View(func(btx *bbolt.Tx) error {
		b := valuesBucket(btx, path.KeyPath)
		if b == nil {
			return nil
		}
		if raw := b.Get(unsafeBytesFromString(path.Name)); raw != nil {
			rec = bytes.Clone(raw)
		}
		return nil
	})
	if err != nil {
		return Value{}, fmt.Errorf("semreg: %w", err)
	}
	if rec == nil {
		return Value{}, fmt.Errorf("%s: %w", path, ErrValueNotFound)
	}
	return decodeValueRecord(rec)
}

func (s *BoltStore) WriteValue(path ValuePath, v Value) error {
	path = ResolveCurrentUser(path, s.identity)
	rec := encodeValueRecord(v)
	var wrote bool
	err := s.bdb.Update(func(btx *bbolt.Tx) error {
		b, err := createValuesBucket(btx, path.KeyPath)
		if err != nil {
			return err
		}
		name := unsafeBytesFromString(path.Name)
		if bytes.Equal(b.Get(name), rec) {
			return nil
		}
		wrote = true
		return b.Put(name, rec)
	})
	if err != nil {
		return fmt.Errorf("semreg: %w", err)
	}
	if wrote {
		s.logger.Debug("wrote value", slog.String("path", path.String()), hexAttr("data", v.Data))
		s.hub.notifyWrite(path, v.Data)
	}
	return nil
}

func (s *BoltStore) DeleteValue(path ValuePath) error {
	path = ResolveCurrentUser(path, s.identity)
	var deleted bool
	err := s.bdb.Update(func(btx *bbolt.Tx) error {
		b := valuesBucket(btx, path.KeyPath)
		if b == nil {
			return nil
		}
		name := unsafeBytesFromString(path.Name)
		if b.Get(name) == nil {
			return nil
		}
		deleted = true
		return b.Delete(name)
	})
	if err != nil {
		return fmt.Errorf("semreg: %w", err)
	}
	if deleted {
		s.logger.Debug("deleted value", slog.String("path", path.String()))
		s.hub.notifyDelete(path)
	}
	return nil
}

func (s *BoltStore) WatchKeys(keys ...KeyPath) (*ValueWatcher, error) {
	return s.hub.subscribe(resolveCurrentUserKeys(keys, s.identity))
}

func (s *BoltStore) Close() error {
	s.hub.close()
	return s.bdb.Close()
}

func keyBucket(btx *bbolt.Tx, key KeyPath) *bbolt.Bucket {
	b := btx.Bucket(unsafeBytesFromString(key.Root.String()))
	if b == nil {
		return nil
	}
	for _, seg := range keySegments(key.Path) {
		if b = b.Bucket(unsafeBytesFromString(seg)); b == nil {
			return nil
		}
	}
	return b
}

func valuesBucket(btx *bbolt.Tx, key KeyPath) *bbolt.Bucket {
	b := keyBucket(btx, key)
	if b == nil {
		return nil
	}
	return b.Bucket(unsafeBytesFromString(valuesBucketName))
}

func createValuesBucket(btx *bbolt.Tx, key KeyPath) (*bbolt.Bucket, error) {
	b, err := btx.CreateBucketIfNotExists(unsafeBytesFromString(key.Root.String()))
	if err != nil {
		return nil, err
	}
	for _, seg := range keySegments(key.Path) {
		if b, err = b.CreateBucketIfNotExists(unsafeBytesFromString(seg)); err != nil {
			return nil, err
		}
	}
	return b.CreateBucketIfNotExists(unsafeBytesFromString(valuesBucketName))
}

func keySegments(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, `\`)
}

type valueRecord struct {
	Type ValueType
	Data []byte
}

func encodeValueRecord(v Value) []byte {
	return must(msgpack.Marshal(valueRecord{Type: v.Type, Data: v.Data}))
}

func decodeValueRecord(raw []byte) (Value, error) {
	var rec valueRecord
	if err := msgpack.Unmarshal(raw, &rec); err != nil {
		return Value{}, fmt.Errorf("failed to decode value record: %w", err)
	}
	return Value{Type: rec.Type, Data: rec.Data}, nil
}

func unsafeBytesFromString(s string) []byte {
	return unsafe.Slice(unsafe.StringData(s), len(s))
}
