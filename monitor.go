package semreg

import (
	"context"
	"log/slog"
)

// MonitorEntry binds a logical id to the value path it stands for.
type MonitorEntry[ID comparable] struct {
	ID   ID
	Path ValuePath
}

// MonitorOptions configures a Monitor.
type MonitorOptions struct {
	Logger *slog.Logger
}

// Monitor watches a set of value paths and translates raw change events back
// into the caller's logical ids. Events for other values under the watched
// keys are skipped.
type Monitor[ID comparable] struct {
	watcher *ValueWatcher
	ids     map[ValuePath]ID
	logger  *slog.Logger
}

// NewMonitor subscribes to the keys holding the entries' values.
// Current-user paths are resolved against the store identity up front, since
// events always arrive under canonical roots.
func NewMonitor[ID comparable](st WatchableStore, entries []MonitorEntry[ID], opt MonitorOptions) (*Monitor[ID], error) {
	logger := opt.Logger
	if logger == nil {
		logger = slog.Default()
	}

	identity := st.Identity()
	ids := make(map[ValuePath]ID, len(entries))
	keySet := make(map[KeyPath]struct{}, len(entries))
	keys := make([]KeyPath, 0, len(entries))
	for _, e := range entries {
		path := ResolveCurrentUser(e.Path, identity)
		ids[path] = e.ID
		if _, seen := keySet[path.KeyPath]; !seen {
			keySet[path.KeyPath] = struct{}{}
			keys = append(keys, path.KeyPath)
		}
	}

	watcher, err := st.WatchKeys(keys...)
	if err != nil {
		return nil, err
	}
	return &Monitor[ID]{watcher: watcher, ids: ids, logger: logger}, nil
}

// NextChange blocks until a watched value changes and returns its id, or
// until ctx is done. Lost events surface as ErrWatchOverflow. The event
// stream never ends on its own while the store is open; its termination
// means the store was closed underneath the monitor, which is a usage error
// and panics.
func (m *Monitor[ID]) NextChange(ctx context.Context) (ID, error) {
	var zero ID
	for {
		select {
		case ev, ok := <-m.watcher.Events():
			if !ok {
				panic("value change stream ended; monitor outlived its store")
			}
			if id, watched := m.ids[ev.ValuePath()]; watched {
				return id, nil
			}
			m.logger.Debug("skipping change of unwatched value", "path", ev.ValuePath().String())
		case err := <-m.watcher.Errors():
			return zero, err
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}
}

// Run delivers ids to callback until the callback asks to stop or fails, or
// until ctx is done. Cancellation is a clean stop and returns nil.
func (m *Monitor[ID]) Run(ctx context.Context, callback func(ID) (bool, error)) error {
	for {
		id, err := m.NextChange(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		stop, err := callback(id)
		if err != nil {
			return err
		}
		if stop {
			return nil
		}
	}
}

func (m *Monitor[ID]) Close() {
	m.watcher.Close()
}
