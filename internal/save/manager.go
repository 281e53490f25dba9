package save

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
)

// LoadInfo describes where a loaded state came from.
type LoadInfo struct {
	Found       bool
	FromVersion int
	Steps       int // Migration steps applied
}

// SlotInfo describes one stored key.
type SlotInfo struct {
	Key     string
	Present bool
	Size    int
	Valid   bool
}

// Manager reads and writes versioned saves and the campaign checkpoint.
type Manager struct {
	store  Store
	logger *log.Logger
}

// NewManager creates a manager over store. A nil logger discards output.
func NewManager(store Store, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Manager{store: store, logger: logger}
}

// Save writes st under the current version key.
func (m *Manager) Save(st *GameState) error {
	data, err := Encode(st)
	if err != nil {
		return err
	}
	if err := m.store.Put(KeyV5, data); err != nil {
		return fmt.Errorf("save: cannot write %s: %w", KeyV5, err)
	}
	return nil
}

// Load returns the saved state, migrating an older version when needed.
// A missing or undecodable save yields nil with no error.
func (m *Manager) Load() (*GameState, LoadInfo, error) {
	data, ok, err := m.store.Get(KeyV5)
	if err != nil {
		return nil, LoadInfo{}, fmt.Errorf("save: cannot read %s: %w", KeyV5, err)
	}
	if ok {
		var st GameState
		if err := Decode(data, &st); err == nil {
			st.Sanitize()
			return &st, LoadInfo{Found: true, FromVersion: CurrentVersion}, nil
		}
		m.logger.Warn("current save undecodable, scanning older versions", "key", KeyV5)
	}

	for v := CurrentVersion - 1; v >= 1; v-- {
		key := VersionKey(v)
		data, ok, err := m.store.Get(key)
		if err != nil {
			return nil, LoadInfo{}, fmt.Errorf("save: cannot read %s: %w", key, err)
		}
		if !ok {
			continue
		}
		st, steps, err := migrateFrom(v, data)
		if err != nil {
			m.logger.Warn("skipping undecodable save", "key", key, "err", err)
			continue
		}
		st.Sanitize()
		if err := m.Save(st); err != nil {
			return st, LoadInfo{Found: true, FromVersion: v, Steps: steps}, err
		}
		if err := m.store.Delete(key); err != nil {
			m.logger.Warn("cannot remove migrated save", "key", key, "err", err)
		}
		m.logger.Info("migrated save", "from", v, "to", CurrentVersion, "steps", steps)
		return st, LoadInfo{Found: true, FromVersion: v, Steps: steps}, nil
	}
	return nil, LoadInfo{}, nil
}

// migrateFrom decodes a payload of version from and walks it up the chain
// one version at a time.
func migrateFrom(from int, data []byte) (*GameState, int, error) {
	var (
		v1  StateV1
		v2  StateV2
		v3  StateV3
		v4  StateV4
		err error
	)
	switch from {
	case 1:
		err = Decode(data, &v1)
	case 2:
		err = Decode(data, &v2)
	case 3:
		err = Decode(data, &v3)
	case 4:
		err = Decode(data, &v4)
	default:
		return nil, 0, fmt.Errorf("save: unknown version %d", from)
	}
	if err != nil {
		return nil, 0, err
	}

	steps := 0
	if from <= 1 {
		v2 = MigrateV1(v1)
		steps++
	}
	if from <= 2 {
		v3 = MigrateV2(v2)
		steps++
	}
	if from <= 3 {
		v4 = MigrateV3(v3)
		steps++
	}
	st := MigrateV4(v4)
	steps++
	return &st, steps, nil
}

// SaveCheckpoint writes the campaign checkpoint.
func (m *Manager) SaveCheckpoint(cp *LevelCheckpoint) error {
	data, err := Encode(cp)
	if err != nil {
		return err
	}
	if err := m.store.Put(KeyCheckpoint, data); err != nil {
		return fmt.Errorf("save: cannot write checkpoint: %w", err)
	}
	return nil
}

// LoadCheckpoint returns the campaign checkpoint, or nil when absent or
// undecodable.
func (m *Manager) LoadCheckpoint() (*LevelCheckpoint, error) {
	data, ok, err := m.store.Get(KeyCheckpoint)
	if err != nil {
		return nil, fmt.Errorf("save: cannot read checkpoint: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var cp LevelCheckpoint
	if err := Decode(data, &cp); err != nil {
		m.logger.Warn("discarding undecodable checkpoint", "err", err)
		return nil, nil
	}
	cp.Sanitize()
	return &cp, nil
}

// ClearCheckpoint removes the campaign checkpoint.
func (m *Manager) ClearCheckpoint() error {
	if err := m.store.Delete(KeyCheckpoint); err != nil {
		return fmt.Errorf("save: cannot clear checkpoint: %w", err)
	}
	return nil
}

// Reset removes every save version and the checkpoint.
func (m *Manager) Reset() error {
	for _, key := range allKeys() {
		if err := m.store.Delete(key); err != nil {
			return fmt.Errorf("save: cannot delete %s: %w", key, err)
		}
	}
	return nil
}

// Inspect reports which keys are present and decodable.
func (m *Manager) Inspect() ([]SlotInfo, error) {
	var out []SlotInfo
	for _, key := range allKeys() {
		data, ok, err := m.store.Get(key)
		if err != nil {
			return nil, fmt.Errorf("save: cannot read %s: %w", key, err)
		}
		info := SlotInfo{Key: key, Present: ok, Size: len(data)}
		if ok {
			var raw json.RawMessage
			info.Valid = Decode(data, &raw) == nil
		}
		out = append(out, info)
	}
	return out, nil
}

func allKeys() []string {
	return []string{KeyV5, KeyV4, KeyV3, KeyV2, KeyV1, KeyCheckpoint}
}
