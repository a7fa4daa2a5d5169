package nutrition

import (
	"fmt"
	"log"
	"sync"
	"time"
)

// DefaultKey is the storage key the food log is persisted under.
const DefaultKey = "nutri_log_v1"

// KV is a durable string key-value store.
type KV interface {
	Get(key string) (string, bool, error)
	Put(key, value string) error
	Delete(key string) error
}

// Log is the persisted, append-only list of logged entries. All mutation
// goes through Append and Clear.
type Log struct {
	mu  sync.Mutex
	kv  KV
	key string
	now func() time.Time

	// last corrupt payload reported, so each one is logged once
	corrupt string
}

type LogOption func(*Log)

// WithKey overrides the storage key.
func WithKey(key string) LogOption {
	return func(l *Log) { l.key = key }
}

// WithClock overrides the clock used to assign entry IDs.
func WithClock(now func() time.Time) LogOption {
	return func(l *Log) { l.now = now }
}

func NewLog(kv KV, opts ...LogOption) *Log {
	l := &Log{kv: kv, key: DefaultKey, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Log) Key() string { return l.key }

// Append records item as a new entry at the end of the log and persists the
// whole list. The entry ID is the current Unix millisecond, bumped past the
// largest ID already stored so IDs stay unique and increasing.
func (l *Log) Append(item Item) (Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries := l.load()
	item = item.normalized()

	id := l.now().UnixMilli()
	for _, e := range entries {
		if e.ID >= id {
			id = e.ID + 1
		}
	}

	entry := Entry{
		ID:   id,
		Name: item.Name,
		Cal:  item.Cal,
		Pro:  item.Pro,
		Carb: item.Carb,
		Fat:  item.Fat,
	}
	entries = append(entries, entry)

	data, err := Encode(entries)
	if err != nil {
		return Entry{}, err
	}
	if err := l.kv.Put(l.key, string(data)); err != nil {
		return Entry{}, fmt.Errorf("persist food log: %w", err)
	}
	return entry, nil
}

// Clear removes every entry. Clearing an empty log is a no-op.
func (l *Log) Clear() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.kv.Delete(l.key); err != nil {
		return fmt.Errorf("clear food log: %w", err)
	}
	return nil
}

// List returns the entries oldest first. Unreadable or corrupt storage
// reads as an empty log.
func (l *Log) List() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.load()
}

func (l *Log) Count() int {
	return len(l.List())
}

func (l *Log) load() []Entry {
	raw, ok, err := l.kv.Get(l.key)
	if err != nil {
		log.Printf("nutrition: read %s: %v", l.key, err)
		return nil
	}
	if !ok {
		return nil
	}
	entries, err := Decode([]byte(raw))
	if err != nil {
		if raw != l.corrupt {
			l.corrupt = raw
			log.Printf("nutrition: %s is corrupt, treating as empty: %v", l.key, err)
		}
		return nil
	}
	return entries
}
