package tableview

import (
	"fmt"
	"reflect"
	"sync"
)

// Field is a key/value pair of a Record.
type Field struct {
	Key   string
	Value any
}

// F returns a Field, a shortcut for NewRecord arguments.
func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Record is an observable keyed mapping of field values.
// Keys are kept in insertion order.
//
// A Record emits EventChange to its listeners
// whenever Set or Unset modified it.
type Record struct {
	emitter

	id string

	mu     sync.RWMutex
	keys   []string
	values map[string]any
}

var _ Notifier = new(Record)

// NewRecord returns a Record with the passed ID and fields.
// Later fields with the same key overwrite earlier ones
// without changing the key order.
func NewRecord(id string, fields ...Field) *Record {
	r := &Record{
		id:     id,
		values: make(map[string]any, len(fields)),
	}
	for _, f := range fields {
		r.put(f.Key, f.Value)
	}
	return r
}

// NewRecordFromMap returns a Record with the passed ID
// and the values of m in the order of keys.
// Keys missing in m are set to nil.
func NewRecordFromMap(id string, keys []string, m map[string]any) *Record {
	r := &Record{
		id:     id,
		values: make(map[string]any, len(keys)),
	}
	for _, key := range keys {
		r.put(key, m[key])
	}
	return r
}

// ID returns the stable identity of the record.
func (r *Record) ID() string { return r.id }

func (r *Record) String() string {
	if r == nil {
		return "<nil>"
	}
	return fmt.Sprintf("Record(%q)", r.id)
}

func (r *Record) put(key string, value any) {
	if _, exists := r.values[key]; !exists {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Get returns the value of key or nil.
func (r *Record) Get(key string) any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.values[key]
}

// Lookup returns the value of key and if the key exists.
func (r *Record) Lookup(key string) (value any, ok bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	value, ok = r.values[key]
	return value, ok
}

// Has returns if the record has a field with key.
func (r *Record) Has(key string) bool {
	_, ok := r.Lookup(key)
	return ok
}

// Set sets the value of key and emits EventChange
// if the key is new or the value differs from the current one.
func (r *Record) Set(key string, value any) {
	r.mu.Lock()
	current, exists := r.values[key]
	if exists && reflect.DeepEqual(current, value) {
		r.mu.Unlock()
		return
	}
	r.put(key, value)
	r.mu.Unlock()

	r.emit(Event{Kind: EventChange, Record: r, Index: -1, Key: key})
}

// Unset removes key and emits EventChange if it existed.
func (r *Record) Unset(key string) {
	r.mu.Lock()
	if _, exists := r.values[key]; !exists {
		r.mu.Unlock()
		return
	}
	delete(r.values, key)
	for i, k := range r.keys {
		if k == key {
			r.keys = append(r.keys[:i:i], r.keys[i+1:]...)
			break
		}
	}
	r.mu.Unlock()

	r.emit(Event{Kind: EventChange, Record: r, Index: -1, Key: key})
}

// Len returns the number of fields.
func (r *Record) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.keys)
}

// Keys returns a copy of the keys in insertion order.
func (r *Record) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.keys...)
}

// Pairs returns the fields in key order.
func (r *Record) Pairs() []Field {
	r.mu.RLock()
	defer r.mu.RUnlock()

	pairs := make([]Field, len(r.keys))
	for i, key := range r.keys {
		pairs[i] = Field{Key: key, Value: r.values[key]}
	}
	return pairs
}
