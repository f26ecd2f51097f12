package tableview

import "sync"

// Collection is an observable ordered sequence of records.
//
// A non empty record ID is the identity of a record within
// a Collection: NewCollection, Add and Reset skip a record
// whose ID is already used by another contained record.
// Records with an empty ID are only matched by pointer.
//
// Add emits one EventAdd per appended record,
// Remove one EventRemove per removed record
// and Reset a single EventReset.
type Collection struct {
	emitter

	mu      sync.RWMutex
	records []*Record
}

var _ Notifier = new(Collection)

// NewCollection returns a Collection holding records
// without emitting any events.
// Nil and duplicate records are skipped.
func NewCollection(records ...*Record) *Collection {
	c := new(Collection)
	for _, r := range records {
		if r != nil && c.indexOf(r) == -1 {
			c.records = append(c.records, r)
		}
	}
	return c
}

// Len returns the number of records.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}

// Records returns a copy of the records in collection order.
func (c *Collection) Records() []*Record {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]*Record(nil), c.records...)
}

// At returns the record at index or nil if out of range.
func (c *Collection) At(index int) *Record {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if index < 0 || index >= len(c.records) {
		return nil
	}
	return c.records[index]
}

// Get returns the record with the passed ID or nil.
func (c *Collection) Get(id string) *Record {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, r := range c.records {
		if r.id == id {
			return r
		}
	}
	return nil
}

// IndexOf returns the index of record or -1.
func (c *Collection) IndexOf(record *Record) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for i, r := range c.records {
		if r == record {
			return i
		}
	}
	return -1
}

// indexOf matches by pointer or by non empty ID.
// c.mu must be held.
func (c *Collection) indexOf(record *Record) int {
	for i, r := range c.records {
		if r == record || (record.id != "" && r.id == record.id) {
			return i
		}
	}
	return -1
}

// Add appends records and emits EventAdd for every one of them.
// Nil records and records already contained
// (same pointer or same non empty ID) are skipped.
func (c *Collection) Add(records ...*Record) {
	events := make([]Event, 0, len(records))

	c.mu.Lock()
	for _, r := range records {
		if r == nil || c.indexOf(r) != -1 {
			continue
		}
		c.records = append(c.records, r)
		events = append(events, Event{Kind: EventAdd, Record: r, Index: len(c.records) - 1})
	}
	c.mu.Unlock()

	for _, event := range events {
		c.emit(event)
	}
}

// Remove removes records and emits EventRemove for every removed one
// with the index the record had before its removal.
// Records not contained are ignored.
func (c *Collection) Remove(records ...*Record) {
	events := make([]Event, 0, len(records))

	c.mu.Lock()
	for _, r := range records {
		if r == nil {
			continue
		}
		i := c.indexOf(r)
		if i == -1 {
			continue
		}
		removed := c.records[i]
		c.records = append(c.records[:i:i], c.records[i+1:]...)
		events = append(events, Event{Kind: EventRemove, Record: removed, Index: i})
	}
	c.mu.Unlock()

	for _, event := range events {
		c.emit(event)
	}
}

// Reset replaces all records and emits a single EventReset
// carrying the previous records.
func (c *Collection) Reset(records ...*Record) {
	c.mu.Lock()
	previous := c.records
	c.records = nil
	for _, r := range records {
		if r != nil && c.indexOf(r) == -1 {
			c.records = append(c.records, r)
		}
	}
	c.mu.Unlock()

	c.emit(Event{Kind: EventReset, Index: -1, Previous: previous})
}
