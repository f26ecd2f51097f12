package tableview

import "fmt"

// SourceKind tags the variant of a Source.
type SourceKind int

const (
	SourceInvalid SourceKind = iota
	SourceCollection
	SourceRecord
)

func (k SourceKind) String() string {
	switch k {
	case SourceCollection:
		return "Collection"
	case SourceRecord:
		return "Record"
	}
	return "invalid"
}

// Source is the data a TableView renders from,
// either a Collection or a single Record.
// The variant is resolved once by NewSource.
// The zero value is an invalid Source.
type Source struct {
	kind       SourceKind
	collection *Collection
	record     *Record
}

// CollectionSource returns a Source for c.
func CollectionSource(c *Collection) Source {
	if c == nil {
		return Source{}
	}
	return Source{kind: SourceCollection, collection: c}
}

// RecordSource returns a Source for r.
func RecordSource(r *Record) Source {
	if r == nil {
		return Source{}
	}
	return Source{kind: SourceRecord, record: r}
}

// NewSource resolves model which has to be a non nil
// *Collection, *Record or a valid Source.
// Any other value results in an ErrInvalidBinding error.
func NewSource(model any) (Source, error) {
	var s Source
	switch m := model.(type) {
	case *Collection:
		s = CollectionSource(m)
	case *Record:
		s = RecordSource(m)
	case Source:
		s = m
	}
	if !s.IsValid() {
		return Source{}, fmt.Errorf("%w, got %T", ErrInvalidBinding, model)
	}
	return s, nil
}

func (s Source) Kind() SourceKind { return s.kind }

func (s Source) IsValid() bool { return s.kind != SourceInvalid }

// Collection returns the bound Collection or nil.
func (s Source) Collection() *Collection { return s.collection }

// Record returns the bound Record or nil.
func (s Source) Record() *Record { return s.record }

// Notifier returns the bound Collection or Record as Notifier.
func (s Source) Notifier() Notifier {
	switch s.kind {
	case SourceCollection:
		return s.collection
	case SourceRecord:
		return s.record
	}
	return nil
}

func (s Source) String() string {
	switch s.kind {
	case SourceCollection:
		return fmt.Sprintf("CollectionSource(%d records)", s.collection.Len())
	case SourceRecord:
		return fmt.Sprintf("RecordSource(%s)", s.record)
	}
	return "InvalidSource"
}
