// Package memstore provides an in-memory Store/Persister/Adapter trio for
// hosts and tests. Records are held in a map keyed by (type, id); saved
// records get uuid-assigned ids.
package memstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	compounddoc "github.com/reoring/compounddoc"
)

// Record is the generic domain record shape used by this store.
type Record struct {
	Type          string
	ID            string
	Attributes    map[string]any
	Relationships map[string]any
}

// Store is an in-memory record store. It implements compounddoc.Store and
// compounddoc.Persister.
type Store struct {
	mu      sync.RWMutex
	records map[string]*Record
}

// New returns an empty Store.
func New() *Store {
	return &Store{records: map[string]*Record{}}
}

func storeKey(resourceType, id string) string { return resourceType + "\x00" + id }

// Exists reports whether a record with the given type and id has been saved.
func (s *Store) Exists(ctx context.Context, resourceType, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.records[storeKey(resourceType, id)]
	return ok, nil
}

// Save assigns the record an id when it has none and stores it.
func (s *Store) Save(ctx context.Context, record any) (string, error) {
	rec, ok := record.(*Record)
	if !ok {
		return "", fmt.Errorf("memstore: cannot save %T", record)
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	s.mu.Lock()
	s.records[storeKey(rec.Type, rec.ID)] = rec
	s.mu.Unlock()
	return rec.ID, nil
}

// Get returns a saved record.
func (s *Store) Get(resourceType, id string) (*Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[storeKey(resourceType, id)]
	return rec, ok
}

// Len returns the number of saved records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// draft is the deserialized form of an included element before it becomes a
// Record.
type draft struct {
	resourceType  string
	attributes    map[string]any
	relationships map[string]any
}

type recordAdapter struct{}

// NewAdapter returns a compounddoc.Adapter producing *Record values. One
// adapter serves every resource type stored here.
func NewAdapter() compounddoc.Adapter { return recordAdapter{} }

// Lookup returns an AdapterLookup that serves NewAdapter for every type.
func Lookup() compounddoc.AdapterLookup {
	ad := NewAdapter()
	return func(resourceType string) (compounddoc.Adapter, bool) { return ad, true }
}

func (recordAdapter) Deserialize(element map[string]any) (any, error) {
	typ, _ := element["type"].(string)
	if typ == "" {
		return nil, fmt.Errorf("memstore: included element has no type")
	}
	d := &draft{resourceType: typ}
	if attrs, ok := element["attributes"].(map[string]any); ok {
		d.attributes = attrs
	}
	if rels, ok := element["relationships"].(map[string]any); ok {
		d.relationships = rels
	}
	return d, nil
}

func (recordAdapter) CreateRecord(dr any) (any, error) {
	d, ok := dr.(*draft)
	if !ok {
		return nil, fmt.Errorf("memstore: unexpected draft %T", dr)
	}
	return &Record{Type: d.resourceType}, nil
}

func (recordAdapter) Fill(ctx context.Context, record, dr any) error {
	rec, ok := record.(*Record)
	if !ok {
		return fmt.Errorf("memstore: unexpected record %T", record)
	}
	d, ok := dr.(*draft)
	if !ok {
		return fmt.Errorf("memstore: unexpected draft %T", dr)
	}
	if d.attributes != nil {
		rec.Attributes = make(map[string]any, len(d.attributes))
		for k, v := range d.attributes {
			rec.Attributes[k] = v
		}
	}
	if d.relationships != nil {
		rec.Relationships = make(map[string]any, len(d.relationships))
		for k, v := range d.relationships {
			rec.Relationships[k] = v
		}
	}
	return nil
}
