package compounddoc

import "context"

// Adapter is the per-resource-type capability used to turn an included
// element into a domain record. Deserialization and field population are
// delegated entirely to the adapter; the Resolver treats drafts and records
// as opaque values.
type Adapter interface {
	// Deserialize converts a raw included element into a draft value.
	Deserialize(element map[string]any) (draft any, err error)
	// CreateRecord instantiates a new, unsaved domain record from the draft.
	CreateRecord(draft any) (record any, err error)
	// Fill populates the record's fields from the draft's attributes and
	// relationships.
	Fill(ctx context.Context, record, draft any) error
}

// AdapterLookup resolves the Adapter for a resource type. Returning false
// means no adapter is registered; the included resource cannot materialize
// and references to it are dropped during resolution.
type AdapterLookup func(resourceType string) (Adapter, bool)

// Persister saves a record created by an Adapter. An empty id with a nil
// error means persistence did not yield an identifier; a non-nil error aborts
// resolution.
type Persister interface {
	Save(ctx context.Context, record any) (id string, err error)
}

// Store answers existence checks for client-supplied ids during validation.
type Store interface {
	Exists(ctx context.Context, resourceType, id string) (bool, error)
}
