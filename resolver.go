package compounddoc

import (
	"context"
	"sort"
)

// Resolver walks the primary resource's relationships, creates each included
// resource reachable from them through its type's Adapter, and rewrites lid
// references to the persisted ids. It assumes the document already passed
// the Validator; callers must always validate before resolving.
type Resolver struct {
	adapters AdapterLookup
	persist  Persister
}

// NewResolver builds a Resolver from its two collaborators.
func NewResolver(adapters AdapterLookup, persist Persister) *Resolver {
	return &Resolver{adapters: adapters, persist: persist}
}

// identKey correlates a relationship reference to an included element.
type identKey struct {
	typ string
	lid string
}

// ResolveIncluded creates the included resources referenced by res's
// relationships and returns a patched copy of res: each matched lid reference
// is replaced by the persisted id, or dropped when persistence yielded none.
// A relationship left without data is omitted entirely. The input document
// and resource object are never mutated.
//
// Resolution is one level deep: only relationships directly on the primary
// resource are considered. Nested includes are an extension point, not part
// of this pass.
func (r *Resolver) ResolveIncluded(ctx context.Context, doc *Document, res ResourceObject) (ResourceObject, error) {
	out := res.Clone()
	arr, present, isArray := doc.Included()
	if !present || !isArray || len(arr) == 0 {
		return out, nil
	}

	index := indexIncluded(arr)
	// lid bindings live for this one call: each (type, lid) is created at
	// most once even when referenced by several relationships.
	bindings := map[identKey]string{}

	for _, name := range relationshipNames(out.Relationships) {
		rel := out.Relationships[name]
		kept := make([]ResourceIdentifier, 0, len(rel.Data))
		rewritten := false
		for _, ident := range rel.Data {
			if ident.LID == "" {
				kept = append(kept, ident)
				continue
			}
			key := identKey{typ: ident.Type, lid: ident.LID}
			elem, found := index[key]
			if !found {
				// unknown lid: leave the reference unresolved; rejecting it
				// is the Validator's job, not ours
				kept = append(kept, ident)
				continue
			}
			id, bound := bindings[key]
			if !bound {
				created, err := r.createIncluded(ctx, ident.Type, elem)
				if err != nil {
					return ResourceObject{}, err
				}
				id = created
				bindings[key] = id
			}
			rewritten = true
			if id == "" {
				// the resource never materialized; a dangling lid must not
				// survive into persistence
				continue
			}
			kept = append(kept, ResourceIdentifier{Type: ident.Type, ID: id})
		}
		if len(kept) == 0 {
			if rewritten {
				delete(out.Relationships, name)
			}
			continue
		}
		rel.Data = kept
		out.Relationships[name] = rel
	}
	return out, nil
}

// createIncluded runs one included element through its type's adapter and
// the persister, returning the persisted id or "" when the resource did not
// materialize (no adapter registered, or persistence yielded no id).
func (r *Resolver) createIncluded(ctx context.Context, resourceType string, elem map[string]any) (string, error) {
	ad, ok := r.adapters(resourceType)
	if !ok {
		return "", nil
	}
	draft, err := ad.Deserialize(elem)
	if err != nil {
		return "", err
	}
	record, err := ad.CreateRecord(draft)
	if err != nil {
		return "", err
	}
	if err := ad.Fill(ctx, record, draft); err != nil {
		return "", err
	}
	return r.persist.Save(ctx, record)
}

// indexIncluded keys included elements by (type, lid). On duplicate keys the
// first element in document order wins; later duplicates are never processed.
func indexIncluded(arr []any) map[identKey]map[string]any {
	index := make(map[identKey]map[string]any, len(arr))
	for _, raw := range arr {
		elem, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		typ, _ := elem["type"].(string)
		lid, _ := elem["lid"].(string)
		if typ == "" || lid == "" {
			continue
		}
		key := identKey{typ: typ, lid: lid}
		if _, dup := index[key]; dup {
			continue
		}
		index[key] = elem
	}
	return index
}

// relationshipNames returns relationship names in ascending order so adapter
// calls and output are deterministic.
func relationshipNames(rels map[string]Relationship) []string {
	names := make([]string, 0, len(rels))
	for name := range rels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
