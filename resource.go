package compounddoc

// ResourceIdentifier is the (type, id|lid) triple used to reference a
// resource without embedding its full representation. At most one of ID/LID
// is set on a well-formed identifier.
type ResourceIdentifier struct {
	Type string `json:"type"`
	ID   string `json:"id,omitempty"`
	LID  string `json:"lid,omitempty"`
}

// Relationship holds a relationship's linkage. ToMany records the original
// arity: a to-one relationship carries at most one identifier (none means
// null linkage), a to-many relationship carries the array as given.
type Relationship struct {
	ToMany bool
	Data   []ResourceIdentifier
}

// ResourceObject is the typed form of a resource in the document, used as
// the Resolver's input and output.
type ResourceObject struct {
	Type          string
	ID            string
	LID           string
	Attributes    map[string]any
	Relationships map[string]Relationship
}

// PrimaryResource builds the typed ResourceObject for the document's primary
// `data` member. It assumes the document already passed validation; members
// that do not conform are skipped rather than reported.
func PrimaryResource(doc *Document) (ResourceObject, error) {
	data, ok := doc.Data()
	if !ok {
		return ResourceObject{}, Issues{Root().Field("data").Issue(CodeRequired, "document has no data object")}
	}
	return resourceFromObject(data), nil
}

func resourceFromObject(obj map[string]any) ResourceObject {
	res := ResourceObject{}
	res.Type, _ = obj["type"].(string)
	res.ID, _ = obj["id"].(string)
	res.LID, _ = obj["lid"].(string)
	if attrs, ok := obj["attributes"].(map[string]any); ok {
		res.Attributes = cloneObject(attrs)
	}
	if rels, ok := obj["relationships"].(map[string]any); ok {
		out := make(map[string]Relationship, len(rels))
		for name, raw := range rels {
			entry, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			linkage, ok := entry["data"]
			if !ok {
				continue
			}
			out[name] = relationshipFromLinkage(linkage)
		}
		if len(out) > 0 {
			res.Relationships = out
		}
	}
	return res
}

func relationshipFromLinkage(linkage any) Relationship {
	switch v := linkage.(type) {
	case []any:
		rel := Relationship{ToMany: true, Data: make([]ResourceIdentifier, 0, len(v))}
		for _, item := range v {
			if obj, ok := item.(map[string]any); ok {
				rel.Data = append(rel.Data, identifierFromObject(obj))
			}
		}
		return rel
	case map[string]any:
		return Relationship{Data: []ResourceIdentifier{identifierFromObject(v)}}
	default:
		// null linkage
		return Relationship{}
	}
}

func identifierFromObject(obj map[string]any) ResourceIdentifier {
	var ident ResourceIdentifier
	ident.Type, _ = obj["type"].(string)
	ident.ID, _ = obj["id"].(string)
	ident.LID, _ = obj["lid"].(string)
	return ident
}

// Clone returns a deep copy of the resource object. The Resolver always
// patches a clone so the caller's input stays untouched.
func (r ResourceObject) Clone() ResourceObject {
	out := r
	if r.Attributes != nil {
		out.Attributes = cloneObject(r.Attributes)
	}
	if r.Relationships != nil {
		rels := make(map[string]Relationship, len(r.Relationships))
		for name, rel := range r.Relationships {
			cp := rel
			if rel.Data != nil {
				cp.Data = append([]ResourceIdentifier(nil), rel.Data...)
			}
			rels[name] = cp
		}
		out.Relationships = rels
	}
	return out
}

func cloneObject(src map[string]any) map[string]any {
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch node := v.(type) {
	case map[string]any:
		return cloneObject(node)
	case []any:
		out := make([]any, len(node))
		for i, item := range node {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return node
	}
}
