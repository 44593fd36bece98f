package compounddoc

import (
	"context"
	"fmt"
	"sort"
)

// Validator checks a decoded document against the JSON:API resource-creation
// rules, including the 1.1 compound-document/lid extension. It never throws
// for expected-shape violations; everything is collected and returned as one
// Issues batch so a client can fix all problems in one round trip.
type Validator struct {
	store     Store
	policy    *Policy
	clientIDs bool
}

// ValidatorOption configures a Validator.
type ValidatorOption func(*Validator)

// WithClientIDs sets the blanket client-id policy: when enabled, a primary
// resource may carry a client-supplied id (still subject to the existence
// check). Per-type Policy, when set, takes precedence.
func WithClientIDs(enabled bool) ValidatorOption {
	return func(v *Validator) { v.clientIDs = enabled }
}

// WithPolicy sets a per-resource-type client-id policy.
func WithPolicy(p *Policy) ValidatorOption {
	return func(v *Validator) { v.policy = p }
}

// NewValidator builds a Validator. store answers the "id already in use"
// check for client-supplied ids; a nil store skips that check.
func NewValidator(store Store, opts ...ValidatorOption) *Validator {
	v := &Validator{store: store}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// validation carries the state of one Validate call: the phases below all
// report into the same Collector.
type validation struct {
	v            *Validator
	doc          *Document
	data         map[string]any
	expectedType string
	col          *Collector

	typeOK  bool
	attrsOK bool
	relsOK  bool
}

// Validation phases in rule order. Each phase owns one document member; the
// cross-field pass runs between relationships and included. The table is
// iterated directly so the order is explicit and testable.
var validationPhases = []struct {
	member string
	run    func(*validation, context.Context)
}{
	{"type", (*validation).checkType},
	{"id", (*validation).checkID},
	{"attributes", (*validation).checkAttributes},
	{"relationships", (*validation).checkRelationships},
	{"fields", (*validation).checkFieldConflicts},
	{"included", (*validation).checkIncluded},
}

// Validate runs the full rule set against doc. expectedType is the resource
// type the endpoint creates; an empty value is a programming error and
// panics. The returned error is nil on success, or the complete Issues batch
// (never just the first failure).
func (v *Validator) Validate(ctx context.Context, doc *Document, expectedType string) error {
	if expectedType == "" {
		panic("compounddoc: Validate requires a non-empty expected type")
	}
	col := &Collector{}

	// Structural gate: without a data object there is nothing to validate
	// against, so no further checks run.
	raw, present := doc.root["data"]
	if !present {
		col.Report(Root().Field("data").Issue(CodeRequired, "document must have a data member"))
		return col.Err()
	}
	data, ok := raw.(map[string]any)
	if !ok {
		col.Report(Root().Field("data").Issue(CodeInvalidType, "data must be an object"))
		return col.Err()
	}

	va := &validation{v: v, doc: doc, data: data, expectedType: expectedType, col: col}
	for _, phase := range validationPhases {
		phase.run(va, ctx)
	}
	return col.Err()
}

func (v *Validator) clientIDsSupported(resourceType string) bool {
	if v.policy != nil {
		return v.policy.ClientIDsSupported(resourceType)
	}
	return v.clientIDs
}

func (va *validation) checkType(ctx context.Context) {
	p := Root().Field("data").Field("type")
	raw, present := va.data["type"]
	if !present {
		va.col.Report(p.Issue(CodeRequired, "resource must have a type"))
		return
	}
	s, ok := raw.(string)
	if !ok || s == "" {
		va.col.Report(p.Issue(CodeInvalidType, "type must be a non-empty string"))
		return
	}
	if s != va.expectedType {
		va.col.Report(p.Issue(CodeTypeNotSupported,
			fmt.Sprintf("resource type %q not supported by this endpoint", s),
			"expected", va.expectedType, "got", s))
		return
	}
	va.typeOK = true
}

// checkID runs the identity rules for a client-supplied id. It is skipped
// entirely when the type check failed: identity is meaningless for an
// unsupported type.
func (va *validation) checkID(ctx context.Context) {
	raw, present := va.data["id"]
	if !present || !va.typeOK {
		return
	}
	p := Root().Field("data").Field("id")
	s, ok := raw.(string)
	if !ok || s == "" {
		va.col.Report(p.Issue(CodeInvalidType, "id must be a non-empty string"))
		return
	}
	if !va.v.clientIDsSupported(va.expectedType) {
		va.col.Report(p.Issue(CodeClientIDsUnsupported,
			fmt.Sprintf("client-generated ids are not supported for %q", va.expectedType)))
		return
	}
	if va.v.store == nil {
		return
	}
	exists, err := va.v.store.Exists(ctx, va.expectedType, s)
	if err != nil {
		va.col.Report(Issue{Path: p.Pointer(), Code: CodeDependencyUnavailable, Message: "existence check failed", Cause: err})
		return
	}
	if exists {
		va.col.Report(p.Issue(CodeResourceExists,
			fmt.Sprintf("resource %q with id %q already exists", va.expectedType, s),
			"type", va.expectedType, "id", s))
	}
}

func (va *validation) checkAttributes(ctx context.Context) {
	raw, present := va.data["attributes"]
	if !present {
		va.attrsOK = true
		return
	}
	p := Root().Field("data").Field("attributes")
	obj, ok := raw.(map[string]any)
	if !ok {
		va.col.Report(p.Issue(CodeInvalidType, "attributes must be an object"))
		return
	}
	va.attrsOK = checkReservedKeys(obj, p, va.col)
}

func (va *validation) checkRelationships(ctx context.Context) {
	raw, present := va.data["relationships"]
	if !present {
		va.relsOK = true
		return
	}
	p := Root().Field("data").Field("relationships")
	obj, ok := raw.(map[string]any)
	if !ok {
		va.col.Report(p.Issue(CodeInvalidType, "relationships must be an object"))
		return
	}
	va.relsOK = checkRelationshipsObject(obj, p, va.col)
}

// checkFieldConflicts enforces attribute/relationship name disjointness. It
// only runs when both member checks passed on their own, to avoid compounding
// unrelated errors.
func (va *validation) checkFieldConflicts(ctx context.Context) {
	if !va.attrsOK || !va.relsOK {
		return
	}
	attrs, _ := va.data["attributes"].(map[string]any)
	rels, _ := va.data["relationships"].(map[string]any)
	if attrs == nil || rels == nil {
		return
	}
	for _, name := range sortedKeys(rels) {
		if _, clash := attrs[name]; clash {
			va.col.Report(Root().Field("data").Field("relationships").Field(name).Issue(
				CodeDuplicateField,
				fmt.Sprintf("field %q exists in both attributes and relationships", name),
				"field", name))
		}
	}
}

// checkIncluded validates the compound-document extension: every included
// element must carry a type, a lid correlation key, and an attributes object,
// and its own relationships are validated with the same rules as the primary
// resource's, rooted at that element's path.
func (va *validation) checkIncluded(ctx context.Context) {
	arr, present, isArray := va.doc.Included()
	if !present {
		return
	}
	p := Root().Field("included")
	if !isArray || len(arr) == 0 {
		va.col.Report(p.Issue(CodeInvalidIncluded, "included must be a non-empty array"))
		return
	}
	for i, raw := range arr {
		ep := p.Index(i)
		elem, ok := raw.(map[string]any)
		if !ok {
			va.col.Report(ep.Issue(CodeInvalidType, "included element must be an object"))
			continue
		}
		checkIncludedElement(elem, ep, va.col)
	}
}

func checkIncludedElement(elem map[string]any, p Path, col *Collector) {
	if raw, present := elem["type"]; !present {
		col.Report(p.Field("type").Issue(CodeRequired, "included resource must have a type"))
	} else if s, ok := raw.(string); !ok || s == "" {
		col.Report(p.Field("type").Issue(CodeInvalidType, "type must be a non-empty string"))
	}

	// Unlike the primary resource's optional id, included resources must
	// declare a lid correlation key; server-generated ids are not accepted.
	if raw, present := elem["lid"]; !present {
		col.Report(p.Field("lid").Issue(CodeRequired, "included resource must have a lid"))
	} else if s, ok := raw.(string); !ok || s == "" {
		col.Report(p.Field("lid").Issue(CodeInvalidIdentifier, "lid must be a non-empty string"))
	}

	if raw, present := elem["attributes"]; !present {
		col.Report(p.Field("attributes").Issue(CodeRequired, "included resource must have attributes"))
	} else if obj, ok := raw.(map[string]any); !ok {
		col.Report(p.Field("attributes").Issue(CodeInvalidType, "attributes must be an object"))
	} else {
		checkReservedKeys(obj, p.Field("attributes"), col)
	}

	if raw, present := elem["relationships"]; present {
		rp := p.Field("relationships")
		if obj, ok := raw.(map[string]any); !ok {
			col.Report(rp.Issue(CodeInvalidType, "relationships must be an object"))
		} else {
			checkRelationshipsObject(obj, rp, col)
		}
	}
}

// checkReservedKeys rejects the structural member names type/id inside an
// attributes or relationships object, reporting each offending key. Returns
// true when the object is clean.
func checkReservedKeys(obj map[string]any, p Path, col *Collector) bool {
	ok := true
	for _, name := range sortedKeys(obj) {
		if name == "type" || name == "id" {
			col.Report(p.Field(name).Issue(CodeReservedField,
				fmt.Sprintf("%q is a reserved field name", name), "field", name))
			ok = false
		}
	}
	return ok
}

// checkRelationshipsObject validates every relationship entry under p:
// reserved names, entry shape, linkage shape (object|array|null), and each
// contained identifier. Returns true when no issue was reported.
func checkRelationshipsObject(obj map[string]any, p Path, col *Collector) bool {
	ok := checkReservedKeys(obj, p, col)
	for _, name := range sortedKeys(obj) {
		if name == "type" || name == "id" {
			continue
		}
		ep := p.Field(name)
		entry, isObj := obj[name].(map[string]any)
		if !isObj {
			col.Report(ep.Issue(CodeInvalidType, "relationship must be an object"))
			ok = false
			continue
		}
		linkage, present := entry["data"]
		if !present {
			// meta-only relationship; nothing to check
			continue
		}
		if !checkLinkage(linkage, ep.Field("data"), col) {
			ok = false
		}
	}
	return ok
}

func checkLinkage(linkage any, p Path, col *Collector) bool {
	switch v := linkage.(type) {
	case nil:
		return true
	case map[string]any:
		return checkIdentifier(v, p, col)
	case []any:
		ok := true
		for i, item := range v {
			ip := p.Index(i)
			obj, isObj := item.(map[string]any)
			if !isObj {
				col.Report(ip.Issue(CodeInvalidType, "resource identifier must be an object"))
				ok = false
				continue
			}
			if !checkIdentifier(obj, ip, col) {
				ok = false
			}
		}
		return ok
	default:
		col.Report(p.Issue(CodeInvalidType, "relationship data must be an object, array, or null"))
		return false
	}
}

// checkIdentifier validates one resource identifier: a type is required, and
// id/lid, when carried, must be well-formed non-empty strings.
func checkIdentifier(obj map[string]any, p Path, col *Collector) bool {
	ok := true
	if raw, present := obj["type"]; !present {
		col.Report(p.Field("type").Issue(CodeRequired, "resource identifier must have a type"))
		ok = false
	} else if s, isStr := raw.(string); !isStr || s == "" {
		col.Report(p.Field("type").Issue(CodeInvalidType, "type must be a non-empty string"))
		ok = false
	}
	for _, key := range []string{"id", "lid"} {
		raw, present := obj[key]
		if !present {
			continue
		}
		if s, isStr := raw.(string); !isStr || s == "" {
			col.Report(p.Field(key).Issue(CodeInvalidIdentifier,
				fmt.Sprintf("%s must be a non-empty string", key)))
			ok = false
		}
	}
	return ok
}

// sortedKeys returns object keys in ascending order for deterministic issue
// ordering.
func sortedKeys(obj map[string]any) []string {
	ks := make([]string, 0, len(obj))
	for k := range obj {
		ks = append(ks, k)
	}
	sort.Strings(ks)
	return ks
}
