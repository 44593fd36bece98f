package compounddoc

import (
	"bytes"

	gojson "github.com/goccy/go-json"
)

// Document is the decoded JSON:API payload as a typed tree. It is owned by
// the caller for the duration of one request; the Validator reads it and the
// Resolver works on copies, never mutating the tree itself.
type Document struct {
	root map[string]any
}

// DecodeDocument decodes raw JSON into a Document. Numbers are preserved as
// json.Number so attribute values round-trip without precision loss.
// Decode failures are reported as Issues with CodeParseError.
func DecodeDocument(data []byte) (*Document, error) {
	dec := gojson.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, Issues{{Path: "/", Code: CodeParseError, Message: err.Error(), Cause: err}}
	}
	root, ok := v.(map[string]any)
	if !ok {
		return nil, Issues{{Path: "/", Code: CodeInvalidType, Message: "document must be a JSON object"}}
	}
	return &Document{root: root}, nil
}

// NewDocument wraps an already-decoded JSON object. Hosts that decode the
// request body themselves can hand the tree over without re-encoding.
func NewDocument(root map[string]any) *Document {
	return &Document{root: root}
}

// Data returns the primary `data` member when it is present and an object.
func (d *Document) Data() (map[string]any, bool) {
	obj, ok := d.root["data"].(map[string]any)
	return obj, ok
}

// Included returns the `included` member when it is present and an array.
// Presence and shape are reported separately so the Validator can distinguish
// "absent" (fine) from "present but malformed" (an error).
func (d *Document) Included() (arr []any, present, isArray bool) {
	raw, ok := d.root["included"]
	if !ok {
		return nil, false, false
	}
	arr, isArray = raw.([]any)
	return arr, true, isArray
}

// Lookup resolves a JSON Pointer against the document tree, returning the
// addressed value, or false when any segment does not resolve.
func (d *Document) Lookup(pointer string) (any, bool) {
	return At(pointer).lookup(any(d.root))
}
