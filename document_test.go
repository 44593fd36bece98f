package compounddoc_test

import (
	"reflect"
	"testing"

	gojson "github.com/goccy/go-json"

	compounddoc "github.com/reoring/compounddoc"
)

func TestDecodeDocument_ParseError(t *testing.T) {
	_, err := compounddoc.DecodeDocument([]byte(`{"data":`))
	iss, ok := compounddoc.AsIssues(err)
	if !ok || !hasCode(iss, compounddoc.CodeParseError) {
		t.Fatalf("expected parse_error, got: %v", err)
	}
}

func TestDecodeDocument_TopLevelMustBeObject(t *testing.T) {
	_, err := compounddoc.DecodeDocument([]byte(`[1,2,3]`))
	iss, ok := compounddoc.AsIssues(err)
	if !ok || !hasIssue(iss, compounddoc.CodeInvalidType, "/") {
		t.Fatalf("expected invalid_type at /, got: %v", err)
	}
}

func TestDecodeDocument_PreservesNumbers(t *testing.T) {
	doc := mustDecode(t, `{"data":{"type":"articles","attributes":{"price":19.990000000000001}}}`)
	v, ok := doc.Lookup("/data/attributes/price")
	if !ok {
		t.Fatalf("price not found")
	}
	if _, isNum := v.(gojson.Number); !isNum {
		t.Fatalf("expected json.Number, got %T", v)
	}
}

func TestPrimaryResource_TypedConstruction(t *testing.T) {
	doc := mustDecode(t, `{"data":{
		"type":"articles","lid":"a1",
		"attributes":{"title":"hello"},
		"relationships":{
			"author":{"data":{"type":"people","id":"9"}},
			"tags":{"data":[{"type":"tag","lid":"L1"}]},
			"cover":{"data":null},
			"meta_only":{"meta":{}}
		}
	}}`)

	res, err := compounddoc.PrimaryResource(doc)
	if err != nil {
		t.Fatalf("primary resource: %v", err)
	}
	if res.Type != "articles" || res.LID != "a1" || res.ID != "" {
		t.Fatalf("identity mismatch: %+v", res)
	}
	if res.Attributes["title"] != "hello" {
		t.Fatalf("attributes mismatch: %+v", res.Attributes)
	}
	author := res.Relationships["author"]
	if author.ToMany || !reflect.DeepEqual(author.Data, []compounddoc.ResourceIdentifier{{Type: "people", ID: "9"}}) {
		t.Fatalf("author relationship mismatch: %+v", author)
	}
	tags := res.Relationships["tags"]
	if !tags.ToMany || tags.Data[0].LID != "L1" {
		t.Fatalf("tags relationship mismatch: %+v", tags)
	}
	cover := res.Relationships["cover"]
	if cover.ToMany || len(cover.Data) != 0 {
		t.Fatalf("null linkage mismatch: %+v", cover)
	}
	if _, present := res.Relationships["meta_only"]; present {
		t.Fatalf("meta-only relationship should not become linkage: %+v", res.Relationships)
	}
}

func TestPrimaryResource_MissingData(t *testing.T) {
	doc := compounddoc.NewDocument(map[string]any{"meta": map[string]any{}})
	_, err := compounddoc.PrimaryResource(doc)
	iss, ok := compounddoc.AsIssues(err)
	if !ok || !hasIssue(iss, compounddoc.CodeRequired, "/data") {
		t.Fatalf("expected required at /data, got: %v", err)
	}
}

func TestResourceObject_CloneIsDeep(t *testing.T) {
	doc := mustDecode(t, `{"data":{"type":"articles",
		"attributes":{"nested":{"k":"v"},"list":[1,2]},
		"relationships":{"tags":{"data":[{"type":"tag","lid":"L1"}]}}}}`)
	res, err := compounddoc.PrimaryResource(doc)
	if err != nil {
		t.Fatalf("primary resource: %v", err)
	}

	cp := res.Clone()
	cp.Attributes["nested"].(map[string]any)["k"] = "changed"
	cp.Attributes["list"].([]any)[0] = 99
	cp.Relationships["tags"].Data[0] = compounddoc.ResourceIdentifier{Type: "tag", ID: "1"}

	if res.Attributes["nested"].(map[string]any)["k"] != "v" {
		t.Fatalf("nested attribute shared between clone and original")
	}
	if res.Attributes["list"].([]any)[0] == 99 {
		t.Fatalf("list attribute shared between clone and original")
	}
	if res.Relationships["tags"].Data[0].LID != "L1" {
		t.Fatalf("relationship data shared between clone and original")
	}
}
