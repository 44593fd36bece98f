package compounddoc_test

import (
	"testing"

	compounddoc "github.com/reoring/compounddoc"
)

func TestPath_PointerRendering(t *testing.T) {
	if got := compounddoc.Root().Pointer(); got != "/" {
		t.Fatalf("root pointer = %q", got)
	}
	p := compounddoc.Root().Field("data").Field("relationships").Field("tags").Index(2)
	if got := p.Pointer(); got != "/data/relationships/tags/2" {
		t.Fatalf("pointer = %q", got)
	}
}

func TestPath_EscapesPerRFC6901(t *testing.T) {
	p := compounddoc.Root().Field("a/b").Field("c~d")
	if got := p.Pointer(); got != "/a~1b/c~0d" {
		t.Fatalf("pointer = %q", got)
	}
}

func TestPath_AtParsesPointer(t *testing.T) {
	p := compounddoc.At("/data/attributes")
	if got := p.Field("title").Pointer(); got != "/data/attributes/title" {
		t.Fatalf("pointer = %q", got)
	}
	if got := compounddoc.At("").Pointer(); got != "/" {
		t.Fatalf("empty pointer = %q", got)
	}
}

func TestPath_IssueCarriesParams(t *testing.T) {
	it := compounddoc.Root().Field("data").Issue(compounddoc.CodeRequired, "missing", "member", "data")
	if it.Path != "/data" || it.Code != compounddoc.CodeRequired {
		t.Fatalf("unexpected issue: %+v", it)
	}
	if it.Params["member"] != "data" {
		t.Fatalf("unexpected params: %+v", it.Params)
	}
}

func TestDocument_Lookup(t *testing.T) {
	doc := mustDecode(t, `{"data":{"type":"articles","attributes":{"a/b":1}},
		"included":[{"type":"tags","lid":"t1"}]}`)

	if v, ok := doc.Lookup("/data/type"); !ok || v != "articles" {
		t.Fatalf("lookup /data/type = %v, %v", v, ok)
	}
	if v, ok := doc.Lookup("/included/0/lid"); !ok || v != "t1" {
		t.Fatalf("lookup /included/0/lid = %v, %v", v, ok)
	}
	if _, ok := doc.Lookup("/data/attributes/a~1b"); !ok {
		t.Fatalf("escaped member lookup failed")
	}
	if _, ok := doc.Lookup("/included/5"); ok {
		t.Fatalf("out-of-range index must not resolve")
	}
	if _, ok := doc.Lookup("/data/type/deeper"); ok {
		t.Fatalf("descending into a scalar must not resolve")
	}
}
