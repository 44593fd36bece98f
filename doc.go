package compounddoc

// Package compounddoc validates and processes compound JSON:API documents
// submitted to create a primary resource together with the resources it
// references via `included`, resolving client-supplied local ids (lid) into
// real identifiers before persistence.
//
// It provides:
//
// - Document decoding into a typed tree with JSON Pointer lookup
// - A Validator running the resource-creation rule set (JSON:API 1.1
//   compound-document/lid extension included) with batch error reporting
// - A Resolver that creates included resources through per-type Record
//   Adapters and rewrites the primary resource's relationships from lid
//   references to persisted ids
// - A stable error model via Issues (JSON Pointer, code, message)
//
// Design policy:
// - Keep only public APIs in the root package; host integrations live in
//   memstore/ and cmd/.
// - Dependencies (Store, AdapterLookup, Persister) are passed explicitly at
//   construction, never mixed in.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//  doc, err := compounddoc.DecodeDocument(body)
//  v := compounddoc.NewValidator(store, compounddoc.WithClientIDs(true))
//  if err := v.Validate(ctx, doc, "articles"); err != nil { ... }
//
//  res, err := compounddoc.PrimaryResource(doc)
//  r := compounddoc.NewResolver(adapters, persist)
//  patched, err := r.ResolveIncluded(ctx, doc, res)
