// Package clients provides thin, context-aware HTTP clients for the
// external collaborators the entity linker depends on: the OCR resolver,
// the NER (TPTA) service, the SRU metadata and newspaper co-occurrence
// service, the knowledge-base search index, and the word-vector service.
//
// None of these are general-purpose libraries: each wraps a small,
// bespoke wire contract (a handful of query parameters, a small XML or
// JSON body) directly over net/http, encoding/xml and encoding/json.
package clients

import "errors"

// Sentinel errors for the predictable failure kinds of each external
// collaborator. Clients wrap these with %w so callers can use errors.Is
// while logs retain the upstream detail.
var (
	ErrOCRUnavailable    = errors.New("ocr resolver unavailable")
	ErrNERUnavailable    = errors.New("ner service unavailable")
	ErrNERService        = errors.New("ner service reported an error")
	ErrSRUUnavailable    = errors.New("sru service unavailable")
	ErrSearchUnavailable = errors.New("search index unavailable")
	ErrVectorUnavailable = errors.New("word vector service unavailable")
	ErrNoVectors         = errors.New("no vectors available")
)
