package orthanc_dto

import (
	"net/http"
	"net/url"
)

type PayloadKind int

const (
	PayloadJSON PayloadKind = iota
	PayloadText
	PayloadBinary
)

func (k PayloadKind) String() string {
	switch k {
	case PayloadJSON:
		return "json"
	case PayloadText:
		return "text"
	case PayloadBinary:
		return "binary"
	}
	return "unknown"
}

// Request is one call against the Orthanc REST API. Body is sent as-is when it
// is a []byte or string and JSON encoded otherwise.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Headers http.Header
	Body    any
}

// Payload is a decoded Orthanc response. Data holds the decoded JSON document
// for PayloadJSON, Text the body for PayloadText. Raw always carries the bytes read.
type Payload struct {
	Kind        PayloadKind
	ContentType string
	Data        any
	Text        string
	Raw         []byte
}

func (p *Payload) Object() (map[string]any, bool) {
	if p == nil || p.Kind != PayloadJSON {
		return nil, false
	}
	object, ok := p.Data.(map[string]any)
	return object, ok
}

func (p *Payload) Array() ([]any, bool) {
	if p == nil || p.Kind != PayloadJSON {
		return nil, false
	}
	array, ok := p.Data.([]any)
	return array, ok
}
