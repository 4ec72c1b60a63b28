package testkit

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

// Envelope mirrors response.Envelope with data left undecoded.
type Envelope struct {
	Success bool              `json:"success"`
	Status  int               `json:"status"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

// Response is a recorded response with its decoded envelope.
type Response struct {
	Code     int
	Header   http.Header
	Body     []byte
	Envelope Envelope
}

// Data decodes the envelope's data field into dest.
func (r *Response) Data(t testing.TB, dest any) {
	t.Helper()
	if err := json.Unmarshal(r.Envelope.Data, dest); err != nil {
		t.Fatalf("testkit: decode data: %v\nbody: %s", err, r.Body)
	}
}

// Request describes one call against a handler.
type Request struct {
	Method  string
	Path    string
	Body    any
	Token   string
	Headers map[string]string
}

// Do fires req at h and records the result. Body values that are not
// strings or byte slices are JSON encoded.
func Do(t testing.TB, h http.Handler, req Request) *Response {
	t.Helper()

	var body io.Reader
	switch b := req.Body.(type) {
	case nil:
	case string:
		body = bytes.NewBufferString(b)
	case []byte:
		body = bytes.NewBuffer(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("testkit: encode body: %v", err)
		}
		body = bytes.NewBuffer(raw)
	}

	r := httptest.NewRequest(req.Method, req.Path, body)
	if body != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	if req.Token != "" {
		r.Header.Set("Authorization", "Bearer "+req.Token)
	}
	for k, v := range req.Headers {
		r.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	res := &Response{Code: w.Code, Header: w.Header(), Body: w.Body.Bytes()}
	if len(res.Body) > 0 && json.Valid(res.Body) {
		_ = json.Unmarshal(res.Body, &res.Envelope)
	}
	return res
}

// Get is shorthand for a GET with an optional bearer token.
func Get(t testing.TB, h http.Handler, path, token string) *Response {
	t.Helper()
	return Do(t, h, Request{Method: http.MethodGet, Path: path, Token: token})
}
