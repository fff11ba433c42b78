package model

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Response is a successful (< 400) API reply. Body holds the decoded JSON
// value when the client format is "json", the raw text otherwise.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       any
	Raw        []byte
}

// Decode unmarshals the body into v. Responses built by a custom requester
// may carry only Body; it is re-encoded in that case.
func (r *Response) Decode(v any) error {
	if r == nil {
		return fmt.Errorf("bitbucket: nil response")
	}
	raw := r.Raw
	if len(raw) == 0 {
		if r.Body == nil {
			return fmt.Errorf("bitbucket: empty response body")
		}
		b, err := json.Marshal(r.Body)
		if err != nil {
			return fmt.Errorf("bitbucket: re-encode body: %w", err)
		}
		raw = b
	}
	return json.Unmarshal(raw, v)
}

// ResponseError is an API reply with status >= 400. Body is parsed JSON when
// the reply declared a JSON content type.
type ResponseError struct {
	StatusCode int
	Body       any
}

func (e *ResponseError) Error() string {
	if s, ok := e.Body.(string); ok && s != "" {
		return fmt.Sprintf("bitbucket: status %d: %s", e.StatusCode, s)
	}
	if m, ok := e.Body.(map[string]any); ok {
		if inner, ok := m["error"].(map[string]any); ok {
			if msg, ok := inner["message"].(string); ok {
				return fmt.Sprintf("bitbucket: status %d: %s", e.StatusCode, msg)
			}
		}
	}
	return fmt.Sprintf("bitbucket: status %d", e.StatusCode)
}

// RequestDescriptor is what a RequesterFunc receives instead of a live request.
type RequestDescriptor struct {
	Headers  http.Header
	Hostname string
	Method   string
	Path     string
	URL      string
	Body     any
}
