package bitbucket_impl

import (
	"bitbucket_v2/model"
	"encoding/json"
)

// ExtractResponseBody unwraps the Body of a response. Anything that is not a
// populated response is returned as is, so callers may pass either form.
func ExtractResponseBody(response any) any {
	switch r := response.(type) {
	case *model.Response:
		if r == nil || r.Body == nil || r.StatusCode == 0 {
			return response
		}
		return r.Body
	case model.Response:
		if r.Body == nil || r.StatusCode == 0 {
			return response
		}
		return r.Body
	}
	return response
}

// stringAt follows keys through nested objects and returns the string found
// there, or "" when any step is missing.
func stringAt(body any, keys ...string) string {
	cur := asMap(body)
	for i, k := range keys {
		if cur == nil {
			return ""
		}
		v, ok := cur[k]
		if !ok {
			return ""
		}
		if i == len(keys)-1 {
			s, _ := v.(string)
			return s
		}
		cur = asMap(v)
	}
	return ""
}

func asMap(v any) map[string]any {
	switch t := v.(type) {
	case nil:
		return nil
	case map[string]any:
		return t
	case *model.Response, model.Response, string, []byte:
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var m map[string]any
	if json.Unmarshal(b, &m) != nil {
		return nil
	}
	return m
}
