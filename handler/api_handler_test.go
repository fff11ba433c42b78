package handler

import (
	"bitbucket_v2/helper/atlassian/bitbucket_impl"
	"bitbucket_v2/model"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
)

// fakeBitbucket answers every request through a custom requester.
type fakeBitbucket struct {
	mutex sync.Mutex
	calls []model.RequestDescriptor
	reply func(d model.RequestDescriptor) (*model.Response, error)
}

func (f *fakeBitbucket) requester(_ context.Context, d model.RequestDescriptor) (*model.Response, error) {
	f.mutex.Lock()
	f.calls = append(f.calls, d)
	f.mutex.Unlock()
	return f.reply(d)
}

func (f *fakeBitbucket) options() *model.Options {
	return &model.Options{RequesterFn: f.requester}
}

func serve(t *testing.T, ah *ApiHandler, target string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	ah.Register(e)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHealth(t *testing.T) {
	ah := &ApiHandler{Watch: NewWatchHandler(nil)}
	rec := serve(t, ah, "/healthz")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("got %d %s", rec.Code, rec.Body.String())
	}
}

func TestPullRequestsSnapshot(t *testing.T) {
	fake := &fakeBitbucket{reply: func(d model.RequestDescriptor) (*model.Response, error) {
		return &model.Response{StatusCode: 200, Body: map[string]any{
			"values": []any{map[string]any{"id": 9, "title": "Bump deps", "state": "OPEN"}},
		}}, nil
	}}
	bb := bitbucket_impl.New(fake.options())
	wh := NewWatchHandler(bb)
	ah := &ApiHandler{Bitbucket: bb, Watch: wh}

	rec := serve(t, ah, "/pullrequests/team/repo")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("before polling: got %d, want 404", rec.Code)
	}

	if err := wh.Poll(context.Background(), model.WatchRepository{Workspace: "team", RepoSlug: "repo"}); err != nil {
		t.Fatalf("Poll: %v", err)
	}

	rec = serve(t, ah, "/pullrequests/team/repo")
	if rec.Code != http.StatusOK {
		t.Fatalf("after polling: got %d %s", rec.Code, rec.Body.String())
	}
	var snapshot model.PullRequestSnapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snapshot); err != nil {
		t.Fatal(err)
	}
	if len(snapshot.PullRequests) != 1 || snapshot.PullRequests[0].Title != "Bump deps" || snapshot.RunID == "" {
		t.Errorf("snapshot = %+v", snapshot)
	}
}

func TestRelay(t *testing.T) {
	tests := []struct {
		name   string
		target string
		reply  func(d model.RequestDescriptor) (*model.Response, error)
		code   int
		body   string
	}{
		{"user ok", "/user", func(d model.RequestDescriptor) (*model.Response, error) {
			return &model.Response{StatusCode: 200, Body: map[string]any{"nickname": "nim"}}, nil
		}, http.StatusOK, `"nickname":"nim"`},
		{"api error keeps status", "/user", func(d model.RequestDescriptor) (*model.Response, error) {
			return nil, &model.ResponseError{StatusCode: 401, Body: map[string]any{"type": "error"}}
		}, http.StatusUnauthorized, `"type":"error"`},
		{"transport error", "/workspaces", func(d model.RequestDescriptor) (*model.Response, error) {
			return nil, context.DeadlineExceeded
		}, http.StatusBadGateway, "deadline exceeded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeBitbucket{reply: tt.reply}
			ah := &ApiHandler{Bitbucket: bitbucket_impl.New(fake.options()), Watch: NewWatchHandler(nil)}
			rec := serve(t, ah, tt.target)
			if rec.Code != tt.code || !strings.Contains(rec.Body.String(), tt.body) {
				t.Errorf("got %d %s, want %d containing %s", rec.Code, rec.Body.String(), tt.code, tt.body)
			}
		})
	}
}
