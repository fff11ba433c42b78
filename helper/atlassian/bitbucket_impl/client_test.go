package bitbucket_impl

import (
	"bitbucket_v2/model"
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestAuthenticateReturnsNewClient(t *testing.T) {
	rc := &recorder{}
	anon := newRecordedClient(rc)
	ctx := context.Background()

	oauth := anon.AuthenticateOAuth2("tok")
	basic := anon.AuthenticateBasic("nim", "app-pass")
	cleared := oauth.DeAuthenticate()

	for _, c := range []interface {
		Get(context.Context, string, any, *model.Options) (*model.Response, error)
	}{anon, oauth, basic, cleared} {
		if _, err := c.Get(ctx, "user", nil, nil); err != nil {
			t.Fatal(err)
		}
	}

	want := []string{
		"",
		"Bearer tok",
		"Basic " + base64.StdEncoding.EncodeToString([]byte("nim:app-pass")),
		"",
	}
	for i, w := range want {
		if got := rc.calls[i].Headers.Get("Authorization"); got != w {
			t.Errorf("call %d Authorization = %q, want %q", i, got, w)
		}
	}

	if anon.Request().GetOption("login_type", nil) != model.LoginNone {
		t.Errorf("authenticating mutated the original client")
	}
	if oauth.(*Client).Request().GetOption("oauth_access_token", nil) != "tok" {
		t.Errorf("DeAuthenticate mutated the authenticated client")
	}
}

func TestClientNilParameters(t *testing.T) {
	rc := &recorder{}
	c := newRecordedClient(rc)
	if _, err := c.Post(context.Background(), "repositories/team/repo/pullrequests", nil, nil); err != nil {
		t.Fatal(err)
	}
	if body, ok := rc.calls[0].Body.(map[string]any); !ok || len(body) != 0 {
		t.Errorf("nil POST parameters sent as %#v, want {}", rc.calls[0].Body)
	}
}

func TestClientPerCallOptions(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	rc := &recorder{}
	c := newRecordedClient(rc)
	opts := serverOptions(t, srv)
	if _, err := c.Get(context.Background(), "user", nil, &opts); err != nil {
		t.Fatal(err)
	}
	if hits.Load() != 1 || len(rc.calls) != 0 {
		t.Errorf("per-call options ignored: server hits %d, requester calls %d", hits.Load(), len(rc.calls))
	}
}

func TestPagination(t *testing.T) {
	next := apiBase + "repositories/team?page=3"
	previous := apiBase + "repositories/team?page=1"
	rc := &recorder{}
	c := newRecordedClient(rc)
	ctx := context.Background()

	middle := &model.Response{StatusCode: 200, Body: map[string]any{"next": next, "previous": previous}}
	if !c.HasNextPage(middle) || !c.HasPreviousPage(middle) {
		t.Fatal("cursors not detected")
	}
	if !c.HasNextPage(middle.Body) {
		t.Error("HasNextPage should accept a bare body")
	}
	if _, err := c.GetNextPage(ctx, middle); err != nil {
		t.Fatal(err)
	}
	if _, err := c.GetPreviousPage(ctx, middle.Body); err != nil {
		t.Fatal(err)
	}
	if rc.calls[0].URL != next || rc.calls[1].URL != previous {
		t.Errorf("followed %s and %s", rc.calls[0].URL, rc.calls[1].URL)
	}

	last := &model.Response{StatusCode: 200, Body: map[string]any{"values": []any{}}}
	if c.HasNextPage(last) || c.HasPreviousPage(last) {
		t.Error("cursors reported on a single page")
	}
	if _, err := c.GetNextPage(ctx, last); !errors.Is(err, ErrNoNextPage) {
		t.Errorf("err = %v, want ErrNoNextPage", err)
	}
	if _, err := c.GetPreviousPage(ctx, last); !errors.Is(err, ErrNoPreviousPage) {
		t.Errorf("err = %v, want ErrNoPreviousPage", err)
	}
	if len(rc.calls) != 2 {
		t.Errorf("missing cursors still produced requests: %d calls", len(rc.calls))
	}

	typed := model.Page[model.PullRequest]{Next: next}
	if !c.HasNextPage(typed) {
		t.Error("HasNextPage should accept a decoded Page")
	}
}

func TestUserAndWorkspaces(t *testing.T) {
	rc := &recorder{}
	c := newRecordedClient(rc)
	ctx := context.Background()
	if _, err := c.User().Get(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Workspaces().Get(ctx); err != nil {
		t.Fatal(err)
	}
	if rc.calls[0].URL != apiBase+"user" || rc.calls[1].URL != apiBase+"workspaces" {
		t.Errorf("calls = %s, %s", rc.calls[0].URL, rc.calls[1].URL)
	}
}

func TestExtractResponseBody(t *testing.T) {
	body := map[string]any{"a": 1}
	if got := ExtractResponseBody(&model.Response{StatusCode: 200, Body: body}); got.(map[string]any)["a"] != 1 {
		t.Errorf("pointer response not unwrapped: %#v", got)
	}
	if got := ExtractResponseBody(model.Response{StatusCode: 200, Body: body}); got.(map[string]any)["a"] != 1 {
		t.Errorf("value response not unwrapped: %#v", got)
	}
	unset := &model.Response{Body: body}
	if got := ExtractResponseBody(unset); got != unset {
		t.Errorf("response without status was unwrapped")
	}
	if got := ExtractResponseBody("text"); got != "text" {
		t.Errorf("plain value changed: %#v", got)
	}
}
