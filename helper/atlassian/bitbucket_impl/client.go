package bitbucket_impl

import (
	"bitbucket_v2/helper/atlassian"
	"bitbucket_v2/model"
	"context"
)

var _ atlassian.Bitbucket = (*Client)(nil)

// Client assembles the Request and the endpoint groups. It never changes after
// New returns, so one Client can serve concurrent callers.
type Client struct {
	request      *Request
	repositories *RepositoriesApi
	user         *UserApi
	workspaces   *WorkspacesApi
}

// New returns a production client. nil options means the defaults.
func New(options *model.Options) atlassian.Bitbucket {
	var opts model.Options
	if options != nil {
		opts = *options
	}
	return newClient(NewRequest(opts))
}

func newClient(request *Request) *Client {
	c := &Client{request: request}
	c.repositories = &RepositoriesApi{abstractApi{api: c, name: "repositories"}}
	c.user = &UserApi{abstractApi{api: c, name: "user"}}
	c.workspaces = &WorkspacesApi{abstractApi{api: c, name: "workspaces"}}
	return c
}

func (c *Client) Repositories() atlassian.Repositories { return c.repositories }
func (c *Client) User() atlassian.User                 { return c.user }
func (c *Client) Workspaces() atlassian.Workspaces     { return c.workspaces }
func (c *Client) Request() *Request                    { return c.request }

// Get calls any route, e.g. Get(ctx, "repositories/my-team/my-repo", nil, nil).
func (c *Client) Get(ctx context.Context, route string, parameters any, opts *model.Options) (*model.Response, error) {
	if parameters == nil {
		parameters = map[string]any{}
	}
	return c.request.Get(ctx, route, parameters, opts)
}

func (c *Client) Post(ctx context.Context, route string, parameters any, opts *model.Options) (*model.Response, error) {
	if parameters == nil {
		parameters = map[string]any{}
	}
	return c.request.Post(ctx, route, parameters, opts)
}

func (c *Client) Delete(ctx context.Context, route string, parameters any, opts *model.Options) (*model.Response, error) {
	return c.request.Delete(ctx, route, parameters, opts)
}

// AuthenticateOAuth2 returns a client that sends accessToken as a bearer token.
func (c *Client) AuthenticateOAuth2(accessToken string) atlassian.Bitbucket {
	return newClient(c.request.
		SetOption("login_type", model.LoginOAuth2).
		SetOption("oauth_access_token", accessToken))
}

// AuthenticateBasic returns a client using basic auth, e.g. a username and an app password.
func (c *Client) AuthenticateBasic(username, password string) atlassian.Bitbucket {
	return newClient(c.request.
		SetOption("login_type", model.LoginBasic).
		SetOption("username", username).
		SetOption("password", password))
}

// DeAuthenticate returns a client that sends no credentials.
func (c *Client) DeAuthenticate() atlassian.Bitbucket {
	return newClient(c.request.SetOption("login_type", model.LoginNone))
}
