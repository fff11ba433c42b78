package atlassian

import (
	"bitbucket_v2/model"
	"context"
)

// Bitbucket is the facade over the Bitbucket Cloud 2.0 API.
// Auth changes return a new Bitbucket; the receiver keeps its configuration.
type Bitbucket interface {
	Repositories() Repositories
	User() User
	Workspaces() Workspaces

	Get(ctx context.Context, route string, parameters any, opts *model.Options) (*model.Response, error)
	Post(ctx context.Context, route string, parameters any, opts *model.Options) (*model.Response, error)
	Delete(ctx context.Context, route string, parameters any, opts *model.Options) (*model.Response, error)

	AuthenticateOAuth2(accessToken string) Bitbucket
	AuthenticateBasic(username, password string) Bitbucket
	DeAuthenticate() Bitbucket

	// Pagination helpers accept a *model.Response or its unwrapped body.
	HasNextPage(response any) bool
	HasPreviousPage(response any) bool
	GetNextPage(ctx context.Context, response any) (*model.Response, error)
	GetPreviousPage(ctx context.Context, response any) (*model.Response, error)
}

type Repositories interface {
	// Create derives the slug from repo["name"]; repo["is_private"] must be a bool.
	Create(ctx context.Context, username string, repo map[string]any) (*model.Response, error)
	CreatePullRequest(ctx context.Context, username, repoSlug string, pullRequest any) (*model.Response, error)
	Get(ctx context.Context, username, repoSlug string) (*model.Response, error)
	GetBranches(ctx context.Context, username, repoSlug string) (*model.Response, error)
	GetCommit(ctx context.Context, username, repoSlug, sha string) (*model.Response, error)
	GetPullRequests(ctx context.Context, username, repoSlug string, states ...string) (*model.Response, error)
	GetPullRequestsWithPopulatedRepositories(ctx context.Context, username, repoSlug string, states ...string) (*model.Response, error)
	ListAllPullRequests(ctx context.Context, username, repoSlug string, states ...string) ([]model.PullRequest, error)
	GetByUser(ctx context.Context, username string) (*model.Response, error)
	GetByTeam(ctx context.Context, teamname string) (*model.Response, error)
	GetForks(ctx context.Context, username, repoSlug string) (*model.Response, error)
	GetForksFromResponse(ctx context.Context, response any) (*model.Response, error)
	GetParentFromResponse(ctx context.Context, response any) (*model.Response, error)
	HasParent(response any) bool
}

type User interface {
	// Get returns the authenticated user.
	Get(ctx context.Context) (*model.Response, error)
}

type Workspaces interface {
	// Get returns the workspaces of the authenticated user.
	Get(ctx context.Context) (*model.Response, error)
}
