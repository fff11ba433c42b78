package bitbucket_impl

import (
	"bitbucket_v2/helper"
	"bitbucket_v2/log"
	"bitbucket_v2/model"
	"context"
	"fmt"
	"net/url"
	"strings"
)

// Pull request states accepted by the "state" filter.
const (
	StateOpen       = "OPEN"
	StateMerged     = "MERGED"
	StateDeclined   = "DECLINED"
	StateSuperseded = "SUPERSEDED"
)

var pullRequestStates = map[string]bool{
	StateOpen:       true,
	StateMerged:     true,
	StateDeclined:   true,
	StateSuperseded: true,
}

const populatedRepositoryFields = "fields=%2Bvalues.destination.repository.*,%2Bvalues.source.repository.*"

// RepositoriesApi wraps the repositories/ endpoints.
type RepositoriesApi struct {
	abstractApi
}

func repoPath(username, repoSlug string) string {
	return fmt.Sprintf("repositories/%s/%s", url.PathEscape(username), url.PathEscape(repoSlug))
}

// Create creates a repository owned by username. repo is the metadata body
// Bitbucket documents; unlike the raw API it must carry a string "name" and a
// boolean "is_private". The slug is derived from the name.
func (r *RepositoriesApi) Create(ctx context.Context, username string, repo map[string]any) (*model.Response, error) {
	if repo == nil {
		return nil, ErrInvalidRepository
	}
	_, isBool := repo["is_private"].(bool)
	name, isString := repo["name"].(string)
	if !isBool || !isString {
		log.Errorf("Refusing to create repository for %s: %v", username, ErrInvalidRepository)
		return nil, ErrInvalidRepository
	}

	return r.listen(r.api.Post(ctx, repoPath(username, helper.Slugify(name)), repo, nil))
}

func (r *RepositoriesApi) CreatePullRequest(ctx context.Context, username, repoSlug string, pullRequest any) (*model.Response, error) {
	return r.listen(r.api.Post(ctx, repoPath(username, repoSlug)+"/pullrequests", pullRequest, nil))
}

func (r *RepositoriesApi) Get(ctx context.Context, username, repoSlug string) (*model.Response, error) {
	return r.listen(r.api.Get(ctx, repoPath(username, repoSlug), nil, nil))
}

func (r *RepositoriesApi) GetBranches(ctx context.Context, username, repoSlug string) (*model.Response, error) {
	return r.listen(r.api.Get(ctx, repoPath(username, repoSlug)+"/refs/branches", nil, nil))
}

func (r *RepositoriesApi) GetCommit(ctx context.Context, username, repoSlug, sha string) (*model.Response, error) {
	return r.listen(r.api.Get(ctx, repoPath(username, repoSlug)+"/commit/"+url.PathEscape(sha), nil, nil))
}

// GetPullRequests lists pull requests in the given states. No states, or any
// unrecognized one, falls back to OPEN.
func (r *RepositoriesApi) GetPullRequests(ctx context.Context, username, repoSlug string, states ...string) (*model.Response, error) {
	params := map[string]any{"state": stateFilter(states)}
	return r.listen(r.api.Get(ctx, repoPath(username, repoSlug)+"/pullrequests", params, nil))
}

// GetPullRequestsWithPopulatedRepositories is GetPullRequests with the source
// and destination repositories of every pull request fully populated.
func (r *RepositoriesApi) GetPullRequestsWithPopulatedRepositories(ctx context.Context, username, repoSlug string, states ...string) (*model.Response, error) {
	params := map[string]any{"state": stateFilter(states)}
	path := repoPath(username, repoSlug) + "/pullrequests?" + populatedRepositoryFields
	return r.listen(r.api.Get(ctx, path, params, nil))
}

// ListAllPullRequests follows the next cursors of GetPullRequests and decodes
// every page.
func (r *RepositoriesApi) ListAllPullRequests(ctx context.Context, username, repoSlug string, states ...string) ([]model.PullRequest, error) {
	resp, err := r.GetPullRequests(ctx, username, repoSlug, states...)
	all := []model.PullRequest{}
	for {
		if err != nil {
			return nil, err
		}
		var page model.Page[model.PullRequest]
		if err := resp.Decode(&page); err != nil {
			log.Error(err)
			return nil, fmt.Errorf("bitbucket: decode pull requests page: %w", err)
		}
		all = append(all, page.Values...)
		log.Debugf("Parsed pull requests page: %d pull requests (page %d, size %d)", len(page.Values), page.Page, page.Size)

		if !r.api.HasNextPage(resp) {
			return all, nil
		}
		resp, err = r.api.GetNextPage(ctx, resp)
	}
}

func (r *RepositoriesApi) GetByUser(ctx context.Context, username string) (*model.Response, error) {
	return r.listen(r.api.Get(ctx, "repositories/"+url.PathEscape(username), nil, nil))
}

func (r *RepositoriesApi) GetByTeam(ctx context.Context, teamname string) (*model.Response, error) {
	return r.listen(r.api.Get(ctx, "repositories/"+url.PathEscape(teamname), nil, nil))
}

func (r *RepositoriesApi) GetForks(ctx context.Context, username, repoSlug string) (*model.Response, error) {
	return r.listen(r.api.Get(ctx, repoPath(username, repoSlug)+"/forks", nil, nil))
}

// GetForksFromResponse follows links.forks.href of a repository response.
func (r *RepositoriesApi) GetForksFromResponse(ctx context.Context, response any) (*model.Response, error) {
	prebuiltURL := stringAt(ExtractResponseBody(response), "links", "forks", "href")
	if prebuiltURL == "" {
		return nil, ErrNoForksLink
	}
	return r.listen(r.api.request.DoPrebuiltSend(ctx, prebuiltURL))
}

// GetParentFromResponse follows parent.links.self.href of a repository
// response. Guard it with HasParent.
func (r *RepositoriesApi) GetParentFromResponse(ctx context.Context, response any) (*model.Response, error) {
	prebuiltURL := stringAt(ExtractResponseBody(response), "parent", "links", "self", "href")
	if prebuiltURL == "" {
		return nil, ErrNoParentLink
	}
	return r.listen(r.api.request.DoPrebuiltSend(ctx, prebuiltURL))
}

// HasParent reports whether the repository response is a fork.
func (r *RepositoriesApi) HasParent(response any) bool {
	m := asMap(ExtractResponseBody(response))
	if m == nil {
		return false
	}
	parent, ok := m["parent"]
	return ok && parent != nil
}

func stateFilter(states []string) string {
	if len(states) == 0 {
		return StateOpen
	}
	for _, s := range states {
		if !pullRequestStates[s] {
			log.Debugf("Unknown pull request state %q, falling back to %s", s, StateOpen)
			return StateOpen
		}
	}
	return strings.Join(states, ",")
}
