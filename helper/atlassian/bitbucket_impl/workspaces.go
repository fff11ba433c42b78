package bitbucket_impl

import (
	"bitbucket_v2/model"
	"context"
)

type WorkspacesApi struct {
	abstractApi
}

// Get returns the workspaces of the authenticated user.
func (w *WorkspacesApi) Get(ctx context.Context) (*model.Response, error) {
	return w.listen(w.api.Get(ctx, "workspaces", nil, nil))
}
