package bitbucket_impl

import (
	"bitbucket_v2/model"
	"context"
)

type UserApi struct {
	abstractApi
}

// Get returns the authenticated user.
func (u *UserApi) Get(ctx context.Context) (*model.Response, error) {
	return u.listen(u.api.Get(ctx, "user", nil, nil))
}
