package bitbucket_impl

import "errors"

var (
	ErrInvalidRepository     = errors.New("bitbucket: repo must be initialized with a boolean is_private and a string name")
	ErrNoForksLink           = errors.New("bitbucket: response has no 'forks' url")
	ErrNoParentLink          = errors.New("bitbucket: response has no 'parent' info, call HasParent first")
	ErrNoNextPage            = errors.New("bitbucket: response has no next page url, call HasNextPage first")
	ErrNoPreviousPage        = errors.New("bitbucket: response has no previous page url, call HasPreviousPage first")
	ErrUnsupportedParameters = errors.New("bitbucket: unsupported query parameters")
)
