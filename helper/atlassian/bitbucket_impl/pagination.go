package bitbucket_impl

import (
	"bitbucket_v2/model"
	"context"
)

// HasNextPage reports whether GetNextPage can be called with response, which
// may be a *model.Response or its Body.
func (c *Client) HasNextPage(response any) bool {
	return stringAt(ExtractResponseBody(response), "next") != ""
}

func (c *Client) HasPreviousPage(response any) bool {
	return stringAt(ExtractResponseBody(response), "previous") != ""
}

// GetNextPage requests the page after response. Guard it with HasNextPage.
func (c *Client) GetNextPage(ctx context.Context, response any) (*model.Response, error) {
	next := stringAt(ExtractResponseBody(response), "next")
	if next == "" {
		return nil, ErrNoNextPage
	}
	return c.request.DoPrebuiltSend(ctx, next)
}

// GetPreviousPage requests the page before response. Guard it with HasPreviousPage.
func (c *Client) GetPreviousPage(ctx context.Context, response any) (*model.Response, error) {
	previous := stringAt(ExtractResponseBody(response), "previous")
	if previous == "" {
		return nil, ErrNoPreviousPage
	}
	return c.request.DoPrebuiltSend(ctx, previous)
}
