package handler

import (
	"bitbucket_v2/helper/atlassian"
	"bitbucket_v2/log"
	"bitbucket_v2/model"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type ApiHandler struct {
	Bitbucket atlassian.Bitbucket
	Watch     *WatchHandler
}

func (ah *ApiHandler) Register(e *echo.Echo) {
	e.GET("/healthz", ah.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/pullrequests/:workspace/:repoSlug", ah.PullRequests)
	e.GET("/user", ah.User)
	e.GET("/workspaces", ah.Workspaces)
}

func (ah *ApiHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// PullRequests returns the last snapshot polled for a repository.
func (ah *ApiHandler) PullRequests(c echo.Context) error {
	workspace, repoSlug := c.Param("workspace"), c.Param("repoSlug")
	snapshot, ok := ah.Watch.Snapshot(workspace, repoSlug)
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{
			"error": "no snapshot for " + snapshotKey(workspace, repoSlug),
		})
	}
	return c.JSON(http.StatusOK, snapshot)
}

func (ah *ApiHandler) User(c echo.Context) error {
	resp, err := ah.Bitbucket.User().Get(c.Request().Context())
	return relay(c, resp, err)
}

func (ah *ApiHandler) Workspaces(c echo.Context) error {
	resp, err := ah.Bitbucket.Workspaces().Get(c.Request().Context())
	return relay(c, resp, err)
}

// relay writes an API result back, keeping Bitbucket's status on API errors.
func relay(c echo.Context, resp *model.Response, err error) error {
	if err != nil {
		var respErr *model.ResponseError
		if errors.As(err, &respErr) {
			return c.JSON(respErr.StatusCode, map[string]any{"error": respErr.Body})
		}
		log.Errorf("Bitbucket call failed: %v", err)
		return c.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
	}
	return c.JSON(resp.StatusCode, resp.Body)
}
