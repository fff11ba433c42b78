package bitbucket_impl

import (
	"bitbucket_v2/log"
	"bitbucket_v2/model"
)

// Callback receives the outcome of a call, error first.
type Callback func(err error, response *model.Response)

// Listener passes a call's result through after notifying its callback.
type Listener func(response *model.Response, err error) (*model.Response, error)

// CreateListener adapts a callback-style consumer to the (response, error)
// pair every call returns. The callback runs exactly once; nil is allowed.
//
//	bitbucket_impl.CreateListener(cb)(client.User().Get(ctx))
func CreateListener(callback Callback) Listener {
	return abstractApi{name: "listener"}.createListener(callback)
}

type abstractApi struct {
	api  *Client
	name string
}

func (a abstractApi) createListener(callback Callback) Listener {
	return func(response *model.Response, err error) (*model.Response, error) {
		if err != nil {
			log.Debugf("%s call failed: %v", a.name, err)
			if callback != nil {
				callback(err, nil)
			}
			return nil, err
		}
		if callback != nil {
			callback(nil, response)
		}
		return response, nil
	}
}

func (a abstractApi) listen(response *model.Response, err error) (*model.Response, error) {
	return a.createListener(nil)(response, err)
}
