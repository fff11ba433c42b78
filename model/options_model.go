package model

import (
	"context"
	"net"
	"net/http"

	"github.com/spf13/cast"
)

const (
	LoginNone   = "none"
	LoginOAuth2 = "oauth2"
	LoginBasic  = "basic"

	DefaultProxyPort = 3128
)

// RequesterFunc replaces the built-in HTTPS call. It receives the request that
// would have been sent and returns the equivalent result.
type RequesterFunc func(ctx context.Context, d RequestDescriptor) (*Response, error)

// Options is the connection configuration of a client. It is passed by value;
// Set returns a modified copy.
type Options struct {
	Protocol         string `yaml:"protocol"`
	Path             string `yaml:"path"`
	Hostname         string `yaml:"hostname"`
	Format           string `yaml:"format"`
	UserAgent        string `yaml:"user_agent"`
	HTTPPort         int    `yaml:"http_port"`
	Timeout          int    `yaml:"timeout"` // seconds
	LoginType        string `yaml:"login_type"`
	Username         string `yaml:"username"`
	Password         string `yaml:"password"`
	APIToken         string `yaml:"api_token"`
	OAuthAccessToken string `yaml:"oauth_access_token"`
	ProxyHost        string `yaml:"proxy_host"`
	ProxyPort        int    `yaml:"proxy_port"`
	// Proxy is a "host:port" shorthand split into ProxyHost/ProxyPort.
	Proxy string `yaml:"proxy"`

	RequesterFn   RequesterFunc                             `yaml:"-"`
	WrapTransport func(http.RoundTripper) http.RoundTripper `yaml:"-"`
}

func DefaultOptions() Options {
	return Options{
		Protocol:  "https",
		Path:      "/2.0",
		Hostname:  "api.bitbucket.org",
		Format:    "json",
		UserAgent: "bitbucket_v2 (https://github.com/mrnim94/bitbucket_v2)",
		HTTPPort:  443,
		Timeout:   20,
		LoginType: LoginNone,
	}
}

// WithDefaults fills every zero field from DefaultOptions and expands Proxy.
func (o Options) WithDefaults() Options {
	d := DefaultOptions()
	if o.Protocol == "" {
		o.Protocol = d.Protocol
	}
	if o.Path == "" {
		o.Path = d.Path
	}
	if o.Hostname == "" {
		o.Hostname = d.Hostname
	}
	if o.Format == "" {
		o.Format = d.Format
	}
	if o.UserAgent == "" {
		o.UserAgent = d.UserAgent
	}
	if o.HTTPPort == 0 {
		o.HTTPPort = d.HTTPPort
	}
	if o.Timeout == 0 {
		o.Timeout = d.Timeout
	}
	if o.LoginType == "" {
		o.LoginType = d.LoginType
	}
	if o.Proxy != "" && o.ProxyHost == "" {
		host, port, err := net.SplitHostPort(o.Proxy)
		if err != nil {
			host = o.Proxy
		}
		o.ProxyHost = host
		o.ProxyPort = cast.ToInt(port)
	}
	return o
}

// Set returns a copy with the named option changed. The value is converted to
// the field's type; ok is false for names that are not options.
func (o Options) Set(name string, value any) (Options, bool) {
	switch name {
	case "protocol":
		o.Protocol = cast.ToString(value)
	case "path":
		o.Path = cast.ToString(value)
	case "hostname":
		o.Hostname = cast.ToString(value)
	case "format":
		o.Format = cast.ToString(value)
	case "user_agent":
		o.UserAgent = cast.ToString(value)
	case "http_port":
		o.HTTPPort = cast.ToInt(value)
	case "timeout":
		o.Timeout = cast.ToInt(value)
	case "login_type":
		o.LoginType = cast.ToString(value)
	case "username":
		o.Username = cast.ToString(value)
	case "password":
		o.Password = cast.ToString(value)
	case "api_token":
		o.APIToken = cast.ToString(value)
	case "oauth_access_token":
		o.OAuthAccessToken = cast.ToString(value)
	case "proxy_host":
		o.ProxyHost = cast.ToString(value)
	case "proxy_port":
		o.ProxyPort = cast.ToInt(value)
	case "proxy":
		o.Proxy = cast.ToString(value)
		o.ProxyHost, o.ProxyPort = "", 0
		o = o.WithDefaults()
	case "requester_fn":
		switch fn := value.(type) {
		case RequesterFunc:
			o.RequesterFn = fn
		case func(context.Context, RequestDescriptor) (*Response, error):
			o.RequesterFn = fn
		default:
			o.RequesterFn = nil
		}
	default:
		return o, false
	}
	return o, true
}

// Get returns the named option, or nil when it is unset or zero.
func (o Options) Get(name string) any {
	var v any
	switch name {
	case "protocol":
		v = o.Protocol
	case "path":
		v = o.Path
	case "hostname":
		v = o.Hostname
	case "format":
		v = o.Format
	case "user_agent":
		v = o.UserAgent
	case "http_port":
		v = o.HTTPPort
	case "timeout":
		v = o.Timeout
	case "login_type":
		v = o.LoginType
	case "username":
		v = o.Username
	case "password":
		v = o.Password
	case "api_token":
		v = o.APIToken
	case "oauth_access_token":
		v = o.OAuthAccessToken
	case "proxy_host":
		v = o.ProxyHost
	case "proxy_port":
		v = o.ProxyPort
	case "proxy":
		v = o.Proxy
	case "requester_fn":
		if o.RequesterFn == nil {
			return nil
		}
		return o.RequesterFn
	default:
		return nil
	}
	switch t := v.(type) {
	case string:
		if t == "" {
			return nil
		}
	case int:
		if t == 0 {
			return nil
		}
	}
	return v
}
