package bitbucket_impl

import (
	"bitbucket_v2/log"
	"bitbucket_v2/model"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
	"golang.org/x/oauth2"
)

// Request holds the connection options and performs one HTTP call per method
// call. It is immutable: SetOption returns a new Request.
type Request struct {
	options model.Options
	http    *http.Client
}

func NewRequest(options model.Options) *Request {
	opts := options.WithDefaults()
	return &Request{options: opts, http: newHTTPClient(opts)}
}

func newHTTPClient(opts model.Options) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if opts.ProxyHost != "" {
		port := opts.ProxyPort
		if port == 0 {
			port = model.DefaultProxyPort
		}
		transport.Proxy = http.ProxyURL(&url.URL{
			Scheme: "http",
			Host:   net.JoinHostPort(opts.ProxyHost, strconv.Itoa(port)),
		})
	}

	var rt http.RoundTripper = transport
	if opts.WrapTransport != nil {
		rt = opts.WrapTransport(rt)
	}
	return &http.Client{
		Transport: rt,
		Timeout:   time.Duration(opts.Timeout) * time.Second,
	}
}

// SetOption returns a Request with the named option changed.
func (r *Request) SetOption(name string, value any) *Request {
	opts, ok := r.options.Set(name, value)
	if !ok {
		log.Warnf("bitbucket: unknown option %q ignored", name)
		return r
	}
	return NewRequest(opts)
}

// GetOption returns the configured value, or defaultValue when it is unset or zero.
func (r *Request) GetOption(name string, defaultValue any) any {
	if v := r.options.Get(name); v != nil {
		return v
	}
	return defaultValue
}

func (r *Request) Options() model.Options {
	return r.options
}

func (r *Request) Get(ctx context.Context, apiPath string, parameters any, opts *model.Options) (*model.Response, error) {
	return r.DoSend(ctx, apiPath, parameters, http.MethodGet, opts)
}

func (r *Request) Post(ctx context.Context, apiPath string, parameters any, opts *model.Options) (*model.Response, error) {
	return r.DoSend(ctx, apiPath, parameters, http.MethodPost, opts)
}

func (r *Request) Delete(ctx context.Context, apiPath string, parameters any, opts *model.Options) (*model.Response, error) {
	return r.DoSend(ctx, apiPath, parameters, http.MethodDelete, opts)
}

// DoSend sends a request to {path}/{apiPath}. POST parameters are sent as a
// JSON body, any other method gets them as a query string. opts reconfigures
// this call only; nil uses the Request's options.
func (r *Request) DoSend(ctx context.Context, apiPath string, parameters any, method string, opts *model.Options) (*model.Response, error) {
	options, client := r.resolve(opts)
	method = strings.ToUpper(method)
	if method == "" {
		method = http.MethodGet
	}
	headers, hostname, _ := r.PrepRequest(options)

	path := options.Path + "/" + strings.TrimRight(apiPath, "/")
	var body []byte
	if method == http.MethodPost {
		if parameters == nil {
			parameters = map[string]any{}
		}
		b, err := json.Marshal(parameters)
		if err != nil {
			return nil, fmt.Errorf("bitbucket: encode body: %w", err)
		}
		body = b
		headers.Set("Content-Type", "application/json")
		if options.RequesterFn == nil {
			headers.Set("Content-Length", strconv.Itoa(len(body)))
		}
	} else {
		query, err := encodeQuery(parameters)
		if err != nil {
			return nil, err
		}
		if query != "" {
			sep := "?"
			if strings.Contains(path, "?") {
				sep = "&"
			}
			path += sep + query
		}
	}

	if options.RequesterFn != nil {
		d := model.RequestDescriptor{
			Headers:  headers,
			Hostname: hostname,
			Method:   method,
			Path:     path,
			URL:      options.Protocol + "://" + hostname + path,
		}
		if method == http.MethodPost {
			d.Body = parameters
		}
		log.Debugf("Delegating %s %s to custom requester", method, d.URL)
		return options.RequesterFn(ctx, d)
	}

	target := options.Protocol + "://" + hostPort(options.Hostname, options.HTTPPort, options.Protocol) + path
	return r.sendHTTPSRequest(ctx, client, options.Format, method, target, headers, body)
}

// DoPrebuiltSend issues a GET against a URL returned by a previous call, such
// as a pagination cursor, without rebuilding the path.
func (r *Request) DoPrebuiltSend(ctx context.Context, prebuiltURL string) (*model.Response, error) {
	headers, _, _ := r.PrepRequest(r.options)

	u, err := url.Parse(prebuiltURL)
	if err != nil {
		log.Error(err)
		return nil, fmt.Errorf("bitbucket: parse prebuilt url: %w", err)
	}

	if r.options.RequesterFn != nil {
		d := model.RequestDescriptor{
			Headers:  headers,
			Hostname: u.Hostname(),
			Method:   http.MethodGet,
			Path:     u.RequestURI(),
			URL:      prebuiltURL,
		}
		log.Debugf("Delegating GET %s to custom requester", prebuiltURL)
		return r.options.RequesterFn(ctx, d)
	}

	headers.Set("Host", u.Host)
	return r.sendHTTPSRequest(ctx, r.http, r.options.Format, http.MethodGet, prebuiltURL, headers, nil)
}

// PrepRequest computes the host and port the connection goes to and the
// base header set.
func (r *Request) PrepRequest(opts model.Options) (http.Header, string, int) {
	hostname := opts.Hostname
	port := opts.HTTPPort
	if port == 0 {
		port = 443
	}
	if opts.RequesterFn == nil && opts.ProxyHost != "" {
		hostname = opts.ProxyHost
		port = opts.ProxyPort
		if port == 0 {
			port = model.DefaultProxyPort
		}
	}

	headers := http.Header{}
	headers.Set("Content-Type", "application/x-www-form-urlencoded")
	setAuthorization(headers, opts)

	if opts.RequesterFn == nil {
		headers.Set("Host", hostPort(opts.Hostname, opts.HTTPPort, opts.Protocol))
		headers.Set("User-Agent", opts.UserAgent)
		headers.Set("Content-Length", "0")
	}

	return headers, hostname, port
}

func setAuthorization(headers http.Header, opts model.Options) {
	carrier := &http.Request{Header: headers}
	switch opts.LoginType {
	case model.LoginOAuth2:
		if opts.OAuthAccessToken == "" {
			return
		}
		token := &oauth2.Token{AccessToken: opts.OAuthAccessToken, TokenType: "Bearer"}
		token.SetAuthHeader(carrier)
	case model.LoginBasic:
		secret := opts.Password
		if secret == "" {
			secret = opts.APIToken
		}
		if opts.Username == "" || secret == "" {
			return
		}
		carrier.SetBasicAuth(opts.Username, secret)
	}
}

// DecodeResponse parses body as JSON when the format is "json". An empty body
// decodes to an empty object.
func (r *Request) DecodeResponse(body []byte) (any, error) {
	return decodeBody(r.options.Format, body)
}

func decodeBody(format string, body []byte) (any, error) {
	if format != "json" {
		return string(body), nil
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return map[string]any{}, nil
	}
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, fmt.Errorf("bitbucket: decode response: %w", err)
	}
	return v, nil
}

func (r *Request) sendHTTPSRequest(ctx context.Context, client *http.Client, format, method, target string, headers http.Header, body []byte) (*model.Response, error) {
	log.Debugf("Sending %s request to URL: %s", method, target)

	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		log.Error(err)
		return nil, fmt.Errorf("bitbucket: build %s %s: %w", method, target, err)
	}
	req.Header = headers.Clone()
	if host := req.Header.Get("Host"); host != "" {
		req.Host = host
	}
	req.Header.Del("Host")
	req.Header.Del("Content-Length")

	resp, err := client.Do(req)
	if err != nil {
		log.Error(err)
		return nil, fmt.Errorf("bitbucket: %s %s: %w", method, target, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error(err)
		return nil, fmt.Errorf("bitbucket: read %s %s: %w", method, target, err)
	}

	if resp.StatusCode >= 400 {
		var errBody any = string(raw)
		if strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
			var parsed any
			if json.Unmarshal(raw, &parsed) == nil {
				errBody = parsed
			}
		}
		log.Errorf("Error: %s %s returned status %d", method, target, resp.StatusCode)
		return nil, &model.ResponseError{StatusCode: resp.StatusCode, Body: errBody}
	}

	decoded, err := decodeBody(format, raw)
	if err != nil {
		log.Error(err)
		return nil, err
	}
	return &model.Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       decoded,
		Raw:        raw,
	}, nil
}

func (r *Request) resolve(opts *model.Options) (model.Options, *http.Client) {
	if opts == nil {
		return r.options, r.http
	}
	o := opts.WithDefaults()
	return o, newHTTPClient(o)
}

func hostPort(host string, port int, protocol string) string {
	if port == 0 || (protocol == "https" && port == 443) || (protocol == "http" && port == 80) {
		return host
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}

func encodeQuery(parameters any) (string, error) {
	values := url.Values{}
	switch p := parameters.(type) {
	case nil:
		return "", nil
	case url.Values:
		return p.Encode(), nil
	case map[string]string:
		for k, v := range p {
			values.Set(k, v)
		}
	case map[string]any:
		for k, v := range p {
			switch vs := v.(type) {
			case []string:
				for _, s := range vs {
					values.Add(k, s)
				}
			case []any:
				for _, s := range vs {
					values.Add(k, cast.ToString(s))
				}
			default:
				values.Set(k, cast.ToString(v))
			}
		}
	default:
		return "", fmt.Errorf("%w: %T", ErrUnsupportedParameters, parameters)
	}
	return values.Encode(), nil
}
