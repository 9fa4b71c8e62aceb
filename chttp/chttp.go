// Licensed under the Apache License, Version 2.0 (the "License"); you may not
// use this file except in compliance with the License. You may obtain a copy of
// the License at
//
//  http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
// License for the specific language governing permissions and limitations under
// the License.

// Package chttp provides a minimal HTTP layer for communicating with CouchDB
// servers. It owns connection configuration, URI construction, and request
// building; the sofa package layers database semantics on top of it.
package chttp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"runtime"
	"strings"
	"sync"
	"time"
)

const typeJSON = "application/json"

// The default UserAgent values
const (
	UserAgent = "Sofa chttp"
	Version   = "1.0.0"
)

// DefaultTimeout is the per-request timeout applied to newly built
// transports unless overridden with [OptionTimeout] or [Client.SetTimeout].
const DefaultTimeout = 4 * time.Second

// Client represents a client connection to a CouchDB server. The underlying
// *http.Client is rebuilt whenever the compression or timeout settings
// change; requests issued before a rebuild keep the instance they started
// with.
type Client struct {
	// UserAgents is appended to set the User-Agent header. Typically it should
	// contain pairs of product name and version.
	UserAgents []string

	rawDSN  string
	gzip    bool
	timeout time.Duration

	auth   Authenticator
	authMU sync.Mutex
	jar    http.CookieJar

	mu sync.RWMutex
	cl *http.Client
}

// New returns a connection to a remote CouchDB server. If credentials are
// included in the DSN, requests will be authenticated using Cookie Auth. To
// use HTTP Basic Auth or some other mechanism, do not put credentials in the
// DSN, and pass the relevant option instead.
func New(dsn string, options ...Option) (*Client, error) {
	dsnURL, err := ParseDSN(dsn)
	if err != nil {
		return nil, err
	}
	c := &Client{
		rawDSN:  dsn,
		gzip:    true,
		timeout: DefaultTimeout,
	}
	if user := dsnURL.User; user != nil {
		password, _ := user.Password()
		c.auth = &cookieAuth{
			Username: user.Username(),
			Password: password,
		}
	}
	for _, opt := range options {
		opt.Apply(c)
	}
	if err := c.rebuild(); err != nil {
		return nil, err
	}
	return c, nil
}

// ParseDSN validates and parses a CouchDB connection string. A missing
// scheme defaults to http, and an empty path is normalized to "/".
func ParseDSN(dsn string) (*url.URL, error) {
	if dsn == "" {
		return nil, &ConfigError{Err: errors.New("no URL specified")}
	}
	if !strings.HasPrefix(dsn, "http://") && !strings.HasPrefix(dsn, "https://") {
		dsn = "http://" + dsn
	}
	dsnURL, err := url.Parse(dsn)
	if err != nil {
		return nil, &ConfigError{Err: err}
	}
	if dsnURL.Path == "" {
		dsnURL.Path = "/"
	}
	return dsnURL, nil
}

// rebuild replaces the underlying http.Client with one reflecting the
// current compression and timeout settings. The swap happens under lock so
// requests never observe a half-built client.
func (c *Client) rebuild() error {
	rt := http.RoundTripper(&http.Transport{DisableCompression: !c.gzip})
	if c.auth != nil {
		var err error
		rt, err = c.auth.Wrap(c, rt)
		if err != nil {
			return &TransportError{Err: err}
		}
	}
	cl := &http.Client{
		Transport: rt,
		Timeout:   c.timeout,
		Jar:       c.jar,
	}
	c.mu.Lock()
	c.cl = cl
	c.mu.Unlock()
	return nil
}

// HTTPClient returns the currently built *http.Client. The returned instance
// remains valid after a rebuild, but new requests should be issued through
// [Client.Do] so they pick up the latest settings.
func (c *Client) HTTPClient() *http.Client {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cl
}

// DSN returns the unparsed DSN used to connect.
func (c *Client) DSN() string {
	return c.rawDSN
}

// SetDSN replaces the base URI. The value is stored as given; it is parsed
// when the next request is built, so an invalid value surfaces as a
// ConfigError at that point.
func (c *Client) SetDSN(dsn string) {
	c.rawDSN = dsn
}

// SetGzip toggles response compression and eagerly rebuilds the underlying
// http.Client. In-flight requests on the previous transport are unaffected.
func (c *Client) SetGzip(enabled bool) error {
	c.gzip = enabled
	return c.rebuild()
}

// SetTimeout sets the per-request timeout and eagerly rebuilds the
// underlying http.Client. In-flight requests on the previous transport are
// unaffected.
func (c *Client) SetTimeout(timeout time.Duration) error {
	c.timeout = timeout
	return c.rebuild()
}

// ResolveURI joins the client's base URI with path, preserving any
// percent-encoding in path, and appends query. If path carries its own query
// string, query is appended after it; no merging takes place.
func (c *Client) ResolveURI(path string, query url.Values) (*url.URL, error) {
	dsnURL, err := ParseDSN(c.rawDSN)
	if err != nil {
		return nil, err
	}
	reqPath, err := url.Parse(path)
	if err != nil {
		return nil, &ConfigError{Err: err}
	}
	u := *dsnURL // shallow copy
	u.User = nil
	u.Path = strings.TrimSuffix(dsnURL.Path, "/") + "/" + strings.TrimPrefix(reqPath.Path, "/")
	if reqPath.RawPath != "" {
		u.RawPath = strings.TrimSuffix(dsnURL.Path, "/") + "/" + strings.TrimPrefix(reqPath.RawPath, "/")
	}
	u.RawQuery = reqPath.RawQuery
	if len(query) > 0 {
		if u.RawQuery == "" {
			u.RawQuery = query.Encode()
		} else {
			u.RawQuery = strings.Join([]string{u.RawQuery, query.Encode()}, "&")
		}
	}
	return &u, nil
}

// NewRequest returns a new *http.Request to the CouchDB server, for the
// specified path relative to the client's base URI. Every request carries a
// JSON Content-Type and a Referer naming the fully resolved URI. The request
// is not executed; see [Client.Do].
func (c *Client) NewRequest(ctx context.Context, method, path string, body io.Reader, opts *Options) (*http.Request, error) {
	if method == "" {
		return nil, &ConfigError{Err: errors.New("chttp: method required")}
	}
	var query url.Values
	if opts != nil {
		query = opts.Query
	}
	u, err := c.ResolveURI(path, query)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, &ConfigError{Err: err}
	}
	setHeaders(req, u.String(), opts)
	req.Header.Set("User-Agent", c.userAgent())
	return req, nil
}

func setHeaders(req *http.Request, uri string, opts *Options) {
	accept := typeJSON
	contentType := typeJSON
	if opts != nil {
		if opts.Accept != "" {
			accept = opts.Accept
		}
		if opts.ContentType != "" {
			contentType = opts.ContentType
		}
		for k, v := range opts.Header {
			if _, ok := req.Header[k]; !ok {
				req.Header[k] = v
			}
		}
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Referer", uri)
}

// Get builds, but does not execute, a GET request.
func (c *Client) Get(ctx context.Context, path string, opts *Options) (*http.Request, error) {
	return c.NewRequest(ctx, http.MethodGet, path, nil, opts)
}

// Head builds, but does not execute, a HEAD request.
func (c *Client) Head(ctx context.Context, path string, opts *Options) (*http.Request, error) {
	return c.NewRequest(ctx, http.MethodHead, path, nil, opts)
}

// Delete builds, but does not execute, a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, opts *Options) (*http.Request, error) {
	return c.NewRequest(ctx, http.MethodDelete, path, nil, opts)
}

// Post builds, but does not execute, a POST request with the given body.
func (c *Client) Post(ctx context.Context, path string, body io.Reader, opts *Options) (*http.Request, error) {
	return c.NewRequest(ctx, http.MethodPost, path, body, opts)
}

// Put builds, but does not execute, a PUT request with the given body.
func (c *Client) Put(ctx context.Context, path string, body io.Reader, opts *Options) (*http.Request, error) {
	return c.NewRequest(ctx, http.MethodPut, path, body, opts)
}

// Do executes req on the current transport. Network failures, including
// timeouts, are returned as a *TransportError. An error status code, such as
// 404 or 500, does _not_ cause an error to be returned.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	res, err := c.HTTPClient().Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	return res, nil
}

// DoReq builds and executes an HTTP request. An error is returned only if
// there was an error processing the request; see [Client.Do].
func (c *Client) DoReq(ctx context.Context, method, path string, opts *Options) (*http.Response, error) {
	var body io.Reader
	if opts != nil {
		if opts.JSON != nil {
			opts.Body = EncodeBody(opts.JSON)
		}
		if opts.Body != nil {
			body = opts.Body
			defer opts.Body.Close() // nolint: errcheck
		}
	}
	req, err := c.NewRequest(ctx, method, path, body, opts)
	if err != nil {
		return nil, err
	}
	return c.Do(req)
}

// DoJSON combines [Client.DoReq], [ResponseError], and [DecodeJSON], and
// closes the response body.
func (c *Client) DoJSON(ctx context.Context, method, path string, opts *Options, i interface{}) error {
	res, err := c.DoReq(ctx, method, path, opts)
	if err != nil {
		return err
	}
	if err := ResponseError(res); err != nil {
		return err
	}
	return DecodeJSON(res, i)
}

// DecodeJSON unmarshals the response body into i. This method consumes and
// closes the response body.
func DecodeJSON(r *http.Response, i interface{}) error {
	defer CloseBody(r.Body)
	if err := json.NewDecoder(r.Body).Decode(i); err != nil {
		return &DecodeError{Err: err}
	}
	return nil
}

// EncodeBody JSON encodes i to an io.ReadCloser. If an encoding error
// occurs, it will be returned on the next read.
func EncodeBody(i interface{}) io.ReadCloser {
	r, w := io.Pipe()
	go func() {
		err := json.NewEncoder(w).Encode(i)
		_ = w.CloseWithError(err)
	}()
	return r
}

// CloseBody drains and closes a response body, so the underlying connection
// can be reused.
func CloseBody(body io.ReadCloser) {
	if body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, body)
	_ = body.Close()
}

func (c *Client) userAgent() string {
	ua := fmt.Sprintf("%s/%s (Language=%s; Platform=%s/%s)",
		UserAgent, Version, runtime.Version(), runtime.GOARCH, runtime.GOOS)
	return strings.Join(append([]string{ua}, c.UserAgents...), " ")
}
