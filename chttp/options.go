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

package chttp

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Options are optional parameters which may be sent with a request.
type Options struct {
	// Accept sets the request's Accept header. Defaults to "application/json".
	// To specify any, use "*/*".
	Accept string

	// ContentType sets the requests's Content-Type header. Defaults to
	// "application/json".
	ContentType string

	// Body sets the body of the request.
	Body io.ReadCloser

	// JSON is an arbitrary data type which is marshaled to the request's
	// body. It is an error to set both Body and JSON on the same request.
	JSON interface{}

	// Query is appended to the existing url, if present. If the passed url
	// already contains query parameters, the values in Query are appended.
	// No merging takes place.
	Query url.Values

	// Header is a list of default headers to be set on the request.
	Header http.Header
}

// Option is a client configuration option, passed to [New].
type Option interface {
	Apply(target interface{})
}

type optionUserAgent string

var _ Option = optionUserAgent("")

func (a optionUserAgent) Apply(target interface{}) {
	if client, ok := target.(*Client); ok {
		client.UserAgents = append(client.UserAgents, string(a))
	}
}

func (a optionUserAgent) String() string {
	return fmt.Sprintf("[UserAgent:%s]", string(a))
}

// OptionUserAgent may be passed as an option when creating a client object,
// to append to the default User-Agent header sent on all requests.
func OptionUserAgent(ua string) Option {
	return optionUserAgent(ua)
}

type optionNoCompression struct{}

var _ Option = optionNoCompression{}

func (optionNoCompression) Apply(target interface{}) {
	if client, ok := target.(*Client); ok {
		client.gzip = false
	}
}

func (optionNoCompression) String() string { return "[NoCompression]" }

// OptionNoCompression instructs the client not to request gzip-compressed
// response bodies from the server.
func OptionNoCompression() Option {
	return optionNoCompression{}
}

type optionTimeout time.Duration

var _ Option = optionTimeout(0)

func (t optionTimeout) Apply(target interface{}) {
	if client, ok := target.(*Client); ok {
		client.timeout = time.Duration(t)
	}
}

func (t optionTimeout) String() string {
	return fmt.Sprintf("[Timeout:%s]", time.Duration(t))
}

// OptionTimeout sets the per-request timeout at construction time, in place
// of [DefaultTimeout].
func OptionTimeout(timeout time.Duration) Option {
	return optionTimeout(timeout)
}

// BasicAuth provides HTTP Basic Auth for a client. Pass this option to [New]
// to use Basic Authentication.
func BasicAuth(username, password string) Option {
	return &basicAuth{
		Username: username,
		Password: password,
	}
}

// CookieAuth provides CouchDB Cookie auth. Cookie Auth is the default
// authentication method if credentials are included in the connection DSN
// passed to [New]. You may also pass this option to the same function, if
// you need to provide your auth credentials outside of the DSN.
func CookieAuth(username, password string) Option {
	return &cookieAuth{
		Username: username,
		Password: password,
	}
}
