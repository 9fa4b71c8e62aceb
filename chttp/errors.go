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
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
)

// ConfigError is returned when the client's base URI, or a request URI
// derived from it, cannot be parsed.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string { return "chttp: invalid configuration: " + e.Err.Error() }

// Unwrap satisfies the errors wrapper interface.
func (e *ConfigError) Unwrap() error { return e.Err }

// TransportError is returned when a request fails at the network level: a
// connection failure, a timeout, or an inability to build the underlying
// HTTP client.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return "chttp: transport: " + e.Err.Error() }

// Unwrap satisfies the errors wrapper interface.
func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError is returned when a response body does not parse into the
// expected JSON shape. It usually indicates a protocol mismatch, or a
// server-side error page where JSON was expected.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return "chttp: decode: " + e.Err.Error() }

// Unwrap satisfies the errors wrapper interface.
func (e *DecodeError) Unwrap() error { return e.Err }

// HTTPError is an error that represents an HTTP error status returned by the
// server.
type HTTPError struct {
	// Response is the HTTP response received by the client. The response body
	// should already be closed, but the response and request headers and
	// other metadata will typically be intact for debugging purposes.
	Response *http.Response `json:"-"`

	// Reason is the server-supplied error reason.
	Reason string `json:"reason"`
}

func (e *HTTPError) Error() string {
	if e.Reason == "" {
		return http.StatusText(e.HTTPStatus())
	}
	if statusText := http.StatusText(e.HTTPStatus()); statusText != "" {
		return fmt.Sprintf("%s: %s", statusText, e.Reason)
	}
	return e.Reason
}

// HTTPStatus returns the embedded status code.
func (e *HTTPError) HTTPStatus() int {
	return e.Response.StatusCode
}

// ResponseError returns an error from an *http.Response if the status code
// indicates an error.
func ResponseError(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}
	if resp.Body != nil {
		defer CloseBody(resp.Body)
	}
	httpErr := &HTTPError{
		Response: resp,
	}
	if resp.Request != nil && resp.Request.Method != http.MethodHead && resp.ContentLength != 0 {
		if ct, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type")); ct == typeJSON {
			_ = json.NewDecoder(resp.Body).Decode(httpErr)
		}
	}
	return httpErr
}
