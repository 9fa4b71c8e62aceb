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
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
)

func TestWrappedErrors(t *testing.T) {
	inner := errors.New("boom")
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "config",
			err:      &ConfigError{Err: inner},
			expected: "chttp: invalid configuration: boom",
		},
		{
			name:     "transport",
			err:      &TransportError{Err: inner},
			expected: "chttp: transport: boom",
		},
		{
			name:     "decode",
			err:      &DecodeError{Err: inner},
			expected: "chttp: decode: boom",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if test.err.Error() != test.expected {
				t.Errorf("Unexpected error: %s", test.err)
			}
			if !errors.Is(test.err, inner) {
				t.Error("Expected to unwrap to the inner error")
			}
		})
	}
}

func TestHTTPErrorError(t *testing.T) {
	tests := []struct {
		name     string
		err      *HTTPError
		expected string
	}{
		{
			name: "no reason",
			err: &HTTPError{
				Response: &http.Response{StatusCode: http.StatusBadRequest},
			},
			expected: "Bad Request",
		},
		{
			name: "with reason",
			err: &HTTPError{
				Response: &http.Response{StatusCode: http.StatusNotFound},
				Reason:   "missing",
			},
			expected: "Not Found: missing",
		},
		{
			name: "unknown status",
			err: &HTTPError{
				Response: &http.Response{StatusCode: 999},
				Reason:   "somethin' bad happened",
			},
			expected: "somethin' bad happened",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if result := test.err.Error(); result != test.expected {
				t.Errorf("Unexpected error: %s", result)
			}
		})
	}
}

func body(s string) io.ReadCloser {
	return io.NopCloser(strings.NewReader(s))
}

func TestResponseError(t *testing.T) {
	t.Run("success status", func(t *testing.T) {
		resp := &http.Response{
			StatusCode: http.StatusOK,
			Body:       body(`{"ok":true}`),
		}
		if err := ResponseError(resp); err != nil {
			t.Fatal(err)
		}
	})

	t.Run("error with JSON body", func(t *testing.T) {
		resp := &http.Response{
			StatusCode:    http.StatusNotFound,
			Request:       &http.Request{Method: http.MethodGet},
			Header:        http.Header{"Content-Type": []string{"application/json"}},
			ContentLength: 41,
			Body:          body(`{"error":"not_found","reason":"missing"}`),
		}
		err := ResponseError(resp)
		var httpErr *HTTPError
		if !errors.As(err, &httpErr) {
			t.Fatalf("Unexpected error type: %T", err)
		}
		if httpErr.Reason != "missing" {
			t.Errorf("Unexpected reason: %s", httpErr.Reason)
		}
		if httpErr.HTTPStatus() != http.StatusNotFound {
			t.Errorf("Unexpected status: %d", httpErr.HTTPStatus())
		}
	})

	t.Run("HEAD request body ignored", func(t *testing.T) {
		resp := &http.Response{
			StatusCode:    http.StatusNotFound,
			Request:       &http.Request{Method: http.MethodHead},
			Header:        http.Header{"Content-Type": []string{"application/json"}},
			ContentLength: 41,
			Body:          body(`{"error":"not_found","reason":"missing"}`),
		}
		err := ResponseError(resp)
		var httpErr *HTTPError
		if !errors.As(err, &httpErr) {
			t.Fatalf("Unexpected error type: %T", err)
		}
		if httpErr.Reason != "" {
			t.Errorf("Unexpected reason: %s", httpErr.Reason)
		}
	})
}
