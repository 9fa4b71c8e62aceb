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
	"net/http"
	"strings"
)

// Authenticator is the interface implemented by authentication mechanisms.
// Wrap is called each time the transport is (re)built, so the mechanism
// stays in the chain across compression and timeout changes.
type Authenticator interface {
	Wrap(c *Client, next http.RoundTripper) (http.RoundTripper, error)
}

// basicAuth provides HTTP Basic Auth for a client.
type basicAuth struct {
	Username string
	Password string

	// transport stores the original transport that is overridden by this
	// auth mechanism
	transport http.RoundTripper
}

var (
	_ Authenticator = &basicAuth{}
	_ Option        = (*basicAuth)(nil)
)

func (a *basicAuth) Apply(target interface{}) {
	if client, ok := target.(*Client); ok {
		// Clone this so that it's safe to re-use the same option for
		// multiple client connections.
		client.auth = &basicAuth{
			Username: a.Username,
			Password: a.Password,
		}
	}
}

func (a *basicAuth) String() string {
	return fmt.Sprintf("[BasicAuth{user:%s,pass:%s}]", a.Username, strings.Repeat("*", len(a.Password)))
}

// Wrap places the Basic Auth mechanism in the transport chain.
func (a *basicAuth) Wrap(_ *Client, next http.RoundTripper) (http.RoundTripper, error) {
	a.transport = next
	return a, nil
}

// RoundTrip fulfills the http.RoundTripper interface. It sets HTTP Basic
// Auth on outbound requests.
func (a *basicAuth) RoundTrip(req *http.Request) (*http.Response, error) {
	req.SetBasicAuth(a.Username, a.Password)
	return a.transport.RoundTrip(req)
}
