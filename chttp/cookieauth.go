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
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"
)

// sessionCookieName is the name of the CouchDB session cookie.
const sessionCookieName = "AuthSession"

// cookieAuth provides CouchDB Cookie auth services as described at
// http://docs.couchdb.org/en/stable/api/server/authn.html#cookie-authentication
//
// cookieAuth stores authentication state after use, so should not be re-used.
type cookieAuth struct {
	Username string `json:"name"`
	Password string `json:"password"`

	client *Client
	// transport stores the original transport that is overridden by this
	// auth mechanism
	transport http.RoundTripper
}

var (
	_ Authenticator = &cookieAuth{}
	_ Option        = (*cookieAuth)(nil)
)

func (a *cookieAuth) Apply(target interface{}) {
	if client, ok := target.(*Client); ok {
		// Clone this so that it's safe to re-use the same option for
		// multiple client connections.
		client.auth = &cookieAuth{
			Username: a.Username,
			Password: a.Password,
		}
	}
}

func (a *cookieAuth) String() string {
	return fmt.Sprintf("[CookieAuth{user:%s,pass:%s}]", a.Username, strings.Repeat("*", len(a.Password)))
}

// Wrap places the cookie auth mechanism in the transport chain, and attaches
// a cookie jar to the client if it does not have one yet.
func (a *cookieAuth) Wrap(c *Client, next http.RoundTripper) (http.RoundTripper, error) {
	a.client = c
	a.transport = next
	if c.jar == nil {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, err
		}
		c.jar = jar
	}
	return a, nil
}

// shouldAuth returns true if there is no session cookie set, or if it has
// expired.
func (a *cookieAuth) shouldAuth(req *http.Request) bool {
	if _, err := req.Cookie(sessionCookieName); err == nil {
		return false
	}
	cookie := a.Cookie()
	if cookie == nil {
		return true
	}
	if !cookie.Expires.IsZero() {
		return cookie.Expires.Before(time.Now().Add(time.Minute))
	}
	// The server did not include an expiry time in the session cookie. Some
	// CouchDB configurations do this; rather than re-authenticating for
	// every request, let the session expire on its own.
	return false
}

// Cookie returns the current session cookie if found, or nil if not.
func (a *cookieAuth) Cookie() *http.Cookie {
	if a.client == nil || a.client.jar == nil {
		return nil
	}
	dsnURL, err := ParseDSN(a.client.rawDSN)
	if err != nil {
		return nil
	}
	for _, cookie := range a.client.jar.Cookies(dsnURL) {
		if cookie.Name == sessionCookieName {
			return cookie
		}
	}
	return nil
}

var authInProgress = &struct{ name string }{"in progress"}

// RoundTrip fulfills the http.RoundTripper interface. It (re-)authenticates
// when the session cookie has expired or is not yet set. It also drops the
// session cookie if we receive a 401 response, to ensure that follow up
// requests can try to authenticate again.
func (a *cookieAuth) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := a.authenticate(req); err != nil {
		return nil, err
	}

	res, err := a.transport.RoundTrip(req)
	if err != nil {
		return res, err
	}

	if res != nil && res.StatusCode == http.StatusUnauthorized {
		if cookie := a.Cookie(); cookie != nil {
			// set to expire yesterday to allow us to ditch it
			cookie.Expires = time.Now().AddDate(0, 0, -1)
			if dsnURL, err := ParseDSN(a.client.rawDSN); err == nil {
				a.client.jar.SetCookies(dsnURL, []*http.Cookie{cookie})
			}
		}
	}
	return res, nil
}

func (a *cookieAuth) authenticate(req *http.Request) error {
	ctx := req.Context()
	if inProg, _ := ctx.Value(authInProgress).(bool); inProg {
		return nil
	}
	if !a.shouldAuth(req) {
		return nil
	}
	a.client.authMU.Lock()
	defer a.client.authMU.Unlock()
	if c := a.Cookie(); c != nil {
		// In case another simultaneous process authenticated successfully
		// first
		req.AddCookie(c)
		return nil
	}
	ctx = context.WithValue(ctx, authInProgress, true)
	res, err := a.client.DoReq(ctx, http.MethodPost, "/_session", &Options{JSON: a})
	if err != nil {
		return err
	}
	defer CloseBody(res.Body)
	if err := ResponseError(res); err != nil {
		return err
	}
	if c := a.Cookie(); c != nil {
		req.AddCookie(c)
	}
	return nil
}
