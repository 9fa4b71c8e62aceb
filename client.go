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

package sofa

import (
	"context"
	"net/http"
	"net/url"

	"github.com/pkg/errors"

	"github.com/go-sofa/sofa/chttp"
)

// Client is a connection to a CouchDB server. It is responsible for the
// creation, access, and destruction of databases. A Client is not safe for
// concurrent use while its configuration is being mutated.
type Client struct {
	*chttp.Client

	dbPrefix string
}

// New returns a client for the server at dsn. The DSN must be a parseable
// absolute URI; credentials included in it select cookie authentication.
func New(dsn string, options ...chttp.Option) (*Client, error) {
	chttpClient, err := chttp.New(dsn, options...)
	if err != nil {
		return nil, err
	}
	return &Client{Client: chttpClient}, nil
}

// SetPrefix sets the database name prefix. Every database name passed to
// [Client.DB], [Client.CreateDB], and [Client.DestroyDB] is prepended with
// it.
func (c *Client) SetPrefix(prefix string) {
	c.dbPrefix = prefix
}

// Prefix returns the configured database name prefix.
func (c *Client) Prefix() string {
	return c.dbPrefix
}

// dbName returns the effective database name for name.
func (c *Client) dbName(name string) string {
	return c.dbPrefix + name
}

// AllDBs returns the list of all database names on the server.
func (c *Client) AllDBs(ctx context.Context) ([]string, error) {
	res, err := c.DoReq(ctx, http.MethodGet, "/_all_dbs", nil)
	if err != nil {
		return nil, errors.Wrap(err, "sofa: list databases")
	}
	var allDBs []string
	if err := chttp.DecodeJSON(res, &allDBs); err != nil {
		return nil, errors.Wrap(err, "sofa: list databases")
	}
	return allDBs, nil
}

// DB returns a handle to the named database, creating the database if it
// does not already exist. Existence is probed with a HEAD request; a 200
// status returns the handle directly, and ANY other status, including
// server errors, falls through to [Client.CreateDB]. This mirrors the
// server's lack of a dedicated existence API and is deliberate; callers who
// need to distinguish "missing" from "unreachable" should probe with
// [chttp.Client.Head] themselves.
func (c *Client) DB(ctx context.Context, name string) (*DB, error) {
	dbName := c.dbName(name)
	res, err := c.DoReq(ctx, http.MethodHead, url.PathEscape(dbName), nil)
	if err != nil {
		return nil, errors.Wrap(err, "sofa: open database")
	}
	chttp.CloseBody(res.Body)
	if res.StatusCode == http.StatusOK {
		return &DB{client: c, name: dbName}, nil
	}
	return c.CreateDB(ctx, name)
}

// CreateDB creates the named database and returns a handle to it. If the
// server's response envelope does not report ok, a *ServerError carrying
// the server's reason is returned.
func (c *Client) CreateDB(ctx context.Context, name string) (*DB, error) {
	dbName := c.dbName(name)
	res, err := c.DoReq(ctx, http.MethodPut, url.PathEscape(dbName), nil)
	if err != nil {
		return nil, errors.Wrap(err, "sofa: create database")
	}
	var reply Response
	if err := chttp.DecodeJSON(res, &reply); err != nil {
		return nil, errors.Wrap(err, "sofa: create database")
	}
	if !reply.OK {
		return nil, serverError(&reply)
	}
	return &DB{client: c, name: dbName}, nil
}

// DestroyDB deletes the named database, reporting the ok field of the
// server's response envelope. A missing ok field reports false; the HTTP
// status itself is not consulted.
func (c *Client) DestroyDB(ctx context.Context, name string) (bool, error) {
	res, err := c.DoReq(ctx, http.MethodDelete, url.PathEscape(c.dbName(name)), nil)
	if err != nil {
		return false, errors.Wrap(err, "sofa: destroy database")
	}
	var reply Response
	if err := chttp.DecodeJSON(res, &reply); err != nil {
		return false, errors.Wrap(err, "sofa: destroy database")
	}
	return reply.OK, nil
}

// Status fetches the server's welcome metadata from the base URI. The
// result is never cached.
func (c *Client) Status(ctx context.Context) (*ServerStatus, error) {
	res, err := c.DoReq(ctx, http.MethodGet, "", nil)
	if err != nil {
		return nil, errors.Wrap(err, "sofa: server status")
	}
	status := new(ServerStatus)
	if err := chttp.DecodeJSON(res, status); err != nil {
		return nil, errors.Wrap(err, "sofa: server status")
	}
	return status, nil
}

// Version returns the server's reported version string.
func (c *Client) Version(ctx context.Context) (string, error) {
	status, err := c.Status(ctx)
	if err != nil {
		return "", err
	}
	return status.Version, nil
}
