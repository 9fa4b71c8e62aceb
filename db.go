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
	"strings"

	"github.com/pkg/errors"

	"github.com/go-sofa/sofa/chttp"
)

const pathIndex = "_index"

// DB is a handle to one named database. It owns no server-side state; it is
// a capability for issuing requests scoped to that database. Handles are
// obtained from [Client.DB] or [Client.CreateDB].
type DB struct {
	client *Client
	name   string
}

// Name returns the effective (prefixed) database name.
func (db *DB) Name() string {
	return db.name
}

// Client returns the client the handle was created from.
func (db *DB) Client() *Client {
	return db.client
}

// path builds a request path scoped to this database, escaping each part.
func (db *DB) path(parts ...string) string {
	escaped := make([]string, 0, len(parts)+1)
	escaped = append(escaped, url.PathEscape(db.name))
	for _, part := range parts {
		escaped = append(escaped, url.PathEscape(part))
	}
	return strings.Join(escaped, "/")
}

// CreateIndex creates a secondary index described by index. The index name,
// design document, and type are all optional; the server generates names
// for whatever is omitted.
func (db *DB) CreateIndex(ctx context.Context, index Index) (*DesignCreated, error) {
	body := struct {
		Index IndexFields `json:"index"`
		DDoc  string      `json:"ddoc,omitempty"`
		Name  string      `json:"name,omitempty"`
		Type  string      `json:"type,omitempty"`
	}{
		Index: index.Def,
		DDoc:  index.DesignDoc,
		Name:  index.Name,
		Type:  index.Type,
	}
	result := new(DesignCreated)
	if err := db.client.DoJSON(ctx, http.MethodPost, db.path(pathIndex), &chttp.Options{JSON: body}, result); err != nil {
		return nil, errors.Wrap(err, "sofa: create index")
	}
	return result, nil
}

// Indexes returns the list of indexes defined on the database.
func (db *DB) Indexes(ctx context.Context) (*IndexList, error) {
	list := new(IndexList)
	if err := db.client.DoJSON(ctx, http.MethodGet, db.path(pathIndex), nil, list); err != nil {
		return nil, errors.Wrap(err, "sofa: list indexes")
	}
	return list, nil
}

// DeleteIndex removes the named index from the given design document,
// reporting the ok field of the server's response envelope.
func (db *DB) DeleteIndex(ctx context.Context, ddoc, name string) (bool, error) {
	res, err := db.client.DoReq(ctx, http.MethodDelete, db.path(pathIndex, ddoc, "json", name), nil)
	if err != nil {
		return false, errors.Wrap(err, "sofa: delete index")
	}
	var reply Response
	if err := chttp.DecodeJSON(res, &reply); err != nil {
		return false, errors.Wrap(err, "sofa: delete index")
	}
	return reply.OK, nil
}
