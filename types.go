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
	"bytes"
	"encoding/json"
)

// Vendor identifies the server implementation, as reported by the server's
// welcome endpoint.
type Vendor struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

// ServerStatus is the server's welcome metadata, returned by GET on the
// base URI.
type ServerStatus struct {
	Couchdb string `json:"couchdb"`
	UUID    string `json:"uuid,omitempty"`
	Version string `json:"version"`
	Vendor  Vendor `json:"vendor"`
}

// Response is the generic envelope the server returns for mutating calls.
// An absent or false OK with Error and Reason populated signals failure.
type Response struct {
	OK     bool   `json:"ok,omitempty"`
	ID     string `json:"id,omitempty"`
	Name   string `json:"name,omitempty"`
	Error  string `json:"error,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// SortSpec is one element of an index sort order. On the wire it is either
// a bare field name, which sorts ascending, or a single-entry object
// mapping the field to "asc" or "desc".
type SortSpec struct {
	Field     string
	Direction string // empty means ascending
}

// MarshalJSON satisfies the json.Marshaler interface.
func (s SortSpec) MarshalJSON() ([]byte, error) {
	if s.Direction == "" {
		return json.Marshal(s.Field)
	}
	return json.Marshal(map[string]string{s.Field: s.Direction})
}

// UnmarshalJSON satisfies the json.Unmarshaler interface.
func (s *SortSpec) UnmarshalJSON(data []byte) error {
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte(`"`)) {
		s.Direction = ""
		return json.Unmarshal(data, &s.Field)
	}
	var dirs map[string]string
	if err := json.Unmarshal(data, &dirs); err != nil {
		return err
	}
	for field, dir := range dirs {
		s.Field, s.Direction = field, dir
	}
	return nil
}

// IndexFields is the field list of an index definition.
type IndexFields struct {
	Fields []SortSpec `json:"fields"`
}

// NewIndexFields wraps fields in an IndexFields definition.
func NewIndexFields(fields []SortSpec) IndexFields {
	return IndexFields{Fields: fields}
}

// Index describes a secondary index, as sent to or received from the
// server.
type Index struct {
	// DesignDoc is the ID of the design document the index lives in. It is
	// empty for the special all-docs index.
	DesignDoc string      `json:"ddoc,omitempty"`
	Name      string      `json:"name,omitempty"`
	Type      string      `json:"type,omitempty"`
	Def       IndexFields `json:"def"`
}

// IndexList is the server's enumeration of a database's indexes.
type IndexList struct {
	TotalRows int     `json:"total_rows"`
	Indexes   []Index `json:"indexes"`
}

// DesignCreated reports the result of creating a design document resource,
// such as an index.
type DesignCreated struct {
	Result string `json:"result,omitempty"`
	ID     string `json:"id,omitempty"`
	Name   string `json:"name,omitempty"`
	Error  string `json:"error,omitempty"`
	Reason string `json:"reason,omitempty"`
}
