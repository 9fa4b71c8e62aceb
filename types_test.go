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
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSortSpecJSON(t *testing.T) {
	tests := []struct {
		name     string
		spec     SortSpec
		expected string
	}{
		{
			name:     "ascending",
			spec:     SortSpec{Field: "foo"},
			expected: `"foo"`,
		},
		{
			name:     "descending",
			spec:     SortSpec{Field: "foo", Direction: "desc"},
			expected: `{"foo":"desc"}`,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result, err := json.Marshal(test.spec)
			if err != nil {
				t.Fatal(err)
			}
			if string(result) != test.expected {
				t.Errorf("Unexpected JSON: %s", result)
			}
			var back SortSpec
			if err := json.Unmarshal(result, &back); err != nil {
				t.Fatal(err)
			}
			if d := cmp.Diff(test.spec, back); d != "" {
				t.Error(d)
			}
		})
	}
}

func TestEnvelopeRoundTrip(t *testing.T) {
	// Optional fields must survive a round trip whether populated or absent.
	tests := []struct {
		name  string
		value interface{}
		into  func() interface{}
	}{
		{
			name: "response populated",
			value: &Response{
				OK:     true,
				ID:     "_design/a5f4711f",
				Name:   "foo-index",
				Error:  "conflict",
				Reason: "Document update conflict.",
			},
			into: func() interface{} { return &Response{} },
		},
		{
			name:  "response empty",
			value: &Response{},
			into:  func() interface{} { return &Response{} },
		},
		{
			name: "design created populated",
			value: &DesignCreated{
				Result: "created",
				ID:     "_design/a5f4711f",
				Name:   "foo-index",
			},
			into: func() interface{} { return &DesignCreated{} },
		},
		{
			name:  "design created empty",
			value: &DesignCreated{},
			into:  func() interface{} { return &DesignCreated{} },
		},
		{
			name: "index",
			value: &Index{
				DesignDoc: "_design/a5f4711f",
				Name:      "foo-index",
				Type:      "json",
				Def: NewIndexFields([]SortSpec{
					{Field: "foo"},
					{Field: "bar", Direction: "desc"},
				}),
			},
			into: func() interface{} { return &Index{} },
		},
		{
			name: "server status",
			value: &ServerStatus{
				Couchdb: "Welcome",
				UUID:    "85fb71bf700c17267fef77535820e371",
				Version: "2.3.1",
				Vendor:  Vendor{Name: "The Apache Software Foundation"},
			},
			into: func() interface{} { return &ServerStatus{} },
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			data, err := json.Marshal(test.value)
			if err != nil {
				t.Fatal(err)
			}
			back := test.into()
			if err := json.Unmarshal(data, back); err != nil {
				t.Fatal(err)
			}
			if d := cmp.Diff(test.value, back); d != "" {
				t.Error(d)
			}
		})
	}
}

func TestNewIndexFields(t *testing.T) {
	fields := []SortSpec{{Field: "foo"}}
	def := NewIndexFields(fields)
	if d := cmp.Diff(fields, def.Fields); d != "" {
		t.Error(d)
	}
}
