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

// ServerError is returned when the server's response envelope reports a
// failure: an ok field that is absent or false, with the failure described
// by the envelope's reason or error fields.
type ServerError struct {
	// Reason is the server-supplied failure reason.
	Reason string
}

func (e *ServerError) Error() string {
	return e.Reason
}

// serverError builds a *ServerError from a failed response envelope,
// preferring the reason field over the terser error field.
func serverError(r *Response) *ServerError {
	switch {
	case r.Reason != "":
		return &ServerError{Reason: r.Reason}
	case r.Error != "":
		return &ServerError{Reason: r.Error}
	}
	return &ServerError{Reason: "unspecified error"}
}
