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

// Package sofa is a client for the CouchDB HTTP REST API. It manages
// connection configuration, database lifecycle operations, and the typed
// request/response structures the server speaks.
//
//	client, err := sofa.New("http://localhost:5984/")
//	if err != nil {
//	    // ...
//	}
//	db, err := client.DB(ctx, "mydb") // opens mydb, creating it if needed
//
// Low-level request construction and dispatch lives in the chttp
// sub-package; sofa.Client embeds a chttp.Client, so its verb helpers and
// configuration setters are available here as well.
package sofa
