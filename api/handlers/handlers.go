// Licensed to NASA JPL under one or more contributor
// license agreements. See the NOTICE file distributed with
// this work for additional information regarding copyright
// ownership. NASA JPL licenses this file to you under
// the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

// Defines handlers, kind of like base classes for endpoints
package handlers

import (
	"path"
	"strings"
)

// Param - a path segment that mux captures as a path variable
func Param(name string) string {
	return "{" + strings.Trim(name, "/") + "}"
}

// MakeEndpointPath - joins a prefix and path segments into a route. Segments made with Param
// become path variables, anything else is matched literally.
func MakeEndpointPath(pathPrefix string, segments ...string) string {
	vals := []string{"/" + strings.Trim(pathPrefix, "/")}

	for _, seg := range segments {
		vals = append(vals, strings.Trim(seg, "/"))
	}

	return path.Join(vals...)
}

// The rest can be found in use-specific handler go files
