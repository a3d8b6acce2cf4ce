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

// Exposes small helpers shared by the tools and API: file name handling for raw frames and
// exported products, and generic slice/map helpers
package utils

import (
	"path"
	"sort"
	"strings"
)

// PrettyPrintIndentForJSON Pretty-print indenting of JSON
const PrettyPrintIndentForJSON = "    "

// RawFrameExtensions - file name endings of raw frames we can read
var RawFrameExtensions = []string{".fits", ".fits.gz", ".fit", ".fts"}

// MakeSaveableFileName - Given a name which may not be acceptable as a file name, generate a string for a file name
// that won't have issues. This replaces bad characters like slashes with spaces, etc
func MakeSaveableFileName(name string) string {
	result := ""
	for _, ch := range name {
		if ch >= 'a' && ch <= 'z' ||
			ch >= 'A' && ch <= 'Z' ||
			ch >= '0' && ch <= '9' ||
			ch == ' ' ||
			ch == '-' ||
			ch == '_' ||
			ch == '+' ||
			ch == '.' ||
			ch == ',' {
			result += string(ch)
		} else {
			result += " "
		}
	}

	return result
}

// IsRawFrameFile - does the file name look like a raw frame (FITS, optionally gzipped)
func IsRawFrameFile(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range RawFrameExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// RawFrameFiles - the raw frame paths from a listing, sorted by file name
func RawFrameFiles(paths []string) []string {
	result := []string{}
	for _, p := range paths {
		if IsRawFrameFile(p) {
			result = append(result, p)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return path.Base(result[i]) < path.Base(result[j])
	})
	return result
}
