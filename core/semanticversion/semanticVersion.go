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

package semanticversion

import (
	"fmt"
	"strconv"
	"strings"
)

// SemanticVersion - major.minor.patch version of an instrument asset
type SemanticVersion struct {
	Major int32 `json:"major"`
	Minor int32 `json:"minor"`
	Patch int32 `json:"patch"`
}

func SemanticVersionToString(v *SemanticVersion) string {
	if v == nil {
		return "?.?.?"
	}
	return fmt.Sprintf("%v.%v.%v", v.Major, v.Minor, v.Patch)
}

func (v SemanticVersion) String() string {
	return SemanticVersionToString(&v)
}

func SemanticVersionFromString(v string) (*SemanticVersion, error) {
	result := &SemanticVersion{}

	parts := strings.Split(strings.TrimPrefix(strings.TrimSpace(v), "v"), ".")
	if len(parts) != 3 {
		return result, fmt.Errorf("Invalid semantic version: %v", v)
	}
	nums := []int{}
	for _, part := range parts {
		num, err := strconv.Atoi(part)
		if err != nil || num < 0 {
			return result, fmt.Errorf("Failed to parse version %v, part %v is not a number", v, part)
		}
		nums = append(nums, num)
	}

	result.Major = int32(nums[0])
	result.Minor = int32(nums[1])
	result.Patch = int32(nums[2])

	return result, nil
}

// Compare - negative if a is older than b, 0 if equal, positive if newer
func Compare(a SemanticVersion, b SemanticVersion) int {
	if a.Major != b.Major {
		return int(a.Major - b.Major)
	}
	if a.Minor != b.Minor {
		return int(a.Minor - b.Minor)
	}
	return int(a.Patch - b.Patch)
}
