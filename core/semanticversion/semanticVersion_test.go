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

import "fmt"

func Example_semanticVersionFromString() {
	v, err := SemanticVersionFromString("1.2.13")
	fmt.Println(SemanticVersionToString(v), err)

	v, err = SemanticVersionFromString("v2.0.1")
	fmt.Println(v, err)

	_, err = SemanticVersionFromString("1.2")
	fmt.Println(err)

	_, err = SemanticVersionFromString("1.x.2")
	fmt.Println(err)

	fmt.Println(SemanticVersionToString(nil))

	// Output:
	// 1.2.13 <nil>
	// 2.0.1 <nil>
	// Invalid semantic version: 1.2
	// Failed to parse version 1.x.2, part x is not a number
	// ?.?.?
}

func Example_compare() {
	a := SemanticVersion{Major: 1, Minor: 2, Patch: 3}
	fmt.Println(Compare(a, SemanticVersion{Major: 1, Minor: 2, Patch: 3}))
	fmt.Println(Compare(a, SemanticVersion{Major: 1, Minor: 10, Patch: 0}) < 0)
	fmt.Println(Compare(a, SemanticVersion{Major: 0, Minor: 99, Patch: 99}) > 0)
	fmt.Println(Compare(a, SemanticVersion{Major: 1, Minor: 2, Patch: 1}) > 0)

	// Output:
	// 0
	// true
	// true
	// true
}
