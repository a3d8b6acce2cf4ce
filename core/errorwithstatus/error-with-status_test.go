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

package errorwithstatus

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

var errMissing = errors.New("missing thing")
var errBadValue = errors.New("bad value")

func Example_classify() {
	c := Classifier{errMissing: http.StatusNotFound, errBadValue: http.StatusBadRequest}

	for _, err := range []error{
		errors.Wrapf(errMissing, "mage0012.fits"),
		fmt.Errorf("reading par: %w", errBadValue),
		MakeServiceUnavailableError(errors.New("no catalogue")),
		errors.New("disk on fire"),
	} {
		se := c.Classify(err)
		fmt.Printf("%v: %v\n", se.Status(), se)
	}

	// Output:
	// 404: mage0012.fits: missing thing
	// 400: reading par: bad value
	// 503: no catalogue
	// 500: disk on fire
}

func Example_makeNotFoundError() {
	err := MakeNotFoundError("vlt_xshooter_nir")
	fmt.Println(err.Status(), err)

	// Output:
	// 404 vlt_xshooter_nir not found
}
