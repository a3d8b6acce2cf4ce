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

// Detector on-chip binning. The canonical string form used in metadata and parameter files is
// "<spectral>,<spatial>", eg "1,1" or "2,1".
package binning

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrBadBinning - returned when a binning string/value can't be interpreted
var ErrBadBinning = errors.New("unrecognised binning")

// Binning - pixels combined on chip along each axis
type Binning struct {
	Spec int `json:"spec"`
	Spat int `json:"spat"`
}

// None - unbinned readout
var None = Binning{Spec: 1, Spat: 1}

// Parse - splits a raw header binning value such as "1x1", "2,1" or "2 1" into its two integers,
// in the order they appear. Which one is spectral depends on the instrument.
func Parse(raw string) (int, int, error) {
	txt := strings.TrimSpace(strings.ToLower(raw))

	var parts []string
	switch {
	case strings.Contains(txt, "x"):
		parts = strings.Split(txt, "x")
	case strings.Contains(txt, ","):
		parts = strings.Split(txt, ",")
	default:
		parts = strings.Fields(txt)
	}

	if len(parts) != 2 {
		return 0, 0, errors.Wrapf(ErrBadBinning, "%q", raw)
	}

	first, err := parseFactor(parts[0])
	if err != nil {
		return 0, 0, errors.Wrapf(ErrBadBinning, "%q", raw)
	}
	second, err := parseFactor(parts[1])
	if err != nil {
		return 0, 0, errors.Wrapf(ErrBadBinning, "%q", raw)
	}

	return first, second, nil
}

func parseFactor(s string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if v < 1 {
		return 0, fmt.Errorf("binning factor %v < 1", v)
	}
	return v, nil
}

// ToString - canonical "<spectral>,<spatial>" form
func ToString(binspec int, binspat int) string {
	return fmt.Sprintf("%d,%d", binspec, binspat)
}

func (b Binning) String() string {
	return ToString(b.Spec, b.Spat)
}

// FromString - reads the canonical form back. An empty string means unbinned.
func FromString(s string) (Binning, error) {
	if len(strings.TrimSpace(s)) == 0 {
		return None, nil
	}

	spec, spat, err := Parse(s)
	if err != nil {
		return Binning{}, err
	}
	return Binning{Spec: spec, Spat: spat}, nil
}
