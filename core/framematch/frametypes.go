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

// Frame typing: deciding which raw exposures are arcs, flats, science frames etc. from a few
// metadata columns. The per-instrument rules are data (see Rules), so one engine serves every
// instrument.
package framematch

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ErrUnknownFrameType - not one of the frame types in FrameTypes
var ErrUnknownFrameType = errors.New("unknown frame type")

// FrameType - the role of a raw exposure in the reduction
type FrameType string

const (
	Arc       FrameType = "arc"
	Bias      FrameType = "bias"
	Dark      FrameType = "dark"
	PinHole   FrameType = "pinhole"
	PixelFlat FrameType = "pixelflat"
	Science   FrameType = "science"
	Standard  FrameType = "standard"
	Trace     FrameType = "trace"
	Tilt      FrameType = "tilt"
)

// FrameTypes - every valid frame type, in the order they're listed in typed tables
var FrameTypes = []FrameType{Arc, Bias, Dark, PinHole, PixelFlat, Science, Standard, Trace, Tilt}

// ParseFrameType - validates a frame type name
func ParseFrameType(name string) (FrameType, error) {
	for _, ft := range FrameTypes {
		if string(ft) == strings.ToLower(strings.TrimSpace(name)) {
			return ft, nil
		}
	}
	return "", errors.Wrapf(ErrUnknownFrameType, "%q", name)
}

// ExposureRange - inclusive exposure time bounds in seconds. A nil bound places no constraint on
// that side.
type ExposureRange struct {
	Min *float64
	Max *float64
}

// Bound - helper for building ranges in code, eg ExposureRange{Min: Bound(20)}
func Bound(v float64) *float64 {
	return &v
}

// Contains - true if t lies within the range. A missing exposure time only matches an open range.
func (r ExposureRange) Contains(t *float64) bool {
	if t == nil || math.IsNaN(*t) {
		return r.Min == nil && r.Max == nil
	}
	if r.Min != nil && *t < *r.Min {
		return false
	}
	if r.Max != nil && *t > *r.Max {
		return false
	}
	return true
}

// Validate - a closed range must not be reversed
func (r ExposureRange) Validate() error {
	if r.Min != nil && r.Max != nil && *r.Min > *r.Max {
		return fmt.Errorf("exposure range [%v, %v] is reversed", *r.Min, *r.Max)
	}
	return nil
}

func (r ExposureRange) String() string {
	b := func(v *float64) string {
		if v == nil {
			return "None"
		}
		return fmt.Sprintf("%v", *v)
	}
	return fmt.Sprintf("[%v, %v]", b(r.Min), b(r.Max))
}

// Ranges are written as two element lists with null for an open side, eg [20, null]

func (r ExposureRange) MarshalJSON() ([]byte, error) {
	return json.Marshal([]*float64{r.Min, r.Max})
}

func (r *ExposureRange) UnmarshalJSON(data []byte) error {
	var bounds []*float64
	if err := json.Unmarshal(data, &bounds); err != nil {
		return err
	}
	return r.setBounds(bounds)
}

func (r ExposureRange) MarshalYAML() (interface{}, error) {
	return []*float64{r.Min, r.Max}, nil
}

func (r *ExposureRange) UnmarshalYAML(node *yaml.Node) error {
	var bounds []*float64
	if err := node.Decode(&bounds); err != nil {
		return err
	}
	return r.setBounds(bounds)
}

func (r *ExposureRange) setBounds(bounds []*float64) error {
	if len(bounds) != 2 {
		return fmt.Errorf("exposure range must have 2 entries, got %v", len(bounds))
	}
	r.Min = bounds[0]
	r.Max = bounds[1]
	return nil
}

// CheckFrameExptime - for each exposure time, whether it lies inside rng
func CheckFrameExptime(exptime []*float64, rng ExposureRange) []bool {
	result := make([]bool, len(exptime))
	for c, t := range exptime {
		result[c] = rng.Contains(t)
	}
	return result
}
