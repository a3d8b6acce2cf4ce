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

// Bad pixel masks: per-detector boolean images flagging pixels to exclude from analysis. Masks are
// built from an all-good baseline plus fixed, instrument-specific defect regions, so they depend
// only on the detector and the image shape, never on pixel values.
package bpm

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/specrdx/core/core/pixels"
)

var (
	// ErrInvalidDetector - detector numbers start at 1
	ErrInvalidDetector = errors.New("invalid detector number")
	// ErrInvalidShape - see pixels.Shape.Validate
	ErrInvalidShape = pixels.ErrInvalidShape
)

// Mask - true marks a pixel to exclude
type Mask = pixels.BoolImage

// Range - python-slice style bounds along one axis. Nil Start means 0, nil Stop means the end of
// the axis; negative values count back from the end.
type Range struct {
	Start *int `json:"start,omitempty" yaml:"start"`
	Stop  *int `json:"stop,omitempty" yaml:"stop"`
}

// Index - helper for building ranges in code
func Index(v int) *int {
	return &v
}

func (r Range) resolve(n int) (int, int) {
	clip := func(v *int, def int) int {
		if v == nil {
			return def
		}
		i := *v
		if i < 0 {
			i += n
		}
		if i < 0 {
			return 0
		}
		if i > n {
			return n
		}
		return i
	}

	start := clip(r.Start, 0)
	stop := clip(r.Stop, n)
	if stop < start {
		stop = start
	}
	return start, stop
}

func (r Range) String() string {
	s := func(v *int) string {
		if v == nil {
			return ""
		}
		return fmt.Sprintf("%v", *v)
	}
	return s(r.Start) + ":" + s(r.Stop)
}

// Region - a rectangle of known bad pixels on one detector, in (spectral, spatial) orientation
type Region struct {
	Det  int   `json:"det" yaml:"det"`
	Spec Range `json:"spec" yaml:"spec"`
	Spat Range `json:"spat" yaml:"spat"`
}

func (r Region) String() string {
	return fmt.Sprintf("det %v [%v, %v]", r.Det, r.Spec, r.Spat)
}

// Empty - an all-good mask of the given shape
func Empty(shape pixels.Shape) (*Mask, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	return pixels.NewBoolImage(shape), nil
}

// Build - the bad pixel mask of detector det (1-based), marking every region listed for it
func Build(shape pixels.Shape, det int, regions []Region) (*Mask, error) {
	if det < 1 {
		return nil, errors.Wrapf(ErrInvalidDetector, "%v", det)
	}

	mask, err := Empty(shape)
	if err != nil {
		return nil, err
	}

	for _, region := range regions {
		if region.Det != det {
			continue
		}

		spec0, spec1 := region.Spec.resolve(shape.NSpec)
		spat0, spat1 := region.Spat.resolve(shape.NSpat)
		for spec := spec0; spec < spec1; spec++ {
			row := mask.Data[spec*shape.NSpat : (spec+1)*shape.NSpat]
			for spat := spat0; spat < spat1; spat++ {
				row[spat] = true
			}
		}
	}

	return mask, nil
}

// ValidateRegions - checks regions refer to real detectors
func ValidateRegions(regions []Region, ndet int) error {
	for _, r := range regions {
		if r.Det < 1 || r.Det > ndet {
			return errors.Wrapf(ErrInvalidDetector, "bad pixel region %v, instrument has %v detector(s)", r, ndet)
		}
	}
	return nil
}
