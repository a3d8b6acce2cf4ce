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

// Package slitmask turns traced slit (echelle order) edges into a per-pixel order label image, and
// maps labels to physical order numbers and plate scales.
package slitmask

import (
	"fmt"

	"github.com/specrdx/core/core/binning"
	"github.com/specrdx/core/core/pixels"
)

// TraceSlits - left and right edges of every traced slit, indexed [spec][slit], for an image of
// NSpec x NSpat pixels. Slits are ordered left to right in spatial position.
type TraceSlits struct {
	LCen  [][]float64 `json:"lcen"`
	RCen  [][]float64 `json:"rcen"`
	NSpec int         `json:"nspec"`
	NSpat int         `json:"nspat"`
	Pad   float64     `json:"pad"`
}

// NSlits - number of traced slits
func (t TraceSlits) NSlits() int {
	if len(t.LCen) == 0 {
		return 0
	}
	return len(t.LCen[0])
}

// BaseMask - label image straight from the traces, before any instrument corrections
func (t TraceSlits) BaseMask() (*pixels.IntImage, error) {
	if err := (pixels.Shape{NSpec: t.NSpec, NSpat: t.NSpat}).Validate(); err != nil {
		return nil, err
	}
	if len(t.LCen) != t.NSpec {
		return nil, fmt.Errorf("slit traces have %v spectral rows, expected nspec=%v", len(t.LCen), t.NSpec)
	}
	return pixels.SlitPixels(t.LCen, t.RCen, t.NSpat, t.Pad)
}

// IlluminatedRange - spectral pixels [Min, Max] (inclusive) of one order that receive light. With
// Fractional set the bounds are fractions of nspec, otherwise they're unbinned pixel rows.
type IlluminatedRange struct {
	Min        float64 `json:"min" yaml:"min"`
	Max        float64 `json:"max" yaml:"max"`
	Fractional bool    `json:"fractional,omitempty" yaml:"fractional"`
}

func (r IlluminatedRange) bounds(nspec int, binspec int) (float64, float64) {
	if r.Fractional {
		return r.Min * float64(nspec), r.Max * float64(nspec)
	}
	return r.Min / float64(binspec), r.Max / float64(binspec)
}

// ClipUnilluminated - pixels of label i lying outside illum[i] become pixels.NoSlit. Nil entries,
// and labels beyond the end of illum, are left alone. img is modified in place.
func ClipUnilluminated(img *pixels.IntImage, illum []*IlluminatedRange, bin binning.Binning) error {
	if bin.Spec < 1 {
		return fmt.Errorf("spectral binning must be >= 1, got %v", bin.Spec)
	}

	for spec := 0; spec < img.NSpec; spec++ {
		for spat := 0; spat < img.NSpat; spat++ {
			label := img.At(spec, spat)
			if label < 0 || label >= len(illum) || illum[label] == nil {
				continue
			}

			lo, hi := illum[label].bounds(img.NSpec, bin.Spec)
			s := float64(spec)
			if s < lo || s > hi {
				img.Set(spec, spat, pixels.NoSlit)
			}
		}
	}
	return nil
}

// ValidateIllumination - checks the illumination table fits the instrument's orders
func ValidateIllumination(illum []*IlluminatedRange, norders int) error {
	if len(illum) > norders {
		return fmt.Errorf("illumination table has %v entries, instrument has %v orders", len(illum), norders)
	}
	for c, r := range illum {
		if r != nil && r.Min > r.Max {
			return fmt.Errorf("illumination range %v is reversed: [%v, %v]", c, r.Min, r.Max)
		}
	}
	return nil
}
