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

package traceimage

import (
	"fmt"

	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"github.com/specrdx/core/core/detector"
	"github.com/specrdx/core/core/params"
	"github.com/specrdx/core/core/pixels"
)

// subtractOverscan - removes the bias level of each amplifier from its data section. Data rows that
// the overscan section also covers get that row's overscan median subtracted, all other rows get the
// median of the whole overscan section.
func subtractOverscan(img *pixels.FloatImage, dataSecs []detector.Section, oscanSecs []detector.Section) error {
	for amp, dataSec := range dataSecs {
		or0, or1, oc0, oc1 := oscanSecs[amp].Bounds(img.Shape)
		if or0 >= or1 || oc0 >= oc1 {
			return fmt.Errorf("overscan section %v of amplifier %v is outside image of shape %v", oscanSecs[amp], amp+1, img.Shape)
		}

		all := make([]float64, 0, (or1-or0)*(oc1-oc0))
		rowLevels := map[int]float64{}
		for r := or0; r < or1; r++ {
			row := img.Row(r)[oc0:oc1]
			all = append(all, row...)

			level, err := stats.Median(append([]float64{}, row...))
			if err != nil {
				return errors.Wrapf(err, "overscan row %v", r)
			}
			rowLevels[r] = level
		}

		globalLevel, err := stats.Median(all)
		if err != nil {
			return errors.Wrapf(err, "overscan of amplifier %v", amp+1)
		}

		r0, r1, c0, c1 := dataSec.Bounds(img.Shape)
		for r := r0; r < r1; r++ {
			level, ok := rowLevels[r]
			if !ok {
				level = globalLevel
			}

			row := img.Row(r)
			for c := c0; c < c1; c++ {
				row[c] -= level
			}
		}
	}
	return nil
}

// applyGain - converts each amplifier's data section from ADU to electrons
func applyGain(img *pixels.FloatImage, dataSecs []detector.Section, gain []float64) {
	for amp, sec := range dataSecs {
		r0, r1, c0, c1 := sec.Bounds(img.Shape)
		for r := r0; r < r1; r++ {
			row := img.Row(r)
			for c := c0; c < c1; c++ {
				row[c] *= gain[amp]
			}
		}
	}
}

// trim - crops to the bounding box of all data sections
func trim(img *pixels.FloatImage, dataSecs []detector.Section) (*pixels.FloatImage, error) {
	if len(dataSecs) <= 0 {
		return nil, errors.New("no data sections to trim to")
	}

	row0, row1, col0, col1 := dataSecs[0].Bounds(img.Shape)
	for _, sec := range dataSecs[1:] {
		r0, r1, c0, c1 := sec.Bounds(img.Shape)
		row0, row1 = min(row0, r0), max(row1, r1)
		col0, col1 = min(col0, c0), max(col1, c1)
	}

	return img.SubImage(row0, row1, col0, col1)
}

// orient - transposes and/or flips so rows run along the spectral axis, blue to red
func orient(img *pixels.FloatImage, transpose bool, specFlip bool, spatFlip bool) *pixels.FloatImage {
	result := img
	if transpose {
		result = pixels.NewFloatImage(pixels.Shape{NSpec: img.NSpat, NSpat: img.NSpec})
		for r := 0; r < img.NSpec; r++ {
			for c := 0; c < img.NSpat; c++ {
				result.Set(c, r, img.At(r, c))
			}
		}
	}

	if specFlip {
		for r := 0; r < result.NSpec/2; r++ {
			top, bottom := result.Row(r), result.Row(result.NSpec-1-r)
			for c := range top {
				top[c], bottom[c] = bottom[c], top[c]
			}
		}
	}

	if spatFlip {
		for r := 0; r < result.NSpec; r++ {
			row := result.Row(r)
			for i, j := 0, len(row)-1; i < j; i, j = i+1, j-1 {
				row[i], row[j] = row[j], row[i]
			}
		}
	}

	return result
}

// combine - per-pixel median or mean of equally shaped images
func combine(imgs []*pixels.FloatImage, method string) (*pixels.FloatImage, error) {
	var reduce func(stats.Float64Data) (float64, error)
	switch method {
	case params.CombineMedian:
		reduce = stats.Median
	case params.CombineMean:
		reduce = stats.Mean
	default:
		return nil, errors.Wrapf(params.ErrInvalidParameter, "unknown combine method %q", method)
	}

	result := pixels.NewFloatImage(imgs[0].Shape)
	vals := make([]float64, len(imgs))
	for c := range result.Data {
		for i, img := range imgs {
			vals[i] = img.Data[c]
		}

		v, err := reduce(vals)
		if err != nil {
			return nil, err
		}
		result.Data[c] = v
	}
	return result, nil
}
