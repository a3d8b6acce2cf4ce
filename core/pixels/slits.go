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

package pixels

import (
	"fmt"
	"math"
)

// SlitPixels - labels every pixel of an (nspec, nspat) image with the index of the slit it falls in.
// lcen and rcen hold the left and right slit edges, indexed [spec][slit]. A pixel on spectral row
// spec belongs to slit i if lcen[spec][i]-pad < spat < rcen[spec][i]+pad. Slits are assumed to be
// ordered left to right; where padded slits overlap the higher index wins. Pixels in no slit get NoSlit.
func SlitPixels(lcen [][]float64, rcen [][]float64, nspat int, pad float64) (*IntImage, error) {
	nspec := len(lcen)
	if nspec == 0 || nspat <= 0 {
		return nil, fmt.Errorf("slit traces must be non-empty, got nspec=%v, nspat=%v", nspec, nspat)
	}
	if len(rcen) != nspec {
		return nil, fmt.Errorf("left (%v) and right (%v) slit traces have different spectral lengths", nspec, len(rcen))
	}
	if pad < 0 || math.IsNaN(pad) || math.IsInf(pad, 0) {
		return nil, fmt.Errorf("slit pad must be >= 0, got %v", pad)
	}

	shape := Shape{NSpec: nspec, NSpat: nspat}
	if err := shape.Validate(); err != nil {
		return nil, err
	}

	nslits := len(lcen[0])
	img := NewIntImage(shape, NoSlit)

	for spec := 0; spec < nspec; spec++ {
		if len(lcen[spec]) != nslits || len(rcen[spec]) != nslits {
			return nil, fmt.Errorf("slit traces at spectral row %v have %v/%v slits, expected %v", spec, len(lcen[spec]), len(rcen[spec]), nslits)
		}

		for slit := 0; slit < nslits; slit++ {
			left := lcen[spec][slit] - pad
			right := rcen[spec][slit] + pad
			if !isFinite(left) || !isFinite(right) {
				return nil, fmt.Errorf("slit %v edges at spectral row %v are not finite: %v, %v", slit, spec, lcen[spec][slit], rcen[spec][slit])
			}

			// First and last integer pixel strictly inside (left, right), clamped to the image
			// before converting to int
			first := math.Max(math.Floor(left)+1, 0)
			last := math.Min(math.Ceil(right)-1, float64(nspat-1))
			if first > last {
				continue
			}

			for spat := int(first); spat <= int(last); spat++ {
				img.Set(spec, spat, slit)
			}
		}
	}

	return img, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
