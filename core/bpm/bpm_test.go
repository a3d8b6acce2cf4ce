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

package bpm

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/specrdx/core/core/pixels"
	"github.com/stretchr/testify/assert"
)

var mageRegions = []Region{
	{Det: 1, Spat: Range{Stop: Index(20)}},
	{Det: 1, Spat: Range{Start: Index(1000)}},
}

func TestBuildMageDetector1(t *testing.T) {
	shape := pixels.Shape{NSpec: 1024, NSpat: 2048}
	mask, err := Build(shape, 1, mageRegions)
	assert.Nil(t, err)
	assert.Equal(t, shape, mask.Shape)

	for spec := 0; spec < shape.NSpec; spec++ {
		for spat := 0; spat < shape.NSpat; spat++ {
			want := spat < 20 || spat >= 1000
			if mask.At(spec, spat) != want {
				t.Fatalf("pixel (%v, %v): got %v, want %v", spec, spat, mask.At(spec, spat), want)
			}
		}
	}
	assert.Equal(t, shape.NSpec*(20+2048-1000), mask.Count())
}

func TestBuildOtherDetectorIsClean(t *testing.T) {
	mask, err := Build(pixels.Shape{NSpec: 10, NSpat: 30}, 2, mageRegions)
	assert.Nil(t, err)
	assert.Equal(t, 0, mask.Count())
}

func TestBuildIsFreshPerCall(t *testing.T) {
	shape := pixels.Shape{NSpec: 4, NSpat: 30}
	a, _ := Build(shape, 1, mageRegions)
	assert.False(t, a.At(0, 25))
	a.Set(0, 25, true)

	b, _ := Build(shape, 1, mageRegions)
	assert.False(t, b.At(0, 25))
	assert.Equal(t, a.Count()-1, b.Count())
}

func TestBuildRejectsOversizedShapes(t *testing.T) {
	for _, shape := range []pixels.Shape{
		{NSpec: 1 << 32, NSpat: 1 << 32},
		{NSpec: 200000, NSpat: 200000},
		{NSpec: 1 << 62, NSpat: 4},
		{NSpec: -3, NSpat: -5},
	} {
		mask, err := Build(shape, 1, mageRegions)
		assert.Nil(t, mask)
		assert.Equal(t, pixels.ErrInvalidShape, errors.Cause(err), shape.String())
	}
}

func Example_build() {
	regions := []Region{
		{Det: 1, Spec: Range{Start: Index(1), Stop: Index(3)}, Spat: Range{Start: Index(-2)}},
		{Det: 1, Spec: Range{Stop: Index(1)}, Spat: Range{Start: Index(1), Stop: Index(2)}},
		{Det: 2, Spat: Range{}},
	}

	mask, err := Build(pixels.Shape{NSpec: 4, NSpat: 6}, 1, regions)
	fmt.Println(err)
	for spec := 0; spec < mask.NSpec; spec++ {
		line := ""
		for spat := 0; spat < mask.NSpat; spat++ {
			if mask.At(spec, spat) {
				line += "X"
			} else {
				line += "."
			}
		}
		fmt.Println(line)
	}

	_, err = Build(pixels.Shape{NSpec: 4, NSpat: 6}, 0, regions)
	fmt.Println(err, errors.Cause(err) == ErrInvalidDetector)

	_, err = Build(pixels.Shape{NSpec: 0, NSpat: 6}, 1, regions)
	fmt.Println(err)

	fmt.Println(ValidateRegions(regions, 1))

	// Output:
	// <nil>
	// .X....
	// ....XX
	// ....XX
	// ......
	// 0: invalid detector number true
	// (0, 6): invalid image shape
	// bad pixel region det 2 [:, :], instrument has 1 detector(s): invalid detector number
}
