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

// Package pixels holds the detector-shaped image types shared by the masking, order mapping and
// image processing code. Images are row-major with rows along the spectral axis and columns along
// the spatial axis, so pixel (spec, spat) lives at Data[spec*NSpat+spat].
package pixels

import (
	"fmt"

	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

const (
	// NoSlit - label value for pixels that belong to no slit/order
	NoSlit = -1

	// MaxPixels - largest image we allocate, comfortably above any mosaic we read out
	MaxPixels = 1 << 27
)

// ErrInvalidShape - image shape is non-positive or too large to allocate
var ErrInvalidShape = errors.New("invalid image shape")

// Shape - size of a detector image in pixels
type Shape struct {
	NSpec int `json:"nspec" yaml:"nspec"`
	NSpat int `json:"nspat" yaml:"nspat"`
}

// Validate - both axes positive and at most MaxPixels in total
func (s Shape) Validate() error {
	if s.NSpec <= 0 || s.NSpat <= 0 {
		return errors.Wrapf(ErrInvalidShape, "%v", s)
	}
	// Divide rather than multiply so huge axes can't overflow
	if s.NSpec > MaxPixels/s.NSpat {
		return errors.Wrapf(ErrInvalidShape, "%v is over %v pixels", s, MaxPixels)
	}
	return nil
}

func (s Shape) Valid() bool {
	return s.Validate() == nil
}

func (s Shape) Size() int {
	return s.NSpec * s.NSpat
}

func (s Shape) String() string {
	return fmt.Sprintf("(%v, %v)", s.NSpec, s.NSpat)
}

// FloatImage - pixel values, eg counts or electrons
type FloatImage struct {
	Shape
	Data []float64
}

func NewFloatImage(shape Shape) *FloatImage {
	return &FloatImage{Shape: shape, Data: make([]float64, shape.Size())}
}

func (img *FloatImage) At(spec, spat int) float64 {
	return img.Data[spec*img.NSpat+spat]
}

func (img *FloatImage) Set(spec, spat int, v float64) {
	img.Data[spec*img.NSpat+spat] = v
}

// Row - returns the slice backing one spectral row, so writes go through to the image
func (img *FloatImage) Row(spec int) []float64 {
	return img.Data[spec*img.NSpat : (spec+1)*img.NSpat]
}

// SubImage - copies out the half-open window [spec0,spec1) x [spat0,spat1)
func (img *FloatImage) SubImage(spec0, spec1, spat0, spat1 int) (*FloatImage, error) {
	if spec0 < 0 || spat0 < 0 || spec1 > img.NSpec || spat1 > img.NSpat || spec0 >= spec1 || spat0 >= spat1 {
		return nil, fmt.Errorf("window [%v:%v,%v:%v] outside image of shape %v", spec0, spec1, spat0, spat1, img.Shape)
	}

	result := NewFloatImage(Shape{NSpec: spec1 - spec0, NSpat: spat1 - spat0})
	for spec := spec0; spec < spec1; spec++ {
		copy(result.Row(spec-spec0), img.Data[spec*img.NSpat+spat0:spec*img.NSpat+spat1])
	}
	return result, nil
}

// IntImage - integer labels, eg slit/order index per pixel
type IntImage struct {
	Shape
	Data []int
}

// NewIntImage - allocates an image with every pixel set to fill
func NewIntImage(shape Shape, fill int) *IntImage {
	img := &IntImage{Shape: shape, Data: make([]int, shape.Size())}
	if fill != 0 {
		for c := range img.Data {
			img.Data[c] = fill
		}
	}
	return img
}

func (img *IntImage) At(spec, spat int) int {
	return img.Data[spec*img.NSpat+spat]
}

func (img *IntImage) Set(spec, spat int, v int) {
	img.Data[spec*img.NSpat+spat] = v
}

// Labels - distinct values present in the image, ascending
func (img *IntImage) Labels() []int {
	seen := map[int]bool{}
	for _, v := range img.Data {
		seen[v] = true
	}

	result := make([]int, 0, len(seen))
	for v := range seen {
		result = append(result, v)
	}
	slices.Sort(result)
	return result
}

// Count - number of pixels carrying the given label
func (img *IntImage) Count(label int) int {
	n := 0
	for _, v := range img.Data {
		if v == label {
			n++
		}
	}
	return n
}

// BoolImage - true/false per pixel, eg a bad pixel mask
type BoolImage struct {
	Shape
	Data []bool
}

func NewBoolImage(shape Shape) *BoolImage {
	return &BoolImage{Shape: shape, Data: make([]bool, shape.Size())}
}

func (img *BoolImage) At(spec, spat int) bool {
	return img.Data[spec*img.NSpat+spat]
}

func (img *BoolImage) Set(spec, spat int, v bool) {
	img.Data[spec*img.NSpat+spat] = v
}

// Count - number of true pixels
func (img *BoolImage) Count() int {
	n := 0
	for _, v := range img.Data {
		if v {
			n++
		}
	}
	return n
}
