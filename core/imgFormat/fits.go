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

// Package imgFormat reads and writes raw spectrograph frames stored as FITS files. Every HDU's
// header is kept so metadata extraction can address cards by extension number, and each 2D image
// HDU is decoded into a float image in raw (row, column) orientation.
package imgFormat

import (
	"fmt"
	"io"
	"strings"

	"github.com/astrogo/fitsio"
	"github.com/pkg/errors"
	"github.com/specrdx/core/core/metadata"
	"github.com/specrdx/core/core/pixels"
	"github.com/specrdx/core/core/utils"
)

// ErrNoImage - the requested extension holds no 2D image data
var ErrNoImage = errors.New("no image data in extension")

// Cards that describe the data layout, they're regenerated on write rather than copied
var structuralCards = map[string]bool{
	"SIMPLE":   true,
	"BITPIX":   true,
	"NAXIS":    true,
	"NAXIS1":   true,
	"NAXIS2":   true,
	"NAXIS3":   true,
	"EXTEND":   true,
	"BZERO":    true,
	"BSCALE":   true,
	"XTENSION": true,
	"PCOUNT":   true,
	"GCOUNT":   true,
	"END":      true,
	"COMMENT":  true,
	"HISTORY":  true,
	"":         true,
}

// RawFrame - contents of one raw exposure file
type RawFrame struct {
	// One entry per HDU, primary first
	Headers []metadata.Header
	// Same length as Headers, nil where the HDU has no 2D image
	Images []*pixels.FloatImage
}

// Image - pixels of extension ext
func (f *RawFrame) Image(ext int) (*pixels.FloatImage, error) {
	if ext < 0 || ext >= len(f.Images) || f.Images[ext] == nil {
		return nil, errors.Wrapf(ErrNoImage, "%v, file has %v HDU(s)", ext, len(f.Headers))
	}
	return f.Images[ext], nil
}

// ReadFITS - decodes every HDU of a FITS stream
func ReadFITS(r io.Reader) (*RawFrame, error) {
	f, err := fitsio.Open(newSizeGuard(r))
	if err != nil {
		return nil, errors.Wrap(err, "failed to open FITS stream")
	}
	defer f.Close()

	result := &RawFrame{}
	for c, hdu := range f.HDUs() {
		result.Headers = append(result.Headers, readHeader(hdu.Header()))

		var img *pixels.FloatImage
		if hdu.Type() == fitsio.IMAGE_HDU {
			img, err = readImage(hdu.(fitsio.Image))
			if err != nil {
				return nil, errors.Wrapf(err, "HDU %v", c)
			}
		}
		result.Images = append(result.Images, img)
	}

	if len(result.Headers) == 0 {
		return nil, errors.New("FITS stream contained no HDUs")
	}
	return result, nil
}

func readHeader(hdr *fitsio.Header) metadata.Header {
	result := metadata.Header{}
	for _, key := range hdr.Keys() {
		card := hdr.Get(key)
		if card == nil {
			continue
		}
		if s, ok := card.Value.(string); ok {
			result[key] = strings.TrimRight(s, " ")
		} else {
			result[key] = card.Value
		}
	}
	return result
}

func readImage(img fitsio.Image) (*pixels.FloatImage, error) {
	hdr := img.Header()
	axes := hdr.Axes()
	if len(axes) < 2 {
		// Primary HDUs of multi-extension files often carry no data
		return nil, nil
	}

	extra := 1
	for _, n := range axes[2:] {
		extra *= n
	}
	if extra != 1 {
		return nil, fmt.Errorf("expected a 2D image, got axes %v", axes)
	}

	shape := pixels.Shape{NSpec: axes[1], NSpat: axes[0]}
	if shape.NSpec <= 0 || shape.NSpat <= 0 {
		return nil, nil
	}
	if err := shape.Validate(); err != nil {
		return nil, err
	}

	n := shape.Size()
	result := pixels.NewFloatImage(shape)

	switch hdr.Bitpix() {
	case 8:
		raw := make([]byte, n)
		if err := img.Read(&raw); err != nil {
			return nil, err
		}
		for c, v := range raw {
			result.Data[c] = float64(v)
		}
	case 16:
		raw := make([]int16, n)
		if err := img.Read(&raw); err != nil {
			return nil, err
		}
		for c, v := range raw {
			result.Data[c] = float64(v)
		}
	case 32:
		raw := make([]int32, n)
		if err := img.Read(&raw); err != nil {
			return nil, err
		}
		for c, v := range raw {
			result.Data[c] = float64(v)
		}
	case 64:
		raw := make([]int64, n)
		if err := img.Read(&raw); err != nil {
			return nil, err
		}
		for c, v := range raw {
			result.Data[c] = float64(v)
		}
	case -32:
		raw := make([]float32, n)
		if err := img.Read(&raw); err != nil {
			return nil, err
		}
		for c, v := range raw {
			result.Data[c] = float64(v)
		}
	case -64:
		if err := img.Read(&result.Data); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported BITPIX %v", hdr.Bitpix())
	}

	applyScaling(hdr, result)
	return result, nil
}

// Physical value = BZERO + BSCALE * stored value
func applyScaling(hdr *fitsio.Header, img *pixels.FloatImage) {
	zero, scale := 0.0, 1.0
	if card := hdr.Get("BZERO"); card != nil {
		if v, err := metadata.AsFloat(card.Value); err == nil {
			zero = v
		}
	}
	if card := hdr.Get("BSCALE"); card != nil {
		if v, err := metadata.AsFloat(card.Value); err == nil {
			scale = v
		}
	}

	if zero == 0 && scale == 1 {
		return
	}
	for c, v := range img.Data {
		img.Data[c] = zero + scale*v
	}
}

// WriteFITS - writes img as a single 64-bit float primary HDU carrying the given cards. Layout
// cards (BITPIX, NAXISn...) in cards are ignored, the rest are written in name order.
func WriteFITS(w io.Writer, img *pixels.FloatImage, cards metadata.Header) error {
	if img == nil || !img.Valid() || len(img.Data) != img.Size() {
		return errors.New("WriteFITS needs a non-empty image")
	}

	f, err := fitsio.Create(w)
	if err != nil {
		return err
	}
	defer f.Close()

	hdu := fitsio.NewImage(-64, []int{img.NSpat, img.NSpec})
	defer hdu.Close()

	fitsCards := []fitsio.Card{}
	for _, key := range utils.GetSortedMapKeys(cards) {
		if structuralCards[strings.ToUpper(key)] {
			continue
		}
		fitsCards = append(fitsCards, fitsio.Card{Name: strings.ToUpper(key), Value: cards[key]})
	}

	err = hdu.Header().Append(fitsCards...)
	if err != nil {
		return errors.Wrap(err, "failed to add header cards")
	}

	err = hdu.Write(img.Data)
	if err != nil {
		return errors.Wrap(err, "failed to write pixels")
	}

	return f.Write(hdu)
}
