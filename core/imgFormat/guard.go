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

package imgFormat

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/specrdx/core/core/pixels"
)

const (
	fitsBlockSize = 2880
	fitsCardSize  = 80
)

// sizeGuard - passes a FITS stream through unchanged but fails the read that completes a header
// describing more than pixels.MaxPixels data elements. The decoder allocates an HDU's data as
// soon as its header is read, so oversized files have to be stopped here.
type sizeGuard struct {
	r      io.Reader
	header []byte
	cards  map[string]int
	// Data bytes (plus padding) still to pass before the next header starts
	skip int64
	hdu  int
}

func newSizeGuard(r io.Reader) *sizeGuard {
	return &sizeGuard{r: r, cards: map[string]int{}}
}

func (g *sizeGuard) Read(p []byte) (int, error) {
	n, err := g.r.Read(p)
	if n > 0 {
		if scanErr := g.scan(p[:n]); scanErr != nil {
			return 0, scanErr
		}
	}
	return n, err
}

func (g *sizeGuard) scan(b []byte) error {
	for len(b) > 0 {
		if g.skip > 0 {
			step := int64(len(b))
			if step > g.skip {
				step = g.skip
			}
			g.skip -= step
			b = b[step:]
			continue
		}

		need := fitsBlockSize - len(g.header)
		if need > len(b) {
			need = len(b)
		}
		g.header = append(g.header, b[:need]...)
		b = b[need:]
		if len(g.header) < fitsBlockSize {
			return nil
		}

		end := g.readCards()
		g.header = g.header[:0]
		if end {
			size, err := g.dataSize()
			g.cards = map[string]int{}
			g.hdu++
			if err != nil {
				return err
			}
			g.skip = size
		}
	}
	return nil
}

// readCards - collects the integer layout cards of one header block, true once END is seen
func (g *sizeGuard) readCards() bool {
	for c := 0; c < fitsBlockSize/fitsCardSize; c++ {
		card := string(g.header[c*fitsCardSize : (c+1)*fitsCardSize])
		key := strings.TrimSpace(card[:8])
		if key == "END" {
			return true
		}
		if card[8:10] != "= " {
			continue
		}
		if key != "BITPIX" && key != "PCOUNT" && key != "GCOUNT" && !strings.HasPrefix(key, "NAXIS") {
			continue
		}

		val := card[10:]
		if i := strings.Index(val, "/"); i >= 0 {
			val = val[:i]
		}
		if v, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
			g.cards[key] = v
		}
	}
	return false
}

// dataSize - bytes of data following the header just read, padded to a whole block
func (g *sizeGuard) dataSize() (int64, error) {
	naxis := g.cards["NAXIS"]
	if naxis <= 0 {
		return 0, nil
	}

	axes := []int{}
	elements := 1
	for c := 1; c <= naxis && c <= 999; c++ {
		n := g.cards[fmt.Sprintf("NAXIS%v", c)]
		axes = append(axes, n)
		if n < 0 {
			return 0, errors.Wrapf(pixels.ErrInvalidShape, "HDU %v has axes %v", g.hdu, axes)
		}
		if n > 0 && elements > pixels.MaxPixels/n {
			return 0, errors.Wrapf(pixels.ErrInvalidShape, "HDU %v has axes %v, over %v pixels", g.hdu, axes, pixels.MaxPixels)
		}
		elements *= n
	}
	if elements == 0 {
		return 0, nil
	}

	pcount := g.cards["PCOUNT"]
	gcount, ok := g.cards["GCOUNT"]
	if !ok {
		gcount = 1
	}
	if pcount < 0 || pcount > pixels.MaxPixels || gcount < 1 {
		return 0, errors.Wrapf(pixels.ErrInvalidShape, "HDU %v has PCOUNT=%v, GCOUNT=%v", g.hdu, pcount, gcount)
	}

	total := int64(pcount) + int64(elements)
	if total > pixels.MaxPixels/int64(gcount) {
		return 0, errors.Wrapf(pixels.ErrInvalidShape, "HDU %v has axes %v, over %v pixels", g.hdu, axes, pixels.MaxPixels)
	}
	total *= int64(gcount)

	bitpix := g.cards["BITPIX"]
	if bitpix < 0 {
		bitpix = -bitpix
	}
	size := total * int64(bitpix/8)
	if pad := size % fitsBlockSize; pad > 0 {
		size += fitsBlockSize - pad
	}
	return size, nil
}
