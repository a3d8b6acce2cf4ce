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

package detector

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/specrdx/core/core/pixels"
)

// ErrBadSection - a detector section string could not be parsed
var ErrBadSection = errors.New("invalid detector section")

// Range - half-open, zero-based pixel range. Stop < 0 means "to the end of the axis"
type Range struct {
	Start int
	Stop  int
}

// Resolve - converts to concrete bounds for an axis of length n
func (r Range) Resolve(n int) (int, int) {
	start, stop := r.Start, r.Stop
	if stop < 0 || stop > n {
		stop = n
	}
	if start > stop {
		start = stop
	}
	return start, stop
}

// Section - region of a raw frame in raw (row, column) orientation
type Section struct {
	Rows Range
	Cols Range
}

// ParseSection - reads a FITS-style section string "[x1:x2,y1:y2]". FITS sections are one-based,
// inclusive and list the column (NAXIS1) range first, so "[1:2048,1:1024]" becomes rows [0,1024)
// and columns [0,2048). Either bound may be left empty to mean the start or end of the axis.
func ParseSection(sec string) (Section, error) {
	txt := strings.TrimSpace(sec)
	if !strings.HasPrefix(txt, "[") || !strings.HasSuffix(txt, "]") {
		return Section{}, errors.Wrapf(ErrBadSection, "%q: missing brackets", sec)
	}

	axes := strings.Split(txt[1:len(txt)-1], ",")
	if len(axes) != 2 {
		return Section{}, errors.Wrapf(ErrBadSection, "%q: expected 2 axes, got %v", sec, len(axes))
	}

	cols, err := parseFITSRange(axes[0])
	if err != nil {
		return Section{}, errors.Wrapf(ErrBadSection, "%q: %v", sec, err)
	}
	rows, err := parseFITSRange(axes[1])
	if err != nil {
		return Section{}, errors.Wrapf(ErrBadSection, "%q: %v", sec, err)
	}

	return Section{Rows: rows, Cols: cols}, nil
}

func parseFITSRange(axis string) (Range, error) {
	txt := strings.TrimSpace(axis)
	if txt == "*" || txt == ":" {
		return Range{Start: 0, Stop: -1}, nil
	}

	bounds := strings.Split(txt, ":")
	if len(bounds) != 2 {
		return Range{}, fmt.Errorf("range %q is not of the form a:b", txt)
	}

	result := Range{Start: 0, Stop: -1}
	if s := strings.TrimSpace(bounds[0]); len(s) > 0 {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return Range{}, fmt.Errorf("bad range start %q", s)
		}
		result.Start = v - 1
	}
	if s := strings.TrimSpace(bounds[1]); len(s) > 0 {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return Range{}, fmt.Errorf("bad range end %q", s)
		}
		// One-based inclusive end == zero-based exclusive end
		result.Stop = v
	}

	if result.Stop >= 0 && result.Stop <= result.Start {
		return Range{}, fmt.Errorf("range %q is empty or reversed", txt)
	}
	return result, nil
}

// Bounds - concrete half-open row and column bounds of the section in an image of the given shape
func (s Section) Bounds(shape pixels.Shape) (row0, row1, col0, col1 int) {
	row0, row1 = s.Rows.Resolve(shape.NSpec)
	col0, col1 = s.Cols.Resolve(shape.NSpat)
	return
}

func (s Section) String() string {
	end := func(v int) string {
		if v < 0 {
			return ""
		}
		return strconv.Itoa(v)
	}
	return fmt.Sprintf("[%v:%v,%v:%v]", s.Cols.Start+1, end(s.Cols.Stop), s.Rows.Start+1, end(s.Rows.Stop))
}

// DataSecImage - labels each pixel of a raw frame with the (one-based) amplifier whose data section
// covers it, 0 for pixels outside every data section
func DataSecImage(shape pixels.Shape, sections []Section) *pixels.IntImage {
	img := pixels.NewIntImage(shape, 0)
	for amp, sec := range sections {
		row0, row1, col0, col1 := sec.Bounds(shape)
		for r := row0; r < row1; r++ {
			for c := col0; c < col1; c++ {
				img.Set(r, c, amp+1)
			}
		}
	}
	return img
}
