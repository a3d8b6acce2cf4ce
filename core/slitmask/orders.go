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

package slitmask

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/specrdx/core/core/binning"
)

var (
	// ErrSlitOutOfRange - slit label is negative or beyond the order table
	ErrSlitOutOfRange = errors.New("slit index out of range")
	// ErrInvalidSlitType - slit label given as something that isn't an integer
	ErrInvalidSlitType = errors.New("slit index is not an integer")
)

// OrderTable - physical echelle order number and unbinned plate scale (arcsec/pixel) of each
// slit label, label 0 being the leftmost order on the detector
type OrderTable struct {
	Orders     []int     `json:"orders" yaml:"orders"`
	PlateScale []float64 `json:"platescale" yaml:"platescale"`
}

// Validate - the table must list norders distinct orders, each with a plate scale
func (t OrderTable) Validate(norders int) error {
	if len(t.Orders) != norders {
		return fmt.Errorf("order table lists %v orders, expected %v", len(t.Orders), norders)
	}
	if len(t.PlateScale) != norders {
		return fmt.Errorf("plate scale table has %v entries, expected %v", len(t.PlateScale), norders)
	}

	seen := map[int]int{}
	for c, order := range t.Orders {
		if prev, ok := seen[order]; ok {
			return fmt.Errorf("order %v appears at both slit %v and slit %v", order, prev, c)
		}
		seen[order] = c
	}

	for c, ps := range t.PlateScale {
		if ps <= 0 || math.IsNaN(ps) {
			return fmt.Errorf("plate scale of slit %v must be > 0, got %v", c, ps)
		}
	}
	return nil
}

// SlitToOrder - physical order number of slit label islit
func (t OrderTable) SlitToOrder(islit int) (int, error) {
	if islit < 0 || islit >= len(t.Orders) {
		return 0, errors.Wrapf(ErrSlitOutOfRange, "slit %v, instrument has %v orders", islit, len(t.Orders))
	}
	return t.Orders[islit], nil
}

// SlitsToOrders - SlitToOrder over a list of labels
func (t OrderTable) SlitsToOrders(islits []int) ([]int, error) {
	result := make([]int, len(islits))
	for c, islit := range islits {
		order, err := t.SlitToOrder(islit)
		if err != nil {
			return nil, err
		}
		result[c] = order
	}
	return result, nil
}

// SlitToOrderValue - SlitToOrder for labels that arrive untyped (decoded JSON, query strings).
// Integer kinds, integral floats and integer strings are accepted.
func (t OrderTable) SlitToOrderValue(v interface{}) (int, error) {
	islit, err := SlitIndex(v)
	if err != nil {
		return 0, err
	}
	return t.SlitToOrder(islit)
}

// SlitIndex - converts an untyped slit label to an int
func SlitIndex(v interface{}) (int, error) {
	switch val := v.(type) {
	case nil:
		return 0, errors.Wrap(ErrInvalidSlitType, "<nil>")
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return 0, errors.Wrapf(ErrInvalidSlitType, "%q", val)
		}
		return i, nil
	case json.Number:
		i, err := strconv.Atoi(val.String())
		if err != nil {
			return 0, errors.Wrapf(ErrInvalidSlitType, "%v", val)
		}
		return i, nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
			return 0, errors.Wrapf(ErrInvalidSlitType, "%v", f)
		}
		return int(f), nil
	}

	return 0, errors.Wrapf(ErrInvalidSlitType, "%v (%T)", v, v)
}

// OrderPlateScale - arcsec/pixel of every order for a frame read out with the given binning
func (t OrderTable) OrderPlateScale(bin binning.Binning) []float64 {
	spat := bin.Spat
	if spat < 1 {
		spat = 1
	}

	result := make([]float64, len(t.PlateScale))
	for c, ps := range t.PlateScale {
		result[c] = ps * float64(spat)
	}
	return result
}
