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

package metadata

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/specrdx/core/core/binning"
)

// Derivation - computes a compound metadata value from the full header list
type Derivation func(headers []Header, rule Rule) (interface{}, error)

// Derivations - registered derivations, by the name used in instrument assets. Not modified after init.
var Derivations = map[string]Derivation{
	// One card holding "<spatial>x<spectral>", eg MagE BINNING = '1x1'
	"binning_card": deriveBinningCard,
	// Two cards, spatial binning then spectral binning, eg CCDBIN1/CCDBIN2
	"binning_xy": deriveBinningXY,
	// Instruments that never bin
	"binning_none": deriveBinningNone,
}

func deriveBinningCard(headers []Header, rule Rule) (interface{}, error) {
	if len(rule.Cards) != 1 {
		return nil, fmt.Errorf("binning_card needs exactly 1 card, got %v", len(rule.Cards))
	}

	raw, err := Card(headers, rule.Ext, rule.Cards[0])
	if err != nil {
		return nil, err
	}

	binspatial, binspec, err := binning.Parse(fmt.Sprintf("%v", raw))
	if err != nil {
		return nil, err
	}
	return binning.ToString(binspec, binspatial), nil
}

func deriveBinningXY(headers []Header, rule Rule) (interface{}, error) {
	if len(rule.Cards) != 2 {
		return nil, fmt.Errorf("binning_xy needs exactly 2 cards, got %v", len(rule.Cards))
	}

	factors := []int{}
	for _, card := range rule.Cards {
		raw, err := Card(headers, rule.Ext, card)
		if err != nil {
			return nil, err
		}
		v, err := AsInt(raw)
		if err != nil || v < 1 {
			return nil, errors.Wrapf(binning.ErrBadBinning, "card %v = %v", card, raw)
		}
		factors = append(factors, v)
	}

	return binning.ToString(factors[1], factors[0]), nil
}

func deriveBinningNone(headers []Header, rule Rule) (interface{}, error) {
	return binning.None.String(), nil
}
