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

// Detector definitions for spectrograph cameras: geometry, amplifier electronics and the regions of
// the raw frame holding illuminated data versus overscan.
package detector

import (
	"fmt"

	"github.com/pkg/errors"
)

// Par - one detector (CCD) of a spectrograph. Per-amplifier values (gain, read noise, sections)
// are listed in amplifier order, amplifier 1 first.
type Par struct {
	DataExt       int       `json:"dataext" yaml:"dataext"`
	SpecAxis      int       `json:"specaxis" yaml:"specaxis"`           // 0 if spectra run along raw rows' first axis
	SpecFlip      bool      `json:"specflip" yaml:"specflip"`
	SpatFlip      bool      `json:"spatflip" yaml:"spatflip"`
	XGap          float64   `json:"xgap" yaml:"xgap"`
	YGap          float64   `json:"ygap" yaml:"ygap"`
	YSize         float64   `json:"ysize" yaml:"ysize"`
	PlateScale    float64   `json:"platescale" yaml:"platescale"`       // arcsec/pixel
	DarkCurr      float64   `json:"darkcurr" yaml:"darkcurr"`           // electrons/pixel/hour
	Saturation    float64   `json:"saturation" yaml:"saturation"`       // ADU
	NonLinear     float64   `json:"nonlinear" yaml:"nonlinear"`         // fraction of saturation where response stops being linear
	NumAmplifiers int       `json:"numamplifiers" yaml:"numamplifiers"`
	Gain          []float64 `json:"gain" yaml:"gain"`                   // electrons/ADU
	RONoise       []float64 `json:"ronoise" yaml:"ronoise"`             // electrons
	DataSec       []string  `json:"datasec" yaml:"datasec"`
	OscanSec      []string  `json:"oscansec" yaml:"oscansec"`
}

// NonLinearCounts - counts above which the detector response is no longer linear
func (p Par) NonLinearCounts() float64 {
	return p.NonLinear * p.Saturation
}

// Validate - checks the per-amplifier lists agree and the electronics values are usable
func (p Par) Validate() error {
	if p.SpecAxis != 0 && p.SpecAxis != 1 {
		return fmt.Errorf("specaxis must be 0 or 1, got %v", p.SpecAxis)
	}
	if p.NumAmplifiers < 1 {
		return fmt.Errorf("numamplifiers must be >= 1, got %v", p.NumAmplifiers)
	}
	if len(p.Gain) != p.NumAmplifiers || len(p.RONoise) != p.NumAmplifiers {
		return fmt.Errorf("expected %v gain and ronoise values, got %v and %v", p.NumAmplifiers, len(p.Gain), len(p.RONoise))
	}
	if len(p.DataSec) != p.NumAmplifiers || len(p.OscanSec) != p.NumAmplifiers {
		return fmt.Errorf("expected %v datasec and oscansec values, got %v and %v", p.NumAmplifiers, len(p.DataSec), len(p.OscanSec))
	}
	if p.Saturation <= 0 {
		return fmt.Errorf("saturation must be > 0, got %v", p.Saturation)
	}
	if p.NonLinear <= 0 || p.NonLinear > 1 {
		return fmt.Errorf("nonlinear must be in (0, 1], got %v", p.NonLinear)
	}

	for c, sec := range p.DataSec {
		if _, err := ParseSection(sec); err != nil {
			return errors.Wrapf(err, "datasec of amplifier %v", c+1)
		}
	}
	for c, sec := range p.OscanSec {
		if _, err := ParseSection(sec); err != nil {
			return errors.Wrapf(err, "oscansec of amplifier %v", c+1)
		}
	}

	return nil
}

// DataSections - parsed data sections, one per amplifier
func (p Par) DataSections() ([]Section, error) {
	return parseSections(p.DataSec)
}

// OverscanSections - parsed overscan sections, one per amplifier
func (p Par) OverscanSections() ([]Section, error) {
	return parseSections(p.OscanSec)
}

func parseSections(secs []string) ([]Section, error) {
	result := make([]Section, 0, len(secs))
	for _, s := range secs {
		sec, err := ParseSection(s)
		if err != nil {
			return nil, err
		}
		result = append(result, sec)
	}
	return result, nil
}
