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

package spectrograph

import (
	"github.com/specrdx/core/core/binning"
	"github.com/specrdx/core/core/bpm"
	"github.com/specrdx/core/core/logger"
	"github.com/specrdx/core/core/pixels"
	"github.com/specrdx/core/core/slitmask"
)

// The instrument-specific behaviours. An asset names one function of each kind in its strategies
// section, and Load resolves the names against these tables.

// BPMStrategy - builds the bad pixel mask of detector det
type BPMStrategy func(s *Spectrograph, shape pixels.Shape, det int, log logger.ILogger) (*bpm.Mask, error)

// SlitMaskStrategy - builds the order label image from traced slit edges
type SlitMaskStrategy func(s *Spectrograph, slits slitmask.TraceSlits, pad float64, bin binning.Binning) (*pixels.IntImage, error)

// PlateScaleStrategy - per-order plate scale for frames read out with bin
type PlateScaleStrategy func(s *Spectrograph, bin binning.Binning) []float64

// Strategies - names of the strategy functions an instrument uses
type Strategies struct {
	BPM        string `json:"bpm" yaml:"bpm"`
	SlitMask   string `json:"slitmask" yaml:"slitmask"`
	PlateScale string `json:"platescale" yaml:"platescale"`
}

var bpmStrategies = map[string]BPMStrategy{
	// All-good mask
	"empty": func(s *Spectrograph, shape pixels.Shape, det int, log logger.ILogger) (*bpm.Mask, error) {
		return bpm.Build(shape, det, nil)
	},
	// Mask the fixed defect regions listed in the asset
	"regions": func(s *Spectrograph, shape pixels.Shape, det int, log logger.ILogger) (*bpm.Mask, error) {
		log.Infof("Custom bad pixel mask for %v", s.desc.Camera)
		return bpm.Build(shape, det, s.desc.BadPixels)
	},
}

var slitMaskStrategies = map[string]SlitMaskStrategy{
	// Labels straight from the traces
	"traces": func(s *Spectrograph, slits slitmask.TraceSlits, pad float64, bin binning.Binning) (*pixels.IntImage, error) {
		slits.Pad = pad
		return slits.BaseMask()
	},
	// Labels from the traces, then orders cut back to their illuminated spectral range
	"illumination": func(s *Spectrograph, slits slitmask.TraceSlits, pad float64, bin binning.Binning) (*pixels.IntImage, error) {
		slits.Pad = pad
		img, err := slits.BaseMask()
		if err != nil {
			return nil, err
		}
		if err := slitmask.ClipUnilluminated(img, s.desc.Illumination, bin); err != nil {
			return nil, err
		}
		return img, nil
	},
}

var plateScaleStrategies = map[string]PlateScaleStrategy{
	// Table values scale with spatial binning
	"binned": func(s *Spectrograph, bin binning.Binning) []float64 {
		return s.desc.Orders.OrderPlateScale(bin)
	},
	// Instrument can't bin, table values always apply
	"fixed": func(s *Spectrograph, bin binning.Binning) []float64 {
		return s.desc.Orders.OrderPlateScale(binning.None)
	},
}
