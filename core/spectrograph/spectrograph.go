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

// Package spectrograph is the generic engine answering per-instrument questions: default processing
// parameters, metadata extraction, frame typing, bad pixel masks, order label images, order numbers
// and plate scales. Everything instrument-specific comes from a versioned asset file (see assets/)
// holding the constant tables plus the names of the strategy functions the instrument uses.
package spectrograph

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/specrdx/core/core/binning"
	"github.com/specrdx/core/core/bpm"
	"github.com/specrdx/core/core/detector"
	"github.com/specrdx/core/core/framematch"
	"github.com/specrdx/core/core/logger"
	"github.com/specrdx/core/core/metadata"
	"github.com/specrdx/core/core/params"
	"github.com/specrdx/core/core/pixels"
	"github.com/specrdx/core/core/semanticversion"
	"github.com/specrdx/core/core/slitmask"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

// descriptor - the asset file contents
type descriptor struct {
	Name         string                       `yaml:"name"`
	Version      string                       `yaml:"version"`
	Camera       string                       `yaml:"camera"`
	Telescope    string                       `yaml:"telescope"`
	Pipeline     string                       `yaml:"pipeline"`
	NumHead      int                          `yaml:"numhead"`
	NOrders      int                          `yaml:"norders"`
	Detectors    []detector.Par               `yaml:"detectors"`
	Meta         metadata.Schema              `yaml:"meta"`
	FrameTypes   framematch.Rules             `yaml:"frametypes"`
	Strategies   Strategies                   `yaml:"strategies"`
	BadPixels    []bpm.Region                 `yaml:"bpm"`
	Illumination []*slitmask.IlluminatedRange `yaml:"illumination"`
	Orders       slitmask.OrderTable          `yaml:"orders"`
	Par          yaml.Node                    `yaml:"par"`
}

// Spectrograph - one loaded instrument. Read-only after Load, so safe to share between goroutines.
type Spectrograph struct {
	desc      descriptor
	version   semanticversion.SemanticVersion
	telescope TelescopePar

	bpm        BPMStrategy
	slitMask   SlitMaskStrategy
	plateScale PlateScaleStrategy
}

// Profile - summary of an instrument, as shown to API users
type Profile struct {
	Name       string          `json:"name"`
	Version    string          `json:"version"`
	Camera     string          `json:"camera"`
	Telescope  TelescopePar    `json:"telescope"`
	Pipeline   string          `json:"pipeline"`
	NumHead    int             `json:"numhead"`
	NOrders    int             `json:"norders"`
	Detectors  []detector.Par  `json:"detectors"`
	Meta       metadata.Schema `json:"meta"`
	Strategies Strategies      `json:"strategies"`
}

func (s *Spectrograph) Name() string {
	return s.desc.Name
}

func (s *Spectrograph) Version() semanticversion.SemanticVersion {
	return s.version
}

func (s *Spectrograph) Camera() string {
	return s.desc.Camera
}

func (s *Spectrograph) Telescope() TelescopePar {
	return s.telescope
}

// Pipeline - reduction pipeline type, eg "Echelle"
func (s *Spectrograph) Pipeline() string {
	return s.desc.Pipeline
}

// NumHead - number of header/data units in a raw file
func (s *Spectrograph) NumHead() int {
	return s.desc.NumHead
}

func (s *Spectrograph) NOrders() int {
	return s.desc.NOrders
}

func (s *Spectrograph) NDet() int {
	return len(s.desc.Detectors)
}

// Detector - parameters of detector det, numbered from 1
func (s *Spectrograph) Detector(det int) (detector.Par, error) {
	if det < 1 || det > len(s.desc.Detectors) {
		return detector.Par{}, errors.Wrapf(bpm.ErrInvalidDetector, "%v, %v has %v detector(s)", det, s.desc.Name, len(s.desc.Detectors))
	}
	return copyDetector(s.desc.Detectors[det-1]), nil
}

func copyDetector(d detector.Par) detector.Par {
	d.Gain = slices.Clone(d.Gain)
	d.RONoise = slices.Clone(d.RONoise)
	d.DataSec = slices.Clone(d.DataSec)
	d.OscanSec = slices.Clone(d.OscanSec)
	return d
}

// MetaSchema - copy of the metadata extraction rules
func (s *Spectrograph) MetaSchema() metadata.Schema {
	result := metadata.Schema{}
	for k, v := range s.desc.Meta {
		v.Cards = slices.Clone(v.Cards)
		result[k] = v
	}
	return result
}

// OrderTable - copy of the order number and plate scale tables
func (s *Spectrograph) OrderTable() slitmask.OrderTable {
	return slitmask.OrderTable{
		Orders:     slices.Clone(s.desc.Orders.Orders),
		PlateScale: slices.Clone(s.desc.Orders.PlateScale),
	}
}

func (s *Spectrograph) Profile() Profile {
	dets := make([]detector.Par, len(s.desc.Detectors))
	for c, d := range s.desc.Detectors {
		dets[c] = copyDetector(d)
	}

	return Profile{
		Name:       s.desc.Name,
		Version:    s.version.String(),
		Camera:     s.desc.Camera,
		Telescope:  s.telescope,
		Pipeline:   s.desc.Pipeline,
		NumHead:    s.desc.NumHead,
		NOrders:    s.desc.NOrders,
		Detectors:  dets,
		Meta:       s.MetaSchema(),
		Strategies: s.desc.Strategies,
	}
}

// DefaultPar - the complete, validated parameter tree for this instrument: system defaults, then
// the instrument's overrides, then values derived from the detector
func (s *Spectrograph) DefaultPar() (params.Par, error) {
	par := params.Default()
	par.Rdx.Spectrograph = s.desc.Name
	par.Rdx.Pipeline = s.desc.Pipeline

	par, err := params.ApplyNode(par, &s.desc.Par)
	if err != nil {
		return params.Par{}, errors.Wrapf(err, "%v parameters", s.desc.Name)
	}

	par.Calibrations.Wavelengths.NonLinearCounts = s.desc.Detectors[0].NonLinearCounts()

	if err := par.Validate(); err != nil {
		return params.Par{}, errors.Wrapf(err, "%v default parameters", s.desc.Name)
	}
	return par, nil
}

// Par - DefaultPar with a user override file (YAML or JSON) applied on top
func (s *Spectrograph) Par(overrides []byte) (params.Par, error) {
	par, err := s.DefaultPar()
	if err != nil {
		return par, err
	}

	par, err = params.ApplyOverrides(par, overrides)
	if err != nil {
		return par, err
	}
	return par, par.Validate()
}

// GetMeta - value of one canonical metadata key for a raw frame
func (s *Spectrograph) GetMeta(headers []metadata.Header, key string) (interface{}, error) {
	return s.desc.Meta.Get(headers, key)
}

// Meta - every metadata value this instrument defines for a raw frame
func (s *Spectrograph) Meta(headers []metadata.Header, log logger.ILogger) (map[string]interface{}, error) {
	if len(headers) < s.desc.NumHead {
		log.Warnf("%v expects %v headers, frame has %v", s.desc.Name, s.desc.NumHead, len(headers))
	}
	return s.desc.Meta.Extract(headers, log)
}

// FrameRow - frame table row for one raw file
func (s *Spectrograph) FrameRow(filename string, headers []metadata.Header, log logger.ILogger) (framematch.FrameRow, error) {
	meta, err := s.Meta(headers, log)
	if err != nil {
		return framematch.FrameRow{}, errors.Wrapf(err, "%v", filename)
	}

	row := framematch.FrameRow{Filename: filename, Meta: meta}
	if v, ok := meta[metadata.KeyIDName]; ok {
		row.IDName = metadata.AsString(v)
	}
	if v, ok := meta[metadata.KeyExpTime]; ok {
		exptime, err := metadata.AsFloat(v)
		if err != nil {
			return framematch.FrameRow{}, errors.Wrapf(err, "%v exposure time", filename)
		}
		row.ExpTime = &exptime
	}
	return row, nil
}

// CheckFrameType - selection mask of the rows of table that are of type ftype. rng is the exposure
// range configured for ftype, usually from DefaultPar().ExposureRanges().
func (s *Spectrograph) CheckFrameType(ftype framematch.FrameType, table framematch.FrameTable, rng framematch.ExposureRange) ([]bool, error) {
	return s.desc.FrameTypes.Check(ftype, table, rng)
}

// TypeFrames - assigns frame types to every row using the exposure ranges from par
func (s *Spectrograph) TypeFrames(table framematch.FrameTable, par params.Par) (framematch.FrameTable, error) {
	return framematch.TypeFrames(table, s.desc.FrameTypes, par.ExposureRanges())
}

// BPM - bad pixel mask of detector det (numbered from 1) for a raw frame of the given shape
func (s *Spectrograph) BPM(shape pixels.Shape, det int, log logger.ILogger) (*bpm.Mask, error) {
	if det < 1 || det > len(s.desc.Detectors) {
		return nil, errors.Wrapf(bpm.ErrInvalidDetector, "%v, %v has %v detector(s)", det, s.desc.Name, len(s.desc.Detectors))
	}
	return s.bpm(s, shape, det, log)
}

// SlitMask - order label image from traced slit edges. A nil pad uses the traces' own pad.
func (s *Spectrograph) SlitMask(slits slitmask.TraceSlits, pad *float64, bin binning.Binning) (*pixels.IntImage, error) {
	p := slits.Pad
	if pad != nil {
		p = *pad
	}
	if slits.NSlits() > s.desc.NOrders {
		return nil, fmt.Errorf("%v traced slits but %v has %v orders", slits.NSlits(), s.desc.Name, s.desc.NOrders)
	}
	return s.slitMask(s, slits, p, bin)
}

// SlitToOrder - physical echelle order number of slit label islit
func (s *Spectrograph) SlitToOrder(islit int) (int, error) {
	return s.desc.Orders.SlitToOrder(islit)
}

// SlitToOrderValue - SlitToOrder for an untyped label, see slitmask.SlitIndex
func (s *Spectrograph) SlitToOrderValue(islit interface{}) (int, error) {
	return s.desc.Orders.SlitToOrderValue(islit)
}

// OrderPlateScale - arcsec/pixel of every order, for frames read out with bin
func (s *Spectrograph) OrderPlateScale(bin binning.Binning) []float64 {
	return s.plateScale(s, bin)
}
