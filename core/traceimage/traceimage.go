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

// Package traceimage builds the combined flat-field image used to trace slit and order edges. Each
// raw frame is overscan subtracted, gain corrected, trimmed to its data sections and oriented so
// rows run along the spectral axis before all frames are combined pixel by pixel.
package traceimage

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/specrdx/core/core/detector"
	"github.com/specrdx/core/core/imgFormat"
	"github.com/specrdx/core/core/logger"
	"github.com/specrdx/core/core/params"
	"github.com/specrdx/core/core/pixels"
)

// ErrNoFiles - BuildImage was called with nothing to combine
var ErrNoFiles = errors.New("no files to build trace image from")

// Processing step names, as recorded in ProcessSteps
const (
	StepOverscan = "subtract_overscan"
	StepGain     = "apply_gain"
	StepTrim     = "trim"
	StepOrient   = "orient"
	StepCombine  = "combine"
)

// DetectorSource - provides the detector layout for an instrument, satisfied by
// *spectrograph.Spectrograph
type DetectorSource interface {
	Name() string
	Detector(det int) (detector.Par, error)
}

// Loader - reads one raw frame by file name
type Loader func(file string) (*imgFormat.RawFrame, error)

type TraceImage struct {
	Files []string
	// Detector number, from 1
	Det     int
	Process params.ProcessPar

	// Filled by BuildImage
	Image        *pixels.FloatImage
	ProcessSteps []string

	detPar     detector.Par
	dataSecs   []detector.Section
	oscanSecs  []detector.Section
	instrument string
	log        logger.ILogger
}

// New - prepares a trace image for det of the given instrument. If par is nil the defaults for
// trace frames are used.
func New(spec DetectorSource, files []string, det int, par *params.FrameGroupPar, log logger.ILogger) (*TraceImage, error) {
	detPar, err := spec.Detector(det)
	if err != nil {
		return nil, err
	}

	dataSecs, err := detPar.DataSections()
	if err != nil {
		return nil, err
	}
	oscanSecs, err := detPar.OverscanSections()
	if err != nil {
		return nil, err
	}

	process := params.Default().Calibrations.TraceFrame.Process
	if par != nil {
		process = par.Process
	}

	if log == nil {
		log = &logger.NullLogger{}
	}

	return &TraceImage{
		Files:      append([]string{}, files...),
		Det:        det,
		Process:    process,
		detPar:     detPar,
		dataSecs:   dataSecs,
		oscanSecs:  oscanSecs,
		instrument: spec.Name(),
		log:        log,
	}, nil
}

func (t *TraceImage) NFiles() int {
	return len(t.Files)
}

// BuildImage - loads, processes and combines every file. The result is also stored in t.Image.
func (t *TraceImage) BuildImage(load Loader) (*pixels.FloatImage, error) {
	if len(t.Files) <= 0 {
		return nil, ErrNoFiles
	}

	t.ProcessSteps = []string{}
	processed := []*pixels.FloatImage{}

	for c, file := range t.Files {
		frame, err := load(file)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to load %v", file)
		}

		raw, err := frame.Image(t.detPar.DataExt)
		if err != nil {
			return nil, errors.Wrapf(err, "%v", file)
		}

		img, steps, err := t.processFrame(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to process %v", file)
		}

		if c == 0 {
			t.ProcessSteps = steps
		} else if img.Shape != processed[0].Shape {
			return nil, fmt.Errorf("%v has shape %v after processing, expected %v", file, img.Shape, processed[0].Shape)
		}

		processed = append(processed, img)
	}

	result := processed[0]
	if len(processed) > 1 {
		var err error
		result, err = combine(processed, t.Process.Combine)
		if err != nil {
			return nil, err
		}
		t.ProcessSteps = append(t.ProcessSteps, StepCombine)
	}

	t.log.Infof("Built %v trace image for det %v from %v file(s), shape %v, steps: %v", t.instrument, t.Det, len(processed), result.Shape, t.ProcessSteps)

	t.Image = result
	return result, nil
}

func (t *TraceImage) processFrame(raw *pixels.FloatImage) (*pixels.FloatImage, []string, error) {
	steps := []string{}

	// Work on a copy, loaders may cache frames
	img := pixels.NewFloatImage(raw.Shape)
	copy(img.Data, raw.Data)

	if t.Process.Overscan != params.OverscanNone {
		if err := subtractOverscan(img, t.dataSecs, t.oscanSecs); err != nil {
			return nil, nil, err
		}
		steps = append(steps, StepOverscan)
	}

	if t.Process.ApplyGain {
		applyGain(img, t.dataSecs, t.detPar.Gain)
		steps = append(steps, StepGain)
	}

	if t.Process.Trim {
		var err error
		img, err = trim(img, t.dataSecs)
		if err != nil {
			return nil, nil, err
		}
		steps = append(steps, StepTrim)
	}

	if t.detPar.SpecAxis == 1 || t.detPar.SpecFlip || t.detPar.SpatFlip {
		img = orient(img, t.detPar.SpecAxis == 1, t.detPar.SpecFlip, t.detPar.SpatFlip)
		steps = append(steps, StepOrient)
	}

	return img, steps, nil
}
