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

package traceimage

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/specrdx/core/core/bpm"
	"github.com/specrdx/core/core/detector"
	"github.com/specrdx/core/core/imgFormat"
	"github.com/specrdx/core/core/logger"
	"github.com/specrdx/core/core/metadata"
	"github.com/specrdx/core/core/params"
	"github.com/specrdx/core/core/pixels"
	"github.com/specrdx/core/core/spectrograph"
	"github.com/stretchr/testify/assert"
)

type testDetectors struct {
	det detector.Par
}

func (d testDetectors) Name() string {
	return "test_spec"
}

func (d testDetectors) Detector(det int) (detector.Par, error) {
	if det != 1 {
		return detector.Par{}, errors.Wrapf(bpm.ErrInvalidDetector, "%v", det)
	}
	return d.det, nil
}

func makeDetector(datasec string, oscansec string, gain float64) testDetectors {
	return testDetectors{
		det: detector.Par{
			NumAmplifiers: 1,
			Saturation:    65535,
			NonLinear:     0.9,
			Gain:          []float64{gain},
			RONoise:       []float64{3},
			DataSec:       []string{datasec},
			OscanSec:      []string{oscansec},
		},
	}
}

func frameFromRows(rows [][]float64) *imgFormat.RawFrame {
	img := pixels.NewFloatImage(pixels.Shape{NSpec: len(rows), NSpat: len(rows[0])})
	for r, row := range rows {
		copy(img.Row(r), row)
	}
	return &imgFormat.RawFrame{Headers: []metadata.Header{{}}, Images: []*pixels.FloatImage{img}}
}

func mapLoader(frames map[string]*imgFormat.RawFrame) Loader {
	return func(file string) (*imgFormat.RawFrame, error) {
		f, ok := frames[file]
		if !ok {
			return nil, fmt.Errorf("no such file: %v", file)
		}
		return f, nil
	}
}

// 3x6 frame, data in the first 4 columns, overscan in the last 2. Row r has bias level 2+r.
func biasedFrame(signal float64) *imgFormat.RawFrame {
	rows := [][]float64{}
	for r := 0; r < 3; r++ {
		level := float64(2 + r)
		rows = append(rows, []float64{level + signal, level + signal, level + signal, level + signal, level, level})
	}
	return frameFromRows(rows)
}

func printImage(img *pixels.FloatImage) {
	for r := 0; r < img.NSpec; r++ {
		fmt.Println(img.Row(r))
	}
}

func Example_traceImage_BuildImage() {
	spec := makeDetector("[1:4,1:3]", "[5:6,1:3]", 2)
	files := []string{"flat1.fits", "flat2.fits", "flat3.fits"}
	load := mapLoader(map[string]*imgFormat.RawFrame{
		"flat1.fits": biasedFrame(8),
		"flat2.fits": biasedFrame(18),
		"flat3.fits": biasedFrame(7),
	})

	log := &logger.MemLogger{}
	trace, err := New(spec, files, 1, nil, log)
	fmt.Println(err, trace.NFiles())

	img, err := trace.BuildImage(load)
	fmt.Println(err, trace.ProcessSteps)
	printImage(img)
	fmt.Println(log.Lines)

	mean := params.Default().Calibrations.TraceFrame
	mean.Process.Combine = params.CombineMean
	trace, _ = New(spec, files, 1, &mean, nil)
	img, err = trace.BuildImage(load)
	fmt.Println(err, img.Row(0))

	// Output:
	// <nil> 3
	// <nil> [subtract_overscan apply_gain trim combine]
	// [16 16 16 16]
	// [16 16 16 16]
	// [16 16 16 16]
	// [INFO: Built test_spec trace image for det 1 from 3 file(s), shape (3, 4), steps: [subtract_overscan apply_gain trim combine]]
	// <nil> [22 22 22 22]
}

func TestOverscanGlobalMedian(t *testing.T) {
	// Overscan only covers row 2, data rows 0 and 1 get the median of the whole section
	spec := makeDetector("[1:4,1:2]", "[5:6,3:3]", 1)
	frame := frameFromRows([][]float64{
		{16, 16, 16, 16, 0, 0},
		{17, 16, 16, 15, 0, 0},
		{0, 0, 0, 0, 5, 7},
	})

	trace, err := New(spec, []string{"a.fits"}, 1, nil, nil)
	assert.NoError(t, err)

	img, err := trace.BuildImage(mapLoader(map[string]*imgFormat.RawFrame{"a.fits": frame}))
	assert.NoError(t, err)
	assert.Equal(t, []string{StepOverscan, StepGain, StepTrim}, trace.ProcessSteps)
	assert.Equal(t, pixels.Shape{NSpec: 2, NSpat: 4}, img.Shape)
	assert.Equal(t, []float64{10, 10, 10, 10, 11, 10, 10, 9}, img.Data)
	assert.Same(t, img, trace.Image)

	// Source frame is untouched
	assert.Equal(t, 16.0, frame.Images[0].At(0, 0))
}

func TestOrient(t *testing.T) {
	spec := makeDetector("[1:3,1:2]", "[1:1,1:1]", 1)
	spec.det.SpecAxis = 1
	spec.det.SpecFlip = true

	par := params.Default().Calibrations.TraceFrame
	par.Process.Overscan = params.OverscanNone
	par.Process.ApplyGain = false
	par.Process.Trim = false

	trace, err := New(spec, []string{"a.fits"}, 1, &par, nil)
	assert.NoError(t, err)

	img, err := trace.BuildImage(mapLoader(map[string]*imgFormat.RawFrame{
		"a.fits": frameFromRows([][]float64{{1, 2, 3}, {4, 5, 6}}),
	}))
	assert.NoError(t, err)
	assert.Equal(t, []string{StepOrient}, trace.ProcessSteps)
	assert.Equal(t, pixels.Shape{NSpec: 3, NSpat: 2}, img.Shape)
	assert.Equal(t, []float64{3, 6, 2, 5, 1, 4}, img.Data)

	assert.Equal(t, []float64{3, 2, 1, 6, 5, 4}, orient(frameFromRows([][]float64{{1, 2, 3}, {4, 5, 6}}).Images[0], false, false, true).Data)
}

func TestBuildImageErrors(t *testing.T) {
	spec := makeDetector("[1:4,1:3]", "[5:6,1:3]", 1)

	trace, err := New(spec, []string{}, 1, nil, nil)
	assert.NoError(t, err)
	assert.Equal(t, 0, trace.NFiles())
	_, err = trace.BuildImage(mapLoader(nil))
	assert.Equal(t, ErrNoFiles, err)

	_, err = New(spec, []string{"a.fits"}, 2, nil, nil)
	assert.Equal(t, bpm.ErrInvalidDetector, errors.Cause(err))

	bad := makeDetector("[1:4]", "[5:6,1:3]", 1)
	_, err = New(bad, []string{"a.fits"}, 1, nil, nil)
	assert.Equal(t, detector.ErrBadSection, errors.Cause(err))

	trace, _ = New(spec, []string{"a.fits", "missing.fits"}, 1, nil, nil)
	_, err = trace.BuildImage(mapLoader(map[string]*imgFormat.RawFrame{"a.fits": biasedFrame(1)}))
	assert.EqualError(t, err, "failed to load missing.fits: no such file: missing.fits")

	// Open-ended sections, so a taller frame trims to a taller image
	tall := makeDetector("[1:4,1:]", "[5:6,1:]", 1)
	small := frameFromRows([][]float64{{1, 1, 1, 1, 1, 1}, {1, 1, 1, 1, 1, 1}, {1, 1, 1, 1, 1, 1}, {1, 1, 1, 1, 1, 1}})
	trace, _ = New(tall, []string{"a.fits", "b.fits"}, 1, nil, nil)
	_, err = trace.BuildImage(mapLoader(map[string]*imgFormat.RawFrame{"a.fits": biasedFrame(1), "b.fits": small}))
	assert.EqualError(t, err, "b.fits has shape (4, 4) after processing, expected (3, 4)")

	noImage := &imgFormat.RawFrame{Headers: []metadata.Header{{}}, Images: []*pixels.FloatImage{nil}}
	trace, _ = New(spec, []string{"a.fits"}, 1, nil, nil)
	_, err = trace.BuildImage(mapLoader(map[string]*imgFormat.RawFrame{"a.fits": noImage}))
	assert.Equal(t, imgFormat.ErrNoImage, errors.Cause(err))

	par := params.Default().Calibrations.TraceFrame
	par.Process.Combine = "sum"
	trace, _ = New(spec, []string{"a.fits", "b.fits"}, 1, &par, nil)
	_, err = trace.BuildImage(mapLoader(map[string]*imgFormat.RawFrame{"a.fits": biasedFrame(1), "b.fits": biasedFrame(2)}))
	assert.Equal(t, params.ErrInvalidParameter, errors.Cause(err))

	outside := makeDetector("[1:4,1:3]", "[50:60,1:3]", 1)
	trace, _ = New(outside, []string{"a.fits"}, 1, nil, nil)
	_, err = trace.BuildImage(mapLoader(map[string]*imgFormat.RawFrame{"a.fits": biasedFrame(1)}))
	assert.Error(t, err)
}

func TestMagETraceImage(t *testing.T) {
	mage, err := spectrograph.Load("magellan_mage")
	assert.NoError(t, err)

	// Raw MagE frames are 1152 x 2176 with a 1024 x 2048 data section and the overscan in the
	// opposite corner, so the whole data section is corrected by the overscan median
	shape := pixels.Shape{NSpec: 1152, NSpat: 2176}
	makeFrame := func(signal float64) *imgFormat.RawFrame {
		img := pixels.NewFloatImage(shape)
		for c := range img.Data {
			img.Data[c] = 100
		}
		for r := 0; r < 1024; r++ {
			row := img.Row(r)
			for c := 0; c < 2048; c++ {
				row[c] += signal
			}
		}
		return &imgFormat.RawFrame{Headers: []metadata.Header{{}}, Images: []*pixels.FloatImage{img}}
	}

	trace, err := New(mage, []string{"mage1.fits", "mage2.fits"}, 1, nil, nil)
	assert.NoError(t, err)

	img, err := trace.BuildImage(mapLoader(map[string]*imgFormat.RawFrame{"mage1.fits": makeFrame(1000), "mage2.fits": makeFrame(2000)}))
	assert.NoError(t, err)
	for _, step := range []string{StepOverscan, StepGain} {
		assert.Contains(t, trace.ProcessSteps, step)
	}
	assert.Equal(t, pixels.Shape{NSpec: 1024, NSpat: 2048}, img.Shape)
	assert.InDelta(t, 1500*1.02, img.At(0, 0), 1e-9)
	assert.InDelta(t, 1500*1.02, img.At(1023, 2047), 1e-9)
}
