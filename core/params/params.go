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

// Package params is the processing parameter tree of a reduction: how many frames of each type to
// combine, exposure time ranges used to type frames, wavelength solution and slit tracing knobs,
// flexure and flux calibration choices.
//
// A tree is built in layers: Default() system values, then instrument overrides, then a user
// override file via ApplyOverrides. Validate must pass before a reduction uses it.
package params

import (
	"bytes"
	"fmt"

	"github.com/pkg/errors"
	"github.com/specrdx/core/core/framematch"
	"gopkg.in/yaml.v3"
)

// ErrInvalidParameter - a parameter is unset or outside its allowed values
var ErrInvalidParameter = errors.New("invalid parameter")

type Par struct {
	Rdx          RdxPar          `json:"rdx" yaml:"rdx"`
	Calibrations CalibrationsPar `json:"calibrations" yaml:"calibrations"`
	ScienceFrame FrameGroupPar   `json:"scienceframe" yaml:"scienceframe"`
	ScienceImage ScienceImagePar `json:"scienceimage" yaml:"scienceimage"`
	Flexure      FlexurePar      `json:"flexure" yaml:"flexure"`
	FluxCalib    FluxCalibPar    `json:"fluxcalib" yaml:"fluxcalib"`
}

type RdxPar struct {
	Spectrograph string `json:"spectrograph" yaml:"spectrograph"`
	Pipeline     string `json:"pipeline" yaml:"pipeline"`
	DetNum       []int  `json:"detnum,omitempty" yaml:"detnum"` // empty reduces every detector
}

// ProcessPar - how raw frames of one type are processed and combined
type ProcessPar struct {
	Overscan  string  `json:"overscan" yaml:"overscan"`
	Trim      bool    `json:"trim" yaml:"trim"`
	ApplyGain bool    `json:"apply_gain" yaml:"apply_gain"`
	Combine   string  `json:"combine" yaml:"combine"`
	SigClip   float64 `json:"sigclip" yaml:"sigclip"`
	SatPix    string  `json:"satpix" yaml:"satpix"`
}

// FrameGroupPar - settings for one calibration (or science) frame type
type FrameGroupPar struct {
	Number   int                      `json:"number" yaml:"number"`
	UseFrame string                   `json:"useframe,omitempty" yaml:"useframe"`
	ExpRng   framematch.ExposureRange `json:"exprng" yaml:"exprng"`
	Process  ProcessPar               `json:"process" yaml:"process"`
}

type WavelengthsPar struct {
	Method          string   `json:"method" yaml:"method"`
	Lamps           []string `json:"lamps" yaml:"lamps"`
	RMSThreshold    float64  `json:"rms_threshold" yaml:"rms_threshold"`
	SigDetect       float64  `json:"sigdetect" yaml:"sigdetect"`
	NonLinearCounts float64  `json:"nonlinear_counts" yaml:"nonlinear_counts"`
	ReidArxiv       string   `json:"reid_arxiv,omitempty" yaml:"reid_arxiv"`
	Echelle         bool     `json:"echelle" yaml:"echelle"`
	EchFixFormat    bool     `json:"ech_fix_format" yaml:"ech_fix_format"`
	EchNSpecCoeff   int      `json:"ech_nspec_coeff" yaml:"ech_nspec_coeff"`
	EchNOrderCoeff  int      `json:"ech_norder_coeff" yaml:"ech_norder_coeff"`
	EchSigRej       float64  `json:"ech_sigrej" yaml:"ech_sigrej"`
}

type TiltsPar struct {
	// One value applies to every order/slit, otherwise one value per order
	TraceThresh []float64 `json:"tracethresh" yaml:"tracethresh"`
}

type SlitsPar struct {
	TraceNPoly int     `json:"trace_npoly" yaml:"trace_npoly"`
	MaxShift   float64 `json:"maxshift" yaml:"maxshift"`
	PCAType    string  `json:"pcatype" yaml:"pcatype"`
	SigDetect  float64 `json:"sigdetect" yaml:"sigdetect"`
}

type CalibrationsPar struct {
	BiasFrame      FrameGroupPar  `json:"biasframe" yaml:"biasframe"`
	DarkFrame      FrameGroupPar  `json:"darkframe" yaml:"darkframe"`
	ArcFrame       FrameGroupPar  `json:"arcframe" yaml:"arcframe"`
	TiltFrame      FrameGroupPar  `json:"tiltframe" yaml:"tiltframe"`
	PixelFlatFrame FrameGroupPar  `json:"pixelflatframe" yaml:"pixelflatframe"`
	PinholeFrame   FrameGroupPar  `json:"pinholeframe" yaml:"pinholeframe"`
	TraceFrame     FrameGroupPar  `json:"traceframe" yaml:"traceframe"`
	StandardFrame  FrameGroupPar  `json:"standardframe" yaml:"standardframe"`
	Wavelengths    WavelengthsPar `json:"wavelengths" yaml:"wavelengths"`
	Tilts          TiltsPar       `json:"tilts" yaml:"tilts"`
	Slits          SlitsPar       `json:"slits" yaml:"slits"`
}

type ScienceImagePar struct {
	BoxcarRadius float64 `json:"boxcar_radius" yaml:"boxcar_radius"`
	NoLocalSky   bool    `json:"no_local_sky" yaml:"no_local_sky"`
}

type FlexurePar struct {
	Method       string  `json:"method" yaml:"method"`
	MaxShift     float64 `json:"maxshift" yaml:"maxshift"`
	SpectrumFile string  `json:"spectrum,omitempty" yaml:"spectrum"` // empty uses the built-in sky spectrum
}

type FluxCalibPar struct {
	ExtinctFile string `json:"extinct_file" yaml:"extinct_file"`
	Telluric    bool   `json:"telluric" yaml:"telluric"`
}

func defaultProcess() ProcessPar {
	return ProcessPar{
		Overscan:  DefaultOverscan,
		Trim:      true,
		ApplyGain: true,
		Combine:   DefaultCombine,
		SigClip:   DefaultSigClip,
		SatPix:    DefaultSatPix,
	}
}

func frameGroup(number int) FrameGroupPar {
	return FrameGroupPar{Number: number, Process: defaultProcess()}
}

// Default - the system default tree. No spectrograph is named, so it does not validate until an
// instrument has been applied.
func Default() Par {
	bias := frameGroup(DefaultBiasFrames)
	bias.UseFrame = UseFrameBias

	lamps := make([]string, len(DefaultLamps))
	copy(lamps, DefaultLamps)

	return Par{
		Rdx: RdxPar{Pipeline: DefaultPipeline},
		Calibrations: CalibrationsPar{
			BiasFrame:      bias,
			DarkFrame:      frameGroup(DefaultDarkFrames),
			ArcFrame:       frameGroup(DefaultArcFrames),
			TiltFrame:      frameGroup(DefaultTiltFrames),
			PixelFlatFrame: frameGroup(DefaultPixelFlatFrames),
			PinholeFrame:   frameGroup(DefaultPinholeFrames),
			TraceFrame:     frameGroup(DefaultTraceFrames),
			StandardFrame:  frameGroup(DefaultStandardFrames),
			Wavelengths: WavelengthsPar{
				Method:          DefaultWavelengthMethod,
				Lamps:           lamps,
				RMSThreshold:    DefaultRMSThreshold,
				SigDetect:       DefaultSigDetect,
				NonLinearCounts: DefaultNonLinearCounts,
				EchNSpecCoeff:   DefaultEchNSpecCoeff,
				EchNOrderCoeff:  DefaultEchNOrderCoeff,
				EchSigRej:       DefaultEchSigRej,
			},
			Tilts: TiltsPar{TraceThresh: []float64{DefaultTraceThresh}},
			Slits: SlitsPar{
				TraceNPoly: DefaultTraceNPoly,
				MaxShift:   DefaultSlitMaxShift,
				PCAType:    DefaultPCAType,
				SigDetect:  DefaultSlitSigDetect,
			},
		},
		ScienceFrame: frameGroup(1),
		ScienceImage: ScienceImagePar{BoxcarRadius: DefaultBoxcarRadius},
		Flexure:      FlexurePar{Method: DefaultFlexureMethod, MaxShift: DefaultFlexureMaxShift},
		FluxCalib:    FluxCalibPar{ExtinctFile: DefaultExtinctFile},
	}
}

// ApplyOverrides - layers a YAML (or JSON) document over par. Only parameters present in the
// document change. Unknown parameter names are an error.
func ApplyOverrides(par Par, data []byte) (Par, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return par, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&par); err != nil {
		return Par{}, errors.Wrap(err, "failed to apply parameter overrides")
	}
	return par, nil
}

// ApplyNode - as ApplyOverrides, for a document already parsed as part of a bigger YAML file
func ApplyNode(par Par, node *yaml.Node) (Par, error) {
	if node == nil || node.Kind == 0 {
		return par, nil
	}

	data, err := yaml.Marshal(node)
	if err != nil {
		return Par{}, err
	}
	return ApplyOverrides(par, data)
}

// FrameGroups - the typed frame groups, keyed by the frame type whose exposure range they hold
func (p Par) FrameGroups() map[framematch.FrameType]FrameGroupPar {
	return map[framematch.FrameType]FrameGroupPar{
		framematch.Bias:      p.Calibrations.BiasFrame,
		framematch.Dark:      p.Calibrations.DarkFrame,
		framematch.Arc:       p.Calibrations.ArcFrame,
		framematch.Tilt:      p.Calibrations.TiltFrame,
		framematch.PixelFlat: p.Calibrations.PixelFlatFrame,
		framematch.PinHole:   p.Calibrations.PinholeFrame,
		framematch.Trace:     p.Calibrations.TraceFrame,
		framematch.Standard:  p.Calibrations.StandardFrame,
		framematch.Science:   p.ScienceFrame,
	}
}

// ExposureRanges - exposure range of every frame type, as needed by framematch.TypeFrames
func (p Par) ExposureRanges() map[framematch.FrameType]framematch.ExposureRange {
	result := map[framematch.FrameType]framematch.ExposureRange{}
	for ft, group := range p.FrameGroups() {
		result[ft] = group.ExpRng
	}
	return result
}

func invalid(path string, format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidParameter, "%v: %v", path, fmt.Sprintf(format, args...))
}
