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

package params

// System-wide defaults. Instruments override these from their asset file, users from an override
// file. Every numeric default lives here so the full default tree can be audited in one place.

const (
	// DefaultPipeline - reduction pipeline used unless the instrument says otherwise
	DefaultPipeline = PipelineMultiSlit

	// DefaultBiasFrames - bias exposures combined into a master bias
	DefaultBiasFrames = 5
	// DefaultDarkFrames - dark exposures combined into a master dark
	DefaultDarkFrames = 0
	// DefaultArcFrames - arc lamp exposures combined for the wavelength solution
	DefaultArcFrames = 1
	// DefaultTiltFrames - arc exposures combined for tracing line tilts
	DefaultTiltFrames = 1
	// DefaultPixelFlatFrames - flat exposures combined into a pixel flat
	DefaultPixelFlatFrames = 5
	// DefaultPinholeFrames - pinhole exposures, most instruments have none
	DefaultPinholeFrames = 0
	// DefaultTraceFrames - flat exposures combined for slit edge tracing
	DefaultTraceFrames = 3
	// DefaultStandardFrames - standard star exposures
	DefaultStandardFrames = 1

	// DefaultSigClip - sigma threshold for cosmic ray rejection when combining
	DefaultSigClip = 4.5
	// DefaultSatPix - how saturated pixels are handled when combining
	DefaultSatPix = SatPixReject
	// DefaultCombine - how processed frames are combined
	DefaultCombine = CombineMedian
	// DefaultOverscan - overscan estimator subtracted from raw frames
	DefaultOverscan = OverscanMedian

	// DefaultWavelengthMethod - wavelength calibration approach
	DefaultWavelengthMethod = "holy-grail"
	// DefaultRMSThreshold - max RMS (pixels) of an accepted wavelength fit
	DefaultRMSThreshold = 0.15
	// DefaultSigDetect - sigma threshold for arc line detection
	DefaultSigDetect = 5.0
	// DefaultNonLinearCounts - used until the detector's own value is known
	DefaultNonLinearCounts = 1e10
	// DefaultEchNSpecCoeff - spectral polynomial order of a 2D echelle wavelength fit
	DefaultEchNSpecCoeff = 4
	// DefaultEchNOrderCoeff - order-direction polynomial order of a 2D echelle wavelength fit
	DefaultEchNOrderCoeff = 4
	// DefaultEchSigRej - sigma rejection of the 2D echelle wavelength fit
	DefaultEchSigRej = 2.0

	// DefaultTraceThresh - significance threshold for tracing arc line tilts
	DefaultTraceThresh = 20.0

	// DefaultTraceNPoly - polynomial order fit to each slit edge trace
	DefaultTraceNPoly = 3
	// DefaultSlitMaxShift - max shift (pixels) allowed when matching edges between frames
	DefaultSlitMaxShift = 0.15
	// DefaultPCAType - how the PCA of slit edges is parameterised
	DefaultPCAType = PCAPixel
	// DefaultSlitSigDetect - sigma threshold for slit edge detection
	DefaultSlitSigDetect = 20.0

	// DefaultBoxcarRadius - boxcar extraction radius in arcsec
	DefaultBoxcarRadius = 1.5

	// DefaultFlexureMethod - flexure correction applied to extracted spectra
	DefaultFlexureMethod = FlexureBoxcar
	// DefaultFlexureMaxShift - largest flexure shift searched, in pixels
	DefaultFlexureMaxShift = 20.0

	// DefaultExtinctFile - extinction curve selection
	DefaultExtinctFile = "closest"
)

// DefaultLamps - arc lamps searched for when the instrument doesn't list its own
var DefaultLamps = []string{"ArI", "HgI", "KrI", "NeI", "XeI"}

// Allowed values of the enumerated parameters
const (
	PipelineMultiSlit = "MultiSlit"
	PipelineEchelle   = "Echelle"

	SatPixReject  = "reject"
	SatPixForce   = "force"
	SatPixNothing = "nothing"

	CombineMedian = "median"
	CombineMean   = "mean"

	OverscanMedian = "median"
	OverscanNone   = "none"

	UseFrameBias     = "bias"
	UseFrameOverscan = "overscan"
	UseFrameNone     = "none"

	PCAPixel = "pixel"
	PCAOrder = "order"

	FlexureBoxcar  = "boxcar"
	FlexureSlitCen = "slitcen"
	FlexureSkip    = "skip"
)
