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

import (
	"golang.org/x/exp/slices"
)

// Validate - checks every parameter holds a usable value. Errors name the parameter path, eg
// "calibrations.arcframe.number". The only parameters allowed to stay unset are exposure range
// bounds (unbounded), wavelengths.reid_arxiv and flexure.spectrum.
func (p Par) Validate() error {
	if len(p.Rdx.Spectrograph) <= 0 {
		return invalid("rdx.spectrograph", "not set")
	}
	if err := oneOf("rdx.pipeline", p.Rdx.Pipeline, PipelineMultiSlit, PipelineEchelle); err != nil {
		return err
	}
	for _, det := range p.Rdx.DetNum {
		if det < 1 {
			return invalid("rdx.detnum", "detector numbers start at 1, got %v", det)
		}
	}

	groups := []struct {
		path  string
		group FrameGroupPar
	}{
		{"calibrations.biasframe", p.Calibrations.BiasFrame},
		{"calibrations.darkframe", p.Calibrations.DarkFrame},
		{"calibrations.arcframe", p.Calibrations.ArcFrame},
		{"calibrations.tiltframe", p.Calibrations.TiltFrame},
		{"calibrations.pixelflatframe", p.Calibrations.PixelFlatFrame},
		{"calibrations.pinholeframe", p.Calibrations.PinholeFrame},
		{"calibrations.traceframe", p.Calibrations.TraceFrame},
		{"calibrations.standardframe", p.Calibrations.StandardFrame},
		{"scienceframe", p.ScienceFrame},
	}
	for _, g := range groups {
		if err := g.group.validate(g.path); err != nil {
			return err
		}
	}
	if err := oneOf("calibrations.biasframe.useframe", p.Calibrations.BiasFrame.UseFrame, UseFrameBias, UseFrameOverscan, UseFrameNone); err != nil {
		return err
	}

	if err := p.Calibrations.Wavelengths.validate("calibrations.wavelengths"); err != nil {
		return err
	}

	if len(p.Calibrations.Tilts.TraceThresh) == 0 {
		return invalid("calibrations.tilts.tracethresh", "not set")
	}
	for _, v := range p.Calibrations.Tilts.TraceThresh {
		if v <= 0 {
			return invalid("calibrations.tilts.tracethresh", "must be > 0, got %v", v)
		}
	}

	slits := p.Calibrations.Slits
	if slits.TraceNPoly < 1 {
		return invalid("calibrations.slits.trace_npoly", "must be >= 1, got %v", slits.TraceNPoly)
	}
	if slits.MaxShift <= 0 {
		return invalid("calibrations.slits.maxshift", "must be > 0, got %v", slits.MaxShift)
	}
	if slits.SigDetect <= 0 {
		return invalid("calibrations.slits.sigdetect", "must be > 0, got %v", slits.SigDetect)
	}
	if err := oneOf("calibrations.slits.pcatype", slits.PCAType, PCAPixel, PCAOrder); err != nil {
		return err
	}

	if p.ScienceImage.BoxcarRadius <= 0 {
		return invalid("scienceimage.boxcar_radius", "must be > 0, got %v", p.ScienceImage.BoxcarRadius)
	}

	if err := oneOf("flexure.method", p.Flexure.Method, FlexureBoxcar, FlexureSlitCen, FlexureSkip); err != nil {
		return err
	}
	if p.Flexure.MaxShift <= 0 {
		return invalid("flexure.maxshift", "must be > 0, got %v", p.Flexure.MaxShift)
	}

	if len(p.FluxCalib.ExtinctFile) <= 0 {
		return invalid("fluxcalib.extinct_file", "not set")
	}
	return nil
}

func (g FrameGroupPar) validate(path string) error {
	if g.Number < 0 {
		return invalid(path+".number", "must be >= 0, got %v", g.Number)
	}
	if err := g.ExpRng.Validate(); err != nil {
		return invalid(path+".exprng", "%v", err)
	}

	proc := g.Process
	if err := oneOf(path+".process.overscan", proc.Overscan, OverscanMedian, OverscanNone); err != nil {
		return err
	}
	if err := oneOf(path+".process.combine", proc.Combine, CombineMedian, CombineMean); err != nil {
		return err
	}
	if err := oneOf(path+".process.satpix", proc.SatPix, SatPixReject, SatPixForce, SatPixNothing); err != nil {
		return err
	}
	if proc.SigClip <= 0 {
		return invalid(path+".process.sigclip", "must be > 0, got %v", proc.SigClip)
	}
	return nil
}

func (w WavelengthsPar) validate(path string) error {
	if len(w.Method) <= 0 {
		return invalid(path+".method", "not set")
	}
	if len(w.Lamps) == 0 {
		return invalid(path+".lamps", "not set")
	}
	if w.RMSThreshold <= 0 {
		return invalid(path+".rms_threshold", "must be > 0, got %v", w.RMSThreshold)
	}
	if w.SigDetect <= 0 {
		return invalid(path+".sigdetect", "must be > 0, got %v", w.SigDetect)
	}
	if w.NonLinearCounts <= 0 {
		return invalid(path+".nonlinear_counts", "must be > 0, got %v", w.NonLinearCounts)
	}
	if w.Echelle {
		if w.EchNSpecCoeff < 1 {
			return invalid(path+".ech_nspec_coeff", "must be >= 1, got %v", w.EchNSpecCoeff)
		}
		if w.EchNOrderCoeff < 1 {
			return invalid(path+".ech_norder_coeff", "must be >= 1, got %v", w.EchNOrderCoeff)
		}
		if w.EchSigRej <= 0 {
			return invalid(path+".ech_sigrej", "must be > 0, got %v", w.EchSigRej)
		}
	}
	return nil
}

func oneOf(path string, value string, allowed ...string) error {
	if !slices.Contains(allowed, value) {
		return invalid(path, "%q is not one of %v", value, allowed)
	}
	return nil
}
