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
	"fmt"
	"os"
	"testing"

	"github.com/pkg/errors"
	"github.com/specrdx/core/core/binning"
	"github.com/specrdx/core/core/bpm"
	"github.com/specrdx/core/core/fileaccess"
	"github.com/specrdx/core/core/framematch"
	"github.com/specrdx/core/core/logger"
	"github.com/specrdx/core/core/metadata"
	"github.com/specrdx/core/core/pixels"
	"github.com/specrdx/core/core/slitmask"
	"github.com/stretchr/testify/assert"
)

func mustLoad(name string) *Spectrograph {
	s, err := Load(name)
	if err != nil {
		panic(err)
	}
	return s
}

func Example_load() {
	fmt.Println(Names())

	s, err := Load("magellan_mage")
	fmt.Println(err)
	fmt.Println(s.Name(), s.Version(), s.Camera(), s.Telescope().Name, s.Pipeline(), s.NumHead(), s.NOrders(), s.NDet())

	det, err := s.Detector(1)
	fmt.Println(err, det.SpecAxis, det.PlateScale, det.Saturation, det.NonLinear, det.Gain, det.RONoise, det.DataSec, det.OscanSec)

	_, err = s.Detector(2)
	fmt.Println(err)

	s, err = Load("vlt_xshooter_nir")
	fmt.Println(err)
	fmt.Println(s.Name(), s.Version(), s.Camera(), s.Telescope().Name, s.Pipeline(), s.NumHead(), s.NOrders(), s.NDet())

	_, err = Load("keck_hires")
	fmt.Println(err)
	_, err = Load("telescopes")
	fmt.Println(err)

	// Output:
	// [magellan_mage vlt_xshooter_nir]
	// <nil>
	// magellan_mage 1.0.0 MAGE MAGELLAN Echelle 1 15 1
	// <nil> 0 0.3 65535 0.99 [1.02] [2.9] [[1:2048,1:1024]] [[2049:2176,1025:1152]]
	// 2, magellan_mage has 1 detector(s): invalid detector number
	// <nil>
	// vlt_xshooter_nir 1.0.0 XShooter_NIR VLT Echelle 1 16 1
	// "keck_hires": unknown spectrograph
	// "telescopes": unknown spectrograph
}

func Example_spectrograph_DefaultPar() {
	par, err := mustLoad("magellan_mage").DefaultPar()
	fmt.Println(err)

	cal := par.Calibrations
	fmt.Println(par.Rdx.Spectrograph, par.Rdx.Pipeline)
	fmt.Println(cal.StandardFrame.Number, cal.BiasFrame.Number, cal.PixelFlatFrame.Number, cal.TraceFrame.Number, cal.ArcFrame.Number, cal.BiasFrame.UseFrame)
	fmt.Println(cal.Wavelengths.RMSThreshold, cal.Wavelengths.SigDetect, cal.Wavelengths.Lamps, cal.Wavelengths.NonLinearCounts)
	fmt.Println(cal.Wavelengths.EchFixFormat, cal.Wavelengths.Echelle, cal.Wavelengths.EchNSpecCoeff, cal.Wavelengths.EchNOrderCoeff, cal.Wavelengths.EchSigRej)
	fmt.Println(par.ScienceFrame.Process.SigClip, par.ScienceFrame.Process.SatPix, len(cal.Tilts.TraceThresh), cal.Tilts.TraceThresh[14])
	fmt.Println(cal.Slits.TraceNPoly, cal.Slits.MaxShift, cal.Slits.PCAType, par.Flexure.Method)
	fmt.Println(cal.StandardFrame.ExpRng, cal.ArcFrame.ExpRng, cal.DarkFrame.ExpRng, par.ScienceFrame.ExpRng, cal.TiltFrame.ExpRng)

	par, err = mustLoad("vlt_xshooter_nir").DefaultPar()
	fmt.Println(err, par.Rdx.Spectrograph, par.Calibrations.Wavelengths.NonLinearCounts, par.Calibrations.BiasFrame.UseFrame, par.Calibrations.Slits.TraceNPoly)

	// Output:
	// <nil>
	// magellan_mage Echelle
	// 1 0 3 3 1 overscan
	// 0.2 5 [ThAr] 64879.65
	// true true 4 4 3
	// 20 nothing 15 10
	// 5 3 order skip
	// [None, 20] [20, None] [20, None] [20, None] [None, None]
	// <nil> vlt_xshooter_nir 172000 none 8
}

func Example_spectrograph_Par() {
	s := mustLoad("magellan_mage")

	par, err := s.Par([]byte("calibrations:\n  arcframe:\n    number: 3\n"))
	fmt.Println(err, par.Calibrations.ArcFrame.Number, par.Calibrations.Wavelengths.Lamps)

	_, err = s.Par([]byte("flexure:\n  method: wobble\n"))
	fmt.Println(err)

	// Output:
	// <nil> 3 [ThAr]
	// flexure.method: "wobble" is not one of [boxcar slitcen skip]: invalid parameter
}

func mageHeaders(object string, exptype string, exptime float64) []metadata.Header {
	return []metadata.Header{{
		"RA":      "05:35:17.3",
		"DEC":     "-05:23:28",
		"OBJECT":  object,
		"SLITENC": "0.70",
		"BINNING": "1x1",
		"MJD-OBS": 58123.2,
		"EXPTIME": exptime,
		"AIRMASS": 1.1,
		"INSTR":   "MagE",
		"EXPTYPE": exptype,
	}}
}

func Example_spectrograph_GetMeta() {
	s := mustLoad("magellan_mage")

	headers := mageHeaders("HD 49798", "Object", 600)
	headers[0]["BINNING"] = "2x1"

	fmt.Println(s.GetMeta(headers, metadata.KeyBinning))
	fmt.Println(s.GetMeta(headers, metadata.KeyTarget))
	fmt.Println(s.GetMeta(headers, metadata.KeyDecker))

	delete(headers[0], "AIRMASS")
	_, err := s.GetMeta(headers, metadata.KeyAirmass)
	fmt.Println(err)

	meta, err := s.Meta(headers, &logger.NullLogger{})
	fmt.Println(err, len(meta), meta[metadata.KeyIDName])

	delete(headers[0], "EXPTIME")
	_, err = s.Meta(headers, &logger.NullLogger{})
	fmt.Println(err)

	x := mustLoad("vlt_xshooter_nir")
	fmt.Println(x.GetMeta([]metadata.Header{{}}, metadata.KeyBinning))

	// Output:
	// 1,2 <nil>
	// HD 49798 <nil>
	// 0.70 <nil>
	// card AIRMASS not in extension 0: missing header card
	// <nil> 9 Object
	// required metadata exptime: card EXPTIME not in extension 0: missing header card
	// 1,1 <nil>
}

func Example_spectrograph_TypeFrames() {
	s := mustLoad("magellan_mage")
	par, _ := s.DefaultPar()
	log := &logger.NullLogger{}

	files := []struct {
		name    string
		headers []metadata.Header
	}{
		{"mage0001.fits", mageHeaders("HD 49798", "object", 15)},
		{"mage0002.fits", mageHeaders("ThAr", "object", 25)},
		{"mage0003.fits", mageHeaders("QSO J0100+2802", "object", 1200)},
		{"mage0004.fits", mageHeaders("Flat", "domeflat", 5)},
		{"mage0005.fits", mageHeaders("Bias", "bias", 0)},
	}

	table := framematch.FrameTable{}
	for _, f := range files {
		row, err := s.FrameRow(f.name, f.headers, log)
		if err != nil {
			fmt.Println(err)
			return
		}
		table.Rows = append(table.Rows, row)
	}

	typed, err := s.TypeFrames(table, par)
	fmt.Println(err)
	for _, row := range typed.Rows {
		fmt.Printf("%v %v %v %v\n", row.Filename, row.IDName, *row.ExpTime, row.FrameTypeString())
	}

	ranges := par.ExposureRanges()
	science, err := s.CheckFrameType(framematch.Science, table, ranges[framematch.Science])
	fmt.Println(science, err)
	bias, err := s.CheckFrameType(framematch.Bias, table, ranges[framematch.Bias])
	fmt.Println(bias, err)
	_, err = s.CheckFrameType("flat", table, framematch.ExposureRange{})
	fmt.Println(err)

	// Output:
	// <nil>
	// mage0001.fits object 15 standard,tilt
	// mage0002.fits object 25 arc,dark,science,tilt
	// mage0003.fits object 1200 arc,dark,science,tilt
	// mage0004.fits domeflat 5 pixelflat,trace
	// mage0005.fits bias 0 None
	// [false true true false false] <nil>
	// [false false false false false] <nil>
	// "flat": unknown frame type
}

func TestMageBPM(t *testing.T) {
	s := mustLoad("magellan_mage")
	log := &logger.MemLogger{}

	shape := pixels.Shape{NSpec: 1024, NSpat: 2048}
	mask, err := s.BPM(shape, 1, log)
	assert.Nil(t, err)
	assert.Equal(t, []string{"INFO: Custom bad pixel mask for MAGE"}, log.Lines)

	for spec := 0; spec < shape.NSpec; spec++ {
		for spat := 0; spat < shape.NSpat; spat++ {
			if mask.At(spec, spat) != (spat < 20 || spat >= 1000) {
				t.Fatalf("unexpected mask value at (%v, %v)", spec, spat)
			}
		}
	}

	_, err = s.BPM(shape, 2, log)
	assert.Equal(t, bpm.ErrInvalidDetector, errors.Cause(err))
	_, err = s.BPM(shape, 0, log)
	assert.Equal(t, bpm.ErrInvalidDetector, errors.Cause(err))
}

func TestXShooterBPMIsEmpty(t *testing.T) {
	mask, err := mustLoad("vlt_xshooter_nir").BPM(pixels.Shape{NSpec: 100, NSpat: 50}, 1, &logger.NullLogger{})
	assert.Nil(t, err)
	assert.Equal(t, 0, mask.Count())
}

func straightSlits(nspec int, nspat int, lefts []float64, rights []float64) slitmask.TraceSlits {
	t := slitmask.TraceSlits{NSpec: nspec, NSpat: nspat}
	for spec := 0; spec < nspec; spec++ {
		t.LCen = append(t.LCen, append([]float64{}, lefts...))
		t.RCen = append(t.RCen, append([]float64{}, rights...))
	}
	return t
}

func TestMageSlitMask(t *testing.T) {
	s := mustLoad("magellan_mage")
	slits := straightSlits(10, 20, []float64{1, 10}, []float64{8, 18})

	img, err := s.SlitMask(slits, nil, binning.None)
	assert.Nil(t, err)

	for spec := 0; spec < 10; spec++ {
		want := 0
		if spec < 5 {
			want = pixels.NoSlit
		}
		assert.Equal(t, want, img.At(spec, 4), "spec %v", spec)
		assert.Equal(t, 1, img.At(spec, 14), "spec %v", spec)
	}
	assert.Equal(t, pixels.NoSlit, img.At(9, 9))

	// Padding widens the orders
	pad := 1.5
	img, err = s.SlitMask(slits, &pad, binning.None)
	assert.Nil(t, err)
	assert.Equal(t, 1, img.At(9, 9))
	assert.Equal(t, 0, img.At(9, 0))

	tooMany := straightSlits(2, 100, make([]float64, 16), make([]float64, 16))
	_, err = s.SlitMask(tooMany, nil, binning.None)
	assert.NotNil(t, err)
}

func TestXShooterSlitMaskScalesWithBinning(t *testing.T) {
	s := mustLoad("vlt_xshooter_nir")

	img, err := s.SlitMask(straightSlits(2048, 6, []float64{0.5}, []float64{4.5}), nil, binning.None)
	assert.Nil(t, err)
	assert.Equal(t, pixels.NoSlit, img.At(417, 2))
	assert.Equal(t, 0, img.At(418, 2))
	assert.Equal(t, 0, img.At(1476, 2))
	assert.Equal(t, pixels.NoSlit, img.At(1477, 2))

	img, err = s.SlitMask(straightSlits(1024, 6, []float64{0.5}, []float64{4.5}), nil, binning.Binning{Spec: 2, Spat: 1})
	assert.Nil(t, err)
	assert.Equal(t, pixels.NoSlit, img.At(208, 2))
	assert.Equal(t, 0, img.At(209, 2))
	assert.Equal(t, 0, img.At(738, 2))
	assert.Equal(t, pixels.NoSlit, img.At(739, 2))
}

func TestOrderTablesAreBijections(t *testing.T) {
	for _, name := range Names() {
		s := mustLoad(name)
		seen := map[int]bool{}
		for islit := 0; islit < s.NOrders(); islit++ {
			order, err := s.SlitToOrder(islit)
			assert.Nil(t, err)
			assert.False(t, seen[order], "%v: order %v repeated", name, order)
			seen[order] = true
		}
		assert.Len(t, seen, s.NOrders())

		_, err := s.SlitToOrder(s.NOrders())
		assert.Equal(t, slitmask.ErrSlitOutOfRange, errors.Cause(err))
		_, err = s.SlitToOrder(-1)
		assert.Equal(t, slitmask.ErrSlitOutOfRange, errors.Cause(err))

		assert.Len(t, s.OrderPlateScale(binning.None), s.NOrders())
		assert.Len(t, s.OrderPlateScale(binning.Binning{Spec: 2, Spat: 2}), s.NOrders())
	}
}

func Example_spectrograph_SlitToOrder() {
	mage := mustLoad("magellan_mage")
	fmt.Println(mage.SlitToOrder(0))
	fmt.Println(mage.SlitToOrder(14))
	fmt.Println(mage.SlitToOrderValue("7"))
	fmt.Println(mage.SlitToOrderValue(3.0))
	fmt.Println(mage.SlitToOrderValue(3.5))
	fmt.Println(mage.OrderPlateScale(binning.Binning{Spec: 1, Spat: 2})[0], mage.OrderPlateScale(binning.None)[14])

	x := mustLoad("vlt_xshooter_nir")
	fmt.Println(x.SlitToOrder(0))
	fmt.Println(x.SlitToOrder(15))
	fmt.Println(x.OrderPlateScale(binning.Binning{Spec: 1, Spat: 2})[0])

	// Output:
	// 20 <nil>
	// 6 <nil>
	// 13 <nil>
	// 17 <nil>
	// 0 3.5: slit index is not an integer
	// 0.6 0.3
	// 26 <nil>
	// 11 <nil>
	// 0.197
}

func TestAccessorsReturnCopies(t *testing.T) {
	s := mustLoad("magellan_mage")

	table := s.OrderTable()
	table.Orders[0] = 99
	order, _ := s.SlitToOrder(0)
	assert.Equal(t, 20, order)

	det, _ := s.Detector(1)
	det.Gain[0] = 100
	det2, _ := s.Detector(1)
	assert.Equal(t, 1.02, det2.Gain[0])

	schema := s.MetaSchema()
	delete(schema, metadata.KeyBinning)
	_, err := s.GetMeta(mageHeaders("x", "object", 1), metadata.KeyBinning)
	assert.Nil(t, err)
}

const badAsset = `
name: broken
version: 1.0.0
camera: X
telescope: magellan
pipeline: Echelle
numhead: 1
norders: 2
detectors:
  - {specaxis: 0, platescale: 0.3, saturation: 65535, nonlinear: 0.9, numamplifiers: 1, gain: [1], ronoise: [3], datasec: ["[1:10,1:10]"], oscansec: ["[11:12,1:10]"]}
meta:
  target: {ext: 0, card: OBJECT}
  binning: {ext: 0, compound: true, derive: binning_none}
  mjd: {ext: 0, card: MJD-OBS}
  exptime: {ext: 0, card: EXPTIME}
frametypes:
  default: {idnames: [object]}
strategies: {bpm: empty, slitmask: traces, platescale: binned}
orders:
  orders: [5, 4]
  platescale: [0.1, 0.1]
`

func TestParseValidatesAssets(t *testing.T) {
	_, err := Parse([]byte(badAsset))
	assert.Nil(t, err)

	cases := map[string][2]string{
		"duplicate order":     {"orders: [5, 4]", "orders: [5, 5]"},
		"unknown strategy":    {"bpm: empty", "bpm: painted"},
		"unknown telescope":   {"telescope: magellan", "telescope: hubble"},
		"bad version":         {"version: 1.0.0", "version: one"},
		"unknown derivation":  {"derive: binning_none", "derive: binning_guess"},
		"short platescale":    {"platescale: [0.1, 0.1]", "platescale: [0.1]"},
		"unknown field":       {"numhead: 1", "numhead: 1\ncolour: red"},
		"bad parameter":       {"norders: 2", "norders: 2\npar: {flexure: {method: wobble}}"},
		"bad detector":        {"numamplifiers: 1", "numamplifiers: 2"},
		"bad bpm detector":    {"norders: 2", "norders: 2\nbpm: [{det: 2}]"},
		"too much illuminate": {"norders: 2", "norders: 2\nillumination: [null, null, null]"},
	}

	for name, c := range cases {
		broken := replaceOnce(badAsset, c[0], c[1])
		_, err := Parse([]byte(broken))
		assert.Equal(t, ErrInvalidAsset, errors.Cause(err), name)
	}
}

func replaceOnce(s string, old string, new string) string {
	for i := 0; i+len(old) <= len(s); i++ {
		if s[i:i+len(old)] == old {
			return s[:i] + new + s[i+len(old):]
		}
	}
	panic("not found: " + old)
}

func TestLoadFromStore(t *testing.T) {
	root, err := os.MkdirTemp("", "spectrographs")
	assert.Nil(t, err)
	defer os.RemoveAll(root)

	fs := &fileaccess.FSAccess{}
	asset, err := assetFS.ReadFile("assets/magellan_mage.yaml")
	assert.Nil(t, err)

	newer := []byte(replaceOnce(string(asset), "version: 1.0.0", "version: 1.10.0"))
	assert.Nil(t, fs.WriteObject(root, "Spectrographs/magellan_mage/1.0.0.yaml", asset))
	assert.Nil(t, fs.WriteObject(root, "Spectrographs/magellan_mage/1.10.0.yaml", newer))
	assert.Nil(t, fs.WriteObject(root, "Spectrographs/magellan_mage/1.2.0.yaml", asset))
	assert.Nil(t, fs.WriteObject(root, "Spectrographs/magellan_mage/notes.txt", []byte("hello")))

	versions, err := StoreVersions(fs, root, "Spectrographs", "magellan_mage")
	assert.Nil(t, err)
	assert.Equal(t, []string{"1.0.0", "1.2.0", "1.10.0"}, versions)

	s, err := LoadFromStore(fs, root, "Spectrographs", "magellan_mage", "")
	assert.Nil(t, err)
	assert.Equal(t, "1.10.0", s.Version().String())

	s, err = LoadFromStore(fs, root, "Spectrographs", "magellan_mage", "1.0.0")
	assert.Nil(t, err)
	assert.Equal(t, "1.0.0", s.Version().String())

	// File name and contents disagree
	_, err = LoadFromStore(fs, root, "Spectrographs", "magellan_mage", "1.2.0")
	assert.Equal(t, ErrInvalidAsset, errors.Cause(err))

	_, err = LoadFromStore(fs, root, "Spectrographs", "magellan_mage", "3.0.0")
	assert.Equal(t, ErrUnknownSpectrograph, errors.Cause(err))
}
