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

package endpoints

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/specrdx/core/core/params"
	"github.com/specrdx/core/core/pixels"
	"github.com/specrdx/core/core/spectrograph"
	"github.com/stretchr/testify/assert"
)

func Example_spectrographHandler_List() {
	apiRouter := MakeRouter(MakeMockSvcs(nil, nil))

	resp := executeRequest(makeRequest("GET", "/spectrograph", ""), apiRouter.Router)
	fmt.Println(resp.Code)
	fmt.Print(resp.Body.String())

	resp = executeRequest(makeRequest("GET", "/spectrograph/keck_hires", ""), apiRouter.Router)
	fmt.Println(resp.Code)
	fmt.Print(resp.Body.String())

	// Output:
	// 200
	// [
	//     "magellan_mage",
	//     "vlt_xshooter_nir"
	// ]
	// 404
	// "keck_hires": unknown spectrograph
}

func TestSpectrographProfileAndPar(t *testing.T) {
	apiRouter := MakeRouter(MakeMockSvcs(nil, nil))

	resp := executeRequest(makeRequest("GET", "/spectrograph/vlt_xshooter_nir", ""), apiRouter.Router)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "application/json", resp.Header().Get("Content-Type"))

	profile := spectrograph.Profile{}
	assert.NoError(t, json.Unmarshal(resp.Body.Bytes(), &profile))
	assert.Equal(t, "vlt_xshooter_nir", profile.Name)
	assert.Equal(t, "1.0.0", profile.Version)
	assert.Equal(t, 16, profile.NOrders)
	assert.Equal(t, "fixed", profile.Strategies.PlateScale)

	resp = executeRequest(makeRequest("GET", "/spectrograph/magellan_mage/par", ""), apiRouter.Router)
	assert.Equal(t, http.StatusOK, resp.Code)

	par := params.Par{}
	assert.NoError(t, json.Unmarshal(resp.Body.Bytes(), &par))
	assert.Equal(t, "magellan_mage", par.Rdx.Spectrograph)
	assert.Equal(t, 3, par.Calibrations.PixelFlatFrame.Number)

	// Overrides on top of the defaults
	resp = executeRequest(makeRequest("POST", "/spectrograph/magellan_mage/par", "calibrations:\n  pixelflatframe:\n    number: 5\n"), apiRouter.Router)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.NoError(t, json.Unmarshal(resp.Body.Bytes(), &par))
	assert.Equal(t, 5, par.Calibrations.PixelFlatFrame.Number)

	resp = executeRequest(makeRequest("POST", "/spectrograph/magellan_mage/par", "calibrations:\n  pixelflatframe:\n    number: -5\n"), apiRouter.Router)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestSpectrographMetadata(t *testing.T) {
	apiRouter := MakeRouter(MakeMockSvcs(nil, nil))

	body, _ := json.Marshal(mageHeaders("HD 49798", "object", 15))
	resp := executeRequest(makeRequest("POST", "/spectrograph/magellan_mage/metadata", string(body)), apiRouter.Router)
	assert.Equal(t, http.StatusOK, resp.Code)

	meta := map[string]interface{}{}
	assert.NoError(t, json.Unmarshal(resp.Body.Bytes(), &meta))
	assert.Equal(t, "HD 49798", meta["target"])
	assert.Equal(t, "object", meta["idname"])
	assert.Equal(t, 15.0, meta["exptime"])

	resp = executeRequest(makeRequest("POST", "/spectrograph/magellan_mage/metadata", "[{"), apiRouter.Router)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func Example_spectrographHandler_FrameType() {
	apiRouter := MakeRouter(MakeMockSvcs(nil, nil))

	table := `{"rows": [
		{"filename": "mage0001.fits", "idname": "object", "exptime": 15},
		{"filename": "mage0003.fits", "idname": "object", "exptime": 1200},
		{"filename": "mage0004.fits", "idname": "domeflat", "exptime": 5},
		{"filename": "mage0005.fits", "idname": "bias", "exptime": 0}
	]}`

	resp := executeRequest(makeRequest("POST", "/spectrograph/magellan_mage/frametype/science", table), apiRouter.Router)
	mask := []bool{}
	err := json.Unmarshal(resp.Body.Bytes(), &mask)
	fmt.Println(resp.Code, mask, err)

	resp = executeRequest(makeRequest("POST", "/spectrograph/magellan_mage/frametype/trace", table), apiRouter.Router)
	err = json.Unmarshal(resp.Body.Bytes(), &mask)
	fmt.Println(resp.Code, mask, err)

	resp = executeRequest(makeRequest("POST", "/spectrograph/magellan_mage/frametype/flat", table), apiRouter.Router)
	fmt.Println(resp.Code)
	fmt.Print(resp.Body.String())

	// Output:
	// 200 [false true false false] <nil>
	// 200 [false false true false] <nil>
	// 400
	// "flat": unknown frame type
}

func Example_spectrographHandler_BPM() {
	apiRouter := MakeRouter(MakeMockSvcs(nil, nil))

	resp := executeRequest(makeRequest("GET", "/spectrograph/magellan_mage/bpm?det=1&nspec=4&nspat=1100", ""), apiRouter.Router)
	result := bpmResponse{}
	err := json.Unmarshal(resp.Body.Bytes(), &result)
	fmt.Println(resp.Code, err)
	fmt.Println(result.Det, result.NSpec, result.NSpat, result.NMasked, result.MaskedColumns, result.MaskedRows)

	resp = executeRequest(makeRequest("GET", "/spectrograph/vlt_xshooter_nir/bpm?nspec=10&nspat=5", ""), apiRouter.Router)
	err = json.Unmarshal(resp.Body.Bytes(), &result)
	fmt.Println(resp.Code, err)
	fmt.Println(result.Det, result.NSpec, result.NSpat, result.NMasked, result.MaskedColumns, result.MaskedRows)

	for _, query := range []string{"det=2&nspec=4&nspat=4", "nspec=0&nspat=4", "nspec=four&nspat=4", "nspec=4294967296&nspat=4294967296", "nspec=200000&nspat=200000"} {
		resp = executeRequest(makeRequest("GET", "/spectrograph/magellan_mage/bpm?"+query, ""), apiRouter.Router)
		fmt.Println(resp.Code)
	}

	// Output:
	// 200 <nil>
	// 1 4 1100 480 [{0 20} {1000 1100}] []
	// 200 <nil>
	// 1 10 5 0 [] []
	// 400
	// 400
	// 400
	// 400
	// 400
}

func TestRuns(t *testing.T) {
	assert.Equal(t, []MaskedRange{}, runs([]bool{}))
	assert.Equal(t, []MaskedRange{{0, 1}, {2, 4}}, runs([]bool{true, false, true, true}))
	assert.Equal(t, []MaskedRange{{1, 2}}, runs([]bool{false, true, false}))

	mask := pixels.NewBoolImage(pixels.Shape{NSpec: 3, NSpat: 3})
	for spat := 0; spat < 3; spat++ {
		mask.Set(1, spat, true)
	}
	mask.Set(0, 2, true)
	mask.Set(2, 2, true)
	assert.Equal(t, []MaskedRange{{2, 3}}, maskedColumns(mask))
	assert.Equal(t, []MaskedRange{{1, 2}}, maskedRows(mask))
}

func straightSlitsJSON(nspec int, nspat int, lefts []float64, rights []float64) string {
	lcen := [][]float64{}
	rcen := [][]float64{}
	for spec := 0; spec < nspec; spec++ {
		lcen = append(lcen, lefts)
		rcen = append(rcen, rights)
	}
	body, _ := json.Marshal(map[string]interface{}{"lcen": lcen, "rcen": rcen, "nspec": nspec, "nspat": nspat})
	return string(body)
}

func TestSpectrographSlitMask(t *testing.T) {
	apiRouter := MakeRouter(MakeMockSvcs(nil, nil))

	body := straightSlitsJSON(10, 20, []float64{1, 10}, []float64{8, 18})
	resp := executeRequest(makeRequest("POST", "/spectrograph/magellan_mage/slitmask", body), apiRouter.Router)
	assert.Equal(t, http.StatusOK, resp.Code)

	result := slitMaskResponse{}
	assert.NoError(t, json.Unmarshal(resp.Body.Bytes(), &result))
	assert.Equal(t, pixels.Shape{NSpec: 10, NSpat: 20}, result.Shape)
	assert.Equal(t, []int{pixels.NoSlit, 0, 1}, result.Labels)
	assert.Equal(t, map[string]int{"0": 20, "1": 19}, result.Orders)
	assert.Len(t, result.Data, 200)

	// Bluest order only lit on the upper half
	assert.Equal(t, pixels.NoSlit, result.Data[0*20+4])
	assert.Equal(t, 0, result.Data[9*20+4])
	assert.Equal(t, 1, result.Data[0*20+14])

	// Padding
	resp = executeRequest(makeRequest("POST", "/spectrograph/magellan_mage/slitmask?pad=1.5", body), apiRouter.Router)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.NoError(t, json.Unmarshal(resp.Body.Bytes(), &result))
	assert.Equal(t, 1, result.Data[9*20+9])

	resp = executeRequest(makeRequest("POST", "/spectrograph/magellan_mage/slitmask?pad=wide", body), apiRouter.Router)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	tooMany := straightSlitsJSON(2, 100, make([]float64, 16), make([]float64, 16))
	resp = executeRequest(makeRequest("POST", "/spectrograph/magellan_mage/slitmask", tooMany), apiRouter.Router)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	huge := straightSlitsJSON(2, 1<<40, []float64{1}, []float64{8})
	resp = executeRequest(makeRequest("POST", "/spectrograph/magellan_mage/slitmask", huge), apiRouter.Router)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func Example_spectrographHandler_Orders() {
	apiRouter := MakeRouter(MakeMockSvcs(nil, nil))

	for _, url := range []string{
		"/spectrograph/magellan_mage/orders?binning=1,2",
		"/spectrograph/vlt_xshooter_nir/orders?binning=1x2",
		"/spectrograph/vlt_xshooter_nir/orders",
	} {
		resp := executeRequest(makeRequest("GET", url, ""), apiRouter.Router)
		result := ordersResponse{}
		err := json.Unmarshal(resp.Body.Bytes(), &result)
		fmt.Println(resp.Code, err, result.Binning, result.Orders[0], result.Orders[len(result.Orders)-1], len(result.PlateScale), result.PlateScale[0])
	}

	resp := executeRequest(makeRequest("GET", "/spectrograph/magellan_mage/orders?binning=lots", ""), apiRouter.Router)
	fmt.Println(resp.Code)

	// Output:
	// 200 <nil> 1,2 20 6 15 0.6
	// 200 <nil> 1,2 26 11 16 0.197
	// 200 <nil> 1,1 26 11 16 0.197
	// 400
}
