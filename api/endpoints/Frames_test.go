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

	"github.com/specrdx/core/core/framematch"
	"github.com/stretchr/testify/assert"
)

func rawFramesJSON() string {
	files := []RawFrameHeaders{
		{Filename: "mage0001.fits", Headers: mageHeaders("HD 49798", "object", 15)},
		{Filename: "mage0003.fits", Headers: mageHeaders("QSO J0100+2802", "object", 1200)},
		{Filename: "mage0004.fits", Headers: mageHeaders("Flat", "domeflat", 5)},
	}
	body, _ := json.Marshal(files)
	return string(body)
}

func printTypedRows(table framematch.FrameTable) {
	for _, row := range table.Rows {
		fmt.Printf("%v %v %v %v\n", row.Filename, row.IDName, *row.ExpTime, row.FrameTypeString())
	}
}

func Example_framesHandler_Post() {
	frames := &MockFrameCatalogue{runID: "run-123"}
	apiRouter := MakeRouter(MakeMockSvcs(nil, frames))

	resp := executeRequest(makeRequest("POST", "/spectrograph/magellan_mage/frames", rawFramesJSON()), apiRouter.Router)
	result := framesPostResponse{}
	err := json.Unmarshal(resp.Body.Bytes(), &result)
	fmt.Println(resp.Code, err, result.RunID)
	printTypedRows(result.Table)

	// Stored in the catalogue, and can be read back
	fmt.Println(len(frames.tables["magellan_mage"].Rows))

	resp = executeRequest(makeRequest("GET", "/spectrograph/magellan_mage/frames", ""), apiRouter.Router)
	table := framematch.FrameTable{}
	err = json.Unmarshal(resp.Body.Bytes(), &table)
	fmt.Println(resp.Code, err)
	printTypedRows(table)

	// Output:
	// 200 <nil> run-123
	// mage0001.fits object 15 standard,tilt
	// mage0003.fits object 1200 arc,dark,science,tilt
	// mage0004.fits domeflat 5 pixelflat,trace
	// 3
	// 200 <nil>
	// mage0001.fits object 15 standard,tilt
	// mage0003.fits object 1200 arc,dark,science,tilt
	// mage0004.fits domeflat 5 pixelflat,trace
}

func Example_framesHandler_NoCatalogue() {
	apiRouter := MakeRouter(MakeMockSvcs(nil, nil))

	resp := executeRequest(makeRequest("POST", "/spectrograph/magellan_mage/frames", rawFramesJSON()), apiRouter.Router)
	result := framesPostResponse{}
	err := json.Unmarshal(resp.Body.Bytes(), &result)
	fmt.Printf("%v %v \"%v\" %v\n", resp.Code, err, result.RunID, len(result.Table.Rows))

	resp = executeRequest(makeRequest("GET", "/spectrograph/magellan_mage/frames", ""), apiRouter.Router)
	fmt.Println(resp.Code)
	fmt.Print(resp.Body.String())

	// Output:
	// 200 <nil> "" 3
	// 503
	// frame catalogue is not configured
}

func TestFramesPostErrors(t *testing.T) {
	frames := &MockFrameCatalogue{runID: "run-123"}
	apiRouter := MakeRouter(MakeMockSvcs(nil, frames))

	resp := executeRequest(makeRequest("POST", "/spectrograph/magellan_mage/frames", "[]"), apiRouter.Router)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "no frames specified\n", resp.Body.String())

	resp = executeRequest(makeRequest("POST", "/spectrograph/magellan_mage/frames", `[{"headers": [{}]}]`), apiRouter.Router)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "frame has no file name\n", resp.Body.String())

	headers := mageHeaders("HD 49798", "object", 15)
	delete(headers[0], "EXPTIME")
	body, _ := json.Marshal([]RawFrameHeaders{{Filename: "mage0009.fits", Headers: headers}})
	resp = executeRequest(makeRequest("POST", "/spectrograph/magellan_mage/frames", string(body)), apiRouter.Router)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "card EXPTIME not in extension 0")

	resp = executeRequest(makeRequest("POST", "/spectrograph/keck_hires/frames", rawFramesJSON()), apiRouter.Router)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	frames.failPut = true
	resp = executeRequest(makeRequest("POST", "/spectrograph/magellan_mage/frames", rawFramesJSON()), apiRouter.Router)
	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Equal(t, "failed to store frames: mongo went away\n", resp.Body.String())
}
