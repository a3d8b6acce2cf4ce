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
	"errors"
	"fmt"

	"github.com/specrdx/core/api/handlers"
	apiRouter "github.com/specrdx/core/api/router"
	"github.com/specrdx/core/core/errorwithstatus"
	"github.com/specrdx/core/core/framematch"
	"github.com/specrdx/core/core/metadata"
)

////////////////////////////////////////////////////////////////////////////////////////////////////////////
// Frame typing and the frame catalogue

// RawFrameHeaders - headers of one raw file, one per HDU
type RawFrameHeaders struct {
	Filename string            `json:"filename"`
	Headers  []metadata.Header `json:"headers"`
}

type framesPostResponse struct {
	// Empty if no catalogue is configured
	RunID string                `json:"runId,omitempty"`
	Table framematch.FrameTable `json:"table"`
}

var errNoCatalogue = errors.New("frame catalogue is not configured")

func registerFramesHandler(router *apiRouter.ApiObjectRouter) {
	router.AddJSONHandler(handlers.MakeEndpointPath(spectrographPathPrefix, handlers.Param(idIdentifier), "frames"), "POST", framesPost)
	router.AddJSONHandler(handlers.MakeEndpointPath(spectrographPathPrefix, handlers.Param(idIdentifier), "frames"), "GET", framesGet)
}

// Builds and types a frame table from raw headers, storing it if we have somewhere to
func framesPost(params handlers.ApiHandlerParams) (interface{}, error) {
	s, err := getSpectrograph(params)
	if err != nil {
		return nil, err
	}

	files := []RawFrameHeaders{}
	if err := handlers.ReadJSONBody(params.Request, &files); err != nil {
		return nil, err
	}

	if len(files) <= 0 {
		return nil, errorwithstatus.MakeBadRequestError(errors.New("no frames specified"))
	}

	table := framematch.FrameTable{}
	for _, f := range files {
		if len(f.Filename) <= 0 {
			return nil, errorwithstatus.MakeBadRequestError(errors.New("frame has no file name"))
		}

		row, err := s.FrameRow(f.Filename, f.Headers, params.Svcs.Log)
		if err != nil {
			return nil, err
		}
		table.Rows = append(table.Rows, row)
	}

	par, err := s.DefaultPar()
	if err != nil {
		return nil, err
	}

	typed, err := s.TypeFrames(table, par)
	if err != nil {
		return nil, err
	}

	result := framesPostResponse{Table: typed}
	if params.Svcs.Frames != nil {
		result.RunID, err = params.Svcs.Frames.PutTable(params.Request.Context(), s.Name(), typed)
		if err != nil {
			return nil, fmt.Errorf("failed to store frames: %v", err)
		}
	}

	return result, nil
}

func framesGet(params handlers.ApiHandlerParams) (interface{}, error) {
	if params.Svcs.Frames == nil {
		return nil, errorwithstatus.MakeServiceUnavailableError(errNoCatalogue)
	}

	s, err := getSpectrograph(params)
	if err != nil {
		return nil, err
	}

	return params.Svcs.Frames.Table(params.Request.Context(), s.Name())
}
