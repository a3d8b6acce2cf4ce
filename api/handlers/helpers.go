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

package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/specrdx/core/api/config"
	"github.com/specrdx/core/api/services"
	"github.com/specrdx/core/core/binning"
	"github.com/specrdx/core/core/bpm"
	"github.com/specrdx/core/core/detector"
	"github.com/specrdx/core/core/errorwithstatus"
	"github.com/specrdx/core/core/export"
	"github.com/specrdx/core/core/framematch"
	"github.com/specrdx/core/core/framestore"
	"github.com/specrdx/core/core/logger"
	"github.com/specrdx/core/core/metadata"
	"github.com/specrdx/core/core/params"
	"github.com/specrdx/core/core/pixels"
	"github.com/specrdx/core/core/slitmask"
	"github.com/specrdx/core/core/spectrograph"
)

const HostParamName = "hostname"

// Status codes reported for errors coming out of the engine packages
var engineErrors = errorwithstatus.Classifier{
	spectrograph.ErrUnknownSpectrograph: http.StatusNotFound,
	framestore.ErrNotFound:              http.StatusNotFound,
	slitmask.ErrSlitOutOfRange:          http.StatusBadRequest,
	slitmask.ErrInvalidSlitType:         http.StatusBadRequest,
	framematch.ErrUnknownFrameType:      http.StatusBadRequest,
	bpm.ErrInvalidDetector:              http.StatusBadRequest,
	pixels.ErrInvalidShape:              http.StatusBadRequest,
	binning.ErrBadBinning:               http.StatusBadRequest,
	detector.ErrBadSection:              http.StatusBadRequest,
	params.ErrInvalidParameter:          http.StatusBadRequest,
	metadata.ErrMissingCard:             http.StatusBadRequest,
	metadata.ErrNoDerivation:            http.StatusBadRequest,
	metadata.ErrUnknownKey:              http.StatusBadRequest,
	export.ErrUnknownFormat:             http.StatusBadRequest,
}

// Helper functions for the above handlers
func makePathParams(svcs *services.APIServices, r *http.Request) map[string]string {
	// Get path params
	pathParams := mux.Vars(r)
	if pathParams == nil {
		pathParams = map[string]string{}
	}

	queries := r.URL.Query()
	for q, v := range queries {
		if len(v) > 0 {
			pathParams[q] = v[0] // we ignore subsequent ones
		}
	}

	// Set the host name in case anything needs it
	if svcs.Config.EnvironmentName == config.EnvLocal {
		pathParams[HostParamName] = "http://" + r.Host
	} else {
		pathParams[HostParamName] = "https://" + r.Host
	}

	return pathParams
}

// StatusForError - HTTP status code the API reports for err
func StatusForError(err error) int {
	return engineErrors.Classify(err).Status()
}

// ReadJSONBody - decodes the request body into v, failures are the caller's fault
func ReadJSONBody(r *http.Request, v interface{}) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if err != nil {
		return errorwithstatus.MakeBadRequestError(err)
	}
	return nil
}

func logHandlerErrors(err error, log logger.ILogger, w http.ResponseWriter, r *http.Request) {
	se := engineErrors.Classify(err)
	log.Errorf("Request: %v (%v), Result: status=%v, error=%v", r.URL, r.Method, se.Status(), se)

	http.Error(w, se.Error(), se.Status())
}
