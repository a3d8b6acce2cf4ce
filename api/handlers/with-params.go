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
	"net/http"

	"github.com/specrdx/core/api/services"
	"github.com/specrdx/core/core/api"
)

// Handlers returning a value to be sent as JSON. Query parameters are merged into PathParams
type ApiHandlerParams struct {
	Svcs       *services.APIServices
	PathParams map[string]string
	Request    *http.Request
}
type ApiHandlerFunc func(ApiHandlerParams) (interface{}, error)

type ApiHandlerJSON struct {
	*services.APIServices
	Handler ApiHandlerFunc
}

func (h ApiHandlerJSON) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	params := ApiHandlerParams{
		Svcs:       h.APIServices,
		PathParams: makePathParams(h.APIServices, r),
		Request:    r,
	}

	resp, err := h.Handler(params)
	if err != nil {
		logHandlerErrors(err, h.APIServices.Log, w, r)
		return
	}

	// Headers are already out by the time encoding fails, so all we can do is log it
	if err := api.ToJSON(w, resp); err != nil {
		h.APIServices.Log.Errorf("Failed to write JSON response to %v (%v): %v", r.URL, r.Method, err)
	}
}
