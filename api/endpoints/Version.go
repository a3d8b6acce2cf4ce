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
	"fmt"

	"github.com/specrdx/core/api/handlers"
	apiRouter "github.com/specrdx/core/api/router"
	"github.com/specrdx/core/api/services"
	"github.com/specrdx/core/core/api"
)

////////////////////////////////////////////////////////////////////////////////////////////////////////////
// Version

type ComponentVersion struct {
	Component string `json:"component"`
	Version   string `json:"version"`
}

type VersionResponse struct {
	Versions []ComponentVersion `json:"versions"`
}

func getAPIVersion() string {
	ver := services.ApiVersion
	if len(services.ApiVersion) <= 0 {
		ver = "(Local build)"
	}

	if len(services.GitHash) > 0 {
		hashEnd := 8
		if len(services.GitHash) < 8 {
			hashEnd = len(services.GitHash)
		}
		ver += "-" + services.GitHash[0:hashEnd]
	}

	return ver
}

func registerVersionHandler(router *apiRouter.ApiObjectRouter) {
	// User goes to root of API, returns HTML
	router.AddGenericHandler("/", "GET", RootRequest)

	// User requesting version as JSON
	router.AddGenericHandler("/version", "GET", GetVersionJSON)
}

// GetVersionJSON - API version, followed by the version of every instrument we can serve
func GetVersionJSON(params handlers.ApiHandlerGenericParams) error {
	result := VersionResponse{
		Versions: []ComponentVersion{
			{
				Component: "API",
				Version:   getAPIVersion(),
			},
		},
	}

	names, err := params.Svcs.Spectrographs.Names()
	if err != nil {
		return err
	}

	for _, name := range names {
		ver := "error"
		s, err := params.Svcs.Spectrographs.Get(name)
		if err == nil {
			ver = s.Version().String()
		} else {
			params.Svcs.Log.Errorf("Failed to load %v for version request: %v", name, err)
		}

		result.Versions = append(result.Versions, ComponentVersion{Component: name, Version: ver})
	}

	return api.ToJSON(params.Writer, result)
}

// RootRequest - status page for anyone pointing a browser at the API
func RootRequest(params handlers.ApiHandlerGenericParams) error {
	params.Writer.Header().Add("Content-Type", "text/html")

	var start string = `<!DOCTYPE html>
<html lang="en"><head></head>
<body style="font-family: Arial, Helvetica, sans-serif">
<center>`
	var midtemplate = "<h1>SPECRDX API</h1><p>Version %s</p><p>Git Commit: %s"
	var mid = fmt.Sprintf(midtemplate, getAPIVersion(), services.GitHash)
	var end string = `</p>
</center>
</body>`

	params.Writer.Write([]byte(start + mid + end))
	return nil
}
