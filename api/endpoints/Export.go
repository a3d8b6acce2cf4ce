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
	"path"
	"strings"
	"time"

	"github.com/specrdx/core/api/handlers"
	apiRouter "github.com/specrdx/core/api/router"
	"github.com/specrdx/core/core/api"
	"github.com/specrdx/core/core/errorwithstatus"
	"github.com/specrdx/core/core/framematch"
)

////////////////////////////////////////////////////////////////////////////////////////////////////////////
// Export

// Root of archived exports in the export bucket
const exportArchiveRoot = "frame-exports"

type exportFilesParams struct {
	FileName string                `json:"fileName"`
	FileIDs  []string              `json:"fileIds"`
	Columns  []string              `json:"columns"`
	Table    framematch.FrameTable `json:"table"`
}

func registerExportHandler(router *apiRouter.ApiObjectRouter) {
	const pathPrefix = "export"

	router.AddGenericHandler(handlers.MakeEndpointPath(pathPrefix, "frames"), "POST", exportFramesPost)
}

func exportFramesPost(params handlers.ApiHandlerGenericParams) error {
	var req exportFilesParams
	if err := handlers.ReadJSONBody(params.Request, &req); err != nil {
		return err
	}

	if len(req.FileIDs) <= 0 {
		return errorwithstatus.MakeBadRequestError(fmt.Errorf("No File IDs specified, nothing to export"))
	}

	if !strings.HasSuffix(req.FileName, ".zip") {
		return errorwithstatus.MakeBadRequestError(fmt.Errorf("File name must end in .zip"))
	}

	// File name is mandated to end in .zip, but we don't want this in all our exports!
	filePrefix := req.FileName[0 : len(req.FileName)-4]

	zipData, err := params.Svcs.Exporter.MakeExportFilesZip(filePrefix, req.Table, req.Columns, req.FileIDs)
	if err != nil {
		return err
	}

	// Keep a copy if we have somewhere to put it
	if len(params.Svcs.Config.ExportBucket) > 0 {
		timeNow := params.Svcs.TimeStamper.GetTimeNowSec() // Read time this way so it can be mocked
		datestamp := time.Unix(timeNow, 0).UTC().Format("2006-01-02")
		archivePath := path.Join(exportArchiveRoot, datestamp, fmt.Sprintf("%v-%v", timeNow, req.FileName))

		if err := params.Svcs.FS.WriteObject(params.Svcs.Config.ExportBucket, archivePath, zipData); err != nil {
			return err
		}
		params.Svcs.Log.Infof("Archived export to %v/%v", params.Svcs.Config.ExportBucket, archivePath)
	}

	params.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Disposition")
	if err := api.ToAttachment(params.Writer, req.FileName, "application/octet-stream", zipData); err != nil {
		params.Svcs.Log.Errorf("Failed to write zip contents of %v to response: %v", req.FileName, err)
	}

	return nil
}
