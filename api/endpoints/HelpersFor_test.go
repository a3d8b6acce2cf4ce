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
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"

	"github.com/gorilla/mux"
	"github.com/specrdx/core/api/config"
	"github.com/specrdx/core/api/services"
	"github.com/specrdx/core/core/export"
	"github.com/specrdx/core/core/fileaccess"
	"github.com/specrdx/core/core/framematch"
	"github.com/specrdx/core/core/logger"
	"github.com/specrdx/core/core/metadata"
	"github.com/specrdx/core/core/spectrograph"
	"github.com/specrdx/core/core/timestamper"
)

type MockExporter struct {
	downloadReturn []byte
	fileNamePrefix string
	table          framematch.FrameTable
	columns        []string
	fileIDs        []string
}

func (m *MockExporter) MakeExportFilesZip(fileNamePrefix string, table framematch.FrameTable, columns []string, fileIDs []string) ([]byte, error) {
	m.fileNamePrefix = fileNamePrefix
	m.table = table
	m.columns = columns
	m.fileIDs = fileIDs
	return m.downloadReturn, nil
}

// MockFrameCatalogue - in-memory frame catalogue, keeps the last table stored per instrument
type MockFrameCatalogue struct {
	runID   string
	tables  map[string]framematch.FrameTable
	failPut bool
}

func (m *MockFrameCatalogue) PutTable(ctx context.Context, instrument string, table framematch.FrameTable) (string, error) {
	if m.failPut {
		return "", errors.New("mongo went away")
	}
	if m.tables == nil {
		m.tables = map[string]framematch.FrameTable{}
	}
	m.tables[instrument] = table
	return m.runID, nil
}

func (m *MockFrameCatalogue) Table(ctx context.Context, instrument string) (framematch.FrameTable, error) {
	return m.tables[instrument], nil
}

func MakeMockSvcs(log logger.ILogger, frames services.FrameCatalogue) services.APIServices {
	if log == nil {
		log = &logger.NullLogger{}
	}

	cfg := config.APIConfig{
		EnvironmentName: config.EnvUnitTest,
		LogLevel:        logger.LogDebug,
		AssetsRoot:      "spectrographs",
	}

	fs := &fileaccess.FSAccess{}

	svcs := services.APIServices{
		Config:        cfg,
		Log:           log,
		FS:            fs,
		Spectrographs: spectrograph.NewCatalogue(fs, "", cfg.AssetsRoot, log),
		Exporter:      &export.Exporter{},
		TimeStamper:   &timestamper.MockTimeNowStamper{QueuedTimeStamps: []int64{1700000000}},
		Frames:        frames,
	}
	return svcs
}

func executeRequest(req *http.Request, router *mux.Router) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func makeRequest(method string, url string, body string) *http.Request {
	var req *http.Request
	if len(body) > 0 {
		req, _ = http.NewRequest(method, url, bytes.NewReader([]byte(body)))
	} else {
		req, _ = http.NewRequest(method, url, nil)
	}
	return req
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
