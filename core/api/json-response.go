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

// api - package for containing "core" API things, which are reusable
// in building any HTTP API for spectrograph services. These should not contain
// endpoint business logic
package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/specrdx/core/core/utils"
)

////////////////////////////////////////////////////////////////////////////////////////////////////////////
// JSON Helper

// See:
// https://stackoverflow.com/questions/19038598/how-can-i-pretty-print-json-using-go

// ToJSON - writes v as indented JSON. A nil v sends just the content type header
func ToJSON(w http.ResponseWriter, v interface{}) error {
	w.Header().Add("Content-Type", "application/json")

	if v == nil {
		return nil
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", utils.PrettyPrintIndentForJSON)
	return enc.Encode(v)
}

// ToAttachment - sends data as a file download named fileName
func ToAttachment(w http.ResponseWriter, fileName string, contentType string, data []byte) error {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", fileName))
	w.Header().Set("Content-Length", fmt.Sprintf("%v", len(data)))
	w.Header().Set("Cache-Control", "no-store")

	_, err := w.Write(data)
	return err
}
