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

package framematch

import (
	"strings"

	"github.com/specrdx/core/core/utils"
)

// FrameRow - one raw exposure
type FrameRow struct {
	Filename   string                 `json:"filename" bson:"filename"`
	IDName     string                 `json:"idname" bson:"idname"`
	ExpTime    *float64               `json:"exptime" bson:"exptime"`
	Meta       map[string]interface{} `json:"meta,omitempty" bson:"meta,omitempty"`
	FrameTypes []FrameType            `json:"frametypes,omitempty" bson:"frametypes,omitempty"`
}

// FrameTypeString - types joined as they appear in typed tables, eg "arc,tilt", or "None"
func (r FrameRow) FrameTypeString() string {
	if len(r.FrameTypes) == 0 {
		return "None"
	}
	names := make([]string, len(r.FrameTypes))
	for c, ft := range r.FrameTypes {
		names[c] = string(ft)
	}
	return strings.Join(names, ",")
}

func (r FrameRow) HasType(ftype FrameType) bool {
	return utils.ItemInSlice(ftype, r.FrameTypes)
}

// FrameTable - the set of raw exposures being reduced together
type FrameTable struct {
	Rows []FrameRow `json:"rows"`
}

// ExpTimes - the exposure time column
func (t FrameTable) ExpTimes() []*float64 {
	result := make([]*float64, len(t.Rows))
	for c, row := range t.Rows {
		result[c] = row.ExpTime
	}
	return result
}

// FilesOfType - file names of the rows typed as ftype, in table order
func (t FrameTable) FilesOfType(ftype FrameType) []string {
	result := []string{}
	for _, row := range t.Rows {
		if row.HasType(ftype) {
			result = append(result, row.Filename)
		}
	}
	return result
}

// TypeFrames - assigns every matching frame type to each row. ranges holds the exposure range per
// frame type, missing entries mean unbounded. Returns a copy of the table with FrameTypes set.
func TypeFrames(table FrameTable, rules Rules, ranges map[FrameType]ExposureRange) (FrameTable, error) {
	result := FrameTable{Rows: make([]FrameRow, len(table.Rows))}
	copy(result.Rows, table.Rows)
	for c := range result.Rows {
		result.Rows[c].FrameTypes = nil
	}

	for _, ft := range FrameTypes {
		matches, err := rules.Check(ft, table, ranges[ft])
		if err != nil {
			return FrameTable{}, err
		}
		for c, match := range matches {
			if match {
				result.Rows[c].FrameTypes = append(result.Rows[c].FrameTypes, ft)
			}
		}
	}

	return result, nil
}
