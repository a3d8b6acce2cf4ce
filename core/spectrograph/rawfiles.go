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

package spectrograph

import (
	"path"
	"strings"

	"github.com/pkg/errors"
	"github.com/specrdx/core/core/fileaccess"
	"github.com/specrdx/core/core/framematch"
	"github.com/specrdx/core/core/imgFormat"
	"github.com/specrdx/core/core/logger"
	"github.com/specrdx/core/core/utils"
)

// ListRawFrames - raw frame files under dir, sorted by file name. Other files are skipped.
func ListRawFrames(fs fileaccess.FileAccess, bucket string, dir string) ([]string, error) {
	prefix := dir
	if len(prefix) > 0 && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	paths, err := fs.ListObjects(bucket, prefix)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list raw frames in %v", dir)
	}

	return utils.RawFrameFiles(paths), nil
}

// ReadFrameTable - reads each raw file's headers and builds an untyped frame table, rows named by
// the file's base name
func (s *Spectrograph) ReadFrameTable(fs fileaccess.FileAccess, bucket string, paths []string, log logger.ILogger) (framematch.FrameTable, error) {
	table := framematch.FrameTable{Rows: []framematch.FrameRow{}}

	for _, p := range paths {
		frame, err := imgFormat.ReadFITSFile(fs, bucket, p)
		if err != nil {
			return table, err
		}

		row, err := s.FrameRow(path.Base(p), frame.Headers, log)
		if err != nil {
			return table, err
		}
		table.Rows = append(table.Rows, row)
	}

	log.Infof("Read %v %v frame(s)", len(table.Rows), s.Name())
	return table, nil
}
