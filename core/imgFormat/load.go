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

package imgFormat

import (
	"bytes"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
	"github.com/specrdx/core/core/fileaccess"
)

// ReadFITSBytes - decodes a FITS file held in memory, gunzipping it first when gzipped is set
func ReadFITSBytes(data []byte, gzipped bool) (*RawFrame, error) {
	var r io.Reader = bytes.NewReader(data)
	if gzipped {
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, errors.Wrap(err, "failed to open gzip stream")
		}
		defer zr.Close()
		r = zr
	}
	return ReadFITS(r)
}

// ReadFITSFile - reads a raw frame from a local directory or S3 bucket. Files ending in .gz are
// decompressed.
func ReadFITSFile(fs fileaccess.FileAccess, bucket string, path string) (*RawFrame, error) {
	data, err := fs.ReadObject(bucket, path)
	if err != nil {
		return nil, err
	}

	frame, err := ReadFITSBytes(data, strings.HasSuffix(strings.ToLower(path), ".gz"))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %v", path)
	}
	return frame, nil
}
