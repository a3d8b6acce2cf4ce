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

// Exports of typed frame tables as CSV or Excel files, either written to a local directory/S3
// bucket or bundled into a zip for download.
package export

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/pkg/errors"
	"github.com/specrdx/core/core/fileaccess"
	"github.com/specrdx/core/core/framematch"
	"github.com/specrdx/core/core/utils"
)

// ErrUnknownFormat - requested export format/file id isn't supported
var ErrUnknownFormat = errors.New("unknown export format")

const FileIdFrameTableCSV = "frame-table-csv"
const FileIdFrameTableXLSX = "frame-table-xlsx"

// The actual exporter, implemented by our package. This is so we can be used as part of an interface by caller
type Exporter struct {
}

// MakeExportFilesZip - makes a zip file containing the frame table in every requested format. File
// names start with the (cleaned up) outfileNamePrefix.
func (m *Exporter) MakeExportFilesZip(outfileNamePrefix string, table framematch.FrameTable, columns []string, fileIDs []string) ([]byte, error) {
	if len(fileIDs) <= 0 {
		return nil, errors.Wrap(ErrUnknownFormat, "no file ids requested")
	}

	fileNamePrefix := utils.MakeSaveableFileName(outfileNamePrefix)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, id := range fileIDs {
		var ext string
		switch id {
		case FileIdFrameTableCSV:
			ext = ".csv"
		case FileIdFrameTableXLSX:
			ext = ".xlsx"
		default:
			return nil, errors.Wrapf(ErrUnknownFormat, "%q", id)
		}

		w, err := zw.Create(fileNamePrefix + "-frames" + ext)
		if err != nil {
			return nil, err
		}

		err = writeTable(w, ext, table, columns)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to export %v", id)
		}
	}

	err := zw.Close()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeTable(w io.Writer, ext string, table framematch.FrameTable, columns []string) error {
	switch ext {
	case ".csv":
		return WriteFrameTableCSV(w, table, columns)
	case ".xlsx":
		return WriteFrameTableXLSX(w, table, columns)
	}
	return errors.Wrapf(ErrUnknownFormat, "%q", ext)
}

// WriteFrameTable - writes the table to filePath, the format chosen by its extension (.csv or .xlsx)
func WriteFrameTable(fs fileaccess.FileAccess, bucket string, filePath string, table framematch.FrameTable, columns []string) error {
	var buf bytes.Buffer
	err := writeTable(&buf, strings.ToLower(path.Ext(filePath)), table, columns)
	if err != nil {
		return err
	}

	err = fs.WriteObject(bucket, filePath, buf.Bytes())
	if err != nil {
		return fmt.Errorf("failed to write %v: %v", filePath, err)
	}
	return nil
}
